package lbytes

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ExecuteInstructions create the final value t with type T by
//
//   - Reading the instruction into a map, then
//   - Create JSON bytes from the map, and finally
//   - Read the JSON bytes into t
//
// In order to lessen the burden of manual mapping.
func ExecuteInstructions[T any](instructions []Instruction) (*T, error) {
	tMap := map[string]any{}
	for _, instruction := range instructions {
		value, err := instruction.ReadFunction()
		if err != nil {
			err := errors.Wrapf(err, `ExecuteInstructions error reading key "%v"`, instruction.Key)
			return nil, err
		}
		if instruction.Key == "" {
			continue
		}
		tMap[instruction.Key] = value
	}
	tBytes, err := json.Marshal(tMap)
	if err != nil {
		err := errors.Wrapf(err, `ExecuteInstructions error marshalling map "%v" to JSON`, tMap)
		return nil, err
	}

	var t T
	if err := json.Unmarshal(tBytes, &t); err != nil {
		err := errors.Wrapf(
			err, `ExecuteInstructions error unmarshalling bytes "%s" to type "%T"`,
			string(tBytes), t,
		)
		return nil, err
	}

	return &t, nil
}

func CreateNBytesReadFunction(reader *Reader, n int) ReadFunction {
	return func() (any, error) {
		return reader.ReadBytes(n)
	}
}

func CreateU8ReadFunction(reader *Reader) ReadFunction {
	return func() (any, error) {
		return reader.ReadU8()
	}
}

func CreateU32ReadFunction(reader *Reader) ReadFunction {
	return func() (any, error) {
		return reader.ReadU32()
	}
}

func CreateU64ReadFunction(reader *Reader) ReadFunction {
	return func() (any, error) {
		return reader.ReadU64()
	}
}

// CreateStringReadFunction reads a zero-padded string field of n bytes.
func CreateStringReadFunction(reader *Reader, n int) ReadFunction {
	return func() (any, error) {
		return reader.ReadString(n)
	}
}

// CreateSkipFunction moves the reader to an absolute offset; pair it with an empty Key.
func CreateSkipFunction(reader *Reader, offset int) ReadFunction {
	return func() (any, error) {
		return nil, reader.SeekTo(offset)
	}
}
