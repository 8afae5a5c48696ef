// Package xherr holds the error kinds surfaced by the cartridge packer.
package xherr

import (
	"fmt"

	"github.com/pkg/errors"
)

type (
	Kind int

	// Error is a structured failure: what went wrong (Kind), where (Subject),
	// and a human readable Message.
	Error struct {
		Kind    Kind
		Subject string
		Message string
		Cause   error
	}
)

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindFieldTooLong
	KindEncoding
	KindIntegrity
	KindExternalTool
	KindIO
	KindIndexOutOfRange
	KindInvalidSize
	KindSizeMismatch
)

var kindNames = map[Kind]string{
	KindUnknown:         "Unknown",
	KindConfiguration:   "ConfigurationError",
	KindFieldTooLong:    "FieldTooLong",
	KindEncoding:        "EncodingError",
	KindIntegrity:       "IntegrityError",
	KindExternalTool:    "ExternalToolError",
	KindIO:              "IOError",
	KindIndexOutOfRange: "IndexOutOfRange",
	KindInvalidSize:     "InvalidSize",
	KindSizeMismatch:    "SizeMismatch",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return name
}

func (r Error) Error() string {
	if r.Subject == "" {
		return fmt.Sprintf("%s: %s", r.Kind, r.Message)
	}
	return fmt.Sprintf("%s: %s: %s", r.Kind, r.Subject, r.Message)
}

func New(kind Kind, subject string, format string, args ...any) error {
	return Error{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}
}

func Configuration(subject string, format string, args ...any) error {
	return New(KindConfiguration, subject, format, args...)
}

// FieldTooLong reports a field whose encoded length does not fit in limit bytes.
func FieldTooLong(field string, limit int) error {
	return New(KindFieldTooLong, field, "exceeds %d bytes", limit)
}

func Encoding(subject string, format string, args ...any) error {
	return New(KindEncoding, subject, format, args...)
}

func Integrity(subject string, format string, args ...any) error {
	return New(KindIntegrity, subject, format, args...)
}

func ExternalTool(subject string, format string, args ...any) error {
	return New(KindExternalTool, subject, format, args...)
}

// IO wraps a filesystem failure; the cause stays reachable through errors.Is.
func IO(subject string, err error) error {
	return errors.WithStack(Error{
		Kind:    KindIO,
		Subject: subject,
		Message: err.Error(),
		Cause:   err,
	})
}

func IndexOutOfRange(subject string, index int, limit int) error {
	return New(KindIndexOutOfRange, subject, "index %d outside [0, %d)", index, limit)
}

func InvalidSize(subject string, expected int, actual int) error {
	return New(KindInvalidSize, subject, "expected %d bytes, got %d", expected, actual)
}

func SizeMismatch(subject string, expected int, actual int) error {
	return New(KindSizeMismatch, subject, "expected %d bytes, got %d", expected, actual)
}

func (r Error) Unwrap() error {
	return r.Cause
}

// KindOf walks the wrap chain of err and returns the first Kind found.
func KindOf(err error) Kind {
	var xe Error
	if errors.As(err, &xe) {
		return xe.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
