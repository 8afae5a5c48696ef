package config

import (
	"encoding/json"

	"github.com/pkg/errors"
)

func (r *Description) UnmarshalJSON(bs []byte) error {
	var text string
	if err := json.Unmarshal(bs, &text); err == nil {
		r.Default = text
		return nil
	}
	type plain Description
	var value plain
	if err := json.Unmarshal(bs, &value); err != nil {
		return errors.Wrap(err, "Description.UnmarshalJSON error")
	}
	*r = Description(value)
	return nil
}

func (r *Tags) UnmarshalJSON(bs []byte) error {
	var text string
	if err := json.Unmarshal(bs, &text); err == nil {
		*r = Tags{text}
		return nil
	}
	var values []string
	if err := json.Unmarshal(bs, &values); err != nil {
		return errors.Wrap(err, "Tags.UnmarshalJSON error")
	}
	*r = values
	return nil
}

func (r *Author) UnmarshalJSON(bs []byte) error {
	var text string
	if err := json.Unmarshal(bs, &text); err == nil {
		r.Name = text
		return nil
	}
	type plain Author
	var value plain
	if err := json.Unmarshal(bs, &value); err != nil {
		return errors.Wrap(err, "Author.UnmarshalJSON error")
	}
	*r = Author(value)
	return nil
}
