package gospec

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode binds a processed result into out, which must be a pointer to a
// struct or map. Struct fields are matched by their `spec` tag, falling back
// to a case-insensitive field name match. A result holding FieldErrors is
// rejected with a *Failure.
func Decode(result any, out any) error {
	if HasError(result) {
		return newFailure(ModeConform, result)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "spec",
	})
	if err != nil {
		return fmt.Errorf("gospec: decode: %w", err)
	}
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("gospec: decode: %w", err)
	}
	return nil
}
