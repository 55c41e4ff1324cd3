package rules

import (
	"fmt"
	"strings"
	"time"

	gospec "github.com/reoring/gospec"
)

// Transforms have the func(any) (any, error) shape, so each one can be used
// both as a gospec.CoerceFunc and as a gospec.PresentFunc. Non-string inputs
// pass through the string transforms unchanged.

// Trim removes surrounding whitespace from strings.
func Trim(v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return v, nil
}

// Lower lower-cases strings.
func Lower(v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.ToLower(s), nil
	}
	return v, nil
}

// Upper upper-cases strings.
func Upper(v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.ToUpper(s), nil
	}
	return v, nil
}

// BlankToNil maps whitespace-only strings to nil.
func BlankToNil(v any) (any, error) {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return v, nil
}

// OmitBlank is BlankToNil for presenters: blank fields are omitted.
func OmitBlank(v any) (any, error) { return BlankToNil(v) }

// Omit always omits the value.
func Omit(any) (any, error) { return nil, nil }

// Default replaces nil with d.
func Default(d any) func(any) (any, error) {
	return func(v any) (any, error) {
		if v == nil {
			return d, nil
		}
		return v, nil
	}
}

// Split turns a string into a sequence of trimmed, non-empty parts.
// Non-string values pass through.
func Split(sep string) func(any) (any, error) {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		var out []any
		for _, p := range strings.Split(s, sep) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}
}

// Redact replaces any non-nil value with mask.
func Redact(mask string) func(any) (any, error) {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return mask, nil
	}
}

// FormatTime renders time values with layout. Other values are an error.
func FormatTime(layout string) func(any) (any, error) {
	return func(v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("rules: expected time.Time, got %T", v)
		}
		return t.Format(layout), nil
	}
}

// Stringify renders values with fmt.Sprint.
func Stringify(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if k, ok := v.(gospec.Keyword); ok {
		return string(k), nil
	}
	return fmt.Sprint(v), nil
}
