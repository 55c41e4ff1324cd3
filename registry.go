package gospec

import (
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tag names a scalar type in the registry.
type Tag string

func (Tag) isType() {}

// Registered type tags.
const (
	TypeBool      Tag = "boolean"
	TypeString    Tag = "string"
	TypeInt       Tag = "integer"
	TypeLong      Tag = "long"
	TypeRef       Tag = "ref"
	TypeFloat     Tag = "float"
	TypeDouble    Tag = "double"
	TypeDecimal   Tag = "decimal"
	TypeDate      Tag = "date"
	TypeInstant   Tag = "instant"
	TypeTimestamp Tag = "timestamp"
	TypeInst      Tag = "inst"
	TypeKeyword   Tag = "keyword"
	TypeKwRef     Tag = "kw-ref"
	TypeURI       Tag = "uri"
	TypeUUID      Tag = "uuid"
	TypeIgnore    Tag = "ignore"
)

type typeEntry struct {
	valid  func(any) bool
	coerce func(any) (any, error)
}

// registry is initialized once and never mutated afterwards, so it is safe
// for concurrent readers.
var registry = map[Tag]typeEntry{
	TypeBool:      scalar(isBool, coerceBool(TypeBool)),
	TypeString:    {valid: nilOr(isString), coerce: nilPass(coerceString(TypeString))},
	TypeInt:       scalar(isInteger, coerceInt(TypeInt)),
	TypeLong:      scalar(isInteger, coerceInt(TypeLong)),
	TypeRef:       scalar(isInteger, coerceInt(TypeRef)),
	TypeFloat:     scalar(isFloat, coerceFloat(TypeFloat)),
	TypeDouble:    scalar(isFloat, coerceFloat(TypeDouble)),
	TypeDecimal:   scalar(isDecimal, coerceDecimal(TypeDecimal)),
	TypeDate:      scalar(isTime, coerceDate(TypeDate)),
	TypeInstant:   scalar(isTime, coerceInstant(TypeInstant)),
	TypeTimestamp: scalar(isTime, coerceInstant(TypeTimestamp)),
	TypeInst:      scalar(isTime, coerceInstant(TypeInst)),
	TypeKeyword:   scalar(isKeyword, coerceKeyword(TypeKeyword)),
	TypeKwRef:     scalar(isKeyword, coerceKeyword(TypeKwRef)),
	TypeURI:       scalar(isURI, coerceURI(TypeURI)),
	TypeUUID:      scalar(isUUID, coerceUUID(TypeUUID)),
	TypeIgnore:    {valid: func(any) bool { return true }, coerce: func(v any) (any, error) { return v, nil }},
}

// scalar builds an entry whose validator accepts nil and whose coercer maps
// nil and blank strings to nil.
func scalar(valid func(any) bool, coerce func(any) (any, error)) typeEntry {
	return typeEntry{valid: nilOr(valid), coerce: nilPass(blankNil(coerce))}
}

func nilOr(fn func(any) bool) func(any) bool {
	return func(v any) bool { return v == nil || fn(v) }
}

func nilPass(fn func(any) (any, error)) func(any) (any, error) {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return fn(v)
	}
}

func blankNil(fn func(any) (any, error)) func(any) (any, error) {
	return func(v any) (any, error) {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return fn(v)
	}
}

func lookupType(t Tag) typeEntry {
	e, ok := registry[t]
	if !ok {
		panic(&ConfigError{Err: ErrUnknownType, Msg: string(t)})
	}
	return e
}

// Registered reports whether t names a registered type.
func (t Tag) Registered() bool {
	_, ok := registry[t]
	return ok
}

// Accepts runs the type validator for t. It panics with *ConfigError for an
// unregistered tag.
func (t Tag) Accepts(v any) bool { return lookupType(t).valid(v) }

// Coerce runs the type coercer for t. It panics with *ConfigError for an
// unregistered tag.
func (t Tag) Coerce(v any) (any, error) { return lookupType(t).coerce(v) }

// RegisteredTags lists every registered tag in name order.
func RegisteredTags() []Tag {
	out := make([]Tag, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ---- validators ----

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isInteger(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float64, float32:
		return true
	}
	return false
}

func isDecimal(v any) bool {
	_, ok := v.(decimal.Decimal)
	return ok
}

func isTime(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func isKeyword(v any) bool {
	_, ok := v.(Keyword)
	return ok
}

func isURI(v any) bool {
	u, ok := v.(*url.URL)
	return ok && u != nil
}

func isUUID(v any) bool {
	_, ok := v.(uuid.UUID)
	return ok
}

// isMap is the type validator for nested schema fields.
func isMap(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(map[string]any)
	return ok
}
