package gospec

import (
	"fmt"
	"sort"
)

// NewSchema builds a Schema and checks it for configuration errors.
func NewSchema(fields map[string]Spec, entity ...EntitySpec) (*Schema, error) {
	s := &Schema{Fields: fields, Entity: entity}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(fields map[string]Spec, entity ...EntitySpec) *Schema {
	s, err := NewSchema(fields, entity...)
	if err != nil {
		panic(err)
	}
	return s
}

// Check reports the first configuration error found in s or any schema it
// references. Self-referencing schemas are checked once.
func (s *Schema) Check() error {
	return checkSchema(s, pathRef{}, map[*Schema]bool{})
}

// fieldKeys returns the declared field keys in ascending order for
// deterministic processing.
func (s *Schema) fieldKeys() []string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkSchema(s *Schema, at pathRef, seen map[*Schema]bool) error {
	if s == nil {
		return malformed(at, "nil schema")
	}
	if seen[s] {
		return nil
	}
	seen[s] = true
	for _, k := range s.fieldKeys() {
		if err := checkType(s.Fields[k].Type, at.Field(k), seen, false); err != nil {
			return err
		}
	}
	keys := make(map[string]bool, len(s.Entity))
	for i, es := range s.Entity {
		if es.Key == "" {
			return malformed(at.Field("*").Index(i), "entity-level spec without key")
		}
		if keys[es.Key] {
			return malformed(at.Field("*").Field(es.Key), "duplicate entity-level key")
		}
		keys[es.Key] = true
	}
	return nil
}

func checkType(t Type, at pathRef, seen map[*Schema]bool, inSeq bool) error {
	switch x := t.(type) {
	case nil:
		return malformed(at, "missing type")
	case Tag:
		if !x.Registered() {
			return &ConfigError{Path: at.Pointer(), Err: ErrUnknownType, Msg: string(x)}
		}
	case *Schema:
		return checkSchema(x, at, seen)
	case Seq:
		if inSeq {
			return malformed(at, "sequence of sequence")
		}
		return checkType(x.Elem, at, seen, true)
	case *Union:
		return checkUnion(x, at, seen)
	default:
		return malformed(at, fmt.Sprintf("unsupported type %T", t))
	}
	return nil
}

func malformed(at pathRef, msg string) *ConfigError {
	p := ""
	if len(at.parts) > 0 {
		p = at.Pointer()
	}
	return &ConfigError{Path: p, Err: ErrMalformedSchema, Msg: msg}
}
