package gospec

import (
	"fmt"
	"reflect"

	"github.com/reoring/gospec/i18n"
)

// processField applies mode m to a single value against its spec. Sequence,
// nested-schema and union types are handled structurally; everything else
// goes through the scalar path.
func processField(m Mode, s Spec, v any) any {
	switch t := s.Type.(type) {
	case Tag:
		return processScalar(m, lookupType(t), s, v)
	case Seq:
		if v == nil {
			return nil
		}
		return processCompound(m, s, v, isSeqValue, func(m Mode, v any) any { return processSeq(m, t, v) })
	case *Schema:
		if t == nil {
			panic(&ConfigError{Err: ErrMalformedSchema, Msg: "nil schema"})
		}
		return processCompound(m, s, v, isMap, func(m Mode, v any) any { return processNested(m, t, s, v) })
	case *Union:
		if t == nil {
			panic(&ConfigError{Err: ErrMalformedSchema, Msg: "nil union"})
		}
		return processCompound(m, s, v, isMap, func(m Mode, v any) any { return processUnion(m, t, v) })
	case nil:
		panic(&ConfigError{Err: ErrMalformedSchema, Msg: "missing type"})
	default:
		panic(&ConfigError{Err: ErrMalformedSchema, Msg: fmt.Sprintf("unsupported type %T", t)})
	}
}

// ---- scalar ----

func processScalar(m Mode, te typeEntry, s Spec, v any) any {
	switch m {
	case ModeCoerce:
		return coerceScalar(te, s, v)
	case ModeValidate:
		return checkConstraints(s, v, te.valid)
	case ModeConform:
		c := coerceScalar(te, s, v)
		if IsFieldError(c) {
			return c
		}
		return checkConstraints(s, c, te.valid)
	case ModePresent:
		return presentValue(s, v)
	default:
		panic(fmt.Sprintf("gospec: unknown mode %d", m))
	}
}

// coerceScalar runs the spec's coerce functions in order with the type
// coercer appended last, then checks the fixed Value.
func coerceScalar(te typeEntry, s Spec, v any) any {
	out, fe := runCoerce(s, v)
	if fe != nil {
		return fe
	}
	out, err := te.coerce(out)
	if err != nil {
		return coerceFailure(s, err)
	}
	if fe := checkFixedValue(s, te, out, KindCoerce); fe != nil {
		return fe
	}
	return out
}

func runCoerce(s Spec, v any) (any, *FieldError) {
	for _, fn := range s.Coerce {
		nv, err := fn(v)
		if err != nil {
			return nil, coerceFailure(s, err)
		}
		v = nv
	}
	return v, nil
}

func coerceFailure(s Spec, err error) *FieldError {
	return newFieldError(KindCoerce, errOpts{message: s.Message, cause: err, def: i18n.T(i18n.Invalid, nil)})
}

// checkFixedValue compares a non-nil value with the spec's fixed Value after
// running Value through the same type coercer.
func checkFixedValue(s Spec, te typeEntry, v any, kind ErrorKind) *FieldError {
	if s.Value == nil || v == nil {
		return nil
	}
	want := s.Value
	if te.coerce != nil {
		if cv, err := te.coerce(want); err == nil && cv != nil {
			want = cv
		}
	}
	if reflect.DeepEqual(want, v) {
		return nil
	}
	return newFieldError(kind, errOpts{
		message: s.Message,
		def:     i18n.T(i18n.MustEqual, map[string]string{"value": fmt.Sprint(s.Value)}),
	})
}

// checkConstraints evaluates the implicit type constraint, the fixed value,
// the shared Validate constraint and then Validations, stopping at the first
// failure. On success v is returned unchanged.
func checkConstraints(s Spec, v any, typeValid func(any) bool) any {
	def := i18n.T(i18n.Invalid, nil)
	if typeValid != nil && !typeValid(v) {
		return newFieldError(KindValidate, errOpts{message: s.Message, def: def})
	}
	var te typeEntry
	if tag, ok := s.Type.(Tag); ok {
		te = lookupType(tag)
	}
	if fe := checkFixedValue(s, te, v, KindValidate); fe != nil {
		return fe
	}
	for _, pred := range s.Validate {
		if !pred(v) {
			return newFieldError(KindValidate, errOpts{message: s.Message, def: def})
		}
	}
	for _, c := range s.Validations {
		if !c.Pred(v) {
			return newFieldError(KindValidate, errOpts{message: c.Message, def: def})
		}
	}
	return v
}

// presentValue runs the present chain. Absent values stay absent.
func presentValue(s Spec, v any) any {
	if v == nil {
		return nil
	}
	for _, fn := range s.Present {
		nv, err := fn(v)
		if err != nil {
			return presentFailure(s.Message, err)
		}
		if nv == nil {
			return nil
		}
		v = nv
	}
	return v
}

func presentFailure(msg string, err error) *FieldError {
	if msg == "" {
		msg = i18n.T(i18n.PresentFailed, nil)
	}
	return newFieldError(KindPresent, errOpts{message: msg, cause: err})
}

// ---- compound (sequence, nested schema, union) ----

// processCompound wraps the structural step of a compound type with the
// spec's own functions: coerce functions run on the raw value first, and
// constraints run on the whole processed value once it carries no errors.
func processCompound(m Mode, s Spec, v any, typeValid func(any) bool, structural func(Mode, any) any) any {
	switch m {
	case ModeCoerce:
		cv, fe := runCoerce(s, v)
		if fe != nil {
			return fe
		}
		return structural(ModeCoerce, cv)
	case ModeValidate:
		r := structural(ModeValidate, v)
		if HasError(r) {
			return r
		}
		return checkConstraints(s, r, typeValid)
	case ModeConform:
		cv, fe := runCoerce(s, v)
		if fe != nil {
			return fe
		}
		r := structural(ModeConform, cv)
		if HasError(r) {
			return r
		}
		return checkConstraints(s, r, typeValid)
	case ModePresent:
		r := structural(ModePresent, v)
		if HasError(r) {
			return r
		}
		return presentValue(s, r)
	default:
		panic(fmt.Sprintf("gospec: unknown mode %d", m))
	}
}

// failKind maps a mode to the kind of error a structural mismatch produces.
func failKind(m Mode) ErrorKind {
	switch m {
	case ModeCoerce, ModeConform:
		return KindCoerce
	case ModePresent:
		return KindPresent
	default:
		return KindValidate
	}
}

// ---- sequence ----

func isSeqValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := asSlice(v)
	return ok
}

func processSeq(m Mode, t Seq, v any) any {
	if v == nil {
		return nil
	}
	items, ok := asSlice(v)
	if !ok {
		return newFieldError(failKind(m), errOpts{def: i18n.T(i18n.ExpectedCollection, nil)})
	}
	elem := Spec{Type: t.Elem}
	out := make([]any, 0, len(items))
	for _, it := range items {
		r := processField(m, elem, it)
		if m == ModePresent && r == nil {
			continue
		}
		out = append(out, r)
	}
	if HasError(out) {
		return out
	}
	switch {
	case m == ModeValidate:
		// validation never transforms
		return v
	case t.Set && (m == ModeCoerce || m == ModeConform):
		return dedupe(out)
	}
	return out
}

// asSlice accepts any Go slice or array and returns its elements as []any.
func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte and byte arrays (uuid.UUID) are scalars, not collections
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// dedupe keeps the first occurrence of each element.
func dedupe(items []any) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		dup := false
		for _, seen := range out {
			if reflect.DeepEqual(seen, it) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return out
}

// ---- nested schema ----

func processNested(m Mode, sch *Schema, s Spec, v any) any {
	if v == nil {
		return nil
	}
	switch m {
	case ModeCoerce, ModeConform:
		mv, ok := toMap(v)
		if !ok {
			return coerceFailure(s, &CoercionError{Value: v, Type: "map"})
		}
		return processEntity(m, sch, mv)
	case ModeValidate:
		mv, ok := v.(map[string]any)
		if !ok {
			return newFieldError(KindValidate, errOpts{message: s.Message, def: i18n.T(i18n.Invalid, nil)})
		}
		return processEntity(m, sch, mv)
	default:
		// present has no implicit type step
		if mv, ok := v.(map[string]any); ok {
			return processEntity(m, sch, mv)
		}
		return v
	}
}

// toMap normalizes v into a plain string-keyed map. It accepts
// map[string]any, other maps (keys rendered with fmt.Sprint), and
// sequences of key/value pairs.
func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[keyString(iter.Key().Interface())] = iter.Value().Interface()
		}
		return out, true
	case reflect.Slice, reflect.Array:
		items, ok := asSlice(v)
		if !ok {
			return nil, false
		}
		out := make(map[string]any, len(items))
		for _, it := range items {
			pair, ok := asSlice(it)
			if !ok || len(pair) != 2 {
				return nil, false
			}
			out[keyString(pair[0])] = pair[1]
		}
		return out, true
	}
	return nil, false
}

func keyString(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case Keyword:
		return string(x)
	default:
		return fmt.Sprint(k)
	}
}
