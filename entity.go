package gospec

import (
	"fmt"

	"github.com/reoring/gospec/i18n"
)

// processEntity applies mode m to every declared field of sch, dropping keys
// the schema does not declare, then runs the entity-level group when no
// field failed. Every entity-level validation runs and fails under its own
// key; a coerce or present failure ends the group because later specs may
// read the value it should have stored. The input entity is never mutated.
func processEntity(m Mode, sch *Schema, e Entity) Entity {
	out := make(Entity, len(sch.Fields))
	for _, k := range sch.fieldKeys() {
		if r := processField(m, sch.Fields[k], e[k]); r != nil {
			out[k] = r
		}
	}
	if HasError(out) {
		return out
	}
	for _, es := range sch.Entity {
		if !processEntitySpec(m, es, out) {
			break
		}
	}
	return out
}

// processEntitySpec runs one entity-level spec against out, storing its
// result or failure under es.Key. It reports whether the rest of the group
// may still run.
func processEntitySpec(m Mode, es EntitySpec, out Entity) bool {
	switch m {
	case ModeCoerce:
		return coerceEntitySpec(es, out)
	case ModeValidate:
		validateEntitySpec(es, out)
		return true
	case ModeConform:
		if !coerceEntitySpec(es, out) {
			return false
		}
		validateEntitySpec(es, out)
		return true
	case ModePresent:
		return presentEntitySpec(es, out)
	default:
		panic(fmt.Sprintf("gospec: unknown mode %d", m))
	}
}

func coerceEntitySpec(es EntitySpec, out Entity) bool {
	for _, fn := range es.Coerce {
		v, err := fn(out)
		if err != nil {
			out[es.Key] = newFieldError(KindCoerce, errOpts{message: es.Message, cause: err, def: i18n.T(i18n.Invalid, nil)})
			return false
		}
		store(out, es.Key, v)
	}
	return true
}

func validateEntitySpec(es EntitySpec, out Entity) {
	def := i18n.T(i18n.Invalid, nil)
	for _, pred := range es.Validate {
		if !pred(out) {
			out[es.Key] = newFieldError(KindValidate, errOpts{message: es.Message, def: def})
			return
		}
	}
	for _, c := range es.Validations {
		if !c.Pred(out) {
			out[es.Key] = newFieldError(KindValidate, errOpts{message: c.Message, def: def})
			return
		}
	}
}

func presentEntitySpec(es EntitySpec, out Entity) bool {
	for _, fn := range es.Present {
		v, err := fn(out)
		if err != nil {
			out[es.Key] = presentFailure(es.Message, err)
			return false
		}
		store(out, es.Key, v)
	}
	return true
}

// store writes v under k, removing the key for nil.
func store(e Entity, k string, v any) {
	if v == nil {
		delete(e, k)
		return
	}
	e[k] = v
}
