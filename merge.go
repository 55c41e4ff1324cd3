package gospec

// MergeSchemas combines schema fragments field by field. For a key present
// in more than one fragment, each side's Validate predicates are first folded
// into a trailing Validations entry so both sides' constraints survive; the
// Validations lists are then concatenated left to right, and the remaining
// attributes follow last-write-wins (zero values never override). The
// entity-level groups are merged by key with the same rule. Nil fragments
// are skipped.
func MergeSchemas(fragments ...*Schema) *Schema {
	out := &Schema{Fields: map[string]Spec{}}
	for _, f := range fragments {
		if f == nil {
			continue
		}
		for k, s := range f.Fields {
			if prev, ok := out.Fields[k]; ok {
				out.Fields[k] = mergeSpec(prev, s)
				continue
			}
			out.Fields[k] = s
		}
		for _, es := range f.Entity {
			out.Entity = mergeEntitySpecs(out.Entity, es)
		}
	}
	return out
}

func mergeSpec(a, b Spec) Spec {
	a, b = foldValidate(a), foldValidate(b)
	out := a
	if b.Type != nil {
		out.Type = b.Type
	}
	if b.Value != nil {
		out.Value = b.Value
	}
	if b.Coerce != nil {
		out.Coerce = b.Coerce
	}
	if b.Message != "" {
		out.Message = b.Message
	}
	if b.Present != nil {
		out.Present = b.Present
	}
	out.Validations = concat(a.Validations, b.Validations)
	return out
}

// foldValidate turns a spec's Validate predicates into one appended
// Validations entry carrying the spec's Message.
func foldValidate(s Spec) Spec {
	if len(s.Validate) == 0 {
		return s
	}
	preds := s.Validate
	s.Validations = concat(s.Validations, []Validation{{Pred: allOf(preds), Message: s.Message}})
	s.Validate = nil
	return s
}

func allOf(preds []Predicate) Predicate {
	return func(v any) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

func mergeEntitySpecs(group []EntitySpec, es EntitySpec) []EntitySpec {
	for i := range group {
		if group[i].Key == es.Key {
			out := append([]EntitySpec(nil), group...)
			out[i] = mergeEntitySpec(group[i], es)
			return out
		}
	}
	return append(append([]EntitySpec(nil), group...), es)
}

func mergeEntitySpec(a, b EntitySpec) EntitySpec {
	a, b = foldEntityValidate(a), foldEntityValidate(b)
	out := a
	if b.Coerce != nil {
		out.Coerce = b.Coerce
	}
	if b.Message != "" {
		out.Message = b.Message
	}
	if b.Present != nil {
		out.Present = b.Present
	}
	out.Validations = concat(a.Validations, b.Validations)
	return out
}

func foldEntityValidate(s EntitySpec) EntitySpec {
	if len(s.Validate) == 0 {
		return s
	}
	preds := s.Validate
	s.Validations = concat(s.Validations, []EntityValidation{{
		Pred: func(e Entity) bool {
			for _, p := range preds {
				if !p(e) {
					return false
				}
			}
			return true
		},
		Message: s.Message,
	}})
	s.Validate = nil
	return s
}

// concat returns a fresh slice so fragments never share backing arrays.
func concat[T any](a, b []T) []T {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
