package gospec

// Process applies mode m to entity e against schema s. Keys s does not
// declare are dropped; failing fields are replaced in place by *FieldError.
// It panics with *ConfigError when s is malformed.
func Process(m Mode, s *Schema, e Entity) Entity {
	if s == nil {
		panic(&ConfigError{Err: ErrMalformedSchema, Msg: "nil schema"})
	}
	return processEntity(m, s, e)
}

// Coerce converts e's values to the types s declares.
func Coerce(s *Schema, e Entity) Entity { return Process(ModeCoerce, s, e) }

// Validate checks e against s without transforming values.
func Validate(s *Schema, e Entity) Entity { return Process(ModeValidate, s, e) }

// Conform coerces e and validates each successfully coerced value.
func Conform(s *Schema, e Entity) Entity { return Process(ModeConform, s, e) }

// Present projects e for display. Fields whose present chain yields nil are omitted.
func Present(s *Schema, e Entity) Entity { return Process(ModePresent, s, e) }

// Is reports whether e conforms to s.
func Is(s *Schema, e Entity) bool { return !HasError(Conform(s, e)) }

// ---- strict variants: a result holding errors becomes a *Failure ----

// ProcessStrict is like Process but returns a *Failure carrying the full
// result when any FieldError is present.
func ProcessStrict(m Mode, s *Schema, e Entity) (Entity, error) {
	out := Process(m, s, e)
	if HasError(out) {
		return out, newFailure(m, out)
	}
	return out, nil
}

// CoerceStrict is Coerce returning a *Failure when any value failed.
func CoerceStrict(s *Schema, e Entity) (Entity, error) { return ProcessStrict(ModeCoerce, s, e) }

// ValidateStrict is Validate returning a *Failure when any value failed.
func ValidateStrict(s *Schema, e Entity) (Entity, error) { return ProcessStrict(ModeValidate, s, e) }

// ConformStrict is Conform returning a *Failure when any value failed.
func ConformStrict(s *Schema, e Entity) (Entity, error) { return ProcessStrict(ModeConform, s, e) }

// PresentStrict is Present returning a *Failure when any value failed.
func PresentStrict(s *Schema, e Entity) (Entity, error) { return ProcessStrict(ModePresent, s, e) }

// ---- field-level mirrors ----

// ProcessValue applies mode m to a single value against spec. The result is
// the processed value, nil for an omitted value, or a *FieldError (possibly
// nested inside a sequence or entity).
func ProcessValue(m Mode, spec Spec, v any) any { return processField(m, spec, v) }

// CoerceValue coerces a single value against spec.
func CoerceValue(spec Spec, v any) any { return ProcessValue(ModeCoerce, spec, v) }

// ValidateValue validates a single value against spec. On success v is
// returned as given.
func ValidateValue(spec Spec, v any) any { return ProcessValue(ModeValidate, spec, v) }

// ConformValue coerces then validates a single value against spec.
func ConformValue(spec Spec, v any) any { return ProcessValue(ModeConform, spec, v) }

// PresentValue projects a single value for display; nil means omit.
func PresentValue(spec Spec, v any) any { return ProcessValue(ModePresent, spec, v) }
