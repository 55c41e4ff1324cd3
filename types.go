package gospec

// Entity is an instance of a record being processed against a Schema.
// Values may be scalars, nested entities, slices, or *FieldError after processing.
type Entity = map[string]any

// Mode selects which transformation a processing pass performs.
type Mode int

const (
	ModeCoerce   Mode = iota // Convert raw values to declared types.
	ModeValidate             // Check values against declared constraints without transforming.
	ModeConform              // Coerce, then validate the coerced value.
	ModePresent              // Project values for display; nil results are omitted.
)

func (m Mode) String() string {
	switch m {
	case ModeCoerce:
		return "coerce"
	case ModeValidate:
		return "validate"
	case ModeConform:
		return "conform"
	case ModePresent:
		return "present"
	default:
		return "unknown"
	}
}

// ParseMode resolves a mode by its lower-case name.
func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{ModeCoerce, ModeValidate, ModeConform, ModePresent} {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

// Type is the declared type of a field: a scalar Tag, a nested *Schema,
// a Seq wrapping one of those, or a *Union.
type Type interface {
	isType()
}

// Seq declares that a field holds a sequence (or set) whose elements are
// processed against Elem. Elem must be a Tag, *Schema or *Union.
type Seq struct {
	Elem Type
	Set  bool
}

func (Seq) isType() {}

// SeqOf wraps t as "sequence of t".
func SeqOf(t Type) Seq { return Seq{Elem: t} }

// SetOf wraps t as "set of t". Coerced sets are de-duplicated.
func SetOf(t Type) Seq { return Seq{Elem: t, Set: true} }

// CoerceFunc converts a value; a non-nil error aborts the coercion chain.
type CoerceFunc func(v any) (any, error)

// Predicate reports whether v satisfies a constraint.
type Predicate func(v any) bool

// PresentFunc projects a value for display; returning nil omits the field.
type PresentFunc func(v any) (any, error)

// Validation pairs a predicate with the message reported when it fails.
type Validation struct {
	Pred    Predicate
	Message string
}

// Spec holds the rules for one field. Only Type is required.
type Spec struct {
	Type Type
	// Value is a fixed literal the coerced value must equal (discriminator fields).
	Value any
	// Coerce runs in order before the type coercer.
	Coerce []CoerceFunc
	// Validate predicates form a single constraint reported with Message.
	Validate []Predicate
	// Validations are evaluated in order; the first failure wins.
	Validations []Validation
	Message     string
	Present     []PresentFunc
}

// EntityCoerceFunc computes a value from the whole entity.
type EntityCoerceFunc func(e Entity) (any, error)

// EntityPredicate checks an invariant over the whole entity.
type EntityPredicate func(e Entity) bool

// EntityValidation pairs an entity predicate with its failure message.
type EntityValidation struct {
	Pred    EntityPredicate
	Message string
}

// EntitySpec is a virtual field evaluated against the whole entity. Results
// and failures are stored under Key. Coerce and Present functions run in
// order; each sees the entity with the previous result already under Key.
type EntitySpec struct {
	Key         string
	Coerce      []EntityCoerceFunc
	Validate    []EntityPredicate
	Validations []EntityValidation
	Message     string
	Present     []EntityCoerceFunc
}

// Schema maps field keys to Specs. Entity holds the ordered entity-level
// group, run after all fields succeed.
type Schema struct {
	Fields map[string]Spec
	Entity []EntitySpec
}

func (*Schema) isType() {}

// Keyword is a symbolic name value produced by the keyword tags.
type Keyword string

func (k Keyword) String() string { return string(k) }
