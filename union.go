package gospec

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/reoring/gospec/i18n"
)

// Union selects one schema out of several for a mapping value.
//
// With a Discriminator, the variant is looked up by the string (or keyword)
// value stored under that key. Otherwise Candidates are tried in order and
// the first one whose result carries no FieldError wins.
type Union struct {
	Discriminator string
	Variants      map[string]*Schema
	Candidates    []*Schema
	// Message overrides the default failure message.
	Message string
}

func (*Union) isType() {}

// OneOf builds a first-match union over candidates.
func OneOf(candidates ...*Schema) *Union { return &Union{Candidates: candidates} }

// Discriminated builds a union keyed by the value stored under key.
func Discriminated(key string, variants map[string]*Schema) *Union {
	return &Union{Discriminator: key, Variants: variants}
}

func processUnion(m Mode, u *Union, v any) any {
	if v == nil {
		return nil
	}
	if u.Discriminator != "" {
		return processDiscriminated(m, u, v)
	}
	sel := selectMode(m)
	for _, c := range u.Candidates {
		r := processNested(sel, c, Spec{}, v)
		if r == nil || HasError(r) {
			continue
		}
		if sel != m {
			return processNested(m, c, Spec{}, v)
		}
		return r
	}
	msg := u.Message
	if msg == "" {
		msg = i18n.T(i18n.NoVariant, map[string]string{"count": strconv.Itoa(len(u.Candidates))})
	}
	return newFieldError(failKind(m), errOpts{message: msg})
}

// selectMode is the mode a candidate must pass to be chosen: coerce picks
// the first candidate that conforms, present the first that validates the
// already-shaped value.
func selectMode(m Mode) Mode {
	switch m {
	case ModeCoerce:
		return ModeConform
	case ModePresent:
		return ModeValidate
	default:
		return m
	}
}

func processDiscriminated(m Mode, u *Union, v any) any {
	var mv map[string]any
	var ok bool
	if m == ModeCoerce || m == ModeConform {
		mv, ok = toMap(v)
	} else {
		mv, ok = v.(map[string]any)
	}
	if !ok {
		if m == ModePresent {
			return v
		}
		return newFieldError(failKind(m), errOpts{message: u.Message, def: i18n.T(i18n.Invalid, nil)})
	}
	tag := discriminatorValue(mv[u.Discriminator])
	if tag == "" {
		return newFieldError(failKind(m), errOpts{
			message: u.Message,
			def:     i18n.T(i18n.DiscriminatorMissing, map[string]string{"key": u.Discriminator}),
		})
	}
	sch, ok := u.Variants[tag]
	if !ok {
		return newFieldError(failKind(m), errOpts{
			message: u.Message,
			def:     i18n.T(i18n.DiscriminatorUnknown, map[string]string{"value": strconv.Quote(tag)}),
		})
	}
	return processEntity(m, sch, mv)
}

func discriminatorValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Keyword:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return ""
	}
}

func checkUnion(u *Union, at pathRef, seen map[*Schema]bool) error {
	if u == nil {
		return malformed(at, "nil union")
	}
	if u.Discriminator != "" {
		if len(u.Variants) == 0 {
			return malformed(at, "discriminated union without variants")
		}
		tags := make([]string, 0, len(u.Variants))
		for t := range u.Variants {
			tags = append(tags, t)
		}
		sort.Strings(tags)
		for _, t := range tags {
			if err := checkSchema(u.Variants[t], at, seen); err != nil {
				return err
			}
		}
		return nil
	}
	if len(u.Candidates) == 0 {
		return malformed(at, "union without candidates")
	}
	for _, c := range u.Candidates {
		if err := checkSchema(c, at, seen); err != nil {
			return err
		}
	}
	return nil
}
