package schemadoc

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	gospec "github.com/reoring/gospec"
	"github.com/reoring/gospec/rules"
)

var (
	// ErrUnknownRule reports a rule name missing from the library.
	ErrUnknownRule = errors.New("schemadoc: unknown rule")
	// ErrBadRuleArg reports a rule whose argument does not parse.
	ErrBadRuleArg = errors.New("schemadoc: bad rule argument")
)

// Library maps rule names to factories. A rule reference in a document is
// "name" or "name:arg"; the factory receives arg ("" when absent).
type Library struct {
	Predicates       map[string]func(arg string) (gospec.Predicate, error)
	Coercers         map[string]func(arg string) (gospec.CoerceFunc, error)
	Presenters       map[string]func(arg string) (gospec.PresentFunc, error)
	EntityPredicates map[string]func(arg string) (gospec.EntityPredicate, error)
}

// DefaultLibrary returns a fresh library populated from the rules package.
// Callers may add entries before handing it to WithLibrary.
func DefaultLibrary() *Library {
	lib := &Library{
		Predicates: map[string]func(string) (gospec.Predicate, error){
			"required":          fixedPred(rules.Required),
			"not-blank":         fixedPred(rules.NotBlank),
			"first-equals-last": fixedPred(rules.FirstEqualsLast),
			"min":               floatPred(rules.Min),
			"max":               floatPred(rules.Max),
			"min-length":        intPred(rules.MinLength),
			"max-length":        intPred(rules.MaxLength),
			"min-count":         intPred(rules.MinCount),
			"max-count":         intPred(rules.MaxCount),
			"between": func(arg string) (gospec.Predicate, error) {
				lo, hi, ok := strings.Cut(arg, ",")
				if !ok {
					return nil, badArg("between", arg)
				}
				l, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
				h, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
				if err1 != nil || err2 != nil {
					return nil, badArg("between", arg)
				}
				return rules.Between(l, h), nil
			},
			"pattern": func(arg string) (gospec.Predicate, error) {
				if _, err := regexp.Compile(arg); err != nil {
					return nil, fmt.Errorf("%w: pattern: %v", ErrBadRuleArg, err)
				}
				return rules.Pattern(arg), nil
			},
			"expr": exprPredicate,
			"one-of": func(arg string) (gospec.Predicate, error) {
				if arg == "" {
					return nil, badArg("one-of", arg)
				}
				parts := strings.Split(arg, "|")
				allowed := make([]any, len(parts))
				for i, p := range parts {
					allowed[i] = p
				}
				return rules.OneOf(allowed...), nil
			},
		},
		Coercers: map[string]func(string) (gospec.CoerceFunc, error){
			"trim":      fixedFn(rules.Trim),
			"lower":     fixedFn(rules.Lower),
			"upper":     fixedFn(rules.Upper),
			"blank-nil": fixedFn(rules.BlankToNil),
			"stringify": fixedFn(rules.Stringify),
			"default":   func(arg string) (gospec.CoerceFunc, error) { return rules.Default(arg), nil },
			"split": func(arg string) (gospec.CoerceFunc, error) {
				if arg == "" {
					arg = ","
				}
				return rules.Split(arg), nil
			},
		},
		Presenters: map[string]func(string) (gospec.PresentFunc, error){
			"trim":       presentFn(rules.Trim),
			"lower":      presentFn(rules.Lower),
			"upper":      presentFn(rules.Upper),
			"omit":       presentFn(rules.Omit),
			"omit-blank": presentFn(rules.OmitBlank),
			"stringify":  presentFn(rules.Stringify),
			"redact": func(arg string) (gospec.PresentFunc, error) {
				if arg == "" {
					arg = "***"
				}
				return gospec.PresentFunc(rules.Redact(arg)), nil
			},
			"format-time": func(arg string) (gospec.PresentFunc, error) {
				if arg == "" {
					return nil, badArg("format-time", arg)
				}
				return gospec.PresentFunc(rules.FormatTime(arg)), nil
			},
		},
		EntityPredicates: map[string]func(string) (gospec.EntityPredicate, error){
			"expr":     exprEntityPredicate,
			"present":  pathsPred(rules.Present),
			"together": pathsPred(rules.Together),
			"unique-by": func(arg string) (gospec.EntityPredicate, error) {
				coll, key, ok := strings.Cut(arg, ",")
				if !ok || coll == "" || key == "" {
					return nil, badArg("unique-by", arg)
				}
				return rules.UniqueBy(strings.TrimSpace(coll), strings.TrimSpace(key)), nil
			},
			"compare": func(arg string) (gospec.EntityPredicate, error) {
				parts := strings.Split(arg, ",")
				if len(parts) != 3 {
					return nil, badArg("compare", arg)
				}
				op, ok := ops[strings.TrimSpace(parts[1])]
				if !ok {
					return nil, badArg("compare", arg)
				}
				return rules.Compare(strings.TrimSpace(parts[0]), op, strings.TrimSpace(parts[2])), nil
			},
		},
	}
	// each:RULE and not:RULE wrap another predicate from the same table.
	lib.Predicates["each"] = func(arg string) (gospec.Predicate, error) {
		p, err := lib.predicate(arg)
		if err != nil {
			return nil, err
		}
		return rules.Each(p), nil
	}
	lib.Predicates["not"] = func(arg string) (gospec.Predicate, error) {
		p, err := lib.predicate(arg)
		if err != nil {
			return nil, err
		}
		return rules.Not(p), nil
	}
	return lib
}

var ops = map[string]rules.Op{
	"==": rules.Eq, "!=": rules.Ne,
	"<": rules.Lt, "<=": rules.Le,
	">": rules.Gt, ">=": rules.Ge,
}

// splitRef splits "name:arg" at the first colon.
func splitRef(ref string) (name, arg string) {
	name, arg, _ = strings.Cut(strings.TrimSpace(ref), ":")
	return name, arg
}

func lookup[F any](table map[string]func(string) (F, error), kind, ref string) (F, error) {
	name, arg := splitRef(ref)
	mk, ok := table[name]
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s %q (known: %s)", ErrUnknownRule, kind, name, strings.Join(names(table), ", "))
	}
	return mk(arg)
}

func (l *Library) predicate(ref string) (gospec.Predicate, error) {
	return lookup(l.Predicates, "predicate", ref)
}

func (l *Library) coercer(ref string) (gospec.CoerceFunc, error) {
	return lookup(l.Coercers, "coercer", ref)
}

func (l *Library) presenter(ref string) (gospec.PresentFunc, error) {
	return lookup(l.Presenters, "presenter", ref)
}

func (l *Library) entityPredicate(ref string) (gospec.EntityPredicate, error) {
	return lookup(l.EntityPredicates, "entity predicate", ref)
}

func names[F any](table map[string]F) []string {
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func badArg(rule, arg string) error {
	return fmt.Errorf("%w: %s:%s", ErrBadRuleArg, rule, arg)
}

func fixedPred(p gospec.Predicate) func(string) (gospec.Predicate, error) {
	return func(string) (gospec.Predicate, error) { return p, nil }
}

func floatPred(mk func(float64) gospec.Predicate) func(string) (gospec.Predicate, error) {
	return func(arg string) (gospec.Predicate, error) {
		n, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, badArg("number", arg)
		}
		return mk(n), nil
	}
}

func intPred(mk func(int) gospec.Predicate) func(string) (gospec.Predicate, error) {
	return func(arg string) (gospec.Predicate, error) {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, badArg("count", arg)
		}
		return mk(n), nil
	}
}

func fixedFn(fn func(any) (any, error)) func(string) (gospec.CoerceFunc, error) {
	return func(string) (gospec.CoerceFunc, error) { return fn, nil }
}

func presentFn(fn func(any) (any, error)) func(string) (gospec.PresentFunc, error) {
	return func(string) (gospec.PresentFunc, error) { return fn, nil }
}

func pathsPred(mk func(...string) gospec.EntityPredicate) func(string) (gospec.EntityPredicate, error) {
	return func(arg string) (gospec.EntityPredicate, error) {
		if arg == "" {
			return nil, fmt.Errorf("%w: expected comma-separated paths", ErrBadRuleArg)
		}
		parts := strings.Split(arg, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return mk(parts...), nil
	}
}
