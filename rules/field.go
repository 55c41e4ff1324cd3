package rules

import (
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	gospec "github.com/reoring/gospec"
)

// Field-level predicates. Unless stated otherwise a nil value passes, so
// required-ness stays an explicit Required/NotBlank constraint.

// Required passes for any non-nil value.
func Required(v any) bool { return v != nil }

// NotBlank passes for non-nil values that are not whitespace-only strings.
func NotBlank(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Min passes for numbers >= n.
func Min(n float64) gospec.Predicate {
	return numeric(func(d decimal.Decimal) bool { return d.GreaterThanOrEqual(decimal.NewFromFloat(n)) })
}

// Max passes for numbers <= n.
func Max(n float64) gospec.Predicate {
	return numeric(func(d decimal.Decimal) bool { return d.LessThanOrEqual(decimal.NewFromFloat(n)) })
}

// Between passes for numbers within [lo, hi].
func Between(lo, hi float64) gospec.Predicate {
	return All(Min(lo), Max(hi))
}

func numeric(fn func(decimal.Decimal) bool) gospec.Predicate {
	return func(v any) bool {
		if v == nil {
			return true
		}
		d, ok := toDecimal(v)
		return ok && fn(d)
	}
}

// MinLength passes for strings of at least n characters, or collections of
// at least n elements.
func MinLength(n int) gospec.Predicate {
	return length(func(l int) bool { return l >= n })
}

// MaxLength passes for strings of at most n characters, or collections of
// at most n elements.
func MaxLength(n int) gospec.Predicate {
	return length(func(l int) bool { return l <= n })
}

// MinCount is MinLength for collections.
func MinCount(n int) gospec.Predicate { return MinLength(n) }

// MaxCount is MaxLength for collections.
func MaxCount(n int) gospec.Predicate { return MaxLength(n) }

func length(fn func(int) bool) gospec.Predicate {
	return func(v any) bool {
		if v == nil {
			return true
		}
		if s, ok := v.(string); ok {
			return fn(utf8.RuneCountInString(s))
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
			return fn(rv.Len())
		}
		return false
	}
}

// Pattern passes for strings matching re. It panics if re does not compile.
func Pattern(re string) gospec.Predicate {
	rx := regexp.MustCompile(re)
	return func(v any) bool {
		if v == nil {
			return true
		}
		switch s := v.(type) {
		case string:
			return rx.MatchString(s)
		case gospec.Keyword:
			return rx.MatchString(string(s))
		}
		return false
	}
}

// OneOf passes for values equal to one of allowed. Numbers compare by value.
func OneOf(allowed ...any) gospec.Predicate {
	return func(v any) bool {
		if v == nil {
			return true
		}
		for _, a := range allowed {
			if equal(v, a) {
				return true
			}
			if k, ok := v.(gospec.Keyword); ok && equal(string(k), a) {
				return true
			}
		}
		return false
	}
}

// FirstEqualsLast passes for non-empty sequences whose first and last
// elements are equal.
func FirstEqualsLast(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	if rv.Len() == 0 {
		return false
	}
	return reflect.DeepEqual(rv.Index(0).Interface(), rv.Index(rv.Len()-1).Interface())
}

// Each passes when pred holds for every element of a sequence.
func Each(pred gospec.Predicate) gospec.Predicate {
	return func(v any) bool {
		if v == nil {
			return true
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if !pred(rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
}

// All passes when every predicate passes.
func All(preds ...gospec.Predicate) gospec.Predicate {
	return func(v any) bool {
		for _, p := range preds {
			if p != nil && !p(v) {
				return false
			}
		}
		return true
	}
}

// Not negates pred. A nil value still passes.
func Not(pred gospec.Predicate) gospec.Predicate {
	return func(v any) bool {
		if v == nil {
			return true
		}
		return !pred(v)
	}
}
