package rules

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	gospec "github.com/reoring/gospec"
)

// Op defines simple comparison operators for If(...) and Compare(...).
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of entity-level predicates.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a path against a value using an operator.
// The path is a dotted or slash-separated path into the entity, e.g. "start.x".
func If(path string, op Op, want any) Conditional {
	return Conditional{path: path, op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds evaluates the conditional against e.
func (c Conditional) Holds(e gospec.Entity) bool { return evalConditional(e, c) }

// Then returns a predicate that passes when the condition does not hold and
// otherwise requires every predicate to pass.
func (c Conditional) Then(preds ...gospec.EntityPredicate) gospec.EntityPredicate {
	return func(e gospec.Entity) bool {
		if !evalConditional(e, c) {
			return true
		}
		for _, p := range preds {
			if p != nil && !p(e) {
				return false
			}
		}
		return true
	}
}

// Compare builds an entity predicate comparing the values at two paths.
// Missing values never satisfy the comparison.
func Compare(left string, op Op, right string) gospec.EntityPredicate {
	return func(e gospec.Entity) bool {
		a, ok := ValueAt(e, left)
		if !ok {
			return false
		}
		b, ok := ValueAt(e, right)
		if !ok {
			return false
		}
		return compare(a, op, b)
	}
}

// Present builds an entity predicate requiring every path to hold a value.
func Present(paths ...string) gospec.EntityPredicate {
	return func(e gospec.Entity) bool {
		for _, p := range paths {
			if v, ok := ValueAt(e, p); !ok || v == nil {
				return false
			}
		}
		return true
	}
}

// Together passes when either all or none of paths hold a value.
func Together(paths ...string) gospec.EntityPredicate {
	return func(e gospec.Entity) bool {
		n := 0
		for _, p := range paths {
			if v, ok := ValueAt(e, p); ok && v != nil {
				n++
			}
		}
		return n == 0 || n == len(paths)
	}
}

// UniqueBy ensures elements of the sequence at collectionPath have unique
// values under keyPath. Elements without the key are ignored.
func UniqueBy(collectionPath, keyPath string) gospec.EntityPredicate {
	return func(e gospec.Entity) bool {
		val, ok := ValueAt(e, collectionPath)
		if !ok {
			return true
		}
		rv := reflect.ValueOf(val)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return true
		}
		seen := map[string]bool{}
		for i := 0; i < rv.Len(); i++ {
			kv, ok := ValueAt(rv.Index(i).Interface(), keyPath)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if seen[key] {
				return false
			}
			seen[key] = true
		}
		return true
	}
}

// ------- helpers -------

func evalConditional(e gospec.Entity, c Conditional) bool {
	// composite AND
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(e, it) {
				return false
			}
		}
		return true
	}
	// composite OR
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(e, it) {
				return true
			}
		}
		return false
	}
	// simple predicate
	cur, ok := ValueAt(e, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// ValueAt navigates v (maps and sequences) by a dotted or slash-separated
// path. Numeric segments index into sequences.
func ValueAt(v any, path string) (any, bool) {
	path = strings.Trim(strings.ReplaceAll(path, "/", "."), ".")
	if path == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch t := cur.(type) {
		case map[string]any:
			next, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = next
		default:
			rv := reflect.ValueOf(cur)
			if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
				return nil, false
			}
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= rv.Len() {
				return nil, false
			}
			cur = rv.Index(idx).Interface()
		}
	}
	return cur, true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	case Lt, Le, Gt, Ge:
		c, ok := order(cur, want)
		if !ok {
			return false
		}
		switch op {
		case Lt:
			return c < 0
		case Le:
			return c <= 0
		case Gt:
			return c > 0
		default:
			return c >= 0
		}
	default:
		return false
	}
}

func equal(a, b any) bool {
	if c, ok := order(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// order compares numbers (any numeric kind, json.Number, decimal), times and
// strings. It reports false for incomparable operands.
func order(a, b any) (int, bool) {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	if da, ok := toDecimal(a); ok {
		db, ok := toDecimal(b)
		if !ok {
			return 0, false
		}
		return da.Cmp(db), true
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case string, bool, nil:
		return decimal.Decimal{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(f), true
	case reflect.String:
		// json.Number and other numeric string types
		d, err := decimal.NewFromString(rv.String())
		return d, err == nil
	}
	return decimal.Decimal{}, false
}
