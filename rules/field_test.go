package rules_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	gospec "github.com/reoring/gospec"
	"github.com/reoring/gospec/rules"
)

func TestRequiredAndNotBlank(t *testing.T) {
	assert.False(t, rules.Required(nil))
	assert.True(t, rules.Required(""))
	assert.False(t, rules.NotBlank(nil))
	assert.False(t, rules.NotBlank(" \t"))
	assert.True(t, rules.NotBlank("a"))
	assert.True(t, rules.NotBlank(0))
}

func TestNumericBounds(t *testing.T) {
	atLeast := rules.Min(1.5)
	assert.True(t, atLeast(nil))
	assert.True(t, atLeast(2))
	assert.True(t, atLeast(1.5))
	assert.True(t, atLeast(json.Number("7")))
	assert.True(t, atLeast(decimal.RequireFromString("1.50")))
	assert.False(t, atLeast(int64(1)))
	assert.False(t, atLeast("9"), "strings are not numbers")

	between := rules.Between(0, 10)
	assert.True(t, between(uint8(10)))
	assert.False(t, between(-0.1))
	assert.False(t, rules.Max(3)(4.0))
}

func TestLength(t *testing.T) {
	assert.True(t, rules.MinLength(2)("héllo"))
	assert.False(t, rules.MaxLength(4)("héllo"))
	assert.True(t, rules.MaxLength(5)("héllo"), "counts runes")
	assert.True(t, rules.MinCount(2)([]any{1, 2}))
	assert.False(t, rules.MinCount(3)([]any{1, 2}))
	assert.True(t, rules.MaxCount(1)(map[string]any{"a": 1}))
	assert.False(t, rules.MinLength(1)(42))
	assert.True(t, rules.MinLength(1)(nil))
}

func TestPattern(t *testing.T) {
	p := rules.Pattern(`^[a-z]+$`)
	assert.True(t, p("abc"))
	assert.True(t, p(gospec.Keyword("abc")))
	assert.False(t, p("ab1"))
	assert.False(t, p(1))
	assert.True(t, p(nil))
	assert.Panics(t, func() { rules.Pattern("(") })
}

func TestOneOf(t *testing.T) {
	p := rules.OneOf("red", "green", 3)
	assert.True(t, p("red"))
	assert.True(t, p(gospec.Keyword("green")))
	assert.True(t, p(int64(3)))
	assert.True(t, p(3.0))
	assert.False(t, p("blue"))
	assert.True(t, p(nil))
}

func TestFirstEqualsLast(t *testing.T) {
	assert.True(t, rules.FirstEqualsLast([]any{1, 2, 1}))
	assert.True(t, rules.FirstEqualsLast([]any{map[string]any{"x": 1}, map[string]any{"x": 1}}))
	assert.False(t, rules.FirstEqualsLast([]any{1, 2}))
	assert.False(t, rules.FirstEqualsLast([]any{}))
	assert.False(t, rules.FirstEqualsLast("aba"))
	assert.True(t, rules.FirstEqualsLast(nil))
}

func TestCombinators(t *testing.T) {
	each := rules.Each(rules.Min(0))
	assert.True(t, each([]any{0, 1}))
	assert.False(t, each([]any{0, -1}))
	assert.True(t, each(nil))

	assert.True(t, rules.All(rules.Min(0), rules.Max(2))(1))
	assert.False(t, rules.All(rules.Min(0), rules.Max(2))(3))
	assert.True(t, rules.All()(3))

	assert.False(t, rules.Not(rules.Required)(1))
	assert.True(t, rules.Not(rules.Required)(nil))
}
