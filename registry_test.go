package gospec_test

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gospec "github.com/reoring/gospec"
)

func TestRegistry_Coercions(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	home, _ := url.Parse("https://example.com/x")
	cases := []struct {
		tag  gospec.Tag
		in   any
		want any
	}{
		{gospec.TypeBool, "true", true},
		{gospec.TypeBool, json.Number("0"), false},
		{gospec.TypeString, 12, "12"},
		{gospec.TypeString, gospec.Keyword("k"), "k"},
		{gospec.TypeInt, "5", int64(5)},
		{gospec.TypeInt, "5.9", int64(5)},
		{gospec.TypeInt, -2.7, int64(-2)},
		{gospec.TypeLong, json.Number("42"), int64(42)},
		{gospec.TypeRef, uint8(7), int64(7)},
		{gospec.TypeFloat, "1.5", 1.5},
		{gospec.TypeDouble, 3, 3.0},
		{gospec.TypeDecimal, "10.25", decimal.RequireFromString("10.25")},
		{gospec.TypeDate, "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{gospec.TypeDate, "2024-02-29T23:10:00Z", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{gospec.TypeInstant, "2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{gospec.TypeTimestamp, int64(0), time.UnixMilli(0).UTC()},
		{gospec.TypeKeyword, ":red", gospec.Keyword("red")},
		{gospec.TypeKwRef, "blue", gospec.Keyword("blue")},
		{gospec.TypeURI, "https://example.com/x", home},
		{gospec.TypeUUID, id.String(), id},
		{gospec.TypeIgnore, []int{1}, []int{1}},
		{gospec.TypeInt, "", nil},
		{gospec.TypeInt, nil, nil},
	}
	for _, tc := range cases {
		got, err := tc.tag.Coerce(tc.in)
		require.NoError(t, err, "%s %#v", tc.tag, tc.in)
		if d, ok := tc.want.(decimal.Decimal); ok {
			assert.True(t, d.Equal(got.(decimal.Decimal)), "%s %#v", tc.tag, tc.in)
			continue
		}
		assert.Equal(t, tc.want, got, "%s %#v", tc.tag, tc.in)
	}
}

func TestRegistry_CoercionFailures(t *testing.T) {
	cases := []struct {
		tag gospec.Tag
		in  any
	}{
		{gospec.TypeBool, "maybe"},
		{gospec.TypeInt, "five"},
		{gospec.TypeInt, 1e300},
		{gospec.TypeFloat, true},
		{gospec.TypeDecimal, "1.2.3"},
		{gospec.TypeInstant, "yesterday-ish"},
		{gospec.TypeKeyword, "two words"},
		{gospec.TypeUUID, "not-a-uuid"},
		{gospec.TypeString, map[string]any{}},
	}
	for _, tc := range cases {
		_, err := tc.tag.Coerce(tc.in)
		var ce *gospec.CoercionError
		require.ErrorAs(t, err, &ce, "%s %#v", tc.tag, tc.in)
		assert.Equal(t, string(tc.tag), ce.Type)
	}
}

func TestCoercionError_ElidesLongValues(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"
	_, err := gospec.TypeInt.Coerce(long)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "...")
	assert.Less(t, len(err.Error()), len(long)+len("can't coerce  to integer"))
}

// Every value a coercer produces must satisfy the same tag's validator.
func TestRegistry_CoercedValuesValidate(t *testing.T) {
	samples := []any{nil, "", "1", "1.5", "true", ":k", "2024-01-02", "https://a.b",
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8", 1, int64(2), 2.5, json.Number("3"), true}
	for _, tag := range gospec.RegisteredTags() {
		for _, in := range samples {
			got, err := tag.Coerce(in)
			if err != nil {
				continue
			}
			assert.True(t, tag.Accepts(got), "%s accepts %#v coerced from %#v", tag, got, in)
		}
	}
}

func TestRegistry_NilAlwaysValid(t *testing.T) {
	for _, tag := range gospec.RegisteredTags() {
		assert.True(t, tag.Accepts(nil), tag)
	}
}

func TestRegistry_UnknownTag(t *testing.T) {
	assert.False(t, gospec.Tag("shiny").Registered())
	assert.True(t, gospec.TypeUUID.Registered())
	defer func() {
		r := recover()
		ce, ok := r.(*gospec.ConfigError)
		require.True(t, ok, "%T", r)
		assert.ErrorIs(t, ce, gospec.ErrUnknownType)
	}()
	gospec.Tag("shiny").Accepts(1)
}
