package gospec_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gospec "github.com/reoring/gospec"
)

type account struct {
	ID    uuid.UUID `spec:"id"`
	Name  string    `spec:"name"`
	Age   int64     `spec:"age"`
	Roles []string  `spec:"roles"`
}

var accountSchema = gospec.MustSchema(map[string]gospec.Spec{
	"id":    {Type: gospec.TypeUUID},
	"name":  {Type: gospec.TypeString},
	"age":   {Type: gospec.TypeInt},
	"roles": {Type: gospec.SeqOf(gospec.TypeString)},
})

func TestDecode(t *testing.T) {
	id := uuid.New()
	out := gospec.Conform(accountSchema, gospec.Entity{"id": id.String(), "name": "ann", "age": "41", "roles": []any{"admin"}})

	var a account
	require.NoError(t, gospec.Decode(out, &a))
	assert.Equal(t, account{ID: id, Name: "ann", Age: 41, Roles: []string{"admin"}}, a)
}

func TestDecode_RejectsFailedResult(t *testing.T) {
	out := gospec.Conform(accountSchema, gospec.Entity{"age": "old"})
	var a account
	err := gospec.Decode(out, &a)
	var f *gospec.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "/age", f.Issues[0].Path)
}

func TestDecode_BadTarget(t *testing.T) {
	var n int
	err := gospec.Decode(gospec.Entity{"a": 1}, &n)
	assert.ErrorContains(t, err, "gospec: decode")
}
