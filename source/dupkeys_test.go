package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gospec/source"
)

func TestDuplicateKeys(t *testing.T) {
	paths, err := source.DuplicateKeys([]byte(`{
		"a": 1, "a": 2,
		"list": [{"x": 1}, {"x": 1, "x": 2}],
		"nested": {"b": {"c": 1, "c": 2}, "b": null},
		"x/y": 1, "x/y": 2
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/list/1/x", "/nested/b/c", "/nested/b", "/x~1y"}, paths)
}

func TestDuplicateKeys_None(t *testing.T) {
	paths, err := source.DuplicateKeys([]byte(`{"a": [1, {"a": 1}], "b": {"a": 2}}`))
	require.NoError(t, err)
	assert.Empty(t, paths)

	_, err = source.DuplicateKeys([]byte(`{"a": `))
	assert.Error(t, err)
}

func TestJSONStrict(t *testing.T) {
	_, err := source.JSONStrict([]byte(`{"x": 1, "x": 2}`))
	var de *source.DuplicateKeyError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{"/x"}, de.Paths)
	assert.EqualError(t, err, "source: duplicate keys at /x")

	e, err := source.JSONStrict([]byte(`{"x": 1}`))
	require.NoError(t, err)
	assert.Contains(t, e, "x")
}
