package schemadoc_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gospec "github.com/reoring/gospec"
	"github.com/reoring/gospec/schemadoc"
	"github.com/reoring/gospec/source"
)

const geometry = `
schemas:
  point:
    fields:
      x: {type: integer}
      y: {type: integer}
  line:
    fields:
      start: {type: point}
      end: {type: point}
      name: {type: string, coerce: [trim], present: [upper]}
  polygon:
    fields:
      points:
        type: [point]
        validations:
          - {rule: "min-count:4", message: "needs at least four points"}
          - {rule: first-equals-last, message: "must be closed"}
  tree:
    fields:
      label: {type: keyword}
      children: {type: [tree]}
    entity:
      - key: label
        message: label required
        validate: ["present:label"]
one_of:
  shape:
    discriminator: kind
    variants: {line: line, polygon: polygon}
`

func loadGeometry(t *testing.T) *schemadoc.Set {
	t.Helper()
	set, err := schemadoc.New().Load(strings.NewReader(geometry), source.FormatYAML)
	require.NoError(t, err)
	return set
}

func TestLoad_NestedReference(t *testing.T) {
	set := loadGeometry(t)
	line, err := set.Schema("line")
	require.NoError(t, err)

	out := gospec.Conform(line, gospec.Entity{
		"start": map[string]any{"x": "1", "y": 2},
		"end":   map[string]any{"x": 3, "y": "nope"},
		"name":  "  a  ",
	})
	assert.Equal(t, "a", out["name"])
	assert.Equal(t, map[string]any{"x": int64(1), "y": int64(2)}, out["start"])
	assert.Equal(t, []string{`end.y can't coerce "nope" to integer`}, gospec.MessageSeq(out))
}

func TestLoad_PresentFromDocument(t *testing.T) {
	line, err := loadGeometry(t).Schema("line")
	require.NoError(t, err)
	out := gospec.Present(line, gospec.Entity{"name": "abc"})
	assert.Equal(t, gospec.Entity{"name": "ABC"}, out)
}

func TestLoad_SequenceValidations(t *testing.T) {
	poly, err := loadGeometry(t).Schema("polygon")
	require.NoError(t, err)

	p := func(x, y int) map[string]any { return map[string]any{"x": x, "y": y} }
	short := gospec.Conform(poly, gospec.Entity{"points": []any{p(0, 0), p(1, 1), p(0, 0)}})
	assert.Equal(t, []string{"points needs at least four points"}, gospec.MessageSeq(short))

	open := gospec.Conform(poly, gospec.Entity{"points": []any{p(0, 0), p(1, 0), p(1, 1), p(0, 1)}})
	assert.Equal(t, []string{"points must be closed"}, gospec.MessageSeq(open))

	closed := gospec.Conform(poly, gospec.Entity{"points": []any{p(0, 0), p(1, 0), p(1, 1), p(0, 0)}})
	assert.False(t, gospec.HasError(closed))
}

func TestLoad_SelfReference(t *testing.T) {
	tree, err := loadGeometry(t).Schema("tree")
	require.NoError(t, err)

	out := gospec.Conform(tree, gospec.Entity{
		"label": ":root",
		"children": []any{
			map[string]any{"label": "leaf"},
			map[string]any{"children": []any{}},
		},
	})
	assert.Equal(t, gospec.Keyword("root"), out["label"])
	assert.Equal(t, []string{"children.1.label label required"}, gospec.MessageSeq(out))
}

func TestLoad_DiscriminatedUnion(t *testing.T) {
	set := loadGeometry(t)
	u, ok := set.Unions["shape"]
	require.True(t, ok)

	r := gospec.ConformValue(gospec.Spec{Type: u}, map[string]any{
		"kind":  "line",
		"start": map[string]any{"x": "1", "y": "1"},
	})
	assert.Equal(t, map[string]any{"start": map[string]any{"x": int64(1), "y": int64(1)}}, r)

	bad := gospec.ConformValue(gospec.Spec{Type: u}, map[string]any{"kind": "circle"})
	assert.True(t, gospec.IsFieldError(bad))
}

func TestLoad_JSONDocument(t *testing.T) {
	doc := `{"schemas": {"user": {"fields": {
		"name": {"type": "string", "validate": ["not-blank", "max-length:5"], "message": "bad name"},
		"age": {"type": "integer", "validate": ["between:0,150"]},
		"role": {"type": "keyword", "value": "admin"}
	}}}}`
	set, err := schemadoc.New().Load(strings.NewReader(doc), source.FormatJSON)
	require.NoError(t, err)
	user, err := set.Schema("user")
	require.NoError(t, err)

	assert.True(t, gospec.Is(user, gospec.Entity{"name": "ann", "age": 30, "role": "admin"}))
	out := gospec.Conform(user, gospec.Entity{"name": "annabel", "age": "200", "role": "guest"})
	msgs := gospec.MessageMap(out).(map[string]any)
	assert.Equal(t, "bad name", msgs["name"])
	assert.Equal(t, "is invalid", msgs["age"])
	assert.Contains(t, msgs["role"], "admin")
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"unknown type":      {"schemas: {a: {fields: {x: {type: nope}}}}", schemadoc.ErrUnknownSchema},
		"unknown rule":      {"schemas: {a: {fields: {x: {type: string, validate: [shiny]}}}}", schemadoc.ErrUnknownRule},
		"bad rule argument": {"schemas: {a: {fields: {x: {type: string, validate: [\"min-length:x\"]}}}}", schemadoc.ErrBadRuleArg},
		"bad pattern":       {"schemas: {a: {fields: {x: {type: string, validate: [\"pattern:(\"]}}}}", schemadoc.ErrBadRuleArg},
		"unknown variant":   {"schemas: {a: {fields: {}}}\none_of: {u: {candidates: [b]}}", schemadoc.ErrUnknownSchema},
		"empty entity key":  {"schemas: {a: {fields: {}, entity: [{validate: [\"present:x\"]}]}}", gospec.ErrMalformedSchema},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schemadoc.New().Load(strings.NewReader(tc.doc), source.FormatYAML)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := schemadoc.New().Load(strings.NewReader("schemas: {a: {feilds: {}}}"), source.FormatYAML)
	assert.Error(t, err)
}

func TestLoadFile_LogsSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(geometry), 0o600))

	var buf bytes.Buffer
	set, err := schemadoc.New(schemadoc.WithLogger(zerolog.New(&buf))).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"line", "point", "polygon", "tree"}, set.Names())
	assert.Contains(t, buf.String(), "schema document loaded")
}

func TestCustomLibrary(t *testing.T) {
	lib := schemadoc.DefaultLibrary()
	lib.Predicates["even"] = func(string) (gospec.Predicate, error) {
		return func(v any) bool {
			n, ok := v.(int64)
			return !ok || n%2 == 0
		}, nil
	}
	set, err := schemadoc.New(schemadoc.WithLibrary(lib)).
		Load(strings.NewReader("schemas: {n: {fields: {v: {type: integer, validate: [even]}}}}"), source.FormatYAML)
	require.NoError(t, err)
	n := schemadoc.Must(set, err).Schemas["n"]
	assert.True(t, gospec.Is(n, gospec.Entity{"v": "4"}))
	assert.False(t, gospec.Is(n, gospec.Entity{"v": 3}))
}

func TestExprRules(t *testing.T) {
	doc := `
schemas:
  range:
    fields:
      lo: {type: integer}
      hi: {type: integer, validate: ["expr:value == nil || value % 2 == 0"], message: "hi must be even"}
    entity:
      - key: order
        validations:
          - {rule: "expr:lo == nil || hi == nil || lo < hi", message: "lo must be below hi"}
`
	set, err := schemadoc.New().Load(strings.NewReader(doc), source.FormatYAML)
	require.NoError(t, err)
	r := set.Schemas["range"]

	assert.True(t, gospec.Is(r, gospec.Entity{"lo": "1", "hi": "4"}))
	assert.True(t, gospec.Is(r, gospec.Entity{"lo": 1}))
	assert.Equal(t, []string{"hi hi must be even"}, gospec.MessageSeq(gospec.Conform(r, gospec.Entity{"hi": 3})))
	assert.Equal(t, []string{"order lo must be below hi"}, gospec.MessageSeq(gospec.Conform(r, gospec.Entity{"lo": 6, "hi": 2})))

	_, err = schemadoc.New().Load(strings.NewReader(`schemas: {a: {fields: {x: {type: integer, validate: ["expr:value >"]}}}}`), source.FormatYAML)
	assert.ErrorIs(t, err, schemadoc.ErrBadRuleArg)
}
