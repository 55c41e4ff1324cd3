package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemasDoc = `
schemas:
  point:
    fields:
      x: {type: integer}
      y: {type: integer, validate: ["min:0"], message: "must not be negative"}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConform_PrintsResult(t *testing.T) {
	dir := t.TempDir()
	schemas := writeFile(t, dir, "s.yaml", schemasDoc)
	entity := writeFile(t, dir, "p.json", `{"x": "5", "y": 2, "z": true}`)

	out, err := execute(t, "conform", "--schemas", schemas, "--schema", "point", entity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 5, "y": 2}`, out)
}

func TestConform_MessagesAndExitError(t *testing.T) {
	dir := t.TempDir()
	schemas := writeFile(t, dir, "s.yaml", schemasDoc)
	entity := writeFile(t, dir, "p.yaml", "x: 1\ny: -3\n")

	out, err := execute(t, "conform", "--schemas", schemas, "--schema", "point", "--messages", entity)
	assert.ErrorIs(t, err, errHasErrors)
	assert.Equal(t, "y must not be negative\n", out)
}

func TestProcess_UnknownSchema(t *testing.T) {
	dir := t.TempDir()
	schemas := writeFile(t, dir, "s.yaml", schemasDoc)
	entity := writeFile(t, dir, "p.json", `{}`)

	_, err := execute(t, "coerce", "--schemas", schemas, "--schema", "line", entity)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errHasErrors)
}

func TestProcess_StrictKeys(t *testing.T) {
	dir := t.TempDir()
	schemas := writeFile(t, dir, "s.yaml", schemasDoc)
	entity := writeFile(t, dir, "p.json", `{"x": 1, "x": 2}`)

	out, err := execute(t, "coerce", "--schemas", schemas, "--schema", "point", entity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 2}`, out)

	_, err = execute(t, "coerce", "--strict-keys", "--schemas", schemas, "--schema", "point", entity)
	assert.ErrorContains(t, err, "duplicate keys at /x")
}

func TestProcess_RequiresFlags(t *testing.T) {
	_, err := execute(t, "present", "entity.json")
	assert.Error(t, err)
}

func TestTypes_ListsRegistry(t *testing.T) {
	out, err := execute(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "integer\n")
	assert.Contains(t, out, "uuid\n")
}
