// Package source decodes entities from JSON and YAML input and encodes
// processed results back to JSON.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	gospec "github.com/reoring/gospec"
)

// ErrNotObject is returned when the input's root is not an object.
var ErrNotObject = errors.New("source: root is not an object")

// Format names an input encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks a format from a file extension; anything that is not
// .yaml/.yml is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// JSON decodes a JSON object into an entity. Numbers are kept as json.Number
// so the type coercers decide their final representation.
func JSON(data []byte) (gospec.Entity, error) { return JSONReader(bytes.NewReader(data)) }

// JSONReader is JSON over an io.Reader.
func JSONReader(r io.Reader) (gospec.Entity, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

// YAML decodes the first document of a YAML stream into an entity.
func YAML(data []byte) (gospec.Entity, error) { return YAMLReader(bytes.NewReader(data)) }

// YAMLReader is YAML over an io.Reader.
func YAMLReader(r io.Reader) (gospec.Entity, error) {
	var node any
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	m := yamlAnyToStringMap(node)
	if m == nil {
		return nil, ErrNotObject
	}
	return m, nil
}

// Decode reads an entity in the given format.
func Decode(r io.Reader, f Format) (gospec.Entity, error) {
	if f == FormatYAML {
		return YAMLReader(r)
	}
	return JSONReader(r)
}

// File reads an entity from path, choosing the format by extension.
func File(path string) (gospec.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	defer f.Close()
	return Decode(f, FormatOf(path))
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}

// EncodeJSON renders a processed result as indented JSON. FieldErrors render
// as {"error": kind, "message": msg}; URIs and keywords render as strings.
func EncodeJSON(v any) ([]byte, error) {
	b, err := j.MarshalIndent(encodable(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("source: encode json: %w", err)
	}
	return b, nil
}

func encodable(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = encodable(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = encodable(t[i])
		}
		return out
	case *url.URL:
		if t == nil {
			return nil
		}
		return t.String()
	case gospec.Keyword:
		return string(t)
	default:
		return v
	}
}
