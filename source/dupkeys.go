package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	gospec "github.com/reoring/gospec"
)

// DuplicateKeyError lists the JSON Pointers of object keys that occur more
// than once in their object.
type DuplicateKeyError struct {
	Paths []string
}

func (e *DuplicateKeyError) Error() string {
	return "source: duplicate keys at " + strings.Join(e.Paths, ", ")
}

// JSONStrict is JSON but rejects documents with duplicate object keys, which
// the plain decoder silently resolves to the last occurrence.
func JSONStrict(data []byte) (gospec.Entity, error) {
	paths, err := DuplicateKeys(data)
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		return nil, &DuplicateKeyError{Paths: paths}
	}
	return JSON(data)
}

type frame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string // current key (object) or next index (array)
	index        int
}

// DuplicateKeys scans a JSON document token by token and returns the JSON
// Pointer of every repeated key, in document order.
func DuplicateKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var dups []string
	var stack []frame

	pointer := func(last string) string {
		b := &strings.Builder{}
		for _, f := range stack[:len(stack)-1] {
			b.WriteByte('/')
			b.WriteString(escape(f.segment()))
		}
		b.WriteByte('/')
		b.WriteString(escape(last))
		return b.String()
	}
	// valueDone advances the enclosing container past one value.
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return nil, fmt.Errorf("source: decode json: %w", io.ErrUnexpectedEOF)
			}
			return dups, nil
		}
		if err != nil {
			return nil, fmt.Errorf("source: decode json: %w", err)
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{object: true, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, frame{})
			case '}', ']':
				stack = stack[:len(stack)-1]
				valueDone()
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.object && top.expectingKey {
					if _, ok := top.keys[v]; ok {
						dups = append(dups, pointer(v))
					}
					top.keys[v] = struct{}{}
					top.key = v
					top.expectingKey = false
					continue
				}
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

func (f frame) segment() string {
	if f.object {
		return f.key
	}
	return strconv.Itoa(f.index)
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
