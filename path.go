package gospec

import (
	"strconv"
	"strings"
)

// pathRef builds result paths in a chain-safe way. Segments are kept raw and
// rendered either as a JSON Pointer (Issues) or dotted (MessageSeq).
type pathRef struct {
	parts []string
}

func (p pathRef) Field(name string) pathRef {
	return pathRef{parts: appendPath(p.parts, name)}
}

func (p pathRef) Index(i int) pathRef {
	return pathRef{parts: appendPath(p.parts, strconv.Itoa(i))}
}

func (p pathRef) Pointer() string { return pointerOf(p.parts) }

func (p pathRef) Dotted() string { return strings.Join(p.parts, ".") }

// pointerOf renders segments as a JSON Pointer, escaping '~' -> '~0' and
// '/' -> '~1' per RFC6901.
func pointerOf(parts []string) string {
	if len(parts) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(p, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
