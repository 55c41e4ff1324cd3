package gospec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/gospec/i18n"
)

// Issue codes, one per FieldError kind.
const (
	CodeCoerce   = "coerce"
	CodeValidate = "validate"
	CodePresent  = "present"
)

// ErrorKind discriminates the step that produced a FieldError.
type ErrorKind int

const (
	KindCoerce ErrorKind = iota
	KindValidate
	KindPresent
)

func (k ErrorKind) String() string {
	switch k {
	case KindCoerce:
		return CodeCoerce
	case KindValidate:
		return CodeValidate
	case KindPresent:
		return CodePresent
	default:
		return "unknown"
	}
}

// FieldError is a terminal error value stored in a processed result at the
// position of the failing field or element.
type FieldError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return e.Cause }

// MarshalJSON renders the error as {"error": kind, "message": msg}.
func (e *FieldError) MarshalJSON() ([]byte, error) {
	return j.Marshal(struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{e.Kind.String(), e.Message})
}

// errOpts mirrors the construction contract: an explicit message wins, then
// the cause's own message, then the default.
type errOpts struct {
	message string
	cause   error
	def     string
}

func newFieldError(kind ErrorKind, o errOpts) *FieldError {
	msg := o.message
	if msg == "" && o.cause != nil {
		msg = o.cause.Error()
	}
	if msg == "" {
		msg = o.def
	}
	return &FieldError{Kind: kind, Message: msg, Cause: o.cause}
}

// IsFieldError reports whether v itself is a FieldError.
func IsFieldError(v any) bool {
	_, ok := v.(*FieldError)
	return ok
}

// HasError reports whether any FieldError is reachable within v.
func HasError(v any) bool {
	switch t := v.(type) {
	case *FieldError:
		return t != nil
	case map[string]any:
		for _, vv := range t {
			if HasError(vv) {
				return true
			}
		}
	case []any:
		for _, vv := range t {
			if HasError(vv) {
				return true
			}
		}
	}
	return false
}

// Errors returns every FieldError reachable within v, walking maps in key
// order and sequences in index order.
func Errors(v any) []*FieldError {
	var out []*FieldError
	walkErrors(v, nil, func(_ []string, fe *FieldError) { out = append(out, fe) })
	return out
}

func walkErrors(v any, path []string, fn func(path []string, fe *FieldError)) {
	switch t := v.(type) {
	case *FieldError:
		if t != nil {
			fn(path, t)
		}
	case map[string]any:
		for _, k := range sortedKeys(t) {
			walkErrors(t[k], appendPath(path, k), fn)
		}
	case []any:
		for i, vv := range t {
			walkErrors(vv, appendPath(path, fmt.Sprint(i)), fn)
		}
	}
}

func appendPath(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Issue is a flattened view of one FieldError.
type Issue struct {
	Path    string // JSON Pointer (for example: /points/2/x).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. validate at /path: is invalid
		fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// IssuesOf flattens the FieldErrors within v into Issues.
func IssuesOf(v any) Issues {
	var iss Issues
	walkErrors(v, nil, func(path []string, fe *FieldError) {
		iss = append(iss, Issue{Path: pointerOf(path), Code: fe.Kind.String(), Message: fe.Message, Cause: fe.Cause})
	})
	return iss
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Issues, true
	}
	return nil, false
}

// Failure is returned by the strict API variants when a result contains
// FieldErrors. Result holds the full processed value, errors in place.
type Failure struct {
	Mode   Mode
	Result any
	Issues Issues
}

func newFailure(m Mode, result any) *Failure {
	return &Failure{Mode: m, Result: result, Issues: IssuesOf(result)}
}

func (f *Failure) Error() string {
	return "gospec: " + f.Mode.String() + " failed: " + f.Issues.Error()
}

// Unwrap exposes the Issues to errors.As.
func (f *Failure) Unwrap() error { return f.Issues }

// Configuration failures. They signal a malformed schema, not bad data.
var (
	ErrUnknownType     = errors.New("unknown type tag")
	ErrMalformedSchema = errors.New("malformed schema")
)

// ConfigError describes a malformed schema. Processing panics with a
// *ConfigError when it meets one; NewSchema and Check return it instead.
type ConfigError struct {
	Path string
	Err  error
	Msg  string
}

func (e *ConfigError) Error() string {
	b := &strings.Builder{}
	b.WriteString("gospec: ")
	b.WriteString(e.Err.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CoercionError is returned by type coercers when no conversion applies.
type CoercionError struct {
	Value any
	Type  string
}

func (e *CoercionError) Error() string {
	return i18n.T(i18n.CantCoerce, map[string]string{"value": elide(e.Value), "type": e.Type})
}

const maxElided = 40

// elide renders v for messages, truncating long representations.
func elide(v any) string {
	s := fmt.Sprintf("%#v", v)
	if str, ok := v.(string); ok {
		s = fmt.Sprintf("%q", str)
	}
	r := []rune(s)
	if len(r) > maxElided {
		return string(r[:maxElided-3]) + "..."
	}
	return s
}
