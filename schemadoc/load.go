// Package schemadoc loads named schemas from YAML or JSON documents.
//
// A document has two top-level sections:
//
//	schemas:
//	  point:
//	    fields:
//	      x: {type: integer, validate: ["min:0"]}
//	      y: {type: integer}
//	  line:
//	    fields:
//	      start: {type: point}
//	      points: {type: [point], validations: [{rule: "min-count:4", message: "too short"}]}
//	    entity:
//	      - key: start
//	        validate: ["present:start.x,start.y"]
//	one_of:
//	  shape:
//	    discriminator: kind
//	    variants: {line: line, point: point}
//
// A field type is a registered tag, the name of a schema or union, or a
// one-element list for a sequence. Rule references ("min-length:3") are
// looked up in a Library.
package schemadoc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"

	gospec "github.com/reoring/gospec"
	"github.com/reoring/gospec/source"
)

// ErrUnknownSchema is returned for references to names the document does not declare.
var ErrUnknownSchema = errors.New("schemadoc: unknown schema")

// Document is the decoded form of a schema document.
type Document struct {
	Schemas map[string]SchemaDoc `mapstructure:"schemas"`
	OneOf   map[string]UnionDoc  `mapstructure:"one_of"`
}

// SchemaDoc declares one named schema.
type SchemaDoc struct {
	Fields map[string]FieldDoc `mapstructure:"fields"`
	Entity []EntityDoc         `mapstructure:"entity"`
}

// FieldDoc declares one field. Type is a string or a one-element list.
type FieldDoc struct {
	Type        any             `mapstructure:"type"`
	Set         bool            `mapstructure:"set"`
	Value       any             `mapstructure:"value"`
	Message     string          `mapstructure:"message"`
	Coerce      []string        `mapstructure:"coerce"`
	Validate    []string        `mapstructure:"validate"`
	Validations []ValidationDoc `mapstructure:"validations"`
	Present     []string        `mapstructure:"present"`
}

// ValidationDoc pairs a predicate reference with its message.
type ValidationDoc struct {
	Rule    string `mapstructure:"rule"`
	Message string `mapstructure:"message"`
}

// EntityDoc declares an entity-level spec. Only constraints can be expressed
// in a document; derived values need Go functions.
type EntityDoc struct {
	Key         string          `mapstructure:"key"`
	Message     string          `mapstructure:"message"`
	Validate    []string        `mapstructure:"validate"`
	Validations []ValidationDoc `mapstructure:"validations"`
}

// UnionDoc declares a union over named schemas.
type UnionDoc struct {
	Discriminator string            `mapstructure:"discriminator"`
	Variants      map[string]string `mapstructure:"variants"`
	Candidates    []string          `mapstructure:"candidates"`
	Message       string            `mapstructure:"message"`
}

// Set holds the schemas and unions built from one document.
type Set struct {
	Schemas map[string]*gospec.Schema
	Unions  map[string]*gospec.Union
}

// Schema returns the named schema.
func (s *Set) Schema(name string) (*gospec.Schema, error) {
	if sch, ok := s.Schemas[name]; ok {
		return sch, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
}

// Names lists the schema names in sorted order.
func (s *Set) Names() []string { return names(s.Schemas) }

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used to trace loading. The default discards output.
func WithLogger(l zerolog.Logger) Option { return func(ld *Loader) { ld.log = l } }

// WithLibrary replaces the rule library.
func WithLibrary(lib *Library) Option { return func(ld *Loader) { ld.lib = lib } }

// Loader builds schema sets from documents.
type Loader struct {
	log zerolog.Logger
	lib *Library
}

// New returns a Loader with the default library.
func New(opts ...Option) *Loader {
	l := &Loader{log: zerolog.Nop(), lib: DefaultLibrary()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LoadFile reads a document from path; the format follows the extension.
func (l *Loader) LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schemadoc: %w", err)
	}
	defer f.Close()
	l.log.Debug().Str("path", path).Msg("loading schema document")
	return l.Load(f, source.FormatOf(path))
}

// Load reads a document from r.
func (l *Loader) Load(r io.Reader, f source.Format) (*Set, error) {
	raw, err := source.Decode(r, f)
	if err != nil {
		return nil, err
	}
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(map[string]any(raw)); err != nil {
		return nil, fmt.Errorf("schemadoc: %w", err)
	}
	return l.Build(doc)
}

// Build turns a decoded document into schemas. All names are declared
// before any field is resolved, so schemas may refer to each other in any
// order, including to themselves.
func (l *Loader) Build(doc Document) (*Set, error) {
	set := &Set{
		Schemas: make(map[string]*gospec.Schema, len(doc.Schemas)),
		Unions:  make(map[string]*gospec.Union, len(doc.OneOf)),
	}
	for name := range doc.Schemas {
		set.Schemas[name] = &gospec.Schema{Fields: map[string]gospec.Spec{}}
	}
	for name := range doc.OneOf {
		if _, dup := set.Schemas[name]; dup {
			return nil, fmt.Errorf("schemadoc: %q declared as both schema and union", name)
		}
		set.Unions[name] = &gospec.Union{}
	}

	for _, name := range names(doc.OneOf) {
		if err := l.buildUnion(set, set.Unions[name], doc.OneOf[name]); err != nil {
			return nil, fmt.Errorf("one_of %s: %w", name, err)
		}
	}
	for _, name := range names(doc.Schemas) {
		sd := doc.Schemas[name]
		sch := set.Schemas[name]
		for _, fname := range names(sd.Fields) {
			spec, err := l.buildField(set, sd.Fields[fname])
			if err != nil {
				return nil, fmt.Errorf("schema %s field %s: %w", name, fname, err)
			}
			sch.Fields[fname] = spec
		}
		for i, ed := range sd.Entity {
			es, err := l.buildEntity(ed)
			if err != nil {
				return nil, fmt.Errorf("schema %s entity[%d]: %w", name, i, err)
			}
			sch.Entity = append(sch.Entity, es)
		}
		l.log.Debug().Str("schema", name).Int("fields", len(sch.Fields)).Int("entity", len(sch.Entity)).Msg("schema built")
	}

	for _, name := range set.Names() {
		if err := set.Schemas[name].Check(); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
	}
	l.log.Info().Int("schemas", len(set.Schemas)).Int("unions", len(set.Unions)).Msg("schema document loaded")
	return set, nil
}

func (l *Loader) resolveType(set *Set, t any, isSet bool) (gospec.Type, error) {
	switch x := t.(type) {
	case string:
		if sch, ok := set.Schemas[x]; ok {
			return sch, nil
		}
		if u, ok := set.Unions[x]; ok {
			return u, nil
		}
		if tag := gospec.Tag(x); tag.Registered() {
			return tag, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, x)
	case []any:
		if len(x) != 1 {
			return nil, fmt.Errorf("schemadoc: sequence type needs exactly one element, got %d", len(x))
		}
		elem, err := l.resolveType(set, x[0], false)
		if err != nil {
			return nil, err
		}
		if isSet {
			return gospec.SetOf(elem), nil
		}
		return gospec.SeqOf(elem), nil
	case nil:
		return nil, errors.New("schemadoc: missing type")
	default:
		return nil, fmt.Errorf("schemadoc: type must be a name or a list, got %T", t)
	}
}

func (l *Loader) buildField(set *Set, fd FieldDoc) (gospec.Spec, error) {
	typ, err := l.resolveType(set, fd.Type, fd.Set)
	if err != nil {
		return gospec.Spec{}, err
	}
	spec := gospec.Spec{Type: typ, Value: fd.Value, Message: fd.Message}
	for _, ref := range fd.Coerce {
		fn, err := l.lib.coercer(ref)
		if err != nil {
			return gospec.Spec{}, err
		}
		spec.Coerce = append(spec.Coerce, fn)
	}
	for _, ref := range fd.Validate {
		p, err := l.lib.predicate(ref)
		if err != nil {
			return gospec.Spec{}, err
		}
		spec.Validate = append(spec.Validate, p)
	}
	for _, vd := range fd.Validations {
		p, err := l.lib.predicate(vd.Rule)
		if err != nil {
			return gospec.Spec{}, err
		}
		spec.Validations = append(spec.Validations, gospec.Validation{Pred: p, Message: vd.Message})
	}
	for _, ref := range fd.Present {
		fn, err := l.lib.presenter(ref)
		if err != nil {
			return gospec.Spec{}, err
		}
		spec.Present = append(spec.Present, fn)
	}
	return spec, nil
}

func (l *Loader) buildEntity(ed EntityDoc) (gospec.EntitySpec, error) {
	es := gospec.EntitySpec{Key: ed.Key, Message: ed.Message}
	for _, ref := range ed.Validate {
		p, err := l.lib.entityPredicate(ref)
		if err != nil {
			return gospec.EntitySpec{}, err
		}
		es.Validate = append(es.Validate, p)
	}
	for _, vd := range ed.Validations {
		p, err := l.lib.entityPredicate(vd.Rule)
		if err != nil {
			return gospec.EntitySpec{}, err
		}
		es.Validations = append(es.Validations, gospec.EntityValidation{Pred: p, Message: vd.Message})
	}
	return es, nil
}

func (l *Loader) buildUnion(set *Set, u *gospec.Union, ud UnionDoc) error {
	u.Discriminator = ud.Discriminator
	u.Message = ud.Message
	if ud.Discriminator != "" {
		u.Variants = make(map[string]*gospec.Schema, len(ud.Variants))
		for tag, ref := range ud.Variants {
			sch, err := set.Schema(ref)
			if err != nil {
				return err
			}
			u.Variants[tag] = sch
		}
		return nil
	}
	for _, ref := range ud.Candidates {
		sch, err := set.Schema(ref)
		if err != nil {
			return err
		}
		u.Candidates = append(u.Candidates, sch)
	}
	return nil
}

// Must panics if err is non-nil. For package-level schema sets.
func Must(s *Set, err error) *Set {
	if err != nil {
		panic(err)
	}
	return s
}
