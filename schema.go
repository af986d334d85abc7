package goschema

import "fmt"

// Schema is an ordered mapping from field name to FieldSpec. It is checked
// once at construction and carries no runtime state, so concurrent
// validations may share it. Extend and Update mutate the schema; callers must
// not run them while validations are in flight (clone first instead).
type Schema struct {
	names  []string
	fields map[string]*FieldSpec
}

var _ Type = (*Schema)(nil)

func (*Schema) isType() {}

func (s *Schema) String() string { return "schema" }

// New checks every field specification, fills defaults (label <- name,
// required <- true) and returns the schema. It fails with ErrInvalidSpec.
func New(fields ...Field) (*Schema, error) {
	s := &Schema{fields: make(map[string]*FieldSpec, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: empty field name", ErrInvalidSpec)
		}
		if _, dup := s.fields[f.Name]; dup {
			return nil, fmt.Errorf("%w: field %q declared twice", ErrInvalidSpec, f.Name)
		}
		if err := checkSpec(f.Name, f.Spec); err != nil {
			return nil, err
		}
		spec := withDefaults(f.Name, f.Spec)
		s.names = append(s.names, f.Name)
		s.fields[f.Name] = &spec
	}
	return s, nil
}

// MustNew is like New but panics on an invalid specification.
func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Clone returns a deep-independent copy, nested schemas included.
func (s *Schema) Clone() *Schema {
	out := &Schema{
		names:  append([]string(nil), s.names...),
		fields: make(map[string]*FieldSpec, len(s.fields)),
	}
	for name, f := range s.fields {
		c := f.clone()
		out.fields[name] = &c
	}
	return out
}

// Extend copies the parent's fields into s wherever s does not already
// declare the name. Existing fields always win.
func (s *Schema) Extend(parent *Schema) error {
	if parent == nil {
		return fmt.Errorf("%w: extend expects a schema", ErrInvalidArgument)
	}
	for _, name := range parent.names {
		if _, exists := s.fields[name]; exists {
			continue
		}
		c := parent.fields[name].clone()
		s.names = append(s.names, name)
		s.fields[name] = &c
	}
	return nil
}

// Pick returns a new schema restricted to the named fields. Unknown names are
// skipped; the result keeps the source declaration order.
func (s *Schema) Pick(names ...string) *Schema {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := &Schema{fields: make(map[string]*FieldSpec, len(names))}
	for _, name := range s.names {
		if _, ok := want[name]; !ok {
			continue
		}
		c := s.fields[name].clone()
		out.names = append(out.names, name)
		out.fields[name] = &c
	}
	return out
}

// GetField returns a copy of the named field specification.
func (s *Schema) GetField(name string) (FieldSpec, bool) {
	f, ok := s.fields[name]
	if !ok {
		return FieldSpec{}, false
	}
	return *f, true
}

// GetFields returns the fields in declaration order.
func (s *Schema) GetFields() []Field {
	out := make([]Field, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, Field{Name: name, Spec: *s.fields[name]})
	}
	return out
}

// FieldNames returns the declared names in order.
func (s *Schema) FieldNames() []string { return append([]string(nil), s.names...) }

// Has reports whether name is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.names) }
