package goschema

import (
	"fmt"
	"strconv"
	"strings"
)

// segment is one step of a bracketed field path: a field name or an array
// marker (numeric segment) selecting the schema of an array-of-schema field.
type segment struct {
	name    string
	isIndex bool
	index   int
}

// parsePath splits "a[b][0][c]" into segments. The first segment is always a
// field name.
func parsePath(path string) ([]segment, error) {
	bad := func(why string) error {
		return fmt.Errorf("%w: %q: %s", ErrInvalidPath, path, why)
	}
	if path == "" {
		return nil, bad("empty path")
	}
	head := path
	rest := ""
	if i := strings.IndexByte(path, '['); i >= 0 {
		head, rest = path[:i], path[i:]
	}
	if head == "" {
		return nil, bad("missing leading field name")
	}
	if strings.ContainsAny(head, "]") {
		return nil, bad("unbalanced bracket")
	}
	segs := []segment{{name: head}}
	for rest != "" {
		if rest[0] != '[' {
			return nil, bad("expected '['")
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, bad("unterminated bracket")
		}
		tok := rest[1:end]
		if tok == "" {
			return nil, bad("empty segment")
		}
		if strings.ContainsAny(tok, "[") {
			return nil, bad("nested bracket")
		}
		if n, err := strconv.Atoi(tok); err == nil {
			if n < 0 {
				return nil, bad("negative index")
			}
			segs = append(segs, segment{isIndex: true, index: n})
		} else {
			segs = append(segs, segment{name: tok})
		}
		rest = rest[end+1:]
	}
	return segs, nil
}

// locate folds over the segments, descending into nested schemas, and
// returns the owning schema plus the addressed field name.
func (s *Schema) locate(path string) (*Schema, string, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, "", err
	}
	cur := s
	name := segs[0].name
	for _, sg := range segs[1:] {
		f, ok := cur.fields[name]
		if !ok {
			return nil, "", fmt.Errorf("%w: %q in %q", ErrFieldNotFound, name, path)
		}
		if sg.isIndex {
			elem := Elem(f.Type)
			if elem == nil {
				return nil, "", fmt.Errorf("%w: %q: index on non-array field %q", ErrInvalidPath, path, name)
			}
			if _, ok := elem.(*Schema); !ok {
				return nil, "", fmt.Errorf("%w: %q: field %q is not an array of schema", ErrInvalidPath, path, name)
			}
			continue
		}
		next := nestedSchema(f.Type)
		if next == nil {
			return nil, "", fmt.Errorf("%w: %q: field %q has no nested schema", ErrInvalidPath, path, name)
		}
		cur = next
		name = sg.name
	}
	if _, ok := cur.fields[name]; !ok {
		return nil, "", fmt.Errorf("%w: %q in %q", ErrFieldNotFound, name, path)
	}
	return cur, name, nil
}

// nestedSchema returns the schema held by a Schema or ArrayOf(Schema) type.
func nestedSchema(t Type) *Schema {
	switch tt := t.(type) {
	case *Schema:
		return tt
	case arrayType:
		if sc, ok := tt.elem.(*Schema); ok {
			return sc
		}
	}
	return nil
}

// ResolveField looks up a field by bracketed path such as "phone[number]"
// or "items[0][name]".
func (s *Schema) ResolveField(path string) (FieldSpec, error) {
	owner, name, err := s.locate(path)
	if err != nil {
		return FieldSpec{}, err
	}
	return *owner.fields[name], nil
}

// Update edits the field addressed by path in place. The edited spec is
// checked again and rejected with ErrInvalidSpec when it no longer holds.
func (s *Schema) Update(path string, edit func(*FieldSpec)) error {
	if edit == nil {
		return fmt.Errorf("%w: nil edit function", ErrInvalidArgument)
	}
	owner, name, err := s.locate(path)
	if err != nil {
		return err
	}
	spec := *owner.fields[name]
	edit(&spec)
	if err := checkSpec(name, spec); err != nil {
		return err
	}
	spec = withDefaults(name, spec)
	owner.fields[name] = &spec
	return nil
}

// fieldPath appends a field name to a bracketed path.
func fieldPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "[" + name + "]"
}

// indexPath appends an array index to a bracketed path.
func indexPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}
