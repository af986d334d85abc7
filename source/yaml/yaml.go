// Package yaml is the gopkg.in/yaml.v3 token driver. YAML documents are
// parsed into yaml.Node trees and replayed as tokens, so they run through the
// same enforcement and validation pipeline as JSON.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	goschema "github.com/reoring/goschema"
	eng "github.com/reoring/goschema/internal/engine"
)

// Reader yields the documents of a multi-document YAML stream.
type Reader struct {
	dec *yaml.Decoder
}

// NewReader constructs a Reader.
func NewReader(r io.Reader) *Reader { return &Reader{dec: yaml.NewDecoder(r)} }

// Next returns the next document as a Source, or io.EOF when the stream is
// exhausted.
func (r *Reader) Next() (goschema.Source, error) {
	var root yaml.Node
	if err := r.dec.Decode(&root); err != nil {
		return nil, err
	}
	toks, err := Tokens(&root)
	if err != nil {
		return nil, err
	}
	return goschema.SourceFromEngine(&eng.SliceSource{Tokens: toks}), nil
}

// ReadAll returns every document of the stream.
func (r *Reader) ReadAll() ([]goschema.Source, error) {
	var out []goschema.Source
	for {
		s, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, s)
	}
}

// Bytes returns the first document of data as a Source. Parse errors surface
// from the first NextToken call.
func Bytes(data []byte) goschema.Source {
	return goschema.SourceFromEngine(&lazySource{r: NewReader(bytes.NewReader(data))})
}

type lazySource struct {
	r     *Reader
	inner *eng.SliceSource
}

func (l *lazySource) NextToken() (eng.Token, error) {
	if l.inner == nil {
		var root yaml.Node
		if err := l.r.dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return eng.Token{}, io.ErrUnexpectedEOF
			}
			return eng.Token{}, err
		}
		toks, err := Tokens(&root)
		if err != nil {
			return eng.Token{}, err
		}
		l.inner = &eng.SliceSource{Tokens: toks}
	}
	return l.inner.NextToken()
}

func (l *lazySource) Location() int64 {
	if l.inner == nil {
		return -1
	}
	return l.inner.Location()
}

// Tokens flattens a YAML node into engine tokens.
func Tokens(n *yaml.Node) ([]eng.Token, error) {
	var out []eng.Token
	err := emit(n, &out, 0)
	return out, err
}

const maxAliasDepth = 64

func emit(n *yaml.Node, out *[]eng.Token, aliasDepth int) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			*out = append(*out, eng.Token{Kind: eng.KindNull, Offset: -1})
			return nil
		}
		return emit(n.Content[0], out, aliasDepth)
	case yaml.AliasNode:
		if n.Alias == nil || aliasDepth >= maxAliasDepth {
			return fmt.Errorf("yaml: unresolvable alias at line %d", n.Line)
		}
		return emit(n.Alias, out, aliasDepth+1)
	case yaml.MappingNode:
		*out = append(*out, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("yaml: non-scalar key at line %d", k.Line)
			}
			*out = append(*out, eng.Token{Kind: eng.KindKey, String: k.Value, Offset: -1})
			if err := emit(n.Content[i+1], out, aliasDepth); err != nil {
				return err
			}
		}
		*out = append(*out, eng.Token{Kind: eng.KindEndObject, Offset: -1})
		return nil
	case yaml.SequenceNode:
		*out = append(*out, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, c := range n.Content {
			if err := emit(c, out, aliasDepth); err != nil {
				return err
			}
		}
		*out = append(*out, eng.Token{Kind: eng.KindEndArray, Offset: -1})
		return nil
	case yaml.ScalarNode:
		tok, err := scalarToken(n)
		if err != nil {
			return err
		}
		*out = append(*out, tok)
		return nil
	}
	return fmt.Errorf("yaml: unsupported node kind %d at line %d", n.Kind, n.Line)
}

func scalarToken(n *yaml.Node) (eng.Token, error) {
	tok := eng.Token{Offset: -1}
	switch n.ShortTag() {
	case "!!null":
		tok.Kind = eng.KindNull
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return tok, err
		}
		tok.Kind, tok.Bool = eng.KindBool, b
	case "!!int", "!!float":
		tok.Kind = eng.KindNumber
		tok.Number = numberText(n)
	default:
		tok.Kind, tok.String = eng.KindString, n.Value
	}
	return tok, nil
}

// numberText keeps the written literal when it is a plain decimal so the
// fractional part survives ("9.0" stays "9.0"); other spellings (0x1F, 1_000,
// .inf) are normalized through the decoded value.
func numberText(n *yaml.Node) string {
	if _, err := strconv.ParseFloat(n.Value, 64); err == nil && !isSpecial(n.Value) {
		return n.Value
	}
	if n.ShortTag() == "!!int" {
		var i int64
		if err := n.Decode(&i); err == nil {
			return strconv.FormatInt(i, 10)
		}
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return "NaN"
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isSpecial(s string) bool {
	switch s {
	case "NaN", "nan", "Inf", "+Inf", "-Inf", "inf", "+inf", "-inf", "Infinity", "+Infinity", "-Infinity", "infinity":
		return true
	}
	return false
}
