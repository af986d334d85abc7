// Package gojson is the goccy/go-json token driver.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	goschema "github.com/reoring/goschema"
	eng "github.com/reoring/goschema/internal/engine"
)

// Driver returns a goschema.JSONDriver backed by goccy/go-json.
func Driver() goschema.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) goschema.Source {
	return goschema.SourceFromEngine(NewReader(r))
}
func (driverGoJSON) NewBytes(b []byte) goschema.Source {
	return goschema.SourceFromEngine(NewBytes(b))
}
func (driverGoJSON) Name() string { return "go-json" }

type source struct {
	dec    *j.Decoder
	framer eng.Framer
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	out := eng.Token{Offset: -1}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			out.Kind = s.framer.Open(true)
		case '}':
			out.Kind = s.framer.Close(true)
		case '[':
			out.Kind = s.framer.Open(false)
		case ']':
			out.Kind = s.framer.Close(false)
		}
	case string:
		out.Kind = s.framer.String()
		out.String = v
	case bool:
		s.framer.Scalar()
		out.Kind, out.Bool = eng.KindBool, v
	case j.Number:
		s.framer.Scalar()
		out.Kind, out.Number = eng.KindNumber, string(v)
	case float64:
		s.framer.Scalar()
		out.Kind, out.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		s.framer.Scalar()
		out.Kind = eng.KindNull
	}
	return out, nil
}

// Location is unknown: go-json does not expose the input offset.
func (s *source) Location() int64 { return -1 }
