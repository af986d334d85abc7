package goschema

import (
	"io"
	"sync"

	eng "github.com/reoring/goschema/internal/engine"
	jsonsrc "github.com/reoring/goschema/source/json"
)

// TokenKind enumerates input token kinds. The values mirror the engine's.
type TokenKind int

const (
	TokenBeginObject TokenKind = TokenKind(eng.KindBeginObject)
	TokenEndObject   TokenKind = TokenKind(eng.KindEndObject)
	TokenBeginArray  TokenKind = TokenKind(eng.KindBeginArray)
	TokenEndArray    TokenKind = TokenKind(eng.KindEndArray)
	TokenKey         TokenKind = TokenKind(eng.KindKey)
	TokenString      TokenKind = TokenKind(eng.KindString)
	TokenNumber      TokenKind = TokenKind(eng.KindNumber)
	TokenBool        TokenKind = TokenKind(eng.KindBool)
	TokenNull        TokenKind = TokenKind(eng.KindNull)
)

// Token describes a token in the input stream. Offset records the byte position
// when known (-1 otherwise).
type Token struct {
	Kind   TokenKind
	String string // key/string tokens
	Number string // number text, decoded as json.Number
	Bool   bool
	Offset int64
}

// Source abstracts over polymorphic input sources (JSON, YAML...).
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source. The default implementation is
// based on encoding/json; importing the source package installs go-json.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// JSONDriverName reports the active driver.
func JSONDriverName() string { return getJSONDriver().Name() }

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source { return SourceFromEngine(jsonsrc.NewReader(r)) }
func (defaultJSONDriver) NewBytes(b []byte) Source     { return SourceFromEngine(jsonsrc.NewBytes(b)) }
func (defaultJSONDriver) Name() string                 { return "encoding/json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// SourceFromEngine wraps an engine token source produced by a driver package.
func SourceFromEngine(inner eng.TokenSource) Source { return &engineSourceAdapter{inner: inner} }

type engineSourceAdapter struct{ inner eng.TokenSource }

func (s *engineSourceAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}

func (s *engineSourceAdapter) Location() int64 { return s.inner.Location() }

// tokenSourceAdapter exposes a caller-provided Source to the engine.
type tokenSourceAdapter struct{ inner Source }

func (a *tokenSourceAdapter) NextToken() (eng.Token, error) {
	t, err := a.inner.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: eng.Kind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}

func (a *tokenSourceAdapter) Location() int64 { return a.inner.Location() }

func engineTokenSource(s Source) eng.TokenSource {
	if ea, ok := s.(*engineSourceAdapter); ok {
		return ea.inner
	}
	return &tokenSourceAdapter{inner: s}
}
