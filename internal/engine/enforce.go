package engine

import "strconv"

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// Issue codes produced by the enforcement layer.
const (
	CodeParseError   = "parse-error"
	CodeDuplicateKey = "duplicate-key"
	CodeTruncated    = "truncated"
)

// SimpleIssue is a minimal issue representation used by internal helpers.
// Path uses the bracketed field notation (a[b][0]).
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal issues (duplicate keys in warn mode).
	IssueSink func(SimpleIssue)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) fail(si SimpleIssue) (Token, error) {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	return Token{}, IssueError{si}
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := e.pathFor(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, path: path}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return e.fail(SimpleIssue{Code: CodeParseError, Path: path, Message: "max depth exceeded"})
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if e.opt.OnDuplicate != DupIgnore {
					if _, dup := top.keys[tok.String]; dup {
						si := SimpleIssue{Code: CodeDuplicateKey, Path: path, Message: "key '" + tok.String + "' duplicated"}
						if e.opt.OnDuplicate == DupError {
							return e.fail(si)
						}
						if e.opt.IssueSink != nil {
							e.opt.IssueSink(si)
						}
					}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	default:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return e.fail(SimpleIssue{Code: CodeTruncated, Path: path, Message: "max bytes exceeded"})
		}
	}
	return tok, nil
}

// valueDone marks the current object member as complete.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

// pathFor computes the bracketed path of the value a token belongs to.
func (e *enforcingTokenSource) pathFor(tok Token) string {
	if len(e.stack) == 0 {
		if tok.Kind == KindKey {
			return tok.String
		}
		return ""
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return JoinPath(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return top.path
	}
	if top.kind == kindArray {
		p := JoinPath(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	if !top.expectingKey {
		return JoinPath(top.path, top.pendingKey)
	}
	return top.path
}

// JoinPath appends a segment in bracket notation: "a" + "b" -> "a[b]".
func JoinPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "[" + seg + "]"
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
