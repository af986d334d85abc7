package goschema

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/reoring/goschema/i18n"
	eng "github.com/reoring/goschema/internal/engine"
)

// ParseFrom decodes one document from src, applying the duplicate-key, depth
// and size limits of opt, then validates it. The cleaned object is returned
// on success.
func ParseFrom(ctx context.Context, s *Schema, src Source, opts ...ParseOpt) (map[string]any, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidArgument)
	}
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := decodeFromSource(src, opt)
	if err != nil {
		return nil, toValidationError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, newFieldError(ReasonInvalidObject, "", "", map[string]any{"value": v})
	}
	if err := s.Validate(m, opt.Validate); err != nil {
		return nil, err
	}
	return m, nil
}

// StreamParse validates a JSON document read from r. When MaxBytes is set the
// cap is enforced up front.
func StreamParse(ctx context.Context, s *Schema, r io.Reader, opts ...ParseOpt) (map[string]any, error) {
	if len(opts) > 0 && opts[len(opts)-1].MaxBytes > 0 {
		max := opts[len(opts)-1].MaxBytes
		data, err := io.ReadAll(io.LimitReader(r, max+1))
		if err != nil {
			return nil, inputError(CodeParseError, "", err)
		}
		if int64(len(data)) > max {
			return nil, inputError(CodeTruncated, "", errors.New("max bytes exceeded"))
		}
		return ParseFrom(ctx, s, JSONBytes(data), opts...)
	}
	return ParseFrom(ctx, s, JSONReader(r), opts...)
}

// ParseJSON is a shorthand for ParseFrom over a byte slice.
func ParseJSON(ctx context.Context, s *Schema, data []byte, opts ...ParseOpt) (map[string]any, error) {
	return ParseFrom(ctx, s, JSONBytes(data), opts...)
}

// Decode reads one document from src without validating it.
func Decode(src Source, opts ...ParseOpt) (any, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	v, err := decodeFromSource(src, opt)
	if err != nil {
		return nil, toValidationError(err)
	}
	return v, nil
}

func decodeFromSource(src Source, opt ParseOpt) (any, error) {
	var in eng.TokenSource = engineTokenSource(src)
	if opt.Strictness.OnDuplicateKey != Ignore || opt.MaxDepth > 0 || opt.MaxBytes > 0 {
		in = eng.WrapWithEnforcement(in, eng.EnforceOptions{
			OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
			MaxDepth:    opt.MaxDepth,
			MaxBytes:    opt.MaxBytes,
			IssueSink: func(si eng.SimpleIssue) {
				if si.Code == eng.CodeDuplicateKey && opt.Strictness.OnDuplicateKey == Warn {
					log().Warn("duplicate key in input", "path", si.Path)
				}
			},
		})
	}
	return eng.Decode(in)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func toValidationError(err error) error {
	if _, ok := AsValidationError(err); ok {
		return err
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return inputError(ie.Code, ie.Path, err)
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return inputError(CodeParseError, "", err)
}

func inputError(code, path string, cause error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: i18n.T(code, nil) + ": " + cause.Error(),
		Path:    path,
		Params:  map[string]any{},
		Cause:   cause,
	}
}
