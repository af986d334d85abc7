package goschema

// ValidateOpt configures a single Validate/Clean call. The zero value gives
// the defaults: clean first, reject unknown fields, check missing fields and
// strip unknown fields while cleaning. When several options are passed the
// last one wins.
type ValidateOpt struct {
	SkipClean     bool // Do not run the cleaning pass.
	IgnoreUnknown bool // Do not reject undeclared fields.
	IgnoreMissing bool // Skip fields absent from the input.
	KeepUnknown   bool // Keep undeclared fields while cleaning.
}

func lastOpt(opts []ValidateOpt) ValidateOpt {
	if len(opts) == 0 {
		return ValidateOpt{}
	}
	return opts[len(opts)-1]
}

// Severity expresses the severity level for input enforcement issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures duplicate-key enforcement on decoded input.
type Strictness struct {
	OnDuplicateKey Severity
}

// ParseOpt bundles the input decoding limits and the validation options used
// by ParseFrom and StreamParse.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	Validate   ValidateOpt
}
