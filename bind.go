package goschema

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Bind validates obj and decodes the cleaned object into dst, which must be a
// pointer to a struct or map. Struct fields are matched by their json tag
// (falling back to the field name); RFC 3339 strings decode into time.Time.
func (s *Schema) Bind(obj any, dst any, opts ...ValidateOpt) error {
	if err := s.Validate(obj, opts...); err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     dst,
		TagName:    "json",
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("%w: bind target: %v", ErrInvalidArgument, err)
	}
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("goschema: bind: %w", err)
	}
	return nil
}
