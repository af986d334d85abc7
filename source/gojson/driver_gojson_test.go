package gojson_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goschema "github.com/reoring/goschema"
	eng "github.com/reoring/goschema/internal/engine"
	"github.com/reoring/goschema/source/gojson"
)

func TestDecode(t *testing.T) {
	v, err := eng.Decode(gojson.NewBytes([]byte(`{"a":"b","c":[1.50,false,null],"d":{"e":"f"}}`)))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": "b",
		"c": []any{json.Number("1.50"), false, nil},
		"d": map[string]any{"e": "f"},
	}, v)
}

func TestDriver_Validate(t *testing.T) {
	d := gojson.Driver()
	assert.Equal(t, "go-json", d.Name())

	s := goschema.MustNew(
		goschema.Field{Name: "price", Spec: goschema.FieldSpec{Type: goschema.Number, Decimal: goschema.FloatOnly}},
		goschema.Field{Name: "name", Spec: goschema.FieldSpec{Type: goschema.String}},
	)
	out, err := goschema.ParseFrom(context.Background(), s, d.NewBytes([]byte(`{"price":9.0,"name":" x "}`)))
	require.NoError(t, err)
	assert.Equal(t, "x", out["name"])

	opt := goschema.ParseOpt{Strictness: goschema.Strictness{OnDuplicateKey: goschema.Error}}
	_, err = goschema.ParseFrom(context.Background(), s, d.NewBytes([]byte(`{"price":1.5,"price":2.5,"name":"x"}`)), opt)
	ve, ok := goschema.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, goschema.CodeDuplicateKey, ve.Code)
	assert.Equal(t, "price", ve.Path)
}

func TestLocationUnknown(t *testing.T) {
	src := gojson.NewBytes([]byte(`{}`))
	_, err := src.NextToken()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), src.Location())
}
