package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	goschema "github.com/reoring/goschema"
	_ "github.com/reoring/goschema/source"
	"github.com/reoring/goschema/source/gojson"
)

func TestImportInstallsGoJSON(t *testing.T) {
	assert.Equal(t, "go-json", goschema.JSONDriverName())
	goschema.UseDefaultJSONDriver()
	defer goschema.SetJSONDriver(gojson.Driver())
	assert.Equal(t, "encoding/json", goschema.JSONDriverName())
}
