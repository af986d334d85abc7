// Package source installs go-json as the default JSON driver. Import it for
// side effects:
//
//	import _ "github.com/reoring/goschema/source"
package source

import (
	goschema "github.com/reoring/goschema"
	drvgojson "github.com/reoring/goschema/source/gojson"
)

// init in a separate package to avoid an import cycle in root.
func init() { goschema.SetJSONDriver(drvgojson.Driver()) }
