// Package api holds the published REST API document.
package api

import _ "embed"

// SwaggerJSON is the OpenAPI 2.0 document of the Gin REST API.
//
//go:embed swagger/social.swagger.json
var SwaggerJSON []byte
