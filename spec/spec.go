// Package spec embeds the OpenAPI 3 description of the Pureland travel API,
// served verbatim at GET /openapi.yaml.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
