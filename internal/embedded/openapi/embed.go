// Package openapi embeds the OpenAPI 3.0 description of the skumerge HTTP API.
package openapi

import (
	_ "embed"
	"sync"

	"github.com/goccy/go-yaml"
)

// SpecYAML contains the OpenAPI document.
// Served at: GET /api/v1/openapi.yaml
//
//go:embed openapi.yaml
var SpecYAML []byte

var (
	jsonOnce sync.Once
	specJSON []byte
	jsonErr  error
)

// SpecJSON returns the OpenAPI document converted to JSON.
// Served at: GET /api/v1/openapi.json
func SpecJSON() ([]byte, error) {
	jsonOnce.Do(func() {
		specJSON, jsonErr = yaml.YAMLToJSON(SpecYAML)
	})
	return specJSON, jsonErr
}
