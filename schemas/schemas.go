// Package schemas embeds the JSON Schemas describing AgriMRV-Lite data documents.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Names of the embedded schemas.
const (
	Farmers = "farmers.schema.json"
	Proofs  = "proofs.schema.json"
)

// Load returns the raw bytes of the named schema.
func Load(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
