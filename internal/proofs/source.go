package proofs

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/jonathan/agrimrv-lite/internal/schemas"
	rootschemas "github.com/jonathan/agrimrv-lite/schemas"
)

// Source lists the records shown by the read-only views. The fixture source
// and the PostgreSQL store both implement it.
type Source interface {
	ListFarmers(ctx context.Context) ([]FarmerRecord, error)
	ListProofs(ctx context.Context) ([]Proof, error)
}

//go:embed fixtures/*.json
var fixtureFS embed.FS

// FixtureSource serves the built-in sample collections.
type FixtureSource struct {
	farmers []FarmerRecord
	proofs  []Proof
}

// NewFixtureSource loads and schema-validates the embedded fixtures.
func NewFixtureSource() (*FixtureSource, error) {
	farmersRaw, err := fixtureFS.ReadFile("fixtures/farmers.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read farmer fixtures: %w", err)
	}
	proofsRaw, err := fixtureFS.ReadFile("fixtures/proofs.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read proof fixtures: %w", err)
	}
	return ParseFixtures(farmersRaw, proofsRaw)
}

// ParseFixtures validates raw farmer and proof documents against their
// schemas and decodes them.
func ParseFixtures(farmersRaw, proofsRaw []byte) (*FixtureSource, error) {
	var src FixtureSource
	if err := decodeValidated(rootschemas.Farmers, farmersRaw, &src.farmers); err != nil {
		return nil, err
	}
	if err := decodeValidated(rootschemas.Proofs, proofsRaw, &src.proofs); err != nil {
		return nil, err
	}
	return &src, nil
}

var fixtureValidator = schemas.NewValidator(rootschemas.FS)

func decodeValidated(schemaName string, raw []byte, out any) error {
	if err := fixtureValidator.Validate(schemaName, raw); err != nil {
		return fmt.Errorf("invalid fixture: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode fixture for %s: %w", schemaName, err)
	}
	return nil
}

// ListFarmers returns a copy of the farmer fixtures in insertion order.
func (s *FixtureSource) ListFarmers(ctx context.Context) ([]FarmerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]FarmerRecord, len(s.farmers))
	copy(out, s.farmers)
	return out, nil
}

// ListProofs returns a copy of the proof fixtures in insertion order.
func (s *FixtureSource) ListProofs(ctx context.Context) ([]Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Proof, len(s.proofs))
	copy(out, s.proofs)
	return out, nil
}
