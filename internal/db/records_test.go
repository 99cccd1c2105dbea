package db

import (
	"context"
	"testing"

	"github.com/jonathan/agrimrv-lite/internal/proofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_SeedAndList(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	fixtures, err := proofs.NewFixtureSource()
	require.NoError(t, err)

	_, err = db.Seed(ctx, fixtures)
	require.NoError(t, err)

	// Seeding again inserts nothing new
	inserted, err := db.Seed(ctx, fixtures)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	farmers, err := db.ListFarmers(ctx)
	require.NoError(t, err)
	want, err := fixtures.ListFarmers(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(farmers), len(want))
	assert.Equal(t, want, farmers[:len(want)])

	ps, err := db.ListProofs(ctx)
	require.NoError(t, err)
	wantProofs, err := fixtures.ListProofs(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(ps), len(wantProofs))
	assert.Equal(t, wantProofs, ps[:len(wantProofs)])
}

type badDateSource struct{}

func (badDateSource) ListFarmers(context.Context) ([]proofs.FarmerRecord, error) { return nil, nil }
func (badDateSource) ListProofs(context.Context) ([]proofs.Proof, error) {
	return []proofs.Proof{{ID: "x", Crop: "Rice", Status: proofs.StatusPending, Date: "yesterday", ProofID: "ZZZ999"}}, nil
}

func TestIntegration_SeedRejectsBadDate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Seed(context.Background(), badDateSource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}
