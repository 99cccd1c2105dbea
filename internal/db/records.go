package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/agrimrv-lite/internal/proofs"
)

var _ proofs.Source = (*DB)(nil)

// ListFarmers returns the farmer records in insertion order.
func (db *DB) ListFarmers(ctx context.Context) ([]proofs.FarmerRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, crop, status, proof_id FROM farmers ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query farmers: %w", err)
	}
	defer rows.Close()

	var farmers []proofs.FarmerRecord
	for rows.Next() {
		var f proofs.FarmerRecord
		var status string
		if err := rows.Scan(&f.ID, &f.Name, &f.Crop, &status, &f.ProofID); err != nil {
			return nil, fmt.Errorf("failed to scan farmer: %w", err)
		}
		f.Status = proofs.Status(status)
		farmers = append(farmers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating farmers: %w", err)
	}
	return farmers, nil
}

// ListProofs returns the proof history in insertion order.
func (db *DB) ListProofs(ctx context.Context) ([]proofs.Proof, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, crop, status, proof_date, proof_id FROM proofs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query proofs: %w", err)
	}
	defer rows.Close()

	var ps []proofs.Proof
	for rows.Next() {
		var p proofs.Proof
		var status string
		var date time.Time
		if err := rows.Scan(&p.ID, &p.Crop, &status, &date, &p.ProofID); err != nil {
			return nil, fmt.Errorf("failed to scan proof: %w", err)
		}
		p.Status = proofs.Status(status)
		p.Date = date.Format(proofs.DateLayout)
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proofs: %w", err)
	}
	return ps, nil
}

// Seed copies the records of src into the farmers and proofs tables.
// Rows whose id already exists are left untouched.
func (db *DB) Seed(ctx context.Context, src proofs.Source) (int, error) {
	farmers, err := src.ListFarmers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read farmers to seed: %w", err)
	}
	ps, err := src.ListProofs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read proofs to seed: %w", err)
	}

	batch := &pgx.Batch{}
	for _, f := range farmers {
		batch.Queue(
			`INSERT INTO farmers (id, name, crop, status, proof_id)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			f.ID, f.Name, f.Crop, string(f.Status), f.ProofID,
		)
	}
	for _, p := range ps {
		date, err := time.Parse(proofs.DateLayout, p.Date)
		if err != nil {
			return 0, fmt.Errorf("proof %s has invalid date %q: %w", p.ID, p.Date, err)
		}
		batch.Queue(
			`INSERT INTO proofs (id, crop, status, proof_date, proof_id)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Crop, string(p.Status), date, p.ProofID,
		)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("failed to seed row %d: %w", i, err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close seed batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return inserted, nil
}
