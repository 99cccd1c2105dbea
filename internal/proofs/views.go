package proofs

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ProofRow is a proof with its presentation.
type ProofRow struct {
	Proof
	Badge BadgeInfo
}

// FarmerRow is a farmer record with its presentation.
type FarmerRow struct {
	FarmerRecord
	Badge BadgeInfo
}

// Metric is a labelled figure on the dashboard insight panels.
type Metric struct {
	Label string
	Value string
	Class string
}

// ProofsView is the data behind the My Proofs page.
type ProofsView struct {
	Rows   []ProofRow
	Counts Counts
}

// DashboardView is the data behind the Dashboard page.
type DashboardView struct {
	Farmers       []FarmerRow
	FarmerCounts  Counts
	ProofCounts   Counts
	CarbonCredits string
	Regional      []Metric
	Monthly       []Metric
}

// BuildProofsView pairs each proof with its badge, keeping source order.
func BuildProofsView(ps []Proof) ProofsView {
	rows := make([]ProofRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, ProofRow{Proof: p, Badge: Badge(p.Status)})
	}
	return ProofsView{Rows: rows, Counts: TallyProofs(ps)}
}

// LoadProofsView reads the proof history from src.
func LoadProofsView(ctx context.Context, src Source) (ProofsView, error) {
	ps, err := src.ListProofs(ctx)
	if err != nil {
		return ProofsView{}, fmt.Errorf("failed to list proofs: %w", err)
	}
	return BuildProofsView(ps), nil
}

// LoadDashboardView reads farmers and proofs from src concurrently.
func LoadDashboardView(ctx context.Context, src Source) (DashboardView, error) {
	var (
		farmers []FarmerRecord
		ps      []Proof
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		farmers, err = src.ListFarmers(gctx)
		if err != nil {
			return fmt.Errorf("failed to list farmers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ps, err = src.ListProofs(gctx)
		if err != nil {
			return fmt.Errorf("failed to list proofs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardView{}, err
	}

	rows := make([]FarmerRow, 0, len(farmers))
	for _, f := range farmers {
		rows = append(rows, FarmerRow{FarmerRecord: f, Badge: Badge(f.Status)})
	}

	return DashboardView{
		Farmers:       rows,
		FarmerCounts:  TallyFarmers(farmers),
		ProofCounts:   TallyProofs(ps),
		CarbonCredits: "3 Units",
		Regional: []Metric{
			{Label: "Total Hectares Monitored", Value: "2,450 ha"},
			{Label: "Average Yield Improvement", Value: "+15%", Class: "status-verified"},
			{Label: "Sustainable Practices Adopted", Value: "85%", Class: "leaf-green"},
		},
		Monthly: []Metric{
			{Label: "New Registrations", Value: "124"},
			{Label: "Completed Verifications", Value: "89", Class: "status-verified"},
			{Label: "Pending Reviews", Value: "35", Class: "status-pending"},
		},
	}, nil
}
