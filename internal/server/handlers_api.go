package server

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/agrimrv-lite/internal/proofs"
	"go.uber.org/zap"
)

var apiValidator = validator.New()

// statusQuery is the optional filter of the list endpoints.
type statusQuery struct {
	Status string `validate:"omitempty,oneof=verified pending rejected"`
}

func parseStatusQuery(r *http.Request) (statusQuery, error) {
	q := statusQuery{Status: r.URL.Query().Get("status")}
	if err := apiValidator.Struct(q); err != nil {
		return q, fmt.Errorf("status must be one of verified, pending, rejected")
	}
	return q, nil
}

type routeResponse struct {
	Index      int    `json:"index"`
	Path       string `json:"path"`
	Name       string `json:"name"`
	CanGoBack  bool   `json:"can_go_back"`
	CanForward bool   `json:"can_go_forward"`
}

// handleAPIRoutes lists the route table with back/forward availability.
func (s *Server) handleAPIRoutes(w http.ResponseWriter, _ *http.Request) {
	routes := s.table.Routes()
	resp := make([]routeResponse, 0, len(routes))
	for i, rt := range routes {
		resp = append(resp, routeResponse{
			Index:      i,
			Path:       rt.Path,
			Name:       rt.Name,
			CanGoBack:  s.table.CanGoBack(rt.Path),
			CanForward: s.table.CanGoForward(rt.Path),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"routes": resp})
}

type proofResponse struct {
	proofs.Proof
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

type farmerResponse struct {
	proofs.FarmerRecord
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// handleAPIProofs returns the proof history and its status counts.
// The counts always cover the whole history; ?status= filters the rows.
func (s *Server) handleAPIProofs(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatusQuery(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := proofs.LoadProofsView(r.Context(), s.source)
	if err != nil {
		s.logger.Error("failed to load proofs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load proofs")
		return
	}

	rows := make([]proofResponse, 0, len(view.Rows))
	for _, row := range view.Rows {
		if q.Status != "" && string(row.Status) != q.Status {
			continue
		}
		rows = append(rows, proofResponse{Proof: row.Proof, Icon: row.Badge.Icon, Label: row.Badge.Label})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"proofs": rows,
		"counts": view.Counts,
	})
}

// handleAPIFarmers returns the dashboard farmer table and its status counts.
func (s *Server) handleAPIFarmers(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatusQuery(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := proofs.LoadDashboardView(r.Context(), s.source)
	if err != nil {
		s.logger.Error("failed to load farmers", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load farmers")
		return
	}

	rows := make([]farmerResponse, 0, len(view.Farmers))
	for _, row := range view.Farmers {
		if q.Status != "" && string(row.Status) != q.Status {
			continue
		}
		rows = append(rows, farmerResponse{FarmerRecord: row.FarmerRecord, Icon: row.Badge.Icon, Label: row.Badge.Label})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"farmers":        rows,
		"counts":         view.FarmerCounts,
		"proof_counts":   view.ProofCounts,
		"carbon_credits": view.CarbonCredits,
	})
}
