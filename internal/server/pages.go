package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/jonathan/agrimrv-lite/internal/navigation"
	"github.com/jonathan/agrimrv-lite/internal/notify"
	"github.com/jonathan/agrimrv-lite/internal/proofs"
	"github.com/jonathan/agrimrv-lite/internal/server/middleware"
	"github.com/jonathan/agrimrv-lite/internal/submission"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	pageIndex       = "index"
	pageFarmerInput = "farmer_input"
	pageProofs      = "proofs"
	pageDashboard   = "dashboard"
	pageAuthForm    = "auth_form"
)

// pageData is what the layout template renders.
type pageData struct {
	Title   string
	Bar     navigation.Bar
	Notes   []notify.Notification
	Content any
}

type pageRenderer struct {
	pages map[string]*template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	r := &pageRenderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageIndex, pageFarmerInput, pageProofs, pageDashboard, pageAuthForm} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render executes page into a buffer so a template error never leaves a half-written page.
func (p *pageRenderer) render(name string, data pageData) ([]byte, error) {
	t, ok := p.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// renderPage renders a page for the current visitor, draining their pending notifications.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name, title string, content any) {
	v := s.visitors.get(middleware.GetVisitorID(r))
	data := pageData{
		Title:   title,
		Bar:     navigation.BuildBar(s.table, r.URL.Path, middleware.GetSession(r)),
		Notes:   v.notes.Drain(),
		Content: content,
	}

	body, err := s.pages.render(name, data)
	if err != nil {
		s.logger.Error("page render failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("failed to write page", zap.Error(err))
	}
}

// leavePage tears down the farmer input flow when its visitor opens another page.
func (s *Server) leavePage(r *http.Request) {
	if s.flows.Release(middleware.GetVisitorID(r)) {
		s.logger.Debug("released submission flow", zap.String("visitor_id", middleware.GetVisitorID(r)))
	}
}

type navCard struct {
	Title       string
	Description string
	Icon        string
	Path        string
}

type quickStat struct {
	Value string
	Label string
	Class string
}

type indexContent struct {
	Cards []navCard
	Stats []quickStat
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.leavePage(r)
	s.renderPage(w, r, http.StatusOK, pageIndex, "Home", indexContent{
		Cards: []navCard{
			{Title: "Upload Crop Photo", Description: "Capture and verify your crop images", Icon: "📷", Path: navigation.PathFarmerInput},
			{Title: "Record Voice Note", Description: "Document your farming practices", Icon: "🎤", Path: navigation.PathFarmerInput},
			{Title: "My Proofs", Description: "View your verification history", Icon: "📄", Path: navigation.PathProofs},
			{Title: "NABARD Dashboard", Description: "Monitor farming metrics and impact", Icon: "📊", Path: navigation.PathDashboard},
		},
		Stats: []quickStat{
			{Value: "1,250+", Label: "Verified Farmers", Class: "status-verified"},
			{Value: "30%", Label: "Water Savings", Class: "status-pending"},
			{Value: "500", Label: "Carbon Credits", Class: "leaf-green"},
		},
	})
}

type farmerInputContent struct {
	State submission.State
}

func (s *Server) handleFarmerInput(w http.ResponseWriter, r *http.Request) {
	flow := s.flows.Get(middleware.GetVisitorID(r))
	s.renderPage(w, r, http.StatusOK, pageFarmerInput, "Farmer Input", farmerInputContent{State: flow.Snapshot()})
}

func (s *Server) handleProofs(w http.ResponseWriter, r *http.Request) {
	s.leavePage(r)
	view, err := proofs.LoadProofsView(r.Context(), s.source)
	if err != nil {
		s.logger.Error("failed to load proofs", zap.Error(err))
		http.Error(w, "Failed to load proofs", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, http.StatusOK, pageProofs, "My Proofs", view)
}

type dashboardContent struct {
	Email string
	View  proofs.DashboardView
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.leavePage(r)
	view, err := proofs.LoadDashboardView(r.Context(), s.source)
	if err != nil {
		s.logger.Error("failed to load dashboard", zap.Error(err))
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, http.StatusOK, pageDashboard, "Dashboard", dashboardContent{
		Email: middleware.GetSession(r).DisplayName(),
		View:  view,
	})
}
