package server

import (
	"net/http"

	"github.com/jonathan/agrimrv-lite/internal/navigation"
)

// handleNavigate serves the Home, Back and Forward buttons. A disallowed move
// leaves the visitor on the page they came from.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	from := localPath(r.PostFormValue("from"))
	router := navigation.NewRedirectRouter(from)
	nav := navigation.NewNavigator(s.table, router)

	switch r.PathValue("direction") {
	case "home":
		nav.GoHome()
	case "back":
		nav.GoBack()
	case "forward":
		nav.GoForward()
	default:
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, router.CurrentPath(), http.StatusSeeOther)
}
