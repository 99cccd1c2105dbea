// Package navigation holds the fixed route table and the navigation bar model
// rendered at the top of every page.
package navigation

// Paths of the application pages.
const (
	PathHome        = "/"
	PathFarmerInput = "/farmer-input"
	PathProofs      = "/proofs"
	PathDashboard   = "/dashboard"
	PathLogin       = "/login"
	PathRegister    = "/register"
)

// Route is a named, navigable path.
type Route struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Table is an ordered list of routes. Order defines back/forward adjacency.
type Table struct {
	routes []Route
}

// NewTable builds a table from routes. Paths are expected to be unique;
// on duplicates the first occurrence wins for lookups.
func NewTable(routes ...Route) Table {
	cp := make([]Route, len(routes))
	copy(cp, routes)
	return Table{routes: cp}
}

// DefaultTable returns the application route table.
func DefaultTable() Table {
	return NewTable(
		Route{Path: PathHome, Name: "Home"},
		Route{Path: PathFarmerInput, Name: "Farmer Input"},
		Route{Path: PathProofs, Name: "My Proofs"},
		Route{Path: PathDashboard, Name: "Dashboard"},
		Route{Path: PathLogin, Name: "Login"},
		Route{Path: PathRegister, Name: "Register"},
	)
}

// Routes returns a copy of the routes in table order.
func (t Table) Routes() []Route {
	cp := make([]Route, len(t.routes))
	copy(cp, t.routes)
	return cp
}

// Len returns the number of routes.
func (t Table) Len() int {
	return len(t.routes)
}

// Index returns the position of path in the table, or -1 when it is not listed.
func (t Table) Index(path string) int {
	for i, r := range t.routes {
		if r.Path == path {
			return i
		}
	}
	return -1
}

// CanGoBack reports whether path has a predecessor.
func (t Table) CanGoBack(path string) bool {
	return t.Index(path) > 0
}

// CanGoForward reports whether path is listed and has a successor.
func (t Table) CanGoForward(path string) bool {
	i := t.Index(path)
	return i >= 0 && i < len(t.routes)-1
}

// Previous returns the route before path, if any.
func (t Table) Previous(path string) (Route, bool) {
	if !t.CanGoBack(path) {
		return Route{}, false
	}
	return t.routes[t.Index(path)-1], true
}

// Next returns the route after path, if any.
func (t Table) Next(path string) (Route, bool) {
	if !t.CanGoForward(path) {
		return Route{}, false
	}
	return t.routes[t.Index(path)+1], true
}

// Name returns the display name for path, or "" when the path is not listed.
func (t Table) Name(path string) string {
	if i := t.Index(path); i >= 0 {
		return t.routes[i].Name
	}
	return ""
}
