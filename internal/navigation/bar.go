package navigation

import "github.com/jonathan/agrimrv-lite/internal/types"

// Action is a button in the navigation bar.
type Action struct {
	Label   string
	Path    string
	Method  string // GET links, POST for state-changing actions
	Enabled bool
	Style   string
}

// Bar is the view model of the navigation bar for one page.
type Bar struct {
	CurrentPath string
	Home        Action
	Back        Action
	Forward     Action
	Auth        []Action
	SignedIn    bool
	DisplayName string
}

// LogoutPath is the endpoint the Logout action posts to.
const LogoutPath = "/logout"

// BuildBar computes the navigation bar for currentPath. Back and Forward are
// enabled from the table position; the auth actions depend on whether session
// is signed in.
func BuildBar(t Table, currentPath string, session *types.Session) Bar {
	bar := Bar{
		CurrentPath: currentPath,
		Home:        Action{Label: "Home", Path: PathHome, Method: "GET", Enabled: true},
		Back:        Action{Label: "Back", Method: "GET"},
		Forward:     Action{Label: "Forward", Method: "GET"},
	}

	if prev, ok := t.Previous(currentPath); ok {
		bar.Back.Path = prev.Path
		bar.Back.Enabled = true
	}
	if next, ok := t.Next(currentPath); ok {
		bar.Forward.Path = next.Path
		bar.Forward.Enabled = true
	}

	if session.SignedIn() {
		bar.SignedIn = true
		bar.DisplayName = session.DisplayName()
		bar.Auth = []Action{
			{Label: "Dashboard", Path: PathDashboard, Method: "GET", Enabled: true},
			{Label: "Logout", Path: LogoutPath, Method: "POST", Enabled: true, Style: "destructive"},
		}
	} else {
		bar.Auth = []Action{
			{Label: "Login", Path: PathLogin, Method: "GET", Enabled: true},
			{Label: "Register", Path: PathRegister, Method: "GET", Enabled: true, Style: "accent"},
		}
	}

	return bar
}
