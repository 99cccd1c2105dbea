package navigation

import (
	"context"

	"github.com/jonathan/agrimrv-lite/internal/types"
)

// Router is the routing collaborator: it knows the current location and can move it.
type Router interface {
	CurrentPath() string
	Navigate(path string)
}

// SignOuter is the sign-out capability of the auth collaborator.
type SignOuter interface {
	SignOut(ctx context.Context, s *types.Session) error
}

// Navigator moves a Router along a Table.
type Navigator struct {
	table  Table
	router Router
}

// NewNavigator creates a Navigator over table driving router.
func NewNavigator(table Table, router Router) *Navigator {
	return &Navigator{table: table, router: router}
}

// CanGoBack reports whether GoBack would navigate.
func (n *Navigator) CanGoBack() bool {
	return n.table.CanGoBack(n.router.CurrentPath())
}

// CanGoForward reports whether GoForward would navigate.
func (n *Navigator) CanGoForward() bool {
	return n.table.CanGoForward(n.router.CurrentPath())
}

// GoBack navigates to the previous route. It is a no-op returning false when
// the current path is first or unlisted.
func (n *Navigator) GoBack() bool {
	prev, ok := n.table.Previous(n.router.CurrentPath())
	if !ok {
		return false
	}
	n.router.Navigate(prev.Path)
	return true
}

// GoForward navigates to the next route. It is a no-op returning false when
// the current path is last or unlisted.
func (n *Navigator) GoForward() bool {
	next, ok := n.table.Next(n.router.CurrentPath())
	if !ok {
		return false
	}
	n.router.Navigate(next.Path)
	return true
}

// GoHome navigates to the home page.
func (n *Navigator) GoHome() {
	n.router.Navigate(PathHome)
}

// Logout calls the sign-out capability once. Nothing else changes here;
// the page that handled the request decides where to go next.
func (n *Navigator) Logout(ctx context.Context, so SignOuter, s *types.Session) error {
	return so.SignOut(ctx, s)
}

// RedirectRouter is a Router for a single request: it starts at a path and
// records the last navigation target.
type RedirectRouter struct {
	current string
	target  string
	moves   int
}

// NewRedirectRouter creates a router positioned at current.
func NewRedirectRouter(current string) *RedirectRouter {
	return &RedirectRouter{current: current}
}

// CurrentPath returns the path the router is positioned at.
func (r *RedirectRouter) CurrentPath() string {
	return r.current
}

// Navigate records path as the redirect target and moves there.
func (r *RedirectRouter) Navigate(path string) {
	r.target = path
	r.current = path
	r.moves++
}

// Target returns the last navigation target and whether any navigation happened.
func (r *RedirectRouter) Target() (string, bool) {
	return r.target, r.moves > 0
}

// Moves returns how many times Navigate was called.
func (r *RedirectRouter) Moves() int {
	return r.moves
}
