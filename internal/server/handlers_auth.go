package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/agrimrv-lite/internal/auth"
	"github.com/jonathan/agrimrv-lite/internal/navigation"
	"github.com/jonathan/agrimrv-lite/internal/notify"
	"github.com/jonathan/agrimrv-lite/internal/server/middleware"
	"github.com/jonathan/agrimrv-lite/internal/types"
	"go.uber.org/zap"
)

// authFormContent is the view of the Register and Login forms.
type authFormContent struct {
	Heading      string
	Subheading   string
	Action       string
	Email        string
	Loading      bool
	SubmitLabel  string
	LoadingLabel string
	SwitchPrompt string
	SwitchLabel  string
	SwitchPath   string
}

func registerContent(form *auth.Form) authFormContent {
	return authFormContent{
		Heading:      "Create Account",
		Subheading:   "Join AgriMRV-Lite to start monitoring your agricultural practices",
		Action:       navigation.PathRegister,
		Email:        form.Values().Email,
		Loading:      form.Loading(),
		SubmitLabel:  "Sign Up",
		LoadingLabel: "Creating Account...",
		SwitchPrompt: "Already have an account?",
		SwitchLabel:  "Sign in",
		SwitchPath:   navigation.PathLogin,
	}
}

func loginContent(form *auth.Form) authFormContent {
	return authFormContent{
		Heading:      "Welcome Back",
		Subheading:   "Sign in to continue monitoring your agricultural practices",
		Action:       navigation.PathLogin,
		Email:        form.Values().Email,
		Loading:      form.Loading(),
		SubmitLabel:  "Sign In",
		LoadingLabel: "Signing In...",
		SwitchPrompt: "Don't have an account?",
		SwitchLabel:  "Sign up",
		SwitchPath:   navigation.PathRegister,
	}
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.leavePage(r)
	v := s.visitors.get(middleware.GetVisitorID(r))
	s.renderPage(w, r, http.StatusOK, pageAuthForm, "Register", registerContent(v.register))
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.leavePage(r)
	v := s.visitors.get(middleware.GetVisitorID(r))
	s.renderPage(w, r, http.StatusOK, pageAuthForm, "Login", loginContent(v.login))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	v := s.visitors.get(middleware.GetVisitorID(r))
	s.submitAuthForm(w, r, v.register, "Register", registerContent)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	v := s.visitors.get(middleware.GetVisitorID(r))
	s.submitAuthForm(w, r, v.login, "Login", loginContent)
}

// submitAuthForm runs form with the posted credentials. On success the session
// cookie is issued and the browser follows the form's navigation; on failure
// the form is shown again with the entered email.
func (s *Server) submitAuthForm(w http.ResponseWriter, r *http.Request, form *auth.Form, title string, content func(*auth.Form) authFormContent) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	creds := types.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	router := navigation.NewRedirectRouter(r.URL.Path)
	session, err := form.Submit(r.Context(), creds, router)
	if err != nil {
		if errors.Is(err, auth.ErrBusy) {
			s.logger.Debug("auth form submitted while busy")
		}
		s.renderPage(w, r, auth.HTTPStatus(err), pageAuthForm, title, content(form))
		return
	}

	token, err := s.tokens.GenerateToken(session)
	if err != nil {
		s.logger.Error("failed to issue session token", zap.Error(err))
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	middleware.SetSessionCookie(w, token, s.tokens.TTL(), s.opts.SecureCookies)

	target, _ := router.Target()
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleLogout signs the visitor out. The Dashboard sends visitors to the
// login page with a notification; elsewhere they stay where they were.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	from := localPath(r.PostFormValue("from"))
	session := middleware.GetSession(r)

	nav := navigation.NewNavigator(s.table, navigation.NewRedirectRouter(from))
	if err := nav.Logout(r.Context(), s.provider, session); err != nil {
		s.logger.Error("sign out failed", zap.Error(err))
	}
	middleware.ClearSessionCookie(w, s.opts.SecureCookies)

	if from == navigation.PathDashboard {
		s.visitors.get(middleware.GetVisitorID(r)).notes.Notify(notify.Notification{
			Title:       "Logged Out",
			Description: "You have been successfully logged out",
		})
		http.Redirect(w, r, navigation.PathLogin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, from, http.StatusSeeOther)
}

// localPath keeps redirects on this site; anything else becomes the home page.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return navigation.PathHome
	}
	return p
}
