package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "winecalc/internal/log"
	"winecalc/internal/views/pages"
)

const minPasswordLength = 8

type credentials struct {
	name     string
	email    string
	password string
	confirm  string
}

func parseCredentials(r *http.Request) (credentials, error) {
	if err := r.ParseForm(); err != nil {
		return credentials{}, err
	}
	return credentials{
		name:     strings.TrimSpace(r.PostFormValue("name")),
		email:    strings.TrimSpace(r.PostFormValue("email")),
		password: r.PostFormValue("password"),
		confirm:  r.PostFormValue("confirm_password"),
	}, nil
}

// validateSignup returns the message shown to the user, or "" when the
// submission is acceptable.
func (c credentials) validateSignup() string {
	switch {
	case c.email == "" || !strings.Contains(c.email, "@"):
		return "Please provide a valid email address."
	case len(c.password) < minPasswordLength:
		return "Password must be at least 8 characters long."
	case c.password != c.confirm:
		return "Passwords do not match."
	}
	return ""
}

// Login renders the authentication view and processes sign-in submissions.
func Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	applog.Debug(r.Context(), "handling login request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		message := ""
		if sessionLoaded(r) {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		render(w, r, pages.LoginPartial(message, ""), pages.Login(message, ""))
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		creds, err := parseCredentials(r)
		if err != nil {
			applog.Debug(r.Context(), "failed to parse login form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		if creds.email == "" || creds.password == "" {
			msg := "Email and password are required."
			render(w, r, pages.LoginPartial(msg, creds.email), pages.Login(msg, creds.email))
			return
		}

		if _, err := authenticate(r, creds.email, creds.password); err != nil {
			if errors.Is(err, errBadCredentials) {
				applog.Debug(r.Context(), "authentication failed", "email", normalizeEmail(creds.email))
			} else {
				applog.Error(r.Context(), "failed to sign in", "error", err)
			}
			msg := loginFailureMessage(err)
			render(w, r, pages.LoginPartial(msg, creds.email), pages.Login(msg, creds.email))
			return
		}

		applog.Info(r.Context(), "user signed in", "email", normalizeEmail(creds.email))
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Signup displays the account creation form and processes new registrations.
func Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	applog.Debug(r.Context(), "handling signup request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		render(w, r, pages.SignupPartial("", "", ""), pages.Signup("", "", ""))
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			http.Error(w, "registration not available", http.StatusServiceUnavailable)
			return
		}
		creds, err := parseCredentials(r)
		if err != nil {
			applog.Debug(r.Context(), "failed to parse signup form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		fail := func(msg string) {
			render(w, r, pages.SignupPartial(msg, creds.name, creds.email), pages.Signup(msg, creds.name, creds.email))
		}

		if msg := creds.validateSignup(); msg != "" {
			applog.Debug(r.Context(), "signup rejected", "reason", msg)
			fail(msg)
			return
		}

		user, err := registerOwner(r, creds)
		switch {
		case errors.Is(err, errEmailTaken):
			fail("An account with that email already exists.")
			return
		case err != nil:
			applog.Error(r.Context(), "failed to create user", "error", err)
			fail("We couldn't create your account right now. Please try again.")
			return
		}
		if err := establishSession(r, user); err != nil {
			applog.Error(r.Context(), "failed to establish session after signup", "error", err)
			fail("We couldn't sign you in after creating your account. Please try again.")
			return
		}

		applog.Info(r.Context(), "cellar account created", "userID", user.ID)
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// render writes partial for HTMX requests and full otherwise.
func render(w http.ResponseWriter, r *http.Request, partial, full templ.Component) {
	component := full
	if isHTMX(r) {
		component = partial
	}
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
