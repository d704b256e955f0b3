package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	applog "winecalc/internal/log"
	"winecalc/models"
)

const (
	sessionAuthenticatedKey = "cellar:signed-in"
	sessionLoginMessageKey  = "cellar:flash"
	sessionUserIDKey        = "cellar:owner:id"
	sessionUserEmailKey     = "cellar:owner:email"
	sessionUserNameKey      = "cellar:owner:name"
)

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
)

var (
	errBadCredentials = errors.New("auth: unknown email or wrong password")
	errEmailTaken     = errors.New("auth: email already registered")
	errNoSession      = errors.New("auth: session manager not configured")
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, db *gorm.DB) {
	sessionManager = sm
	database = db
}

// cellarOwner is the signed-in winemaker. Every tank and blend query is
// scoped to ID.
type cellarOwner struct {
	ID    uint
	Email string
	Name  string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func createUser(r *http.Request, email, name, password string) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashed),
	}
	if err := database.WithContext(r.Context()).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func findUserByEmail(r *http.Request, email string) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}
	user := &models.User{}
	if err := database.WithContext(r.Context()).Where("lower(email) = ?", normalizeEmail(email)).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// registerOwner opens a new cellar account. It fails with errEmailTaken when
// the address is already in use.
func registerOwner(r *http.Request, c credentials) (*models.User, error) {
	_, err := findUserByEmail(r, c.email)
	switch {
	case err == nil:
		return nil, errEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	return createUser(r, c.email, c.name, c.password)
}

// authenticate checks the credentials and signs the owner in. Unknown emails
// and wrong passwords both yield errBadCredentials.
func authenticate(r *http.Request, email, password string) (*models.User, error) {
	user, err := findUserByEmail(r, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		applog.Debug(r.Context(), "password mismatch during login", "userID", user.ID)
		return nil, errBadCredentials
	}
	if err := establishSession(r, user); err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}
	return user, nil
}

// loginFailureMessage is the text shown on the login form for err.
func loginFailureMessage(err error) string {
	if errors.Is(err, errBadCredentials) {
		return "Invalid email or password. Please try again."
	}
	return "We were unable to sign you in. Please try again."
}

func establishSession(r *http.Request, user *models.User) error {
	if sessionManager == nil {
		return errNoSession
	}
	ctx := r.Context()
	if err := sessionManager.RenewToken(ctx); err != nil {
		return err
	}
	sessionManager.Put(ctx, sessionAuthenticatedKey, true)
	sessionManager.Put(ctx, sessionUserIDKey, int(user.ID))
	sessionManager.Put(ctx, sessionUserEmailKey, user.Email)
	sessionManager.Put(ctx, sessionUserNameKey, user.Name)
	return nil
}

// sessionLoaded reports whether the session manager has loaded session data
// into the request context. scs panics on reads from an unloaded context.
func sessionLoaded(r *http.Request) (loaded bool) {
	if sessionManager == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			loaded = false
		}
	}()
	sessionManager.Status(r.Context())
	return true
}

// sessionOwner returns the signed-in owner, if any.
func sessionOwner(r *http.Request) (cellarOwner, bool) {
	if !sessionLoaded(r) {
		return cellarOwner{}, false
	}
	ctx := r.Context()
	id := sessionManager.GetInt(ctx, sessionUserIDKey)
	if !sessionManager.GetBool(ctx, sessionAuthenticatedKey) || id <= 0 {
		return cellarOwner{}, false
	}
	return cellarOwner{
		ID:    uint(id),
		Email: sessionManager.GetString(ctx, sessionUserEmailKey),
		Name:  sessionManager.GetString(ctx, sessionUserNameKey),
	}, true
}

// currentUserID returns the signed-in owner's id.
func currentUserID(r *http.Request) (uint, bool) {
	owner, ok := sessionOwner(r)
	return owner.ID, ok
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	_, ok := sessionOwner(r)
	return ok
}

// RequireAuthentication lets signed-in owners through. API calls get a JSON
// 401; page loads are sent to the login form with a flash message.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, ok := sessionOwner(r)
		if !ok {
			applog.Debug(r.Context(), "unauthenticated request rejected", "path", r.URL.Path)
			if strings.HasPrefix(r.URL.Path, "/app/api/") {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if sessionLoaded(r) {
				sessionManager.Put(r.Context(), sessionLoginMessageKey, "Please sign in to open your cellar.")
			}
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(applog.WithFields(r.Context(), "userID", owner.ID)))
	})
}

// Logout destroys the current session and redirects the user to the login screen.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sessionLoaded(r) {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}
	redirectToLogin(w, r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, "/login")
}

func redirectToApp(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, "/app")
}

// redirectTo uses HX-Redirect for HTMX requests so the whole page navigates.
func redirectTo(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
