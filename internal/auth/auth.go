// Package auth implements admin username/password login with cookie
// sessions.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ttravel/hospitality/internal/config"
	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/pkg/httputil"
	"github.com/ttravel/hospitality/internal/pkg/logger"
	"github.com/ttravel/hospitality/internal/storage"
)

// ErrInvalidCredentials covers both unknown users and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserLookup is the storage the manager reads accounts from.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Compared against when the username is unknown so both failure paths cost
// one bcrypt comparison.
var dummyHash, _ = domain.HashPassword("timing-equaliser")

// Manager handles admin authentication
type Manager struct {
	cfg      *config.AuthConfig
	users    UserLookup
	sessions SessionStore
	now      func() time.Time
}

// NewManager creates a new authentication manager
func NewManager(cfg *config.AuthConfig, users UserLookup, sessions SessionStore) *Manager {
	return &Manager{cfg: cfg, users: users, sessions: sessions, now: time.Now}
}

// Login checks the credentials and opens a session.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := m.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		dummyHash.Matches(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.PasswordHash.Matches(password) {
		return nil, ErrInvalidCredentials
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}
	now := m.now()
	s := Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.SessionTTL()),
	}
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSession returns the session for the current request, or nil if not authenticated
func (m *Manager) GetSession(r *http.Request) *Session {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	s, err := m.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logger.Error("session lookup failed", "error", err)
		}
		return nil
	}
	return s
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// HandleLogin accepts {"username","password"} and sets the session cookie.
func (m *Manager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !httputil.Decode(w, r, &c) {
		return
	}
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" || c.Password == "" {
		httputil.BadRequest(w, "username and password are required")
		return
	}

	s, err := m.Login(r.Context(), c.Username, c.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		logger.Warn("admin login failed", "username", c.Username, "remote", r.RemoteAddr)
		httputil.Unauthorized(w, ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	logger.Info("admin logged in", "username", s.Username)
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   m.cfg.CookieMaxAge,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.OK(w, map[string]any{
		"authenticated": true,
		"user":          userInfo{ID: s.UserID, Username: s.Username},
	})
}

// HandleLogout ends the session and clears the cookie.
func (m *Manager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(m.cfg.CookieName); err == nil && cookie.Value != "" {
		if err := m.sessions.Delete(r.Context(), cookie.Value); err != nil {
			logger.Error("session delete failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
	})
	httputil.OK(w, map[string]bool{"success": true})
}

// HandleUserInfo returns the current user's info as JSON
func (m *Manager) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	s := m.GetSession(r)
	if s == nil {
		httputil.JSON(w, http.StatusUnauthorized, map[string]bool{"authenticated": false})
		return
	}
	httputil.OK(w, map[string]any{
		"authenticated": true,
		"user":          userInfo{ID: s.UserID, Username: s.Username},
	})
}

type ctxKey struct{}

// FromContext returns the session RequireAuth stored on the request context.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}

// RequireAuth is middleware that rejects requests without a valid session.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.GetSession(r)
		if s == nil {
			httputil.Unauthorized(w, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
	})
}
