// Package session holds the process-wide auth session: the bearer token,
// the current user's profile and the level derived from karma. The token is
// mirrored to durable storage on every change and restored at startup.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ursmart/webapp/internal/app/gateway"
	"github.com/ursmart/webapp/internal/app/models"
)

// refreshTimeout bounds the background profile fetch spawned on token
// changes.
const refreshTimeout = 30 * time.Second

// Store is the session state machine. Two observable axes: token
// ("" <-> non-empty) and user (absent <-> present). Token cleared implies
// user cleared.
type Store struct {
	auth    gateway.AuthAPI
	users   gateway.UserAPI
	storage TokenStorage
	logger  zerolog.Logger

	mu      sync.RWMutex
	token   string
	user    *models.UserProfile
	loading bool
}

// NewStore creates a session store, restoring a persisted token if one
// exists. A restored token triggers the same asynchronous profile fetch a
// fresh login does.
func NewStore(auth gateway.AuthAPI, users gateway.UserAPI, storage TokenStorage, logger zerolog.Logger) *Store {
	s := &Store{
		auth:    auth,
		users:   users,
		storage: storage,
		logger:  logger,
	}

	token, err := storage.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to restore persisted token, starting unauthenticated")
		return s
	}
	if token == "" {
		return s
	}

	s.token = token
	if exp, ok := tokenExpiry(token); ok && time.Now().After(exp) {
		logger.Warn().Time("expiredAt", exp).Msg("Restored session token is already expired")
	} else {
		logger.Info().Msg("Restored session from persisted token")
	}
	go s.backgroundRefresh()

	return s
}

// Login exchanges credentials for a token. Gateway errors propagate
// unchanged so the form can show the backend's detail message.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.setToken(resp.AccessToken)
	return nil
}

// Register creates an account and immediately logs in with the same
// credentials.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.setLoading(true)
	if _, err := s.auth.Register(ctx, name, email, password); err != nil {
		s.setLoading(false)
		return err
	}
	s.setLoading(false)

	return s.Login(ctx, email, password)
}

// Logout clears the token and the user synchronously and removes the
// persisted token. Safe to call repeatedly; the gateway invokes it whenever
// any call comes back 401.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to remove persisted token")
	}
	if wasAuthenticated {
		s.logger.Info().Msg("Session cleared")
	}
}

// RefreshUser fetches the current profile and attaches the derived level.
// A failure leaves the existing user untouched: the token is not revoked
// just because one profile fetch failed, it may be a transient network
// issue.
func (s *Store) RefreshUser(ctx context.Context) {
	token := s.Token()
	if token == "" {
		return
	}

	profile, err := s.users.CurrentUser(ctx, token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to fetch user info")
		return
	}
	profile.Level = LevelForKarma(profile.Karma)

	s.mu.Lock()
	// The token may have been cleared while the fetch was in flight.
	if s.token != "" {
		s.user = &profile
	}
	s.mu.Unlock()
}

// Token returns the current bearer token, "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current profile, nil when not yet fetched.
func (s *Store) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Loading reports whether a login or registration is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// setToken installs a new token, mirrors it to durable storage and kicks
// off the asynchronous profile fetch.
func (s *Store) setToken(token string) {
	s.mu.Lock()
	s.token = token
	if token == "" {
		s.user = nil
	}
	s.mu.Unlock()

	if token == "" {
		if err := s.storage.Clear(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to remove persisted token")
		}
		return
	}

	if err := s.storage.Save(token); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist token")
	}
	go s.backgroundRefresh()
}

func (s *Store) backgroundRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	s.RefreshUser(ctx)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
