// Package session manages the authentication cookies used by the
// direct-site lyrics source: load from the store, validate with a probe
// request, and re-acquire through browser automation when expired.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/model"
)

// State is the cookie session lifecycle state
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoaded   State = "loaded"
	StateValid    State = "valid"
	StateExpired  State = "expired"
)

// Cookie is one persisted cookie
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Domain  string    `json:"domain,omitempty"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// Store persists cookies between runs
type Store interface {
	// Load returns the persisted cookies, or (nil, nil) when none exist
	Load() ([]Cookie, error)
	Save(cookies []Cookie) error
}

// Authenticator acquires fresh cookies, typically by driving a headless
// browser through the site's consent flow.
type Authenticator interface {
	Acquire(ctx context.Context) ([]Cookie, error)
}

// Validator probes whether a cookie set is still accepted by the site
type Validator interface {
	Probe(ctx context.Context, cookies []Cookie) error
}

// Session is the cookie session state machine. All transitions run under
// a single-flight lock: concurrent callers never trigger two refreshes.
type Session struct {
	mu        sync.Mutex
	store     Store
	auth      Authenticator
	validator Validator
	logger    *zap.Logger

	state   State
	cookies []Cookie
}

// New creates a session in the Unloaded state
func New(store Store, auth Authenticator, validator Validator, logger *zap.Logger) *Session {
	return &Session{
		store:     store,
		auth:      auth,
		validator: validator,
		logger:    logger,
		state:     StateUnloaded,
	}
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cookies drives the state machine until the session is Valid and
// returns the cookie set. Unloaded sessions are loaded, loaded ones
// validated, expired ones refreshed. A refresh failure maps to
// ErrInvalidSession and leaves the session Expired.
func (s *Session) Cookies(ctx context.Context) ([]Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUnloaded {
		s.loadLocked()
	}

	if s.state == StateLoaded {
		if err := s.validator.Probe(ctx, s.cookies); err != nil {
			s.logger.Info("cookie probe failed", zap.Error(err))
			s.state = StateExpired
		} else {
			s.state = StateValid
		}
	}

	if s.state == StateExpired {
		if err := s.refreshLocked(ctx); err != nil {
			return nil, fmt.Errorf("%w: refresh: %v", model.ErrInvalidSession, err)
		}
	}

	return s.cookies, nil
}

// Invalidate marks the session Expired. Called when the site rejects
// the cookies mid-request; the next Cookies call refreshes.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateExpired
}

func (s *Session) loadLocked() {
	cookies, err := s.store.Load()
	if err != nil {
		s.logger.Warn("cookie store unreadable", zap.Error(err))
		s.state = StateExpired
		return
	}
	if len(cookies) == 0 {
		s.state = StateExpired
		return
	}
	s.cookies = cookies
	s.state = StateLoaded
}

func (s *Session) refreshLocked(ctx context.Context) error {
	cookies, err := s.auth.Acquire(ctx)
	if err != nil {
		return err
	}

	if err := s.store.Save(cookies); err != nil {
		// The session still works for this process; only persistence failed.
		s.logger.Warn("cookie persist failed", zap.Error(err))
	}

	s.cookies = cookies
	s.state = StateValid
	s.logger.Info("cookie session refreshed", zap.Int("cookies", len(cookies)))
	return nil
}
