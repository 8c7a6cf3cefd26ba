package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/model"
)

type fakeStore struct {
	mu      sync.Mutex
	cookies []Cookie
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStore) Load() ([]Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cookies, f.loadErr
}

func (f *fakeStore) Save(cookies []Cookie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cookies = cookies
	return nil
}

type fakeAuth struct {
	mu      sync.Mutex
	cookies []Cookie
	err     error
	calls   int
}

func (f *fakeAuth) Acquire(ctx context.Context) ([]Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.cookies, f.err
}

type fakeValidator struct {
	mu     sync.Mutex
	err    error
	probes int
}

func (f *fakeValidator) Probe(ctx context.Context, cookies []Cookie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.err
}

var freshCookies = []Cookie{{Name: "sid", Value: "fresh"}}

func TestSessionEmptyStoreTriggersRefresh(t *testing.T) {
	store := &fakeStore{}
	auth := &fakeAuth{cookies: freshCookies}
	validator := &fakeValidator{}

	s := New(store, auth, validator, zap.NewNop())
	if s.State() != StateUnloaded {
		t.Fatalf("initial state = %s", s.State())
	}

	cookies, err := s.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if len(cookies) != 1 || cookies[0].Value != "fresh" {
		t.Errorf("cookies = %v", cookies)
	}
	if s.State() != StateValid {
		t.Errorf("state = %s, want %s", s.State(), StateValid)
	}
	if auth.calls != 1 {
		t.Errorf("auth calls = %d, want 1", auth.calls)
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}
	if validator.probes != 0 {
		t.Errorf("probes = %d, want 0 (nothing to validate)", validator.probes)
	}
}

func TestSessionValidStoredCookiesSkipRefresh(t *testing.T) {
	stored := []Cookie{{Name: "sid", Value: "stored"}}
	store := &fakeStore{cookies: stored}
	auth := &fakeAuth{cookies: freshCookies}
	validator := &fakeValidator{}

	s := New(store, auth, validator, zap.NewNop())

	cookies, err := s.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if cookies[0].Value != "stored" {
		t.Errorf("cookies = %v, want stored set", cookies)
	}
	if auth.calls != 0 {
		t.Errorf("auth calls = %d, want 0", auth.calls)
	}
	if validator.probes != 1 {
		t.Errorf("probes = %d, want 1", validator.probes)
	}
}

func TestSessionRejectedProbeRefreshes(t *testing.T) {
	store := &fakeStore{cookies: []Cookie{{Name: "sid", Value: "stale"}}}
	auth := &fakeAuth{cookies: freshCookies}
	validator := &fakeValidator{err: errors.New("403 from probe")}

	s := New(store, auth, validator, zap.NewNop())

	cookies, err := s.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if cookies[0].Value != "fresh" {
		t.Errorf("cookies = %v, want refreshed set", cookies)
	}
	if auth.calls != 1 {
		t.Errorf("auth calls = %d, want 1", auth.calls)
	}
}

func TestSessionRefreshFailure(t *testing.T) {
	store := &fakeStore{}
	auth := &fakeAuth{err: errors.New("browser crashed")}

	s := New(store, auth, &fakeValidator{}, zap.NewNop())

	_, err := s.Cookies(context.Background())
	if !errors.Is(err, model.ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
	if s.State() != StateExpired {
		t.Errorf("state = %s, want %s", s.State(), StateExpired)
	}
}

func TestSessionInvalidate(t *testing.T) {
	store := &fakeStore{cookies: []Cookie{{Name: "sid", Value: "stored"}}}
	auth := &fakeAuth{cookies: freshCookies}
	validator := &fakeValidator{}

	s := New(store, auth, validator, zap.NewNop())
	if _, err := s.Cookies(context.Background()); err != nil {
		t.Fatalf("Cookies: %v", err)
	}

	s.Invalidate()
	if s.State() != StateExpired {
		t.Fatalf("state after Invalidate = %s", s.State())
	}

	cookies, err := s.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies after Invalidate: %v", err)
	}
	if cookies[0].Value != "fresh" {
		t.Errorf("cookies = %v, want refreshed set", cookies)
	}
	if auth.calls != 1 {
		t.Errorf("auth calls = %d, want 1", auth.calls)
	}
}

func TestSessionSaveFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	auth := &fakeAuth{cookies: freshCookies}

	s := New(store, auth, &fakeValidator{}, zap.NewNop())

	cookies, err := s.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if cookies[0].Value != "fresh" {
		t.Errorf("cookies = %v", cookies)
	}
	if s.State() != StateValid {
		t.Errorf("state = %s, want %s", s.State(), StateValid)
	}
}

func TestSessionSingleFlight(t *testing.T) {
	store := &fakeStore{}
	auth := &fakeAuth{cookies: freshCookies}

	s := New(store, auth, &fakeValidator{}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Cookies(context.Background()); err != nil {
				t.Errorf("Cookies: %v", err)
			}
		}()
	}
	wg.Wait()

	if auth.calls != 1 {
		t.Errorf("auth calls = %d, want 1 (refresh must be single-flight)", auth.calls)
	}
}
