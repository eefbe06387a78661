// Package session tracks the client's authentication state.  The store is a
// small state machine layered over the API client: it starts in
// StateChecking, resolves to one of the settled states after Initialize, and
// moves between them as the user logs in and out.
package session

import (
	"context"
	"sync"

	"github.com/iliyamo/online-storefront/internal/client/api"
)

// State is the store's view of the current session.
type State int

const (
	// StateChecking means Initialize has not finished yet.
	StateChecking State = iota
	// StateAnonymous means no live session.
	StateAnonymous
	// StateAuthenticated means a live non-admin session.
	StateAuthenticated
	// StateAdmin means a live admin session.
	StateAdmin
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Store holds the session state for one API client.  All methods are safe
// for concurrent use; state transitions are serialized.
type Store struct {
	mu    sync.Mutex
	api   *api.Client
	state State
	user  api.User
}

func NewStore(c *api.Client) *Store {
	return &Store{api: c, state: StateChecking}
}

// State returns the current state and, for authenticated states, the user.
func (s *Store) State() (State, api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.user
}

// Initialize probes the server for an existing session.  The auth and admin
// checks run concurrently; a network failure on either leaves the store
// anonymous rather than stuck checking.
func (s *Store) Initialize(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		user     api.User
		authed   bool
		isAdmin  bool
		authErr  error
		adminErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		user, authed, authErr = s.api.CheckAuth(ctx)
	}()
	go func() {
		defer wg.Done()
		isAdmin, adminErr = s.api.CheckAdminAuth(ctx)
	}()
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if authErr != nil {
		s.state = StateAnonymous
		s.user = api.User{}
		return authErr
	}
	if !authed {
		s.state = StateAnonymous
		s.user = api.User{}
		return nil
	}
	s.user = user
	if adminErr == nil && isAdmin {
		s.state = StateAdmin
	} else {
		s.state = StateAuthenticated
	}
	return adminErr
}

// Signup registers an account and transitions to an authenticated state.
func (s *Store) Signup(ctx context.Context, name, email, password string) (api.User, error) {
	u, err := s.api.Signup(ctx, name, email, password)
	if err != nil {
		return api.User{}, err
	}
	s.settle(u)
	return u, nil
}

// Login transitions to an authenticated state on success.  Failure leaves
// the current state untouched.
func (s *Store) Login(ctx context.Context, email, password string) (api.User, error) {
	u, err := s.api.Login(ctx, email, password)
	if err != nil {
		return api.User{}, err
	}
	s.settle(u)
	return u, nil
}

// Logout is optimistic: the store drops to anonymous before the server
// call, and a failed call does not restore the previous state.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateAnonymous
	s.user = api.User{}
	s.mu.Unlock()
	return s.api.Logout(ctx)
}

func (s *Store) settle(u api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	if u.IsAdmin {
		s.state = StateAdmin
	} else {
		s.state = StateAuthenticated
	}
}
