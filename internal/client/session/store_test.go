package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-storefront/internal/client/api"
)

// fakeServer emulates the auth endpoints.  The session is a plain marker
// cookie; the store only cares about status codes and response shapes.
type fakeServer struct {
	user    api.User
	isAdmin bool
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != f.user.Email || req.Password != "secret123" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "session", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]any{"user": f.user})
	})
	mux.HandleFunc("POST /api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "session", Path: "/"})
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"user": f.user})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1})
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "logout successful"})
	})
	mux.HandleFunc("GET /api/auth/checkAuth", func(w http.ResponseWriter, r *http.Request) {
		if !f.loggedIn(r) {
			_ = json.NewEncoder(w).Encode(map[string]any{"isAuthenticated": false, "user": nil})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"isAuthenticated": true, "user": f.user})
	})
	mux.HandleFunc("GET /api/auth/checkAdminAuth", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case !f.loggedIn(r):
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		case !f.isAdmin:
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]bool{"isAdmin": true})
		}
	})
	return mux
}

func (f *fakeServer) loggedIn(r *http.Request) bool {
	c, err := r.Cookie("token")
	return err == nil && c.Value == "session"
}

func newTestStore(t *testing.T, f *fakeServer) *Store {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return NewStore(client)
}

func TestStoreStartsChecking(t *testing.T) {
	s := newTestStore(t, &fakeServer{})
	state, _ := s.State()
	require.Equal(t, StateChecking, state)
}

func TestInitializeAnonymous(t *testing.T) {
	s := newTestStore(t, &fakeServer{})
	require.NoError(t, s.Initialize(context.Background()))

	state, u := s.State()
	require.Equal(t, StateAnonymous, state)
	require.Zero(t, u.ID)
}

func TestLoginThenInitialize(t *testing.T) {
	f := &fakeServer{user: api.User{ID: 1, Name: "Alice", Email: "alice@example.com"}}
	s := newTestStore(t, f)

	u, err := s.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "Alice", u.Name)

	state, _ := s.State()
	require.Equal(t, StateAuthenticated, state)

	// a fresh Initialize over the same cookie jar lands in the same state
	require.NoError(t, s.Initialize(context.Background()))
	state, got := s.State()
	require.Equal(t, StateAuthenticated, state)
	require.Equal(t, "alice@example.com", got.Email)
}

func TestLoginFailureKeepsState(t *testing.T) {
	f := &fakeServer{user: api.User{ID: 1, Email: "alice@example.com"}}
	s := newTestStore(t, f)
	require.NoError(t, s.Initialize(context.Background()))

	_, err := s.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "invalid email or password", apiErr.Message)

	state, _ := s.State()
	require.Equal(t, StateAnonymous, state)
}

func TestAdminSession(t *testing.T) {
	f := &fakeServer{
		user:    api.User{ID: 1, Name: "Root", Email: "root@example.com", IsAdmin: true},
		isAdmin: true,
	}
	s := newTestStore(t, f)

	_, err := s.Login(context.Background(), "root@example.com", "secret123")
	require.NoError(t, err)
	state, _ := s.State()
	require.Equal(t, StateAdmin, state)

	require.NoError(t, s.Initialize(context.Background()))
	state, _ = s.State()
	require.Equal(t, StateAdmin, state)
}

func TestLogoutIsOptimistic(t *testing.T) {
	f := &fakeServer{user: api.User{ID: 1, Email: "alice@example.com"}}
	s := newTestStore(t, f)

	_, err := s.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))
	state, u := s.State()
	require.Equal(t, StateAnonymous, state)
	require.Zero(t, u.ID)

	// the cookie is gone server side too
	require.NoError(t, s.Initialize(context.Background()))
	state, _ = s.State()
	require.Equal(t, StateAnonymous, state)
}
