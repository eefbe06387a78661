package handler

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-storefront/internal/repository"
)

func withPathID(c echo.Context, id uint64) {
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(id, 10))
}

func TestGetAllUsers(t *testing.T) {
	env := newTestEnv(t)
	env.signupUser(t, "Alice", "alice@example.com", "secret123")
	env.signupUser(t, "Bob", "bob@example.com", "secret456")

	c, rec := env.jsonRequest(t, http.MethodGet, "/api/auth/getAllUsers", nil)
	require.NoError(t, env.auth.GetAllUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	users := decodeBody(t, rec)["users"].([]any)
	require.Len(t, users, 2)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestGetOneUser(t *testing.T) {
	env := newTestEnv(t)
	u := env.signupUser(t, "Alice", "alice@example.com", "secret123")

	t.Run("found", func(t *testing.T) {
		c, rec := env.jsonRequest(t, http.MethodGet, "/", nil)
		withPathID(c, u.ID)
		require.NoError(t, env.auth.GetOneUser(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "alice@example.com", decodeBody(t, rec)["user"].(map[string]any)["email"])
	})

	t.Run("missing", func(t *testing.T) {
		c, rec := env.jsonRequest(t, http.MethodGet, "/", nil)
		withPathID(c, u.ID+100)
		require.NoError(t, env.auth.GetOneUser(c))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "user not found", decodeBody(t, rec)["error"])
	})

	t.Run("bad id", func(t *testing.T) {
		c, rec := env.jsonRequest(t, http.MethodGet, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues("abc")
		require.NoError(t, env.auth.GetOneUser(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateUserProfile(t *testing.T) {
	env := newTestEnv(t)
	u := env.signupUser(t, "Alice", "alice@example.com", "secret123")

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		c, rec := env.jsonRequest(t, http.MethodPut, "/",
			map[string]any{"name": "Alicia"})
		withPathID(c, u.ID)
		require.NoError(t, env.auth.UpdateUserProfile(c))
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody(t, rec)["user"].(map[string]any)
		require.Equal(t, "Alicia", got["name"])
		require.Equal(t, "alice@example.com", got["email"])
	})

	t.Run("all fields empty", func(t *testing.T) {
		c, rec := env.jsonRequest(t, http.MethodPut, "/", map[string]any{})
		withPathID(c, u.ID)
		require.NoError(t, env.auth.UpdateUserProfile(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "name or email is required", decodeBody(t, rec)["error"])
	})

	t.Run("promote to admin", func(t *testing.T) {
		c, rec := env.jsonRequest(t, http.MethodPut, "/",
			map[string]any{"isAdmin": true})
		withPathID(c, u.ID)
		require.NoError(t, env.auth.UpdateUserProfile(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, true, decodeBody(t, rec)["user"].(map[string]any)["isAdmin"])
	})

	t.Run("email conflict", func(t *testing.T) {
		env.signupUser(t, "Bob", "bob@example.com", "secret456")
		c, rec := env.jsonRequest(t, http.MethodPut, "/",
			map[string]any{"email": "bob@example.com"})
		withPathID(c, u.ID)
		require.NoError(t, env.auth.UpdateUserProfile(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "user with this email already exists", decodeBody(t, rec)["error"])
	})

	t.Run("missing user", func(t *testing.T) {
		c, rec := env.jsonRequest(t, http.MethodPut, "/",
			map[string]any{"name": "Ghost"})
		withPathID(c, 9999)
		require.NoError(t, env.auth.UpdateUserProfile(c))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)

	t.Run("bootstrap admin is protected", func(t *testing.T) {
		root := env.signupUser(t, "Root", "root@example.com", "secret123")
		c, rec := env.jsonRequest(t, http.MethodDelete, "/", nil)
		withPathID(c, root.ID)
		require.NoError(t, env.auth.DeleteUser(c))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "primary admin cannot be deleted", decodeBody(t, rec)["error"])

		_, err := env.users.GetByID(context.Background(), root.ID)
		require.NoError(t, err, "protected user must still exist")
	})

	t.Run("regular user", func(t *testing.T) {
		u := env.signupUser(t, "Alice", "alice@example.com", "secret123")
		c, rec := env.jsonRequest(t, http.MethodDelete, "/", nil)
		withPathID(c, u.ID)
		require.NoError(t, env.auth.DeleteUser(c))
		require.Equal(t, http.StatusOK, rec.Code)

		_, err := env.users.GetByID(context.Background(), u.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		c, rec := env.jsonRequest(t, http.MethodDelete, "/", nil)
		withPathID(c, 9999)
		require.NoError(t, env.auth.DeleteUser(c))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
