// Package api is the HTTP client for the storefront server.  It keeps the
// session cookie in an in-memory jar, so a single Client value behaves like
// one browser tab: log in once, then every later call carries the session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client talks to one storefront server.  Safe for concurrent use.
type Client struct {
	base string
	http *http.Client
}

// New builds a Client for the given base URL, e.g. "http://localhost:4000".
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}, nil
}

// User is the account shape the server returns.
type User struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Product is the catalog shape the server returns.
type Product struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Stock       int64    `json:"stock"`
	Sizes       []string `json:"sizes"`
	IsFeatured  bool     `json:"isFeatured"`
}

// Error is a non-2xx server response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Signup registers an account and establishes a session.
func (c *Client) Signup(ctx context.Context, name, email, password string) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// Login establishes a session for an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// Logout drops the server session.  The jar forgets the cookie because the
// server expires it.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// CheckAuth reports whether the jar currently holds a live session and, if
// so, whose.
func (c *Client) CheckAuth(ctx context.Context) (User, bool, error) {
	var out struct {
		IsAuthenticated bool  `json:"isAuthenticated"`
		User            *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/checkAuth", nil, &out); err != nil {
		return User{}, false, err
	}
	if !out.IsAuthenticated || out.User == nil {
		return User{}, false, nil
	}
	return *out.User, true, nil
}

// CheckAdminAuth reports whether the session belongs to an admin.  The
// server answers 401/403 for everyone else; those are not errors here.
func (c *Client) CheckAdminAuth(ctx context.Context) (bool, error) {
	err := c.do(ctx, http.MethodGet, "/api/auth/checkAdminAuth", nil, nil)
	if err == nil {
		return true, nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
		return false, nil
	}
	return false, err
}

// Products fetches the catalog.  With mine=true the server limits the list
// to products owned by the authenticated caller.
func (c *Client) Products(ctx context.Context, mine bool) ([]Product, error) {
	path := "/api/products/getAllProducts"
	if mine {
		path += "?mine=true"
	}
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// Product fetches a single catalog entry.
func (c *Client) Product(ctx context.Context, id uint64) (Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	path := fmt.Sprintf("/api/products/getOneProduct/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return Product{}, err
	}
	return out.Product, nil
}

// do issues one JSON request.  A nil out discards the response body; a
// non-2xx status becomes an *Error carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: payload.Error}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
