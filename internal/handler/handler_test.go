package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/online-storefront/internal/config"
	"github.com/iliyamo/online-storefront/internal/model"
	"github.com/iliyamo/online-storefront/internal/repository"
)

// testEnv is the shared fixture: handlers wired to an in-memory database.
type testEnv struct {
	cfg      config.Config
	users    *repository.UserRepo
	products *repository.ProductRepo
	auth     *AuthHandler
	product  *ProductHandler
	echo     *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin      INTEGER NOT NULL DEFAULT 0,
			created_at    INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		);
		CREATE TABLE products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id    INTEGER NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image       TEXT NOT NULL DEFAULT '',
			price       REAL NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			stock       INTEGER NOT NULL DEFAULT 0,
			sizes       TEXT NOT NULL DEFAULT '',
			is_featured INTEGER NOT NULL DEFAULT 0,
			rating      REAL NOT NULL DEFAULT 0,
			num_reviews INTEGER NOT NULL DEFAULT 0,
			created_at  INTEGER NOT NULL
		);`)
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:       "handler-test-secret",
		SessionTTLHours: 1,
		BcryptCost:      bcrypt.MinCost,
		BootstrapAdmins: []string{"root@example.com"},
	}
	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)

	return &testEnv{
		cfg:      cfg,
		users:    users,
		products: products,
		auth:     NewAuthHandler(cfg, users),
		product:  NewProductHandler(cfg, products, fakeBlobs{}),
		echo:     echo.New(),
	}
}

// fakeBlobs stands in for the S3 store and returns a deterministic URL.
type fakeBlobs struct{}

func (fakeBlobs) Put(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, body)
	return "https://cdn.example.com/products/" + filename, nil
}

// jsonRequest builds an echo context carrying a JSON body.
func (e *testEnv) jsonRequest(t *testing.T, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.echo.NewContext(req, rec), rec
}

// formRequest builds an echo context carrying a multipart form.  A non-empty
// imageName adds a small file under the "image" field.
func (e *testEnv) formRequest(t *testing.T, method, target string, fields map[string]string, imageName string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = io.Copy(fw, strings.NewReader("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.echo.NewContext(req, rec), rec
}

// signupUser creates an account straight through the repository and returns
// the stored record.
func (e *testEnv) signupUser(t *testing.T, name, email, password string) model.User {
	t.Helper()
	id, err := e.users.Create(context.Background(), name, email, password,
		e.cfg.IsBootstrapAdmin(email), e.cfg.BcryptCost)
	require.NoError(t, err)
	u, err := e.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
