package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"yanote/internal/notes/adapters/cache"
	httpadapter "yanote/internal/notes/adapters/http"
	"yanote/internal/notes/adapters/http/middleware"
	"yanote/internal/notes/adapters/memory"
	"yanote/internal/notes/adapters/services"
	"yanote/internal/notes/app"
	"yanote/internal/notes/config"
	"yanote/internal/notes/domain/entities"
	domain "yanote/internal/notes/domain/services"
	"yanote/pkg/logger"
)

const (
	cookieName   = "sessionid"
	testPassword = "correct-horse-42"
)

// testEnv собранное приложение поверх хранилищ в памяти.
type testEnv struct {
	app       *fiber.App
	notes     *memory.NoteRepository
	users     *memory.UserRepository
	tokens    *services.ServiceJWT
	passwords *services.ServiceBcrypt
	auth      *app.AuthUseCase
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()

	log, err := logger.NewLogger(logger.Development, "error")
	require.NoError(t, err)

	env := &testEnv{
		notes:     memory.NewNoteRepository(),
		users:     memory.NewUserRepository(),
		tokens:    services.NewJWT("test-secret", "yanote-test", time.Hour),
		passwords: services.NewBcrypt(bcrypt.MinCost),
	}
	forms := domain.NewFormValidator()
	env.auth = app.NewAuthUseCase(env.users, env.passwords, env.tokens, cache.NewMemoryRevocationStore(time.Minute), forms)

	srv, err := httpadapter.New(&config.HTTPConfig{Host: "127.0.0.1", Port: 0}, httpadapter.Dependencies{
		Notes:  app.NewNoteUseCase(env.notes, forms),
		Auth:   env.auth,
		Cookie: middleware.SessionCookie{Name: cookieName},
		Logger: log,
	})
	require.NoError(t, err)
	env.app = srv.App()
	return env
}

func (e *testEnv) createUser(t testing.TB, username string) *entities.User {
	t.Helper()

	hash, err := e.passwords.Hash(context.Background(), testPassword)
	require.NoError(t, err)
	user, err := entities.NewUser(username, hash)
	require.NoError(t, err)
	created, err := e.users.Create(context.Background(), user)
	require.NoError(t, err)
	return created
}

func (e *testEnv) createNote(t testing.TB, author *entities.User, title, text, slug string) *entities.Note {
	t.Helper()

	note, err := e.notes.Create(context.Background(), entities.NewNote(author.ID, title, text, slug))
	require.NoError(t, err)
	return note
}

func (e *testEnv) count(t testing.TB) int {
	t.Helper()

	n, err := e.notes.Count(context.Background())
	require.NoError(t, err)
	return n
}

func (e *testEnv) noteBySlug(t testing.TB, slug string) *entities.Note {
	t.Helper()

	note, err := e.notes.GetBySlug(context.Background(), slug)
	require.NoError(t, err)
	return note
}

// anonymous клиент без сессии.
func (e *testEnv) anonymous() *client {
	return &client{env: e}
}

// loggedIn клиент с действующей сессией пользователя.
func (e *testEnv) loggedIn(t testing.TB, user *entities.User) *client {
	t.Helper()

	token, _, err := e.tokens.Generate(context.Background(), user)
	require.NoError(t, err)
	return &client{env: e, session: token}
}

type client struct {
	env     *testEnv
	session string
}

type response struct {
	status   int
	location string
	body     string
	cookies  []*http.Cookie
}

func (c *client) do(t testing.TB, method, path string, form url.Values) response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: c.session})
	}

	resp, err := c.env.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		body:     string(raw),
		cookies:  resp.Cookies(),
	}
}

func (c *client) get(t testing.TB, path string) response {
	t.Helper()
	return c.do(t, fiber.MethodGet, path, nil)
}

func (c *client) post(t testing.TB, path string, form url.Values) response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return c.do(t, fiber.MethodPost, path, form)
}

func (c *client) delete(t testing.TB, path string) response {
	t.Helper()
	return c.do(t, fiber.MethodDelete, path, nil)
}

func noteForm(title, text, slug string) url.Values {
	form := url.Values{"title": {title}, "text": {text}}
	if slug != "" {
		form.Set("slug", slug)
	}
	return form
}

func sessionCookie(cookies []*http.Cookie) *http.Cookie {
	for _, c := range cookies {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}
