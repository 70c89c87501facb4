package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yanote/internal/notes/adapters/http/middleware"
	"yanote/internal/notes/adapters/http/routes"
	"yanote/internal/notes/domain/entities"
	domain "yanote/internal/notes/domain/services"
)

// fixtures набор объектов, который получает каждый тест.
type fixtures struct {
	env          *testEnv
	author       *entities.User
	notAuthor    *entities.User
	note         *entities.Note
	authorClient *client
	otherClient  *client
	anonClient   *client
}

func setup(t *testing.T) fixtures {
	t.Helper()

	env := newTestEnv(t)
	author := env.createUser(t, "author")
	notAuthor := env.createUser(t, "not_author")
	return fixtures{
		env:          env,
		author:       author,
		notAuthor:    notAuthor,
		note:         env.createNote(t, author, "Заголовок", "Текст заметки", "note-slug"),
		authorClient: env.loggedIn(t, author),
		otherClient:  env.loggedIn(t, notAuthor),
		anonClient:   env.anonymous(),
	}
}

// setupEmpty окружение с автором, но без заметок.
func setupEmpty(t *testing.T) (*testEnv, *entities.User, *client) {
	t.Helper()

	env := newTestEnv(t)
	author := env.createUser(t, "author")
	return env, author, env.loggedIn(t, author)
}

func TestPagesAvailabilityForAnonymousUser(t *testing.T) {
	f := setup(t)

	for _, name := range []string{routes.Home, routes.Login, routes.Logout, routes.Signup} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, f.anonClient.get(t, routes.URL(name)).status)
		})
	}
}

func TestPagesAvailabilityForAuthUser(t *testing.T) {
	f := setup(t)

	for _, name := range []string{routes.List, routes.Add, routes.Success} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, f.otherClient.get(t, routes.URL(name)).status)
		})
	}
}

func TestPagesAvailabilityForDifferentUsers(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name   string
		client *client
		status int
	}{
		{name: "author", client: f.authorClient, status: http.StatusOK},
		{name: "not author", client: f.otherClient, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		for _, route := range []string{routes.Detail, routes.Edit, routes.Delete} {
			t.Run(tt.name+"/"+route, func(t *testing.T) {
				assert.Equal(t, tt.status, tt.client.get(t, routes.URL(route, f.note.Slug)).status)
			})
		}
	}
}

func TestRedirects(t *testing.T) {
	f := setup(t)

	tests := []struct {
		route string
		args  []string
	}{
		{route: routes.Detail, args: []string{f.note.Slug}},
		{route: routes.Edit, args: []string{f.note.Slug}},
		{route: routes.Delete, args: []string{f.note.Slug}},
		{route: routes.Add},
		{route: routes.Success},
		{route: routes.List},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			path := routes.URL(tt.route, tt.args...)
			resp := f.anonClient.get(t, path)

			assert.Equal(t, http.StatusFound, resp.status)
			assert.Equal(t, "/auth/login/?next="+path, resp.location)
		})
	}
}

func TestNotesListForDifferentUsers(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name       string
		client     *client
		noteInList bool
	}{
		{name: "author", client: f.authorClient, noteInList: true},
		{name: "not author", client: f.otherClient, noteInList: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.client.get(t, routes.URL(routes.List)).body
			assert.Equal(t, tt.noteInList, strings.Contains(body, f.note.Title))
		})
	}
}

func TestPagesContainsForm(t *testing.T) {
	f := setup(t)

	tests := []struct {
		route string
		args  []string
	}{
		{route: routes.Add},
		{route: routes.Edit, args: []string{f.note.Slug}},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			resp := f.authorClient.get(t, routes.URL(tt.route, tt.args...))
			require.Equal(t, http.StatusOK, resp.status)
			assert.Contains(t, resp.body, `id="note-form"`)

			anon := f.anonClient.get(t, routes.URL(tt.route, tt.args...))
			assert.Equal(t, http.StatusFound, anon.status)
			assert.NotContains(t, anon.body, `id="note-form"`)
		})
	}
}

func TestUserCanCreateNote(t *testing.T) {
	env, author, authorClient := setupEmpty(t)

	resp := authorClient.post(t, routes.URL(routes.Add), noteForm("Новый заголовок", "Новый текст", "new-slug"))

	assert.Equal(t, http.StatusFound, resp.status)
	assert.Equal(t, routes.URL(routes.Success), resp.location)
	require.Equal(t, 1, env.count(t))

	note := env.noteBySlug(t, "new-slug")
	assert.Equal(t, "Новый заголовок", note.Title)
	assert.Equal(t, "Новый текст", note.Text)
	assert.Equal(t, author.ID, note.AuthorID)
}

func TestAnonymousUserCantCreateNote(t *testing.T) {
	env := newTestEnv(t)

	resp := env.anonymous().post(t, routes.URL(routes.Add), noteForm("Новый заголовок", "Новый текст", ""))

	assert.Equal(t, http.StatusFound, resp.status)
	assert.Equal(t, "/auth/login/?next=/add/", resp.location)
	assert.Equal(t, 0, env.count(t))
}

func TestSlugDerivedFromCyrillicTitle(t *testing.T) {
	env, _, authorClient := setupEmpty(t)

	resp := authorClient.post(t, routes.URL(routes.Add), noteForm("Заголовок заметки", "Текст", ""))

	assert.Equal(t, http.StatusFound, resp.status)
	require.Equal(t, 1, env.count(t))
	assert.Equal(t, "Заголовок заметки", env.noteBySlug(t, "zagolovok-zametki").Title)
}

func TestNotUniqueSlug(t *testing.T) {
	env, _, authorClient := setupEmpty(t)

	first := authorClient.post(t, routes.URL(routes.Add), noteForm("Первая", "Текст", "note_address"))
	require.Equal(t, http.StatusFound, first.status)

	second := authorClient.post(t, routes.URL(routes.Add), noteForm("Вторая", "Текст", "note_address"))

	assert.Equal(t, http.StatusOK, second.status)
	assert.Contains(t, second.body, "note_address"+domain.SlugWarning)
	assert.Contains(t, second.body, `class="error field-slug"`)
	assert.Equal(t, 1, env.count(t))
	assert.Equal(t, "Первая", env.noteBySlug(t, "note_address").Title)
}

func TestSameTitleWithoutSlugIsRejected(t *testing.T) {
	env, _, authorClient := setupEmpty(t)

	require.Equal(t, http.StatusFound, authorClient.post(t, routes.URL(routes.Add), noteForm("Заголовок заметки", "Текст", "")).status)

	resp := authorClient.post(t, routes.URL(routes.Add), noteForm("Заголовок заметки", "Другой текст", ""))

	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, "zagolovok-zametki"+domain.SlugWarning)
	assert.Equal(t, 1, env.count(t))
}

func TestEditToExistingSlugIsRejected(t *testing.T) {
	f := setup(t)
	other := f.env.createNote(t, f.author, "Другая", "Текст", "other-slug")

	resp := f.authorClient.post(t, routes.URL(routes.Edit, other.Slug), noteForm("Другая", "Текст", f.note.Slug))

	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, f.note.Slug+domain.SlugWarning)
	assert.Equal(t, "other-slug", f.env.noteBySlug(t, "other-slug").Slug)
	assert.Equal(t, 2, f.env.count(t))
}

func TestInvalidFormIsRerendered(t *testing.T) {
	env, _, authorClient := setupEmpty(t)

	resp := authorClient.post(t, routes.URL(routes.Add), noteForm("", "", "bad slug"))

	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, `class="error field-title"`)
	assert.Contains(t, resp.body, `class="error field-text"`)
	assert.Contains(t, resp.body, domain.MsgInvalidSlug)
	assert.Equal(t, 0, env.count(t))
}

func TestAuthorCanEditNote(t *testing.T) {
	f := setup(t)

	resp := f.authorClient.post(t, routes.URL(routes.Edit, f.note.Slug), noteForm("Новый заголовок", "Новый текст", ""))

	assert.Equal(t, http.StatusFound, resp.status)
	assert.Equal(t, routes.URL(routes.Success), resp.location)

	edited := f.env.noteBySlug(t, domain.Slugify("Новый заголовок"))
	assert.Equal(t, f.note.ID, edited.ID)
	assert.Equal(t, "Новый текст", edited.Text)
	assert.Equal(t, f.author.ID, edited.AuthorID)
}

func TestOtherUserCantEditNote(t *testing.T) {
	f := setup(t)

	resp := f.otherClient.post(t, routes.URL(routes.Edit, f.note.Slug), noteForm("Новый заголовок", "Новый текст", "new-slug"))

	assert.Equal(t, http.StatusNotFound, resp.status)
	note := f.env.noteBySlug(t, f.note.Slug)
	assert.Equal(t, f.note.Title, note.Title)
	assert.Equal(t, f.note.Text, note.Text)
	assert.Equal(t, f.note.AuthorID, note.AuthorID)
}

func TestAuthorCanDeleteNote(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			f := setup(t)

			resp := f.authorClient.do(t, method, routes.URL(routes.Delete, f.note.Slug), url.Values{})

			assert.Equal(t, http.StatusFound, resp.status)
			assert.Equal(t, routes.URL(routes.Success), resp.location)
			assert.Equal(t, 0, f.env.count(t))
		})
	}
}

func TestOtherUserCantDeleteNote(t *testing.T) {
	f := setup(t)

	assert.Equal(t, http.StatusNotFound, f.otherClient.post(t, routes.URL(routes.Delete, f.note.Slug), nil).status)
	assert.Equal(t, http.StatusNotFound, f.otherClient.delete(t, routes.URL(routes.Delete, f.note.Slug)).status)
	assert.Equal(t, 1, f.env.count(t))
}

func TestMissingNoteIsNotFound(t *testing.T) {
	f := setup(t)

	assert.Equal(t, http.StatusNotFound, f.authorClient.get(t, routes.URL(routes.Detail, "missing")).status)
	assert.Equal(t, http.StatusNotFound, f.anonClient.get(t, "/no/such/page/").status)
}

func TestLoginFlow(t *testing.T) {
	f := setup(t)

	t.Run("valid credentials follow next", func(t *testing.T) {
		form := url.Values{"username": {"author"}, "password": {testPassword}, "next": {"/notes/"}}
		resp := f.anonClient.post(t, routes.URL(routes.Login), form)

		require.Equal(t, http.StatusFound, resp.status)
		assert.Equal(t, "/notes/", resp.location)

		cookie := sessionCookie(resp.cookies)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)

		session := &client{env: f.env, session: cookie.Value}
		assert.Equal(t, http.StatusOK, session.get(t, routes.URL(routes.Detail, f.note.Slug)).status)
	})

	t.Run("foreign next is ignored", func(t *testing.T) {
		form := url.Values{"username": {"author"}, "password": {testPassword}, "next": {"https://evil.example/"}}
		resp := f.anonClient.post(t, routes.URL(routes.Login), form)

		require.Equal(t, http.StatusFound, resp.status)
		assert.Equal(t, routes.URL(routes.Home), resp.location)
	})

	t.Run("next from login page is kept in form", func(t *testing.T) {
		resp := f.anonClient.get(t, routes.LoginRedirect("/notes/"))

		assert.Equal(t, http.StatusOK, resp.status)
		assert.Contains(t, resp.body, `name="next" value="/notes/"`)
	})

	t.Run("wrong password", func(t *testing.T) {
		form := url.Values{"username": {"author"}, "password": {"wrong-password"}}
		resp := f.anonClient.post(t, routes.URL(routes.Login), form)

		assert.Equal(t, http.StatusOK, resp.status)
		assert.Contains(t, resp.body, domain.MsgInvalidLogin)
		assert.Nil(t, sessionCookie(resp.cookies))
	})
}

func TestLogoutRevokesSession(t *testing.T) {
	f := setup(t)

	resp := f.authorClient.post(t, routes.URL(routes.Logout), nil)

	assert.Equal(t, http.StatusOK, resp.status)
	cookie := sessionCookie(resp.cookies)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)

	after := f.authorClient.get(t, routes.URL(routes.List))
	assert.Equal(t, http.StatusFound, after.status)
	assert.Equal(t, routes.LoginRedirect(routes.URL(routes.List)), after.location)
}

func TestInvalidSessionIsAnonymous(t *testing.T) {
	f := setup(t)
	forged := &client{env: f.env, session: "not-a-token"}

	resp := forged.get(t, routes.URL(routes.List))

	assert.Equal(t, http.StatusFound, resp.status)
	cookie := sessionCookie(resp.cookies)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestSignupFlow(t *testing.T) {
	f := setup(t)

	t.Run("creates account", func(t *testing.T) {
		form := url.Values{"username": {"new_user"}, "password1": {"Str0ng-pass"}, "password2": {"Str0ng-pass"}}
		resp := f.anonClient.post(t, routes.URL(routes.Signup), form)

		require.Equal(t, http.StatusFound, resp.status)
		assert.Equal(t, routes.URL(routes.Login), resp.location)

		login := f.anonClient.post(t, routes.URL(routes.Login), url.Values{"username": {"new_user"}, "password": {"Str0ng-pass"}})
		assert.Equal(t, http.StatusFound, login.status)
	})

	t.Run("duplicate username", func(t *testing.T) {
		form := url.Values{"username": {"author"}, "password1": {"Str0ng-pass"}, "password2": {"Str0ng-pass"}}
		resp := f.anonClient.post(t, routes.URL(routes.Signup), form)

		assert.Equal(t, http.StatusOK, resp.status)
		assert.Contains(t, resp.body, domain.MsgUsernameTaken)
	})

	t.Run("passwords differ", func(t *testing.T) {
		form := url.Values{"username": {"someone"}, "password1": {"Str0ng-pass"}, "password2": {"other-pass"}}
		resp := f.anonClient.post(t, routes.URL(routes.Signup), form)

		assert.Equal(t, http.StatusOK, resp.status)
		assert.Contains(t, resp.body, domain.MsgPasswordsDiffer)
	})
}

func TestHealthAndRequestID(t *testing.T) {
	f := setup(t)

	resp := f.anonClient.get(t, routes.URL(routes.Health))
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"status":"ok","notes":1}`, resp.body)

	req := httptest.NewRequest(http.MethodGet, routes.URL(routes.Home), nil)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	raw, err := f.env.app.Test(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, "req-123", raw.Header.Get(middleware.HeaderRequestID))
}

func TestCreatedNotesSurviveFollowingRequests(t *testing.T) {
	env, _, authorClient := setupEmpty(t)

	require.Equal(t, http.StatusFound, authorClient.post(t, routes.URL(routes.Add), noteForm("AAAA", "aaaa", "slug-1")).status)
	require.Equal(t, http.StatusFound, authorClient.post(t, routes.URL(routes.Add), noteForm("BBBB", "bbbb", "slug-2")).status)

	require.Equal(t, 2, env.count(t))
	first := env.noteBySlug(t, "slug-1")
	assert.Equal(t, "AAAA", first.Title)
	assert.Equal(t, "aaaa", first.Text)
	second := env.noteBySlug(t, "slug-2")
	assert.Equal(t, "BBBB", second.Title)
	assert.Equal(t, "bbbb", second.Text)
}

func TestSignedUpUsersKeepTheirNames(t *testing.T) {
	env := newTestEnv(t)
	anon := env.anonymous()

	for _, username := range []string{"alice1", "bobby2"} {
		form := url.Values{"username": {username}, "password1": {"Str0ng-pass"}, "password2": {"Str0ng-pass"}}
		require.Equal(t, http.StatusFound, anon.post(t, routes.URL(routes.Signup), form).status)
	}

	for _, username := range []string{"alice1", "bobby2"} {
		t.Run(username, func(t *testing.T) {
			resp := anon.post(t, routes.URL(routes.Login), url.Values{"username": {username}, "password": {"Str0ng-pass"}})
			assert.Equal(t, http.StatusFound, resp.status)
		})
	}
}
