package server

import (
	"net/http"
	"net/url"
	"testing"

	"moviepicker/internal/models"
	"moviepicker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerForm(username, email, password, confirm string) url.Values {
	return url.Values{
		"submit":     {"register"},
		"r_username": {username},
		"r_email":    {email},
		"r_password": {password},
		"r_confirm":  {confirm},
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodPost, "/login", registerForm("alice", "alice@example.com", testPassword, testPassword), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// Logged-in users skip the login page.
	resp = env.do(http.MethodGet, "/login", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// The reg alias is accepted.
	resp = env.do(http.MethodPost, "/login", url.Values{
		"submit":     {"reg"},
		"r_username": {"bob"},
		"r_email":    {"bob@example.com"},
		"r_password": {testPassword},
		"r_confirm":  {testPassword},
	}, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestRegister_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleRegular)

	tests := []struct {
		name    string
		form    url.Values
		field   string
		message string
	}{
		{"password mismatch", registerForm("carol", "carol@example.com", testPassword, testPassword+"x"), service.FieldConfirm, "Passwords do not match"},
		{"username taken", registerForm("Alice", "other@example.com", testPassword, testPassword), service.FieldUsername, "Username is already taken"},
		{"email taken", registerForm("dave", "alice@example.com", testPassword, testPassword), service.FieldEmail, "Email is already registered"},
		{"weak password", registerForm("erin", "erin@example.com", "short", "short"), service.FieldPassword, ""},
		{"bad username", registerForm("_x", "x@example.com", testPassword, testPassword), service.FieldUsername, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(http.MethodPost, "/login", tt.form, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Nil(t, sessionCookie(resp))

			body := decodeView(t, resp)
			assert.Equal(t, viewLogin, body["view"])
			assert.Equal(t, tt.field, body["field"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["register_error"])
			} else {
				assert.NotEmpty(t, body["register_error"])
			}
			assert.Equal(t, tt.form.Get("r_username"), body["r_username"])
			assert.Equal(t, tt.form.Get("r_email"), body["r_email"])
			assert.NotContains(t, body, "r_password")
			assert.NotContains(t, body, "r_confirm")
		})
	}
}

func TestLogin_UniformError(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleRegular)

	attempt := func(login, password string) map[string]any {
		resp := env.do(http.MethodPost, "/login", url.Values{
			"submit":     {"login"},
			"l_login":    {login},
			"l_password": {password},
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Nil(t, sessionCookie(resp))
		return decodeView(t, resp)
	}

	wrongPassword := attempt("alice", "Wr0ng!Password")
	unknownUser := attempt("nobody", testPassword)
	unknownEmail := attempt("nobody@example.com", testPassword)

	assert.Equal(t, service.ErrInvalidCredentials, wrongPassword["login_error"])
	assert.Equal(t, wrongPassword["login_error"], unknownUser["login_error"])
	assert.Equal(t, wrongPassword["login_error"], unknownEmail["login_error"])
	assert.Equal(t, "alice", wrongPassword["l_login"])
	assert.NotContains(t, wrongPassword, "l_password")
}

func TestLogin_ByEmailAndCaseInsensitiveUsername(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleRegular)

	for _, login := range []string{"alice@example.com", "ALICE"} {
		resp := env.do(http.MethodPost, "/login", url.Values{
			"submit":     {"login"},
			"l_login":    {login},
			"l_password": {testPassword},
		}, nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode, login)
		assert.NotNil(t, sessionCookie(resp), login)
	}

	// l_email is read when l_login is absent.
	resp := env.do(http.MethodPost, "/login", url.Values{
		"submit":     {"login"},
		"l_email":    {"alice@example.com"},
		"l_password": {testPassword},
	}, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLogin_UnknownSubmit(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(http.MethodPost, "/login", url.Values{"submit": {"other"}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleRegular)
	cookie := env.login("alice")

	resp := env.do(http.MethodGet, "/user", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(http.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// Replaying the old cookie is anonymous.
	resp = env.do(http.MethodGet, "/user", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLogout_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(http.MethodGet, "/logout", nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestCurrentUser_InvalidCookie(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/user", nil, &http.Cookie{Name: sessionCookieName, Value: "not-a-token"})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestCurrentUser_DeletedAccount(t *testing.T) {
	env := newTestEnv(t)

	// A validly signed token for an id with no account.
	token, _, err := env.server.generateToken(4242)
	require.NoError(t, err)

	resp := env.do(http.MethodGet, "/", nil, &http.Cookie{Name: sessionCookieName, Value: token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeView(t, resp)
	assert.Nil(t, body["current_user"])
}
