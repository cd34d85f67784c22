package api_test

import (
	"alcyxob/training-app/internal/api"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAndLogout(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)
	account := newFakeAccount()

	resp, body := app.do(t, client, http.MethodPost, "/api/v1/accounts/register", account)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := decodeCreatedID(t, body)
	assert.Equal(t, "/api/v1/accounts/"+id, resp.Header.Get("Location"))

	resp, body = app.do(t, client, http.MethodGet, "/api/v1/accounts/check-session", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"validSession":false}`, string(body))

	login := app.login(t, client, account.Username, account.Password)
	assert.Equal(t, id, login.UserID)
	assert.Equal(t, account.FirstName, login.FirstName)
	assert.False(t, login.IsAdmin)

	resp, body = app.do(t, client, http.MethodGet, "/api/v1/accounts/check-session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess api.SessionResponse
	require.NoError(t, json.Unmarshal(body, &sess))
	assert.True(t, sess.ValidSession)
	assert.Equal(t, id, sess.UserID)

	resp, body = app.do(t, client, http.MethodPost, "/api/v1/accounts/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Logged out"}`, string(body))

	resp, _ = app.do(t, client, http.MethodGet, "/api/v1/accounts/check-session", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logging out again is harmless.
	resp, _ = app.do(t, client, http.MethodPost, "/api/v1/accounts/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(app.instr.CounterLogins.WithLabelValues("ok")))
}

func TestLoginCookieIsHTTPOnly(t *testing.T) {
	app := newTestApp(t)
	account := newFakeAccount()
	client := app.client(t)
	resp, _ := app.do(t, client, http.MethodPost, "/api/v1/accounts/register", account)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = app.do(t, client, http.MethodPost, "/api/v1/accounts/login", api.LoginRequest{
		Username: account.Username,
		Password: account.Password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "training.sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)

	existing := newFakeAccount()
	resp, _ := app.do(t, client, http.MethodPost, "/api/v1/accounts/register", existing)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	missingEmail := newFakeAccount()
	missingEmail.Email = ""
	badEmail := newFakeAccount()
	badEmail.Email = "not-an-email"
	shortPassword := newFakeAccount()
	shortPassword.Password = "short"
	duplicate := newFakeAccount()
	duplicate.Username = existing.Username

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"missing field", missingEmail, http.StatusBadRequest},
		{"invalid email", badEmail, http.StatusBadRequest},
		{"short password", shortPassword, http.StatusBadRequest},
		{"malformed json", `{"username":`, http.StatusBadRequest},
		{"duplicate username", duplicate, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := app.do(t, client, http.MethodPost, "/api/v1/accounts/register", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			errResp := decodeError(t, body)
			assert.Equal(t, tt.status, errResp.StatusCode)
			assert.Equal(t, http.StatusText(tt.status), errResp.StatusMessage)
			assert.NotEmpty(t, errResp.Message)
		})
	}
}

func TestLoginFailuresLookAlikeInProduction(t *testing.T) {
	app := newTestApp(t, func(d *api.Dependencies) { d.Production = true })
	client := app.client(t)
	account := newFakeAccount()
	resp, _ := app.do(t, client, http.MethodPost, "/api/v1/accounts/register", account)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, unknownBody := app.do(t, client, http.MethodPost, "/api/v1/accounts/login", api.LoginRequest{
		Username: "nobody" + account.Username,
		Password: account.Password,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, wrongBody := app.do(t, client, http.MethodPost, "/api/v1/accounts/login", api.LoginRequest{
		Username: account.Username,
		Password: account.Password + "x",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.JSONEq(t, string(unknownBody), string(wrongBody))
	assert.Equal(t,
		"You do not have a user account or entered invalid login credentials.",
		decodeError(t, wrongBody).Message,
	)
	assert.Equal(t, 2.0, testutil.ToFloat64(app.instr.CounterLogins.WithLabelValues("rejected")))
}

func TestWelcome(t *testing.T) {
	app := newTestApp(t)
	resp, body := app.do(t, app.client(t), http.MethodGet, "/api/v1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Welcome to version 1 of this RESTful API!"}`, string(body))
}
