package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func sessionCookieFromResponse(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t, false)
	admin, _ := env.createAdmin(t, "admin@example.com")

	resp, err := env.app.Test(postJSON("/auth/login", `{"email":"admin@example.com","password":"password123"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookieFromResponse(resp, env.cfg.SessionCookieName)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	principal, err := env.sessions.Parse(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, admin.ID, principal.UserID)
	require.True(t, principal.IsAdmin)

	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "admin@example.com", user["email"])
	require.NotContains(t, user, "password_hash")

	env.waitForAction(t, "login.success")
}

func TestLoginFailuresReturn401(t *testing.T) {
	env := newTestEnv(t, false)
	env.createAdmin(t, "admin@example.com")

	cases := []struct {
		name    string
		payload string
		action  string
	}{
		{"unknown user", `{"email":"ghost@example.com","password":"pw"}`, "login.failed.user_not_found"},
		{"wrong password", `{"email":"admin@example.com","password":"nope"}`, "login.failed.password_incorrect"},
		{"missing credentials", `{}`, "login.failed.missing_credentials"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := env.app.Test(postJSON("/auth/login", tc.payload))
			require.NoError(t, err)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			body := decodeBody(t, resp)
			require.Equal(t, "Invalid credentials", body["error"])
			require.Nil(t, sessionCookieFromResponse(resp, env.cfg.SessionCookieName))

			env.waitForAction(t, tc.action)
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t, false)
	_, token := env.createAdmin(t, "admin@example.com")

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(env.sessionCookie(token))

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookieFromResponse(resp, env.cfg.SessionCookieName)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)

	env.waitForAction(t, "logout.success")
}

func TestDashboardGateRedirects(t *testing.T) {
	env := newTestEnv(t, false)
	_, token := env.createAdmin(t, "admin@example.com")

	// Anonymous dashboard visit bounces to the public site.
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	// An authenticated admin on the login page is sent to the dashboard.
	req := httptest.NewRequest(http.MethodGet, env.cfg.LoginPath, nil)
	req.AddCookie(env.sessionCookie(token))

	resp, err = env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, env.cfg.DashboardPrefix, resp.Header.Get("Location"))
}
