package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ratotecki/smartgridlab-api/internal/models"
	"github.com/ratotecki/smartgridlab-api/internal/service"
)

func postJSON(path, payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestWaitingListSignup(t *testing.T) {
	env := newTestEnv(t, false)

	resp, err := env.app.Test(postJSON("/waiting-list",
		`{"email":"lead@example.com","product_name":"GridAnalyzer","company_name":"Acme"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Added to waiting list", body["message"])
}

func TestWaitingListDemoRequestDefaultsProduct(t *testing.T) {
	env := newTestEnv(t, false)

	resp, err := env.app.Test(postJSON("/waiting-list",
		`{"email":"demo@example.com","is_demo_request":true}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "Demo request registered", body["message"])

	var stored models.WaitingListEntry
	require.NoError(t, env.db.First(&stored).Error)
	require.Equal(t, service.DefaultDemoProduct, stored.ProductName)
	require.True(t, stored.IsDemoRequest)
}

func TestWaitingListDuplicateEmailConflict(t *testing.T) {
	env := newTestEnv(t, false)

	payload := `{"email":"lead@example.com","product_name":"GridAnalyzer"}`
	resp, err := env.app.Test(postJSON("/waiting-list", payload))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = env.app.Test(postJSON("/waiting-list", payload))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "Email already registered", body["error"])

	var count int64
	require.NoError(t, env.db.Model(&models.WaitingListEntry{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	env.waitForAction(t, "waiting_list.create.duplicate")
}

func TestWaitingListConcurrentDuplicateSignup(t *testing.T) {
	env := newTestEnv(t, false)

	// A single pooled connection makes the racing inserts contend on the
	// unique index instead of on sqlite's shared-cache write lock.
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	payload := `{"email":"race@example.com","product_name":"GridAnalyzer"}`

	type outcome struct {
		status int
		err    error
	}
	results := make(chan outcome, 2)
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			resp, err := env.app.Test(postJSON("/waiting-list", payload), -1)
			if err != nil {
				results <- outcome{err: err}
				return
			}
			results <- outcome{status: resp.StatusCode}
		}()
	}
	close(start)

	var created, conflicted int
	for i := 0; i < 2; i++ {
		res := <-results
		require.NoError(t, res.err)
		switch res.status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", res.status)
		}
	}
	require.Equal(t, 1, created)
	require.Equal(t, 1, conflicted)

	var count int64
	require.NoError(t, env.db.Model(&models.WaitingListEntry{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestWaitingListRequiresProductOutsideDemo(t *testing.T) {
	env := newTestEnv(t, false)

	resp, err := env.app.Test(postJSON("/waiting-list", `{"email":"lead@example.com"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "Email and product name are required", body["error"])
}

func TestWaitingListViewRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, false)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/waiting-list", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, token := env.createAdmin(t, "admin@example.com")
	req := httptest.NewRequest(http.MethodGet, "/waiting-list", nil)
	req.AddCookie(env.sessionCookie(token))

	resp, err = env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	_, ok := body["entries"]
	require.True(t, ok)
}
