package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greensteps/internal/auth"
	"greensteps/internal/config"
	"greensteps/internal/dashboard"
	"greensteps/internal/reward"
	"greensteps/internal/tips"
	"greensteps/internal/user"
	"greensteps/internal/waste"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeQueue struct{ n int64 }

func (q fakeQueue) QueueLength(context.Context) int64 { return q.n }

type stubTips struct{}

func (stubTips) GetTips(context.Context, int) []string {
	return []string{"Compost peels", "Carry a bottle"}
}

func testConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		FrontendURL:      "http://localhost:5174",
		RateLimitRPS:     1000,
		RateLimitBurst:   1000,
		TipsRateLimitRPS: 0.001,
	}
}

func newRouter(t *testing.T, db Pinger) (http.Handler, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret")
	require.NoError(t, err)

	h := Handlers{
		Users:     user.NewHandler(nil),
		Waste:     waste.NewHandler(nil),
		Rewards:   reward.NewHandler(nil),
		Dashboard: dashboard.NewHandler(nil),
		Tips:      tips.NewHandler(stubTips{}),
	}
	return NewRouter(testConfig(), Deps{Tokens: tokens, DB: db, Emails: fakeQueue{n: 4}}, h), tokens
}

func bearer(t *testing.T, tokens *auth.TokenManager, role string) func(*http.Request) {
	t.Helper()
	token, err := tokens.AccessToken(auth.Identity{UserID: 1, Email: "ana@example.com", Role: role})
	require.NoError(t, err)
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func TestHealth(t *testing.T) {
	t.Run("Up", func(t *testing.T) {
		router, _ := newRouter(t, fakePinger{})
		w := get(router, "/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"API is running"}`, w.Body.String())
	})

	t.Run("Database down", func(t *testing.T) {
		router, _ := newRouter(t, fakePinger{err: errors.New("refused")})
		w := get(router, "/health")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newRouter(t, nil)
	get(router, "/health")

	w := get(router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "greensteps_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newRouter(t, nil)

	for _, path := range []string{"/users/profile", "/waste/list", "/rewards", "/dashboard/stats", "/dashboard/tips", "/admin/users"} {
		w := get(router, path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router, tokens := newRouter(t, nil)
	asUser := bearer(t, tokens, auth.RoleUser)

	for _, path := range []string{"/admin/users", "/admin/waste", "/admin/email/queue", "/dashboard/admin/stats", "/dashboard/admin/export-csv"} {
		w := get(router, path, asUser)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
}

func TestEmailQueueStatus(t *testing.T) {
	router, tokens := newRouter(t, nil)

	w := get(router, "/admin/email/queue", bearer(t, tokens, auth.RoleAdmin))

	require.Equal(t, http.StatusOK, w.Code)
	var resp QueueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.Pending)
}

func TestTipsRouteIsRateLimited(t *testing.T) {
	router, tokens := newRouter(t, nil)
	asUser := bearer(t, tokens, auth.RoleUser)

	for i := 0; i < 3; i++ {
		w := get(router, "/dashboard/tips", asUser)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"tips":["Compost peels","Carry a bottle"]}`, w.Body.String())
	}

	w := get(router, "/dashboard/tips", asUser)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
