package api_test

import (
	"alcyxob/training-app/internal/api"
	"alcyxob/training-app/internal/instrumentation"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRateLimiter allows the first `allow` requests per key.
type fakeRateLimiter struct {
	mu    sync.Mutex
	allow int
	seen  map[string]int
	err   error
}

func (f *fakeRateLimiter) Allow(_ context.Context, key string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.seen == nil {
		f.seen = make(map[string]int)
	}
	f.seen[key]++
	if f.seen[key] > f.allow {
		return &redis_rate.Result{Allowed: 0, RetryAfter: 30 * time.Second}, nil
	}
	return &redis_rate.Result{Allowed: 1, Remaining: f.allow - f.seen[key]}, nil
}

func TestLoginRateLimit(t *testing.T) {
	limiter := &fakeRateLimiter{allow: 2}
	app := newTestApp(t, func(d *api.Dependencies) {
		d.RateLimiter = limiter
		d.LoginRatePerMinute = 2
	})
	client := app.client(t)
	creds := api.LoginRequest{Username: "someone", Password: "wrong-password"}

	for i := 0; i < 2; i++ {
		resp, _ := app.do(t, client, http.MethodPost, "/api/v1/accounts/login", creds)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, body := app.do(t, client, http.MethodPost, "/api/v1/accounts/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "31", resp.Header.Get("Retry-After"))
	assert.Equal(t, http.StatusTooManyRequests, decodeError(t, body).StatusCode)

	// Only login is limited.
	resp, _ = app.do(t, client, http.MethodGet, "/api/v1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginRateLimiterFailure(t *testing.T) {
	app := newTestApp(t, func(d *api.Dependencies) {
		d.RateLimiter = &fakeRateLimiter{err: errors.New("redis down")}
		d.LoginRatePerMinute = 5
		d.Production = true
	})

	resp, body := app.do(t, app.client(t), http.MethodPost, "/api/v1/accounts/login", api.LoginRequest{Username: "a", Password: "b"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An unexpected condition was encountered.", decodeError(t, body).Message)
}

func TestCors(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)

	req, err := http.NewRequest(http.MethodOptions, app.server.URL+"/api/v1/programs", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req, err = http.NewRequest(http.MethodGet, app.server.URL+"/api/v1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)

	resp, _ := app.do(t, client, http.MethodGet, "/api/v1", nil)
	generated := resp.Header.Get(api.RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	incoming := uuid.NewString()
	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1", nil)
	require.NoError(t, err)
	req.Header.Set(api.RequestIDHeader, incoming)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, incoming, resp.Header.Get(api.RequestIDHeader))
}

func TestPanicRecovery(t *testing.T) {
	instr := instrumentation.NewTestInstrumentation()
	router := gin.New()
	router.Use(api.PanicRecovery(instr, true), api.ErrorResponder(true))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var errResp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "An unexpected condition was encountered.", errResp.Message)
	assert.NotContains(t, rec.Body.String(), "kaboom")
	assert.Equal(t, 1.0, testutil.ToFloat64(instr.CounterHandleRequestPanic))
}

func TestErrorResponderShowsDetailOutsideProduction(t *testing.T) {
	router := gin.New()
	router.Use(api.ErrorResponder(false))
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("database exploded"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"statusCode":500,"statusMessage":"Internal Server Error","message":"database exploded"}`, rec.Body.String())
}

func TestRequestMetrics(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)

	app.do(t, client, http.MethodGet, "/api/v1", nil)
	app.do(t, client, http.MethodGet, "/api/v1/programs", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(app.instr.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(app.instr.CounterRequests.WithLabelValues("GET", "401")))
}
