package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"socialdesk/config"
	"socialdesk/internal/redis"
	"socialdesk/internal/repository"
	"socialdesk/internal/services"
	"socialdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func authService(t *testing.T) *services.AuthService {
	t.Helper()
	c := repository.NewMemoryCollections(nil, logger.NewNop())
	if err := c.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return services.NewAuthService(c.Admins, &config.Config{JWTSecret: "secret", JWTExpiryHours: 1}, logger.NewNop())
}

func protected(svc *services.AuthService) *gin.Engine {
	r := gin.New()
	r.GET("/admin", AuthMiddleware(svc), func(c *gin.Context) {
		admin, ok := services.AdminFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, admin.Email)
	})
	return r
}

func TestAuthMiddlewareRejections(t *testing.T) {
	r := protected(authService(t))
	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", MsgNoToken},
		{"wrong scheme", "Basic abc", MsgInvalidTokenForm},
		{"no token", "Bearer", MsgInvalidTokenForm},
		{"garbage token", "Bearer not.a.jwt", services.MsgTokenInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if env := decode(t, rec); env.Success || env.Message != tc.message {
				t.Fatalf("unexpected envelope %+v", env)
			}
		})
	}
}

func TestAuthMiddlewareAttachesAdmin(t *testing.T) {
	svc := authService(t)
	ctx := context.Background()
	if _, err := svc.EnsureBootstrapAdmin(ctx, "admin@example.com", "pw", "Admin"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	res, err := svc.Login(ctx, services.LoginInput{Email: "admin@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "bearer "+res.AccessToken)
	rec := httptest.NewRecorder()
	protected(svc).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "admin@example.com" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

type stubLimiter struct {
	calls  int
	budget int
	err    error
}

func (s *stubLimiter) Allow(context.Context, string) (*redis.RateLimitResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	remaining := s.budget - s.calls
	return &redis.RateLimitResult{
		Allowed:   remaining >= 0,
		Remaining: max(remaining, 0),
		ResetIn:   30 * time.Second,
		Limit:     s.budget,
	}, nil
}

func limited(l Limiter) *gin.Engine {
	r := gin.New()
	r.POST("/submit", RateLimitMiddleware(l, logger.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func TestRateLimitMiddleware(t *testing.T) {
	r := limited(&stubLimiter{budget: 2})
	var codes []int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))
		codes = append(codes, rec.Code)
		if i == 2 {
			if rec.Header().Get("Retry-After") != "30" {
				t.Fatalf("expected Retry-After header, got %q", rec.Header().Get("Retry-After"))
			}
			if env := decode(t, rec); env.Code != "RATE_LIMITED" {
				t.Fatalf("unexpected envelope %+v", env)
			}
		}
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	limited(&stubLimiter{err: errors.New("redis down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected request to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	limited(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("nil limiter should pass, got %d", rec.Code)
	}
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if env := decode(t, rec); env.Success || env.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.RequestIdKey).(string)
		c.String(http.StatusOK, id)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "abc" || rec.Header().Get(RequestIDHeader) != "abc" {
		t.Fatalf("expected echoed id, got %q", rec.Body.String())
	}

	for _, sent := range []string{"", "bad id\twith tab", strings.Repeat("x", 65)} {
		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		if sent != "" {
			req.Header.Set(RequestIDHeader, sent)
		}
		r.ServeHTTP(rec, req)
		id, err := uuid.Parse(rec.Body.String())
		if err != nil || id.Version() != 7 {
			t.Fatalf("sent %q: expected generated v7 uuid, got %q", sent, rec.Body.String())
		}
		if rec.Header().Get(RequestIDHeader) != id.String() {
			t.Fatalf("header %q does not match context id", rec.Header().Get(RequestIDHeader))
		}
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimitMiddleware(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}
