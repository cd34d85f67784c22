package api

import (
	"alcyxob/training-app/internal/instrumentation"
	"alcyxob/training-app/internal/service"
	"alcyxob/training-app/internal/session"
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Constants for context keys
const (
	ContextActorKey     = "actor"
	ContextRequestIDKey = "requestID"

	RequestIDHeader = "X-Request-Id"
)

// RequireSession loads the session named by the cookie and puts the acting account in the context.
// Sessions of deleted accounts are destroyed and rejected.
func RequireSession(sessions *session.Manager, authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := sessions.Load(c.Request)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				fail(c, service.ErrUnauthenticated)
				return
			}
			fail(c, fmt.Errorf("load session: %w", err))
			return
		}

		account, err := authService.SessionAccount(c.Request.Context(), data.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				if logoutErr := sessions.Logout(c.Request.Context(), c.Writer, c.Request); logoutErr != nil {
					log.Warnf("drop session of missing account %s: %s", data.UserID, logoutErr)
				}
			}
			fail(c, err)
			return
		}

		c.Set(ContextActorKey, service.Actor{
			UserID:   account.ID.Hex(),
			Username: account.Username,
			IsAdmin:  account.IsAdmin,
		})
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireAdmin(actorFrom(c)); err != nil {
			fail(c, err)
			return
		}
		c.Next()
	}
}

// actorFrom returns the zero Actor when no session was loaded; services reject it.
func actorFrom(c *gin.Context) service.Actor {
	actor, _ := c.Get(ContextActorKey)
	a, _ := actor.(service.Actor)
	return a
}

func PanicRecovery(instr *instrumentation.Instrumentation, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				if instr != nil {
					instr.CounterHandleRequestPanic.Inc()
				}
				status := http.StatusInternalServerError
				c.AbortWithStatusJSON(status, newErrorResponse(status, fmt.Errorf("panic: %v", r), production))
			}
		}()

		c.Next()
	}
}

// RequestID reuses a well-formed incoming X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"request_id": c.GetString(ContextRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"ua":         c.Request.UserAgent(),
		}).Debug("request served")
	}
}

func RequestMetrics(instr *instrumentation.Instrumentation) gin.HandlerFunc {
	return func(c *gin.Context) {
		instr.GaugeRequests.Inc()
		defer func(begin time.Time) {
			instr.GaugeRequests.Dec()
			instr.HistRequestDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())

		c.Next()

		instr.CounterRequests.With(
			prometheus.Labels{
				"method": c.Request.Method,
				"status": strconv.Itoa(c.Writer.Status()),
			},
		).Inc()
	}
}

// Cors lets the listed origins call the API with credentials. "*" allows any origin.
// Requests from other origins get no CORS headers, leaving the browser to block them.
func Cors(allowedOrigins []string) gin.HandlerFunc {
	allowAny := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAny = true
		}
		allowed[strings.TrimRight(origin, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !(allowAny || allowed[origin]) {
			if origin != "" {
				log.Debugf("CORS: origin not allowed for path [%s] and origin [%s]", c.Request.URL.Path, origin)
			}
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Request-Id")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PATCH, DELETE")
		c.Header("Access-Control-Expose-Headers", "Location, X-Request-Id")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per client IP on the routes it guards.
func RateLimit(rateLimiter RequestRateLimiter, routeName string, allowedPerMin int) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := rateLimiter.Allow(
			c.Request.Context(),
			routeName+"||"+c.ClientIP(),
			redis_rate.PerMinute(allowedPerMin),
		)
		if err != nil {
			fail(c, fmt.Errorf("rate limit: %w", err))
			return
		}

		if res.Allowed > 0 {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
		fail(c, &HTTPError{
			Status: http.StatusTooManyRequests,
			Err:    fmt.Errorf("retry after %f seconds", res.RetryAfter.Seconds()),
		})
	}
}
