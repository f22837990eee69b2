package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	domainusers "bondregistry/internal/domain/entity/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const (
	apiKeyQueryParam = "api_key"
	userContextKey   = "bondregistry.user"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondregistry_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bondregistry_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// authenticate resolves the caller from the api_key query parameter or the
// Authorization header ("Token <key>" or "Bearer <key>"). The query
// parameter wins when both are sent.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := apiKeyFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgInvalidTokenHdr})
			return
		}
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgNotAuthenticated})
			return
		}

		user, err := h.users.Authenticate(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, domainusers.ErrAPIKeyNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgInvalidToken})
				return
			}
			h.renderError(c, err)
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// apiKeyFromRequest returns ok=false for a malformed Authorization header.
func apiKeyFromRequest(c *gin.Context) (string, bool) {
	if key := c.Query(apiKeyQueryParam); key != "" {
		return key, true
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", true
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
		return parts[1], true
	default:
		return "", true
	}
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*domainusers.User); ok {
			return user.ID
		}
	}
	return uuid.Nil
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		latency := time.Since(start)

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": latency.String(),
		}
		if id := currentUserID(c); id != uuid.Nil {
			fields["user_id"] = id.String()
		}
		entry := h.logger.WithFields(fields)
		switch {
		case status >= http.StatusInternalServerError:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
