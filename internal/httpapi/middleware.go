package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
)

const (
	jsonKeyError = "error"
	jsonKeyField = "feature"

	errorFeatureDisabled = "feature_disabled"
	errorUnknownFeature  = "unknown_feature"
	errorRateLimited     = "rate_limited"

	clientLimiterIdleTTL    = 10 * time.Minute
	clientLimiterSweepLimit = 4096
)

func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(context *gin.Context) {
		start := time.Now()
		context.Next()
		logger.Info("http",
			zap.String("method", context.Request.Method),
			zap.String("path", context.Request.URL.Path),
			zap.Int("status", context.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("ip", context.ClientIP()),
			zap.String("ua", context.Request.UserAgent()),
		)
	}
}

// FeatureChecker reports whether a feature is enabled for the running tenant.
type FeatureChecker interface {
	Enabled(feature model.Feature) bool
}

// RequireFeature is the single gate for feature-specific routes. Disabled features
// answer 404 so the module looks absent rather than forbidden.
func RequireFeature(checker FeatureChecker, feature model.Feature) gin.HandlerFunc {
	return func(context *gin.Context) {
		if !checker.Enabled(feature) {
			context.AbortWithStatusJSON(http.StatusNotFound, gin.H{jsonKeyError: errorFeatureDisabled, jsonKeyField: feature})
			return
		}
		context.Next()
	}
}

// ClientRateLimiter keeps one token bucket per client key. Buckets idle longer
// than clientLimiterIdleTTL are dropped once the map grows large.
type ClientRateLimiter struct {
	limit    rate.Limit
	burst    int
	mutex    sync.Mutex
	limiters map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewClientRateLimiter(limit rate.Limit, burst int) *ClientRateLimiter {
	return &ClientRateLimiter{limit: limit, burst: burst, limiters: make(map[string]*clientLimiter)}
}

// Allow spends one token from the bucket belonging to clientKey.
func (clientRateLimiter *ClientRateLimiter) Allow(clientKey string) bool {
	now := time.Now()
	clientRateLimiter.mutex.Lock()
	defer clientRateLimiter.mutex.Unlock()

	entry, found := clientRateLimiter.limiters[clientKey]
	if !found {
		if len(clientRateLimiter.limiters) >= clientLimiterSweepLimit {
			clientRateLimiter.evictIdle(now)
		}
		entry = &clientLimiter{limiter: rate.NewLimiter(clientRateLimiter.limit, clientRateLimiter.burst)}
		clientRateLimiter.limiters[clientKey] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (clientRateLimiter *ClientRateLimiter) evictIdle(now time.Time) {
	for clientKey, entry := range clientRateLimiter.limiters {
		if now.Sub(entry.lastSeen) > clientLimiterIdleTTL {
			delete(clientRateLimiter.limiters, clientKey)
		}
	}
}

// RateLimit rejects a request once the bucket for its client IP is drained.
func RateLimit(limiter *ClientRateLimiter) gin.HandlerFunc {
	return func(context *gin.Context) {
		if limiter != nil && !limiter.Allow(context.ClientIP()) {
			context.Header("Retry-After", "1")
			context.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{jsonKeyError: errorRateLimited})
			return
		}
		context.Next()
	}
}
