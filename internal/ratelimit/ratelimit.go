package ratelimit

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"codeberg.org/algorave/relay/internal/errors"
	"codeberg.org/algorave/relay/internal/logger"
	"codeberg.org/algorave/relay/internal/metrics"
)

const storePrefix = "relay:handshake"

// builds a per-IP limiter for websocket upgrades. rateFormat uses the
// "<limit>-<period>" format, e.g. "30-M". Counters live in redis when a
// client is given so limits hold across replicas.
func NewHandshakeLimiter(rateFormat string, redisClient *redis.Client) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(rateFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid handshake rate %q: %w", rateFormat, err)
	}

	store, err := newStore(redisClient)
	if err != nil {
		return nil, err
	}

	return mgin.NewMiddleware(
		limiter.New(store, rate),
		mgin.WithLimitReachedHandler(limitReached),
		mgin.WithErrorHandler(storeFailed),
	), nil
}

func newStore(redisClient *redis.Client) (limiter.Store, error) {
	if redisClient == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: storePrefix}), nil
	}

	store, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: storePrefix})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	return store, nil
}

func limitReached(c *gin.Context) {
	metrics.HandshakesRejected.WithLabelValues("rate_limited").Inc()
	logger.Warn("websocket handshake rate limited",
		"ip", c.ClientIP(),
	)

	errors.TooManyRequests(c, "too many connection attempts, slow down")
}

func storeFailed(c *gin.Context, err error) {
	errors.InternalError(c, "rate limiter unavailable", err)
}
