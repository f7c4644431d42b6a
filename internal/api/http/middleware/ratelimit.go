package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/flower-server/internal/logger"
)

// RateLimiter checks one request against the window of key.
type RateLimiter interface {
	Check(key string) error
}

// RateLimitObserver records limiter decisions.
type RateLimitObserver interface {
	ObserveRateLimit(allowed bool)
}

// KeyFunc derives the rate limit key of a request.
type KeyFunc func(c *fiber.Ctx) string

// QueryKey keys requests by the query parameter param, or by client IP when
// it is absent.
func QueryKey(param string) KeyFunc {
	return func(c *fiber.Ctx) string {
		if v := c.Query(param); v != "" {
			return v
		}
		return c.IP()
	}
}

// RateLimit rejects requests whose key exceeded its window.
type RateLimit struct {
	limiter  RateLimiter
	observer RateLimitObserver
	key      KeyFunc
	logger   *logger.Logger
}

func NewRateLimit(limiter RateLimiter, observer RateLimitObserver, key KeyFunc, logger *logger.Logger) *RateLimit {
	return &RateLimit{limiter: limiter, observer: observer, key: key, logger: logger}
}

func (m *RateLimit) Handle(c *fiber.Ctx) error {
	key := m.key(c)

	err := m.limiter.Check(key)
	m.observer.ObserveRateLimit(err == nil)
	if err != nil {
		m.logger.Debug("RateLimit middleware: request rejected",
			"key", key,
			"path", c.Path())
		return err
	}

	return c.Next()
}
