package service

import (
	"time"

	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/model"
)

// Limiter admits or rejects a request for key.
type Limiter interface {
	Allow(key string, limit int, interval time.Duration) bool
}

// RateLimit applies a default limit and interval on top of a Limiter.
type RateLimit struct {
	limiter  Limiter
	limit    int
	interval time.Duration
	logger   *logger.Logger
}

func NewRateLimit(limiter Limiter, limit int, interval time.Duration, logger *logger.Logger) *RateLimit {
	return &RateLimit{limiter: limiter, limit: limit, interval: interval, logger: logger}
}

// Check records a request for key using the default limit and interval.
func (r *RateLimit) Check(key string) error {
	return r.CheckWith(key, r.limit, r.interval)
}

// CheckWith records a request for key and returns model.ErrRateLimitExceeded
// when the window for key is full.
func (r *RateLimit) CheckWith(key string, limit int, interval time.Duration) error {
	if r.limiter.Allow(key, limit, interval) {
		return nil
	}

	r.logger.Info("RateLimit service: request rejected",
		"key", key,
		"limit", limit,
		"interval", interval.String())

	return model.ErrRateLimitExceeded
}
