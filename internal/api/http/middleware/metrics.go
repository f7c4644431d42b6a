package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics records every request with its matched route pattern.
type Metrics struct {
	observer RequestObserver
}

func NewMetrics(observer RequestObserver) *Metrics {
	return &Metrics{observer: observer}
}

func (m *Metrics) HandleHTTP(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()
	handleChainError(c, err)

	m.observer.ObserveRequest(c.Method(), routeName(c), c.Response().StatusCode(), time.Since(start))

	return nil
}

// routeName keeps label cardinality bounded for unmatched paths.
func routeName(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "/" && r.Path != "" {
		return r.Path
	}
	if c.Path() == "/" {
		return "/"
	}
	return "unmatched"
}
