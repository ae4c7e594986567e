// Package breaker builds the circuit breakers guarding outbound service calls.
package breaker

import (
	"errors"
	"time"

	"github.com/glowcart/backend/internal/logging"
	"github.com/glowcart/backend/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Settings tunes when a breaker opens and how long it stays open
type Settings struct {
	MinRequests  uint32        // requests in the window before the ratio is considered
	FailureRatio float64       // trip when failures/requests reaches this
	Interval     time.Duration // closed-state counting window
	OpenTimeout  time.Duration // open -> half-open delay
	HalfOpenMax  uint32        // probes allowed while half-open
}

// DefaultSettings opens after 60% failures over at least 10 requests
// and probes again after 30 seconds.
func DefaultSettings() Settings {
	return Settings{
		MinRequests:  10,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		OpenTimeout:  30 * time.Second,
		HalfOpenMax:  3,
	}
}

// New creates a breaker named after the service it guards.
// isSuccessful decides which errors count as failures; nil counts every error.
func New[T any](name string, s Settings, isSuccessful func(error) bool) *gobreaker.CircuitBreaker[T] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:         name,
		MaxRequests:  s.HalfOpenMax,
		Interval:     s.Interval,
		Timeout:      s.OpenTimeout,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

// IsRejection reports whether err came from an open or saturated breaker
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
