// Package retry runs operations under an exponential backoff policy. The
// refinement pipeline is its only production caller, but the policy knobs are
// kept general.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/gitscribe/internal/logging"
)

// Config configures retry behavior with exponential backoff.
type Config struct {
	MaxRetries int           // retries after the initial attempt
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // ceiling for the computed delay
	Multiplier float64       // backoff growth factor
	Jitter     bool          // randomize delay by up to 10%
	LogRetries bool          // record attempts in the debug log
}

// PipelineConfig is the policy for generation calls: two attempts total,
// 10ms base delay doubling between them.
func PipelineConfig() Config {
	return Config{
		MaxRetries: 1,
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
		Jitter:     false,
		LogRetries: true,
	}
}

// Result describes how a retried operation concluded.
type Result struct {
	Attempts      int
	TotalDuration time.Duration
	LastError     error
	Success       bool
	Reasons       []string
}

// Do executes op until it succeeds or the attempt budget is spent. The op
// returns its error plus a short reason string recorded per failed attempt.
// Context cancellation during the backoff delay ends the run early with the
// context's error.
func Do(ctx context.Context, config Config, op func() (error, string), logger *logging.DebugLogger) Result {
	startTime := time.Now()
	result := Result{}

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result.Attempts = attempt + 1

		if config.LogRetries && attempt > 0 {
			logger.Log("retrying operation (attempt %d/%d)", attempt+1, config.MaxRetries+1)
		}

		err, reason := op()
		if err == nil {
			result.Success = true
			result.TotalDuration = time.Since(startTime)
			if config.LogRetries && attempt > 0 {
				logger.Log("operation succeeded after %d retries in %v", attempt, result.TotalDuration)
			}
			return result
		}

		result.LastError = err
		result.Reasons = append(result.Reasons, reason)

		if attempt >= config.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			result.LastError = ctx.Err()
			break
		}

		delay := calculateDelay(config, attempt)
		if config.LogRetries {
			logger.Log("attempt %d/%d failed (%s), waiting %v: %v",
				attempt+1, config.MaxRetries+1, reason, delay, err)
		}

		select {
		case <-ctx.Done():
			result.LastError = ctx.Err()
			result.TotalDuration = time.Since(startTime)
			return result
		case <-time.After(delay):
		}
	}

	result.TotalDuration = time.Since(startTime)
	if config.LogRetries {
		logger.Log("operation failed after %d attempts in %v: %v",
			result.Attempts, result.TotalDuration, result.LastError)
	}
	return result
}

// calculateDelay computes baseDelay * multiplier^attempt, capped at MaxDelay.
func calculateDelay(config Config, attempt int) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.Jitter {
		jitterRange := delay * 0.1
		delay += (rand.Float64() - 0.5) * 2 * jitterRange
		if delay < 0 {
			delay = float64(config.BaseDelay)
		}
	}
	return time.Duration(delay)
}
