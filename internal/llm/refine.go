// Package llm is the refinement pipeline: it drives a provider call under a
// per-attempt timeout and a bounded retry budget, then cleans, repairs, and
// parses the response into the caller's result type.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gitscribe/internal/logging"
	"github.com/gitscribe/internal/provider"
	"github.com/gitscribe/internal/retry"
)

// RequestTimeout bounds a single provider attempt.
const RequestTimeout = 30 * time.Second

// Pipeline binds a provider to the retry and timeout policy. The zero values
// of Timeout and Retry select the production policy; tests tighten them.
type Pipeline struct {
	Provider provider.Provider
	Timeout  time.Duration
	Retry    retry.Config
}

// NewPipeline returns a pipeline with the production policy: 30s per
// attempt, two attempts with 10ms exponential backoff.
func NewPipeline(p provider.Provider) *Pipeline {
	return &Pipeline{
		Provider: p,
		Timeout:  RequestTimeout,
		Retry:    retry.PipelineConfig(),
	}
}

func (pl *Pipeline) timeout() time.Duration {
	if pl.Timeout > 0 {
		return pl.Timeout
	}
	return RequestTimeout
}

func (pl *Pipeline) retryConfig() retry.Config {
	if pl.Retry.MaxRetries == 0 && pl.Retry.BaseDelay == 0 {
		return retry.PipelineConfig()
	}
	return pl.Retry
}

// Refine runs one generation through the pipeline and parses the result into
// T. When T is string the cleaned response text passes through unparsed. A
// malformed structured response consumes an attempt like any provider error;
// after the attempt budget is spent the last cause is wrapped in a single
// terminal error.
func Refine[T any](ctx context.Context, pl *Pipeline, systemPrompt, userPrompt string) (T, error) {
	var out T
	logger := logging.GetCurrentLogger()

	op := func() (error, string) {
		requestID := uuid.NewString()
		attemptCtx, cancel := context.WithTimeout(ctx, pl.timeout())
		defer cancel()

		logger.LogRequest(requestID, pl.Provider.Name(), systemPrompt, userPrompt)
		raw, err := pl.Provider.Generate(attemptCtx, systemPrompt, userPrompt)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w after %v: %v", ErrTimeout, pl.timeout(), err), "timeout"
			}
			return fmt.Errorf("%w: %v", ErrProvider, err), "provider_error"
		}
		logger.LogResponse(requestID, raw)

		cleaned := CleanResponse(raw)
		if target, ok := any(&out).(*string); ok {
			*target = cleaned
			return nil, ""
		}
		if err := decodeStructured(cleaned, &out); err != nil {
			logger.LogError("decode response", err)
			return fmt.Errorf("%w: %v", ErrResponseFormat, err), "response_format"
		}
		return nil, ""
	}

	result := retry.Do(ctx, pl.retryConfig(), op, logger)
	if !result.Success {
		var zero T
		return zero, fmt.Errorf("failed to generate message: %w", result.LastError)
	}
	return out, nil
}

// decodeStructured parses cleaned text into target, running the JSON repair
// step when a direct parse fails.
func decodeStructured(cleaned string, target interface{}) error {
	if err := json.Unmarshal([]byte(cleaned), target); err == nil {
		return nil
	}

	repaired, stats, err := RepairJSON(cleaned)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return fmt.Errorf("parsing response json: %w", err)
	}
	if stats.WasRepaired {
		logging.GetCurrentLogger().Log("response json repaired (%d -> %d bytes in %v)",
			stats.OriginalBytes, stats.RepairedBytes, stats.RepairTime)
	}
	return nil
}
