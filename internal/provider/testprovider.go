package provider

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TestProvider is the deterministic backend used in tests and by the "test"
// provider name. It can fail its first N calls, delay responses, and records
// how many times it was invoked.
type TestProvider struct {
	Response  string        // returned on success
	Err       error         // returned on failure; defaults to a generic error
	FailFirst int           // number of leading calls that fail
	Delay     time.Duration // artificial latency, interruptible by ctx

	mu    sync.Mutex
	calls int
}

func (p *TestProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.mu.Unlock()

	if p.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.Delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if call <= p.FailFirst {
		if p.Err != nil {
			return "", p.Err
		}
		return "", errors.New("simulated provider failure")
	}
	return p.Response, nil
}

func (p *TestProvider) Name() string { return "test" }

func (p *TestProvider) DefaultTokenLimit() int { return 4096 }

// Calls reports how many times Generate has been invoked.
func (p *TestProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
