package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gitscribe/internal/retry"
	"github.com/gitscribe/pkg/models"
)

// scriptedProvider replays a fixed sequence of responses and errors, one per
// Generate call.
type scriptedProvider struct {
	responses []string
	errs      []error
	delay     time.Duration
	calls     int
}

func (s *scriptedProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	i := s.calls
	s.calls++

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) DefaultTokenLimit() int { return 4096 }

func fastPipeline(p *scriptedProvider) *Pipeline {
	return &Pipeline{
		Provider: p,
		Timeout:  time.Second,
		Retry:    retry.Config{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Second, Multiplier: 2},
	}
}

const validResponse = `{"emoji": "✨", "title": "add request tracing", "message": "Propagate request IDs."}`

func TestRefineSucceedsFirstAttempt(t *testing.T) {
	p := &scriptedProvider{responses: []string{validResponse}}

	msg, err := Refine[models.GeneratedMessage](context.Background(), fastPipeline(p), "sys", "user")
	require.NoError(t, err)
	require.Equal(t, "add request tracing", msg.Title)
	require.Equal(t, 1, p.calls)
}

func TestRefineRecoversAfterOneFailure(t *testing.T) {
	p := &scriptedProvider{
		errs:      []error{errors.New("connection reset")},
		responses: []string{"", validResponse},
	}

	msg, err := Refine[models.GeneratedMessage](context.Background(), fastPipeline(p), "sys", "user")
	require.NoError(t, err)
	require.Equal(t, "add request tracing", msg.Title)
	require.Equal(t, 2, p.calls)
}

func TestRefineExhaustsAttempts(t *testing.T) {
	cause := errors.New("service unavailable")
	p := &scriptedProvider{errs: []error{cause, cause, cause}}

	_, err := Refine[models.GeneratedMessage](context.Background(), fastPipeline(p), "sys", "user")
	require.Error(t, err)
	require.Equal(t, 2, p.calls, "pipeline must stop after exactly 2 provider invocations")
	require.ErrorIs(t, err, ErrProvider)
	require.Contains(t, err.Error(), "failed to generate message")
}

func TestRefineClassifiesTimeout(t *testing.T) {
	p := &scriptedProvider{delay: 200 * time.Millisecond, responses: []string{validResponse, validResponse}}
	pl := fastPipeline(p)
	pl.Timeout = 20 * time.Millisecond

	_, err := Refine[models.GeneratedMessage](context.Background(), pl, "sys", "user")
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, 2, p.calls)
}

func TestRefineFastProviderBeatsTimeout(t *testing.T) {
	p := &scriptedProvider{delay: 5 * time.Millisecond, responses: []string{validResponse}}
	pl := fastPipeline(p)

	_, err := Refine[models.GeneratedMessage](context.Background(), pl, "sys", "user")
	require.NoError(t, err)
}

func TestRefineRetriesMalformedResponse(t *testing.T) {
	p := &scriptedProvider{responses: []string{"the changes look big", validResponse}}

	msg, err := Refine[models.GeneratedMessage](context.Background(), fastPipeline(p), "sys", "user")
	require.NoError(t, err)
	require.Equal(t, "add request tracing", msg.Title)
	require.Equal(t, 2, p.calls, "a malformed response must trigger a second provider call")
}

func TestRefineMalformedBothAttempts(t *testing.T) {
	p := &scriptedProvider{responses: []string{"nope", "still nope"}}

	_, err := Refine[models.GeneratedMessage](context.Background(), fastPipeline(p), "sys", "user")
	require.ErrorIs(t, err, ErrResponseFormat)
	require.Equal(t, 2, p.calls)
}

func TestRefineStringPassthrough(t *testing.T) {
	p := &scriptedProvider{responses: []string{"```\nplain release summary\n```"}}

	out, err := Refine[string](context.Background(), fastPipeline(p), "sys", "user")
	require.NoError(t, err)
	require.Equal(t, "plain release summary", out)
}

func TestRefineRepairsSloppyJSON(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		"Here is the message:\n```json\n{\"title\": \"fix login\", \"message\": \"Handle expired tokens.\",}\n```",
	}}

	msg, err := Refine[models.GeneratedMessage](context.Background(), fastPipeline(p), "sys", "user")
	require.NoError(t, err)
	require.Equal(t, "fix login", msg.Title)
	require.Equal(t, 1, p.calls)
}
