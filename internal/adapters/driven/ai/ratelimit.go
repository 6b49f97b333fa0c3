package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

// Ensure RateLimitedLLM implements the interface.
var _ driven.LLMService = (*RateLimitedLLM)(nil)

// RateLimitedLLM throttles Generate and Chat with a token bucket.
// Waiting honours the caller's context; nothing is retried.
type RateLimitedLLM struct {
	driven.LLMService
	limiter *rate.Limiter
}

// WithRateLimit wraps svc so that at most requestsPerMinute calls start per
// minute, with a burst of one. Non-positive limits return svc unchanged.
func WithRateLimit(svc driven.LLMService, requestsPerMinute int) driven.LLMService {
	if svc == nil || requestsPerMinute <= 0 {
		return svc
	}
	return &RateLimitedLLM{
		LLMService: svc,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

// Generate waits for a token then delegates.
func (r *RateLimitedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.LLMService.Generate(ctx, prompt, opts)
}

// Chat waits for a token then delegates.
func (r *RateLimitedLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.LLMService.Chat(ctx, messages, opts)
}
