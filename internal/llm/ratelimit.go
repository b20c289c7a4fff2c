package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedClient throttles completions across all callers sharing it.
// Token-bucket with a burst of one second's worth of requests.
type RateLimitedClient struct {
	inner   CompletionClient
	limiter *rate.Limiter
}

func NewRateLimitedClient(inner CompletionClient, requestsPerSecond float64) *RateLimitedClient {
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (c *RateLimitedClient) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.inner.Complete(ctx, req)
}
