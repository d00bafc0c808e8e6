package ai

import (
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/muhammadolammi/profiletracer/internal/logger"
)

const pingPrompt = "Ping: respond with OK"

// RetryConfig controls how often a failed completion is retried.
// Zero attempts means a single try.
type RetryConfig struct {
	Attempts uint
	Delay    time.Duration
}

// Client sends prompts to the resolved model and returns plain text.
type Client struct {
	resolver *Resolver
	backend  Backend
	retry    RetryConfig
}

func NewClient(resolver *Resolver, backend Backend, rc RetryConfig) *Client {
	return &Client{resolver: resolver, backend: backend, retry: rc}
}

// Complete returns the model's text for prompt. It fails with
// ErrModelUnavailable when no model resolves and with ErrRemoteCall when the
// service errors; an answer without text is "" and no error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	h, ok := c.resolver.Resolve(ctx)
	if !ok {
		return "", ErrModelUnavailable
	}

	var text string
	call := func() error {
		resp, err := c.backend.Generate(ctx, h.ID, prompt)
		if err != nil {
			return err
		}
		text = ResponseText(resp)
		return nil
	}

	if c.retry.Attempts <= 1 {
		if err := call(); err != nil {
			return "", RemoteError(err)
		}
		return text, nil
	}

	err := retry.Do(
		call,
		retry.RetryIf(isRetryableError),
		retry.Attempts(c.retry.Attempts),
		retry.Delay(c.retry.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("attempt", n+1).
				WithField("model", h.ID).
				Warn("retrying generative model call")
		}),
	)
	if err != nil {
		return "", RemoteError(err)
	}
	return text, nil
}

// Available pings the model with a short prompt and reports whether any
// answer arrived within timeout. Any answer counts, even one without the
// requested "OK".
func (c *Client) Available(ctx context.Context, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		h, ok := c.resolver.Resolve(ctx)
		if !ok {
			done <- ErrModelUnavailable
			return
		}
		_, err := c.backend.Generate(ctx, h.ID, pingPrompt)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.G(ctx).WithError(err).Warn("model connectivity test failed")
			return false
		}
		return true
	case <-ctx.Done():
		logger.G(ctx).WithField("timeout", timeout).Warn("model connectivity test timed out")
		return false
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"service unavailable",
		"internal error",
		"rate limit",
		"too many requests",
		"429",
		"500",
		"503",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
