package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultAttemptTimeout bounds one network attempt.
const DefaultAttemptTimeout = 30 * time.Second

// Fetcher retrieves segments with bounded retries. It holds no per-call
// state and is safe for concurrent use.
type Fetcher struct {
	transport      Transport
	policy         Policy
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// New creates a Fetcher backed by a plain HTTP transport and DefaultPolicy.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		transport:      &HTTPTransport{Client: &http.Client{}},
		policy:         DefaultPolicy(),
		attemptTimeout: DefaultAttemptTimeout,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithTransport sets a custom transport.
func WithTransport(t Transport) Option {
	return func(f *Fetcher) {
		f.transport = t
	}
}

// WithPolicy sets the retry policy.
func WithPolicy(p Policy) Option {
	return func(f *Fetcher) {
		f.policy = p
	}
}

// WithAttemptTimeout sets the per-attempt timeout. Zero disables it; the
// caller's context still applies.
func WithAttemptTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.attemptTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// Fetch retrieves one segment. Transient failures are retried per the policy
// with the configured per-attempt timeout; the last error is returned once
// attempts are exhausted. A canceled context returns ctx.Err() as-is.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Outcome, error) {
	var lastErr error

	for attempt := 1; ; attempt++ {
		out, err := f.attempt(ctx, url)
		if err == nil {
			if attempt > 1 {
				f.logger.Debug("segment fetch recovered", "url", url, "attempt", attempt)
			}
			return out, nil
		}
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		lastErr = err

		delay, retry := f.policy.Next(attempt, err)
		if !retry {
			break
		}

		f.logger.Debug("retrying segment fetch",
			"url", url,
			"attempt", attempt,
			"backoff", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	if IsTransient(lastErr) {
		return Outcome{}, fmt.Errorf("max attempts exceeded: %w", lastErr)
	}
	return Outcome{}, lastErr
}

// attempt performs one transport call and classifies the response.
func (f *Fetcher) attempt(ctx context.Context, url string) (Outcome, error) {
	if f.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.attemptTimeout)
		defer cancel()
	}

	resp, err := f.transport.Get(ctx, url)
	if err != nil {
		return Outcome{}, &Error{URL: url, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// The provider 404s hours without activity, future hours, and hours
		// before an instrument's history.
		return Outcome{Status: StatusNoData}, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if len(resp.Body) == 0 {
			return Outcome{Status: StatusNoData}, nil
		}
		return Outcome{Status: StatusData, Bytes: resp.Body}, nil
	default:
		return Outcome{}, &Error{
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}
}
