// Package backoff retries HTTP requests that fail with temporary errors.
package backoff

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type httpError struct {
	resp *http.Response
}

func (err httpError) Error() string {
	return fmt.Sprintf("received error response %s", err.resp.Status)
}

// IsResponseError reports whether err was caused by a permanent error response.
func IsResponseError(err error) bool {
	var herr httpError
	return errors.As(err, &herr)
}

var ErrRetriesExhausted = errors.New("retries exhausted")

type Config struct {
	ResponseChecker ResponseChecker

	// NewStrategy returns a fresh strategy for every call to Backoff so that
	// a Config can be shared between goroutines.
	NewStrategy func() Strategy

	Logger zerolog.Logger

	skipSleep bool
}

// DefaultConfig retries 503 responses with an exponential strategy.
func DefaultConfig() *Config {
	return &Config{
		ResponseChecker: DefaultResponseChecker,
		NewStrategy:     func() Strategy { return NewExponentialStrategy() },
		Logger:          zerolog.Nop(),
	}
}

type NextFunc func(ctx context.Context) (*http.Response, error)

// Backoff attempts to complete a given HTTP request using the NextFunc closure
// until successful, a permanent error is received, the retries of the strategy
// have been exhausted or ctx is done. A valid *http.Response is returned if
// and only if err is nil, IsResponseError, or ErrRetriesExhausted.
func (c *Config) Backoff(ctx context.Context, next NextFunc) (*http.Response, error) {
	strategy := c.NewStrategy()

	for retry := 1; ; retry++ {
		resp, err := next(ctx)
		if err != nil {
			return nil, err
		}

		switch c.ResponseChecker.Check(resp) {
		case StatusOK:
			return resp, nil

		case StatusPermanent:
			return resp, httpError{resp}

		case StatusTemporary:
			interval, ok := strategy.Retry(retry)
			if !ok {
				return resp, ErrRetriesExhausted
			}

			c.Logger.Debug().
				Int("retry", retry).
				Int("status", resp.StatusCode).
				Dur("interval", interval).
				Msg("temporary error response")

			// The body of a response that is retried is never read.
			resp.Body.Close()

			if err := c.sleep(ctx, interval); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Config) sleep(ctx context.Context, interval time.Duration) error {
	if c.skipSleep || interval <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Config) SkipSleep(skipSleep bool) {
	c.skipSleep = skipSleep
}

// Get fetches url with client, retrying temporary errors.
func (c *Config) Get(ctx context.Context, client *http.Client, url, userAgent string) (*http.Response, error) {
	return c.Backoff(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}
		return client.Do(req)
	})
}

type Status int

const (
	StatusOK Status = iota
	StatusPermanent
	StatusTemporary
)

type ResponseChecker interface {
	Check(resp *http.Response) Status
}

var DefaultResponseChecker ResponseChecker = responseChecker{}

type responseChecker struct{}

func (responseChecker) Check(resp *http.Response) Status {
	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusServiceUnavailable {
			return StatusTemporary
		}
		return StatusPermanent
	}
	return StatusOK
}

type Strategy interface {
	Retry(retry int) (interval time.Duration, ok bool)
}

const (
	DefaultExponentialInterval    time.Duration = 500 * time.Millisecond
	DefaultExponentialMaxInterval time.Duration = 20 * time.Second
	DefaultExponentialMultiplier  float64       = 1.5
)

type ExponentialStrategy struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Multiplier  float64

	currentInterval time.Duration
}

func NewExponentialStrategy() *ExponentialStrategy {
	return &ExponentialStrategy{
		Interval:    DefaultExponentialInterval,
		MaxInterval: DefaultExponentialMaxInterval,
		Multiplier:  DefaultExponentialMultiplier,
	}
}

func (s *ExponentialStrategy) Retry(retry int) (interval time.Duration, ok bool) {
	if retry == 1 {
		interval = s.Interval
	} else {
		interval = time.Duration(s.Multiplier * float64(s.currentInterval))
	}

	s.currentInterval = interval
	ok = interval <= s.MaxInterval
	return
}
