// Package reachability checks that a target URL answers before it is shortened.
package reachability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
	"github.com/axellelanca/quickurl/internal/models"
)

// Checker reports whether a URL is reachable. A nil error means reachable.
type Checker interface {
	Check(ctx context.Context, rawURL string) error
}

// HTTPChecker issues a GET and requires a 200 response, redirects followed.
type HTTPChecker struct {
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPChecker creates an HTTPChecker whose requests time out after timeout.
func NewHTTPChecker(timeout time.Duration, logger zerolog.Logger) *HTTPChecker {
	return &HTTPChecker{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "reachability").Logger(),
	}
}

// Check validates rawURL then fetches it.
// Malformed URLs give ErrInvalidInput, anything but a 200 gives ErrURLCheckFailed.
func (c *HTTPChecker) Check(ctx context.Context, rawURL string) error {
	if err := models.ValidateURL(rawURL); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return customerrors.ErrURLCheckFailed{URL: rawURL, Reason: err.Error()}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", rawURL).Msg("URL check request failed")
		return customerrors.ErrURLCheckFailed{URL: rawURL, Reason: err.Error()}
	}
	defer resp.Body.Close()
	// Drain a little so the connection can be reused.
	_, _ = io.CopyN(io.Discard, resp.Body, 4096)

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().Int("status", resp.StatusCode).Str("url", rawURL).Msg("URL check returned non-200 status")
		return customerrors.ErrURLCheckFailed{URL: rawURL, Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}

// Noop accepts every URL. Used when validation is disabled.
type Noop struct{}

// Check always succeeds.
func (Noop) Check(context.Context, string) error { return nil }
