// Package page provides a base for page objects built on generated locators.
package page

import (
	"context"
	"errors"
	"time"

	"github.com/devicelab-dev/locator-finder/pkg/core"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/logger"
)

// Wait defaults.
const (
	DefaultTimeout      = 20 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// Session is the part of an automation client a page object needs.
// *appium.Client and *mock.Driver both satisfy it.
type Session interface {
	Locate(ctx context.Context, cand locator.Candidate) (string, error)
	Click(ctx context.Context, elementID string) error
	Clear(ctx context.Context, elementID string) error
	SendKeys(ctx context.Context, elementID, text string) error
	IsDisplayed(ctx context.Context, elementID string) (bool, error)
}

// Base holds a session and wait settings for page objects to embed.
type Base struct {
	Session      Session
	Timeout      time.Duration
	PollInterval time.Duration
}

// New returns a Base with the default timeout and poll interval.
func New(s Session) *Base {
	return &Base{Session: s, Timeout: DefaultTimeout, PollInterval: DefaultPollInterval}
}

// Find waits until cand resolves to a displayed element and returns its id.
// Errors before the deadline are retried; at the deadline the last one is
// wrapped in core.ErrWaitTimeout. A timeout of 0 uses b.Timeout.
func (b *Base) Find(ctx context.Context, cand locator.Candidate, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = b.Timeout
	}
	interval := b.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		id, err := b.Session.Locate(waitCtx, cand)
		if err == nil {
			var shown bool
			shown, err = b.Session.IsDisplayed(waitCtx, id)
			if err == nil && shown {
				return id, nil
			}
			if err == nil {
				err = core.ErrElementNotVisible
			}
		}
		if core.CategoryOf(err).IsFatal() {
			return "", err
		}
		// Keep the last real failure rather than our own deadline.
		if lastErr == nil || !errors.Is(err, context.DeadlineExceeded) {
			lastErr = err
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", timeoutError(cand, timeout, lastErr)
		case <-ticker.C:
		}
	}
}

func timeoutError(cand locator.Candidate, timeout time.Duration, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		cause = nil
	}
	return core.ErrWaitTimeout.WithCause(cause).WithDetails(map[string]interface{}{
		"key":     cand.Expression,
		"using":   cand.Strategy.Using(),
		"timeout": timeout.String(),
	})
}

// Click waits for the element and clicks it.
func (b *Base) Click(ctx context.Context, cand locator.Candidate) error {
	id, err := b.Find(ctx, cand, 0)
	if err != nil {
		return err
	}
	return b.Session.Click(ctx, id)
}

// Type waits for the element, clears it and types text.
func (b *Base) Type(ctx context.Context, cand locator.Candidate, text string) error {
	id, err := b.Find(ctx, cand, 0)
	if err != nil {
		return err
	}
	if err := b.Session.Clear(ctx, id); err != nil {
		return err
	}
	return b.Session.SendKeys(ctx, id, text)
}

// IsVisible reports whether cand becomes visible within timeout.
func (b *Base) IsVisible(ctx context.Context, cand locator.Candidate, timeout time.Duration) bool {
	_, err := b.Find(ctx, cand, timeout)
	return err == nil
}

// Verify asserts that the element named name becomes visible within timeout
// and logs the outcome.
func (b *Base) Verify(ctx context.Context, cand locator.Candidate, name string, timeout time.Duration) error {
	if _, err := b.Find(ctx, cand, timeout); err != nil {
		logger.Error("FAIL: %s not visible %v: %v", name, cand, err)
		return err
	}
	logger.Info("PASS: %s visible", name)
	return nil
}
