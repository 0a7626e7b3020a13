package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Category: ErrCategoryAssertion,
		Code:     "test_error",
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{
		Category: ErrCategoryAssertion,
		Code:     "test_error",
		Message:  "test message",
		Cause:    cause,
	}

	got := err.Error()
	if !strings.Contains(got, "test message") {
		t.Errorf("Error() = %q, should contain 'test message'", got)
	}
	if !strings.Contains(got, "underlying error") {
		t.Errorf("Error() = %q, should contain 'underlying error'", got)
	}
}

func TestError_ErrorWithKey(t *testing.T) {
	err := ErrKeyNotFound.WithDetails(map[string]interface{}{"key": "iPad_9th"})

	if got := err.Error(); got != `key not found: "iPad_9th"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
}

func TestError_WithCause(t *testing.T) {
	original := ErrElementNotFound
	cause := errors.New("custom cause")

	newErr := original.WithCause(cause)

	if newErr.Cause != cause {
		t.Error("WithCause() did not set cause")
	}
	if newErr.Code != original.Code {
		t.Error("WithCause() changed code")
	}
	if original.Cause != nil {
		t.Error("WithCause() modified original error")
	}
}

func TestError_WithMessage(t *testing.T) {
	original := ErrWaitTimeout
	newErr := original.WithMessage("custom timeout message")

	if newErr.Message != "custom timeout message" {
		t.Errorf("Message = %q, want 'custom timeout message'", newErr.Message)
	}
	if newErr.Code != original.Code {
		t.Error("WithMessage() changed code")
	}
	if original.Message == "custom timeout message" {
		t.Error("WithMessage() modified original error")
	}
}

func TestError_WithDetails(t *testing.T) {
	original := &Error{
		Code:    "test",
		Message: "test",
		Details: map[string]interface{}{"existing": "value"},
	}

	newErr := original.WithDetails(map[string]interface{}{
		"fragment": "<XCUIElementTypeButton",
		"offset":   42,
	})

	if newErr.Details["fragment"] != "<XCUIElementTypeButton" {
		t.Error("WithDetails() did not add new details")
	}
	if newErr.Details["existing"] != "value" {
		t.Error("WithDetails() did not preserve existing details")
	}
	if newErr.Detail("offset") != "42" {
		t.Errorf("Detail(offset) = %q, want 42", newErr.Detail("offset"))
	}
	if _, ok := original.Details["fragment"]; ok {
		t.Error("WithDetails() modified original error")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err      *Error
		category ErrorCategory
		code     string
	}{
		{ErrMalformedSnapshot, ErrCategoryParse, "malformed_snapshot"},
		{ErrKeyNotFound, ErrCategoryLookup, "key_not_found"},
		{ErrMalformedStore, ErrCategoryFormat, "malformed_store"},
		{ErrInvalidRecord, ErrCategoryFormat, "invalid_record"},
		{ErrElementNotFound, ErrCategoryAssertion, "element_not_found"},
		{ErrElementNotVisible, ErrCategoryAssertion, "element_not_visible"},
		{ErrWaitTimeout, ErrCategoryTimeout, "wait_timeout"},
		{ErrServerUnreachable, ErrCategoryConnection, "server_unreachable"},
		{ErrNoSession, ErrCategoryConnection, "no_session"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("Category = %s, want %s", tt.err.Category, tt.category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestNewError(t *testing.T) {
	err := NewError(ErrCategoryFormat, "custom_error", "custom message")

	if err.Category != ErrCategoryFormat {
		t.Errorf("Category = %s, want %s", err.Category, ErrCategoryFormat)
	}
	if err.Code != "custom_error" {
		t.Errorf("Code = %s, want 'custom_error'", err.Code)
	}
	if err.Message != "custom message" {
		t.Errorf("Message = %s, want 'custom message'", err.Message)
	}
}

func TestError_ErrorsIs(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrWaitTimeout.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the cause")
	}
	if !errors.Is(err, ErrWaitTimeout) {
		t.Error("errors.Is() should match the sentinel after WithCause")
	}
	if errors.Is(err, ErrKeyNotFound) {
		t.Error("errors.Is() should not match a different code")
	}
}

func TestCategoryOf(t *testing.T) {
	wrapped := fmt.Errorf("load devices: %w", ErrMalformedStore.WithCause(errors.New("bad yaml")))

	if got := CategoryOf(wrapped); got != ErrCategoryFormat {
		t.Errorf("CategoryOf() = %s, want format", got)
	}
	if got := CategoryOf(errors.New("plain")); got != ErrCategoryNone {
		t.Errorf("CategoryOf(plain) = %s, want none", got)
	}
}
