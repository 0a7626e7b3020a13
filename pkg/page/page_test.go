package page

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devicelab-dev/locator-finder/pkg/core"
	"github.com/devicelab-dev/locator-finder/pkg/driver/mock"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/logger"
	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

const loginSource = `<AppiumAUT>
  <XCUIElementTypeApplication type="XCUIElementTypeApplication" name="App">
    <XCUIElementTypeWindow type="XCUIElementTypeWindow">
      <XCUIElementTypeTextField type="XCUIElementTypeTextField" name="emailField"/>
      <XCUIElementTypeButton type="XCUIElementTypeButton" name="loginButton" label="Login"/>
      <XCUIElementTypeStaticText type="XCUIElementTypeStaticText" label="Loading" visible="false"/>
    </XCUIElementTypeWindow>
  </XCUIElementTypeApplication>
</AppiumAUT>`

var (
	emailField  = locator.Candidate{Strategy: locator.StableID, Expression: "emailField"}
	loginButton = locator.Candidate{Strategy: locator.StableID, Expression: "loginButton"}
	loading     = locator.Candidate{Strategy: locator.LabelText, Expression: `//*[@label="Loading"]`}
	missing     = locator.Candidate{Strategy: locator.StableID, Expression: "signupButton"}
)

func newPage(t *testing.T, cfg mock.Config) (*Base, *mock.Driver) {
	t.Helper()
	tree, err := uitree.Parse(loginSource)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	d := mock.New(tree, cfg)
	b := New(d)
	b.Timeout = 200 * time.Millisecond
	b.PollInterval = 10 * time.Millisecond
	return b, d
}

func TestNew_Defaults(t *testing.T) {
	b := New(nil)
	if b.Timeout != 20*time.Second || b.PollInterval != 500*time.Millisecond {
		t.Errorf("Unexpected defaults %v / %v", b.Timeout, b.PollInterval)
	}
}

func TestFind_RetriesUntilPresent(t *testing.T) {
	b, d := newPage(t, mock.Config{AppearAfter: 3})

	id, err := b.Find(context.Background(), loginButton, 0)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	elem, _ := d.Element(id)
	if elem.Name != "loginButton" {
		t.Errorf("Expected loginButton, got %s", elem.Name)
	}
	if d.LocateCalls() != 4 {
		t.Errorf("Expected 4 locate calls, got %d", d.LocateCalls())
	}
}

func TestFind_TimeoutMissing(t *testing.T) {
	b, _ := newPage(t, mock.Config{})

	start := time.Now()
	_, err := b.Find(context.Background(), missing, 50*time.Millisecond)
	if !errors.Is(err, core.ErrWaitTimeout) {
		t.Fatalf("Expected ErrWaitTimeout, got %v", err)
	}
	if !errors.Is(err, core.ErrElementNotFound) {
		t.Errorf("Expected last not-found error in chain, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Find did not respect the timeout")
	}
	var cerr *core.Error
	if errors.As(err, &cerr) && cerr.Detail("key") != "signupButton" {
		t.Errorf("Expected locator in details, got %q", cerr.Detail("key"))
	}
}

func TestFind_TimeoutInvisible(t *testing.T) {
	b, _ := newPage(t, mock.Config{})

	_, err := b.Find(context.Background(), loading, 50*time.Millisecond)
	if !errors.Is(err, core.ErrWaitTimeout) || !errors.Is(err, core.ErrElementNotVisible) {
		t.Errorf("Expected timeout caused by invisibility, got %v", err)
	}
}

func TestFind_ParentCanceled(t *testing.T) {
	b, _ := newPage(t, mock.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Find(ctx, missing, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestClickAndType(t *testing.T) {
	b, d := newPage(t, mock.Config{})
	ctx := context.Background()

	if err := b.Type(ctx, emailField, "old"); err != nil {
		t.Fatalf("Type failed: %v", err)
	}
	if err := b.Type(ctx, emailField, "qa@example.com"); err != nil {
		t.Fatalf("Type failed: %v", err)
	}
	id, _ := d.Locate(ctx, emailField)
	if got := d.Typed(id); got != "qa@example.com" {
		t.Errorf("Expected field cleared before typing, got %q", got)
	}

	if err := b.Click(ctx, loginButton); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if len(d.Clicks()) != 1 {
		t.Errorf("Expected 1 click, got %d", len(d.Clicks()))
	}

	if err := b.Click(ctx, missing); !errors.Is(err, core.ErrWaitTimeout) {
		t.Errorf("Expected timeout clicking missing element, got %v", err)
	}
}

func TestIsVisible(t *testing.T) {
	b, _ := newPage(t, mock.Config{})
	ctx := context.Background()

	if !b.IsVisible(ctx, loginButton, 50*time.Millisecond) {
		t.Error("Expected login button visible")
	}
	if b.IsVisible(ctx, loading, 50*time.Millisecond) {
		t.Error("Expected loading label invisible")
	}
}

func TestVerify_LogsOutcome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verify.log")
	if err := logger.Init(path); err != nil {
		t.Fatalf("logger.Init failed: %v", err)
	}
	defer logger.Close()

	b, _ := newPage(t, mock.Config{})
	ctx := context.Background()

	if err := b.Verify(ctx, loginButton, "login button", 50*time.Millisecond); err != nil {
		t.Errorf("Expected PASS, got %v", err)
	}
	if err := b.Verify(ctx, missing, "signup button", 50*time.Millisecond); err == nil {
		t.Error("Expected FAIL")
	}

	data, _ := os.ReadFile(path)
	out := string(data)
	if !strings.Contains(out, "PASS: login button visible") {
		t.Errorf("Expected PASS line, got:\n%s", out)
	}
	if !strings.Contains(out, "FAIL: signup button not visible") {
		t.Errorf("Expected FAIL line, got:\n%s", out)
	}
}

type brokenSession struct {
	mock.Driver
	calls int
}

func (s *brokenSession) Locate(ctx context.Context, cand locator.Candidate) (string, error) {
	s.calls++
	return "", core.ErrMalformedSnapshot.WithMessage("truncated page source")
}

func TestFind_StopsOnFatalError(t *testing.T) {
	s := &brokenSession{}
	b := New(s)
	b.Timeout = time.Second
	b.PollInterval = 10 * time.Millisecond

	_, err := b.Find(context.Background(), loginButton, 0)
	if !errors.Is(err, core.ErrMalformedSnapshot) {
		t.Fatalf("Expected ErrMalformedSnapshot, got %v", err)
	}
	if s.calls != 1 {
		t.Errorf("Expected a single locate attempt, got %d", s.calls)
	}
}
