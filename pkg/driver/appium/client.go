// Package appium talks to an Appium server over the W3C WebDriver protocol:
// it captures page source, locates elements and performs basic actions.
package appium

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devicelab-dev/locator-finder/pkg/core"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/logger"
	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

// W3C WebDriver element identifier key (standard constant)
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// DefaultTimeout bounds every HTTP request to the server.
const DefaultTimeout = 2 * time.Minute

// Client handles HTTP communication with Appium server.
type Client struct {
	serverURL string
	sessionID string
	client    *http.Client
	platform  string // ios, android
	screenW   int
	screenH   int
}

// NewClient creates a new Appium client.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Connect creates a new session with the given capabilities.
func (c *Client) Connect(ctx context.Context, capabilities map[string]interface{}) error {
	body := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"alwaysMatch": capabilities,
		},
	}

	resp, err := c.post(ctx, "/session", body)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid session response")
	}

	c.sessionID, _ = value["sessionId"].(string)
	if c.sessionID == "" {
		return fmt.Errorf("no session ID in response")
	}

	if caps, ok := value["capabilities"].(map[string]interface{}); ok {
		if platform, ok := caps["platformName"].(string); ok {
			c.platform = strings.ToLower(platform)
		}
	}
	logger.Info("appium session %s created (platform %s)", c.sessionID, c.platform)

	c.fetchScreenSize(ctx)

	// Don't wait for animations to settle before snapshotting the tree.
	if c.platform == "ios" {
		if err := c.SetSettings(ctx, map[string]interface{}{"animationCoolOffTimeout": 0}); err != nil {
			logger.Warn("failed to apply XCUITest settings: %v", err)
		}
	}

	return nil
}

// Disconnect closes the session.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.delete(ctx, c.sessionPath())
	logger.Info("appium session %s closed", c.sessionID)
	c.sessionID = ""
	return err
}

// SessionID returns the active session id, or "" when disconnected.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Platform returns the platform (ios/android).
func (c *Client) Platform() string {
	return c.platform
}

// ScreenSize returns the screen dimensions.
func (c *Client) ScreenSize() (int, int) {
	return c.screenW, c.screenH
}

func (c *Client) fetchScreenSize(ctx context.Context) {
	resp, err := c.get(ctx, c.sessionPath()+"/window/rect")
	if err != nil {
		return
	}
	if value, ok := resp["value"].(map[string]interface{}); ok {
		if w, ok := value["width"].(float64); ok {
			c.screenW = int(w)
		}
		if h, ok := value["height"].(float64); ok {
			c.screenH = int(h)
		}
	}
}

// Capture

// Source returns the page source XML.
func (c *Client) Source(ctx context.Context) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	resp, err := c.get(ctx, c.sessionPath()+"/source")
	if err != nil {
		return "", err
	}
	source, ok := resp["value"].(string)
	if !ok {
		return "", fmt.Errorf("invalid source response")
	}
	return source, nil
}

// CaptureTree fetches the page source and loads it. The raw markup is
// returned alongside the tree so callers can archive it.
func (c *Client) CaptureTree(ctx context.Context) (*uitree.Tree, string, error) {
	source, err := c.Source(ctx)
	if err != nil {
		return nil, "", err
	}
	tree, err := uitree.Parse(source)
	if err != nil {
		return nil, source, err
	}
	logger.Debug("captured tree with %d elements", tree.Len())
	return tree, source, nil
}

// Screenshot returns a screenshot as PNG bytes.
func (c *Client) Screenshot(ctx context.Context) ([]byte, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, c.sessionPath()+"/screenshot")
	if err != nil {
		return nil, err
	}
	encoded, ok := resp["value"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid screenshot response")
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// Element Operations

// FindElement finds a single element. using is an Appium locator strategy
// such as "accessibility id" or "xpath".
func (c *Client) FindElement(ctx context.Context, using, value string) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	body := map[string]interface{}{
		"using": using,
		"value": value,
	}

	resp, err := c.post(ctx, c.sessionPath()+"/element", body)
	if err != nil {
		return "", err
	}

	elemValue, ok := resp["value"].(map[string]interface{})
	if !ok {
		return "", core.ErrElementNotFound.WithDetails(map[string]interface{}{"key": value})
	}

	id := extractElementID(elemValue)
	if id == "" {
		return "", core.ErrElementNotFound.WithDetails(map[string]interface{}{"key": value})
	}
	return id, nil
}

// Locate finds the element a generated candidate refers to.
func (c *Client) Locate(ctx context.Context, cand locator.Candidate) (string, error) {
	return c.FindElement(ctx, cand.Strategy.Using(), cand.Expression)
}

// Click clicks an element using WebDriver standard endpoint.
func (c *Client) Click(ctx context.Context, elementID string) error {
	_, err := c.post(ctx, c.elementPath(elementID)+"/click", map[string]interface{}{})
	return err
}

// Clear clears an element's text.
func (c *Client) Clear(ctx context.Context, elementID string) error {
	_, err := c.post(ctx, c.elementPath(elementID)+"/clear", map[string]interface{}{})
	return err
}

// SendKeys types text into an element.
func (c *Client) SendKeys(ctx context.Context, elementID, text string) error {
	_, err := c.post(ctx, c.elementPath(elementID)+"/value", map[string]interface{}{
		"text": text,
	})
	return err
}

// IsDisplayed checks if element is visible.
func (c *Client) IsDisplayed(ctx context.Context, elementID string) (bool, error) {
	resp, err := c.get(ctx, c.elementPath(elementID)+"/displayed")
	if err != nil {
		return false, err
	}
	displayed, _ := resp["value"].(bool)
	return displayed, nil
}

// Settings

// SetSettings updates Appium driver settings.
func (c *Client) SetSettings(ctx context.Context, settings map[string]interface{}) error {
	_, err := c.post(ctx, c.sessionPath()+"/appium/settings", map[string]interface{}{
		"settings": settings,
	})
	return err
}

// HTTP Helpers

func (c *Client) requireSession() error {
	if c.sessionID == "" {
		return core.ErrNoSession
	}
	return nil
}

func (c *Client) sessionPath() string {
	return "/session/" + c.sessionID
}

func (c *Client) elementPath(elementID string) string {
	return c.sessionPath() + "/element/" + elementID
}

func (c *Client) get(ctx context.Context, path string) (map[string]interface{}, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *Client) delete(ctx context.Context, path string) (map[string]interface{}, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}

func (c *Client) request(ctx context.Context, method, path string, body interface{}) (map[string]interface{}, error) {
	url := c.serverURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("appium %s %s", method, path)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.ErrServerUnreachable.WithCause(err).
			WithDetails(map[string]interface{}{"key": c.serverURL})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.ErrServerUnreachable.WithCause(err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response (HTTP %d): %w", resp.StatusCode, err)
	}

	// Check for WebDriver error
	if errValue, ok := result["value"].(map[string]interface{}); ok {
		if errType, ok := errValue["error"].(string); ok {
			errMsg, _ := errValue["message"].(string)
			return result, webDriverError(errType, errMsg)
		}
	}

	return result, nil
}

// webDriverError maps W3C error codes onto core sentinels where one exists.
func webDriverError(errType, msg string) error {
	cause := fmt.Errorf("%s: %s", errType, msg)
	switch errType {
	case "no such element", "stale element reference":
		return core.ErrElementNotFound.WithCause(cause)
	case "invalid session id":
		return core.ErrNoSession.WithCause(cause)
	case "timeout":
		return core.ErrWaitTimeout.WithCause(cause)
	default:
		return cause
	}
}

func extractElementID(value map[string]interface{}) string {
	// W3C format
	if id, ok := value[w3cElementKey].(string); ok {
		return id
	}
	// Legacy format
	if id, ok := value["ELEMENT"].(string); ok {
		return id
	}
	return ""
}
