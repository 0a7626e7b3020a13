// Package mock provides an in-memory automation session over a loaded UI tree,
// for testing page objects without a device.
package mock

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/devicelab-dev/locator-finder/pkg/core"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

const idPrefix = "mock-"

// Driver resolves locator candidates against a tree the same way the
// generator produced them.
type Driver struct {
	// Configuration
	Config Config

	tree *uitree.Tree

	mu      sync.Mutex
	locates int
	clicks  []string
	typed   map[string]string
}

// Config configures mock driver behavior.
type Config struct {
	// AppearAfter makes the first N Locate calls fail with not found.
	AppearAfter int
	// Options must match the options the candidates were generated with.
	Options locator.Options
}

// New creates a mock driver over tree.
func New(tree *uitree.Tree, cfg Config) *Driver {
	if cfg.Options.AnchorTypes == nil {
		cfg.Options = locator.DefaultOptions()
	}
	return &Driver{Config: cfg, tree: tree, typed: make(map[string]string)}
}

// Locate returns the id of the first element, in document order, whose
// generated candidate for cand's strategy equals cand's expression.
// Accessibility ids also match on label.
func (d *Driver) Locate(ctx context.Context, cand locator.Candidate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	d.locates++
	pending := d.locates <= d.Config.AppearAfter
	d.mu.Unlock()

	notFound := core.ErrElementNotFound.WithDetails(map[string]interface{}{"key": cand.Expression})
	if pending {
		return "", notFound
	}

	for elem := range d.tree.Elements() {
		if d.matches(elem, cand) {
			return idPrefix + strconv.Itoa(elem.Index), nil
		}
	}
	return "", notFound
}

func (d *Driver) matches(elem *uitree.Element, cand locator.Candidate) bool {
	if cand.Strategy == locator.StableID && (elem.Name == cand.Expression || elem.Label == cand.Expression) {
		return true
	}
	// Bare type class chains come from code suggestions.
	if cand.Strategy == locator.StructuralShorthand && cand.Expression == "**/"+elem.Type {
		return true
	}
	c, ok := locator.Generate(d.tree, elem, d.Config.Options).Get(cand.Strategy)
	return ok && c.Expression == cand.Expression
}

// Click records a click on an element.
func (d *Driver) Click(ctx context.Context, elementID string) error {
	if _, err := d.element(elementID); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicks = append(d.clicks, elementID)
	return nil
}

// SendKeys records text typed into an element.
func (d *Driver) SendKeys(ctx context.Context, elementID, text string) error {
	if _, err := d.element(elementID); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.typed[elementID] += text
	return nil
}

// Clear empties the text recorded for an element.
func (d *Driver) Clear(ctx context.Context, elementID string) error {
	if _, err := d.element(elementID); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.typed, elementID)
	return nil
}

// IsDisplayed reports the element's visible attribute.
func (d *Driver) IsDisplayed(ctx context.Context, elementID string) (bool, error) {
	elem, err := d.element(elementID)
	if err != nil {
		return false, err
	}
	return elem.Visible, nil
}

// Element returns the tree element behind an id handed out by Locate.
func (d *Driver) Element(elementID string) (*uitree.Element, error) {
	return d.element(elementID)
}

// Clicks returns the clicked element ids in order.
func (d *Driver) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// Typed returns the text sent to an element.
func (d *Driver) Typed(elementID string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.typed[elementID]
}

// LocateCalls returns how many times Locate was called.
func (d *Driver) LocateCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.locates
}

func (d *Driver) element(elementID string) (*uitree.Element, error) {
	idx, err := strconv.Atoi(strings.TrimPrefix(elementID, idPrefix))
	if err != nil || !strings.HasPrefix(elementID, idPrefix) || idx < 0 || idx >= d.tree.Len() {
		return nil, core.ErrElementNotFound.WithCause(fmt.Errorf("unknown element id %q", elementID))
	}
	return d.tree.At(idx), nil
}
