// Package uitree loads iOS page source snapshots into an immutable element tree.
package uitree

import (
	"encoding/xml"
	"errors"
	"io"
	"iter"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/devicelab-dev/locator-finder/pkg/core"
)

// wrapperTag is the document container Appium puts around the XCUITest hierarchy.
const wrapperTag = "AppiumAUT"

// fragmentRadius is how many bytes either side of a parse failure are kept in the error.
const fragmentRadius = 40

// Element is one on-screen control in a snapshot. Treat it as read-only.
type Element struct {
	Index     int         // position in document order
	Type      string      // XCUIElementType (e.g., "XCUIElementTypeButton")
	Name      string      // accessibility identifier
	Label     string      // accessibility label (visible text)
	Value     string      // current value
	Enabled   bool        // defaults to true when absent
	Visible   bool        // defaults to true when absent
	Bounds    core.Bounds // valid only when HasBounds
	HasBounds bool
}

// Tree is an immutable UI hierarchy snapshot. Elements are stored in document
// order; parent and child links are index tables built once at load.
type Tree struct {
	elements []Element
	parent   []int   // parent[i] == -1 for roots
	children [][]int // children[i] in document order
	roots    []int
}

// Parse parses page source XML into a Tree.
// iOS WDA/Appium page source carries these attributes per element:
// - type: XCUIElementTypeButton, XCUIElementTypeTextField, etc. (falls back to the tag)
// - name, label, value
// - enabled, visible
// - x, y, width, height
func Parse(markup string) (*Tree, error) {
	decoder := xml.NewDecoder(strings.NewReader(markup))
	t := &Tree{}

	// stack holds element indexes of open tags; -1 marks the AppiumAUT wrapper.
	var stack []int
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(markup, decoder.InputOffset(), err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if tok.Name.Local == wrapperTag && len(stack) == 0 {
				stack = append(stack, -1)
				continue
			}
			parent := -1
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.add(newElement(tok), parent))

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) > 0 {
		return nil, parseError(markup, int64(len(markup)), errors.New("unexpected end of document"))
	}
	if len(t.elements) == 0 {
		return nil, core.ErrMalformedSnapshot.
			WithCause(errors.New("no elements found in page source")).
			WithDetails(map[string]interface{}{"fragment": fragmentAt(markup, 0), "offset": 0})
	}

	return t, nil
}

// ParseFile reads and parses a saved page source file.
func ParseFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided snapshot file
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// IsParseError reports whether err is a malformed snapshot error.
func IsParseError(err error) bool {
	return errors.Is(err, core.ErrMalformedSnapshot)
}

func parseError(markup string, offset int64, cause error) error {
	return core.ErrMalformedSnapshot.WithCause(cause).WithDetails(map[string]interface{}{
		"fragment": fragmentAt(markup, offset),
		"offset":   offset,
	})
}

// fragmentAt returns the markup surrounding offset, trimmed to valid UTF-8.
func fragmentAt(markup string, offset int64) string {
	start := int(offset) - fragmentRadius
	if start < 0 {
		start = 0
	}
	end := int(offset) + fragmentRadius
	if end > len(markup) {
		end = len(markup)
	}
	if start > end {
		start = end
	}
	return strings.ToValidUTF8(markup[start:end], "")
}

func newElement(tok xml.StartElement) Element {
	elem := Element{
		Type:    tok.Name.Local,
		Enabled: true, // default
		Visible: true, // default
	}

	var xOK, yOK, wOK, hOK bool
	for _, attr := range tok.Attr {
		switch attr.Name.Local {
		case "type":
			if attr.Value != "" {
				elem.Type = attr.Value
			}
		case "name":
			elem.Name = attr.Value
		case "label":
			elem.Label = attr.Value
		case "value":
			elem.Value = attr.Value
		case "enabled":
			elem.Enabled = attr.Value == "true"
		case "visible":
			elem.Visible = attr.Value == "true"
		case "x":
			xOK = parseCoord(attr.Value, &elem.Bounds.X)
		case "y":
			yOK = parseCoord(attr.Value, &elem.Bounds.Y)
		case "width":
			wOK = parseCoord(attr.Value, &elem.Bounds.Width)
		case "height":
			hOK = parseCoord(attr.Value, &elem.Bounds.Height)
		}
	}

	// Geometry is all or nothing.
	elem.HasBounds = xOK && yOK && wOK && hOK
	if !elem.HasBounds {
		elem.Bounds = core.Bounds{}
	}

	return elem
}

// parseCoord accepts integer or decimal coordinates; decimals truncate toward zero.
func parseCoord(s string, dst *int) bool {
	if v, err := strconv.Atoi(s); err == nil {
		*dst = v
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		*dst = int(f)
		return true
	}
	return false
}

func (t *Tree) add(elem Element, parent int) int {
	idx := len(t.elements)
	elem.Index = idx
	t.elements = append(t.elements, elem)
	t.parent = append(t.parent, parent)
	t.children = append(t.children, nil)
	if parent < 0 {
		t.roots = append(t.roots, idx)
	} else {
		t.children[parent] = append(t.children[parent], idx)
	}
	return idx
}

// Len returns the number of elements in the snapshot.
func (t *Tree) Len() int {
	return len(t.elements)
}

// At returns the element at document position i.
func (t *Tree) At(i int) *Element {
	return &t.elements[i]
}

// Elements yields every element in document order.
func (t *Tree) Elements() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		for i := range t.elements {
			if !yield(&t.elements[i]) {
				return
			}
		}
	}
}

// Roots returns the top-level elements.
func (t *Tree) Roots() []*Element {
	return t.resolve(t.roots)
}

// Parent returns the parent of e, or nil for a root.
func (t *Tree) Parent(e *Element) *Element {
	p := t.parent[e.Index]
	if p < 0 {
		return nil
	}
	return &t.elements[p]
}

// Children returns the direct children of e in document order.
func (t *Tree) Children(e *Element) []*Element {
	return t.resolve(t.children[e.Index])
}

// Ancestors returns e's ancestors, nearest first.
func (t *Tree) Ancestors(e *Element) []*Element {
	var result []*Element
	for p := t.parent[e.Index]; p >= 0; p = t.parent[p] {
		result = append(result, &t.elements[p])
	}
	return result
}

// Depth returns the number of ancestors of e.
func (t *Tree) Depth(e *Element) int {
	depth := 0
	for p := t.parent[e.Index]; p >= 0; p = t.parent[p] {
		depth++
	}
	return depth
}

// SameTypeIndex returns the 1-based position of e among the siblings sharing
// its type, and how many such siblings exist (including e).
func (t *Tree) SameTypeIndex(e *Element) (index, count int) {
	siblings := t.roots
	if p := t.parent[e.Index]; p >= 0 {
		siblings = t.children[p]
	}
	for _, s := range siblings {
		if t.elements[s].Type != e.Type {
			continue
		}
		count++
		if s == e.Index {
			index = count
		}
	}
	return index, count
}

func (t *Tree) resolve(idxs []int) []*Element {
	result := make([]*Element, len(idxs))
	for i, idx := range idxs {
		result[i] = &t.elements[idx]
	}
	return result
}
