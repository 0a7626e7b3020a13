package uitree

import (
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

// Common XCUIElement types.
const (
	TypeButton     = "XCUIElementTypeButton"
	TypeTextField  = "XCUIElementTypeTextField"
	TypeStaticText = "XCUIElementTypeStaticText"
	TypeImage      = "XCUIElementTypeImage"
	TypeWindow     = "XCUIElementTypeWindow"

	// TypePrefix is shared by every XCUIElement type name.
	TypePrefix = "XCUIElementType"
)

// FindByText yields elements whose name, label or value contains text.
// Attributes are checked in that order and an element is yielded at most once.
// Without caseSensitive both sides are Unicode case-folded. The sequence
// re-scans the tree each time it is ranged over.
func (t *Tree) FindByText(text string, caseSensitive bool) iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		fold := func(s string) string { return s }
		if !caseSensitive {
			caser := cases.Fold()
			fold = caser.String
		}
		needle := fold(text)

		for i := range t.elements {
			elem := &t.elements[i]
			if !matchesAny(needle, fold, elem.Name, elem.Label, elem.Value) {
				continue
			}
			if !yield(elem) {
				return
			}
		}
	}
}

func matchesAny(needle string, fold func(string) string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(fold(f), needle) {
			return true
		}
	}
	return false
}

// FindByType returns elements whose type equals elemType exactly.
func (t *Tree) FindByType(elemType string) []*Element {
	var result []*Element
	for i := range t.elements {
		if t.elements[i].Type == elemType {
			result = append(result, &t.elements[i])
		}
	}
	return result
}

// FindByAccessibilityID returns elements whose name equals id exactly.
func (t *Tree) FindByAccessibilityID(id string) []*Element {
	var result []*Element
	for i := range t.elements {
		if t.elements[i].Name == id {
			result = append(result, &t.elements[i])
		}
	}
	return result
}

// Buttons returns all XCUIElementTypeButton elements.
func (t *Tree) Buttons() []*Element { return t.FindByType(TypeButton) }

// TextFields returns all XCUIElementTypeTextField elements.
func (t *Tree) TextFields() []*Element { return t.FindByType(TypeTextField) }

// StaticTexts returns all XCUIElementTypeStaticText elements.
func (t *Tree) StaticTexts() []*Element { return t.FindByType(TypeStaticText) }

// Images returns all XCUIElementTypeImage elements.
func (t *Tree) Images() []*Element { return t.FindByType(TypeImage) }

// Summarize counts elements per type across the whole snapshot.
func (t *Tree) Summarize() map[string]int {
	summary := make(map[string]int)
	for i := range t.elements {
		summary[t.elements[i].Type]++
	}
	return summary
}

// ShortType strips the XCUIElementType prefix ("XCUIElementTypeButton" -> "Button").
func ShortType(elemType string) string {
	return strings.TrimPrefix(elemType, TypePrefix)
}
