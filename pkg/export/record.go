// Package export writes element trees as JSON records and queries saved exports.
package export

import (
	"github.com/devicelab-dev/locator-finder/pkg/core"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

// Record is the serialized form of one element.
type Record struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
	Visible bool   `json:"visible"`

	// Geometry is all or nothing.
	X      *int `json:"x,omitempty"`
	Y      *int `json:"y,omitempty"`
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`

	Locators *locator.Set `json:"locators,omitempty"`
}

// HasBounds reports whether the record carries geometry.
func (r *Record) HasBounds() bool {
	return r.X != nil && r.Y != nil && r.Width != nil && r.Height != nil
}

// Bounds returns the record geometry, zero when absent.
func (r *Record) Bounds() core.Bounds {
	if !r.HasBounds() {
		return core.Bounds{}
	}
	return core.Bounds{X: *r.X, Y: *r.Y, Width: *r.Width, Height: *r.Height}
}

// DisplayName is the name, else the label, else the value.
func (r *Record) DisplayName() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Label != "":
		return r.Label
	default:
		return r.Value
	}
}

func (r *Record) validate(index int) error {
	geometry := 0
	for _, p := range []*int{r.X, r.Y, r.Width, r.Height} {
		if p != nil {
			geometry++
		}
	}
	switch {
	case r.Type == "":
		return core.ErrInvalidRecord.WithMessage("record has no type").
			WithDetails(map[string]interface{}{"index": index})
	case geometry != 0 && geometry != 4:
		return core.ErrInvalidRecord.WithMessage("record has partial geometry").
			WithDetails(map[string]interface{}{"index": index})
	}
	return nil
}

// NewRecord converts an element. locators may be nil.
func NewRecord(elem *uitree.Element, locators *locator.Set) Record {
	r := Record{
		Type:     elem.Type,
		Name:     elem.Name,
		Label:    elem.Label,
		Value:    elem.Value,
		Enabled:  elem.Enabled,
		Visible:  elem.Visible,
		Locators: locators,
	}
	if elem.HasBounds {
		b := elem.Bounds
		r.X, r.Y, r.Width, r.Height = &b.X, &b.Y, &b.Width, &b.Height
	}
	return r
}

// FromTree builds one record per element in document order.
func FromTree(tree *uitree.Tree, withLocators bool, opts locator.Options) []Record {
	records := make([]Record, 0, tree.Len())
	for elem := range tree.Elements() {
		var set *locator.Set
		if withLocators {
			s := locator.Generate(tree, elem, opts)
			set = &s
		}
		records = append(records, NewRecord(elem, set))
	}
	return records
}
