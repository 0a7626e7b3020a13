package locator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

// Candidate is one re-findable reference to an element.
type Candidate struct {
	Strategy   Strategy `json:"strategy"`
	Expression string   `json:"expression"`
}

// String renders the candidate as (using, expression).
func (c Candidate) String() string {
	return fmt.Sprintf("(%s, %s)", c.Strategy.Using(), c.Expression)
}

// Set holds the candidates generated for one element, in generation order,
// and which of them is recommended.
type Set struct {
	candidates  []Candidate
	recommended Strategy
}

// Candidates returns a copy of the candidates in generation order.
func (s Set) Candidates() []Candidate {
	return append([]Candidate(nil), s.candidates...)
}

// Len returns the number of candidates.
func (s Set) Len() int {
	return len(s.candidates)
}

// Get returns the candidate for a strategy.
func (s Set) Get(strategy Strategy) (Candidate, bool) {
	for _, c := range s.candidates {
		if c.Strategy == strategy {
			return c, true
		}
	}
	return Candidate{}, false
}

// Has reports whether the set contains a candidate for strategy.
func (s Set) Has(strategy Strategy) bool {
	_, ok := s.Get(strategy)
	return ok
}

// Recommended returns the recommended candidate.
func (s Set) Recommended() Candidate {
	c, _ := s.Get(s.recommended)
	return c
}

type setJSON struct {
	Recommended Strategy    `json:"recommended"`
	Candidates  []Candidate `json:"candidates"`
}

// MarshalJSON implements json.Marshaler.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(setJSON{Recommended: s.recommended, Candidates: s.candidates})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw setJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := Set{candidates: raw.Candidates, recommended: raw.Recommended}
	if len(set.candidates) > 0 && !set.Has(set.recommended) {
		return fmt.Errorf("recommended strategy %s has no candidate", set.recommended)
	}
	*s = set
	return nil
}

// Options tunes candidate generation.
type Options struct {
	// AnchorTypes are ancestor types the class chain may anchor at; the nearest
	// matching ancestor wins. Empty disables anchoring.
	AnchorTypes []string
}

// DefaultOptions anchors class chains at the enclosing window.
func DefaultOptions() Options {
	return Options{AnchorTypes: []string{uitree.TypeWindow}}
}

// Generate synthesizes the locator set for elem, which must belong to tree.
// It never fails: every element gets at least the type-only candidate.
func Generate(tree *uitree.Tree, elem *uitree.Element, opts Options) Set {
	var set Set
	add := func(s Strategy, expr string) {
		set.candidates = append(set.candidates, Candidate{Strategy: s, Expression: expr})
	}

	hasName := present(elem.Name)
	hasLabel := present(elem.Label)
	hasValue := present(elem.Value)

	// Accessibility ID survives relayout and localization; always preferred.
	if hasName {
		add(StableID, elem.Name)
	}

	if hasName {
		add(NameText, attrXPath("*", "name", elem.Name))
	}
	if hasLabel {
		add(LabelText, attrXPath("*", "label", elem.Label))
	}
	if hasValue {
		add(ValueText, attrXPath("*", "value", elem.Value))
	}

	add(TypeOnly, "//"+elem.Type)

	if hasName {
		add(TypeAndName, attrXPath(elem.Type, "name", elem.Name))
	}
	if hasLabel {
		add(TypeAndLabel, attrXPath(elem.Type, "label", elem.Label))
	}

	add(AbsolutePath, absolutePath(tree, elem))
	add(StructuralShorthand, classChain(tree, elem, opts))

	var predicates []string
	if hasName {
		predicates = append(predicates, "name == "+Quote(elem.Name))
	}
	if hasLabel {
		predicates = append(predicates, "label == "+Quote(elem.Label))
	}
	if hasValue {
		predicates = append(predicates, "value == "+Quote(elem.Value))
	}
	if len(predicates) > 0 {
		add(AttributePredicate, strings.Join(predicates, " AND "))
	}

	switch {
	case hasName:
		set.recommended = StableID
	case hasLabel:
		set.recommended = LabelText
	default:
		set.recommended = TypeOnly
	}

	return set
}

// GenerateAll returns the locator set of every element, in document order.
func GenerateAll(tree *uitree.Tree, opts Options) []Set {
	sets := make([]Set, 0, tree.Len())
	for elem := range tree.Elements() {
		sets = append(sets, Generate(tree, elem, opts))
	}
	return sets
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func attrXPath(node, attr, value string) string {
	return fmt.Sprintf("//%s[@%s=%s]", node, attr, Quote(value))
}

// absolutePath builds /Type/Type[i]/... from the root down. A level carries a
// 1-based index only when its parent has several children of the same type.
func absolutePath(tree *uitree.Tree, elem *uitree.Element) string {
	ancestors := tree.Ancestors(elem)
	levels := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		levels = append(levels, pathLevel(tree, ancestors[i]))
	}
	levels = append(levels, pathLevel(tree, elem))
	return "/" + strings.Join(levels, "/")
}

func pathLevel(tree *uitree.Tree, elem *uitree.Element) string {
	idx, count := tree.SameTypeIndex(elem)
	if count > 1 {
		return elem.Type + "[" + strconv.Itoa(idx) + "]"
	}
	return elem.Type
}

func classChain(tree *uitree.Tree, elem *uitree.Element, opts Options) string {
	var b strings.Builder
	b.WriteString("**/")
	if anchor := nearestAnchor(tree, elem, opts.AnchorTypes); anchor != nil {
		idx, _ := tree.SameTypeIndex(anchor)
		fmt.Fprintf(&b, "%s[%d]/**/", anchor.Type, idx)
	}
	b.WriteString(elem.Type)
	if present(elem.Name) {
		fmt.Fprintf(&b, "[`name == %s`]", Quote(elem.Name))
	}
	return b.String()
}

func nearestAnchor(tree *uitree.Tree, elem *uitree.Element, anchorTypes []string) *uitree.Element {
	if len(anchorTypes) == 0 {
		return nil
	}
	for _, a := range tree.Ancestors(elem) {
		for _, t := range anchorTypes {
			if a.Type == t {
				return a
			}
		}
	}
	return nil
}
