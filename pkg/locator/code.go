package locator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

var strategyIdents = map[Strategy]string{
	StableID:            "StableID",
	NameText:            "NameText",
	LabelText:           "LabelText",
	ValueText:           "ValueText",
	TypeOnly:            "TypeOnly",
	TypeAndName:         "TypeAndName",
	TypeAndLabel:        "TypeAndLabel",
	AbsolutePath:        "AbsolutePath",
	StructuralShorthand: "StructuralShorthand",
	AttributePredicate:  "AttributePredicate",
}

// Suggest picks the single locator a page object should use for elem:
// accessibility id by name, then by label, then a class chain on the type.
// Unlike Generate it needs no tree position.
func Suggest(elem *uitree.Element) (Candidate, bool) {
	switch {
	case present(elem.Name):
		return Candidate{Strategy: StableID, Expression: elem.Name}, true
	case present(elem.Label):
		return Candidate{Strategy: StableID, Expression: elem.Label}, true
	case elem.Type != "":
		return Candidate{Strategy: StructuralShorthand, Expression: "**/" + elem.Type}, true
	default:
		return Candidate{}, false
	}
}

// SuggestName builds an exported Go identifier for elem, e.g. ButtonLoginButton.
func SuggestName(elem *uitree.Element) string {
	base := elem.Name
	if !present(base) {
		base = elem.Label
	}
	if !present(base) {
		base = "Element"
	}
	return identifier(uitree.ShortType(elem.Type)) + identifier(base)
}

// SuggestCode renders a page-object declaration for elem.
func SuggestCode(elem *uitree.Element) string {
	c, ok := Suggest(elem)
	if !ok {
		return "// no usable locator for this element"
	}
	return fmt.Sprintf("%s = locator.Candidate{Strategy: locator.%s, Expression: %s}",
		SuggestName(elem), strategyIdents[c.Strategy], Quote(c.Expression))
}

// identifier turns arbitrary text into an upper-camel Go identifier fragment.
// Runs of non letter/digit characters become word breaks.
func identifier(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out != "" && unicode.IsDigit([]rune(out)[0]) {
		out = "N" + out
	}
	return out
}
