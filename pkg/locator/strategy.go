// Package locator synthesizes candidate locator expressions for UI tree elements.
package locator

import "fmt"

// Strategy identifies how a locator expression is interpreted.
// The set is closed; new strategies are added here and in Generate.
type Strategy int

// Strategy values, in generation order.
const (
	StableID            Strategy = iota + 1 // accessibility id (name attribute)
	NameText                                // XPath @name equality
	LabelText                               // XPath @label equality
	ValueText                               // XPath @value equality
	TypeOnly                                // XPath by element type
	TypeAndName                             // XPath type + @name
	TypeAndLabel                            // XPath type + @label
	AbsolutePath                            // XPath from the root with same-type sibling indexes
	StructuralShorthand                     // iOS class chain
	AttributePredicate                      // iOS predicate string
)

// Appium "using" values for W3C find element requests.
const (
	UsingAccessibilityID = "accessibility id"
	UsingXPath           = "xpath"
	UsingClassChain      = "-ios class chain"
	UsingPredicate       = "-ios predicate string"
)

var strategyKeys = map[Strategy]string{
	StableID:            "accessibility_id",
	NameText:            "xpath_by_name",
	LabelText:           "xpath_by_label",
	ValueText:           "xpath_by_value",
	TypeOnly:            "xpath_by_type",
	TypeAndName:         "xpath_type_and_name",
	TypeAndLabel:        "xpath_type_and_label",
	AbsolutePath:        "xpath_absolute",
	StructuralShorthand: "ios_class_chain",
	AttributePredicate:  "ios_predicate",
}

// Strategies lists every strategy in generation order.
func Strategies() []Strategy {
	return []Strategy{
		StableID, NameText, LabelText, ValueText, TypeOnly,
		TypeAndName, TypeAndLabel, AbsolutePath, StructuralShorthand, AttributePredicate,
	}
}

// String returns the export key for the strategy.
func (s Strategy) String() string {
	if key, ok := strategyKeys[s]; ok {
		return key
	}
	return "unknown"
}

// Using returns the Appium locator strategy name for the strategy.
func (s Strategy) Using() string {
	switch s {
	case StableID:
		return UsingAccessibilityID
	case StructuralShorthand:
		return UsingClassChain
	case AttributePredicate:
		return UsingPredicate
	default:
		return UsingXPath
	}
}

// ParseStrategy resolves an export key back to its strategy.
func ParseStrategy(key string) (Strategy, error) {
	for s, k := range strategyKeys {
		if k == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown locator strategy %q", key)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	key, ok := strategyKeys[s]
	if !ok {
		return nil, fmt.Errorf("unknown locator strategy %d", int(s))
	}
	return []byte(key), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
