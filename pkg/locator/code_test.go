package locator

import (
	"testing"

	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name string
		elem uitree.Element
		want Candidate
		ok   bool
	}{
		{"by name", uitree.Element{Type: uitree.TypeButton, Name: "loginButton", Label: "Login"}, Candidate{StableID, "loginButton"}, true},
		{"by label", uitree.Element{Type: uitree.TypeButton, Label: "Login"}, Candidate{StableID, "Login"}, true},
		{"by type", uitree.Element{Type: uitree.TypeImage}, Candidate{StructuralShorthand, "**/XCUIElementTypeImage"}, true},
		{"nothing", uitree.Element{}, Candidate{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(&tt.elem)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Suggest() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSuggestName(t *testing.T) {
	tests := []struct {
		elem uitree.Element
		want string
	}{
		{uitree.Element{Type: uitree.TypeButton, Name: "loginButton"}, "ButtonLoginButton"},
		{uitree.Element{Type: uitree.TypeStaticText, Label: "Forgot password?"}, "StaticTextForgotPassword"},
		{uitree.Element{Type: uitree.TypeTextField, Label: "이메일"}, "TextField이메일"},
		{uitree.Element{Type: uitree.TypeImage}, "ImageElement"},
		{uitree.Element{Type: uitree.TypeButton, Name: "2fa-code"}, "ButtonN2faCode"},
	}
	for _, tt := range tests {
		if got := SuggestName(&tt.elem); got != tt.want {
			t.Errorf("SuggestName(%+v) = %s, want %s", tt.elem, got, tt.want)
		}
	}
}

func TestSuggestCode(t *testing.T) {
	elem := uitree.Element{Type: uitree.TypeButton, Name: "loginButton"}
	want := `ButtonLoginButton = locator.Candidate{Strategy: locator.StableID, Expression: "loginButton"}`
	if got := SuggestCode(&elem); got != want {
		t.Errorf("SuggestCode = %s, want %s", got, want)
	}
}
