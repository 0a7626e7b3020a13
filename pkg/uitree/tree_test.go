package uitree

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devicelab-dev/locator-finder/pkg/core"
)

// Sample iOS page source XML for testing
const sampleIOSPageSource = `<?xml version="1.0" encoding="UTF-8"?>
<AppiumAUT>
  <XCUIElementTypeApplication type="XCUIElementTypeApplication" name="TestApp" label="TestApp" enabled="true" visible="true" x="0" y="0" width="820" height="1180">
    <XCUIElementTypeWindow type="XCUIElementTypeWindow" enabled="true" visible="true" x="0" y="0" width="820" height="1180">
      <XCUIElementTypeOther type="XCUIElementTypeOther" enabled="true" visible="true" x="0" y="0" width="820" height="1180">
        <XCUIElementTypeTextField type="XCUIElementTypeTextField" name="emailField" label="이메일" value="" enabled="true" visible="true" x="50" y="200" width="290" height="44"/>
        <XCUIElementTypeSecureTextField type="XCUIElementTypeSecureTextField" name="passwordField" label="비밀번호" enabled="true" visible="true" x="50" y="260" width="290" height="44"/>
        <XCUIElementTypeButton type="XCUIElementTypeButton" name="loginButton" label="Login" enabled="true" visible="true" x="50" y="320" width="290" height="50"/>
        <XCUIElementTypeStaticText type="XCUIElementTypeStaticText" value="Welcome back" enabled="true" visible="false" x="50.5" y="400" width="290" height="30"/>
        <XCUIElementTypeButton type="XCUIElementTypeButton" enabled="false"/>
      </XCUIElementTypeOther>
    </XCUIElementTypeWindow>
    <XCUIElementTypeWindow type="XCUIElementTypeWindow" enabled="true" visible="false" x="0" y="0" width="820" height="1180"/>
  </XCUIElementTypeApplication>
</AppiumAUT>`

func findNamed(t *testing.T, tree *Tree, name string) *Element {
	t.Helper()
	for e := range tree.Elements() {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("element %q not found", name)
	return nil
}

// TestParse tests parsing iOS page source XML
func TestParse(t *testing.T) {
	tree, err := Parse(sampleIOSPageSource)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// AppiumAUT is a container, not an element
	if tree.Len() != 9 {
		t.Fatalf("Expected 9 elements, got %d", tree.Len())
	}
	if tree.At(0).Type != "XCUIElementTypeApplication" {
		t.Errorf("Expected first element to be the application, got %s", tree.At(0).Type)
	}

	login := findNamed(t, tree, "loginButton")
	if login.Label != "Login" {
		t.Errorf("Expected label 'Login', got '%s'", login.Label)
	}
	if !login.HasBounds {
		t.Fatal("Expected bounds to be set")
	}
	if login.Bounds.X != 50 || login.Bounds.Y != 320 {
		t.Errorf("Expected bounds (50, 320), got (%d, %d)", login.Bounds.X, login.Bounds.Y)
	}
	if login.Bounds.Width != 290 || login.Bounds.Height != 50 {
		t.Errorf("Expected size (290, 50), got (%d, %d)", login.Bounds.Width, login.Bounds.Height)
	}
}

func TestParse_DocumentOrderIndexes(t *testing.T) {
	tree, _ := Parse(sampleIOSPageSource)

	i := 0
	for e := range tree.Elements() {
		if e.Index != i {
			t.Errorf("element %d has Index %d", i, e.Index)
		}
		i++
	}
}

func TestParse_AbsentAttributesAreEmpty(t *testing.T) {
	tree, _ := Parse(sampleIOSPageSource)

	bare := tree.At(7)
	if bare.Type != "XCUIElementTypeButton" {
		t.Fatalf("Expected bare button at index 7, got %s", bare.Type)
	}
	if bare.Name != "" || bare.Label != "" || bare.Value != "" {
		t.Errorf("Expected empty name/label/value, got %q/%q/%q", bare.Name, bare.Label, bare.Value)
	}
	if bare.HasBounds {
		t.Error("Expected no bounds for element without geometry")
	}
	if bare.Enabled {
		t.Error("Expected enabled=false")
	}
	if !bare.Visible {
		t.Error("Expected visible to default to true")
	}
}

func TestParse_DecimalGeometry(t *testing.T) {
	tree, _ := Parse(sampleIOSPageSource)

	text := tree.At(6)
	if text.Value != "Welcome back" {
		t.Fatalf("Expected static text at index 6, got %+v", text)
	}
	if text.Bounds.X != 50 {
		t.Errorf("Expected x truncated to 50, got %d", text.Bounds.X)
	}
	if text.Visible {
		t.Error("Expected visible=false")
	}
}

func TestParse_PartialGeometry(t *testing.T) {
	tree, err := Parse(`<XCUIElementTypeApplication>
  <XCUIElementTypeButton type="XCUIElementTypeButton" x="5"/>
  <XCUIElementTypeButton type="XCUIElementTypeButton" x="5" y="10" width="20" height="abc"/>
</XCUIElementTypeApplication>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for _, btn := range tree.Buttons() {
		if btn.HasBounds {
			t.Errorf("Expected no bounds for element %d, got %+v", btn.Index, btn.Bounds)
		}
		if btn.Bounds != (core.Bounds{}) {
			t.Errorf("Expected zero bounds for element %d, got %+v", btn.Index, btn.Bounds)
		}
	}
}

func TestParse_TypeFallsBackToTag(t *testing.T) {
	tree, err := Parse(`<XCUIElementTypeApplication><XCUIElementTypeButton name="ok"/></XCUIElementTypeApplication>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tree.At(1).Type != "XCUIElementTypeButton" {
		t.Errorf("Expected tag name as type, got %s", tree.At(1).Type)
	}
	if len(tree.Roots()) != 1 {
		t.Errorf("Expected 1 root without wrapper, got %d", len(tree.Roots()))
	}
}

func TestParse_MismatchedTagsCarryFragment(t *testing.T) {
	_, err := Parse("<XCUIElementTypeApplication label=\"가나다\"><XCUIElementTypeButton></XCUIElementTypeApplication>")
	if err == nil {
		t.Fatal("Expected error for mismatched tags")
	}
	var pe *core.Error
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *core.Error, got %T", err)
	}
	if pe.Detail("fragment") == "" {
		t.Error("Expected fragment detail")
	}
}

// TestParseInvalidXML tests parsing invalid XML
func TestParseInvalidXML(t *testing.T) {
	_, err := Parse("<invalid xml")
	if err == nil {
		t.Fatal("Expected error for invalid XML")
	}
	if !IsParseError(err) {
		t.Errorf("Expected parse error, got %v", err)
	}
	if core.CategoryOf(err) != core.ErrCategoryParse {
		t.Errorf("Expected parse category, got %s", core.CategoryOf(err))
	}
}

// TestParseEmptyXML tests parsing empty content
func TestParseEmptyXML(t *testing.T) {
	_, err := Parse("")
	if err == nil {
		t.Fatal("Expected error for empty XML")
	}
	if !IsParseError(err) {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestParse_WrapperOnly(t *testing.T) {
	_, err := Parse("<AppiumAUT></AppiumAUT>")
	if !IsParseError(err) {
		t.Errorf("Expected parse error for empty wrapper, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xml")
	if err := os.WriteFile(path, []byte(sampleIOSPageSource), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if tree.Len() != 9 {
		t.Errorf("Expected 9 elements, got %d", tree.Len())
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.xml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestTree_Navigation(t *testing.T) {
	tree, _ := Parse(sampleIOSPageSource)

	login := findNamed(t, tree, "loginButton")
	parent := tree.Parent(login)
	if parent == nil || parent.Type != "XCUIElementTypeOther" {
		t.Fatalf("Expected Other parent, got %+v", parent)
	}
	if got := len(tree.Children(parent)); got != 5 {
		t.Errorf("Expected 5 children, got %d", got)
	}
	if tree.Depth(login) != 3 {
		t.Errorf("Expected depth 3, got %d", tree.Depth(login))
	}

	ancestors := tree.Ancestors(login)
	if len(ancestors) != 3 || ancestors[2].Type != "XCUIElementTypeApplication" {
		t.Errorf("Unexpected ancestors: %d", len(ancestors))
	}

	root := tree.Roots()[0]
	if tree.Parent(root) != nil {
		t.Error("Expected nil parent for root")
	}
}

func TestTree_SameTypeIndex(t *testing.T) {
	tree, _ := Parse(sampleIOSPageSource)

	login := findNamed(t, tree, "loginButton")
	idx, count := tree.SameTypeIndex(login)
	if idx != 1 || count != 2 {
		t.Errorf("Expected (1, 2), got (%d, %d)", idx, count)
	}

	idx, count = tree.SameTypeIndex(tree.At(7))
	if idx != 2 || count != 2 {
		t.Errorf("Expected (2, 2), got (%d, %d)", idx, count)
	}

	email := findNamed(t, tree, "emailField")
	idx, count = tree.SameTypeIndex(email)
	if idx != 1 || count != 1 {
		t.Errorf("Expected (1, 1), got (%d, %d)", idx, count)
	}
}
