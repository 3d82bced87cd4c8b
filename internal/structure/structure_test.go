package structure

import (
	"testing"

	"github.com/patternforge/patternforge/internal/langregistry"
)

func lang(name string) langregistry.Info {
	return langregistry.Info{Name: name}
}

func TestBuildIndexGoFunction(t *testing.T) {
	content := "package main\n\nfunc doWork(x int) error {\n\tif x > 0 {\n\t\treturn nil\n\t}\n\treturn nil\n}\n"
	idx := BuildIndex(content, lang("go"))

	name, ok := idx.Enclosing(5)
	if !ok || name != "doWork" {
		t.Errorf("Enclosing(5) = (%q, %v), want (%q, true)", name, ok, "doWork")
	}

	if _, ok := idx.Enclosing(1); ok {
		t.Error("Enclosing(1) should find nothing outside any function")
	}
}

func TestBuildIndexGoNestedFunctionIsInnermost(t *testing.T) {
	content := "package main\n\nfunc outer() {\n\tfunc() {\n\t\tdoStuff()\n\t}()\n}\n"
	idx := BuildIndex(content, lang("go"))

	// The anonymous function literal has no name match, so the innermost
	// named symbol covering line 5 is still "outer".
	name, ok := idx.Enclosing(5)
	if !ok || name != "outer" {
		t.Errorf("Enclosing(5) = (%q, %v), want (%q, true)", name, ok, "outer")
	}
}

func TestBuildIndexPythonIndentedBlock(t *testing.T) {
	content := "class Widget:\n    def render(self):\n        return 1\n\ndef top_level():\n    return 2\n"
	idx := BuildIndex(content, lang("python"))

	name, ok := idx.Enclosing(3)
	if !ok || name != "render" {
		t.Errorf("Enclosing(3) = (%q, %v), want (%q, true)", name, ok, "render")
	}

	name, ok = idx.Enclosing(6)
	if !ok || name != "top_level" {
		t.Errorf("Enclosing(6) = (%q, %v), want (%q, true)", name, ok, "top_level")
	}
}

func TestBuildIndexUnknownLanguageFallsBackToGeneric(t *testing.T) {
	content := "struct Point {\n\tint x;\n\tint y;\n}\n"
	idx := BuildIndex(content, lang("some-unlisted-language"))

	name, ok := idx.Enclosing(2)
	if !ok || name != "Point" {
		t.Errorf("Enclosing(2) = (%q, %v), want (%q, true)", name, ok, "Point")
	}
}
