package langregistry

import "testing"

func TestFromFileName(t *testing.T) {
	tests := []struct {
		path      string
		wantName  string
		wantFound bool
	}{
		{"main.go", "go", true},
		{"src/app.py", "python", true},
		{"component.tsx", "typescript", true},
		{"Dockerfile", "dockerfile", true},
		{"Makefile", "makefile", true},
		{"pom.xml", "xml", true},
		{"notes.xyz", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		got, found := FromFileName(tt.path)
		if found != tt.wantFound {
			t.Errorf("FromFileName(%q) found = %v, want %v", tt.path, found, tt.wantFound)
			continue
		}
		if found && got.Name != tt.wantName {
			t.Errorf("FromFileName(%q).Name = %q, want %q", tt.path, got.Name, tt.wantName)
		}
	}
}

func TestExactFileNameWinsOverExtension(t *testing.T) {
	info, found := FromFileName("pom.xml")
	if !found {
		t.Fatal("expected pom.xml to resolve")
	}
	if info.FileType != FileTypeManifest {
		t.Errorf("pom.xml FileType = %v, want manifest", info.FileType)
	}
}

func TestCommentSyntax(t *testing.T) {
	goInfo, _ := FromFileName("main.go")
	if !goInfo.HasMultiLineComment() || goInfo.InlineComment != "//" {
		t.Error("go language should have both block and inline comments")
	}

	pyInfo, _ := FromFileName("script.py")
	if pyInfo.HasMultiLineComment() || pyInfo.InlineComment != "#" {
		t.Error("python language should have only inline comments")
	}

	jsonInfo, _ := FromFileName("data.json")
	if jsonInfo.HasCommentSyntax() {
		t.Error("json should have no comment syntax")
	}
}
