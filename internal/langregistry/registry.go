// Package langregistry maps a file name to a language and its comment
// syntax. It is the static oracle the rest of the rules engine treats
// as opaque: given a path, say what language it is written in and how
// comments are spelled in that language.
package langregistry

import "strings"

// FileType classifies what kind of file a language entry usually names.
type FileType string

const (
	FileTypeCode     FileType = "code"
	FileTypeBuild    FileType = "build"
	FileTypeManifest FileType = "manifest"
	FileTypeUnknown  FileType = "unknown"
)

// Info describes a language's identity and comment syntax.
type Info struct {
	Name string
	// CommentPrefix/CommentSuffix delimit a multi-line comment, e.g. "/*" "*/".
	// Empty when the language has no multi-line comment form.
	CommentPrefix string
	CommentSuffix string
	// InlineComment starts a comment that runs to end-of-line, e.g. "//" or "#".
	// Empty when the language has no inline comment form.
	InlineComment string
	FileType      FileType
}

// HasMultiLineComment reports whether both delimiters of a block comment are known.
func (i Info) HasMultiLineComment() bool {
	return i.CommentPrefix != "" && i.CommentSuffix != ""
}

// HasCommentSyntax reports whether the language has any comment form at all.
func (i Info) HasCommentSyntax() bool {
	return i.HasMultiLineComment() || i.InlineComment != ""
}

// entry pairs an Info with the extensions that resolve to it. Extensions
// include the leading dot and are matched case-insensitively.
type entry struct {
	info Info
	exts []string
}

// byExtension is adapted from the teacher's extToLanguage lookup table,
// extended with comment delimiters and a coarse file-type classification
// so the Text Container can answer scope queries without a second table.
var byExtension = buildExtensionIndex([]entry{
	{Info{Name: "go", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".go"}},
	{Info{Name: "python", InlineComment: "#", FileType: FileTypeCode}, []string{".py"}},
	{Info{Name: "javascript", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".js", ".jsx", ".mjs", ".cjs"}},
	{Info{Name: "typescript", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".ts", ".tsx"}},
	{Info{Name: "java", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".java"}},
	{Info{Name: "ruby", InlineComment: "#", CommentPrefix: "=begin", CommentSuffix: "=end", FileType: FileTypeCode}, []string{".rb"}},
	{Info{Name: "rust", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".rs"}},
	{Info{Name: "c", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".c", ".h"}},
	{Info{Name: "cpp", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".cpp", ".cc", ".cxx", ".hpp"}},
	{Info{Name: "csharp", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".cs"}},
	{Info{Name: "php", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".php"}},
	{Info{Name: "swift", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".swift"}},
	{Info{Name: "kotlin", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".kt", ".kts"}},
	{Info{Name: "scala", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".scala"}},
	{Info{Name: "shell", InlineComment: "#", FileType: FileTypeCode}, []string{".sh", ".bash", ".zsh"}},
	{Info{Name: "yaml", InlineComment: "#", FileType: FileTypeManifest}, []string{".yaml", ".yml"}},
	{Info{Name: "json", FileType: FileTypeManifest}, []string{".json"}},
	{Info{Name: "xml", CommentPrefix: "<!--", CommentSuffix: "-->", FileType: FileTypeManifest}, []string{".xml"}},
	{Info{Name: "html", CommentPrefix: "<!--", CommentSuffix: "-->", FileType: FileTypeCode}, []string{".html", ".htm"}},
	{Info{Name: "css", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".css"}},
	{Info{Name: "scss", InlineComment: "//", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".scss"}},
	{Info{Name: "sql", InlineComment: "--", CommentPrefix: "/*", CommentSuffix: "*/", FileType: FileTypeCode}, []string{".sql"}},
	{Info{Name: "markdown", FileType: FileTypeUnknown}, []string{".md"}},
	{Info{Name: "toml", InlineComment: "#", FileType: FileTypeManifest}, []string{".toml"}},
})

// byFileName holds exact-filename overrides. An exact filename match wins
// over extension-based lookup (a "Dockerfile" has no extension at all, and
// "pom.xml" should be treated as a manifest even though ".xml" alone would
// classify it as generic XML). Dockerfile and Makefile have no extension to
// index by, so they live here directly rather than in byExtension.
var byFileName = map[string]Info{
	"dockerfile":   {Name: "dockerfile", InlineComment: "#", FileType: FileTypeBuild},
	"makefile":     {Name: "makefile", InlineComment: "#", FileType: FileTypeBuild},
	"pom.xml":      withFileType(mustLookup("xml"), FileTypeManifest),
	"go.mod":       {Name: "go-mod", InlineComment: "//", FileType: FileTypeManifest},
	"go.sum":       {Name: "go-sum", FileType: FileTypeManifest},
	"package.json": withFileType(mustLookup("json"), FileTypeManifest),
}

func buildExtensionIndex(entries []entry) map[string]Info {
	idx := make(map[string]Info)
	for _, e := range entries {
		for _, ext := range e.exts {
			idx[ext] = e.info
		}
	}
	return idx
}

func mustLookup(name string) Info {
	for _, i := range byExtension {
		if i.Name == name {
			return i
		}
	}
	return Info{Name: name, FileType: FileTypeUnknown}
}

func withFileType(i Info, t FileType) Info {
	i.FileType = t
	return i
}

// FromFileName resolves language info for a path. Exact filename match
// takes priority over extension match. found=false means the caller's
// "scan-unknown" policy decides whether to proceed with a zero Info.
func FromFileName(path string) (Info, bool) {
	base := baseName(path)
	if info, ok := byFileName[strings.ToLower(base)]; ok {
		return info, true
	}

	ext := extractExtension(base)
	if ext == "" {
		return Info{}, false
	}
	if info, ok := byExtension[ext]; ok {
		return info, true
	}
	return Info{}, false
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

// extractExtension extracts the lowercase extension from a base name,
// including the leading dot. Adapted from the teacher's extractExtension.
func extractExtension(base string) string {
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return strings.ToLower(base[i:])
		}
	}
	return ""
}
