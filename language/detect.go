// Package language maps playground file names to the language hints shown
// next to a document: the editor language id and a display name.
package language

import (
	"path"
	"strings"
)

// PlainText is the editor language of files with no known extension.
const PlainText = "plaintext"

// Info describes one known extension.
type Info struct {
	EditorID string
	Name     string
}

// Extensions maps lower-case extensions (without dot) to language info.
var Extensions = map[string]Info{
	"php":  {EditorID: "php", Name: "PHP"},
	"js":   {EditorID: "javascript", Name: "JavaScript"},
	"jsx":  {EditorID: "javascript", Name: "JavaScript"},
	"ts":   {EditorID: "typescript", Name: "TypeScript"},
	"tsx":  {EditorID: "typescript", Name: "TypeScript"},
	"json": {EditorID: "json", Name: "JSON"},
	"html": {EditorID: "html", Name: "HTML"},
	"htm":  {EditorID: "html", Name: "HTML"},
	"css":  {EditorID: "css", Name: "CSS"},
	"scss": {EditorID: "scss", Name: "SCSS"},
	"less": {EditorID: "less", Name: "Less"},
	"md":   {EditorID: "markdown", Name: "Markdown"},
	"sql":  {EditorID: "sql", Name: "SQL"},
	"xml":  {EditorID: "xml", Name: "XML"},
	"yaml": {EditorID: "yaml", Name: "YAML"},
	"yml":  {EditorID: "yaml", Name: "YAML"},
	"sh":   {EditorID: "shell", Name: "Shell"},
	"bash": {EditorID: "shell", Name: "Shell"},
	"txt":  {EditorID: PlainText, Name: "Text"},
}

// Lookup returns the language info for a file path.
func Lookup(filePath string) (Info, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filePath), "."))
	info, ok := Extensions[ext]
	return info, ok
}

// EditorLanguage returns the editor language id for a file path, or
// PlainText when the extension is not known.
func EditorLanguage(filePath string) string {
	if info, ok := Lookup(filePath); ok {
		return info.EditorID
	}
	return PlainText
}

// DisplayName returns a human-readable language name, or "Other".
func DisplayName(filePath string) string {
	if info, ok := Lookup(filePath); ok {
		return info.Name
	}
	return "Other"
}
