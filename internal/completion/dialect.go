package completion

import (
	"path/filepath"
	"strings"
)

// dialects maps editor filetypes to clang -x languages
var dialects = map[string]string{
	"c":      "c",
	"cpp":    "c++",
	"objc":   "objective-c",
	"objcpp": "objective-c++",
}

// Dialect returns the clang -x language for an editor filetype.
// Unknown filetypes are treated as C.
func Dialect(filetype string) string {
	if lang, ok := dialects[filetype]; ok {
		return lang
	}
	return "c"
}

// Supports reports whether filetype is one of Filetypes
func Supports(filetype string) bool {
	_, ok := dialects[filetype]
	return ok
}

// extensions maps source file extensions to editor filetypes
var extensions = map[string]string{
	".c":   "c",
	".h":   "c",
	".cc":  "cpp",
	".cpp": "cpp",
	".cxx": "cpp",
	".c++": "cpp",
	".hh":  "cpp",
	".hpp": "cpp",
	".hxx": "cpp",
	".ipp": "cpp",
	".m":   "objc",
	".mm":  "objcpp",
}

// FiletypeFor guesses the editor filetype from a file name, for hosts that
// do not track filetypes themselves. Unknown extensions yield "c".
func FiletypeFor(path string) string {
	if ft, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return ft
	}
	return "c"
}
