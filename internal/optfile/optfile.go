// Package optfile locates and reads project-local compiler option files
// (.clang, .clang_complete).
//
// An options file is plain text. Its lines are joined with spaces, split
// with shell quoting rules, and every resulting token gets $VAR, ${VAR}
// and ~ expansion.
package optfile

import (
	"os"
	"path/filepath"

	"github.com/NikitaCOEUR/clangx/internal/derrors"
)

// DefaultNames are the conventional options file names, in lookup order
var DefaultNames = []string{".clang", ".clang_complete"}

// Location describes where an options file was found
type Location struct {
	// Path is the options file itself
	Path string
	// Dir is the directory the compiler should run in
	Dir string
}

// Find walks from startDir up to the filesystem root and returns the first
// options file matching one of names. Every name is tried in a directory
// before moving to its parent. An absolute name matches wherever it exists
// and runs the compiler from that file's directory.
func Find(startDir string, names []string) (*Location, bool) {
	if len(names) == 0 {
		names = DefaultNames
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		currentDir = filepath.Clean(startDir)
	}
	if resolved, err := filepath.EvalSymlinks(currentDir); err == nil {
		currentDir = resolved
	}

	for {
		for _, name := range names {
			if filepath.IsAbs(name) {
				if isFile(name) {
					return &Location{Path: name, Dir: filepath.Dir(name)}, true
				}
				continue
			}

			path := filepath.Join(currentDir, name)
			if isFile(path) {
				return &Location{Path: path, Dir: currentDir}, true
			}
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return nil, false
		}
		currentDir = parent
	}
}

// Load reads the options file at path and returns its expanded tokens
func Load(path string, opts Options) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.NewConfigurationError(path, "failed to read options file", err)
	}

	args, err := Parse(string(data), opts)
	if err != nil {
		return nil, derrors.NewConfigurationError(path, "Parse Failed", err)
	}
	return args, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
