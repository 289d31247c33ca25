package includes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/NikitaCOEUR/clangx/internal/optfile"
)

// DefaultIndexName is the project include index file name
const DefaultIndexName = ".clangx-includes.yml"

// IndexFile is the on-disk format of a project include index:
//
//	include:
//	  - include
//	  - third_party/*/include
//	filetypes:
//	  cpp:
//	    - /usr/include/c++/13
//
// Entries expand $VAR and ~ the same way options files do, leaving unknown
// variables untouched. Relative entries are resolved against the index file's
// directory. Entries may be doublestar globs; only matching directories are kept.
type IndexFile struct {
	Include   []string            `yaml:"include"`
	Filetypes map[string][]string `yaml:"filetypes"`
}

// FileIndex finds the nearest index file above the buffer and reads it
type FileIndex struct {
	Name string
}

// NewFileIndex creates a FileIndex looking for name (DefaultIndexName if empty)
func NewFileIndex(name string) *FileIndex {
	if name == "" {
		name = DefaultIndexName
	}
	return &FileIndex{Name: name}
}

// IncludePath implements Index
func (f *FileIndex) IncludePath(ctx context.Context, bufPath, filetype string) (string, error) {
	path, ok := f.find(filepath.Dir(bufPath))
	if !ok {
		return "", nil
	}

	dirs, err := ReadIndexFile(ctx, path, filetype)
	if err != nil {
		return "", err
	}
	return strings.Join(dirs, ","), nil
}

func (f *FileIndex) find(startDir string) (string, bool) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		path := filepath.Join(currentDir, f.Name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return "", false
		}
		currentDir = parent
	}
}

// ReadIndexFile parses an index file and expands its entries for filetype
func ReadIndexFile(ctx context.Context, path, filetype string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read include index: %w", err)
	}

	var idx IndexFile
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse include index %s: %w", path, err)
	}

	entries := append([]string{}, idx.Include...)
	entries = append(entries, idx.Filetypes[filetype]...)

	base := filepath.Dir(path)
	var dirs []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		expanded, err := expandEntry(base, entry)
		if err != nil {
			return nil, fmt.Errorf("bad include entry %q in %s: %w", entry, path, err)
		}
		for _, d := range expanded {
			if !seen[d] {
				seen[d] = true
				dirs = append(dirs, d)
			}
		}
	}
	return dirs, nil
}

func expandEntry(base, entry string) ([]string, error) {
	entry = optfile.ExpandUser(optfile.ExpandVars(entry))
	if entry == "" {
		return nil, nil
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(base, entry)
	}

	// plain paths are passed through even if missing; clang ignores them
	if !strings.ContainsAny(entry, "*?[{") {
		return []string{entry}, nil
	}

	matches, err := doublestar.FilepathGlob(entry)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	dirs := make([]string, 0, len(matches))
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	return dirs, nil
}
