// Package includes resolves project include directories for a buffer.
//
// An Index is an optional collaborator: the session builder works with a nil
// Index and simply contributes no include flags.
package includes

import (
	"context"
	"strings"
)

// Index looks up include directories for a buffer. The result is a ';' or
// ',' separated list, the format editor include services traditionally use.
type Index interface {
	IncludePath(ctx context.Context, bufPath, filetype string) (string, error)
}

// Static is an Index returning the same path list for every buffer
type Static string

// IncludePath implements Index
func (s Static) IncludePath(_ context.Context, _, _ string) (string, error) {
	return string(s), nil
}

// Chain queries several indexes and joins their results in order.
// A failing index is skipped; the first error is returned with whatever the
// other indexes produced.
type Chain []Index

// IncludePath implements Index
func (c Chain) IncludePath(ctx context.Context, bufPath, filetype string) (string, error) {
	var parts []string
	var firstErr error
	for _, idx := range c {
		if idx == nil {
			continue
		}
		path, err := idx.IncludePath(ctx, bufPath, filetype)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if path != "" {
			parts = append(parts, path)
		}
	}
	return strings.Join(parts, ","), firstErr
}

// SplitPath splits a ';' or ',' separated list, dropping empty entries
func SplitPath(s string) []string {
	fields := strings.Split(strings.ReplaceAll(s, ";", ","), ",")
	dirs := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			dirs = append(dirs, f)
		}
	}
	return dirs
}

// Args turns include directories into -I argument pairs
func Args(dirs []string) []string {
	args := make([]string, 0, 2*len(dirs))
	for _, d := range dirs {
		args = append(args, "-I", d)
	}
	return args
}
