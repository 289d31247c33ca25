package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestRender_Defaults tests rendering of a session without an options file
func TestRender_Defaults(t *testing.T) {
	data := &Data{
		CurrentDir:   "/test/dir",
		Version:      "1.0.0",
		Encoding:     "utf-8",
		Timeout:      10 * time.Second,
		Binary:       "clang",
		Dialect:      "c",
		OptionsNames: []string{".clang", ".clang_complete"},
		RunDir:       "/test/dir",
	}

	output := Render(data)

	assert.Contains(t, output, "Current directory:")
	assert.Contains(t, output, "/test/dir")
	assert.Contains(t, output, "1.0.0")
	assert.Contains(t, output, "built-in defaults")
	assert.Contains(t, output, "10s")
	assert.Contains(t, output, "Not found")
	assert.Contains(t, output, "-x c")
	assert.Contains(t, output, "No .clang or .clang_complete found")
	assert.Contains(t, output, "Arguments:")
	assert.Contains(t, output, "none")

	// Problems section only shows up when there are problems
	assert.NotContains(t, output, "Problems:")
}

// TestRender_WithOptionsFile tests rendering of a fully resolved session
func TestRender_WithOptionsFile(t *testing.T) {
	data := &Data{
		CurrentDir:  "/proj/src",
		Version:     "dev",
		ConfigPath:  "/home/u/.config/clangx/config.yml",
		Encoding:    "latin1",
		Timeout:     2 * time.Second,
		Binary:      "clang-17",
		BinaryPath:  "/usr/bin/clang-17",
		Filetype:    "cpp",
		Dialect:     "c++",
		OptionsFile: "/proj/.clang",
		RunDir:      "/proj",
		Includes:    []string{"/proj/include"},
		Args:        []string{"-I", "/proj/include", "-std=c++17"},
		Problems:    []string{"Parse Failed: unterminated quote"},
	}

	output := Render(data)

	assert.Contains(t, output, "/home/u/.config/clangx/config.yml")
	assert.Contains(t, output, "latin1")
	assert.Contains(t, output, "/usr/bin/clang-17")
	assert.Contains(t, output, "cpp (-x c++)")
	assert.Contains(t, output, "/proj/.clang")
	assert.Contains(t, output, "Include index:")
	assert.Contains(t, output, "-std=c++17")
	assert.Contains(t, output, "Problems:")
	assert.Contains(t, output, "unterminated quote")
	assert.NotContains(t, output, "Not found")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "-DFOO", 10, "-DFOO"},
		{"exact", "0123456789", 10, "0123456789"},
		{"long", "0123456789abc", 10, "0123456..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateString(tt.input, tt.maxLen))
		})
	}
}
