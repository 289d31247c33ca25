package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/clangx/internal/completion"
	"github.com/NikitaCOEUR/clangx/internal/derrors"
)

const report = `COMPLETION: member : [#int#]member
COMPLETION: method : [#void#]method(<#int x#>)
COMPLETION: PFNGLCLEARPROC : [#void#]PFNGLCLEARPROC
COMPLETION: Pattern : static_cast<<#type#>>(<#expression#>)
Some unrelated diagnostic`

func decodeCandidates(t *testing.T, out string) []completion.Candidate {
	t.Helper()
	var got []completion.Candidate
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var c completion.Candidate
		require.NoError(t, dec.Decode(&c))
		got = append(got, c)
	}
	return got
}

func TestComplete_FromFile(t *testing.T) {
	isolate(t)
	binary, binDir := fakeClang(t, report)

	proj := t.TempDir()
	src := filepath.Join(proj, "main.cpp")
	require.NoError(t, os.WriteFile(src, []byte("struct S { int member; };\nvoid f(S s) {\n  s.me\n}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(proj, ".clang"), []byte("-std=c++17 -DPROJ=1"), 0644))

	var out bytes.Buffer
	err := Complete(context.Background(), CompleteParams{
		Params: Params{
			LogLevel:  "error",
			Overrides: map[string]interface{}{"clang_binary": binary},
			Stdout:    &out,
			Stderr:    io.Discard,
		},
		File: src,
		Cwd:  proj,
		Line: 3,
	})
	require.NoError(t, err)

	got := decodeCandidates(t, out.String())
	require.Len(t, got, 3)
	assert.Equal(t, completion.Candidate{Word: "member", Dup: 1, Menu: "int member", Info: "int member"}, got[0])
	assert.Equal(t, "method", got[1].Word)
	assert.Equal(t, "void method(int x)", got[1].Menu)
	assert.Equal(t, "Pattern", got[2].Word)

	argv := readArgv(t, binDir)
	assert.Contains(t, argv, "c++")
	assert.Contains(t, argv, "-code-completion-at=-:3:5")
	assert.Contains(t, argv, "-std=c++17")
	assert.Contains(t, argv, "-DPROJ=1")
}

func TestComplete_StdinPlainFormat(t *testing.T) {
	isolate(t)
	binary, binDir := fakeClang(t, report)
	proj := t.TempDir()

	var out bytes.Buffer
	err := Complete(context.Background(), CompleteParams{
		Params: Params{
			LogLevel:  "error",
			Overrides: map[string]interface{}{"clang_binary": binary},
			Stdout:    &out,
			Stderr:    io.Discard,
		},
		File:     "unsaved.c",
		Source:   "-",
		Stdin:    strings.NewReader("int x;\nx.mem = 1;\n"),
		Cwd:      proj,
		Filetype: "objc",
		Line:     2,
		Column:   6,
		Format:   FormatPlain,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "member\tint member", lines[0])

	argv := readArgv(t, binDir)
	assert.Contains(t, argv, "objective-c")
	assert.Contains(t, argv, "-code-completion-at=-:2:3")
}

func TestComplete_MissingBinaryPrintsNothing(t *testing.T) {
	isolate(t)
	proj := t.TempDir()
	src := filepath.Join(proj, "a.c")
	require.NoError(t, os.WriteFile(src, []byte("x."), 0644))

	var out bytes.Buffer
	err := Complete(context.Background(), CompleteParams{
		Params: Params{
			Overrides: map[string]interface{}{"clang_binary": "clangx-test-no-such-binary"},
			Stdout:    &out,
			Stderr:    io.Discard,
		},
		File: src,
		Cwd:  proj,
		Line: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestComplete_InvalidParams(t *testing.T) {
	isolate(t)
	proj := t.TempDir()
	src := filepath.Join(proj, "a.c")
	require.NoError(t, os.WriteFile(src, []byte("one line"), 0644))

	tests := []struct {
		name   string
		params CompleteParams
		field  string
	}{
		{"zero line", CompleteParams{File: src, Line: 0}, "line"},
		{"past end", CompleteParams{File: src, Line: 5}, "line"},
		{"bad format", CompleteParams{File: src, Line: 1, Format: "xml"}, "format"},
		{"no buffer", CompleteParams{Line: 1}, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Cwd = proj
			tt.params.Stdout = io.Discard
			tt.params.Stderr = io.Discard

			err := Complete(context.Background(), tt.params)
			require.Error(t, err)

			var ve *derrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestComplete_UnreadableBuffer(t *testing.T) {
	isolate(t)

	err := Complete(context.Background(), CompleteParams{
		Params: Params{Stdout: io.Discard, Stderr: io.Discard},
		File:   filepath.Join(t.TempDir(), "missing.c"),
		Line:   1,
	})
	require.Error(t, err)
	assert.Equal(t, "CONFIG_ERROR", derrors.Code(err))
}

func readArgv(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "argv"))
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
