package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_PrintToStdout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Schema("", &out))
	assert.Contains(t, out.String(), `"clang_binary"`)
}

func TestSchema_WriteToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "test-schema.json")

	var out bytes.Buffer
	require.NoError(t, Schema(outputFile, &out))
	assert.Contains(t, out.String(), outputFile)

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	schemaStr := string(content)
	assert.Contains(t, schemaStr, `"$schema": "http://json-schema.org/draft-07/schema#"`)
	assert.Contains(t, schemaStr, `"title": "clangx configuration"`)
	assert.Contains(t, schemaStr, `"clang_file_path"`)
	assert.Contains(t, schemaStr, `"default_cpp_options"`)
	assert.Contains(t, schemaStr, `"timeout"`)
}

func TestSchema_WriteToFile_InvalidPath(t *testing.T) {
	err := Schema("/nonexistent/directory/schema.json", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write schema")
}
