package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchemaJSON(t *testing.T) {
	schema := GetSchemaJSON()
	assert.Contains(t, schema, `"clang_binary"`)
	assert.Contains(t, schema, `"clang_file_path"`)
}

func TestValidateWithSchema(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		wantValid bool
		wantField string
	}{
		{
			name:      "valid yaml",
			file:      "config.yml",
			content:   "clang_binary: clang\ntimeout: 5s\nclang_file_path: [.clang]\n",
			wantValid: true,
		},
		{
			name:      "empty yaml",
			file:      "config.yml",
			content:   "",
			wantValid: true,
		},
		{
			name:      "unknown key",
			file:      "config.yml",
			content:   "clang_bin: clang\n",
			wantValid: false,
		},
		{
			name:      "bad timeout",
			file:      "config.json",
			content:   `{"timeout": "soon"}`,
			wantValid: false,
			wantField: "timeout",
		},
		{
			name:      "empty options file list",
			file:      "config.json",
			content:   `{"clang_file_path": []}`,
			wantValid: false,
			wantField: "clang_file_path",
		},
		{
			name:      "invalid json syntax",
			file:      "config.json",
			content:   `{"clang_binary": }`,
			wantValid: false,
			wantField: "syntax",
		},
		{
			name:      "valid toml",
			file:      "config.toml",
			content:   "templates = true\n",
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			result, err := ValidateWithSchema(path, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, result.Errors)

			if tt.wantField != "" {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantField, result.Errors[0].Field)
			}
		})
	}
}

func TestValidateWithSchema_UnsupportedFormat(t *testing.T) {
	_, err := ValidateWithSchema("config.ini", []byte("x"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yml")
	require.NoError(t, os.WriteFile(good, []byte("encoding: latin1\n"), 0644))
	result, err := Validate(good)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("encoding: klingon\ntimeout: 0s\n"), 0644))
	result, err = Validate(bad)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)

	_, err = Validate(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
