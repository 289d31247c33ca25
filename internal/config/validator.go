package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/NikitaCOEUR/clangx/internal/textenc"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) addError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// Validate checks the semantic rules the schema cannot express
func Validate(path string) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg, err := New().Load(path, nil)
	if err != nil {
		result.addError("syntax", fmt.Sprintf("Failed to parse config: %v", err))
		return result, nil
	}

	if cfg.Timeout <= 0 {
		result.addError("timeout", fmt.Sprintf("Timeout must be positive, got %v", cfg.Timeout))
	}

	if _, err := textenc.Lookup(cfg.Encoding); err != nil {
		result.addError("encoding", err.Error())
	}

	for i, name := range cfg.ClangFilePath {
		if name == "" {
			result.addError(fmt.Sprintf("clang_file_path/%d", i), "Options file name must not be empty")
		}
	}

	return result, nil
}

// rawMap loads a config file without applying defaults
func rawMap(path string) (map[string]interface{}, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}
