package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/clangx/internal/config"
)

// Validate validates a clangx settings file. An empty path validates the
// global settings file.
func Validate(configPath string, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}

	if configPath == "" {
		configPath = config.FindGlobalConfig()
		if configPath == "" {
			dir, _ := config.GetGlobalConfigDir()
			return fmt.Errorf("no config file found in %s", dir)
		}
	}

	_, _ = fmt.Fprintf(out, "Validating: %s\n\n", configPath)

	// Read file content for schema validation
	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// First validate with JSON Schema
	result, err := config.ValidateWithSchema(configPath, content)
	if err != nil {
		return err
	}

	// If schema validation passes, run the value checks the schema cannot express
	if result.Valid {
		customResult, err := config.Validate(configPath)
		if err != nil {
			return err
		}
		if !customResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, customResult.Errors...)
		}
	}

	if result.Valid {
		_, _ = fmt.Fprintln(out, "✅ Configuration is valid!")
		return nil
	}

	_, _ = fmt.Fprintln(out, "❌ Configuration has errors:")
	for i, validationErr := range result.Errors {
		_, _ = fmt.Fprintf(out, "%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}

	_, _ = fmt.Fprintf(out, "\nFound %d error(s)\n", len(result.Errors))

	return fmt.Errorf("validation failed")
}
