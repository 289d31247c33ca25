// Package cli implements the clangx commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/NikitaCOEUR/clangx/internal/completion"
	"github.com/NikitaCOEUR/clangx/internal/config"
	"github.com/NikitaCOEUR/clangx/internal/derrors"
	"github.com/NikitaCOEUR/clangx/internal/includes"
	"github.com/NikitaCOEUR/clangx/internal/logger"
	"github.com/NikitaCOEUR/clangx/internal/session"
)

// Params are the settings shared by every command
type Params struct {
	LogLevel string
	// ConfigPath is an explicit settings file; empty means the global lookup
	ConfigPath string
	// Overrides are settings given on the command line, keyed like the
	// settings file (clang_binary, timeout, ...)
	Overrides map[string]interface{}
	// Stdout and Stderr default to the process streams
	Stdout io.Writer
	Stderr io.Writer
}

func (p Params) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

func (p Params) stderr() io.Writer {
	if p.Stderr != nil {
		return p.Stderr
	}
	return os.Stderr
}

// components holds initialized clangx components
type components struct {
	params   Params
	loader   *config.Loader
	config   *config.Config
	log      *logger.Logger
	builder  *session.Builder
	store    *session.Store
	gatherer *completion.Gatherer
}

// initializeComponents loads the settings and wires the completion pipeline
func initializeComponents(params Params) (*components, error) {
	c := &components{
		params: params,
		loader: config.New(),
		log:    logger.New(params.LogLevel, params.stderr()),
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	c.wire(cfg)
	return c, nil
}

func (c *components) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if c.params.ConfigPath != "" {
		cfg, err = c.loader.Load(c.params.ConfigPath, c.params.Overrides)
	} else {
		cfg, err = c.loader.LoadGlobal(c.params.Overrides)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// wire builds the session builder, store and gatherer for cfg
func (c *components) wire(cfg *config.Config) {
	c.log.Debug().
		Str("config", cfg.Source).
		Str("binary", cfg.ClangBinary).
		Dur("timeout", cfg.Timeout).
		Msg("Configuration loaded")

	index := includes.Chain{
		includes.Static(cfg.IncludePath),
		includes.NewFileIndex(cfg.IncludeIndex),
	}
	c.config = cfg
	c.builder = session.NewBuilder(cfg, index, c.log)
	c.store = session.NewStore(c.builder)
	c.gatherer = completion.NewGatherer(cfg.ClangBinary, cfg.Timeout, cfg.Encoding, c.log)
}

// reload re-reads the settings and rewires the pipeline when they changed.
// On error the current settings stay in effect.
func (c *components) reload() (changed bool, err error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return false, err
	}
	if cfg == c.config {
		return false, nil
	}
	c.log.Info().Str("config", cfg.Source).Msg("Configuration changed")
	c.wire(cfg)
	return true, nil
}

// resolveCwd returns dir made absolute, or the process working directory
func resolveCwd(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return abs, nil
}

// resolveBuffer makes path absolute against cwd
func resolveBuffer(path, cwd string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

// resolveFiletype validates an explicit filetype, or guesses one from file
func resolveFiletype(filetype, file string) (string, error) {
	if filetype == "" {
		if file == "" {
			return "", nil
		}
		return completion.FiletypeFor(file), nil
	}
	if !completion.Supports(filetype) {
		return "", derrors.NewValidationError("filetype",
			fmt.Sprintf("unsupported filetype %q (supported: %s)", filetype, strings.Join(completion.Filetypes, ", ")), nil)
	}
	return filetype, nil
}

// splitBuffer splits buffer text into lines the way an editor holds them
func splitBuffer(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// cursorInput returns the text of line before the 1-based character column.
// A column of 0 (or past the end) means the end of the line.
func cursorInput(line string, column int) string {
	runes := []rune(line)
	if column <= 0 || column-1 > len(runes) {
		return line
	}
	return string(runes[:column-1])
}
