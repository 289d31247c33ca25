// Package config handles loading and parsing of clangx settings.
//
// Settings are layered: embedded defaults, then the user's global file,
// then explicit overrides (command-line flags). Project-local compiler
// flags live in options files and are handled by package optfile.
package config

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.yml
var defaultsYAML []byte

// SupportedConfigNames contains supported global configuration file names (in order of preference)
var SupportedConfigNames = []string{
	"config.yml",
	"config.yaml",
	"config.toml",
	"config.json",
}

// Config holds the clangx settings
type Config struct {
	// ClangBinary is the compiler executable, resolved through PATH
	ClangBinary string `koanf:"clang_binary"`
	// DefaultCOptions is used for c/objc buffers when no options file exists
	DefaultCOptions string `koanf:"default_c_options"`
	// DefaultCppOptions is used for cpp/objcpp buffers when no options file exists
	DefaultCppOptions string `koanf:"default_cpp_options"`
	// ClangFilePath lists options file names tried in every directory
	ClangFilePath []string `koanf:"clang_file_path"`
	// Timeout bounds a single compiler run
	Timeout time.Duration `koanf:"timeout"`
	// Encoding is the host text encoding used for the buffer and the report
	Encoding string `koanf:"encoding"`
	// IncludePath is a ';' or ',' separated list of extra include directories
	IncludePath string `koanf:"include_path"`
	// IncludeIndex is the name of the project include index file
	IncludeIndex string `koanf:"include_index"`
	// Templates enables {{ }} expansion inside options files
	Templates bool `koanf:"templates"`

	// Source is the global file the settings were read from, if any
	Source string `koanf:"-"`
}

// DefaultOptions returns the fallback option string for a filetype
func (c *Config) DefaultOptions(filetype string) string {
	switch filetype {
	case "cpp", "objcpp":
		return c.DefaultCppOptions
	default:
		return c.DefaultCOptions
	}
}

// cachedConfig stores a loaded config with the inputs it was built from
type cachedConfig struct {
	config    *Config
	overrides map[string]interface{}
	modTime   time.Time
	size      int64
}

func (c *cachedConfig) matches(info os.FileInfo, overrides map[string]interface{}) bool {
	if !reflect.DeepEqual(c.overrides, overrides) {
		return false
	}
	if info == nil {
		return true
	}
	return info.ModTime().Equal(c.modTime) && info.Size() == c.size
}

// Loader handles loading and parsing configuration files.
// Loaded configs are cached per path and rebuilt only when the file's size or
// mtime, or the overrides, change. Callers compare the returned pointer to
// tell whether the settings changed.
type Loader struct {
	parsedCache map[string]*cachedConfig
}

// New creates a new config loader
func New() *Loader {
	return &Loader{
		parsedCache: make(map[string]*cachedConfig),
	}
}

// Load reads the defaults, then the file at path (if non-empty), then applies
// overrides keyed by koanf key name (e.g. "clang_binary").
func (l *Loader) Load(path string, overrides map[string]interface{}) (*Config, error) {
	var info os.FileInfo
	cacheable := path == ""
	if path != "" {
		if fi, err := os.Stat(path); err == nil {
			info, cacheable = fi, true
		}
	}
	if cached, ok := l.parsedCache[path]; ok && cacheable && cached.matches(info, overrides) {
		return cached.config, nil
	}
	delete(l.parsedCache, path)

	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply override %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Source = path

	if cacheable {
		entry := &cachedConfig{config: cfg, overrides: maps.Clone(overrides)}
		if info != nil {
			entry.modTime, entry.size = info.ModTime(), info.Size()
		}
		l.parsedCache[path] = entry
	}

	return cfg, nil
}

// LoadGlobal loads the global config file if one exists, defaults otherwise
func (l *Loader) LoadGlobal(overrides map[string]interface{}) (*Config, error) {
	return l.Load(FindGlobalConfig(), overrides)
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// GetGlobalConfigDir returns the directory holding the global config file
func GetGlobalConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, "clangx"), nil
}

// FindGlobalConfig returns the first existing global config file, or ""
func FindGlobalConfig() string {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
