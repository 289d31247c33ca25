package status

import (
	"time"
)

// Data contains all the information to display in status
type Data struct {
	// Header
	CurrentDir string
	Version    string

	// Settings
	ConfigPath string
	Encoding   string
	Timeout    time.Duration

	// Compiler
	Binary     string
	BinaryPath string // empty when the binary is not on PATH
	Filetype   string
	Dialect    string

	// Session
	OptionsFile  string
	OptionsNames []string
	RunDir       string
	Includes     []string
	Args         []string
	Problems     []string
}

// BinaryFound reports whether the compiler resolved to an executable
func (d *Data) BinaryFound() bool {
	return d.BinaryPath != ""
}
