// Package status provides status information collection and display for clangx.
package status

import (
	"os/exec"

	"github.com/NikitaCOEUR/clangx/internal/completion"
	"github.com/NikitaCOEUR/clangx/internal/config"
	"github.com/NikitaCOEUR/clangx/internal/session"
	"github.com/NikitaCOEUR/clangx/pkg/version"
)

// Collect gathers the status of a prepared session. prepareErr is the
// (already reported) error Prepare returned alongside sess, if any.
func Collect(cfg *config.Config, filetype string, sess *session.Session, prepareErr error) *Data {
	data := &Data{
		Version:      version.Version,
		ConfigPath:   cfg.Source,
		Encoding:     cfg.Encoding,
		Timeout:      cfg.Timeout,
		Binary:       cfg.ClangBinary,
		Filetype:     filetype,
		Dialect:      completion.Dialect(filetype),
		OptionsNames: cfg.ClangFilePath,
	}

	if path, err := exec.LookPath(cfg.ClangBinary); err == nil {
		data.BinaryPath = path
	}

	if sess != nil {
		data.CurrentDir = sess.Cwd
		data.OptionsFile = sess.OptionsFile
		data.RunDir = sess.RunDir
		data.Includes = sess.Includes
		data.Args = sess.Args
	}

	data.Problems = flatten(prepareErr)

	return data
}

// flatten lists the messages of an errors.Join tree
func flatten(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
