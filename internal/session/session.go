// Package session resolves the compiler arguments for a project.
//
// A Session is an immutable snapshot built by Prepare for one working
// directory: include flags from the include index, then either the flags of
// the nearest options file or the filetype's default options. Store keeps the
// latest snapshot and rebuilds it whenever the working directory changes.
package session

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/NikitaCOEUR/clangx/internal/config"
	"github.com/NikitaCOEUR/clangx/internal/includes"
	"github.com/NikitaCOEUR/clangx/internal/logger"
	"github.com/NikitaCOEUR/clangx/internal/optfile"
)

// Params is the editor state a session is prepared from
type Params struct {
	// Cwd is the editor working directory
	Cwd string
	// BufPath is the active buffer's file path; may be empty for unnamed buffers
	BufPath string
	// Filetype is the editor filetype (c, cpp, objc, objcpp)
	Filetype string
}

// Session is the resolved argument set for one working directory
type Session struct {
	// Cwd is the working directory the session was prepared for
	Cwd string
	// RunDir is where the compiler is spawned
	RunDir string
	// OptionsFile is the options file in use, empty when defaults were used
	OptionsFile string
	// Includes are the directories contributed by the include index
	Includes []string
	// Args are the extra compiler arguments, include flags first
	Args []string
	// Prepared is when the snapshot was built
	Prepared time.Time
}

// Builder prepares sessions from settings and an optional include index
type Builder struct {
	cfg   *config.Config
	index includes.Index
	log   *logger.Logger
}

// NewBuilder creates a Builder. index may be nil.
func NewBuilder(cfg *config.Config, index includes.Index, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{cfg: cfg, index: index, log: log}
}

// Prepare builds a new Session. The returned Session is always usable; a
// non-nil error reports a degraded result (unreadable index or options
// file) whose contribution was left out.
func (b *Builder) Prepare(ctx context.Context, p Params) (*Session, error) {
	s := &Session{
		Cwd:      p.Cwd,
		RunDir:   p.Cwd,
		Prepared: time.Now(),
	}

	var errs []error

	if b.index != nil {
		path, err := b.index.IncludePath(ctx, p.BufPath, p.Filetype)
		if err != nil {
			b.log.Error().Err(err).Str("buffer", p.BufPath).Msg("Include index lookup failed")
			errs = append(errs, err)
		}
		s.Includes = includes.SplitPath(path)
		s.Args = append(s.Args, includes.Args(s.Includes)...)
	}

	loc, found := optfile.Find(searchDir(p), b.cfg.ClangFilePath)
	if found {
		s.OptionsFile = loc.Path
		s.RunDir = loc.Dir

		args, err := optfile.Load(loc.Path, b.expandOptions(p, loc.Dir))
		if err != nil {
			b.log.Error().Err(err).Str("file", loc.Path).Msg("Parse Failed")
			errs = append(errs, err)
		}
		s.Args = append(s.Args, args...)
	} else {
		args, err := optfile.Parse(b.cfg.DefaultOptions(p.Filetype), b.expandOptions(p, p.Cwd))
		if err != nil {
			b.log.Error().Err(err).Str("filetype", p.Filetype).Msg("Invalid default options")
			errs = append(errs, err)
		}
		s.Args = append(s.Args, args...)
	}

	b.log.Debug().
		Str("cwd", s.Cwd).
		Str("run_dir", s.RunDir).
		Str("options_file", s.OptionsFile).
		Strs("args", s.Args).
		Msg("Session prepared")

	return s, errors.Join(errs...)
}

func (b *Builder) expandOptions(p Params, projectDir string) optfile.Options {
	bufDir := ""
	if p.BufPath != "" {
		bufDir = filepath.Dir(p.BufPath)
	}
	return optfile.Options{
		Templates: b.cfg.Templates,
		Data: optfile.TemplateData{
			ProjectDir: projectDir,
			BufferDir:  bufDir,
			Cwd:        p.Cwd,
			Filetype:   p.Filetype,
		},
	}
}

// searchDir is the directory the options file walk starts from: the
// buffer's directory when known, the working directory otherwise
func searchDir(p Params) string {
	if p.BufPath != "" {
		dir := filepath.Dir(p.BufPath)
		if !filepath.IsAbs(dir) && p.Cwd != "" {
			dir = filepath.Join(p.Cwd, dir)
		}
		return dir
	}
	return p.Cwd
}
