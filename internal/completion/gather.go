package completion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/NikitaCOEUR/clangx/internal/derrors"
	"github.com/NikitaCOEUR/clangx/internal/logger"
	"github.com/NikitaCOEUR/clangx/internal/session"
	"github.com/NikitaCOEUR/clangx/internal/textenc"
	"github.com/NikitaCOEUR/clangx/internal/timing"
	"github.com/NikitaCOEUR/clangx/internal/trace"
)

const (
	// DefaultTimeout bounds one clang run
	DefaultTimeout = 10 * time.Second
	// MaxOutputSize is the maximum size of clang output kept (16MB).
	// Completing inside a namespace-heavy C++ TU easily produces megabytes.
	MaxOutputSize = 16 * 1024 * 1024
	// waitDelay is how long Wait keeps reading pipes after the process is killed
	waitDelay = 500 * time.Millisecond
)

// Request is the editor state for one completion
type Request struct {
	// BufPath is the buffer's file path; its directory is added with -I
	BufPath string
	// Filetype selects the clang dialect
	Filetype string
	// Cwd is the editor working directory, used when the session has no run directory
	Cwd string
	// Line is the 1-based cursor line
	Line int
	// Input is the text of the cursor line up to the cursor
	Input string
	// CompletePos is the character offset where completion starts; negative
	// means "derive it from Input with LocatePosition"
	CompletePos int
	// Lines is the whole buffer
	Lines []string
}

// Gatherer runs clang and collects candidates
type Gatherer struct {
	Binary   string
	Timeout  time.Duration
	Encoding string

	log      *logger.Logger
	lookPath func(string) (string, error)
}

// NewGatherer creates a Gatherer
func NewGatherer(binary string, timeout time.Duration, encoding string, log *logger.Logger) *Gatherer {
	if binary == "" {
		binary = "clang"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Gatherer{
		Binary:   binary,
		Timeout:  timeout,
		Encoding: encoding,
		log:      log,
		lookPath: exec.LookPath,
	}
}

// Available reports whether the clang binary can be resolved
func (g *Gatherer) Available() bool {
	_, err := g.lookPath(g.Binary)
	return err == nil
}

// Gather returns the candidates for req. Every failure (missing compiler,
// timeout, undecodable output) degrades to an empty list; details go to the
// debug log only.
func (g *Gatherer) Gather(ctx context.Context, req Request, sess *session.Session) []Candidate {
	candidates, err := g.Complete(ctx, req, sess)
	if err != nil {
		g.log.Debug().Err(err).Str("code", derrors.Code(err)).Msg("Completion degraded to no candidates")
		return []Candidate{}
	}
	return candidates
}

// Complete is Gather with the failure reason kept
func (g *Gatherer) Complete(ctx context.Context, req Request, sess *session.Session) ([]Candidate, error) {
	defer trace.Region(ctx, "completion.Complete")()
	timer := timing.NewTimer()

	binary, err := g.lookPath(g.Binary)
	if err != nil {
		return nil, derrors.NewNotFoundError(g.Binary, fmt.Sprintf("%s not found in PATH", g.Binary))
	}

	pos := req.CompletePos
	if pos < 0 {
		pos = LocatePosition(req.Input)
	}
	if pos < 0 {
		return []Candidate{}, nil
	}

	stdin, err := textenc.Encode(g.Encoding, strings.Join(req.Lines, "\n"))
	if err != nil {
		return nil, derrors.NewExecutionError(g.Binary, "failed to encode buffer", err)
	}

	column, err := encodedColumn(g.Encoding, req.Input, pos)
	if err != nil {
		return nil, derrors.NewExecutionError(g.Binary, "failed to encode buffer", err)
	}

	args := BuildArgs(req, column, sess)
	timer.Mark("args")

	output, err := g.run(ctx, binary, args, runDir(req, sess), stdin)
	timer.Mark("clang")
	if err != nil {
		return nil, err
	}

	text, err := textenc.Decode(g.Encoding, output)
	if err != nil {
		return nil, derrors.NewExecutionError(g.Binary, "failed to decode output", err)
	}

	candidates := ParseOutput(text)
	timer.Mark("parse")

	g.log.Debug().
		Int("candidates", len(candidates)).
		Str("timing", timer.Summary()).
		Msg("Completion finished")

	return candidates, nil
}

// BuildArgs assembles the clang argument list (without the binary).
// column is clang's 1-based byte column of the completion start.
func BuildArgs(req Request, column int, sess *session.Session) []string {
	args := []string{
		"-x", Dialect(req.Filetype), "-fsyntax-only",
		"-Xclang", "-code-completion-macros",
		"-Xclang", fmt.Sprintf("-code-completion-at=-:%d:%d", req.Line, column),
		"-",
		"-I", filepath.Dir(req.BufPath),
	}
	if sess != nil {
		args = append(args, sess.Args...)
	}
	return args
}

func runDir(req Request, sess *session.Session) string {
	if sess != nil && sess.RunDir != "" {
		return sess.RunDir
	}
	return req.Cwd
}

// run executes clang, feeding stdin and collecting stdout. A non-zero exit is
// not an error: clang reports completions even for a TU with errors.
func (g *Gatherer) run(ctx context.Context, binary string, args []string, dir string, stdin []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stderr = nil
	cmd.WaitDelay = waitDelay

	var stdout limitedBuffer
	stdout.limit = MaxOutputSize
	cmd.Stdout = &stdout

	g.log.Debug().
		Str("binary", binary).
		Strs("args", args).
		Str("dir", dir).
		Msg("Running clang")

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, derrors.NewTimeoutError(g.Binary, g.Timeout, err)
		}
		return nil, derrors.NewExecutionError(g.Binary, "completion cancelled", ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		g.log.Debug().Int("exit_code", exitErr.ExitCode()).Msg("clang exited with errors")
	case errors.Is(err, exec.ErrWaitDelay):
		// clang exited but left a child holding stdout; what was read is complete
	default:
		return nil, derrors.NewExecutionError(g.Binary, "failed to run compiler", err)
	}

	return stdout.Bytes(), nil
}

// limitedBuffer keeps the first limit bytes written and discards the rest
type limitedBuffer struct {
	bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room < len(p) {
		if room > 0 {
			b.Buffer.Write(p[:room])
		}
		return len(p), nil
	}
	return b.Buffer.Write(p)
}

var _ io.Writer = (*limitedBuffer)(nil)
