package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/clangx/internal/completion"
	"github.com/NikitaCOEUR/clangx/internal/derrors"
	"github.com/NikitaCOEUR/clangx/internal/session"
	"github.com/NikitaCOEUR/clangx/internal/textenc"
	"github.com/NikitaCOEUR/clangx/internal/trace"
)

// Output formats of the Complete command
const (
	FormatJSON  = "json"
	FormatPlain = "plain"
)

// CompleteParams contains parameters for the Complete command
type CompleteParams struct {
	Params
	// File is the buffer's path; it names the -I directory and the
	// options file search start
	File string
	// Source is where the buffer text is read from: "-" for stdin, empty
	// for File itself
	Source   string
	Stdin    io.Reader
	Cwd      string
	Filetype string
	// Line is the 1-based cursor line
	Line int
	// Column is the 1-based cursor column in characters; 0 means end of line
	Column int
	Format string
}

// Complete runs one completion and prints the candidates. A missing or
// slow compiler prints nothing; only unusable parameters are errors.
func Complete(ctx context.Context, params CompleteParams) error {
	defer trace.Region(ctx, "cli.Complete")()

	if params.Line < 1 {
		return derrors.NewValidationError("line", fmt.Sprintf("line must be >= 1, got %d", params.Line), nil)
	}
	if params.Format == "" {
		params.Format = FormatJSON
	}
	if params.Format != FormatJSON && params.Format != FormatPlain {
		return derrors.NewValidationError("format", fmt.Sprintf("unknown format %q", params.Format), nil)
	}

	comps, err := initializeComponents(params.Params)
	if err != nil {
		return err
	}

	cwd, err := resolveCwd(params.Cwd)
	if err != nil {
		return err
	}
	bufPath := resolveBuffer(params.File, cwd)
	filetype, err := resolveFiletype(params.Filetype, bufPath)
	if err != nil {
		return err
	}

	text, err := readBuffer(params, bufPath, comps.config.Encoding)
	if err != nil {
		return err
	}
	lines := splitBuffer(text)
	if params.Line > len(lines) {
		return derrors.NewValidationError("line", fmt.Sprintf("line %d is past the end of the buffer (%d lines)", params.Line, len(lines)), nil)
	}

	sess, _ := comps.store.Refresh(ctx, session.Params{
		Cwd:      cwd,
		BufPath:  bufPath,
		Filetype: filetype,
	})

	candidates := comps.gatherer.Gather(ctx, completion.Request{
		BufPath:     bufPath,
		Filetype:    filetype,
		Cwd:         cwd,
		Line:        params.Line,
		Input:       cursorInput(lines[params.Line-1], params.Column),
		CompletePos: -1,
		Lines:       lines,
	}, sess)

	return writeCandidates(params.stdout(), params.Format, candidates)
}

// readBuffer returns the buffer text, decoded from the host encoding
func readBuffer(params CompleteParams, bufPath, encoding string) (string, error) {
	var raw []byte
	var err error

	switch params.Source {
	case "-":
		in := params.Stdin
		if in == nil {
			in = os.Stdin
		}
		raw, err = io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read buffer from stdin: %w", err)
		}
	default:
		path := params.Source
		if path == "" {
			path = bufPath
		}
		if path == "" {
			return "", derrors.NewValidationError("file", "a buffer file or --source - is required", nil)
		}
		raw, err = os.ReadFile(path)
		if err != nil {
			return "", derrors.NewConfigurationError(path, "failed to read buffer", err)
		}
	}

	return textenc.Decode(encoding, raw)
}

func writeCandidates(w io.Writer, format string, candidates []completion.Candidate) error {
	if format == FormatPlain {
		for _, c := range candidates {
			line := c.Word
			if c.Menu != "" {
				line += "\t" + c.Menu
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, c := range candidates {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}
