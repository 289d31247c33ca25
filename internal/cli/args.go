package cli

import (
	"context"
	"fmt"

	"github.com/NikitaCOEUR/clangx/internal/session"
)

// ArgsParams contains parameters for the Args command
type ArgsParams struct {
	Params
	Cwd      string
	File     string
	Filetype string
	// NullSeparated prints one argument per NUL-terminated record, for xargs -0
	NullSeparated bool
}

// Args prints the compiler arguments the session for Cwd resolves to, one
// per line. Problems found while preparing are logged and do not fail the
// command.
func Args(ctx context.Context, params ArgsParams) error {
	comps, err := initializeComponents(params.Params)
	if err != nil {
		return err
	}

	cwd, err := resolveCwd(params.Cwd)
	if err != nil {
		return err
	}

	filetype, err := resolveFiletype(params.Filetype, params.File)
	if err != nil {
		return err
	}

	sess, _ := comps.store.Refresh(ctx, session.Params{
		Cwd:      cwd,
		BufPath:  resolveBuffer(params.File, cwd),
		Filetype: filetype,
	})

	sep := "\n"
	if params.NullSeparated {
		sep = "\x00"
	}
	out := params.stdout()
	for _, arg := range sess.Args {
		if _, err := fmt.Fprint(out, arg, sep); err != nil {
			return err
		}
	}
	return nil
}
