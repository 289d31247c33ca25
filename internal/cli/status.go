package cli

import (
	"context"
	"fmt"

	"github.com/NikitaCOEUR/clangx/internal/session"
	"github.com/NikitaCOEUR/clangx/internal/status"
)

// StatusParams contains parameters for the Status command
type StatusParams struct {
	Params
	Cwd      string
	File     string
	Filetype string
}

// Status displays the session clangx resolves for the current directory
func Status(ctx context.Context, params StatusParams) error {
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

	sess, prepareErr := comps.store.Refresh(ctx, session.Params{
		Cwd:      cwd,
		BufPath:  resolveBuffer(params.File, cwd),
		Filetype: filetype,
	})

	data := status.Collect(comps.config, filetype, sess, prepareErr)
	_, err = fmt.Fprintln(params.stdout(), status.Render(data))
	return err
}
