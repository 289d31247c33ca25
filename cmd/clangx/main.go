// Package main is the entry point for the clangx CLI application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	clicmd "github.com/NikitaCOEUR/clangx/internal/cli"
	"github.com/NikitaCOEUR/clangx/internal/trace"
	"github.com/NikitaCOEUR/clangx/pkg/version"
)

func main() {
	stopTrace := trace.Init()

	err := newApp().Run(context.Background(), os.Args)
	stopTrace()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sessionFlags locate the buffer a session is prepared for
func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "cwd",
			Usage: "Editor working directory (defaults to the current directory)",
		},
		&cli.StringFlag{
			Name:    "filetype",
			Aliases: []string{"t"},
			Usage:   "Buffer filetype: c, cpp, objc or objcpp (guessed from the file name if empty)",
		},
	}
}

// globalParams collects the settings shared by every command
func globalParams(cmd *cli.Command) clicmd.Params {
	overrides := map[string]interface{}{}
	if cmd.IsSet("clang-binary") {
		overrides["clang_binary"] = cmd.String("clang-binary")
	}
	if cmd.IsSet("timeout") {
		overrides["timeout"] = cmd.Duration("timeout")
	}
	if cmd.IsSet("encoding") {
		overrides["encoding"] = cmd.String("encoding")
	}

	return clicmd.Params{
		LogLevel:   cmd.String("log-level"),
		ConfigPath: cmd.String("config"),
		Overrides:  overrides,
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "clangx",
		Usage:                 "Clang powered code completion for C, C++ and Objective-C",
		Version:               version.Version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("CLANGX_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Settings file (defaults to $XDG_CONFIG_HOME/clangx/config.yml)",
				Sources: cli.EnvVars("CLANGX_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "clang-binary",
				Usage:   "Compiler executable",
				Sources: cli.EnvVars("CLANGX_CLANG_BINARY"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Maximum time for one compiler run",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "Text encoding of buffers and compiler output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "complete",
				Usage:     "Print completion candidates at a buffer position",
				ArgsUsage: "<file>",
				Flags: append(sessionFlags(),
					&cli.IntFlag{
						Name:     "line",
						Aliases:  []string{"l"},
						Usage:    "1-based cursor line",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "column",
						Usage: "1-based cursor column in characters (end of line if 0)",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Read the buffer from this file instead, '-' for stdin",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: clicmd.FormatJSON,
						Usage: "Output format: json (one complete-item per line) or plain",
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return clicmd.Complete(ctx, clicmd.CompleteParams{
						Params:   globalParams(cmd),
						File:     cmd.Args().First(),
						Source:   cmd.String("source"),
						Cwd:      cmd.String("cwd"),
						Filetype: cmd.String("filetype"),
						Line:     int(cmd.Int("line")),
						Column:   int(cmd.Int("column")),
						Format:   cmd.String("format"),
					})
				},
			},
			{
				Name:      "args",
				Usage:     "Print the compiler arguments resolved for a buffer",
				ArgsUsage: "[file]",
				Flags: append(sessionFlags(),
					&cli.BoolFlag{
						Name:    "null",
						Aliases: []string{"0"},
						Usage:   "Separate arguments with NUL instead of newline",
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return clicmd.Args(ctx, clicmd.ArgsParams{
						Params:        globalParams(cmd),
						Cwd:           cmd.String("cwd"),
						File:          cmd.Args().First(),
						Filetype:      cmd.String("filetype"),
						NullSeparated: cmd.Bool("null"),
					})
				},
			},
			{
				Name:      "status",
				Usage:     "Show the session clangx resolves for the current directory",
				ArgsUsage: "[file]",
				Flags:     sessionFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return clicmd.Status(ctx, clicmd.StatusParams{
						Params:   globalParams(cmd),
						Cwd:      cmd.String("cwd"),
						File:     cmd.Args().First(),
						Filetype: cmd.String("filetype"),
					})
				},
			},
			{
				Name:  "serve",
				Usage: "Answer JSON-lines completion requests on stdin",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Value: true,
						Usage: "Refresh sessions when options files change",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return clicmd.Serve(ctx, clicmd.ServeParams{
						Params: globalParams(cmd),
						Watch:  cmd.Bool("watch"),
					}, version.Version)
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a clangx settings file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					configPath := cmd.Args().First()
					if configPath == "" {
						configPath = cmd.String("config")
					}
					return clicmd.Validate(configPath, os.Stdout)
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for clangx settings files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" && cmd.Args().Len() > 0 {
						outputPath = cmd.Args().Get(0)
					}
					return clicmd.Schema(outputPath, os.Stdout)
				},
			},
		},
	}
}
