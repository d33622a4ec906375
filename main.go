package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/wingman-ask/app"
	"github.com/adrianliechti/wingman-ask/app/ask"
	"github.com/adrianliechti/wingman-ask/app/examples"
	"github.com/adrianliechti/wingman-ask/app/server"
	"github.com/adrianliechti/wingman-ask/app/setup"
	"github.com/adrianliechti/wingman-ask/pkg/cli"
	"github.com/adrianliechti/wingman-ask/pkg/config"
)

var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := initApp()

	if err := cmd.Run(ctx, os.Args); err != nil {
		cli.Fatal(err)
	}
}

func initApp() cli.Command {
	serve := &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server",

		HideHelp: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "transport",
				Usage: "stdio or sse",
			},

			&cli.StringFlag{
				Name:  "addr",
				Usage: "SSE listen address",
			},
		},

		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := load(cmd)

			if err != nil {
				return err
			}

			defer a.Close()

			transport := a.Config.Server.Transport

			if v := cmd.String("transport"); v != "" {
				transport = v
			}

			addr := a.Config.Server.Addr

			if v := cmd.String("addr"); v != "" {
				addr = v
			}

			return server.Run(ctx, a, transport, addr)
		},
	}

	return cli.Command{
		Name:  "wingman-ask",
		Usage: "Let AI agents ask you questions",

		Suggest: true,
		Version: version,

		HideHelp: true,

		HideHelpCommand: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file (default .ask.yaml, .ask.json, ask.yaml or ask.json)",
			},

			&cli.StringFlag{
				Name:  "ui",
				Usage: "web or terminal",
			},
		},

		Action: serve.Action,

		Commands: []*cli.Command{
			serve,

			{
				Name:      "ask",
				Usage:     "Show a question from a file and print the answer",
				ArgsUsage: "<file|->",

				HideHelp: true,

				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for an answer",
					},
				},

				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.Args().First()

					if path == "" {
						return cli.ShowCommandHelp(cmd)
					}

					a, err := load(cmd)

					if err != nil {
						return err
					}

					defer a.Close()

					timeout := a.Config.Timeout.Std()

					if cmd.IsSet("timeout") {
						timeout = cmd.Duration("timeout")
					}

					return ask.Run(ctx, a, path, timeout, os.Stdout)
				},
			},

			{
				Name:  "setup",
				Usage: "Register the server in mcp.json files",

				HideHelp: true,

				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Update all files without asking",
					},
				},

				Action: func(ctx context.Context, cmd *cli.Command) error {
					return setup.Run(ctx, cmd.Bool("yes"))
				},
			},

			{
				Name:  "examples",
				Usage: "Show the question formats",

				HideHelp: true,

				Action: func(ctx context.Context, cmd *cli.Command) error {
					return examples.Run(os.Stdout)
				},
			},
		},
	}
}

func load(cmd *cli.Command) (*app.App, error) {
	cfg, err := config.Load(cmd.String("config"))

	if err != nil {
		return nil, err
	}

	if v := cmd.String("ui"); v != "" {
		cfg.UI = v

		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return app.New(cfg)
}
