package server

import (
	"context"
	"fmt"
	"os"

	"github.com/adrianliechti/wingman-ask/app"
	"github.com/adrianliechti/wingman-ask/pkg/config"
	"github.com/adrianliechti/wingman-ask/pkg/server"
)

func Run(ctx context.Context, a *app.App, transport, addr string) error {
	tools, err := a.Tools(ctx)

	if err != nil {
		return err
	}

	resources, err := a.Resources(ctx)

	if err != nil {
		return err
	}

	prompts, err := a.Prompts(ctx)

	if err != nil {
		return err
	}

	instructions, err := app.Instructions()

	if err != nil {
		return err
	}

	s := server.New(
		server.WithInstructions(instructions),
		server.WithLogger(a.Logger),

		server.WithTools(tools...),
		server.WithResources(resources...),
		server.WithPrompts(prompts...),
	)

	switch transport {
	case config.TransportStdio:
		return s.ServeStdio(ctx, os.Stdin, os.Stdout)

	case config.TransportSSE:
		return s.ServeSSE(ctx, addr)
	}

	return fmt.Errorf("unsupported transport %q", transport)
}
