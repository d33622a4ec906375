package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrianliechti/wingman-ask/app"

	"github.com/adrianliechti/go-cli"
	"github.com/charmbracelet/huh"
	"github.com/muesli/termenv"
)

func Run(ctx context.Context, yes bool) error {
	dir, err := app.Dir()

	if err != nil {
		return err
	}

	exe, err := app.Executable()

	if err != nil {
		return err
	}

	cli.Info()
	cli.Info("🚀 Wingman Ask setup")
	cli.Info()

	files := Find(dir)

	if len(files) == 0 {
		target := filepath.Join(dir, ".cursor", "mcp.json")

		ok := yes

		if !ok {
			if ok, err = cli.Confirm("No mcp.json found. Create "+target+"?", true); err != nil {
				return err
			}
		}

		if !ok {
			return nil
		}

		files = []string{target}
	} else if !yes {
		selected := slices.Clone(files)

		err := huh.NewMultiSelect[string]().
			Title("Select the configuration files to update").
			Options(huh.NewOptions(files...)...).
			Value(&selected).
			Run()

		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}

		if err != nil {
			return err
		}

		files = selected
	}

	out := termenv.NewOutput(os.Stdout)

	entry := Entry{
		Command: exe,
		Args:    []string{"serve"},
	}

	var updated int

	for _, path := range files {
		previous, err := Update(path, ServerName, entry)

		if err != nil {
			fmt.Fprintln(out, out.String("✗ "+path+": "+err.Error()).Foreground(out.Color("1")))
			continue
		}

		updated++

		fmt.Fprintln(out, out.String("✓ "+path).Foreground(out.Color("2")))

		if previous != nil {
			fmt.Fprintln(out, out.String("  was: "+strings.TrimSpace(previous.Command+" "+strings.Join(previous.Args, " "))).Faint())
		}
	}

	if len(files) > 0 && updated == 0 {
		return errors.New("no configuration file was updated")
	}

	cli.Info()
	cli.Infof("💡 Restart your editor to load %s (%s serve)", ServerName, exe)

	return nil
}
