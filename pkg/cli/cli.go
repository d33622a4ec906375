package cli

import (
	"github.com/urfave/cli/v3"

	gocli "github.com/adrianliechti/go-cli"
)

type Command = cli.Command

type Flag = cli.Flag
type IntFlag = cli.IntFlag
type StringFlag = cli.StringFlag
type BoolFlag = cli.BoolFlag
type DurationFlag = cli.DurationFlag

func ShowAppHelp(cmd *Command) error {
	return cli.ShowAppHelp(cmd)
}

func ShowCommandHelp(cmd *Command) error {
	return cli.ShowSubcommandHelp(cmd)
}

func Fatal(err error) {
	gocli.Fatal(err)
}
