package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/shibukawa/filtex/cli"
)

// CLI represents the command-line interface
var CLI struct {
	Config  string         `help:"Configuration file path" default:"filtex.yaml"`
	Verbose bool           `help:"Enable verbose output" short:"v"`
	Quiet   bool           `help:"Suppress output" short:"q"`
	Check   cli.CheckCmd   `cmd:"" help:"Validate filter expressions and ruleset files"`
	Format  cli.FormatCmd  `cmd:"" help:"Re-render filter expressions in canonical form"`
	Sql     cli.SqlCmd     `cmd:"" help:"Translate a filter expression into a SQL WHERE fragment"`
	Version cli.VersionCmd `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &cli.Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
