package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/filtex"
	"github.com/shibukawa/filtex/parser"
	"github.com/shibukawa/filtex/ruleset"
)

// ErrCheckFailed is returned when one or more inputs had diagnostics
var ErrCheckFailed = errors.New("check failed")

// CheckCmd represents the check command
type CheckCmd struct {
	Expression string   `arg:"" optional:"" help:"Filter expression to check"`
	Rulesets   []string `short:"r" help:"Ruleset files to validate (default: rulesets from config)"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	failed := false

	if cmd.Expression != "" {
		if err := checkExpression(cmd.Expression); err != nil {
			printDiagnostic(cmd.Expression, err)

			failed = true
		} else if !ctx.Quiet {
			color.Green("OK: %s", cmd.Expression)
		}
	}

	paths := cmd.Rulesets
	if len(paths) == 0 && cmd.Expression == "" {
		config, err := filtex.LoadConfig(ctx.Config)
		if err != nil {
			return err
		}

		paths = config.Rulesets
	}

	for _, path := range paths {
		rs, err := ruleset.Load(path)
		if err != nil {
			color.Red("Error: %v", err)

			failed = true

			continue
		}

		if !ctx.Quiet {
			color.Green("OK: %s (%d rules)", path, len(rs.Rules))
		}
	}

	if failed {
		return ErrCheckFailed
	}

	return nil
}

func checkExpression(expr string) error {
	if len(expr) > filtex.MaxExpressionLength {
		return fmt.Errorf("%w: %d > %d", filtex.ErrExpressionTooLong, len(expr), filtex.MaxExpressionLength)
	}

	_, err := parser.ParseString(expr)

	return err
}
