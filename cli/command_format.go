package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/shibukawa/filtex/parser"
)

// FormatCmd represents the format command: parse and re-render the
// canonical form (fully parenthesized, single spaces).
type FormatCmd struct {
	Expression string `arg:"" optional:"" help:"Filter expression (default: one per line from stdin)"`
}

// Run executes the format command
func (cmd *FormatCmd) Run(ctx *Context) error {
	_ = ctx // formatting needs no global state

	if cmd.Expression != "" {
		return formatLine(cmd.Expression)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := formatLine(line); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func formatLine(expr string) error {
	node, err := parser.ParseString(expr)
	if err != nil {
		printDiagnostic(expr, err)
		return err
	}

	fmt.Println(node.String())

	return nil
}
