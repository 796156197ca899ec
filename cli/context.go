// Package cli implements the filtex command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/filtex/parser"
	"github.com/shibukawa/filtex/tokenizer"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// printDiagnostic renders a compiler error with a caret pointing at the
// offending offset, when the error carries one.
func printDiagnostic(expr string, err error) {
	color.Red("Error: %v", err)

	offset := -1

	var tokErr *tokenizer.TokenizeError
	if errors.As(err, &tokErr) {
		offset = tokErr.Position.Offset
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		offset = parseErr.Token.Position.Offset
	}

	if offset < 0 || offset > len(expr) {
		return
	}

	fmt.Println("  " + expr)

	caret := make([]byte, offset)
	for i := range caret {
		caret[i] = ' '
	}

	fmt.Println("  " + string(caret) + "^")
}
