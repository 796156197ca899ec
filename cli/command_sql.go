package cli

import (
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shibukawa/filtex"
	"github.com/shibukawa/filtex/parser"
	"github.com/shibukawa/filtex/sqlgen"
)

// SqlCmd represents the sql command: translate a filter expression into a
// parameterized WHERE fragment, optionally counting matching rows.
type SqlCmd struct {
	Expression string `arg:"" help:"Filter expression"`
	Dialect    string `short:"d" help:"Target dialect (default: from config)"`
	Db         string `help:"SQLite database path to run the fragment against"`
	Table      string `help:"Table name for --db"`
}

// Run executes the sql command
func (cmd *SqlCmd) Run(ctx *Context) error {
	config, err := filtex.LoadConfig(ctx.Config)
	if err != nil {
		return err
	}

	name := cmd.Dialect
	if name == "" {
		name = config.Dialect
	}

	dialect, err := filtex.ParseDialect(name)
	if err != nil {
		return err
	}

	node, err := parser.ParseString(cmd.Expression)
	if err != nil {
		printDiagnostic(cmd.Expression, err)
		return err
	}

	fragment, args, err := sqlgen.Generate(node, dialect)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		color.Blue("WHERE fragment:")
	}

	fmt.Println(fragment)

	if len(args) > 0 {
		if !ctx.Quiet {
			color.Blue("Arguments:")
		}

		for i, arg := range args {
			fmt.Printf("  %d: %v\n", i+1, arg)
		}
	}

	if cmd.Db == "" {
		return nil
	}

	if cmd.Table == "" {
		cmd.Table = config.Database.Table
	}

	if cmd.Table == "" {
		return fmt.Errorf("%w: --table is required with --db", filtex.ErrConfigValidation)
	}

	return cmd.countRows(dialect, fragment, args)
}

func (cmd *SqlCmd) countRows(dialect filtex.Dialect, fragment string, args []any) error {
	if dialect != filtex.DialectSQLite {
		return fmt.Errorf("%w: --db supports the sqlite dialect only", filtex.ErrUnknownDialect)
	}

	db, err := sql.Open("sqlite3", cmd.Db)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	query := "SELECT COUNT(*) FROM " + cmd.Table + " WHERE " + fragment

	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	color.Green("%d matching row(s)", count)

	return nil
}
