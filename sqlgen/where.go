// Package sqlgen translates a parsed filter AST into a parameterized SQL
// WHERE fragment, so a compiled predicate can be pushed down into a query
// instead of filtering rows in memory. Constants never splice into the SQL
// text; they always travel as bind arguments.
package sqlgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shibukawa/filtex"
	"github.com/shibukawa/filtex/parser"
	"github.com/shibukawa/filtex/tokenizer"
)

// Error definitions for SQL generation
var (
	ErrUnsupportedNode     = errors.New("node has no SQL rendering")
	ErrUnsupportedMethod   = errors.New("method has no SQL equivalent")
	ErrNonConstantPattern  = errors.New("pattern argument must be a string constant")
	ErrNullOrdering        = errors.New("null cannot be used with an ordering operator")
	ErrNullArgument        = errors.New("null is not a valid method argument")
	ErrInvalidNumericValue = errors.New("invalid numeric literal")
)

// methodArity mirrors the binder's allow-list. Generate renders unbound
// ASTs, so the arity must be checked here before arguments are indexed.
var methodArity = map[string]int{
	"Contains":   1,
	"StartsWith": 1,
	"EndsWith":   1,
	"ToLower":    0,
	"ToUpper":    0,
	"Trim":       0,
	"Length":     0,
	"Replace":    2,
}

// binarySQL maps expression operators onto their SQL spelling
var binarySQL = map[string]string{
	"==": "=",
	"!=": "<>",
	">":  ">",
	">=": ">=",
	"<":  "<",
	"<=": "<=",
	"&&": "AND",
	"||": "OR",
}

// Generate renders node into a WHERE fragment plus its bind arguments
func Generate(node parser.Node, dialect filtex.Dialect) (string, []any, error) {
	g := &generator{dialect: dialect}

	sql, err := g.render(node)
	if err != nil {
		return "", nil, err
	}

	return sql, g.args, nil
}

type generator struct {
	dialect filtex.Dialect
	args    []any
}

// placeholder appends an argument and returns its marker
func (g *generator) placeholder(value any) string {
	g.args = append(g.args, value)

	if g.dialect.OrdinalPlaceholders() {
		return "$" + strconv.Itoa(len(g.args))
	}

	return "?"
}

func (g *generator) render(node parser.Node) (string, error) {
	switch n := node.(type) {
	case *parser.BinaryNode:
		return g.renderBinary(n)
	case *parser.UnaryNode:
		operand, err := g.render(n.Operand)
		if err != nil {
			return "", err
		}

		return "NOT " + operand, nil
	case *parser.MemberNode:
		return columnName(n.Path), nil
	case *parser.ConstantNode:
		value, err := constantValue(n)
		if err != nil {
			return "", err
		}

		return g.placeholder(value), nil
	case *parser.MethodCallNode:
		return g.renderMethodCall(n)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedNode, node)
	}
}

func (g *generator) renderBinary(n *parser.BinaryNode) (string, error) {
	// null comparisons become IS NULL / IS NOT NULL
	if n.Op == "==" || n.Op == "!=" {
		if operand, isNull := nullComparison(n); isNull {
			sql, err := g.render(operand)
			if err != nil {
				return "", err
			}

			if n.Op == "==" {
				return "(" + sql + " IS NULL)", nil
			}

			return "(" + sql + " IS NOT NULL)", nil
		}
	}

	if isNullConstant(n.Left) || isNullConstant(n.Right) {
		return "", ErrNullOrdering
	}

	left, err := g.render(n.Left)
	if err != nil {
		return "", err
	}

	right, err := g.render(n.Right)
	if err != nil {
		return "", err
	}

	return "(" + left + " " + binarySQL[n.Op] + " " + right + ")", nil
}

func (g *generator) renderMethodCall(n *parser.MethodCallNode) (string, error) {
	arity, ok := methodArity[n.Name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, n.Name)
	}

	if len(n.Args) != arity {
		return "", fmt.Errorf("%w: %q takes %d argument(s), got %d", ErrUnsupportedMethod, n.Name, arity, len(n.Args))
	}

	target, err := g.render(n.Target)
	if err != nil {
		return "", err
	}

	switch n.Name {
	case "Contains":
		return g.likeExpression(target, n.Args, "%", "%")
	case "StartsWith":
		return g.likeExpression(target, n.Args, "", "%")
	case "EndsWith":
		return g.likeExpression(target, n.Args, "%", "")
	case "ToLower":
		return "LOWER(" + target + ")", nil
	case "ToUpper":
		return "UPPER(" + target + ")", nil
	case "Trim":
		return "TRIM(" + target + ")", nil
	case "Length":
		return "LENGTH(" + target + ")", nil
	case "Replace":
		old, err := g.render(n.Args[0])
		if err != nil {
			return "", err
		}

		replacement, err := g.render(n.Args[1])
		if err != nil {
			return "", err
		}

		return "REPLACE(" + target + ", " + old + ", " + replacement + ")", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, n.Name)
	}
}

// likeExpression renders Contains/StartsWith/EndsWith. The pattern argument
// must be a string constant so the LIKE wildcards stay under our control.
func (g *generator) likeExpression(target string, args []parser.Node, prefix, suffix string) (string, error) {
	constant, ok := args[0].(*parser.ConstantNode)
	if !ok || constant.Literal != tokenizer.STRING {
		return "", ErrNonConstantPattern
	}

	pattern := prefix + escapeLike(constant.Raw) + suffix

	return "(" + target + " LIKE " + g.placeholder(pattern) + " ESCAPE " + g.escapeClause() + ")", nil
}

// escapeClause spells the ESCAPE character literal per dialect. The MySQL
// family treats a backslash inside a string literal as an escape character,
// so the backslash itself must be doubled there.
func (g *generator) escapeClause() string {
	if g.dialect.BackslashStringLiterals() {
		return `'\\'`
	}

	return `'\'`
}

// escapeLike neutralizes LIKE wildcards inside a literal pattern
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)

	return s
}

// columnName maps a member path onto snake_case column naming
func columnName(path []string) string {
	parts := make([]string, len(path))
	for i, segment := range path {
		parts[i] = snakeCase(segment)
	}

	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var builder strings.Builder

	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				builder.WriteByte('_')
			}

			builder.WriteRune(r - 'A' + 'a')
		} else {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// constantValue types a literal the same way the binder does
func constantValue(n *parser.ConstantNode) (any, error) {
	switch n.Literal {
	case tokenizer.STRING:
		return n.Raw, nil
	case tokenizer.BOOLEAN:
		return n.Raw == "true", nil
	case tokenizer.NUMBER:
		if i, err := strconv.ParseInt(n.Raw, 10, 64); err == nil {
			return i, nil
		}

		f, err := strconv.ParseFloat(n.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumericValue, n.Raw)
		}

		return f, nil
	default:
		return nil, ErrNullArgument
	}
}

// nullComparison reports whether one side of an equality is the null
// literal, returning the other side.
func nullComparison(n *parser.BinaryNode) (parser.Node, bool) {
	if isNullConstant(n.Right) && !isNullConstant(n.Left) {
		return n.Left, true
	}

	if isNullConstant(n.Left) && !isNullConstant(n.Right) {
		return n.Right, true
	}

	return nil, false
}

func isNullConstant(node parser.Node) bool {
	constant, ok := node.(*parser.ConstantNode)
	return ok && constant.Literal == tokenizer.NULL
}
