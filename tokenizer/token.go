package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrIncompleteOperator  = errors.New("incomplete operator")
	ErrUnterminatedString  = errors.New("unterminated string literal")
)

// TokenType represents the type of a token
type TokenType int

const (
	EOF TokenType = iota

	// Literals and names
	IDENTIFIER // dotted member path (Name, User.Address.City)
	STRING     // "text" (value stored without quotes)
	NUMBER     // 42, 3.14
	BOOLEAN    // true, false
	NULL       // null

	// Comparison operators
	EQUAL         // ==
	NOT_EQUAL     // !=
	GREATER_THAN  // >
	GREATER_EQUAL // >=
	LESS_THAN     // <
	LESS_EQUAL    // <=

	// Logical operators
	AND // &&
	OR  // ||
	NOT // !

	// Punctuation
	DOT           // . (stray; dots inside member paths are folded into IDENTIFIER)
	COMMA         // ,
	OPENED_PARENS // (
	CLOSED_PARENS // )
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case IDENTIFIER:
		return "IDENTIFIER"
	case STRING:
		return "STRING"
	case NUMBER:
		return "NUMBER"
	case BOOLEAN:
		return "BOOLEAN"
	case NULL:
		return "NULL"
	case EQUAL:
		return "EQUAL"
	case NOT_EQUAL:
		return "NOT_EQUAL"
	case GREATER_THAN:
		return "GREATER_THAN"
	case GREATER_EQUAL:
		return "GREATER_EQUAL"
	case LESS_THAN:
		return "LESS_THAN"
	case LESS_EQUAL:
		return "LESS_EQUAL"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case DOT:
		return "DOT"
	case COMMA:
		return "COMMA"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the source expression.
// Offset is the 0-based byte offset and is the value quoted in diagnostics;
// Line/Column are 1-based and exist for multi-line rule files.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return t.Type.String() + ": " + t.Value
}

// TokenizeError is a lexical diagnostic. It carries the exact offset and the
// offending character, plus an optional corrective hint for near-miss
// operators such as a single '='.
type TokenizeError struct {
	Position Position
	Char     rune
	Hint     string
	err      error
}

// Error implements the error interface
func (e *TokenizeError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%v %q at position %d: %s", e.err, e.Char, e.Position.Offset, e.Hint)
	}
	return fmt.Sprintf("%v %q at position %d", e.err, e.Char, e.Position.Offset)
}

// Unwrap exposes the sentinel for errors.Is
func (e *TokenizeError) Unwrap() error {
	return e.err
}
