package tokenizer

import (
	"iter"
	"strings"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// FilterTokenizer scans a filter expression into tokens.
// Whitespace is consumed and never surfaces as a token.
type FilterTokenizer struct {
	input string
}

// NewFilterTokenizer creates a new FilterTokenizer
func NewFilterTokenizer(input string) *FilterTokenizer {
	return &FilterTokenizer{input: input}
}

// Tokens returns an iterator of tokens. The stream is terminated either by
// an EOF token or by the first lexical error; nothing is produced after an
// error.
func (t *FilterTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{
			input:  t.input,
			line:   1,
			column: 1,
		}

		tokenizer.readChar()

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if !yield(token, nil) {
				return
			}

			if token.Type == EOF {
				return
			}
		}
	}
}

// AllTokens scans the whole input eagerly. On a lexical error the tokens
// scanned so far are discarded and only the error is returned.
func (t *FilterTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 16)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
		if token.Type == EOF {
			break
		}
	}

	return tokens, nil
}

// Tokenize is a convenience wrapper over AllTokens
func Tokenize(input string) ([]Token, error) {
	return NewFilterTokenizer(input).AllTokens()
}

// Internal tokenizer implementation
type tokenizer struct {
	input    string
	position int
	line     int
	column   int
	current  rune
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	t.skipWhitespace()

	switch t.current {
	case 0:
		return Token{Type: EOF, Position: t.currentPosition()}, nil
	case '(':
		return t.singleCharToken(OPENED_PARENS), nil
	case ')':
		return t.singleCharToken(CLOSED_PARENS), nil
	case ',':
		return t.singleCharToken(COMMA), nil
	case '.':
		return t.singleCharToken(DOT), nil
	case '"':
		return t.readString()
	case '=':
		if t.peekChar() == '=' {
			return t.doubleCharToken(EQUAL, "=="), nil
		}
		return Token{}, t.incompleteOperatorError("did you mean '=='?")
	case '&':
		if t.peekChar() == '&' {
			return t.doubleCharToken(AND, "&&"), nil
		}
		return Token{}, t.incompleteOperatorError("did you mean '&&'?")
	case '|':
		if t.peekChar() == '|' {
			return t.doubleCharToken(OR, "||"), nil
		}
		return Token{}, t.incompleteOperatorError("did you mean '||'?")
	case '!':
		if t.peekChar() == '=' {
			return t.doubleCharToken(NOT_EQUAL, "!="), nil
		}
		return t.singleCharToken(NOT), nil
	case '<':
		if t.peekChar() == '=' {
			return t.doubleCharToken(LESS_EQUAL, "<="), nil
		}
		return t.singleCharToken(LESS_THAN), nil
	case '>':
		if t.peekChar() == '=' {
			return t.doubleCharToken(GREATER_EQUAL, ">="), nil
		}
		return t.singleCharToken(GREATER_THAN), nil
	default:
		if isIdentStart(t.current) {
			return t.readWord(), nil
		}
		if isDigit(t.current) {
			return t.readNumber(), nil
		}
		return Token{}, &TokenizeError{
			Position: t.currentPosition(),
			Char:     t.current,
			err:      ErrUnexpectedCharacter,
		}
	}
}

// readChar reads the next character
func (t *tokenizer) readChar() {
	if t.position >= len(t.input) {
		t.current = 0
		t.position++
		t.column++

		return
	}

	t.current = rune(t.input[t.position])
	t.position++

	if t.current == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	if t.position >= len(t.input) {
		return 0
	}
	return rune(t.input[t.position])
}

func (t *tokenizer) skipWhitespace() {
	for t.current == ' ' || t.current == '\t' || t.current == '\r' || t.current == '\n' {
		t.readChar()
	}
}

// currentPosition is the position of the character currently under the cursor
func (t *tokenizer) currentPosition() Position {
	return Position{
		Line:   t.line,
		Column: t.column - 1,
		Offset: t.position - 1,
	}
}

func (t *tokenizer) singleCharToken(tokenType TokenType) Token {
	token := Token{
		Type:     tokenType,
		Value:    string(t.current),
		Position: t.currentPosition(),
	}
	t.readChar()

	return token
}

func (t *tokenizer) doubleCharToken(tokenType TokenType, value string) Token {
	pos := t.currentPosition()
	t.readChar()
	t.readChar()

	return Token{Type: tokenType, Value: value, Position: pos}
}

func (t *tokenizer) incompleteOperatorError(hint string) error {
	err := &TokenizeError{
		Position: t.currentPosition(),
		Char:     t.current,
		Hint:     hint,
		err:      ErrIncompleteOperator,
	}
	t.readChar()

	return err
}

// readWord reads an identifier, a dotted member path, or a literal keyword.
// A '.' is folded into the path only when an identifier segment follows, so
// "Age.foo" is one token but "Age." leaves the dot for the parser to reject.
func (t *tokenizer) readWord() Token {
	var builder strings.Builder

	pos := t.currentPosition()

	for isIdentPart(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	for t.current == '.' && isIdentStart(t.peekChar()) {
		builder.WriteRune(t.current)
		t.readChar()

		for isIdentPart(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	word := builder.String()

	tokenType := IDENTIFIER

	switch word {
	case "true", "false":
		tokenType = BOOLEAN
	case "null":
		tokenType = NULL
	}

	return Token{Type: tokenType, Value: word, Position: pos}
}

// readString reads a double-quoted string literal. There is no escape
// processing; the value excludes the quotes.
func (t *tokenizer) readString() (Token, error) {
	pos := t.currentPosition()
	t.readChar() // opening quote

	var builder strings.Builder

	for t.current != 0 && t.current != '"' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	if t.current == 0 {
		return Token{}, &TokenizeError{
			Position: pos,
			Char:     '"',
			err:      ErrUnterminatedString,
		}
	}

	t.readChar() // closing quote

	return Token{Type: STRING, Value: builder.String(), Position: pos}, nil
}

// readNumber reads an integer or decimal literal. The period is consumed
// only when a digit follows, never as a trailing dot.
func (t *tokenizer) readNumber() Token {
	var builder strings.Builder

	pos := t.currentPosition()

	for isDigit(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	if t.current == '.' && isDigit(t.peekChar()) {
		builder.WriteRune(t.current)
		t.readChar()

		for isDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	return Token{Type: NUMBER, Value: builder.String(), Position: pos}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
