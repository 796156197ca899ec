package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/filtex/tokenizer"
)

// MaxNestingDepth bounds recursive descent against adversarial input.
// Every parenthesized group, method argument and unary chain counts.
const MaxNestingDepth = 100

// Sentinel errors
var (
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrUnclosedParenthesis  = errors.New("expected ')'")
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrDepthExceeded        = errors.New("depth exceeds maximum")
)

// ParseError is a syntactic diagnostic carrying the offending token
type ParseError struct {
	Token   tokenizer.Token
	Message string
	err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Message, e.Token.Position.Offset)
}

// Unwrap exposes the sentinel for errors.Is
func (e *ParseError) Unwrap() error {
	return e.err
}

// binaryOps is the fixed operator table. The parser constructs BinaryNodes
// only for these operators; anything else never reaches the AST.
var binaryOps = map[tokenizer.TokenType]string{
	tokenizer.EQUAL:         "==",
	tokenizer.NOT_EQUAL:     "!=",
	tokenizer.GREATER_THAN:  ">",
	tokenizer.GREATER_EQUAL: ">=",
	tokenizer.LESS_THAN:     "<",
	tokenizer.LESS_EQUAL:    "<=",
	tokenizer.AND:           "&&",
	tokenizer.OR:            "||",
}

// Parse turns a token list into an AST. The token list must be terminated by
// an EOF token, as produced by the tokenizer.
func Parse(tokens []tokenizer.Token) (Node, error) {
	p := &parser{tokens: tokens}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.current().Type != tokenizer.EOF {
		return nil, p.unexpectedToken()
	}

	return node, nil
}

// ParseString tokenizes and parses in one step
func ParseString(input string) (Node, error) {
	tokens, err := tokenizer.Tokenize(input)
	if err != nil {
		return nil, err
	}

	return Parse(tokens)
}

type parser struct {
	tokens []tokenizer.Token
	pos    int
	depth  int
}

func (p *parser) current() tokenizer.Token {
	if p.pos >= len(p.tokens) {
		// the tokenizer always terminates the list with EOF
		return tokenizer.Token{Type: tokenizer.EOF}
	}

	return p.tokens[p.pos]
}

func (p *parser) advance() tokenizer.Token {
	token := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return token
}

func (p *parser) enterNesting() error {
	p.depth++
	if p.depth > MaxNestingDepth {
		return &ParseError{
			Token:   p.current(),
			Message: "depth exceeds maximum",
			err:     ErrDepthExceeded,
		}
	}

	return nil
}

func (p *parser) leaveNesting() {
	p.depth--
}

func (p *parser) unexpectedToken() error {
	token := p.current()
	if token.Type == tokenizer.EOF {
		return &ParseError{
			Token:   token,
			Message: "unexpected end of input",
			err:     ErrUnexpectedEndOfInput,
		}
	}

	return &ParseError{
		Token:   token,
		Message: fmt.Sprintf("Unexpected token: %s", token),
		err:     ErrUnexpectedToken,
	}
}

// Or := And ("||" And)*
func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == tokenizer.OR {
		opToken := p.advance()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &BinaryNode{Op: binaryOps[opToken.Type], Left: left, Right: right, Pos: opToken.Position}
	}

	return left, nil
}

// And := Equality ("&&" Equality)*
func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	for p.current().Type == tokenizer.AND {
		opToken := p.advance()

		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}

		left = &BinaryNode{Op: binaryOps[opToken.Type], Left: left, Right: right, Pos: opToken.Position}
	}

	return left, nil
}

// Equality := Relational (("==" | "!=") Relational)?
func (p *parser) parseEquality() (Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	if t := p.current().Type; t == tokenizer.EQUAL || t == tokenizer.NOT_EQUAL {
		opToken := p.advance()

		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}

		return &BinaryNode{Op: binaryOps[opToken.Type], Left: left, Right: right, Pos: opToken.Position}, nil
	}

	return left, nil
}

// Relational := Unary (("<" | "<=" | ">" | ">=") Unary)?
func (p *parser) parseRelational() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case tokenizer.LESS_THAN, tokenizer.LESS_EQUAL, tokenizer.GREATER_THAN, tokenizer.GREATER_EQUAL:
		opToken := p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &BinaryNode{Op: binaryOps[opToken.Type], Left: left, Right: right, Pos: opToken.Position}, nil
	}

	return left, nil
}

// Unary := "!" Unary | Primary
func (p *parser) parseUnary() (Node, error) {
	if p.current().Type == tokenizer.NOT {
		opToken := p.advance()

		if err := p.enterNesting(); err != nil {
			return nil, err
		}
		defer p.leaveNesting()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryNode{Op: "!", Operand: operand, Pos: opToken.Position}, nil
	}

	return p.parsePrimary()
}

// Primary := Member | Constant | "(" Or ")" | MethodCallSuffix
func (p *parser) parsePrimary() (Node, error) {
	token := p.current()

	switch token.Type {
	case tokenizer.OPENED_PARENS:
		if err := p.enterNesting(); err != nil {
			return nil, err
		}
		defer p.leaveNesting()

		p.advance()

		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if p.current().Type != tokenizer.CLOSED_PARENS {
			return nil, &ParseError{
				Token:   p.current(),
				Message: "Expected ')'",
				err:     ErrUnclosedParenthesis,
			}
		}

		p.advance()

		return node, nil

	case tokenizer.IDENTIFIER:
		p.advance()

		path := strings.Split(token.Value, ".")

		if p.current().Type == tokenizer.OPENED_PARENS && len(path) > 1 {
			return p.parseMethodCall(token, path)
		}

		return &MemberNode{Path: path, Pos: token.Position}, nil

	case tokenizer.STRING, tokenizer.NUMBER, tokenizer.BOOLEAN, tokenizer.NULL:
		p.advance()

		return &ConstantNode{Raw: token.Value, Literal: token.Type, Pos: token.Position}, nil

	default:
		return nil, p.unexpectedToken()
	}
}

// parseMethodCall attaches a call suffix to a member: the last path segment
// is the method name, the preceding segments the target member.
func (p *parser) parseMethodCall(token tokenizer.Token, path []string) (Node, error) {
	target := &MemberNode{Path: path[:len(path)-1], Pos: token.Position}
	name := path[len(path)-1]

	p.advance() // '('

	var args []Node

	if p.current().Type != tokenizer.CLOSED_PARENS {
		for {
			if err := p.enterNesting(); err != nil {
				return nil, err
			}

			arg, err := p.parseOr()

			p.leaveNesting()

			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.current().Type != tokenizer.COMMA {
				break
			}

			p.advance()
		}
	}

	if p.current().Type != tokenizer.CLOSED_PARENS {
		return nil, &ParseError{
			Token:   p.current(),
			Message: "Expected ')'",
			err:     ErrUnclosedParenthesis,
		}
	}

	p.advance()

	return &MethodCallNode{Target: target, Name: name, Args: args, Pos: token.Position}, nil
}
