package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shibukawa/filtex/tokenizer"
)

func TestParseString_Canonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "and binds tighter than or",
			input: `A == 1 || B == 2 && C == 3`,
			want:  `((A == 1) || ((B == 2) && (C == 3)))`,
		},
		{
			name:  "parentheses override precedence",
			input: `(A == 1 || B == 2) && C == 3`,
			want:  `(((A == 1) || (B == 2)) && (C == 3))`,
		},
		{
			name:  "relational chain",
			input: `Age >= 18 && Age < 65`,
			want:  `((Age >= 18) && (Age < 65))`,
		},
		{
			name:  "unary negation",
			input: `!Active`,
			want:  `!Active`,
		},
		{
			name:  "double negation",
			input: `!!Active`,
			want:  `!!Active`,
		},
		{
			name:  "member path and string literal",
			input: `User.Address.City != "Oslo"`,
			want:  `(User.Address.City != "Oslo")`,
		},
		{
			name:  "method call with arguments",
			input: `Name.Replace("a", "b") == "x"`,
			want:  `(Name.Replace("a", "b") == "x")`,
		},
		{
			name:  "method call without arguments",
			input: `Name.ToLower() == "john"`,
			want:  `(Name.ToLower() == "john")`,
		},
		{
			name:  "null and boolean literals",
			input: `Owner == null || Active == false`,
			want:  `((Owner == null) || (Active == false))`,
		},
		{
			name:  "redundant parentheses collapse",
			input: `((Age > 18))`,
			want:  `(Age > 18)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := ParseString(tt.input)
			if !assert.NoError(t, err) {
				return
			}

			assert.Equal(t, tt.want, node.String())

			// the canonical form must itself parse to the same form
			again, err := ParseString(node.String())
			if !assert.NoError(t, err) {
				return
			}

			assert.Equal(t, tt.want, again.String())
		})
	}
}

func TestParseString_Structure(t *testing.T) {
	node, err := ParseString(`Age > 18 && Name != "Jane"`)
	if !assert.NoError(t, err) {
		return
	}

	root, ok := node.(*BinaryNode)
	if !assert.True(t, ok) {
		return
	}

	assert.Equal(t, "&&", root.Op)
	assert.Equal(t, BINARY, root.Type())

	left, ok := root.Left.(*BinaryNode)
	if !assert.True(t, ok) {
		return
	}

	assert.Equal(t, ">", left.Op)

	member, ok := left.Left.(*MemberNode)
	if !assert.True(t, ok) {
		return
	}

	assert.Equal(t, []string{"Age"}, member.Path)

	constant, ok := left.Right.(*ConstantNode)
	if !assert.True(t, ok) {
		return
	}

	assert.Equal(t, "18", constant.Raw)
	assert.Equal(t, tokenizer.NUMBER, constant.Literal)

	right, ok := root.Right.(*BinaryNode)
	if !assert.True(t, ok) {
		return
	}

	str, ok := right.Right.(*ConstantNode)
	if !assert.True(t, ok) {
		return
	}

	assert.Equal(t, "Jane", str.Raw)
	assert.Equal(t, tokenizer.STRING, str.Literal)
}

func TestParseString_MethodCall(t *testing.T) {
	node, err := ParseString(`User.Name.Contains("oh")`)
	if !assert.NoError(t, err) {
		return
	}

	call, ok := node.(*MethodCallNode)
	if !assert.True(t, ok) {
		return
	}

	assert.Equal(t, "Contains", call.Name)
	assert.Len(t, call.Args, 1)

	target, ok := call.Target.(*MemberNode)
	if !assert.True(t, ok) {
		return
	}

	assert.Equal(t, []string{"User", "Name"}, target.Path)
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		message  string
		offset   int
	}{
		{
			name:     "unterminated parenthesis",
			input:    `(Name == "John"`,
			sentinel: ErrUnclosedParenthesis,
			message:  "Expected ')'",
			offset:   15,
		},
		{
			name:     "trailing tokens",
			input:    `Age > 18 Name`,
			sentinel: ErrUnexpectedToken,
			message:  "Unexpected token: IDENTIFIER: Name",
			offset:   9,
		},
		{
			name:     "ends mid expression",
			input:    `Age >`,
			sentinel: ErrUnexpectedEndOfInput,
			message:  "unexpected end of input",
			offset:   5,
		},
		{
			name:     "stray closing parenthesis",
			input:    `)`,
			sentinel: ErrUnexpectedToken,
			message:  "Unexpected token: CLOSED_PARENS: )",
			offset:   0,
		},
		{
			name:     "stray dot",
			input:    `Age. == 1`,
			sentinel: ErrUnexpectedToken,
			message:  "Unexpected token: DOT: .",
			offset:   3,
		},
		{
			name:     "call on single segment identifier",
			input:    `Contains("x")`,
			sentinel: ErrUnexpectedToken,
			message:  "Unexpected token: OPENED_PARENS: (",
			offset:   8,
		},
		{
			name:     "missing argument after comma",
			input:    `Name.Replace("a",)`,
			sentinel: ErrUnexpectedToken,
			offset:   17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assert.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var parseErr *ParseError
			if !assert.True(t, errors.As(err, &parseErr)) {
				return
			}

			assert.Equal(t, tt.offset, parseErr.Token.Position.Offset)

			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestParseString_NestingDepth(t *testing.T) {
	payload := "Age == 42"

	t.Run("at the limit", func(t *testing.T) {
		input := strings.Repeat("(", MaxNestingDepth) + payload + strings.Repeat(")", MaxNestingDepth)

		node, err := ParseString(input)
		assert.NoError(t, err)
		assert.Equal(t, "(Age == 42)", node.String())
	})

	t.Run("one past the limit", func(t *testing.T) {
		input := strings.Repeat("(", MaxNestingDepth+1) + payload + strings.Repeat(")", MaxNestingDepth+1)

		_, err := ParseString(input)
		assert.ErrorIs(t, err, ErrDepthExceeded)
		assert.Contains(t, err.Error(), "depth exceeds maximum")
	})

	t.Run("unary chains are bounded too", func(t *testing.T) {
		input := strings.Repeat("!", MaxNestingDepth+1) + "Active"

		_, err := ParseString(input)
		assert.ErrorIs(t, err, ErrDepthExceeded)
	})
}

func TestParse_TokenizeErrorPropagates(t *testing.T) {
	_, err := ParseString(`Name = "John"`)
	assert.Error(t, err)

	var tokErr *tokenizer.TokenizeError
	assert.True(t, errors.As(err, &tokErr))
	assert.Equal(t, 5, tokErr.Position.Offset)
}

func TestNodeTypeString(t *testing.T) {
	assert.Equal(t, "MEMBER", MEMBER.String())
	assert.Equal(t, "CONSTANT", CONSTANT.String())
	assert.Equal(t, "BINARY", BINARY.String())
	assert.Equal(t, "UNARY", UNARY.String())
	assert.Equal(t, "METHOD_CALL", METHOD_CALL.String())
}
