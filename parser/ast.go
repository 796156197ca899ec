package parser

import (
	"strings"

	"github.com/shibukawa/filtex/tokenizer"
)

// Node represents AST (Abstract Syntax Tree) node interface.
// The variant set is closed: MemberNode, ConstantNode, BinaryNode, UnaryNode
// and MethodCallNode are the only implementations, and every child of a node
// returned by Parse is fully formed.
type Node interface {
	Type() NodeType
	Position() tokenizer.Position
	String() string
}

// NodeType represents the type of AST node
type NodeType int

const (
	MEMBER NodeType = iota
	CONSTANT
	BINARY
	UNARY
	METHOD_CALL
)

// String returns string representation of NodeType
func (n NodeType) String() string {
	switch n {
	case MEMBER:
		return "MEMBER"
	case CONSTANT:
		return "CONSTANT"
	case BINARY:
		return "BINARY"
	case UNARY:
		return "UNARY"
	case METHOD_CALL:
		return "METHOD_CALL"
	default:
		return "UNKNOWN"
	}
}

// MemberNode is a dotted property access, root-relative to the bound
// parameter.
type MemberNode struct {
	Path []string
	Pos  tokenizer.Position
}

func (n *MemberNode) Type() NodeType               { return MEMBER }
func (n *MemberNode) Position() tokenizer.Position { return n.Pos }

func (n *MemberNode) String() string {
	return strings.Join(n.Path, ".")
}

// ConstantNode holds a literal's raw text. Typed interpretation is deferred
// until binding; Literal records which lexical class produced it so a quoted
// "42" never collapses into the number 42.
type ConstantNode struct {
	Raw     string
	Literal tokenizer.TokenType // STRING, NUMBER, BOOLEAN or NULL
	Pos     tokenizer.Position
}

func (n *ConstantNode) Type() NodeType               { return CONSTANT }
func (n *ConstantNode) Position() tokenizer.Position { return n.Pos }

func (n *ConstantNode) String() string {
	switch n.Literal {
	case tokenizer.STRING:
		return `"` + n.Raw + `"`
	case tokenizer.NULL:
		return "null"
	default:
		return n.Raw
	}
}

// BinaryNode applies one of the nine grammar operators to two operands
type BinaryNode struct {
	Op    string
	Left  Node
	Right Node
	Pos   tokenizer.Position
}

func (n *BinaryNode) Type() NodeType               { return BINARY }
func (n *BinaryNode) Position() tokenizer.Position { return n.Pos }

func (n *BinaryNode) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

// UnaryNode is logical negation; "!" is the only unary operator
type UnaryNode struct {
	Op      string
	Operand Node
	Pos     tokenizer.Position
}

func (n *UnaryNode) Type() NodeType               { return UNARY }
func (n *UnaryNode) Position() tokenizer.Position { return n.Pos }

func (n *UnaryNode) String() string {
	return n.Op + n.Operand.String()
}

// MethodCallNode invokes an allow-listed method on the target expression
type MethodCallNode struct {
	Target Node
	Name   string
	Args   []Node
	Pos    tokenizer.Position
}

func (n *MethodCallNode) Type() NodeType               { return METHOD_CALL }
func (n *MethodCallNode) Position() tokenizer.Position { return n.Pos }

func (n *MethodCallNode) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}

	return n.Target.String() + "." + n.Name + "(" + strings.Join(args, ", ") + ")"
}
