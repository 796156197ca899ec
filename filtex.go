// Package filtex compiles a restricted textual predicate language
// (e.g. `Age > 18 && Name != "Jane"`) into type-checked, reusable boolean
// predicates over a caller-supplied struct type, and re-renders compiled
// predicates back into canonical text. The language has no loops, no
// assignment and no arbitrary calls; the method surface is a fixed
// allow-list, so externally stored filter definitions can be evaluated
// without executing arbitrary code.
package filtex

import (
	"fmt"
	"strings"

	"github.com/shibukawa/filtex/binder"
	"github.com/shibukawa/filtex/parser"
	"github.com/shibukawa/filtex/tokenizer"
)

// MaxExpressionLength is the maximum accepted input length in bytes.
// It is checked before tokenization starts; callers may rely on it.
const MaxExpressionLength = 2000

// MaxNestingDepth is the maximum nesting depth the parser accepts
const MaxNestingDepth = parser.MaxNestingDepth

// Predicate is a compiled filter expression over T. It is immutable and
// safe for concurrent use; Match never returns an error because all
// resolution happened at compile time.
type Predicate[T any] struct {
	match func(T) bool
	node  parser.Node
}

// Match evaluates the predicate against an entity
func (p *Predicate[T]) Match(entity T) bool {
	return p.match(entity)
}

// Node returns the expression tree, for consumers that translate the
// predicate into another form (e.g. a SQL WHERE fragment).
func (p *Predicate[T]) Node() parser.Node {
	return p.node
}

// String returns the canonical textual form
func (p *Predicate[T]) String() string {
	return p.node.String()
}

// Serializer converts between filter text and compiled predicates over T
type Serializer[T any] struct{}

// NewSerializer creates a Serializer for the entity type T
func NewSerializer[T any]() *Serializer[T] {
	return &Serializer[T]{}
}

// Deserialize compiles filter text into a predicate. The pipeline is
// atomic: either the whole text tokenizes, parses and binds, or the first
// diagnostic is returned unmodified and nothing is produced.
func (s *Serializer[T]) Deserialize(text string) (*Predicate[T], error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyExpression
	}

	if len(text) > MaxExpressionLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrExpressionTooLong, len(text), MaxExpressionLength)
	}

	tokens, err := tokenizer.Tokenize(text)
	if err != nil {
		return nil, err
	}

	node, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}

	match, err := binder.Bind[T](node)
	if err != nil {
		return nil, err
	}

	return &Predicate[T]{match: match, node: node}, nil
}

// Serialize renders a predicate back into canonical text. The output is the
// canonical re-rendering (fully parenthesized binaries, single spaces), not
// the original input bytes, and re-deserializes to an equivalent predicate.
func (s *Serializer[T]) Serialize(p *Predicate[T]) (string, error) {
	if p == nil || p.node == nil {
		return "", ErrNilPredicate
	}

	return p.node.String(), nil
}

// Deserialize is a package-level shorthand for NewSerializer[T]().Deserialize
func Deserialize[T any](text string) (*Predicate[T], error) {
	return NewSerializer[T]().Deserialize(text)
}

// Serialize is a package-level shorthand for NewSerializer[T]().Serialize
func Serialize[T any](p *Predicate[T]) (string, error) {
	return NewSerializer[T]().Serialize(p)
}
