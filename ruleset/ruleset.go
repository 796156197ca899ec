// Package ruleset loads named filter definitions from YAML files and
// validates every expression through the compiler pipeline before any of
// them is used. Loading is atomic: one bad expression rejects the file.
package ruleset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/shibukawa/filtex"
	"github.com/shibukawa/filtex/parser"
)

// Error definitions for ruleset loading
var (
	ErrRuleNameRequired  = errors.New("rule name is required")
	ErrRuleExprRequired  = errors.New("rule expression is required")
	ErrDuplicateRuleName = errors.New("duplicate rule name")
)

// Rule is one named filter definition
type Rule struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name"`
	Expression  string `yaml:"expression"`
	Description string `yaml:"description,omitempty"`
}

// Ruleset is a collection of rules loaded from one file
type Ruleset struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads and validates a ruleset file
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset file: %w", err)
	}

	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rs, nil
}

// Parse unmarshals and validates ruleset YAML. Rules without an id are
// assigned one; every expression must tokenize and parse (type binding is
// deferred to CompileAll, which knows the entity type).
func Parse(data []byte) (*Ruleset, error) {
	var rs Ruleset

	if err := yaml.UnmarshalWithOptions(data, &rs, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset: %w", err)
	}

	seen := make(map[string]bool, len(rs.Rules))

	for i := range rs.Rules {
		rule := &rs.Rules[i]

		if rule.Name == "" {
			return nil, fmt.Errorf("%w (rule %d)", ErrRuleNameRequired, i+1)
		}

		if seen[rule.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRuleName, rule.Name)
		}

		seen[rule.Name] = true

		if err := validateExpression(rule.Expression); err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}

		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
	}

	return &rs, nil
}

// validateExpression runs the type-independent half of the pipeline
func validateExpression(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return ErrRuleExprRequired
	}

	if len(expr) > filtex.MaxExpressionLength {
		return fmt.Errorf("%w: %d > %d", filtex.ErrExpressionTooLong, len(expr), filtex.MaxExpressionLength)
	}

	if _, err := parser.ParseString(expr); err != nil {
		return err
	}

	return nil
}

// CompileAll binds every rule against the entity type T, keyed by rule
// name. A single binding failure rejects the whole set.
func CompileAll[T any](rs *Ruleset) (map[string]*filtex.Predicate[T], error) {
	serializer := filtex.NewSerializer[T]()
	predicates := make(map[string]*filtex.Predicate[T], len(rs.Rules))

	for _, rule := range rs.Rules {
		predicate, err := serializer.Deserialize(rule.Expression)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}

		predicates[rule.Name] = predicate
	}

	return predicates, nil
}
