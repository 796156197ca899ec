package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"

	"github.com/shibukawa/filtex/parser"
)

const validYAML = `rules:
  - id: 9f4c7d1e-8a53-4f2e-9c7b-4a1d2e3f4a5b
    name: adults
    expression: Age >= 18
    description: legal adults only
  - name: active-johns
    expression: Active == true && Name.Contains("John")
`

func TestParse(t *testing.T) {
	rs, err := Parse([]byte(validYAML))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(rs.Rules))

	// explicit id is preserved
	assert.Equal(t, "9f4c7d1e-8a53-4f2e-9c7b-4a1d2e3f4a5b", rs.Rules[0].ID)

	// missing id gets assigned
	assert.NotZero(t, rs.Rules[1].ID)

	_, err = uuid.Parse(rs.Rules[1].ID)
	assert.NoError(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		sentinel error
	}{
		{
			name:     "missing name",
			yaml:     "rules:\n  - expression: Age >= 18\n",
			sentinel: ErrRuleNameRequired,
		},
		{
			name:     "missing expression",
			yaml:     "rules:\n  - name: empty\n",
			sentinel: ErrRuleExprRequired,
		},
		{
			name:     "duplicate names",
			yaml:     "rules:\n  - name: a\n    expression: Age >= 18\n  - name: a\n    expression: Age < 18\n",
			sentinel: ErrDuplicateRuleName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.IsError(t, err, tt.sentinel)
		})
	}
}

func TestParse_InvalidExpressionNamesTheRule(t *testing.T) {
	yaml := "rules:\n  - name: broken\n    expression: 'Age = 18'\n"

	_, err := Parse([]byte(yaml))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestParse_UnknownKeysRejected(t *testing.T) {
	yaml := "rules:\n  - name: a\n    expression: Age >= 18\n    severity: high\n"

	_, err := Parse([]byte(yaml))
	assert.Error(t, err)
}

func TestParse_DepthLimitApplies(t *testing.T) {
	expr := ""
	for range parser.MaxNestingDepth + 1 {
		expr += "("
	}

	expr += "Age == 1"

	for range parser.MaxNestingDepth + 1 {
		expr += ")"
	}

	yaml := "rules:\n  - name: deep\n    expression: '" + expr + "'\n"

	_, err := Parse([]byte(yaml))
	assert.IsError(t, err, parser.ErrDepthExceeded)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	rs, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(rs.Rules))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type visitor struct {
	Name   string
	Age    int
	Active bool
}

func TestCompileAll(t *testing.T) {
	rs, err := Parse([]byte(validYAML))
	assert.NoError(t, err)

	predicates, err := CompileAll[visitor](rs)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(predicates))

	assert.True(t, predicates["adults"].Match(visitor{Age: 30}))
	assert.False(t, predicates["adults"].Match(visitor{Age: 12}))
	assert.True(t, predicates["active-johns"].Match(visitor{Name: "Johnny", Active: true}))
	assert.False(t, predicates["active-johns"].Match(visitor{Name: "Johnny", Active: false}))
}

func TestCompileAll_BindingFailureNamesTheRule(t *testing.T) {
	yaml := "rules:\n  - name: typo\n    expression: Salery > 100\n"

	rs, err := Parse([]byte(yaml))
	assert.NoError(t, err)

	_, err = CompileAll[visitor](rs)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"typo"`)
}
