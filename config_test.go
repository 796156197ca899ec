package filtex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_DefaultWhenMissing(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "filtex.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, string(DialectSQLite), config.Dialect)
	assert.Equal(t, 0, len(config.Rulesets))
}

func TestLoadConfig_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtex.yaml")
	content := `dialect: postgres
rulesets:
  - rules/users.yaml
database:
  driver: sqlite3
  connection: ./app.db
  table: customers
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "postgres", config.Dialect)
	assert.Equal(t, []string{"rules/users.yaml"}, config.Rulesets)
	assert.Equal(t, "customers", config.Database.Table)
}

func TestLoadConfig_InvalidDialect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtex.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("dialect: oracle\n"), 0o644))

	_, err := LoadConfig(path)
	assert.IsError(t, err, ErrConfigValidation)
}

func TestLoadConfig_UnknownKeysRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtex.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("dialect: sqlite\ncache: true\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("FILTEX_TEST_DB", "/tmp/test.db")

	path := filepath.Join(t.TempDir(), "filtex.yaml")
	content := "database:\n  driver: sqlite3\n  connection: ${FILTEX_TEST_DB}\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", config.Database.Connection)
}

func TestParseDialect(t *testing.T) {
	dialect, err := ParseDialect("mysql")
	assert.NoError(t, err)
	assert.Equal(t, DialectMySQL, dialect)
	assert.False(t, dialect.OrdinalPlaceholders())

	dialect, err = ParseDialect("postgres")
	assert.NoError(t, err)
	assert.True(t, dialect.OrdinalPlaceholders())
	assert.False(t, dialect.BackslashStringLiterals())

	assert.True(t, DialectMySQL.BackslashStringLiterals())
	assert.True(t, DialectMariaDB.BackslashStringLiterals())
	assert.False(t, DialectSQLite.BackslashStringLiterals())

	_, err = ParseDialect("oracle")
	assert.IsError(t, err, ErrUnknownDialect)
}
