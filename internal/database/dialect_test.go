package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicstrainer/internal/config"
)

func TestDialectDriverNames(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		driver  string
		subdir  string
	}{
		{name: "sqlite", dialect: NewSQLiteDialect(), driver: "sqlite3", subdir: "sqlite"},
		{name: "postgres", dialect: NewPostgresDialect(), driver: "postgres", subdir: "postgres"},
		{name: "mysql", dialect: NewMySQLDialect(), driver: "mysql", subdir: "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.driver, tt.dialect.DriverName())
			assert.Equal(t, tt.subdir, tt.dialect.MigrationsSubdir())
			assert.True(t, strings.HasPrefix(tt.dialect.UpsertStateQuery(), "INSERT INTO app_state"))
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT payload FROM app_state WHERE state_key = ?",
			expected: "SELECT payload FROM app_state WHERE state_key = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT payload FROM app_state WHERE state_key = ?",
			expected: "SELECT payload FROM app_state WHERE state_key = $1",
		},
		{
			name:     "PostgreSQL upsert",
			dialect:  NewPostgresDialect(),
			query:    NewPostgresDialect().UpsertStateQuery(),
			expected: strings.Replace(strings.Replace(NewPostgresDialect().UpsertStateQuery(), "?", "$1", 1), "?", "$2", 1),
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "DELETE FROM app_state WHERE state_key = ?",
			expected: "DELETE FROM app_state WHERE state_key = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.RewriteQuery(tt.query))
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType  string
		driver  string
		wantErr bool
	}{
		{dbType: "", driver: "sqlite3"},
		{dbType: "SQLite", driver: "sqlite3"},
		{dbType: "postgresql", driver: "postgres"},
		{dbType: "mysql", driver: "mysql"},
		{dbType: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			cfg := &config.Config{DatabaseType: tt.dbType, DatabasePath: "x.db", DatabaseURL: "url"}
			dialect, dc, err := DialectFor(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, dialect.DriverName())
			assert.NotEmpty(t, dialect.DSN(dc))
		})
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	for _, d := range []Dialect{NewSQLiteDialect(), NewPostgresDialect(), NewMySQLDialect()} {
		data, err := migrationFiles.ReadFile("migrations/" + d.MigrationsSubdir() + "/001_app_state.sql")
		require.NoError(t, err, d.MigrationsSubdir())
		assert.Contains(t, string(data), "app_state")
	}
}
