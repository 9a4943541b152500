package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NBACL_DB_DSN", filepath.Join(dir, "data", "acl.db"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Debug)
	assert.DirExists(t, filepath.Join(dir, "data"))
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
environment: production
http_port: "9000"
debug: true
database:
  driver: mysql
  dsn: "acl:secret@tcp(db:3306)/acls?parseTime=true"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("NBACL_CONFIG", path)
	t.Setenv("NBACL_HTTP_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9100", cfg.HTTPPort)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN, "tcp(db:3306)")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("NBACL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0o644))
		t.Setenv("NBACL_CONFIG", path)
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid debug flag", func(t *testing.T) {
		t.Setenv("NBACL_DB_DSN", filepath.Join(t.TempDir(), "acl.db"))
		t.Setenv("NBACL_DEBUG", "maybe")
		_, err := Load()
		assert.Error(t, err)
	})
}
