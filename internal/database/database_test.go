package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruse1977/netbox-acls/internal/models"
)

func TestConnect(t *testing.T) {
	// Test with memory DB
	db, err := Connect("sqlite", "file::memory:")
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// Test with file DB
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err = Connect("sqlite3", dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, db)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("oracle", "whatever")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestMigrate(t *testing.T) {
	db, err := Connect("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range []interface{}{
		&models.Device{},
		&models.AccessList{},
		&models.ACLStandardRule{},
		&models.ACLExtendedRule{},
	} {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasTable("access_list_tags"))
	assert.True(t, db.Migrator().HasTable("extended_rule_tags"))
}
