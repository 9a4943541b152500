package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/models"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Connect opens the store named by driver ("sqlite" or "mysql") using dsn.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3", "":
		dial = sqlite.Open(dsn)
	case "mysql":
		dial = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	db, err := gorm.Open(dial, GormConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	return db, nil
}

// GormConfig is shared by the server and the tests. Driver errors are
// translated so unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Migrate creates or updates the tables for inventory references, access
// lists and rules.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Region{},
		&models.SiteGroup{},
		&models.Site{},
		&models.Device{},
		&models.Prefix{},
		&models.Tag{},
		&models.AccessList{},
		&models.ACLStandardRule{},
		&models.ACLExtendedRule{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
