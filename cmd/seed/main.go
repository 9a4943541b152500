package main

import (
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"

	"github.com/cruse1977/netbox-acls/internal/config"
	"github.com/cruse1977/netbox-acls/internal/database"
	"github.com/cruse1977/netbox-acls/internal/logger"
)

var nonSlugChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// slugify lowercases name and joins its letter and digit runs with "-".
// Letters outside ASCII are kept so "Zürich" and "Zurich" stay distinct.
func slugify(name string) (string, error) {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "", fmt.Errorf("%w: %q", errEmptySlug, name)
	}
	return slug, nil
}

func main() {
	fixturePath := flag.String("fixture", "cmd/seed/seed.yaml", "path to the seed fixture")
	flag.Parse()

	log := logger.Component("seed")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	db, err := database.Connect(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}
	log.Info("database migrated")

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.WithError(err).Fatal("load fixture")
	}

	res, err := newSeeder(db).apply(context.Background(), fixture)
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.WithField("created", res.Created).WithField("existing", res.Existing).Info("seed complete")
}
