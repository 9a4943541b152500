package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/models"
	"github.com/cruse1977/netbox-acls/internal/services"
)

var (
	errUnknownReference = errors.New("fixture references an unknown record")
	errEmptySlug        = errors.New("name has no letters or digits to build a slug from")
)

// Fixture is the on-disk seed document. Records reference each other by
// name, slug or CIDR so the file stays readable.
type Fixture struct {
	Regions    []string         `yaml:"regions"`
	SiteGroups []string         `yaml:"site_groups"`
	Sites      []SiteFixture    `yaml:"sites"`
	Devices    []DeviceFixture  `yaml:"devices"`
	Prefixes   []PrefixFixture  `yaml:"prefixes"`
	Tags       []string         `yaml:"tags"`
	ACLs       []AccessListSeed `yaml:"access_lists"`
}

type SiteFixture struct {
	Name   string `yaml:"name"`
	Region string `yaml:"region"`
	Group  string `yaml:"group"`
}

type DeviceFixture struct {
	Name string `yaml:"name"`
	Site string `yaml:"site"`
}

type PrefixFixture struct {
	Prefix      string `yaml:"prefix"`
	Description string `yaml:"description"`
}

type AccessListSeed struct {
	Name          string     `yaml:"name"`
	Device        string     `yaml:"device"`
	Type          string     `yaml:"type"`
	DefaultAction string     `yaml:"default_action"`
	Comments      string     `yaml:"comments"`
	Tags          []string   `yaml:"tags"`
	Rules         []RuleSeed `yaml:"rules"`
}

// RuleSeed covers both rule kinds; the parent list type decides which
// fields are used.
type RuleSeed struct {
	Index            uint     `yaml:"index"`
	Remark           string   `yaml:"remark"`
	Action           string   `yaml:"action"`
	Source           string   `yaml:"source"`
	SourcePorts      []uint16 `yaml:"source_ports"`
	Destination      string   `yaml:"destination"`
	DestinationPorts []uint16 `yaml:"destination_ports"`
	Protocol         string   `yaml:"protocol"`
	Tags             []string `yaml:"tags"`
}

func loadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// seeder tracks the IDs of records created or found so far.
type seeder struct {
	db      *gorm.DB
	acls    *services.AccessListService
	rules   *services.ACLRuleService
	regions map[string]uint
	groups  map[string]uint
	sites   map[string]uint
	devices map[string]uint
	prefix  map[string]uint
	tags    map[string]uint
}

func newSeeder(db *gorm.DB) *seeder {
	inventory := services.NewInventoryService(db)
	return &seeder{
		db:      db,
		acls:    services.NewAccessListService(db, inventory),
		rules:   services.NewACLRuleService(db, inventory),
		regions: map[string]uint{},
		groups:  map[string]uint{},
		sites:   map[string]uint{},
		devices: map[string]uint{},
		prefix:  map[string]uint{},
		tags:    map[string]uint{},
	}
}

// seedResult counts what a run created versus found already present.
type seedResult struct {
	Created  int
	Existing int
}

func (r *seedResult) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Existing++
	}
}

func (s *seeder) apply(ctx context.Context, f *Fixture) (seedResult, error) {
	var res seedResult
	db := s.db.WithContext(ctx)

	for _, name := range f.Regions {
		slug, err := slugify(name)
		if err != nil {
			return res, err
		}
		region := models.Region{Name: name, Slug: slug}
		created, err := firstOrCreate(db, &region, "slug = ?", region.Slug)
		if err != nil {
			return res, fmt.Errorf("seed region %s: %w", name, err)
		}
		s.regions[name] = region.ID
		res.count(created)
	}

	for _, name := range f.SiteGroups {
		slug, err := slugify(name)
		if err != nil {
			return res, err
		}
		group := models.SiteGroup{Name: name, Slug: slug}
		created, err := firstOrCreate(db, &group, "slug = ?", group.Slug)
		if err != nil {
			return res, fmt.Errorf("seed site group %s: %w", name, err)
		}
		s.groups[name] = group.ID
		res.count(created)
	}

	for _, sf := range f.Sites {
		slug, err := slugify(sf.Name)
		if err != nil {
			return res, err
		}
		site := models.Site{Name: sf.Name, Slug: slug}
		if site.RegionID, err = optionalRef(s.regions, "region", sf.Region); err != nil {
			return res, err
		}
		if site.GroupID, err = optionalRef(s.groups, "site group", sf.Group); err != nil {
			return res, err
		}
		created, err := firstOrCreate(db, &site, "slug = ?", site.Slug)
		if err != nil {
			return res, fmt.Errorf("seed site %s: %w", sf.Name, err)
		}
		s.sites[sf.Name] = site.ID
		res.count(created)
	}

	for _, df := range f.Devices {
		siteID, ok := s.sites[df.Site]
		if !ok {
			return res, fmt.Errorf("%w: site %q", errUnknownReference, df.Site)
		}
		device := models.Device{Name: df.Name, SiteID: siteID}
		created, err := firstOrCreate(db, &device, "name = ? AND site_id = ?", df.Name, siteID)
		if err != nil {
			return res, fmt.Errorf("seed device %s: %w", df.Name, err)
		}
		s.devices[df.Name] = device.ID
		res.count(created)
	}

	for _, pf := range f.Prefixes {
		p := models.Prefix{Prefix: pf.Prefix, Description: pf.Description}
		created, err := firstOrCreate(db, &p, "prefix = ?", pf.Prefix)
		if err != nil {
			return res, fmt.Errorf("seed prefix %s: %w", pf.Prefix, err)
		}
		s.prefix[pf.Prefix] = p.ID
		res.count(created)
	}

	for _, name := range f.Tags {
		slug, err := slugify(name)
		if err != nil {
			return res, err
		}
		tag := models.Tag{Name: name, Slug: slug}
		created, err := firstOrCreate(db, &tag, "slug = ?", tag.Slug)
		if err != nil {
			return res, fmt.Errorf("seed tag %s: %w", name, err)
		}
		s.tags[tag.Slug] = tag.ID
		res.count(created)
	}

	for _, seed := range f.ACLs {
		if err := s.applyAccessList(ctx, seed, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *seeder) applyAccessList(ctx context.Context, seed AccessListSeed, res *seedResult) error {
	deviceID, ok := s.devices[seed.Device]
	if !ok {
		return fmt.Errorf("%w: device %q", errUnknownReference, seed.Device)
	}
	tagIDs, err := s.tagIDs(seed.Tags)
	if err != nil {
		return err
	}

	var existing models.AccessList
	err = s.db.WithContext(ctx).Where("device_id = ? AND name = ?", deviceID, seed.Name).First(&existing).Error
	switch {
	case err == nil:
		res.count(false)
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("look up access list %s: %w", seed.Name, err)
	}

	acl, err := s.acls.Create(ctx, services.AccessListInput{
		Name:          seed.Name,
		DeviceID:      deviceID,
		Type:          models.ACLType(seed.Type),
		DefaultAction: models.ACLAction(seed.DefaultAction),
		Comments:      seed.Comments,
		Tags:          tagIDs,
	})
	if err != nil {
		return fmt.Errorf("seed access list %s on %s: %w", seed.Name, seed.Device, err)
	}
	res.count(true)

	for _, rule := range seed.Rules {
		if err := s.applyRule(ctx, acl, rule); err != nil {
			return fmt.Errorf("seed rule %d of %s: %w", rule.Index, seed.Name, err)
		}
		res.count(true)
	}
	return nil
}

func (s *seeder) applyRule(ctx context.Context, acl *models.AccessList, seed RuleSeed) error {
	tagIDs, err := s.tagIDs(seed.Tags)
	if err != nil {
		return err
	}
	source, err := optionalRef(s.prefix, "prefix", seed.Source)
	if err != nil {
		return err
	}

	if acl.Type == models.ACLTypeStandard {
		_, err = s.rules.CreateStandard(ctx, services.StandardRuleInput{
			AccessListID:   acl.ID,
			Index:          seed.Index,
			Remark:         seed.Remark,
			Action:         models.ACLAction(seed.Action),
			SourcePrefixID: source,
			Tags:           tagIDs,
		})
		return err
	}

	destination, err := optionalRef(s.prefix, "prefix", seed.Destination)
	if err != nil {
		return err
	}
	_, err = s.rules.CreateExtended(ctx, services.ExtendedRuleInput{
		AccessListID:        acl.ID,
		Index:               seed.Index,
		Remark:              seed.Remark,
		Action:              models.ACLAction(seed.Action),
		SourcePrefixID:      source,
		SourcePorts:         seed.SourcePorts,
		DestinationPrefixID: destination,
		DestinationPorts:    seed.DestinationPorts,
		Protocol:            models.ACLProtocol(seed.Protocol),
		Tags:                tagIDs,
	})
	return err
}

func (s *seeder) tagIDs(slugs []string) ([]uint, error) {
	ids := make([]uint, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := s.tags[slug]
		if !ok {
			return nil, fmt.Errorf("%w: tag %q", errUnknownReference, slug)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// firstOrCreate loads the record matching query into dest, creating dest
// when none exists.
func firstOrCreate(db *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := db.Where(query, args...).First(dest).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, db.Create(dest).Error
}

func optionalRef(ids map[string]uint, kind, name string) (*uint, error) {
	if name == "" {
		return nil, nil
	}
	id, ok := ids[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", errUnknownReference, kind, name)
	}
	return &id, nil
}
