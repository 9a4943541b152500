package models

// The records below belong to the surrounding inventory. This service only
// reads them to resolve references from access lists and rules.

type Region struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
	Slug string `json:"slug" gorm:"uniqueIndex"`
}

type SiteGroup struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
	Slug string `json:"slug" gorm:"uniqueIndex"`
}

// Site optionally belongs to a region and a site group.
type Site struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug" gorm:"uniqueIndex"`
	RegionID *uint      `json:"region_id" gorm:"index"`
	Region   *Region    `json:"region,omitempty"`
	GroupID  *uint      `json:"group_id" gorm:"index"`
	Group    *SiteGroup `json:"group,omitempty"`
}

type Device struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"index"`
	SiteID uint   `json:"site_id" gorm:"index"`
	Site   *Site  `json:"site,omitempty"`
}

// Prefix is an IPv4 or IPv6 network in CIDR notation.
type Prefix struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Prefix      string `json:"prefix" gorm:"uniqueIndex"`
	Description string `json:"description"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
	Slug string `json:"slug" gorm:"uniqueIndex"`
}
