package model

import (
	"time"
)

// Default theme values used by the migration bootstrap.
const (
	DefaultPrimaryColor   = "#1a1a1a"
	DefaultSecondaryColor = "#f5f5f0"
	DefaultAccentColor    = "#c9a227"
)

// SiteTheme is the single global theme record. Exactly one row is intended to
// exist; it is created by an explicit bootstrap during migration rather than
// as a side effect of the first read. Version increments on every update so
// clients can cheaply detect changes.
type SiteTheme struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	PrimaryColor   string    `gorm:"type:varchar(20);not null" json:"primary_color"`
	SecondaryColor string    `gorm:"type:varchar(20);not null" json:"secondary_color"`
	AccentColor    string    `gorm:"type:varchar(20);not null" json:"accent_color"`
	IsDarkMode     bool      `gorm:"default:false" json:"is_dark_mode"`
	Version        int       `gorm:"default:1" json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (SiteTheme) TableName() string {
	return "site_theme"
}

// DefaultTheme returns the bootstrap values for a fresh install.
func DefaultTheme() SiteTheme {
	return SiteTheme{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		AccentColor:    DefaultAccentColor,
		IsDarkMode:     false,
		Version:        1,
	}
}
