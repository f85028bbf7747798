package types

import (
	"strings"
	"time"
)

// Waypoint categories. Every waypoint carries exactly one category; values
// outside this set are rejected at validation.
const (
	CategoryStructure = "structure"
	CategoryBiome     = "biome"
	CategoryBase      = "base"
	CategoryResource  = "resource"
	CategoryOther     = "other"
)

// validCategories is the set of recognized category values.
var validCategories = map[string]bool{
	CategoryStructure: true,
	CategoryBiome:     true,
	CategoryBase:      true,
	CategoryResource:  true,
	CategoryOther:     true,
}

// StandardCategories lists all category values for enumeration.
var StandardCategories = []string{
	CategoryStructure,
	CategoryBiome,
	CategoryBase,
	CategoryResource,
	CategoryOther,
}

// categoryIcons maps each category to its default marker icon.
var categoryIcons = map[string]string{
	CategoryStructure: "fortress",
	CategoryBiome:     "tree",
	CategoryBase:      "home",
	CategoryResource:  "pickaxe",
	CategoryOther:     "flag",
}

// DefaultIcon returns the default marker icon for a category, or the icon
// for CategoryOther when the category is not recognized.
func DefaultIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

// Waypoint is one saved location inside a profile.
type Waypoint struct {
	WaypointID string     // UUID v7, generated on creation, never reused.
	Name       string     // Display name (required, non-empty).
	Category   string     // One of the Category constants.
	Coordinate Coordinate // Position and dimension.
	Icon       string     // Marker override; empty means the category default.
	Notes      string     // Free text.
	CreatedAt  time.Time  // Timestamp of creation.
	UpdatedAt  time.Time  // Timestamp of last modification, never decreasing.
}

// Validate checks the waypoint fields. It returns ErrInvalidName when the
// name is empty or whitespace-only, ErrInvalidCategory for an unrecognized
// category, and ErrInvalidDimension for an unrecognized dimension label.
func (w *Waypoint) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrInvalidName
	}
	if !validCategories[w.Category] {
		return ErrInvalidCategory
	}
	return w.Coordinate.Validate()
}

// EffectiveIcon returns the icon override when set, otherwise the category
// default.
func (w *Waypoint) EffectiveIcon() string {
	if w.Icon != "" {
		return w.Icon
	}
	return DefaultIcon(w.Category)
}

// Touch bumps UpdatedAt to now, clamped so it never moves backwards even if
// the wall clock does.
func (w *Waypoint) Touch(now time.Time) {
	if now.Before(w.UpdatedAt) {
		return
	}
	w.UpdatedAt = now
}

// WaypointDraft carries the caller-settable fields for waypoint creation.
// The store assigns the ID and timestamps. An empty Category defaults to
// CategoryOther; an empty Coordinate.Dimension defaults to
// DimensionOverworld.
type WaypointDraft struct {
	Name       string
	Category   string
	Coordinate Coordinate
	Icon       string
	Notes      string
}

// WaypointPatch carries a partial update for an existing waypoint. Nil
// fields are left unchanged.
type WaypointPatch struct {
	Name       *string
	Category   *string
	Coordinate *Coordinate
	Icon       *string
	Notes      *string
}

// Apply merges the patch into a copy of the waypoint and returns it. The
// caller re-validates the merged result before persisting.
func (p WaypointPatch) Apply(w Waypoint) Waypoint {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Category != nil {
		w.Category = *p.Category
	}
	if p.Coordinate != nil {
		w.Coordinate = *p.Coordinate
	}
	if p.Icon != nil {
		w.Icon = *p.Icon
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	return w
}
