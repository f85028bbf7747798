package types

import (
	"strings"
	"time"
)

// Profile is a named, isolated collection of waypoints for one world or
// save. WaypointCount is a derived value filled in by the store; listing
// profiles does not hydrate their waypoints.
type Profile struct {
	ProfileID     string    // UUID v7, generated on creation.
	Name          string    // Unique among profiles, case-insensitively.
	Seed          string    // World seed, free text, may be empty.
	CreatedAt     time.Time // Timestamp of creation.
	WaypointCount int       // Number of waypoints owned by the profile.
}

// ValidateProfileName checks that a profile name is non-empty and not
// whitespace-only. Uniqueness is enforced by the store, not here.
func ValidateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}
