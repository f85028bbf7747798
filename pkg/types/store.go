package types

import "errors"

// Store is the single entry point callers use: profile lifecycle, waypoint
// CRUD, and query dispatch. Implementations serialize every operation under
// one mutual-exclusion scope and persist the full store before a mutating
// call returns (write-through): a mutation either fully applies on disk and
// in memory, or leaves both unchanged.
type Store interface {
	// Open attaches the store to the data directory described by config,
	// loading the persisted document and building the query index. A missing
	// backing file yields an empty store. An unreadable backing file is
	// preserved aside and reported through Warnings. Returns ErrAlreadyOpen
	// if called while open, and ErrUnsupportedVersion for a backing file
	// from a newer format.
	Open(config Config) error

	// Close releases backend resources. Idempotent: multiple calls succeed.
	// After Close, all other operations return ErrStoreClosed.
	Close() error

	// Warnings returns warnings recorded by the most recent Open, such as a
	// corrupt backing file having been preserved aside.
	Warnings() []string

	// SetOnChange registers fn to be called after every successful mutation,
	// once the new state is durable. fn runs outside the store's lock. A nil
	// fn clears the registration.
	SetOnChange(fn func())

	// Profiles lists all profiles ordered by name, case-insensitively.
	Profiles() ([]Profile, error)

	// ActiveProfile returns the active profile, or nil when none is active.
	ActiveProfile() (*Profile, error)

	// CreateProfile creates a profile with the given name and returns its
	// ID. Returns ErrDuplicateName if the name is already used by another
	// profile, compared case-insensitively.
	CreateProfile(name string) (string, error)

	// RenameProfile changes a profile's name under the same uniqueness rule
	// as CreateProfile. Returns ErrProfileNotFound for an unknown ID.
	RenameProfile(profileID, name string) error

	// DeleteProfile removes a profile and all its waypoints. Irreversible.
	// Clears the active pointer if the deleted profile was active. Returns
	// ErrProfileNotFound for an unknown ID.
	DeleteProfile(profileID string) error

	// SetActiveProfile switches the active profile pointer. Returns
	// ErrProfileNotFound for an unknown ID.
	SetActiveProfile(profileID string) error

	// SetProfileSeed records the world seed on a profile.
	SetProfileSeed(profileID, seed string) error

	// AddWaypoint validates the draft, assigns an ID and timestamps, and
	// persists the new waypoint. Returns the assigned waypoint ID.
	AddWaypoint(profileID string, draft WaypointDraft) (string, error)

	// GetWaypoint retrieves one waypoint. Returns ErrWaypointNotFound if the
	// profile has no waypoint with that ID.
	GetWaypoint(profileID, waypointID string) (*Waypoint, error)

	// UpdateWaypoint merges the patch into the stored waypoint, re-validates
	// the result, and bumps UpdatedAt.
	UpdateWaypoint(profileID, waypointID string, patch WaypointPatch) error

	// DeleteWaypoint removes one waypoint. Irreversible.
	DeleteWaypoint(profileID, waypointID string) error

	// Query returns the waypoints matching the specification, totally
	// ordered per the Query sort rules. Returns ErrProfileNotFound for an
	// unknown profile ID.
	Query(profileID string, query Query) ([]*Waypoint, error)
}

// Store lifecycle errors.
var (
	ErrStoreClosed        = errors.New("store is closed")
	ErrAlreadyOpen        = errors.New("store is already open")
	ErrCorruptStore       = errors.New("store file is corrupt")
	ErrUnsupportedVersion = errors.New("store file version is not supported")
)

// Store operation errors.
var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrWaypointNotFound = errors.New("waypoint not found")
	ErrDuplicateName    = errors.New("profile name already in use")
	ErrInvalidID        = errors.New("invalid entity ID")
)

// Entity and query validation errors.
var (
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidDimension     = errors.New("invalid dimension")
	ErrInvalidSortKey       = errors.New("invalid sort key")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)
