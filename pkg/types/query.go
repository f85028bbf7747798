package types

// Sort keys for Query. SortByName is the default.
const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByCategory  = "category"
)

// Sort directions for Query. SortAscending is the default.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// validSortKeys is the set of recognized sort keys.
var validSortKeys = map[string]bool{
	SortByName:      true,
	SortByCreatedAt: true,
	SortByUpdatedAt: true,
	SortByCategory:  true,
}

// validSortDirections is the set of recognized sort directions.
var validSortDirections = map[string]bool{
	SortAscending:  true,
	SortDescending: true,
}

// Query is a filter and sort specification over one profile's waypoints.
// Zero values mean no constraint. Matching is a pure deterministic filter:
// Text is a case-insensitive substring match against name and notes,
// Categories are OR-ed, Dimension is an exact match. Results are totally
// ordered: ties on the sort key fall back to waypoint ID ascending.
type Query struct {
	Text          string
	Categories    []string
	Dimension     string
	SortKey       string
	SortDirection string
}

// Validate checks the query specification. Unset sort fields are accepted
// and default to name ascending. Unknown values return ErrInvalidSortKey,
// ErrInvalidSortDirection, ErrInvalidCategory, or ErrInvalidDimension.
func (q Query) Validate() error {
	if q.SortKey != "" && !validSortKeys[q.SortKey] {
		return ErrInvalidSortKey
	}
	if q.SortDirection != "" && !validSortDirections[q.SortDirection] {
		return ErrInvalidSortDirection
	}
	for _, c := range q.Categories {
		if !validCategories[c] {
			return ErrInvalidCategory
		}
	}
	if q.Dimension != "" && !validDimensions[q.Dimension] {
		return ErrInvalidDimension
	}
	return nil
}

// EffectiveSortKey returns the sort key, defaulting to SortByName.
func (q Query) EffectiveSortKey() string {
	if q.SortKey == "" {
		return SortByName
	}
	return q.SortKey
}

// EffectiveSortDirection returns the sort direction, defaulting to
// SortAscending.
func (q Query) EffectiveSortDirection() string {
	if q.SortDirection == "" {
		return SortAscending
	}
	return q.SortDirection
}
