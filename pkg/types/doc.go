// Package types defines the Store interface, the entity types (Coordinate,
// Waypoint, Profile), the query specification, and the standard error values
// for the Waymark coordinate registry.
package types
