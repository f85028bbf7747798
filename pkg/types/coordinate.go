package types

import "fmt"

// Dimension labels. A coordinate belongs to exactly one dimension; an unset
// label is treated as DimensionOverworld at waypoint creation.
const (
	DimensionOverworld = "overworld"
	DimensionNether    = "nether"
	DimensionEnd       = "end"
)

// validDimensions is the set of recognized dimension labels.
var validDimensions = map[string]bool{
	DimensionOverworld: true,
	DimensionNether:    true,
	DimensionEnd:       true,
}

// StandardDimensions lists all dimension labels for enumeration.
var StandardDimensions = []string{
	DimensionOverworld,
	DimensionNether,
	DimensionEnd,
}

// nether portal scale: one nether block spans eight overworld blocks on
// the X and Z axes.
const netherScale = 8

// Coordinate is a block position in one dimension.
type Coordinate struct {
	X         int64  `json:"x"`
	Y         int64  `json:"y"`
	Z         int64  `json:"z"`
	Dimension string `json:"dimension,omitempty"`
}

// Validate checks the dimension label. An empty label is accepted; any other
// value outside the standard set returns ErrInvalidDimension.
func (c Coordinate) Validate() error {
	if c.Dimension == "" {
		return nil
	}
	if !validDimensions[c.Dimension] {
		return ErrInvalidDimension
	}
	return nil
}

// EffectiveDimension returns the dimension label, defaulting to
// DimensionOverworld when unset.
func (c Coordinate) EffectiveDimension() string {
	if c.Dimension == "" {
		return DimensionOverworld
	}
	return c.Dimension
}

// Linked returns the portal-linked coordinate in the paired dimension:
// overworld X/Z divide by eight going to the nether, nether X/Z multiply by
// eight coming back. Y is unchanged. The second return is false for the end
// dimension, which has no portal pairing.
func (c Coordinate) Linked() (Coordinate, bool) {
	switch c.EffectiveDimension() {
	case DimensionOverworld:
		return Coordinate{X: c.X / netherScale, Y: c.Y, Z: c.Z / netherScale, Dimension: DimensionNether}, true
	case DimensionNether:
		return Coordinate{X: c.X * netherScale, Y: c.Y, Z: c.Z * netherScale, Dimension: DimensionOverworld}, true
	default:
		return Coordinate{}, false
	}
}

// TeleportCommand returns the in-game teleport command for this coordinate,
// suitable for pasting into the game chat.
func (c Coordinate) TeleportCommand() string {
	return fmt.Sprintf("/tp %d %d %d", c.X, c.Y, c.Z)
}

// String formats the coordinate as "X/Y/Z (dimension)".
func (c Coordinate) String() string {
	return fmt.Sprintf("%d/%d/%d (%s)", c.X, c.Y, c.Z, c.EffectiveDimension())
}
