package game

// Config holds demo configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible wall
	// placement. A seed of 0 means a random seed will be generated.
	Seed int64

	// Map dimensions in cells.
	Width  int
	Height int

	// ViewRange is the observer's starting view range in cells.
	ViewRange int

	// WallCount is how many random walls to scatter at startup.
	WallCount int
}

// Default map and view parameters.
const (
	DefaultWidth     = 35
	DefaultHeight    = 35
	DefaultViewRange = 5
	DefaultWallCount = 100
)

// withDefaults fills in zero-valued fields.
func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.ViewRange == 0 {
		c.ViewRange = DefaultViewRange
	}
	if c.WallCount <= 0 {
		c.WallCount = DefaultWallCount
	}
	return c
}
