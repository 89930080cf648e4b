package preset

import (
	"fmt"

	"github.com/samdwyer/sightline/grid"
)

// Preset is a named wall layout. Rows use '#' for walls and '.' for floor;
// all rows must have the same length.
type Preset struct {
	Name string   `json:"name"`
	Rows []string `json:"rows"`
}

// presetFiles lists the embedded layouts in display order.
var presetFiles = []string{
	"pillars.json",
	"corridor.json",
	"diagonal.json",
	"rooms.json",
}

// All loads every embedded preset in a stable order.
func All() ([]Preset, error) {
	presets := make([]Preset, 0, len(presetFiles))
	for _, filename := range presetFiles {
		p, err := Load[Preset](filename)
		if err != nil {
			return nil, err
		}
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("invalid preset %s: %w", filename, err)
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// Width returns the layout width in cells.
func (p Preset) Width() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return len(p.Rows[0])
}

// Height returns the layout height in cells.
func (p Preset) Height() int {
	return len(p.Rows)
}

// Apply clears the map's walls and stamps the layout centered on the map.
// Layout cells that fall outside the map are dropped.
func (p Preset) Apply(m *grid.Map) {
	m.ClearOpacity()

	offsetX := (m.Width() - p.Width()) / 2
	offsetY := (m.Height() - p.Height()) / 2

	for y, row := range p.Rows {
		for x := 0; x < len(row); x++ {
			if row[x] == '#' {
				m.SetOpaque(offsetX+x, offsetY+y)
			}
		}
	}
}

func (p Preset) validate() error {
	if p.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(p.Rows) == 0 {
		return fmt.Errorf("no rows")
	}
	width := len(p.Rows[0])
	for i, row := range p.Rows {
		if len(row) != width {
			return fmt.Errorf("row %d has length %d, want %d", i, len(row), width)
		}
		for j := 0; j < len(row); j++ {
			if row[j] != '#' && row[j] != '.' {
				return fmt.Errorf("row %d has unknown cell %q", i, row[j])
			}
		}
	}
	return nil
}
