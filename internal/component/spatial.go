package component

import "github.com/rlcore/dungeon/internal/world"

// Position places an entity on the current level.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Point() world.Point { return world.Point{X: p.X, Y: p.Y} }

// Color is an RGB triple.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Renderable is what the renderer draws at an entity's position. When several
// entities share a tile the lowest RenderOrder is drawn last (on top).
type Renderable struct {
	Glyph       rune  `json:"glyph"`
	FG          Color `json:"fg"`
	BG          Color `json:"bg"`
	RenderOrder int   `json:"render_order"`
}

// Viewshed is the set of tiles an entity can see. Dirty requests a recompute.
type Viewshed struct {
	VisibleTiles []world.Point `json:"visible_tiles"`
	Range        int           `json:"range"`
	Dirty        bool          `json:"dirty"`
}

// CanSee reports whether p is among the visible tiles.
func (v *Viewshed) CanSee(p world.Point) bool {
	for _, t := range v.VisibleTiles {
		if t == p {
			return true
		}
	}
	return false
}

// Name is the display name used in the game log.
type Name struct {
	Name string `json:"name"`
}
