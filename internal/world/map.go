package world

import (
	"fmt"

	"github.com/rlcore/dungeon/internal/core/ecs"
)

// TileType is the terrain of one tile.
type TileType uint8

const (
	TileWall TileType = iota
	TileFloor
	TileDownStairs
)

// Map is one dungeon level. Everything except TileContent is persisted
// verbatim in snapshots; TileContent is rebuilt by the map indexing system.
type Map struct {
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Depth    int        `json:"depth"`
	Tiles    []TileType `json:"tiles"`
	Rooms    []Rect     `json:"rooms"`
	Revealed []bool     `json:"revealed"`
	Visible  []bool     `json:"visible"`
	Blocked  []bool     `json:"blocked"`

	TileContent [][]ecs.EntityID `json:"-"`
}

// NewMap returns a level of solid wall.
func NewMap(width, height, depth int) *Map {
	n := width * height
	return &Map{
		Width:       width,
		Height:      height,
		Depth:       depth,
		Tiles:       make([]TileType, n),
		Rooms:       make([]Rect, 0, 16),
		Revealed:    make([]bool, n),
		Visible:     make([]bool, n),
		Blocked:     make([]bool, n),
		TileContent: make([][]ecs.EntityID, n),
	}
}

// Validate checks that a decoded map is internally consistent: a non-negative
// size, one entry per tile in every per-tile slice and known tile types.
func (m *Map) Validate() error {
	if m.Width < 0 || m.Height < 0 {
		return fmt.Errorf("negative size %dx%d", m.Width, m.Height)
	}
	n := m.Width * m.Height
	for name, got := range map[string]int{
		"tiles":    len(m.Tiles),
		"revealed": len(m.Revealed),
		"visible":  len(m.Visible),
		"blocked":  len(m.Blocked),
	} {
		if got != n {
			return fmt.Errorf("%s has %d entries, want %d", name, got, n)
		}
	}
	for i, t := range m.Tiles {
		if t > TileDownStairs {
			return fmt.Errorf("tile %d has unknown type %d", i, t)
		}
	}
	for _, r := range m.Rooms {
		if r.X1 < 0 || r.Y1 < 0 || r.X2 >= m.Width || r.Y2 >= m.Height {
			return fmt.Errorf("room %v outside %dx%d map", r, m.Width, m.Height)
		}
	}
	return nil
}

func (m *Map) Idx(x, y int) int { return y*m.Width + x }

func (m *Map) IdxOf(p Point) int { return m.Idx(p.X, p.Y) }

func (m *Map) PointOf(idx int) Point {
	return Point{X: idx % m.Width, Y: idx / m.Width}
}

func (m *Map) InBounds(p Point) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// Interior reports whether p lies inside the outer wall ring.
func (m *Map) Interior(p Point) bool {
	return p.X > 0 && p.X < m.Width-1 && p.Y > 0 && p.Y < m.Height-1
}

func (m *Map) IsOpaque(p Point) bool {
	return !m.InBounds(p) || m.Tiles[m.IdxOf(p)] == TileWall
}

func (m *Map) TileAt(p Point) TileType {
	if !m.InBounds(p) {
		return TileWall
	}
	return m.Tiles[m.IdxOf(p)]
}

// PopulateBlocked resets the blocked flags to "walls only".
func (m *Map) PopulateBlocked() {
	for i, t := range m.Tiles {
		m.Blocked[i] = t == TileWall
	}
}

// ClearContent empties the per-tile entity lists, allocating them if the map
// was just decoded.
func (m *Map) ClearContent() {
	if len(m.TileContent) != len(m.Tiles) {
		m.TileContent = make([][]ecs.EntityID, len(m.Tiles))
		return
	}
	for i := range m.TileContent {
		m.TileContent[i] = m.TileContent[i][:0]
	}
}

// ContentAt returns the entities indexed on tile p.
func (m *Map) ContentAt(p Point) []ecs.EntityID {
	if !m.InBounds(p) || len(m.TileContent) == 0 {
		return nil
	}
	return m.TileContent[m.IdxOf(p)]
}

// ClearVisible hides every tile; revealed flags persist.
func (m *Map) ClearVisible() {
	for i := range m.Visible {
		m.Visible[i] = false
	}
}

// Reveal marks p visible and remembered.
func (m *Map) Reveal(p Point) {
	i := m.IdxOf(p)
	m.Visible[i] = true
	m.Revealed[i] = true
}

// RetainInterior drops points on or beyond the outer wall ring.
func (m *Map) RetainInterior(pts []Point) []Point {
	out := pts[:0]
	for _, p := range pts {
		if m.Interior(p) {
			out = append(out, p)
		}
	}
	return out
}

// Walkable reports whether a mover may step onto p.
func (m *Map) Walkable(p Point) bool {
	return m.InBounds(p) && !m.Blocked[m.IdxOf(p)]
}
