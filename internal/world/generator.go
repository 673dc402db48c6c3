package world

import "math/rand"

// Generator builds a level. Implementations decide room layout; the caller
// decides what lives in it.
type Generator interface {
	Generate(depth int) *Map
}

// RoomsAndCorridors scatters non-overlapping rectangular rooms and joins
// consecutive rooms with L-shaped corridors. The down stairs sit at the
// centre of the last room.
type RoomsAndCorridors struct {
	Width, Height    int
	MaxRooms         int
	MinSize, MaxSize int
	Rng              *rand.Rand
}

func (g *RoomsAndCorridors) Generate(depth int) *Map {
	m := NewMap(g.Width, g.Height, depth)
	for i := 0; i < g.MaxRooms; i++ {
		w := g.between(g.MinSize, g.MaxSize)
		h := g.between(g.MinSize, g.MaxSize)
		if g.Width-w-1 < 1 || g.Height-h-1 < 1 {
			continue
		}
		room := NewRect(g.between(1, g.Width-w-1)-1, g.between(1, g.Height-h-1)-1, w, h)
		ok := true
		for _, other := range m.Rooms {
			if room.Intersects(other) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		carveRoom(m, room)
		if n := len(m.Rooms); n > 0 {
			a, b := room.Center(), m.Rooms[n-1].Center()
			if g.Rng.Intn(2) == 1 {
				carveH(m, b.X, a.X, b.Y)
				carveV(m, b.Y, a.Y, a.X)
			} else {
				carveV(m, b.Y, a.Y, b.X)
				carveH(m, b.X, a.X, a.Y)
			}
		}
		m.Rooms = append(m.Rooms, room)
	}
	if n := len(m.Rooms); n > 0 {
		m.Tiles[m.IdxOf(m.Rooms[n-1].Center())] = TileDownStairs
	}
	m.PopulateBlocked()
	return m
}

// between returns a value in [lo, hi].
func (g *RoomsAndCorridors) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.Rng.Intn(hi-lo+1)
}

func carveRoom(m *Map, r Rect) {
	for y := r.Y1 + 1; y <= r.Y2; y++ {
		for x := r.X1 + 1; x <= r.X2; x++ {
			m.setFloor(x, y)
		}
	}
}

func carveH(m *Map, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		m.setFloor(x, y)
	}
}

func carveV(m *Map, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		m.setFloor(x, y)
	}
}

func (m *Map) setFloor(x, y int) {
	p := Point{X: x, Y: y}
	if m.Interior(p) {
		m.Tiles[m.IdxOf(p)] = TileFloor
	}
}
