package world

// FieldOfView returns every tile visible from origin within radius, casting
// Bresenham lines to the perimeter of the bounding square. The first opaque
// tile on a line is visible; tiles behind it are not.
func FieldOfView(origin Point, radius int, m *Map) []Point {
	seen := make(map[Point]struct{}, (2*radius+1)*(2*radius+1))
	out := make([]Point, 0, len(seen))
	add := func(p Point) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if m.InBounds(origin) {
		add(origin)
	}
	r := float64(radius)
	cast := func(dest Point) {
		castLine(origin, dest, func(p Point) bool {
			if !m.InBounds(p) || Distance(origin, p) > r {
				return false
			}
			add(p)
			return !m.IsOpaque(p)
		})
	}
	for i := -radius; i <= radius; i++ {
		cast(origin.Add(i, -radius))
		cast(origin.Add(i, radius))
		cast(origin.Add(-radius, i))
		cast(origin.Add(radius, i))
	}
	return out
}

// castLine walks from a (exclusive) toward b, calling visit for each tile
// until visit returns false or b is reached.
func castLine(a, b Point, visit func(Point) bool) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	errv := dx + dy
	x, y := a.X, a.Y
	for x != b.X || y != b.Y {
		e2 := 2 * errv
		if e2 >= dy {
			errv += dy
			x += sx
		}
		if e2 <= dx {
			errv += dx
			y += sy
		}
		if !visit(Point{X: x, Y: y}) {
			return
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
