package world

import "container/heap"

const diagonalCost = 1.45

type node struct {
	idx   int
	f     float64
	index int
}

type openSet []*node

func (s openSet) Len() int           { return len(s) }
func (s openSet) Less(i, j int) bool { return s[i].f < s[j].f }
func (s openSet) Swap(i, j int)      { s[i], s[j] = s[j], s[i]; s[i].index = i; s[j].index = j }
func (s *openSet) Push(x any)        { n := x.(*node); n.index = len(*s); *s = append(*s, n) }
func (s *openSet) Pop() any          { old := *s; n := old[len(old)-1]; *s = old[:len(old)-1]; return n }

// FindPath runs A* over walkable tiles with 8-way movement. The destination
// may be blocked (it is usually occupied by the target). The returned path
// starts at from and ends at to.
func FindPath(m *Map, from, to Point) ([]Point, bool) {
	if !m.InBounds(from) || !m.InBounds(to) {
		return nil, false
	}
	start, goal := m.IdxOf(from), m.IdxOf(to)
	g := map[int]float64{start: 0}
	parent := map[int]int{}
	closed := map[int]bool{}
	open := &openSet{{idx: start, f: Distance(from, to)}}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if cur.idx == goal {
			return rebuild(m, parent, start, goal), true
		}
		if closed[cur.idx] {
			continue
		}
		closed[cur.idx] = true
		cp := m.PointOf(cur.idx)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				np := cp.Add(dx, dy)
				if !m.InBounds(np) {
					continue
				}
				ni := m.IdxOf(np)
				if ni != goal && !m.Walkable(np) {
					continue
				}
				step := 1.0
				if dx != 0 && dy != 0 {
					step = diagonalCost
				}
				cost := g[cur.idx] + step
				if old, ok := g[ni]; ok && old <= cost {
					continue
				}
				g[ni] = cost
				parent[ni] = cur.idx
				heap.Push(open, &node{idx: ni, f: cost + Distance(np, to)})
			}
		}
		if len(closed) > len(m.Tiles) {
			break
		}
	}
	return nil, false
}

func rebuild(m *Map, parent map[int]int, start, goal int) []Point {
	steps := []Point{m.PointOf(goal)}
	for cur := goal; cur != start; {
		cur = parent[cur]
		steps = append(steps, m.PointOf(cur))
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
