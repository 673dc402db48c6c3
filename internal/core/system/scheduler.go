package system

import (
	"github.com/rlcore/dungeon/internal/core/ecs"
	"go.uber.org/zap"
)

// RunStats summarises one pipeline run.
type RunStats struct {
	Groups   int
	Commands int
	Skipped  int
}

type slot[R any] struct {
	sys System[R]
	buf *ecs.CommandBuffer
}

// Scheduler executes systems in declaration order, grouped by flush barriers.
// Systems in a group see the world as it was when the group started (no
// structural edits from their siblings); at each barrier the group's command
// buffers are applied in declaration order before the next group runs.
type Scheduler[R any] struct {
	name   string
	groups [][]slot[R]
	open   []slot[R]
	log    *zap.Logger
}

func NewScheduler[R any](name string, log *zap.Logger) *Scheduler[R] {
	return &Scheduler[R]{
		name:   name,
		groups: make([][]slot[R], 0, 8),
		log:    log,
	}
}

func (s *Scheduler[R]) Name() string { return s.name }

// Register appends systems to the open group. It panics when two systems of
// the group declare a write to the same resource.
func (s *Scheduler[R]) Register(systems ...System[R]) *Scheduler[R] {
	for _, sys := range systems {
		if w, ok := sys.(ResourceWriter); ok {
			for _, res := range w.Writes() {
				for _, other := range s.open {
					if ow, ok := other.sys.(ResourceWriter); ok && contains(ow.Writes(), res) {
						panic("system: " + sys.Name() + " and " + other.sys.Name() + " both write " + res + " in one group of " + s.name)
					}
				}
			}
		}
		s.open = append(s.open, slot[R]{sys: sys, buf: ecs.NewCommandBuffer()})
	}
	return s
}

// Flush closes the open group behind a barrier.
func (s *Scheduler[R]) Flush() *Scheduler[R] {
	if len(s.open) == 0 {
		return s
	}
	s.groups = append(s.groups, s.open)
	s.open = nil
	return s
}

// Len returns the number of systems in the pipeline.
func (s *Scheduler[R]) Len() int {
	n := len(s.open)
	for _, g := range s.groups {
		n += len(g)
	}
	return n
}

// Run executes the whole pipeline once. A trailing open group is flushed as
// if a barrier followed it.
func (s *Scheduler[R]) Run(w *ecs.World, res R) RunStats {
	s.Flush()
	var stats RunStats
	for _, group := range s.groups {
		for _, sl := range group {
			sl.sys.Run(w, sl.buf, res)
		}
		for _, sl := range group {
			stats.Commands += sl.buf.Len()
			stats.Skipped += sl.buf.Apply(w)
		}
		stats.Groups++
	}
	s.log.Debug("pipeline run",
		zap.String("pipeline", s.name),
		zap.Int("groups", stats.Groups),
		zap.Int("commands", stats.Commands),
		zap.Int("skipped", stats.Skipped),
	)
	return stats
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
