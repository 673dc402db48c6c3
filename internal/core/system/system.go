package system

import "github.com/rlcore/dungeon/internal/core/ecs"

// System is the interface every ECS system implements. R is the resource
// bundle injected into each run; structural changes go through cmd.
type System[R any] interface {
	Name() string
	Run(w *ecs.World, cmd *ecs.CommandBuffer, res R)
}

// ResourceWriter is implemented by systems that mutate shared resources.
// Two systems in the same group may not write the same resource.
type ResourceWriter interface {
	Writes() []string
}

// Func adapts a plain function to System.
type Func[R any] struct {
	Label     string
	Resources []string
	Fn        func(w *ecs.World, cmd *ecs.CommandBuffer, res R)
}

func (f Func[R]) Name() string     { return f.Label }
func (f Func[R]) Writes() []string { return f.Resources }
func (f Func[R]) Run(w *ecs.World, cmd *ecs.CommandBuffer, res R) {
	f.Fn(w, cmd, res)
}
