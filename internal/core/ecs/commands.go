package ecs

// Part is a component value or tag ready to be attached to an entity.
type Part interface {
	Kind() Kind
	attach(w *World, e EntityID)
}

type valuePart[T any] struct{ v T }

func (p valuePart[T]) Kind() Kind                  { return KindOf[T]() }
func (p valuePart[T]) attach(w *World, e EntityID) { Set(w, e, p.v) }

type markerPart[T any] struct{}

func (markerPart[T]) Kind() Kind                  { return KindOf[T]() }
func (markerPart[T]) attach(w *World, e EntityID) { AddTag[T](w, e) }

// Value wraps a component value as a Part.
func Value[T any](v T) Part { return valuePart[T]{v: v} }

// Marker wraps tag T as a Part.
func Marker[T any]() Part { return markerPart[T]{} }

type opCode uint8

const (
	opSpawn opCode = iota
	opDespawn
	opInsert
	opRemove
)

type command struct {
	op    opCode
	e     EntityID
	parts []Part
	kinds []Kind
}

// CommandBuffer records structural mutations while a system iterates and
// replays them against the World at the next flush.
type CommandBuffer struct {
	cmds []command
}

func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{cmds: make([]command, 0, 16)}
}

// Spawn records creation of an entity carrying parts.
func (b *CommandBuffer) Spawn(parts ...Part) {
	b.cmds = append(b.cmds, command{op: opSpawn, parts: parts})
}

// Despawn records deletion of e.
func (b *CommandBuffer) Despawn(e EntityID) {
	b.cmds = append(b.cmds, command{op: opDespawn, e: e})
}

// Insert records attaching parts to e, replacing values of the same kind.
func (b *CommandBuffer) Insert(e EntityID, parts ...Part) {
	b.cmds = append(b.cmds, command{op: opInsert, e: e, parts: parts})
}

// Remove records detaching the given component or tag kinds from e.
func (b *CommandBuffer) Remove(e EntityID, kinds ...Kind) {
	b.cmds = append(b.cmds, command{op: opRemove, e: e, kinds: kinds})
}

// Len returns the number of recorded commands.
func (b *CommandBuffer) Len() int { return len(b.cmds) }

// Apply replays every recorded command in recording order, then clears the
// buffer. Commands aimed at an entity that is no longer alive (for example
// despawned by an earlier command) are skipped; it returns how many were.
func (b *CommandBuffer) Apply(w *World) (skipped int) {
	cmds := b.cmds
	b.cmds = b.cmds[:0]
	for _, c := range cmds {
		switch c.op {
		case opSpawn:
			e := w.Spawn()
			for _, p := range c.parts {
				p.attach(w, e)
			}
		case opDespawn:
			if !w.Alive(c.e) {
				skipped++
				continue
			}
			w.Despawn(c.e)
		case opInsert:
			if !w.Alive(c.e) {
				skipped++
				continue
			}
			for _, p := range c.parts {
				p.attach(w, c.e)
			}
		case opRemove:
			if !w.Alive(c.e) {
				skipped++
				continue
			}
			for _, k := range c.kinds {
				w.RemoveKind(c.e, k)
			}
		}
	}
	return skipped
}
