// Package game wires the world, the pipelines, persistence and the turn
// machine into one playable session.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/config"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/core/event"
	"github.com/rlcore/dungeon/internal/persist"
	"github.com/rlcore/dungeon/internal/spawner"
	"github.com/rlcore/dungeon/internal/system"
	"github.com/rlcore/dungeon/internal/turn"
	"github.com/rlcore/dungeon/internal/world"
)

// ErrNoSave is returned by LoadGame when the store holds no snapshot.
var ErrNoSave = errors.New("no saved game")

// Session owns the world and implements turn.Driver.
type Session struct {
	ctx context.Context
	cfg config.GameConfig
	log *zap.Logger

	w     *ecs.World
	res   *system.Resources
	bus   *event.Bus
	gen   world.Generator
	spawn *spawner.Spawner

	main    *system.Pipeline
	move    *system.Pipeline
	getItem *system.Pipeline
	skip    *system.Pipeline

	codec   *persist.Codec
	store   persist.Store
	machine *turn.Machine

	playerQ   *ecs.Query
	drawQ     *ecs.Query
	backpackQ *ecs.Query
	equippedQ *ecs.Query
}

// NewSession builds a session parked on the main menu. ctx bounds store I/O.
func NewSession(ctx context.Context, cfg config.GameConfig, store persist.Store, sp *spawner.Spawner, log *zap.Logger) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	bus := event.NewBus()

	s := &Session{
		ctx: ctx,
		cfg: cfg,
		log: log,
		w:   ecs.NewWorld(),
		bus: bus,
		gen: &world.RoomsAndCorridors{
			Width:    cfg.MapWidth,
			Height:   cfg.MapHeight,
			MaxRooms: cfg.MaxRooms,
			MinSize:  cfg.MinRoomSize,
			MaxSize:  cfg.MaxRoomSize,
			Rng:      rng,
		},
		spawn: sp,

		main:    system.MainPipeline(log),
		move:    system.PlayerMovePipeline(log),
		getItem: system.GetItemPipeline(log),
		skip:    system.SkipTurnPipeline(log),

		codec: persist.NewCodec(NewSnapshotRegistry(), ecs.KindOf[component.SerializeMe](), log).
			Require("player", "position"),
		store: store,

		playerQ: ecs.NewQuery(ecs.Read[component.Position]()).Filter(ecs.With[component.Player]()),
		drawQ:   ecs.NewQuery(ecs.Read[component.Position](), ecs.Read[component.Renderable]()),
		backpackQ: ecs.NewQuery(ecs.Read[component.InBackpack](), ecs.Read[component.Name]()).
			Filter(ecs.With[component.Item]()),
		equippedQ: ecs.NewQuery(ecs.Read[component.Equipped](), ecs.Read[component.Name]()).
			Filter(ecs.With[component.Item]()),
	}
	s.res = &system.Resources{
		Map:    world.NewMap(cfg.MapWidth, cfg.MapHeight, 1),
		Log:    world.NewGameLog(),
		Events: bus,
		Rng:    rng,
	}
	s.machine = turn.NewMachine(s, turn.Menu(turn.MenuNewGame), log)

	event.Subscribe(bus, s.machine.OnPlayerDied)
	event.Subscribe(bus, func(ev event.EntityKilled) {
		s.log.Debug("entity killed", zap.String("name", ev.Name), zap.Stringer("entity", ev.Entity))
	})
	event.Subscribe(bus, func(ev event.ItemConsumed) {
		s.log.Debug("item consumed", zap.Stringer("item", ev.Item), zap.Stringer("user", ev.User))
	})
	return s
}

// UseGenerator replaces the level generator used by NewGame and NextLevel.
func (s *Session) UseGenerator(g world.Generator) { s.gen = g }

func (s *Session) World() *ecs.World            { return s.w }
func (s *Session) Resources() *system.Resources { return s.res }
func (s *Session) State() turn.State            { return s.machine.State() }

// Tick feeds one intent to the turn machine.
func (s *Session) Tick(in turn.Intent) (turn.State, error) {
	return s.machine.Tick(in)
}

// ==================== turn.Driver ====================

func (s *Session) RunMain(phase turn.Kind) {
	s.res.Phase = phase
	s.main.Run(s.w, s.res)
	s.bus.Flush()
}

func (s *Session) MovePlayer(dx, dy int) {
	s.res.Move = system.MoveDelta{DX: dx, DY: dy}
	s.move.Run(s.w, s.res)
	s.res.Move = system.MoveDelta{}
}

func (s *Session) PickUp()   { s.getItem.Run(s.w, s.res) }
func (s *Session) SkipTurn() { s.skip.Run(s.w, s.res) }

func (s *Session) TryDescend() bool { return system.TryDescend(s.res) }

func (s *Session) ItemRange(item ecs.EntityID) (int, bool) {
	r, ok := ecs.Get[component.Ranged](s.w, item)
	if !ok {
		return 0, false
	}
	return r.Range, true
}

// InTargetRange accepts tiles the player can see within rng.
func (s *Session) InTargetRange(p world.Point, rng int) bool {
	vs, ok := ecs.Get[component.Viewshed](s.w, s.res.Player)
	if !ok || !vs.CanSee(p) {
		return false
	}
	return world.Distance(s.res.PlayerPos, p) <= float64(rng)
}

func (s *Session) UseItem(item ecs.EntityID, target *world.Point) {
	ecs.Set(s.w, s.res.Player, component.WantsToUseItem{Item: ecs.RefTo(item), Target: target})
}

func (s *Session) DropItem(item ecs.EntityID) {
	ecs.Set(s.w, s.res.Player, component.WantsToDropItem{Item: ecs.RefTo(item)})
}

func (s *Session) RemoveItem(item ecs.EntityID) {
	ecs.Set(s.w, s.res.Player, component.WantsToRemoveItem{Item: ecs.RefTo(item)})
}

func (s *Session) SaveExists() bool {
	ok, err := s.store.Exists(s.ctx)
	if err != nil {
		s.log.Warn("save lookup failed", zap.Error(err))
		return false
	}
	return ok
}

func (s *Session) SaveGame() error {
	snap, err := s.codec.Save(s.w, s.res.Map)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	if err := s.store.Save(s.ctx, snap); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	s.log.Info("game saved",
		zap.String("snapshot", snap.ID.String()),
		zap.Int("depth", s.res.Map.Depth))
	return nil
}

func (s *Session) LoadGame() error {
	snap, ok, err := s.store.Load(s.ctx)
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	if !ok {
		return ErrNoSave
	}

	level := world.NewMap(0, 0, 0)
	if _, err := s.codec.Load(s.w, snap, level); err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	level.ClearContent()
	s.res.Map = level

	// the codec rejected snapshots without a positioned player
	player, _ := s.playerQ.First(s.w)
	pos, _ := ecs.Get[component.Position](s.w, player)
	s.res.Player = player
	s.res.PlayerPos = pos.Point()
	s.res.Log = world.NewGameLog("Welcome back to the dungeon.")

	s.log.Info("game loaded",
		zap.String("snapshot", snap.ID.String()),
		zap.Int("depth", level.Depth))
	return nil
}

func (s *Session) NewGame() {
	s.w = ecs.NewWorld()
	s.res.Log = world.NewGameLog("Welcome to the dungeon.")

	m := s.gen.Generate(1)
	s.res.Map = m
	start := startPoint(m)
	s.res.Player = s.spawn.Player(s.w, start)
	s.res.PlayerPos = start
	if vs, ok := ecs.Get[component.Viewshed](s.w, s.res.Player); ok && s.cfg.ViewRange > 0 {
		vs.Range = s.cfg.ViewRange
	}
	s.populate(m)

	s.log.Info("new game", zap.Int("rooms", len(m.Rooms)), zap.Int("entities", s.w.Len()))
}

// NextLevel discards everything except the player and what the player carries,
// builds the next depth and heals the player to at least half health.
func (s *Session) NextLevel() {
	keep := s.carried()
	keep[s.res.Player] = struct{}{}
	for _, e := range s.w.Entities() {
		if _, ok := keep[e]; !ok {
			s.w.Despawn(e)
		}
	}

	m := s.gen.Generate(s.res.Map.Depth + 1)
	s.res.Map = m
	start := startPoint(m)
	if pos, ok := ecs.Get[component.Position](s.w, s.res.Player); ok {
		pos.X, pos.Y = start.X, start.Y
	}
	s.res.PlayerPos = start
	if vs, ok := ecs.Get[component.Viewshed](s.w, s.res.Player); ok {
		vs.Dirty = true
	}
	if st, ok := ecs.Get[component.CombatStats](s.w, s.res.Player); ok {
		st.HP = max(st.HP, st.MaxHP/2)
	}
	s.populate(m)

	s.res.Log.Add("You descend to the next level, and take a moment to heal.")
	s.log.Info("next level", zap.Int("depth", m.Depth))
}

func (s *Session) carried() map[ecs.EntityID]struct{} {
	out := make(map[ecs.EntityID]struct{})
	for row := range s.backpackQ.Iter(s.w) {
		if ecs.Field[component.InBackpack](row).Owner.Is(s.res.Player) {
			out[row.Entity()] = struct{}{}
		}
	}
	for row := range s.equippedQ.Iter(s.w) {
		if ecs.Field[component.Equipped](row).Owner.Is(s.res.Player) {
			out[row.Entity()] = struct{}{}
		}
	}
	return out
}

// populate fills every room but the first, where the player starts.
func (s *Session) populate(m *world.Map) {
	if len(m.Rooms) < 2 {
		return
	}
	for _, room := range m.Rooms[1:] {
		s.spawn.PopulateRoom(s.w, s.res.Rng, m, room)
	}
}

func startPoint(m *world.Map) world.Point {
	if len(m.Rooms) == 0 {
		return world.Point{X: m.Width / 2, Y: m.Height / 2}
	}
	return m.Rooms[0].Center()
}
