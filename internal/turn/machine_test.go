package turn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/core/event"
	"github.com/rlcore/dungeon/internal/world"
)

type fakeDriver struct {
	calls      []string
	phases     []Kind
	onStairs   bool
	ranged     map[ecs.EntityID]int
	saveExists bool
	saveErr    error
	used       []*world.Point
	onRun      func()
}

func (f *fakeDriver) RunMain(p Kind) {
	f.phases = append(f.phases, p)
	if f.onRun != nil {
		f.onRun()
	}
}
func (f *fakeDriver) MovePlayer(dx, dy int) { f.calls = append(f.calls, "move") }
func (f *fakeDriver) PickUp()               { f.calls = append(f.calls, "pickup") }
func (f *fakeDriver) SkipTurn()             { f.calls = append(f.calls, "skip") }
func (f *fakeDriver) TryDescend() bool      { f.calls = append(f.calls, "descend"); return f.onStairs }
func (f *fakeDriver) ItemRange(item ecs.EntityID) (int, bool) {
	r, ok := f.ranged[item]
	return r, ok
}
func (f *fakeDriver) InTargetRange(p world.Point, rng int) bool { return p.X <= rng }
func (f *fakeDriver) UseItem(item ecs.EntityID, target *world.Point) {
	f.calls = append(f.calls, "use")
	f.used = append(f.used, target)
}
func (f *fakeDriver) DropItem(ecs.EntityID)   { f.calls = append(f.calls, "drop") }
func (f *fakeDriver) RemoveItem(ecs.EntityID) { f.calls = append(f.calls, "remove") }
func (f *fakeDriver) SaveExists() bool        { return f.saveExists }
func (f *fakeDriver) SaveGame() error         { f.calls = append(f.calls, "save"); return f.saveErr }
func (f *fakeDriver) LoadGame() error         { f.calls = append(f.calls, "load"); return nil }
func (f *fakeDriver) NewGame()                { f.calls = append(f.calls, "new") }
func (f *fakeDriver) NextLevel()              { f.calls = append(f.calls, "next") }

func newMachine(d *fakeDriver, s State) *Machine {
	return NewMachine(d, s, zap.NewNop())
}

func tick(t *testing.T, m *Machine, in Intent) State {
	t.Helper()
	s, err := m.Tick(in)
	require.NoError(t, err)
	return s
}

func TestTurnCycle(t *testing.T) {
	d := &fakeDriver{}
	m := newMachine(d, State{Kind: PreRun})

	assert.Equal(t, AwaitingInput, tick(t, m, Intent{}).Kind)
	assert.Equal(t, AwaitingInput, tick(t, m, Intent{}).Kind, "no input is a no-op")
	assert.Equal(t, PlayerTurn, tick(t, m, Move(1, 0)).Kind)
	assert.Equal(t, MonsterTurn, tick(t, m, Intent{}).Kind)
	assert.Equal(t, AwaitingInput, tick(t, m, Intent{}).Kind)

	assert.Equal(t, []Kind{PreRun, PlayerTurn, MonsterTurn}, d.phases)
	assert.Equal(t, []string{"move"}, d.calls)
}

func TestIdleInputs(t *testing.T) {
	cases := []struct {
		in   Intent
		want Kind
		call string
	}{
		{Simple(IntentPickUp), PlayerTurn, "pickup"},
		{Simple(IntentWait), PlayerTurn, "skip"},
		{Simple(IntentOpenInventory), ShowInventory, ""},
		{Simple(IntentOpenDrop), ShowDropItem, ""},
		{Simple(IntentOpenRemove), ShowRemoveItem, ""},
		{Simple(IntentSave), SaveGame, ""},
		{Simple(IntentDescend), AwaitingInput, "descend"},
		{Simple(IntentMenuUp), AwaitingInput, ""},
		{Target(world.Point{}), AwaitingInput, ""},
	}
	for _, c := range cases {
		d := &fakeDriver{}
		m := newMachine(d, State{Kind: AwaitingInput})
		assert.Equal(t, c.want, tick(t, m, c.in).Kind, "intent %d", c.in.Kind)
		if c.call != "" {
			assert.Equal(t, []string{c.call}, d.calls)
		} else {
			assert.Empty(t, d.calls)
		}
		assert.Empty(t, d.phases, "idle never runs a pipeline")
	}
}

func TestDescendOnStairs(t *testing.T) {
	d := &fakeDriver{onStairs: true}
	m := newMachine(d, State{Kind: AwaitingInput})
	assert.Equal(t, NextLevel, tick(t, m, Simple(IntentDescend)).Kind)
	assert.Equal(t, PreRun, tick(t, m, Intent{}).Kind)
	assert.Equal(t, []string{"descend", "next"}, d.calls)
}

func TestInventoryMenus(t *testing.T) {
	d := &fakeDriver{ranged: map[ecs.EntityID]int{7: 6}}
	m := newMachine(d, State{Kind: ShowInventory})

	assert.Equal(t, ShowInventory, tick(t, m, Intent{}).Kind, "modal waits")
	assert.Empty(t, d.phases)

	s := tick(t, m, Select(7))
	assert.Equal(t, Targeting(6, 7), s)
	assert.Equal(t, ShowTargeting, tick(t, m, Target(world.Point{X: 9})).Kind, "out of range")
	assert.Equal(t, PlayerTurn, tick(t, m, Target(world.Point{X: 3, Y: 2})).Kind)
	require.Len(t, d.used, 1)
	assert.Equal(t, &world.Point{X: 3, Y: 2}, d.used[0])

	m = newMachine(d, State{Kind: ShowInventory})
	assert.Equal(t, PlayerTurn, tick(t, m, Select(3)).Kind)
	assert.Nil(t, d.used[1], "self-targeted use")

	m = newMachine(d, State{Kind: ShowDropItem})
	assert.Equal(t, PlayerTurn, tick(t, m, Select(3)).Kind)
	m = newMachine(d, State{Kind: ShowRemoveItem})
	assert.Equal(t, AwaitingInput, tick(t, m, Simple(IntentCancel)).Kind)
	m = newMachine(d, Targeting(2, 7))
	assert.Equal(t, AwaitingInput, tick(t, m, Simple(IntentCancel)).Kind)

	assert.Equal(t, []string{"use", "use", "drop"}, d.calls)
}

func TestMainMenuSkipsLoadWithoutSave(t *testing.T) {
	d := &fakeDriver{}
	m := newMachine(d, Menu(MenuNewGame))
	assert.Equal(t, Menu(MenuQuit), tick(t, m, Simple(IntentMenuDown)))
	assert.Equal(t, Menu(MenuNewGame), tick(t, m, Simple(IntentMenuDown)))
	assert.Equal(t, Menu(MenuQuit), tick(t, m, Simple(IntentMenuUp)))

	d.saveExists = true
	assert.Equal(t, Menu(MenuLoadGame), tick(t, m, Simple(IntentMenuUp)))
	assert.Equal(t, AwaitingInput, tick(t, m, Simple(IntentConfirm)).Kind)
	assert.Equal(t, []string{"load"}, d.calls)
}

func TestMainMenuConfirm(t *testing.T) {
	d := &fakeDriver{}
	m := newMachine(d, Menu(MenuNewGame))
	assert.Equal(t, PreRun, tick(t, m, Simple(IntentConfirm)).Kind)
	assert.Equal(t, []string{"new"}, d.calls)

	m = newMachine(d, Menu(MenuLoadGame))
	assert.Equal(t, Menu(MenuQuit), tick(t, m, Simple(IntentCancel)))
	assert.Equal(t, Exit, tick(t, m, Simple(IntentConfirm)).Kind)
	assert.Equal(t, Exit, tick(t, m, Simple(IntentConfirm)).Kind)
}

func TestSaveGame(t *testing.T) {
	d := &fakeDriver{}
	m := newMachine(d, State{Kind: SaveGame})
	assert.Equal(t, Menu(MenuLoadGame), tick(t, m, Intent{}))

	d.saveErr = errors.New("disk full")
	m = newMachine(d, State{Kind: SaveGame})
	s, err := m.Tick(Intent{})
	assert.ErrorIs(t, err, d.saveErr)
	assert.Equal(t, AwaitingInput, s.Kind)
}

func TestPlayerDeathEndsGame(t *testing.T) {
	d := &fakeDriver{}
	m := newMachine(d, State{Kind: PlayerTurn})
	bus := event.NewBus()
	event.Subscribe(bus, m.OnPlayerDied)
	d.onRun = func() {
		event.Emit(bus, event.PlayerDied{})
		bus.Flush()
	}

	assert.Equal(t, GameOver, tick(t, m, Intent{}).Kind)
	assert.Equal(t, GameOver, tick(t, m, Move(1, 0)).Kind, "terminal")
	assert.Empty(t, d.calls)
	assert.Equal(t, Menu(MenuNewGame), tick(t, m, Simple(IntentRestart)))
}
