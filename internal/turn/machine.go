package turn

import (
	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/core/event"
	"github.com/rlcore/dungeon/internal/world"
)

// Driver performs the side effects the machine decides on. The game session
// implements it; tests use a recording fake.
type Driver interface {
	// RunMain executes the main gameplay pipeline once with phase as the
	// current turn phase.
	RunMain(phase Kind)

	MovePlayer(dx, dy int)
	PickUp()
	SkipTurn()
	// TryDescend reports whether the player stands on a way down; when not,
	// it narrates that to the game log.
	TryDescend() bool

	// ItemRange returns the targeting range of a ranged item.
	ItemRange(item ecs.EntityID) (int, bool)
	// InTargetRange reports whether p is a legal target within rng.
	InTargetRange(p world.Point, rng int) bool
	UseItem(item ecs.EntityID, target *world.Point)
	DropItem(item ecs.EntityID)
	RemoveItem(item ecs.EntityID)

	SaveExists() bool
	SaveGame() error
	LoadGame() error
	NewGame()
	NextLevel()
}

// Machine is the turn-phase state machine. Each Tick consumes one classified
// intent and runs at most one pipeline.
type Machine struct {
	state  State
	driver Driver
	log    *zap.Logger

	playerDied bool
}

func NewMachine(d Driver, initial State, log *zap.Logger) *Machine {
	return &Machine{state: initial, driver: d, log: log}
}

func (m *Machine) State() State { return m.state }

// OnPlayerDied is subscribed to the event bus; the machine moves to GameOver
// after the pipeline run that produced the event.
func (m *Machine) OnPlayerDied(event.PlayerDied) { m.playerDied = true }

// Tick advances one step. A non-nil error means a save or load failed; the
// machine stays in a safe phase and the caller decides how to surface it.
func (m *Machine) Tick(in Intent) (State, error) {
	next, err := m.step(in)
	if m.playerDied {
		m.playerDied = false
		next = State{Kind: GameOver}
	}
	if next != m.state {
		m.log.Debug("turn transition",
			zap.Stringer("from", m.state),
			zap.Stringer("to", next))
	}
	m.state = next
	return next, err
}

func (m *Machine) step(in Intent) (State, error) {
	d := m.driver
	switch m.state.Kind {
	case PreRun:
		d.RunMain(PreRun)
		return State{Kind: AwaitingInput}, nil

	case AwaitingInput:
		return m.playerInput(in), nil

	case PlayerTurn:
		d.RunMain(PlayerTurn)
		return State{Kind: MonsterTurn}, nil

	case MonsterTurn:
		d.RunMain(MonsterTurn)
		return State{Kind: AwaitingInput}, nil

	case ShowInventory:
		switch in.Kind {
		case IntentCancel:
			return State{Kind: AwaitingInput}, nil
		case IntentSelect:
			if rng, ok := d.ItemRange(in.Item); ok {
				return Targeting(rng, in.Item), nil
			}
			d.UseItem(in.Item, nil)
			return State{Kind: PlayerTurn}, nil
		}

	case ShowDropItem:
		switch in.Kind {
		case IntentCancel:
			return State{Kind: AwaitingInput}, nil
		case IntentSelect:
			d.DropItem(in.Item)
			return State{Kind: PlayerTurn}, nil
		}

	case ShowRemoveItem:
		switch in.Kind {
		case IntentCancel:
			return State{Kind: AwaitingInput}, nil
		case IntentSelect:
			d.RemoveItem(in.Item)
			return State{Kind: PlayerTurn}, nil
		}

	case ShowTargeting:
		switch in.Kind {
		case IntentCancel:
			return State{Kind: AwaitingInput}, nil
		case IntentTarget:
			if !d.InTargetRange(in.Point, m.state.Range) {
				break
			}
			p := in.Point
			d.UseItem(m.state.Item, &p)
			return State{Kind: PlayerTurn}, nil
		}

	case MainMenu:
		return m.mainMenu(in)

	case SaveGame:
		if err := d.SaveGame(); err != nil {
			return State{Kind: AwaitingInput}, err
		}
		return Menu(MenuLoadGame), nil

	case NextLevel:
		d.NextLevel()
		return State{Kind: PreRun}, nil

	case GameOver:
		if in.Kind == IntentRestart {
			return Menu(MenuNewGame), nil
		}

	case Exit:
	}
	return m.state, nil
}

func (m *Machine) playerInput(in Intent) State {
	d := m.driver
	switch in.Kind {
	case IntentMove:
		d.MovePlayer(in.DX, in.DY)
	case IntentPickUp:
		d.PickUp()
	case IntentWait:
		d.SkipTurn()
	case IntentOpenInventory:
		return State{Kind: ShowInventory}
	case IntentOpenDrop:
		return State{Kind: ShowDropItem}
	case IntentOpenRemove:
		return State{Kind: ShowRemoveItem}
	case IntentSave:
		return State{Kind: SaveGame}
	case IntentDescend:
		if d.TryDescend() {
			return State{Kind: NextLevel}
		}
		return State{Kind: AwaitingInput}
	default:
		return State{Kind: AwaitingInput}
	}
	return State{Kind: PlayerTurn}
}

var menuOrder = [...]MenuSelection{MenuNewGame, MenuLoadGame, MenuQuit}

func (m *Machine) mainMenu(in Intent) (State, error) {
	d := m.driver
	sel := m.state.Selection
	switch in.Kind {
	case IntentCancel:
		return Menu(MenuQuit), nil
	case IntentMenuUp, IntentMenuDown:
		step := 1
		if in.Kind == IntentMenuUp {
			step = len(menuOrder) - 1
		}
		next := menuOrder[(int(sel)+step)%len(menuOrder)]
		if next == MenuLoadGame && !d.SaveExists() {
			next = menuOrder[(int(next)+step)%len(menuOrder)]
		}
		return Menu(next), nil
	case IntentConfirm:
		switch sel {
		case MenuNewGame:
			d.NewGame()
			return State{Kind: PreRun}, nil
		case MenuLoadGame:
			if !d.SaveExists() {
				return Menu(MenuNewGame), nil
			}
			if err := d.LoadGame(); err != nil {
				return m.state, err
			}
			return State{Kind: AwaitingInput}, nil
		case MenuQuit:
			return State{Kind: Exit}, nil
		}
	}
	return m.state, nil
}
