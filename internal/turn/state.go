package turn

import (
	"fmt"

	"github.com/rlcore/dungeon/internal/core/ecs"
)

// Kind names a turn phase.
type Kind uint8

const (
	AwaitingInput Kind = iota
	PreRun
	PlayerTurn
	MonsterTurn
	ShowInventory
	ShowDropItem
	ShowRemoveItem
	ShowTargeting
	MainMenu
	SaveGame
	NextLevel
	GameOver
	Exit
)

var kindNames = [...]string{
	AwaitingInput:  "AwaitingInput",
	PreRun:         "PreRun",
	PlayerTurn:     "PlayerTurn",
	MonsterTurn:    "MonsterTurn",
	ShowInventory:  "ShowInventory",
	ShowDropItem:   "ShowDropItem",
	ShowRemoveItem: "ShowRemoveItem",
	ShowTargeting:  "ShowTargeting",
	MainMenu:       "MainMenu",
	SaveGame:       "SaveGame",
	NextLevel:      "NextLevel",
	GameOver:       "GameOver",
	Exit:           "Exit",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MenuSelection is the highlighted main menu entry.
type MenuSelection uint8

const (
	MenuNewGame MenuSelection = iota
	MenuLoadGame
	MenuQuit
)

func (s MenuSelection) String() string {
	switch s {
	case MenuNewGame:
		return "New Game"
	case MenuLoadGame:
		return "Load Game"
	case MenuQuit:
		return "Quit"
	}
	return "?"
}

// State is one turn phase plus the data some phases carry.
type State struct {
	Kind Kind

	// ShowTargeting
	Range int
	Item  ecs.EntityID

	// MainMenu
	Selection MenuSelection
}

func (s State) Is(k Kind) bool { return s.Kind == k }

// Modal reports whether the phase suspends pipeline execution until a menu
// selection or cancellation arrives.
func (s State) Modal() bool {
	switch s.Kind {
	case ShowInventory, ShowDropItem, ShowRemoveItem, ShowTargeting, MainMenu:
		return true
	}
	return false
}

func (s State) String() string {
	switch s.Kind {
	case ShowTargeting:
		return fmt.Sprintf("ShowTargeting{range=%d item=%s}", s.Range, s.Item)
	case MainMenu:
		return "MainMenu{" + s.Selection.String() + "}"
	}
	return s.Kind.String()
}

func Targeting(rng int, item ecs.EntityID) State {
	return State{Kind: ShowTargeting, Range: rng, Item: item}
}

func Menu(sel MenuSelection) State {
	return State{Kind: MainMenu, Selection: sel}
}
