package turn

import (
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/world"
)

// IntentKind classifies one unit of player input.
type IntentKind uint8

const (
	NoIntent IntentKind = iota
	IntentMove
	IntentPickUp
	IntentWait
	IntentOpenInventory
	IntentOpenDrop
	IntentOpenRemove
	IntentDescend
	IntentSave
	IntentSelect
	IntentTarget
	IntentCancel
	IntentMenuUp
	IntentMenuDown
	IntentConfirm
	IntentRestart
)

// Intent is the abstract result of input classification. Only the fields
// relevant to Kind are meaningful.
type Intent struct {
	Kind   IntentKind
	DX, DY int
	Item   ecs.EntityID
	Point  world.Point
}

func Move(dx, dy int) Intent { return Intent{Kind: IntentMove, DX: dx, DY: dy} }

func Select(item ecs.EntityID) Intent { return Intent{Kind: IntentSelect, Item: item} }

func Target(p world.Point) Intent { return Intent{Kind: IntentTarget, Point: p} }

func Simple(k IntentKind) Intent { return Intent{Kind: k} }
