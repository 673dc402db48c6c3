package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/game"
	"github.com/rlcore/dungeon/internal/turn"
	"github.com/rlcore/dungeon/internal/world"
)

func TestClassify(t *testing.T) {
	items := []game.InventoryItem{
		{Entity: ecs.NewEntityID(4, 0), Name: "Dagger"},
		{Entity: ecs.NewEntityID(7, 1), Name: "Health Potion"},
	}
	idle := turn.State{Kind: turn.AwaitingInput}
	inv := turn.State{Kind: turn.ShowInventory}

	cases := []struct {
		name string
		st   turn.State
		line string
		want turn.Intent
	}{
		{"move left", idle, "h", turn.Move(-1, 0)},
		{"move diag", idle, " N ", turn.Move(1, 1)},
		{"word move", idle, "up", turn.Move(0, -1)},
		{"pickup", idle, "g", turn.Simple(turn.IntentPickUp)},
		{"descend", idle, ">", turn.Simple(turn.IntentDescend)},
		{"wait", idle, ".", turn.Simple(turn.IntentWait)},
		{"save", idle, "esc", turn.Simple(turn.IntentSave)},
		{"unknown idle", idle, "zz", turn.Intent{}},
		{"select b", inv, "b", turn.Select(items[1].Entity)},
		{"select past end", inv, "c", turn.Intent{}},
		{"cancel menu", turn.State{Kind: turn.ShowDropItem}, "q", turn.Simple(turn.IntentCancel)},
		{"target", turn.Targeting(6, items[0].Entity), "12 7", turn.Target(world.Point{X: 12, Y: 7})},
		{"bad target", turn.Targeting(6, items[0].Entity), "12 x", turn.Intent{}},
		{"menu down", turn.Menu(turn.MenuNewGame), "j", turn.Simple(turn.IntentMenuDown)},
		{"menu confirm", turn.Menu(turn.MenuNewGame), "", turn.Simple(turn.IntentConfirm)},
		{"game over", turn.State{Kind: turn.GameOver}, "anything", turn.Simple(turn.IntentRestart)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.st, tc.line, items))
		})
	}
}

func TestWaitsForInput(t *testing.T) {
	assert.True(t, waitsForInput(turn.State{Kind: turn.AwaitingInput}))
	assert.True(t, waitsForInput(turn.Menu(turn.MenuQuit)))
	assert.False(t, waitsForInput(turn.State{Kind: turn.PlayerTurn}))
	assert.False(t, waitsForInput(turn.State{Kind: turn.SaveGame}))
}

func TestDrawMap(t *testing.T) {
	m := world.NewMap(5, 3, 1)
	for x := 0; x < 4; x++ {
		m.Revealed[m.Idx(x, 1)] = true
	}
	m.Tiles[m.Idx(1, 1)] = world.TileFloor
	m.Tiles[m.Idx(2, 1)] = world.TileFloor
	m.Tiles[m.Idx(3, 1)] = world.TileDownStairs

	rows := drawMap(m, []game.Drawable{
		{At: world.Point{X: 2, Y: 1}, Renderable: component.Renderable{Glyph: '!', RenderOrder: 2}},
		{At: world.Point{X: 2, Y: 1}, Renderable: component.Renderable{Glyph: '@'}},
	})
	assert.Equal(t, []string{"", "#.@>", ""}, rows)
}
