package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rlcore/dungeon/internal/game"
	"github.com/rlcore/dungeon/internal/turn"
	"github.com/rlcore/dungeon/internal/world"
)

// console is a line-based front end: it renders the session as text and
// classifies each input line into a turn.Intent.
type console struct {
	sess     *game.Session
	in       *bufio.Scanner
	out      io.Writer
	logLines int
}

func newConsole(sess *game.Session, r io.Reader, w io.Writer, logLines int) *console {
	return &console{sess: sess, in: bufio.NewScanner(r), out: w, logLines: logLines}
}

// Run drives the session until it exits, input ends or ctx is cancelled.
func (c *console) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		st := c.sess.State()
		if st.Is(turn.Exit) {
			return nil
		}
		var in turn.Intent
		if waitsForInput(st) {
			c.render(st)
			if !c.in.Scan() {
				return c.in.Err()
			}
			in = classify(st, c.in.Text(), c.menuItems(st))
		}
		if _, err := c.sess.Tick(in); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return nil
}

// waitsForInput reports whether st consumes an intent; the other phases run a
// pipeline and advance on their own.
func waitsForInput(st turn.State) bool {
	switch st.Kind {
	case turn.AwaitingInput, turn.ShowInventory, turn.ShowDropItem, turn.ShowRemoveItem,
		turn.ShowTargeting, turn.MainMenu, turn.GameOver:
		return true
	}
	return false
}

func (c *console) menuItems(st turn.State) []game.InventoryItem {
	switch st.Kind {
	case turn.ShowInventory, turn.ShowDropItem:
		return c.sess.Backpack()
	case turn.ShowRemoveItem:
		return c.sess.Equipment()
	}
	return nil
}

var moves = map[string][2]int{
	"h": {-1, 0}, "l": {1, 0}, "k": {0, -1}, "j": {0, 1},
	"y": {-1, -1}, "u": {1, -1}, "b": {-1, 1}, "n": {1, 1},
	"left": {-1, 0}, "right": {1, 0}, "up": {0, -1}, "down": {0, 1},
}

// classify maps one input line to an intent for state st. items is the list
// shown by an item menu; a letter selects by position.
func classify(st turn.State, line string, items []game.InventoryItem) turn.Intent {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch st.Kind {
	case turn.AwaitingInput:
		if d, ok := moves[cmd]; ok {
			return turn.Move(d[0], d[1])
		}
		switch cmd {
		case "g", ",":
			return turn.Simple(turn.IntentPickUp)
		case "i":
			return turn.Simple(turn.IntentOpenInventory)
		case "d":
			return turn.Simple(turn.IntentOpenDrop)
		case "r":
			return turn.Simple(turn.IntentOpenRemove)
		case ">":
			return turn.Simple(turn.IntentDescend)
		case ".", "w":
			return turn.Simple(turn.IntentWait)
		case "s", "esc", "save":
			return turn.Simple(turn.IntentSave)
		}

	case turn.ShowInventory, turn.ShowDropItem, turn.ShowRemoveItem:
		if cmd == "q" || cmd == "esc" {
			return turn.Simple(turn.IntentCancel)
		}
		if len(cmd) == 1 && cmd[0] >= 'a' && cmd[0] <= 'z' {
			if i := int(cmd[0] - 'a'); i < len(items) {
				return turn.Select(items[i].Entity)
			}
		}

	case turn.ShowTargeting:
		if cmd == "q" || cmd == "esc" {
			return turn.Simple(turn.IntentCancel)
		}
		if f := strings.Fields(cmd); len(f) == 2 {
			x, errX := strconv.Atoi(f[0])
			y, errY := strconv.Atoi(f[1])
			if errX == nil && errY == nil {
				return turn.Target(world.Point{X: x, Y: y})
			}
		}

	case turn.MainMenu:
		switch cmd {
		case "k", "up":
			return turn.Simple(turn.IntentMenuUp)
		case "j", "down":
			return turn.Simple(turn.IntentMenuDown)
		case "", "enter":
			return turn.Simple(turn.IntentConfirm)
		case "q", "esc":
			return turn.Simple(turn.IntentCancel)
		}

	case turn.GameOver:
		return turn.Simple(turn.IntentRestart)
	}
	return turn.Intent{}
}

// ==================== Rendering ====================

func (c *console) render(st turn.State) {
	switch st.Kind {
	case turn.MainMenu:
		fmt.Fprintln(c.out, "\n  DUNGEON")
		for _, sel := range []turn.MenuSelection{turn.MenuNewGame, turn.MenuLoadGame, turn.MenuQuit} {
			cursor := "  "
			if sel == st.Selection {
				cursor = "> "
			}
			fmt.Fprintf(c.out, "  %s%s\n", cursor, sel)
		}
		return
	case turn.GameOver:
		fmt.Fprintln(c.out, "\n  Your journey has ended! Press enter to return to the menu.")
		return
	}

	res := c.sess.Resources()
	for _, row := range drawMap(res.Map, c.sess.Drawables()) {
		fmt.Fprintln(c.out, row)
	}
	if stats, ok := c.sess.PlayerStats(); ok {
		fmt.Fprintf(c.out, "Depth: %d  HP: %d / %d\n", res.Map.Depth, stats.HP, stats.MaxHP)
	}
	for _, line := range res.Log.Last(c.logLines) {
		fmt.Fprintln(c.out, line)
	}

	switch st.Kind {
	case turn.ShowInventory, turn.ShowDropItem, turn.ShowRemoveItem:
		title := map[turn.Kind]string{
			turn.ShowInventory:  "Inventory",
			turn.ShowDropItem:   "Drop which item?",
			turn.ShowRemoveItem: "Remove which item?",
		}[st.Kind]
		fmt.Fprintln(c.out, title)
		for i, it := range c.menuItems(st) {
			fmt.Fprintf(c.out, "  (%c) %s\n", 'a'+i, it.Name)
		}
		fmt.Fprintln(c.out, "  (q) cancel")
	case turn.ShowTargeting:
		fmt.Fprintf(c.out, "Select target \"x y\" within %d tiles, q to cancel\n", st.Range)
	}
}

// drawMap renders revealed terrain and then the drawables in order, so later
// entries overwrite earlier ones on a shared tile.
func drawMap(m *world.Map, ds []game.Drawable) []string {
	grid := make([][]rune, m.Height)
	for y := range grid {
		grid[y] = make([]rune, m.Width)
		for x := range grid[y] {
			i := m.Idx(x, y)
			if !m.Revealed[i] {
				grid[y][x] = ' '
				continue
			}
			switch m.Tiles[i] {
			case world.TileFloor:
				grid[y][x] = '.'
			case world.TileDownStairs:
				grid[y][x] = '>'
			default:
				grid[y][x] = '#'
			}
		}
	}
	for _, d := range ds {
		if m.InBounds(d.At) {
			grid[d.At.Y][d.At.X] = d.Renderable.Glyph
		}
	}
	rows := make([]string, len(grid))
	for y, r := range grid {
		rows[y] = strings.TrimRight(string(r), " ")
	}
	return rows
}
