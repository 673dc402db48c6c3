package data

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// RGB is a colour written as [r, g, b] in YAML.
type RGB [3]uint8

// StatsDef is a prefab's starting combat stats. HP defaults to MaxHP.
type StatsDef struct {
	MaxHP   int `yaml:"max_hp"`
	HP      int `yaml:"hp"`
	Defense int `yaml:"defense"`
	Power   int `yaml:"power"`
}

// ActorPrefab describes the player or a monster.
type ActorPrefab struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Glyph       string   `yaml:"glyph"`
	FG          RGB      `yaml:"fg"`
	RenderOrder int      `yaml:"render_order"`
	Stats       StatsDef `yaml:"stats"`
	ViewRange   int      `yaml:"view_range"`

	DisplayName string `yaml:"-"`
}

// ItemPrefab describes an item. Zero-valued effects are absent.
type ItemPrefab struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Glyph          string `yaml:"glyph"`
	FG             RGB    `yaml:"fg"`
	RenderOrder    int    `yaml:"render_order"`
	Consumable     bool   `yaml:"consumable"`
	Healing        int    `yaml:"healing"`
	Damage         int    `yaml:"damage"`
	Range          int    `yaml:"range"`
	AreaRadius     int    `yaml:"area_radius"`
	ConfusionTurns int    `yaml:"confusion_turns"`
	Slot           string `yaml:"slot"` // "melee" or "shield"
	PowerBonus     int    `yaml:"power_bonus"`
	DefenseBonus   int    `yaml:"defense_bonus"`

	DisplayName string `yaml:"-"`
}

// GlyphRune returns the first rune of the glyph.
func (p *ActorPrefab) GlyphRune() rune { r, _ := utf8.DecodeRuneInString(p.Glyph); return r }

func (p *ItemPrefab) GlyphRune() rune { r, _ := utf8.DecodeRuneInString(p.Glyph); return r }

type prefabFile struct {
	Player   ActorPrefab   `yaml:"player"`
	Monsters []ActorPrefab `yaml:"monsters"`
	Items    []ItemPrefab  `yaml:"items"`
}

// PrefabTable indexes the player, monster and item prefabs by id.
type PrefabTable struct {
	player   ActorPrefab
	monsters map[string]*ActorPrefab
	items    map[string]*ItemPrefab
}

// LoadPrefabTable loads prefabs.yaml.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefabs: %w", err)
	}
	t, err := ParsePrefabs(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParsePrefabs parses prefab YAML.
func ParsePrefabs(raw []byte) (*PrefabTable, error) {
	var f prefabFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prefabs: %w", err)
	}
	title := cases.Title(language.English)

	t := &PrefabTable{
		player:   f.Player,
		monsters: make(map[string]*ActorPrefab, len(f.Monsters)),
		items:    make(map[string]*ItemPrefab, len(f.Items)),
	}
	if err := fixActor(&t.player, title); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	for i := range f.Monsters {
		m := &f.Monsters[i]
		if err := fixActor(m, title); err != nil {
			return nil, fmt.Errorf("monster %q: %w", m.ID, err)
		}
		if _, dup := t.monsters[m.ID]; dup {
			return nil, fmt.Errorf("duplicate monster %q", m.ID)
		}
		t.monsters[m.ID] = m
	}
	for i := range f.Items {
		it := &f.Items[i]
		if it.ID == "" || utf8.RuneCountInString(it.Glyph) != 1 {
			return nil, fmt.Errorf("item %q: id and a single-rune glyph are required", it.ID)
		}
		switch it.Slot {
		case "", "melee", "shield":
		default:
			return nil, fmt.Errorf("item %q: unknown slot %q", it.ID, it.Slot)
		}
		if _, dup := t.items[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item %q", it.ID)
		}
		it.DisplayName = title.String(it.Name)
		t.items[it.ID] = it
	}
	return t, nil
}

func fixActor(a *ActorPrefab, title cases.Caser) error {
	if utf8.RuneCountInString(a.Glyph) != 1 {
		return fmt.Errorf("glyph %q must be a single rune", a.Glyph)
	}
	if a.Stats.MaxHP <= 0 {
		return fmt.Errorf("max_hp must be positive")
	}
	if a.Stats.HP == 0 {
		a.Stats.HP = a.Stats.MaxHP
	}
	a.DisplayName = title.String(a.Name)
	return nil
}

func (t *PrefabTable) Player() *ActorPrefab { return &t.player }

// Monster returns the monster prefab with the given id, or nil.
func (t *PrefabTable) Monster(id string) *ActorPrefab { return t.monsters[id] }

// Item returns the item prefab with the given id, or nil.
func (t *PrefabTable) Item(id string) *ItemPrefab { return t.items[id] }

func (t *PrefabTable) MonsterCount() int { return len(t.monsters) }
func (t *PrefabTable) ItemCount() int    { return len(t.items) }
