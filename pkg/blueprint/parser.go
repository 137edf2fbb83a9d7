// Package blueprint loads YAML zone files: vnum-keyed templates for
// rooms, objects, and characters, plus the reset entries that place
// instances into the world. Templates are validated at parse time so a
// malformed variant (a container without a capacity, equipment without
// a slot) never reaches the live entity graph.
package blueprint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// RoomDef is a room template.
type RoomDef struct {
	Vnum  int            `yaml:"vnum"`
	Name  string         `yaml:"name"`
	Desc  string         `yaml:"desc"`
	Exits map[string]int `yaml:"exits"`
}

// EffectDef is a stat or condition effect on an equipment template.
type EffectDef struct {
	Stat   string `yaml:"stat"`
	Amount int    `yaml:"amount"`
	Cond   string `yaml:"cond"`
}

// ObjectDef is an object template. Kind-specific fields are only legal
// for the matching kind.
type ObjectDef struct {
	Vnum    int      `yaml:"vnum"`
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Desc    string   `yaml:"desc"`
	Kind    string   `yaml:"kind"`
	Weight  int      `yaml:"weight"`
	Level   int      `yaml:"level"`
	Tags    []string `yaml:"tags"`
	Home    int      `yaml:"home"`

	Capacity  *int        `yaml:"capacity"`   // container
	Slot      string      `yaml:"slot"`       // equipment
	Effects   []EffectDef `yaml:"effects"`    // equipment
	MinDamage int         `yaml:"min_damage"` // weapon
	MaxDamage int         `yaml:"max_damage"` // weapon
	Text      string      `yaml:"text"`       // book
}

// CharDef is a character (NPC) template.
type CharDef struct {
	Vnum       int      `yaml:"vnum"`
	Name       string   `yaml:"name"`
	Aliases    []string `yaml:"aliases"`
	Desc       string   `yaml:"desc"`
	Sex        string   `yaml:"sex"`
	Level      int      `yaml:"level"`
	CarryMax   int      `yaml:"carry_max"`
	Conditions []string `yaml:"conditions"`
}

// ResetDef places one template instance into a room at populate time.
type ResetDef struct {
	Room      int   `yaml:"room"`
	Object    int   `yaml:"object"`
	Character int   `yaml:"character"`
	Contents  []int `yaml:"contents"` // object vnums spawned inside a container reset
}

// ZoneFile is the top-level structure of one YAML zone file.
type ZoneFile struct {
	Zone       int         `yaml:"zone"`
	Name       string      `yaml:"name"`
	Rooms      []RoomDef   `yaml:"rooms"`
	Objects    []ObjectDef `yaml:"objects"`
	Characters []CharDef   `yaml:"characters"`
	Resets     []ResetDef  `yaml:"resets"`
}

// Library is the assembled blueprint registry across all loaded zone
// files. It implements worlddb.Builder.
type Library struct {
	Rooms      map[int]*RoomDef
	Objects    map[int]*ObjectDef
	Characters map[int]*CharDef
	Resets     []ResetDef
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{
		Rooms:      map[int]*RoomDef{},
		Objects:    map[int]*ObjectDef{},
		Characters: map[int]*CharDef{},
	}
}

// LoadDir parses every .yaml/.yml file in dir into a fresh library.
func LoadDir(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("blueprint: read dir %s: %w", dir, err)
	}
	lib := NewLibrary()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if err := lib.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// LoadFile parses one zone file into the library.
func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("blueprint: read %s: %w", path, err)
	}
	var zf ZoneFile
	if err := yaml.Unmarshal(data, &zf); err != nil {
		return fmt.Errorf("blueprint: parse %s: %w", path, err)
	}
	if err := l.merge(&zf); err != nil {
		return fmt.Errorf("blueprint: %s: %w", path, err)
	}
	return nil
}

func (l *Library) merge(zf *ZoneFile) error {
	for i := range zf.Rooms {
		def := &zf.Rooms[i]
		if def.Vnum <= 0 {
			return fmt.Errorf("room %q: vnum must be positive", def.Name)
		}
		if _, dup := l.Rooms[def.Vnum]; dup {
			return fmt.Errorf("duplicate room vnum %d", def.Vnum)
		}
		l.Rooms[def.Vnum] = def
	}
	for i := range zf.Objects {
		def := &zf.Objects[i]
		if err := validateObject(def); err != nil {
			return err
		}
		if _, dup := l.Objects[def.Vnum]; dup {
			return fmt.Errorf("duplicate object vnum %d", def.Vnum)
		}
		l.Objects[def.Vnum] = def
	}
	for i := range zf.Characters {
		def := &zf.Characters[i]
		if def.Vnum <= 0 {
			return fmt.Errorf("character %q: vnum must be positive", def.Name)
		}
		if _, ok := worlddb.ParseSex(def.Sex); !ok {
			return fmt.Errorf("character %q: unknown sex %q", def.Name, def.Sex)
		}
		for _, cond := range def.Conditions {
			if _, ok := ParseCondition(cond); !ok {
				return fmt.Errorf("character %q: unknown condition %q", def.Name, cond)
			}
		}
		if _, dup := l.Characters[def.Vnum]; dup {
			return fmt.Errorf("duplicate character vnum %d", def.Vnum)
		}
		l.Characters[def.Vnum] = def
	}
	l.Resets = append(l.Resets, zf.Resets...)
	return nil
}

func validateObject(def *ObjectDef) error {
	if def.Vnum <= 0 {
		return fmt.Errorf("object %q: vnum must be positive", def.Name)
	}
	kind, ok := worlddb.ParseKind(def.Kind)
	if !ok {
		return fmt.Errorf("object %q: unknown kind %q", def.Name, def.Kind)
	}
	if kind != worlddb.KindContainer && def.Capacity != nil {
		return fmt.Errorf("object %q: capacity is only valid on containers", def.Name)
	}
	if kind != worlddb.KindEquipment && def.Slot != "" {
		return fmt.Errorf("object %q: slot is only valid on equipment", def.Name)
	}
	if kind == worlddb.KindEquipment && def.Slot == "" {
		return fmt.Errorf("object %q: equipment requires a slot", def.Name)
	}
	if kind != worlddb.KindEquipment && len(def.Effects) > 0 {
		return fmt.Errorf("object %q: effects are only valid on equipment", def.Name)
	}
	if kind != worlddb.KindWeapon && (def.MinDamage != 0 || def.MaxDamage != 0) {
		return fmt.Errorf("object %q: damage is only valid on weapons", def.Name)
	}
	for _, e := range def.Effects {
		if e.Cond != "" {
			if _, ok := ParseCondition(e.Cond); !ok {
				return fmt.Errorf("object %q: unknown effect condition %q", def.Name, e.Cond)
			}
		} else if e.Stat == "" {
			return fmt.Errorf("object %q: effect needs a stat or a cond", def.Name)
		}
	}
	return nil
}

// ParseCondition maps a blueprint condition name to its bit.
func ParseCondition(s string) (worlddb.Condition, bool) {
	switch strings.ToLower(s) {
	case "sleeping":
		return worlddb.CondSleeping, true
	case "invisible":
		return worlddb.CondInvisible, true
	case "hidden":
		return worlddb.CondHidden, true
	case "detect-invis":
		return worlddb.CondDetectInvis, true
	case "detect-hidden":
		return worlddb.CondDetectHidden, true
	case "holy-sight":
		return worlddb.CondHolySight, true
	case "curse-immune":
		return worlddb.CondCurseImmune, true
	}
	return 0, false
}

// Build instantiates a fresh entity from an object or character
// template. Rooms are assembled by Populate instead, since exits need
// every room to exist first.
func (l *Library) Build(vnum int) (*worlddb.Entity, error) {
	if def, ok := l.Objects[vnum]; ok {
		return buildObject(def)
	}
	if def, ok := l.Characters[vnum]; ok {
		return buildCharacter(def), nil
	}
	return nil, fmt.Errorf("blueprint: no template for vnum %d", vnum)
}

func buildObject(def *ObjectDef) (*worlddb.Entity, error) {
	kind, _ := worlddb.ParseKind(def.Kind)
	var payload any
	switch kind {
	case worlddb.KindContainer:
		capacity := -1
		if def.Capacity != nil {
			capacity = *def.Capacity
		}
		payload = &worlddb.ContainerInfo{Capacity: capacity}
	case worlddb.KindWeapon:
		payload = &worlddb.WeaponInfo{MinDamage: def.MinDamage, MaxDamage: def.MaxDamage}
	case worlddb.KindEquipment:
		info := &worlddb.EquipInfo{Slot: worlddb.Slot(def.Slot)}
		for _, e := range def.Effects {
			eff := worlddb.Effect{Stat: e.Stat, Amount: e.Amount}
			if e.Cond != "" {
				eff.Cond, _ = ParseCondition(e.Cond)
			}
			info.Effects = append(info.Effects, eff)
		}
		payload = info
	case worlddb.KindBook:
		payload = &worlddb.BookInfo{Text: def.Text}
	}
	e, err := worlddb.NewObject(def.Name, def.Aliases, kind, payload)
	if err != nil {
		return nil, err
	}
	e.Vnum = def.Vnum
	e.Desc = def.Desc
	e.Weight = def.Weight
	e.Level = def.Level
	for _, tag := range def.Tags {
		e.SetTag(tag, true)
	}
	return e, nil
}

func buildCharacter(def *CharDef) *worlddb.Entity {
	sex, _ := worlddb.ParseSex(def.Sex)
	var conds worlddb.Condition
	for _, name := range def.Conditions {
		if bit, ok := ParseCondition(name); ok {
			conds |= bit
		}
	}
	carryMax := def.CarryMax
	if carryMax == 0 {
		carryMax = -1 // unencumbered unless the template says otherwise
	}
	e := worlddb.NewCharacter(def.Name, def.Aliases, worlddb.CharInfo{
		Sex:        sex,
		NPC:        true,
		Conditions: conds,
		CarryMax:   carryMax,
	})
	e.Vnum = def.Vnum
	e.Desc = def.Desc
	e.Level = def.Level
	return e
}

// Populate assembles a world from the library: every room is created
// and its exits wired, then each reset spawns its instance into place.
// Object homes resolve to the room instantiated from the home vnum.
func Populate(w *worlddb.World, l *Library) error {
	vnums := make([]int, 0, len(l.Rooms))
	for vnum := range l.Rooms {
		vnums = append(vnums, vnum)
	}
	sort.Ints(vnums)

	rooms := map[int]*worlddb.Entity{}
	for _, vnum := range vnums {
		def := l.Rooms[vnum]
		room := worlddb.NewRoom(def.Name)
		room.Vnum = def.Vnum
		room.Desc = def.Desc
		w.Add(room)
		rooms[vnum] = room
	}
	for _, vnum := range vnums {
		def := l.Rooms[vnum]
		room := rooms[vnum]
		for dir, destVnum := range def.Exits {
			dest, ok := rooms[destVnum]
			if !ok {
				return fmt.Errorf("blueprint: room %d exit %q leads to unknown room %d", vnum, dir, destVnum)
			}
			room.Exits[dir] = dest.ID
		}
	}

	for _, reset := range l.Resets {
		room, ok := rooms[reset.Room]
		if !ok {
			return fmt.Errorf("blueprint: reset targets unknown room %d", reset.Room)
		}
		switch {
		case reset.Object != 0:
			obj, err := spawnInto(w, l, reset.Object, room, rooms)
			if err != nil {
				return err
			}
			for _, held := range reset.Contents {
				if _, err := spawnInto(w, l, held, obj, rooms); err != nil {
					return err
				}
			}
		case reset.Character != 0:
			if _, err := spawnInto(w, l, reset.Character, room, rooms); err != nil {
				return err
			}
		default:
			return fmt.Errorf("blueprint: reset in room %d names no template", reset.Room)
		}
	}
	return nil
}

func spawnInto(w *worlddb.World, l *Library, vnum int, dest *worlddb.Entity, rooms map[int]*worlddb.Entity) (*worlddb.Entity, error) {
	e, err := l.Build(vnum)
	if err != nil {
		return nil, err
	}
	w.Add(e)
	if def, ok := l.Objects[vnum]; ok && def.Home != 0 {
		if home, ok := rooms[def.Home]; ok {
			e.Home = home.ID
		}
	}
	if err := w.Move(e, dest); err != nil {
		return nil, fmt.Errorf("blueprint: placing vnum %d: %w", vnum, err)
	}
	return e, nil
}
