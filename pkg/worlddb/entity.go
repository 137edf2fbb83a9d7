package worlddb

import (
	"fmt"
	"strings"
)

// ContainerInfo is the variant payload for KindContainer objects.
type ContainerInfo struct {
	// Capacity is the maximum number of contained entities.
	// Negative means unlimited.
	Capacity int
}

// WeaponInfo is the variant payload for KindWeapon objects.
type WeaponInfo struct {
	MinDamage int
	MaxDamage int
}

// EquipInfo is the variant payload for KindEquipment objects.
type EquipInfo struct {
	Slot    Slot
	Effects []Effect
}

// BookInfo is the variant payload for KindBook objects.
type BookInfo struct {
	Text string
}

// Effect is a stat or condition modification applied to a character
// while an item is worn or wielded.
type Effect struct {
	Stat   string    `yaml:"stat,omitempty"`
	Amount int       `yaml:"amount,omitempty"`
	Cond   Condition `yaml:"-"`
}

// CharInfo is the specialization payload for TypeCharacter entities.
type CharInfo struct {
	Sex        Sex
	NPC        bool
	Conditions Condition
	CarryMax   int
	Slots      map[Slot]ID
	Stats      map[string]int
}

// Entity is the in-memory representation of a room, character, or
// object. Containment is bidirectional: Location names the holder and
// the holder's Contents slice lists this entity, in insertion order.
// World.Move keeps both sides in agreement.
type Entity struct {
	ID       ID
	Vnum     int // blueprint identity, 0 = none
	Type     EntityType
	Name     string   // short description, used in narration
	Aliases  []string // matching tokens for the resolver
	Desc     string   // long description
	Tags     map[string]bool
	Location ID
	Contents []ID
	Home     ID // fallback location when a holder is deleted
	Weight   int
	Level    int // character level, or required level on objects

	Kind    Kind
	Worn    bool
	Wielded bool

	// Variant payloads. Exactly the one matching Kind (or Type) is
	// non-nil; constructors enforce this.
	Container *ContainerInfo
	Weapon    *WeaponInfo
	Equip     *EquipInfo
	Book      *BookInfo
	Char      *CharInfo

	// Exits maps direction names to destination rooms (rooms only).
	Exits map[string]ID
}

// NewRoom constructs a room entity. Rooms have no container of their own.
func NewRoom(name string) *Entity {
	return &Entity{
		Type:     TypeRoom,
		Name:     name,
		Tags:     map[string]bool{},
		Location: Nothing,
		Home:     Nothing,
		Exits:    map[string]ID{},
	}
}

// NewCharacter constructs a character entity.
func NewCharacter(name string, aliases []string, info CharInfo) *Entity {
	if info.Slots == nil {
		info.Slots = map[Slot]ID{}
	}
	if info.Stats == nil {
		info.Stats = map[string]int{}
	}
	return &Entity{
		Type:     TypeCharacter,
		Name:     name,
		Aliases:  aliases,
		Tags:     map[string]bool{},
		Location: Nothing,
		Home:     Nothing,
		Char:     &info,
	}
}

// NewObject constructs an object entity of the given kind. The payload
// must match the kind: a *ContainerInfo for KindContainer, *WeaponInfo
// for KindWeapon, *EquipInfo for KindEquipment, *BookInfo for KindBook,
// and nil for KindDefault. A mismatch is a construction error, so
// malformed variants never reach the resolver or the predicates.
func NewObject(name string, aliases []string, kind Kind, payload any) (*Entity, error) {
	e := &Entity{
		Type:     TypeObject,
		Name:     name,
		Aliases:  aliases,
		Tags:     map[string]bool{},
		Location: Nothing,
		Home:     Nothing,
		Kind:     kind,
	}
	switch kind {
	case KindDefault:
		if payload != nil {
			return nil, fmt.Errorf("worlddb: default object %q cannot carry a payload", name)
		}
	case KindContainer:
		info, ok := payload.(*ContainerInfo)
		if !ok || info == nil {
			return nil, fmt.Errorf("worlddb: container object %q requires a ContainerInfo", name)
		}
		e.Container = info
	case KindWeapon:
		info, ok := payload.(*WeaponInfo)
		if !ok || info == nil {
			return nil, fmt.Errorf("worlddb: weapon object %q requires a WeaponInfo", name)
		}
		e.Weapon = info
	case KindEquipment:
		info, ok := payload.(*EquipInfo)
		if !ok || info == nil {
			return nil, fmt.Errorf("worlddb: equipment object %q requires an EquipInfo", name)
		}
		if info.Slot == "" {
			return nil, fmt.Errorf("worlddb: equipment object %q has no slot", name)
		}
		e.Equip = info
	case KindBook:
		info, ok := payload.(*BookInfo)
		if !ok || info == nil {
			return nil, fmt.Errorf("worlddb: book object %q requires a BookInfo", name)
		}
		e.Book = info
	default:
		return nil, fmt.Errorf("worlddb: unknown object kind %d for %q", kind, name)
	}
	return e, nil
}

// HasTag reports whether a semantic tag is set.
func (e *Entity) HasTag(tag string) bool {
	return e.Tags[tag]
}

// SetTag sets or clears a semantic tag.
func (e *Entity) SetTag(tag string, on bool) {
	if on {
		e.Tags[tag] = true
	} else {
		delete(e.Tags, tag)
	}
}

// HasCondition reports whether a character condition bit is set.
// Always false for non-characters.
func (e *Entity) HasCondition(c Condition) bool {
	return e.Char != nil && e.Char.Conditions&c != 0
}

// SetCondition sets or clears a condition bit on a character.
func (e *Entity) SetCondition(c Condition, on bool) {
	if e.Char == nil {
		return
	}
	if on {
		e.Char.Conditions |= c
	} else {
		e.Char.Conditions &^= c
	}
}

// MatchName reports whether name matches this entity. The rule,
// uniform across the whole system, is a case-sensitive substring match
// against any alias token or the short description. Exact names are
// never required.
func (e *Entity) MatchName(name string) bool {
	if name == "" {
		return false
	}
	for _, alias := range e.Aliases {
		if strings.Contains(alias, name) {
			return true
		}
	}
	return strings.Contains(e.Name, name)
}

// EquippedSlot returns the slot a character has the given object
// equipped in, or "" if it is not in any slot.
func (e *Entity) EquippedSlot(obj ID) Slot {
	if e.Char == nil {
		return ""
	}
	for slot, id := range e.Char.Slots {
		if id == obj {
			return slot
		}
	}
	return ""
}
