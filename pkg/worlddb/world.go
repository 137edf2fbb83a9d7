package worlddb

import (
	"errors"
	"fmt"
)

// Move failure modes. Commands translate these into player-facing
// messages; anything else coming out of a mutator is an invariant
// violation and gets surfaced as an internal error.
var (
	ErrNotFound       = errors.New("worlddb: no such entity")
	ErrBadDestination = errors.New("worlddb: destination cannot hold entities")
	ErrContainerFull  = errors.New("worlddb: container is full")
	ErrEquipped       = errors.New("worlddb: entity is equipped")
)

// Builder instantiates a fresh entity from a numbered blueprint.
// The blueprint library implements it.
type Builder interface {
	Build(vnum int) (*Entity, error)
}

// MoveOptions tunes a single move.
type MoveOptions struct {
	// IgnoreCapacity skips the destination capacity check. Only the
	// relaxed put policy uses this; see GameConf.PutCapacityEnforced.
	IgnoreCapacity bool
}

// World owns the live entity graph. It is constructed once at process
// start and passed explicitly into the resolver and the commands;
// there is no ambient global registry.
type World struct {
	Entities   map[ID]*Entity
	Blueprints Builder // may be nil in tests
	nextID     ID
}

// NewWorld creates an empty world backed by the given blueprint source.
func NewWorld(blueprints Builder) *World {
	return &World{
		Entities:   map[ID]*Entity{},
		Blueprints: blueprints,
		nextID:     1,
	}
}

// Add registers an entity and assigns it a fresh ID.
func (w *World) Add(e *Entity) *Entity {
	e.ID = w.nextID
	w.nextID++
	w.Entities[e.ID] = e
	return e
}

// Put registers an entity that already has an ID, advancing the ID
// counter past it. The storage layer uses it when restoring a world.
func (w *World) Put(e *Entity) {
	w.Entities[e.ID] = e
	if e.ID >= w.nextID {
		w.nextID = e.ID + 1
	}
}

// NextID reports the ID the next Add will assign.
func (w *World) NextID() ID {
	return w.nextID
}

// EnsureNextID raises the ID counter to at least id, so restored
// worlds never reuse an ID that was handed out before a delete.
func (w *World) EnsureNextID(id ID) {
	if id > w.nextID {
		w.nextID = id
	}
}

// Get returns the entity for an ID, or nil.
func (w *World) Get(id ID) *Entity {
	return w.Entities[id]
}

// ContentsOf returns the entities held by e, in insertion order.
// Dangling references are skipped.
func (w *World) ContentsOf(e *Entity) []*Entity {
	result := make([]*Entity, 0, len(e.Contents))
	for _, id := range e.Contents {
		if held := w.Entities[id]; held != nil {
			result = append(result, held)
		}
	}
	return result
}

// Holder returns the entity containing e, or nil for rooms and limbo.
func (w *World) Holder(e *Entity) *Entity {
	if e.Location == Nothing {
		return nil
	}
	return w.Entities[e.Location]
}

// RoomOf walks the containment chain up to the room holding e.
// Returns e itself if e is a room.
func (w *World) RoomOf(e *Entity) *Entity {
	for e != nil {
		if e.Type == TypeRoom {
			return e
		}
		e = w.Holder(e)
	}
	return nil
}

// Move relocates e into dest, updating the old holder's contents, the
// new holder's contents, and e's own location reference in one step.
// External readers never observe e registered in two places or in
// none. Equipped items refuse to move; callers unequip first.
func (w *World) Move(e, dest *Entity) error {
	return w.MoveOpt(e, dest, MoveOptions{})
}

// MoveOpt is Move with options.
func (w *World) MoveOpt(e, dest *Entity, opts MoveOptions) error {
	if e == nil || dest == nil {
		return ErrNotFound
	}
	if e.Type == TypeRoom {
		return fmt.Errorf("%w: rooms do not move", ErrBadDestination)
	}
	if IsEquipped(e) {
		return ErrEquipped
	}
	switch {
	case dest.Type == TypeRoom, dest.Type == TypeCharacter:
	case IsContainer(dest):
		if !opts.IgnoreCapacity && !CanContainMore(dest) {
			return ErrContainerFull
		}
	default:
		return ErrBadDestination
	}
	if old := w.Holder(e); old != nil {
		old.removeContent(e.ID)
	}
	e.Location = dest.ID
	dest.Contents = append(dest.Contents, e.ID)
	return nil
}

// Spawn instantiates a blueprint and registers the result. The caller
// moves it into place.
func (w *World) Spawn(vnum int) (*Entity, error) {
	if w.Blueprints == nil {
		return nil, fmt.Errorf("worlddb: no blueprint source configured")
	}
	e, err := w.Blueprints.Build(vnum)
	if err != nil {
		return nil, err
	}
	return w.Add(e), nil
}

// Delete removes e from the world. Its contents are never discarded:
// each one is relocated to its own home, falling back to the holder's
// room. Equipment slot references to e (or to relocated contents) are
// cleared along with the worn/wielded flags.
func (w *World) Delete(e *Entity) {
	if e == nil {
		return
	}
	fallback := w.RoomOf(e)
	if holder := w.Holder(e); holder != nil {
		holder.removeContent(e.ID)
		if holder.Char != nil {
			holder.clearSlotRef(e.ID)
		}
	}
	for _, held := range w.ContentsOf(e) {
		held.Worn = false
		held.Wielded = false
		dest := w.Get(held.Home)
		if dest == nil || dest == e {
			dest = fallback
		}
		held.Location = Nothing
		if dest != nil && dest != e {
			w.MoveOpt(held, dest, MoveOptions{IgnoreCapacity: true})
		}
	}
	e.Contents = nil
	e.Worn = false
	e.Wielded = false
	delete(w.Entities, e.ID)
}

// RoomByVnum finds the room instantiated from a blueprint vnum, or nil.
func (w *World) RoomByVnum(vnum int) *Entity {
	for _, e := range w.Entities {
		if e.Type == TypeRoom && e.Vnum == vnum {
			return e
		}
	}
	return nil
}

func (e *Entity) removeContent(id ID) {
	for i, held := range e.Contents {
		if held == id {
			e.Contents = append(e.Contents[:i], e.Contents[i+1:]...)
			return
		}
	}
}

func (e *Entity) clearSlotRef(id ID) {
	for slot, held := range e.Char.Slots {
		if held == id {
			delete(e.Char.Slots, slot)
		}
	}
}
