package server

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ember-mush/goembermud/pkg/blueprint"
	"github.com/ember-mush/goembermud/pkg/boltstore"
	"github.com/ember-mush/goembermud/pkg/events"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// Game is the root of the running game: the live world, the event bus,
// the command table, and the connection registry. It is built once at
// startup and handed to every command; nothing here is a package-level
// singleton. All command execution is serialized under mu, so handlers
// read and mutate the world without further locking.
type Game struct {
	World    *worlddb.World
	Lib      *blueprint.Library
	Bus      *events.Bus
	Store    *boltstore.Store // nil = no persistence
	Conf     *GameConf
	Commands map[string]*Command
	Conns    *ConnManager
	Metrics  *Metrics // nil = metrics disabled

	mu sync.Mutex
}

// NewGame assembles a Game around an existing world.
func NewGame(w *worlddb.World, lib *blueprint.Library, conf *GameConf) *Game {
	if conf == nil {
		conf = DefaultGameConf()
	}
	g := &Game{
		World:    w,
		Lib:      lib,
		Bus:      events.NewBus(),
		Conf:     conf,
		Commands: InitCommands(),
		Conns:    NewConnManager(),
	}
	g.Conns.EventBus = g.Bus
	return g
}

// Lock serializes command execution. The network readers call it
// around DispatchCommand.
func (g *Game) Lock()   { g.mu.Lock() }
func (g *Game) Unlock() { g.mu.Unlock() }

// StartRoom returns the room new characters appear in, falling back to
// any room at all if the configured vnum does not exist.
func (g *Game) StartRoom() *worlddb.Entity {
	if room := g.World.RoomByVnum(g.Conf.StartRoom); room != nil {
		return room
	}
	for _, e := range g.World.Entities {
		if e.Type == worlddb.TypeRoom {
			log.Warnf("start room #%d missing, using %q", g.Conf.StartRoom, e.Name)
			return e
		}
	}
	return nil
}

// FindPlayer returns the player character with the given exact name, or
// nil. NPCs never match; login must not hijack a shopkeeper.
func (g *Game) FindPlayer(name string) *worlddb.Entity {
	for _, e := range g.World.Entities {
		if e.Type == worlddb.TypeCharacter && e.Char != nil && !e.Char.NPC && e.Name == name {
			return e
		}
	}
	return nil
}

// persist write-throughs the given entities to the store, when there is
// one. Storage failures are logged, never surfaced to players.
func (g *Game) persist(es ...*worlddb.Entity) {
	if g.Store == nil {
		return
	}
	if err := g.Store.PutEntities(es...); err != nil {
		log.WithError(err).Error("persist failed")
	}
}

// persistDelete removes an entity record from the store.
func (g *Game) persistDelete(id worlddb.ID) {
	if g.Store == nil {
		return
	}
	if err := g.Store.DeleteEntity(id); err != nil {
		log.WithError(err).Error("persist delete failed")
	}
}

// send delivers plain text to one character.
func (g *Game) send(ch *worlddb.Entity, text string) {
	g.Bus.EmitTo(ch.ID, events.Event{Type: events.EvText, Text: text})
}

// ReloadBlueprints re-reads the blueprint directory into the live
// library. Existing entities keep their current state; only future
// spawns see the new definitions. The blueprint watcher calls this
// outside the command path, so it takes the game lock itself.
func (g *Game) ReloadBlueprints() error {
	g.Lock()
	defer g.Unlock()
	_, err := g.reloadLocked()
	return err
}

// reloadLocked swaps in a freshly parsed library. Caller holds the
// game lock.
func (g *Game) reloadLocked() (*blueprint.Library, error) {
	lib, err := blueprint.LoadDir(g.Conf.BlueprintDir)
	if err != nil {
		return nil, err
	}
	if g.Lib == nil {
		g.Lib = lib
	} else {
		*g.Lib = *lib
	}
	log.WithFields(log.Fields{
		"rooms":      len(lib.Rooms),
		"objects":    len(lib.Objects),
		"characters": len(lib.Characters),
	}).Info("blueprints reloaded")
	return lib, nil
}
