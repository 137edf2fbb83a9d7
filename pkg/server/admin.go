package server

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ember-mush/goembermud/pkg/resolve"
	"github.com/ember-mush/goembermud/pkg/validate"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// cmdSpawn instantiates a blueprint into the wizard's room: objects land
// on the floor, characters stand up where they appear.
func cmdSpawn(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	vnum, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || vnum <= 0 {
		d.Send("Usage: @spawn <vnum>")
		return
	}
	room := g.World.RoomOf(actor)
	if room == nil {
		d.Send("You have no room to spawn into.")
		return
	}
	e, err := g.World.Spawn(vnum)
	if err != nil {
		d.Sendf("No blueprint for vnum %d.", vnum)
		return
	}
	if err := g.World.Move(e, room); err != nil {
		g.World.Delete(e)
		g.internalError(d, actor, err)
		return
	}
	log.WithFields(log.Fields{"vnum": vnum, "wizard": actor.Name}).Info("entity spawned")
	g.Act("You conjure $p out of thin air.", actor, e, nil, ToChar)
	g.Act("$n conjures $p out of thin air.", actor, e, nil, ToRoom)
	g.persist(e, room)
}

// cmdPurge deletes a target in the wizard's room. Player characters are
// off limits; a purged container's contents fall back to their homes.
func cmdPurge(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		d.Send("Purge what?")
		return
	}
	ref, err := resolve.ParseRef(args)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}
	room := g.World.RoomOf(actor)
	if room == nil {
		return
	}
	target := resolve.FindOne(g.World.ContentsOf(room), ref, resolve.Criteria{Viewer: actor})
	if target == nil {
		d.Send("You don't see that here.")
		return
	}
	if target.Type == worlddb.TypeCharacter && (target.Char == nil || !target.Char.NPC) {
		d.Send("You can't purge a player.")
		return
	}
	g.Act("$p vanishes in a puff of smoke.", actor, target, nil, ToChar)
	g.Act("$p vanishes in a puff of smoke.", actor, target, nil, ToRoom)
	contents := g.World.ContentsOf(target)
	g.World.Delete(target)
	g.persistDelete(target.ID)
	g.persist(room)
	g.persist(contents...)
	log.WithFields(log.Fields{"target": target.Name, "wizard": actor.Name}).Info("entity purged")
}

// cmdReload re-reads the blueprint directory on demand.
func cmdReload(g *Game, d *Descriptor, args string) {
	// DispatchCommand already holds the game lock; reload without it.
	lib, err := g.reloadLocked()
	if err != nil {
		d.Sendf("Reload failed: %v", err)
		return
	}
	d.Sendf("Blueprints reloaded: %d rooms, %d objects, %d characters.",
		len(lib.Rooms), len(lib.Objects), len(lib.Characters))
}

// cmdReset re-runs the blueprint reset entries: any reset whose vnum
// has no live instance in its target room is spawned back into place.
func cmdReset(g *Game, d *Descriptor, args string) {
	if g.Lib == nil {
		d.Send("No blueprints loaded.")
		return
	}
	spawned := 0
	for _, reset := range g.Lib.Resets {
		room := g.World.RoomByVnum(reset.Room)
		if room == nil {
			continue
		}
		vnum := reset.Object
		if vnum == 0 {
			vnum = reset.Character
		}
		if vnum == 0 || vnumPresent(g.World, room, vnum) {
			continue
		}
		e, err := g.World.Spawn(vnum)
		if err != nil {
			log.WithError(err).WithField("vnum", vnum).Warn("reset spawn failed")
			continue
		}
		if err := g.World.Move(e, room); err != nil {
			g.World.Delete(e)
			continue
		}
		spawned++
		g.persist(e, room)
		for _, held := range reset.Contents {
			inner, err := g.World.Spawn(held)
			if err != nil {
				log.WithError(err).WithField("vnum", held).Warn("reset spawn failed")
				continue
			}
			if err := g.World.MoveOpt(inner, e, worlddb.MoveOptions{IgnoreCapacity: true}); err != nil {
				g.World.Delete(inner)
				continue
			}
			spawned++
			g.persist(inner)
		}
	}
	d.Sendf("Reset complete: %d entities spawned.", spawned)
	log.WithField("spawned", spawned).Info("zone reset")
}

func vnumPresent(w *worlddb.World, room *worlddb.Entity, vnum int) bool {
	for _, e := range w.ContentsOf(room) {
		if e.Vnum == vnum {
			return true
		}
	}
	return false
}

// cmdValidate runs the integrity checkers against the live world.
func cmdValidate(g *Game, d *Descriptor, args string) {
	v := validate.New()
	findings := v.Run(g.World)
	if len(findings) == 0 {
		d.Send("World integrity: no findings.")
		return
	}
	for _, f := range findings {
		d.Sendf("[%s/%s] %s", f.Severity, f.Category, f.Description)
	}
	d.Sendf("%d finding(s), %d error(s).", len(findings), v.Errors())
}

// cmdStats reports world and connection totals.
func cmdStats(g *Game, d *Descriptor, args string) {
	rooms, chars, objects := 0, 0, 0
	for _, e := range g.World.Entities {
		switch e.Type {
		case worlddb.TypeRoom:
			rooms++
		case worlddb.TypeCharacter:
			chars++
		case worlddb.TypeObject:
			objects++
		}
	}
	d.Sendf("World: %d rooms, %d characters, %d objects.", rooms, chars, objects)
	d.Sendf("Connections: %d.", g.Conns.Count())
	if g.Store != nil {
		if n, err := g.Store.Count(); err == nil {
			d.Sendf("Persisted entities: %d.", n)
		}
	}
}
