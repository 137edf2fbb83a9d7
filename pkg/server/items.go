package server

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ember-mush/goembermud/pkg/resolve"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// Item commands share one shape: parse the reference, resolve the
// container when one is named, resolve the items, then check each
// item's capability predicates and move it. Bulk references keep going
// past per-item failures so "get all" picks up what it can.

func cmdGet(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		d.Send("Get what?")
		return
	}
	itemTok, contTok, fromCont := resolve.SplitContainerArg(args)
	ref, err := resolve.ParseRef(itemTok)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}

	if fromCont {
		getFromContainer(g, d, actor, ref, contTok)
		return
	}

	room := g.World.RoomOf(actor)
	if room == nil {
		return
	}
	matches := resolve.Find(g.World.ContentsOf(room), ref, resolve.Criteria{
		ObjectsOnly: true,
		Viewer:      actor,
	})
	if len(matches) == 0 {
		g.resolutionMiss()
		d.Send("You don't see that here.")
		return
	}
	for _, item := range matches {
		if msg := pickupDenial(g.World, actor, item); msg != "" {
			d.Send(msg)
			continue
		}
		if err := g.World.Move(item, actor); err != nil {
			g.internalError(d, actor, errors.Wrapf(err, "get %s", item.Name))
			continue
		}
		g.countItemMoved()
		g.Act("You get $p.", actor, item, nil, ToChar)
		g.Act("$n gets $p.", actor, item, nil, ToRoom)
		g.persist(item, actor, room)
	}
}

func getFromContainer(g *Game, d *Descriptor, actor *worlddb.Entity, ref resolve.Ref, contTok string) {
	cont, msg := g.findContainer(actor, contTok)
	if cont == nil {
		d.Send(msg)
		return
	}
	matches := resolve.Find(g.World.ContentsOf(cont), ref, resolve.Criteria{
		ObjectsOnly: true,
		Viewer:      actor,
	})
	if len(matches) == 0 {
		g.resolutionMiss()
		d.Sendf("You don't see that in %s.", cont.Name)
		return
	}
	for _, item := range matches {
		if msg := pickupDenial(g.World, actor, item); msg != "" {
			d.Send(msg)
			continue
		}
		if err := g.World.Move(item, actor); err != nil {
			g.internalError(d, actor, errors.Wrapf(err, "get %s from %s", item.Name, cont.Name))
			continue
		}
		g.countItemMoved()
		g.Act("You get $p from $P.", actor, item, cont, ToChar)
		g.Act("$n gets $p from $P.", actor, item, cont, ToRoom)
		g.persist(item, cont, actor)
	}
}

func cmdPut(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	itemTok, contTok, hasCont := resolve.SplitContainerArg(args)
	if args == "" || !hasCont {
		d.Send("Put what in what?")
		return
	}
	ref, err := resolve.ParseRef(itemTok)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}
	cont, msg := g.findContainer(actor, contTok)
	if cont == nil {
		d.Send(msg)
		return
	}
	matches := resolve.Find(g.World.ContentsOf(actor), ref, resolve.Criteria{
		ObjectsOnly:     true,
		ExcludeEquipped: true,
		// "put all in sack" must not swallow the sack or any other
		// container you are carrying; a single explicit reference may
		// still nest containers.
		ExcludeContainers: ref.All,
		Viewer:            actor,
	})
	if len(matches) == 0 {
		g.resolutionMiss()
		d.Send("You aren't carrying that.")
		return
	}
	for _, item := range matches {
		if item == cont {
			g.Act("You can't put $p inside itself.", actor, item, nil, ToChar)
			continue
		}
		if !worlddb.CanDrop(actor, item) {
			g.Act("You can't let go of $p, it must be cursed!", actor, item, nil, ToChar)
			continue
		}
		opts := worlddb.MoveOptions{IgnoreCapacity: !g.Conf.CapacityEnforced()}
		if err := g.World.MoveOpt(item, cont, opts); err != nil {
			if errors.Is(err, worlddb.ErrContainerFull) {
				g.Act("$P is full.", actor, item, cont, ToChar)
				continue
			}
			g.internalError(d, actor, errors.Wrapf(err, "put %s in %s", item.Name, cont.Name))
			continue
		}
		g.countItemMoved()
		g.Act("You put $p in $P.", actor, item, cont, ToChar)
		g.Act("$n puts $p in $P.", actor, item, cont, ToRoom)
		g.persist(item, actor, cont)
	}
}

func cmdDrop(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		d.Send("Drop what?")
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
	matches := resolve.Find(g.World.ContentsOf(actor), ref, resolve.Criteria{
		ObjectsOnly:     true,
		ExcludeEquipped: true,
		Viewer:          actor,
	})
	if len(matches) == 0 {
		g.resolutionMiss()
		d.Send("You aren't carrying that.")
		return
	}
	for _, item := range matches {
		if !worlddb.CanDrop(actor, item) {
			g.Act("You can't let go of $p, it must be cursed!", actor, item, nil, ToChar)
			continue
		}
		if err := g.World.Move(item, room); err != nil {
			g.internalError(d, actor, errors.Wrapf(err, "drop %s", item.Name))
			continue
		}
		g.countItemMoved()
		g.Act("You drop $p.", actor, item, nil, ToChar)
		g.Act("$n drops $p.", actor, item, nil, ToRoom)
		g.persist(item, actor, room)
	}
}

func cmdGive(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	itemTok, targetTok, ok := splitOnWord(args, "to")
	if !ok {
		d.Send("Give what to whom?")
		return
	}
	ref, err := resolve.ParseRef(itemTok)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}
	room := g.World.RoomOf(actor)
	if room == nil {
		return
	}
	targetRef, err := resolve.ParseRef(targetTok)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}
	target := resolve.FindOne(g.World.ContentsOf(room), targetRef, resolve.Criteria{
		CharactersOnly: true,
		Viewer:         actor,
	})
	if target == nil || target == actor {
		d.Send("They aren't here.")
		return
	}
	matches := resolve.Find(g.World.ContentsOf(actor), ref, resolve.Criteria{
		ObjectsOnly:     true,
		ExcludeEquipped: true,
		Viewer:          actor,
	})
	if len(matches) == 0 {
		g.resolutionMiss()
		d.Send("You aren't carrying that.")
		return
	}
	for _, item := range matches {
		if !worlddb.CanDrop(actor, item) {
			g.Act("You can't let go of $p, it must be cursed!", actor, item, nil, ToChar)
			continue
		}
		if !worlddb.CanPickUp(g.World, target, item) {
			g.Act("$N can't carry $p.", actor, item, target, ToChar)
			continue
		}
		if err := g.World.Move(item, target); err != nil {
			g.internalError(d, actor, errors.Wrapf(err, "give %s to %s", item.Name, target.Name))
			continue
		}
		g.countItemMoved()
		g.Act("You give $p to $N.", actor, item, target, ToChar)
		g.Act("$n gives you $p.", actor, item, target, ToVict)
		g.Act("$n gives $p to $N.", actor, item, target, ToNotVict)
		g.persist(item, actor, target)
	}
}

// findContainer resolves a container reference, searching the actor's
// inventory first and then the room. Container selection is always a
// single entity, never "all". Returns the container, or nil and a
// player-facing message.
func (g *Game) findContainer(actor *worlddb.Entity, token string) (*worlddb.Entity, string) {
	ref, err := resolve.ParseRef(token)
	if err != nil {
		return nil, capitalize(err.Error()) + "."
	}
	scope := g.World.ContentsOf(actor)
	if room := g.World.RoomOf(actor); room != nil {
		scope = append(scope, g.World.ContentsOf(room)...)
	}
	found := resolve.FindOne(scope, ref, resolve.Criteria{
		ObjectsOnly: true,
		Viewer:      actor,
	})
	if found == nil {
		g.resolutionMiss()
		return nil, fmt.Sprintf("You don't see a %s here.", ref.Name)
	}
	if !worlddb.IsContainer(found) {
		return nil, capitalize(found.Name) + " is not a container."
	}
	return found, ""
}

// pickupDenial translates CanPickUp's verdict into the message naming
// the specific obstacle. Empty string means the pickup is allowed.
func pickupDenial(w *worlddb.World, actor, obj *worlddb.Entity) string {
	if obj.Level > actor.Level {
		return fmt.Sprintf("You are not experienced enough to take %s.", obj.Name)
	}
	if obj.HasTag(worlddb.TagNoPickup) {
		return fmt.Sprintf("You can't take %s.", obj.Name)
	}
	if !worlddb.CanPickUp(w, actor, obj) {
		return fmt.Sprintf("%s: you can't carry that much weight.", capitalize(obj.Name))
	}
	return ""
}

// internalError is the path for mutator failures the capability checks
// should have ruled out. The player gets a generic line; the log gets
// the details.
func (g *Game) internalError(d *Descriptor, actor *worlddb.Entity, err error) {
	log.WithError(err).WithField("character", actor.Name).Error("command failed")
	d.Send("Something odd prevents that.")
}

func splitOnWord(args, connector string) (left, right string, found bool) {
	words := strings.Fields(args)
	for i, word := range words {
		if word != connector || i == 0 || i == len(words)-1 {
			continue
		}
		return strings.Join(words[:i], " "), strings.Join(words[i+1:], " "), true
	}
	return args, "", false
}
