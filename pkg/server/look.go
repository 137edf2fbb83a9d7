package server

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gertd/go-pluralize"

	"github.com/ember-mush/goembermud/pkg/resolve"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

var plural = pluralize.NewClient()

func cmdLook(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		g.showRoom(d, actor)
		return
	}
	if rest, ok := strings.CutPrefix(args, "in "); ok {
		lookInContainer(g, d, actor, strings.TrimSpace(rest))
		return
	}
	lookAt(g, d, actor, args)
}

// showRoom renders the actor's current room: title, description, exits,
// then characters and loose objects in insertion order.
func (g *Game) showRoom(d *Descriptor, actor *worlddb.Entity) {
	room := g.World.RoomOf(actor)
	if room == nil {
		d.Send("You float in a formless void.")
		return
	}
	d.Send(room.Name)
	if room.Desc != "" {
		d.Send(room.Desc)
	}
	d.Send("[ Exits: " + exitLine(room) + " ]")
	for _, e := range g.World.ContentsOf(room) {
		if e == actor || !worlddb.CanSee(actor, e) {
			continue
		}
		switch e.Type {
		case worlddb.TypeCharacter:
			if e.HasCondition(worlddb.CondSleeping) {
				d.Send(capitalize(e.Name) + " is sleeping here.")
			} else {
				d.Send(capitalize(e.Name) + " is standing here.")
			}
		case worlddb.TypeObject:
			d.Send(capitalize(e.Name) + " lies here.")
		}
	}
}

func exitLine(room *worlddb.Entity) string {
	if len(room.Exits) == 0 {
		return "none"
	}
	dirs := make([]string, 0, len(room.Exits))
	for dir := range room.Exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return strings.Join(dirs, " ")
}

func lookAt(g *Game, d *Descriptor, actor *worlddb.Entity, args string) {
	ref, err := resolve.ParseRef(args)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}
	scope := g.World.ContentsOf(actor)
	if room := g.World.RoomOf(actor); room != nil {
		scope = append(scope, g.World.ContentsOf(room)...)
	}
	target := resolve.FindOne(scope, ref, resolve.Criteria{Viewer: actor})
	if target == nil {
		g.resolutionMiss()
		d.Send("You don't see that here.")
		return
	}
	if target.Desc != "" {
		d.Send(target.Desc)
	} else {
		d.Sendf("You see nothing special about %s.", target.Name)
	}
	if worlddb.IsBook(target) {
		d.Sendf("%s looks like it could be read.", capitalize(target.Name))
	}
	if target.Type == worlddb.TypeCharacter && target != actor {
		g.Act("$n looks at you.", actor, nil, target, ToVict)
		g.Act("$n looks at $N.", actor, nil, target, ToNotVict)
	}
}

// lookInContainer lists a container's contents sorted case-insensitively
// by short description, with duplicates grouped ("two torches").
func lookInContainer(g *Game, d *Descriptor, actor *worlddb.Entity, token string) {
	if token == "" {
		d.Send("Look in what?")
		return
	}
	cont, msg := g.findContainer(actor, token)
	if cont == nil {
		d.Send(msg)
		return
	}
	visible := make([]*worlddb.Entity, 0, len(cont.Contents))
	for _, e := range g.World.ContentsOf(cont) {
		if worlddb.CanSee(actor, e) {
			visible = append(visible, e)
		}
	}
	if len(visible) == 0 {
		d.Sendf("%s is empty.", capitalize(cont.Name))
		return
	}
	d.Sendf("%s contains:", capitalize(cont.Name))
	names := groupedNames(visible)
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	for _, name := range names {
		d.Send("  " + name)
	}
}

func cmdInventory(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	carried := make([]*worlddb.Entity, 0, len(actor.Contents))
	for _, e := range g.World.ContentsOf(actor) {
		if !worlddb.IsEquipped(e) {
			carried = append(carried, e)
		}
	}
	d.Send("You are carrying:")
	if len(carried) == 0 {
		d.Send("  nothing.")
		return
	}
	for _, name := range groupedNames(carried) {
		d.Send("  " + name)
	}
}

func cmdRead(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		d.Send("Read what?")
		return
	}
	ref, err := resolve.ParseRef(args)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}
	scope := g.World.ContentsOf(actor)
	if room := g.World.RoomOf(actor); room != nil {
		scope = append(scope, g.World.ContentsOf(room)...)
	}
	target := resolve.FindOne(scope, ref, resolve.Criteria{ObjectsOnly: true, Viewer: actor})
	if target == nil {
		g.resolutionMiss()
		d.Send("You don't see that here.")
		return
	}
	if !worlddb.IsBook(target) {
		g.Act("There is nothing written on $p.", actor, target, nil, ToChar)
		return
	}
	g.Act("You read $p.", actor, target, nil, ToChar)
	g.Act("$n reads $p.", actor, target, nil, ToRoom)
	d.Send(target.Book.Text)
}

// groupedNames collapses duplicate short descriptions into one line
// with a count, preserving first-occurrence order.
func groupedNames(items []*worlddb.Entity) []string {
	counts := map[string]int{}
	var order []string
	for _, e := range items {
		if counts[e.Name] == 0 {
			order = append(order, e.Name)
		}
		counts[e.Name]++
	}
	result := make([]string, 0, len(order))
	for _, name := range order {
		if n := counts[name]; n > 1 {
			result = append(result, fmt.Sprintf("%s (x%d)", pluralName(name), n))
		} else {
			result = append(result, name)
		}
	}
	return result
}

// pluralName pluralizes the final word of a short description, dropping
// a leading article: "a flaming torch" becomes "flaming torches".
func pluralName(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return name
	}
	switch strings.ToLower(words[0]) {
	case "a", "an", "the":
		words = words[1:]
	}
	if len(words) == 0 {
		return name
	}
	words[len(words)-1] = plural.Plural(words[len(words)-1])
	return strings.Join(words, " ")
}
