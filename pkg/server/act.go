package server

import (
	"strings"
	"unicode"

	"github.com/ember-mush/goembermud/pkg/events"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// ActTarget selects who a narration template is rendered for.
type ActTarget int

const (
	ToChar    ActTarget = iota // the actor only
	ToVict                     // the aux character only
	ToRoom                     // everyone in the actor's room but the actor
	ToNotVict                  // everyone but the actor and the aux character
)

// Act renders a narration template once per recipient and delivers it
// over the event bus. Templates use $-tokens:
//
//	$n/$N  actor / aux name   $e/$E  subject pronoun
//	$p/$P  obj / aux name     $s/$S  possessive pronoun
//	$$     literal dollar     $m/$M  object pronoun
//
// Lowercase tokens refer to the actor and obj, uppercase to aux (a
// victim character or a second object such as a container). Names are
// rendered per recipient: an actor or aux character the recipient
// cannot see becomes "someone", an unseen object "something".
func (g *Game) Act(tmpl string, actor, obj, aux *worlddb.Entity, to ActTarget) {
	room := g.World.RoomOf(actor)
	deliver := func(viewer *worlddb.Entity) {
		if viewer == nil || viewer.HasCondition(worlddb.CondSleeping) {
			return
		}
		text := renderAct(g.World, tmpl, viewer, actor, obj, aux)
		g.Bus.EmitTo(viewer.ID, events.Event{
			Type:   events.EvAct,
			Source: actor.ID,
			Text:   text,
		})
	}

	switch to {
	case ToChar:
		deliver(actor)
	case ToVict:
		deliver(aux)
	case ToRoom, ToNotVict:
		if room == nil {
			return
		}
		for _, occupant := range g.World.ContentsOf(room) {
			if occupant.Type != worlddb.TypeCharacter || occupant == actor {
				continue
			}
			if to == ToNotVict && occupant == aux {
				continue
			}
			deliver(occupant)
		}
	}
}

func renderAct(w *worlddb.World, tmpl string, viewer, actor, obj, aux *worlddb.Entity) string {
	var b strings.Builder
	b.Grow(len(tmpl) + 16)
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '$' || i+1 == len(tmpl) {
			b.WriteByte(tmpl[i])
			continue
		}
		i++
		switch tmpl[i] {
		case 'n':
			b.WriteString(visibleName(viewer, actor))
		case 'N':
			b.WriteString(visibleName(viewer, aux))
		case 'p':
			b.WriteString(visibleName(viewer, obj))
		case 'P':
			b.WriteString(visibleName(viewer, aux))
		case 'e':
			b.WriteString(pronounSubject(actor))
		case 'E':
			b.WriteString(pronounSubject(aux))
		case 's':
			b.WriteString(pronounPossessive(actor))
		case 'S':
			b.WriteString(pronounPossessive(aux))
		case 'm':
			b.WriteString(pronounObject(actor))
		case 'M':
			b.WriteString(pronounObject(aux))
		case '$':
			b.WriteByte('$')
		default:
			b.WriteByte('$')
			b.WriteByte(tmpl[i])
		}
	}
	return capitalize(b.String())
}

// visibleName is how viewer perceives e in narration. Self-reference
// never masks; you always see yourself.
func visibleName(viewer, e *worlddb.Entity) string {
	if e == nil {
		return "something"
	}
	if viewer == e || worlddb.CanSee(viewer, e) {
		return e.Name
	}
	if e.Type == worlddb.TypeCharacter {
		return "someone"
	}
	return "something"
}

func pronounSubject(e *worlddb.Entity) string {
	switch charSex(e) {
	case worlddb.SexMale:
		return "he"
	case worlddb.SexFemale:
		return "she"
	}
	return "it"
}

func pronounObject(e *worlddb.Entity) string {
	switch charSex(e) {
	case worlddb.SexMale:
		return "him"
	case worlddb.SexFemale:
		return "her"
	}
	return "it"
}

func pronounPossessive(e *worlddb.Entity) string {
	switch charSex(e) {
	case worlddb.SexMale:
		return "his"
	case worlddb.SexFemale:
		return "her"
	}
	return "its"
}

func charSex(e *worlddb.Entity) worlddb.Sex {
	if e == nil || e.Char == nil {
		return worlddb.SexNeuter
	}
	return e.Char.Sex
}

func capitalize(s string) string {
	for i, r := range s {
		return s[:i] + string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
