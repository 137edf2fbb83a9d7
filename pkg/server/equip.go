package server

import (
	"github.com/ember-mush/goembermud/pkg/resolve"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// slotOrder fixes the display order of equipment listings.
var slotOrder = []worlddb.Slot{
	worlddb.SlotHead,
	worlddb.SlotBody,
	worlddb.SlotHands,
	worlddb.SlotFeet,
	worlddb.SlotRFinger,
	worlddb.SlotLFinger,
	worlddb.SlotWield,
	worlddb.SlotOffHand,
}

var slotLabels = map[worlddb.Slot]string{
	worlddb.SlotHead:    "<worn on head>",
	worlddb.SlotBody:    "<worn on body>",
	worlddb.SlotHands:   "<worn on hands>",
	worlddb.SlotFeet:    "<worn on feet>",
	worlddb.SlotRFinger: "<worn on right finger>",
	worlddb.SlotLFinger: "<worn on left finger>",
	worlddb.SlotWield:   "<wielded>",
	worlddb.SlotOffHand: "<held in off-hand>",
}

func cmdWear(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		d.Send("Wear what?")
		return
	}
	ref, err := resolve.ParseRef(args)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
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
		if !worlddb.IsEquipment(item) {
			if !ref.All {
				g.Act("You can't wear $p.", actor, item, nil, ToChar)
			}
			continue
		}
		slot := item.Equip.Slot
		if _, taken := actor.Char.Slots[slot]; taken {
			g.Act("You are already wearing something on your "+string(slot)+".", actor, item, nil, ToChar)
			continue
		}
		item.Worn = true
		actor.Char.Slots[slot] = item.ID
		applyEffects(actor, item)
		g.Act("You wear $p.", actor, item, nil, ToChar)
		g.Act("$n wears $p.", actor, item, nil, ToRoom)
		g.persist(actor, item)
	}
}

func cmdWield(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		d.Send("Wield what?")
		return
	}
	ref, err := resolve.ParseRef(args)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}
	item := resolve.FindOne(g.World.ContentsOf(actor), ref, resolve.Criteria{
		ObjectsOnly:     true,
		ExcludeEquipped: true,
		Viewer:          actor,
	})
	if item == nil {
		g.resolutionMiss()
		d.Send("You aren't carrying that.")
		return
	}
	if !worlddb.IsWeapon(item) {
		g.Act("You can't wield $p.", actor, item, nil, ToChar)
		return
	}
	if _, taken := actor.Char.Slots[worlddb.SlotWield]; taken {
		d.Send("You are already wielding something.")
		return
	}
	item.Wielded = true
	actor.Char.Slots[worlddb.SlotWield] = item.ID
	g.Act("You wield $p.", actor, item, nil, ToChar)
	g.Act("$n wields $p.", actor, item, nil, ToRoom)
	g.persist(actor, item)
}

func cmdRemove(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		d.Send("Remove what?")
		return
	}
	ref, err := resolve.ParseRef(args)
	if err != nil {
		d.Send(capitalize(err.Error()) + ".")
		return
	}
	matches := resolve.Find(g.World.ContentsOf(actor), ref, resolve.Criteria{
		ObjectsOnly:  true,
		EquippedOnly: true,
	})
	if len(matches) == 0 {
		g.resolutionMiss()
		d.Send("You aren't using that.")
		return
	}
	for _, item := range matches {
		if worlddb.IsCursed(item) && !actor.HasCondition(worlddb.CondCurseImmune) {
			g.Act("You can't remove $p, it seems to be cursed!", actor, item, nil, ToChar)
			continue
		}
		unequip(g.World, actor, item)
		g.Act("You stop using $p.", actor, item, nil, ToChar)
		g.Act("$n stops using $p.", actor, item, nil, ToRoom)
		g.persist(actor, item)
	}
}

// unequip clears the slot reference and flags and reverses any worn
// effects. The item stays in the character's contents.
func unequip(w *worlddb.World, actor, item *worlddb.Entity) {
	if slot := actor.EquippedSlot(item.ID); slot != "" {
		delete(actor.Char.Slots, slot)
	}
	if item.Worn {
		removeEffects(w, actor, item)
	}
	item.Worn = false
	item.Wielded = false
}

// applyEffects adds an equipment item's stat bonuses and condition
// grants to the wearer.
func applyEffects(actor, item *worlddb.Entity) {
	if item.Equip == nil {
		return
	}
	for _, eff := range item.Equip.Effects {
		if eff.Cond != 0 {
			actor.SetCondition(eff.Cond, true)
			continue
		}
		actor.Char.Stats[eff.Stat] += eff.Amount
	}
}

// removeEffects reverses applyEffects. Condition grants are recomputed
// from the remaining worn items, so two rings of invisibility do not
// cancel each other when one comes off.
func removeEffects(w *worlddb.World, actor, item *worlddb.Entity) {
	if item.Equip == nil {
		return
	}
	for _, eff := range item.Equip.Effects {
		if eff.Cond != 0 {
			actor.SetCondition(eff.Cond, stillGranted(w, actor, item, eff.Cond))
			continue
		}
		actor.Char.Stats[eff.Stat] -= eff.Amount
	}
}

// stillGranted reports whether a worn item other than the one being
// removed still grants the condition.
func stillGranted(w *worlddb.World, actor, removing *worlddb.Entity, cond worlddb.Condition) bool {
	for _, id := range actor.Char.Slots {
		if id == removing.ID {
			continue
		}
		other := w.Get(id)
		if other == nil || other.Equip == nil || !other.Worn {
			continue
		}
		for _, eff := range other.Equip.Effects {
			if eff.Cond == cond {
				return true
			}
		}
	}
	return false
}

func cmdEquipment(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	d.Send("You are using:")
	used := false
	for _, slot := range slotOrder {
		id, ok := actor.Char.Slots[slot]
		if !ok {
			continue
		}
		item := g.World.Get(id)
		if item == nil {
			continue
		}
		d.Sendf("%-24s %s", slotLabels[slot], item.Name)
		used = true
	}
	if !used {
		d.Send("  nothing.")
	}
}
