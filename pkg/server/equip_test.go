package server

import (
	"strings"
	"testing"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

func TestWearAppliesEffects(t *testing.T) {
	env := newTestEnv(t)
	helm := env.addObject(env.actor, "an iron helm", []string{"helm"}, worlddb.KindEquipment,
		&worlddb.EquipInfo{
			Slot:    worlddb.SlotHead,
			Effects: []worlddb.Effect{{Stat: "armor", Amount: 2}},
		})

	env.run("wear helm")
	if !helm.Worn {
		t.Fatal("helm not worn")
	}
	if env.actor.Char.Slots[worlddb.SlotHead] != helm.ID {
		t.Error("head slot not set")
	}
	if env.actor.Char.Stats["armor"] != 2 {
		t.Errorf("armor = %d, want 2", env.actor.Char.Stats["armor"])
	}
	env.assertSaid("You wear an iron helm.")

	env.reset()
	env.run("remove helm")
	if helm.Worn {
		t.Fatal("helm still worn after remove")
	}
	if _, ok := env.actor.Char.Slots[worlddb.SlotHead]; ok {
		t.Error("head slot still referenced")
	}
	if env.actor.Char.Stats["armor"] != 0 {
		t.Errorf("armor = %d after remove, want 0", env.actor.Char.Stats["armor"])
	}
}

func TestWearSlotConflict(t *testing.T) {
	env := newTestEnv(t)
	first := env.addObject(env.actor, "an iron helm", []string{"helm"}, worlddb.KindEquipment,
		&worlddb.EquipInfo{Slot: worlddb.SlotHead})
	second := env.addObject(env.actor, "a leather cap", []string{"cap"}, worlddb.KindEquipment,
		&worlddb.EquipInfo{Slot: worlddb.SlotHead})

	env.run("wear helm")
	env.reset()
	env.run("wear cap")
	env.assertSaid("already wearing something on your head")
	if second.Worn {
		t.Error("second helm got worn anyway")
	}
	if !first.Worn {
		t.Error("first helm lost its slot")
	}
}

func TestWearNonEquipment(t *testing.T) {
	env := newTestEnv(t)
	env.addObject(env.actor, "a pebble", []string{"pebble"}, worlddb.KindDefault, nil)
	env.run("wear pebble")
	env.assertSaid("You can't wear a pebble.")
}

func TestWieldWeaponOnly(t *testing.T) {
	env := newTestEnv(t)
	sword := env.addObject(env.actor, "a bronze sword", []string{"sword"}, worlddb.KindWeapon,
		&worlddb.WeaponInfo{MinDamage: 1, MaxDamage: 6})
	env.addObject(env.actor, "a dusty tome", []string{"tome"}, worlddb.KindBook,
		&worlddb.BookInfo{Text: "x"})

	env.run("wield tome")
	env.assertSaid("You can't wield a dusty tome.")

	env.reset()
	env.run("wield sword")
	if !sword.Wielded {
		t.Fatal("sword not wielded")
	}
	if env.actor.Char.Slots[worlddb.SlotWield] != sword.ID {
		t.Error("wield slot not set")
	}

	env.reset()
	env.run("wield sword")
	env.assertSaid("You aren't carrying that.")
}

func TestRemoveCursedRefused(t *testing.T) {
	env := newTestEnv(t)
	ring := env.addObject(env.actor, "a tarnished ring", []string{"ring"}, worlddb.KindEquipment,
		&worlddb.EquipInfo{Slot: worlddb.SlotRFinger})
	ring.SetTag(worlddb.TagCursed, true)

	env.run("wear ring")
	if !ring.Worn {
		t.Fatal("cursed ring refused wear; curses bind on remove, not wear")
	}

	env.reset()
	env.run("remove ring")
	env.assertSaid("cursed")
	if !ring.Worn {
		t.Error("cursed ring came off")
	}

	env.reset()
	env.actor.SetCondition(worlddb.CondCurseImmune, true)
	env.run("remove ring")
	if ring.Worn {
		t.Error("curse-immune character could not remove the ring")
	}
}

func TestConditionEffectSurvivesSecondSource(t *testing.T) {
	env := newTestEnv(t)
	ringA := env.addObject(env.actor, "a silver ring", []string{"silver"}, worlddb.KindEquipment,
		&worlddb.EquipInfo{
			Slot:    worlddb.SlotRFinger,
			Effects: []worlddb.Effect{{Cond: worlddb.CondDetectInvis}},
		})
	env.addObject(env.actor, "a golden ring", []string{"golden"}, worlddb.KindEquipment,
		&worlddb.EquipInfo{
			Slot:    worlddb.SlotLFinger,
			Effects: []worlddb.Effect{{Cond: worlddb.CondDetectInvis}},
		})

	env.run("wear silver")
	env.run("wear golden")
	if !env.actor.HasCondition(worlddb.CondDetectInvis) {
		t.Fatal("condition not granted")
	}

	env.run("remove silver")
	if !env.actor.HasCondition(worlddb.CondDetectInvis) {
		t.Error("removing one of two sources dropped the condition")
	}
	_ = ringA

	env.run("remove golden")
	if env.actor.HasCondition(worlddb.CondDetectInvis) {
		t.Error("condition survived removing its last source")
	}
}

func TestEquipmentListing(t *testing.T) {
	env := newTestEnv(t)
	helm := env.addObject(env.actor, "an iron helm", []string{"helm"}, worlddb.KindEquipment,
		&worlddb.EquipInfo{Slot: worlddb.SlotHead})
	helm.Worn = true
	env.actor.Char.Slots[worlddb.SlotHead] = helm.ID

	env.run("equipment")
	out := env.output()
	if !strings.Contains(out, "<worn on head>") || !strings.Contains(out, "an iron helm") {
		t.Errorf("equipment listing wrong:\n%s", out)
	}
}

func TestRemoveAll(t *testing.T) {
	env := newTestEnv(t)
	helm := env.addObject(env.actor, "an iron helm", []string{"helm"}, worlddb.KindEquipment,
		&worlddb.EquipInfo{Slot: worlddb.SlotHead})
	sword := env.addObject(env.actor, "a bronze sword", []string{"sword"}, worlddb.KindWeapon,
		&worlddb.WeaponInfo{MinDamage: 1, MaxDamage: 6})

	env.run("wear helm")
	env.run("wield sword")
	env.run("remove all")
	if helm.Worn || sword.Wielded {
		t.Error("remove all left something equipped")
	}
	if len(env.actor.Char.Slots) != 0 {
		t.Errorf("slots not cleared: %v", env.actor.Char.Slots)
	}
}
