package worlddb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testWorld builds a room with one character in it.
func testWorld(t *testing.T) (*World, *Entity, *Entity) {
	t.Helper()
	w := NewWorld(nil)
	room := w.Add(NewRoom("Temple Square"))
	actor := w.Add(NewCharacter("Aria", []string{"aria"}, CharInfo{CarryMax: 100}))
	actor.Level = 10
	if err := w.Move(actor, room); err != nil {
		t.Fatalf("move actor into room: %v", err)
	}
	return w, room, actor
}

func mustObject(t *testing.T, name string, aliases []string, kind Kind, payload any) *Entity {
	t.Helper()
	e, err := NewObject(name, aliases, kind, payload)
	if err != nil {
		t.Fatalf("NewObject(%s): %v", name, err)
	}
	return e
}

func TestNewObjectValidatesPayload(t *testing.T) {
	if _, err := NewObject("a leaky sack", []string{"sack"}, KindContainer, nil); err == nil {
		t.Fatal("container without payload should fail")
	}
	if _, err := NewObject("a rock", []string{"rock"}, KindDefault, &WeaponInfo{}); err == nil {
		t.Fatal("default object with payload should fail")
	}
	if _, err := NewObject("a hat", []string{"hat"}, KindEquipment, &EquipInfo{}); err == nil {
		t.Fatal("equipment without slot should fail")
	}
	if _, err := NewObject("a sack", []string{"sack"}, KindContainer, &ContainerInfo{Capacity: 5}); err != nil {
		t.Fatalf("valid container rejected: %v", err)
	}
}

func TestMoveAtomicity(t *testing.T) {
	w, room, actor := testWorld(t)
	sword := w.Add(mustObject(t, "a bronze sword", []string{"sword", "bronze"}, KindWeapon, &WeaponInfo{MinDamage: 1, MaxDamage: 6}))
	if err := w.Move(sword, room); err != nil {
		t.Fatalf("move to room: %v", err)
	}
	if err := w.Move(sword, actor); err != nil {
		t.Fatalf("move to actor: %v", err)
	}
	if sword.Location != actor.ID {
		t.Errorf("location = %d, want %d", sword.Location, actor.ID)
	}
	count := 0
	for _, id := range actor.Contents {
		if id == sword.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("actor holds sword %d times, want exactly once", count)
	}
	for _, id := range room.Contents {
		if id == sword.ID {
			t.Error("room still lists the sword after the move")
		}
	}
}

func TestMoveCapacity(t *testing.T) {
	w, room, _ := testWorld(t)
	chest := w.Add(mustObject(t, "a small chest", []string{"chest"}, KindContainer, &ContainerInfo{Capacity: 1}))
	w.Move(chest, room)
	coin := w.Add(mustObject(t, "a gold coin", []string{"coin"}, KindDefault, nil))
	key := w.Add(mustObject(t, "a rusty key", []string{"key"}, KindDefault, nil))
	if err := w.Move(coin, chest); err != nil {
		t.Fatalf("first item should fit: %v", err)
	}
	if err := w.Move(key, chest); err != ErrContainerFull {
		t.Fatalf("second item: got %v, want ErrContainerFull", err)
	}
	if len(chest.Contents) != 1 {
		t.Errorf("chest holds %d items, want 1", len(chest.Contents))
	}
	if err := w.MoveOpt(key, chest, MoveOptions{IgnoreCapacity: true}); err != nil {
		t.Fatalf("IgnoreCapacity move: %v", err)
	}
}

func TestMoveRefusesEquipped(t *testing.T) {
	w, room, actor := testWorld(t)
	helm := w.Add(mustObject(t, "an iron helm", []string{"helm"}, KindEquipment, &EquipInfo{Slot: SlotHead}))
	w.Move(helm, actor)
	helm.Worn = true
	actor.Char.Slots[SlotHead] = helm.ID
	if err := w.Move(helm, room); err != ErrEquipped {
		t.Fatalf("moving a worn item: got %v, want ErrEquipped", err)
	}
}

func TestMoveBadDestination(t *testing.T) {
	w, room, _ := testWorld(t)
	rock := w.Add(mustObject(t, "a rock", []string{"rock"}, KindDefault, nil))
	w.Move(rock, room)
	pebble := w.Add(mustObject(t, "a pebble", []string{"pebble"}, KindDefault, nil))
	if err := w.Move(pebble, rock); err == nil {
		t.Fatal("moving into a non-container object should fail")
	}
}

func TestDeleteRelocatesContents(t *testing.T) {
	w, room, actor := testWorld(t)
	home := w.Add(NewRoom("Donation Room"))
	bag := w.Add(mustObject(t, "a leather bag", []string{"bag"}, KindContainer, &ContainerInfo{Capacity: -1}))
	w.Move(bag, actor)
	loaf := w.Add(mustObject(t, "a loaf of bread", []string{"loaf", "bread"}, KindDefault, nil))
	loaf.Home = home.ID
	w.Move(loaf, bag)
	ring := w.Add(mustObject(t, "a copper ring", []string{"ring"}, KindEquipment, &EquipInfo{Slot: SlotRFinger}))
	w.Move(ring, bag)

	w.Delete(bag)

	if w.Get(bag.ID) != nil {
		t.Error("bag still registered after delete")
	}
	if loaf.Location != home.ID {
		t.Errorf("loaf relocated to %d, want its home %d", loaf.Location, home.ID)
	}
	if ring.Location != room.ID {
		t.Errorf("ring relocated to %d, want holder's room %d", ring.Location, room.ID)
	}
	for _, id := range actor.Contents {
		if id == bag.ID {
			t.Error("actor still lists the deleted bag")
		}
	}
}

func TestDeleteClearsEquipmentRefs(t *testing.T) {
	w, _, actor := testWorld(t)
	helm := w.Add(mustObject(t, "an iron helm", []string{"helm"}, KindEquipment, &EquipInfo{Slot: SlotHead}))
	w.Move(helm, actor)
	helm.Worn = true
	actor.Char.Slots[SlotHead] = helm.ID

	w.Delete(helm)

	if _, held := actor.Char.Slots[SlotHead]; held {
		t.Error("head slot still references the deleted helm")
	}
}

func TestContentsOrderIsInsertionOrder(t *testing.T) {
	w, room, _ := testWorld(t)
	var want []string
	for _, name := range []string{"a torch", "a lantern", "a second torch"} {
		obj := w.Add(mustObject(t, name, []string{"light"}, KindDefault, nil))
		w.Move(obj, room)
		want = append(want, name)
	}
	var got []string
	for _, e := range w.ContentsOf(room) {
		if e.Type == TypeObject {
			got = append(got, e.Name)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("contents order mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchName(t *testing.T) {
	sword := &Entity{Name: "a bronze sword", Aliases: []string{"sword", "bronze"}}
	cases := []struct {
		name string
		want bool
	}{
		{"sword", true},
		{"swo", true},   // partial match
		{"ronze", true}, // substring match
		{"Sword", false}, // case-sensitive
		{"dagger", false},
		{"", false},
	}
	for _, c := range cases {
		if got := sword.MatchName(c.name); got != c.want {
			t.Errorf("MatchName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRoomOf(t *testing.T) {
	w, room, actor := testWorld(t)
	bag := w.Add(mustObject(t, "a bag", []string{"bag"}, KindContainer, &ContainerInfo{Capacity: -1}))
	w.Move(bag, actor)
	coin := w.Add(mustObject(t, "a coin", []string{"coin"}, KindDefault, nil))
	w.Move(coin, bag)
	if got := w.RoomOf(coin); got != room {
		t.Errorf("RoomOf(coin) = %v, want the temple", got)
	}
}
