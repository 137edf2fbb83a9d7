package worlddb

// Capability predicates: stateless yes/no questions over entity state.
// Commands compose these to decide whether an action is legal; none of
// them mutate anything, and all of them tolerate entities of the wrong
// specialization by answering false.

// IsContainer reports whether e is a container object.
func IsContainer(e *Entity) bool {
	return e.Type == TypeObject && e.Kind == KindContainer
}

// IsEquipment reports whether e is a wearable object.
func IsEquipment(e *Entity) bool {
	return e.Type == TypeObject && e.Kind == KindEquipment
}

// IsWeapon reports whether e is a weapon object.
func IsWeapon(e *Entity) bool {
	return e.Type == TypeObject && e.Kind == KindWeapon
}

// IsBook reports whether e is a book object.
func IsBook(e *Entity) bool {
	return e.Type == TypeObject && e.Kind == KindBook
}

// IsWorn reports whether e is currently worn.
func IsWorn(e *Entity) bool { return e.Worn }

// IsWielded reports whether e is currently wielded.
func IsWielded(e *Entity) bool { return e.Wielded }

// IsEquipped reports whether e is worn or wielded. Equipped items are
// excluded from generic inventory listings and scans.
func IsEquipped(e *Entity) bool { return e.Worn || e.Wielded }

// IsCursed reports whether e carries the cursed tag. A cursed item
// resists remove, unwield, and drop while equipped.
func IsCursed(e *Entity) bool { return e.HasTag(TagCursed) }

// CarryWeight sums the weight of everything the actor holds, equipped
// items included.
func CarryWeight(w *World, actor *Entity) int {
	total := 0
	for _, held := range w.ContentsOf(actor) {
		total += held.Weight
	}
	return total
}

// CanPickUp reports whether actor may take obj: the object's required
// level must not exceed the actor's, it must not be tagged no_pickup,
// and its weight must fit within the actor's remaining carry capacity.
func CanPickUp(w *World, actor, obj *Entity) bool {
	if actor.Char == nil || obj.Type != TypeObject {
		return false
	}
	if obj.Level > actor.Level {
		return false
	}
	if obj.HasTag(TagNoPickup) {
		return false
	}
	if actor.Char.CarryMax >= 0 && CarryWeight(w, actor)+obj.Weight > actor.Char.CarryMax {
		return false
	}
	return true
}

// CanDrop reports whether actor may let go of obj. Cursed and equipped
// items stay put.
func CanDrop(actor, obj *Entity) bool {
	if IsCursed(obj) {
		return false
	}
	return !IsEquipped(obj)
}

// CanSee reports whether viewer perceives target. Holy sight sees
// everything. Hidden or invisible characters require the matching
// detection condition; invisible objects require detect-invis.
func CanSee(viewer, target *Entity) bool {
	if viewer.HasCondition(CondHolySight) {
		return true
	}
	if target.Type == TypeCharacter {
		if target.HasCondition(CondInvisible) && !viewer.HasCondition(CondDetectInvis) {
			return false
		}
		if target.HasCondition(CondHidden) && !viewer.HasCondition(CondDetectHidden) {
			return false
		}
		return true
	}
	if target.HasTag(TagInvisible) && !viewer.HasCondition(CondDetectInvis) {
		return false
	}
	return true
}

// CanContainMore reports whether c has room for one more entity. A
// negative capacity is unlimited; non-containers have no room at all.
func CanContainMore(c *Entity) bool {
	if !IsContainer(c) {
		return false
	}
	if c.Container.Capacity < 0 {
		return true
	}
	return len(c.Contents) < c.Container.Capacity
}
