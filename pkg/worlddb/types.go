package worlddb

// ID is the fundamental entity reference type.
type ID int

const (
	// Nothing is the null entity reference.
	Nothing ID = -1
)

// EntityType discriminates the three entity specializations.
type EntityType int

const (
	TypeRoom      EntityType = 0
	TypeCharacter EntityType = 1
	TypeObject    EntityType = 2
)

func (t EntityType) String() string {
	switch t {
	case TypeRoom:
		return "ROOM"
	case TypeCharacter:
		return "CHARACTER"
	case TypeObject:
		return "OBJECT"
	default:
		return "UNKNOWN"
	}
}

// Kind is the closed set of object variants.
type Kind int

const (
	KindDefault   Kind = 0
	KindBook      Kind = 1
	KindWeapon    Kind = 2
	KindEquipment Kind = 3
	KindContainer Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindBook:
		return "book"
	case KindWeapon:
		return "weapon"
	case KindEquipment:
		return "equipment"
	case KindContainer:
		return "container"
	default:
		return "unknown"
	}
}

// ParseKind maps a blueprint kind string to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "default":
		return KindDefault, true
	case "book":
		return KindBook, true
	case "weapon":
		return KindWeapon, true
	case "equipment":
		return KindEquipment, true
	case "container":
		return KindContainer, true
	}
	return KindDefault, false
}

// Slot names an equipment position on a character.
type Slot string

const (
	SlotHead    Slot = "head"
	SlotBody    Slot = "body"
	SlotHands   Slot = "hands"
	SlotFeet    Slot = "feet"
	SlotRFinger Slot = "r-finger"
	SlotLFinger Slot = "l-finger"
	SlotWield   Slot = "wield"
	SlotOffHand Slot = "off-hand"
)

// Condition bits on a character. Detection conditions pair with the
// matching concealment condition on the target.
type Condition int

const (
	CondSleeping Condition = 1 << iota
	CondInvisible
	CondHidden
	CondDetectInvis
	CondDetectHidden
	CondHolySight
	CondCurseImmune
)

// Sex selects pronoun substitution in narration.
type Sex int

const (
	SexNeuter Sex = 0
	SexMale   Sex = 1
	SexFemale Sex = 2
)

// ParseSex maps a blueprint sex string to a Sex.
func ParseSex(s string) (Sex, bool) {
	switch s {
	case "", "neuter":
		return SexNeuter, true
	case "male":
		return SexMale, true
	case "female":
		return SexFemale, true
	}
	return SexNeuter, false
}

// Semantic tag keys. Tags are free-form; these are the ones the
// capability predicates interpret.
const (
	TagCursed    = "cursed"
	TagNoPickup  = "no_pickup"
	TagInvisible = "invisible"
	TagHidden    = "hidden"
	TagQuestItem = "quest_item"
)
