package validate

import (
	"fmt"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// IntegrityChecker verifies the containment graph: every location and
// contents reference must name a live entity, and both sides of the
// bidirectional containment invariant must agree.
type IntegrityChecker struct{}

func (c *IntegrityChecker) Name() string { return "integrity" }

func (c *IntegrityChecker) Check(w *worlddb.World) []Finding {
	var findings []Finding

	for _, e := range w.Entities {
		if e.Location != worlddb.Nothing {
			holder := w.Get(e.Location)
			if holder == nil {
				findings = append(findings, Finding{
					Category:    CatDanglingRef,
					Severity:    SevError,
					Entity:      e.ID,
					Description: fmt.Sprintf("#%d location #%d does not exist", e.ID, e.Location),
				})
			} else if !containsID(holder.Contents, e.ID) {
				findings = append(findings, Finding{
					Category:    CatContainment,
					Severity:    SevError,
					Entity:      e.ID,
					Description: fmt.Sprintf("#%d claims location #%d but is not in its contents", e.ID, e.Location),
				})
			}
		}

		for _, held := range e.Contents {
			inner := w.Get(held)
			if inner == nil {
				findings = append(findings, Finding{
					Category:    CatDanglingRef,
					Severity:    SevError,
					Entity:      e.ID,
					Description: fmt.Sprintf("#%d contents reference #%d does not exist", e.ID, held),
				})
			} else if inner.Location != e.ID {
				findings = append(findings, Finding{
					Category:    CatContainment,
					Severity:    SevError,
					Entity:      e.ID,
					Description: fmt.Sprintf("#%d holds #%d but #%d claims location #%d", e.ID, held, held, inner.Location),
				})
			}
		}

		if e.Home != worlddb.Nothing && w.Get(e.Home) == nil {
			findings = append(findings, Finding{
				Category:    CatDanglingRef,
				Severity:    SevWarning,
				Entity:      e.ID,
				Description: fmt.Sprintf("#%d home #%d does not exist", e.ID, e.Home),
			})
		}

		if e.Type == worlddb.TypeRoom {
			for dir, dest := range e.Exits {
				if w.Get(dest) == nil {
					findings = append(findings, Finding{
						Category:    CatDanglingRef,
						Severity:    SevError,
						Entity:      e.ID,
						Description: fmt.Sprintf("#%d exit %q leads to missing room #%d", e.ID, dir, dest),
					})
				}
			}
		}
	}
	return findings
}

// EquipmentChecker verifies that slot references point at equipped
// items the character actually holds, and that every equipped item is
// referenced by exactly one slot.
type EquipmentChecker struct{}

func (c *EquipmentChecker) Name() string { return "equipment" }

func (c *EquipmentChecker) Check(w *worlddb.World) []Finding {
	var findings []Finding

	for _, e := range w.Entities {
		if e.Char != nil {
			for slot, id := range e.Char.Slots {
				item := w.Get(id)
				switch {
				case item == nil:
					findings = append(findings, Finding{
						Category:    CatDanglingRef,
						Severity:    SevError,
						Entity:      e.ID,
						Description: fmt.Sprintf("#%d slot %s references missing entity #%d", e.ID, slot, id),
					})
				case item.Location != e.ID:
					findings = append(findings, Finding{
						Category:    CatEquipment,
						Severity:    SevError,
						Entity:      e.ID,
						Description: fmt.Sprintf("#%d slot %s references #%d which it does not hold", e.ID, slot, id),
					})
				case !worlddb.IsEquipped(item):
					findings = append(findings, Finding{
						Category:    CatEquipment,
						Severity:    SevError,
						Entity:      e.ID,
						Description: fmt.Sprintf("#%d slot %s references #%d which is not worn or wielded", e.ID, slot, id),
					})
				}
			}
		}

		if worlddb.IsEquipped(e) {
			holder := w.Holder(e)
			if holder == nil || holder.Char == nil || holder.EquippedSlot(e.ID) == "" {
				findings = append(findings, Finding{
					Category:    CatEquipment,
					Severity:    SevError,
					Entity:      e.ID,
					Description: fmt.Sprintf("#%d is flagged equipped but no holder slot references it", e.ID),
				})
			}
		}
	}
	return findings
}

// CapacityChecker flags containers holding more than their capacity.
// Over-capacity is legal when the relaxed put policy is configured, so
// these are warnings, not errors.
type CapacityChecker struct{}

func (c *CapacityChecker) Name() string { return "capacity" }

func (c *CapacityChecker) Check(w *worlddb.World) []Finding {
	var findings []Finding
	for _, e := range w.Entities {
		if !worlddb.IsContainer(e) || e.Container.Capacity < 0 {
			continue
		}
		if len(e.Contents) > e.Container.Capacity {
			findings = append(findings, Finding{
				Category:    CatCapacity,
				Severity:    SevWarning,
				Entity:      e.ID,
				Description: fmt.Sprintf("#%d holds %d items over capacity %d", e.ID, len(e.Contents), e.Container.Capacity),
			})
		}
	}
	return findings
}

func containsID(ids []worlddb.ID, id worlddb.ID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
