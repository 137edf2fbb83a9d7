package resolve

import (
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// Criteria narrows a scope before name matching happens. Entities
// removed here are invisible to positional indexing: "2.sword" counts
// only candidates that survive the filter.
type Criteria struct {
	ObjectsOnly       bool // drop rooms and characters
	CharactersOnly    bool // drop everything but characters
	ContainersOnly    bool // keep container objects only
	ExcludeContainers bool // drop container objects
	ExcludeEquipped   bool // drop worn/wielded items
	EquippedOnly      bool // keep worn/wielded items only
	Viewer            *worlddb.Entity // drop entities the viewer cannot see
}

func (c Criteria) admits(e *worlddb.Entity) bool {
	if c.ObjectsOnly && e.Type != worlddb.TypeObject {
		return false
	}
	if c.CharactersOnly && e.Type != worlddb.TypeCharacter {
		return false
	}
	if c.ContainersOnly && !worlddb.IsContainer(e) {
		return false
	}
	if c.ExcludeContainers && worlddb.IsContainer(e) {
		return false
	}
	if c.ExcludeEquipped && worlddb.IsEquipped(e) {
		return false
	}
	if c.EquippedOnly && !worlddb.IsEquipped(e) {
		return false
	}
	if c.Viewer != nil && !worlddb.CanSee(c.Viewer, e) {
		return false
	}
	return true
}

// Find resolves a reference against an ordered scope. For an "all"
// selector it returns every match in scope order ("all" by itself
// matches everything admitted by the criteria). For a positional
// selector it returns the Nth name match, or nothing if fewer than N
// exist. Otherwise it returns the first match. Scope order is the
// holder's insertion order and is never re-ranked.
func Find(scope []*worlddb.Entity, ref Ref, c Criteria) []*worlddb.Entity {
	var result []*worlddb.Entity
	seen := 0
	for _, e := range scope {
		if !c.admits(e) {
			continue
		}
		if ref.All && ref.Name == "all" {
			result = append(result, e)
			continue
		}
		if !e.MatchName(ref.Name) {
			continue
		}
		if ref.All {
			result = append(result, e)
			continue
		}
		seen++
		if ref.Pos > 0 {
			if seen == ref.Pos {
				return []*worlddb.Entity{e}
			}
			continue
		}
		return []*worlddb.Entity{e}
	}
	if ref.All {
		return result
	}
	return nil
}

// FindOne is Find for callers that want at most a single entity. An
// "all" selector degrades to the first match; container resolution in
// particular is never implicitly "all".
func FindOne(scope []*worlddb.Entity, ref Ref, c Criteria) *worlddb.Entity {
	matches := Find(scope, ref, c)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}
