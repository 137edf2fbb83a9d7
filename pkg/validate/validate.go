// Package validate runs referential integrity checks over an entity
// graph: dangling references, one-sided containment, equipment slots
// pointing at items the character does not hold. The world loader runs
// it after populating from blueprints, and wizards can run it live.
package validate

import (
	"sort"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// Category classifies the type of finding.
type Category int

const (
	CatDanglingRef Category = iota // reference to a missing entity
	CatContainment                 // location/contents disagreement
	CatEquipment                   // slot or worn-flag inconsistency
	CatCapacity                    // container over capacity
)

func (c Category) String() string {
	switch c {
	case CatDanglingRef:
		return "dangling-ref"
	case CatContainment:
		return "containment"
	case CatEquipment:
		return "equipment"
	case CatCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// Severity indicates how serious a finding is.
type Severity int

const (
	SevError   Severity = iota // must be fixed for correct behavior
	SevWarning                 // should be reviewed
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Finding is a single issue detected in the entity graph.
type Finding struct {
	Category    Category   `json:"category"`
	Severity    Severity   `json:"severity"`
	Entity      worlddb.ID `json:"entity"`
	Description string     `json:"description"`
}

// Checker is the interface each validation check implements.
type Checker interface {
	Name() string
	Check(w *worlddb.World) []Finding
}

// Validator orchestrates running all checkers against a world.
type Validator struct {
	checkers []Checker
	findings []Finding
}

// New creates a Validator with all built-in checkers registered.
func New() *Validator {
	return &Validator{
		checkers: []Checker{
			&IntegrityChecker{},
			&EquipmentChecker{},
			&CapacityChecker{},
		},
	}
}

// Run executes all checkers and returns findings sorted by entity ID.
func (v *Validator) Run(w *worlddb.World) []Finding {
	v.findings = nil
	for _, c := range v.checkers {
		v.findings = append(v.findings, c.Check(w)...)
	}
	sort.Slice(v.findings, func(i, j int) bool {
		if v.findings[i].Entity != v.findings[j].Entity {
			return v.findings[i].Entity < v.findings[j].Entity
		}
		return v.findings[i].Category < v.findings[j].Category
	})
	return v.findings
}

// Findings returns the current findings (after Run has been called).
func (v *Validator) Findings() []Finding {
	return v.findings
}

// Summary returns counts of findings per category.
func (v *Validator) Summary() map[Category]int {
	m := make(map[Category]int)
	for _, f := range v.findings {
		m[f.Category]++
	}
	return m
}

// Errors reports how many findings are SevError.
func (v *Validator) Errors() int {
	n := 0
	for _, f := range v.findings {
		if f.Severity == SevError {
			n++
		}
	}
	return n
}
