package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

func obj(t *testing.T, name string, aliases []string, kind worlddb.Kind, payload any) *worlddb.Entity {
	t.Helper()
	e, err := worlddb.NewObject(name, aliases, kind, payload)
	if err != nil {
		t.Fatalf("NewObject(%s): %v", name, err)
	}
	return e
}

// torchScope builds the §8 scenario scope: torch A, torch B, lantern.
func torchScope(t *testing.T) []*worlddb.Entity {
	t.Helper()
	return []*worlddb.Entity{
		obj(t, "torch A", []string{"torch"}, worlddb.KindDefault, nil),
		obj(t, "torch B", []string{"torch"}, worlddb.KindDefault, nil),
		obj(t, "a lantern", []string{"lantern"}, worlddb.KindDefault, nil),
	}
}

func names(es []*worlddb.Entity) []string {
	var out []string
	for _, e := range es {
		out = append(out, e.Name)
	}
	return out
}

func TestFindAllSelector(t *testing.T) {
	scope := torchScope(t)
	ref, _ := ParseRef("all.torch")
	got := Find(scope, ref, Criteria{})
	if diff := cmp.Diff([]string{"torch A", "torch B"}, names(got)); diff != "" {
		t.Errorf("all.torch mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAllBare(t *testing.T) {
	scope := torchScope(t)
	ref, _ := ParseRef("all")
	got := Find(scope, ref, Criteria{})
	if len(got) != 3 {
		t.Errorf("bare all returned %d entities, want 3", len(got))
	}
}

func TestFindPositional(t *testing.T) {
	scope := torchScope(t)

	ref, _ := ParseRef("2.torch")
	got := Find(scope, ref, Criteria{})
	if len(got) != 1 || got[0].Name != "torch B" {
		t.Errorf("2.torch = %v, want torch B", names(got))
	}

	ref, _ = ParseRef("3.torch")
	if got := Find(scope, ref, Criteria{}); len(got) != 0 {
		t.Errorf("3.torch = %v, want no match", names(got))
	}

	ref, _ = ParseRef("1.lantern")
	got = Find(scope, ref, Criteria{})
	if len(got) != 1 || got[0].Name != "a lantern" {
		t.Errorf("1.lantern = %v, want the lantern", names(got))
	}
}

func TestFindFirstMatch(t *testing.T) {
	scope := torchScope(t)
	ref, _ := ParseRef("torch")
	got := Find(scope, ref, Criteria{})
	if len(got) != 1 || got[0].Name != "torch A" {
		t.Errorf("torch = %v, want torch A (first in scope order)", names(got))
	}
}

func TestFindNoMatch(t *testing.T) {
	scope := torchScope(t)
	ref, _ := ParseRef("sword")
	if got := Find(scope, ref, Criteria{}); got != nil {
		t.Errorf("sword = %v, want nil", names(got))
	}
}

func TestCriteriaExcludeEquipped(t *testing.T) {
	scope := torchScope(t)
	scope[0].Worn = true // torch A is equipped: invisible to generic scans

	ref, _ := ParseRef("torch")
	got := Find(scope, ref, Criteria{ExcludeEquipped: true})
	if len(got) != 1 || got[0].Name != "torch B" {
		t.Errorf("torch with equipped excluded = %v, want torch B", names(got))
	}

	// Positional indexing counts only admitted candidates.
	ref, _ = ParseRef("1.torch")
	got = Find(scope, ref, Criteria{ExcludeEquipped: true})
	if len(got) != 1 || got[0].Name != "torch B" {
		t.Errorf("1.torch with equipped excluded = %v, want torch B", names(got))
	}
}

func TestCriteriaContainers(t *testing.T) {
	sack := obj(t, "a sack", []string{"sack"}, worlddb.KindContainer, &worlddb.ContainerInfo{Capacity: -1})
	loaf := obj(t, "a loaf", []string{"loaf"}, worlddb.KindDefault, nil)
	scope := []*worlddb.Entity{sack, loaf}

	ref, _ := ParseRef("all")
	got := Find(scope, ref, Criteria{ExcludeContainers: true})
	if diff := cmp.Diff([]string{"a loaf"}, names(got)); diff != "" {
		t.Errorf("all with containers excluded (-want +got):\n%s", diff)
	}

	got = Find(scope, ref, Criteria{ContainersOnly: true})
	if diff := cmp.Diff([]string{"a sack"}, names(got)); diff != "" {
		t.Errorf("all with containers only (-want +got):\n%s", diff)
	}
}

func TestCriteriaTypeFilters(t *testing.T) {
	room := worlddb.NewRoom("somewhere")
	guard := worlddb.NewCharacter("a city guard", []string{"guard"}, worlddb.CharInfo{})
	torch := obj(t, "a torch", []string{"torch"}, worlddb.KindDefault, nil)
	scope := []*worlddb.Entity{room, guard, torch}

	ref, _ := ParseRef("all")
	if got := Find(scope, ref, Criteria{ObjectsOnly: true}); len(got) != 1 || got[0] != torch {
		t.Errorf("ObjectsOnly = %v, want just the torch", names(got))
	}
	if got := Find(scope, ref, Criteria{CharactersOnly: true}); len(got) != 1 || got[0] != guard {
		t.Errorf("CharactersOnly = %v, want just the guard", names(got))
	}
}

func TestCriteriaViewerVisibility(t *testing.T) {
	viewer := worlddb.NewCharacter("Aria", []string{"aria"}, worlddb.CharInfo{})
	shade := obj(t, "a shade torch", []string{"torch"}, worlddb.KindDefault, nil)
	shade.SetTag(worlddb.TagInvisible, true)
	plain := obj(t, "a plain torch", []string{"torch"}, worlddb.KindDefault, nil)
	scope := []*worlddb.Entity{shade, plain}

	ref, _ := ParseRef("torch")
	got := Find(scope, ref, Criteria{Viewer: viewer})
	if len(got) != 1 || got[0] != plain {
		t.Errorf("invisible candidate matched: %v", names(got))
	}

	viewer.SetCondition(worlddb.CondDetectInvis, true)
	got = Find(scope, ref, Criteria{Viewer: viewer})
	if len(got) != 1 || got[0] != shade {
		t.Errorf("detect-invis should restore scope order: %v", names(got))
	}
}

func TestFindOneNeverAll(t *testing.T) {
	scope := torchScope(t)
	ref, _ := ParseRef("all.torch")
	if got := FindOne(scope, ref, Criteria{}); got == nil || got.Name != "torch A" {
		t.Errorf("FindOne(all.torch) = %v, want first match", got)
	}
}
