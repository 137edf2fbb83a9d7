package server

import (
	"strings"
	"testing"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

func TestRenderActTokens(t *testing.T) {
	w := worlddb.NewWorld(nil)
	actor := w.Add(worlddb.NewCharacter("Aria", []string{"aria"}, worlddb.CharInfo{Sex: worlddb.SexFemale}))
	vict := w.Add(worlddb.NewCharacter("Bram", []string{"bram"}, worlddb.CharInfo{Sex: worlddb.SexMale}))
	sword, err := worlddb.NewObject("a bronze sword", []string{"sword"}, worlddb.KindWeapon,
		&worlddb.WeaponInfo{MinDamage: 1, MaxDamage: 6})
	if err != nil {
		t.Fatal(err)
	}
	w.Add(sword)

	tests := []struct {
		tmpl string
		want string
	}{
		{"$n gets $p.", "Aria gets a bronze sword."},
		{"$n gives $p to $N.", "Aria gives a bronze sword to Bram."},
		{"$n drops $s sword and $e leaves.", "Aria drops her sword and she leaves."},
		{"$N nods at $n, then ignores $m.", "Bram nods at Aria, then ignores her."},
		{"$E shrugs and scratches $S head.", "He shrugs and scratches his head."},
		{"that costs 5 gold.", "That costs 5 gold."},
		{"$$5 is the price.", "$5 is the price."},
		{"trailing $", "Trailing $"},
		{"$x is unknown.", "$x is unknown."},
	}
	for _, tc := range tests {
		got := renderAct(w, tc.tmpl, vict, actor, sword, vict)
		if got != tc.want {
			t.Errorf("renderAct(%q) = %q, want %q", tc.tmpl, got, tc.want)
		}
	}
}

func TestRenderActMasksUnseen(t *testing.T) {
	w := worlddb.NewWorld(nil)
	viewer := w.Add(worlddb.NewCharacter("Bram", []string{"bram"}, worlddb.CharInfo{}))
	sneak := w.Add(worlddb.NewCharacter("Aria", []string{"aria"}, worlddb.CharInfo{}))
	sneak.SetCondition(worlddb.CondInvisible, true)
	orb, err := worlddb.NewObject("a shadowy orb", []string{"orb"}, worlddb.KindDefault, nil)
	if err != nil {
		t.Fatal(err)
	}
	w.Add(orb)
	orb.SetTag(worlddb.TagInvisible, true)

	got := renderAct(w, "$n picks up $p.", viewer, sneak, orb, nil)
	if got != "Someone picks up something." {
		t.Errorf("masked render = %q", got)
	}

	// You always see yourself, even invisible.
	got = renderAct(w, "$n picks up $p.", sneak, sneak, orb, nil)
	if !strings.HasPrefix(got, "Aria picks up") {
		t.Errorf("self render = %q", got)
	}

	viewer.SetCondition(worlddb.CondDetectInvis, true)
	got = renderAct(w, "$n picks up $p.", viewer, sneak, orb, nil)
	if got != "Aria picks up a shadowy orb." {
		t.Errorf("detect-invis render = %q", got)
	}
}

// secondPlayer logs a second captured-output character into the room.
func (env *testEnv) secondPlayer(name string) (*worlddb.Entity, *[]string) {
	env.t.Helper()
	ch := env.g.World.Add(worlddb.NewCharacter(name, []string{strings.ToLower(name)}, worlddb.CharInfo{CarryMax: 1000}))
	if err := env.g.World.Move(ch, env.room); err != nil {
		env.t.Fatalf("move %s: %v", name, err)
	}
	out := &[]string{}
	d := &Descriptor{ID: env.g.Conns.NextID(), State: ConnConnected, Character: ch.ID}
	d.SendFunc = func(msg string) { *out = append(*out, msg) }
	env.g.Conns.Add(d)
	env.g.Conns.Login(d, ch.ID)
	return ch, out
}

func TestActDelivery(t *testing.T) {
	env := newTestEnv(t)
	vict, victOut := env.secondPlayer("Bram")
	_, otherOut := env.secondPlayer("Cora")

	env.g.Act("You poke $N.", env.actor, nil, vict, ToChar)
	env.g.Act("$n pokes you.", env.actor, nil, vict, ToVict)
	env.g.Act("$n pokes $N.", env.actor, nil, vict, ToNotVict)

	env.assertSaid("You poke Bram.")
	if !strings.Contains(strings.Join(*victOut, "\n"), "Aria pokes you.") {
		t.Errorf("victim missed the message: %v", *victOut)
	}
	if !strings.Contains(strings.Join(*otherOut, "\n"), "Aria pokes Bram.") {
		t.Errorf("bystander missed the message: %v", *otherOut)
	}
	if strings.Contains(strings.Join(*victOut, "\n"), "Aria pokes Bram.") {
		t.Errorf("victim saw the bystander line: %v", *victOut)
	}
}

func TestActSkipsSleepers(t *testing.T) {
	env := newTestEnv(t)
	sleeper, sleeperOut := env.secondPlayer("Bram")
	sleeper.SetCondition(worlddb.CondSleeping, true)

	env.g.Act("$n stretches.", env.actor, nil, nil, ToRoom)
	if len(*sleeperOut) != 0 {
		t.Errorf("sleeping character received narration: %v", *sleeperOut)
	}
}
