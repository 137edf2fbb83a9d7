package resolve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRef(t *testing.T) {
	cases := []struct {
		token string
		want  Ref
	}{
		{"sword", Ref{Name: "sword"}},
		{"2.sword", Ref{Pos: 2, Name: "sword"}},
		{"10.book", Ref{Pos: 10, Name: "book"}},
		{"all.book", Ref{All: true, Name: "book"}},
		{"all", Ref{All: true, Name: "all"}},
		{"mrs.cake", Ref{Name: "mrs.cake"}}, // non-numeric prefix stays in the name
		{"  torch  ", Ref{Name: "torch"}},
	}
	for _, c := range cases {
		got, err := ParseRef(c.token)
		if err != nil {
			t.Errorf("ParseRef(%q) unexpected error: %v", c.token, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("ParseRef(%q) mismatch (-want +got):\n%s", c.token, diff)
		}
	}
}

func TestParseRefBadSelector(t *testing.T) {
	for _, token := range []string{"0.sword", "-1.sword", "-99.book"} {
		_, err := ParseRef(token)
		var bad *BadSelectorError
		if !errors.As(err, &bad) {
			t.Errorf("ParseRef(%q): got %v, want BadSelectorError", token, err)
		}
	}
}

func TestSplitContainerArg(t *testing.T) {
	cases := []struct {
		args            string
		item, container string
		found           bool
	}{
		{"sword from bag", "sword", "bag", true},
		{"key in 2.chest", "key", "2.chest", true},
		{"all.coin from old sack", "all.coin", "old sack", true},
		{"rusty key in iron chest", "rusty key", "iron chest", true},
		{"sword", "sword", "", false},
		{"in", "in", "", false},          // connector with nothing around it
		{"sword in", "sword in", "", false}, // trailing connector is not a split
	}
	for _, c := range cases {
		item, container, found := SplitContainerArg(c.args)
		if item != c.item || container != c.container || found != c.found {
			t.Errorf("SplitContainerArg(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.args, item, container, found, c.item, c.container, c.found)
		}
	}
}
