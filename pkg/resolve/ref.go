// Package resolve turns textual item references like "2.sword",
// "all.book", or "sword from bag" into concrete entities. Every
// command goes through this one grammar, so positional and bulk
// selectors behave identically everywhere.
package resolve

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref is a parsed reference token: an optional selector plus a name.
// With neither All nor a positive Pos, the reference means "first
// match in scope order".
type Ref struct {
	All  bool
	Pos  int // 1-based position among name matches; 0 = unspecified
	Name string
}

// BadSelectorError reports a numeric selector that is not a positive
// integer. It is user input error: the operation aborts with a message
// and no resolution is attempted.
type BadSelectorError struct {
	Token string
}

func (e *BadSelectorError) Error() string {
	return fmt.Sprintf("the number in %q must be a positive integer", e.Token)
}

// ParseRef parses a reference token of the form [all.|N.]name. A
// leading "all" selects every match; a leading positive integer N
// selects the Nth match. Zero and negative selectors fail rather than
// silently clamping. A prefix that is neither "all" nor an integer is
// treated as part of the name.
func ParseRef(token string) (Ref, error) {
	token = strings.TrimSpace(token)
	if token == "all" {
		return Ref{All: true, Name: "all"}, nil
	}
	dot := strings.IndexByte(token, '.')
	if dot < 0 {
		return Ref{Name: token}, nil
	}
	prefix, name := token[:dot], token[dot+1:]
	if prefix == "all" {
		return Ref{All: true, Name: name}, nil
	}
	if n, err := strconv.Atoi(prefix); err == nil {
		if n <= 0 {
			return Ref{}, &BadSelectorError{Token: token}
		}
		return Ref{Pos: n, Name: name}, nil
	}
	return Ref{Name: token}, nil
}

// SplitContainerArg splits an argument string on the "in"/"from"
// connector keyword: "sword from bag" yields ("sword", "bag", true).
// Both sides may be multi-word. Without a connector the whole argument
// is the item and found is false.
func SplitContainerArg(args string) (item, container string, found bool) {
	words := strings.Fields(args)
	for i, word := range words {
		if word != "in" && word != "from" {
			continue
		}
		if i == 0 || i == len(words)-1 {
			break
		}
		return strings.Join(words[:i], " "), strings.Join(words[i+1:], " "), true
	}
	return strings.TrimSpace(args), "", false
}
