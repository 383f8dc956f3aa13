package session

import (
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"
)

func TestAdd_MakesCurrent(t *testing.T) {
	tr := New[string](7)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")

	cur, ok := tr.Current()
	if !ok || cur != "b" {
		t.Errorf("current = %q, %v", cur, ok)
	}
	if tr.Len() != 2 {
		t.Errorf("len = %d", tr.Len())
	}
}

func TestVisible_BoundedByRecency_OrderedByInsertion(t *testing.T) {
	tr := New[string](2)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")
	tr.AddOrActivate("c")

	// a is the least recently accessed, so it falls out of view. The two
	// visible keys keep their insertion order.
	if got := tr.Visible(); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("visible = %v, want [b c]", got)
	}
	if cur, _ := tr.Current(); cur != "c" {
		t.Errorf("current = %q", cur)
	}

	// Re-activating a brings it back into view at its old insertion slot,
	// pushing b out.
	tr.AddOrActivate("a")
	if got := tr.Visible(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("visible after re-activate = %v, want [a c]", got)
	}
	if cur, _ := tr.Current(); cur != "a" {
		t.Errorf("current = %q, want a", cur)
	}
}

func TestAdd_InsertsAfterCurrent(t *testing.T) {
	tr := New[string](7)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")
	tr.AddOrActivate("c")
	tr.AddOrActivate("a") // a current again

	// New key lands right after the current one, not at the end.
	tr.AddOrActivate("d")
	if got := tr.Visible(); !slices.Equal(got, []string{"a", "d", "b", "c"}) {
		t.Errorf("order = %v, want [a d b c]", got)
	}
}

func TestRemove(t *testing.T) {
	tr := New[string](7)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")
	tr.AddOrActivate("c")

	if !tr.Remove("b") {
		t.Fatal("removing a tracked key should return true")
	}
	if tr.Remove("b") {
		t.Error("removing twice should return false")
	}
	if got := tr.Visible(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("visible = %v", got)
	}
	if cur, _ := tr.Current(); cur != "c" {
		t.Errorf("current = %q, removing a non-current key must not change it", cur)
	}
}

func TestRemove_CurrentFallsBackToMostRecent(t *testing.T) {
	tr := New[string](7)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")
	tr.AddOrActivate("c")
	tr.AddOrActivate("b") // recency: b, c, a

	tr.Remove("b")
	if cur, ok := tr.Current(); !ok || cur != "c" {
		t.Errorf("current = %q, want the most recently accessed survivor c", cur)
	}

	tr.Remove("c")
	tr.Remove("a")
	if _, ok := tr.Current(); ok {
		t.Error("empty tracker must have no current key")
	}
	if tr.Visible() != nil {
		t.Errorf("visible = %v, want nil", tr.Visible())
	}
}

func TestMoveCurrent_ToAnchorSlot(t *testing.T) {
	tr := New[string](7)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")
	tr.AddOrActivate("c") // current: c

	anchor := "a"
	if !tr.MoveCurrent(&anchor) {
		t.Fatal("move to anchor slot should succeed")
	}
	if got := tr.Visible(); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("order = %v, want [c a b]", got)
	}
	if cur, _ := tr.Current(); cur != "c" {
		t.Errorf("current = %q, moving must not change it", cur)
	}
}

func TestMoveCurrent_ToEnd(t *testing.T) {
	tr := New[string](7)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")
	tr.AddOrActivate("c")
	tr.AddOrActivate("a")

	if !tr.MoveCurrent(nil) {
		t.Fatal("move to end should succeed")
	}
	if got := tr.Visible(); !slices.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("order = %v, want [b c a]", got)
	}
}

func TestMoveCurrent_Failures(t *testing.T) {
	tr := New[string](7)
	if tr.MoveCurrent(nil) {
		t.Error("no current key: move must fail")
	}

	tr.AddOrActivate("a")
	unknown := "nope"
	if tr.MoveCurrent(&unknown) {
		t.Error("unknown anchor: move must fail")
	}
	if tr.MoveCurrent(nil) {
		t.Error("already at target position: move must report a no-op")
	}
}

func TestMoveCurrent_KeepsRecency(t *testing.T) {
	tr := New[string](2)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")
	tr.AddOrActivate("c") // recency: c, b, a

	tr.MoveCurrent(nil) // c already last: no-op
	anchor := "a"
	tr.MoveCurrent(&anchor) // order: c a b

	// Visibility is still decided by recency (c and b), shown in the new
	// insertion order.
	if got := tr.Visible(); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("visible = %v, want [c b]", got)
	}
}

func TestSetMaxVisible(t *testing.T) {
	tr := New[string](2)
	tr.AddOrActivate("a")
	tr.AddOrActivate("b")
	tr.AddOrActivate("c")

	tr.SetMaxVisible(3)
	if got := tr.Visible(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("visible = %v after raising the bound", got)
	}

	// Shrinking never evicts; it only narrows the report.
	tr.SetMaxVisible(1)
	if got := tr.Visible(); !slices.Equal(got, []string{"c"}) {
		t.Errorf("visible = %v after shrinking the bound", got)
	}
	if tr.Len() != 3 {
		t.Errorf("len = %d, keys must not be evicted", tr.Len())
	}
}

func TestTrackerWithIntKeys(t *testing.T) {
	tr := New[int](7)
	tr.AddOrActivate(10)
	tr.AddOrActivate(20)
	tr.Remove(10)
	if cur, ok := tr.Current(); !ok || cur != 20 {
		t.Errorf("current = %d, %v", cur, ok)
	}
}

// Property: after any sequence of operations the visible window holds exactly
// min(maxVisible, Len()) keys, listed in insertion order, and the current key
// is always in view when one exists.
func TestVisibleWindow_LawHolds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		keys := []string{"a", "b", "c", "d", "e", "f"}
		max := rapid.IntRange(1, 4).Draw(rt, "max")
		tr := New[string](max)

		steps := rapid.IntRange(1, 50).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			key := keys[rapid.IntRange(0, len(keys)-1).Draw(rt, fmt.Sprintf("key%d", i))]
			switch rapid.IntRange(0, 3).Draw(rt, fmt.Sprintf("op%d", i)) {
			case 0:
				tr.AddOrActivate(key)
			case 1:
				tr.Remove(key)
			case 2:
				if rapid.Bool().Draw(rt, fmt.Sprintf("end%d", i)) {
					tr.MoveCurrent(nil)
				} else {
					tr.MoveCurrent(&key)
				}
			case 3:
				max = rapid.IntRange(1, 4).Draw(rt, fmt.Sprintf("bound%d", i))
				tr.SetMaxVisible(max)
			}

			vis := tr.Visible()
			if want := min(max, tr.Len()); len(vis) != want {
				rt.Fatalf("visible = %v, len %d, want %d", vis, len(vis), want)
			}
			if !isSubsequence(vis, tr.order) {
				rt.Fatalf("visible %v is not insertion-ordered (order %v)", vis, tr.order)
			}
			if cur, ok := tr.Current(); ok && !slices.Contains(vis, cur) {
				rt.Fatalf("current %q missing from visible %v", cur, vis)
			}
		}
	})
}

func isSubsequence(sub, full []string) bool {
	i := 0
	for _, k := range full {
		if i < len(sub) && sub[i] == k {
			i++
		}
	}
	return i == len(sub)
}
