// Package session tracks which note ids are open and which one is current.
//
// The tracker keeps two independent orders over the same keys: the insertion
// order (what the caller sees) and the recency order (which keys are visible
// when more are open than fit the bound). Visibility membership is decided by
// recency; visible order is always insertion order.
package session

import "slices"

// Tracker is a bounded, recency-ordered tracker of opened keys.
// It is not safe for concurrent use.
type Tracker[K comparable] struct {
	order      []K       // all opened keys, insertion order
	positions  map[K]int // key -> index into order
	recency    []int     // positions, most recently accessed first
	current    K
	hasCurrent bool
	maxVisible int
}

// New creates a tracker reporting at most maxVisible keys from Visible.
func New[K comparable](maxVisible int) *Tracker[K] {
	return &Tracker[K]{
		positions:  make(map[K]int),
		maxVisible: maxVisible,
	}
}

// AddOrActivate opens a key or re-activates an already-open one, making it
// current either way. A re-activated key moves to the front of the recency
// order but keeps its place in the insertion order. A new key is inserted
// immediately after the current key (at the front when there is none).
func (t *Tracker[K]) AddOrActivate(key K) {
	if pos, ok := t.positions[key]; ok {
		t.activate(pos)
		return
	}
	t.add(key)
}

// Remove closes a key. Positions of later keys shift down by one in both
// orders. If the removed key was current, the most recently accessed
// remaining key becomes current, or none when the tracker is empty.
// Returns false if the key was not tracked.
func (t *Tracker[K]) Remove(key K) bool {
	pos, ok := t.positions[key]
	if !ok {
		return false
	}

	t.order = append(t.order[:pos], t.order[pos+1:]...)
	delete(t.positions, key)
	for k, p := range t.positions {
		if p > pos {
			t.positions[k] = p - 1
		}
	}

	kept := t.recency[:0]
	for _, p := range t.recency {
		switch {
		case p == pos:
			// dropped
		case p > pos:
			kept = append(kept, p-1)
		default:
			kept = append(kept, p)
		}
	}
	t.recency = kept

	if t.hasCurrent && t.current == key {
		if len(t.recency) > 0 {
			t.current = t.order[t.recency[0]]
		} else {
			var zero K
			t.current = zero
			t.hasCurrent = false
		}
	}
	return true
}

// Visible returns the keys on screen: membership is the min(maxVisible, open)
// most recently accessed keys, order is their insertion order.
func (t *Tracker[K]) Visible() []K {
	count := min(t.maxVisible, len(t.order))
	if count <= 0 {
		return nil
	}

	positions := make([]int, count)
	copy(positions, t.recency[:count])
	slices.Sort(positions)

	out := make([]K, count)
	for i, p := range positions {
		out[i] = t.order[p]
	}
	return out
}

// MoveCurrent relocates the current key to the anchor's slot in the insertion
// order (the anchor and everything between shift toward the vacated slot), or
// to the end when anchor is nil. Returns false when there is no current key,
// the anchor is unknown, or the move is a no-op.
func (t *Tracker[K]) MoveCurrent(anchor *K) bool {
	if !t.hasCurrent {
		return false
	}
	oldPos, ok := t.positions[t.current]
	if !ok {
		return false
	}

	var newPos int
	if anchor != nil {
		p, ok := t.positions[*anchor]
		if !ok {
			return false
		}
		newPos = p
	} else {
		newPos = len(t.order) - 1
	}
	if oldPos == newPos {
		return false
	}

	key := t.order[oldPos]
	t.order = append(t.order[:oldPos], t.order[oldPos+1:]...)
	rest := make([]K, 0, len(t.order)+1)
	rest = append(rest, t.order[:newPos]...)
	rest = append(rest, key)
	rest = append(rest, t.order[newPos:]...)
	t.order = rest

	for i, k := range t.order {
		t.positions[k] = i
	}
	for i, p := range t.recency {
		switch {
		case p == oldPos:
			t.recency[i] = newPos
		case p < oldPos && p >= newPos:
			t.recency[i] = p + 1
		case p > oldPos && p <= newPos:
			t.recency[i] = p - 1
		}
	}
	return true
}

// SetMaxVisible changes the visibility bound. Already-tracked keys are never
// evicted; only Visible's reported count changes.
func (t *Tracker[K]) SetMaxVisible(n int) {
	t.maxVisible = n
}

// Current returns the current key, or false when no key is open.
func (t *Tracker[K]) Current() (K, bool) {
	return t.current, t.hasCurrent
}

// Len returns the number of tracked keys.
func (t *Tracker[K]) Len() int {
	return len(t.order)
}

func (t *Tracker[K]) activate(pos int) {
	t.current = t.order[pos]
	t.hasCurrent = true

	kept := t.recency[:0]
	for _, p := range t.recency {
		if p != pos {
			kept = append(kept, p)
		}
	}
	t.recency = append([]int{pos}, kept...)
}

func (t *Tracker[K]) add(key K) {
	insertPos := 0
	if t.hasCurrent {
		if p, ok := t.positions[t.current]; ok {
			insertPos = p + 1
		}
	}

	rest := make([]K, 0, len(t.order)+1)
	rest = append(rest, t.order[:insertPos]...)
	rest = append(rest, key)
	rest = append(rest, t.order[insertPos:]...)
	t.order = rest

	for i, k := range t.order {
		t.positions[k] = i
	}
	for i, p := range t.recency {
		if p >= insertPos {
			t.recency[i] = p + 1
		}
	}
	t.recency = append([]int{insertPos}, t.recency...)

	t.current = key
	t.hasCurrent = true
}
