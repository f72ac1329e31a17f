package deque

import "fmt"

// Node is a handle to one member of a ring: either its sentinel or a data
// node holding one element. The zero Node is absent and belongs to no ring.
//
// A handle stays valid until the member it names is removed. Handles
// returned by Find should be treated as valid only until the next mutation
// of the same ring.
type Node[T any] struct {
	a   *arena[T]
	idx int32
	gen uint32
}

// NewNode inserts a data node holding v between prev and next and returns
// it. Both neighbours must be live members of the same ring with prev.Next()
// being next; otherwise ErrInvalidLink is returned and no link is touched.
func NewNode[T any](prev Node[T], v T, next Node[T]) (Node[T], error) {
	switch {
	case !prev.IsValid():
		return Node[T]{}, fmt.Errorf("%w: absent prev neighbour", ErrInvalidLink)
	case !next.IsValid():
		return Node[T]{}, fmt.Errorf("%w: absent next neighbour", ErrInvalidLink)
	case prev.a != next.a:
		return Node[T]{}, fmt.Errorf("%w: neighbours belong to different rings", ErrInvalidLink)
	case prev.slot().next != next.idx:
		return Node[T]{}, fmt.Errorf("%w: neighbours are not adjacent", ErrInvalidLink)
	}
	a := prev.a
	idx := a.alloc(v)
	a.splice(prev.idx, idx, next.idx)
	return prev.handle(idx), nil
}

func (n Node[T]) slot() *slot[T] {
	return &n.a.slots[n.idx]
}

func (n Node[T]) handle(idx int32) Node[T] {
	return Node[T]{a: n.a, idx: idx, gen: n.a.slots[idx].gen}
}

// IsValid reports whether n names a live ring member.
func (n Node[T]) IsValid() bool {
	return n.a != nil && n.a.live(n.idx, n.gen)
}

func (n Node[T]) IsSentinel() bool {
	return n.IsValid() && n.slot().kind == slotSentinel
}

// Value returns the element held by a data node. ok is false for the
// sentinel and for stale handles.
func (n Node[T]) Value() (v T, ok bool) {
	if !n.IsValid() || n.slot().kind != slotOccupied {
		return v, false
	}
	return n.slot().value, true
}

func (n Node[T]) Next() Node[T] {
	if !n.IsValid() {
		return Node[T]{}
	}
	return n.handle(n.slot().next)
}

func (n Node[T]) Prev() Node[T] {
	if !n.IsValid() {
		return Node[T]{}
	}
	return n.handle(n.slot().prev)
}

// SetNext rewrites n's outgoing next link. The caller keeps the ring
// circular and symmetric.
func (n Node[T]) SetNext(m Node[T]) {
	n.mustLink(m)
	n.slot().next = m.idx
}

// SetPrev rewrites n's outgoing prev link. The caller keeps the ring
// circular and symmetric.
func (n Node[T]) SetPrev(m Node[T]) {
	n.mustLink(m)
	n.slot().prev = m.idx
}

func (n Node[T]) mustLink(m Node[T]) {
	if !n.IsValid() || !m.IsValid() {
		panic("deque: link through a stale or absent node")
	}
	if n.a != m.a {
		panic("deque: link across rings")
	}
}

// Size counts the data nodes from n up to, not including, the sentinel.
// It is 0 at the sentinel.
func (n Node[T]) Size() int {
	if !n.IsValid() {
		return 0
	}
	cnt := 0
	for idx := n.idx; n.a.slots[idx].kind == slotOccupied; idx = n.a.slots[idx].next {
		cnt++
	}
	return cnt
}

// Remove splices a data node out of its ring and releases it. Removing the
// sentinel fails with ErrEmptyDeque, removing through a stale handle with
// ErrStaleNode. In both cases the ring is left untouched.
func (n Node[T]) Remove() error {
	if !n.IsValid() {
		return ErrStaleNode
	}
	switch n.slot().kind {
	case slotSentinel:
		return ErrEmptyDeque
	case slotOccupied:
		n.a.unlink(n.idx)
		n.a.release(n.idx)
		return nil
	}
	return ErrStaleNode
}

// Find returns the first data node from n onwards whose element satisfies
// pred, or the sentinel when the walk reaches it first. pred must not
// mutate the ring.
func (n Node[T]) Find(pred func(T) bool) Node[T] {
	if !n.IsValid() {
		return Node[T]{}
	}
	idx := n.idx
	for {
		s := &n.a.slots[idx]
		if s.kind != slotOccupied || pred(s.value) {
			return n.handle(idx)
		}
		idx = s.next
	}
}

func (n Node[T]) String() string {
	if !n.IsValid() {
		return "<absent>"
	}
	s := n.slot()
	if s.kind == slotSentinel {
		return fmt.Sprintf("<sentinel prev:%d next:%d>", s.prev, s.next)
	}
	return fmt.Sprintf("<%d: %v prev:%d next:%d>", n.idx, s.value, s.prev, s.next)
}
