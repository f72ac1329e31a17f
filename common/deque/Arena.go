package deque

import "fmt"

type slotKind uint8

const (
	slotFree slotKind = iota
	slotSentinel
	slotOccupied
)

const (
	nilIdx      int32 = -1
	sentinelIdx int32 = 0

	defaultArenaCap = 8
)

func (k slotKind) String() string {
	switch k {
	case slotFree:
		return "free"
	case slotSentinel:
		return "sentinel"
	case slotOccupied:
		return "occupied"
	}
	return fmt.Sprintf("slotKind(%d)", uint8(k))
}

// slot is one member of a ring. prev and next are indexes into the same
// arena. A free slot is chained into the free list through next.
type slot[T any] struct {
	kind  slotKind
	gen   uint32 // bumped on release, stale handles compare against it
	prev  int32
	next  int32
	value T
}

// arena owns every slot of one ring, the sentinel is always slots[0].
type arena[T any] struct {
	slots    []slot[T]
	freeHead int32
	occupied int
}

func newArena[T any]() *arena[T] {
	a := &arena[T]{
		slots:    make([]slot[T], 1, defaultArenaCap),
		freeHead: nilIdx,
	}
	a.slots[sentinelIdx] = slot[T]{
		kind: slotSentinel,
		prev: sentinelIdx,
		next: sentinelIdx,
	}
	return a
}

// alloc returns an unlinked occupied slot holding v, reusing the free list first.
func (a *arena[T]) alloc(v T) int32 {
	idx := a.freeHead
	if idx == nilIdx {
		a.slots = append(a.slots, slot[T]{})
		idx = int32(len(a.slots) - 1)
	} else {
		a.freeHead = a.slots[idx].next
	}
	s := &a.slots[idx]
	s.kind = slotOccupied
	s.prev = nilIdx
	s.next = nilIdx
	s.value = v
	a.occupied++
	return idx
}

// release puts an already unlinked slot back on the free list.
func (a *arena[T]) release(idx int32) {
	var zero T
	s := &a.slots[idx]
	s.kind = slotFree
	s.gen++
	s.value = zero // drop the reference to the element
	s.prev = nilIdx
	s.next = a.freeHead
	a.freeHead = idx
	a.occupied--
}

func (a *arena[T]) live(idx int32, gen uint32) bool {
	if idx < 0 || int(idx) >= len(a.slots) {
		return false
	}
	s := &a.slots[idx]
	return s.kind != slotFree && s.gen == gen
}

// splice links idx between prev and next: four link writes.
func (a *arena[T]) splice(prev, idx, next int32) {
	a.slots[idx].prev = prev
	a.slots[idx].next = next
	a.slots[prev].next = idx
	a.slots[next].prev = idx
}

// unlink stitches the neighbours of idx to each other: two link writes.
func (a *arena[T]) unlink(idx int32) {
	s := &a.slots[idx]
	a.slots[s.prev].next = s.next
	a.slots[s.next].prev = s.prev
	s.prev = nilIdx
	s.next = nilIdx
}
