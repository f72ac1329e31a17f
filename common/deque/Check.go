package deque

import "fmt"

// Check walks the ring in both directions and reports the first broken
// invariant: circularity, link symmetry, a single sentinel, and the data
// count matching the arena's allocated slots.
func (d *Deque[T]) Check() error {
	d.lazyInit()
	return d.header.check()
}

func (s Sentinel[T]) check() error {
	if !s.IsSentinel() {
		return fmt.Errorf("%w: not a sentinel", ErrCorruptRing)
	}
	a := s.a
	inRange := func(idx int32) bool {
		return idx >= 0 && int(idx) < len(a.slots)
	}

	forward := 0
	for idx, steps := sentinelIdx, 0; ; steps++ {
		if steps > len(a.slots) {
			return fmt.Errorf("%w: next chain does not return to the sentinel", ErrCorruptRing)
		}
		next := a.slots[idx].next
		if !inRange(next) {
			return fmt.Errorf("%w: slot %d next %d out of range", ErrCorruptRing, idx, next)
		}
		if a.slots[next].prev != idx {
			return fmt.Errorf("%w: slot %d next %d points back to %d", ErrCorruptRing, idx, next, a.slots[next].prev)
		}
		if next == sentinelIdx {
			break
		}
		switch a.slots[next].kind {
		case slotSentinel:
			return fmt.Errorf("%w: second sentinel at slot %d", ErrCorruptRing, next)
		case slotFree:
			return fmt.Errorf("%w: released slot %d still linked", ErrCorruptRing, next)
		}
		forward++
		idx = next
	}

	backward := 0
	for idx, steps := sentinelIdx, 0; ; steps++ {
		if steps > len(a.slots) {
			return fmt.Errorf("%w: prev chain does not return to the sentinel", ErrCorruptRing)
		}
		prev := a.slots[idx].prev
		if !inRange(prev) {
			return fmt.Errorf("%w: slot %d prev %d out of range", ErrCorruptRing, idx, prev)
		}
		if prev == sentinelIdx {
			break
		}
		backward++
		idx = prev
	}

	if forward != backward {
		return fmt.Errorf("%w: %d nodes forward, %d backward", ErrCorruptRing, forward, backward)
	}
	if forward != a.occupied {
		return fmt.Errorf("%w: %d nodes reachable, %d allocated", ErrCorruptRing, forward, a.occupied)
	}
	return nil
}
