package deque

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyDeque  = errors.New("Attempting to remove from empty deque")
	ErrInvalidLink = errors.New("invalid link")
	ErrStaleNode   = errors.New("stale node")
	ErrCorruptRing = errors.New("corrupt ring")
)

// Deque is a double-ended queue kept as a ring anchored by a sentinel: the
// sentinel's next is the head, its prev the tail. Every operation goes
// through the sentinel.
//
// The zero value is an empty deque ready to use. A Deque is not safe for
// concurrent use.
type Deque[T any] struct {
	header Sentinel[T]
}

func New[T any]() *Deque[T] {
	return new(Deque[T]).init()
}

// FromSentinel wraps a ring built by hand around s.
func FromSentinel[T any](s Sentinel[T]) (*Deque[T], error) {
	if !s.IsSentinel() {
		return nil, fmt.Errorf("%w: not a sentinel", ErrInvalidLink)
	}
	return &Deque[T]{header: s}, nil
}

func (d *Deque[T]) init() *Deque[T] {
	d.header = NewSentinel[T]()
	return d
}

func (d *Deque[T]) lazyInit() {
	if d.header.a == nil {
		d.init()
	}
}

// Sentinel returns the deque's anchor, which is also what Find returns when
// nothing matches.
func (d *Deque[T]) Sentinel() Sentinel[T] {
	d.lazyInit()
	return d.header
}

// Size walks the ring, O(n).
func (d *Deque[T]) Size() int {
	if d.header.a == nil {
		return 0
	}
	return d.header.Len()
}

// AddAtHead inserts v right after the sentinel.
func (d *Deque[T]) AddAtHead(v T) {
	d.lazyInit()
	d.insert(d.header.Node, v, d.header.Next())
}

// AddAtTail inserts v right before the sentinel.
func (d *Deque[T]) AddAtTail(v T) {
	d.lazyInit()
	d.insert(d.header.Prev(), v, d.header.Node)
}

func (d *Deque[T]) insert(prev Node[T], v T, next Node[T]) {
	if _, err := NewNode(prev, v, next); err != nil {
		panic(fmt.Sprintf("deque: sentinel links broken: %v", err))
	}
}

// RemoveFromHead drops the first element, ErrEmptyDeque when there is none.
func (d *Deque[T]) RemoveFromHead() error {
	if d.header.a == nil {
		return ErrEmptyDeque
	}
	return d.header.RemoveFromHead()
}

// RemoveFromTail drops the last element, ErrEmptyDeque when there is none.
func (d *Deque[T]) RemoveFromTail() error {
	if d.header.a == nil {
		return ErrEmptyDeque
	}
	return d.header.RemoveFromTail()
}

// Find returns the first node, head to tail, whose element satisfies pred,
// or the sentinel if none does. The returned node is a live handle into the
// ring, valid until the next mutation.
func (d *Deque[T]) Find(pred func(T) bool) Node[T] {
	d.lazyInit()
	return d.header.FindHelp(pred)
}

// Flatten copies the elements head to tail. Diagnostics only.
func (d *Deque[T]) Flatten() []T {
	out := make([]T, 0)
	if d.header.a == nil {
		return out
	}
	slots := d.header.a.slots
	for idx := slots[sentinelIdx].next; slots[idx].kind == slotOccupied; idx = slots[idx].next {
		out = append(out, slots[idx].value)
	}
	return out
}

func (d *Deque[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range d.Flatten() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte(']')
	return sb.String()
}
