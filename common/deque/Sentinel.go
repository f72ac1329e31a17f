package deque

// Sentinel anchors a ring and never holds an element. Its own Size is 0,
// the ring's data count is Len.
type Sentinel[T any] struct {
	Node[T]
}

// NewSentinel returns the sentinel of a new empty ring, linked to itself.
func NewSentinel[T any]() Sentinel[T] {
	return Sentinel[T]{Node[T]{a: newArena[T](), idx: sentinelIdx}}
}

// Len returns the number of data nodes in the ring.
func (s Sentinel[T]) Len() int {
	return s.Next().Size()
}

// RemoveFromHead removes the node after the sentinel. On an empty ring this
// is the sentinel itself, which fails with ErrEmptyDeque.
func (s Sentinel[T]) RemoveFromHead() error {
	return s.Next().Remove()
}

// RemoveFromTail removes the node before the sentinel.
func (s Sentinel[T]) RemoveFromTail() error {
	return s.Prev().Remove()
}

// FindHelp starts a search at the head of the ring.
func (s Sentinel[T]) FindHelp(pred func(T) bool) Node[T] {
	return s.Next().Find(pred)
}
