package pool

import (
	"sync"
)

type TPoolConfig[T any] struct {
	Generate func() *T // new(T) when nil
	Reset    func(*T)  // applied before a value goes back to the pool
}

// TPool is a typed sync.Pool. Values are reset on Put so Get always hands
// out a clean one.
type TPool[T any] struct {
	pool  sync.Pool
	reset func(*T)
}

func NewTPool[T any](conf TPoolConfig[T]) *TPool[T] {
	generate := conf.Generate
	if generate == nil {
		generate = func() *T {
			return new(T)
		}
	}
	return &TPool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
		reset: conf.Reset,
	}
}

func (p *TPool[T]) Get() *T {
	return p.pool.Get().(*T)
}

// Put resets *r, returns it to the pool and clears the caller's pointer.
func (p *TPool[T]) Put(r **T) {
	if r == nil || *r == nil {
		return
	}
	if p.reset != nil {
		p.reset(*r)
	}
	p.pool.Put(*r)
	*r = nil
}
