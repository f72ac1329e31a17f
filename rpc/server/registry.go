package server

import (
	"sync"

	"github.com/Qthai16/ringdeque/common/deque"
	"github.com/Qthai16/ringdeque/utils/hashkit"
)

const defaultShards = 16

// lockedDeque serializes every access to one deque, the deque itself is
// single-owner.
type lockedDeque struct {
	mu sync.Mutex
	d  *deque.Deque[string]
}

type registryShard struct {
	mu     sync.RWMutex
	deques map[string]*lockedDeque
}

// Registry holds the named deques served by one server, spread over shards
// by the Jenkins hash of the name.
type Registry struct {
	shards []registryShard
}

func NewRegistry(numShards int) *Registry {
	if numShards <= 0 {
		numShards = defaultShards
	}
	r := &Registry{shards: make([]registryShard, numShards)}
	for i := range r.shards {
		r.shards[i].deques = make(map[string]*lockedDeque)
	}
	return r
}

func (r *Registry) shard(name string) *registryShard {
	return &r.shards[hashkit.JenkinsString(name)%uint32(len(r.shards))]
}

func (r *Registry) get(name string) *lockedDeque {
	sh := r.shard(name)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.deques[name]
}

func (r *Registry) getOrCreate(name string) *lockedDeque {
	if ld := r.get(name); ld != nil {
		return ld
	}
	sh := r.shard(name)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if ld, ok := sh.deques[name]; ok {
		return ld
	}
	ld := &lockedDeque{d: deque.New[string]()}
	sh.deques[name] = ld
	return ld
}

// With runs fn on the named deque while holding its lock. A missing deque
// is created when create is set, otherwise With returns false.
func (r *Registry) With(name string, create bool, fn func(d *deque.Deque[string])) bool {
	var ld *lockedDeque
	if create {
		ld = r.getOrCreate(name)
	} else if ld = r.get(name); ld == nil {
		return false
	}
	ld.mu.Lock()
	defer ld.mu.Unlock()
	fn(ld.d)
	return true
}

// Len returns the number of named deques.
func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.RLock()
		n += len(sh.deques)
		sh.mu.RUnlock()
	}
	return n
}
