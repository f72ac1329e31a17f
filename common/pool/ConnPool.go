package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Qthai16/ringdeque/common"
	"github.com/Qthai16/ringdeque/utils"
	"github.com/apache/thrift/lib/go/thrift"
)

var (
	ErrInvalidParam   = errors.New("invalid param")
	ErrMaxConnReached = errors.New("max connection reached")
	ErrPoolClosed     = errors.New("pool is closed")
	ErrNoConnection   = errors.New("no connection")
)

const (
	defaultPoolSize    = 16
	defaultWaitTimeout = 3 * time.Second
)

type Conn interface {
	Close() error
}

// ConnFactory dials a new connection.
type ConnFactory[C Conn] func() (C, error)

type ConnPoolConfig struct {
	Name        string // shown in logs
	MaxOpenConn int32
	WaitTimeout time.Duration // how long Get waits for a busy pool
}

func ConnPoolDefaultConf(name string) ConnPoolConfig {
	return ConnPoolConfig{
		Name:        name,
		MaxOpenConn: defaultPoolSize,
		WaitTimeout: defaultWaitTimeout,
	}
}

// ConnPool keeps at most MaxOpenConn connections open, idle ones wait in a
// channel for the next Get.
type ConnPool[C Conn] struct {
	ConnPoolConfig
	factory  ConnFactory[C]
	idle     chan C
	freed    chan struct{} // signalled when numOpen drops
	numOpen  atomic.Int32
	isClosed atomic.Bool
	mu       sync.RWMutex // Put vs Destroy
}

func NewConnPool[C Conn](conf ConnPoolConfig, factory ConnFactory[C]) (*ConnPool[C], error) {
	if factory == nil || conf.MaxOpenConn <= 0 {
		return nil, ErrInvalidParam
	}
	if conf.WaitTimeout <= 0 {
		conf.WaitTimeout = defaultWaitTimeout
	}
	return &ConnPool[C]{
		ConnPoolConfig: conf,
		factory:        factory,
		idle:           make(chan C, conf.MaxOpenConn),
		freed:          make(chan struct{}, 1),
	}, nil
}

// Get hands out an idle connection or dials a new one while the pool is
// below MaxOpenConn. A full pool waits up to WaitTimeout, retrying the dial
// each time a broken connection is discarded.
func (p *ConnPool[C]) Get(ctx context.Context) (C, error) {
	var zero C
	var t *time.Timer
	for {
		if p.isClosed.Load() {
			return zero, ErrPoolClosed
		}
		select {
		case c, ok := <-p.idle:
			if !ok {
				return zero, ErrPoolClosed
			}
			return c, nil
		default:
		}
		if p.numOpen.Add(1) <= p.MaxOpenConn {
			c, err := p.factory()
			if err != nil {
				p.numOpen.Add(-1)
				p.notifyFreed()
				utils.LogWarn("[connpool][%v] dial failed: %v", p.Name, err)
				return zero, fmt.Errorf("%w: %v", ErrNoConnection, err)
			}
			return c, nil
		}
		p.numOpen.Add(-1)
		if t == nil {
			t = common.BorrowTimer(p.WaitTimeout)
			defer common.ReturnTimer(t)
		}
		select {
		case c, ok := <-p.idle:
			if !ok {
				return zero, ErrPoolClosed
			}
			return c, nil
		case <-p.freed:
			// a slot opened up, try dialing again
		case <-t.C:
			return zero, ErrMaxConnReached
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

func (p *ConnPool[C]) Put(c C) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.isClosed.Load() {
		p.discard(c)
		return
	}
	select {
	case p.idle <- c:
	default:
		p.discard(c)
	}
}

// Release puts c back unless err says the connection is broken. A broken
// transport usually means the peer went away, so idle connections are
// dropped as well.
func (p *ConnPool[C]) Release(c C, err error) {
	if !IsBrokenConn(err) {
		p.Put(c)
		return
	}
	p.discard(c)
	drained := 0
	for {
		select {
		case idle, ok := <-p.idle:
			if !ok {
				return
			}
			p.discard(idle)
			drained++
			continue
		default:
		}
		break
	}
	utils.LogWarn("[connpool][%v] broken connection: %v, dropped %v idle", p.Name, err, drained)
}

func (p *ConnPool[C]) discard(c C) {
	if err := c.Close(); err != nil {
		utils.LogDebug("[connpool][%v] close: %v", p.Name, err)
	}
	p.numOpen.Add(-1)
	p.notifyFreed()
}

// notifyFreed wakes one waiting Get, if any. A token nobody takes only
// costs the next waiter one extra loop.
func (p *ConnPool[C]) notifyFreed() {
	select {
	case p.freed <- struct{}{}:
	default:
	}
}

// Len returns the number of idle connections.
func (p *ConnPool[C]) Len() int {
	return len(p.idle)
}

func (p *ConnPool[C]) NumOpen() int32 {
	return p.numOpen.Load()
}

func (p *ConnPool[C]) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isClosed.CompareAndSwap(false, true) {
		close(p.idle)
		for c := range p.idle {
			p.discard(c)
		}
		utils.LogInfo("[connpool][%v] pool is destroyed", p.Name)
	}
}

// IsBrokenConn reports whether err leaves a thrift connection unusable:
// transport failures and protocol errors that desync the stream.
func IsBrokenConn(err error) bool {
	if err == nil {
		return false
	}
	var tec thrift.TTransportException
	if errors.As(err, &tec) {
		return true
	}
	var pec thrift.TProtocolException
	return errors.As(err, &pec)
}
