package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
)

type fakeConn struct {
	id     int32
	closed atomic.Bool
}

func (c *fakeConn) Close() error {
	c.closed.Store(true)
	return nil
}

func newFakeFactory() (ConnFactory[*fakeConn], *atomic.Int32) {
	dialed := &atomic.Int32{}
	return func() (*fakeConn, error) {
		return &fakeConn{id: dialed.Add(1)}, nil
	}, dialed
}

func newTestPool(t *testing.T, max int32) (*ConnPool[*fakeConn], *atomic.Int32) {
	t.Helper()
	factory, dialed := newFakeFactory()
	p, err := NewConnPool(ConnPoolConfig{Name: "test", MaxOpenConn: max, WaitTimeout: 20 * time.Millisecond}, factory)
	if err != nil {
		t.Fatalf("NewConnPool: %v", err)
	}
	return p, dialed
}

func TestConnPoolReuse(t *testing.T) {
	p, dialed := newTestPool(t, 2)
	ctx := context.Background()
	c1, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	p.Put(c1)
	c2, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c1 != c2 || dialed.Load() != 1 {
		t.Errorf("expect idle conn reused, dialed %v", dialed.Load())
	}
	p.Put(c2)
}

func TestConnPoolMaxReached(t *testing.T) {
	p, _ := newTestPool(t, 1)
	ctx := context.Background()
	c, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := p.Get(ctx); !errors.Is(err, ErrMaxConnReached) {
		t.Errorf("expect ErrMaxConnReached, got %v", err)
	}

	done := make(chan *fakeConn)
	go func() {
		c, _ := p.Get(ctx)
		done <- c
	}()
	time.Sleep(5 * time.Millisecond)
	p.Put(c)
	if got := <-done; got != c {
		t.Errorf("waiting Get should receive the returned conn")
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := p.Get(cctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expect context.Canceled, got %v", err)
	}
}

func TestConnPoolRelease(t *testing.T) {
	p, _ := newTestPool(t, 3)
	ctx := context.Background()
	a, _ := p.Get(ctx)
	b, _ := p.Get(ctx)
	p.Put(a)

	p.Release(b, errors.New("application error"))
	if p.Len() != 2 || p.NumOpen() != 2 {
		t.Errorf("application error must keep the conn, idle %v open %v", p.Len(), p.NumOpen())
	}

	c, _ := p.Get(ctx)
	p.Release(c, thrift.NewTTransportException(thrift.NOT_OPEN, "peer gone"))
	if !c.closed.Load() {
		t.Error("broken conn not closed")
	}
	if p.Len() != 0 || p.NumOpen() != 0 {
		t.Errorf("expect idle conns dropped, idle %v open %v", p.Len(), p.NumOpen())
	}
}

func TestConnPoolDestroy(t *testing.T) {
	p, _ := newTestPool(t, 2)
	ctx := context.Background()
	idle, _ := p.Get(ctx)
	busy, _ := p.Get(ctx)
	p.Put(idle)
	p.Destroy()
	if !idle.closed.Load() {
		t.Error("idle conn not closed on destroy")
	}
	if _, err := p.Get(ctx); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expect ErrPoolClosed, got %v", err)
	}
	p.Put(busy)
	if !busy.closed.Load() || p.NumOpen() != 0 {
		t.Errorf("conn returned after destroy must be closed, open %v", p.NumOpen())
	}
	p.Destroy()
}

func TestNewConnPoolInvalid(t *testing.T) {
	factory, _ := newFakeFactory()
	if _, err := NewConnPool(ConnPoolConfig{MaxOpenConn: 0}, factory); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("expect ErrInvalidParam, got %v", err)
	}
	if _, err := NewConnPool[*fakeConn](ConnPoolDefaultConf("x"), nil); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("expect ErrInvalidParam, got %v", err)
	}
}

func TestConnPoolWaiterDialsAfterBrokenConn(t *testing.T) {
	factory, dialed := newFakeFactory()
	p, err := NewConnPool(ConnPoolConfig{Name: "test", MaxOpenConn: 1, WaitTimeout: 500 * time.Millisecond}, factory)
	if err != nil {
		t.Fatalf("NewConnPool: %v", err)
	}
	ctx := context.Background()
	held, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	type result struct {
		c       *fakeConn
		err     error
		elapsed time.Duration
	}
	done := make(chan result)
	go func() {
		start := time.Now()
		c, err := p.Get(ctx)
		done <- result{c, err, time.Since(start)}
	}()
	time.Sleep(20 * time.Millisecond)
	p.Release(held, thrift.NewTTransportException(thrift.END_OF_FILE, "eof"))

	got := <-done
	if got.err != nil {
		t.Fatalf("waiter should dial once the broken conn is dropped, got %v after %v", got.err, got.elapsed)
	}
	if got.c == held {
		t.Error("waiter got the broken conn back")
	}
	if got.elapsed >= 250*time.Millisecond {
		t.Errorf("waiter woke after %v, expect well before WaitTimeout", got.elapsed)
	}
	if dialed.Load() != 2 || p.NumOpen() != 1 {
		t.Errorf("expect a second dial, dialed %v open %v", dialed.Load(), p.NumOpen())
	}
	p.Put(got.c)
}
