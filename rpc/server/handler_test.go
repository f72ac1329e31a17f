package server

import (
	"context"
	"sync"
	"testing"

	"github.com/Qthai16/ringdeque/common/deque"
	"github.com/Qthai16/ringdeque/rpc/message"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/google/go-cmp/cmp"
)

func TestHandler(t *testing.T) {
	stats := NewStats()
	h := NewHandler(NewRegistry(2), stats)
	call := func(method, name, value string) *message.Reply {
		return h.Handle(method, &message.Request{Deque: name, Value: value})
	}

	steps := []struct {
		method, name, value string
		want                *message.Reply
	}{
		{message.MethodSize, "q", "", &message.Reply{}},
		{message.MethodRemoveFromHead, "q", "", &message.Reply{Fault: &message.Fault{Code: message.FaultEmptyDeque, Message: deque.ErrEmptyDeque.Error()}}},
		{message.MethodAddAtTail, "q", "b", &message.Reply{Size: 1}},
		{message.MethodAddAtHead, "q", "a", &message.Reply{Size: 2}},
		{message.MethodAddAtTail, "q", "c", &message.Reply{Size: 3}},
		{message.MethodFind, "q", "b", &message.Reply{Size: 3, Found: true, Value: "b"}},
		{message.MethodFind, "q", "x", &message.Reply{Size: 3}},
		{message.MethodFlatten, "q", "", &message.Reply{Size: 3, Values: []string{"a", "b", "c"}}},
		{message.MethodRemoveFromTail, "q", "", &message.Reply{Size: 2, Value: "c"}},
		{message.MethodRemoveFromHead, "q", "", &message.Reply{Size: 1, Value: "a"}},
		{message.MethodFlatten, "other", "", &message.Reply{Values: []string{}}},
		{message.MethodAddAtTail, "", "v", &message.Reply{Fault: &message.Fault{Code: message.FaultInvalidRequest, Message: "deque name is empty"}}},
	}
	for i, s := range steps {
		if diff := cmp.Diff(s.want, call(s.method, s.name, s.value)); diff != "" {
			t.Errorf("step %d %v: reply mismatch (-want +got):\n%s", i, s.method, diff)
		}
	}
	if got := stats.Call(message.MethodAddAtTail); got != 3 {
		t.Errorf("addAtTail calls: expect 3, got %v", got)
	}
	if stats.Fault(EmptyDequeFaultKey) != 1 || stats.Fault(InvalidRequestFaultKey) != 1 {
		t.Errorf("unexpected faults %v", stats)
	}
}

func TestHandlerRemoveDrains(t *testing.T) {
	reg := NewRegistry(1)
	h := NewHandler(reg, NewStats())
	for _, v := range []string{"a", "b", "c", "d"} {
		h.Handle(message.MethodAddAtTail, &message.Request{Deque: "q", Value: v})
	}

	var got []string
	for i, method := range []string{
		message.MethodRemoveFromHead, message.MethodRemoveFromTail,
		message.MethodRemoveFromTail, message.MethodRemoveFromHead,
	} {
		reply := h.Handle(method, &message.Request{Deque: "q"})
		if reply.Fault != nil {
			t.Fatalf("remove %d: unexpected fault %v", i, reply.Fault)
		}
		if want := int32(3 - i); reply.Size != want {
			t.Errorf("remove %d: expect size %v, got %v", i, want, reply.Size)
		}
		got = append(got, reply.Value)
	}
	if diff := cmp.Diff([]string{"a", "d", "c", "b"}, got); diff != "" {
		t.Errorf("removed values mismatch (-want +got):\n%s", diff)
	}

	reply := h.Handle(message.MethodRemoveFromTail, &message.Request{Deque: "q"})
	if reply.Fault == nil || reply.Fault.Code != message.FaultEmptyDeque || reply.Value != "" {
		t.Errorf("expect empty deque fault with no value, got %+v", reply)
	}
	reg.With("q", false, func(d *deque.Deque[string]) {
		if err := d.Check(); err != nil {
			t.Errorf("ring after drain: %v", err)
		}
		if d.Size() != 0 {
			t.Errorf("expect empty deque, got %v", d)
		}
	})
}

func TestRegistryConcurrent(t *testing.T) {
	reg := NewRegistry(4)
	names := []string{"a", "b", "c", "d", "e"}
	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				reg.With(names[(w+i)%len(names)], true, func(d *deque.Deque[string]) {
					d.AddAtTail("x")
				})
			}
		}(w)
	}
	wg.Wait()
	if reg.Len() != len(names) {
		t.Fatalf("expect %v deques, got %v", len(names), reg.Len())
	}
	total := 0
	for _, n := range names {
		ok := reg.With(n, false, func(d *deque.Deque[string]) {
			if err := d.Check(); err != nil {
				t.Errorf("%v: %v", n, err)
			}
			total += d.Size()
		})
		if !ok {
			t.Errorf("deque %v missing", n)
		}
	}
	if total != 1000 {
		t.Errorf("expect 1000 elements, got %v", total)
	}
	if reg.With("nope", false, func(*deque.Deque[string]) {}) {
		t.Error("With must not create without the create flag")
	}
}

func TestProcessorUnknownMethod(t *testing.T) {
	ctx := context.Background()
	stats := NewStats()
	p := NewProcessor(NewHandler(NewRegistry(1), stats), stats)
	in := thrift.NewTBinaryProtocolConf(thrift.NewTMemoryBuffer(), nil)
	out := thrift.NewTBinaryProtocolConf(thrift.NewTMemoryBuffer(), nil)

	in.WriteMessageBegin(ctx, "clear", thrift.CALL, 7)
	(&message.Request{Deque: "q"}).Write(ctx, in)
	in.WriteMessageEnd(ctx)

	ok, err := p.Process(ctx, in, out)
	if ok || err == nil {
		t.Fatalf("expect failure for unknown method, got %v %v", ok, err)
	}
	name, typeId, seqId, rerr := out.ReadMessageBegin(ctx)
	if rerr != nil || name != "clear" || typeId != thrift.EXCEPTION || seqId != 7 {
		t.Fatalf("unexpected reply header %v %v %v %v", name, typeId, seqId, rerr)
	}
	x := thrift.NewTApplicationException(thrift.UNKNOWN_APPLICATION_EXCEPTION, "")
	if rerr := x.Read(ctx, out); rerr != nil {
		t.Fatalf("read exception: %v", rerr)
	}
	if x.TypeId() != thrift.UNKNOWN_METHOD {
		t.Errorf("expect UNKNOWN_METHOD, got %v", x.TypeId())
	}
	if stats.Fault(UnknownMethodFaultKey) != 1 {
		t.Errorf("unknown method not counted: %v", stats)
	}
}

func TestProcessorCall(t *testing.T) {
	ctx := context.Background()
	stats := NewStats()
	reg := NewRegistry(1)
	p := NewProcessor(NewHandler(reg, stats), stats)
	in := thrift.NewTBinaryProtocolConf(thrift.NewTMemoryBuffer(), nil)
	out := thrift.NewTBinaryProtocolConf(thrift.NewTMemoryBuffer(), nil)

	in.WriteMessageBegin(ctx, message.MethodAddAtHead, thrift.CALL, 1)
	(&message.Request{Deque: "q", Value: "v"}).Write(ctx, in)
	in.WriteMessageEnd(ctx)
	if ok, err := p.Process(ctx, in, out); !ok || err != nil {
		t.Fatalf("process: %v %v", ok, err)
	}
	name, typeId, seqId, err := out.ReadMessageBegin(ctx)
	if err != nil || name != message.MethodAddAtHead || typeId != thrift.REPLY || seqId != 1 {
		t.Fatalf("unexpected reply header %v %v %v %v", name, typeId, seqId, err)
	}
	reply := &message.Reply{}
	if err := reply.Read(ctx, out); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Size != 1 || reply.Fault != nil {
		t.Errorf("unexpected reply %+v", reply)
	}
}
