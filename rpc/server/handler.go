package server

import (
	"errors"

	"github.com/Qthai16/ringdeque/common/deque"
	"github.com/Qthai16/ringdeque/rpc/message"
)

// Handler runs deque methods against a Registry. Adds create the named
// deque on first use, every other method treats a missing deque as empty.
type Handler struct {
	reg   *Registry
	stats *Stats
}

func NewHandler(reg *Registry, stats *Stats) *Handler {
	return &Handler{reg: reg, stats: stats}
}

// Handle runs one call to completion while holding the deque's lock, so it
// never blocks on anything but that lock.
func (h *Handler) Handle(method string, req *message.Request) *message.Reply {
	h.stats.IncCall(method)
	if req.Deque == "" {
		return h.fault(message.FaultInvalidRequest, "deque name is empty")
	}
	reply := &message.Reply{}
	switch method {
	case message.MethodSize:
		h.reg.With(req.Deque, false, func(d *deque.Deque[string]) {
			reply.Size = int32(d.Size())
		})
	case message.MethodAddAtHead, message.MethodAddAtTail:
		h.reg.With(req.Deque, true, func(d *deque.Deque[string]) {
			if method == message.MethodAddAtHead {
				d.AddAtHead(req.Value)
			} else {
				d.AddAtTail(req.Value)
			}
			reply.Size = int32(d.Size())
		})
	case message.MethodRemoveFromHead, message.MethodRemoveFromTail:
		err := deque.ErrEmptyDeque
		h.reg.With(req.Deque, false, func(d *deque.Deque[string]) {
			value, _ := d.Sentinel().Next().Value()
			if method == message.MethodRemoveFromTail {
				value, _ = d.Sentinel().Prev().Value()
				err = d.RemoveFromTail()
			} else {
				err = d.RemoveFromHead()
			}
			if err == nil {
				reply.Value = value
				reply.Size = int32(d.Size())
			}
		})
		if err != nil {
			return h.removeFault(err)
		}
	case message.MethodFind:
		h.reg.With(req.Deque, false, func(d *deque.Deque[string]) {
			n := d.Find(func(v string) bool { return v == req.Value })
			reply.Value, reply.Found = n.Value()
			reply.Size = int32(d.Size())
		})
	case message.MethodFlatten:
		reply.Values = []string{}
		h.reg.With(req.Deque, false, func(d *deque.Deque[string]) {
			reply.Values = d.Flatten()
			reply.Size = int32(len(reply.Values))
		})
	default:
		return h.fault(message.FaultInvalidRequest, "unknown method "+method)
	}
	return reply
}

func (h *Handler) removeFault(err error) *message.Reply {
	if errors.Is(err, deque.ErrEmptyDeque) {
		return h.fault(message.FaultEmptyDeque, err.Error())
	}
	return h.fault(message.FaultInvalidRequest, err.Error())
}

func (h *Handler) fault(code int32, msg string) *message.Reply {
	key := InvalidRequestFaultKey
	if code == message.FaultEmptyDeque {
		key = EmptyDequeFaultKey
	}
	h.stats.IncFault(key)
	return &message.Reply{Fault: &message.Fault{Code: code, Message: msg}}
}
