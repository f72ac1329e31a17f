package server

import (
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/Qthai16/ringdeque/rpc/message"
)

const (
	EmptyDequeFaultKey     = "empty_deque"
	InvalidRequestFaultKey = "invalid_request"
	UnknownMethodFaultKey  = "unknown_method"
	MsgParseFaultKey       = "msg_parse"
)

type JSONAtomicI64 struct {
	atomic.Int64
}

func (f *JSONAtomicI64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(f.Load(), 10)), nil
}

// Stats counts calls per method and faults per kind. Both maps are filled
// once in NewStats and only their counters change afterwards.
type Stats struct {
	Calls  map[string]*JSONAtomicI64 `json:"calls"`
	Faults map[string]*JSONAtomicI64 `json:"faults"`
}

func NewStats() *Stats {
	s := &Stats{
		Calls: make(map[string]*JSONAtomicI64, len(message.Methods)),
		Faults: map[string]*JSONAtomicI64{
			EmptyDequeFaultKey:     {},
			InvalidRequestFaultKey: {},
			UnknownMethodFaultKey:  {},
			MsgParseFaultKey:       {},
		},
	}
	for _, m := range message.Methods {
		s.Calls[m] = &JSONAtomicI64{}
	}
	return s
}

func (s *Stats) IncCall(method string) {
	if c, ok := s.Calls[method]; ok {
		c.Add(1)
	}
}

func (s *Stats) IncFault(key string) {
	if c, ok := s.Faults[key]; ok {
		c.Add(1)
	}
}

func (s *Stats) Call(method string) int64 {
	if c, ok := s.Calls[method]; ok {
		return c.Load()
	}
	return 0
}

func (s *Stats) Fault(key string) int64 {
	if c, ok := s.Faults[key]; ok {
		return c.Load()
	}
	return 0
}

func (s *Stats) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
