package server

import (
	"context"

	"github.com/Qthai16/ringdeque/common/pool"
	"github.com/Qthai16/ringdeque/rpc/message"
	"github.com/Qthai16/ringdeque/utils"
	"github.com/apache/thrift/lib/go/thrift"
)

// Processor dispatches thrift calls to a Handler, one processor function
// per deque method.
type Processor struct {
	processorMap map[string]thrift.TProcessorFunction
	stats        *Stats
}

var _ thrift.TProcessor = (*Processor)(nil)

func NewProcessor(h *Handler, stats *Stats) *Processor {
	requests := pool.NewTPool(pool.TPoolConfig[message.Request]{
		Reset: (*message.Request).Reset,
	})
	p := &Processor{
		processorMap: make(map[string]thrift.TProcessorFunction, len(message.Methods)),
		stats:        stats,
	}
	for _, m := range message.Methods {
		p.AddToProcessorMap(m, &methodProcessor{
			method:   m,
			handler:  h,
			requests: requests,
			stats:    stats,
		})
	}
	return p
}

func (p *Processor) ProcessorMap() map[string]thrift.TProcessorFunction {
	return p.processorMap
}

func (p *Processor) AddToProcessorMap(key string, fn thrift.TProcessorFunction) {
	p.processorMap[key] = fn
}

func (p *Processor) Process(ctx context.Context, iprot, oprot thrift.TProtocol) (bool, thrift.TException) {
	name, _, seqId, err := iprot.ReadMessageBegin(ctx)
	if err != nil {
		return false, thrift.WrapTException(err)
	}
	if fn, ok := p.processorMap[name]; ok {
		return fn.Process(ctx, seqId, iprot, oprot)
	}
	p.stats.IncFault(UnknownMethodFaultKey)
	iprot.Skip(ctx, thrift.STRUCT)
	iprot.ReadMessageEnd(ctx)
	x := thrift.NewTApplicationException(thrift.UNKNOWN_METHOD, "Unknown function "+name)
	writeException(ctx, oprot, name, seqId, x)
	return false, x
}

type methodProcessor struct {
	method   string
	handler  *Handler
	requests *pool.TPool[message.Request]
	stats    *Stats
}

func (m *methodProcessor) Process(ctx context.Context, seqId int32, iprot, oprot thrift.TProtocol) (bool, thrift.TException) {
	req := m.requests.Get()
	defer m.requests.Put(&req)
	if err := req.Read(ctx, iprot); err != nil {
		m.stats.IncFault(MsgParseFaultKey)
		iprot.ReadMessageEnd(ctx)
		x := thrift.NewTApplicationException(thrift.PROTOCOL_ERROR, err.Error())
		writeException(ctx, oprot, m.method, seqId, x)
		return false, thrift.WrapTException(err)
	}
	iprot.ReadMessageEnd(ctx)

	utils.LogDebug("[processor] %v %v", m.method, req)
	reply := m.handler.Handle(m.method, req)
	if err := writeMessage(ctx, oprot, m.method, thrift.REPLY, seqId, reply); err != nil {
		utils.LogErro("[processor] write %v reply: %v", m.method, err)
		return false, thrift.WrapTException(err)
	}
	return true, nil
}

func writeMessage(ctx context.Context, oprot thrift.TProtocol, name string, typeId thrift.TMessageType, seqId int32, body thrift.TStruct) error {
	if err := oprot.WriteMessageBegin(ctx, name, typeId, seqId); err != nil {
		return err
	}
	if err := body.Write(ctx, oprot); err != nil {
		return err
	}
	if err := oprot.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return oprot.Flush(ctx)
}

func writeException(ctx context.Context, oprot thrift.TProtocol, name string, seqId int32, x thrift.TApplicationException) {
	if err := writeMessage(ctx, oprot, name, thrift.EXCEPTION, seqId, x); err != nil {
		utils.LogWarn("[processor] write exception for %v: %v", name, err)
	}
}
