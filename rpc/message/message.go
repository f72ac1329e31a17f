package message

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Service name and method names of the deque RPC.
const (
	ServiceName = "DequeService"

	MethodSize           = "size"
	MethodAddAtHead      = "addAtHead"
	MethodAddAtTail      = "addAtTail"
	MethodRemoveFromHead = "removeFromHead"
	MethodRemoveFromTail = "removeFromTail"
	MethodFind           = "find"
	MethodFlatten        = "flatten"
)

var Methods = []string{
	MethodSize,
	MethodAddAtHead,
	MethodAddAtTail,
	MethodRemoveFromHead,
	MethodRemoveFromTail,
	MethodFind,
	MethodFlatten,
}

// Fault codes carried in Reply.Fault.
const (
	FaultEmptyDeque     int32 = 1
	FaultInvalidRequest int32 = 2
)

// Request is the argument struct of every method.
//
//	struct Request { 1: string deque, 2: string value }
type Request struct {
	Deque string
	Value string
}

func (r *Request) Reset() {
	r.Deque = ""
	r.Value = ""
}

func (r *Request) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "Request"); err != nil {
		return thrift.PrependError("write Request begin: ", err)
	}
	if err := writeString(ctx, oprot, "deque", 1, r.Deque); err != nil {
		return err
	}
	if err := writeString(ctx, oprot, "value", 2, r.Value); err != nil {
		return err
	}
	return writeStructEnd(ctx, oprot)
}

func (r *Request) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typeId == thrift.STRING:
			r.Deque, err = iprot.ReadString(ctx)
		case id == 2 && typeId == thrift.STRING:
			r.Value, err = iprot.ReadString(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (r *Request) String() string {
	return fmt.Sprintf("Request(deque: %q, value: %q)", r.Deque, r.Value)
}

// Fault is a domain error returned inside a normal reply.
//
//	struct Fault { 1: i32 code, 2: string message }
type Fault struct {
	Code    int32
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault %d: %s", f.Code, f.Message)
}

func (f *Fault) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "Fault"); err != nil {
		return thrift.PrependError("write Fault begin: ", err)
	}
	if err := writeI32(ctx, oprot, "code", 1, f.Code); err != nil {
		return err
	}
	if err := writeString(ctx, oprot, "message", 2, f.Message); err != nil {
		return err
	}
	return writeStructEnd(ctx, oprot)
}

func (f *Fault) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typeId == thrift.I32:
			f.Code, err = iprot.ReadI32(ctx)
		case id == 2 && typeId == thrift.STRING:
			f.Message, err = iprot.ReadString(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

// Reply is the result struct of every method, each method fills the fields
// it needs. Values and Fault are optional.
//
//	struct Reply {
//	  1: i32 size, 2: bool found, 3: string value,
//	  4: optional list<string> values, 5: optional Fault fault
//	}
type Reply struct {
	Size   int32
	Found  bool
	Value  string
	Values []string
	Fault  *Fault
}

func (r *Reply) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "Reply"); err != nil {
		return thrift.PrependError("write Reply begin: ", err)
	}
	if err := writeI32(ctx, oprot, "size", 1, r.Size); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "found", thrift.BOOL, 2); err != nil {
		return thrift.PrependError("write field found: ", err)
	}
	if err := oprot.WriteBool(ctx, r.Found); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeString(ctx, oprot, "value", 3, r.Value); err != nil {
		return err
	}
	if r.Values != nil {
		if err := oprot.WriteFieldBegin(ctx, "values", thrift.LIST, 4); err != nil {
			return thrift.PrependError("write field values: ", err)
		}
		if err := oprot.WriteListBegin(ctx, thrift.STRING, len(r.Values)); err != nil {
			return err
		}
		for _, v := range r.Values {
			if err := oprot.WriteString(ctx, v); err != nil {
				return err
			}
		}
		if err := oprot.WriteListEnd(ctx); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if r.Fault != nil {
		if err := oprot.WriteFieldBegin(ctx, "fault", thrift.STRUCT, 5); err != nil {
			return thrift.PrependError("write field fault: ", err)
		}
		if err := r.Fault.Write(ctx, oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	return writeStructEnd(ctx, oprot)
}

func (r *Reply) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typeId == thrift.I32:
			r.Size, err = iprot.ReadI32(ctx)
		case id == 2 && typeId == thrift.BOOL:
			r.Found, err = iprot.ReadBool(ctx)
		case id == 3 && typeId == thrift.STRING:
			r.Value, err = iprot.ReadString(ctx)
		case id == 4 && typeId == thrift.LIST:
			r.Values, err = readStringList(ctx, iprot)
		case id == 5 && typeId == thrift.STRUCT:
			r.Fault = &Fault{}
			err = r.Fault.Read(ctx, iprot)
		default:
			return false, nil
		}
		return true, err
	})
}

func writeString(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v string) error {
	if err := oprot.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field %s: ", name), err)
	}
	if err := oprot.WriteString(ctx, v); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field %s: ", name), err)
	}
	return oprot.WriteFieldEnd(ctx)
}

func writeI32(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v int32) error {
	if err := oprot.WriteFieldBegin(ctx, name, thrift.I32, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field %s: ", name), err)
	}
	if err := oprot.WriteI32(ctx, v); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field %s: ", name), err)
	}
	return oprot.WriteFieldEnd(ctx)
}

func writeStructEnd(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return thrift.PrependError("write field stop: ", err)
	}
	return oprot.WriteStructEnd(ctx)
}

// readStruct loops over the fields of a struct, field decodes the ones it
// knows and reports false for the rest, which are skipped.
func readStruct(ctx context.Context, iprot thrift.TProtocol, field func(id int16, typeId thrift.TType) (bool, error)) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError("read struct begin: ", err)
	}
	for {
		_, typeId, id, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("read field %d begin: ", id), err)
		}
		if typeId == thrift.STOP {
			break
		}
		known, err := field(id, typeId)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("read field %d: ", id), err)
		}
		if !known {
			if err := iprot.Skip(ctx, typeId); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}

func readStringList(ctx context.Context, iprot thrift.TProtocol) ([]string, error) {
	_, size, err := iprot.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, size)
	for i := 0; i < size; i++ {
		v, err := iprot.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, iprot.ReadListEnd(ctx)
}

var (
	_ thrift.TStruct = (*Request)(nil)
	_ thrift.TStruct = (*Reply)(nil)
	_ thrift.TStruct = (*Fault)(nil)
)
