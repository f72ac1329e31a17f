package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Qthai16/ringdeque/common/deque"
	"github.com/Qthai16/ringdeque/common/pool"
	"github.com/Qthai16/ringdeque/rpc/message"
	"github.com/apache/thrift/lib/go/thrift"
)

var (
	ErrRemoteFault = errors.New("remote fault")
)

type Config struct {
	Addr        string
	MaxOpenConn int32         // pool default when 0
	WaitTimeout time.Duration // how long a call waits for a free connection, pool default when 0
	ConnConf    *thrift.TConfiguration
}

type conn struct {
	trans  thrift.TTransport
	client *thrift.TStandardClient
}

func dial(addr string, conf *thrift.TConfiguration) (*conn, error) {
	socket := thrift.NewTSocketConf(addr, conf)
	trans := thrift.NewTFramedTransportConf(socket, conf)
	iprot := thrift.NewTBinaryProtocolConf(trans, conf)
	oprot := thrift.NewTBinaryProtocolConf(trans, conf)
	if err := trans.Open(); err != nil {
		return nil, err
	}
	return &conn{
		trans:  trans,
		client: thrift.NewTStandardClient(iprot, oprot),
	}, nil
}

func (c *conn) Close() error {
	return c.trans.Close()
}

// Client calls a deque server. It is safe for concurrent use, every call
// borrows its own connection from the pool.
type Client struct {
	pool *pool.ConnPool[*conn]
}

func New(conf Config) (*Client, error) {
	if conf.Addr == "" {
		return nil, pool.ErrInvalidParam
	}
	poolConf := pool.ConnPoolDefaultConf(conf.Addr)
	if conf.MaxOpenConn > 0 {
		poolConf.MaxOpenConn = conf.MaxOpenConn
	}
	if conf.WaitTimeout > 0 {
		poolConf.WaitTimeout = conf.WaitTimeout
	}
	p, err := pool.NewConnPool[*conn](poolConf, func() (*conn, error) {
		return dial(conf.Addr, conf.ConnConf)
	})
	if err != nil {
		return nil, err
	}
	return &Client{pool: p}, nil
}

func (c *Client) Close() {
	c.pool.Destroy()
}

func (c *Client) call(ctx context.Context, method, name, value string) (*message.Reply, error) {
	cn, err := c.pool.Get(ctx)
	if err != nil {
		return nil, err
	}
	req := &message.Request{Deque: name, Value: value}
	reply := &message.Reply{}
	_, err = cn.client.Call(ctx, method, req, reply)
	c.pool.Release(cn, err)
	if err != nil {
		return nil, err
	}
	if reply.Fault != nil {
		return reply, faultError(reply.Fault)
	}
	return reply, nil
}

func faultError(f *message.Fault) error {
	if f.Code == message.FaultEmptyDeque {
		return deque.ErrEmptyDeque
	}
	return fmt.Errorf("%w: %v", ErrRemoteFault, f)
}

func (c *Client) Size(ctx context.Context, name string) (int, error) {
	reply, err := c.call(ctx, message.MethodSize, name, "")
	if err != nil {
		return 0, err
	}
	return int(reply.Size), nil
}

func (c *Client) AddAtHead(ctx context.Context, name, value string) error {
	_, err := c.call(ctx, message.MethodAddAtHead, name, value)
	return err
}

func (c *Client) AddAtTail(ctx context.Context, name, value string) error {
	_, err := c.call(ctx, message.MethodAddAtTail, name, value)
	return err
}

// RemoveFromHead removes and returns the head element, deque.ErrEmptyDeque
// when the remote deque is empty.
func (c *Client) RemoveFromHead(ctx context.Context, name string) (string, error) {
	reply, err := c.call(ctx, message.MethodRemoveFromHead, name, "")
	if err != nil {
		return "", err
	}
	return reply.Value, nil
}

func (c *Client) RemoveFromTail(ctx context.Context, name string) (string, error) {
	reply, err := c.call(ctx, message.MethodRemoveFromTail, name, "")
	if err != nil {
		return "", err
	}
	return reply.Value, nil
}

// Find reports whether the remote deque holds value.
func (c *Client) Find(ctx context.Context, name, value string) (bool, error) {
	reply, err := c.call(ctx, message.MethodFind, name, value)
	if err != nil {
		return false, err
	}
	return reply.Found, nil
}

func (c *Client) Flatten(ctx context.Context, name string) ([]string, error) {
	reply, err := c.call(ctx, message.MethodFlatten, name, "")
	if err != nil {
		return nil, err
	}
	return reply.Values, nil
}
