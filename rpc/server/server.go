package server

import (
	"net"

	"github.com/Qthai16/ringdeque/utils"
	"github.com/apache/thrift/lib/go/thrift"
)

type Config struct {
	Addr     string
	Shards   int
	ConnConf *thrift.TConfiguration
}

// Server serves the deque methods over framed binary thrift.
type Server struct {
	Config
	Registry *Registry
	Stats    *Stats
	socket   *thrift.TServerSocket
	srv      *thrift.TSimpleServer
}

func New(conf Config) (*Server, error) {
	socket, err := thrift.NewTServerSocket(conf.Addr)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry(conf.Shards)
	stats := NewStats()
	processor := NewProcessor(NewHandler(reg, stats), stats)
	transFactory := thrift.NewTFramedTransportFactoryConf(thrift.NewTTransportFactory(), conf.ConnConf)
	protoFactory := thrift.NewTBinaryProtocolFactoryConf(conf.ConnConf)
	return &Server{
		Config:   conf,
		Registry: reg,
		Stats:    stats,
		socket:   socket,
		srv:      thrift.NewTSimpleServer4(processor, socket, transFactory, protoFactory),
	}, nil
}

func (s *Server) Listen() error {
	if err := s.srv.Listen(); err != nil {
		return err
	}
	utils.LogInfo("[server] listening on %v", s.Addr())
	return nil
}

// Addr is the bound address once Listen succeeded.
func (s *Server) Addr() net.Addr {
	return s.socket.Addr()
}

// Serve accepts connections until Stop, Listen must be called first.
func (s *Server) Serve() error {
	return s.srv.AcceptLoop()
}

func (s *Server) Stop() error {
	err := s.srv.Stop()
	utils.LogInfo("[server] stopped, deques: %v, stats: %v", s.Registry.Len(), s.Stats)
	return err
}
