package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/Qthai16/ringdeque/rpc/server"
	"github.com/Qthai16/ringdeque/utils"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/sevlyar/go-daemon"
)

var (
	cmdLineOpts = CmdlineOpts{
		ConnectTimeout: 5 * time.Second,
		SocketTimeout:  0, // idle clients keep their connection
	}
)

type CmdlineOpts struct {
	Addr           string
	LogPath        string
	ConfigPath     string
	Shards         int
	Daemon         bool
	Verbose        bool
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
}

func flagInit(fs *flag.FlagSet) {
	fs.StringVar(&cmdLineOpts.Addr, "addr", ":18000", "server listen addr")
	fs.StringVar(&cmdLineOpts.LogPath, "log", "", "log file path")
	fs.StringVar(&cmdLineOpts.ConfigPath, "config", "", "toml config file")
	fs.IntVar(&cmdLineOpts.Shards, "shards", 16, "deque registry shards")
	fs.BoolVar(&cmdLineOpts.Daemon, "daemon", false, "run as daemon")
	fs.BoolVar(&cmdLineOpts.Verbose, "verbose", false, "log every call")
}

func connConf() *thrift.TConfiguration {
	return &thrift.TConfiguration{
		ConnectTimeout:     cmdLineOpts.ConnectTimeout,
		SocketTimeout:      cmdLineOpts.SocketTimeout,
		MaxFrameSize:       1024 * 1024 * 16,
		TBinaryStrictRead:  thrift.BoolPtr(true),
		TBinaryStrictWrite: thrift.BoolPtr(true),
	}
}

func uniqPidFile() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("dequed.%d.pid", r.Intn(10000))
}

func run() {
	if len(cmdLineOpts.LogPath) > 0 {
		f, err := utils.OpenLogFile(cmdLineOpts.LogPath)
		if err != nil {
			utils.LogErro("failed to open log %v: %v", cmdLineOpts.LogPath, err)
			return
		}
		defer f.Close()
		if err := utils.RedirectFile(os.Stderr, f); err != nil {
			utils.LogWarn("failed to redirect stderr: %v", err)
		}
	}
	utils.SetVerbose(cmdLineOpts.Verbose)

	srv, err := server.New(server.Config{
		Addr:     cmdLineOpts.Addr,
		Shards:   cmdLineOpts.Shards,
		ConnConf: connConf(),
	})
	if err != nil {
		utils.LogErro("failed to create server on %v: %v", cmdLineOpts.Addr, err)
		return
	}
	if err := srv.Listen(); err != nil {
		utils.LogErro("failed to listen: %v", err)
		return
	}
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve()
	}()
	select {
	case err := <-done:
		utils.LogErro("accept loop stopped: %v", err)
	case sig := <-utils.WaitTerminate():
		utils.LogInfo("got %v", sig)
	}
	if err := srv.Stop(); err != nil {
		utils.LogWarn("stop: %v", err)
	}
	utils.LogInfo("server exit")
}

func main() {
	fs := flag.CommandLine
	flagInit(fs)
	flag.Parse()
	if cmdLineOpts.ConfigPath != "" {
		fileConf, err := loadFileConfig(cmdLineOpts.ConfigPath)
		if err != nil {
			utils.LogErro("failed to load config %v: %v", cmdLineOpts.ConfigPath, err)
			return
		}
		fileConf.merge(&cmdLineOpts, fs)
	}
	if len(cmdLineOpts.Addr) == 0 {
		utils.LogErro("invalid address")
		return
	}
	if cmdLineOpts.Daemon {
		utils.LogInfo("running process as daemon")
		cntxt := &daemon.Context{
			PidFileName: fmt.Sprintf("/tmp/%s", uniqPidFile()),
			PidFilePerm: 0644,
		}
		d, err := cntxt.Reborn()
		if err != nil {
			utils.LogErro("failed to run as daemon: %v", err)
			return
		}
		if d != nil { // parent process
			return
		}
		defer cntxt.Release()
	}
	run()
}
