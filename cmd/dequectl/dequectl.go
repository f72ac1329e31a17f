package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Qthai16/ringdeque/rpc/client"
	"github.com/Qthai16/ringdeque/utils"
	"github.com/apache/thrift/lib/go/thrift"
)

var (
	cmdLineOpts = CmdlineOpts{}
)

type CmdlineOpts struct {
	Addr    string
	Timeout time.Duration
}

func flagInit() {
	flag.StringVar(&cmdLineOpts.Addr, "addr", "127.0.0.1:18000", "dequed addr")
	flag.DurationVar(&cmdLineOpts.Timeout, "timeout", 5*time.Second, "connect and call timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <op> <deque> [value]\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "ops: size, push-head, push-tail, pop-head, pop-tail, find, list")
		flag.PrintDefaults()
	}
}

func run(ctx context.Context, cli *client.Client, op, name string, args []string) (string, error) {
	value := strings.Join(args, " ")
	switch op {
	case "size":
		n, err := cli.Size(ctx, name)
		return fmt.Sprint(n), err
	case "push-head":
		return "ok", cli.AddAtHead(ctx, name, value)
	case "push-tail":
		return "ok", cli.AddAtTail(ctx, name, value)
	case "pop-head":
		return cli.RemoveFromHead(ctx, name)
	case "pop-tail":
		return cli.RemoveFromTail(ctx, name)
	case "find":
		found, err := cli.Find(ctx, name, value)
		return fmt.Sprint(found), err
	case "list":
		values, err := cli.Flatten(ctx, name)
		return fmt.Sprintf("%q", values), err
	}
	return "", fmt.Errorf("unknown op %q", op)
}

func main() {
	flagInit()
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}
	cli, err := client.New(client.Config{
		Addr:        cmdLineOpts.Addr,
		MaxOpenConn: 1,
		WaitTimeout: cmdLineOpts.Timeout,
		ConnConf: &thrift.TConfiguration{
			ConnectTimeout: cmdLineOpts.Timeout,
			SocketTimeout:  cmdLineOpts.Timeout,
		},
	})
	if err != nil {
		utils.LogFatal("invalid client config: %v", err)
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmdLineOpts.Timeout)
	defer cancel()
	out, err := run(ctx, cli, flag.Arg(0), flag.Arg(1), flag.Args()[2:])
	if err != nil {
		utils.LogErro("%v %v: %v", flag.Arg(0), flag.Arg(1), err)
		os.Exit(1)
	}
	fmt.Println(out)
}
