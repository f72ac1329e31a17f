package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Qthai16/ringdeque/common/cipher"
	"github.com/Qthai16/ringdeque/utils"
)

var (
	cmdLineOpts = CmdlineOpts{}
)

type CmdlineOpts struct {
	Key  string
	Code string
}

func flagInit() {
	flag.StringVar(&cmdLineOpts.Key, "key", "", "derive the code from this key")
	flag.StringVar(&cmdLineOpts.Code, "code", "", "explicit 26 letter code, overrides -key")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] encode|decode <text>\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func newCode() (*cipher.PermutationCode, error) {
	switch {
	case cmdLineOpts.Code != "":
		return cipher.NewWithCode(cmdLineOpts.Code)
	case cmdLineOpts.Key != "":
		return cipher.NewKeyed(cmdLineOpts.Key), nil
	}
	p := cipher.New(nil)
	utils.LogInfo("generated code: %v", p.Code())
	return p, nil
}

func main() {
	flagInit()
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}
	p, err := newCode()
	if err != nil {
		utils.LogFatal("%v", err)
	}
	text := strings.Join(flag.Args()[1:], " ")
	var out string
	switch flag.Arg(0) {
	case "encode":
		out, err = p.Encode(text)
	case "decode":
		out, err = p.Decode(text)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		utils.LogFatal("%v", err)
	}
	fmt.Println(out)
}
