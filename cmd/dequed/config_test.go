package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileConfigMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dequed.toml")
	content := `
addr = ":19000"
log = "/tmp/dequed.log"
shards = 64
connect_timeout = "2s"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	conf, err := loadFileConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	opts := CmdlineOpts{}
	fs := flag.NewFlagSet("dequed", flag.ContinueOnError)
	fs.StringVar(&opts.Addr, "addr", ":18000", "")
	fs.StringVar(&opts.LogPath, "log", "", "")
	fs.IntVar(&opts.Shards, "shards", 16, "")
	fs.BoolVar(&opts.Verbose, "verbose", false, "")
	if err := fs.Parse([]string{"-shards", "8"}); err != nil {
		t.Fatal(err)
	}
	conf.merge(&opts, fs)

	if opts.Addr != ":19000" || opts.LogPath != "/tmp/dequed.log" {
		t.Errorf("file values not applied: %+v", opts)
	}
	if opts.Shards != 8 {
		t.Errorf("explicit flag overridden: shards %v", opts.Shards)
	}
	if opts.ConnectTimeout != 2*time.Second {
		t.Errorf("connect timeout: %v", opts.ConnectTimeout)
	}
}

func TestFileConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte(`socket_timeout = "soon"`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFileConfig(path); err == nil {
		t.Error("expect error for invalid duration")
	}
}
