package main

import (
	"flag"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional TOML config, explicitly set flags win over it.
//
//	addr = ":18000"
//	log = "/var/log/dequed.log"
//	shards = 32
//	verbose = false
//	connect_timeout = "5s"
//	socket_timeout = "30s"
type FileConfig struct {
	Addr           string   `toml:"addr"`
	LogPath        string   `toml:"log"`
	Shards         int      `toml:"shards"`
	Verbose        bool     `toml:"verbose"`
	ConnectTimeout duration `toml:"connect_timeout"`
	SocketTimeout  duration `toml:"socket_timeout"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func loadFileConfig(path string) (*FileConfig, error) {
	conf := &FileConfig{}
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// merge copies file values into opts for every flag not given on the
// command line.
func (c *FileConfig) merge(opts *CmdlineOpts, fs *flag.FlagSet) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if !set["addr"] && c.Addr != "" {
		opts.Addr = c.Addr
	}
	if !set["log"] && c.LogPath != "" {
		opts.LogPath = c.LogPath
	}
	if !set["shards"] && c.Shards > 0 {
		opts.Shards = c.Shards
	}
	if !set["verbose"] && c.Verbose {
		opts.Verbose = true
	}
	if c.ConnectTimeout.Duration > 0 {
		opts.ConnectTimeout = c.ConnectTimeout.Duration
	}
	if c.SocketTimeout.Duration > 0 {
		opts.SocketTimeout = c.SocketTimeout.Duration
	}
}
