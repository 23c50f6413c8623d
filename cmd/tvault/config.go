package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/trustvault/store/iavl"
	"github.com/iov-one/trustvault/x/escrow"
	"github.com/tendermint/tendermint/libs/log"
)

const configFile = "config.toml"

// Config is the content of the configuration file kept in the home
// directory.
type Config struct {
	ChainID   string `toml:"chain_id"`
	LogLevel  string `toml:"log_level"`
	CacheSize int    `toml:"cache_size"`
	// Backend is either "goleveldb" or "memdb". Nothing written to memdb
	// survives the process.
	Backend string `toml:"backend"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:  "info",
		CacheSize: iavl.DefaultCacheSize,
		Backend:   "goleveldb",
	}
}

// loadConfig reads the configuration from given home directory. A default
// configuration is written if none exists yet.
func loadConfig(home string) (*Config, error) {
	path := filepath.Join(home, configFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		conf := defaultConfig()
		if err := writeConfig(home, conf); err != nil {
			return nil, err
		}
		return &conf, nil
	}

	conf := defaultConfig()
	meta, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("unknown configuration key %q in %s", undecoded[0].String(), path)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %s", path, err)
	}
	return &conf, nil
}

func writeConfig(home string, conf Config) error {
	if err := os.MkdirAll(home, 0700); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}
	fd, err := os.OpenFile(filepath.Join(home, configFile), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create configuration file: %s", err)
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return fmt.Errorf("cannot write configuration: %s", err)
	}
	return fd.Close()
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	switch c.Backend {
	case "goleveldb", "memdb":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("negative cache size %d", c.CacheSize)
	}
	if _, err := newLogger(ioutil.Discard, c.LogLevel); err != nil {
		return err
	}
	return nil
}

// newLogger returns a logger writing to w. Level "none" silences it.
func newLogger(w io.Writer, level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	if strings.ToLower(level) == "none" {
		return log.NewFilter(logger, log.AllowNone()), nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}

// node is an engine open on the data directory of home.
type node struct {
	conf   *Config
	engine *escrow.Engine
	close  func() error
}

func openNode(home string) (*node, error) {
	conf, err := loadConfig(home)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(os.Stderr, conf.LogLevel)
	if err != nil {
		return nil, err
	}

	var db *iavl.CommitStore
	switch conf.Backend {
	case "memdb":
		db = iavl.NewMemCommitStore(conf.CacheSize)
	default:
		db, err = iavl.NewCommitStore(filepath.Join(home, "data"), "trustvault", conf.CacheSize)
		if err != nil {
			return nil, err
		}
	}
	return &node{
		conf:   conf,
		engine: escrow.NewEngine(db, systemClock, logger),
		close:  db.Close,
	}, nil
}
