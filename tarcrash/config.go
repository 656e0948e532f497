// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// options are the command line settings. A config file may provide any of
// them; flags given explicitly on the command line win.
type options struct {
	configFile string
	workdir    string
	timeout    time.Duration
	http       string
	verbose    int
	testOutput bool
	scenarios  []string
	seed       uint64
}

// fileConfig is the TOML layout of the config file.
type fileConfig struct {
	Workdir    string   `toml:"workdir"`
	Timeout    string   `toml:"timeout"`
	HTTP       string   `toml:"http"`
	Verbose    int      `toml:"verbose"`
	TestOutput bool     `toml:"testoutput"`
	Scenarios  []string `toml:"scenarios"`
	Seed       uint64   `toml:"seed"`
}

func installFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.configFile, "config", "", "TOML file with default settings")
	flags.StringVar(&opts.workdir, "workdir", ".", "dir holding archive.tar and saved crashers")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "extractor run timeout, 0 waits forever")
	flags.StringVar(&opts.http, "http", "", "HTTP server listen address for live statistics")
	flags.IntVarP(&opts.verbose, "verbose", "v", 0, "verbosity level")
	flags.BoolVar(&opts.testOutput, "testoutput", false, "print extractor stderr (for debugging only)")
	flags.StringSliceVar(&opts.scenarios, "scenario", nil, "only run the named scenarios")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for random sizes and letters, 0 uses the clock")
}

// loadConfig fills opts from the config file for every flag that was not set
// on the command line.
func loadConfig(path string, flags *pflag.FlagSet, opts *options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}
	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}

	if !flags.Changed("workdir") && cfg.Workdir != "" {
		opts.workdir = cfg.Workdir
	}
	if !flags.Changed("timeout") && cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return errors.Wrapf(err, "invalid timeout in %s", path)
		}
		opts.timeout = d
	}
	if !flags.Changed("http") && cfg.HTTP != "" {
		opts.http = cfg.HTTP
	}
	if !flags.Changed("verbose") && cfg.Verbose != 0 {
		opts.verbose = cfg.Verbose
	}
	if !flags.Changed("testoutput") && cfg.TestOutput {
		opts.testOutput = true
	}
	if !flags.Changed("scenario") && len(cfg.Scenarios) != 0 {
		opts.scenarios = cfg.Scenarios
	}
	if !flags.Changed("seed") && cfg.Seed != 0 {
		opts.seed = cfg.Seed
	}
	return nil
}
