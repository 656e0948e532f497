// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build unix

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"

	"github.com/tarcrash/tarcrash/oracle"
)

func TestUsage(t *testing.T) {
	for _, args := range [][]string{{}, {"a", "b"}} {
		var out bytes.Buffer
		cmd := newCommand(&out, &out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		assert.ErrorContains(t, err, "accepts 1 arg(s)")
		assert.Check(t, is.Contains(out.String(), "tarcrash [flags] <extractor>"))
	}
}

func TestRunSweep(t *testing.T) {
	dir := fs.NewDir(t, "tarcrash",
		fs.WithFile("extractor", "#!/bin/sh\nprintf '*** The program has crashed ***\\n'\n", fs.WithMode(0o755)))
	opts := options{
		workdir:   dir.Path(),
		timeout:   10 * time.Second,
		scenarios: []string{"combo", "huge content"},
		seed:      7,
	}
	var out bytes.Buffer
	err := run(context.Background(), opts, dir.Join("extractor"), &out, io.Discard)
	assert.NilError(t, err)

	report := out.String()
	assert.Check(t, is.Contains(report, "Test Status Report\n"))
	assert.Check(t, is.Contains(report, "Total tries: 4\n"))
	assert.Check(t, is.Contains(report, "Total successes: 4\n"))
	assert.Check(t, is.Contains(report, "combo"))
	for i := uint64(1); i <= 4; i++ {
		_, err := os.Stat(dir.Join(oracle.SuccessName(i)))
		assert.NilError(t, err)
	}
}

func TestRunInterrupted(t *testing.T) {
	dir := fs.NewDir(t, "tarcrash",
		fs.WithFile("extractor", "#!/bin/sh\necho fine\n", fs.WithMode(0o755)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := run(ctx, options{workdir: dir.Path()}, dir.Join("extractor"), &out, io.Discard)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out.String(), "Total tries: 0\n"))
}

func TestRunErrors(t *testing.T) {
	dir := fs.NewDir(t, "tarcrash", fs.WithFile("file", ""))
	tests := []struct {
		desc string
		opts options
		want string
	}{
		{"missing workdir", options{workdir: dir.Join("missing")}, "bad workdir"},
		{"workdir is a file", options{workdir: dir.Join("file")}, "not a directory"},
		{"unknown scenario", options{workdir: dir.Path(), scenarios: []string{"bogus"}}, "unknown scenarios"},
		{"negative timeout", options{workdir: dir.Path(), timeout: -time.Second}, "negative timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := run(context.Background(), tt.opts, "/bin/true", io.Discard, io.Discard)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
