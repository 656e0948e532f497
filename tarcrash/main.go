// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Command tarcrash feeds a sweep of malformed tar archives to an extractor
// and saves every archive that makes it report a crash.
//
// Usage:
//
//	tarcrash [flags] <extractor>
//
// The extractor is run as `<extractor> archive.tar` inside the work dir and
// signals a crash by printing "*** The program has crashed ***" as the first
// line of its stdout. Crashing archives are kept as success_<N>.tar.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tarcrash/tarcrash/archive"
	"github.com/tarcrash/tarcrash/catalogue"
	"github.com/tarcrash/tarcrash/internal/pcg"
	"github.com/tarcrash/tarcrash/oracle"
	"github.com/tarcrash/tarcrash/stats"
	"github.com/tarcrash/tarcrash/ustar"
)

// statsInterval is how often live statistics are logged and published.
const statsInterval = 3 * time.Second

func newCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "tarcrash [flags] <extractor>",
		Short:         "Feed malformed tar archives to an extractor and keep the ones that crash it.",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid; later errors are not usage errors.
			cmd.SilenceUsage = true
			if opts.configFile != "" {
				if err := loadConfig(opts.configFile, cmd.Flags(), &opts); err != nil {
					return err
				}
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return run(ctx, opts, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	installFlags(cmd.Flags(), &opts)
	cmd.AddCommand(newCorpusCommand())
	return cmd
}

func newLogger(w io.Writer, verbose int) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch {
	case verbose >= 2:
		logger.SetLevel(logrus.TraceLevel)
	case verbose == 1:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

func run(ctx context.Context, opts options, extractor string, stdout, stderr io.Writer) error {
	if opts.timeout < 0 {
		return errors.Errorf("negative timeout %v", opts.timeout)
	}
	log := newLogger(stderr, opts.verbose)

	// The extractor runs inside the work dir, so a relative path given on
	// the command line has to be resolved first.
	if filepath.Base(extractor) != extractor {
		abs, err := filepath.Abs(extractor)
		if err != nil {
			return errors.Wrap(err, "failed to resolve extractor path")
		}
		extractor = abs
	}
	workdir, err := filepath.Abs(opts.workdir)
	if err != nil {
		return errors.Wrap(err, "failed to resolve workdir")
	}
	if fi, err := os.Stat(workdir); err != nil {
		return errors.Wrap(err, "bad workdir")
	} else if !fi.IsDir() {
		return errors.Errorf("workdir %s is not a directory", workdir)
	}

	scenarios := catalogue.Default()
	if len(opts.scenarios) != 0 {
		var unknown []string
		scenarios, unknown = catalogue.Lookup(scenarios, opts.scenarios)
		if len(unknown) != 0 {
			return errors.Errorf("unknown scenarios: %v", unknown)
		}
	}

	rnd := pcg.NewStream()
	if opts.seed != 0 {
		rnd = pcg.NewSeeded(opts.seed)
	}
	log.WithField("seed", rnd.Seed()).Debug("random source")

	lowerProcessPrio()

	st := stats.New()
	codec := ustar.NewCodec()
	orc := &oracle.Oracle{
		Extractor: extractor,
		Dir:       workdir,
		Timeout:   opts.timeout,
		Stats:     st,
		Log:       log,
	}
	if opts.testOutput {
		orc.Stderr = stderr
	}
	runner := &catalogue.Runner{
		Gen:    catalogue.NewGen(codec, rnd),
		Writer: &archive.Writer{Dir: workdir, Codec: codec, Stats: st},
		Oracle: orc,
		Stats:  st,
		Log:    log,
	}

	var srv *statsServer
	if opts.http != "" {
		srv = newStatsServer()
		ln, err := net.Listen("tcp", opts.http)
		if err != nil {
			return errors.Wrap(err, "failed to listen")
		}
		hs := &http.Server{Handler: srv.handler()}
		defer hs.Close()
		go func() {
			if err := hs.Serve(ln); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("stats server stopped")
			}
		}()
		log.Infof("serving statistics on http://%s/", ln.Addr())
	}

	lastPublish := time.Now()
	publish := func() {
		snap := st.Snapshot()
		log.Info(snap.String())
		if srv != nil {
			if err := srv.publish(snap); err != nil {
				log.WithError(err).Warn("failed to publish statistics")
			}
		}
	}
	runner.Progress = func() {
		if time.Since(lastPublish) < statsInterval {
			return
		}
		lastPublish = time.Now()
		publish()
	}

	log.Info("starting sweep")
	err = runner.Run(ctx, scenarios)
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down...")
	} else if err != nil {
		return err
	}
	publish()
	st.Report(stdout)
	return nil
}

func main() {
	cmd := newCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
