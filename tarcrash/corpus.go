// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tarcrash/tarcrash/archive"
	"github.com/tarcrash/tarcrash/catalogue"
	"github.com/tarcrash/tarcrash/internal/pcg"
	"github.com/tarcrash/tarcrash/ustar"
)

type corpusOptions struct {
	out       string
	scenarios []string
	seed      uint64
}

func newCorpusCommand() *cobra.Command {
	var opts corpusOptions
	cmd := &cobra.Command{
		Use:   "corpus --out <dir>",
		Short: "Write every generated archive to a dir without running an extractor.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			if opts.out == "" {
				return errors.New("output directory is not set")
			}
			if err := os.MkdirAll(opts.out, 0o760); err != nil {
				return errors.Wrap(err, "mkdir failed")
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
			codec := ustar.NewCodec()
			w := &archive.Writer{Dir: opts.out, Codec: codec}
			n, err := catalogue.Emit(ctx, catalogue.NewGen(codec, rnd), w, scenarios)
			cmd.Printf("wrote %d archives to %s\n", n, opts.out)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.out, "out", "", "output dir")
	flags.StringSliceVar(&opts.scenarios, "scenario", nil, "only emit the named scenarios")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for random sizes and letters, 0 uses the clock")
	return cmd
}
