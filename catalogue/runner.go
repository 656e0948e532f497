// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package catalogue

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tarcrash/tarcrash/archive"
	"github.com/tarcrash/tarcrash/oracle"
	"github.com/tarcrash/tarcrash/stats"
)

// Runner executes scenarios one case at a time. It is not safe for
// concurrent use: the codec's checksum setting and the statistics are owned
// by the goroutine calling Run.
type Runner struct {
	Gen    *Gen
	Writer *archive.Writer
	Oracle *oracle.Oracle
	Stats  *stats.Stats
	Log    logrus.Ext1FieldLogger

	// Progress, if set, is called after every case.
	Progress func()
}

// Run registers every scenario and class with the statistics, then runs the
// scenarios in order. It returns ctx.Err() if the sweep was interrupted.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) error {
	for _, c := range Classes() {
		r.Stats.RegisterClass(c.String())
	}
	for _, s := range scenarios {
		r.Stats.RegisterScenario(s.Name)
	}
	for _, s := range scenarios {
		if err := r.RunScenario(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// RunScenario runs every case of s.
func (r *Runner) RunScenario(ctx context.Context, s Scenario) error {
	log := r.Log.WithField("scenario", s.Name)
	log.Info("fuzzing")
	run := func() error {
		for c := range s.Cases(r.Gen) {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.runCase(ctx, log, s, c)
		}
		return nil
	}
	before := r.Stats.Scenario(s.Name)
	if err := r.Gen.scoped(s.Manual, run); err != nil {
		return err
	}
	log.WithField("crashes", r.Stats.Scenario(s.Name)-before).Info("done")
	return nil
}

func (r *Runner) runCase(ctx context.Context, log logrus.Ext1FieldLogger, s Scenario, c Case) {
	if r.Progress != nil {
		defer r.Progress()
	}
	log = log.WithField("case", c.Desc)
	err := r.Gen.scoped(c.Manual, func() error {
		return r.Writer.Write(c.Entries, c.Trailer)
	})
	if err != nil {
		log.WithError(err).Error("skipping case")
		return
	}
	log.Tracef("wrote %s", c.Summary())

	crashed, err := r.Oracle.Run(ctx)
	if err != nil {
		log.WithError(err).Error("extractor did not run")
		return
	}
	if crashed {
		r.Stats.Credit(s.Name, c.Class.String())
	}
}
