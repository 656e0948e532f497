// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package stats accumulates counters for one sweep.
//
// A Stats value is owned by the goroutine running the sweep; other goroutines
// only ever see Snapshots.
package stats

import (
	"fmt"
	"io"
	"time"

	units "github.com/docker/go-units"
	mstats "github.com/montanaflynn/stats"
)

// Stats holds run-wide counters.
type Stats struct {
	Tries     uint64 // extractor invocations
	Successes uint64 // confirmed crashes
	Archives  uint64 // archives written
	Bytes     uint64 // bytes written across all archives

	start     time.Time
	classes   counterSet
	scenarios counterSet
	durations []float64 // extractor run times, seconds
}

type counterSet struct {
	order []string
	m     map[string]uint64
}

func (s *counterSet) register(name string) {
	if s.m == nil {
		s.m = make(map[string]uint64)
	}
	if _, ok := s.m[name]; ok {
		return
	}
	s.order = append(s.order, name)
	s.m[name] = 0
}

func (s *counterSet) inc(name string) {
	s.register(name)
	s.m[name]++
}

func (s *counterSet) get(name string) uint64 {
	return s.m[name]
}

func (s *counterSet) list() []Counter {
	res := make([]Counter, 0, len(s.order))
	for _, name := range s.order {
		res = append(res, Counter{name, s.m[name]})
	}
	return res
}

// Counter is a named crash count.
type Counter struct {
	Name  string
	Count uint64
}

func New() *Stats {
	return &Stats{start: time.Now()}
}

// RegisterClass makes a corruption class show up in reports even with zero crashes.
func (s *Stats) RegisterClass(name string) {
	s.classes.register(name)
}

// RegisterScenario makes a scenario show up in reports even with zero crashes.
func (s *Stats) RegisterScenario(name string) {
	s.scenarios.register(name)
}

// Try counts one extractor invocation.
func (s *Stats) Try() {
	s.Tries++
}

// Success counts a confirmed crash and returns its 1-based sequence number.
func (s *Stats) Success() uint64 {
	s.Successes++
	return s.Successes
}

// ArchiveCreated counts one archive of n bytes.
func (s *Stats) ArchiveCreated(n int) {
	s.Archives++
	s.Bytes += uint64(n)
}

// Observe records how long one extractor run took.
func (s *Stats) Observe(d time.Duration) {
	s.durations = append(s.durations, d.Seconds())
}

// Credit attributes a confirmed crash to a scenario and, if class is not
// empty, to a corruption class.
func (s *Stats) Credit(scenario, class string) {
	s.scenarios.inc(scenario)
	if class != "" {
		s.classes.inc(class)
	}
}

func (s *Stats) Scenario(name string) uint64 {
	return s.scenarios.get(name)
}

func (s *Stats) Class(name string) uint64 {
	return s.classes.get(name)
}

func (s *Stats) Scenarios() []Counter {
	return s.scenarios.list()
}

func (s *Stats) Classes() []Counter {
	return s.classes.list()
}

// Snapshot is an immutable copy of Stats that can be handed to other goroutines.
type Snapshot struct {
	Tries, Successes, Archives, Bytes uint64
	Classes                           []Counter
	Scenarios                         []Counter
	StartTime                         time.Time
	Uptime                            string
	MedianRun                         float64
	P95Run                            float64
}

func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Tries:     s.Tries,
		Successes: s.Successes,
		Archives:  s.Archives,
		Bytes:     s.Bytes,
		Classes:   s.Classes(),
		Scenarios: s.Scenarios(),
		StartTime: s.start,
		Uptime:    fmtDuration(time.Since(s.start)),
	}
	if len(s.durations) != 0 {
		snap.MedianRun, _ = mstats.Median(s.durations)
		snap.P95Run, _ = mstats.Percentile(s.durations, 95)
	}
	return snap
}

func (s Snapshot) String() string {
	return fmt.Sprintf("tries: %v, crashers: %v, archives: %v (%v), run: %.3fs median, uptime: %v",
		s.Tries, s.Successes, s.Archives, units.HumanSize(float64(s.Bytes)), s.MedianRun, s.Uptime)
}

// Report writes the end-of-run summary.
func (s *Stats) Report(w io.Writer) {
	snap := s.Snapshot()
	fmt.Fprintf(w, "\n\nTest Status Report\n")
	fmt.Fprintf(w, "Total tries: %d\n", snap.Tries)
	fmt.Fprintf(w, "Total successes: %d\n", snap.Successes)
	fmt.Fprintf(w, "Tars created: %d (%s)\n", snap.Archives, units.HumanSize(float64(snap.Bytes)))
	fmt.Fprintf(w, "Elapsed: %s\n", units.HumanDuration(time.Since(s.start)))
	if len(s.durations) != 0 {
		fmt.Fprintf(w, "Extractor run time: median %.3fs, p95 %.3fs\n", snap.MedianRun, snap.P95Run)
	}
	fmt.Fprintf(w, "\nSuccess with:\n")
	for _, c := range snap.Classes {
		fmt.Fprintf(w, "\t%-28s: %d\n", c.Name, c.Count)
	}
	fmt.Fprintf(w, "\nSuccess on:\n")
	for _, c := range snap.Scenarios {
		fmt.Fprintf(w, "\t%-28s: %d\n", c.Name, c.Count)
	}
}

func fmtDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%vh%vm", int(d.Hours()), int(d.Minutes())%60)
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%vm%vs", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		return fmt.Sprintf("%vs", int(d.Seconds()))
	}
}
