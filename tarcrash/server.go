// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stephens2424/writerset"

	"github.com/tarcrash/tarcrash/stats"
)

// statsServer exposes the latest published snapshot over HTTP. The sweep
// goroutine pushes snapshots; handlers never touch the live counters.
type statsServer struct {
	mu   sync.Mutex
	last stats.Snapshot

	writers  *writerset.WriterSet
	registry *prometheus.Registry
}

func newStatsServer() *statsServer {
	s := &statsServer{
		writers:  writerset.New(),
		registry: prometheus.NewRegistry(),
	}
	counter := func(name, help string, v func(stats.Snapshot) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "tarcrash",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(v(s.snapshot())) })
	}
	s.registry.MustRegister(
		counter("tries_total", "Extractor invocations.", func(s stats.Snapshot) uint64 { return s.Tries }),
		counter("crashes_total", "Confirmed crashes.", func(s stats.Snapshot) uint64 { return s.Successes }),
		counter("archives_total", "Archives written.", func(s stats.Snapshot) uint64 { return s.Archives }),
		counter("archive_bytes_total", "Bytes written across all archives.", func(s stats.Snapshot) uint64 { return s.Bytes }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "tarcrash",
			Name:      "extractor_run_median_seconds",
			Help:      "Median extractor run time.",
		}, func() float64 { return s.snapshot().MedianRun }),
		&counterCollector{
			desc: prometheus.NewDesc("tarcrash_scenario_crashes_total", "Crashes per scenario.", []string{"scenario"}, nil),
			list: func() []stats.Counter { return s.snapshot().Scenarios },
		},
		&counterCollector{
			desc: prometheus.NewDesc("tarcrash_class_crashes_total", "Crashes per corruption class.", []string{"class"}, nil),
			list: func() []stats.Counter { return s.snapshot().Classes },
		},
	)
	return s
}

func (s *statsServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/eventsource", s.eventSource)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.index)
	return mux
}

// publish replaces the served snapshot and pushes it to event stream clients.
func (s *statsServer) publish(snap stats.Snapshot) error {
	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.writers, "event: ping\ndata: %s\n\n", b)
	s.writers.Flush()
	return nil
}

func (s *statsServer) snapshot() stats.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *statsServer) eventSource(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	select {
	case <-s.writers.Add(w):
	case <-r.Context().Done():
		s.writers.Remove(w)
	}
}

func (s *statsServer) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		r.URL.Path = "/stats.html"
	}
	http.FileServer(assetFS()).ServeHTTP(w, r)
}

// counterCollector exports a labelled family of counters read from the
// latest snapshot.
type counterCollector struct {
	desc *prometheus.Desc
	list func() []stats.Counter
}

func (c *counterCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *counterCollector) Collect(ch chan<- prometheus.Metric) {
	for _, ctr := range c.list() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(ctr.Count), ctr.Name)
	}
}
