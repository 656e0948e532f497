// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package catalogue enumerates deterministic archive corruptions and runs
// them against an extractor.
//
// Corruption is exhaustive within a field rather than a random search: every
// class and every boundary value in the catalogue is tried exactly once per
// sweep, so two sweeps of the same extractor cover the same ground.
package catalogue

import (
	"iter"
	"slices"

	"github.com/tarcrash/tarcrash/archive"
	"github.com/tarcrash/tarcrash/internal/pcg"
	"github.com/tarcrash/tarcrash/ustar"
)

// Gen is what generators build cases with.
type Gen struct {
	Codec *ustar.Codec
	Rand  *pcg.Rand
}

func NewGen(codec *ustar.Codec, rnd *pcg.Rand) *Gen {
	return &Gen{Codec: codec, Rand: rnd}
}

// Init returns a fresh baseline header. The checksum is valid even while
// auto-update is off, so that the corruption applied afterwards is the only
// defect in the record.
func (g *Gen) Init() *ustar.Header {
	h := g.Codec.Init()
	if !g.Codec.AutoChecksum() {
		ustar.ComputeChecksum(h)
	}
	return h
}

// Case is one archive paired with one extractor run.
type Case struct {
	Desc    string
	Class   Class // ClassNone for field-specific and whole-archive cases
	Entries []archive.Entry
	Trailer []byte
	// Manual disables checksum auto-update while this case is written.
	Manual bool
}

// Generator produces the cases of a scenario. Headers are built as the
// sequence is consumed.
type Generator func(g *Gen) iter.Seq[Case]

// Extra is a named field-specific generator layered on top of the generic classes.
type Extra struct {
	Name string
	Gen  Generator
}

// Scenario is a named group of cases. Every crash found by one of its cases
// is credited to Name.
type Scenario struct {
	Name string
	// Manual disables checksum auto-update for the whole scenario.
	Manual bool
	Cases  Generator
}

// Count returns the number of cases s produces.
func (s Scenario) Count(g *Gen) int {
	n := 0
	for range s.Cases(g) {
		n++
	}
	return n
}

// FieldScenario applies every generic class to f, then each extra in order.
func FieldScenario(f ustar.Field, extras ...Extra) Scenario {
	return Scenario{
		Name:  f.Name,
		Cases: concat(Generic(f), extras...),
	}
}

// ExtrasOnly runs only the given extras for f, skipping the generic classes.
func ExtrasOnly(f ustar.Field, extras ...Extra) Scenario {
	return Scenario{
		Name:  f.Name,
		Cases: concat(nil, extras...),
	}
}

// Generic yields one case per generic mutation of f. Each case starts from a
// fresh header and carries the default zero trailer.
func Generic(f ustar.Field) Generator {
	return func(g *Gen) iter.Seq[Case] {
		return func(yield func(Case) bool) {
			for _, m := range genericMutations() {
				h := g.Init()
				m.apply(g, h, f)
				c := headerOnly(m.desc, h)
				c.Class = m.class
				if !yield(c) {
					return
				}
			}
		}
	}
}

func concat(first Generator, extras ...Extra) Generator {
	return func(g *Gen) iter.Seq[Case] {
		return func(yield func(Case) bool) {
			if first != nil {
				for c := range first(g) {
					if !yield(c) {
						return
					}
				}
			}
			for _, e := range extras {
				for c := range e.Gen(g) {
					c.Desc = e.Name + "/" + c.Desc
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

// list adapts a function building a fixed set of cases into a Generator.
func list(build func(g *Gen) []Case) Generator {
	return func(g *Gen) iter.Seq[Case] {
		return slices.Values(build(g))
	}
}

// headerOnly is a single header with the standard two-block zero trailer.
func headerOnly(desc string, h *ustar.Header) Case {
	return Case{
		Desc:    desc,
		Entries: []archive.Entry{{Header: h}},
		Trailer: ustar.Trailer(ustar.TrailerSize),
	}
}

// withContent is a single header followed by content and the given trailer.
func withContent(desc string, h *ustar.Header, content, trailer []byte) Case {
	return Case{
		Desc:    desc,
		Entries: []archive.Entry{{Header: h, Content: content}},
		Trailer: trailer,
	}
}

// cstr returns s followed by a NUL byte.
func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func repeat(c byte, n int) []byte {
	b := make([]byte, n)
	fill(b, c)
	return b
}

// scoped runs fn with checksum auto-update disabled if manual is set.
func (g *Gen) scoped(manual bool, fn func() error) error {
	if manual {
		return g.Codec.WithManualChecksum(fn)
	}
	return fn()
}
