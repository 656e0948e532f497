// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package pcg implements a 32 bit PRNG with a 64 bit period: pcg xsh rr 64 32.
// See https://www.pcg-random.org/ for more information.
//
// Two Rands created by NewSeeded with the same seed yield the same sequence.
package pcg

import (
	"math/bits"
	"sync/atomic"
	"time"
)

var globalInc uint64 // PCG stream

const multiplier uint64 = 6364136223846793005

// Rand is a PRNG. It is not safe for concurrent use.
type Rand struct {
	noCopy noCopy
	seed   uint64
	state  uint64
	inc    uint64
}

// New returns a Rand seeded from the clock.
func New() *Rand {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// NewSeeded returns a Rand whose output depends only on seed.
func NewSeeded(seed uint64) *Rand {
	r := &Rand{seed: seed, inc: 1}
	r.state = seed
	r.step()
	r.state += seed
	r.step()
	return r
}

// NewStream is like New but gives every call its own stream,
// so two Rands created in the same nanosecond still differ.
func NewStream() *Rand {
	r := New()
	inc := atomic.AddUint64(&globalInc, 1)
	r.inc = (inc << 1) | 1
	return r
}

// Seed returns the seed the Rand was created with.
func (r *Rand) Seed() uint64 {
	return r.seed
}

func (r *Rand) step() {
	r.state *= multiplier
	r.state += r.inc
}

// Uint32 returns a pseudo-random uint32.
func (r *Rand) Uint32() uint32 {
	x := r.state
	r.step()
	return bits.RotateLeft32(uint32(((x>>18)^x)>>27), -int(x>>59))
}

// Intn returns a pseudo-random number in [0, n).
// n must fit in a uint32.
func (r *Rand) Intn(n int) int {
	if int(uint32(n)) != n {
		panic("large Intn")
	}
	return int(r.Uint32n(uint32(n)))
}

// Uint32n returns a pseudo-random number in [0, n).
//
// For implementation details, see:
// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction
func (r *Rand) Uint32n(n uint32) uint32 {
	v := r.Uint32()
	prod := uint64(v) * uint64(n)
	low := uint32(prod)
	if low < n {
		thresh := uint32(-int32(n)) % n
		for low < thresh {
			v = r.Uint32()
			prod = uint64(v) * uint64(n)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}

// Letter returns a random lowercase ASCII letter.
func (r *Rand) Letter() byte {
	return 'a' + byte(r.Intn(26))
}

// noCopy may be embedded into structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
