// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ustar

import (
	"time"
)

// Codec creates baseline headers and serializes them.
//
// Checksum auto-update is on by default: Init and Serialize stamp a correct
// checksum. WithManualChecksum turns it off for the duration of a callback so
// that a deliberately broken checksum survives serialization.
// A Codec is not safe for concurrent use.
type Codec struct {
	// Now is the clock used for mtime. Defaults to time.Now.
	Now func() time.Time

	manual bool
}

func NewCodec() *Codec {
	return &Codec{Now: time.Now}
}

// AutoChecksum reports whether checksums are recomputed on Init and Serialize.
func (c *Codec) AutoChecksum() bool {
	return !c.manual
}

// WithManualChecksum runs fn with checksum auto-update disabled. The previous
// setting is restored when fn returns, fails or panics.
func (c *Codec) WithManualChecksum(fn func() error) error {
	prev := c.manual
	c.manual = true
	defer func() { c.manual = prev }()
	return fn()
}

// Time returns the codec's current time.
func (c *Codec) Time() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Init returns a fresh, self-consistent header for a small regular file.
func (c *Codec) Init() *Header {
	h := new(Header)
	h.Printf(FieldName, "testfile")
	h.Printf(FieldMode, "0644")
	h.Printf(FieldUID, "01000")
	h.Printf(FieldGID, "01000")
	h.Printf(FieldSize, "%011o", 0)
	h.Printf(FieldMtime, "%011o", c.Time().Unix())
	h.SetTypeflag(TypeReg)
	h.Copy(FieldMagic, Magic)
	h.Copy(FieldVersion, Version)
	h.Printf(FieldUname, "user")
	h.Printf(FieldGname, "group")
	if !c.manual {
		ComputeChecksum(h)
	}
	return h
}

// Finalize recomputes the checksum of h unless auto-update is disabled.
func (c *Codec) Finalize(h *Header) {
	if !c.manual {
		ComputeChecksum(h)
	}
}

// AppendEntry finalizes h and appends the record followed by content to dst.
// Content is not padded to a block boundary.
func (c *Codec) AppendEntry(dst []byte, h *Header, content []byte) []byte {
	c.Finalize(h)
	dst = append(dst, h[:]...)
	return append(dst, content...)
}

// Serialize returns header, content and trailer back to back.
func (c *Codec) Serialize(h *Header, content, trailer []byte) []byte {
	buf := make([]byte, 0, BlockSize+len(content)+len(trailer))
	buf = c.AppendEntry(buf, h, content)
	return append(buf, trailer...)
}

// Trailer returns n zero bytes.
func Trailer(n int) []byte {
	return make([]byte, n)
}
