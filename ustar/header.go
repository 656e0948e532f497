// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ustar

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Header is one raw header record.
type Header [BlockSize]byte

// Field returns the bytes backing f; writes go straight into the record.
func (h *Header) Field(f Field) []byte {
	return h[f.Offset : f.Offset+f.Size]
}

// Printf formats into f the way snprintf does: at most Size-1 bytes of output
// followed by a NUL. Bytes past the NUL keep their previous value.
func (h *Header) Printf(f Field, format string, args ...interface{}) {
	b := h.Field(f)
	s := fmt.Sprintf(format, args...)
	n := copy(b[:len(b)-1], s)
	b[n] = 0
}

// Fill sets every byte of f to c.
func (h *Header) Fill(f Field, c byte) {
	b := h.Field(f)
	for i := range b {
		b[i] = c
	}
}

// Copy copies s into f without a terminator, truncating to the field size.
// It returns the number of bytes copied.
func (h *Header) Copy(f Field, s string) int {
	return copy(h.Field(f), s)
}

// Clear zeroes f.
func (h *Header) Clear(f Field) {
	h.Fill(f, 0)
}

func (h *Header) SetTypeflag(c byte) {
	h[FieldTypeflag.Offset] = c
}

func (h *Header) Typeflag() byte {
	return h[FieldTypeflag.Offset]
}

// String returns the contents of f up to the first NUL.
func (h *Header) String(f Field) string {
	b := h.Field(f)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Checksum parses the stored checksum field.
func (h *Header) Checksum() (uint32, error) {
	s := string(bytes.Trim(h.Field(FieldChksum), " \x00"))
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "bad checksum field %q", h.Field(FieldChksum))
	}
	return uint32(v), nil
}

// Verify reports whether the stored checksum matches the record contents.
// h is not modified.
func (h *Header) Verify() bool {
	stored, err := h.Checksum()
	if err != nil {
		return false
	}
	return Sum(h) == stored
}

// Sum returns the ustar checksum of h without touching the checksum field:
// the unsigned byte sum with the checksum bytes counted as spaces.
func Sum(h *Header) uint32 {
	var sum uint32
	for i, c := range h {
		if i >= FieldChksum.Offset && i < FieldChksum.Offset+FieldChksum.Size {
			c = ' '
		}
		sum += uint32(c)
	}
	return sum
}

// RawSum returns the plain unsigned sum of all 512 bytes, whatever they hold.
func RawSum(h *Header) uint32 {
	var sum uint32
	for _, c := range h {
		sum += uint32(c)
	}
	return sum
}

// ComputeChecksum blanks the checksum field with spaces, sums the record and
// stores the result as six octal digits, a NUL and a space.
//
// Calling it a second time without blanking first is not a no-op from the
// caller's point of view if it inspects RawSum: the stored digits take part in
// the raw sum. ComputeChecksum itself always blanks first.
func ComputeChecksum(h *Header) uint32 {
	h.Fill(FieldChksum, ' ')
	sum := RawSum(h)
	b := h.Field(FieldChksum)
	copy(b, fmt.Sprintf("%06o", sum))
	b[6] = 0
	b[7] = ' '
	return sum
}
