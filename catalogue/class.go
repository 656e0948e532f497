// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package catalogue

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/tarcrash/tarcrash/ustar"
)

// Class is a generic corruption class applicable to any header field.
type Class int

const (
	ClassNone Class = iota
	ClassEmpty
	ClassNonASCII
	ClassNonNumeric
	ClassTooShort
	ClassNonOctal
	ClassCutInMiddle
	ClassNotTerminated
	ClassAllNUL
	ClassNULInMiddle
	ClassZeroTerminated
	ClassTrailingDigit
	ClassSpaceTerminated
	ClassSpecialChar
	ClassNegative
	classCount
)

var classNames = [classCount]string{
	ClassNone:            "",
	ClassEmpty:           "empty field",
	ClassNonASCII:        "non-ASCII field",
	ClassNonNumeric:      "non numeric field",
	ClassTooShort:        "too short field",
	ClassNonOctal:        "non octal field",
	ClassCutInMiddle:     "field cut in middle",
	ClassNotTerminated:   "field not NUL terminated",
	ClassAllNUL:          "field all NUL",
	ClassNULInMiddle:     "NUL byte in the middle",
	ClassZeroTerminated:  "zero digits, terminated",
	ClassTrailingDigit:   "NULs with trailing digit",
	ClassSpaceTerminated: "space terminated field",
	ClassSpecialChar:     "special character",
	ClassNegative:        "negative value",
}

func (c Class) String() string {
	if c < 0 || c >= classCount {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// Classes lists every generic class in the order they are applied.
func Classes() []Class {
	res := make([]Class, 0, classCount-1)
	for c := ClassEmpty; c < classCount; c++ {
		res = append(res, c)
	}
	return res
}

// SpecialChars fill a field one at a time under ClassSpecialChar.
var SpecialChars = []byte{'"', ' ', '\t', '\r', '\n', '\v', '\f', '\b'}

// skull is a three byte UTF-8 sequence; repeating it into a field whose size
// is not a multiple of three cuts the last code point.
const skull = "☠"

// mutation corrupts one field of a valid header in place.
type mutation struct {
	class Class
	desc  string
	apply func(g *Gen, h *ustar.Header, f ustar.Field)
}

func genericMutations() []mutation {
	muts := []mutation{
		{ClassEmpty, "empty", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Printf(f, "")
		}},
		{ClassNonASCII, "non-ascii", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Copy(f, strings.Repeat(skull, f.Size/len(skull)+1))
		}},
		{ClassNonNumeric, "non-numeric", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Copy(f, strings.Repeat("NaN!", f.Size/4+1))
		}},
		{ClassTooShort, "too-short", func(g *Gen, h *ustar.Header, f ustar.Field) {
			// size-2 letters, then the byte at size-2 stays zero, then NUL.
			h.Clear(f)
			b := h.Field(f)
			for i := 0; i < f.Size-2; i++ {
				b[i] = g.Rand.Letter()
			}
			b[f.Size-1] = 0
		}},
		{ClassNonOctal, "non-octal", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Fill(f, '9')
		}},
		{ClassCutInMiddle, "cut-in-middle", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Clear(f)
			fill(h.Field(f)[:f.Size/2], '1')
		}},
		{ClassNotTerminated, "not-terminated", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Fill(f, '7')
		}},
		{ClassAllNUL, "all-nul", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Clear(f)
		}},
		{ClassNULInMiddle, "nul-in-middle", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Clear(f)
			fill(h.Field(f)[f.Size/2:], '5')
		}},
		{ClassZeroTerminated, "zero-terminated", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Fill(f, '0')
			h.Field(f)[f.Size-1] = 0
		}},
		{ClassTrailingDigit, "trailing-digit", func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Clear(f)
			h.Field(f)[f.Size-1] = '1'
		}},
		{ClassSpaceTerminated, "space-terminated", func(g *Gen, h *ustar.Header, f ustar.Field) {
			b := h.Field(f)
			copy(b, bytes.ReplaceAll(b, []byte{0}, []byte{' '}))
		}},
	}
	for _, c := range SpecialChars {
		muts = append(muts, mutation{ClassSpecialChar, fmt.Sprintf("special-%q", c), func(g *Gen, h *ustar.Header, f ustar.Field) {
			h.Fill(f, c)
		}})
	}
	muts = append(muts, mutation{ClassNegative, "negative", func(g *Gen, h *ustar.Header, f ustar.Field) {
		h.Printf(f, "%d", math.MinInt32)
	}})
	return muts
}

func fill(b []byte, c byte) {
	for i := range b {
		b[i] = c
	}
}
