// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package catalogue

import (
	"fmt"
	"iter"
	"math"

	"github.com/tarcrash/tarcrash/archive"
	"github.com/tarcrash/tarcrash/ustar"
)

// Boundary timestamps that do not depend on the clock.
const (
	maxOctalTime = 0o77777777777 // largest value 11 octal digits hold
)

var (
	// ModeBitsExtra tries every permission and set-bit constant on its own.
	ModeBitsExtra = Extra{"bits", func(g *Gen) iter.Seq[Case] {
		return func(yield func(Case) bool) {
			for _, bit := range ustar.ModeBits {
				h := g.Init()
				h.Printf(ustar.FieldMode, "%07o", bit)
				if !yield(headerOnly(fmt.Sprintf("%04o", bit), h)) {
					return
				}
			}
		}
	}}

	// SizeExtra declares random sizes below one block against a fixed short
	// content, then math.MinInt32 in decimal.
	SizeExtra = Extra{"random", list(func(g *Gen) []Case {
		const tries = 10
		content := cstr("This is a test file content.")
		sizes := make([]int, tries)
		for i := range sizes {
			sizes[i] = g.Rand.Intn(ustar.BlockSize)
		}
		var cases []Case
		for _, size := range sizes {
			h := g.Init()
			h.Printf(ustar.FieldSize, "%o", size)
			cases = append(cases, withContent(fmt.Sprintf("%o", size), h, content, ustar.Trailer(ustar.BlockSize)))
		}
		h := g.Init()
		h.Printf(ustar.FieldSize, "%d", math.MinInt32)
		cases = append(cases, withContent("int-min", h, content, ustar.Trailer(ustar.BlockSize)))
		return cases
	})}

	// MtimeExtra tries extreme and boundary timestamps rendered in octal.
	MtimeExtra = Extra{"boundary", list(func(g *Gen) []Case {
		now := g.Codec.Time()
		values := []struct {
			desc string
			v    int64
		}{
			{"int-min", math.MinInt32},
			{"minus-one", -1},
			{"one", 1},
			{"year-ago", now.AddDate(-1, 0, 0).Unix()},
			{"now", now.Unix()},
			{"in-30-days", now.AddDate(0, 0, 30).Unix()},
			{"now-plus-int-max", now.Unix() + math.MaxInt32},
			{"max", maxOctalTime},
		}
		var cases []Case
		for _, v := range values {
			h := g.Init()
			h.Printf(ustar.FieldMtime, "%011o", v.v)
			cases = append(cases, headerOnly(v.desc, h))
		}
		return cases
	})}

	// ZeroChecksumExtra stores an all-zero checksum over a header with real
	// content. Must run with auto-update off.
	ZeroChecksumExtra = Extra{"zero", list(func(g *Gen) []Case {
		content := cstr("Z")
		h := g.Init()
		h.Printf(ustar.FieldSize, "%011o", len(content))
		h.Copy(ustar.FieldChksum, "000000\x00 ")
		return []Case{withContent("all-zero", h, content, ustar.Trailer(ustar.TrailerSize))}
	})}

	// TypeflagExtra tries every byte value, then -1 and the lead byte of a
	// multi-byte code point.
	TypeflagExtra = Extra{"all", func(g *Gen) iter.Seq[Case] {
		return func(yield func(Case) bool) {
			for i := 0; i < 256; i++ {
				h := g.Init()
				h.SetTypeflag(byte(i))
				if !yield(headerOnly(fmt.Sprintf("%#02x", i), h)) {
					return
				}
			}
			minusOne := int8(-1)
			h := g.Init()
			h.SetTypeflag(byte(minusOne))
			if !yield(headerOnly("minus-one", h)) {
				return
			}
			h = g.Init()
			h.SetTypeflag(skull[0])
			yield(headerOnly("non-ascii", h))
		}
	}}

	// VersionExtra tries every two digit octal version.
	VersionExtra = Extra{"octal", func(g *Gen) iter.Seq[Case] {
		return func(yield func(Case) bool) {
			for i := 0; i < 8; i++ {
				for j := 0; j < 8; j++ {
					h := g.Init()
					v := fmt.Sprintf("%d%d", i, j)
					h.Copy(ustar.FieldVersion, v)
					if !yield(headerOnly(v, h)) {
						return
					}
				}
			}
		}
	}}
)

// TrailerSizes are the end-of-archive lengths tried by EndOfFile.
var TrailerSizes = []int{
	0,
	1,
	ustar.TrailerSize / 4,
	ustar.TrailerSize / 2,
	ustar.TrailerSize - 1,
	ustar.TrailerSize,
	ustar.TrailerSize + 1,
	ustar.TrailerSize * 2,
	ustar.TrailerSize * 4,
}

// EndOfFile varies the trailer length, once after a bare header and once
// after an entry with content.
func EndOfFile() Scenario {
	return Scenario{
		Name: "end of file",
		Cases: func(g *Gen) iter.Seq[Case] {
			return func(yield func(Case) bool) {
				content := cstr("End of file test data.")
				for _, n := range TrailerSizes {
					h := g.Init()
					if !yield(withContent(fmt.Sprintf("empty-%d", n), h, nil, ustar.Trailer(n))) {
						return
					}
					h = g.Init()
					h.Printf(ustar.FieldSize, "%o", len(content))
					if !yield(withContent(fmt.Sprintf("content-%d", n), h, content, ustar.Trailer(n))) {
						return
					}
				}
			}
		},
	}
}

// The extras below are hand-picked corruptions that combine a field with
// content or a related field.

var nameExtra = Extra{"known", list(func(g *Gen) []Case {
	content := cstr("X")

	h1 := g.Init()
	h1.Fill(ustar.FieldName, 0xFF)
	h1.Fill(ustar.FieldPrefix, 0xFF)
	h1.SetTypeflag(0x92)

	h2 := g.Init()
	h2.Fill(ustar.FieldName, 'A')
	name := h2.Field(ustar.FieldName)
	name[0] = 0x01
	name[len(name)-1] = 0xFF
	h2.Printf(ustar.FieldSize, "00000000001")

	h3 := g.Init()
	h3.Copy(ustar.FieldName, "\x01\xFFinvalid\x00path\x00")
	h3.Printf(ustar.FieldSize, "77777777777")

	return []Case{
		headerOnly("overflow-with-prefix", h1),
		withContent("junk-unterminated", h2, content, nil),
		withContent("embedded-nul-huge-size", h3, content, nil),
	}
})}

func idExtra(f ustar.Field, letters string) Extra {
	return Extra{"known", list(func(g *Gen) []Case {
		h1 := g.Init()
		h1.Fill(f, '9')
		h2 := g.Init()
		h2.Printf(f, "-000001")
		h3 := g.Init()
		h3.Printf(f, "%s", letters)
		return []Case{
			headerOnly("nines", h1),
			headerOnly("minus-one", h2),
			headerOnly("letters", h3),
		}
	})}
}

var mtimeKnownExtra = Extra{"known", list(func(g *Gen) []Case {
	h1 := g.Init()
	h1.Printf(ustar.FieldMtime, "99999999999")

	h2 := g.Init()
	h2.Printf(ustar.FieldMtime, "FFFFFFF")
	second := g.Init()

	content := cstr("Y")
	h3 := g.Init()
	h3.Printf(ustar.FieldMtime, "-ABCDEF")
	h3.Printf(ustar.FieldSize, "00000000001")

	return []Case{
		headerOnly("nines", h1),
		{
			Desc:    "non-octal-two-entries",
			Entries: []archive.Entry{{Header: h2}, {Header: second}},
			Trailer: ustar.Trailer(ustar.TrailerSize),
		},
		withContent("negative-letters", h3, content, nil),
	}
})}

var checksumKnownExtra = Extra{"known", list(func(g *Gen) []Case {
	content := cstr("Z")

	h1 := g.Init()
	h1.Field(ustar.FieldChksum)[0] = '1'

	h2 := g.Init()
	h2.Printf(ustar.FieldChksum, "7777777")
	h2.Printf(ustar.FieldSize, "00000000001")

	h3 := g.Init()
	h3.Printf(ustar.FieldChksum, "XYZ123")
	h3.Printf(ustar.FieldSize, "00000000001")

	return []Case{
		headerOnly("first-digit", h1),
		withContent("sevens", h2, content, nil),
		withContent("letters", h3, content, nil),
	}
})}

var linknameExtra = Extra{"symlink", list(func(g *Gen) []Case {
	h1 := g.Init()
	h1.Fill(ustar.FieldLinkname, 0xFF)
	h1.SetTypeflag(ustar.TypeSymlink)

	h2 := g.Init()
	h2.Fill(ustar.FieldLinkname, 'L')
	h2.SetTypeflag(ustar.TypeSymlink)

	h3 := g.Init()
	h3.Printf(ustar.FieldLinkname, "/invalid/path")
	h3.SetTypeflag(ustar.TypeSymlink)

	return []Case{
		headerOnly("overflow", h1),
		headerOnly("unterminated", h2),
		withContent("absolute-with-content", h3, cstr("Link content"), nil),
	}
})}

var magicExtra = Extra{"known", list(func(g *Gen) []Case {
	content := cstr("M")

	h1 := g.Init()
	h1.Printf(ustar.FieldMagic, "BADMA")

	h2 := g.Init()
	h2.Fill(ustar.FieldMagic, 0xFF)
	h2.Printf(ustar.FieldSize, "00000000001")

	h3 := g.Init()
	h3.Printf(ustar.FieldMagic, "ust")
	h3.Printf(ustar.FieldSize, "77777777777")

	return []Case{
		headerOnly("bad", h1),
		withContent("overflow", h2, content, nil),
		withContent("short-huge-size", h3, content, nil),
	}
})}

var unameExtra = Extra{"known", list(func(g *Gen) []Case {
	h1 := g.Init()
	h1.Fill(ustar.FieldUname, 0xFF)
	h2 := g.Init()
	h2.Fill(ustar.FieldUname, 'U')
	h3 := g.Init()
	h3.Copy(ustar.FieldUname, "\x00user\xFFjunk\x00")
	return []Case{
		headerOnly("overflow", h1),
		headerOnly("unterminated", h2),
		headerOnly("leading-nul", h3),
	}
})}

var prefixExtra = Extra{"known", list(func(g *Gen) []Case {
	h1 := g.Init()
	h1.Fill(ustar.FieldPrefix, 0xFF)
	h2 := g.Init()
	h2.Fill(ustar.FieldPrefix, 'P')
	return []Case{
		headerOnly("overflow", h1),
		headerOnly("unterminated", h2),
	}
})}

var paddingExtra = Extra{"known", list(func(g *Gen) []Case {
	h1 := g.Init()
	h1.Fill(ustar.FieldPadding, 0xFF)
	h2 := g.Init()
	return []Case{
		headerOnly("overflow", h1),
		withContent("oversized-footer", h2, nil, repeat(0xAA, ustar.TrailerSize*2)),
	}
})}

var modeKnownExtra = Extra{"known", list(func(g *Gen) []Case {
	h1 := g.Init()
	h1.Printf(ustar.FieldMode, "07777")
	h2 := g.Init()
	h2.Printf(ustar.FieldMode, "ABCDEF")
	h3 := g.Init()
	h3.Fill(ustar.FieldMode, '9')
	return []Case{
		headerOnly("all-bits", h1),
		headerOnly("letters", h2),
		headerOnly("nines", h3),
	}
})}
