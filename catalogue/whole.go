// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package catalogue

import (
	"fmt"

	"github.com/tarcrash/tarcrash/archive"
	"github.com/tarcrash/tarcrash/ustar"
)

// HugeSize is the content length of the large-entry cases.
const HugeSize = 1 << 20

func pair(desc string, h1, h2 *ustar.Header, content []byte) Case {
	return Case{
		Desc:    desc,
		Entries: []archive.Entry{{Header: h1}, {Header: h2, Content: content}},
		Trailer: ustar.Trailer(ustar.TrailerSize),
	}
}

// MultiFile corrupts the second of two entries.
func MultiFile() Scenario {
	return Scenario{
		Name: "multi file",
		Cases: list(func(g *Gen) []Case {
			content := cstr("Multi-file content")

			// The second record keeps the checksum stamped by Init.
			h2 := g.Init()
			h2.Printf(ustar.FieldSize, "99999999999")
			h2.Fill(ustar.FieldName, 0xFF)
			c1 := pair("bad-size-and-name", g.Init(), h2, content)
			c1.Manual = true

			h2 = g.Init()
			h2.SetTypeflag(0x91)
			h2.Printf(ustar.FieldSize, "%o", HugeSize)
			c2 := pair("huge-second-entry", g.Init(), h2, repeat('X', HugeSize))

			// Both records need a valid checksum before the second one is broken.
			h1 := g.Init()
			ustar.ComputeChecksum(h1)
			h2 = g.Init()
			ustar.ComputeChecksum(h2)
			h2.Printf(ustar.FieldChksum, "9999999")
			h2.Fill(ustar.FieldPrefix, 0xFF)
			c3 := pair("bad-checksum-and-prefix", h1, h2, content)
			c3.Manual = true

			return []Case{c1, c2, c3}
		}),
	}
}

// HugeContent pairs a header with a large body, then claims a huge size for a
// short one.
func HugeContent() Scenario {
	return Scenario{
		Name: "huge content",
		Cases: list(func(g *Gen) []Case {
			h1 := g.Init()
			h1.Printf(ustar.FieldSize, "%o", HugeSize)

			h2 := clone(h1)
			h2.Printf(ustar.FieldSize, "77777777777")

			return []Case{
				withContent("one-mib", h1, repeat('X', HugeSize), nil),
				withContent("huge-declared-size", h2, cstr("Short"), nil),
			}
		}),
	}
}

// OverflowAll sets every header byte to 0xFF except magic and version, and
// follows it with a large 0xFF body.
func OverflowAll() Scenario {
	return Scenario{
		Name: "overflow all",
		Cases: list(func(g *Gen) []Case {
			h := new(ustar.Header)
			for i := range h {
				h[i] = 0xFF
			}
			h.Printf(ustar.FieldMagic, "ustar")
			h.Copy(ustar.FieldVersion, ustar.Version)
			h.Printf(ustar.FieldSize, "%o", HugeSize)
			c := withContent("all-0xff", h, repeat(0xFF, HugeSize), ustar.Trailer(ustar.TrailerSize))
			c.Manual = true
			return []Case{c}
		}),
	}
}

// KnownCrash replays corruptions that are known to break naive extractors.
// The first four build on each other.
func KnownCrash() Scenario {
	return Scenario{
		Name: "known crash",
		Cases: list(func(g *Gen) []Case {
			var cases []Case
			h := g.Init()
			h.Fill(ustar.FieldName, 0xFF)
			cases = append(cases, headerOnly("name-0xff", clone(h)))

			h.SetTypeflag(0x90)
			cases = append(cases, headerOnly("typeflag-0x90", clone(h)))

			h.Printf(ustar.FieldSize, "-000000001")
			cases = append(cases, withContent("negative-size", clone(h), cstr("Negative size test."), nil))

			h.Printf(ustar.FieldMtime, "77777777777")
			cases = append(cases, headerOnly("mtime-max", clone(h)))

			h = g.Init()
			ustar.ComputeChecksum(h)
			h.Printf(ustar.FieldChksum, "9999999")
			c := headerOnly("checksum-nines", clone(h))
			c.Manual = true
			cases = append(cases, c)

			h.Fill(ustar.FieldUID, '9')
			cases = append(cases, headerOnly("uid-nines", clone(h)))
			return cases
		}),
	}
}

// Combo corrupts several related fields at once.
func Combo() Scenario {
	return Scenario{
		Name: "combo",
		Cases: list(func(g *Gen) []Case {
			h1 := g.Init()
			h1.Fill(ustar.FieldName, 0xFF)
			h1.Printf(ustar.FieldSize, "99999999999")
			h1.SetTypeflag(0x90)

			h2 := g.Init()
			ustar.ComputeChecksum(h2)
			h2.Fill(ustar.FieldLinkname, 0xFF)
			h2.Fill(ustar.FieldPrefix, 0xFF)
			h2.Printf(ustar.FieldChksum, "123456")
			h2.SetTypeflag(ustar.TypeSymlink)
			c2 := headerOnly("symlink-prefix-checksum", h2)
			c2.Manual = true

			return []Case{
				headerOnly("name-size-typeflag", h1),
				c2,
			}
		}),
	}
}

func clone(h *ustar.Header) *ustar.Header {
	c := *h
	return &c
}

// Summary describes a case for logging.
func (c Case) Summary() string {
	n := len(c.Trailer)
	for _, e := range c.Entries {
		n += ustar.BlockSize + len(e.Content)
	}
	return fmt.Sprintf("%s (%d entries, %d bytes)", c.Desc, len(c.Entries), n)
}
