// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package catalogue

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/tarcrash/tarcrash/internal/pcg"
	"github.com/tarcrash/tarcrash/ustar"
)

func testGen() *Gen {
	codec := &ustar.Codec{Now: func() time.Time { return time.Unix(1700000000, 0) }}
	return NewGen(codec, pcg.NewSeeded(1))
}

func collect(g *Gen, s Scenario) []Case {
	var cases []Case
	for c := range s.Cases(g) {
		cases = append(cases, c)
	}
	return cases
}

func TestGenericClasses(t *testing.T) {
	g := testGen()
	cases := collect(g, Scenario{Cases: Generic(ustar.FieldUID)})
	assert.Equal(t, len(cases), len(Classes())-1+len(SpecialChars))

	counts := make(map[Class]int)
	for _, c := range cases {
		counts[c.Class]++
		assert.Equal(t, len(c.Entries), 1)
		assert.Equal(t, len(c.Trailer), ustar.TrailerSize)
	}
	for _, c := range Classes() {
		want := 1
		if c == ClassSpecialChar {
			want = len(SpecialChars)
		}
		assert.Equal(t, counts[c], want, "class %v", c)
	}
	assert.Equal(t, counts[ClassNone], 0)
}

func TestGenericMutationLayout(t *testing.T) {
	g := testGen()
	f := ustar.FieldUID
	got := make(map[string]string)
	for c := range Generic(f)(g) {
		got[c.Desc] = string(c.Entries[0].Header.Field(f))
	}
	want := map[string]string{
		"empty":            "\x00" + "1000\x00\x00\x00",
		"non-ascii":        strings.Repeat(skull, 3)[:8],
		"non-numeric":      "NaN!NaN!",
		"non-octal":        "99999999",
		"cut-in-middle":    "1111\x00\x00\x00\x00",
		"not-terminated":   "77777777",
		"all-nul":          "\x00\x00\x00\x00\x00\x00\x00\x00",
		"nul-in-middle":    "\x00\x00\x00\x005555",
		"zero-terminated":  "0000000\x00",
		"trailing-digit":   "\x00\x00\x00\x00\x00\x00\x001",
		"space-terminated": "01000   ",
		"negative":         "-214748\x00",
		`special-'\t'`:     "\t\t\t\t\t\t\t\t",
	}
	for desc, w := range want {
		assert.Check(t, is.Equal(got[desc], w), "mutation %s", desc)
	}

	short := got["too-short"]
	for i := 0; i < f.Size-2; i++ {
		assert.Check(t, short[i] >= 'a' && short[i] <= 'z', "byte %d of too-short is %q", i, short[i])
	}
	assert.Equal(t, short[f.Size-2:], "\x00\x00")
}

func TestGenericFreshHeaders(t *testing.T) {
	g := testGen()
	for c := range Generic(ustar.FieldName)(g) {
		h := c.Entries[0].Header
		assert.Equal(t, h.String(ustar.FieldUname), "user", c.Desc)
		assert.Equal(t, h.String(ustar.FieldMode), "0644", c.Desc)
	}
}

func TestTypeflagExhaustive(t *testing.T) {
	g := testGen()
	s := ExtrasOnly(ustar.FieldTypeflag, TypeflagExtra)
	cases := collect(g, s)
	assert.Equal(t, len(cases), 258)

	seen := make(map[byte]int)
	for _, c := range cases {
		assert.Equal(t, c.Class, ClassNone)
		seen[c.Entries[0].Header.Typeflag()]++
	}
	assert.Equal(t, len(seen), 256)
	assert.Equal(t, seen[0xFF], 2)
	assert.Equal(t, seen[0xE2], 2)
	assert.Equal(t, cases[256].Entries[0].Header.Typeflag(), byte(0xFF))
	assert.Equal(t, cases[257].Entries[0].Header.Typeflag(), byte(0xE2))
}

func TestVersionCombinations(t *testing.T) {
	g := testGen()
	var got []string
	for c := range VersionExtra.Gen(g) {
		got = append(got, string(c.Entries[0].Header.Field(ustar.FieldVersion)))
	}
	assert.Equal(t, len(got), 64)
	assert.Equal(t, got[0], "00")
	assert.Equal(t, got[9], "11")
	assert.Equal(t, got[63], "77")
}

func TestEndOfFile(t *testing.T) {
	g := testGen()
	cases := collect(g, EndOfFile())
	assert.Equal(t, len(cases), 2*len(TrailerSizes))
	for i, c := range cases {
		assert.Equal(t, len(c.Trailer), TrailerSizes[i/2])
		e := c.Entries[0]
		if i%2 == 0 {
			assert.Equal(t, len(e.Content), 0)
			continue
		}
		assert.Equal(t, string(e.Content), "End of file test data.\x00")
		assert.Equal(t, e.Header.String(ustar.FieldSize), "27")
	}
}

func TestSizeExtra(t *testing.T) {
	g := testGen()
	cases := collect(g, Scenario{Cases: SizeExtra.Gen})
	assert.Equal(t, len(cases), 11)
	for _, c := range cases {
		assert.Equal(t, string(c.Entries[0].Content), "This is a test file content.\x00")
		assert.Equal(t, len(c.Trailer), ustar.BlockSize)
	}
	assert.Equal(t, cases[10].Entries[0].Header.String(ustar.FieldSize), "-2147483648")
}

func TestMtimeExtra(t *testing.T) {
	g := testGen()
	var got []string
	for c := range MtimeExtra.Gen(g) {
		got = append(got, c.Entries[0].Header.String(ustar.FieldMtime))
	}
	assert.Equal(t, len(got), 8)
	assert.Equal(t, got[2], "00000000001")
	assert.Equal(t, got[4], "14524770400")
	assert.Equal(t, got[7], "77777777777")
}

func TestScenarioNames(t *testing.T) {
	var names []string
	for _, s := range Default() {
		names = append(names, s.Name)
	}
	want := []string{
		"name", "mode", "uid", "gid", "size", "mtime", "checksum", "typeflag",
		"linkname", "magic", "version", "uname", "gname", "devmajor", "devminor",
		"end of file", "known crash", "multi file", "huge content", "prefix",
		"padding", "combo", "overflow all",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("scenario order mismatch (-want +got):\n%s", diff)
	}
}

func TestOnlyChecksumScenarioIsManual(t *testing.T) {
	for _, s := range Default() {
		assert.Equal(t, s.Manual, s.Name == "checksum", s.Name)
	}
}

func TestLookup(t *testing.T) {
	found, unknown := Lookup(Default(), []string{"combo", "bogus", "name"})
	assert.Equal(t, len(found), 2)
	assert.Equal(t, found[0].Name, "name")
	assert.Equal(t, found[1].Name, "combo")
	assert.DeepEqual(t, unknown, []string{"bogus"})
}

func TestInitValidUnderManualChecksum(t *testing.T) {
	g := testGen()
	err := g.Codec.WithManualChecksum(func() error {
		assert.Check(t, g.Init().Verify())
		return nil
	})
	assert.NilError(t, err)
}

func TestKnownCrashCumulative(t *testing.T) {
	g := testGen()
	cases := collect(g, KnownCrash())
	assert.Equal(t, len(cases), 6)

	mtime := cases[3].Entries[0].Header
	assert.Equal(t, mtime.Typeflag(), byte(0x90))
	assert.Equal(t, mtime.String(ustar.FieldSize), "-000000001")
	assert.Equal(t, mtime.Field(ustar.FieldName)[0], byte(0xFF))

	// Earlier cases are not affected by later corruptions.
	assert.Equal(t, cases[0].Entries[0].Header.Typeflag(), byte(ustar.TypeReg))

	assert.Check(t, cases[4].Manual)
	assert.Check(t, !cases[5].Manual)
}

func TestMultiFileEntries(t *testing.T) {
	g := testGen()
	cases := collect(g, MultiFile())
	assert.Equal(t, len(cases), 3)
	for _, c := range cases {
		assert.Equal(t, len(c.Entries), 2)
		assert.Equal(t, len(c.Entries[0].Content), 0)
	}
	assert.Equal(t, len(cases[1].Entries[1].Content), HugeSize)
	assert.Equal(t, cases[1].Entries[1].Header.Typeflag(), byte(0x91))
	assert.Check(t, cases[0].Manual)
	assert.Check(t, cases[0].Entries[0].Header.Verify())
	assert.Check(t, !cases[0].Entries[1].Header.Verify())
	assert.Check(t, !cases[1].Manual)
	assert.Check(t, cases[2].Manual)
}

func TestOverflowAll(t *testing.T) {
	g := testGen()
	cases := collect(g, OverflowAll())
	assert.Equal(t, len(cases), 1)
	h := cases[0].Entries[0].Header
	assert.Equal(t, string(h.Field(ustar.FieldMagic)), "ustar\x00")
	assert.Equal(t, string(h.Field(ustar.FieldVersion)), "00")
	assert.Equal(t, string(h.Field(ustar.FieldSize)), "4000000\x00\xff\xff\xff\xff")
	assert.Equal(t, h.Field(ustar.FieldName)[0], byte(0xFF))
	assert.Equal(t, h.Field(ustar.FieldPadding)[11], byte(0xFF))
	assert.Check(t, cases[0].Manual)
}

func TestCaseSummary(t *testing.T) {
	g := testGen()
	c := headerOnly("x", g.Init())
	assert.Equal(t, c.Summary(), "x (1 entries, 1536 bytes)")
}
