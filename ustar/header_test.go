// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ustar

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"pgregory.net/rapid"
)

func fixedCodec() *Codec {
	return &Codec{Now: func() time.Time { return time.Unix(1700000000, 0) }}
}

func TestFieldLayout(t *testing.T) {
	off := 0
	for _, f := range Fields {
		if f.Offset != off {
			t.Fatalf("field %v at offset %d, want %d", f, f.Offset, off)
		}
		off += f.Size
	}
	if off != BlockSize {
		t.Fatalf("fields cover %d bytes, want %d", off, BlockSize)
	}
	assert.Equal(t, FieldChksum.Offset, 148)
	assert.Equal(t, FieldTypeflag.Offset, 156)
	assert.Equal(t, FieldMagic.Offset, 257)
	assert.Equal(t, FieldPrefix.Offset, 345)
}

func TestInitHeader(t *testing.T) {
	h := fixedCodec().Init()

	assert.Equal(t, h.String(FieldName), "testfile")
	assert.Equal(t, h.String(FieldMode), "0644")
	assert.Equal(t, h.String(FieldUID), "01000")
	assert.Equal(t, h.String(FieldSize), "00000000000")
	assert.Equal(t, h.String(FieldMtime), "14524770400")
	assert.Equal(t, h.Typeflag(), byte(TypeReg))
	assert.Equal(t, string(h.Field(FieldMagic)), "ustar\x00")
	assert.Equal(t, string(h.Field(FieldVersion)), "00")
	assert.Equal(t, h.String(FieldUname), "user")
	assert.Equal(t, h.String(FieldGname), "group")
	assert.Check(t, h.Verify())
}

func TestInitHeaderReadable(t *testing.T) {
	c := fixedCodec()
	data := c.Serialize(c.Init(), nil, Trailer(TrailerSize))
	tr := tar.NewReader(bytes.NewReader(data))
	hdr, err := tr.Next()
	assert.NilError(t, err)
	assert.Equal(t, hdr.Name, "testfile")
	assert.Equal(t, hdr.Mode, int64(0644))
	assert.Equal(t, hdr.Uid, 01000)
	assert.Equal(t, hdr.Size, int64(0))
	_, err = tr.Next()
	assert.Equal(t, err, io.EOF)
}

func TestComputeChecksumFormat(t *testing.T) {
	h := new(Header)
	sum := ComputeChecksum(h)
	// 8 spaces and nothing else.
	assert.Equal(t, sum, uint32(8*' '))
	assert.Equal(t, string(h.Field(FieldChksum)), "000400\x00 ")
}

func TestComputeChecksumProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), BlockSize, BlockSize).Draw(t, "record")
		var h Header
		copy(h[:], raw)
		h.Fill(FieldChksum, ' ')

		var want uint32
		for _, c := range h {
			want += uint32(c)
		}
		got := ComputeChecksum(&h)
		if got != want {
			t.Fatalf("ComputeChecksum = %d, want %d", got, want)
		}
		if !h.Verify() {
			t.Fatalf("stored checksum %q does not verify", h.Field(FieldChksum))
		}
		// The stored digits replace the spaces, so the raw sum moves.
		if RawSum(&h) == got {
			t.Fatalf("raw sum after stamping equals checksum %d", got)
		}
	})
}

func TestComputeChecksumIgnoresStoredValue(t *testing.T) {
	h := fixedCodec().Init()
	first := ComputeChecksum(h)
	h.Printf(FieldChksum, "7777777")
	assert.Equal(t, ComputeChecksum(h), first)
}

func TestPrintfSemantics(t *testing.T) {
	var h Header
	h.Fill(FieldUID, 'x')
	h.Printf(FieldUID, "12")
	assert.Equal(t, string(h.Field(FieldUID)), "12\x00xxxxx")

	h.Printf(FieldUID, "%d", -2147483648)
	assert.Equal(t, string(h.Field(FieldUID)), "-214748\x00")

	h.Printf(FieldTypeflag, "abc")
	assert.Equal(t, h.Typeflag(), byte(0))
}

func TestCopyDoesNotTerminate(t *testing.T) {
	var h Header
	n := h.Copy(FieldVersion, "777")
	assert.Equal(t, n, 2)
	assert.Equal(t, string(h.Field(FieldVersion)), "77")
	assert.Equal(t, h[FieldUname.Offset], byte(0))
}

func TestSerialize(t *testing.T) {
	c := fixedCodec()
	h := c.Init()
	raw := *h
	content := []byte("hello")
	trailer := Trailer(300)

	data := c.Serialize(h, content, trailer)
	assert.Equal(t, len(data), BlockSize+len(content)+len(trailer))
	assert.Check(t, is.DeepEqual(data[:BlockSize], raw[:]))
	assert.Check(t, is.DeepEqual(data[BlockSize:BlockSize+len(content)], content))
}

func TestEndToEndLayout(t *testing.T) {
	c := fixedCodec()
	h := c.Init()
	data := c.Serialize(h, nil, Trailer(TrailerSize))
	assert.Equal(t, len(data), 1536)

	var rec Header
	copy(rec[:], data[:BlockSize])
	stored, err := rec.Checksum()
	assert.NilError(t, err)
	rec.Fill(FieldChksum, ' ')
	assert.Equal(t, RawSum(&rec), stored)
}

func TestSerializeRecomputesChecksum(t *testing.T) {
	c := fixedCodec()
	h := c.Init()
	h.Printf(FieldSize, "%o", 12345)
	assert.Check(t, !h.Verify())
	c.Serialize(h, nil, nil)
	assert.Check(t, h.Verify())
}

func TestWithManualChecksum(t *testing.T) {
	c := fixedCodec()
	var inner *Header
	err := c.WithManualChecksum(func() error {
		assert.Check(t, !c.AutoChecksum())
		inner = c.Init()
		inner.Printf(FieldChksum, "123456")
		c.Serialize(inner, nil, nil)
		return nil
	})
	assert.NilError(t, err)
	assert.Check(t, c.AutoChecksum())
	assert.Equal(t, inner.String(FieldChksum), "123456")
}

func TestWithManualChecksumRestoresOnError(t *testing.T) {
	c := NewCodec()
	boom := errors.New("boom")
	err := c.WithManualChecksum(func() error { return boom })
	assert.Equal(t, err, boom)
	assert.Check(t, c.AutoChecksum())
}

func TestWithManualChecksumRestoresOnPanic(t *testing.T) {
	c := NewCodec()
	func() {
		defer func() { recover() }()
		c.WithManualChecksum(func() error { panic("boom") })
	}()
	assert.Check(t, c.AutoChecksum())
}

func TestWithManualChecksumNested(t *testing.T) {
	c := NewCodec()
	c.WithManualChecksum(func() error {
		c.WithManualChecksum(func() error { return nil })
		assert.Check(t, !c.AutoChecksum())
		return nil
	})
	assert.Check(t, c.AutoChecksum())
}
