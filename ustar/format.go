// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package ustar builds raw POSIX ustar header records.
//
// Unlike archive/tar, nothing here validates what it writes: a Header is a
// plain 512-byte array that callers are free to corrupt field by field.
// The Codec only knows how to produce a well-formed baseline and how to
// (optionally) stamp a correct checksum on whatever the caller left behind.
package ustar

const (
	BlockSize   = 512
	TrailerSize = 2 * BlockSize // end-of-archive marker, two zero blocks

	Magic   = "ustar\x00"
	Version = "00"
)

// Type flags.
const (
	TypeReg     = '0'
	TypeRegA    = '\x00'
	TypeLink    = '1'
	TypeSymlink = '2'
	TypeChar    = '3'
	TypeBlock   = '4'
	TypeDir     = '5'
	TypeFifo    = '6'
	TypeCont    = '7'
	TypeXHeader = 'x'
	TypeXGlobal = 'g'
)

// Mode bits, octal as in the standard.
const (
	ModeSetUID = 04000
	ModeSetGID = 02000
	ModeSticky = 01000
	ModeURead  = 00400
	ModeUWrite = 00200
	ModeUExec  = 00100
	ModeGRead  = 00040
	ModeGWrite = 00020
	ModeGExec  = 00010
	ModeORead  = 00004
	ModeOWrite = 00002
	ModeOExec  = 00001
)

// ModeBits lists every permission and set-bit constant, high bits first.
var ModeBits = []int{
	ModeSetUID, ModeSetGID, ModeSticky,
	ModeURead, ModeUWrite, ModeUExec,
	ModeGRead, ModeGWrite, ModeGExec,
	ModeORead, ModeOWrite, ModeOExec,
}

// Field locates one fixed-width field inside a header record.
type Field struct {
	Name   string
	Offset int
	Size   int
}

func fieldAfter(name string, prev Field, size int) Field {
	return Field{Name: name, Offset: prev.Offset + prev.Size, Size: size}
}

var (
	FieldName     = Field{Name: "name", Offset: 0, Size: 100}
	FieldMode     = fieldAfter("mode", FieldName, 8)
	FieldUID      = fieldAfter("uid", FieldMode, 8)
	FieldGID      = fieldAfter("gid", FieldUID, 8)
	FieldSize     = fieldAfter("size", FieldGID, 12)
	FieldMtime    = fieldAfter("mtime", FieldSize, 12)
	FieldChksum   = fieldAfter("checksum", FieldMtime, 8)
	FieldTypeflag = fieldAfter("typeflag", FieldChksum, 1)
	FieldLinkname = fieldAfter("linkname", FieldTypeflag, 100)
	FieldMagic    = fieldAfter("magic", FieldLinkname, 6)
	FieldVersion  = fieldAfter("version", FieldMagic, 2)
	FieldUname    = fieldAfter("uname", FieldVersion, 32)
	FieldGname    = fieldAfter("gname", FieldUname, 32)
	FieldDevmajor = fieldAfter("devmajor", FieldGname, 8)
	FieldDevminor = fieldAfter("devminor", FieldDevmajor, 8)
	FieldPrefix   = fieldAfter("prefix", FieldDevminor, 155)
	FieldPadding  = fieldAfter("padding", FieldPrefix, 12)
)

// Fields is the full record layout in on-disk order. The sizes add up to BlockSize.
var Fields = []Field{
	FieldName, FieldMode, FieldUID, FieldGID, FieldSize, FieldMtime,
	FieldChksum, FieldTypeflag, FieldLinkname, FieldMagic, FieldVersion,
	FieldUname, FieldGname, FieldDevmajor, FieldDevminor, FieldPrefix,
	FieldPadding,
}

func (f Field) String() string {
	return f.Name
}
