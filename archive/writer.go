// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package archive materializes generated entries as a tar file on disk.
package archive

import (
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
	"github.com/pkg/errors"

	"github.com/tarcrash/tarcrash/stats"
	"github.com/tarcrash/tarcrash/ustar"
)

// Name is the working archive file name, relative to the work dir.
const Name = "archive.tar"

// Entry is one header optionally followed by content.
type Entry struct {
	Header  *ustar.Header
	Content []byte
}

// Writer rewrites the working archive for every test case.
type Writer struct {
	Dir   string
	Codec *ustar.Codec
	Stats *stats.Stats
}

// Path returns the location of the working archive.
func (w *Writer) Path() string {
	return filepath.Join(w.Dir, Name)
}

// Build returns the archive bytes: each header then its content, in order and
// without padding, then the trailer.
func (w *Writer) Build(entries []Entry, trailer []byte) []byte {
	size := len(trailer)
	for _, e := range entries {
		size += ustar.BlockSize + len(e.Content)
	}
	buf := make([]byte, 0, size)
	for _, e := range entries {
		buf = w.Codec.AppendEntry(buf, e.Header, e.Content)
	}
	return append(buf, trailer...)
}

// Write replaces the working archive. The archive counter is only bumped on success.
func (w *Writer) Write(entries []Entry, trailer []byte) error {
	return w.WriteFile(Name, entries, trailer)
}

// WriteFile is like Write but stores the archive under name in the dir.
func (w *Writer) WriteFile(name string, entries []Entry, trailer []byte) error {
	path := filepath.Join(w.Dir, name)
	data := w.Build(entries, trailer)
	if err := atomicwriter.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if w.Stats != nil {
		w.Stats.ArchiveCreated(len(data))
	}
	return nil
}
