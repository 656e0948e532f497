// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Command refextract is a reference extractor for tarcrash. It parses an
// archive, checks the parsed headers against the bytes they came from and
// reassembles the archive from its parts. Any violated invariant or panic is
// reported with the crash sentinel on stdout.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vbatts/tar-split/archive/tar"
	"github.com/vbatts/tar-split/tar/asm"
	"github.com/vbatts/tar-split/tar/storage"

	"github.com/tarcrash/tarcrash/oracle"
)

// maxField bounds name-like fields and declared sizes.
const maxField = 1e6

type summary struct {
	entries int
	bytes   int64
}

// extract reads the whole archive. A returned error means the archive was
// rejected cleanly; a panic means an invariant did not hold.
func extract(r io.Reader) (summary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return summary{}, errors.Wrap(err, "failed to read archive")
	}
	sum, err := parse(data)
	if err != nil {
		return sum, err
	}
	if err := roundTrip(data); err != nil {
		return sum, err
	}
	return sum, nil
}

// parse walks the entries on the calling goroutine, so that a fault in the
// tar reader reaches the recover in run.
func parse(data []byte) (summary, error) {
	var sum summary
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return sum, nil
		}
		if err != nil {
			return sum, errors.Wrapf(err, "entry %d", sum.entries)
		}
		if len(hdr.Name) > maxField ||
			len(hdr.Linkname) > maxField ||
			len(hdr.Uname) > maxField ||
			len(hdr.Gname) > maxField {
			panic("huge header data")
		}
		if hdr.Size > maxField {
			panic("huge claimed file size")
		}
		fdata, err := io.ReadAll(tr)
		if err != nil {
			return sum, errors.Wrapf(err, "entry %d content", sum.entries)
		}
		if int64(len(fdata)) > hdr.Size {
			panic("long read")
		}
		if int64(len(fdata)) < hdr.Size {
			panic("short read")
		}
		sum.entries++
		sum.bytes += hdr.Size
	}
}

// roundTrip disassembles data with tar-split and checks that reassembly
// gives back the same bytes. tar-split parses on its own goroutine; data has
// already been through parse with the same reader.
func roundTrip(data []byte) error {
	meta := new(bytes.Buffer)
	files := storage.NewBufferFileGetPutter()
	its, err := asm.NewInputTarStream(bytes.NewReader(data), storage.NewJSONPacker(meta), files)
	if err != nil {
		return errors.Wrap(err, "failed to disassemble")
	}
	if _, err := io.Copy(io.Discard, its); err != nil {
		return errors.Wrap(err, "failed to disassemble")
	}

	out := asm.NewOutputTarStream(files, storage.NewJSONUnpacker(meta))
	defer out.Close()
	rebuilt, err := io.ReadAll(out)
	if err != nil {
		return errors.Wrap(err, "failed to reassemble")
	}
	if !bytes.Equal(rebuilt, data) {
		panic(fmt.Sprintf("reassembled %d bytes differ from %d input bytes", len(rebuilt), len(data)))
	}
	return nil
}

// run extracts the named archive and returns the exit code.
func run(name string, stdout io.Writer, log logrus.FieldLogger) (code int) {
	f, err := os.Open(name)
	if err != nil {
		log.WithError(err).Error("failed to open archive")
		return 1
	}
	defer f.Close()

	defer func() {
		if p := recover(); p != nil {
			fmt.Fprint(stdout, oracle.Sentinel)
			log.Errorf("%s: %v", name, p)
			code = 2
		}
	}()
	sum, err := extract(f)
	if err != nil {
		fmt.Fprintf(stdout, "rejected: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "ok: %d entries, %d bytes\n", sum.entries, sum.bytes)
	return 0
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <archive>\n", os.Args[0])
		os.Exit(1)
	}
	os.Exit(run(os.Args[1], os.Stdout, log))
}
