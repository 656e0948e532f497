// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package oracle runs an extractor against the working archive and decides
// whether it crashed.
//
// The extractor is trusted to report its own faults: a run is a crash iff the
// first line it writes to stdout is exactly Sentinel. Exit status and signals
// are not inspected.
package oracle

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tarcrash/tarcrash/archive"
	"github.com/tarcrash/tarcrash/stats"
)

// Sentinel is the line an extractor prints when it detects its own crash.
const Sentinel = "*** The program has crashed ***\n"

// lineBufSize bounds how much of the extractor's output is ever looked at.
const lineBufSize = 128

// Oracle invokes one extractor binary.
type Oracle struct {
	Extractor string
	Dir       string // work dir holding the archive; also the extractor's cwd

	// Timeout bounds a single run. When it expires the extractor's process
	// group is killed. Zero waits forever.
	Timeout time.Duration

	// Stderr receives the extractor's stderr. Nil discards it.
	Stderr io.Writer

	Stats *stats.Stats
	Log   logrus.Ext1FieldLogger
}

// IsSentinel reports whether line is exactly the crash sentinel.
func IsSentinel(line []byte) bool {
	return string(line) == Sentinel
}

// Run executes the extractor once. On a detected crash the archive is renamed
// to success_<N>.tar. A non-nil error means the extractor could not be
// started; such a run never counts as a crash.
func (o *Oracle) Run(ctx context.Context) (bool, error) {
	o.Stats.Try()
	start := time.Now()
	line, err := o.execute(ctx)
	o.Stats.Observe(time.Since(start))
	if err != nil {
		return false, err
	}
	if !IsSentinel(line) {
		o.Log.Debugf("extractor output: %q", line)
		return false, nil
	}
	n := o.Stats.Success()
	name, err := o.preserve(n)
	if err != nil {
		o.Log.WithError(err).Warn("failed to save crash file")
	} else {
		o.Log.Infof("saved crash file: %s", name)
	}
	return true, nil
}

func (o *Oracle) execute(ctx context.Context) ([]byte, error) {
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to pipe")
	}
	defer rOut.Close()

	cmd := exec.CommandContext(ctx, o.Extractor, archive.Name)
	cmd.Dir = o.Dir
	cmd.Stdout = wOut
	cmd.Stderr = o.Stderr
	setProcessGroup(cmd)
	// Cancel runs before Wait returns, so kill is safe to read afterwards.
	var kill *time.Timer
	cmd.Cancel = func() error {
		var err error
		kill, err = killProcessGroup(cmd.Process)
		return err
	}
	if err := cmd.Start(); err != nil {
		wOut.Close()
		return nil, errors.Wrapf(err, "failed to start %s", o.Extractor)
	}
	wOut.Close()

	line := readLine(rOut)
	// Closing our end makes further writes by the extractor fail instead of
	// filling the pipe.
	rOut.Close()
	if err := cmd.Wait(); err != nil {
		o.Log.Tracef("extractor exited: %v", err)
	}
	if kill != nil {
		kill.Stop()
	}
	if ctx.Err() == context.DeadlineExceeded {
		o.Log.Warnf("extractor timed out after %v", o.Timeout)
	}
	return line, nil
}

// readLine returns the first line of r including its newline, or whatever
// fits in lineBufSize bytes, or a partial line at EOF.
func readLine(r io.Reader) []byte {
	br := bufio.NewReaderSize(r, lineBufSize)
	line, _ := br.ReadSlice('\n')
	return append([]byte(nil), line...)
}
