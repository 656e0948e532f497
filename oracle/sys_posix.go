// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build unix

package oracle

import (
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// killDelay is how long a group gets to die from SIGABRT before SIGKILL.
const killDelay = time.Second

// setProcessGroup puts the extractor in its own process group so that a
// timeout also takes down anything it forked.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup asks the group to abort, giving extractors built with a
// fault handler the chance to dump state, then kills it for good after
// killDelay. The returned timer must be stopped once the extractor has been
// reaped so that a recycled group id is never signalled.
func killProcessGroup(p *os.Process) (*time.Timer, error) {
	pgid := -p.Pid
	if err := unix.Kill(pgid, unix.SIGABRT); err != nil {
		if err == unix.ESRCH {
			return nil, nil
		}
		return nil, err
	}
	return time.AfterFunc(killDelay, func() {
		unix.Kill(pgid, unix.SIGKILL)
	}), nil
}
