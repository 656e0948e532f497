// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build !unix

package oracle

import (
	"os"
	"os/exec"
	"time"
)

// Process groups are not supported here; only the extractor itself is killed.
func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(p *os.Process) (*time.Timer, error) {
	return nil, p.Kill()
}
