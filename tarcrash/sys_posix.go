// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build unix

package main

import (
	"golang.org/x/sys/unix"
)

// lowerProcessPrio makes the harness and every extractor it spawns yield to
// interactive work.
func lowerProcessPrio() {
	unix.Setpriority(unix.PRIO_PROCESS, 0, 19)
}
