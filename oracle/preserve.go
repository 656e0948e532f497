// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package oracle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/tarcrash/tarcrash/archive"
)

// SuccessName is the file name given to the nth confirmed crasher.
func SuccessName(n uint64) string {
	return fmt.Sprintf("success_%d.tar", n)
}

// preserve moves the working archive out of the way so the next case cannot
// overwrite it. Existing files with the same name, e.g. from an earlier run
// in the same dir, are replaced.
func (o *Oracle) preserve(n uint64) (string, error) {
	src := filepath.Join(o.Dir, archive.Name)
	dst := filepath.Join(o.Dir, SuccessName(n))
	if err := os.Rename(src, dst); err != nil {
		return "", errors.Wrapf(err, "failed to rename %s", src)
	}
	return dst, nil
}
