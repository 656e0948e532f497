// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package catalogue

import (
	"context"
	"fmt"

	"github.com/tarcrash/tarcrash/archive"
)

// CorpusName is the file name of the nth emitted archive.
func CorpusName(n int) string {
	return fmt.Sprintf("%05d.tar", n)
}

// Emit writes every case of scenarios into w's dir as a numbered archive
// instead of running it, for seeding other fuzzers. It returns the number of
// archives written.
func Emit(ctx context.Context, g *Gen, w *archive.Writer, scenarios []Scenario) (int, error) {
	seq := 0
	for _, s := range scenarios {
		err := g.scoped(s.Manual, func() error {
			for c := range s.Cases(g) {
				if err := ctx.Err(); err != nil {
					return err
				}
				err := g.scoped(c.Manual, func() error {
					return w.WriteFile(CorpusName(seq), c.Entries, c.Trailer)
				})
				if err != nil {
					return err
				}
				seq++
			}
			return nil
		})
		if err != nil {
			return seq, err
		}
	}
	return seq, nil
}
