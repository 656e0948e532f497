// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package catalogue

import (
	"github.com/tarcrash/tarcrash/ustar"
)

// Default returns the full sweep in execution order.
func Default() []Scenario {
	checksum := FieldScenario(ustar.FieldChksum, ZeroChecksumExtra, checksumKnownExtra)
	checksum.Manual = true

	return []Scenario{
		FieldScenario(ustar.FieldName, nameExtra),
		FieldScenario(ustar.FieldMode, ModeBitsExtra, modeKnownExtra),
		FieldScenario(ustar.FieldUID, idExtra(ustar.FieldUID, "ABCDEF")),
		FieldScenario(ustar.FieldGID, idExtra(ustar.FieldGID, "GIDJUN")),
		FieldScenario(ustar.FieldSize, SizeExtra),
		FieldScenario(ustar.FieldMtime, MtimeExtra, mtimeKnownExtra),
		checksum,
		ExtrasOnly(ustar.FieldTypeflag, TypeflagExtra),
		FieldScenario(ustar.FieldLinkname, linknameExtra),
		FieldScenario(ustar.FieldMagic, magicExtra),
		FieldScenario(ustar.FieldVersion, VersionExtra),
		FieldScenario(ustar.FieldUname, unameExtra),
		FieldScenario(ustar.FieldGname),
		FieldScenario(ustar.FieldDevmajor),
		FieldScenario(ustar.FieldDevminor),
		EndOfFile(),
		KnownCrash(),
		MultiFile(),
		HugeContent(),
		FieldScenario(ustar.FieldPrefix, prefixExtra),
		ExtrasOnly(ustar.FieldPadding, paddingExtra),
		Combo(),
		OverflowAll(),
	}
}

// Lookup returns the scenarios of all whose name is in names, keeping the
// order of all. Unknown names are returned separately.
func Lookup(all []Scenario, names []string) (found []Scenario, unknown []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for _, s := range all {
		if want[s.Name] {
			found = append(found, s)
			delete(want, s.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			unknown = append(unknown, n)
			delete(want, n)
		}
	}
	return found, unknown
}
