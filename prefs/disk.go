// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/tinunadno/stm32-emulator/curated"
)

// DefaultPrefsFile is the default filename of the preferences file.
const DefaultPrefsFile = "stm32emu.prefs"

// WarningBoilerPlate is written as the first line of a preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// keySep separates a pref's key from its value on disk.
const keySep = " :: "

type entryMap map[string]pref

func (e entryMap) String() string {
	sorted := make([]string, 0, len(e))
	for k := range e {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	s := strings.Builder{}
	for _, k := range sorted {
		fmt.Fprintf(&s, "%s%s%s\n", k, keySep, e[k])
	}
	return s.String()
}

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	entries entryMap
}

func (dsk Disk) String() string {
	return dsk.entries.String()
}

// NewDisk creates a Disk backed by the file at path. Nothing is read or
// written until Load or Save is called.
func NewDisk(path string) (*Disk, error) {
	return &Disk{path: path, entries: make(entryMap)}, nil
}

// Add registers p under key, to be loaded from and saved to disk. Keys may
// only contain letters, digits and periods.
func (dsk *Disk) Add(key string, p pref) error {
	for _, r := range key {
		if !(r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return curated.Errorf("prefs: illegal character [%c] in key [%s]", r, key)
		}
	}
	dsk.entries[key] = p
	return nil
}

// Reset restores every registered preference to its zero value.
func (dsk *Disk) Reset() error {
	for _, v := range dsk.entries {
		if err := v.Reset(); err != nil {
			return curated.Errorf("prefs: %v", err)
		}
	}
	return nil
}

// DisableSaving prevents Save from touching disk. Tests set this to true.
var DisableSaving = false

// Save writes every registered preference's current value to disk,
// preserving any unknown entries already present in the file.
func (dsk *Disk) Save() (rerr error) {
	if DisableSaving {
		return nil
	}

	entries := make(entryMap)
	if _, err := load(dsk.path, &entries, false); err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	for k, v := range dsk.entries {
		entries[k] = v
	}

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && rerr == nil {
			rerr = curated.Errorf("prefs: %v", cerr)
		}
	}()

	if _, err := fmt.Fprintf(f, "%s\n", WarningBoilerPlate); err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	if _, err := fmt.Fprint(f, entries.String()); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// Load reads preference values from disk. If saveOnFirstUse is true and the
// file contains fewer entries than are registered (meaning a new preference
// has been added since the file was last written), the defaults for the new
// entries are saved immediately.
func (dsk *Disk) Load(saveOnFirstUse bool) error {
	numLoaded, err := load(dsk.path, &dsk.entries, true)
	if err != nil {
		return err
	}
	if saveOnFirstUse && numLoaded != len(dsk.entries) {
		return dsk.Save()
	}
	return nil
}

func load(path string, entries *entryMap, limit bool) (int, error) {
	var numLoaded int

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return numLoaded, curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Scan()
	if len(scanner.Text()) > 0 && scanner.Text() != WarningBoilerPlate {
		return 0, curated.Errorf("prefs: not a valid prefs file (%s)", path)
	}

	for scanner.Scan() {
		spt := strings.SplitN(scanner.Text(), keySep, 2)
		if len(spt) != 2 {
			continue
		}
		k, v := spt[0], spt[1]

		if p, ok := (*entries)[k]; ok {
			if err := p.Set(v); err != nil {
				return numLoaded, curated.Errorf("prefs: %v", err)
			}
			numLoaded++
		} else if !limit {
			var dummy String
			if err := dummy.Set(v); err != nil {
				return numLoaded, curated.Errorf("prefs: %v", err)
			}
			(*entries)[k] = &dummy
		}
	}

	return numLoaded, nil
}
