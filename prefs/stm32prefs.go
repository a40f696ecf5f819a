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

import "github.com/tinunadno/stm32-emulator/curated"

// Preferences holds every runtime-tunable knob that is not part of the
// emulator's architectural state.
type Preferences struct {
	dsk *Disk

	// TimerEnabled and USARTEnabled record whether the timer and USART are
	// wanted. Both default to true. Nothing in this module reads them:
	// simulator.New always registers both peripherals on the bus.
	TimerEnabled Bool
	USARTEnabled Bool

	// GDBEnabled is a stored enable/disable switch for a GDB adapter. Nothing
	// in this module reads it; the transport itself (listen address, socket
	// lifecycle) is owned by the collaborator that embeds this module.
	GDBEnabled Bool

	// DashboardEnabled turns the statsview-backed live dashboard on or off.
	DashboardEnabled Bool
	DashboardAddr    String

	// SonifyPath is a stored output WAV path for the USART trace sonifier,
	// empty by default. Nothing in this module reads it; the sonifier is not
	// wired into cmd/stm32emu.
	SonifyPath String
}

// NewPreferences creates a Preferences backed by the file at path, with
// defaults applied and loaded from disk. If path is empty, the preferences
// are not backed by disk at all: Load and Save become no-ops.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	if path != "" {
		dsk, err := NewDisk(path)
		if err != nil {
			return nil, curated.Errorf("prefs: %v", err)
		}
		p.dsk = dsk

		if err := dsk.Add("timer.enabled", &p.TimerEnabled); err != nil {
			return nil, curated.Errorf("prefs: %v", err)
		}
		if err := dsk.Add("usart.enabled", &p.USARTEnabled); err != nil {
			return nil, curated.Errorf("prefs: %v", err)
		}
		if err := dsk.Add("gdb.enabled", &p.GDBEnabled); err != nil {
			return nil, curated.Errorf("prefs: %v", err)
		}
		if err := dsk.Add("dashboard.enabled", &p.DashboardEnabled); err != nil {
			return nil, curated.Errorf("prefs: %v", err)
		}
		if err := dsk.Add("dashboard.addr", &p.DashboardAddr); err != nil {
			return nil, curated.Errorf("prefs: %v", err)
		}
		if err := dsk.Add("sonify.path", &p.SonifyPath); err != nil {
			return nil, curated.Errorf("prefs: %v", err)
		}

		if err := dsk.Load(true); err != nil {
			return nil, curated.Errorf("prefs: %v", err)
		}
	}

	return p, nil
}

// SetDefaults mirrors the ancestral instance.Normalise cascading
// SetDefaults idiom: every sub-preference is reset to a known-good starting
// value before any disk load is attempted.
func (p *Preferences) SetDefaults() {
	p.TimerEnabled.Set(true)
	p.USARTEnabled.Set(true)
	p.GDBEnabled.Set(false)
	p.DashboardEnabled.Set(false)
	p.DashboardAddr.Set("localhost:6060")
	p.SonifyPath.Set("")
}

// Load reads preference values from disk, saving defaults for any
// preference not yet present in the file.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load(true)
}

// Save writes the current preference values to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
