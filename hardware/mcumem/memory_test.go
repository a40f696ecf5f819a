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

package mcumem_test

import (
	"testing"

	"github.com/tinunadno/stm32-emulator/hardware/mcubus"
	"github.com/tinunadno/stm32-emulator/hardware/mcumem"
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/test"
)

func TestFlashIsReadOnly(t *testing.T) {
	m := mcumem.New()
	r := m.FlashRegion(mcumem.FlashBase)
	test.Equate(t, r.Write(0, 0x11223344, 4), status.Error)
}

func TestFlashSurvivesReset(t *testing.T) {
	m := mcumem.New()
	m.LoadFlash([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	m.Reset()
	r := m.FlashRegion(mcumem.FlashBase)
	test.Equate(t, r.Read(0, 4), uint32(0xDDCCBBAA))
}

func TestSRAMClearedOnReset(t *testing.T) {
	m := mcumem.New()
	r := m.SRAMRegion(mcumem.SRAMBase)
	r.Write(0, 0xDEADBEEF, 4)
	m.Reset()
	test.Equate(t, r.Read(0, 4), uint32(0))
}

func TestSRAMOutOfBoundsWrite(t *testing.T) {
	m := mcumem.New()
	r := m.SRAMRegion(mcumem.SRAMBase)
	test.Equate(t, r.Write(mcumem.SRAMSize-1, 0xFFFFFFFF, 4), status.InvalidAddress)
}

func TestFlashAliasSharesBackingStore(t *testing.T) {
	m := mcumem.New()
	m.LoadFlash([]byte{0x11, 0x22, 0x33, 0x44})

	b := mcubus.New()
	b.Register(m.FlashRegion(mcumem.FlashAliasBase))
	b.Register(m.FlashRegion(mcumem.FlashBase))

	test.Equate(t, b.Read(mcumem.FlashAliasBase, 4), uint32(0x44332211))
	test.Equate(t, b.Read(mcumem.FlashBase, 4), uint32(0x44332211))
}
