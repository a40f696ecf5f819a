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

// Package mcumem holds the two byte-addressable storage banks of the
// emulated microcontroller: 64 KiB of flash (read-only once the core is
// running, not cleared on reset) and 20 KiB of SRAM. Each bank exposes
// bus.Region-compatible read/write callbacks; the flash callback is
// registered at two base addresses (0x00000000 and 0x08000000) by the
// simulator to reproduce the vector-table alias.
package mcumem

import (
	"github.com/tinunadno/stm32-emulator/hardware/mcubus"
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/logger"
)

const (
	// FlashSize is the size in bytes of the flash bank.
	FlashSize = 64 * 1024
	// SRAMSize is the size in bytes of the SRAM bank.
	SRAMSize = 20 * 1024

	// FlashBase and SRAMBase are the canonical base addresses used when
	// registering the banks on a bus (see the memory map in the external
	// interfaces section of the specification this module implements).
	FlashBase = 0x08000000
	FlashAliasBase = 0x00000000
	SRAMBase = 0x20000000
)

// Memory owns the flash and SRAM backing stores.
type Memory struct {
	flash [FlashSize]byte
	sram  [SRAMSize]byte
}

// New creates a zeroed Memory.
func New() *Memory {
	return &Memory{}
}

// Reset clears SRAM. Flash is untouched: it is non-volatile storage and the
// image loaded into it by Load survives a reset.
func (m *Memory) Reset() {
	for i := range m.sram {
		m.sram[i] = 0
	}
}

// LoadFlash copies image into flash starting at offset 0. A short image
// leaves the remainder of flash untouched; an oversized image is truncated.
func (m *Memory) LoadFlash(image []byte) {
	n := copy(m.flash[:], image)
	logger.Logf("sim", "loaded %d bytes into flash", n)
}

// FlashRegion returns the bus.Region for flash registered at base.
// Flash is read-only: every write is rejected with status.Error, matching
// the source this module is derived from.
func (m *Memory) FlashRegion(base uint32) mcubus.Region {
	return mcubus.Region{
		Base: base,
		Size: FlashSize,
		Name: "flash",
		Read: func(offset uint32, size uint8) uint32 {
			if uint64(offset)+uint64(size) > FlashSize {
				return 0
			}
			return mcubus.ReadLE(m.flash[:], offset, size)
		},
		Write: func(offset uint32, value uint32, size uint8) status.Code {
			logger.Logf("bus", "attempted write to flash at offset 0x%08X", offset)
			return status.Error
		},
	}
}

// SRAMRegion returns the bus.Region for SRAM registered at base.
func (m *Memory) SRAMRegion(base uint32) mcubus.Region {
	return mcubus.Region{
		Base: base,
		Size: SRAMSize,
		Name: "sram",
		Read: func(offset uint32, size uint8) uint32 {
			if uint64(offset)+uint64(size) > SRAMSize {
				return 0
			}
			return mcubus.ReadLE(m.sram[:], offset, size)
		},
		Write: func(offset uint32, value uint32, size uint8) status.Code {
			if uint64(offset)+uint64(size) > SRAMSize {
				return status.InvalidAddress
			}
			mcubus.WriteLE(m.sram[:], offset, value, size)
			return status.OK
		},
	}
}
