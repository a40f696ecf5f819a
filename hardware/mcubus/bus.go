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

// Package mcubus implements the address-range router that sits between the
// CPU core and every memory bank or memory-mapped peripheral. A Bus holds an
// ordered list of Regions; reads and writes are dispatched to the first
// region whose range contains the address.
package mcubus

import (
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/logger"
)

// Region is a single bus-addressable range. Read and Write are called with
// offset, the address already translated relative to Base, never the
// absolute address.
type Region struct {
	Base  uint32
	Size  uint32
	Name  string
	Read  func(offset uint32, size uint8) uint32
	Write func(offset uint32, value uint32, size uint8) status.Code
}

func (r *Region) contains(addr uint32, size uint8) bool {
	return addr >= r.Base && uint64(addr)+uint64(size) <= uint64(r.Base)+uint64(r.Size)
}

// maxRegions bounds the region table, mirroring the bounded region table of
// the source this module is derived from: registration happens once at
// startup, so a bound here catches a misconfigured peripheral set early
// rather than growing the table without limit.
const maxRegions = 16

// Bus routes reads and writes to registered Regions by linear scan in
// registration order. The first matching region wins, which is what makes
// intentional aliases (flash mapped at two base addresses) work.
type Bus struct {
	regions []Region
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{regions: make([]Region, 0, maxRegions)}
}

// Register adds a region to the bus. It returns status.Error if the region
// table is already full.
func (b *Bus) Register(r Region) status.Code {
	if len(b.regions) >= maxRegions {
		logger.Logf("bus", "region table full, cannot register %q", r.Name)
		return status.Error
	}
	b.regions = append(b.regions, r)
	return status.OK
}

// Regions returns the registered regions in registration order, for
// instrumentation (the bus-map visualiser) rather than for routing.
func (b *Bus) Regions() []Region {
	return b.regions
}

func (b *Bus) find(addr uint32, size uint8) *Region {
	for i := range b.regions {
		if b.regions[i].contains(addr, size) {
			return &b.regions[i]
		}
	}
	return nil
}

// Read performs a size-byte little-endian read at addr. size must be 1, 2,
// or 4. A miss (no region covers the whole access) is silent and returns 0.
func (b *Bus) Read(addr uint32, size uint8) uint32 {
	r := b.find(addr, size)
	if r == nil {
		logger.Logf("bus", "read miss at 0x%08X (size %d)", addr, size)
		return 0
	}
	return r.Read(addr-r.Base, size)
}

// Write performs a size-byte little-endian write at addr. A miss returns
// status.InvalidAddress; a hit returns whatever status the region reports
// (a read-only region, for example, always reports status.Error).
func (b *Bus) Write(addr uint32, value uint32, size uint8) status.Code {
	r := b.find(addr, size)
	if r == nil {
		logger.Logf("bus", "write miss at 0x%08X (size %d)", addr, size)
		return status.InvalidAddress
	}
	return r.Write(addr-r.Base, value, size)
}

// ReadLE composes size little-endian bytes from base[offset:offset+size]
// into a uint32. Shared by every region's Read callback.
func ReadLE(base []byte, offset uint32, size uint8) uint32 {
	switch size {
	case 1:
		return uint32(base[offset])
	case 2:
		return uint32(base[offset]) | uint32(base[offset+1])<<8
	case 4:
		return uint32(base[offset]) |
			uint32(base[offset+1])<<8 |
			uint32(base[offset+2])<<16 |
			uint32(base[offset+3])<<24
	default:
		return 0
	}
}

// WriteLE decomposes value into size little-endian bytes written into
// base[offset:offset+size]. Shared by every region's Write callback.
func WriteLE(base []byte, offset uint32, value uint32, size uint8) {
	switch size {
	case 1:
		base[offset] = byte(value)
	case 2:
		base[offset] = byte(value)
		base[offset+1] = byte(value >> 8)
	case 4:
		base[offset] = byte(value)
		base[offset+1] = byte(value >> 8)
		base[offset+2] = byte(value >> 16)
		base[offset+3] = byte(value >> 24)
	}
}
