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

package core

import "github.com/tinunadno/stm32-emulator/hardware/status"

func popcount8(rlist uint16) uint32 {
	var n uint32
	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			n++
		}
	}
	return n
}

// execPush implements Format 14's store-multiple form. R0-R7 named in
// rlist are stored lowest-address-first; if bit 8 is set, LR is stored last
// at the highest address. SP is decremented by the full transfer size
// before any store.
func execPush(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rlist := instr & 0xFF
	storeLR := instr&0x100 != 0

	count := popcount8(rlist)
	if storeLR {
		count++
	}
	addr := c.r[SP] - count*4
	c.r[SP] = addr

	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			c.bus.Write(addr, c.r[i], 4)
			addr += 4
		}
	}
	if storeLR {
		c.bus.Write(addr, c.r[LR], 4)
	}
	return status.OK
}

// execPop implements Format 14's load-multiple form. R0-R7 named in rlist
// are loaded lowest-address-first; if bit 8 is set, one further word is
// loaded into PC, which branches (or performs an exception return, if the
// loaded value is an EXC_RETURN token) through the usual branchTo path.
func execPop(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rlist := instr & 0xFF
	loadPC := instr&0x100 != 0

	addr := c.r[SP]
	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			c.r[i] = c.bus.Read(addr, 4)
			addr += 4
		}
	}

	if loadPC {
		target := c.bus.Read(addr, 4)
		addr += 4
		c.r[SP] = addr
		c.branchTo(target)
		*pcWritten = true
		return status.OK
	}

	c.r[SP] = addr
	return status.OK
}
