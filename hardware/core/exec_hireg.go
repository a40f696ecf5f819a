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

// Format 5: hi-register operations and branch-exchange. H1/H2 extend Rd/Rm
// to the full 4-bit register number so either operand can reach R8-R15.
func hiRegOperands(instr uint16) (rd, rm int) {
	rd = int((instr>>4)&0x8) | int(instr&0x7)
	rm = int(instr>>3) & 0xF
	return rd, rm
}

// execBx branches (or returns from exception, if the operand is an
// EXC_RETURN token) to the value held in Rm.
func execBx(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	_, rm := hiRegOperands(instr)
	c.branchTo(c.r[rm])
	*pcWritten = true
	return status.OK
}

// execAddHi adds Rm into Rd without touching flags. Writing R15 branches.
func execAddHi(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, rm := hiRegOperands(instr)
	result := c.r[rd] + c.r[rm]
	if rd == PC {
		c.branchTo(result)
		*pcWritten = true
		return status.OK
	}
	c.r[rd] = result
	return status.OK
}

// execCmpHi compares Rd against Rm and sets flags; it never writes a
// register, so Rd==R15 has no branch effect.
func execCmpHi(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, rm := hiRegOperands(instr)
	a, b := c.r[rd], c.r[rm]
	result := a - b
	c.updateFlagsSub(a, b, 0, result)
	return status.OK
}

// execMovHi copies Rm into Rd without touching flags. Writing R15 branches.
func execMovHi(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, rm := hiRegOperands(instr)
	v := c.r[rm]
	if rd == PC {
		c.branchTo(v)
		*pcWritten = true
		return status.OK
	}
	c.r[rd] = v
	return status.OK
}
