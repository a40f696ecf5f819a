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

// execAdr implements Format 12's PC-relative address form: Rd is loaded
// with the word-aligned instruction address plus the pipeline offset, plus
// an 8-bit immediate scaled by 4. Flags are untouched.
func execAdr(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, word8 := rdWord8Operands(instr)
	base := (instrAddr + 4) &^ 3
	c.r[rd] = base + word8*4
	return status.OK
}

// execAddSpImm implements Format 12's SP-relative address form: Rd = SP +
// an 8-bit immediate scaled by 4. Flags are untouched.
func execAddSpImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, word8 := rdWord8Operands(instr)
	c.r[rd] = c.r[SP] + word8*4
	return status.OK
}

// execAddSubSp implements Format 13: adjust SP itself by a 7-bit immediate
// scaled by 4, in either direction depending on the sign bit at position 7.
// Flags are untouched.
func execAddSubSp(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	word7 := uint32(instr) & 0x7F
	offset := word7 * 4
	if instr&0x80 != 0 {
		c.r[SP] -= offset
	} else {
		c.r[SP] += offset
	}
	return status.OK
}
