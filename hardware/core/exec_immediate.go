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

// Format 1: move shifted register (immediate shifts). offset5 is bits
// 10:6, Rs is bits 5:3, Rd is bits 2:0.
func shiftImmOperands(instr uint16) (offset5 uint32, rs, rd int) {
	return uint32(instr>>6) & 0x1F, int(instr>>3) & 0x7, int(instr) & 0x7
}

func execLslImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rs, rd := shiftImmOperands(instr)
	v := c.r[rs]
	if offset5 == 0 {
		c.r[rd] = v
	} else {
		c.setFlag(FlagC, (v>>(32-offset5))&1 != 0)
		c.r[rd] = v << offset5
	}
	c.updateNZ(c.r[rd])
	return status.OK
}

func execLsrImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rs, rd := shiftImmOperands(instr)
	v := c.r[rs]
	distance := offset5
	if distance == 0 {
		distance = 32
	}
	if distance == 32 {
		c.setFlag(FlagC, bit31(v))
		c.r[rd] = 0
	} else {
		c.setFlag(FlagC, (v>>(distance-1))&1 != 0)
		c.r[rd] = v >> distance
	}
	c.updateNZ(c.r[rd])
	return status.OK
}

func execAsrImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rs, rd := shiftImmOperands(instr)
	v := int32(c.r[rs])
	distance := offset5
	if distance == 0 {
		distance = 32
	}
	if distance >= 32 {
		c.setFlag(FlagC, bit31(c.r[rs]))
		if v < 0 {
			c.r[rd] = 0xFFFFFFFF
		} else {
			c.r[rd] = 0
		}
	} else {
		c.setFlag(FlagC, (c.r[rs]>>(distance-1))&1 != 0)
		c.r[rd] = uint32(v >> distance)
	}
	c.updateNZ(c.r[rd])
	return status.OK
}

// Format 2: add/subtract, register and 3-bit immediate forms. The third
// operand field (bits 8:6) is either a register number or a literal,
// depending on which handler is dispatched.
func addSubOperands(instr uint16) (third uint32, rs, rd int) {
	return uint32(instr>>6) & 0x7, int(instr>>3) & 0x7, int(instr) & 0x7
}

func execAddReg3(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rn, rs, rd := addSubOperands(instr)
	a, b := c.r[rs], c.r[rn]
	result := a + b
	c.updateFlagsAdd(a, b, 0, result)
	c.r[rd] = result
	return status.OK
}

func execSubReg3(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rn, rs, rd := addSubOperands(instr)
	a, b := c.r[rs], c.r[rn]
	result := a - b
	c.updateFlagsSub(a, b, 0, result)
	c.r[rd] = result
	return status.OK
}

func execAddImm3(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	imm3, rs, rd := addSubOperands(instr)
	a, b := c.r[rs], imm3
	result := a + b
	c.updateFlagsAdd(a, b, 0, result)
	c.r[rd] = result
	return status.OK
}

func execSubImm3(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	imm3, rs, rd := addSubOperands(instr)
	a, b := c.r[rs], imm3
	result := a - b
	c.updateFlagsSub(a, b, 0, result)
	c.r[rd] = result
	return status.OK
}

// Format 3: move/compare/add/subtract immediate. Rd is bits 10:8, imm8 is
// bits 7:0.
func imm8Operands(instr uint16) (rd int, imm8 uint32) {
	return int(instr>>8) & 0x7, uint32(instr) & 0xFF
}

// execMovImm leaves the condition flags untouched.
func execMovImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, imm8 := imm8Operands(instr)
	c.r[rd] = imm8
	return status.OK
}

func execCmpImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, imm8 := imm8Operands(instr)
	result := c.r[rd] - imm8
	c.updateFlagsSub(c.r[rd], imm8, 0, result)
	return status.OK
}

func execAddImm8(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, imm8 := imm8Operands(instr)
	a := c.r[rd]
	result := a + imm8
	c.updateFlagsAdd(a, imm8, 0, result)
	c.r[rd] = result
	return status.OK
}

func execSubImm8(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, imm8 := imm8Operands(instr)
	a := c.r[rd]
	result := a - imm8
	c.updateFlagsSub(a, imm8, 0, result)
	c.r[rd] = result
	return status.OK
}
