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

// Format 4: ALU operations. Rs is bits 5:3, Rd is bits 2:0.
func aluOperands(instr uint16) (rs, rd int) {
	return int(instr>>3) & 0x7, int(instr) & 0x7
}

func execNop(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	return status.OK
}

func execAnd(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	c.r[rd] &= c.r[rs]
	c.updateNZ(c.r[rd])
	return status.OK
}

func execEor(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	c.r[rd] ^= c.r[rs]
	c.updateNZ(c.r[rd])
	return status.OK
}

func execOrr(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	c.r[rd] |= c.r[rs]
	c.updateNZ(c.r[rd])
	return status.OK
}

func execBic(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	c.r[rd] &^= c.r[rs]
	c.updateNZ(c.r[rd])
	return status.OK
}

func execMvn(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	c.r[rd] = ^c.r[rs]
	c.updateNZ(c.r[rd])
	return status.OK
}

func execTst(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	c.updateNZ(c.r[rd] & c.r[rs])
	return status.OK
}

func execMul(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	c.r[rd] = c.r[rd] * c.r[rs]
	c.updateNZ(c.r[rd])
	return status.OK
}

func execNeg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	result := uint32(0) - c.r[rs]
	c.updateFlagsSub(0, c.r[rs], 0, result)
	c.r[rd] = result
	return status.OK
}

func execCmpReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	result := c.r[rd] - c.r[rs]
	c.updateFlagsSub(c.r[rd], c.r[rs], 0, result)
	return status.OK
}

func execCmn(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	result := c.r[rd] + c.r[rs]
	c.updateFlagsAdd(c.r[rd], c.r[rs], 0, result)
	return status.OK
}

func execAdc(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	carryIn := uint32(0)
	if c.flagC() {
		carryIn = 1
	}
	a, b := c.r[rd], c.r[rs]
	result := a + b + carryIn
	c.updateFlagsAdd(a, b, carryIn, result)
	c.r[rd] = result
	return status.OK
}

// execSbc implements SBC using the a >= b + borrow_in carry form. The
// original reference has two independent core implementations that disagree
// here; this form is the one this module treats as authoritative.
func execSbc(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	carryIn := uint32(0)
	if c.flagC() {
		carryIn = 1
	}
	borrowIn := 1 - carryIn
	a, b := c.r[rd], c.r[rs]
	result := a - b - borrowIn
	c.updateFlagsSub(a, b, borrowIn, result)
	c.r[rd] = result
	return status.OK
}

func execLslReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	shift := c.r[rs] & 0xFF
	result := c.r[rd]
	switch {
	case shift == 0:
		// no change, carry unchanged
	case shift < 32:
		c.setFlag(FlagC, (result>>(32-shift))&1 != 0)
		result <<= shift
	case shift == 32:
		c.setFlag(FlagC, result&1 != 0)
		result = 0
	default:
		c.setFlag(FlagC, false)
		result = 0
	}
	c.r[rd] = result
	c.updateNZ(result)
	return status.OK
}

func execLsrReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	shift := c.r[rs] & 0xFF
	result := c.r[rd]
	switch {
	case shift == 0:
		// no change, carry unchanged
	case shift < 32:
		c.setFlag(FlagC, (result>>(shift-1))&1 != 0)
		result >>= shift
	case shift == 32:
		c.setFlag(FlagC, bit31(result))
		result = 0
	default:
		c.setFlag(FlagC, false)
		result = 0
	}
	c.r[rd] = result
	c.updateNZ(result)
	return status.OK
}

func execAsrReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	shift := c.r[rs] & 0xFF
	signed := int32(c.r[rd])
	var result uint32
	switch {
	case shift == 0:
		result = c.r[rd]
	case shift < 32:
		c.setFlag(FlagC, (c.r[rd]>>(shift-1))&1 != 0)
		result = uint32(signed >> shift)
	default:
		c.setFlag(FlagC, bit31(c.r[rd]))
		if signed < 0 {
			result = 0xFFFFFFFF
		} else {
			result = 0
		}
	}
	c.r[rd] = result
	c.updateNZ(result)
	return status.OK
}

// execRorReg implements register-form ROR. A shift amount of 0 leaves the
// register and carry untouched; a shift whose low 5 bits are 0 (a multiple
// of 32) sets carry from the sign bit without rotating.
func execRorReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rs, rd := aluOperands(instr)
	shift := c.r[rs] & 0xFF
	if shift == 0 {
		return status.OK
	}
	shift &= 0x1F
	v := c.r[rd]
	if shift == 0 {
		c.setFlag(FlagC, bit31(v))
	} else {
		c.setFlag(FlagC, (v>>(shift-1))&1 != 0)
		v = (v >> shift) | (v << (32 - shift))
		c.r[rd] = v
	}
	c.updateNZ(c.r[rd])
	return status.OK
}
