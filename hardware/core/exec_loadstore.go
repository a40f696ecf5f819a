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

// Formats 7 & 8: load/store with register offset. Ro is bits 8:6, Rb is
// bits 5:3, Rd is bits 2:0; the effective address is Rb + Ro.
func regOffsetOperands(instr uint16) (ro, rb, rd int) {
	return int(instr>>6) & 0x7, int(instr>>3) & 0x7, int(instr) & 0x7
}

func execStrReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	ro, rb, rd := regOffsetOperands(instr)
	c.bus.Write(c.r[rb]+c.r[ro], c.r[rd], 4)
	return status.OK
}

func execStrbReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	ro, rb, rd := regOffsetOperands(instr)
	c.bus.Write(c.r[rb]+c.r[ro], c.r[rd]&0xFF, 1)
	return status.OK
}

func execLdrReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	ro, rb, rd := regOffsetOperands(instr)
	c.r[rd] = c.bus.Read(c.r[rb]+c.r[ro], 4)
	return status.OK
}

func execLdrbReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	ro, rb, rd := regOffsetOperands(instr)
	c.r[rd] = c.bus.Read(c.r[rb]+c.r[ro], 1) & 0xFF
	return status.OK
}

func execStrhReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	ro, rb, rd := regOffsetOperands(instr)
	c.bus.Write(c.r[rb]+c.r[ro], c.r[rd]&0xFFFF, 2)
	return status.OK
}

func execLdrhReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	ro, rb, rd := regOffsetOperands(instr)
	c.r[rd] = c.bus.Read(c.r[rb]+c.r[ro], 2) & 0xFFFF
	return status.OK
}

func execLdrsbReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	ro, rb, rd := regOffsetOperands(instr)
	v := c.bus.Read(c.r[rb]+c.r[ro], 1) & 0xFF
	c.r[rd] = uint32(signExtend(v, 8))
	return status.OK
}

func execLdrshReg(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	ro, rb, rd := regOffsetOperands(instr)
	v := c.bus.Read(c.r[rb]+c.r[ro], 2) & 0xFFFF
	c.r[rd] = uint32(signExtend(v, 16))
	return status.OK
}

// Format 9: load/store word/byte with a 5-bit immediate offset. offset5 is
// scaled by 4 for word accesses and used unscaled for byte accesses.
func imm5Operands(instr uint16) (offset5 uint32, rb, rd int) {
	return uint32(instr>>6) & 0x1F, int(instr>>3) & 0x7, int(instr) & 0x7
}

func execStrImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rb, rd := imm5Operands(instr)
	c.bus.Write(c.r[rb]+offset5*4, c.r[rd], 4)
	return status.OK
}

func execLdrImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rb, rd := imm5Operands(instr)
	c.r[rd] = c.bus.Read(c.r[rb]+offset5*4, 4)
	return status.OK
}

func execStrbImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rb, rd := imm5Operands(instr)
	c.bus.Write(c.r[rb]+offset5, c.r[rd]&0xFF, 1)
	return status.OK
}

func execLdrbImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rb, rd := imm5Operands(instr)
	c.r[rd] = c.bus.Read(c.r[rb]+offset5, 1) & 0xFF
	return status.OK
}

// Format 10: load/store halfword with a 5-bit immediate offset, scaled by 2.
func execStrhImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rb, rd := imm5Operands(instr)
	c.bus.Write(c.r[rb]+offset5*2, c.r[rd]&0xFFFF, 2)
	return status.OK
}

func execLdrhImm(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	offset5, rb, rd := imm5Operands(instr)
	c.r[rd] = c.bus.Read(c.r[rb]+offset5*2, 2) & 0xFFFF
	return status.OK
}

// Format 11: SP-relative load/store. Rd is bits 10:8, word8 is bits 7:0,
// scaled by 4.
func rdWord8Operands(instr uint16) (rd int, word8 uint32) {
	return int(instr>>8) & 0x7, uint32(instr) & 0xFF
}

func execStrSp(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, word8 := rdWord8Operands(instr)
	c.bus.Write(c.r[SP]+word8*4, c.r[rd], 4)
	return status.OK
}

func execLdrSp(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, word8 := rdWord8Operands(instr)
	c.r[rd] = c.bus.Read(c.r[SP]+word8*4, 4)
	return status.OK
}

// execLdrPc implements Format 6, PC-relative load: the base is PC+4 (the
// instruction's own address plus the pipeline offset), word-aligned down,
// plus an 8-bit immediate scaled by 4.
func execLdrPc(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	rd, word8 := rdWord8Operands(instr)
	base := (instrAddr + 4) &^ 3
	c.r[rd] = c.bus.Read(base+word8*4, 4)
	return status.OK
}
