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

// execFunc executes one decoded 16-bit Thumb instruction. instrAddr is the
// address the instruction was fetched from (== c.r[PC] at entry, before any
// advancement); PC-relative addressing uses instrAddr+4 per the ARM
// pipeline convention. exec sets *pcWritten to true if it assigned PC
// itself (branch, BX, exception return, PC-writing load); Step advances PC
// by the instruction size only when it's left false.
type execFunc func(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code

type thumbEntry struct {
	mask    uint16
	pattern uint16
	exec    execFunc
	name    string
}

// thumbTable is a priority-ordered list of mask/pattern pairs: the first
// entry whose pattern matches (instr & mask) fires. Entries are grouped by
// format, mostly from more specific (higher popcount mask) to broader; no
// earlier entry's pattern overlaps a later, more specific one, so none is
// shadowed.
var thumbTable = []thumbEntry{
	{0xFFFF, 0xBF00, execNop, "NOP"},

	// Format 4: ALU operations on low registers
	{0xFFC0, 0x4000, execAnd, "AND"},
	{0xFFC0, 0x4040, execEor, "EOR"},
	{0xFFC0, 0x4080, execLslReg, "LSL reg"},
	{0xFFC0, 0x40C0, execLsrReg, "LSR reg"},
	{0xFFC0, 0x4100, execAsrReg, "ASR reg"},
	{0xFFC0, 0x4140, execAdc, "ADC"},
	{0xFFC0, 0x4180, execSbc, "SBC"},
	{0xFFC0, 0x41C0, execRorReg, "ROR reg"},
	{0xFFC0, 0x4200, execTst, "TST"},
	{0xFFC0, 0x4240, execNeg, "NEG"},
	{0xFFC0, 0x4280, execCmpReg, "CMP reg"},
	{0xFFC0, 0x42C0, execCmn, "CMN"},
	{0xFFC0, 0x4300, execOrr, "ORR"},
	{0xFFC0, 0x4340, execMul, "MUL"},
	{0xFFC0, 0x4380, execBic, "BIC"},
	{0xFFC0, 0x43C0, execMvn, "MVN"},

	// Format 5: hi register operations / branch exchange
	{0xFF80, 0x4700, execBx, "BX"},
	{0xFF00, 0x4400, execAddHi, "ADD hi"},
	{0xFF00, 0x4500, execCmpHi, "CMP hi"},
	{0xFF00, 0x4600, execMovHi, "MOV hi"},

	// Formats 7 & 8: load/store with register offset
	{0xFE00, 0x5000, execStrReg, "STR reg"},
	{0xFE00, 0x5400, execStrbReg, "STRB reg"},
	{0xFE00, 0x5800, execLdrReg, "LDR reg"},
	{0xFE00, 0x5C00, execLdrbReg, "LDRB reg"},
	{0xFE00, 0x5200, execStrhReg, "STRH reg"},
	{0xFE00, 0x5600, execLdrsbReg, "LDRSB reg"},
	{0xFE00, 0x5A00, execLdrhReg, "LDRH reg"},
	{0xFE00, 0x5E00, execLdrshReg, "LDRSH reg"},

	// Format 2: add/subtract
	{0xFE00, 0x1800, execAddReg3, "ADD reg"},
	{0xFE00, 0x1A00, execSubReg3, "SUB reg"},
	{0xFE00, 0x1C00, execAddImm3, "ADD imm3"},
	{0xFE00, 0x1E00, execSubImm3, "SUB imm3"},

	// Format 14: push/pop
	{0xFE00, 0xB400, execPush, "PUSH"},
	{0xFE00, 0xBC00, execPop, "POP"},

	// Format 1: move shifted register
	{0xF800, 0x0000, execLslImm, "LSL imm"},
	{0xF800, 0x0800, execLsrImm, "LSR imm"},
	{0xF800, 0x1000, execAsrImm, "ASR imm"},

	// Format 3: move/compare/add/subtract immediate
	{0xF800, 0x2000, execMovImm, "MOV imm"},
	{0xF800, 0x2800, execCmpImm, "CMP imm"},
	{0xF800, 0x3000, execAddImm8, "ADD imm8"},
	{0xF800, 0x3800, execSubImm8, "SUB imm8"},

	// Format 6: PC-relative load
	{0xF800, 0x4800, execLdrPc, "LDR PC-rel"},

	// Format 9: load/store with immediate offset (word/byte)
	{0xF800, 0x6000, execStrImm, "STR imm"},
	{0xF800, 0x6800, execLdrImm, "LDR imm"},
	{0xF800, 0x7000, execStrbImm, "STRB imm"},
	{0xF800, 0x7800, execLdrbImm, "LDRB imm"},

	// Format 10: load/store halfword immediate offset
	{0xF800, 0x8000, execStrhImm, "STRH imm"},
	{0xF800, 0x8800, execLdrhImm, "LDRH imm"},

	// Format 11: SP-relative load/store
	{0xF800, 0x9000, execStrSp, "STR SP"},
	{0xF800, 0x9800, execLdrSp, "LDR SP"},

	// Format 12: load address
	{0xF800, 0xA000, execAdr, "ADR"},
	{0xF800, 0xA800, execAddSpImm, "ADD SP imm"},

	// Format 13: add offset to SP
	{0xFF00, 0xB000, execAddSubSp, "ADD/SUB SP"},

	// Format 18: unconditional branch
	{0xF800, 0xE000, execB, "B"},

	// Format 16: conditional branch (and SVC, same major group)
	{0xF000, 0xD000, execBCond, "B<cond>/SVC"},
}

// lookupThumb scans thumbTable in order and returns the first matching
// entry, or nil if the encoding is unknown.
func lookupThumb(instr uint16) *thumbEntry {
	for i := range thumbTable {
		if instr&thumbTable[i].mask == thumbTable[i].pattern {
			return &thumbTable[i]
		}
	}
	return nil
}
