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

import (
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/logger"
)

// Condition codes, as encoded in the 4-bit cond field of Format 16. 0xF is
// reserved for SVC in this encoding group, not a true condition.
const (
	condEQ = 0x0
	condNE = 0x1
	condCS = 0x2
	condCC = 0x3
	condMI = 0x4
	condPL = 0x5
	condVS = 0x6
	condVC = 0x7
	condHI = 0x8
	condLS = 0x9
	condGE = 0xA
	condLT = 0xB
	condGT = 0xC
	condLE = 0xD
	condAL = 0xE
	condSVC = 0xF
)

// conditionPassed evaluates one of the fifteen real ARM condition codes
// against the current N/Z/C/V flags.
func (c *Core) conditionPassed(cond uint8) bool {
	n, z, carry, v := c.flagN(), c.flagZ(), c.flagC(), c.flagV()
	switch cond {
	case condEQ:
		return z
	case condNE:
		return !z
	case condCS:
		return carry
	case condCC:
		return !carry
	case condMI:
		return n
	case condPL:
		return !n
	case condVS:
		return v
	case condVC:
		return !v
	case condHI:
		return carry && !z
	case condLS:
		return !carry || z
	case condGE:
		return n == v
	case condLT:
		return n != v
	case condGT:
		return !z && n == v
	case condLE:
		return z || n != v
	case condAL:
		return true
	}
	return false
}

// execB implements Format 18: an unconditional branch with an 11-bit signed
// offset, doubled, relative to instrAddr+4.
func execB(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	raw := uint32(instr&0x7FF) << 1
	offset := signExtend(raw, 12)
	target := uint32(int64(instrAddr) + 4 + int64(offset))
	c.branchTo(target)
	*pcWritten = true
	return status.OK
}

// execBCond implements Format 16: either a conditional branch with an
// 8-bit signed offset (doubled, relative to instrAddr+4), or, when the cond
// field is 0xF, an SVC call. The SVC operand is logged and control falls
// through to the next instruction; host-side notification of the call is
// left to whatever is listening on the log.
func execBCond(c *Core, instrAddr uint32, instr uint16, pcWritten *bool) status.Code {
	cond := uint8(instr>>8) & 0xF
	if cond == condSVC {
		logger.Logf("core", "SVC #%d at PC=0x%08X", instr&0xFF, instrAddr)
		return status.OK
	}

	if !c.conditionPassed(cond) {
		return status.OK
	}

	raw := uint32(instr&0xFF) << 1
	offset := signExtend(raw, 9)
	target := uint32(int64(instrAddr) + 4 + int64(offset))
	c.branchTo(target)
	*pcWritten = true
	return status.OK
}
