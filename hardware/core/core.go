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

// Bus is everything the core needs from the memory bus: little-endian
// fetch/load/store at the given width, in bytes.
type Bus interface {
	Read(addr uint32, size uint8) uint32
	Write(addr uint32, value uint32, size uint8) status.Code
}

// InterruptController is everything the core needs from the NVIC.
type InterruptController interface {
	NextPreemptable() (irq int, ok bool)
	Acknowledge(irq int)
	Complete(irq int)
}

// Core holds the full architectural state of the instruction engine:
// sixteen general registers, xPSR, mode bits, the active-exception marker
// and the cycle counter.
type Core struct {
	r    [16]uint32
	xpsr uint32

	thumbMode     bool
	interruptible bool
	currentIRQ    int // 0 = none active, else irq+1
	cycles        uint64
	halted        bool

	bus  Bus
	nvic InterruptController
}

// New creates a Core wired to bus and nvic. Call Reset before stepping.
func New(bus Bus, nvic InterruptController) *Core {
	return &Core{bus: bus, nvic: nvic}
}

// Reset reads the initial SP and PC from the vector table at address 0,
// clears every other register, and sets xPSR to just the Thumb bit.
func (c *Core) Reset() {
	for i := range c.r {
		c.r[i] = 0
	}
	c.xpsr = ThumbBit
	c.r[SP] = c.bus.Read(0x00000000, 4)
	c.r[PC] = c.bus.Read(0x00000004, 4) &^ 1
	c.thumbMode = true
	c.interruptible = true
	c.currentIRQ = 0
	c.cycles = 0
	c.halted = false
}

// Halt sets the halt flag; Step becomes a no-op until Reset clears it.
func (c *Core) Halt() {
	c.halted = true
}

// Halted reports whether the core is currently halted.
func (c *Core) Halted() bool {
	return c.halted
}

// Cycles returns the monotonically increasing cycle counter.
func (c *Core) Cycles() uint64 {
	return c.cycles
}

// Reg returns the value of general register n (0-15).
func (c *Core) Reg(n int) uint32 {
	return c.r[n]
}

// SetReg writes general register n (0-15) directly, bypassing the
// EXC_RETURN detection that a normal instruction-driven PC write goes
// through. Used by the debugger surface.
func (c *Core) SetReg(n int, v uint32) {
	c.r[n] = v
}

// XPSR returns the program status word.
func (c *Core) XPSR() uint32 {
	return c.xpsr
}

// SetXPSR writes the program status word directly. Used by the debugger
// surface.
func (c *Core) SetXPSR(v uint32) {
	c.xpsr = v
}

// branchTo is the single site where PC is assigned from a computed value.
// Any EXC_RETURN token written here triggers exception return instead of an
// ordinary branch, regardless of whether it arrived via BX, POP, or a
// PC-writing MOV/ADD.
func (c *Core) branchTo(target uint32) {
	if isExcReturn(target) {
		c.exitException()
		return
	}
	c.r[PC] = target &^ 1
}

// Step fetches, decodes and executes exactly one instruction, advances the
// cycle counter, and then — if the core is interruptible — checks the NVIC
// for a preemptable IRQ and performs exception entry if one is found. It
// returns status.Halted if the core was already halted, status.
// InvalidInstruction if no decode table entry matched (the core halts in
// that case), or status.OK otherwise.
func (c *Core) Step() status.Code {
	if c.halted {
		return status.Halted
	}

	pc := c.r[PC]
	instr := uint16(c.bus.Read(pc, 2))

	pcWritten := false

	top5 := instr >> 11
	if top5 == 0b11101 || top5 == 0b11110 || top5 == 0b11111 {
		hw2 := uint16(c.bus.Read(pc+2, 2))
		result := c.execute32(pc, instr, hw2, &pcWritten)
		if result != status.OK {
			c.halted = true
			return result
		}
		if !pcWritten {
			c.r[PC] = pc + 4
		}
	} else {
		entry := lookupThumb(instr)
		if entry == nil {
			logger.Logf("core", "unknown instruction 0x%04X at PC=0x%08X", instr, pc)
			c.halted = true
			return status.InvalidInstruction
		}
		result := entry.exec(c, pc, instr, &pcWritten)
		if result != status.OK {
			c.halted = true
			return result
		}
		if !pcWritten {
			c.r[PC] = pc + 2
		}
	}

	c.cycles++

	if c.interruptible {
		if irq, ok := c.nvic.NextPreemptable(); ok {
			c.enterException(irq)
		}
	}

	return status.OK
}

// enterException stacks the exception frame, sets LR to the thread/MSP
// EXC_RETURN token, loads PC from the IRQ's vector, and acknowledges the
// IRQ with the NVIC.
func (c *Core) enterException(irq int) {
	c.r[SP] -= 32
	frame := c.r[SP]

	c.bus.Write(frame+0, c.r[0], 4)
	c.bus.Write(frame+4, c.r[1], 4)
	c.bus.Write(frame+8, c.r[2], 4)
	c.bus.Write(frame+12, c.r[3], 4)
	c.bus.Write(frame+16, c.r[12], 4)
	c.bus.Write(frame+20, c.r[LR], 4)
	c.bus.Write(frame+24, c.r[PC], 4)
	c.bus.Write(frame+28, c.xpsr, 4)

	c.r[LR] = ExcReturnThreadMSP

	vectorAddr := uint32(16+irq) * 4
	handler := c.bus.Read(vectorAddr, 4)
	c.r[PC] = handler &^ 1

	c.nvic.Acknowledge(irq)
	c.currentIRQ = irq + 1
}

// exitException unstacks the exception frame and completes the active IRQ
// with the NVIC.
func (c *Core) exitException() {
	frame := c.r[SP]

	c.r[0] = c.bus.Read(frame+0, 4)
	c.r[1] = c.bus.Read(frame+4, 4)
	c.r[2] = c.bus.Read(frame+8, 4)
	c.r[3] = c.bus.Read(frame+12, 4)
	c.r[12] = c.bus.Read(frame+16, 4)
	c.r[LR] = c.bus.Read(frame+20, 4)
	c.r[PC] = c.bus.Read(frame+24, 4)
	c.xpsr = c.bus.Read(frame+28, 4)

	c.r[SP] = frame + 32

	if c.currentIRQ > 0 {
		c.nvic.Complete(c.currentIRQ - 1)
	}
	c.currentIRQ = 0
}

// execute32 handles the one 32-bit Thumb-2 encoding this core supports: BL.
func (c *Core) execute32(pc uint32, hw1, hw2 uint16, pcWritten *bool) status.Code {
	if hw1&0xF800 == 0xF000 && hw2&0xD000 == 0xD000 {
		S := uint32(hw1>>10) & 1
		J1 := uint32(hw2>>13) & 1
		J2 := uint32(hw2>>11) & 1
		I1 := ^(J1 ^ S) & 1
		I2 := ^(J2 ^ S) & 1
		imm10 := uint32(hw1) & 0x3FF
		imm11 := uint32(hw2) & 0x7FF

		raw := (S << 24) | (I1 << 23) | (I2 << 22) | (imm10 << 12) | (imm11 << 1)
		offset := signExtend(raw, 25)

		c.r[LR] = (pc + 4) | 1
		c.r[PC] = uint32(int64(pc) + 4 + int64(offset))
		*pcWritten = true
		return status.OK
	}

	logger.Logf("core", "unimplemented 32-bit instruction 0x%04X 0x%04X at PC=0x%08X", hw1, hw2, pc)
	return status.InvalidInstruction
}
