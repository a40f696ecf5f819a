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
	"testing"

	"github.com/tinunadno/stm32-emulator/hardware/mcubus"
	"github.com/tinunadno/stm32-emulator/hardware/mcumem"
	"github.com/tinunadno/stm32-emulator/hardware/nvic"
	"github.com/tinunadno/stm32-emulator/hardware/status"
)

const resetHandlerAddr = 0x08000080

// buildCore assembles a flash image (vector table + instruction bytes
// supplied via the layout function) and returns a reset core over it.
func buildCore(t *testing.T, sp uint32, layout func(img []byte) []byte) *Core {
	t.Helper()

	img := make([]byte, 0x200)
	img = write32(img, 0x00, sp)
	img = write32(img, 0x04, resetHandlerAddr|1)
	img = layout(img)

	mem := mcumem.New()
	mem.LoadFlash(img)

	bus := mcubus.New()
	if c := bus.Register(mem.FlashRegion(mcumem.FlashBase)); c.IsFailure() {
		t.Fatalf("flash region registration failed")
	}
	if c := bus.Register(mem.FlashRegion(mcumem.FlashAliasBase)); c.IsFailure() {
		t.Fatalf("flash alias region registration failed")
	}
	if c := bus.Register(mem.SRAMRegion(mcumem.SRAMBase)); c.IsFailure() {
		t.Fatalf("sram region registration failed")
	}

	nv := nvic.New()
	c := New(bus, nv)
	c.Reset()
	return c
}

func codeOffset(addr uint32) uint32 { return addr - 0x08000000 }

func TestArithmeticAndFlags(t *testing.T) {
	c := buildCore(t, 0x20004FF0, func(img []byte) []byte {
		off := codeOffset(resetHandlerAddr)
		img = write16(img, off+0, asmMovImm(0, 100))
		img = write16(img, off+2, asmMovImm(1, 50))
		img = write16(img, off+4, asmAddReg3(2, 0, 1)) // R2 = R0+R1
		img = write16(img, off+6, asmSubReg3(3, 0, 2)) // R3 = R0-R2
		return img
	})

	for i := 0; i < 4; i++ {
		if result := c.Step(); result != status.OK {
			t.Fatalf("step %d: %v", i, result)
		}
	}

	if c.Reg(2) != 150 {
		t.Errorf("R2 = %d, want 150", c.Reg(2))
	}
	if c.Reg(3) != 0xFFFFFFCE {
		t.Errorf("R3 = 0x%08X, want 0xFFFFFFCE", c.Reg(3))
	}
	if !c.flagN() {
		t.Error("N flag should be set")
	}
	if c.flagC() {
		t.Error("C flag should be clear")
	}
}

func TestConditionalBranchTaken(t *testing.T) {
	c := buildCore(t, 0x20004FF0, func(img []byte) []byte {
		off := codeOffset(resetHandlerAddr)
		img = write16(img, off+0, asmMovImm(0, 10))
		img = write16(img, off+2, asmMovImm(1, 10))
		img = write16(img, off+4, asmCmpReg(0, 1))
		img = write16(img, off+6, asmBCond(condEQ, 0)) // skips the next instruction
		img = write16(img, off+8, asmMovImm(2, 0xFF))  // skipped
		img = write16(img, off+10, asmMovImm(3, 1))
		return img
	})

	for i := 0; i < 5; i++ {
		if result := c.Step(); result != status.OK {
			t.Fatalf("step %d: %v", i, result)
		}
	}

	if c.Reg(2) != 0 {
		t.Errorf("R2 = %d, want 0 (instruction should have been skipped)", c.Reg(2))
	}
	if c.Reg(3) != 1 {
		t.Errorf("R3 = %d, want 1", c.Reg(3))
	}
	if !c.flagZ() {
		t.Error("Z flag should be set")
	}
}

func TestCallAndReturn(t *testing.T) {
	const blAddr = resetHandlerAddr
	const targetAddr = 0x0800008C

	c := buildCore(t, 0x20004FF0, func(img []byte) []byte {
		hw1, hw2 := asmBL(blAddr, targetAddr)
		blOff := codeOffset(blAddr)
		img = write16(img, blOff+0, hw1)
		img = write16(img, blOff+2, hw2)

		tOff := codeOffset(targetAddr)
		img = write16(img, tOff+0, asmMovImm(0, 0xAA))
		img = write16(img, tOff+2, asmBx(LR))
		return img
	})

	if result := c.Step(); result != status.OK { // BL
		t.Fatalf("BL step: %v", result)
	}
	if c.Reg(LR) != 0x08000085 {
		t.Errorf("LR = 0x%08X, want 0x08000085", c.Reg(LR))
	}
	if c.Reg(PC) != targetAddr {
		t.Errorf("PC = 0x%08X, want 0x%08X", c.Reg(PC), uint32(targetAddr))
	}

	if result := c.Step(); result != status.OK { // MOV R0,#0xAA
		t.Fatalf("MOV step: %v", result)
	}
	if result := c.Step(); result != status.OK { // BX LR
		t.Fatalf("BX step: %v", result)
	}

	if c.Reg(0) != 0xAA {
		t.Errorf("R0 = 0x%08X, want 0xAA", c.Reg(0))
	}
	if c.Reg(PC) != 0x08000084 {
		t.Errorf("PC = 0x%08X, want 0x08000084", c.Reg(PC))
	}
}

func TestResetEstablishesThumbAndAlignedPC(t *testing.T) {
	c := buildCore(t, 0x20004FF0, func(img []byte) []byte { return img })

	if c.Reg(PC)%2 != 0 {
		t.Errorf("PC = 0x%08X is not 2-byte aligned", c.Reg(PC))
	}
	if c.XPSR()&ThumbBit == 0 {
		t.Error("Thumb bit should be set after reset")
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	c := buildCore(t, 0x20004FF0, func(img []byte) []byte {
		off := codeOffset(resetHandlerAddr)
		img = write16(img, off+0, asmMovImm(0, 1))
		img = write16(img, off+2, asmMovImm(1, 2))
		img = write16(img, off+4, asmMovImm(2, 3))
		img = write16(img, off+6, asmPush(0b00000111, false)) // R0-R2
		img = write16(img, off+8, asmMovImm(0, 0))
		img = write16(img, off+10, asmMovImm(1, 0))
		img = write16(img, off+12, asmMovImm(2, 0))
		img = write16(img, off+14, asmPop(0b00000111, false))
		return img
	})

	spBefore := c.Reg(SP)
	for i := 0; i < 3; i++ {
		c.Step()
	}
	if result := c.Step(); result != status.OK { // PUSH
		t.Fatalf("push: %v", result)
	}
	if c.Reg(SP) != spBefore-12 {
		t.Errorf("SP after push = 0x%08X, want 0x%08X", c.Reg(SP), spBefore-12)
	}
	for i := 0; i < 3; i++ {
		c.Step()
	}
	if result := c.Step(); result != status.OK { // POP
		t.Fatalf("pop: %v", result)
	}

	if c.Reg(SP) != spBefore {
		t.Errorf("SP after pop = 0x%08X, want 0x%08X (unchanged)", c.Reg(SP), spBefore)
	}
	if c.Reg(0) != 1 || c.Reg(1) != 2 || c.Reg(2) != 3 {
		t.Errorf("registers after pop = %d,%d,%d, want 1,2,3", c.Reg(0), c.Reg(1), c.Reg(2))
	}
}

func TestUnknownEncodingHaltsWithInvalidInstruction(t *testing.T) {
	c := buildCore(t, 0x20004FF0, func(img []byte) []byte {
		off := codeOffset(resetHandlerAddr)
		// 0x4780 is the reserved BX/BLX hi-register form with H1 set
		// (Rd != 0b000 in a context that requires it); no entry in
		// thumbTable matches it.
		img = write16(img, off, 0x4780)
		return img
	})

	result := c.Step()
	if result != status.InvalidInstruction {
		t.Fatalf("step = %v, want InvalidInstruction", result)
	}
	if !c.Halted() {
		t.Error("core should be halted after an invalid instruction")
	}
	if c.Reg(PC) != resetHandlerAddr {
		t.Errorf("PC = 0x%08X, want unchanged at 0x%08X", c.Reg(PC), uint32(resetHandlerAddr))
	}
}

func TestAddOverflowAtSignedBoundary(t *testing.T) {
	c := buildCore(t, 0x20004FF0, func(img []byte) []byte {
		off := codeOffset(resetHandlerAddr)
		img = write16(img, off+0, asmAddReg3(0, 0, 1))
		return img
	})
	c.SetReg(0, 0x7FFFFFFF)
	c.SetReg(1, 1)

	if result := c.Step(); result != status.OK {
		t.Fatalf("add: %v", result)
	}
	if c.Reg(0) != 0x80000000 {
		t.Errorf("R0 = 0x%08X, want 0x80000000", c.Reg(0))
	}
	if !c.flagV() {
		t.Error("V flag should be set crossing the signed boundary")
	}
	if !c.flagN() {
		t.Error("N flag should be set")
	}
}
