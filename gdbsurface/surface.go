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

// Package gdbsurface exposes the register/memory/execution control surface
// a remote debugger adapter needs: read/write every register, read/write
// arbitrary bus memory, single-step, continue-until-stop, and breakpoint
// management. The GDB Remote Serial Protocol transport itself (packet
// framing, checksums, socket handling) is a collaborator that sits on top
// of this surface; it is out of this module's scope.
package gdbsurface

import (
	"github.com/tinunadno/stm32-emulator/hardware/core"
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/logger"
	"github.com/tinunadno/stm32-emulator/simulator"
)

// NumRegisters is the count of registers a debugger can read/write by
// index: sixteen GPRs (0-15) plus xPSR (16).
const NumRegisters = 17

// XPSRIndex is the register index a debugger uses to address xPSR.
const XPSRIndex = 16

// Surface adapts a Simulator to the register/memory/execution operations a
// debugger adapter calls. It holds no state of its own beyond the
// simulator reference: every method is a thin, logged pass-through.
type Surface struct {
	sim *simulator.Simulator
}

// New wraps sim in a Surface.
func New(sim *simulator.Simulator) *Surface {
	return &Surface{sim: sim}
}

// ReadRegisters returns all 17 registers (R0-R15, then xPSR) in index order.
func (s *Surface) ReadRegisters() [NumRegisters]uint32 {
	var out [NumRegisters]uint32
	for i := 0; i < 16; i++ {
		out[i] = s.sim.Core.Reg(i)
	}
	out[XPSRIndex] = s.sim.Core.XPSR()
	return out
}

// WriteRegisters writes all 17 registers from regs, in index order.
func (s *Surface) WriteRegisters(regs [NumRegisters]uint32) {
	for i := 0; i < 16; i++ {
		s.sim.Core.SetReg(i, regs[i])
	}
	s.sim.Core.SetXPSR(regs[XPSRIndex])
}

// ReadRegister returns register n (0-15 are GPRs, 16 is xPSR).
func (s *Surface) ReadRegister(n int) uint32 {
	if n == XPSRIndex {
		return s.sim.Core.XPSR()
	}
	return s.sim.Core.Reg(n)
}

// WriteRegister writes register n (0-15 are GPRs, 16 is xPSR).
func (s *Surface) WriteRegister(n int, v uint32) {
	if n == XPSRIndex {
		s.sim.Core.SetXPSR(v)
		return
	}
	s.sim.Core.SetReg(n, v)
}

// ReadMemory reads n bytes starting at addr through the bus, one byte at a
// time so unaligned and arbitrary-length reads (as a debugger's "read
// memory" packet requires) are both supported.
func (s *Surface) ReadMemory(addr uint32, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(s.sim.Bus.Read(addr+uint32(i), 1))
	}
	return out
}

// WriteMemory writes data through the bus starting at addr, one byte at a
// time. It returns the first non-OK status encountered, or status.OK if
// every byte landed successfully.
func (s *Surface) WriteMemory(addr uint32, data []byte) status.Code {
	for i, b := range data {
		if code := s.sim.Bus.Write(addr+uint32(i), uint32(b), 1); code != status.OK {
			logger.Logf("gdb", "write memory failed at 0x%08X: %s", addr+uint32(i), code)
			return code
		}
	}
	return status.OK
}

// Step executes exactly one instruction.
func (s *Surface) Step() status.Code {
	return s.sim.Step()
}

// Continue runs until a breakpoint fires, an error status is returned, or
// the halt predicate reports true. The adapter polls its transport through
// halt between steps (see the ambient scope's note on non-blocking
// "continue") so an out-of-band break request can interrupt a long run.
func (s *Surface) Continue(halt func() bool) status.Code {
	for {
		if halt != nil && halt() {
			s.sim.Halt()
			return status.Halted
		}
		result := s.sim.Step()
		if result != status.OK {
			return result
		}
	}
}

// AddBreakpoint registers addr as a breakpoint.
func (s *Surface) AddBreakpoint(addr uint32) {
	s.sim.AddBreakpoint(addr)
}

// RemoveBreakpoint clears a previously registered breakpoint.
func (s *Surface) RemoveBreakpoint(addr uint32) {
	s.sim.RemoveBreakpoint(addr)
}

// Breakpoints returns every currently registered breakpoint address.
func (s *Surface) Breakpoints() []uint32 {
	return s.sim.Breakpoints()
}

// PC is a convenience accessor used by adapters reporting stop reasons.
func (s *Surface) PC() uint32 {
	return s.sim.Core.Reg(core.PC)
}
