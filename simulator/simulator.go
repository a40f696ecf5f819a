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

// Package simulator composes the core, bus, NVIC and peripherals into one
// runnable machine, and adds the one thing none of those own individually:
// a breakpoint registry and the step/run loop that checks it.
package simulator

import (
	"github.com/tinunadno/stm32-emulator/assert"
	"github.com/tinunadno/stm32-emulator/hardware/core"
	"github.com/tinunadno/stm32-emulator/hardware/mcubus"
	"github.com/tinunadno/stm32-emulator/hardware/mcumem"
	"github.com/tinunadno/stm32-emulator/hardware/nvic"
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/hardware/timer"
	"github.com/tinunadno/stm32-emulator/hardware/usart"
)

// Register page bases and sizes, per the external memory map.
const (
	TimerBase = 0x40000000
	TimerSize = 0x400

	USARTBase = 0x40013800
	USARTSize = 0x400

	// TimerIRQ and USARTIRQ are this board's fixed IRQ line assignments.
	TimerIRQ = 28
	USARTIRQ = 37
)

// peripheral is anything that advances by one core step.
type peripheral interface {
	Tick()
	Reset()
}

// Simulator owns every hardware component and the breakpoint registry the
// debugger surface needs, none of which belongs to the core itself.
type Simulator struct {
	Core  *core.Core
	Bus   *mcubus.Bus
	NVIC  *nvic.NVIC
	Mem   *mcumem.Memory
	Timer *timer.Timer
	USART *usart.USART

	peripherals []peripheral
	breakpoints map[uint32]struct{}
	halted      bool

	// stepGoroutine is the goroutine ID captured on the first Step call.
	// This emulator's single-threaded design assumes every Step for a
	// given Simulator happens on one goroutine; 0 means unset.
	stepGoroutine uint64
}

// New builds a simulator with the fixed memory map this emulator targets:
// aliased+real flash, SRAM, one timer and one USART, wired to one NVIC.
func New() *Simulator {
	mem := mcumem.New()
	bus := mcubus.New()
	nv := nvic.New()
	tmr := timer.New(nv, TimerIRQ)
	ua := usart.New(nv, USARTIRQ)

	bus.Register(mem.FlashRegion(mcumem.FlashBase))
	bus.Register(mem.FlashRegion(mcumem.FlashAliasBase))
	bus.Register(mem.SRAMRegion(mcumem.SRAMBase))
	bus.Register(tmr.Region(TimerBase, TimerSize))
	bus.Register(ua.Region(USARTBase, USARTSize))

	c := core.New(bus, nv)

	return &Simulator{
		Core:        c,
		Bus:         bus,
		NVIC:        nv,
		Mem:         mem,
		Timer:       tmr,
		USART:       ua,
		peripherals: []peripheral{tmr, ua},
		breakpoints: make(map[uint32]struct{}),
	}
}

// Load copies image into flash starting at offset 0, then resets.
func (s *Simulator) Load(image []byte) {
	s.Mem.LoadFlash(image)
	s.Reset()
}

// Reset is idempotent: it re-initializes every peripheral, the NVIC and the
// core (SRAM is cleared; flash is not), and clears the halt flag.
func (s *Simulator) Reset() {
	s.Mem.Reset()
	s.NVIC.Reset()
	for _, p := range s.peripherals {
		p.Reset()
	}
	s.Core.Reset()
	s.halted = false
}

// Halt is idempotent: repeated calls leave the simulator halted.
func (s *Simulator) Halt() {
	s.halted = true
	s.Core.Halt()
}

// Halted reports whether Step will currently refuse to advance.
func (s *Simulator) Halted() bool {
	return s.halted || s.Core.Halted()
}

// AddBreakpoint registers addr as a breakpoint.
func (s *Simulator) AddBreakpoint(addr uint32) {
	s.breakpoints[addr] = struct{}{}
}

// RemoveBreakpoint clears a previously registered breakpoint.
func (s *Simulator) RemoveBreakpoint(addr uint32) {
	delete(s.breakpoints, addr)
}

// Breakpoints returns the currently registered breakpoint addresses.
func (s *Simulator) Breakpoints() []uint32 {
	addrs := make([]uint32, 0, len(s.breakpoints))
	for addr := range s.breakpoints {
		addrs = append(addrs, addr)
	}
	return addrs
}

// Step ticks every peripheral in registration order, steps the core once,
// then checks the new PC against the breakpoint registry. A fault or halt
// from the core step is returned immediately, before the breakpoint check.
func (s *Simulator) Step() status.Code {
	if gid := assert.GetGoRoutineID(); s.stepGoroutine == 0 {
		s.stepGoroutine = gid
	} else if gid != s.stepGoroutine {
		panic("simulator: Step called from more than one goroutine")
	}

	if s.Halted() {
		return status.Halted
	}

	for _, p := range s.peripherals {
		p.Tick()
	}

	result := s.Core.Step()
	if result != status.OK {
		return result
	}

	if _, hit := s.breakpoints[s.Core.Reg(core.PC)]; hit {
		return status.BreakpointHit
	}
	return status.OK
}

// Snapshot is a read-only copy of the subset of state the instrumentation
// dashboard displays. It carries no references back into the simulator, so
// a background poller can hold onto it without racing the step loop.
type Snapshot struct {
	Cycles          uint64
	NVICPending     uint64
	NVICActive      uint64
	TimerCount      uint32
	TimerAutoReload uint32
	USARTStatus     uint16
}

// Snapshot returns the current values the dashboard instrument displays.
// Safe to call between Step calls on the same goroutine; this emulator's
// single-threaded design means there is no concurrent Step to race against.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		Cycles:          s.Core.Cycles(),
		NVICPending:     s.NVIC.PendingMask(),
		NVICActive:      s.NVIC.ActiveMask(),
		TimerCount:      s.Timer.Count(),
		TimerAutoReload: s.Timer.AutoReload(),
		USARTStatus:     s.USART.Status(),
	}
}

// Run steps until halted, a non-OK/non-breakpoint status is returned, or a
// breakpoint fires, and returns that terminal status.
func (s *Simulator) Run() status.Code {
	for {
		result := s.Step()
		if result != status.OK {
			return result
		}
	}
}
