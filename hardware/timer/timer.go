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

// Package timer implements a single STM32-style general-purpose timer: a
// prescaled up-counter that raises an IRQ through the NVIC on overflow.
package timer

import (
	"github.com/tinunadno/stm32-emulator/hardware/mcubus"
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/logger"
)

// Register offsets from the timer's base address.
const (
	OffsetCR1  = 0x00
	OffsetDIER = 0x0C
	OffsetSR   = 0x10
	OffsetCNT  = 0x24
	OffsetPSC  = 0x28
	OffsetARR  = 0x2C
)

// Bit positions within CR1, DIER and SR.
const (
	CR1CounterEnable = 1 << 0
	DIERUpdateIE     = 1 << 0
	SRUpdateFlag     = 1 << 0
)

// InterruptController is the subset of *nvic.NVIC a peripheral needs.
type InterruptController interface {
	SetPending(irq int)
}

// Timer is a prescaled up-counter with an auto-reload overflow interrupt.
type Timer struct {
	cr1  uint32
	dier uint32
	sr   uint32
	cnt  uint32
	psc  uint32
	arr  uint32

	prescalerCounter uint32

	nvic InterruptController
	irq  int
}

// New creates a Timer wired to report overflow via nvic on irq. arr defaults
// to 0xFFFFFFFF, matching the reference implementation's reset value.
func New(nvic InterruptController, irq int) *Timer {
	t := &Timer{nvic: nvic, irq: irq}
	t.Reset()
	return t
}

// Reset zeroes every register except the IC/IRQ back-reference and restores
// the default auto-reload value.
func (t *Timer) Reset() {
	t.cr1 = 0
	t.dier = 0
	t.sr = 0
	t.cnt = 0
	t.psc = 0
	t.arr = 0xFFFFFFFF
	t.prescalerCounter = 0
}

// Tick advances the timer by one cycle. It is a no-op unless the
// counter-enable bit of CR1 is set.
func (t *Timer) Tick() {
	if t.cr1&CR1CounterEnable == 0 {
		return
	}

	t.prescalerCounter++
	if t.prescalerCounter <= t.psc {
		return
	}
	t.prescalerCounter = 0
	t.cnt++

	if t.cnt >= t.arr && t.arr > 0 {
		t.cnt = 0
		t.sr |= SRUpdateFlag
		if t.dier&DIERUpdateIE != 0 {
			t.nvic.SetPending(t.irq)
		}
	}
}

// Read implements the bus.Region read callback for the timer's register
// page.
func (t *Timer) Read(offset uint32, _ uint8) uint32 {
	switch offset {
	case OffsetCR1:
		return t.cr1
	case OffsetDIER:
		return t.dier
	case OffsetSR:
		return t.sr
	case OffsetCNT:
		return t.cnt
	case OffsetPSC:
		return t.psc
	case OffsetARR:
		return t.arr
	default:
		logger.Logf("timer", "read from unknown offset 0x%02X", offset)
		return 0
	}
}

// Write implements the bus.Region write callback for the timer's register
// page. SR is write-zero-to-clear: the new value is old AND written.
func (t *Timer) Write(offset uint32, value uint32, _ uint8) status.Code {
	switch offset {
	case OffsetCR1:
		t.cr1 = value
	case OffsetDIER:
		t.dier = value
	case OffsetSR:
		t.sr &= value
	case OffsetCNT:
		t.cnt = value
	case OffsetPSC:
		t.psc = value
	case OffsetARR:
		t.arr = value
	default:
		logger.Logf("timer", "write to unknown offset 0x%02X", offset)
		return status.Error
	}
	return status.OK
}

// Region returns the bus.Region for this timer registered at base.
func (t *Timer) Region(base uint32, size uint32) mcubus.Region {
	return mcubus.Region{
		Base:  base,
		Size:  size,
		Name:  "timer",
		Read:  t.Read,
		Write: t.Write,
	}
}

// Count returns the current counter value, for instrumentation.
func (t *Timer) Count() uint32 { return t.cnt }

// AutoReload returns the configured auto-reload value, for instrumentation.
func (t *Timer) AutoReload() uint32 { return t.arr }
