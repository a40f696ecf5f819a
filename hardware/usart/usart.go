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

// Package usart implements a single STM32-style USART: a one-byte-at-a-time
// transmit channel and a fixed-capacity receive ring buffer, both driving
// the NVIC on the conditions firmware expects.
package usart

import (
	"github.com/tinunadno/stm32-emulator/hardware/mcubus"
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/logger"
)

// Register offsets from the USART's base address.
const (
	OffsetSR  = 0x00
	OffsetDR  = 0x04
	OffsetBRR = 0x08
	OffsetCR1 = 0x0C
)

// Control register bits.
const (
	CR1RXEnable  = 1 << 2
	CR1TXEnable  = 1 << 3
	CR1RXNEIE    = 1 << 5
	CR1TCIE      = 1 << 6
	CR1TXEIE     = 1 << 7
	CR1USARTEnable = 1 << 13
)

// Status register bits.
const (
	SRRXNE = 1 << 5
	SRTC   = 1 << 6
	SRTXE  = 1 << 7
)

// rxBufferSize is the fixed capacity of the receive ring.
const rxBufferSize = 16

// InterruptController is the subset of *nvic.NVIC a peripheral needs.
type InterruptController interface {
	SetPending(irq int)
}

// OutputSink receives transmitted bytes, one per Tick in which a
// transmission completes.
type OutputSink interface {
	WriteByte(b byte)
}

// USART is a single serial port register block with TX and RX state.
type USART struct {
	sr  uint32
	brr uint32
	cr1 uint32

	txPending bool
	txChar    byte

	rxBuffer           [rxBufferSize]byte
	rxHead, rxTail, rxCount int

	nvic InterruptController
	irq  int

	output OutputSink
}

// New creates a USART wired to report RX/TX interrupts via nvic on irq.
// SR defaults to TXE|TC (transmitter ready), matching the reference
// implementation.
func New(nvic InterruptController, irq int) *USART {
	u := &USART{nvic: nvic, irq: irq}
	u.Reset()
	return u
}

// SetOutput installs the sink that receives transmitted bytes.
func (u *USART) SetOutput(sink OutputSink) {
	u.output = sink
}

// Reset zeroes every register except the IC/IRQ back-reference and the
// output sink, and restores the default SR value.
func (u *USART) Reset() {
	u.sr = SRTXE | SRTC
	u.brr = 0
	u.cr1 = 0
	u.txPending = false
	u.txChar = 0
	u.rxHead, u.rxTail, u.rxCount = 0, 0, 0
}

// Read implements the bus.Region read callback for the USART's register
// page.
func (u *USART) Read(offset uint32, _ uint8) uint32 {
	switch offset {
	case OffsetSR:
		return u.sr
	case OffsetDR:
		if u.rxCount == 0 {
			return 0
		}
		b := u.rxBuffer[u.rxTail]
		u.rxTail = (u.rxTail + 1) % rxBufferSize
		u.rxCount--
		if u.rxCount == 0 {
			u.sr &^= SRRXNE
		}
		return uint32(b)
	case OffsetBRR:
		return u.brr
	case OffsetCR1:
		return u.cr1
	default:
		logger.Logf("usart", "read from unknown offset 0x%02X", offset)
		return 0
	}
}

// Write implements the bus.Region write callback for the USART's register
// page. SR is write-zero-to-clear. Writing DR only latches a transmission if
// the USART-enable bit is set.
func (u *USART) Write(offset uint32, value uint32, _ uint8) status.Code {
	switch offset {
	case OffsetSR:
		u.sr &= value
	case OffsetDR:
		if u.cr1&CR1USARTEnable != 0 {
			u.txChar = byte(value)
			u.txPending = true
			u.sr &^= SRTXE | SRTC
		}
	case OffsetBRR:
		u.brr = value
	case OffsetCR1:
		u.cr1 = value
	default:
		logger.Logf("usart", "write to unknown offset 0x%02X", offset)
		return status.Error
	}
	return status.OK
}

// Region returns the bus.Region for this USART registered at base.
func (u *USART) Region(base uint32, size uint32) mcubus.Region {
	return mcubus.Region{
		Base:  base,
		Size:  size,
		Name:  "usart",
		Read:  u.Read,
		Write: u.Write,
	}
}

// Tick delivers a pending TX byte to the output sink, sets TXE and TC, and
// raises the IRQ if TXEIE is set; with no TX pending it is a no-op. RX plays
// no part here: RX delivery happens immediately in InjectRX, matching the
// reference implementation's host-driven model.
func (u *USART) Tick() {
	if !u.txPending {
		return
	}
	u.txPending = false
	if u.output != nil {
		u.output.WriteByte(u.txChar)
	}
	u.sr |= SRTXE | SRTC
	if u.cr1&CR1TXEIE != 0 {
		u.nvic.SetPending(u.irq)
	}
}

// InjectRX pushes a byte from the host into the RX ring. If the ring is
// full, the byte is dropped. If RX-not-empty interrupt is enabled and the
// USART is enabled, the IRQ is raised.
func (u *USART) InjectRX(b byte) {
	if u.rxCount >= rxBufferSize {
		logger.Log("usart", "RX buffer overflow, character dropped")
		return
	}
	u.rxBuffer[u.rxHead] = b
	u.rxHead = (u.rxHead + 1) % rxBufferSize
	u.rxCount++
	u.sr |= SRRXNE

	if u.cr1&CR1RXNEIE != 0 && u.cr1&CR1USARTEnable != 0 {
		u.nvic.SetPending(u.irq)
	}
}

// RXCount returns the number of bytes currently buffered, for instrumentation.
func (u *USART) RXCount() int { return u.rxCount }

// Status returns the current status register value, for instrumentation.
func (u *USART) Status() uint16 { return uint16(u.sr) }
