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

// Package uartbridge connects a host terminal to the emulated USART's
// output sink and InjectRX path. It is a collaborator, not part of the
// core: the core only ever sees bytes arrive through InjectRX and leave
// through an OutputSink, never a terminal file descriptor.
package uartbridge

import (
	"github.com/pkg/term"

	"github.com/tinunadno/stm32-emulator/hardware/usart"
	"github.com/tinunadno/stm32-emulator/logger"
)

// Injector is the subset of *usart.USART the bridge drives from the host
// side.
type Injector interface {
	InjectRX(b byte)
}

// Bridge puts the host terminal into raw mode so a user can send bytes to
// the emulated USART's RX path without local echo or line buffering
// getting in the way, and receives transmitted bytes as an OutputSink.
type Bridge struct {
	t   *term.Term
	usr Injector

	stop chan struct{}
	done chan struct{}
}

// Open puts device (typically "/dev/tty") into raw mode and returns a
// Bridge ready to forward bytes to usr.
func Open(device string, usr Injector) (*Bridge, error) {
	t, err := term.Open(device)
	if err != nil {
		return nil, err
	}
	if err := t.SetRaw(); err != nil {
		t.Close()
		return nil, err
	}

	b := &Bridge{
		t:    t,
		usr:  usr,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	return b, nil
}

// Run reads raw bytes from the terminal and forwards each to the USART's
// InjectRX until Close is called. Intended to run in its own goroutine.
func (b *Bridge) Run() {
	defer close(b.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-b.stop:
			return
		default:
		}
		n, err := b.t.Read(buf)
		if err != nil {
			logger.Logf("usart", "uart bridge read error: %v", err)
			return
		}
		if n > 0 {
			b.usr.InjectRX(buf[0])
		}
	}
}

// WriteByte implements usart.OutputSink: transmitted bytes are written
// straight back out to the terminal.
func (b *Bridge) WriteByte(c byte) {
	if _, err := b.t.Write([]byte{c}); err != nil {
		logger.Logf("usart", "uart bridge write error: %v", err)
	}
}

// Close restores the terminal's original mode and stops Run.
func (b *Bridge) Close() error {
	close(b.stop)
	<-b.done
	return b.t.Restore()
}

var _ usart.OutputSink = (*Bridge)(nil)
