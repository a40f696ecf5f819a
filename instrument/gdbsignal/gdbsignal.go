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

// Package gdbsignal gives a GDB adapter's "continue" loop a real
// non-blocking break primitive: a SIGINT-driven channel, and a helper that
// polls a listening socket's file descriptor for readability without
// blocking. The adapter calls gdbsurface.Surface.Continue with a halt
// predicate backed by this package so an out-of-band Ctrl-C (from GDB's
// own break request, sent as a raw 0x03 byte or a host SIGINT) can
// interrupt a long run between steps, per this module's concurrency model.
package gdbsignal

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// BreakSource delivers an out-of-band break request.
type BreakSource struct {
	sigCh chan os.Signal
	requested bool
}

// NewBreakSource installs a SIGINT handler and returns a BreakSource whose
// Requested method reports whether a break has arrived since the last call.
func NewBreakSource() *BreakSource {
	b := &BreakSource{sigCh: make(chan os.Signal, 1)}
	signal.Notify(b.sigCh, syscall.SIGINT)
	return b
}

// Requested drains any pending SIGINT and reports whether one arrived.
// Intended as the halt predicate passed to gdbsurface.Surface.Continue.
func (b *BreakSource) Requested() bool {
	select {
	case <-b.sigCh:
		return true
	default:
		return false
	}
}

// Close stops delivering SIGINT to this BreakSource.
func (b *BreakSource) Close() {
	signal.Stop(b.sigCh)
}

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << uint(fd%64)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	return set.Bits[fd/64]&(1<<uint(fd%64)) != 0
}

// SocketReadable polls fd for readability without blocking, using a
// zero-timeout unix.Select. It is used by the transport collaborator to
// notice an incoming break-request byte on the GDB RSP socket between
// steps, without giving up the non-blocking "continue" loop's cadence.
func SocketReadable(fd int) (bool, error) {
	var readfds unix.FdSet
	fdSet(&readfds, fd)

	tv := unix.Timeval{Sec: 0, Usec: 0}
	n, err := unix.Select(fd+1, &readfds, nil, nil, &tv)
	if err != nil {
		return false, err
	}
	return n > 0 && fdIsSet(&readfds, fd), nil
}
