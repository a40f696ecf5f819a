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

package nvic_test

import (
	"testing"

	"github.com/tinunadno/stm32-emulator/hardware/nvic"
	"github.com/tinunadno/stm32-emulator/test"
)

func TestResetState(t *testing.T) {
	n := nvic.New()
	test.Equate(t, n.CurrentPriority(), nvic.NoPriority)
	_, ok := n.NextPreemptable()
	test.Equate(t, ok, false)
}

func TestOutOfRangeIRQIgnored(t *testing.T) {
	n := nvic.New()
	n.SetPending(nvic.NumIRQ + 5)
	n.Enable(nvic.NumIRQ + 5)
	_, ok := n.NextPreemptable()
	test.Equate(t, ok, false)
}

func TestPreemptionRequiresEnabledAndPending(t *testing.T) {
	n := nvic.New()
	n.SetPriority(5, 1)
	n.SetPending(5)
	_, ok := n.NextPreemptable()
	test.Equate(t, ok, false) // not enabled

	n.Enable(5)
	irq, ok := n.NextPreemptable()
	test.Equate(t, ok, true)
	test.Equate(t, irq, 5)
}

func TestTieBreaksByLowestIRQNumber(t *testing.T) {
	n := nvic.New()
	n.SetPriority(10, 3)
	n.SetPending(10)
	n.Enable(10)
	n.SetPriority(2, 3)
	n.SetPending(2)
	n.Enable(2)

	irq, ok := n.NextPreemptable()
	test.Equate(t, ok, true)
	test.Equate(t, irq, 2)
}

func TestAcknowledgeAndComplete(t *testing.T) {
	n := nvic.New()
	n.SetPriority(3, 10)
	n.SetPending(3)
	n.Enable(3)

	n.Acknowledge(3)
	test.Equate(t, n.Pending(3), false)
	test.Equate(t, n.Active(3), true)
	test.Equate(t, n.CurrentPriority(), uint8(10))

	n.Complete(3)
	test.Equate(t, n.Active(3), false)
	test.Equate(t, n.CurrentPriority(), nvic.NoPriority)
}

func TestNestedPreemptionRestoresOuterPriority(t *testing.T) {
	n := nvic.New()
	n.SetPriority(1, 20)
	n.Enable(1)
	n.SetPending(1)
	n.Acknowledge(1)
	test.Equate(t, n.CurrentPriority(), uint8(20))

	// only a strictly higher priority (lower number) may preempt
	n.SetPriority(2, 20)
	n.Enable(2)
	n.SetPending(2)
	_, ok := n.NextPreemptable()
	test.Equate(t, ok, false)

	n.SetPriority(3, 5)
	n.Enable(3)
	n.SetPending(3)
	irq, ok := n.NextPreemptable()
	test.Equate(t, ok, true)
	test.Equate(t, irq, 3)

	n.Acknowledge(3)
	test.Equate(t, n.CurrentPriority(), uint8(5))
	n.Complete(3)
	test.Equate(t, n.CurrentPriority(), uint8(20))
}

func TestStrictGateBlocksEqualPriorityReentry(t *testing.T) {
	n := nvic.New()
	n.SetPriority(4, 8)
	n.Enable(4)
	n.SetPending(4)
	n.Acknowledge(4)

	n.SetPriority(5, 8)
	n.Enable(5)
	n.SetPending(5)
	_, ok := n.NextPreemptable()
	test.Equate(t, ok, false)
}
