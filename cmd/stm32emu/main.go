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

// stm32emu is the process entrypoint: it parses command line flags,
// reads a firmware image from host storage, builds a simulator, starts the
// dashboard if the preferences file enables it, and runs until
// the program halts. Everything in this file is host-side collaborator
// plumbing (flag parsing, file I/O, signal handling); none of it is part
// of the core this module specifies.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tinunadno/stm32-emulator/gdbsurface"
	"github.com/tinunadno/stm32-emulator/hardware/status"
	"github.com/tinunadno/stm32-emulator/instrument/dashboard"
	"github.com/tinunadno/stm32-emulator/instrument/uartbridge"
	"github.com/tinunadno/stm32-emulator/logger"
	"github.com/tinunadno/stm32-emulator/prefs"
	"github.com/tinunadno/stm32-emulator/simulator"
)

func main() {
	image := flag.String("image", "", "path to the flash image to load")
	prefsPath := flag.String("prefs", prefs.DefaultPrefsFile, "path to the preferences file")
	ttyDevice := flag.String("tty", "", "host terminal device to bridge to the USART (empty disables the bridge)")
	flag.Parse()

	if *image == "" {
		fmt.Fprintln(os.Stderr, "stm32emu: -image is required")
		os.Exit(1)
	}

	p, err := prefs.NewPreferences(*prefsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stm32emu:", err)
		os.Exit(1)
	}

	firmware, err := os.ReadFile(*image)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stm32emu:", err)
		os.Exit(1)
	}

	sim := simulator.New()
	sim.Load(firmware)

	if *ttyDevice != "" {
		bridge, err := uartbridge.Open(*ttyDevice, sim.USART)
		if err != nil {
			fmt.Fprintln(os.Stderr, "stm32emu: uart bridge:", err)
			os.Exit(1)
		}
		defer bridge.Close()
		sim.USART.SetOutput(bridge)
		go bridge.Run()
	}

	if p.DashboardEnabled.Get().(bool) {
		dash := dashboard.New(sim, p.DashboardAddr.String(), time.Second)
		stop, err := dash.Start()
		if err != nil {
			fmt.Fprintln(os.Stderr, "stm32emu: dashboard:", err)
		} else {
			defer stop()
		}
	}

	_ = gdbsurface.New(sim) // constructed here so the GDB transport collaborator can be wired in without touching this file again

	result := sim.Run()
	switch result {
	case status.BreakpointHit:
		fmt.Printf("breakpoint hit at PC=0x%08X\n", sim.Core.Reg(15))
	case status.InvalidInstruction:
		fmt.Printf("invalid instruction at PC=0x%08X\n", sim.Core.Reg(15))
		os.Exit(1)
	case status.Halted:
		fmt.Println("halted")
	default:
		fmt.Println("stopped:", result)
	}

	logger.Tail(os.Stdout, 50)

	if err := p.Save(); err != nil {
		fmt.Fprintln(os.Stderr, "stm32emu: saving preferences:", err)
	}
}
