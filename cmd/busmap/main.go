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

// busmap renders the simulator's constructed memory map as a Graphviz .dot
// file, so the bus's registered regions (including the flash alias at
// 0x00000000) can be checked visually instead of by hand-reading offsets.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/tinunadno/stm32-emulator/hardware/mcubus"
	"github.com/tinunadno/stm32-emulator/simulator"
)

// region is the plain-data view of a mcubus.Region memviz walks. The bus's
// registered regions hold function values, which memviz cannot usefully
// render, so this flattens each region down to what an operator actually
// wants to see: base, size and name.
type region struct {
	Base uint32
	Size uint32
	Name string
}

type memoryMap struct {
	Regions []region
}

func main() {
	out := flag.String("o", "busmap.dot", "output .dot file path")
	flag.Parse()

	sim := simulator.New()

	m := memoryMap{}
	for _, r := range sim.Bus.Regions() {
		m.Regions = append(m.Regions, regionOf(r))
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "busmap:", err)
		os.Exit(1)
	}
	defer f.Close()

	memviz.Map(f, &m)

	fmt.Printf("wrote %s (%d regions)\n", *out, len(m.Regions))
}

func regionOf(r mcubus.Region) region {
	return region{Base: r.Base, Size: r.Size, Name: r.Name}
}
