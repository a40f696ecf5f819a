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

// Package armdebug is an optional SDL2/OpenGL/Dear ImGui window showing the
// simulator's live register file, xPSR flag bits, a scrolling memory hex
// view and the breakpoint list. It is a read-only instrument: nothing in
// this package ever writes to the simulator other than toggling a
// breakpoint, and it never blocks the simulation goroutine, consistent with
// this module's no-shared-mutable-state design for observability surfaces.
package armdebug

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/tinunadno/stm32-emulator/logger"
	"github.com/tinunadno/stm32-emulator/simulator"
)

// Window is the live debug window. Its zero value is not usable; construct
// one with New.
type Window struct {
	sim    *simulator.Simulator
	window *sdl.Window
	glctx  sdl.GLContext

	memBase uint32
	memRows int

	breakpointEntry string
}

// New creates a Window bound to sim. The SDL window and GL context are not
// created until Run is called, since both must happen on the same OS
// thread that drives the event loop.
func New(sim *simulator.Simulator) *Window {
	return &Window{
		sim:     sim,
		memBase: 0x08000000,
		memRows: 16,
	}
}

// Run opens the window and blocks, servicing SDL events and redrawing each
// frame, until the window is closed. Call it from its own goroutine; it
// locks the calling goroutine to its OS thread for the duration, as SDL and
// the GL context both require.
func (w *Window) Run() error {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("armdebug: sdl init: %w", err)
	}
	defer sdl.Quit()

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 2)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	window, err := sdl.CreateWindow("ARM debug", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		680, 520, sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("armdebug: create window: %w", err)
	}
	defer window.Destroy()
	w.window = window

	glctx, err := window.GLCreateContext()
	if err != nil {
		return fmt.Errorf("armdebug: gl context: %w", err)
	}
	defer sdl.GLDeleteContext(glctx)
	w.glctx = glctx

	if err := gl.Init(); err != nil {
		return fmt.Errorf("armdebug: gl init: %w", err)
	}

	imgui.CreateContext(nil)
	defer imgui.DestroyContext()

	logger.Log("armdebug", "window opened")

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				running = false
			}
		}

		gl.ClearColor(0.1, 0.1, 0.12, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		imgui.NewFrame()
		w.draw()
		imgui.Render()

		window.GLSwap()
	}

	logger.Log("armdebug", "window closed")
	return nil
}

// draw lays out the register, flag, memory and breakpoint panes for one
// frame. It only reads from the simulator, never writes, except via
// toggleBreakpoint below.
func (w *Window) draw() {
	imgui.BeginV("Registers", nil, imgui.WindowFlagsAlwaysAutoResize)
	for i := 0; i < 13; i++ {
		imgui.Text(fmt.Sprintf("R%-2d  0x%08X", i, w.sim.Core.Reg(i)))
	}
	imgui.Text(fmt.Sprintf("SP   0x%08X", w.sim.Core.Reg(13)))
	imgui.Text(fmt.Sprintf("LR   0x%08X", w.sim.Core.Reg(14)))
	imgui.Text(fmt.Sprintf("PC   0x%08X", w.sim.Core.Reg(15)))
	imgui.Separator()
	w.drawFlags()
	imgui.End()

	imgui.BeginV("Memory", nil, 0)
	w.drawMemory()
	imgui.End()

	imgui.BeginV("Breakpoints", nil, 0)
	w.drawBreakpoints()
	imgui.End()
}

// drawFlags shows the N, Z, C, V condition flags and Thumb bit packed into
// xPSR.
func (w *Window) drawFlags() {
	xpsr := w.sim.Core.XPSR()
	flag := func(bit uint32, label string) {
		on := xpsr&bit != 0
		imgui.SameLine()
		if on {
			imgui.Text(label)
		} else {
			imgui.TextDisabled(label)
		}
	}
	imgui.Text("flags")
	flag(1<<31, "N")
	flag(1<<30, "Z")
	flag(1<<29, "C")
	flag(1<<28, "V")
	flag(1<<24, "T")
}

// drawMemory renders memRows lines of 16 bytes each, starting at memBase,
// read one byte at a time through the bus.
func (w *Window) drawMemory() {
	for row := 0; row < w.memRows; row++ {
		addr := w.memBase + uint32(row*16)
		line := fmt.Sprintf("%08X  ", addr)
		for col := 0; col < 16; col++ {
			v := w.sim.Bus.Read(addr+uint32(col), 1)
			line += fmt.Sprintf("%02X ", v)
		}
		imgui.Text(line)
	}
}

// drawBreakpoints lists the current breakpoint set and lets the operator
// remove one by clicking it. This is the only simulator mutation this
// window performs.
func (w *Window) drawBreakpoints() {
	for _, addr := range w.sim.Breakpoints() {
		label := fmt.Sprintf("0x%08X##bp", addr)
		if imgui.Button(label) {
			w.sim.RemoveBreakpoint(addr)
		}
	}

	imgui.InputText("address", &w.breakpointEntry)
	imgui.SameLine()
	if imgui.Button("add") {
		var addr uint32
		if _, err := fmt.Sscanf(w.breakpointEntry, "0x%X", &addr); err == nil {
			w.sim.AddBreakpoint(addr)
		}
	}
}
