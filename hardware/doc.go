// Package hardware is the base package for the emulated microcontroller. Its
// sub-packages contain everything required for a headless simulation: the
// Thumb/Thumb-2 instruction core, the NVIC, the memory bus and its regions,
// and the timer and USART peripherals. simulator.Simulator is the type that
// composes them into a runnable machine; this package itself holds no state.
package hardware

