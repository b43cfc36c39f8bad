// Package cpu implements the Sharp LR35902 instruction interpreter: register
// file, opcode decode tables, instruction execution, and interrupt servicing.
package cpu

import "fmt"

// Interrupt vector addresses, fixed priority order VBlank > LCDStat > Timer >
// Serial > Joypad.
const (
	VectorVBlank   uint16 = 0x0040
	VectorLCDStat  uint16 = 0x0048
	VectorTimer    uint16 = 0x0050
	VectorSerial   uint16 = 0x0058
	VectorJoypad   uint16 = 0x0060
)

// interrupt bit positions within the IE/IF registers, in priority order.
var interruptBits = []struct {
	bit    uint8
	vector uint16
}{
	{0, VectorVBlank},
	{1, VectorLCDStat},
	{2, VectorTimer},
	{3, VectorSerial},
	{4, VectorJoypad},
}

// Bus is the memory-mapped interface the CPU reads instructions and operand
// data through. internal/memory.Bus implements this.
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, v uint8)
	Read16(addr uint16) uint16
	Write16(addr uint16, v uint16)
	// InterruptEnable and InterruptFlag expose the IE (0xFFFF) and IF
	// (0xFF0F) registers directly so the CPU can service interrupts without
	// routing through the general bus dispatch.
	InterruptEnable() uint8
	InterruptFlag() uint8
	SetInterruptFlag(v uint8)
}

// Logger receives CPU trace/error events. Matches the shape consumed by
// internal/debug.Logger so tests can substitute a no-op stub.
type Logger interface {
	Logf(component string, format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(string, string, ...interface{}) {}

// CPU holds the register file, program counter/stack pointer, interrupt
// master enable, and HALT/STOP latches for one LR35902 core.
type CPU struct {
	Regs Registers
	PC   uint16
	SP   uint16

	IME        bool
	imeDelay   int8 // -1 = no pending change; 0 = set IME at end of this step
	Halted     bool
	Stopped    bool

	Bus Bus
	Log Logger
}

// New constructs a CPU with PC at 0 (the boot ROM entry point) wired to the
// given bus.
func New(bus Bus) *CPU {
	return &CPU{Bus: bus, Log: nopLogger{}, imeDelay: -1}
}

// Reset returns the CPU to its power-on state (all registers zero, PC at
// the boot ROM entry point 0) without clearing the bus (matching the teacher's Reset/NewCPU split in cpu.go,
// which resets CPU state independently of memory contents).
func (c *CPU) Reset() {
	c.Regs = Registers{}
	c.PC = 0
	c.SP = 0
	c.IME = false
	c.imeDelay = -1
	c.Halted = false
	c.Stopped = false
}

// ErrUnknownOpcode is wrapped with the offending byte and address whenever
// Step decodes one of the 11 undefined LR35902 opcodes.
type ErrUnknownOpcode struct {
	Opcode uint8
	Addr   uint16
	CB     bool
}

func (e *ErrUnknownOpcode) Error() string {
	if e.CB {
		return fmt.Sprintf("unknown CB opcode 0x%02X at 0x%04X", e.Opcode, e.Addr)
	}
	return fmt.Sprintf("unknown opcode 0x%02X at 0x%04X", e.Opcode, e.Addr)
}

// Step executes exactly one instruction-equivalent unit of work and returns
// the number of clock cycles (T-states) it consumed:
//
//  1. Count down a pending EI (see step 5).
//  2. Check for a pending, enabled interrupt. If one is ready:
//     - always clears Halted (interrupts wake a halted CPU even with IME
//       off);
//     - if IME is set, services it (20 cycles) and returns.
//  3. If Halted, burn 4 cycles without fetching.
//  4. Otherwise fetch, decode, and execute one instruction.
//  5. If that instruction was the one following EI, set IME now that it
//     has executed (the one-instruction delay).
func (c *CPU) Step() (int, error) {
	if c.imeDelay > 0 {
		c.imeDelay--
	}

	if cycles, serviced := c.serviceInterrupt(); serviced {
		return cycles, nil
	}

	if c.Halted {
		return 4, nil
	}

	opcodeAddr := c.PC
	opcode := c.fetch8()

	var inst Instruction
	var ok bool
	if opcode == 0xCB {
		cb := c.fetch8()
		inst, ok = DecodeCB(cb)
		if !ok {
			return 0, &ErrUnknownOpcode{Opcode: cb, Addr: opcodeAddr, CB: true}
		}
	} else {
		inst, ok = DecodeBase(opcode)
		if !ok {
			return 0, &ErrUnknownOpcode{Opcode: opcode, Addr: opcodeAddr}
		}
	}

	cycles, err := c.execute(inst)
	if c.imeDelay == 0 {
		c.IME = true
		c.imeDelay = -1
	}
	return cycles, err
}

// serviceInterrupt checks IE & IF for the highest-priority pending
// interrupt. If one is found, it clears Halted; when IME is also enabled, it
// clears that interrupt's IF bit, pushes PC and jumps to the vector (with
// IME off, IF is left untouched). Returns (cyclesConsumed, true) only when
// it actually serviced one.
func (c *CPU) serviceInterrupt() (int, bool) {
	pending := c.Bus.InterruptEnable() & c.Bus.InterruptFlag() & 0x1F
	if pending == 0 {
		return 0, false
	}

	// Any pending, enabled interrupt wakes the CPU out of HALT even when
	// IME is disabled; it simply isn't serviced in that case.
	c.Halted = false
	if !c.IME {
		return 0, false
	}

	for _, entry := range interruptBits {
		if pending&(1<<entry.bit) == 0 {
			continue
		}
		c.IME = false
		c.imeDelay = -1
		flags := c.Bus.InterruptFlag()
		c.Bus.SetInterruptFlag(flags &^ (1 << entry.bit))
		c.pushStack(c.PC)
		c.PC = entry.vector
		return 20, true
	}
	return 0, false
}

func (c *CPU) fetch8() uint8 {
	v := c.Bus.Read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	v := c.Bus.Read16(c.PC)
	c.PC += 2
	return v
}

func (c *CPU) pushStack(v uint16) {
	c.SP -= 2
	c.Bus.Write16(c.SP, v)
}

func (c *CPU) popStack() uint16 {
	v := c.Bus.Read16(c.SP)
	c.SP += 2
	return v
}

// requestEI arms the one-instruction-delayed IME enable triggered by EI:
// IME flips true once the instruction *after* EI has executed, so a pending
// interrupt is serviced no earlier than the step after that one.
func (c *CPU) requestEI() {
	c.imeDelay = 1
}
