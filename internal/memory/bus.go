// Package memory implements the DMG address space: boot ROM overlay, fixed
// two-bank cartridge ROM, VRAM/OAM owned by the PPU, working RAM with its
// echo mirror, the I/O register file, HRAM, and OAM DMA. Grounded on the
// teacher's internal/memory/bus.go bank-dispatch Read8/Write8 switch and
// its IOHandler interface for routing to PPU/APU/Input sub-handlers.
package memory

import (
	"fmt"

	"dmg01/internal/apu"
	"dmg01/internal/joypad"
	"dmg01/internal/ppu"
	"dmg01/internal/rom"
	"dmg01/internal/timer"
)

// IOHandler is the shape every memory-mapped peripheral exposes to the bus,
// matching the teacher's internal/memory IOHandler interface.
type IOHandler interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, v uint8)
}

// Bus wires the CPU to every memory-mapped component.
type Bus struct {
	BootROM       []byte
	bootROMMapped bool

	Cartridge *rom.Cartridge
	ExtRAM    [0x2000]uint8
	WRAM      [0x2000]uint8
	HRAM      [0x7F]uint8

	PPU    *ppu.PPU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	APU    *apu.APU

	ie uint8
	ifReg uint8

	dmaActive bool
	dmaSource uint16
	dmaCursor uint16
}

// New wires a Bus around already-constructed peripherals. bootROM may be
// nil, in which case the cartridge is visible at 0x0000 from power-on.
func New(bootROM []byte, cart *rom.Cartridge, p *ppu.PPU, t *timer.Timer, j *joypad.Joypad, a *apu.APU) *Bus {
	return &Bus{
		BootROM:       bootROM,
		bootROMMapped: bootROM != nil,
		Cartridge:     cart,
		PPU:           p,
		Timer:         t,
		Joypad:        j,
		APU:           a,
	}
}

// InterruptEnable returns the IE register (0xFFFF).
func (b *Bus) InterruptEnable() uint8 { return b.ie }

// InterruptFlag returns the IF register (0xFF0F).
func (b *Bus) InterruptFlag() uint8 { return b.ifReg }

// SetInterruptFlag overwrites IF, used by the CPU when it clears a
// serviced interrupt's bit.
func (b *Bus) SetInterruptFlag(v uint8) { b.ifReg = v & 0x1F }

// RaiseInterrupt ORs a single interrupt bit into IF; PPU/Timer/Joypad call
// this via the driver loop after their own Step reports a new request.
func (b *Bus) RaiseInterrupt(bit uint8) {
	b.ifReg |= 1 << bit
}

const (
	InterruptVBlank  = 0
	InterruptLCDStat = 1
	InterruptTimer   = 2
	InterruptSerial  = 3
	InterruptJoypad  = 4
)

// Read8 dispatches a single-byte read across the full address space.
func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x0100 && b.bootROMMapped:
		return b.BootROM[addr]
	case addr <= 0x7FFF:
		return b.Cartridge.Read8(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.PPU.Read8(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.ExtRAM[addr-0xA000]
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.WRAM[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.WRAM[addr-0xE000] // echo RAM mirrors WRAM
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.PPU.Read8(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0x00 // unusable region
	case addr == 0xFF00:
		return b.Joypad.Read8(addr)
	case addr == 0xFF04 || addr == 0xFF05 || addr == 0xFF06 || addr == 0xFF07:
		return b.Timer.Read8(addr)
	case addr == 0xFF0F:
		return b.ifReg | 0xE0
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.APU.Read8(addr)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		if addr == 0xFF46 {
			return uint8(b.dmaSource >> 8)
		}
		return b.PPU.Read8(addr)
	case addr == 0xFF50:
		if b.bootROMMapped {
			return 0x00
		}
		return 0x01
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.HRAM[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	default:
		return 0xFF
	}
}

// Write8 dispatches a single-byte write across the full address space.
func (b *Bus) Write8(addr uint16, v uint8) {
	switch {
	case addr <= 0x7FFF:
		b.Cartridge.Write8(addr, v)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.PPU.Write8(addr, v)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.ExtRAM[addr-0xA000] = v
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.WRAM[addr-0xC000] = v
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.WRAM[addr-0xE000] = v
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.PPU.Write8(addr, v)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unusable region, writes discarded
	case addr == 0xFF00:
		b.Joypad.Write8(addr, v)
	case addr == 0xFF04 || addr == 0xFF05 || addr == 0xFF06 || addr == 0xFF07:
		b.Timer.Write8(addr, v)
	case addr == 0xFF0F:
		b.SetInterruptFlag(v)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.APU.Write8(addr, v)
	case addr == 0xFF46:
		b.startOAMDMA(v)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.PPU.Write8(addr, v)
	case addr == 0xFF50:
		if v != 0 {
			// One-way: once unmounted, the cartridge stays visible at
			// 0x0000-0x00FF for the rest of the session.
			b.bootROMMapped = false
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.HRAM[addr-0xFF80] = v
	case addr == 0xFFFF:
		b.ie = v
	}
}

// Read16/Write16 are little-endian composites of Read8/Write8, matching
// the teacher's bus convention of not special-casing 16-bit accesses per
// region.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}

// startOAMDMA performs the 0xFF46 OAM DMA transfer: 160 bytes copied from
// src*0x100 into OAM. Real hardware spreads this over 160 M-cycles with the
// CPU locked out of most memory; we apply it instantaneously; since DMA
// only ever targets ROM/RAM/WRAM (not OAM itself) that is observably
// equivalent.
func (b *Bus) startOAMDMA(srcHigh uint8) {
	b.dmaSource = uint16(srcHigh) << 8
	for i := uint16(0); i < 0xA0; i++ {
		v := b.Read8(b.dmaSource + i)
		b.PPU.Write8(0xFE00+i, v)
	}
}

// LoadBootROM swaps in a boot ROM image after construction, remapping it
// over the cartridge at 0x0000-0x00FF.
func (b *Bus) LoadBootROM(data []byte) error {
	if len(data) != rom.BootROMSize {
		return fmt.Errorf("memory: boot ROM must be exactly %d bytes, got %d", rom.BootROMSize, len(data))
	}
	b.BootROM = data
	b.bootROMMapped = true
	return nil
}
