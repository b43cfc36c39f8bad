// Package rom loads boot ROM and cartridge images from disk, grounded on
// the teacher's internal/memory/cartridge.go header-parsing convention —
// adapted here to raw, header-less DMG images: a 256-byte boot ROM and a
// flat, fixed two-bank (no-MBC) cartridge of at least 32KiB.
package rom

import (
	"fmt"
	"os"
)

// BootROMSize is the exact size required of a DMG boot ROM image.
const BootROMSize = 256

// MinCartridgeSize is the smallest accepted cartridge image: two 16KiB
// banks, bank 0 fixed and bank 1 fixed (no MBC switching).
const MinCartridgeSize = 0x8000

// LoadBootROM reads and validates a boot ROM image from path.
func LoadBootROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rom: read boot ROM %q: %w", path, err)
	}
	if len(data) != BootROMSize {
		return nil, fmt.Errorf("rom: boot ROM %q is %d bytes, want exactly %d", path, len(data), BootROMSize)
	}
	return data, nil
}

// Cartridge is a fixed, two-bank, no-MBC ROM image: bank 0 at
// 0x0000-0x3FFF, bank 1 at 0x4000-0x7FFF. Writes to ROM space are silently
// ignored, matching real cartridge wiring when no mapper is present.
type Cartridge struct {
	data []byte
}

// LoadCartridge reads a raw cartridge image from path.
func LoadCartridge(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rom: read cartridge %q: %w", path, err)
	}
	if len(data) < MinCartridgeSize {
		return nil, fmt.Errorf("rom: cartridge %q is %d bytes, want at least %d", path, len(data), MinCartridgeSize)
	}
	return &Cartridge{data: data}, nil
}

// NewCartridgeFromBytes wraps an in-memory image, for tests that build ROMs
// programmatically instead of loading them from disk.
func NewCartridgeFromBytes(data []byte) (*Cartridge, error) {
	if len(data) < MinCartridgeSize {
		return nil, fmt.Errorf("rom: cartridge image is %d bytes, want at least %d", len(data), MinCartridgeSize)
	}
	return &Cartridge{data: data}, nil
}

// Read8 returns the byte at a ROM-space address (0x0000-0x7FFF).
func (c *Cartridge) Read8(addr uint16) uint8 {
	if int(addr) >= len(c.data) {
		return 0xFF
	}
	return c.data[addr]
}

// Write8 is a no-op: with no mapper present there is nothing to bank-switch.
func (c *Cartridge) Write8(addr uint16, v uint8) {}
