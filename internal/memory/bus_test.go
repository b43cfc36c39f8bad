package memory

import (
	"testing"

	"dmg01/internal/apu"
	"dmg01/internal/joypad"
	"dmg01/internal/ppu"
	"dmg01/internal/rom"
	"dmg01/internal/timer"
)

func newTestBus(t *testing.T, bootROM []byte) *Bus {
	t.Helper()
	cartData := make([]byte, rom.MinCartridgeSize)
	cart, err := rom.NewCartridgeFromBytes(cartData)
	if err != nil {
		t.Fatalf("NewCartridgeFromBytes: %v", err)
	}
	return New(bootROM, cart, ppu.New(), timer.New(), joypad.New(), apu.New())
}

func TestBootROMOverlayAndOneWayUnmount(t *testing.T) {
	boot := make([]byte, rom.BootROMSize)
	boot[0] = 0xAA
	b := newTestBus(t, boot)

	if got := b.Read8(0x0000); got != 0xAA {
		t.Fatalf("boot ROM byte = 0x%02X, want 0xAA", got)
	}
	b.Write8(0xFF50, 0x01)
	if got := b.Read8(0x0000); got == 0xAA {
		t.Fatalf("cartridge should be visible at 0x0000 after boot ROM unmount")
	}
	// Re-mounting is not possible: further writes to 0xFF50 are no-ops.
	b.Write8(0xFF50, 0x00)
	if got := b.Read8(0x0000); got == 0xAA {
		t.Fatalf("boot ROM unmount must be one-way")
	}
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	b := newTestBus(t, nil)
	b.Write8(0xC010, 0x55)
	if got := b.Read8(0xE010); got != 0x55 {
		t.Fatalf("echo RAM = 0x%02X, want 0x55 mirrored from WRAM", got)
	}
	b.Write8(0xE020, 0x66)
	if got := b.Read8(0xC020); got != 0x66 {
		t.Fatalf("write through echo RAM must reach WRAM, got 0x%02X", got)
	}
}

func TestUnusedRegionReadsZero(t *testing.T) {
	b := newTestBus(t, nil)
	if got := b.Read8(0xFEA5); got != 0x00 {
		t.Fatalf("unused region read = 0x%02X, want 0x00", got)
	}
}

func TestOAMDMACopiesFromSourceIntoOAM(t *testing.T) {
	b := newTestBus(t, nil)
	for i := uint16(0); i < 0xA0; i++ {
		b.Write8(0xC000+i, uint8(i))
	}
	b.Write8(0xFF46, 0xC0) // DMA source = 0xC000
	for i := uint16(0); i < 0xA0; i++ {
		if got := b.PPU.Read8(0xFE00 + i); got != uint8(i) {
			t.Fatalf("OAM[%d] = %d, want %d", i, got, i)
		}
	}
}

func TestInterruptFlagRegisterRoundTrip(t *testing.T) {
	b := newTestBus(t, nil)
	b.Write8(0xFF0F, 0x03)
	if got := b.Read8(0xFF0F); got&0x1F != 0x03 {
		t.Fatalf("IF = 0x%02X, want low 5 bits 0x03", got)
	}
	b.Write8(0xFFFF, 0x1F)
	if b.InterruptEnable() != 0x1F {
		t.Fatalf("IE = 0x%02X, want 0x1F", b.InterruptEnable())
	}
}

func TestHRAMReadWrite(t *testing.T) {
	b := newTestBus(t, nil)
	b.Write8(0xFF90, 0x77)
	if got := b.Read8(0xFF90); got != 0x77 {
		t.Fatalf("HRAM = 0x%02X, want 0x77", got)
	}
}
