package ppu

import "testing"

func TestTileCacheCoherentWithVRAMWrites(t *testing.T) {
	p := New()
	// Tile 0, row 0: low byte bits 7..0 = 11111111, high byte = 00000000
	// -> every pixel should decode to palette index 1.
	p.Write8(0x8000, 0xFF)
	p.Write8(0x8001, 0x00)
	for x := 0; x < 8; x++ {
		if got := p.tileCache[0][0][x]; got != 1 {
			t.Fatalf("tileCache[0][0][%d] = %d, want 1", x, got)
		}
	}
	// Flip only the high byte; low byte write above must not go stale.
	p.Write8(0x8001, 0xFF)
	for x := 0; x < 8; x++ {
		if got := p.tileCache[0][0][x]; got != 3 {
			t.Fatalf("tileCache[0][0][%d] = %d, want 3 after high byte set", x, got)
		}
	}
}

func TestVBlankFiresAtLine144(t *testing.T) {
	p := New()
	p.LCDC = lcdcDisplayEnable
	sawVBlank := false
	for i := 0; i < cyclesPerLine*firstVBlankLine+10; i++ {
		_, _ = p.Step(1)
		if p.LY == firstVBlankLine && p.mode == ModeVBlank && !sawVBlank {
			sawVBlank = true
		}
	}
	if !sawVBlank {
		t.Fatalf("expected PPU to reach VBlank at line %d", firstVBlankLine)
	}
}

func TestVBlankInterruptRaisedOnce(t *testing.T) {
	p := New()
	p.LCDC = lcdcDisplayEnable
	vblankCount := 0
	for i := 0; i < cyclesPerLine*linesPerFrame+1; i++ {
		vblank, _ := p.Step(1)
		if vblank {
			vblankCount++
		}
	}
	if vblankCount != 1 {
		t.Fatalf("vblank fired %d times in one frame, want 1", vblankCount)
	}
}

func TestFrameReadyAfterFullFrame(t *testing.T) {
	p := New()
	p.LCDC = lcdcDisplayEnable
	for i := 0; i < cyclesPerLine*firstVBlankLine; i++ {
		p.Step(1)
	}
	if !p.FrameReady {
		t.Fatalf("expected FrameReady once LY reaches %d", firstVBlankLine)
	}
}

func TestSTATReadExposesCurrentMode(t *testing.T) {
	p := New()
	p.LCDC = lcdcDisplayEnable

	// Freshly powered on, OAMScan (mode 2) is the first mode of a line.
	if got := p.readRegister(0xFF41) & 0x03; got != uint8(ModeOAMScan) {
		t.Fatalf("STAT mode bits = %d, want %d (OAMScan)", got, ModeOAMScan)
	}
	for i := 0; i < cyclesOAMScan; i++ {
		p.Step(1)
	}
	if got := p.readRegister(0xFF41) & 0x03; got != uint8(ModeVRAMAccess) {
		t.Fatalf("STAT mode bits = %d, want %d (VRAMAccess)", got, ModeVRAMAccess)
	}
	for i := 0; i < cyclesVRAMAccess; i++ {
		p.Step(1)
	}
	if got := p.readRegister(0xFF41) & 0x03; got != uint8(ModeHBlank) {
		t.Fatalf("STAT mode bits = %d, want %d (HBlank)", got, ModeHBlank)
	}
}

func TestLYReadsZeroWhenDisplayDisabled(t *testing.T) {
	p := New()
	p.LCDC = lcdcDisplayEnable
	for i := 0; i < cyclesPerLine*3; i++ {
		p.Step(1)
	}
	if p.LY == 0 {
		t.Fatalf("expected LY to have advanced past line 0 before disabling the display")
	}

	p.LCDC = 0
	if got := p.readRegister(0xFF44); got != 0 {
		t.Fatalf("LY read = %d, want 0 while display disabled", got)
	}
}

func TestAddressingModeSelectsSignedTileBank(t *testing.T) {
	p := New()
	p.LCDC = lcdcDisplayEnable // bit4 (BGWindowTiles) clear -> signed mode, base 0x9000
	if got := p.tileIndexAt(0xFF); got != 255 {
		t.Fatalf("tileIndexAt(0xFF) = %d, want 255 (tile just below 0x9000)", got)
	}
	if got := p.tileIndexAt(0x00); got != 256 {
		t.Fatalf("tileIndexAt(0x00) = %d, want 256 (tile at 0x9000)", got)
	}

	p.LCDC |= lcdcBGWindowTiles // unsigned mode, base 0x8000
	if got := p.tileIndexAt(0x05); got != 5 {
		t.Fatalf("tileIndexAt(0x05) = %d, want 5 in unsigned mode", got)
	}
}
