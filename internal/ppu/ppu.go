// Package ppu implements the DMG picture processing unit: the mode state
// machine, VRAM/OAM storage with a coherent tile cache, and
// background/window scanline rendering into an RGBA frame buffer. Grounded
// on the teacher's internal/ppu/ppu.go and scanline.go (VRAM+CGRAM+OAM
// storage, register dispatch switch, renderBackgroundLayer), generalized
// from its 16-bit tilemap/CGRAM-palette scheme to the DMG's 2bpp tiles and
// 4-shade BGP/OBP palettes.
package ppu

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	cyclesOAMScan    = 80
	cyclesVRAMAccess = 172
	cyclesHBlank     = 204
	cyclesPerLine    = cyclesOAMScan + cyclesVRAMAccess + cyclesHBlank // 456
	linesPerFrame    = 154
	firstVBlankLine  = ScreenHeight // 144
)

// Mode names the four PPU scanline phases.
type Mode int

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModeVRAMAccess
)

// LCDC bit positions.
const (
	lcdcBGWindowEnable = 1 << 0
	lcdcOBJEnable      = 1 << 1
	lcdcOBJSize        = 1 << 2
	lcdcBGTileMap      = 1 << 3
	lcdcBGWindowTiles  = 1 << 4
	lcdcWindowEnable   = 1 << 5
	lcdcWindowTileMap  = 1 << 6
	lcdcDisplayEnable  = 1 << 7
)

// STAT bit positions.
const (
	statLYCInterrupt    = 1 << 6
	statOAMInterrupt    = 1 << 5
	statVBlankInterrupt = 1 << 4
	statHBlankInterrupt = 1 << 3
	statLYCFlag         = 1 << 2
)

// PPU holds VRAM, OAM, the register file, and the derived tile cache and
// frame buffer.
type PPU struct {
	VRAM [0x2000]uint8
	OAM  [0xA0]uint8

	// tileCache holds the 384 addressable tiles, each as 8x8 palette
	// indices 0-3, kept coherent with VRAM on every write rather than
	// rebuilt lazily at render time.
	tileCache [384][8][8]uint8

	LCDC uint8
	STAT uint8
	SCY  uint8
	SCX  uint8
	LY   uint8
	LYC  uint8
	BGP  uint8
	OBP0 uint8
	OBP1 uint8
	WY   uint8
	WX   uint8

	mode        Mode
	cycleInLine int

	FrameBuffer [ScreenWidth * ScreenHeight]uint32
	FrameReady  bool

	prevStatLine bool
}

// New returns a PPU powered on with LCDC off, as it is before the boot ROM
// enables the display.
func New() *PPU {
	p := &PPU{mode: ModeOAMScan}
	return p
}

// Step advances the PPU by cpuCycles T-states (as consumed by one CPU
// Step), running the mode state machine and rendering completed scanlines.
// It returns which interrupts became newly pending this call.
func (p *PPU) Step(cpuCycles int) (vblank bool, stat bool) {
	if p.LCDC&lcdcDisplayEnable == 0 {
		return false, false
	}

	remaining := cpuCycles
	for remaining > 0 {
		step := remaining
		if step > 1 {
			// Advance in small increments so mode transitions that occur
			// mid-budget are never skipped.
			step = 1
		}
		remaining -= step
		p.cycleInLine += step

		switch p.mode {
		case ModeOAMScan:
			if p.cycleInLine >= cyclesOAMScan {
				p.mode = ModeVRAMAccess
			}
		case ModeVRAMAccess:
			if p.cycleInLine >= cyclesOAMScan+cyclesVRAMAccess {
				p.mode = ModeHBlank
				p.renderScanline()
			}
		case ModeHBlank:
			if p.cycleInLine >= cyclesPerLine {
				p.cycleInLine = 0
				p.LY++
				if p.LY == firstVBlankLine {
					p.mode = ModeVBlank
					p.FrameReady = true
					vblank = true
				} else {
					p.mode = ModeOAMScan
				}
			}
		case ModeVBlank:
			if p.cycleInLine >= cyclesPerLine {
				p.cycleInLine = 0
				p.LY++
				if p.LY >= linesPerFrame {
					p.LY = 0
					p.mode = ModeOAMScan
				}
			}
		}

		if p.statLine() {
			if !p.prevStatLine {
				stat = true
			}
			p.prevStatLine = true
		} else {
			p.prevStatLine = false
		}
	}
	return vblank, stat
}

// statLine reports whether STAT's current mode/LYC conditions would assert
// its interrupt line, used to detect the rising edge that actually raises
// the LCD STAT interrupt (real hardware ORs several sources onto one line).
func (p *PPU) statLine() bool {
	coincidence := p.LY == p.LYC
	if coincidence {
		p.STAT |= statLYCFlag
	} else {
		p.STAT &^= statLYCFlag
	}
	if coincidence && p.STAT&statLYCInterrupt != 0 {
		return true
	}
	switch p.mode {
	case ModeHBlank:
		return p.STAT&statHBlankInterrupt != 0
	case ModeVBlank:
		return p.STAT&statVBlankInterrupt != 0
	case ModeOAMScan:
		return p.STAT&statOAMInterrupt != 0
	default:
		return false
	}
}

// Read8 dispatches a bus read in the VRAM (0x8000-0x9FFF), OAM
// (0xFE00-0xFE9F), or PPU register (0xFF40-0xFF4B) ranges.
func (p *PPU) Read8(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		return p.VRAM[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return p.OAM[addr-0xFE00]
	default:
		return p.readRegister(addr)
	}
}

// Write8 dispatches a bus write, keeping the tile cache coherent with every
// VRAM write to tile data (0x8000-0x97FF).
func (p *PPU) Write8(addr uint16, v uint8) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		p.VRAM[addr-0x8000] = v
		if addr <= 0x97FF {
			p.updateTileCache(addr - 0x8000)
		}
	case addr >= 0xFE00 && addr <= 0xFE9F:
		p.OAM[addr-0xFE00] = v
	default:
		p.writeRegister(addr, v)
	}
}

func (p *PPU) readRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.LCDC
	case 0xFF41:
		return (p.STAT &^ 0x03) | uint8(p.mode) | 0x80
	case 0xFF42:
		return p.SCY
	case 0xFF43:
		return p.SCX
	case 0xFF44:
		if p.LCDC&lcdcDisplayEnable == 0 {
			return 0
		}
		return p.LY
	case 0xFF45:
		return p.LYC
	case 0xFF47:
		return p.BGP
	case 0xFF48:
		return p.OBP0
	case 0xFF49:
		return p.OBP1
	case 0xFF4A:
		return p.WY
	case 0xFF4B:
		return p.WX
	default:
		return 0xFF
	}
}

func (p *PPU) writeRegister(addr uint16, v uint8) {
	switch addr {
	case 0xFF40:
		p.LCDC = v
	case 0xFF41:
		p.STAT = (p.STAT & statLYCFlag) | (v &^ statLYCFlag) &^ 0x07 | (p.STAT & 0x07)
	case 0xFF42:
		p.SCY = v
	case 0xFF43:
		p.SCX = v
	case 0xFF44:
		// LY is read-only; writes are ignored.
	case 0xFF45:
		p.LYC = v
	case 0xFF47:
		p.BGP = v
	case 0xFF48:
		p.OBP0 = v
	case 0xFF49:
		p.OBP1 = v
	case 0xFF4A:
		p.WY = v
	case 0xFF4B:
		p.WX = v
	}
}

// updateTileCache decodes the 2-bits-per-pixel row containing a freshly
// written VRAM byte into tileCache's palette-index form.
func (p *PPU) updateTileCache(tileOffset uint16) {
	tileIndex := tileOffset / 16
	rowIndex := (tileOffset % 16) / 2
	rowBase := tileIndex*16 + rowIndex*2
	lo := p.VRAM[rowBase]
	hi := p.VRAM[rowBase+1]
	for x := 0; x < 8; x++ {
		bit := uint(7 - x)
		loBit := (lo >> bit) & 1
		hiBit := (hi >> bit) & 1
		p.tileCache[tileIndex][rowIndex][x] = loBit | hiBit<<1
	}
}

// tileIndexAt resolves a raw tile map byte to a tileCache index, honoring
// LCDC bit 4's addressing-mode switch: unsigned against 0x8000, or signed
// against a 0x9000 base.
func (p *PPU) tileIndexAt(raw uint8) int {
	if p.LCDC&lcdcBGWindowTiles != 0 {
		return int(raw)
	}
	return 256 + int(int8(raw))
}

var shades = [4]uint32{0xFFFFFFFF, 0xFFC0C0C0, 0xFF606060, 0xFF000000}

func applyPalette(index uint8, palette uint8) uint32 {
	shade := (palette >> (index * 2)) & 0x03
	return shades[shade]
}

// renderScanline draws background and window pixels for the current LY
// into FrameBuffer, honoring SCX/SCY scrolling and WX/WY window placement.
func (p *PPU) renderScanline() {
	if int(p.LY) >= ScreenHeight {
		return
	}
	if p.LCDC&lcdcBGWindowEnable == 0 {
		for x := 0; x < ScreenWidth; x++ {
			p.FrameBuffer[int(p.LY)*ScreenWidth+x] = shades[0]
		}
		return
	}

	bgMapBase := uint16(0x1800) // 0x9800 - 0x8000
	if p.LCDC&lcdcBGTileMap != 0 {
		bgMapBase = 0x1C00
	}
	winMapBase := uint16(0x1800)
	if p.LCDC&lcdcWindowTileMap != 0 {
		winMapBase = 0x1C00
	}
	windowActive := p.LCDC&lcdcWindowEnable != 0 && p.LY >= p.WY

	for x := 0; x < ScreenWidth; x++ {
		var mapBase uint16
		var tileCol, tileRow, pixX, pixY int

		if windowActive && int(x) >= int(p.WX)-7 {
			wx := x - (int(p.WX) - 7)
			wy := int(p.LY) - int(p.WY)
			mapBase = winMapBase
			tileCol, pixX = wx/8, wx%8
			tileRow, pixY = wy/8, wy%8
		} else {
			bgX := (x + int(p.SCX)) & 0xFF
			bgY := (int(p.LY) + int(p.SCY)) & 0xFF
			mapBase = bgMapBase
			tileCol, pixX = bgX/8, bgX%8
			tileRow, pixY = bgY/8, bgY%8
		}

		mapOffset := mapBase + uint16(tileRow*32+tileCol)
		raw := p.VRAM[mapOffset]
		tile := p.tileIndexAt(raw)
		colorIndex := p.tileCache[tile][pixY][pixX]
		p.FrameBuffer[int(p.LY)*ScreenWidth+x] = applyPalette(colorIndex, p.BGP)
	}
}
