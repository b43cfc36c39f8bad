package rom

// Builder assembles a raw DMG cartridge image byte-by-byte, for tests that
// need a runnable ROM without a binary fixture on disk. Repurposed from the
// teacher's ROMBuilder (internal/rom/builder.go), which wrote a custom
// "RMCF" header; a DMG cartridge has no header requirement the Cartridge
// loader checks, so this builder just pads to MinCartridgeSize.
type Builder struct {
	code []byte
}

// NewBuilder starts an empty image; code is placed starting at 0x0000,
// where the CPU's PC starts when no boot ROM is mapped.
func NewBuilder() *Builder {
	return &Builder{}
}

// Byte appends a single raw byte (an opcode or operand byte).
func (b *Builder) Byte(v uint8) *Builder {
	b.code = append(b.code, v)
	return b
}

// Word appends a little-endian 16-bit immediate.
func (b *Builder) Word(v uint16) *Builder {
	b.code = append(b.code, uint8(v), uint8(v>>8))
	return b
}

// Bytes appends a run of raw bytes.
func (b *Builder) Bytes(vs ...uint8) *Builder {
	b.code = append(b.code, vs...)
	return b
}

// Build pads the assembled code out to MinCartridgeSize and wraps it as a
// Cartridge.
func (b *Builder) Build() (*Cartridge, error) {
	image := make([]byte, MinCartridgeSize)
	copy(image, b.code)
	return NewCartridgeFromBytes(image)
}
