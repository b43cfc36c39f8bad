package emulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dmg01/internal/joypad"
	"dmg01/internal/rom"
)

func buildCartridge(t *testing.T, code ...uint8) *rom.Cartridge {
	t.Helper()
	b := rom.NewBuilder()
	b.Bytes(code...)
	cart, err := b.Build()
	require.NoError(t, err)
	return cart
}

func TestStepExecutesSequentially(t *testing.T) {
	cart := buildCartridge(t,
		0x06, 0x05, // LD B,5
		0x04,       // INC B
		0x76,       // HALT
	)
	e := New(cart, nil, nil)

	require.NoError(t, e.Step())
	require.Equal(t, uint8(0x05), e.CPU.Regs.B)

	require.NoError(t, e.Step())
	require.Equal(t, uint8(0x06), e.CPU.Regs.B)

	require.NoError(t, e.Step())
	require.True(t, e.CPU.Halted)
}

func TestUnknownOpcodeSurfacesAsError(t *testing.T) {
	cart := buildCartridge(t, 0xD3)
	e := New(cart, nil, nil)
	err := e.Step()
	require.Error(t, err)
}

func TestRunFrameCompletesAndProducesFrameBuffer(t *testing.T) {
	// An infinite JR -2 loop so PPU/timer cycles accumulate for a full
	// frame without the CPU ever halting.
	cart := buildCartridge(t,
		0x18, 0xFE, // JR -2 (back to self)
	)
	e := New(cart, nil, nil)
	e.PPU.LCDC = 0x80 // display enable bit

	frame, err := e.RunFrame()
	require.NoError(t, err)
	require.Equal(t, uint8(144), e.PPU.LY) // FrameReady flips exactly as LY reaches VBlank
	require.Len(t, frame[:], 160*144)
}

func TestJoypadInterruptPropagatesThroughBus(t *testing.T) {
	cart := buildCartridge(t, 0x00)
	e := New(cart, nil, nil)
	e.Joypad.Write8(0xFF00, 0xEF) // select direction column (bit4 low)

	e.ApplyInput(map[joypad.Button]bool{joypad.ButtonUp: true})
	require.NotZero(t, e.Bus.InterruptFlag()&(1<<4), "joypad press should set IF bit 4")
}
