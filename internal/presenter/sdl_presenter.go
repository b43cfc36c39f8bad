package presenter

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"dmg01/internal/joypad"
	"dmg01/internal/ppu"
)

// SDLPresenter is the reference FramePresenter: one fixed-size window
// backed by a streaming texture the frame buffer is blitted into every
// VBlank, and a keyboard scancode map for the 8 joypad buttons.
type SDLPresenter struct {
	window  *sdl.Window
	render  *sdl.Renderer
	texture *sdl.Texture
	scale   int
}

// keyMap mirrors the teacher's fyne_ui.go scancode assignments: arrows for
// direction, Z/X for A/B, Return/Backspace for Start/Select.
var keyMap = map[sdl.Scancode]joypad.Button{
	sdl.SCANCODE_RIGHT:    joypad.ButtonRight,
	sdl.SCANCODE_LEFT:     joypad.ButtonLeft,
	sdl.SCANCODE_UP:       joypad.ButtonUp,
	sdl.SCANCODE_DOWN:     joypad.ButtonDown,
	sdl.SCANCODE_Z:        joypad.ButtonA,
	sdl.SCANCODE_X:        joypad.ButtonB,
	sdl.SCANCODE_BACKSPACE: joypad.ButtonSelect,
	sdl.SCANCODE_RETURN:   joypad.ButtonStart,
}

// NewSDLPresenter initializes SDL video and creates a window scaled by the
// given integer factor (1 = native 160x144).
func NewSDLPresenter(scale int) (*SDLPresenter, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("presenter: sdl.Init: %w", err)
	}
	w := ppu.ScreenWidth * scale
	h := ppu.ScreenHeight * scale
	window, err := sdl.CreateWindow("dmg01", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, int32(w), int32(h), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("presenter: CreateWindow: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, fmt.Errorf("presenter: CreateRenderer: %w", err)
	}
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		return nil, fmt.Errorf("presenter: CreateTexture: %w", err)
	}
	return &SDLPresenter{window: window, render: renderer, texture: texture, scale: scale}, nil
}

// Present uploads a completed frame buffer into the streaming texture and
// blits it to the window, scaled to the window's current size.
func (s *SDLPresenter) Present(frame []uint32) error {
	raw := make([]byte, len(frame)*4)
	for i, px := range frame {
		raw[i*4+0] = uint8(px)
		raw[i*4+1] = uint8(px >> 8)
		raw[i*4+2] = uint8(px >> 16)
		raw[i*4+3] = uint8(px >> 24)
	}
	if err := s.texture.Update(nil, raw, ppu.ScreenWidth*4); err != nil {
		return fmt.Errorf("presenter: texture update: %w", err)
	}
	s.render.Clear()
	s.render.Copy(s.texture, nil, nil)
	s.render.Present()
	return nil
}

// PollInput pumps the SDL event queue and samples the keyboard state,
// translating held scancodes into the joypad's button set.
func (s *SDLPresenter) PollInput() map[joypad.Button]bool {
	sdl.PumpEvents()
	keys := sdl.GetKeyboardState()
	held := make(map[joypad.Button]bool, len(keyMap))
	for scancode, button := range keyMap {
		held[button] = keys[scancode] != 0
	}
	return held
}

// Close tears down the texture, renderer, window, and SDL video subsystem.
func (s *SDLPresenter) Close() error {
	s.texture.Destroy()
	s.render.Destroy()
	if err := s.window.Destroy(); err != nil {
		return err
	}
	sdl.Quit()
	return nil
}
