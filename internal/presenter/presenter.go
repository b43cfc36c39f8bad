// Package presenter defines the FramePresenter collaborator the driver loop
// hands completed frames and polled input to, plus an SDL2-backed
// implementation. Grounded on the teacher's internal/ui/fyne_ui.go SDL2
// usage (sdl.Init, window + streaming texture, sdl.GetKeyboardState
// scancode polling), stripped of the surrounding Fyne devkit panels since
// this emulator's presenter is scoped to window/blit/input alone.
package presenter

import "dmg01/internal/joypad"

// FramePresenter receives one completed 160x144 RGBA frame per call and
// reports which joypad buttons are currently held.
type FramePresenter interface {
	Present(frame []uint32) error
	PollInput() map[joypad.Button]bool
	Close() error
}
