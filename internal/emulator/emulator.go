// Package emulator composes the CPU, memory bus, and peripherals into a
// runnable DMG-01 system and drives the main emulation loop. Grounded on
// the teacher's internal/emulator/emulator.go composition style (component
// structs wired in a constructor, LoadROM/Reset/Start/Stop/Pause/Resume),
// but replacing its fixed-rate clock.MasterClock scheduler with a simpler
// CPU.Step()-driven loop — the LR35902 has no independent PPU/CPU clock
// domain to schedule, so cycles are forwarded to the bus as the CPU reports
// spending them.
package emulator

import (
	"fmt"
	"time"

	"dmg01/internal/apu"
	"dmg01/internal/cpu"
	"dmg01/internal/debug"
	"dmg01/internal/joypad"
	"dmg01/internal/memory"
	"dmg01/internal/ppu"
	"dmg01/internal/presenter"
	"dmg01/internal/rom"
	"dmg01/internal/timer"
)

// cyclesPerSecond is the DMG's main clock rate; RunFrameRealtime paces to it.
const cyclesPerSecond = 4194304
const frameDuration = time.Second * 70224 / cyclesPerSecond

// Emulator owns one complete DMG-01 system: CPU, bus, and all peripherals.
type Emulator struct {
	CPU    *cpu.CPU
	Bus    *memory.Bus
	PPU    *ppu.PPU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	APU    *apu.APU

	Log *debug.Logger

	paused bool
}

// New constructs an Emulator around a cartridge image, with an optional
// boot ROM. With nil, the cartridge is visible at 0x0000 and the CPU starts
// there with all registers zero; the post-boot register values are not set
// up, since boot-ROM emulation is the supported path.
func New(cart *rom.Cartridge, bootROM []byte, log *debug.Logger) *Emulator {
	if log == nil {
		log = debug.New(debug.LevelWarning)
	}
	p := ppu.New()
	t := timer.New()
	j := joypad.New()
	a := apu.New()
	bus := memory.New(bootROM, cart, p, t, j, a)
	c := cpu.New(bus)
	c.Log = logAdapter{log}

	return &Emulator{CPU: c, Bus: bus, PPU: p, Timer: t, Joypad: j, APU: a, Log: log}
}

type logAdapter struct{ l *debug.Logger }

func (a logAdapter) Logf(component string, format string, args ...interface{}) {
	a.l.Log(debug.Component(component), debug.LevelDebug, format, args...)
}

// LoadROM swaps in a new cartridge and resets the CPU to run it from the
// top.
func (e *Emulator) LoadROM(cart *rom.Cartridge) {
	e.Bus.Cartridge = cart
	e.CPU.Reset()
}

// Reset returns the CPU, PPU, timer, joypad, and APU to power-on state,
// keeping the loaded cartridge. RAM contents, IE/IF, and the boot ROM
// mapping held by the bus are left as they are.
func (e *Emulator) Reset() {
	e.CPU.Reset()
	*e.PPU = *ppu.New()
	*e.Timer = *timer.New()
	*e.Joypad = *joypad.New()
	*e.APU = *apu.New()
}

// Step runs exactly one CPU instruction (or interrupt dispatch / HALT
// tick) and forwards its cycle cost to the PPU and timer, raising any
// interrupts they report.
// Step executes one CPU instruction and forwards its cycle cost to the PPU
// and timer, raising interrupts on the bus as they fire. Cycle-forwarding
// lives here rather than inside Bus itself, since the bus has no notion of
// "one CPU Step" to forward per call.
func (e *Emulator) Step() error {
	cycles, err := e.CPU.Step()
	if err != nil {
		return fmt.Errorf("emulator: %w", err)
	}

	if vblank, stat := e.PPU.Step(cycles); vblank || stat {
		if vblank {
			e.Bus.RaiseInterrupt(memory.InterruptVBlank)
		}
		if stat {
			e.Bus.RaiseInterrupt(memory.InterruptLCDStat)
		}
	}
	if e.Timer.Step(cycles) {
		e.Bus.RaiseInterrupt(memory.InterruptTimer)
	}
	return nil
}

// RunFrame steps the CPU until the PPU completes a frame, then returns the
// frame buffer. Callers that want real-time pacing should sleep the
// remainder of frameDuration themselves (see RunFrameRealtime).
func (e *Emulator) RunFrame() (*[ppu.ScreenWidth * ppu.ScreenHeight]uint32, error) {
	e.PPU.FrameReady = false
	for !e.PPU.FrameReady {
		if err := e.Step(); err != nil {
			return nil, err
		}
	}
	return &e.PPU.FrameBuffer, nil
}

// RunFrameRealtime runs one frame and sleeps out the remainder of a
// ~16.74ms interval, matching the teacher's RunFrame frame-limiter
// (time.Sleep(FrameTime - elapsed)).
func (e *Emulator) RunFrameRealtime() (*[ppu.ScreenWidth * ppu.ScreenHeight]uint32, error) {
	start := time.Now()
	frame, err := e.RunFrame()
	if err != nil {
		return nil, err
	}
	if elapsed := time.Since(start); elapsed < frameDuration {
		time.Sleep(frameDuration - elapsed)
	}
	return frame, nil
}

// ApplyInput latches externally-polled button state into the joypad,
// raising the Joypad interrupt on any newly pressed, currently-selected
// button.
func (e *Emulator) ApplyInput(held map[joypad.Button]bool) {
	for b, isHeld := range held {
		if e.Joypad.SetButton(b, isHeld) {
			e.Bus.RaiseInterrupt(memory.InterruptJoypad)
		}
	}
}

// Run drives RunFrameRealtime in a loop, presenting each frame and
// polling input, until the presenter reports a fatal error or Pause is
// called.
func (e *Emulator) Run(p presenter.FramePresenter) error {
	e.paused = false
	for !e.paused {
		frame, err := e.RunFrameRealtime()
		if err != nil {
			return err
		}
		if err := p.Present(frame[:]); err != nil {
			return fmt.Errorf("emulator: present: %w", err)
		}
		e.ApplyInput(p.PollInput())
	}
	return nil
}

// Pause stops Run's loop after its current frame.
func (e *Emulator) Pause() { e.paused = true }

// Resume clears a prior Pause; callers must call Run again to continue.
func (e *Emulator) Resume() { e.paused = false }
