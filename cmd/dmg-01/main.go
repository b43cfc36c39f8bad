// Command dmg-01 runs a cartridge image through the emulator, presenting
// frames through an SDL2 window. Grounded on the teacher's
// cmd/emulator/main.go flag-based CLI (-rom/-scale/-log), adapted to this
// emulator's -r/-b ROM and boot-ROM flags.
package main

import (
	"flag"
	"fmt"
	"os"

	"dmg01/internal/debug"
	"dmg01/internal/emulator"
	"dmg01/internal/presenter"
	"dmg01/internal/rom"
)

func main() {
	romPath := flag.String("r", "", "path to the cartridge ROM image (required)")
	bootROMPath := flag.String("b", "", "path to a 256-byte boot ROM image (optional)")
	scale := flag.Int("scale", 3, "integer window scale factor")
	logLevel := flag.String("log", "warning", "log level: none|error|warning|info|debug|trace")
	flag.Parse()

	if err := run(*romPath, *bootROMPath, *scale, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "dmg-01:", err)
		os.Exit(1)
	}
}

func run(romPath, bootROMPath string, scale int, logLevel string) error {
	if romPath == "" {
		return fmt.Errorf("missing required -r ROM_PATH")
	}

	cart, err := rom.LoadCartridge(romPath)
	if err != nil {
		return err
	}

	var bootROM []byte
	if bootROMPath != "" {
		bootROM, err = rom.LoadBootROM(bootROMPath)
		if err != nil {
			return err
		}
	}

	log := debug.New(parseLogLevel(logLevel))
	defer log.Close()

	emu := emulator.New(cart, bootROM, log)

	pres, err := presenter.NewSDLPresenter(scale)
	if err != nil {
		return fmt.Errorf("initializing presenter: %w", err)
	}
	defer pres.Close()

	return emu.Run(pres)
}

func parseLogLevel(s string) debug.LogLevel {
	switch s {
	case "none":
		return debug.LevelNone
	case "error":
		return debug.LevelError
	case "info":
		return debug.LevelInfo
	case "debug":
		return debug.LevelDebug
	case "trace":
		return debug.LevelTrace
	default:
		return debug.LevelWarning
	}
}
