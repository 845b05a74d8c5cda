// Package loader handles cartridge and code/data log file loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/nescdldisasm/internal/ines"
	"github.com/retroenv/nescdldisasm/internal/options"
	"github.com/retroenv/nescdldisasm/internal/trace"
)

// Loader handles loading cartridge files from disk.
type Loader struct{}

// New creates a new cartridge loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and parses the ROM file and the Code/Data log file of the options.
// The log has to cover all program banks of the ROM.
func (l *Loader) Load(opts options.Program) (*ines.ROM, trace.Log, error) {
	rom, err := l.loadROM(opts.Input)
	if err != nil {
		return nil, nil, err
	}

	cdl, err := l.loadCodeDataLog(opts.CodeDataLog, rom.Header.PRGSize())
	if err != nil {
		return nil, nil, err
	}

	return rom, cdl, nil
}

func (l *Loader) loadROM(name string) (*ines.ROM, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := ines.Load(file)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge %s: %w", name, err)
	}
	return rom, nil
}

func (l *Loader) loadCodeDataLog(name string, prgSize int) (trace.Log, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening CDL file %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	cdl, err := trace.Load(file, prgSize)
	if err != nil {
		return nil, fmt.Errorf("loading CDL file %s: %w", name, err)
	}
	return cdl, nil
}
