// Package disasm converts an iNES cartridge and its code/data log into a WLA-DX project.
package disasm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/retroenv/nescdldisasm/internal/assembler/wla"
	"github.com/retroenv/nescdldisasm/internal/bank"
	"github.com/retroenv/nescdldisasm/internal/ines"
	"github.com/retroenv/nescdldisasm/internal/mapper"
	"github.com/retroenv/nescdldisasm/internal/trace"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	// maxUnresolvedWarnings limits the count of unresolved labels that are logged individually.
	maxUnresolvedWarnings = 10

	romWindowStart = 0x8000
)

// Disasm implements the disassembler of a whole cartridge.
type Disasm struct {
	logger   *log.Logger
	rom      *ines.ROM
	trace    trace.Log
	resolver *mapper.Resolver

	listings []*bank.Listing
	labels   set.Set[uint32] // labels referenced by any bank
}

// Result contains statistics of a processed cartridge.
type Result struct {
	Banks      int
	Labels     int
	Unresolved []uint32 // referenced program addresses that no bank line starts at
}

// New creates a new disassembler for the cartridge. The code/data log has to cover
// all program banks of the cartridge.
func New(logger *log.Logger, rom *ines.ROM, cdl trace.Log) (*Disasm, error) {
	if len(cdl) != rom.Header.PRGSize() {
		return nil, fmt.Errorf("%w: log has %d bytes, expected %d",
			trace.ErrLengthMismatch, len(cdl), rom.Header.PRGSize())
	}

	if len(rom.Cart.Trainer) > 0 {
		logger.Warn("Cartridge trainer is not included in the output",
			log.Int("size", len(rom.Cart.Trainer)))
	}

	return &Disasm{
		logger:   logger,
		rom:      rom,
		trace:    cdl,
		resolver: mapper.New(logger, int(rom.Header.PRGBanks), rom.Header.Mapper()),
		labels:   set.New[uint32](),
	}, nil
}

// Process disassembles all program banks and writes the main file, the program
// bank files and the graphics bank files into the output directory.
func (dis *Disasm) Process(ctx context.Context, dir string) (*Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	if err := dis.disassembleBanks(ctx); err != nil {
		return nil, err
	}

	mainWriter := func(w io.Writer) error {
		return wla.NewMainWriter(dis.rom.Header, w).Write()
	}
	if err := writeFile(filepath.Join(dir, wla.MainFile), mainWriter); err != nil {
		return nil, fmt.Errorf("writing main file: %w", err)
	}

	for _, listing := range dis.listings {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("writing banks: %w", err)
		}

		bankWriter := func(w io.Writer) error {
			return wla.WriteBank(w, listing, dis.labels.Contains)
		}
		if err := writeFile(filepath.Join(dir, wla.BankFileName(listing.ID)), bankWriter); err != nil {
			return nil, fmt.Errorf("writing bank %d: %w", listing.ID, err)
		}
	}

	for id := range int(dis.rom.Header.CHRBanks) {
		name := filepath.Join(dir, wla.CHRFileName(id))
		if err := os.WriteFile(name, dis.rom.CHRBank(id), 0644); err != nil {
			return nil, fmt.Errorf("writing graphics bank %d: %w", id, err)
		}
	}

	unresolved := dis.unresolvedLabels()
	dis.logUnresolved(unresolved)

	return &Result{
		Banks:      len(dis.listings),
		Labels:     len(dis.labels),
		Unresolved: unresolved,
	}, nil
}

func (dis *Disasm) disassembleBanks(ctx context.Context) error {
	dis.listings = make([]*bank.Listing, 0, dis.rom.Header.PRGBanks)

	for id := range int(dis.rom.Header.PRGBanks) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("disassembling banks: %w", err)
		}

		listing, err := bank.Disassemble(id, dis.rom.PRGBank(id), dis.trace.Bank(id, ines.PRGBankSize), dis.resolver)
		if err != nil {
			return fmt.Errorf("disassembling bank %d: %w", id, err)
		}

		labels := listing.Labels()
		for _, address := range labels {
			dis.labels.Add(address)
		}
		dis.listings = append(dis.listings, listing)

		dis.logger.Debug("Disassembled bank",
			log.Int("bank", id),
			log.Hex("load_address", dis.resolver.LoadAddress(id)),
			log.Int("lines", len(listing.Lines)),
			log.Int("labels", len(labels)))
	}
	return nil
}

// unresolvedLabels returns all referenced program addresses in ascending order
// that do not start a line in any bank. The assembler can not resolve these.
func (dis *Disasm) unresolvedLabels() []uint32 {
	lines := set.New[uint32]()
	for _, listing := range dis.listings {
		for _, line := range listing.Lines {
			if line.Addressable {
				lines.Add(line.Address)
			}
		}
	}

	var unresolved []uint32
	for _, address := range slices.Sorted(maps.Keys(dis.labels)) {
		if uint16(address) < romWindowStart || lines.Contains(address) {
			continue
		}
		unresolved = append(unresolved, address)
	}
	return unresolved
}

func (dis *Disasm) logUnresolved(unresolved []uint32) {
	for i, address := range unresolved {
		if i == maxUnresolvedWarnings {
			dis.logger.Warn("Unresolved labels omitted",
				log.Int("count", len(unresolved)-maxUnresolvedWarnings))
			return
		}
		dis.logger.Warn("Unresolved label", log.String("label", mapper.Label(address)))
	}
}

func writeFile(name string, write func(w io.Writer) error) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", name, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing file '%s': %w", name, closeErr)
		}
	}()

	buf := bufio.NewWriter(file)
	if err := write(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing file '%s': %w", name, err)
	}
	return nil
}
