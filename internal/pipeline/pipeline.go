// Package pipeline orchestrates the disassembly workflow stages.
package pipeline

import (
	"context"
	"fmt"

	"github.com/retroenv/nescdldisasm/internal/disasm"
	"github.com/retroenv/nescdldisasm/internal/ines"
	"github.com/retroenv/nescdldisasm/internal/loader"
	"github.com/retroenv/nescdldisasm/internal/options"
	"github.com/retroenv/nescdldisasm/internal/trace"
	"github.com/retroenv/nescdldisasm/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// verifier checks that the output directory reassembles to the input ROM.
type verifier func(ctx context.Context, logger *log.Logger, opts options.Program) error

// Pipeline orchestrates the complete disassembly workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
	verify verifier
}

// New creates a new disassembly pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
		verify: verification.VerifyOutput,
	}
}

// Execute runs the complete disassembly pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (*disasm.Result, error) {
	rom, cdl, err := p.loader.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading input files: %w", err)
	}

	return p.ExecuteWithCartridge(ctx, rom, cdl, opts)
}

// ExecuteWithCartridge runs the disassembly pipeline with a pre-loaded cartridge and log.
func (p *Pipeline) ExecuteWithCartridge(ctx context.Context, rom *ines.ROM, cdl trace.Log,
	opts options.Program) (*disasm.Result, error) {

	p.printInfo(opts, rom)

	dis, err := disasm.New(p.logger, rom, cdl)
	if err != nil {
		return nil, fmt.Errorf("creating disassembler: %w", err)
	}

	result, err := dis.Process(ctx, opts.Output)
	if err != nil {
		return nil, fmt.Errorf("disassembling: %w", err)
	}

	if opts.AssembleTest {
		if err := p.verify(ctx, p.logger, opts); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return result, nil
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, rom *ines.ROM) {
	p.logger.Info("Processing NES ROM",
		log.String("file", opts.Input),
		log.Uint8("mapper", rom.Header.Mapper()),
		log.Uint8("prg_banks", rom.Header.PRGBanks),
		log.Uint8("chr_banks", rom.Header.CHRBanks),
		log.String("output", opts.Output),
	)
}
