// Package verification verifies that the generated output recreates the input.
package verification

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/retroenv/nescdldisasm/internal/assembler/wla"
	"github.com/retroenv/nescdldisasm/internal/options"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
	"github.com/retroenv/retrogolib/log"
)

// maxReportedMismatches limits the count of logged offset mismatches per buffer.
const maxReportedMismatches = 10

// assembleFunc assembles the project in the directory to the output file.
type assembleFunc func(ctx context.Context, dir, outputFile string) error

// VerifyOutput verifies that the output directory reassembles to the exact input file.
func VerifyOutput(ctx context.Context, logger *log.Logger, options options.Program) error {
	return verifyOutput(ctx, logger, options, wla.AssembleUsingExternalApp)
}

func verifyOutput(ctx context.Context, logger *log.Logger, options options.Program, assemble assembleFunc) error {
	outputFile, err := os.CreateTemp("", "nescdldisasm.*.nes")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	_ = outputFile.Close()
	defer func() {
		_ = os.Remove(outputFile.Name())
	}()

	if err := assemble(ctx, options.Output, outputFile.Name()); err != nil {
		return fmt.Errorf("reassembling .nes file using wla-dx failed: %w", err)
	}

	source, err := os.ReadFile(options.Input)
	if err != nil {
		return fmt.Errorf("reading source file for comparison: %w", err)
	}

	destination, err := os.ReadFile(outputFile.Name())
	if err != nil {
		return fmt.Errorf("reading destination file for comparison: %w", err)
	}

	if err = compareCartridgeDetails(logger, source, destination); err != nil {
		return fmt.Errorf("comparing cartridge details: %w", err)
	}
	if err := checkBufferEqual(logger, source, destination); err != nil {
		return fmt.Errorf("file mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs <= maxReportedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}

func compareCartridgeDetails(logger *log.Logger, input, output []byte) error {
	cart1, err := cartridge.LoadFile(bytes.NewReader(input))
	if err != nil {
		return fmt.Errorf("loading cartridge file: %w", err)
	}
	cart2, err := cartridge.LoadFile(bytes.NewReader(output))
	if err != nil {
		return fmt.Errorf("loading cartridge file: %w", err)
	}

	if err := checkBufferEqual(logger, cart1.PRG, cart2.PRG); err != nil {
		return fmt.Errorf("segment PRG mismatch: %w", err)
	}
	if err := checkBufferEqual(logger, cart1.CHR, cart2.CHR); err != nil {
		return fmt.Errorf("segment CHR mismatch: %w", err)
	}
	if err := checkBufferEqual(logger, cart1.Trainer, cart2.Trainer); err != nil {
		return fmt.Errorf("trainer mismatch: %w", err)
	}
	if cart1.Mapper != cart2.Mapper {
		return fmt.Errorf("mapper mismatch, expected %d but got %d", cart1.Mapper, cart2.Mapper)
	}
	if cart1.Mirror != cart2.Mirror {
		return fmt.Errorf("mirror mismatch, expected %d but got %d", cart1.Mirror, cart2.Mirror)
	}
	if cart1.Battery != cart2.Battery {
		return fmt.Errorf("battery mismatch, expected %d but got %d", cart1.Battery, cart2.Battery)
	}
	return nil
}
