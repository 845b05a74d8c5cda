// Package wla provides helpers to create WLA-DX assembler compatible asm output.
package wla

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/nescdldisasm/internal/bank"
	"github.com/retroenv/nescdldisasm/internal/ines"
	"github.com/retroenv/nescdldisasm/internal/mapper"
)

// MainFile is the name of the top level assembly file.
const MainFile = "main.s"

const (
	headerSlot = 0
	prgSlot    = 1
	chrSlot    = 2
	ramSlot    = 3

	prgSlotAddress = 0xC000
	ramSize        = 0x800
)

var memoryMap = []string{
	".MEMORYMAP",
	fmt.Sprintf("    DEFAULTSLOT %d", prgSlot),
	fmt.Sprintf("    SLOTSIZE $%04X", ines.HeaderSize),
	fmt.Sprintf("    SLOT %d $0000", headerSlot),
	fmt.Sprintf("    SLOTSIZE $%X", ines.PRGBankSize),
	fmt.Sprintf("    SLOT %d $%04X", prgSlot, prgSlotAddress),
	fmt.Sprintf("    SLOTSIZE $%X", ines.CHRBankSize),
	fmt.Sprintf("    SLOT %d $0000", chrSlot),
	fmt.Sprintf("    SLOTSIZE $%X", ramSize),
	fmt.Sprintf("    SLOT %d $0000", ramSlot),
	".ENDME",
	"",
}

var iNESHeader = `.db "NES", $1A`

// BankFileName returns the name of the assembly file of a program bank.
func BankFileName(id int) string {
	return fmt.Sprintf("bank%03d.asm", id)
}

// CHRFileName returns the name of the binary file of a graphics bank.
func CHRFileName(id int) string {
	return fmt.Sprintf("bank%03d.chr", id)
}

// MainWriter writes the top level assembly file that declares the memory layout,
// reproduces the iNES header and includes all bank files.
type MainWriter struct {
	header ines.Header
	writer io.Writer
}

type lineWrite string

type linesWrite []string

type customWrite func() error

// NewMainWriter returns a writer for the main file of a ROM with the given header.
func NewMainWriter(header ines.Header, writer io.Writer) MainWriter {
	return MainWriter{
		header: header,
		writer: writer,
	}
}

// Write writes the main file content.
func (m MainWriter) Write() error {
	writes := []any{
		linesWrite(memoryMap),
		customWrite(m.writeBankMap),
		linesWrite{
			fmt.Sprintf(".BANK 0 SLOT %d", headerSlot),
			".ORG $0000",
			"",
			`.SECTION "Header" FORCE`,
			"",
		},
		lineWrite(iNESHeader),
		customWrite(m.writeHeaderBytes),
		linesWrite{
			"",
			".ENDS",
			"",
			fmt.Sprintf(`.RAMSECTION "RAM" SLOT %d`, ramSlot),
			".ENDS",
			"",
		},
	}

	for id := range int(m.header.PRGBanks) {
		writes = append(writes, lineWrite(fmt.Sprintf(`.INCLUDE "%s"`, BankFileName(id))))
	}
	for id := range int(m.header.CHRBanks) {
		writes = append(writes, customWrite(func() error {
			return m.writeCHRInclude(id)
		}))
	}

	for _, write := range writes {
		switch t := write.(type) {
		case lineWrite:
			if _, err := fmt.Fprintln(m.writer, t); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}

		case linesWrite:
			if err := writeLines(m.writer, t); err != nil {
				return err
			}

		case customWrite:
			if err := t(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m MainWriter) writeBankMap() error {
	prg := int(m.header.PRGBanks)
	chr := int(m.header.CHRBanks)

	return writeLines(m.writer, []string{
		".ROMBANKMAP",
		fmt.Sprintf("    BANKSTOTAL %d", prg+chr+1),
		fmt.Sprintf("    BANKSIZE $%04X", ines.HeaderSize),
		"    BANKS 1",
		fmt.Sprintf("    BANKSIZE $%X", ines.PRGBankSize),
		fmt.Sprintf("    BANKS %d", prg),
		fmt.Sprintf("    BANKSIZE $%X", ines.CHRBankSize),
		fmt.Sprintf("    BANKS %d", chr),
		".ENDRO",
		"",
	})
}

// writeHeaderBytes writes the header bytes following the magic so that the
// assembled ROM carries the identical header.
func (m MainWriter) writeHeaderBytes() error {
	var flags strings.Builder
	fmt.Fprintf(&flags, ".db $%02X", m.header.Flags)
	for _, b := range m.header.Padding {
		fmt.Fprintf(&flags, " $%02X", b)
	}

	return writeLines(m.writer, []string{
		fmt.Sprintf(".db $%02X", m.header.PRGBanks),
		fmt.Sprintf(".db $%02X", m.header.CHRBanks),
		flags.String(),
	})
}

func (m MainWriter) writeCHRInclude(id int) error {
	return writeLines(m.writer, []string{
		"",
		fmt.Sprintf(".BANK %d SLOT %d", id+int(m.header.PRGBanks)+1, chrSlot),
		".ORG $0000",
		fmt.Sprintf(`.INCBIN "%s" READ $%04X`, CHRFileName(id), ines.CHRBankSize),
	})
}

// WriteBank writes the assembly file of a disassembled program bank. isLabel reports
// the global addresses that get a label, this includes addresses referenced by other banks.
func WriteBank(writer io.Writer, listing *bank.Listing, isLabel func(address uint32) bool) error {
	if err := writeLines(writer, []string{
		fmt.Sprintf(".BANK %d", listing.ID+1),
		".ORG $0000",
		"",
		fmt.Sprintf(`.SECTION "Bank%d" FORCE`, listing.ID),
		"",
	}); err != nil {
		return fmt.Errorf("writing bank header: %w", err)
	}

	for _, line := range listing.Lines {
		if line.Addressable && isLabel(line.Address) {
			if _, err := fmt.Fprintf(writer, "%s:\n", mapper.Label(line.Address)); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}
		if _, err := fmt.Fprintln(writer, line.Text); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	if err := writeLines(writer, []string{"", ".ENDS"}); err != nil {
		return fmt.Errorf("writing bank footer: %w", err)
	}
	return nil
}

func writeLines(writer io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}
