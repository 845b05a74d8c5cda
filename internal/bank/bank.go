// Package bank disassembles a single program bank guided by the code/data log.
package bank

import (
	"errors"
	"fmt"

	"github.com/retroenv/nescdldisasm/internal/opcode"
	"github.com/retroenv/nescdldisasm/internal/operand"
	"github.com/retroenv/nescdldisasm/internal/trace"
	"github.com/retroenv/retrogolib/arch/system/nes/codedatalog"
)

// ErrTraceMismatch is returned when the bank and its code/data log slice differ in size,
// which means that they were not created from the same ROM layout.
var ErrTraceMismatch = errors.New("bank and code/data log sizes differ")

// Comments and markers written into the listing.
const (
	StartOfData       = "; start of data"
	EndOfData         = "; end of data"
	invalidOpcode     = " ; invalid opcode?"
	instructionCutOff = " ; instruction exceeds bank"
)

// Resolver provides the address resolving of the cartridge mapper.
type Resolver interface {
	operand.Resolver

	// GlobalAddress returns the global address of the byte at the index of the bank.
	GlobalAddress(bank, index int) uint32
}

type scanner struct {
	id       int
	prg      []byte
	resolver Resolver

	state   state
	listing *Listing
}

// Disassemble converts the bank with the given id to a listing. flags contains the
// code/data log flags of the bank and has to match the bank in size.
func Disassemble(id int, prg []byte, flags []codedatalog.PrgFlag, resolver Resolver) (*Listing, error) {
	if len(prg) != len(flags) {
		return nil, fmt.Errorf("%w: bank %d has %d bytes but %d log flags",
			ErrTraceMismatch, id, len(prg), len(flags))
	}

	s := &scanner{
		id:       id,
		prg:      prg,
		resolver: resolver,
		state:    blockStart,
		listing:  newListing(id),
	}

	for i := 0; i < len(prg); {
		switch trace.Classify(flags[i]) {
		case trace.Code:
			i += s.code(i)
		case trace.Data:
			s.data(i)
			i++
		default:
			s.unknown(i)
			i++
		}
	}

	if s.state.insideData() {
		s.listing.add(EndOfData)
	}
	return s.listing, nil
}

// code processes an executed byte and returns the count of processed bytes.
func (s *scanner) code(index int) int {
	var endOfData bool
	s.state, endOfData = s.state.code()
	if endOfData {
		s.listing.add(EndOfData)
	}

	address := s.resolver.GlobalAddress(s.id, index)
	b := s.prg[index]

	desc, ok := opcode.Lookup(b)
	if !ok {
		s.listing.addAt(address, dataByte(b)+invalidOpcode)
		return 1
	}

	size := desc.Mode.OperandSize()
	if index+1+size > len(s.prg) {
		s.listing.addAt(address, dataByte(b)+instructionCutOff)
		return 1
	}

	var label bool
	s.state, label = s.state.instruction(desc.EndsBlock())
	if label {
		s.listing.labels.Add(address)
	}

	op := operand.Format(desc.Mode, s.prg[index+1:index+1+size], s.id, address, s.resolver)
	if op.HasTarget {
		s.listing.labels.Add(op.Target)
	}

	s.listing.addAt(address, instructionText(desc.Name, op.Text))
	if desc.EndsBlock() {
		s.listing.add("")
	}
	return 1 + op.Size
}

func (s *scanner) data(index int) {
	var startOfData bool
	s.state, startOfData = s.state.data()
	if startOfData {
		s.listing.add(StartOfData)
	}

	address := s.resolver.GlobalAddress(s.id, index)
	s.listing.addAt(address, dataByte(s.prg[index]))
}

func (s *scanner) unknown(index int) {
	var endOfData bool
	s.state, endOfData = s.state.unknown()
	if endOfData {
		s.listing.add(EndOfData)
	}

	address := s.resolver.GlobalAddress(s.id, index)
	s.listing.addAt(address, dataByte(s.prg[index]))
}

func instructionText(name, param string) string {
	if param == "" {
		return "    " + name
	}
	return "    " + name + " " + param
}

func dataByte(b byte) string {
	return fmt.Sprintf(".db $%02X", b)
}
