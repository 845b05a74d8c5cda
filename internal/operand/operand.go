// Package operand renders instruction operands and resolves the program addresses they reference.
package operand

import (
	"encoding/binary"
	"fmt"

	"github.com/retroenv/nescdldisasm/internal/mapper"
	"github.com/retroenv/nescdldisasm/internal/opcode"
)

// branchInstructionSize is the size of a relative branch, the displacement is relative
// to the address following the instruction.
const branchInstructionSize = 2

// Resolver resolves an absolute address referenced from a bank.
type Resolver interface {
	// Target returns the operand text and global address of an absolute address.
	Target(bank int, address uint16) (string, uint32)
}

// Operand is a decoded instruction operand.
type Operand struct {
	Size int    // count of operand bytes following the opcode byte
	Text string // assembler text of the operand

	Target    uint32 // global address referenced by the operand
	HasTarget bool
}

// Format decodes the operand of an instruction with the given addressing mode.
// data contains the bytes following the opcode and has to contain at least
// mode.OperandSize() bytes. address is the global address of the opcode byte.
func Format(mode opcode.Mode, data []byte, bank int, address uint32, resolver Resolver) Operand {
	switch mode {
	case opcode.Absolute, opcode.AbsoluteX, opcode.AbsoluteY:
		return absolute(mode, data, bank, resolver)

	case opcode.Relative:
		displacement := int64(int8(data[0]))
		target := uint32(int64(address) + displacement + branchInstructionSize)
		return Operand{
			Size:      1,
			Text:      mapper.Label(target),
			Target:    target,
			HasTarget: true,
		}

	case opcode.Immediate:
		return Operand{Size: 1, Text: fmt.Sprintf("#%d", data[0])}
	case opcode.Indirect:
		return Operand{Size: 2, Text: fmt.Sprintf("($%02X%02X)", data[1], data[0])}
	case opcode.IndirectY:
		return Operand{Size: 1, Text: fmt.Sprintf("($%02X),Y", data[0])}
	case opcode.XIndirect:
		return Operand{Size: 1, Text: fmt.Sprintf("($%02X,X)", data[0])}
	case opcode.ZeroPage:
		return Operand{Size: 1, Text: fmt.Sprintf("$%02X", data[0])}
	case opcode.ZeroPageX:
		return Operand{Size: 1, Text: fmt.Sprintf("$%02X,X", data[0])}
	case opcode.ZeroPageY:
		return Operand{Size: 1, Text: fmt.Sprintf("$%02X,Y", data[0])}

	default: // accumulator and implied
		return Operand{}
	}
}

func absolute(mode opcode.Mode, data []byte, bank int, resolver Resolver) Operand {
	address := binary.LittleEndian.Uint16(data)
	text, target := resolver.Target(bank, address)

	switch mode {
	case opcode.AbsoluteX:
		text += ",X"
	case opcode.AbsoluteY:
		text += ",Y"
	}

	return Operand{
		Size:      2,
		Text:      text,
		Target:    target,
		HasTarget: true,
	}
}
