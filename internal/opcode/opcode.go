// Package opcode contains the official 6502 instruction table used to decode program banks.
package opcode

import (
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
)

// Mode defines the addressing mode of an instruction.
type Mode uint8

// addressing modes.
const (
	Absolute Mode = iota
	AbsoluteX
	AbsoluteY
	Accumulator
	Immediate
	Implied
	Indirect
	IndirectY
	Relative
	XIndirect
	ZeroPage
	ZeroPageX
	ZeroPageY
)

var modeNames = [...]string{
	Absolute:    "absolute",
	AbsoluteX:   "absolute,x",
	AbsoluteY:   "absolute,y",
	Accumulator: "accumulator",
	Immediate:   "immediate",
	Implied:     "implied",
	Indirect:    "indirect",
	IndirectY:   "indirect,y",
	Relative:    "relative",
	XIndirect:   "x,indirect",
	ZeroPage:    "zeropage",
	ZeroPageX:   "zeropage,x",
	ZeroPageY:   "zeropage,y",
}

// String returns the name of the addressing mode.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// OperandSize returns the number of operand bytes that follow the opcode byte.
func (m Mode) OperandSize() int {
	switch m {
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	case Immediate, IndirectY, Relative, XIndirect, ZeroPage, ZeroPageX, ZeroPageY:
		return 1
	default:
		return 0
	}
}

// Mnemonics that end a block of code, execution does not continue at the next instruction.
const (
	Jmp = "JMP"
	Rts = "RTS"
)

// Descriptor describes a defined opcode.
type Descriptor struct {
	Name string
	Mode Mode
}

// EndsBlock returns whether the instruction is a return or an unconditional jump.
func (d Descriptor) EndsBlock() bool {
	return d.Name == Jmp || d.Name == Rts
}

// Lookup returns the descriptor of the opcode byte and whether the opcode is defined.
func Lookup(b byte) (Descriptor, bool) {
	d := table[b]
	return d, d.Name != ""
}

// Defined returns the number of defined opcodes.
func Defined() int {
	var n int
	for _, d := range table {
		if d.Name != "" {
			n++
		}
	}
	return n
}

// libraryModes maps the addressing modes of the official instruction set.
var libraryModes = map[cpu6502.AddressingMode]Mode{
	cpu6502.AbsoluteAddressing:    Absolute,
	cpu6502.AbsoluteXAddressing:   AbsoluteX,
	cpu6502.AbsoluteYAddressing:   AbsoluteY,
	cpu6502.AccumulatorAddressing: Accumulator,
	cpu6502.ImmediateAddressing:   Immediate,
	cpu6502.ImpliedAddressing:     Implied,
	cpu6502.IndirectAddressing:    Indirect,
	cpu6502.IndirectYAddressing:   IndirectY,
	cpu6502.RelativeAddressing:    Relative,
	cpu6502.IndirectXAddressing:   XIndirect,
	cpu6502.ZeroPageAddressing:    ZeroPage,
	cpu6502.ZeroPageXAddressing:   ZeroPageX,
	cpu6502.ZeroPageYAddressing:   ZeroPageY,
}

// table maps opcode bytes to descriptors, entries without a name are undefined.
var table = buildTable(&cpu6502.Opcodes)

// buildTable converts the official opcodes of a 6502 opcode table.
// Unofficial opcodes and the KIL slots stay undefined.
func buildTable(opcodes *[256]cpu6502.Opcode) [256]Descriptor {
	var descriptors [256]Descriptor
	for i, op := range opcodes {
		ins := op.Instruction
		if ins == nil || ins.Unofficial || ins == cpu6502.KilInst {
			continue
		}
		mode, ok := libraryModes[op.Addressing]
		if !ok {
			continue
		}
		descriptors[i] = Descriptor{
			Name: strings.ToUpper(ins.Name),
			Mode: mode,
		}
	}
	return descriptors
}
