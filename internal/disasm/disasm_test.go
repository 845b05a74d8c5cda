package disasm

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/nescdldisasm/internal/ines"
	"github.com/retroenv/nescdldisasm/internal/trace"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type testCartridge struct {
	prgBanks int
	chrBanks int
	flags    byte
	prg      map[int][]byte // content by PRG offset
	cdl      map[int][]byte // log flags by PRG offset
}

func (c testCartridge) build(t *testing.T) (*ines.ROM, trace.Log) {
	t.Helper()

	data := []byte{'N', 'E', 'S', 0x1A, byte(c.prgBanks), byte(c.chrBanks), c.flags, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, c.prgBanks*ines.PRGBankSize)
	for offset, content := range c.prg {
		copy(prg[offset:], content)
	}
	chr := bytes.Repeat([]byte{0x55}, c.chrBanks*ines.CHRBankSize)
	data = append(data, prg...)
	data = append(data, chr...)

	rom, err := ines.Load(bytes.NewReader(data))
	assert.NoError(t, err)

	cdl := make([]byte, len(prg))
	for offset, flags := range c.cdl {
		copy(cdl[offset:], flags)
	}
	flags, err := trace.Load(bytes.NewReader(cdl), len(prg))
	assert.NoError(t, err)

	return rom, flags
}

func process(t *testing.T, c testCartridge) (string, *Result) {
	t.Helper()

	rom, cdl := c.build(t)
	dis, err := New(log.NewTestLogger(t), rom, cdl)
	assert.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	result, err := dis.Process(context.Background(), dir)
	assert.NoError(t, err)
	return dir, result
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, name))
	assert.NoError(t, err)
	return string(data)
}

func TestProcessImmediateLoad(t *testing.T) {
	dir, result := process(t, testCartridge{
		prgBanks: 1,
		flags:    0x01,
		prg:      map[int][]byte{0: {0xA9, 0x05}},
		cdl:      map[int][]byte{0: {0x01, 0x01}},
	})

	assert.Equal(t, 1, result.Banks)
	assert.Empty(t, result.Unresolved)

	main := readFile(t, dir, "main.s")
	assert.Contains(t, main, "\n.db $01\n.db $00\n")
	assert.Contains(t, main, ".INCLUDE \"bank000.asm\"")

	bank := readFile(t, dir, "bank000.asm")
	assert.Contains(t, bank, "\n    LDA #5\n")
	assert.Contains(t, bank, ".BANK 1\n.ORG $0000\n\n.SECTION \"Bank0\" FORCE\n\n")
}

func TestProcessFixedBankJump(t *testing.T) {
	dir, result := process(t, testCartridge{
		prgBanks: 2,
		flags:    0xA0, // mapper 10
		prg: map[int][]byte{
			0:                {0x4C, 0x00, 0xC0},
			ines.PRGBankSize: {0xEA},
		},
		cdl: map[int][]byte{
			0:                {0x01, 0x01, 0x01},
			ines.PRGBankSize: {0x01},
		},
	})

	assert.Equal(t, 2, result.Banks)
	assert.Empty(t, result.Unresolved)

	bank0 := readFile(t, dir, "bank000.asm")
	assert.Contains(t, bank0, "L008000:\n    JMP L01C000.w\n")

	bank1 := readFile(t, dir, "bank001.asm")
	assert.Contains(t, bank1, ".BANK 2\n")
	assert.Contains(t, bank1, "L01C000:\n    NOP\n")
}

func TestProcessForeignLabel(t *testing.T) {
	// bank 1 is executed at $C000, the jump target in it is only referenced from bank 0
	dir, _ := process(t, testCartridge{
		prgBanks: 2,
		flags:    0xA0,
		prg: map[int][]byte{
			0:                    {0x20, 0x01, 0xC0},
			ines.PRGBankSize:     {0xEA, 0xEA},
			ines.PRGBankSize + 2: {0x60},
		},
		cdl: map[int][]byte{
			0:                {0x01, 0x01, 0x01},
			ines.PRGBankSize: {0x01, 0x01, 0x01},
		},
	})

	bank1 := readFile(t, dir, "bank001.asm")
	assert.Contains(t, bank1, "L01C000:\n    NOP\nL01C001:\n    NOP\n    RTS\n")
}

func TestProcessUnresolvedLabel(t *testing.T) {
	// the jump target points into the operand of the instruction
	_, result := process(t, testCartridge{
		prgBanks: 1,
		flags:    0xA0,
		prg:      map[int][]byte{0: {0x4C, 0x01, 0xC0}},
		cdl:      map[int][]byte{0: {0x01, 0x01, 0x01}},
	})

	assert.Equal(t, []uint32{0x00C001}, result.Unresolved)
}

func TestProcessUnknownForcesLabel(t *testing.T) {
	dir, _ := process(t, testCartridge{
		prgBanks: 1,
		flags:    0xA0,
		prg:      map[int][]byte{0: {0xEA, 0xFF, 0x12, 0x34, 0xEA}},
		cdl:      map[int][]byte{0: {0x01, 0x00, 0x02, 0x02, 0x01}},
	})

	bank := readFile(t, dir, "bank000.asm")
	assert.Contains(t, bank, "; end of data\nL00C004:\n    NOP\n")
}

func TestProcessCHR(t *testing.T) {
	dir, _ := process(t, testCartridge{
		prgBanks: 1,
		chrBanks: 2,
		prg:      map[int][]byte{0: {0xEA}},
		cdl:      map[int][]byte{0: {0x01}},
	})

	chr, err := os.ReadFile(filepath.Join(dir, "bank001.chr"))
	assert.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x55}, ines.CHRBankSize), chr)

	main := readFile(t, dir, "main.s")
	assert.Contains(t, main, "\n.BANK 2 SLOT 2\n.ORG $0000\n.INCBIN \"bank000.chr\" READ $2000\n")
	assert.Contains(t, main, "\n.BANK 3 SLOT 2\n.ORG $0000\n.INCBIN \"bank001.chr\" READ $2000\n")
}

func TestProcessIdempotent(t *testing.T) {
	c := testCartridge{
		prgBanks: 2,
		chrBanks: 1,
		flags:    0xA0,
		prg: map[int][]byte{
			0:                {0xA9, 0x01, 0xD0, 0xFC, 0x12, 0x34, 0x4C, 0x00, 0xC0},
			ines.PRGBankSize: {0x20, 0x00, 0x80, 0x60, 0xAD, 0x00, 0x20},
		},
		cdl: map[int][]byte{
			0:                {0x01, 0x01, 0x03, 0x03, 0x02, 0x02, 0x01, 0x01, 0x01},
			ines.PRGBankSize: {0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01},
		},
	}

	dir1, _ := process(t, c)
	dir2, _ := process(t, c)

	for _, name := range []string{"main.s", "bank000.asm", "bank001.asm", "bank000.chr"} {
		assert.Equal(t, readFile(t, dir1, name), readFile(t, dir2, name), name)
	}
}

func TestNewTraceLengthMismatch(t *testing.T) {
	rom, _ := testCartridge{prgBanks: 1}.build(t)

	_, err := New(log.NewTestLogger(t), rom, make(trace.Log, 16))
	assert.True(t, errors.Is(err, trace.ErrLengthMismatch))
}

func TestProcessCancelled(t *testing.T) {
	rom, cdl := testCartridge{prgBanks: 1}.build(t)
	dis, err := New(log.NewTestLogger(t), rom, cdl)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = dis.Process(ctx, t.TempDir())
	assert.True(t, errors.Is(err, context.Canceled))
}
