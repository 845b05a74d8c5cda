package mapper

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestIsRAM(t *testing.T) {
	tests := []struct {
		address uint16
		want    bool
	}{
		{0x0000, true},
		{0x07FF, true},
		{0x0800, false},
		{0x2000, false},
		{0x5FFF, false},
		{0x6000, true},
		{0x7FFF, true},
		{0x8000, false},
		{0xFFFF, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRAM(tt.address), "address $%04X", tt.address)
	}
}

func TestLoadAddress(t *testing.T) {
	logger := log.NewTestLogger(t)

	t.Run("mmc4", func(t *testing.T) {
		r := New(logger, 4, 10)
		assert.True(t, r.Supported())
		assert.Equal(t, "MMC4", r.Policy().Name())
		assert.Equal(t, uint16(0x8000), r.LoadAddress(0))
		assert.Equal(t, uint16(0x8000), r.LoadAddress(2))
		assert.Equal(t, uint16(0xC000), r.LoadAddress(3))
	})

	t.Run("single bank mmc4", func(t *testing.T) {
		r := New(logger, 1, 10)
		assert.Equal(t, uint16(0xC000), r.LoadAddress(0))
	})

	t.Run("unsupported mapper", func(t *testing.T) {
		r := New(logger, 4, 1)
		assert.False(t, r.Supported())
		assert.Equal(t, "default", r.Policy().Name())
		assert.Equal(t, uint16(0x8000), r.LoadAddress(0))
		assert.Equal(t, uint16(0x8000), r.LoadAddress(3))
	})
}

func TestGlobalAddress(t *testing.T) {
	logger := log.NewTestLogger(t)
	r := New(logger, 2, 10)

	assert.Equal(t, uint32(0x008000), r.GlobalAddress(0, 0))
	assert.Equal(t, uint32(0x00BFFF), r.GlobalAddress(0, 0x3FFF))
	assert.Equal(t, uint32(0x01C000), r.GlobalAddress(1, 0))
	assert.Equal(t, uint32(0x01C123), r.GlobalAddress(1, 0x123))
}

func TestTarget(t *testing.T) {
	logger := log.NewTestLogger(t)
	r := New(logger, 4, 10)

	tests := []struct {
		name       string
		bank       int
		address    uint16
		wantText   string
		wantGlobal uint32
	}{
		{"zero page", 1, 0x0010, "$0010", 0x0010},
		{"last internal RAM byte", 1, 0x07FF, "$07FF", 0x07FF},
		{"register above RAM", 1, 0x0800, "L010800.w", 0x010800},
		{"PPU register", 2, 0x2000, "L022000.w", 0x022000},
		{"below work RAM", 0, 0x5FFF, "L005FFF.w", 0x005FFF},
		{"work RAM start", 2, 0x6000, "$6000", 0x6000},
		{"work RAM end", 2, 0x7FFF, "$7FFF", 0x7FFF},
		{"switchable window", 1, 0x8000, "L018000.w", 0x018000},
		{"switchable window end", 2, 0xBFFF, "L02BFFF.w", 0x02BFFF},
		{"fixed window", 0, 0xC000, "L03C000.w", 0x03C000},
		{"fixed window from fixed bank", 3, 0xFFFA, "L03FFFA.w", 0x03FFFA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, global := r.Target(tt.bank, tt.address)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantGlobal, global)
		})
	}
}

func TestTargetUnsupportedMapper(t *testing.T) {
	logger := log.NewTestLogger(t)
	r := New(logger, 8, 4)

	text, global := r.Target(2, 0xC000)
	assert.Equal(t, "L07C000.w", text)
	assert.Equal(t, uint32(0x07C000), global)

	text, global = r.Target(2, 0x9000)
	assert.Equal(t, "L029000.w", text)
	assert.Equal(t, uint32(0x029000), global)
}

func TestLookupPolicy(t *testing.T) {
	p, ok := LookupPolicy(10)
	assert.True(t, ok)
	assert.Equal(t, 0, p.FixedBank(1))
	assert.Equal(t, 7, p.FixedBank(8))

	_, ok = LookupPolicy(0)
	assert.False(t, ok)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "L000000", Label(0))
	assert.Equal(t, "L01C000", Label(0x01C000))
	assert.Equal(t, "LABCDEF", Label(0xABCDEF))
}
