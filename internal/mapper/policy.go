package mapper

// Policy describes how a cartridge mapper places program banks into the CPU address space.
type Policy interface {
	// Name returns a human readable name of the mapper.
	Name() string
	// LoadAddress returns the CPU address that the first byte of the bank is mapped to.
	LoadAddress(bank, banks int) uint16
	// FixedBank returns the bank that is visible in the fixed upper window at $C000.
	FixedBank(banks int) int
}

// policies contains all mappers with full bank addressing support, indexed by mapper id.
var policies = map[uint8]Policy{
	10: mmc4{},
}

// LookupPolicy returns the policy of the given mapper id and whether the mapper is supported.
func LookupPolicy(id uint8) (Policy, bool) {
	p, ok := policies[id]
	return p, ok
}

// mmc4 keeps the last bank fixed at $C000-$FFFF, all other banks are switched into $8000-$BFFF.
type mmc4 struct{}

func (mmc4) Name() string {
	return "MMC4"
}

func (mmc4) LoadAddress(bank, banks int) uint16 {
	if bank == banks-1 {
		return fixedWindowStart
	}
	return switchableWindowStart
}

func (mmc4) FixedBank(banks int) int {
	return lastBank(banks)
}

// fallback is used for all unsupported mappers. Every bank is assumed to load at $8000 while
// references into the fixed window resolve to the last bank, labels can be wrong for mappers
// that do not behave like this.
type fallback struct{}

func (fallback) Name() string {
	return "default"
}

func (fallback) LoadAddress(int, int) uint16 {
	return switchableWindowStart
}

func (fallback) FixedBank(banks int) int {
	return lastBank(banks)
}

func lastBank(banks int) int {
	if banks < 1 {
		return 0
	}
	return banks - 1
}
