// Package mapper resolves bank relative addresses of program banks into global addresses,
// based on the bank switching behavior of the cartridge mapper.
package mapper

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

const (
	switchableWindowStart = 0x8000
	fixedWindowStart      = 0xC000

	ramEnd         = 0x0800
	workRAMStart   = 0x6000
	workRAMEnd     = 0x8000
	bankAddressBit = 16
)

// Resolver maps addresses of program banks to global addresses that are unique across all banks.
type Resolver struct {
	banks     int
	id        uint8
	policy    Policy
	supported bool
}

// New returns a resolver for a cartridge with the given count of program banks and mapper id.
// Unsupported mappers are logged and handled with a default bank addressing.
func New(logger *log.Logger, banks int, id uint8) *Resolver {
	policy, ok := LookupPolicy(id)
	if !ok {
		logger.Warn("Unhandled mapper, using default bank addressing",
			log.Uint8("mapper", id),
			log.Hex("load_address", uint16(switchableWindowStart)))
		policy = fallback{}
	}

	return &Resolver{
		banks:     banks,
		id:        id,
		policy:    policy,
		supported: ok,
	}
}

// Supported returns whether the mapper has full bank addressing support.
func (r *Resolver) Supported() bool {
	return r.supported
}

// Policy returns the used mapper policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// LoadAddress returns the CPU address that the first byte of the bank is mapped to.
func (r *Resolver) LoadAddress(bank int) uint16 {
	return r.policy.LoadAddress(bank, r.banks)
}

// GlobalAddress returns the global address of the byte at the index of the bank.
func (r *Resolver) GlobalAddress(bank, index int) uint32 {
	return GlobalAddress(bank, r.LoadAddress(bank)) + uint32(index)
}

// Target resolves an absolute address referenced by code in the given bank.
// It returns the operand text and the global address of the reference.
// RAM addresses are returned unchanged and rendered as hex value.
func (r *Resolver) Target(bank int, address uint16) (string, uint32) {
	if IsRAM(address) {
		return fmt.Sprintf("$%04X", address), uint32(address)
	}

	if address >= fixedWindowStart {
		bank = r.policy.FixedBank(r.banks)
	}
	global := GlobalAddress(bank, address)
	return Label(global) + ".w", global
}

// GlobalAddress combines a bank index and a CPU address to a global address.
func GlobalAddress(bank int, address uint16) uint32 {
	return uint32(bank)<<bankAddressBit + uint32(address)
}

// Label returns the label name of a global address.
func Label(global uint32) string {
	return fmt.Sprintf("L%06X", global)
}

// IsRAM returns whether the address references internal RAM or cartridge work RAM.
func IsRAM(address uint16) bool {
	return address < ramEnd || (address >= workRAMStart && address < workRAMEnd)
}
