package bank

import (
	"slices"

	"github.com/retroenv/retrogolib/set"
)

// Line is a single output line of a bank listing.
type Line struct {
	Text string

	Address     uint32 // global address of the first byte of the line
	Addressable bool   // set for lines that output bytes, only these can get a label
}

// Listing is the disassembled content of a program bank in address order.
type Listing struct {
	ID    int
	Lines []Line

	labels set.Set[uint32]
}

func newListing(id int) *Listing {
	return &Listing{
		ID:     id,
		labels: set.New[uint32](),
	}
}

// IsLabel returns whether the global address is referenced or starts a block of code.
func (l *Listing) IsLabel(address uint32) bool {
	return l.labels.Contains(address)
}

// Labels returns all label addresses of the bank in ascending order. This includes addresses
// referenced by the bank that are located in RAM or in other banks.
func (l *Listing) Labels() []uint32 {
	labels := make([]uint32, 0, len(l.labels))
	for address := range l.labels {
		labels = append(labels, address)
	}
	slices.Sort(labels)
	return labels
}

// Defined returns the addresses of all labels that are attached to a line of this bank.
func (l *Listing) Defined() []uint32 {
	var defined []uint32
	for _, line := range l.Lines {
		if line.Addressable && l.labels.Contains(line.Address) {
			defined = append(defined, line.Address)
		}
	}
	return defined
}

func (l *Listing) add(text string) {
	l.Lines = append(l.Lines, Line{Text: text})
}

func (l *Listing) addAt(address uint32, text string) {
	l.Lines = append(l.Lines, Line{
		Text:        text,
		Address:     address,
		Addressable: true,
	})
}
