// Package trace handles the code/data log that an emulator records while executing a ROM.
// The log contains one flag byte for every program ROM byte.
package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/system/nes/codedatalog"
)

// ErrLengthMismatch is returned when the log does not cover exactly all program ROM bytes.
var ErrLengthMismatch = errors.New("code/data log length does not match program ROM size")

// Class is the classification of a single ROM byte.
type Class uint8

// byte classes.
const (
	Unknown Class = iota
	Code
	Data
)

func (c Class) String() string {
	switch c {
	case Code:
		return "code"
	case Data:
		return "data"
	default:
		return "unknown"
	}
}

// Classify returns the class of a log flag. A byte that was executed is code, even if it
// was also read as data. Bank mapping and indirect access flags are ignored.
func Classify(flag codedatalog.PrgFlag) Class {
	switch {
	case flag&codedatalog.Code != 0:
		return Code
	case flag&codedatalog.Data != 0:
		return Data
	default:
		return Unknown
	}
}

// Log contains the flags of all program ROM bytes.
type Log []codedatalog.PrgFlag

// Load reads a code/data log that has to contain exactly prgSize bytes.
func Load(reader io.Reader, prgSize int) (Log, error) {
	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading code/data log: %w", err)
	}
	if len(b) != prgSize {
		return nil, fmt.Errorf("%w: %d bytes, expected %d", ErrLengthMismatch, len(b), prgSize)
	}

	log := make(Log, len(b))
	for i, flag := range b {
		log[i] = codedatalog.PrgFlag(flag)
	}
	return log, nil
}

// Bank returns the flags of the bank with the given id and size.
// An empty slice is returned if the log does not contain the bank.
func (l Log) Bank(id, size int) []codedatalog.PrgFlag {
	start := id * size
	if id < 0 || start >= len(l) {
		return nil
	}
	end := min(start+size, len(l))
	return l[start:end]
}
