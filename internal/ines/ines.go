// Package ines parses cartridge images in the iNES format.
package ines

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

// Sizes of the iNES file parts.
const (
	HeaderSize  = 0x10
	PRGBankSize = 0x4000
	CHRBankSize = 0x2000
)

// Magic is the signature at the start of every iNES file.
var Magic = [4]byte{'N', 'E', 'S', 0x1A}

var (
	// ErrInvalidMagic is returned for files that do not start with the iNES signature.
	ErrInvalidMagic = errors.New("file is not an iNES ROM")
	// ErrTruncated is returned for files that end before all parts the header describes.
	ErrTruncated = errors.New("ROM file is truncated")
)

// Header is the iNES file header.
type Header struct {
	PRGBanks uint8 // count of 16KB program banks
	CHRBanks uint8 // count of 8KB graphics banks
	Flags    uint8 // mapper low nibble, mirroring, battery and trainer flags
	Padding  [9]byte
}

// ParseHeader parses the header at the start of the file content.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes but file has %d", ErrTruncated, HeaderSize, len(data))
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return Header{}, ErrInvalidMagic
	}

	h := Header{
		PRGBanks: data[4],
		CHRBanks: data[5],
		Flags:    data[6],
	}
	copy(h.Padding[:], data[7:HeaderSize])
	return h, nil
}

// Mapper returns the mapper id stored in the high nibble of the flags.
func (h Header) Mapper() uint8 {
	return h.Flags >> 4
}

// PRGSize returns the size of all program banks.
func (h Header) PRGSize() int {
	return int(h.PRGBanks) * PRGBankSize
}

// CHRSize returns the size of all graphics banks.
func (h Header) CHRSize() int {
	return int(h.CHRBanks) * CHRBankSize
}

// Bytes returns the encoded header.
func (h Header) Bytes() []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, Magic[:]...)
	b = append(b, h.PRGBanks, h.CHRBanks, h.Flags)
	b = append(b, h.Padding[:]...)
	return b
}

// ROM is a loaded cartridge image.
type ROM struct {
	Header Header
	Cart   *cartridge.Cartridge
}

// Load reads and validates an iNES cartridge image.
func Load(reader io.Reader) (*ROM, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	// the cartridge loader skips a trainer and reads NES 2.0 size extensions
	cart, err := cartridge.LoadFile(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}

	return &ROM{
		Header: header,
		Cart:   cart,
	}, nil
}

// PRGBank returns the content of the program bank with the given id.
func (r *ROM) PRGBank(id int) []byte {
	start := id * PRGBankSize
	return r.Cart.PRG[start : start+PRGBankSize]
}

// CHRBank returns the content of the graphics bank with the given id.
func (r *ROM) CHRBank(id int) []byte {
	start := id * CHRBankSize
	return r.Cart.CHR[start : start+CHRBankSize]
}
