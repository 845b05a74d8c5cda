package bank

// state of the scan over the bytes of a bank.
type state uint8

const (
	blockStart       state = iota // the next instruction starts a new block and gets a label
	inCode                        // inside a block of code
	inData                        // inside a run of data bytes
	inDataBlockStart              // inside a run of data bytes, the next instruction starts a new block
)

var stateNames = [...]string{
	blockStart:       "block start",
	inCode:           "code",
	inData:           "data",
	inDataBlockStart: "data, block start",
}

func (s state) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

func (s state) insideData() bool {
	return s == inData || s == inDataBlockStart
}

// code is the transition for a byte that was executed. It returns whether
// a data run ended.
func (s state) code() (state, bool) {
	switch s {
	case inData:
		return inCode, true
	case inDataBlockStart:
		return blockStart, true
	default:
		return s, false
	}
}

// instruction is the transition for a decoded instruction, it has to follow code.
// It returns whether the instruction needs a label.
func (s state) instruction(endsBlock bool) (state, bool) {
	label := s == blockStart
	if endsBlock {
		return blockStart, label
	}
	return inCode, label
}

// data is the transition for a byte that was read as data. It returns whether
// a data run started.
func (s state) data() (state, bool) {
	switch s {
	case inCode:
		return inData, true
	case blockStart:
		return inDataBlockStart, true
	default:
		return s, false
	}
}

// unknown is the transition for a byte that was neither executed nor read. It returns whether
// a data run ended. The next instruction always starts a new block.
func (s state) unknown() (state, bool) {
	return blockStart, s.insideData()
}
