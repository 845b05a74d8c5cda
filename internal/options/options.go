// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input       string `arg:"" name:"rom" help:"iNES ROM file to disassemble" type:"existingfile"`
	CodeDataLog string `short:"c" name:"cdl" required:"" help:"Code/Data log file (.cdl) matching the ROM" type:"existingfile"`
	Output      string `short:"o" name:"output" required:"" help:"output directory for the generated WLA-DX project"`
}

// Flags contains behavior options.
type Flags struct {
	AssembleTest bool `name:"verify" help:"verify output by reassembling with WLA-DX and comparing to input"`
	Debug        bool `name:"debug" help:"enable debug logging"`
	Quiet        bool `short:"q" name:"quiet" help:"quiet mode, only log errors"`
}

// Program options of the disassembler.
type Program struct {
	Parameters
	Flags
}
