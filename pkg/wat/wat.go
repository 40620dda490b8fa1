// Package wat renders abstract operation descriptors as fragments of the
// WebAssembly text format. Every renderer is a pure function of its inputs;
// the layer holds no state.
package wat

import (
	"fmt"
	"strconv"
)

// Op is a fixed instruction fragment. Add and Subtract open a syntactic
// scope that the emitter closes after the operand instructions.
type Op int

const (
	OpGetLocal Op = iota
	OpAdd
	OpSubtract
	OpLoad
	OpDrop
)

func (o Op) String() string {
	switch o {
	case OpGetLocal:
		return "(get_local)"
	case OpAdd:
		return "(i32.add"
	case OpSubtract:
		return "(i32.sub"
	case OpLoad:
		return "(i32.load32_s)"
	case OpDrop:
		return "drop"
	default:
		return ""
	}
}

// Const pushes a constant on the operand stack.
type Const int32

func (c Const) String() string {
	return fmt.Sprintf("(i32.const %d)", int32(c))
}

// Store writes a constant value at a constant linear-memory address.
type Store struct {
	Addr  Const
	Value Const
}

func (s Store) String() string {
	return fmt.Sprintf("(i32.store %s %s)", s.Addr, s.Value)
}

// Param declares one i32 function parameter slot.
type Param int

func (p Param) String() string {
	return fmt.Sprintf("(param $p%d i32)", int(p))
}

// ResultI32 declares an i32 result type.
const ResultI32 = "(result i32)"

// DataSegment preloads raw bytes into linear memory at a fixed address.
type DataSegment struct {
	Location Const
	Data     string
}

func (d DataSegment) String() string {
	return fmt.Sprintf("(data %s %s)", d.Location, strconv.Quote(d.Data))
}

// Import declares a host function made available to the module.
type Import int

const (
	// ImportFDWrite is the WASI write syscall: four i32 parameters
	// (fd, iovec address, iovec count, bytes-written address), one i32
	// result.
	ImportFDWrite Import = iota
)

func (i Import) String() string {
	switch i {
	case ImportFDWrite:
		return fmt.Sprintf("(import \"wasi_unstable\" \"fd_write\" (func $fd_write (param i32 i32 i32 i32) %s))", ResultI32)
	default:
		return ""
	}
}

// CallFDWrite invokes the imported write syscall with four constant
// arguments.
type CallFDWrite struct {
	FD       Const
	IOVec    Const
	IOVecLen Const
	NWritten Const
}

func (c CallFDWrite) String() string {
	return fmt.Sprintf("(call $fd_write %s %s %s %s)", c.FD, c.IOVec, c.IOVecLen, c.NWritten)
}
