package emulator

import (
	"errors"

	"github.com/coleutk/assembler/translate"
)

var f = translate.From

var (
	ErrNoProgram      = errors.New(f("no program loaded"))
	ErrPcRange        = errors.New(f("pc out of range"))
	ErrBadOpcode      = errors.New(f("bad opcode"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrDivideByZero   = errors.New(f("divide by zero"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint32
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d pc %#x %v", err.LineNo, err.Pc, err.Err)
	}
	return f("pc %#x %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
