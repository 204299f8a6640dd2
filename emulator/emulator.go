// Package emulator executes assembled s32 program images.
package emulator

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/coleutk/assembler/vm"
)

// Machine interprets an s32 program image: a value stack, a program
// counter, and console input/output.
type Machine struct {
	Verbose bool        // If set, traces every instruction executed.
	Program *vm.Program // Program image to execute; set before Reset.
	Input   io.Reader   // Console input for input/stinput; default os.Stdin.
	Output  io.Writer   // Console output for print/stprint; default os.Stdout.

	code     []vm.Word
	pc       uint32
	stack    vm.Stack
	exited   bool
	exitCode int32
	in       *bufio.Reader
}

// NewMachine creates a new machine with no program loaded.
func NewMachine() *Machine {
	return &Machine{}
}

// Reset loads the program image and rewinds the machine.
func (emu *Machine) Reset() (err error) {
	if emu.Program == nil {
		err = ErrNoProgram
		return
	}

	emu.code = emu.code[:0]
	for _, code := range emu.Program.Words() {
		emu.code = append(emu.code, code)
	}

	emu.pc = 0
	emu.stack.Reset()
	emu.exited = false
	emu.exitCode = 0

	if emu.Input == nil {
		emu.Input = os.Stdin
	}
	if emu.Output == nil {
		emu.Output = os.Stdout
	}
	emu.in = bufio.NewReader(emu.Input)

	return
}

// ExitCode returns the code of the exit instruction that stopped the
// machine.
func (emu *Machine) ExitCode() int32 {
	return emu.exitCode
}

// Pc returns the current program counter.
func (emu *Machine) Pc() uint32 {
	return emu.pc
}

// Depth returns the current stack depth, in words.
func (emu *Machine) Depth() int {
	return emu.stack.Depth()
}

// lineNo maps a byte address back to its source line, when known.
func (emu *Machine) lineNo(pc uint32) int {
	dbg := emu.Program.Debug(pc)
	if dbg.Instruction == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick executes a single instruction.
func (emu *Machine) Tick() (done bool, err error) {
	if emu.exited {
		done = true
		return
	}

	pc := emu.pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: emu.lineNo(pc), Err: err}
		}
	}()

	if pc%4 != 0 || int(pc/4) >= len(emu.code) {
		err = ErrPcRange
		return
	}
	code := emu.code[pc/4]

	if emu.Verbose {
		log.Printf("%06x: %v\n", pc, code)
	}

	next := pc + 4

	switch code.Op() {
	case vm.OP_MISC:
		switch code.Misc() {
		case vm.MISC_EXIT:
			emu.exited = true
			emu.exitCode = code.ExitCode()
			done = true
			return
		case vm.MISC_SWAP:
			err = emu.swap(code.SwapFrom(), code.SwapTo())
		case vm.MISC_NOP:
		case vm.MISC_INPUT:
			err = emu.input()
		case vm.MISC_STINPUT:
			err = emu.stinput(code.MaxInput())
		case vm.MISC_DEBUG:
			fmt.Fprintf(emu.Output, "debug %#x pc=%#x depth=%d\n",
				code.DebugValue(), pc, emu.stack.Depth())
		default:
			err = ErrBadOpcode
		}
	case vm.OP_POP:
		if !emu.stack.Drop(code.Offset()) {
			err = ErrStackUnderflow
		}
	case vm.OP_BINARY:
		err = emu.binary(code.Binary())
	case vm.OP_UNARY:
		err = emu.unary(code.Unary())
	case vm.OP_STPRINT:
		err = emu.stprint(code.Offset())
	case vm.OP_CALL:
		err = emu.push(int32(pc + 4))
		next = pc + uint32(code.Offset())
	case vm.OP_RETURN:
		offset := code.Offset()
		target, ok := emu.stack.At(offset)
		if !ok || !emu.stack.Drop(offset+4) {
			err = ErrStackUnderflow
			return
		}
		next = uint32(target)
	case vm.OP_GOTO:
		next = pc + uint32(code.Offset())
	case vm.OP_IF:
		var taken bool
		taken, err = emu.compare(code.Cond())
		if taken {
			next = pc + uint32(code.Offset())
		}
	case vm.OP_UNARY_IF:
		var taken bool
		taken, err = emu.test(code.UnaryCond())
		if taken {
			next = pc + uint32(code.Offset())
		}
	case vm.OP_DUP:
		value, ok := emu.stack.At(code.Offset())
		if !ok {
			err = ErrStackUnderflow
			return
		}
		err = emu.push(value)
	case vm.OP_PRINT:
		err = emu.print(code.Offset(), code.Format())
	case vm.OP_DUMP:
		emu.dump()
	case vm.OP_PUSH:
		err = emu.push(code.Value())
	default:
		err = ErrBadOpcode
	}

	if err != nil {
		return
	}
	emu.pc = next

	return
}

// Run executes until the program exits, returning its exit code.
func (emu *Machine) Run() (code int32, err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}
	code = emu.exitCode

	return
}

func (emu *Machine) push(value int32) (err error) {
	if emu.stack.Full() {
		err = ErrStackOverflow
		return
	}
	emu.stack.Push(value)

	return
}

func (emu *Machine) pop() (value int32, err error) {
	value, ok := emu.stack.Pop()
	if !ok {
		err = ErrStackUnderflow
	}

	return
}

func (emu *Machine) swap(from, to int32) (err error) {
	a, ok := emu.stack.At(from)
	if !ok {
		return ErrStackUnderflow
	}
	b, ok := emu.stack.At(to)
	if !ok {
		return ErrStackUnderflow
	}
	emu.stack.SetAt(from, b)
	emu.stack.SetAt(to, a)

	return
}

// binary pops the right then the left operand and pushes the result.
func (emu *Machine) binary(op vm.BinaryOp) (err error) {
	right, err := emu.pop()
	if err != nil {
		return
	}
	left, err := emu.pop()
	if err != nil {
		return
	}

	var value int32
	switch op {
	case vm.BIN_ADD:
		value = left + right
	case vm.BIN_SUB:
		value = left - right
	case vm.BIN_MUL:
		value = left * right
	case vm.BIN_DIV:
		if right == 0 {
			return ErrDivideByZero
		}
		value = left / right
	case vm.BIN_REM:
		if right == 0 {
			return ErrDivideByZero
		}
		value = left % right
	case vm.BIN_AND:
		value = left & right
	case vm.BIN_OR:
		value = left | right
	case vm.BIN_XOR:
		value = left ^ right
	case vm.BIN_LSL:
		value = left << (uint32(right) & 31)
	case vm.BIN_LSR:
		value = int32(uint32(left) >> (uint32(right) & 31))
	case vm.BIN_ASR:
		value = left >> (uint32(right) & 31)
	default:
		return ErrBadOpcode
	}

	return emu.push(value)
}

func (emu *Machine) unary(op vm.UnaryOp) (err error) {
	value, err := emu.pop()
	if err != nil {
		return
	}

	switch op {
	case vm.UNARY_NEG:
		value = -value
	case vm.UNARY_NOT:
		value = ^value
	default:
		return ErrBadOpcode
	}

	return emu.push(value)
}

// compare pops the right then the left operand and evaluates left
// against right.
func (emu *Machine) compare(cond vm.Cond) (taken bool, err error) {
	right, err := emu.pop()
	if err != nil {
		return
	}
	left, err := emu.pop()
	if err != nil {
		return
	}

	switch cond {
	case vm.COND_EQ:
		taken = left == right
	case vm.COND_NE:
		taken = left != right
	case vm.COND_LT:
		taken = left < right
	case vm.COND_GT:
		taken = left > right
	case vm.COND_LE:
		taken = left <= right
	case vm.COND_GE:
		taken = left >= right
	}

	return
}

func (emu *Machine) test(cond vm.UnaryCond) (taken bool, err error) {
	value, err := emu.pop()
	if err != nil {
		return
	}

	switch cond {
	case vm.TEST_EZ:
		taken = value == 0
	case vm.TEST_NZ:
		taken = value != 0
	case vm.TEST_MI:
		taken = value < 0
	case vm.TEST_PL:
		taken = value >= 0
	}

	return
}

// stprint prints a packed string starting at a stack offset, following
// continuation flags deeper into the stack. 0x01 bytes are padding.
func (emu *Machine) stprint(offset int32) (err error) {
	for {
		value, ok := emu.stack.At(offset)
		if !ok {
			return ErrStackUnderflow
		}
		word := uint32(value)

		for shift := 0; shift <= 16; shift += 8 {
			c := byte(word >> shift)
			if c != 0x01 {
				fmt.Fprintf(emu.Output, "%c", c)
			}
		}

		if word&vm.ContinuationFlag == 0 {
			return
		}
		offset += 4
	}
}

func (emu *Machine) print(offset int32, format vm.Format) (err error) {
	value, ok := emu.stack.At(offset)
	if !ok {
		return ErrStackUnderflow
	}

	switch format {
	case vm.FMT_HEX:
		fmt.Fprintf(emu.Output, "%#x\n", value)
	case vm.FMT_BINARY:
		fmt.Fprintf(emu.Output, "%#b\n", value)
	case vm.FMT_OCTAL:
		fmt.Fprintf(emu.Output, "%#o\n", value)
	default:
		fmt.Fprintf(emu.Output, "%d\n", value)
	}

	return
}

func (emu *Machine) dump() {
	fmt.Fprintf(emu.Output, "pc=%#06x stack[%d]:", emu.pc, emu.stack.Depth())
	for n := emu.stack.Depth() - 1; n >= 0; n-- {
		fmt.Fprintf(emu.Output, " %#x", uint32(emu.stack.Data[n]))
	}
	fmt.Fprintln(emu.Output)
}

// input reads a whitespace-delimited integer token (decimal, 0x hex, or
// 0b binary) and pushes its value.
func (emu *Machine) input() (err error) {
	var token string
	_, err = fmt.Fscan(emu.in, &token)
	if err != nil {
		return
	}

	value, err := strconv.ParseInt(token, 0, 64)
	if err != nil {
		return
	}

	return emu.push(int32(value))
}

// stinput reads a line, truncates it to max characters, and pushes it in
// the packed string format.
func (emu *Machine) stinput(max int32) (err error) {
	line, err := emu.in.ReadString('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return
	}
	err = nil

	line = strings.TrimRight(line, "\r\n")
	if int64(len(line)) > int64(max) {
		line = line[:max]
	}

	for _, code := range vm.PackString(line) {
		err = emu.push(code.Value())
		if err != nil {
			return
		}
	}

	return
}
