package vm

import (
	"fmt"
	"slices"
)

// Op is the instruction opcode, held in bits 31-28 of a word.
type Op int

//go:generate go tool stringer -linecomment -type=Op,MiscOp,BinaryOp,UnaryOp,Cond,UnaryCond,Format
const (
	OP_MISC     = Op(0)  // misc
	OP_POP      = Op(1)  // pop
	OP_BINARY   = Op(2)  // binary
	OP_UNARY    = Op(3)  // unary
	OP_STPRINT  = Op(4)  // stprint
	OP_CALL     = Op(5)  // call
	OP_RETURN   = Op(6)  // return
	OP_GOTO     = Op(7)  // goto
	OP_IF       = Op(8)  // if
	OP_UNARY_IF = Op(9)  // unaryif
	OP_DUP      = Op(12) // dup
	OP_PRINT    = Op(13) // print
	OP_DUMP     = Op(14) // dump
	OP_PUSH     = Op(15) // push
)

// MiscOp selects the opcode-0 variant, held in bits 27-24.
type MiscOp int

const (
	MISC_EXIT    = MiscOp(0)  // exit
	MISC_SWAP    = MiscOp(1)  // swap
	MISC_NOP     = MiscOp(2)  // nop
	MISC_INPUT   = MiscOp(4)  // input
	MISC_STINPUT = MiscOp(5)  // stinput
	MISC_DEBUG   = MiscOp(15) // debug
)

// BinaryOp is a binary arithmetic sub-operation, held in bits 27-24.
type BinaryOp int

const (
	BIN_ADD = BinaryOp(0)  // add
	BIN_SUB = BinaryOp(1)  // sub
	BIN_MUL = BinaryOp(2)  // mul
	BIN_DIV = BinaryOp(3)  // div
	BIN_REM = BinaryOp(4)  // rem
	BIN_AND = BinaryOp(5)  // and
	BIN_OR  = BinaryOp(6)  // or
	BIN_XOR = BinaryOp(7)  // xor
	BIN_LSL = BinaryOp(8)  // lsl
	BIN_LSR = BinaryOp(9)  // lsr
	BIN_ASR = BinaryOp(11) // asr
)

// UnaryOp is a unary arithmetic sub-operation, held in bits 27-24.
type UnaryOp int

const (
	UNARY_NEG = UnaryOp(0) // neg
	UNARY_NOT = UnaryOp(1) // not
)

// Cond is a binary-if condition code, held in bits 27-25.
type Cond int

const (
	COND_EQ = Cond(0) // eq
	COND_NE = Cond(1) // ne
	COND_LT = Cond(2) // lt
	COND_GT = Cond(3) // gt
	COND_LE = Cond(4) // le
	COND_GE = Cond(5) // ge
)

// UnaryCond is a unary-if condition code, held in bits 26-25.
type UnaryCond int

const (
	TEST_EZ = UnaryCond(0) // ez
	TEST_NZ = UnaryCond(1) // nz
	TEST_MI = UnaryCond(2) // mi
	TEST_PL = UnaryCond(3) // pl
)

// Format is the print radix, held in bits 1-0.
type Format int

const (
	FMT_DECIMAL = Format(0) // dec
	FMT_HEX     = Format(1) // hex
	FMT_BINARY  = Format(2) // bin
	FMT_OCTAL   = Format(3) // oct
)

const (
	// ContinuationFlag marks a packed string chunk that has further
	// chunks below it on the stack.
	ContinuationFlag = 1 << 24
)

// Word is a single encoded instruction. Operand fields are truncated to
// their bit width on construction; overflow is never an error.
type Word uint32

func makeOp(op Op, fields uint32) Word {
	return Word((uint32(op)&0xf)<<28 | fields&0x0fffffff)
}

func makeMisc(op MiscOp, fields uint32) Word {
	return makeOp(OP_MISC, (uint32(op)&0xf)<<24|fields&0x00ffffff)
}

// MakeExit creates an exit instruction with an 8-bit exit code.
func MakeExit(code int32) Word {
	return makeMisc(MISC_EXIT, uint32(code)&0xff)
}

// MakeSwap creates a swap instruction exchanging the stack slots at the
// two 12-bit signed byte offsets.
func MakeSwap(from, to int32) Word {
	return makeMisc(MISC_SWAP, (uint32(from)&0xfff)<<12|uint32(to)&0xfff)
}

// MakeNop creates a no-op instruction, also used as alignment padding.
func MakeNop() Word {
	return makeMisc(MISC_NOP, 0)
}

// MakeInput creates an instruction that reads an integer onto the stack.
func MakeInput() Word {
	return makeMisc(MISC_INPUT, 0)
}

// MakeStInput creates an instruction that reads a packed string onto the
// stack, truncated to a 24-bit maximum character count.
func MakeStInput(max int32) Word {
	return makeMisc(MISC_STINPUT, uint32(max)&0x00ffffff)
}

// MakeDebug creates a debug trap carrying a 24-bit value.
func MakeDebug(value int32) Word {
	return makeMisc(MISC_DEBUG, uint32(value)&0x00ffffff)
}

// MakePop creates a pop instruction with a 26-bit unsigned byte offset.
func MakePop(offset int32) Word {
	return makeOp(OP_POP, uint32(offset)&0x03ffffff)
}

// MakeBinary creates a binary arithmetic instruction.
func MakeBinary(op BinaryOp) Word {
	return makeOp(OP_BINARY, (uint32(op)&0xf)<<24)
}

// MakeUnary creates a unary arithmetic instruction.
func MakeUnary(op UnaryOp) Word {
	return makeOp(OP_UNARY, (uint32(op)&0xf)<<24)
}

// MakeStPrint creates a string print instruction with a 26-bit signed
// byte offset, low two bits cleared.
func MakeStPrint(offset int32) Word {
	return makeOp(OP_STPRINT, uint32(offset)&0x0ffffffc)
}

// MakeCall creates a call with a 28-bit signed PC-relative offset.
func MakeCall(offset int32) Word {
	return makeOp(OP_CALL, uint32(offset)&0x0fffffff)
}

// MakeReturn creates a return with a 28-bit signed byte offset locating
// the return address on the stack.
func MakeReturn(offset int32) Word {
	return makeOp(OP_RETURN, uint32(offset)&0x0fffffff)
}

// MakeGoto creates a goto with a 28-bit signed PC-relative offset.
func MakeGoto(offset int32) Word {
	return makeOp(OP_GOTO, uint32(offset)&0x0fffffff)
}

// MakeIf creates a binary-if with a 25-bit signed PC-relative offset,
// low two bits cleared.
func MakeIf(cond Cond, offset int32) Word {
	return makeOp(OP_IF, (uint32(cond)&0x7)<<25|uint32(offset)&0x01fffffc)
}

// MakeUnaryIf creates a unary-if with a 25-bit signed PC-relative offset.
func MakeUnaryIf(cond UnaryCond, offset int32) Word {
	return makeOp(OP_UNARY_IF, (uint32(cond)&0x3)<<25|uint32(offset)&0x01ffffff)
}

// MakeDup creates a dup instruction with a 28-bit signed byte offset.
func MakeDup(offset int32) Word {
	return makeOp(OP_DUP, uint32(offset)&0x0fffffff)
}

// MakePrint creates a print instruction with a byte offset in bits 27-2
// and the radix in bits 1-0.
func MakePrint(offset int32, format Format) Word {
	return makeOp(OP_PRINT, uint32(offset)&0x0ffffffc|uint32(format)&0x3)
}

// MakeDump creates a stack dump instruction.
func MakeDump() Word {
	return makeOp(OP_DUMP, 0)
}

// MakePush creates a push of a 28-bit literal. The literal is either an
// immediate value or a resolved label address.
func MakePush(value int32) Word {
	return makeOp(OP_PUSH, uint32(value)&0x0fffffff)
}

// StringChunks returns the number of push words PackString emits for s.
// An empty string still occupies one chunk.
func StringChunks(s string) int {
	if len(s) == 0 {
		return 1
	}
	return (len(s) + 2) / 3
}

// PackString expands a string literal into push instructions. The string
// is padded on the right with 0x01 bytes to a multiple of three, then
// reversed; each three-byte chunk packs into bits 23-16/15-8/7-0 of a
// push literal. The first chunk emitted holds the last characters of the
// original string; every later chunk carries the continuation flag.
func PackString(s string) (words []Word) {
	b := []byte(s)
	for len(b) == 0 || len(b)%3 != 0 {
		b = append(b, 0x01)
	}
	slices.Reverse(b)

	for n := 0; n < len(b); n += 3 {
		chunk := uint32(b[n])<<16 | uint32(b[n+1])<<8 | uint32(b[n+2])
		if n > 0 {
			chunk |= ContinuationFlag
		}
		words = append(words, MakePush(int32(chunk)))
	}

	return
}

// signExtend interprets the low bits of value as a signed field.
func signExtend(value uint32, bits int) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}

// Op returns the opcode from bits 31-28.
func (w Word) Op() Op {
	return Op(w >> 28)
}

// Misc returns the opcode-0 variant selector.
func (w Word) Misc() MiscOp {
	return MiscOp((w >> 24) & 0xf)
}

// Binary returns the binary arithmetic sub-operation.
func (w Word) Binary() BinaryOp {
	return BinaryOp((w >> 24) & 0xf)
}

// Unary returns the unary arithmetic sub-operation.
func (w Word) Unary() UnaryOp {
	return UnaryOp((w >> 24) & 0xf)
}

// Cond returns the binary-if condition code.
func (w Word) Cond() Cond {
	return Cond((w >> 25) & 0x7)
}

// UnaryCond returns the unary-if condition code.
func (w Word) UnaryCond() UnaryCond {
	return UnaryCond((w >> 25) & 0x3)
}

// Format returns the print radix.
func (w Word) Format() Format {
	return Format(w & 0x3)
}

// ExitCode returns the 8-bit exit code of an exit instruction.
func (w Word) ExitCode() int32 {
	return int32(w & 0xff)
}

// SwapFrom returns the first swap offset, sign extended.
func (w Word) SwapFrom() int32 {
	return signExtend(uint32(w)>>12&0xfff, 12)
}

// SwapTo returns the second swap offset, sign extended.
func (w Word) SwapTo() int32 {
	return signExtend(uint32(w)&0xfff, 12)
}

// MaxInput returns the 24-bit character limit of a stinput instruction.
func (w Word) MaxInput() int32 {
	return int32(w & 0x00ffffff)
}

// DebugValue returns the 24-bit payload of a debug instruction.
func (w Word) DebugValue() int32 {
	return int32(w & 0x00ffffff)
}

// Value returns the push literal, sign extended from 28 bits. For packed
// string chunks the continuation flag is part of the value.
func (w Word) Value() int32 {
	return signExtend(uint32(w)&0x0fffffff, 28)
}

// Offset returns the operand offset of the word, sign extended to the
// field width of its opcode. Pop offsets are unsigned.
func (w Word) Offset() int32 {
	switch w.Op() {
	case OP_POP:
		return int32(w & 0x03ffffff)
	case OP_STPRINT, OP_PRINT:
		return signExtend(uint32(w)&0x0ffffffc, 28)
	case OP_CALL, OP_RETURN, OP_GOTO, OP_DUP:
		return signExtend(uint32(w)&0x0fffffff, 28)
	case OP_IF:
		return signExtend(uint32(w)&0x01fffffc, 25)
	case OP_UNARY_IF:
		return signExtend(uint32(w)&0x01ffffff, 25)
	}

	return 0
}

var printMnemonic = [...]string{"print", "printh", "printb", "printo"}

// String returns the assembly language representation of this word.
func (w Word) String() string {
	switch w.Op() {
	case OP_MISC:
		switch w.Misc() {
		case MISC_EXIT:
			return fmt.Sprintf("exit %v", w.ExitCode())
		case MISC_SWAP:
			return fmt.Sprintf("swap %v %v", w.SwapFrom(), w.SwapTo())
		case MISC_NOP, MISC_INPUT:
			return w.Misc().String()
		case MISC_STINPUT:
			return fmt.Sprintf("stinput %#x", w.MaxInput())
		case MISC_DEBUG:
			return fmt.Sprintf("debug %#x", w.DebugValue())
		}
	case OP_POP, OP_STPRINT, OP_RETURN, OP_DUP:
		return fmt.Sprintf("%v %v", w.Op(), w.Offset())
	case OP_BINARY:
		return w.Binary().String()
	case OP_UNARY:
		return w.Unary().String()
	case OP_CALL, OP_GOTO:
		return fmt.Sprintf("%v %+d", w.Op(), w.Offset())
	case OP_IF:
		return fmt.Sprintf("if%v %+d", w.Cond(), w.Offset())
	case OP_UNARY_IF:
		return fmt.Sprintf("if%v %+d", w.UnaryCond(), w.Offset())
	case OP_PRINT:
		return fmt.Sprintf("%v %v", printMnemonic[w.Format()], w.Offset())
	case OP_DUMP:
		return "dump"
	case OP_PUSH:
		return fmt.Sprintf("push %v", w.Value())
	}

	return fmt.Sprintf("word(%#08x)", uint32(w))
}
