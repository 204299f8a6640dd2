package vm

import (
	"encoding/binary"
	"iter"

	"github.com/coleutk/assembler/internal"
)

// Magic is the program image header, stored as the bytes DE AD BE EF.
const Magic = uint32(0xdeadbeef)

// Instruction is one assembled source line: its line number, byte
// address, source tokens, and encoded words. Codes holds more than one
// word only for a stpush expansion.
type Instruction struct {
	LineNo int
	Pc     uint32
	Words  []string
	Codes  []Word
}

type Program struct {
	Instructions []Instruction
}

type Debug struct {
	*Instruction
	Index int
}

// Debug locates the source instruction covering a byte address.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, inst := range prog.Instructions {
		if pc >= inst.Pc && pc < inst.Pc+4*uint32(len(inst.Codes)) {
			dbg = Debug{
				Instruction: &prog.Instructions[n],
				Index:       int(pc-inst.Pc) / 4,
			}
			break
		}
	}

	return
}

// Len returns the number of encoded words, excluding padding.
func (prog *Program) Len() (count int) {
	for _, inst := range prog.Instructions {
		count += len(inst.Codes)
	}

	return
}

// Padding returns the number of no-op words appended to the image so
// that the total word count is a multiple of 4.
func (prog *Program) Padding() int {
	return (4 - prog.Len()%4) % 4
}

// Codes returns an iterator over (address, word) for every encoded
// instruction word, in source order.
func (prog *Program) Codes() iter.Seq2[uint32, Word] {
	return func(yield func(pc uint32, code Word) bool) {
		for _, inst := range prog.Instructions {
			for n, code := range inst.Codes {
				if !yield(inst.Pc+4*uint32(n), code) {
					return
				}
			}
		}
	}
}

// padCodes returns an iterator over the alignment padding words.
func (prog *Program) padCodes() iter.Seq2[uint32, Word] {
	return func(yield func(pc uint32, code Word) bool) {
		pc := 4 * uint32(prog.Len())
		for range prog.Padding() {
			if !yield(pc, MakeNop()) {
				return
			}
			pc += 4
		}
	}
}

// Words returns an iterator over every word of the program image:
// the instruction stream, then the alignment padding.
func (prog *Program) Words() iter.Seq2[uint32, Word] {
	return internal.IterSeq2Concat(prog.Codes(), prog.padCodes())
}

// Binary serializes the program image: the magic header, then every
// word in little-endian byte order.
func (prog *Program) Binary() (out []byte) {
	out = binary.BigEndian.AppendUint32(out, Magic)
	for _, code := range prog.Words() {
		out = binary.LittleEndian.AppendUint32(out, uint32(code))
	}

	return
}

// ParseBinary decodes a program image produced by Binary. Source line
// and label information is not recoverable; every word becomes its own
// Instruction.
func ParseBinary(data []byte) (prog *Program, err error) {
	if len(data) < 4 || binary.BigEndian.Uint32(data) != Magic {
		err = ErrBadMagic
		return
	}
	data = data[4:]
	if len(data)%4 != 0 {
		err = ErrTruncated
		return
	}

	prog = &Program{}
	for n := 0; n < len(data); n += 4 {
		code := Word(binary.LittleEndian.Uint32(data[n:]))
		prog.Instructions = append(prog.Instructions, Instruction{
			Pc:    uint32(n),
			Codes: []Word{code},
		})
	}

	return
}
