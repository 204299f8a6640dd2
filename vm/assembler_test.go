package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseLines(t *testing.T, program ...string) *Program {
	t.Helper()

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return prog
}

func codesOf(prog *Program) (codes []Word) {
	for _, code := range prog.Codes() {
		codes = append(codes, code)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader(""))
	assert.ErrorIs(err, ErrNoInstructions)

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("4096", asm.Equate["STACK_LIMIT"])
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		"# a tiny program",
		"  push 5   # comment after code",
		"exit",
	)

	assert.Equal([]Word{0xf0000005, 0x00000000}, codesOf(prog))
	assert.Equal(2, len(prog.Instructions))
	assert.Equal(2, prog.Instructions[0].LineNo)
	assert.Equal(uint32(0), prog.Instructions[0].Pc)
	assert.Equal(3, prog.Instructions[1].LineNo)
	assert.Equal(uint32(4), prog.Instructions[1].Pc)
}

func TestAssemblerCaseInsensitive(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		"PUSH 5",
		"Exit 1",
	)

	assert.Equal([]Word{0xf0000005, 0x00000001}, codesOf(prog))
}

func TestAssemblerRadix(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		"push 10",
		"push 0x10",
		"push 0b101",
		"push -2",
		"exit",
	)

	codes := codesOf(prog)
	assert.Equal(Word(0xf000000a), codes[0])
	assert.Equal(Word(0xf0000010), codes[1])
	assert.Equal(Word(0xf0000005), codes[2])
	assert.Equal(Word(0xfffffffe), codes[3])
}

func TestAssemblerDefaults(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		"pop",
		"dup",
		"swap",
		"print",
		"stinput",
		"return",
		"exit",
	)

	assert.Equal([]Word{
		0x10000004,
		0xc0000004,
		0x01004000,
		0xd0000000,
		0x05ffffff,
		0x60000000,
		0x00000000,
	}, codesOf(prog))
}

func TestAssemblerForwardReference(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		"goto end",
		"push 1",
		"end:",
		"exit",
	)

	codes := codesOf(prog)
	// goto at pc 0, end at pc 8: positive PC-relative offset.
	assert.Equal(Word(0x70000008), codes[0])
	assert.Equal(int32(8), codes[0].Offset())
}

func TestAssemblerBackwardReference(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		"start:",
		"push 1",
		"call start",
		"exit",
	)

	codes := codesOf(prog)
	// call at pc 4, start at pc 0: negative PC-relative offset.
	assert.Equal(Word(0x5ffffffc), codes[1])
	assert.Equal(int32(-4), codes[1].Offset())
}

func TestAssemblerPushLabelAbsolute(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		"push data",
		"goto data",
		"data:",
		"exit",
	)

	codes := codesOf(prog)
	// push takes the label's absolute address, goto a relative offset.
	assert.Equal(Word(0xf0000008), codes[0])
	assert.Equal(Word(0x70000004), codes[1])
}

func TestAssemblerConditionals(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		"top:",
		"ifeq top",
		"ifge top",
		"ifez top",
		"ifmi top",
		"exit",
	)

	codes := codesOf(prog)
	assert.Equal(Word(0x80000000), codes[0]) // offset 0-0
	assert.Equal(Word(0x8bfffffc), codes[1]) // cond ge, offset -4
	assert.Equal(Word(0x91fffff8), codes[2]) // cond ez, offset -8
	assert.Equal(Word(0x95fffff4), codes[3]) // cond mi, offset -12
}

func TestAssemblerStPush(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		`stpush "A"`,
		`stpush "hello\n"`,
		`stpush "say \"hi\""`,
		"exit",
	)

	assert.Equal(3+1, len(prog.Instructions))

	// One chunk for "A", two for "hello\n".
	assert.Equal([]Word{0xf0010141}, prog.Instructions[0].Codes)
	assert.Equal([]Word{0xf00a6f6c, 0xf16c6568}, prog.Instructions[1].Codes)

	// PC advances by 4 per chunk in both passes.
	assert.Equal(uint32(0), prog.Instructions[0].Pc)
	assert.Equal(uint32(4), prog.Instructions[1].Pc)
	assert.Equal(uint32(12), prog.Instructions[2].Pc)
	assert.Equal(uint32(24), prog.Instructions[3].Pc)

	// 'say "hi"' is 8 characters: three chunks.
	assert.Equal(3, len(prog.Instructions[2].Codes))
}

func TestAssemblerStPushAddressing(t *testing.T) {
	assert := assert.New(t)

	// A label after a stpush accounts for the full expansion size.
	prog := parseLines(t,
		`stpush "hello\n"`,
		"goto end",
		"end:",
		"exit",
	)

	codes := codesOf(prog)
	// goto at pc 8, end at pc 12.
	assert.Equal(Word(0x70000004), codes[2])
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	prog := parseLines(t,
		".equ TEN 10",
		"push TEN",
		"push $(TEN * 2 + 2)",
		"push $(LINENO)",
		"exit",
	)

	codes := codesOf(prog)
	assert.Equal(Word(0xf000000a), codes[0])
	assert.Equal(Word(0xf0000016), codes[1])
	assert.Equal(Word(0xf0000004), codes[2])
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("LIMIT", "32")

	prog, err := asm.Parse(strings.NewReader("push LIMIT\nexit"))
	assert.NoError(err)

	assert.Equal([]Word{0xf0000020, 0x00000000}, codesOf(prog))
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{"x:\nx:\n", 2},
		{"bogus\n", 1},
		{"exit\nbogus 1 2\n", 2},
		{"goto nowhere\nexit\n", 1},
		{"call nowhere\nexit\n", 1},
		{"push 12abc\n", 1},
		{"push 0xzz\n", 1},
		{"stpush\n", 1},
		{"stpush \"abc\n", 1},
		{"stpush abc\n", 1},
		{".equ\n", 1},
		{".equ A\n", 1},
		{".equ A 1\n.equ A 2\n", 2},
		{"nop extra\n", 1},
		{"dump 1\n", 1},
		{"add 1\n", 1},
		{"pop 1 2\n", 1},
		{"swap 1 2 3\n", 1},
		{"goto\n", 1},
		{"ifeq\n", 1},
		{"ifeq a b\n", 1},
		{"push $(\"aaa\")\n", 1},
		{"push $(nothing)\n", 1},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}

func TestAssemblerErrKinds(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader("x:\nx:\nexit\n"))
	assert.ErrorIs(err, ErrLabelDuplicate)

	_, err = asm.Parse(strings.NewReader("goto nowhere\nexit\n"))
	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal("nowhere", string(missing))

	_, err = asm.Parse(strings.NewReader("bogus\n"))
	var unknown ErrMnemonicUnknown
	assert.True(errors.As(err, &unknown))
	assert.Equal("bogus", string(unknown))

	_, err = asm.Parse(strings.NewReader("stpush\n"))
	assert.ErrorIs(err, ErrStringMissing)

	_, err = asm.Parse(strings.NewReader("push 12abc\n"))
	var number ErrParseNumber
	assert.True(errors.As(err, &number))

	_, err = asm.Parse(strings.NewReader("# only a comment\n"))
	assert.ErrorIs(err, ErrNoInstructions)
}

func TestAssemblerTruncation(t *testing.T) {
	assert := assert.New(t)

	// Out-of-range operands are masked to field width, never rejected.
	prog := parseLines(t,
		"push 0x10000005",
		"exit 257",
	)

	assert.Equal([]Word{0xf0000005, 0x00000001}, codesOf(prog))
}
