package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coleutk/assembler/vm"
)

func runProgram(t *testing.T, input string, program ...string) (output string, code int32) {
	t.Helper()

	asm := &vm.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	emu := NewMachine()
	emu.Program = prog
	emu.Input = strings.NewReader(input)
	emu.Output = &out

	err = emu.Reset()
	if err != nil {
		t.Fatal(err)
	}

	code, err = emu.Run()
	if err != nil {
		t.Fatal(err)
	}

	return out.String(), code
}

func TestMachineArithmetic(t *testing.T) {
	assert := assert.New(t)

	output, code := runProgram(t, "",
		"push 2",
		"push 3",
		"mul",
		"print",
		"exit",
	)

	assert.Equal("6\n", output)
	assert.Equal(int32(0), code)
}

func TestMachineExitCode(t *testing.T) {
	assert := assert.New(t)

	_, code := runProgram(t, "",
		"exit 7",
	)

	assert.Equal(int32(7), code)
}

func TestMachinePrintFormats(t *testing.T) {
	assert := assert.New(t)

	output, _ := runProgram(t, "",
		"push 255",
		"print",
		"printh",
		"printb",
		"printo",
		"exit",
	)

	assert.Equal("255\n0xff\n0b11111111\n0377\n", output)
}

func TestMachineStPrint(t *testing.T) {
	assert := assert.New(t)

	output, _ := runProgram(t, "",
		`stpush "Hi!"`,
		"stprint",
		"exit",
	)

	assert.Equal("Hi!", output)
}

func TestMachineStPrintMultiChunk(t *testing.T) {
	assert := assert.New(t)

	output, _ := runProgram(t, "",
		`stpush "hello, world\n"`,
		"stprint",
		"exit",
	)

	assert.Equal("hello, world\n", output)
}

func TestMachineLoop(t *testing.T) {
	assert := assert.New(t)

	// Count down from 3, printing each value.
	output, _ := runProgram(t, "",
		"push 3",
		"loop:",
		"dup 0",
		"ifez done",
		"print",
		"push 1",
		"sub",
		"goto loop",
		"done:",
		"exit",
	)

	assert.Equal("3\n2\n1\n", output)
}

func TestMachineCallReturn(t *testing.T) {
	assert := assert.New(t)

	output, _ := runProgram(t, "",
		"push 10",
		"call double",
		"print",
		"exit",
		"double:",
		"dup 4",
		"push 2",
		"mul",
		"swap 4 0",
		"return",
	)

	assert.Equal("20\n", output)
}

func TestMachineInput(t *testing.T) {
	assert := assert.New(t)

	output, _ := runProgram(t, "5 7\n",
		"input",
		"input",
		"add",
		"print",
		"exit",
	)

	assert.Equal("12\n", output)
}

func TestMachineStInput(t *testing.T) {
	assert := assert.New(t)

	output, _ := runProgram(t, "abcd\n",
		"stinput",
		"stprint",
		"exit",
	)

	assert.Equal("abcd", output)
}

func TestMachineStInputLimit(t *testing.T) {
	assert := assert.New(t)

	output, _ := runProgram(t, "abcdef\n",
		"stinput 3",
		"stprint",
		"exit",
	)

	assert.Equal("abc", output)
}

func TestMachineSwapDup(t *testing.T) {
	assert := assert.New(t)

	output, _ := runProgram(t, "",
		"push 1",
		"push 2",
		"swap",
		"print",
		"pop",
		"print",
		"exit",
	)

	// swap exchanges the top two slots.
	assert.Equal("1\n2\n", output)
}

func TestMachineBinaryImage(t *testing.T) {
	assert := assert.New(t)

	// Round trip: assemble, serialize, reload, execute.
	asm := &vm.Assembler{}
	prog, err := asm.Parse(strings.NewReader("push 5\nprint\nexit\n"))
	assert.NoError(err)

	image, err := vm.ParseBinary(prog.Binary())
	assert.NoError(err)

	var out bytes.Buffer
	emu := NewMachine()
	emu.Program = image
	emu.Input = strings.NewReader("")
	emu.Output = &out

	assert.NoError(emu.Reset())
	code, err := emu.Run()
	assert.NoError(err)
	assert.Equal(int32(0), code)
	assert.Equal("5\n", out.String())
}

func TestMachineNoProgram(t *testing.T) {
	assert := assert.New(t)

	emu := NewMachine()
	assert.ErrorIs(emu.Reset(), ErrNoProgram)
}

func TestMachineRuntimeErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		prog string
		want error
	}){
		{"pop\nexit\n", ErrStackUnderflow},
		{"add\nexit\n", ErrStackUnderflow},
		{"push 1\npush 0\ndiv\nexit\n", ErrDivideByZero},
		{"push 1\npush 0\nrem\nexit\n", ErrDivideByZero},
		{"dup 4\nexit\n", ErrStackUnderflow},
		{"nop\nnop\nnop\nnop\n", ErrPcRange},
	}

	for _, entry := range table {
		asm := &vm.Assembler{}
		prog, err := asm.Parse(strings.NewReader(entry.prog))
		assert.NoError(err, entry.prog)

		var out bytes.Buffer
		emu := NewMachine()
		emu.Program = prog
		emu.Input = strings.NewReader("")
		emu.Output = &out
		assert.NoError(emu.Reset())

		_, err = emu.Run()
		assert.ErrorIs(err, entry.want, entry.prog)

		var re *ErrRuntime
		assert.True(errors.As(err, &re), entry.prog)
	}
}

func TestMachineRuntimeErrorLine(t *testing.T) {
	assert := assert.New(t)

	asm := &vm.Assembler{}
	prog, err := asm.Parse(strings.NewReader("push 1\npush 0\ndiv\nexit\n"))
	assert.NoError(err)

	emu := NewMachine()
	emu.Program = prog
	emu.Input = strings.NewReader("")
	emu.Output = &bytes.Buffer{}
	assert.NoError(emu.Reset())

	_, err = emu.Run()
	var re *ErrRuntime
	assert.True(errors.As(err, &re))
	assert.Equal(3, re.LineNo)
	assert.Equal(uint32(8), re.Pc)
}
