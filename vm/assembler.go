package vm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"STACK_LIMIT": fmt.Sprintf("%#v", STACK_LIMIT),
}

// Assembler is a two pass assembler for the s32 stack machine.
//
// Pass 1 walks the source recording label addresses; pass 2 walks it
// again, resolving operands against the completed label table and
// emitting encoded words. Both passes classify lines and advance the
// program counter through processLine, so the addresses recorded in
// pass 1 stay valid for the words emitted in pass 2.
type Assembler struct {
	Verbose      bool          // If set, verbosely logs the assembler actions.
	Instructions []Instruction // List of emitted instructions.

	predefine map[string]string // Predefines
	Label     map[string]uint32 // Map of labels to byte addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

type pass int

const (
	passLabels = pass(iota) // pass 1: record labels and equates
	passEmit                // pass 2: resolve operands, emit words
)

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.Label == nil {
		asm.Label = make(map[string]uint32, 16)
	}
	clear(asm.Label)
	asm.Instructions = asm.Instructions[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for _, p := range []pass{passLabels, passEmit} {
		err = asm.run(lines, p)
		if err != nil {
			return
		}
	}

	if len(asm.Instructions) == 0 {
		err = ErrNoInstructions
		return
	}

	prog = &Program{
		Instructions: slices.Clone(asm.Instructions),
	}

	return
}

// run performs a single pass over the source lines.
func (asm *Assembler) run(lines []string, p pass) (err error) {
	pc := uint32(0)

	for n, text := range lines {
		lineno := n + 1
		if asm.Verbose && p == passEmit {
			log.Printf("%v: %v\n", lineno, text)
		}

		pc, err = asm.processLine(text, lineno, pc, p)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
			return
		}
	}

	return
}

// processLine classifies one source line and advances the program
// counter. The classification is shared by both passes; only the
// recording (pass 1) and emission (pass 2) actions differ.
func (asm *Assembler) processLine(text string, lineno int, pc uint32, p pass) (next uint32, err error) {
	next = pc

	line, _, _ := strings.Cut(text, "#")
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	if strings.HasSuffix(line, ":") {
		if p == passLabels {
			label := strings.TrimSpace(line[:len(line)-1])
			_, ok := asm.Label[label]
			if ok {
				err = ErrLabelDuplicate
				return
			}
			asm.Label[label] = pc
		}
		return
	}

	words := strings.Fields(line)

	if words[0] == ".equ" {
		if p == passLabels {
			if len(words) != 3 {
				err = ErrEquateSyntax
				return
			}
			_, ok := asm.Equate[words[1]]
			if ok {
				err = ErrEquateDuplicate
				return
			}
			asm.Equate[words[1]] = words[2]
		}
		return
	}

	mnemonic := strings.ToLower(words[0])

	if mnemonic == "stpush" {
		var str string
		str, err = stringOperand(line)
		if err != nil {
			return
		}
		if p == passEmit {
			asm.emit(lineno, pc, words, PackString(str)...)
		}
		next = pc + 4*uint32(StringChunks(str))
		return
	}

	if p == passEmit {
		var code Word
		code, err = asm.assemble(mnemonic, words[1:], lineno, pc)
		if err != nil {
			return
		}
		asm.emit(lineno, pc, words, code)
	}
	next = pc + 4

	return
}

// emit appends one assembled source line.
func (asm *Assembler) emit(lineno int, pc uint32, words []string, codes ...Word) {
	asm.Instructions = append(asm.Instructions, Instruction{
		LineNo: lineno,
		Pc:     pc,
		Words:  slices.Clone(words),
		Codes:  codes,
	})
}

// stringOperand extracts and unescapes the quoted argument of stpush.
// Recognized escapes are \" \\ and \n; anything else passes through.
func stringOperand(line string) (str string, err error) {
	start := strings.Index(line, `"`)
	if start < 0 {
		err = ErrStringMissing
		return
	}
	end := strings.LastIndex(line, `"`)
	if end == start {
		err = ErrStringUnterminated
		return
	}
	raw := line[start+1 : end]

	var sb strings.Builder
	for n := 0; n < len(raw); n++ {
		c := raw[n]
		if c == '\\' && n+1 < len(raw) {
			n++
			switch raw[n] {
			case '"':
				c = '"'
			case '\\':
				c = '\\'
			case 'n':
				c = '\n'
			default:
				sb.WriteByte('\\')
				c = raw[n]
			}
		}
		sb.WriteByte(c)
	}
	str = sb.String()

	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// expand does compile-time $(...) evaluations and equate substitution on
// the operand tokens of an instruction line.
func (asm *Assembler) expand(args []string) (words []string, err error) {
	line := strings.Join(args, " ")

	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parenEval does a compile-time $(...) evaluation.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, verr := strconv.ParseInt(str, 0, 64)
		if verr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// isNumeric reports whether a word looks like an integer literal rather
// than a label reference.
func isNumeric(word string) bool {
	if len(word) == 0 {
		return false
	}
	if word[0] == '+' || word[0] == '-' {
		word = word[1:]
		if len(word) == 0 {
			return false
		}
	}
	return word[0] >= '0' && word[0] <= '9'
}

// resolve turns a single operand word into a value: a label address, or
// an integer literal (decimal, 0x hex, 0b binary).
func (asm *Assembler) resolve(word string) (value int64, isLabel bool, err error) {
	addr, ok := asm.Label[word]
	if ok {
		return int64(addr), true, nil
	}

	value, nerr := strconv.ParseInt(word, 0, 64)
	if nerr != nil {
		if isNumeric(word) {
			err = ErrParseNumber(word)
		} else {
			err = ErrLabelMissing(word)
		}
	}

	return value, false, err
}

// optional resolves a single optional operand, defaulting when absent.
func (asm *Assembler) optional(args []string, def int64) (value int64, err error) {
	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(args) == 0 {
		return def, nil
	}
	value, _, err = asm.resolve(args[0])
	return
}

// branch resolves a required control-flow operand to a PC-relative
// offset: a label becomes labelPC - pc, a literal is the offset itself.
func (asm *Assembler) branch(args []string, pc uint32) (offset int64, err error) {
	if len(args) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	offset, isLabel, err := asm.resolve(args[0])
	if isLabel {
		offset -= int64(pc)
	}

	return
}

func noArgs(args []string) (err error) {
	if len(args) != 0 {
		err = ErrOpcodeExtraArgs
	}
	return
}

// binaryMap maps binary arithmetic mnemonics.
var binaryMap = map[string]BinaryOp{
	"add": BIN_ADD,
	"sub": BIN_SUB,
	"mul": BIN_MUL,
	"div": BIN_DIV,
	"rem": BIN_REM,
	"and": BIN_AND,
	"or":  BIN_OR,
	"xor": BIN_XOR,
	"lsl": BIN_LSL,
	"lsr": BIN_LSR,
	"asr": BIN_ASR,
}

// unaryMap maps unary arithmetic mnemonics.
var unaryMap = map[string]UnaryOp{
	"neg": UNARY_NEG,
	"not": UNARY_NOT,
}

// condMap maps binary-if mnemonics.
var condMap = map[string]Cond{
	"ifeq": COND_EQ,
	"ifne": COND_NE,
	"iflt": COND_LT,
	"ifgt": COND_GT,
	"ifle": COND_LE,
	"ifge": COND_GE,
}

// unaryCondMap maps unary-if mnemonics.
var unaryCondMap = map[string]UnaryCond{
	"ifez": TEST_EZ,
	"ifnz": TEST_NZ,
	"ifmi": TEST_MI,
	"ifpl": TEST_PL,
}

// formatMap maps print mnemonics to their radix.
var formatMap = map[string]Format{
	"print":  FMT_DECIMAL,
	"printh": FMT_HEX,
	"printb": FMT_BINARY,
	"printo": FMT_OCTAL,
}

// assemble resolves the operands of one instruction line and encodes a
// single word. Values wider than their field are truncated, never
// rejected.
func (asm *Assembler) assemble(mnemonic string, args []string, lineno int, pc uint32) (code Word, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	args, err = asm.expand(args)
	if err != nil {
		return
	}

	var value int64

	if op, ok := binaryMap[mnemonic]; ok {
		err = noArgs(args)
		code = MakeBinary(op)
		return
	}

	if op, ok := unaryMap[mnemonic]; ok {
		err = noArgs(args)
		code = MakeUnary(op)
		return
	}

	if cond, ok := condMap[mnemonic]; ok {
		value, err = asm.branch(args, pc)
		code = MakeIf(cond, int32(value))
		return
	}

	if cond, ok := unaryCondMap[mnemonic]; ok {
		value, err = asm.branch(args, pc)
		code = MakeUnaryIf(cond, int32(value))
		return
	}

	if format, ok := formatMap[mnemonic]; ok {
		value, err = asm.optional(args, 0)
		code = MakePrint(int32(value), format)
		return
	}

	switch mnemonic {
	case "exit":
		value, err = asm.optional(args, 0)
		code = MakeExit(int32(value))
	case "swap":
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		from, to := int64(4), int64(0)
		if len(args) >= 1 {
			from, _, err = asm.resolve(args[0])
			if err != nil {
				return
			}
		}
		if len(args) == 2 {
			to, _, err = asm.resolve(args[1])
			if err != nil {
				return
			}
		}
		code = MakeSwap(int32(from), int32(to))
	case "nop":
		err = noArgs(args)
		code = MakeNop()
	case "input":
		err = noArgs(args)
		code = MakeInput()
	case "stinput":
		value, err = asm.optional(args, 0x00ffffff)
		code = MakeStInput(int32(value))
	case "debug":
		value, err = asm.optional(args, 0)
		code = MakeDebug(int32(value))
	case "pop":
		value, err = asm.optional(args, 4)
		code = MakePop(int32(value))
	case "stprint":
		value, err = asm.optional(args, 0)
		code = MakeStPrint(int32(value))
	case "call":
		value, err = asm.branch(args, pc)
		code = MakeCall(int32(value))
	case "return":
		value, err = asm.optional(args, 0)
		code = MakeReturn(int32(value))
	case "goto":
		value, err = asm.branch(args, pc)
		code = MakeGoto(int32(value))
	case "dup":
		value, err = asm.optional(args, 4)
		code = MakeDup(int32(value))
	case "dump":
		err = noArgs(args)
		code = MakeDump()
	case "push":
		value, err = asm.optional(args, 0)
		code = MakePush(int32(value))
	default:
		err = ErrMnemonicUnknown(mnemonic)
	}

	return
}
