package vm

import (
	"errors"

	"github.com/coleutk/assembler/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrStringMissing      = errors.New(f("string literal missing"))
	ErrStringUnterminated = errors.New(f("string literal unterminated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrNoInstructions     = errors.New(f("no instructions"))

	// Binary image errors
	ErrBadMagic  = errors.New(f("bad magic header"))
	ErrTruncated = errors.New(f("truncated program image"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrMnemonicUnknown string

func (em ErrMnemonicUnknown) Error() string {
	return f("mnemonic %v unknown", string(em))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
