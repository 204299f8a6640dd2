// Package vm implements the instruction set and assembler for the s32
// stack machine.
//
// The machine is register-less: every instruction operates on a stack of
// 32-bit words addressed by byte offsets from the top. An instruction
// encodes to a single 32-bit word with the opcode in the top four bits.
//
// The assembler translates line-oriented source text into a Program image
// in two passes: pass 1 records label addresses, pass 2 resolves operands
// against the completed label table and emits encoded words. Both passes
// advance the program counter through the same classification code, so
// forward and backward references always agree on addresses.
package vm
