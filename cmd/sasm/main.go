package main

import (
	"flag"
	"log"
	"os"

	"github.com/coleutk/assembler/vm"
)

func main() {
	var verbose bool

	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatalf("usage: %v [-v] <input.s> <output.bin>", os.Args[0])
	}

	input := flag.Arg(0)
	output := flag.Arg(1)

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	asm := &vm.Assembler{Verbose: verbose}
	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	// Assemble fully before touching the output path, so a failed
	// assembly never leaves a partial file behind.
	data := prog.Binary()
	if err := os.WriteFile(output, data, 0644); err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	log.Printf("assembled %v to %v (%d bytes)", input, output, len(data))
}
