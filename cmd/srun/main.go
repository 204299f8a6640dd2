package main

import (
	"flag"
	"log"
	"os"

	"github.com/coleutk/assembler/emulator"
	"github.com/coleutk/assembler/vm"
)

func main() {
	var verbose bool

	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [-v] <program.bin>", os.Args[0])
	}

	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	prog, err := vm.ParseBinary(data)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	emu := emulator.NewMachine()
	emu.Program = prog
	emu.Verbose = verbose

	if err := emu.Reset(); err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	code, err := emu.Run()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	os.Exit(int(code))
}
