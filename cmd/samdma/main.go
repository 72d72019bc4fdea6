// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"

	"github.com/ezrec/samdma/emulator"
	"github.com/ezrec/samdma/translate"
	"github.com/ezrec/samdma/ucode"
)

func main() {
	var compile string
	var listing bool
	var verbose bool
	var lang string

	flag.StringVar(&compile, "c", "", ".ud listing to compile and run")
	flag.BoolVar(&listing, "l", false, "Print the descriptor listing, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&lang, "lang", "", "Message locale, instead of the user's")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		translate.Use(lang)
	}

	if len(compile) == 0 {
		log.Fatalf("%v: -c is required", os.Args[0])
	}

	emu, err := emulator.NewEmulator()
	if err != nil {
		log.Fatal(err)
	}
	emu.Verbose = verbose

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	asm := &ucode.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	err = emu.Load(prog)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if listing {
		fmt.Print(emu.Listing())
		return
	}

	err = emu.Run()
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	for _, op := range prog.Ops {
		width := op.Kind.Width()
		fmt.Printf("%v:%d: %v => %#0*x", compile, op.LineNo, op.String(), 2+2*width, emu.Peek(op.Result, width))
		if ch := emu.Chains[op.Index]; ch.CarryOut != 0 {
			fmt.Printf(" carry %d", emu.Peek(ch.CarryOut, 1))
		}
		fmt.Println()
	}

	for _, label := range slices.Sorted(maps.Keys(prog.Symbol)) {
		addr := prog.Symbol[label]
		fmt.Printf("%v: %v@%#08x = %#02x\n", compile, label, addr, emu.Peek(addr, 1))
	}
}
