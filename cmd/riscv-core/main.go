// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// riscv-core is a small driver loop that decodes and executes a RISC-V
// program against the core in this module.
//
// To run an ELF binary:
//
//	riscv-core --prog=PATH_TO_RISCV_BINARY --argv=a,hello,world --env=A=B
//
// To run a hand-written hex memory image instead:
//
//	riscv-core --hex=PATH_TO_IMAGE --entry=0x1000
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"riscvcore/csr"
	"riscvcore/decode"
	"riscvcore/isa"
	"riscvcore/loader"
	"riscvcore/state"
	"riscvcore/trace"
)

var (
	argv     = flag.String("argv", "", "Comma-separated argv")
	env      = flag.String("env", "", "Comma-separated env")
	prog     = flag.String("prog", "", "Path to the program to execute (must be an ELF file)")
	hexImage = flag.String("hex", "", "Path to a hex memory image, used instead of --prog")
	entry    = flag.Uint64("entry", 0, "Entry PC when loading a --hex image")
	memSize  = flag.Uint64("mem", 100<<20, "Memory size in bytes")
	maxSteps = flag.Int("max-steps", 10000, "Maximum number of instructions to execute")
	xlen     = flag.Int("xlen", 64, "Machine word width: 32 or 64")
	debug    = flag.String("debug", "", "Comma-separated debug flags: instr,regs,csrs,mem")
)

func main() {
	flag.Parse()
	log := trace.Default().Module("riscv-core")

	xl := state.XLen64
	if *xlen == 32 {
		xl = state.XLen32
	} else if *xlen != 64 {
		fmt.Fprintf(os.Stderr, "invalid --xlen %d: must be 32 or 64\n", *xlen)
		os.Exit(1)
	}

	mem := state.NewFlatMemory(*memSize)
	var entryPC uint64

	switch {
	case *prog != "":
		e, err := loader.LoadELF(os.ExpandEnv(*prog), mem)
		if err != nil {
			fmt.Fprintf(os.Stderr, "can't load program: %v\n", err)
			os.Exit(1)
		}
		entryPC = e
	case *hexImage != "":
		f, err := os.Open(*hexImage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "can't open hex image: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := loader.LoadHex(f, mem); err != nil {
			fmt.Fprintf(os.Stderr, "can't load hex image: %v\n", err)
			os.Exit(1)
		}
		entryPC = *entry
	default:
		fmt.Fprintln(os.Stderr, "one of --prog or --hex is required")
		os.Exit(1)
	}

	s := state.New(entryPC, mem, xl)
	initStack(s, append([]string{*prog}, splitNonEmpty(*argv)...), splitNonEmpty(*env))

	dbg := parseDebug(*debug)
	for step := 0; step < *maxSteps && s.Running(); step++ {
		lastPC := s.PC
		word, _, err := readWord(s)
		if err != nil {
			log.Error("can't read instruction", "pc", fmt.Sprintf("%#x", lastPC), "err", err)
			os.Exit(1)
		}
		in, _, err := decode.Decode(s.PC, word)
		if err != nil {
			log.Error("can't decode instruction", "pc", fmt.Sprintf("%#x", lastPC), "err", err)
			os.Exit(1)
		}
		if err := isa.Execute(s, in); err != nil {
			log.Error("execution error", "pc", fmt.Sprintf("%#x", lastPC), "err", err)
			os.Exit(1)
		}
		if dbg != 0 {
			fmt.Fprintln(os.Stderr, trace.NewSnapshot(s, dbg, step, lastPC, in))
		}
	}

	if s.Stop == state.StopTrap {
		log.Info("program trapped", "mcause", s.CSRs.Read(csr.Mcause))
		os.Exit(1)
	}
}

// readWord reads up to 4 bytes at s.PC for the decoder; it over-reads
// past a compressed instruction's 2 bytes since Decode only consumes
// what decodeSize reports.
func readWord(s *state.ArchState) ([]byte, int, error) {
	b := make([]byte, 4)
	for i := range b {
		v, err := s.Mem.Read8(s.PC + uint64(i))
		if err != nil {
			return nil, 0, err
		}
		b[i] = byte(v)
	}
	return b, 4, nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseDebug(s string) trace.Debug {
	var d trace.Debug
	for _, f := range strings.Split(s, ",") {
		switch strings.TrimSpace(f) {
		case "instr":
			d |= trace.DebugInstr
		case "regs":
			d |= trace.DebugRegs
		case "csrs":
			d |= trace.DebugCSRs
		case "mem":
			d |= trace.DebugMem
		}
	}
	return d
}

// initStack lays out argc/argv/envp on the stack the way a RISC-V Linux
// ABI startup expects.
func initStack(s *state.ArchState, argv, env []string) {
	fm, ok := s.Mem.(*state.FlatMemory)
	if !ok {
		return
	}
	sp := uint64(len(fm.Bytes))

	pushCString := func(str string) uint64 {
		b := []byte(str)
		sp -= uint64(len(b) + 1)
		copy(fm.Bytes[sp:], b)
		fm.Bytes[sp+uint64(len(b))] = 0
		return sp
	}
	pushUint64 := func(v uint64) {
		sp -= 8
		for i := 0; i < 8; i++ {
			fm.Bytes[sp+uint64(i)] = byte(v >> (8 * i))
		}
	}

	var addrs []uint64
	addrs = append(addrs, 0)
	for i := len(env) - 1; i >= 0; i-- {
		addrs = append(addrs, pushCString(env[i]))
	}
	addrs = append(addrs, 0)
	for i := len(argv) - 1; i >= 0; i-- {
		addrs = append(addrs, pushCString(argv[i]))
	}
	sp &^= 0x7
	for _, a := range addrs {
		pushUint64(a)
	}
	pushUint64(uint64(len(argv)))
	s.SetGPR(2 /* sp */, sp)
}
