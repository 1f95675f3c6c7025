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

// Package loader populates a state.Memory from an ELF binary or a hex
// memory-image file.
package loader

import (
	"bufio"
	"debug/elf"
	"fmt"
	"io"
	"strconv"
	"strings"

	"riscvcore/state"
)

// LoadELF opens path, copies every allocatable section's bytes into mem
// at its linked address, and returns the entry point.
func LoadELF(path string, mem *state.FlatMemory) (entry uint64, err error) {
	f, err := elf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("can't open ELF program %s: %w", path, err)
	}
	defer f.Close()

	for _, s := range f.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		if s.Addr+s.Size > uint64(len(mem.Bytes)) {
			return 0, fmt.Errorf("section %s (addr %#x, size %#x) does not fit in %d bytes of memory", s.Name, s.Addr, s.Size, len(mem.Bytes))
		}
		if s.Type == elf.SHT_NOBITS {
			continue // .bss and friends: zero-filled, no file content to copy
		}
		if _, err := s.ReadAt(mem.Bytes[s.Addr:s.Addr+s.Size], 0); err != nil {
			return 0, fmt.Errorf("can't load section %s (addr %#x): %w", s.Name, s.Addr, err)
		}
	}
	return f.Entry, nil
}

// LoadHex reads a memory image of "addr: word" lines (hexadecimal, one
// little-endian 32-bit word per line, "#"-comments and blank lines
// allowed) into mem. This is a minimal, non-ELF way to exercise the core
// against hand-written conformance vectors.
func LoadHex(r io.Reader, mem *state.FlatMemory) error {
	scan := bufio.NewScanner(r)
	lineNo := 0
	for scan.Scan() {
		lineNo++
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addrStr, wordStr, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("hex image line %d: expected ADDR:WORD, got %q", lineNo, line)
		}
		addr, err := strconv.ParseUint(strings.TrimSpace(addrStr), 0, 64)
		if err != nil {
			return fmt.Errorf("hex image line %d: bad address: %w", lineNo, err)
		}
		word, err := strconv.ParseUint(strings.TrimSpace(wordStr), 0, 32)
		if err != nil {
			return fmt.Errorf("hex image line %d: bad word: %w", lineNo, err)
		}
		if err := mem.Write32(addr, word); err != nil {
			return fmt.Errorf("hex image line %d: %w", lineNo, err)
		}
	}
	if err := scan.Err(); err != nil {
		return fmt.Errorf("reading hex image: %w", err)
	}
	return nil
}
