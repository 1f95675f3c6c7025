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

package state

import "fmt"

// MemFault is the error half of a LoadResult: a typed 8/16/32/64-bit
// memory access that fell outside the backing store. The exception Code
// is forwarded verbatim by the isa package to the trap epilogue.
type MemFault struct {
	Addr uint64
	Code uint64
}

func (e *MemFault) Error() string {
	return fmt.Sprintf("memory access fault at %#x (exception code %d)", e.Addr, e.Code)
}

// Access fault exception codes (riscv-privileged-20211203; Table 3.6).
const (
	ExcLoadAccessFault  = 5
	ExcStoreAccessFault = 7
)

// Memory is the byte-addressable store ArchState wraps. Each typed
// operation is atomic at the width it advertises; reads past the end of
// the backing store return a LoadResult_Err via MemFault rather than
// panicking, so a faulting load/store becomes an ordinary trap instead of
// crashing the simulator.
type Memory interface {
	Read8(addr uint64) (uint64, error)
	Read16(addr uint64) (uint64, error)
	Read32(addr uint64) (uint64, error)
	Read64(addr uint64) (uint64, error)
	Write8(addr uint64, v uint64) error
	Write16(addr uint64, v uint64) error
	Write32(addr uint64, v uint64) error
	Write64(addr uint64, v uint64) error
}

// FlatMemory is a Memory backed by a single contiguous byte slice.
type FlatMemory struct {
	Bytes []byte
}

// NewFlatMemory allocates size bytes of zeroed memory.
func NewFlatMemory(size uint64) *FlatMemory {
	return &FlatMemory{Bytes: make([]byte, size)}
}

func (m *FlatMemory) bounds(addr, width uint64, fault uint64) error {
	if addr+width > uint64(len(m.Bytes)) || addr+width < addr {
		return &MemFault{Addr: addr, Code: fault}
	}
	return nil
}

func (m *FlatMemory) Read8(addr uint64) (uint64, error) {
	if err := m.bounds(addr, 1, ExcLoadAccessFault); err != nil {
		return 0, err
	}
	return uint64(m.Bytes[addr]), nil
}

func (m *FlatMemory) Read16(addr uint64) (uint64, error) {
	if err := m.bounds(addr, 2, ExcLoadAccessFault); err != nil {
		return 0, err
	}
	v := uint64(m.Bytes[addr]) | uint64(m.Bytes[addr+1])<<8
	return v, nil
}

func (m *FlatMemory) Read32(addr uint64) (uint64, error) {
	if err := m.bounds(addr, 4, ExcLoadAccessFault); err != nil {
		return 0, err
	}
	v := uint64(m.Bytes[addr]) |
		uint64(m.Bytes[addr+1])<<8 |
		uint64(m.Bytes[addr+2])<<16 |
		uint64(m.Bytes[addr+3])<<24
	return v, nil
}

func (m *FlatMemory) Read64(addr uint64) (uint64, error) {
	if err := m.bounds(addr, 8, ExcLoadAccessFault); err != nil {
		return 0, err
	}
	v := uint64(m.Bytes[addr]) |
		uint64(m.Bytes[addr+1])<<8 |
		uint64(m.Bytes[addr+2])<<16 |
		uint64(m.Bytes[addr+3])<<24 |
		uint64(m.Bytes[addr+4])<<32 |
		uint64(m.Bytes[addr+5])<<40 |
		uint64(m.Bytes[addr+6])<<48 |
		uint64(m.Bytes[addr+7])<<56
	return v, nil
}

func (m *FlatMemory) Write8(addr uint64, v uint64) error {
	if err := m.bounds(addr, 1, ExcStoreAccessFault); err != nil {
		return err
	}
	m.Bytes[addr] = byte(v)
	return nil
}

func (m *FlatMemory) Write16(addr uint64, v uint64) error {
	if err := m.bounds(addr, 2, ExcStoreAccessFault); err != nil {
		return err
	}
	m.Bytes[addr] = byte(v)
	m.Bytes[addr+1] = byte(v >> 8)
	return nil
}

func (m *FlatMemory) Write32(addr uint64, v uint64) error {
	if err := m.bounds(addr, 4, ExcStoreAccessFault); err != nil {
		return err
	}
	m.Bytes[addr] = byte(v)
	m.Bytes[addr+1] = byte(v >> 8)
	m.Bytes[addr+2] = byte(v >> 16)
	m.Bytes[addr+3] = byte(v >> 24)
	return nil
}

func (m *FlatMemory) Write64(addr uint64, v uint64) error {
	if err := m.bounds(addr, 8, ExcStoreAccessFault); err != nil {
		return err
	}
	m.Bytes[addr] = byte(v)
	m.Bytes[addr+1] = byte(v >> 8)
	m.Bytes[addr+2] = byte(v >> 16)
	m.Bytes[addr+3] = byte(v >> 24)
	m.Bytes[addr+4] = byte(v >> 32)
	m.Bytes[addr+5] = byte(v >> 40)
	m.Bytes[addr+6] = byte(v >> 48)
	m.Bytes[addr+7] = byte(v >> 56)
	return nil
}
