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

package isa

import (
	"riscvcore/state"
	"testing"
)

func TestMUL(t *testing.T) {
	s := newState(state.XLen64)
	s.SetGPR(1, 6)
	s.SetGPR(2, 7)
	in := &Instruction{Op: OpMUL, RD: 3, RS1: 1, RS2: 2, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.GPR(3); got != 42 {
		t.Errorf("x3 = %d, want 42", got)
	}
}

func TestMULH(t *testing.T) {
	s := newState(state.XLen64)
	s.SetGPR(1, ^uint64(1)) // -2
	s.SetGPR(2, ^uint64(2)) // -3
	in := &Instruction{Op: OpMULH, RD: 3, RS1: 1, RS2: 2, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	// (-2)*(-3) = 6, which fits entirely in the low 64 bits: the high
	// word of the 128-bit signed product is 0.
	if got := s.GPR(3); got != 0 {
		t.Errorf("x3 = %#x, want 0", got)
	}
}

func TestDIVByZero(t *testing.T) {
	s := newState(state.XLen64)
	s.SetGPR(1, 10)
	s.SetGPR(2, 0)
	in := &Instruction{Op: OpDIV, RD: 3, RS1: 1, RS2: 2, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.GPR(3); got != ^uint64(0) {
		t.Errorf("DIV by zero = %#x, want all-ones", got)
	}
}

func TestDIVUByZero(t *testing.T) {
	s := newState(state.XLen64)
	s.SetGPR(1, 10)
	s.SetGPR(2, 0)
	in := &Instruction{Op: OpDIVU, RD: 3, RS1: 1, RS2: 2, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.GPR(3); got != ^uint64(0) {
		t.Errorf("DIVU by zero = %#x, want all-ones", got)
	}
}

func TestREMByZeroReturnsDividend(t *testing.T) {
	s := newState(state.XLen64)
	s.SetGPR(1, 123)
	s.SetGPR(2, 0)
	in := &Instruction{Op: OpREM, RD: 3, RS1: 1, RS2: 2, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.GPR(3); got != 123 {
		t.Errorf("REM by zero = %d, want 123 (the dividend)", got)
	}
}

func TestDIVOverflow(t *testing.T) {
	// INT64_MIN / -1 overflows a 64-bit signed result; RISC-V defines the
	// result as the dividend itself.
	s := newState(state.XLen64)
	minInt64 := uint64(1) << 63
	s.SetGPR(1, minInt64)
	s.SetGPR(2, ^uint64(0)) // -1
	in := &Instruction{Op: OpDIV, RD: 3, RS1: 1, RS2: 2, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.GPR(3); got != minInt64 {
		t.Errorf("DIV overflow = %#x, want %#x (the dividend)", got, minInt64)
	}
}

func TestMULWSignExtends(t *testing.T) {
	s := newState(state.XLen64)
	s.SetGPR(1, 0xffffffff) // -1 as a 32-bit value
	s.SetGPR(2, 2)
	in := &Instruction{Op: OpMULW, RD: 3, RS1: 1, RS2: 2, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.GPR(3); got != ^uint64(0x1) { // -2 sign-extended to 64 bits
		t.Errorf("x3 = %#x, want %#x", got, ^uint64(0x1))
	}
}
