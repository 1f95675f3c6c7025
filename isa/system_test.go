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
	"riscvcore/csr"
	"riscvcore/state"
	"testing"
)

func TestCSRRWRoundTrip(t *testing.T) {
	s := newState(state.XLen64)
	s.CSRs.Write(csr.Mtval, 0x55)
	s.SetGPR(1, 0x99)
	in := &Instruction{Op: OpCSRRW, RD: 2, RS1: 1, Imm: csr.Mtval, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.GPR(2); got != 0x55 {
		t.Errorf("old value in rd = %#x, want 0x55", got)
	}
	if got := s.CSRs.Read(csr.Mtval); got != 0x99 {
		t.Errorf("new CSR value = %#x, want 0x99", got)
	}
}

func TestCSRRSZeroSourceToleratesReadOnly(t *testing.T) {
	s := newState(state.XLen64)
	in := &Instruction{Op: OpCSRRS, RD: 1, RS1: 0, Imm: csr.Cycle, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if s.Stop == state.StopTrap {
		t.Fatal("CSRRS with x0 source should not attempt a write, so a read-only CSR should not trap")
	}
}

func TestCSRRSNonzeroSourceOnReadOnlyTraps(t *testing.T) {
	s := newState(state.XLen64)
	s.SetGPR(1, 1)
	in := &Instruction{Op: OpCSRRS, RD: 2, RS1: 1, Imm: csr.Cycle, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if s.Stop != state.StopTrap {
		t.Fatal("CSRRS with a nonzero source against a read-only CSR must trap")
	}
}

func TestCSRRWIUsesUnsignedZimm(t *testing.T) {
	s := newState(state.XLen64)
	// RS1 here carries the raw 5-bit immediate field for the *I forms; the
	// teacher's bug sign-extended it, which would turn 0x1f into a huge
	// 64-bit value instead of 31.
	in := &Instruction{Op: OpCSRRWI, RD: 0, RS1: 0x1f, Imm: csr.Mtval, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.CSRs.Read(csr.Mtval); got != 0x1f {
		t.Errorf("mtval = %#x, want 0x1f (zimm must not be sign-extended)", got)
	}
}

func TestECALLTrapsWithPrivilegeSpecificCause(t *testing.T) {
	s := newState(state.XLen64)
	s.Priv = state.PrivU
	in := &Instruction{Op: OpECALL, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.CSRs.Read(csr.Mcause); got != state.ExcECallFromU {
		t.Errorf("mcause = %d, want %d (ECALL from U)", got, state.ExcECallFromU)
	}
}

func TestEBREAKTvalIsPC(t *testing.T) {
	s := newState(state.XLen64)
	s.PC = 0x4000
	in := &Instruction{Op: OpEBREAK, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.CSRs.Read(csr.Mcause); got != state.ExcBreakpoint {
		t.Errorf("mcause = %d, want %d (breakpoint)", got, state.ExcBreakpoint)
	}
	if got := s.CSRs.Read(csr.Mtval); got != 0x4000 {
		t.Errorf("mtval = %#x, want 0x4000 (the trapping pc)", got)
	}
}

func TestIllegalInstructionTvalIsZero(t *testing.T) {
	s := newState(state.XLen64)
	in := &Instruction{Op: OpIllegalInstruction, Raw: 0xdeadbeef, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.CSRs.Read(csr.Mtval); got != 0 {
		t.Errorf("mtval = %#x, want 0", got)
	}
}

func TestCSRPermissionFailureTvalIsZero(t *testing.T) {
	s := newState(state.XLen64)
	s.SetGPR(1, 1)
	in := &Instruction{Op: OpCSRRS, RD: 2, RS1: 1, Imm: csr.Cycle, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if got := s.CSRs.Read(csr.Mtval); got != 0 {
		t.Errorf("mtval = %#x, want 0", got)
	}
}

func TestMRETFromNonMTraps(t *testing.T) {
	s := newState(state.XLen64)
	s.Priv = state.PrivU
	in := &Instruction{Op: OpMRET, Size: 4}
	if err := Execute(s, in); err != nil {
		t.Fatal(err)
	}
	if s.Stop != state.StopTrap {
		t.Fatal("MRET from U-mode must trap illegal instruction")
	}
	if got := s.CSRs.Read(csr.Mcause); got != state.ExcIllegalInstruction {
		t.Errorf("mcause = %d, want %d", got, state.ExcIllegalInstruction)
	}
}

func TestMRETRestoresPrivilegeAndPC(t *testing.T) {
	s := newState(state.XLen64)
	s.Priv = state.PrivU
	s.PC = 0x3000
	// Trigger a trap first so mepc/mstatus.MPP are populated like a real
	// trap entry would leave them.
	trapIn := &Instruction{Op: OpEBREAK, Size: 4}
	if err := Execute(s, trapIn); err != nil {
		t.Fatal(err)
	}
	if s.Priv != state.PrivM {
		t.Fatalf("after trapping, Priv = %v, want PrivM", s.Priv)
	}
	mret := &Instruction{Op: OpMRET, Size: 4}
	if err := Execute(s, mret); err != nil {
		t.Fatal(err)
	}
	if s.PC != 0x3000 {
		t.Errorf("PC after mret = %#x, want 0x3000", s.PC)
	}
	if s.Priv != state.PrivU {
		t.Errorf("Priv after mret = %v, want PrivU", s.Priv)
	}
}
