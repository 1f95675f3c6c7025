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

import (
	"riscvcore/csr"
	"testing"
)

func TestGPRZeroIsHardwired(t *testing.T) {
	s := New(0, NewFlatMemory(16), XLen64)
	s.SetGPR(0, 0xdeadbeef)
	if got := s.GPR(0); got != 0 {
		t.Errorf("GPR(0) = %#x, want 0", got)
	}
}

func TestSetGPRRoundTrip(t *testing.T) {
	s := New(0, NewFlatMemory(16), XLen64)
	s.SetGPR(5, 0x123)
	if got := s.GPR(5); got != 0x123 {
		t.Errorf("GPR(5) = %#x, want 0x123", got)
	}
}

func TestUpdOnTrapSavesMPPAndRaisesToM(t *testing.T) {
	s := New(0x1000, NewFlatMemory(16), XLen64)
	s.Priv = PrivU
	s.PC = 0x2000
	s.UpdOnTrap(false, ExcIllegalInstruction, 0xabcd)

	if got := s.CSRs.Read(csr.Mepc); got != 0x2000 {
		t.Errorf("mepc = %#x, want 0x2000", got)
	}
	if got := s.CSRs.Read(csr.Mcause); got != ExcIllegalInstruction {
		t.Errorf("mcause = %d, want %d", got, ExcIllegalInstruction)
	}
	if got := s.CSRs.Read(csr.Mtval); got != 0xabcd {
		t.Errorf("mtval = %#x, want 0xabcd", got)
	}
	if s.Priv != PrivM {
		t.Errorf("Priv = %v, want PrivM", s.Priv)
	}
	if s.Running() {
		t.Error("Running() should report false once a trap has fired")
	}
	if s.Stop != StopTrap {
		t.Errorf("Stop = %v, want StopTrap", s.Stop)
	}

	mstatus := s.CSRs.Read(csr.Mstatus)
	if gotMPP := (mstatus >> mstatusMPPShift) & 0x3; gotMPP != uint64(PrivU) {
		t.Errorf("mstatus.MPP = %d, want %d (PrivU)", gotMPP, PrivU)
	}
}

func TestUpdOnTrapSetsInterruptBit(t *testing.T) {
	s := New(0, NewFlatMemory(16), XLen64)
	s.UpdOnTrap(true, 7, 0)
	cause := s.CSRs.Read(csr.Mcause)
	if cause>>63 != 1 {
		t.Errorf("mcause high bit not set for an interrupt: %#x", cause)
	}
	if cause&0x7fffffffffffffff != 7 {
		t.Errorf("mcause low bits = %#x, want 7", cause&0x7fffffffffffffff)
	}
}

func TestUpdOnRetFromM(t *testing.T) {
	s := New(0, NewFlatMemory(16), XLen64)
	s.Priv = PrivU
	s.PC = 0x4000
	s.UpdOnTrap(false, ExcBreakpoint, 0)
	s.UpdOnRet(PrivM)

	if s.PC != 0x4000 {
		t.Errorf("PC after mret = %#x, want 0x4000", s.PC)
	}
	if s.Priv != PrivU {
		t.Errorf("Priv after mret = %v, want PrivU (restored from mstatus.MPP)", s.Priv)
	}
}

func TestFlatMemoryBoundsFault(t *testing.T) {
	m := NewFlatMemory(4)
	if _, err := m.Read32(2); err == nil {
		t.Fatal("Read32 past the end of memory should fault")
	}
	if err := m.Write64(0, 1); err == nil {
		t.Fatal("Write64 larger than the backing store should fault")
	}
	var fault *MemFault
	_, err := m.Read8(100)
	if err == nil {
		t.Fatal("Read8 past the end should fault")
	}
	if fe, ok := err.(*MemFault); !ok {
		t.Fatalf("error type = %T, want *MemFault", err)
	} else {
		fault = fe
	}
	if fault.Code != ExcLoadAccessFault {
		t.Errorf("fault code = %d, want %d", fault.Code, ExcLoadAccessFault)
	}
}

func TestFlatMemoryLittleEndian(t *testing.T) {
	m := NewFlatMemory(8)
	if err := m.Write32(0, 0x01020304); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x04, 0x03, 0x02, 0x01}
	for i, b := range want {
		if m.Bytes[i] != b {
			t.Errorf("byte %d = %#x, want %#x", i, m.Bytes[i], b)
		}
	}
	got, err := m.Read32(0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x01020304 {
		t.Errorf("Read32 = %#x, want 0x01020304", got)
	}
}
