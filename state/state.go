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

// Package state holds the architectural state of a single RISC-V hart:
// the PC, GPRs, CSR file, memory and current privilege level. The
// instruction semantics in package isa read and transform this state;
// package state never constructs it on its own behalf.
package state

import "riscvcore/csr"

// XLen is the machine word width.
type XLen int

const (
	XLen32 XLen = 32
	XLen64 XLen = 64
)

// Priv is a RISC-V privilege level.
type Priv uint8

const (
	PrivU Priv = 0
	PrivS Priv = 1
	PrivM Priv = 3
)

func (p Priv) String() string {
	switch p {
	case PrivU:
		return "U"
	case PrivS:
		return "S"
	case PrivM:
		return "M"
	default:
		return "?"
	}
}

// StopReason records why the hart is no longer runnable. The zero value
// means "still running".
type StopReason uint8

const (
	StopNone StopReason = iota
	StopTrap
	StopExit
)

// mstatus bit layout (only the bits this core tracks).
const (
	mstatusSPPShift = 8
	mstatusMPPShift = 11
	mstatusSPPMask  = uint64(0x1) << mstatusSPPShift
	mstatusMPPMask  = uint64(0x3) << mstatusMPPShift
)

// Exception codes (riscv-privileged-20211203; Table 3.6).
const (
	ExcInstrAddrMisaligned = 0
	ExcIllegalInstruction  = 2
	ExcBreakpoint          = 3
	ExcECallFromU          = 8
	ExcECallFromS          = 9
	ExcECallFromM          = 11
)

// ArchState is the observable machine state threaded through every
// instruction clause. It is exclusively owned by the execution loop: one
// instruction is transformed to completion before the next begins.
type ArchState struct {
	PC   uint64
	GPRs [32]uint64
	CSRs *csr.File
	Mem  Memory
	Priv Priv
	XLen XLen
	Stop StopReason
}

// New returns a freshly constructed ArchState with PC at entry and the
// given memory and register width. The CSR file is always freshly
// allocated; it is not shared across harts.
func New(entry uint64, mem Memory, xlen XLen) *ArchState {
	return &ArchState{
		PC:   entry,
		CSRs: csr.NewFile(),
		Mem:  mem,
		Priv: PrivM,
		XLen: xlen,
	}
}

// GPR reads general-purpose register i. Register 0 always reads as 0.
func (s *ArchState) GPR(i uint64) uint64 {
	if i == 0 {
		return 0
	}
	return s.GPRs[i&0x1f]
}

// SetGPR writes general-purpose register i. Writes to register 0 are
// silently discarded: this is the single place that rule is enforced, per
// spec note "Exclusion of x0 writes" (no instruction clause re-implements
// it).
func (s *ArchState) SetGPR(i, v uint64) {
	if i == 0 {
		return
	}
	s.GPRs[i&0x1f] = v
}

// Running reports whether the hart may still execute instructions.
func (s *ArchState) Running() bool {
	return s.Stop == StopNone
}

// UpdOnTrap applies trap entry: it snapshots the trapping PC into mepc,
// records the cause and trap value, saves the current privilege into
// mstatus.MPP, raises privilege to M, and marks the hart stopped.
//
// Trap handling here is terminal: there is no mtvec-based re-entry into
// a handler. The CSR side effects are still applied in full so trap
// entry remains independently observable and
// testable instead of collapsing to "execution halted".
func (s *ArchState) UpdOnTrap(isInterrupt bool, excCode uint64, tval uint64) {
	cause := excCode
	if isInterrupt {
		cause |= uint64(1) << 63
	}
	s.CSRs.Write(csr.Mepc, s.PC)
	s.CSRs.Write(csr.Mcause, cause)
	s.CSRs.Write(csr.Mtval, tval)

	mstatus := s.CSRs.Read(csr.Mstatus)
	mstatus &^= mstatusMPPMask
	mstatus |= uint64(s.Priv&0x3) << mstatusMPPShift
	s.CSRs.Write(csr.Mstatus, mstatus)

	s.Priv = PrivM
	s.Stop = StopTrap
}

// UpdOnRet applies an xRET transition: PC is restored from the epc CSR of
// the originating privilege level and Priv is restored from the saved
// previous-privilege bits.
func (s *ArchState) UpdOnRet(fromPriv Priv) {
	switch fromPriv {
	case PrivM:
		s.PC = s.CSRs.Read(csr.Mepc)
		mstatus := s.CSRs.Read(csr.Mstatus)
		s.Priv = Priv(mstatus >> mstatusMPPShift & 0x3)
	case PrivS:
		s.PC = s.CSRs.Read(csr.Sepc)
		mstatus := s.CSRs.Read(csr.Mstatus)
		if mstatus&mstatusSPPMask != 0 {
			s.Priv = PrivS
		} else {
			s.Priv = PrivU
		}
	case PrivU:
		s.PC = s.CSRs.Read(csr.Uepc)
		s.Priv = PrivU
	}
}
