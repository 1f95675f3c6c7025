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
)

// CSR instructions. CSRRW/CSRRWI always both read and write the CSR and
// so require RW permission unconditionally; CSRRS/CSRRC and their
// immediate forms write only when their source operand is nonzero,
// so they tolerate a read-only CSR when the write would be a no-op.

func csrTrap(s *state.ArchState) error {
	return trap(s, state.ExcIllegalInstruction, 0)
}

func csrrw(s *state.ArchState, in *Instruction) error {
	addr := in.Imm
	if csr.Permission(uint8(s.Priv), addr) != csr.RW {
		return csrTrap(s)
	}
	old := s.CSRs.Read(addr)
	s.CSRs.Write(addr, s.GPR(in.RS1))
	return common(s, in, rdWrite{rd: in.RD, value: old, set: true})
}

func csrrs(s *state.ArchState, in *Instruction) error {
	return csrReadModify(s, in, func(old, src uint64) uint64 { return old | src })
}

func csrrc(s *state.ArchState, in *Instruction) error {
	return csrReadModify(s, in, func(old, src uint64) uint64 { return old &^ src })
}

func csrReadModify(s *state.ArchState, in *Instruction, modify func(old, src uint64) uint64) error {
	addr := in.Imm
	src := s.GPR(in.RS1)
	perm := csr.Permission(uint8(s.Priv), addr)
	if perm == csr.None {
		return csrTrap(s)
	}
	if src != 0 && perm != csr.RW {
		return csrTrap(s)
	}
	old := s.CSRs.Read(addr)
	if src != 0 {
		s.CSRs.Write(addr, modify(old, src))
	}
	return common(s, in, rdWrite{rd: in.RD, value: old, set: true})
}

func csrrwi(s *state.ArchState, in *Instruction) error {
	addr := in.Imm
	if csr.Permission(uint8(s.Priv), addr) != csr.RW {
		return csrTrap(s)
	}
	old := s.CSRs.Read(addr)
	s.CSRs.Write(addr, zimm(in))
	return common(s, in, rdWrite{rd: in.RD, value: old, set: true})
}

func csrrsi(s *state.ArchState, in *Instruction) error {
	return csrImmReadModify(s, in, func(old, src uint64) uint64 { return old | src })
}

func csrrci(s *state.ArchState, in *Instruction) error {
	return csrImmReadModify(s, in, func(old, src uint64) uint64 { return old &^ src })
}

func csrImmReadModify(s *state.ArchState, in *Instruction, modify func(old, src uint64) uint64) error {
	addr := in.Imm
	src := zimm(in)
	perm := csr.Permission(uint8(s.Priv), addr)
	if perm == csr.None {
		return csrTrap(s)
	}
	if src != 0 && perm != csr.RW {
		return csrTrap(s)
	}
	old := s.CSRs.Read(addr)
	if src != 0 {
		s.CSRs.Write(addr, modify(old, src))
	}
	return common(s, in, rdWrite{rd: in.RD, value: old, set: true})
}

// zimm extracts the 5-bit unsigned immediate the *I CSR forms carry in
// RS1. Unlike every other immediate field in the instruction set, zimm
// is never sign-extended.
func zimm(in *Instruction) uint64 {
	return in.RS1 & 0x1f
}
