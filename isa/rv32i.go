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

import "riscvcore/state"

// RV32I/RV64I base instruction set, common to both widths.

func lui(s *state.ArchState, in *Instruction) error {
	return common(s, in, rdWrite{rd: in.RD, value: signExtend(in.Imm, 32), set: true})
}

func auipc(s *state.ArchState, in *Instruction) error {
	v := signExtend(in.Imm, 32) + s.PC
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func jal(s *state.ArchState, in *Instruction) error {
	target := s.PC + signExtend(in.Imm, 21)
	return jump(s, in, truncXLen(target, int(s.XLen)))
}

func jalr(s *state.ArchState, in *Instruction) error {
	// The low-bit-clearing the RISC-V spec requires for JALR is
	// intentionally not applied here; see DESIGN.md.
	target := s.GPR(in.RS1) + signExtend(in.Imm, 12)
	return jump(s, in, truncXLen(target, int(s.XLen)))
}

func branchTarget(s *state.ArchState, in *Instruction) uint64 {
	return truncXLen(s.PC+signExtend(in.Imm, 13), int(s.XLen))
}

func beq(s *state.ArchState, in *Instruction) error {
	return branch(s, in, s.GPR(in.RS1) == s.GPR(in.RS2), branchTarget(s, in))
}

func bne(s *state.ArchState, in *Instruction) error {
	return branch(s, in, s.GPR(in.RS1) != s.GPR(in.RS2), branchTarget(s, in))
}

func blt(s *state.ArchState, in *Instruction) error {
	return branch(s, in, int64(s.GPR(in.RS1)) < int64(s.GPR(in.RS2)), branchTarget(s, in))
}

func bge(s *state.ArchState, in *Instruction) error {
	return branch(s, in, int64(s.GPR(in.RS1)) >= int64(s.GPR(in.RS2)), branchTarget(s, in))
}

func bltu(s *state.ArchState, in *Instruction) error {
	return branch(s, in, s.GPR(in.RS1) < s.GPR(in.RS2), branchTarget(s, in))
}

func bgeu(s *state.ArchState, in *Instruction) error {
	return branch(s, in, s.GPR(in.RS1) >= s.GPR(in.RS2), branchTarget(s, in))
}

func effAddr(s *state.ArchState, in *Instruction) uint64 {
	return truncXLen(s.GPR(in.RS1)+signExtend(in.Imm, 12), int(s.XLen))
}

func lb(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	v, err := s.Mem.Read8(a)
	if err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{rd: in.RD, value: signExtend(v, 8), set: true})
}

func lh(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	v, err := s.Mem.Read16(a)
	if err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{rd: in.RD, value: signExtend(v, 16), set: true})
}

func lw(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	v, err := s.Mem.Read32(a)
	if err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{rd: in.RD, value: signExtend(v, 32), set: true})
}

func lbu(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	v, err := s.Mem.Read8(a)
	if err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func lhu(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	v, err := s.Mem.Read16(a)
	if err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func sb(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	if err := s.Mem.Write8(a, s.GPR(in.RS2)); err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{})
}

func sh(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	if err := s.Mem.Write16(a, s.GPR(in.RS2)); err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{})
}

func sw(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	if err := s.Mem.Write32(a, s.GPR(in.RS2)); err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{})
}

// memTrap forwards a memory fault's exception code into a trap, using
// the effective address as tval.
func memTrap(s *state.ArchState, err error, addr uint64) error {
	if f, ok := err.(*state.MemFault); ok {
		return trap(s, f.Code, addr)
	}
	return trap(s, state.ExcLoadAccessFault, addr)
}

func addi(s *state.ArchState, in *Instruction) error {
	v := s.GPR(in.RS1) + signExtend(in.Imm, 12)
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func slti(s *state.ArchState, in *Instruction) error {
	v := uint64(0)
	if int64(s.GPR(in.RS1)) < int64(signExtend(in.Imm, 12)) {
		v = 1
	}
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func sltiu(s *state.ArchState, in *Instruction) error {
	// The sign-extended immediate is compared as unsigned: this is what
	// distinguishes SLTIU from a naive "compare raw field" implementation.
	v := uint64(0)
	if s.GPR(in.RS1) < signExtend(in.Imm, 12) {
		v = 1
	}
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func xori(s *state.ArchState, in *Instruction) error {
	return common(s, in, rdWrite{rd: in.RD, value: s.GPR(in.RS1) ^ signExtend(in.Imm, 12), set: true})
}

func ori(s *state.ArchState, in *Instruction) error {
	return common(s, in, rdWrite{rd: in.RD, value: s.GPR(in.RS1) | signExtend(in.Imm, 12), set: true})
}

func andi(s *state.ArchState, in *Instruction) error {
	return common(s, in, rdWrite{rd: in.RD, value: s.GPR(in.RS1) & signExtend(in.Imm, 12), set: true})
}

// shiftMask returns the mask applied to a register-register shift amount:
// 0x3f on RV64, 0x1f on RV32.
func shiftMask(s *state.ArchState) uint64 {
	if s.XLen == state.XLen64 {
		return 0x3f
	}
	return 0x1f
}

func slli(s *state.ArchState, in *Instruction) error {
	v := s.GPR(in.RS1) << (in.Imm & shiftMask(s))
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func srli(s *state.ArchState, in *Instruction) error {
	v := truncXLen(s.GPR(in.RS1), int(s.XLen)) >> (in.Imm & shiftMask(s))
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func srai(s *state.ArchState, in *Instruction) error {
	xlen := int(s.XLen)
	signed := signedOfWidth(s.GPR(in.RS1), xlen)
	v := signed >> (in.Imm & shiftMask(s))
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(uint64(v), xlen), set: true})
}

func add(s *state.ArchState, in *Instruction) error {
	v := s.GPR(in.RS1) + s.GPR(in.RS2)
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func sub(s *state.ArchState, in *Instruction) error {
	v := s.GPR(in.RS1) - s.GPR(in.RS2)
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func sll(s *state.ArchState, in *Instruction) error {
	v := s.GPR(in.RS1) << (s.GPR(in.RS2) & shiftMask(s))
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func slt(s *state.ArchState, in *Instruction) error {
	v := uint64(0)
	if int64(s.GPR(in.RS1)) < int64(s.GPR(in.RS2)) {
		v = 1
	}
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func sltu(s *state.ArchState, in *Instruction) error {
	v := uint64(0)
	if s.GPR(in.RS1) < s.GPR(in.RS2) {
		v = 1
	}
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func xor(s *state.ArchState, in *Instruction) error {
	return common(s, in, rdWrite{rd: in.RD, value: s.GPR(in.RS1) ^ s.GPR(in.RS2), set: true})
}

func srl(s *state.ArchState, in *Instruction) error {
	v := truncXLen(s.GPR(in.RS1), int(s.XLen)) >> (s.GPR(in.RS2) & shiftMask(s))
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func sra(s *state.ArchState, in *Instruction) error {
	xlen := int(s.XLen)
	signed := signedOfWidth(s.GPR(in.RS1), xlen)
	v := signed >> (s.GPR(in.RS2) & shiftMask(s))
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(uint64(v), xlen), set: true})
}

func or(s *state.ArchState, in *Instruction) error {
	return common(s, in, rdWrite{rd: in.RD, value: s.GPR(in.RS1) | s.GPR(in.RS2), set: true})
}

func and(s *state.ArchState, in *Instruction) error {
	return common(s, in, rdWrite{rd: in.RD, value: s.GPR(in.RS1) & s.GPR(in.RS2), set: true})
}

func fence(s *state.ArchState, in *Instruction) error {
	// A single hart executing in program order: FENCE has nothing to
	// order.
	return common(s, in, rdWrite{})
}

func fenceI(s *state.ArchState, in *Instruction) error {
	// No instruction cache or pipeline to synchronize.
	return common(s, in, rdWrite{})
}

// signedOfWidth reinterprets the low `width` bits of v as a two's
// complement signed value of that width, as a Go int64 so `>>` performs
// an arithmetic shift.
func signedOfWidth(v uint64, width int) int64 {
	if width >= 64 {
		return int64(v)
	}
	return int64(signExtend(v, width))
}
