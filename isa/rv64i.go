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

// RV64I additions: wider loads/stores and the W-suffix family, which
// operates on the low 32 bits and always sign-extends the result back
// to 64.

func lwu(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	v, err := s.Mem.Read32(a)
	if err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func ld(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	v, err := s.Mem.Read64(a)
	if err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{rd: in.RD, value: v, set: true})
}

func sd(s *state.ArchState, in *Instruction) error {
	a := effAddr(s, in)
	if err := s.Mem.Write64(a, s.GPR(in.RS2)); err != nil {
		return memTrap(s, err, a)
	}
	return common(s, in, rdWrite{})
}

func addiw(s *state.ArchState, in *Instruction) error {
	v := uint32(s.GPR(in.RS1)) + uint32(signExtend(in.Imm, 12))
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func slliw(s *state.ArchState, in *Instruction) error {
	v := uint32(s.GPR(in.RS1)) << (in.Imm & 0x1f)
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func srliw(s *state.ArchState, in *Instruction) error {
	v := uint32(s.GPR(in.RS1)) >> (in.Imm & 0x1f)
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func sraiw(s *state.ArchState, in *Instruction) error {
	v := int32(uint32(s.GPR(in.RS1))) >> (in.Imm & 0x1f)
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(uint32(v))), set: true})
}

func addw(s *state.ArchState, in *Instruction) error {
	v := uint32(s.GPR(in.RS1)) + uint32(s.GPR(in.RS2))
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func subw(s *state.ArchState, in *Instruction) error {
	v := uint32(s.GPR(in.RS1)) - uint32(s.GPR(in.RS2))
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func sllw(s *state.ArchState, in *Instruction) error {
	v := uint32(s.GPR(in.RS1)) << (s.GPR(in.RS2) & 0x1f)
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func srlw(s *state.ArchState, in *Instruction) error {
	v := uint32(s.GPR(in.RS1)) >> (s.GPR(in.RS2) & 0x1f)
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func sraw(s *state.ArchState, in *Instruction) error {
	v := int32(uint32(s.GPR(in.RS1))) >> (s.GPR(in.RS2) & 0x1f)
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(uint32(v))), set: true})
}
