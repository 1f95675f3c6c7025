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

import "riscvcore/csr"
import "riscvcore/state"

// rdWrite is an optional (rd, value) pair for the common epilogue.
type rdWrite struct {
	rd    uint64
	value uint64
	set   bool
}

// common is the shared "end of instruction" path for every clause that
// neither branches nor traps: optionally write rd, advance PC by the
// instruction's encoded size (2 for compressed, 4 otherwise), increment
// minstret. This and the four epilogues below are the only code in this
// package permitted to write PC or minstret.
func common(s *state.ArchState, in *Instruction, w rdWrite) error {
	if w.set {
		s.SetGPR(w.rd, w.value)
	}
	s.PC += in.Size
	bumpMinstret(s)
	return nil
}

// jump is the epilogue for JAL/JALR: validate alignment of the computed
// target, then write the link register (the address immediately past
// this instruction, whatever its encoded size) and move PC there.
func jump(s *state.ArchState, in *Instruction, targetPC uint64) error {
	if targetPC%4 != 0 {
		return trap(s, state.ExcInstrAddrMisaligned, targetPC)
	}
	s.SetGPR(in.RD, s.PC+in.Size)
	s.PC = targetPC
	bumpMinstret(s)
	return nil
}

// branch is the epilogue for conditional branches: if taken and the
// target is misaligned, trap; otherwise move PC to the target (if taken)
// or past this instruction (if not).
func branch(s *state.ArchState, in *Instruction, taken bool, targetPC uint64) error {
	pc := s.PC
	if taken && targetPC%4 != 0 {
		return trap(s, state.ExcInstrAddrMisaligned, targetPC)
	}
	if taken {
		s.PC = targetPC
	} else {
		s.PC = pc + in.Size
	}
	bumpMinstret(s)
	return nil
}

// trap delegates to ArchState's trap-entry primitive. The current
// epilogue surface treats every trap as terminal: the common epilogue's
// PC/minstret increment never runs afterwards.
func trap(s *state.ArchState, excCode uint64, tval uint64) error {
	s.UpdOnTrap(false /* isInterrupt */, excCode, tval)
	return nil
}

// ret is the epilogue for MRET/SRET/URET: delegate to ArchState's
// return-update primitive, then increment minstret (an xRET that
// successfully returns is not itself a trap).
func ret(s *state.ArchState, fromPriv state.Priv) error {
	s.UpdOnRet(fromPriv)
	bumpMinstret(s)
	return nil
}

// bumpMinstret increments the retired-instruction counter. Every
// completed instruction increments it exactly once; a trap instead
// routes through UpdOnTrap and never reaches here.
func bumpMinstret(s *state.ArchState) {
	s.CSRs.Write(csr.Minstret, s.CSRs.Read(csr.Minstret)+1)
}
