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

// System instructions: environment calls/breakpoints and the privileged
// subset this core implements.

func ecall(s *state.ArchState, in *Instruction) error {
	var code uint64
	switch s.Priv {
	case state.PrivM:
		code = state.ExcECallFromM
	case state.PrivS:
		code = state.ExcECallFromS
	default:
		code = state.ExcECallFromU
	}
	return trap(s, code, 0)
}

func ebreak(s *state.ArchState, in *Instruction) error {
	return trap(s, state.ExcBreakpoint, s.PC)
}

func mret(s *state.ArchState, in *Instruction) error {
	if s.Priv != state.PrivM {
		return trap(s, state.ExcIllegalInstruction, 0)
	}
	return ret(s, state.PrivM)
}

func sret(s *state.ArchState, in *Instruction) error {
	if s.Priv != state.PrivM && s.Priv != state.PrivS {
		return trap(s, state.ExcIllegalInstruction, 0)
	}
	return ret(s, state.PrivS)
}

func uret(s *state.ArchState, in *Instruction) error {
	return ret(s, state.PrivU)
}

func sfenceVM(s *state.ArchState, in *Instruction) error {
	if s.Priv != state.PrivM && s.Priv != state.PrivS {
		return trap(s, state.ExcIllegalInstruction, 0)
	}
	// No address-translation cache to invalidate.
	return common(s, in, rdWrite{})
}

func illegalInstruction(s *state.ArchState, in *Instruction) error {
	return trap(s, state.ExcIllegalInstruction, 0)
}
