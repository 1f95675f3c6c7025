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
	"math"
	"math/bits"

	"riscvcore/state"
)

// M extension: integer multiply and divide. Wide multiplies use
// math/bits instead of manual cross-term assembly; division follows
// the RISC-V convention of never trapping, instead defining fixed results
// for divide-by-zero and signed overflow.

func mul(s *state.ArchState, in *Instruction) error {
	v := s.GPR(in.RS1) * s.GPR(in.RS2)
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func mulh(s *state.ArchState, in *Instruction) error {
	a := signedOfWidth(s.GPR(in.RS1), int(s.XLen))
	b := signedOfWidth(s.GPR(in.RS2), int(s.XLen))
	if s.XLen == state.XLen32 {
		// Both operands fit in 32 bits, so the full product fits in an
		// int64 and its high half is bits [63:32].
		return common(s, in, rdWrite{rd: in.RD, value: uint64(a*b) >> 32, set: true})
	}
	hi := mulHiSigned64(a, b)
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(uint64(hi), int(s.XLen)), set: true})
}

func mulhu(s *state.ArchState, in *Instruction) error {
	hi, _ := bits.Mul64(truncXLen(s.GPR(in.RS1), int(s.XLen)), truncXLen(s.GPR(in.RS2), int(s.XLen)))
	if s.XLen == state.XLen32 {
		// A 32x32 unsigned multiply's high half lives in bits [63:32] of
		// the 64-bit product bits.Mul64 already computed for us.
		lo, _ := bits.Mul64(s.GPR(in.RS1)&0xffffffff, s.GPR(in.RS2)&0xffffffff)
		return common(s, in, rdWrite{rd: in.RD, value: lo >> 32, set: true})
	}
	return common(s, in, rdWrite{rd: in.RD, value: hi, set: true})
}

func mulhsu(s *state.ArchState, in *Instruction) error {
	a := signedOfWidth(s.GPR(in.RS1), int(s.XLen))
	b := truncXLen(s.GPR(in.RS2), int(s.XLen))
	if s.XLen == state.XLen32 {
		// A signed 32-bit times an unsigned 32-bit operand fits in an
		// int64; the high half is bits [63:32].
		return common(s, in, rdWrite{rd: in.RD, value: uint64(a*int64(b)) >> 32, set: true})
	}
	hi := mulHiSignedUnsigned64(a, b)
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(uint64(hi), int(s.XLen)), set: true})
}

// mulHiSigned64 computes the high 64 bits of the full 128-bit signed
// product of a and b, via the unsigned wide multiply plus the standard
// two's-complement sign correction.
func mulHiSigned64(a, b int64) int64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return int64(hi)
}

// mulHiSignedUnsigned64 computes the high 64 bits of the signed*unsigned
// 128-bit product (MULHSU): only a's sign needs correcting.
func mulHiSignedUnsigned64(a int64, b uint64) int64 {
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	return int64(hi)
}

func mulw(s *state.ArchState, in *Instruction) error {
	v := uint32(s.GPR(in.RS1)) * uint32(s.GPR(in.RS2))
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func div(s *state.ArchState, in *Instruction) error {
	a := signedOfWidth(s.GPR(in.RS1), int(s.XLen))
	b := signedOfWidth(s.GPR(in.RS2), int(s.XLen))
	var v int64
	switch {
	case b == 0:
		v = -1
	case b == -1 && a == minSignedOfWidth(int(s.XLen)):
		v = a
	default:
		v = a / b
	}
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(uint64(v), int(s.XLen)), set: true})
}

func divu(s *state.ArchState, in *Instruction) error {
	a := truncXLen(s.GPR(in.RS1), int(s.XLen))
	b := truncXLen(s.GPR(in.RS2), int(s.XLen))
	v := uint64(0xffffffffffffffff)
	if b != 0 {
		v = a / b
	}
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func rem(s *state.ArchState, in *Instruction) error {
	a := signedOfWidth(s.GPR(in.RS1), int(s.XLen))
	b := signedOfWidth(s.GPR(in.RS2), int(s.XLen))
	var v int64
	switch {
	case b == 0:
		v = a
	case b == -1 && a == minSignedOfWidth(int(s.XLen)):
		v = 0
	default:
		v = a % b
	}
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(uint64(v), int(s.XLen)), set: true})
}

func remu(s *state.ArchState, in *Instruction) error {
	a := truncXLen(s.GPR(in.RS1), int(s.XLen))
	b := truncXLen(s.GPR(in.RS2), int(s.XLen))
	v := a
	if b != 0 {
		v = a % b
	}
	return common(s, in, rdWrite{rd: in.RD, value: truncXLen(v, int(s.XLen)), set: true})
}

func divw(s *state.ArchState, in *Instruction) error {
	a := int32(uint32(s.GPR(in.RS1)))
	b := int32(uint32(s.GPR(in.RS2)))
	var v int32
	switch {
	case b == 0:
		v = -1
	case b == -1 && a == math.MinInt32:
		v = a
	default:
		v = a / b
	}
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(uint32(v))), set: true})
}

func divuw(s *state.ArchState, in *Instruction) error {
	a := uint32(s.GPR(in.RS1))
	b := uint32(s.GPR(in.RS2))
	v := uint32(0xffffffff)
	if b != 0 {
		v = a / b
	}
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

func remw(s *state.ArchState, in *Instruction) error {
	a := int32(uint32(s.GPR(in.RS1)))
	b := int32(uint32(s.GPR(in.RS2)))
	var v int32
	switch {
	case b == 0:
		v = a
	case b == -1 && a == math.MinInt32:
		v = 0
	default:
		v = a % b
	}
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(uint32(v))), set: true})
}

func remuw(s *state.ArchState, in *Instruction) error {
	a := uint32(s.GPR(in.RS1))
	b := uint32(s.GPR(in.RS2))
	v := a
	if b != 0 {
		v = a % b
	}
	return common(s, in, rdWrite{rd: in.RD, value: sext32To64(uint64(v)), set: true})
}

// minSignedOfWidth returns the minimum representable signed value of the
// given width, needed for the INT_MIN / -1 divide-overflow case.
func minSignedOfWidth(width int) int64 {
	if width >= 64 {
		return math.MinInt64
	}
	return -(int64(1) << uint(width-1))
}
