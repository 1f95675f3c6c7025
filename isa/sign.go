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

import "math"

// signExtend treats the low width bits of v as a two's-complement signed
// number and extends it to 64 bits (width is a bit count, not a bit
// index). Every arithmetic clause is explicit about signedness at the
// site it matters; this is the one shared primitive for that.
func signExtend(v uint64, width int) uint64 {
	b := signBits[width-1]
	if v&b.signBit != 0 {
		return v | b.ones
	}
	return v
}

// SignExtend is the exported form of signExtend, for callers outside this
// package that must assemble an already-sign-extended immediate before
// handing it to Execute — the compressed decoder, primarily, whose
// immediate fields arrive in field widths narrower than the 32-bit
// encoding each clause assumes.
func SignExtend(v uint64, width int) uint64 {
	return signExtend(v, width)
}

var signBits [64]struct {
	signBit uint64
	ones    uint64
}

func init() {
	b := uint64(1)
	ones := uint64(math.MaxUint64)
	for i := range signBits {
		signBits[i].signBit = b
		signBits[i].ones = ones
		b <<= 1
		ones <<= 1
	}
}

// truncXLen masks v down to the current XLEN width, leaving the value as
// an unsigned bag of bits with reinterpret-as-signed conversions done
// explicitly at each call site.
func truncXLen(v uint64, xlen int) uint64 {
	if xlen >= 64 {
		return v
	}
	return v & (uint64(1)<<uint(xlen) - 1)
}

// sext32To64 sign-extends the low 32 bits of v to a full 64-bit value.
// This is the shared rule behind every W-suffix instruction: sign-extend
// the 32-bit result to 64 bits regardless of the original operand width.
func sext32To64(v uint64) uint64 {
	return uint64(int64(int32(uint32(v))))
}
