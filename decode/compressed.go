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

package decode

import (
	"fmt"

	"riscvcore/isa"
)

// Register numbers used by the compressed forms whose source/destination
// is implicit in the encoding.
const (
	regZero = 0
	regRA   = 1
	regSP   = 2
)

// rvcRegOffset maps a compressed instruction's 3-bit register field
// (which can only name x8-x15) to its full 5-bit register number.
const rvcRegOffset = 8

// DecodeCompressed decodes a single 16-bit RVC instruction into the same
// isa.Instruction/Op values a 32-bit encoding would produce. Every case
// bottoms out in an Op the 32-bit decoder also produces; immediates are
// assembled and sign/zero-extended to their full field width here, so
// each target clause's own (wider) sign-extension is a no-op rather than
// a second, conflicting interpretation of the bits (see DESIGN.md).
func DecodeCompressed(in uint16) (*isa.Instruction, error) {
	if in == 0 {
		return nil, fmt.Errorf("illegal instruction %#x", in)
	}

	// riscv-spec-v2.2; Table 12.5; pages 82-83
	switch in>>11&0x1c | in&0x3 {
	case 0x00: // C.ADDI4SPN
		imm, r := decodeCIW(in)
		imm = imm&0xc0>>2 | imm&0x3c<<4 | imm&0x2<<1 | imm&0x1<<3
		return &isa.Instruction{Op: isa.OpADDI, RD: r, RS1: regSP, Imm: imm}, nil
	case 0x04: // C.FLD / C.LQ: the F/D/Q extensions are out of scope
		return nil, fmt.Errorf("floating-point compressed instruction %#x is not supported", in)
	case 0x08: // C.LW
		imm, r1, r2 := decodeCL(in)
		imm = (imm<<5 | imm) & 0x3e << 1
		return &isa.Instruction{Op: isa.OpLW, RD: r2, RS1: r1, Imm: imm}, nil
	case 0x0C: // C.LD (RV64)
		imm, r1, r2 := decodeCL(in)
		imm = (imm<<6 | imm<<1) & 0xf8
		return &isa.Instruction{Op: isa.OpLD, RD: r2, RS1: r1, Imm: imm}, nil
	case 0x10:
		return nil, fmt.Errorf("reserved compressed instruction %#x", in)
	case 0x14: // C.FSD / C.SQ
		return nil, fmt.Errorf("floating-point compressed instruction %#x is not supported", in)
	case 0x18: // C.SW
		imm, r1, r2 := decodeCS(in)
		imm = (imm<<5 | imm) << 1 & 0x7c
		return &isa.Instruction{Op: isa.OpSW, RS1: r1, RS2: r2, Imm: imm}, nil
	case 0x1C: // C.SD (RV64)
		imm, r1, r2 := decodeCS(in)
		imm = (imm<<5 | imm) << 1 & 0xf8
		return &isa.Instruction{Op: isa.OpSD, RS1: r1, RS2: r2, Imm: imm}, nil
	case 0x01: // C.NOP / C.ADDI
		imm, r := decodeCI(in)
		return &isa.Instruction{Op: isa.OpADDI, RD: r, RS1: r, Imm: isa.SignExtend(imm, 6)}, nil
	case 0x05: // C.ADDIW (RV64; RES if rd==0)
		imm, r := decodeCI(in)
		return &isa.Instruction{Op: isa.OpADDIW, RD: r, RS1: r, Imm: isa.SignExtend(imm, 6)}, nil
	case 0x09: // C.LI
		imm, r := decodeCI(in)
		return &isa.Instruction{Op: isa.OpADDI, RD: r, RS1: regZero, Imm: isa.SignExtend(imm, 6)}, nil
	case 0x0D: // C.LUI / C.ADDI16SP
		imm, r := decodeCI(in)
		if r != regSP {
			return &isa.Instruction{Op: isa.OpLUI, RD: r, Imm: isa.SignExtend(imm<<12, 18)}, nil
		}
		imm = imm&0x20<<4 | imm&0x10 | imm&0x8<<3 | imm&0x6<<6 | imm&0x1<<5
		return &isa.Instruction{Op: isa.OpADDI, RD: regSP, RS1: regSP, Imm: isa.SignExtend(imm, 10)}, nil
	case 0x11:
		switch in >> 10 & 0x3 {
		case 0x00: // C.SRLI
			imm, r := decodeShiftCB(in)
			return &isa.Instruction{Op: isa.OpSRLI, RD: r, RS1: r, Imm: imm}, nil
		case 0x01: // C.SRAI
			imm, r := decodeShiftCB(in)
			return &isa.Instruction{Op: isa.OpSRAI, RD: r, RS1: r, Imm: imm}, nil
		case 0x02: // C.ANDI
			imm, r := decodeShiftCB(in)
			return &isa.Instruction{Op: isa.OpANDI, RD: r, RS1: r, Imm: isa.SignExtend(imm, 6)}, nil
		}
		_, r1, r2 := decodeCS(in)
		switch in>>8&0x1c | in>>5&0x3 {
		case 0xc: // C.SUB
			return &isa.Instruction{Op: isa.OpSUB, RD: r1, RS1: r1, RS2: r2}, nil
		case 0xd: // C.XOR
			return &isa.Instruction{Op: isa.OpXOR, RD: r1, RS1: r1, RS2: r2}, nil
		case 0xe: // C.OR
			return &isa.Instruction{Op: isa.OpOR, RD: r1, RS1: r1, RS2: r2}, nil
		case 0xf: // C.AND
			return &isa.Instruction{Op: isa.OpAND, RD: r1, RS1: r1, RS2: r2}, nil
		case 0x1c: // C.SUBW
			return &isa.Instruction{Op: isa.OpSUBW, RD: r1, RS1: r1, RS2: r2}, nil
		case 0x1d: // C.ADDW
			return &isa.Instruction{Op: isa.OpADDW, RD: r1, RS1: r1, RS2: r2}, nil
		}
		return nil, fmt.Errorf("reserved compressed instruction %#x", in)
	case 0x15: // C.J
		imm := decodeCJ(in)
		imm = imm&0x200>>5 | imm&0x40<<4 | imm&0x5a0<<1 | imm&0x10<<3 | imm&0xe | imm&1<<5
		return &isa.Instruction{Op: isa.OpJAL, RD: regZero, Imm: isa.SignExtend(imm, 12)}, nil
	case 0x19: // C.BEQZ
		imm, r := decodeCB(in)
		imm = imm&0x80<<1 | imm&0x60>>2 | imm&0x18<<3 | imm&0x6 | imm&0x1<<5
		return &isa.Instruction{Op: isa.OpBEQ, RS1: r, RS2: regZero, Imm: isa.SignExtend(imm, 9)}, nil
	case 0x1D: // C.BNEZ
		imm, r := decodeCB(in)
		imm = imm&0x80<<1 | imm&0x60>>2 | imm&0x18<<3 | imm&0x6 | imm&0x1<<5
		return &isa.Instruction{Op: isa.OpBNE, RS1: r, RS2: regZero, Imm: isa.SignExtend(imm, 9)}, nil
	case 0x02: // C.SLLI
		imm, r := decodeCI(in)
		return &isa.Instruction{Op: isa.OpSLLI, RD: r, RS1: r, Imm: imm}, nil
	case 0x06: // C.FLDSP / C.LQSP
		return nil, fmt.Errorf("floating-point compressed instruction %#x is not supported", in)
	case 0x0A: // C.LWSP
		imm, r := decodeCI(in)
		imm = (imm<<6 | imm) & 0xfc
		return &isa.Instruction{Op: isa.OpLW, RD: r, RS1: regSP, Imm: imm}, nil
	case 0x0E: // C.LDSP (RV64)
		imm, r := decodeCI(in)
		imm = (imm<<6 | imm) & 0x1f8
		return &isa.Instruction{Op: isa.OpLD, RD: r, RS1: regSP, Imm: imm}, nil
	case 0x12:
		r1, r2 := decodeCR(in)
		bit12 := in & 0x1000
		switch {
		case bit12 == 0 && r2 == 0: // C.JR
			return &isa.Instruction{Op: isa.OpJALR, RD: regZero, RS1: r1}, nil
		case bit12 == 0: // C.MV
			return &isa.Instruction{Op: isa.OpADD, RD: r1, RS1: regZero, RS2: r2}, nil
		case bit12 == 0x1000 && r1 == 0 && r2 == 0: // C.EBREAK
			return &isa.Instruction{Op: isa.OpEBREAK}, nil
		case bit12 == 0x1000 && r2 == 0: // C.JALR
			return &isa.Instruction{Op: isa.OpJALR, RD: regRA, RS1: r1}, nil
		default: // C.ADD
			return &isa.Instruction{Op: isa.OpADD, RD: r1, RS1: r1, RS2: r2}, nil
		}
	case 0x16: // C.FSDSP / C.SQSP
		return nil, fmt.Errorf("floating-point compressed instruction %#x is not supported", in)
	case 0x1A: // C.SWSP
		imm, r := decodeCSS(in)
		imm = (imm<<6 | imm) & 0xfc
		return &isa.Instruction{Op: isa.OpSW, RS1: regSP, RS2: r, Imm: imm}, nil
	case 0x1E: // C.SDSP (RV64)
		imm, r := decodeCSS(in)
		imm = (imm<<6 | imm) & 0x1f8
		return &isa.Instruction{Op: isa.OpSD, RS1: regSP, RS2: r, Imm: imm}, nil
	}

	return nil, fmt.Errorf("unrecognized compressed instruction %#x", in)
}

func decodeCR(in uint16) (r1, r2 uint64) {
	return uint64(in >> 7 & 0x1f), uint64(in >> 2 & 0x1f)
}

func decodeCI(in uint16) (imm, r uint64) {
	return uint64(in>>7&0x20 | in>>2&0x1f), uint64(in >> 7 & 0x1f)
}

func decodeCSS(in uint16) (imm, r uint64) {
	return uint64(in >> 7 & 0x3f), uint64(in >> 2 & 0x1f)
}

func decodeCIW(in uint16) (imm, r uint64) {
	return uint64(in >> 5 & 0xff), uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCL(in uint16) (imm, r1, r2 uint64) {
	return uint64(in>>8&0x1c | in>>5&0x3), uint64(in>>7&0x7) + rvcRegOffset, uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCS(in uint16) (imm, r1, r2 uint64) {
	return uint64(in>>8&0x1c | in>>5&0x3), uint64(in>>7&0x7) + rvcRegOffset, uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCB(in uint16) (imm, r uint64) {
	return uint64(in>>5&0xe0 | in>>2&0x1f), uint64(in>>7&0x7) + rvcRegOffset
}

// decodeShiftCB decodes the CB-format specialization shifts use.
func decodeShiftCB(in uint16) (shamt, r uint64) {
	return uint64(in&0x1000>>7 | in>>2&0x1f), uint64(in>>7&0x7) + rvcRegOffset
}

func decodeCJ(in uint16) uint64 {
	return uint64(in >> 2 & 0x7ff)
}
