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

// Package decode turns raw instruction bytes into isa.Instruction values,
// for both the 32-bit RV32I/RV64I/M encoding and the 16-bit compressed
// (RVC) encoding.
package decode

import (
	"fmt"

	"riscvcore/isa"
)

// Decode decodes the instruction at the front of b and returns it along
// with its size in bytes (2 or 4). A word whose length encoding is
// reserved decodes to the illegal-instruction op with size 0.
func Decode(pc uint64, b []byte) (in *isa.Instruction, size int, err error) {
	if len(b) == 0 || len(b)%2 != 0 {
		return nil, 0, fmt.Errorf("can't decode %d bytes: length must be a non-zero multiple of 2", len(b))
	}
	size, ok := decodeSize(b)
	if !ok {
		return illegal(0, 0), 0, nil
	}
	if len(b) < size {
		return nil, 0, fmt.Errorf("not enough input bytes (%d) for an instruction of size %d bytes", len(b), size)
	}
	if size == 2 {
		word := uint16(b[1])<<8 | uint16(b[0])
		in, err := DecodeCompressed(word)
		if err != nil {
			return illegal(uint32(word), 2), 2, nil
		}
		in.Size = 2
		return in, 2, nil
	}
	if size != 4 {
		return illegal(0, uint64(size)), size, fmt.Errorf("instructions of size %d bytes are not supported", size)
	}

	word := uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	in = decode32(pc, word)
	in.Size = 4
	return in, 4, nil
}

func illegal(raw uint32, size uint64) *isa.Instruction {
	return &isa.Instruction{Op: isa.OpIllegalInstruction, Raw: raw, Size: size}
}

// baseOpcode is the 5-bit field at bits [6:2] of a 32-bit instruction word
// (riscv-spec-v2.2; Page 103; Table 19.1), which selects the instruction
// format.
type baseOpcode uint

const (
	boLoad    = baseOpcode(0x00) // i-type
	boMiscMem = baseOpcode(0x03) // i-type
	boOpImm   = baseOpcode(0x04) // i-type
	boAUIPC   = baseOpcode(0x05) // u-type
	boOpImm32 = baseOpcode(0x06) // i-type
	boStore   = baseOpcode(0x08) // s-type
	boAMO     = baseOpcode(0x0b) // r-type
	boOp      = baseOpcode(0x0c) // r-type
	boLUI     = baseOpcode(0x0d) // u-type
	boOp32    = baseOpcode(0x0e) // r-type
	boBranch  = baseOpcode(0x18) // b-type
	boJALR    = baseOpcode(0x19) // i-type
	boJAL     = baseOpcode(0x1b) // j-type
	boSystem  = baseOpcode(0x1c) // i-type
)

// decode32 decodes a 32-bit instruction word: bits [6:2] select a
// format, which determines how rs1/rs2/rd/imm are packed, and a
// (funct7, funct3, opcode) key selects the exact operation within its
// format.
func decode32(pc uint64, word uint32) *isa.Instruction {
	in := uint64(word)
	rs1 := in >> 15 & 0x1f
	rs2 := in >> 20 & 0x1f
	rd := in >> 7 & 0x1f

	bop := baseOpcode(in >> 2 & 0x1f)

	switch bop {
	case boAUIPC, boLUI:
		imm := in & 0xFFFFF000
		op := isa.OpAUIPC
		if bop == boLUI {
			op = isa.OpLUI
		}
		return &isa.Instruction{Op: op, RD: rd, Imm: imm, Raw: word}
	case boJAL:
		imm := in>>11&0x100000 | in&0xff000 | in>>9&0x800 | in>>20&0x7fe
		return &isa.Instruction{Op: isa.OpJAL, RD: rd, Imm: imm, Raw: word}
	case boSystem:
		return decodeSystem(in, rs1, rs2, rd, word)
	case boOpImm:
		if funct3 := in >> 12 & 0x7; funct3 == 0x1 || funct3 == 0x5 {
			return decodeShiftImm(in, rs1, rd, word, false)
		}
	case boOpImm32:
		if funct3 := in >> 12 & 0x7; funct3 == 0x1 || funct3 == 0x5 {
			return decodeShiftImm(in, rs1, rd, word, true)
		}
	}

	var funct7 uint64
	var imm uint64
	switch bop {
	case boAMO, boOp, boOp32:
		funct7 = in >> 17 & 0x7f00
	case boLoad, boMiscMem, boOpImm, boOpImm32, boJALR:
		imm = in >> 20 & 0xfff
	case boStore:
		imm = in>>20&0xFE0 | in>>7&0x1f
	case boBranch:
		imm = in>>19&0x1000 | in<<4&0x800 | in>>20&0x7e0 | in>>7&0x1e
	default:
		return illegal(word, 4)
	}

	key := funct7 | in>>7&0xE0 | in>>2&0x1f
	op, ok := instructions[key]
	if !ok {
		return illegal(word, 4)
	}
	return &isa.Instruction{Op: op, RS1: rs1, RS2: rs2, RD: rd, Imm: imm, Raw: word}
}

// instructions maps the (funct7<<8 | funct3<<5 | opcode>>2) key to the
// operation it selects (riscv-spec-v2.2; Table 19.3). SYSTEM-opcode
// instructions (ECALL/EBREAK/xRET/CSR ops) are not in this table; they
// share too little structure with the rest and are decoded directly in
// decodeSystem instead.
var instructions = map[uint64]isa.Op{
	// RV32I
	0x18: isa.OpBEQ, 0x38: isa.OpBNE, 0x98: isa.OpBLT, 0xB8: isa.OpBGE,
	0xD8: isa.OpBLTU, 0xF8: isa.OpBGEU,
	0x00: isa.OpLB, 0x20: isa.OpLH, 0x40: isa.OpLW, 0x80: isa.OpLBU, 0xA0: isa.OpLHU,
	0x08: isa.OpSB, 0x28: isa.OpSH, 0x48: isa.OpSW,
	0x19: isa.OpJALR,
	0x04: isa.OpADDI, 0x44: isa.OpSLTI, 0x64: isa.OpSLTIU,
	0x84: isa.OpXORI, 0xC4: isa.OpORI, 0xE4: isa.OpANDI,
	0x000C: isa.OpADD, 0x200C: isa.OpSUB,
	0x002C: isa.OpSLL, 0x004C: isa.OpSLT, 0x006C: isa.OpSLTU,
	0x008C: isa.OpXOR, 0x00AC: isa.OpSRL, 0x20AC: isa.OpSRA,
	0x0CC: isa.OpOR, 0x0EC: isa.OpAND,
	0x03: isa.OpFENCE, 0x23: isa.OpFENCEI,

	// RV64I (SLLI/SRLI/SRAI and their W-suffix counterparts are decoded
	// directly in decodeShiftImm, not through this table)
	0xC0: isa.OpLWU,
	0x60: isa.OpLD,
	0x68: isa.OpSD,
	0x06: isa.OpADDIW,
	0x000E: isa.OpADDW, 0x200E: isa.OpSUBW,
	0x002E: isa.OpSLLW, 0x00AE: isa.OpSRLW, 0x20AE: isa.OpSRAW,

	// M extension
	0x10C: isa.OpMUL, 0x12C: isa.OpMULH, 0x14C: isa.OpMULHSU, 0x16C: isa.OpMULHU,
	0x18C: isa.OpDIV, 0x1AC: isa.OpDIVU, 0x1CC: isa.OpREM, 0x1EC: isa.OpREMU,
	0x10E: isa.OpMULW, 0x18E: isa.OpDIVW, 0x1AE: isa.OpDIVUW, 0x1CE: isa.OpREMW, 0x1EE: isa.OpREMUW,
}

// decodeShiftImm decodes SLLI/SRLI/SRAI (w32=false) or SLLIW/SRLIW/SRAIW
// (w32=true): all three share an opcode, SRLI and SRAI also share funct3,
// and only the shift amount sits in the immediate field, so the variant
// is resolved here by reading funct3 and the funct7/funct6 bits directly
// instead of through the shared opcode table.
func decodeShiftImm(in, rs1, rd uint64, word uint32, w32 bool) *isa.Instruction {
	funct3 := in >> 12 & 0x7
	if funct3 == 0x1 {
		op := isa.OpSLLI
		if w32 {
			op = isa.OpSLLIW
		}
		shamt := in >> 20 & 0x3f
		if w32 {
			shamt &= 0x1f
		}
		return &isa.Instruction{Op: op, RS1: rs1, RD: rd, Imm: shamt, Raw: word}
	}
	// funct3 == 0x5: SRLI/SRAI, distinguished by bit 30 (for the
	// 5-bit-shamt W-suffix forms as well).
	isArith := in>>30&0x1 != 0
	shamt := in >> 20 & 0x3f
	if w32 {
		shamt &= 0x1f
	}
	op := isa.OpSRLI
	if w32 {
		op = isa.OpSRLIW
	}
	if isArith {
		op = isa.OpSRAI
		if w32 {
			op = isa.OpSRAIW
		}
	}
	return &isa.Instruction{Op: op, RS1: rs1, RD: rd, Imm: shamt, Raw: word}
}

// decodeSystem decodes the SYSTEM opcode: CSR instructions (distinguished
// by funct3) and the funct3==0 group (ECALL/EBREAK/xRET), distinguished
// by the funct12 field normally occupying the immediate position
// (riscv-privileged-20211203; Table 2.3).
func decodeSystem(in, rs1, rs2, rd uint64, word uint32) *isa.Instruction {
	funct3 := in >> 12 & 0x7
	switch funct3 {
	case 0x1:
		return &isa.Instruction{Op: isa.OpCSRRW, RS1: rs1, RD: rd, Imm: in >> 20 & 0xfff, Raw: word}
	case 0x2:
		return &isa.Instruction{Op: isa.OpCSRRS, RS1: rs1, RD: rd, Imm: in >> 20 & 0xfff, Raw: word}
	case 0x3:
		return &isa.Instruction{Op: isa.OpCSRRC, RS1: rs1, RD: rd, Imm: in >> 20 & 0xfff, Raw: word}
	case 0x5:
		return &isa.Instruction{Op: isa.OpCSRRWI, RS1: rs1, RD: rd, Imm: in >> 20 & 0xfff, Raw: word}
	case 0x6:
		return &isa.Instruction{Op: isa.OpCSRRSI, RS1: rs1, RD: rd, Imm: in >> 20 & 0xfff, Raw: word}
	case 0x7:
		return &isa.Instruction{Op: isa.OpCSRRCI, RS1: rs1, RD: rd, Imm: in >> 20 & 0xfff, Raw: word}
	}

	funct12 := in >> 20 & 0xfff
	switch funct12 {
	case 0x000:
		return &isa.Instruction{Op: isa.OpECALL, Raw: word}
	case 0x001:
		return &isa.Instruction{Op: isa.OpEBREAK, Raw: word}
	case 0x002:
		return &isa.Instruction{Op: isa.OpURET, Raw: word}
	case 0x102:
		return &isa.Instruction{Op: isa.OpSRET, Raw: word}
	case 0x302:
		return &isa.Instruction{Op: isa.OpMRET, Raw: word}
	}
	if funct12>>5 == 0x09 {
		return &isa.Instruction{Op: isa.OpSFENCEVM, RS1: rs1, RS2: rs2, Raw: word}
	}
	return illegal(word, 4)
}

func decodeSize(b []byte) (int, bool) {
	// riscv-spec-v2.2; Figure 1.1; Page 6
	switch {
	case b[0]&0x3 != 0x3:
		return 2, true
	case b[0]&0x1f != 0x1f:
		return 4, true
	case b[0]&0x3f == 0x1f:
		return 6, true
	case b[0]&0x7f == 0x3f:
		return 8, true
	case b[0]&0x7f == 0x7f:
		n := (b[1] >> 4) & 0x7
		if n == 7 {
			return 0, false
		}
		return int(10 + 2*n), true
	default:
		return 0, false
	}
}
