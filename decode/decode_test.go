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
	"encoding/binary"
	"testing"

	"riscvcore/isa"
)

func encode32(word uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, word)
	return b
}

func TestDecodeADDI(t *testing.T) {
	// addi x1, x2, 5
	word := uint32(5)<<20 | 2<<15 | 0<<12 | 1<<7 | 0x13
	in, size, err := Decode(0, encode32(word))
	if err != nil {
		t.Fatal(err)
	}
	if size != 4 {
		t.Errorf("size = %d, want 4", size)
	}
	if in.Op != isa.OpADDI || in.RD != 1 || in.RS1 != 2 || in.Imm != 5 {
		t.Errorf("decoded %+v, want addi x1,x2,5", in)
	}
	if in.Size != 4 {
		t.Errorf("in.Size = %d, want 4", in.Size)
	}
}

func TestDecodeJALR(t *testing.T) {
	// jalr x1, x2, 4
	word := uint32(4)<<20 | 2<<15 | 0<<12 | 1<<7 | 0x67
	in, size, err := Decode(0, encode32(word))
	if err != nil {
		t.Fatal(err)
	}
	if size != 4 {
		t.Errorf("size = %d, want 4", size)
	}
	if in.Op != isa.OpJALR || in.RD != 1 || in.RS1 != 2 || in.Imm != 4 {
		t.Errorf("decoded %+v, want jalr x1,x2,4", in)
	}
}

func TestDecodeJALRRetPseudoInstruction(t *testing.T) {
	// ret == jalr x0, ra(x1), 0
	word := uint32(0)<<20 | 1<<15 | 0<<12 | 0<<7 | 0x67
	in, _, err := Decode(0, encode32(word))
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != isa.OpJALR || in.RD != 0 || in.RS1 != 1 || in.Imm != 0 {
		t.Errorf("decoded %+v, want jalr x0,x1,0 (ret)", in)
	}
}

func TestDecodeShiftImmDisambiguation(t *testing.T) {
	tests := []struct {
		desc   string
		word   uint32
		wantOp isa.Op
	}{
		{"SLLI", 0<<25 | 3<<20 | 1<<15 | 0x1<<12 | 2<<7 | 0x13, isa.OpSLLI},
		{"SRLI", 0<<25 | 3<<20 | 1<<15 | 0x5<<12 | 2<<7 | 0x13, isa.OpSRLI},
		{"SRAI", 0x20<<25 | 3<<20 | 1<<15 | 0x5<<12 | 2<<7 | 0x13, isa.OpSRAI},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			in, _, err := Decode(0, encode32(tc.word))
			if err != nil {
				t.Fatal(err)
			}
			if in.Op != tc.wantOp {
				t.Errorf("Op = %v, want %v", in.Op, tc.wantOp)
			}
			if in.Imm != 3 {
				t.Errorf("shamt = %d, want 3", in.Imm)
			}
		})
	}
}

func TestDecodeSRLIWvsSRAIW(t *testing.T) {
	// OP-IMM-32 opcode 0x1b, funct3=5, shamt in rs2 field (5 bits).
	srliw := uint32(0)<<25 | 4<<20 | 1<<15 | 0x5<<12 | 2<<7 | 0x1b
	in, _, err := Decode(0, encode32(srliw))
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != isa.OpSRLIW {
		t.Errorf("Op = %v, want SRLIW", in.Op)
	}

	sraiw := uint32(0x20)<<25 | 4<<20 | 1<<15 | 0x5<<12 | 2<<7 | 0x1b
	in2, _, err := Decode(0, encode32(sraiw))
	if err != nil {
		t.Fatal(err)
	}
	if in2.Op != isa.OpSRAIW {
		t.Errorf("Op = %v, want SRAIW", in2.Op)
	}
}

func TestDecodeSystemECALL(t *testing.T) {
	in, _, err := Decode(0, encode32(0x00000073))
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != isa.OpECALL {
		t.Errorf("Op = %v, want ECALL", in.Op)
	}
}

func TestDecodeSystemMRET(t *testing.T) {
	word := uint32(0x302)<<20 | 0x73
	in, _, err := Decode(0, encode32(word))
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != isa.OpMRET {
		t.Errorf("Op = %v, want MRET", in.Op)
	}
}

func TestDecodeSystemCSRRW(t *testing.T) {
	// csrrw x1, mtval(0x343), x2
	word := uint32(0x343)<<20 | 2<<15 | 0x1<<12 | 1<<7 | 0x73
	in, _, err := Decode(0, encode32(word))
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != isa.OpCSRRW || in.Imm != 0x343 || in.RS1 != 2 || in.RD != 1 {
		t.Errorf("decoded %+v, want csrrw x1, 0x343, x2", in)
	}
}

func TestDecodeIllegalUnrecognizedWord(t *testing.T) {
	in, _, err := Decode(0, encode32(0xffffffff))
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != isa.OpIllegalInstruction {
		t.Errorf("Op = %v, want illegal", in.Op)
	}
}

func TestDecodeCompressedSize(t *testing.T) {
	// c.addi x1, 1 : funct3=000, bit12=0, rd/rs1=1, imm=1, op=01
	word := uint16(1)<<7 | 1<<2 | 0x1
	b := []byte{byte(word), byte(word >> 8)}
	in, size, err := Decode(0, b)
	if err != nil {
		t.Fatal(err)
	}
	if size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
	if in.Op != isa.OpADDI || in.RD != 1 || in.RS1 != 1 {
		t.Errorf("decoded %+v, want addi x1,x1,1", in)
	}
	if in.Size != 2 {
		t.Errorf("in.Size = %d, want 2", in.Size)
	}
}
