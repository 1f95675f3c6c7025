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

type clause func(s *state.ArchState, in *Instruction) error

var clauses = map[Op]clause{
	OpLUI: lui, OpAUIPC: auipc, OpJAL: jal, OpJALR: jalr,
	OpBEQ: beq, OpBNE: bne, OpBLT: blt, OpBGE: bge, OpBLTU: bltu, OpBGEU: bgeu,
	OpLB: lb, OpLH: lh, OpLW: lw, OpLBU: lbu, OpLHU: lhu,
	OpSB: sb, OpSH: sh, OpSW: sw,
	OpADDI: addi, OpSLTI: slti, OpSLTIU: sltiu, OpXORI: xori, OpORI: ori, OpANDI: andi,
	OpSLLI: slli, OpSRLI: srli, OpSRAI: srai,
	OpADD: add, OpSUB: sub, OpSLL: sll, OpSLT: slt, OpSLTU: sltu,
	OpXOR: xor, OpSRL: srl, OpSRA: sra, OpOR: or, OpAND: and,
	OpFENCE: fence, OpFENCEI: fenceI,

	OpLWU: lwu, OpLD: ld, OpSD: sd,
	OpSLLIW: slliw, OpSRLIW: srliw, OpSRAIW: sraiw,
	OpADDIW: addiw, OpADDW: addw, OpSUBW: subw,
	OpSLLW: sllw, OpSRLW: srlw, OpSRAW: sraw,

	OpMUL: mul, OpMULH: mulh, OpMULHSU: mulhsu, OpMULHU: mulhu,
	OpDIV: div, OpDIVU: divu, OpREM: rem, OpREMU: remu,
	OpMULW: mulw, OpDIVW: divw, OpDIVUW: divuw, OpREMW: remw, OpREMUW: remuw,

	OpCSRRW: csrrw, OpCSRRS: csrrs, OpCSRRC: csrrc,
	OpCSRRWI: csrrwi, OpCSRRSI: csrrsi, OpCSRRCI: csrrci,

	OpECALL: ecall, OpEBREAK: ebreak, OpMRET: mret, OpSRET: sret, OpURET: uret,
	OpSFENCEVM: sfenceVM,

	OpIllegalInstruction: illegalInstruction,
}

// rv64Only lists operations that are illegal once decoded into an RV32I
// context: the W-suffix family and the 64-bit-wide loads/stores do not
// exist when XLEN is 32.
var rv64Only = map[Op]bool{
	OpLWU: true, OpLD: true, OpSD: true,
	OpSLLIW: true, OpSRLIW: true, OpSRAIW: true, OpADDIW: true,
	OpADDW: true, OpSUBW: true, OpSLLW: true, OpSRLW: true, OpSRAW: true,
	OpMULW: true, OpDIVW: true, OpDIVUW: true, OpREMW: true, OpREMUW: true,
}

// Execute transforms s according to the single decoded instruction in,
// always finishing through exactly one of the five epilogue transitions.
// It is the package's only exported entry point.
func Execute(s *state.ArchState, in *Instruction) error {
	if s.XLen == state.XLen32 && rv64Only[in.Op] {
		return illegalInstruction(s, in)
	}
	fn, ok := clauses[in.Op]
	if !ok {
		return illegalInstruction(s, in)
	}
	return fn(s, in)
}
