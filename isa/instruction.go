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

// Package isa implements the RV32I/RV64I base integer instruction
// semantics plus the M extension and a subset of privileged-mode
// instructions. Execute is the package's single entry point: it consumes
// an ArchState and a decoded Instruction and transforms the state in
// place, always finishing through one of the five epilogue transitions
// (common, jump, branch, trap, ret).
package isa

import "fmt"

// Op tags which instruction clause a decoded Instruction invokes. This is
// the "one constructor per opcode" tagged variant the core requires from
// its decoder.
type Op int

const (
	OpIllegalInstruction Op = iota

	// RV32I
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpFENCE
	OpFENCEI

	// RV64I (in addition to RV32I)
	OpLWU
	OpLD
	OpSD
	OpSLLIW
	OpSRLIW
	OpSRAIW
	OpADDIW
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW

	// M extension
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU
	OpMULW
	OpDIVW
	OpDIVUW
	OpREMW
	OpREMUW

	// CSR
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI

	// System
	OpECALL
	OpEBREAK
	OpMRET
	OpSRET
	OpURET
	OpSFENCEVM
)

var opNames = map[Op]string{
	OpIllegalInstruction: "illegal",
	OpLUI:                "lui", OpAUIPC: "auipc", OpJAL: "jal", OpJALR: "jalr",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge", OpBLTU: "bltu", OpBGEU: "bgeu",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu",
	OpSB: "sb", OpSH: "sh", OpSW: "sw",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu", OpXORI: "xori", OpORI: "ori", OpANDI: "andi",
	OpSLLI: "slli", OpSRLI: "srli", OpSRAI: "srai",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpFENCE: "fence", OpFENCEI: "fence.i",
	OpLWU: "lwu", OpLD: "ld", OpSD: "sd",
	OpSLLIW: "slliw", OpSRLIW: "srliw", OpSRAIW: "sraiw",
	OpADDIW: "addiw", OpADDW: "addw", OpSUBW: "subw",
	OpSLLW: "sllw", OpSRLW: "srlw", OpSRAW: "sraw",
	OpMUL: "mul", OpMULH: "mulh", OpMULHSU: "mulhsu", OpMULHU: "mulhu",
	OpDIV: "div", OpDIVU: "divu", OpREM: "rem", OpREMU: "remu",
	OpMULW: "mulw", OpDIVW: "divw", OpDIVUW: "divuw", OpREMW: "remw", OpREMUW: "remuw",
	OpCSRRW: "csrrw", OpCSRRS: "csrrs", OpCSRRC: "csrrc",
	OpCSRRWI: "csrrwi", OpCSRRSI: "csrrsi", OpCSRRCI: "csrrci",
	OpECALL: "ecall", OpEBREAK: "ebreak", OpMRET: "mret", OpSRET: "sret", OpURET: "uret",
	OpSFENCEVM: "sfence.vm",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Instruction is a decoded instruction: one Op tag plus the register
// indices, immediate, and raw encoding a clause needs. The 32-bit decoder
// carries immediates pre-sign-extension, using the smallest width
// necessary; each clause sign-extends (or not) per its own §4 contract.
// The compressed decoder hands over immediates already sign-extended,
// which that clause-side sign extension leaves unchanged.
type Instruction struct {
	Op       Op
	RS1, RS2 uint64 // register indices (0..31), or zimm source for *I CSR forms (RS1)
	RD       uint64 // register index (0..31)
	Imm      uint64 // immediate (see above), or CSR address for CSR ops
	Raw      uint32 // the encoded instruction bits, for diagnostics; illegal-instruction traps set tval to 0, not to these bits
	Size     uint64 // encoded length in bytes, 2 for compressed or 4 otherwise; the epilogues' only source of truth for PC advance
}

func (in *Instruction) String() string {
	return fmt.Sprintf("[ %s rd=%#x rs1=%#x rs2=%#x imm=%#x raw=%#08x ]",
		in.Op, in.RD, in.RS1, in.RS2, in.Imm, in.Raw)
}
