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

// Package trace holds the core's two diagnostic surfaces: a bitflag-gated
// per-step state dumper, and a thin log/slog wrapper for structured
// run-level messages.
package trace

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"text/template"

	"riscvcore/csr"
	"riscvcore/isa"
	"riscvcore/state"
)

// Debug is a set of flags controlling what a Snapshot reports.
type Debug uint32

const (
	DebugInstr = Debug(1 << iota) // Include the last decoded instruction.
	DebugRegs                     // Include GPR state.
	DebugCSRs                     // Include the trap-relevant CSRs.
	DebugMem                      // Include non-zero memory regions.
)

var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Snapshot renders ArchState as a human-readable dump, gated by flags.
type Snapshot struct {
	Debug   Debug
	Steps   int
	LastPC  uint64
	LastIn  *isa.Instruction
	s       *state.ArchState
}

// NewSnapshot captures the fields of s that Debug flags may want to
// report. Call it once per step, after execution, with the pre-step PC.
func NewSnapshot(s *state.ArchState, debug Debug, steps int, lastPC uint64, lastIn *isa.Instruction) *Snapshot {
	return &Snapshot{Debug: debug, Steps: steps, LastPC: lastPC, LastIn: lastIn, s: s}
}

func (snap *Snapshot) String() string {
	data := map[string]interface{}{
		"Steps": snap.Steps,
		"PC":    snap.LastPC,
		"Priv":  snap.s.Priv,
	}
	if snap.Debug&DebugInstr != 0 && snap.LastIn != nil {
		data["Instr"] = snap.LastIn
	}
	if snap.Debug&DebugRegs != 0 {
		reg := &strings.Builder{}
		w := tabwriter.NewWriter(reg, 0, 0, 2, ' ', tabwriter.AlignRight)
		const cols = 4
		for i := 0; i < len(snap.s.GPRs); {
			for j := 0; i < len(snap.s.GPRs) && j < cols; i, j = i+1, j+1 {
				fmt.Fprintf(w, "%s(%d):\t%#x\t\t\t", regNames[i], i, snap.s.GPRs[i])
			}
			fmt.Fprintln(w, "")
		}
		w.Flush()
		data["Regs"] = reg
	}
	if snap.Debug&DebugCSRs != 0 {
		data["CSRs"] = map[string]interface{}{
			"mstatus":  snap.s.CSRs.Read(csr.Mstatus),
			"mepc":     snap.s.CSRs.Read(csr.Mepc),
			"mcause":   snap.s.CSRs.Read(csr.Mcause),
			"mtval":    snap.s.CSRs.Read(csr.Mtval),
			"minstret": snap.s.CSRs.Read(csr.Minstret),
		}
	}
	if snap.Debug&DebugMem != 0 {
		if fm, ok := snap.s.Mem.(*state.FlatMemory); ok {
			data["Mem"] = dumpMem(fm.Bytes)
		}
	}

	buf := new(strings.Builder)
	if err := dbgTmpl.Execute(buf, data); err != nil {
		panic(fmt.Sprintf("can't render snapshot: %v", err))
	}
	return buf.String()
}

func dumpMem(mem []byte) string {
	reverse := func(b []byte) []byte {
		out := make([]byte, len(b))
		for i, v := range b {
			out[len(b)-1-i] = v
		}
		return out
	}
	buf := &strings.Builder{}
	for i := 0; i < len(mem); i += 32 {
		e := i + 32
		if e > len(mem) {
			e = len(mem)
		}
		m := mem[i:e]
		var set bool
		for _, v := range m {
			if v != 0 {
				set = true
				break
			}
		}
		if !set {
			continue
		}
		fmt.Fprintf(buf, "%#x:", i)
		for j := 0; j < len(m); j += 8 {
			ee := j + 8
			if ee > len(m) {
				ee = len(m)
			}
			fmt.Fprintf(buf, "  %x", reverse(m[j:ee]))
		}
		fmt.Fprintln(buf, "")
	}
	return buf.String()
}

var dbgTmpl = template.Must(template.New("").Parse(`=========== riscvcore ============
Steps: {{.Steps}}
PC:    {{printf "%#x" .PC}} ({{.PC}})  Priv: {{.Priv}}
{{with .Instr}}INSTR: {{.}}
{{end}}{{with .Regs}}
[ REGISTERS ]
{{.}}
{{end}}{{with .CSRs}}[ CSRs ]
mstatus:  {{printf "%#x" .mstatus}}
mepc:     {{printf "%#x" .mepc}}
mcause:   {{printf "%#x" .mcause}}
mtval:    {{printf "%#x" .mtval}}
minstret: {{.minstret}}
{{end}}{{with .Mem}}
[ MEMORY ]
{{.}}{{end}}`))
