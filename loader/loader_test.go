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

package loader

import (
	"strings"
	"testing"

	"riscvcore/state"
)

func TestLoadHexBasic(t *testing.T) {
	mem := state.NewFlatMemory(4096)
	in := strings.NewReader(`
# a comment, then a blank line above

0x100: 0xdeadbeef
0x104:0x00000013
`)
	if err := LoadHex(in, mem); err != nil {
		t.Fatal(err)
	}
	v, err := mem.Read32(0x100)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xdeadbeef {
		t.Errorf("mem[0x100] = %#x, want 0xdeadbeef", v)
	}
	v2, err := mem.Read32(0x104)
	if err != nil {
		t.Fatal(err)
	}
	if v2 != 0x13 {
		t.Errorf("mem[0x104] = %#x, want 0x13", v2)
	}
}

func TestLoadHexBadLine(t *testing.T) {
	mem := state.NewFlatMemory(4096)
	in := strings.NewReader("not a valid line\n")
	if err := LoadHex(in, mem); err == nil {
		t.Fatal("expected an error for a malformed hex image line")
	}
}

func TestLoadHexOutOfBounds(t *testing.T) {
	mem := state.NewFlatMemory(8)
	in := strings.NewReader("0x1000: 0x1\n")
	if err := LoadHex(in, mem); err == nil {
		t.Fatal("expected an error for an address outside the backing store")
	}
}
