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

package csr

import "testing"

func TestReadWriteRoundTrip(t *testing.T) {
	f := NewFile()
	f.Write(Mepc, 0x8000)
	if got := f.Read(Mepc); got != 0x8000 {
		t.Errorf("Read(Mepc) = %#x, want 0x8000", got)
	}
}

func TestPermission(t *testing.T) {
	tests := []struct {
		desc string
		priv uint8
		addr uint64
		want Access
	}{
		{"M can read/write mstatus", 3, Mstatus, RW},
		{"U cannot touch mstatus", 0, Mstatus, None},
		{"S can read/write sepc", 1, Sepc, RW},
		{"U cannot touch sepc", 0, Sepc, None},
		{"U can read cycle shadow (RO)", 0, Cycle, RO},
		{"M can read cycle shadow but only RO", 3, Cycle, RO},
		{"U can read/write ustatus", 0, Ustatus, RW},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			if got := Permission(tc.priv, tc.addr); got != tc.want {
				t.Errorf("Permission(%d, %#x) = %v, want %v", tc.priv, tc.addr, got, tc.want)
			}
		})
	}
}

func TestFileAddressSpaceIsFull12Bits(t *testing.T) {
	f := NewFile()
	const maxAddr = 0xfff
	f.Write(maxAddr, 0x42)
	if got := f.Read(maxAddr); got != 0x42 {
		t.Errorf("Read(%#x) = %#x, want 0x42: the CSR file must address the full 12-bit space", maxAddr, got)
	}
}
