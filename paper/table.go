// seehuhn.de/go/psutils - rearrange pages of DSC-conforming PostScript files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package paper

var table = map[string]Size{}

func init() {
	for _, s := range sizes {
		table[s.Name] = s
	}
}

var sizes = []Size{
	{"a0", 2384, 3370},
	{"a1", 1684, 2384},
	{"a2", 1191, 1684},
	{"a3", 842, 1191},
	{"a4", 595, 842},
	{"a5", 420, 595},
	{"a6", 297, 420},
	{"a7", 210, 297},
	{"a8", 148, 210},
	{"a9", 105, 148},
	{"a10", 74, 105},
	{"b0", 2835, 4008},
	{"b1", 2004, 2835},
	{"b2", 1417, 2004},
	{"b3", 1001, 1417},
	{"b4", 709, 1001},
	{"b5", 499, 709},
	{"b6", 354, 499},
	{"b7", 249, 354},
	{"b8", 176, 249},
	{"b9", 125, 176},
	{"b10", 88, 125},
	{"c5", 459, 649},
	{"dl", 312, 624},
	{"letter", 612, 792},
	{"legal", 612, 1008},
	{"tabloid", 792, 1224},
	{"ledger", 1224, 792},
	{"statement", 396, 612},
	{"halfletter", 396, 612},
	{"executive", 540, 720},
	{"folio", 612, 936},
	{"quarto", 610, 780},
	{"10x14", 720, 1008},
}
