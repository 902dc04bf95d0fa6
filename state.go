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

package psutils

// state tracks the progress through the sections of the output document.
type state int

const (
	stateIdle state = iota
	stateHeader
	stateProlog
	stateSetup
	statePages
	stateTrailer
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "start"
	case stateHeader:
		return "header"
	case stateProlog:
		return "prolog"
	case stateSetup:
		return "setup"
	case statePages:
		return "pages"
	case stateTrailer:
		return "trailer"
	default:
		return "unknown state"
	}
}

// enter moves to state next.  In strict mode, the current state must be
// between lo and hi (inclusive).
func (d *Document) enter(call string, lo, hi, next state) error {
	if d.Strict && (d.state < lo || d.state > hi) {
		return &StateError{Call: call, State: d.state.String()}
	}
	if next > d.state {
		d.state = next
	}
	return nil
}
