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

package dsc

import "errors"

// MalformedError indicates that a document lacks required structure.
type MalformedError struct {
	Reason string
}

func (err *MalformedError) Error() string {
	return "dsc: " + err.Reason
}

var (
	// ErrNoPages is returned by [Scan] if no "%%Page:" comments are found.
	ErrNoPages = &MalformedError{Reason: "no %%Page comments found"}

	// ErrNoEndProlog is returned by [Scan] if the "%%EndProlog" comment is
	// missing.
	ErrNoEndProlog = &MalformedError{Reason: "missing %%EndProlog comment"}
)

func joinProblems(problems []error) error {
	switch len(problems) {
	case 0:
		return nil
	case 1:
		return problems[0]
	default:
		return errors.Join(problems...)
	}
}
