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

import (
	"fmt"
)

// ConfigurationError is returned by [Document.SetPaperSize] for unknown
// paper names.
type ConfigurationError struct {
	Paper string
	Err   error
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("paper size %q not recognised", err.Paper)
}

func (err *ConfigurationError) Unwrap() error {
	return err.Err
}

// IOError indicates that reading, seeking or writing failed.
type IOError struct {
	Op  string
	Err error
}

func (err *IOError) Error() string {
	return "I/O error " + err.Op + ": " + err.Err.Error()
}

func (err *IOError) Unwrap() error {
	return err.Err
}

func ioError(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: fmt.Sprintf(format, a...), Err: err}
}

// RangeError is returned when a page number outside 1, ..., Pages is used.
type RangeError struct {
	Page  int
	Pages int
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("page %d out of range 1-%d", err.Page, err.Pages)
}

// StateError is returned in strict mode, if a write operation is called
// out of order.
type StateError struct {
	Call  string
	State string
}

func (err *StateError) Error() string {
	return fmt.Sprintf("%s called out of order (state: %s)", err.Call, err.State)
}
