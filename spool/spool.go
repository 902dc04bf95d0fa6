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

// Package spool makes arbitrary input streams seekable.
//
// Streams which already support random access are used unchanged.  Other
// streams, for example pipes, are copied into a temporary file once.
package spool

import (
	"errors"
	"io"
	"os"
)

// File is a seekable view of an input stream.
type File struct {
	io.ReadSeeker

	// Size is the number of bytes copied into the spool file.
	// This is zero if no copy was required.
	Size int64

	tmp *os.File
}

// Error reports a failure to create or fill the spool file.
type Error struct {
	Op  string
	Err error
}

func (err *Error) Error() string {
	return "spool: " + err.Op + ": " + err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Seekable returns a seekable version of r.  Temporary files are created in
// the default directory for temporary files.
func Seekable(r io.Reader) (*File, error) {
	return SeekableIn(r, "")
}

// SeekableIn is like Seekable, but places the spool file in dir.
// If dir is empty, os.TempDir() is used.
//
// If r already implements io.Seeker and seeking works, r is returned
// unchanged.  Otherwise r is read until EOF and the data is copied into a
// temporary file, which is removed again by Close.
func SeekableIn(r io.Reader, dir string) (*File, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		// Seeking in a pipe or terminal fails, even for *os.File.
		if _, err := rs.Seek(0, io.SeekCurrent); err == nil {
			return &File{ReadSeeker: rs}, nil
		}
	}

	tmp, err := os.CreateTemp(dir, "psutils-*.ps")
	if err != nil {
		return nil, &Error{Op: "create", Err: err}
	}
	fail := func(op string, err error) (*File, error) {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, &Error{Op: op, Err: err}
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		return fail("copy", err)
	}
	_, err = tmp.Seek(0, io.SeekStart)
	if err != nil {
		return fail("rewind", err)
	}

	return &File{
		ReadSeeker: tmp,
		Size:       n,
		tmp:        tmp,
	}, nil
}

// Spooled reports whether the input had to be copied into a temporary file.
func (f *File) Spooled() bool {
	return f.tmp != nil
}

// Close removes the spool file, if any.  The original stream is not closed.
func (f *File) Close() error {
	if f.tmp == nil {
		return nil
	}
	name := f.tmp.Name()
	err := f.tmp.Close()
	f.tmp = nil
	return errors.Join(err, os.Remove(name))
}
