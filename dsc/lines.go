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

import (
	"bytes"
	"io"
)

// MaxLineLength is the number of bytes of each line which are retained
// by the line reader.  The DSC specification limits lines to 255 characters;
// longer lines are consumed in full but truncated.
const MaxLineLength = 255

// lineReader splits its input into lines, keeping track of the byte offset
// of each line.  Lines can be terminated by LF, CR, or CR+LF.
type lineReader struct {
	r         io.Reader
	buf       []byte
	pos, used int

	// offs is the input offset of buf[pos].
	offs int64

	line []byte

	// err is the first error returned by r.Read().
	// Once an error has been returned, all subsequent calls to .refill() will
	// return err.
	err error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r:    r,
		buf:  make([]byte, 4096),
		line: make([]byte, 0, MaxLineLength),
	}
}

// readLine returns the next line, without the end-of-line marker, together
// with the offset of the first byte of the line.  The returned slice is
// only valid until the next call.  At the end of input, io.EOF is returned.
func (s *lineReader) readLine() ([]byte, int64, error) {
	start := s.offs
	s.line = s.line[:0]
	for {
		if s.pos >= s.used {
			err := s.refill()
			if err == io.EOF {
				if s.offs == start {
					return nil, start, io.EOF
				}
				return s.line, start, nil
			} else if err != nil {
				return nil, start, err
			}
		}

		chunk := s.buf[s.pos:s.used]
		i := bytes.IndexAny(chunk, "\r\n")
		if i < 0 {
			s.keep(chunk)
			s.skip(len(chunk))
			continue
		}

		s.keep(chunk[:i])
		eol := chunk[i]
		s.skip(i + 1)
		if eol == '\r' {
			s.skipOptionalByte('\n')
		}
		return s.line, start, nil
	}
}

// skipBytes discards the next n bytes of input.
func (s *lineReader) skipBytes(n int64) error {
	for n > 0 {
		if s.pos >= s.used {
			err := s.refill()
			if err != nil {
				return err
			}
		}
		k := int64(s.used - s.pos)
		if k > n {
			k = n
		}
		s.skip(int(k))
		n -= k
	}
	return nil
}

func (s *lineReader) skipOptionalByte(b byte) {
	for s.pos >= s.used {
		if s.refill() != nil {
			return
		}
	}
	if s.buf[s.pos] == b {
		s.skip(1)
	}
}

func (s *lineReader) keep(data []byte) {
	room := MaxLineLength - len(s.line)
	if room <= 0 {
		return
	}
	if len(data) > room {
		data = data[:room]
	}
	s.line = append(s.line, data...)
}

func (s *lineReader) skip(n int) {
	s.pos += n
	s.offs += int64(n)
}

func (s *lineReader) refill() error {
	if s.err != nil {
		return s.err
	}
	s.used = copy(s.buf, s.buf[s.pos:s.used])
	s.pos = 0

	n, err := s.r.Read(s.buf[s.used:])
	s.used += n
	if err != nil {
		s.err = err
	}
	if n > 0 {
		err = nil
	}
	return err
}
