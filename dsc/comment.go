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
	"errors"
	"strconv"
	"strings"
)

// ParseComment splits a structured comment line like "%%Pages: 3" into
// key and value.  The key does not include the trailing colon, and
// leading and trailing white space is removed from the value.
// If the line is not a structured comment, ok is false.
func ParseComment(line []byte) (key, value string, ok bool) {
	if !bytes.HasPrefix(line, []byte("%%")) {
		return "", "", false
	}
	rest := line[2:]

	i := 0
	for i < len(rest) && rest[i] > 32 && rest[i] != ':' {
		i++
	}
	if i == 0 {
		return "", "", false
	}
	key = string(rest[:i])
	if i < len(rest) && rest[i] == ':' {
		i++
	}
	value = string(bytes.TrimSpace(rest[i:]))
	return key, value, true
}

// ParseLabel splits the value of a "%%Page:" comment into the page label
// and the ordinal.  Labels may be PostScript strings in parentheses, in
// which case the parentheses are kept as part of the label.
func ParseLabel(value string) (label string, ordinal int, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", 0, errMissingLabel
	}

	end := 0
	if value[0] == '(' {
		level := 0
	parenLoop:
		for end < len(value) {
			switch value[end] {
			case '\\':
				end++
			case '(':
				level++
			case ')':
				level--
				if level == 0 {
					end++
					break parenLoop
				}
			}
			end++
		}
		if level != 0 {
			return value, 0, errBadLabel
		}
	} else {
		for end < len(value) && value[end] > 32 {
			end++
		}
	}
	if end > len(value) {
		end = len(value)
	}
	label = value[:end]

	ordinal, err = strconv.Atoi(strings.TrimSpace(value[end:]))
	if err != nil {
		return label, 0, errBadOrdinal
	}
	return label, ordinal, nil
}

var (
	errMissingLabel = errors.New("dsc: missing page label")
	errBadLabel     = errors.New("dsc: unterminated page label")
	errBadOrdinal   = errors.New("dsc: invalid page ordinal")
)

// isLines reports whether the "Lines"/"Bytes" argument of a %%BeginData
// comment asks for lines.
func isLines(args []string) bool {
	return len(args) >= 3 && args[2] == "Lines"
}

// firstInt parses the first white space separated field of s as an integer.
func firstInt(s string) (int64, bool) {
	ff := strings.Fields(s)
	if len(ff) == 0 {
		return 0, false
	}
	x, err := strconv.ParseInt(ff[0], 10, 64)
	if err != nil || x < 0 {
		return 0, false
	}
	return x, true
}
