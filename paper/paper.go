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

// Package paper provides the sizes of commonly used paper formats.
//
// All dimensions are given in PostScript points (1/72 inch).  Values are
// rounded to whole points, in the way psutils has always done.
package paper

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
	"seehuhn.de/go/geom/rect"
)

// Size describes a paper format.
type Size struct {
	Name   string
	Width  float64
	Height float64
}

// BBox returns the rectangle covered by a sheet of this paper.
func (s *Size) BBox() rect.Rect {
	return rect.Rect{URx: s.Width, URy: s.Height}
}

func (s *Size) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%sx%s", formatPt(s.Width), formatPt(s.Height))
}

// ErrNotFound is returned (possibly wrapped) when a paper name is not known.
var ErrNotFound = errors.New("unknown paper size")

// Get looks up a paper size by name.  The lookup ignores case.
// The returned value is a copy and can be modified by the caller.
func Get(name string) (*Size, error) {
	// A Caser keeps state, so each lookup uses its own.
	entry, ok := table[cases.Fold().String(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("paper %q: %w", name, ErrNotFound)
	}
	res := entry
	return &res, nil
}

// Names returns the names of all known paper sizes, in alphabetical order.
func Names() []string {
	res := make([]string, 0, len(table))
	for name := range table {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}

// FromEnv returns the paper size named by the PAPERSIZE environment
// variable.  If the variable is unset or empty, nil is returned.
func FromEnv() (*Size, error) {
	name := strings.TrimSpace(os.Getenv("PAPERSIZE"))
	if name == "" {
		return nil, nil
	}
	return Parse(name)
}

// Parse interprets s either as a paper name or as explicit dimensions of
// the form "WIDTHxHEIGHT", where both dimensions may carry a unit,
// for example "210mmx297mm" or "8.5inx11in".
func Parse(s string) (*Size, error) {
	res, err := Get(s)
	if err == nil {
		return res, nil
	}

	ws, hs, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		return nil, err
	}
	w, err := ParseDimension(ws)
	if err != nil {
		return nil, err
	}
	h, err := ParseDimension(hs)
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("paper %q: dimensions must be positive", s)
	}
	return &Size{Width: w, Height: h}, nil
}

// ParseDimension converts a length like "21cm", "8.5in", "10mm" or "595pt"
// into PostScript points.  A number without a unit is taken to be in points.
func ParseDimension(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	scale := 1.0
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			scale = u.scale
			break
		}
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dimension %q", s)
	}
	return x * scale, nil
}

var units = []struct {
	suffix string
	scale  float64
}{
	{"pt", 1},
	{"in", 72},
	{"cm", 72 / 2.54},
	{"mm", 72 / 25.4},
}

func formatPt(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
