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

// Package impose computes page orders for page rearrangement tools.
//
// Page orders are slices of 1-based page numbers.  The value 0 stands for a
// blank page.
package impose

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Blank marks a blank page in a page order.
const Blank = 0

// Booklet returns the page order for printing a document with the given
// number of pages as booklets.  Each signature consists of signature pages
// (four per sheet of paper, folded once); if signature is 0, all pages form
// a single signature.  The output is padded with blank pages to a multiple
// of the signature size.
//
// The resulting pages are meant to be printed two per side (for example with
// 2-up imposition) and double-sided.
func Booklet(pages, signature int) ([]int, error) {
	if pages < 0 {
		return nil, fmt.Errorf("invalid page count %d", pages)
	}
	if signature < 0 || signature%4 != 0 {
		return nil, fmt.Errorf("signature size %d is not a multiple of 4", signature)
	}

	var total int
	if signature == 0 {
		total = (pages + 3) &^ 3
		signature = total
	} else {
		total = pages + (signature-pages%signature)%signature
	}

	res := make([]int, total)
	for i := range total {
		inSig := i % signature
		p := i - inSig
		switch i % 4 {
		case 0, 3:
			p += signature - 1 - inSig/2
		case 1, 2:
			p += inSig / 2
		}
		if p < pages {
			res[i] = p + 1
		} else {
			res[i] = Blank
		}
	}
	return res, nil
}

// ParseRanges parses a page selection like "1-3,_1,5-" for a document with
// the given number of pages.
//
// Each comma-separated item is either a single page or a range "a-b".  A
// page number prefixed with "_" counts from the end, so that "_1" is the
// last page.  A missing range start means the first page, a missing range
// end means the last page.  Ranges with a > b are traversed backwards.
// A lone "_" inserts a blank page.  The empty string selects all pages.
func ParseRanges(spec string, pages int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return All(pages), nil
	}

	var res []int
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "_" {
			res = append(res, Blank)
			continue
		}

		from, to, isRange := strings.Cut(item, "-")
		a, err := parsePage(from, 1, pages)
		if err != nil {
			return nil, err
		}
		if !isRange {
			if from == "" {
				return nil, fmt.Errorf("empty page range")
			}
			res = append(res, a)
			continue
		}
		b, err := parsePage(to, pages, pages)
		if err != nil {
			return nil, err
		}
		if a <= b {
			for p := a; p <= b; p++ {
				res = append(res, p)
			}
		} else {
			for p := a; p >= b; p-- {
				res = append(res, p)
			}
		}
	}
	return res, nil
}

func parsePage(s string, def, pages int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	fromEnd := strings.HasPrefix(s, "_")
	n, err := strconv.Atoi(strings.TrimPrefix(s, "_"))
	if err != nil {
		return 0, fmt.Errorf("invalid page number %q", s)
	}
	if fromEnd {
		n = pages + 1 - n
	}
	if n < 1 || n > pages {
		return 0, fmt.Errorf("page %s out of range 1-%d", s, pages)
	}
	return n, nil
}

// All returns the page order 1, ..., pages.
func All(pages int) []int {
	res := make([]int, pages)
	for i := range res {
		res[i] = i + 1
	}
	return res
}

// FilterParity keeps the odd and/or even pages from order.  Blank pages are
// always kept.  If both odd and even are false, order is returned
// unchanged.
func FilterParity(order []int, odd, even bool) []int {
	if odd == even {
		return order
	}
	var res []int
	for _, p := range order {
		if p == Blank || (p%2 == 1) == odd {
			res = append(res, p)
		}
	}
	return res
}

// Reverse returns the pages of order in reverse sequence.
func Reverse(order []int) []int {
	res := slices.Clone(order)
	slices.Reverse(res)
	return res
}

// PadTo appends blank pages until the length of order is a multiple of n.
func PadTo(order []int, n int) []int {
	if n <= 1 {
		return order
	}
	for len(order)%n != 0 {
		order = append(order, Blank)
	}
	return order
}
