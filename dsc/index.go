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

// Package dsc locates the structure of PostScript files which follow the
// Document Structuring Conventions (DSC).
//
// Only structured comments are examined; the PostScript code itself is
// never interpreted.  Scanning a file produces an [Index], which records the
// byte offsets of the header, prolog, setup, pages and trailer.
package dsc

// Index records where the sections of a DSC document are located.
// All offsets are byte offsets from the start of the file.
//
// The sections partition the file:
//
//	header   [0, HeaderEnd)
//	prolog   [HeaderEnd, PrologEnd)
//	setup    [SetupStart, SetupEnd), inside [PrologEnd, first page)
//	page i   [Pages[i].Offset, Pages[i].End)
//	trailer  [TrailerStart, Size)
//
// PrologEnd is the start of the "%%EndProlog" line, so that additional
// definitions can be inserted at the end of the prolog.  The marker line
// itself is part of the range between prolog and first page.
//
// An Index only describes where things are; the order in which pages are
// written is up to the caller.
type Index struct {
	HeaderEnd  int64
	PrologEnd  int64
	SetupStart int64
	SetupEnd   int64

	// Pages lists the pages in the order in which they occur in the file.
	Pages []Page

	TrailerStart int64
	Size         int64

	// DeclaredPages is the page count given by the "%%Pages:" comment, or -1
	// if there is none.  This is only a hint, len(Pages) is authoritative.
	DeclaredPages int

	// ProcSetStart and ProcSetEnd give the location of a PStoPS procset
	// inserted into the prolog by an earlier run.  Both are -1 if there is
	// no such procset.
	ProcSetStart int64
	ProcSetEnd   int64
}

// Page describes the location of a single page.
type Page struct {
	// Offset is the start of the "%%Page:" line.
	Offset int64

	// Content is the offset just after the "%%Page:" line.
	Content int64

	// SetupStart and SetupEnd enclose the page setup section, from
	// "%%BeginPageSetup" to the end of the "%%EndPageSetup" line.
	// If there is no page setup, both are equal to Content.
	SetupStart int64
	SetupEnd   int64

	// End is the start of the next page, or the start of the trailer.
	End int64

	// Label and Ordinal are the two arguments of the "%%Page:" comment.
	Label   string
	Ordinal int
}

// NumPages returns the number of pages found in the file.
func (idx *Index) NumPages() int {
	return len(idx.Pages)
}

// FirstPage returns the offset of the first page, or the start of the
// trailer if the document has no pages.
func (idx *Index) FirstPage() int64 {
	if len(idx.Pages) == 0 {
		return idx.TrailerStart
	}
	return idx.Pages[0].Offset
}

// HasPageSetup reports whether the page has a page setup section.
func (p *Page) HasPageSetup() bool {
	return p.SetupEnd > p.SetupStart
}
