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
	"strings"
)

// ProcSetName is the name of the procset which psutils tools insert into
// the prolog of their output.
const ProcSetName = "PStoPS"

// Scan reads a DSC document from the beginning and locates its sections.
//
// Only lines starting with "%%" are examined.  Data enclosed in
// %%BeginBinary/%%EndBinary or %%BeginData/%%EndData is skipped using the
// byte or line count given in the comment, and comments inside embedded
// documents or files are not taken to describe the enclosing document.
//
// If the document is structurally incomplete, a usable Index is returned
// together with an error wrapping [ErrNoPages] and/or [ErrNoEndProlog].
// The caller can decide whether to continue in this case.  A missing
// "%%Trailer" comment is not an error; the trailer is then empty and
// located at the end of the file.
func Scan(r io.ReadSeeker) (*Index, error) {
	_, err := r.Seek(0, io.SeekStart)
	if err != nil {
		return nil, err
	}

	sc := &scanner{
		lines: newLineReader(r),
		idx: &Index{
			HeaderEnd:     -1,
			PrologEnd:     -1,
			SetupStart:    -1,
			SetupEnd:      -1,
			TrailerStart:  -1,
			DeclaredPages: -1,
			ProcSetStart:  -1,
			ProcSetEnd:    -1,
		},
		inHeader: true,
	}
	err = sc.run()
	if err != nil {
		return nil, err
	}
	return sc.idx, sc.finish()
}

type scanner struct {
	lines *lineReader
	idx   *Index

	inHeader   bool
	inTrailer  bool
	pagesAtEnd bool
	nesting    int
	lineNo     int
}

func (sc *scanner) run() error {
	for {
		line, start, err := sc.lines.readLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		sc.lineNo++
		end := sc.lines.offs

		if sc.inHeader {
			if sc.lineNo == 1 && bytes.HasPrefix(line, []byte("%!")) {
				continue
			}
			if !bytes.HasPrefix(line, []byte("%%")) {
				sc.endHeader(start)
				continue
			}
		}

		key, value, ok := ParseComment(line)
		if !ok {
			continue
		}

		if sc.inHeader {
			switch {
			case key == "+":
				continue
			case key == "EndComments":
				sc.endHeader(end)
				continue
			case key == "Pages":
				sc.declarePages(value)
				continue
			case key == "Page" || key == "Trailer" ||
				strings.HasPrefix(key, "Begin") || strings.HasPrefix(key, "End"):
				sc.endHeader(start)
			default:
				continue
			}
		}

		// Binary data is skipped at every nesting level.
		switch key {
		case "BeginBinary":
			if n, ok := firstInt(value); ok {
				err = sc.lines.skipBytes(n)
			}
		case "BeginData":
			if n, ok := firstInt(value); ok {
				if isLines(strings.Fields(value)) {
					err = sc.skipLines(n)
				} else {
					err = sc.lines.skipBytes(n)
				}
			}
		case "BeginDocument", "BeginFile":
			sc.nesting++
		case "EndDocument", "EndFile":
			if sc.nesting > 0 {
				sc.nesting--
			}
		}
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if sc.nesting > 0 {
			continue
		}

		sc.structural(key, value, start, end)
	}
}

func (sc *scanner) structural(key, value string, start, end int64) {
	idx := sc.idx
	hasPages := len(idx.Pages) > 0

	switch key {
	case "Page":
		if sc.inTrailer {
			return
		}
		sc.closePage(start)
		label, ordinal, _ := ParseLabel(value)
		idx.Pages = append(idx.Pages, Page{
			Offset:     start,
			Content:    end,
			SetupStart: -1,
			SetupEnd:   -1,
			End:        -1,
			Label:      label,
			Ordinal:    ordinal,
		})

	case "BeginPageSetup":
		if p := sc.currentPage(); p != nil && p.SetupStart < 0 {
			p.SetupStart = start
		}
	case "EndPageSetup":
		if p := sc.currentPage(); p != nil && p.SetupStart >= 0 && p.SetupEnd < 0 {
			p.SetupEnd = end
		}

	case "EndProlog":
		if !hasPages && idx.PrologEnd < 0 {
			idx.PrologEnd = start
		}
	case "BeginSetup":
		if !hasPages && idx.SetupStart < 0 {
			idx.SetupStart = start
		}
	case "EndSetup":
		if !hasPages && idx.SetupStart >= 0 && idx.SetupEnd < 0 {
			idx.SetupEnd = end
		}

	case "BeginProcSet":
		if !hasPages && idx.ProcSetStart < 0 && strings.HasPrefix(value, ProcSetName) {
			idx.ProcSetStart = start
		}
	case "EndProcSet":
		if idx.ProcSetStart >= 0 && idx.ProcSetEnd < 0 {
			idx.ProcSetEnd = end
		}

	case "Trailer":
		if idx.TrailerStart < 0 {
			sc.closePage(start)
			idx.TrailerStart = start
			sc.inTrailer = true
		}
	case "Pages":
		if sc.inTrailer && (sc.pagesAtEnd || idx.DeclaredPages < 0) {
			sc.declarePages(value)
		}
	}
}

func (sc *scanner) currentPage() *Page {
	if sc.inTrailer || len(sc.idx.Pages) == 0 {
		return nil
	}
	return &sc.idx.Pages[len(sc.idx.Pages)-1]
}

// closePage records the end of the current page, if any.
func (sc *scanner) closePage(end int64) {
	p := sc.currentPage()
	if p != nil && p.End < 0 {
		p.End = end
	}
}

func (sc *scanner) endHeader(pos int64) {
	sc.idx.HeaderEnd = pos
	sc.inHeader = false
}

func (sc *scanner) declarePages(value string) {
	if strings.HasPrefix(value, "(atend)") {
		sc.pagesAtEnd = true
		return
	}
	if n, ok := firstInt(value); ok {
		sc.idx.DeclaredPages = int(n)
	}
}

func (sc *scanner) skipLines(n int64) error {
	for range n {
		_, _, err := sc.lines.readLine()
		if err != nil {
			return err
		}
	}
	return nil
}

// finish fills in defaults for missing sections and checks the result.
func (sc *scanner) finish() error {
	idx := sc.idx
	idx.Size = sc.lines.offs

	if idx.TrailerStart < 0 {
		idx.TrailerStart = idx.Size
	}
	sc.closePage(idx.TrailerStart)
	if idx.HeaderEnd < 0 {
		idx.HeaderEnd = min(idx.TrailerStart, idx.FirstPage())
	}

	for i := range idx.Pages {
		p := &idx.Pages[i]
		if p.SetupStart < 0 || p.SetupEnd < 0 {
			p.SetupStart = p.Content
			p.SetupEnd = p.Content
		}
	}

	var problems []error
	first := idx.FirstPage()
	if idx.SetupStart >= 0 && idx.SetupEnd < 0 {
		idx.SetupEnd = first
	}
	if idx.PrologEnd < 0 {
		problems = append(problems, ErrNoEndProlog)
		idx.PrologEnd = first
		if idx.SetupStart >= 0 {
			idx.PrologEnd = idx.SetupStart
		}
	}
	if idx.SetupStart < 0 {
		idx.SetupStart = idx.PrologEnd
		idx.SetupEnd = idx.PrologEnd
	} else if idx.SetupStart < idx.PrologEnd {
		idx.PrologEnd = idx.SetupStart
	}
	if idx.PrologEnd < idx.HeaderEnd {
		idx.PrologEnd = idx.HeaderEnd
	}

	if idx.ProcSetStart >= 0 &&
		(idx.ProcSetEnd < 0 || idx.ProcSetStart < idx.HeaderEnd || idx.ProcSetEnd > idx.PrologEnd) {
		idx.ProcSetStart = -1
		idx.ProcSetEnd = -1
	}

	if len(idx.Pages) == 0 {
		problems = append(problems, ErrNoPages)
	}
	return joinProblems(problems)
}
