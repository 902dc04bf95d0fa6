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
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/psutils/dsc"
	"seehuhn.de/go/psutils/paper"
)

// mediaKeys are the header comments which are replaced when media comments
// are generated.
var mediaKeys = []string{
	"BoundingBox",
	"HiResBoundingBox",
	"DocumentMedia",
	"DocumentPaperSizes",
}

// WriteHeader writes the header comments of the input, with the page count
// changed to pages.  If a default paper size is set, media and bounding box
// comments for this paper replace the original ones.  Comments with keys
// listed in ignore (for example "Orientation") are omitted.
func (d *Document) WriteHeader(pages int, ignore ...string) error {
	return d.writeHeader("WriteHeader", pages, ignore, d.Paper)
}

// WriteHeaderMedia is like WriteHeader, but declares media of the given
// width and height (in points) instead of the default paper size.
func (d *Document) WriteHeaderMedia(pages int, ignore []string, width, height float64) error {
	return d.writeHeader("WriteHeaderMedia", pages, ignore, &paper.Size{Width: width, Height: height})
}

func (d *Document) writeHeader(call string, pages int, ignore []string, media *paper.Size) error {
	if err := d.enter(call, stateIdle, stateIdle, stateHeader); err != nil {
		return err
	}

	header, err := d.readRange(0, d.Index.HeaderEnd)
	if err != nil {
		return err
	}

	var synth []string
	if media != nil {
		bbox := media.BBox()
		synth = append(synth,
			fmt.Sprintf("%%%%DocumentMedia: plain %s %s 0 () ()\n",
				formatNum(media.Width), formatNum(media.Height)),
			fmt.Sprintf("%%%%BoundingBox: %d %d %d %d\n",
				int(math.Floor(bbox.LLx)), int(math.Floor(bbox.LLy)),
				int(math.Ceil(bbox.URx)), int(math.Ceil(bbox.URy))))
	}
	synth = append(synth, fmt.Sprintf("%%%%Pages: %d 0\n", pages))

	placed := false
	place := func() error {
		if placed {
			return nil
		}
		placed = true
		for _, line := range synth {
			if err := d.writeString(line); err != nil {
				return err
			}
		}
		return nil
	}

	dropping := false
	for i, line := range splitLines(header) {
		key, _, ok := dsc.ParseComment(trimEOL(line))
		if i == 0 || !ok {
			dropping = false
		} else if key == "+" {
			if dropping {
				continue
			}
		} else {
			dropping = false
			switch {
			case key == "Pages":
				dropping = true
				if err := place(); err != nil {
					return err
				}
				continue
			case slices.Contains(ignore, key),
				media != nil && slices.Contains(mediaKeys, key):
				dropping = true
				continue
			case key == "EndComments":
				if err := place(); err != nil {
					return err
				}
			}
		}
		if err := d.write(line); err != nil {
			return err
		}
	}
	return place()
}

// WritePartProlog copies the prolog up to the point where a program can
// insert additional definitions.  This is the start of a procset left by an
// earlier psutils run, which is omitted from the output, or else the end of
// the prolog.  The remainder of the prolog is written by [Document.WriteProlog]
// or [Document.WriteSetup].
func (d *Document) WritePartProlog() error {
	if err := d.enter("WritePartProlog", stateHeader, stateProlog, stateProlog); err != nil {
		return err
	}

	idx := d.Index
	if idx.ProcSetStart >= 0 && d.prologPos <= idx.ProcSetStart {
		err := d.copyRange(d.prologPos, idx.ProcSetStart)
		if err != nil {
			return err
		}
		d.prologPos = idx.ProcSetEnd
		return nil
	}
	err := d.copyRange(d.prologPos, idx.PrologEnd)
	if err != nil {
		return err
	}
	d.prologPos = max(d.prologPos, idx.PrologEnd)
	return nil
}

// WriteProlog copies the (remaining) prolog of the input.
// The prolog is written only once; further calls have no effect.
func (d *Document) WriteProlog() error {
	if err := d.enter("WriteProlog", stateHeader, stateProlog, stateProlog); err != nil {
		return err
	}
	return d.finishProlog()
}

func (d *Document) finishProlog() error {
	end := d.Index.PrologEnd
	if d.prologPos >= end {
		return nil
	}
	err := d.copyRange(d.prologPos, end)
	if err != nil {
		return err
	}
	d.prologPos = end
	return nil
}

// WriteSetup copies everything from the end of the prolog to the first
// page.  This includes the "%%EndProlog" line and the document setup
// section.  Any part of the prolog not yet written is written first.
// The setup is written only once; further calls have no effect.
func (d *Document) WriteSetup() error {
	if err := d.enter("WriteSetup", stateProlog, stateProlog, stateSetup); err != nil {
		return err
	}
	if err := d.finishProlog(); err != nil {
		return err
	}
	if d.setupDone {
		return nil
	}
	d.setupDone = true
	return d.copyRange(d.Index.PrologEnd, d.Index.FirstPage())
}

// SeekPage makes page p (1-based) of the input the current page and sets
// PageLabel to its label.
func (d *Document) SeekPage(p int) error {
	pg, err := d.page(p)
	if err != nil {
		return err
	}
	_, err = d.in.Seek(pg.Content, io.SeekStart)
	if err != nil {
		return ioError(err, "seeking page %d", p)
	}
	d.current = p
	d.PageLabel = boundLabel(pg.Label)
	return nil
}

// WritePage copies page p of the input to the output.  The "%%Page:"
// comment keeps the original label, but the ordinal is replaced by the
// number of the page in the output.
func (d *Document) WritePage(p int) error {
	if err := d.enter("WritePage", stateSetup, statePages, statePages); err != nil {
		return err
	}
	err := d.SeekPage(p)
	if err != nil {
		return err
	}
	err = d.writePageHeader(d.PageLabel, p)
	if err != nil {
		return err
	}
	pg := &d.Index.Pages[p-1]
	return d.copyRange(pg.Content, pg.End)
}

// WritePageHeader writes a "%%Page:" comment for the next output page,
// using the given label.  The page number p is only used for progress
// messages.
func (d *Document) WritePageHeader(label string, p int) error {
	if err := d.enter("WritePageHeader", stateSetup, statePages, statePages); err != nil {
		return err
	}
	return d.writePageHeader(label, p)
}

func (d *Document) writePageHeader(label string, p int) error {
	d.logf("[%d]", p)
	d.OutputPage++
	d.PageLabel = boundLabel(label)
	return d.writeString(fmt.Sprintf("%%%%Page: %s %d\n", d.PageLabel, d.OutputPage))
}

// WritePageSetup copies the page setup section of the current page, if
// there is one.
func (d *Document) WritePageSetup() error {
	if err := d.enter("WritePageSetup", statePages, statePages, statePages); err != nil {
		return err
	}
	if d.current == 0 {
		return nil
	}
	pg := &d.Index.Pages[d.current-1]
	if !pg.HasPageSetup() {
		return nil
	}
	return d.copyRange(pg.SetupStart, pg.SetupEnd)
}

// WritePageBody copies the contents of page p, without the "%%Page:"
// comment and without the page setup section.  This is used to combine
// several input pages into one output page.
func (d *Document) WritePageBody(p int) error {
	if err := d.enter("WritePageBody", statePages, statePages, statePages); err != nil {
		return err
	}
	pg, err := d.page(p)
	if err != nil {
		return err
	}
	return d.copyRange(pg.SetupEnd, pg.End)
}

// WriteEmptyPage writes a blank page.  If a default paper size is set, the
// page bounding box is set to this paper.
func (d *Document) WriteEmptyPage() error {
	if err := d.enter("WriteEmptyPage", stateSetup, statePages, statePages); err != nil {
		return err
	}
	d.logf("[*]")
	d.OutputPage++
	d.PageLabel = "*"

	var buf strings.Builder
	fmt.Fprintf(&buf, "%%%%Page: * %d\n", d.OutputPage)
	if d.Paper != nil {
		bbox := d.Paper.BBox()
		fmt.Fprintf(&buf, "%%%%PageBoundingBox: 0 0 %d %d\n",
			int(math.Ceil(bbox.URx)), int(math.Ceil(bbox.URy)))
	}
	buf.WriteString("showpage\n")
	return d.writeString(buf.String())
}

// WriteTrailer copies the trailer of the input.  A "%%Pages:" comment in the
// trailer is replaced by the number of pages written.  This must be the
// last write operation.
func (d *Document) WriteTrailer() error {
	if err := d.enter("WriteTrailer", stateSetup, statePages, stateTrailer); err != nil {
		return err
	}

	trailer, err := d.readRange(d.Index.TrailerStart, d.Index.Size)
	if err != nil {
		return err
	}
	for _, line := range splitLines(trailer) {
		key, _, ok := dsc.ParseComment(trimEOL(line))
		if ok && key == "Pages" {
			err = d.writeString(fmt.Sprintf("%%%%Pages: %d\n", d.OutputPage))
		} else {
			err = d.write(line)
		}
		if err != nil {
			return err
		}
	}

	d.logf("Wrote %d pages, %d bytes", d.OutputPage, d.Bytes)
	return d.Flush()
}

// WriteString writes s to the output, with parentheses and backslashes
// escaped.  This allows to use s inside a PostScript string.
func (d *Document) WriteString(s string) error {
	if err := d.enter("WriteString", stateIdle, statePages, stateIdle); err != nil {
		return err
	}
	return d.writeString(Escape(s))
}

// WriteRaw writes s to the output unchanged.
func (d *Document) WriteRaw(s string) error {
	if err := d.enter("WriteRaw", stateIdle, statePages, stateIdle); err != nil {
		return err
	}
	return d.writeString(s)
}

// Escape quotes the characters "(", ")" and "\" using backslashes.
func Escape(s string) string {
	if !strings.ContainsAny(s, `()\`) {
		return s
	}
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '(' || c == ')' || c == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

func (d *Document) page(p int) (*dsc.Page, error) {
	n := len(d.Index.Pages)
	if p < 1 || p > n {
		return nil, &RangeError{Page: p, Pages: n}
	}
	return &d.Index.Pages[p-1], nil
}

// copyRange copies the input bytes [from, to) to the output.
func (d *Document) copyRange(from, to int64) error {
	if to <= from {
		return nil
	}
	_, err := d.in.Seek(from, io.SeekStart)
	if err != nil {
		return ioError(err, "seeking input")
	}
	n, err := io.CopyN(d.out, d.in, to-from)
	d.Bytes += n
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return ioError(err, "copying input")
}

func (d *Document) readRange(from, to int64) ([]byte, error) {
	if to <= from {
		return nil, nil
	}
	_, err := d.in.Seek(from, io.SeekStart)
	if err != nil {
		return nil, ioError(err, "seeking input")
	}
	buf := make([]byte, to-from)
	_, err = io.ReadFull(d.in, buf)
	if err != nil {
		return nil, ioError(err, "reading input")
	}
	return buf, nil
}

func (d *Document) write(b []byte) error {
	n, err := d.out.Write(b)
	d.Bytes += int64(n)
	return ioError(err, "writing output")
}

func (d *Document) writeString(s string) error {
	n, err := d.out.WriteString(s)
	d.Bytes += int64(n)
	return ioError(err, "writing output")
}

// splitLines splits data into lines, keeping the end-of-line markers.
// LF, CR and CR+LF are recognised.
func splitLines(data []byte) [][]byte {
	var res [][]byte
	for len(data) > 0 {
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			res = append(res, data)
			break
		}
		j := i + 1
		if data[i] == '\r' && j < len(data) && data[j] == '\n' {
			j++
		}
		res = append(res, data[:j])
		data = data[j:]
	}
	return res
}

func trimEOL(line []byte) []byte {
	return bytes.TrimRight(line, "\r\n")
}

func boundLabel(label string) string {
	if len(label) > dsc.MaxLineLength {
		label = label[:dsc.MaxLineLength]
	}
	return label
}

func formatNum(x float64) string {
	return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64)
}
