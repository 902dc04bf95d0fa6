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

// Package psutils rearranges the pages of PostScript documents which follow
// the Document Structuring Conventions.
//
// A [Document] combines the input file, its [dsc.Index] and an output
// stream.  The methods of Document write the sections of a new document,
// with pages taken from the input in arbitrary order:
//
//	doc.WriteHeader(n)
//	doc.WriteProlog()
//	doc.WriteSetup()
//	for _, p := range order {
//		doc.WritePage(p)
//	}
//	doc.WriteTrailer()
//
// Prolog, setup and trailer of the input are copied exactly once, no matter
// how often a page is used.
package psutils

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"

	"seehuhn.de/go/psutils/dsc"
	"seehuhn.de/go/psutils/paper"
	"seehuhn.de/go/psutils/spool"
)

// Document holds the state of one conversion run.
// A Document must not be used concurrently.
type Document struct {
	// Program is the name of the program, used in log messages.
	Program string

	// Verbose enables progress messages on Log.
	Verbose bool
	Log     *log.Logger

	// Paper is the default paper size.  It is used for the media comments
	// in the header and for blank pages.  If Paper is nil, no media
	// comments are generated.
	Paper *paper.Size

	// Strict makes write operations fail with a [StateError] if they are
	// called out of order.
	Strict bool

	Index *dsc.Index

	// PageLabel is the label of the page most recently sought or written.
	PageLabel string

	// OutputPage is the number of pages written so far.
	OutputPage int

	// Bytes is the number of bytes written so far.
	Bytes int64

	in     io.ReadSeeker
	out    *bufio.Writer
	closer io.Closer

	state     state
	prologPos int64
	setupDone bool
	current   int
}

// NewDocument prepares to write a new document, using the sections of the
// input described by idx.
func NewDocument(program string, in io.ReadSeeker, idx *dsc.Index, out io.Writer) *Document {
	return &Document{
		Program:   program,
		Log:       log.New(os.Stderr, program+": ", 0),
		Index:     idx,
		in:        in,
		out:       bufio.NewWriter(out),
		prologPos: idx.HeaderEnd,
	}
}

// Open makes r seekable, scans its structure and prepares a document
// writing to out.
//
// If the input is structurally incomplete, a usable Document is returned
// together with an error from [dsc.Scan].  The caller decides whether to
// proceed.  Close must be called to remove any temporary files.
func Open(program string, r io.Reader, out io.Writer) (*Document, error) {
	f, err := spool.Seekable(r)
	if err != nil {
		return nil, ioError(err, "spooling input")
	}

	idx, err := dsc.Scan(f)
	if idx == nil {
		f.Close()
		var malformed *dsc.MalformedError
		if !errors.As(err, &malformed) {
			err = ioError(err, "scanning input")
		}
		return nil, err
	}

	doc := NewDocument(program, f, idx, out)
	doc.closer = f
	return doc, err
}

// SetPaperSize makes the named paper the default paper size.
// If the name is not known, the previous default is kept and a
// [ConfigurationError] is returned.
func (d *Document) SetPaperSize(name string) error {
	s, err := paper.Get(name)
	if err != nil {
		return &ConfigurationError{Paper: name, Err: err}
	}
	d.Paper = s
	return nil
}

// NumPages returns the number of pages of the input document.
func (d *Document) NumPages() int {
	return len(d.Index.Pages)
}

// Flush writes any buffered output.
func (d *Document) Flush() error {
	return ioError(d.out.Flush(), "writing output")
}

// Close flushes the output and removes temporary files created by [Open].
// The output stream itself is not closed.
func (d *Document) Close() error {
	err := d.Flush()
	if d.closer != nil {
		err = errors.Join(err, d.closer.Close())
		d.closer = nil
	}
	return err
}

func (d *Document) logf(format string, a ...any) {
	if d.Verbose && d.Log != nil {
		d.Log.Printf(format, a...)
	}
}
