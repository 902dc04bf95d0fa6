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

// Package cli contains code shared by the command line tools.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/term"
	"seehuhn.de/go/psutils"
	"seehuhn.de/go/psutils/dsc"
	"seehuhn.de/go/psutils/impose"
	"seehuhn.de/go/psutils/paper"
)

// Program returns the name of the running program and configures the
// standard logger to prefix all messages with it.
func Program() string {
	program := filepath.Base(os.Args[0])
	log.SetPrefix(program + ": ")
	log.SetFlags(0)
	return program
}

// ErrTerminal is returned by [Files] when the input would be read from an
// interactive terminal.
var ErrTerminal = errors.New("refusing to read PostScript from a terminal")

// Files opens the input and output given by the optional command line
// arguments [infile [outfile]].  A missing name or "-" means standard input
// or output.  The returned function closes the files.
func Files(args []string) (io.Reader, io.Writer, func() error, error) {
	if len(args) > 2 {
		return nil, nil, nil, fmt.Errorf("too many arguments")
	}

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var closers []io.Closer
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i].Close())
		}
		return errors.Join(errs...)
	}

	if len(args) > 0 && args[0] != "-" {
		fd, err := os.Open(args[0])
		if err != nil {
			return nil, nil, nil, err
		}
		in = fd
		closers = append(closers, fd)
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, nil, nil, ErrTerminal
	}

	if len(args) > 1 && args[1] != "-" {
		fd, err := os.Create(args[1])
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		out = fd
		closers = append(closers, fd)
	}

	return in, out, closeAll, nil
}

// Paper returns the named paper size.  If name is empty, the paper given by
// the PAPERSIZE environment variable is used; if this is unset as well, nil
// is returned and the media of the input document are kept.  Names can
// also be explicit dimensions like "210mmx297mm".
//
// Unknown names are reported as a [psutils.ConfigurationError].
func Paper(name string) (*paper.Size, error) {
	var s *paper.Size
	var err error
	if name == "" {
		name = os.Getenv("PAPERSIZE")
		s, err = paper.FromEnv()
	} else {
		s, err = paper.Parse(name)
	}
	if err != nil {
		return nil, &psutils.ConfigurationError{Paper: name, Err: err}
	}
	return s, nil
}

// WriteOrder writes a complete document, using the input pages in the
// given order.  [impose.Blank] entries produce blank pages.
func WriteOrder(doc *psutils.Document, order []int) error {
	err := doc.WriteHeader(len(order))
	if err != nil {
		return err
	}
	err = doc.WriteProlog()
	if err != nil {
		return err
	}
	err = doc.WriteSetup()
	if err != nil {
		return err
	}
	for _, p := range order {
		if p == impose.Blank {
			err = doc.WriteEmptyPage()
		} else {
			err = doc.WritePage(p)
		}
		if err != nil {
			return err
		}
	}
	return doc.WriteTrailer()
}

// Open prepares a document for rewriting.  Documents without pages are
// rejected; a missing "%%EndProlog" comment is only reported in verbose
// mode.
func Open(program string, in io.Reader, out io.Writer, verbose bool) (*psutils.Document, error) {
	doc, err := psutils.Open(program, in, out)
	if errors.Is(err, dsc.ErrNoPages) {
		if doc != nil {
			doc.Close()
		}
		return nil, err
	} else if errors.Is(err, dsc.ErrNoEndProlog) {
		if verbose {
			log.Print("warning: ", err)
		}
	} else if err != nil {
		return nil, err
	}
	doc.Verbose = verbose
	return doc, nil
}

// Usage installs a usage message for the flag package.
func Usage(synopsis, description string) {
	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage: %s %s\n\n", filepath.Base(os.Args[0]), synopsis)
		fmt.Fprintln(w, description)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		flag.PrintDefaults()
	}
}
