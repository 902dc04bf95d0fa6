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

// Psbook rearranges the pages of a PostScript document into signatures,
// for printing as a booklet.
package main

import (
	"errors"
	"flag"
	"log"

	"seehuhn.de/go/psutils"
	"seehuhn.de/go/psutils/impose"
	"seehuhn.de/go/psutils/internal/cli"
)

var (
	signature = flag.Int("s", 0, "pages per signature (a multiple of 4, 0 for a single signature)")
	paperName = flag.String("paper", "", "paper size for media comments and blank pages")
	quiet     = flag.Bool("q", false, "do not report progress")
)

func main() {
	cli.Usage("[-s signature] [-q] [infile [outfile]]",
		"Rearrange pages into signatures, padding with blank pages.")
	flag.Parse()

	err := run(cli.Program(), flag.Args())
	if err != nil {
		log.Fatal(err)
	}
}

func run(program string, args []string) error {
	in, out, closeFiles, err := cli.Files(args)
	if err != nil {
		return err
	}

	doc, err := cli.Open(program, in, out, !*quiet)
	if err != nil {
		return errors.Join(err, closeFiles())
	}

	err = book(doc)
	return errors.Join(err, doc.Close(), closeFiles())
}

func book(doc *psutils.Document) error {
	media, err := cli.Paper(*paperName)
	if err != nil {
		return err
	}
	doc.Paper = media

	order, err := impose.Booklet(doc.NumPages(), *signature)
	if err != nil {
		return err
	}
	return cli.WriteOrder(doc, order)
}
