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
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/psutils/dsc"
	"seehuhn.de/go/psutils/paper"
)

const testDoc = `%!PS-Adobe-3.0
%%Pages: 3 0
%%EndComments
%%BeginProlog
/x 1 def
%%EndProlog
%%BeginSetup
/y 2 def
%%EndSetup
%%Page: 1 1
(one) show
showpage
%%Page: (ii) 2
%%BeginPageSetup
/z 3 def
%%EndPageSetup
(two) show
showpage
%%Page: 3 3
(three) show
showpage
%%Trailer
%%EOF
`

func newTestDoc(t *testing.T, in string) (*Document, *bytes.Buffer) {
	t.Helper()
	r := strings.NewReader(in)
	idx, err := dsc.Scan(r)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	return NewDocument("test", r, idx, buf), buf
}

func writeAll(t *testing.T, doc *Document, order []int) {
	t.Helper()
	err := doc.WriteHeader(len(order))
	if err != nil {
		t.Fatal(err)
	}
	err = doc.WriteProlog()
	if err != nil {
		t.Fatal(err)
	}
	err = doc.WriteSetup()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range order {
		err = doc.WritePage(p)
		if err != nil {
			t.Fatal(err)
		}
	}
	err = doc.WriteTrailer()
	if err != nil {
		t.Fatal(err)
	}
}

func TestIdentity(t *testing.T) {
	doc, buf := newTestDoc(t, testDoc)
	writeAll(t, doc, []int{1, 2, 3})
	if d := cmp.Diff(testDoc, buf.String()); d != "" {
		t.Error(d)
	}
	if doc.Bytes != int64(len(testDoc)) {
		t.Errorf("expected %d bytes, counted %d", len(testDoc), doc.Bytes)
	}
}

func TestPagesVerbatim(t *testing.T) {
	idx, err := dsc.Scan(strings.NewReader(testDoc))
	if err != nil {
		t.Fatal(err)
	}
	for p := 1; p <= idx.NumPages(); p++ {
		doc, buf := newTestDoc(t, testDoc)
		doc.state = stateSetup
		doc.OutputPage = 9
		err := doc.WritePage(p)
		if err != nil {
			t.Fatal(err)
		}
		doc.Flush()

		pg := idx.Pages[p-1]
		orig := testDoc[pg.Offset:pg.End]
		origHead, origBody, _ := strings.Cut(orig, "\n")
		head, body, _ := strings.Cut(buf.String(), "\n")
		if body != origBody {
			t.Errorf("page %d: body changed: %q != %q", p, body, origBody)
		}
		label := strings.Fields(origHead)[1]
		if head != "%%Page: "+label+" 10" {
			t.Errorf("page %d: unexpected page comment %q", p, head)
		}
	}
}

func TestReorder(t *testing.T) {
	doc, buf := newTestDoc(t, testDoc)
	writeAll(t, doc, []int{3, 1, 2})
	out := buf.String()

	for _, pat := range []string{"/x 1 def", "/y 2 def", "%%EndProlog", "%%Trailer"} {
		if n := strings.Count(out, pat); n != 1 {
			t.Errorf("%q found %d times", pat, n)
		}
	}
	i3 := strings.Index(out, "%%Page: 3 1\n(three)")
	i1 := strings.Index(out, "%%Page: 1 2\n(one)")
	i2 := strings.Index(out, "%%Page: (ii) 3\n%%BeginPageSetup")
	if i3 < 0 || i1 < 0 || i2 < 0 || !(i3 < i1 && i1 < i2) {
		t.Errorf("wrong page order: %d %d %d\n%s", i3, i1, i2, out)
	}
	if strings.Index(out, "/y 2 def") > i3 {
		t.Error("setup written after first page")
	}
}

func TestRepeatedPages(t *testing.T) {
	doc, buf := newTestDoc(t, testDoc)
	order := []int{2, 2, 2, 2, 1}
	writeAll(t, doc, order)

	out := buf.String()
	if n := strings.Count(out, "/x 1 def"); n != 1 {
		t.Errorf("prolog written %d times", n)
	}
	if n := strings.Count(out, "(two) show"); n != 4 {
		t.Errorf("page 2 written %d times", n)
	}

	idx, err := dsc.Scan(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if idx.NumPages() != len(order) {
		t.Errorf("rescan found %d pages, expected %d", idx.NumPages(), len(order))
	}
	if idx.DeclaredPages != len(order) {
		t.Errorf("header declares %d pages, expected %d", idx.DeclaredPages, len(order))
	}
	for i, p := range idx.Pages {
		if p.Ordinal != i+1 {
			t.Errorf("page %d has ordinal %d", i+1, p.Ordinal)
		}
	}
}

func TestSeekPageRange(t *testing.T) {
	doc, _ := newTestDoc(t, testDoc)
	for _, p := range []int{-1, 0, 4, 100} {
		err := doc.SeekPage(p)
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("page %d: expected RangeError, got %v", p, err)
			continue
		}
		if rangeErr.Page != p || rangeErr.Pages != 3 {
			t.Errorf("page %d: wrong error %v", p, rangeErr)
		}
	}
	for p := 1; p <= 3; p++ {
		err := doc.SeekPage(p)
		if err != nil {
			t.Errorf("page %d: %v", p, err)
		}
	}
	if doc.PageLabel != "3" {
		t.Errorf("expected label 3, got %q", doc.PageLabel)
	}

	err := doc.WritePageBody(4)
	if _, ok := err.(*RangeError); !ok {
		t.Errorf("expected RangeError from WritePageBody, got %v", err)
	}
}

func TestComposePage(t *testing.T) {
	doc, buf := newTestDoc(t, testDoc)
	doc.state = stateSetup

	err := doc.WritePageHeader("(x)", 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []int{2, 1} {
		err = doc.SeekPage(p)
		if err != nil {
			t.Fatal(err)
		}
		err = doc.WritePageSetup()
		if err != nil {
			t.Fatal(err)
		}
		err = doc.WritePageBody(p)
		if err != nil {
			t.Fatal(err)
		}
	}
	doc.Flush()

	exp := "%%Page: (x) 1\n" +
		"%%BeginPageSetup\n/z 3 def\n%%EndPageSetup\n" +
		"(two) show\nshowpage\n" +
		"(one) show\nshowpage\n"
	if d := cmp.Diff(exp, buf.String()); d != "" {
		t.Error(d)
	}
	if doc.OutputPage != 1 {
		t.Errorf("expected 1 output page, got %d", doc.OutputPage)
	}
}

func TestEmptyPage(t *testing.T) {
	doc, buf := newTestDoc(t, testDoc)
	err := doc.SetPaperSize("a4")
	if err != nil {
		t.Fatal(err)
	}
	doc.state = stateSetup
	err = doc.WriteEmptyPage()
	if err != nil {
		t.Fatal(err)
	}
	doc.Flush()

	exp := "%%Page: * 1\n%%PageBoundingBox: 0 0 595 842\nshowpage\n"
	if d := cmp.Diff(exp, buf.String()); d != "" {
		t.Error(d)
	}

	out := buf.Bytes()
	idx, err := dsc.Scan(bytes.NewReader(out))
	if errors.Is(err, dsc.ErrNoPages) {
		t.Fatal(err)
	}
	if idx.NumPages() != 1 {
		t.Errorf("expected 1 page, got %d", idx.NumPages())
	}
	if idx.TrailerStart != int64(len(out)) {
		t.Errorf("trailer at %d, expected end of file %d", idx.TrailerStart, len(out))
	}
}

func TestSetPaperSize(t *testing.T) {
	doc, _ := newTestDoc(t, testDoc)
	err := doc.SetPaperSize("A4")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Paper.Width != 595 || doc.Paper.Height != 842 {
		t.Errorf("unexpected paper %+v", doc.Paper)
	}

	err = doc.SetPaperSize("Bogus")
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) || confErr.Paper != "Bogus" {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
	if !errors.Is(err, paper.ErrNotFound) {
		t.Errorf("expected wrapped ErrNotFound, got %v", err)
	}
	if doc.Paper.Name != "a4" {
		t.Errorf("default paper changed to %v", doc.Paper)
	}
}

const headerDoc = `%!PS-Adobe-3.0
%%Title: (test)
%%Orientation: Landscape
%%BoundingBox: 0 0 595 842
%%DocumentMedia: a4 595 842 0 () ()
%%+ a3 842 1191 0 () ()
%%Pages: (atend)
%%EndComments
%%EndProlog
%%Page: 1 1
showpage
%%Page: 2 2
showpage
%%Trailer
%%Pages: 2
%%EOF
`

func TestWriteHeader(t *testing.T) {
	doc, buf := newTestDoc(t, headerDoc)
	err := doc.SetPaperSize("letter")
	if err != nil {
		t.Fatal(err)
	}
	err = doc.WriteHeader(1, "Orientation")
	if err != nil {
		t.Fatal(err)
	}
	doc.Flush()

	exp := `%!PS-Adobe-3.0
%%Title: (test)
%%DocumentMedia: plain 612 792 0 () ()
%%BoundingBox: 0 0 612 792
%%Pages: 1 0
%%EndComments
`
	if d := cmp.Diff(exp, buf.String()); d != "" {
		t.Error(d)
	}
}

func TestWriteHeaderNoPages(t *testing.T) {
	in := "%!PS-Adobe-3.0\n%%Title: x\n%%EndComments\n%%EndProlog\n%%Page: 1 1\n"
	doc, buf := newTestDoc(t, in)
	err := doc.WriteHeaderMedia(4, nil, 100.5, 200)
	if err != nil {
		t.Fatal(err)
	}
	doc.Flush()

	exp := "%!PS-Adobe-3.0\n%%Title: x\n" +
		"%%DocumentMedia: plain 100.5 200 0 () ()\n" +
		"%%BoundingBox: 0 0 101 200\n" +
		"%%Pages: 4 0\n" +
		"%%EndComments\n"
	if d := cmp.Diff(exp, buf.String()); d != "" {
		t.Error(d)
	}
}

func TestTrailerPages(t *testing.T) {
	doc, buf := newTestDoc(t, headerDoc)
	writeAll(t, doc, []int{2})
	out := buf.String()
	if !strings.HasSuffix(out, "%%Trailer\n%%Pages: 1\n%%EOF\n") {
		t.Errorf("unexpected trailer:\n%s", out)
	}
	if !strings.Contains(out, "%%Page: 2 1\nshowpage\n") {
		t.Errorf("page missing:\n%s", out)
	}
}

const procSetDoc = `%!PS-Adobe-3.0
%%EndComments
%%BeginProlog
/x 1 def
%%BeginProcSet: PStoPS 1 15
/PStoPSxform matrix def
%%EndProcSet
/w 0 def
%%EndProlog
%%Page: 1 1
showpage
`

func TestWritePartProlog(t *testing.T) {
	doc, buf := newTestDoc(t, procSetDoc)
	err := doc.WriteHeader(1)
	if err != nil {
		t.Fatal(err)
	}
	err = doc.WritePartProlog()
	if err != nil {
		t.Fatal(err)
	}
	err = doc.WriteRaw("%%BeginProcSet: PStoPS 1 15\n/new 1 def\n%%EndProcSet\n")
	if err != nil {
		t.Fatal(err)
	}
	err = doc.WriteSetup()
	if err != nil {
		t.Fatal(err)
	}
	err = doc.WriteProlog() // no effect
	if err != nil {
		t.Fatal(err)
	}
	doc.Flush()

	exp := `%!PS-Adobe-3.0
%%Pages: 1 0
%%EndComments
%%BeginProlog
/x 1 def
%%BeginProcSet: PStoPS 1 15
/new 1 def
%%EndProcSet
/w 0 def
%%EndProlog
`
	if d := cmp.Diff(exp, buf.String()); d != "" {
		t.Error(d)
	}
}

func TestWritePartPrologNoProcSet(t *testing.T) {
	doc, buf := newTestDoc(t, testDoc)
	doc.WriteHeader(3)
	doc.WritePartProlog()
	doc.WriteRaw("/extra 1 def\n")
	doc.WriteProlog()
	doc.WriteSetup()
	doc.Flush()

	out := buf.String()
	if !strings.Contains(out, "/x 1 def\n/extra 1 def\n%%EndProlog\n%%BeginSetup\n") {
		t.Errorf("extra definitions not at end of prolog:\n%s", out)
	}
}

func TestStrict(t *testing.T) {
	doc, buf := newTestDoc(t, testDoc)
	doc.Strict = true

	err := doc.WriteProlog()
	var stateErr *StateError
	if !errors.As(err, &stateErr) || stateErr.Call != "WriteProlog" {
		t.Errorf("expected StateError, got %v", err)
	}
	err = doc.WritePage(1)
	if !errors.As(err, &stateErr) {
		t.Errorf("expected StateError, got %v", err)
	}
	doc.Flush()
	if buf.Len() != 0 {
		t.Errorf("output written after rejected calls: %q", buf.String())
	}

	writeAll(t, doc, []int{1, 3})

	err = doc.WritePage(2)
	if !errors.As(err, &stateErr) || stateErr.State != "trailer" {
		t.Errorf("expected StateError after trailer, got %v", err)
	}
	err = doc.WriteHeader(1)
	if !errors.As(err, &stateErr) {
		t.Errorf("expected StateError for second header, got %v", err)
	}
}

func TestVerbose(t *testing.T) {
	doc, _ := newTestDoc(t, testDoc)
	logBuf := &bytes.Buffer{}
	doc.Log = log.New(logBuf, "test: ", 0)
	doc.Verbose = true
	writeAll(t, doc, []int{3, 2})

	exp := "test: [3]\ntest: [2]\ntest: Wrote 2 pages, " +
		strconv.FormatInt(doc.Bytes, 10) + " bytes\n"
	if d := cmp.Diff(exp, logBuf.String()); d != "" {
		t.Error(d)
	}
}

func TestEscape(t *testing.T) {
	cases := []struct{ in, out string }{
		{"", ""},
		{"plain", "plain"},
		{"a(b)c", `a\(b\)c`},
		{`back\slash`, `back\\slash`},
		{`(\)`, `\(\\\)`},
	}
	for _, test := range cases {
		if got := Escape(test.in); got != test.out {
			t.Errorf("%q: expected %q, got %q", test.in, test.out, got)
		}
	}

	doc, buf := newTestDoc(t, testDoc)
	err := doc.WriteString("f(x)")
	if err != nil {
		t.Fatal(err)
	}
	doc.Flush()
	if buf.String() != `f\(x\)` {
		t.Errorf("unexpected output %q", buf.String())
	}
}

// pipeReader hides the Seek method of a reader.
type pipeReader struct {
	io.Reader
}

func TestOpen(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	buf := &bytes.Buffer{}
	doc, err := Open("test", pipeReader{strings.NewReader(testDoc)}, buf)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, doc, []int{1, 2, 3})
	err = doc.Close()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(testDoc, buf.String()); d != "" {
		t.Error(d)
	}
}

func TestOpenMalformed(t *testing.T) {
	doc, err := Open("test", strings.NewReader("%!PS\nshowpage\n"), io.Discard)
	if !errors.Is(err, dsc.ErrNoPages) {
		t.Errorf("expected ErrNoPages, got %v", err)
	}
	if doc == nil {
		t.Fatal("no document returned")
	}
	defer doc.Close()
	if doc.NumPages() != 0 {
		t.Errorf("expected 0 pages, got %d", doc.NumPages())
	}
}
