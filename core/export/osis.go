package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/encoding"
	"github.com/FocuswithJustin/randverse/core/errors"
)

const osisNamespace = "http://www.bibletechnologies.net/2003/OSIS/namespace"

// defaultWork is the osisIDWork used when Options.Title is empty.
const defaultWork = "verse"

func writeOSIS(w io.Writer, c *bible.Corpus, opts Options) error {
	work := osisID(opts.Title)
	if work == "" {
		work = defaultWork
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(bw, "<osis xmlns=\"%s\">\n", osisNamespace)
	fmt.Fprintf(bw, `  <osisText osisIDWork="%s"`, encoding.EscapeXMLAttr(work))
	if opts.Language != "" {
		fmt.Fprintf(bw, ` xml:lang="%s"`, encoding.EscapeXMLAttr(opts.Language))
	}
	bw.WriteString(">\n")

	bw.WriteString("    <header>\n")
	fmt.Fprintf(bw, "      <work osisWork=\"%s\">\n", encoding.EscapeXMLAttr(work))
	if opts.Title != "" {
		fmt.Fprintf(bw, "        <title>%s</title>\n", encoding.EscapeXMLText(opts.Title))
	}
	if opts.Language != "" {
		fmt.Fprintf(bw, "        <language>%s</language>\n", encoding.EscapeXMLText(opts.Language))
	}
	if opts.Fingerprint != "" {
		fmt.Fprintf(bw, "        <identifier type=\"BLAKE3\">%s</identifier>\n", opts.Fingerprint)
	}
	bw.WriteString("      </work>\n")
	bw.WriteString("    </header>\n")

	for i, b := range c.Books {
		bookID := osisID(b.Name)
		if bookID == "" {
			bookID = "Book" + strconv.Itoa(i+1)
		}
		fmt.Fprintf(bw, "    <div type=\"book\" osisID=\"%s\">\n", encoding.EscapeXMLAttr(bookID))
		fmt.Fprintf(bw, "      <title>%s</title>\n", encoding.EscapeXMLText(b.Name))
		for _, ch := range b.Chapters {
			chapterID := bookID + "." + osisID(ch.Number)
			fmt.Fprintf(bw, "      <chapter osisID=\"%s\" n=\"%s\">\n",
				encoding.EscapeXMLAttr(chapterID), encoding.EscapeXMLAttr(ch.Number))
			for _, v := range ch.Verses {
				fmt.Fprintf(bw, "        <verse osisID=\"%s.%d\" n=\"%d\">%s</verse>\n",
					encoding.EscapeXMLAttr(chapterID), v.Number, v.Number, encoding.EscapeXMLText(v.Text))
			}
			bw.WriteString("      </chapter>\n")
		}
		bw.WriteString("    </div>\n")
	}

	bw.WriteString("  </osisText>\n")
	bw.WriteString("</osis>\n")
	return bw.Flush()
}

// osisID keeps letters and digits only. OSIS identifiers cannot contain
// spaces or the "." separator.
func osisID(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
}

// OSISSummary counts the structural elements of an OSIS document.
type OSISSummary struct {
	Books    int
	Chapters int
	Verses   int
}

var (
	osisBookExpr    = xpath.MustCompile(`//*[local-name()='div'][@type='book']`)
	osisChapterExpr = xpath.MustCompile(`//*[local-name()='chapter']`)
	osisVerseExpr   = xpath.MustCompile(`//*[local-name()='verse']`)
)

// SummarizeOSIS parses an OSIS document and counts its books, chapters and
// verses. The exporter uses it to check a written file.
func SummarizeOSIS(r io.Reader) (OSISSummary, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return OSISSummary{}, &errors.ParseError{Format: "osis", Message: err.Error(), Err: err}
	}
	return OSISSummary{
		Books:    len(xmlquery.QuerySelectorAll(doc, osisBookExpr)),
		Chapters: len(xmlquery.QuerySelectorAll(doc, osisChapterExpr)),
		Verses:   len(xmlquery.QuerySelectorAll(doc, osisVerseExpr)),
	}, nil
}
