package bible

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/randverse/core/encoding"
	"github.com/FocuswithJustin/randverse/core/errors"
)

// OutputFormat selects how passages are rendered.
type OutputFormat string

// Output formats.
const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatHTML OutputFormat = "html"
	FormatXML  OutputFormat = "xml"
)

// ParseOutputFormat validates an output format name. "" means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatHTML, FormatXML:
		return f, nil
	default:
		return "", errors.NewUnsupported("output format", s)
	}
}

// FormatPassage renders "<number>. <text> [<book>:<chapter>]".
func FormatPassage(p Passage) string {
	return fmt.Sprintf("%d. %s [%s]", p.Verse.Number, p.Verse.Text, p.Citation())
}

// Render writes passages to w, one per line for line-oriented formats.
// JSON output is a single object for one passage and an array otherwise.
func Render(w io.Writer, format OutputFormat, passages ...Passage) error {
	switch format {
	case FormatText, "":
		for _, p := range passages {
			if _, err := fmt.Fprintln(w, FormatPassage(p)); err != nil {
				return err
			}
		}
		return nil

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if len(passages) == 1 {
			return enc.Encode(passages[0])
		}
		if passages == nil {
			passages = []Passage{}
		}
		return enc.Encode(passages)

	case FormatHTML:
		for _, p := range passages {
			if _, err := fmt.Fprintf(w, "<blockquote class=\"verse\"><p><sup>%d</sup> %s</p><cite>%s</cite></blockquote>\n",
				p.Verse.Number, encoding.EscapeHTML(p.Verse.Text), encoding.EscapeHTML(p.Citation())); err != nil {
				return err
			}
		}
		return nil

	case FormatXML:
		for _, p := range passages {
			if _, err := fmt.Fprintf(w, "<verse book=\"%s\" chapter=\"%s\" number=\"%d\">%s</verse>\n",
				encoding.EscapeXMLAttr(p.Book), encoding.EscapeXMLAttr(p.Chapter), p.Verse.Number,
				encoding.EscapeXMLText(p.Verse.Text)); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.NewUnsupported("output format", string(format))
	}
}
