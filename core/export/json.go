package export

import (
	"encoding/json"
	"io"

	"github.com/FocuswithJustin/randverse/core/bible"
)

type jsonDocument struct {
	Title       string       `json:"title,omitempty"`
	Language    string       `json:"language,omitempty"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	Stats       bible.Stats  `json:"stats"`
	Books       []bible.Book `json:"books"`
}

func writeJSON(w io.Writer, c *bible.Corpus, opts Options) error {
	books := c.Books
	if books == nil {
		books = []bible.Book{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDocument{
		Title:       opts.Title,
		Language:    opts.Language,
		Fingerprint: opts.Fingerprint,
		Stats:       c.Stats(),
		Books:       books,
	})
}
