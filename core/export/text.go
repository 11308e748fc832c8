package export

import (
	"bufio"
	"io"
	"strconv"

	"github.com/FocuswithJustin/randverse/core/bible"
)

// writeText emits the marker format the parser reads, so that parsing the
// output yields an equal corpus.
func writeText(w io.Writer, c *bible.Corpus) error {
	bw := bufio.NewWriter(w)
	for _, b := range c.Books {
		bw.WriteString("== " + b.Name + " ==\n")
		for _, ch := range b.Chapters {
			bw.WriteString("=== " + ch.Number + " ===\n")
			for _, v := range ch.Verses {
				bw.WriteString(strconv.FormatUint(uint64(v.Number), 10))
				bw.WriteByte(' ')
				bw.WriteString(v.Text)
				bw.WriteByte('\n')
			}
		}
	}
	return bw.Flush()
}
