package bible

import (
	"bufio"
	"io"
	"strings"

	"github.com/FocuswithJustin/randverse/core/errors"
)

// maxLineSize bounds a single line read by ParseReader.
const maxLineSize = 1024 * 1024

// Parse builds a corpus from decoded text in a single pass.
func Parse(text string) *Corpus {
	corpus, _ := ParseWithDiagnostics(text)
	return corpus
}

// ParseWithDiagnostics is Parse that also reports what was dropped.
func ParseWithDiagnostics(text string) (*Corpus, Dropped) {
	b := NewBuilder()
	for line := range strings.SplitSeq(text, "\n") {
		feed(b, strings.TrimSuffix(line, "\r"))
	}
	return b.Finish(), b.Dropped()
}

// ParseReader builds a corpus from r, which must yield UTF-8 text.
func ParseReader(r io.Reader) (*Corpus, error) {
	b := NewBuilder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		feed(b, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", "", err)
	}
	return b.Finish(), nil
}

// feed skips empty lines before trimming, so whitespace-only lines reach
// the classifier as "" and are counted as unrecognized.
func feed(b *Builder, line string) {
	if line == "" {
		return
	}
	b.Apply(Classify(strings.TrimSpace(line)))
}
