package bible

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	chapterDelim = "==="
	bookDelim    = "=="
)

// Line is the classification of one trimmed input line. It is one of
// BookMarker, ChapterMarker, VerseRecord or Unrecognized.
type Line interface {
	isLine()
}

// BookMarker opens a new book.
type BookMarker struct {
	Name string
}

// ChapterMarker opens a new chapter in the current book.
type ChapterMarker struct {
	Label string
}

// VerseRecord is a numbered verse belonging to the current chapter.
type VerseRecord struct {
	Number uint32
	Text   string
}

// Unrecognized is any line with no structural meaning.
type Unrecognized struct{}

func (BookMarker) isLine()    {}
func (ChapterMarker) isLine() {}
func (VerseRecord) isLine()   {}
func (Unrecognized) isLine()  {}

// Classify tags a single line. The line is expected to be trimmed already.
// Classification depends only on the text of the line and never fails.
func Classify(line string) Line {
	// Chapter first: "===x===" also satisfies the book test.
	if wrapped(line, chapterDelim) {
		return ChapterMarker{Label: payload(line, chapterDelim)}
	}
	if wrapped(line, bookDelim) {
		return BookMarker{Name: payload(line, bookDelim)}
	}
	if num, text, ok := strings.Cut(line, " "); ok {
		// A single plus sign is accepted before the digits; minus is not.
		if len(num) > 1 && num[0] == '+' && num[1] >= '0' && num[1] <= '9' {
			num = num[1:]
		}
		if n, err := strconv.ParseUint(num, 10, 32); err == nil {
			return VerseRecord{Number: uint32(n), Text: text}
		}
	}
	return Unrecognized{}
}

// wrapped reports whether s starts and ends with delim with at least one
// byte between the two occurrences.
func wrapped(s, delim string) bool {
	return len(s) > 2*len(delim) &&
		strings.HasPrefix(s, delim) &&
		strings.HasSuffix(s, delim)
}

// payload returns the text between the delimiters with one separator
// character removed from each side, so "=== 1 ===" and "===1===" both
// yield "1". Further whitespace belongs to the payload. Slicing a fixed
// delimiter-plus-space width would go out of range on "===1===" and would
// cut the first letter of "==Genesis==", so the separator is only removed
// when it is whitespace.
func payload(s, delim string) string {
	p := s[len(delim) : len(s)-len(delim)]
	p = trimOne(p, true)
	return trimOne(p, false)
}

func trimOne(s string, leading bool) string {
	if s == "" {
		return s
	}
	if leading {
		r, size := utf8.DecodeRuneInString(s)
		if unicode.IsSpace(r) {
			return s[size:]
		}
		return s
	}
	r, size := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(r) {
		return s[:len(s)-size]
	}
	return s
}
