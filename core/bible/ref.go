package bible

import (
	"fmt"
	"math"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/randverse/core/errors"
)

// Ref is a citation in the same shape the CLI prints: "Book:Chapter" or
// "Book:Chapter:Verse".
type Ref struct {
	Book     string `json:"book"`
	Chapter  string `json:"chapter"`
	Verse    uint32 `json:"verse,omitempty"`
	HasVerse bool   `json:"has_verse"`
}

// String formats the reference back into citation form.
func (r Ref) String() string {
	if r.HasVerse {
		return fmt.Sprintf("%s:%s:%d", r.Book, r.Chapter, r.Verse)
	}
	return r.Book + ":" + r.Chapter
}

//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Book    []string `@(Word | Int)+`
	Chapter []string `":" @(Word | Int)+`
	Verse   *int     `( ":" @Int )?`
}

// A Word is any run without spaces or colons that contains a non-digit, so
// "1John" and "3a" stay whole while "1 Kings" splits into Int and Word.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[0-9]*[^\s:0-9][^\s:]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses a citation such as "Genesis:1", "1 Kings:3:5" or
// "От Иоанна:3:16". Runs of whitespace inside names collapse to one space.
func ParseRef(s string) (Ref, error) {
	g, err := refParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Ref{}, errors.NewParse("reference", "", err.Error())
	}

	ref := Ref{
		Book:    strings.Join(g.Book, " "),
		Chapter: strings.Join(g.Chapter, " "),
	}
	if g.Verse != nil {
		if *g.Verse < 0 || int64(*g.Verse) > math.MaxUint32 {
			return Ref{}, errors.NewParse("reference", "", fmt.Sprintf("verse number %d out of range", *g.Verse))
		}
		ref.Verse = uint32(*g.Verse)
		ref.HasVerse = true
	}
	return ref, nil
}

// Lookup resolves a reference against the corpus. Book names and chapter
// labels match case-insensitively with whitespace collapsed. Without a verse
// number every verse of the chapter is returned, in source order.
func Lookup(c *Corpus, ref Ref) ([]Passage, error) {
	book := findBook(c, ref.Book)
	if book == nil {
		return nil, errors.NewNotFound("book", ref.Book)
	}

	chapter := findChapter(book, ref.Chapter)
	if chapter == nil {
		return nil, errors.NewNotFound("chapter", book.Name+":"+ref.Chapter)
	}

	if ref.HasVerse {
		v, ok := chapter.Verse(ref.Verse)
		if !ok {
			return nil, errors.NewNotFound("verse", fmt.Sprintf("%s:%s:%d", book.Name, chapter.Number, ref.Verse))
		}
		return []Passage{{Book: book.Name, Chapter: chapter.Number, Verse: v}}, nil
	}

	if len(chapter.Verses) == 0 {
		return nil, errors.NewEmpty("chapter", book.Name+":"+chapter.Number)
	}
	passages := make([]Passage, 0, len(chapter.Verses))
	for _, v := range chapter.Verses {
		passages = append(passages, Passage{Book: book.Name, Chapter: chapter.Number, Verse: v})
	}
	return passages, nil
}

func findBook(c *Corpus, name string) *Book {
	if c == nil {
		return nil
	}
	for i := range c.Books {
		if sameName(c.Books[i].Name, name) {
			return &c.Books[i]
		}
	}
	return nil
}

func findChapter(b *Book, label string) *Chapter {
	for i := range b.Chapters {
		if sameName(b.Chapters[i].Number, label) {
			return &b.Chapters[i]
		}
	}
	return nil
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}
