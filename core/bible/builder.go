package bible

// Dropped counts input that had no effect on the tree.
type Dropped struct {
	// Verses seen while no chapter was open.
	Verses int `json:"verses"`
	// Chapters closed while no book was open.
	Chapters int `json:"chapters"`
	// Lines classified as Unrecognized.
	Lines int `json:"lines"`
}

// Builder folds classified lines into a Corpus. It holds at most one open
// book and one open chapter; children are appended to their parent when
// they are closed, so nothing is mutated after it has been appended.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	corpus  Corpus
	book    *Book
	chapter *Chapter
	dropped Dropped
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Apply advances the builder by one classified line.
func (b *Builder) Apply(line Line) {
	switch l := line.(type) {
	case BookMarker:
		b.closeChapter()
		b.closeBook()
		b.book = &Book{Name: l.Name, Chapters: []Chapter{}}
	case ChapterMarker:
		b.closeChapter()
		b.chapter = &Chapter{Number: l.Label, Verses: []Verse{}}
	case VerseRecord:
		if b.chapter == nil {
			b.dropped.Verses++
			return
		}
		b.chapter.Verses = append(b.chapter.Verses, Verse{Number: l.Number, Text: l.Text})
	case Unrecognized:
		b.dropped.Lines++
	}
}

// Finish closes any open chapter and book and returns the completed corpus.
// The builder is reset and may be reused.
func (b *Builder) Finish() *Corpus {
	b.closeChapter()
	b.closeBook()

	corpus := b.corpus
	if corpus.Books == nil {
		corpus.Books = []Book{}
	}
	b.corpus = Corpus{}
	return &corpus
}

// Dropped returns the counters accumulated since the builder was created.
func (b *Builder) Dropped() Dropped {
	return b.dropped
}

// closeChapter appends the open chapter to the open book. Without a book the
// chapter is discarded.
func (b *Builder) closeChapter() {
	if b.chapter == nil {
		return
	}
	if b.book != nil {
		b.book.Chapters = append(b.book.Chapters, *b.chapter)
	} else {
		b.dropped.Chapters++
	}
	b.chapter = nil
}

func (b *Builder) closeBook() {
	if b.book == nil {
		return
	}
	b.corpus.Books = append(b.corpus.Books, *b.book)
	b.book = nil
}
