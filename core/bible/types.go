package bible

// Corpus is the whole parsed text.
type Corpus struct {
	Books []Book `json:"books"`
}

// Book is a named top-level division.
type Book struct {
	Name     string    `json:"name"`
	Chapters []Chapter `json:"chapters"`
}

// Chapter is a labelled division of a Book. The label is kept as written
// and is not required to be numeric.
type Chapter struct {
	Number string  `json:"number"`
	Verses []Verse `json:"verses"`
}

// Verse is one numbered line of text. Numbers are stored as they appear;
// they are not checked for order or uniqueness within a chapter.
type Verse struct {
	Number uint32 `json:"number"`
	Text   string `json:"text"`
}

// Stats summarises the shape of a corpus.
type Stats struct {
	Books         int `json:"books"`
	Chapters      int `json:"chapters"`
	Verses        int `json:"verses"`
	EmptyBooks    int `json:"empty_books"`
	EmptyChapters int `json:"empty_chapters"`
}

// Stats counts the containers in the corpus.
func (c *Corpus) Stats() Stats {
	var s Stats
	s.Books = len(c.Books)
	for _, b := range c.Books {
		if len(b.Chapters) == 0 {
			s.EmptyBooks++
		}
		s.Chapters += len(b.Chapters)
		for _, ch := range b.Chapters {
			if len(ch.Verses) == 0 {
				s.EmptyChapters++
			}
			s.Verses += len(ch.Verses)
		}
	}
	return s
}

// Book returns the first book with the given name.
func (c *Corpus) Book(name string) (*Book, bool) {
	for i := range c.Books {
		if c.Books[i].Name == name {
			return &c.Books[i], true
		}
	}
	return nil, false
}

// Chapter returns the first chapter with the given label.
func (b *Book) Chapter(label string) (*Chapter, bool) {
	for i := range b.Chapters {
		if b.Chapters[i].Number == label {
			return &b.Chapters[i], true
		}
	}
	return nil, false
}

// Verse returns the first verse with the given number.
func (ch *Chapter) Verse(number uint32) (Verse, bool) {
	for _, v := range ch.Verses {
		if v.Number == number {
			return v, true
		}
	}
	return Verse{}, false
}

// Equal reports whether two corpora have the same structure and content.
// A nil slice and an empty slice compare equal.
func (c *Corpus) Equal(other *Corpus) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.Books) != len(other.Books) {
		return false
	}
	for i, b := range c.Books {
		ob := other.Books[i]
		if b.Name != ob.Name || len(b.Chapters) != len(ob.Chapters) {
			return false
		}
		for j, ch := range b.Chapters {
			och := ob.Chapters[j]
			if ch.Number != och.Number || len(ch.Verses) != len(och.Verses) {
				return false
			}
			for k, v := range ch.Verses {
				if v != och.Verses[k] {
					return false
				}
			}
		}
	}
	return true
}
