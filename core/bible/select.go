package bible

import (
	"math/rand/v2"
	"sync"

	"github.com/FocuswithJustin/randverse/core/errors"
)

// Passage is a verse together with the book and chapter it was found in.
type Passage struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Verse   Verse  `json:"verse"`
}

// Citation returns "Book:Chapter".
func (p Passage) Citation() string {
	return p.Book + ":" + p.Chapter
}

// Selector draws verses uniformly at each level: a book, then a chapter of
// that book, then a verse of that chapter. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector returns a Selector drawing from src. A nil src is seeded
// from the runtime's random source.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Selector{rng: rand.New(src)}
}

// NewSeededSelector returns a deterministic Selector.
func NewSeededSelector(seed uint64) *Selector {
	return NewSelector(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Pick selects one verse. It returns an *errors.EmptyError if the corpus,
// the drawn book or the drawn chapter has nothing to choose from.
func (s *Selector) Pick(c *Corpus) (Passage, error) {
	if c == nil || len(c.Books) == 0 {
		return Passage{}, errors.NewEmpty("corpus", "")
	}
	book := &c.Books[s.intN(len(c.Books))]

	if len(book.Chapters) == 0 {
		return Passage{}, errors.NewEmpty("book", book.Name)
	}
	chapter := &book.Chapters[s.intN(len(book.Chapters))]

	if len(chapter.Verses) == 0 {
		return Passage{}, errors.NewEmpty("chapter", book.Name+":"+chapter.Number)
	}
	verse := chapter.Verses[s.intN(len(chapter.Verses))]

	return Passage{Book: book.Name, Chapter: chapter.Number, Verse: verse}, nil
}

func (s *Selector) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
