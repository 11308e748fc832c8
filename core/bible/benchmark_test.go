package bible

import (
	"fmt"
	"strings"
	"testing"
)

// syntheticCorpus builds a corpus text with the given shape.
func syntheticCorpus(books, chapters, verses int) string {
	var sb strings.Builder
	for b := 0; b < books; b++ {
		fmt.Fprintf(&sb, "== Book %d ==\r\n", b+1)
		for c := 0; c < chapters; c++ {
			fmt.Fprintf(&sb, "=== %d ===\r\n", c+1)
			for v := 0; v < verses; v++ {
				fmt.Fprintf(&sb, "%d And it came to pass in those days that the word went out.\r\n", v+1)
			}
		}
	}
	return sb.String()
}

func BenchmarkParse(b *testing.B) {
	sizes := []struct {
		name                    string
		books, chapters, verses int
	}{
		{"Small_1Book_3Chapters", 1, 3, 20},
		{"Medium_10Books_20Chapters", 10, 20, 25},
		{"Large_66Books_25Chapters", 66, 25, 30},
	}

	for _, s := range sizes {
		text := syntheticCorpus(s.books, s.chapters, s.verses)
		b.Run(s.name, func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = Parse(text)
			}
		})
	}
}

func BenchmarkClassify(b *testing.B) {
	lines := []string{"== Genesis ==", "=== 1 ===", "1 In the beginning", "noise line"}
	for i := 0; i < b.N; i++ {
		_ = Classify(lines[i%len(lines)])
	}
}

func BenchmarkPick(b *testing.B) {
	corpus := Parse(syntheticCorpus(66, 25, 30))
	s := NewSeededSelector(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Pick(corpus); err != nil {
			b.Fatal(err)
		}
	}
}

func TestSyntheticCorpusShape(t *testing.T) {
	corpus := Parse(syntheticCorpus(3, 4, 5))
	want := Stats{Books: 3, Chapters: 12, Verses: 60}
	if got := corpus.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
