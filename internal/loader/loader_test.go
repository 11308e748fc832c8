package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/randverse/core/asset"
	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/errors"
)

func TestLoadBundled(t *testing.T) {
	l, err := Load(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	stats := l.Corpus.Stats()
	if stats.Books != 3 || stats.Chapters != 5 || stats.Verses != 17 {
		t.Errorf("stats = %+v, want 3 books, 5 chapters, 17 verses", stats)
	}
	if l.Corpus.Books[0].Name != "Бытие" {
		t.Errorf("first book = %q, want Бытие", l.Corpus.Books[0].Name)
	}
	if l.Dropped.Lines != 1 {
		t.Errorf("Dropped.Lines = %d, want 1 (title line)", l.Dropped.Lines)
	}
	if len(l.Fingerprint) != 64 {
		t.Errorf("fingerprint %q should be 64 hex chars", l.Fingerprint)
	}
	if l.Source != "bundled corpus" || l.Size == 0 {
		t.Errorf("Source = %q, Size = %d", l.Source, l.Size)
	}
}

func TestLoadUTF8File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kjv.txt")
	text := "== Genesis ==\r\n=== 1 ===\r\n1 In the beginning\r\n2 And the earth\r\n"
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(context.Background(), Options{Source: path, Charset: "utf-8"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &bible.Corpus{Books: []bible.Book{{
		Name: "Genesis",
		Chapters: []bible.Chapter{{
			Number: "1",
			Verses: []bible.Verse{{Number: 1, Text: "In the beginning"}, {Number: 2, Text: "And the earth"}},
		}},
	}}}
	if !l.Corpus.Equal(want) {
		t.Errorf("corpus = %+v, want %+v", l.Corpus, want)
	}
	if l.Fingerprint != bible.Fingerprint([]byte(text)) {
		t.Error("fingerprint should hash the raw bytes")
	}
}

func TestLoadCompressedFileFingerprintsRawBytes(t *testing.T) {
	text := []byte("== A ==\n=== 1 ===\n1 x\n")
	xzData, err := asset.Compress(text)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "a.txt.xz")
	if err := os.WriteFile(path, xzData, 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(context.Background(), Options{Source: path, Charset: "utf-8"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if l.Fingerprint != bible.Fingerprint(text) {
		t.Error("fingerprint should be taken after decompression")
	}
	if l.Corpus.Stats().Verses != 1 {
		t.Errorf("verses = %d, want 1", l.Corpus.Stats().Verses)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(context.Background(), Options{Source: filepath.Join(t.TempDir(), "nope")})
		var ioErr *errors.IOError
		if !errors.As(err, &ioErr) {
			t.Errorf("error = %v, want *errors.IOError", err)
		}
	})

	t.Run("unknown charset", func(t *testing.T) {
		_, err := Load(context.Background(), Options{Charset: "klingon"})
		var unsupported *errors.UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Errorf("error = %v, want *errors.UnsupportedError", err)
		}
	})
}

func TestFuncFor(t *testing.T) {
	fn := FuncFor(Options{})
	a, err := fn(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := fn(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint != b.Fingerprint || !a.Corpus.Equal(b.Corpus) {
		t.Error("repeated loads should be identical")
	}
}
