package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/randverse/core/asset"
	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/errors"
	"github.com/FocuswithJustin/randverse/core/sqlite"
)

const sample = `== Genesis ==
=== 1 ===
1 In the beginning God created the heaven & the earth.
2 And the earth was without form
=== Prologue ===
== Song of Songs ==
=== 2 ===
1 I am the rose of <Sharon>
== Empty ==
`

func sampleCorpus(t *testing.T) *bible.Corpus {
	t.Helper()
	c := bible.Parse(sample)
	if s := c.Stats(); s.Books != 3 || s.Verses != 3 {
		t.Fatalf("unexpected sample stats %+v", s)
	}
	return c
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "OSIS", " text ", "sqlite"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", name, err)
		}
	}
	_, err := ParseFormat("usfm")
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("ParseFormat(usfm) error = %v, want ErrUnsupported", err)
	}
}

func TestWriteTextRoundTrip(t *testing.T) {
	c := sampleCorpus(t)
	var buf bytes.Buffer
	if err := Write(&buf, c, FormatText, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "== Genesis ==\n=== 1 ===\n1 In the beginning") {
		t.Errorf("unexpected text output:\n%s", buf.String())
	}
	if got := bible.Parse(buf.String()); !got.Equal(c) {
		t.Errorf("re-parsed corpus differs:\n got %+v\nwant %+v", got, c)
	}
}

func TestWriteTextRoundTripEdgeLabels(t *testing.T) {
	c := &bible.Corpus{Books: []bible.Book{{
		Name: " Padded",
		Chapters: []bible.Chapter{
			{Number: "", Verses: []bible.Verse{{Number: 0, Text: "  indented"}}},
			{Number: "10a", Verses: []bible.Verse{{Number: 4294967295, Text: "max"}}},
		},
	}}}
	var buf bytes.Buffer
	if err := Write(&buf, c, FormatText, Options{}); err != nil {
		t.Fatal(err)
	}
	if got := bible.Parse(buf.String()); !got.Equal(c) {
		t.Errorf("re-parsed corpus differs:\n got %+v\nwant %+v", got, c)
	}
}

func TestWriteJSON(t *testing.T) {
	c := sampleCorpus(t)
	var buf bytes.Buffer
	opts := Options{Title: "KJV", Language: "en", Fingerprint: "abc"}
	if err := Write(&buf, c, FormatJSON, opts); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "heaven & the earth") {
		t.Error("JSON output should not HTML-escape text")
	}

	var doc struct {
		Title       string       `json:"title"`
		Fingerprint string       `json:"fingerprint"`
		Stats       bible.Stats  `json:"stats"`
		Books       []bible.Book `json:"books"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Title != "KJV" || doc.Fingerprint != "abc" || doc.Stats.Verses != 3 {
		t.Errorf("doc = %+v", doc)
	}
	if got := (&bible.Corpus{Books: doc.Books}); !got.Equal(c) {
		t.Error("decoded books differ from the corpus")
	}
}

func TestWriteJSONEmptyCorpus(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &bible.Corpus{}, FormatJSON, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"books": []`) {
		t.Errorf("empty corpus should export an empty books array:\n%s", buf.String())
	}
}

func TestWriteOSIS(t *testing.T) {
	c := sampleCorpus(t)
	var buf bytes.Buffer
	opts := Options{Title: "King James", Language: "en", Fingerprint: "f00d"}
	if err := Write(&buf, c, FormatOSIS, opts); err != nil {
		t.Fatal(err)
	}

	doc, err := xmlquery.Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("output is not well-formed XML: %v\n%s", err, buf.String())
	}

	work := xmlquery.FindOne(doc, "//*[local-name()='osisText']")
	if work == nil || work.SelectAttr("osisIDWork") != "KingJames" {
		t.Errorf("osisText = %v", work)
	}

	books := xmlquery.Find(doc, "//*[local-name()='div'][@type='book']")
	if len(books) != 3 {
		t.Fatalf("got %d book divs, want 3", len(books))
	}
	if id := books[1].SelectAttr("osisID"); id != "SongofSongs" {
		t.Errorf("second book osisID = %q", id)
	}

	verse := xmlquery.FindOne(doc, "//*[local-name()='verse'][@osisID='Genesis.1.1']")
	if verse == nil {
		t.Fatal("Genesis.1.1 not found")
	}
	if got := verse.InnerText(); got != "In the beginning God created the heaven & the earth." {
		t.Errorf("verse text = %q", got)
	}

	rose := xmlquery.FindOne(doc, "//*[local-name()='verse'][@osisID='SongofSongs.2.1']")
	if rose == nil || rose.InnerText() != "I am the rose of <Sharon>" {
		t.Errorf("escaped verse = %v", rose)
	}

	prologue := xmlquery.FindOne(doc, "//*[local-name()='chapter'][@n='Prologue']")
	if prologue == nil || prologue.SelectAttr("osisID") != "Genesis.Prologue" {
		t.Errorf("prologue chapter = %v", prologue)
	}
}

func TestSummarizeOSIS(t *testing.T) {
	c := sampleCorpus(t)
	var buf bytes.Buffer
	if err := Write(&buf, c, FormatOSIS, Options{}); err != nil {
		t.Fatal(err)
	}
	got, err := SummarizeOSIS(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := OSISSummary{Books: 3, Chapters: 3, Verses: 3}
	if got != want {
		t.Errorf("SummarizeOSIS() = %+v, want %+v", got, want)
	}

	if _, err := SummarizeOSIS(strings.NewReader("<osis><div>")); err == nil {
		t.Error("truncated XML should fail")
	}
}

func TestWriteSQLiteRejectsStream(t *testing.T) {
	err := Write(&bytes.Buffer{}, &bible.Corpus{}, FormatSQLite, Options{})
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestToFileSQLite(t *testing.T) {
	c := sampleCorpus(t)
	path := filepath.Join(t.TempDir(), "verses.db")

	// An existing file is replaced.
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ToFile(context.Background(), path, c, FormatSQLite, Options{Title: "KJV", Fingerprint: "abc"}); err != nil {
		t.Fatalf("ToFile() error = %v", err)
	}

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var books, chapters, verses int
	db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&books)
	db.QueryRow(`SELECT COUNT(*) FROM chapters`).Scan(&chapters)
	db.QueryRow(`SELECT COUNT(*) FROM verses`).Scan(&verses)
	if books != 3 || chapters != 3 || verses != 3 {
		t.Errorf("counts = %d/%d/%d, want 3/3/3", books, chapters, verses)
	}

	var text, label, book string
	err = db.QueryRow(`
		SELECT v.text, c.label, b.name
		FROM verses v
		JOIN chapters c ON c.id = v.chapter_id
		JOIN books b ON b.id = c.book_id
		WHERE b.name = ? AND v.number = ?`, "Song of Songs", 1).Scan(&text, &label, &book)
	if err != nil {
		t.Fatalf("join query: %v", err)
	}
	if text != "I am the rose of <Sharon>" || label != "2" {
		t.Errorf("got %q in chapter %q", text, label)
	}

	var fingerprint string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'fingerprint'`).Scan(&fingerprint); err != nil || fingerprint != "abc" {
		t.Errorf("fingerprint = %q, %v", fingerprint, err)
	}
}

func TestToFileXZ(t *testing.T) {
	c := sampleCorpus(t)
	path := filepath.Join(t.TempDir(), "bible.txt.xz")
	if err := ToFile(context.Background(), path, c, FormatText, Options{}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if asset.DetectCompression(raw) != asset.CompressionXZ {
		t.Fatal("output should be xz-compressed")
	}
	data, err := asset.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got := bible.Parse(string(data)); !got.Equal(c) {
		t.Error("decompressed export should re-parse to the same corpus")
	}
}

func TestToFileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ToFile(ctx, filepath.Join(t.TempDir(), "x.json"), &bible.Corpus{}, FormatJSON, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestToFileBadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "x.json")
	err := ToFile(context.Background(), path, &bible.Corpus{}, FormatJSON, Options{})
	var ioErr *errors.IOError
	if !errors.As(err, &ioErr) || ioErr.Path != path {
		t.Errorf("error = %v, want *errors.IOError for %s", err, path)
	}
}
