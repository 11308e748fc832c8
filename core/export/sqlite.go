package export

import (
	"context"
	"database/sql"
	"io/fs"
	"os"

	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/errors"
	"github.com/FocuswithJustin/randverse/core/sqlite"
)

const sqliteSchema = `
CREATE TABLE meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE books (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	book_order INTEGER NOT NULL
);
CREATE TABLE chapters (
	id INTEGER PRIMARY KEY,
	book_id INTEGER NOT NULL REFERENCES books(id),
	label TEXT NOT NULL,
	chapter_order INTEGER NOT NULL
);
CREATE TABLE verses (
	id INTEGER PRIMARY KEY,
	chapter_id INTEGER NOT NULL REFERENCES chapters(id),
	number INTEGER NOT NULL,
	text TEXT NOT NULL,
	verse_order INTEGER NOT NULL
);
CREATE INDEX idx_chapters_book ON chapters(book_id, chapter_order);
CREATE INDEX idx_verses_chapter ON verses(chapter_id, verse_order);
`

// writeSQLite creates a fresh database at path. Container order is kept in
// the *_order columns since labels and verse numbers need not be sorted.
func writeSQLite(ctx context.Context, path string, c *bible.Corpus, opts Options) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.NewIO("remove", path, err)
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return errors.NewIO("create schema", path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewIO("begin", path, err)
	}
	if err := insertCorpus(ctx, tx, c, opts); err != nil {
		tx.Rollback()
		return errors.NewIO("insert", path, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewIO("commit", path, err)
	}
	return nil
}

func insertCorpus(ctx context.Context, tx *sql.Tx, c *bible.Corpus, opts Options) error {
	meta := [][2]string{
		{"title", opts.Title},
		{"language", opts.Language},
		{"fingerprint", opts.Fingerprint},
		{"driver", sqlite.DriverType()},
	}
	for _, kv := range meta {
		if kv[1] == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return err
		}
	}

	bookStmt, err := tx.PrepareContext(ctx, `INSERT INTO books (id, name, book_order) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer bookStmt.Close()
	chapterStmt, err := tx.PrepareContext(ctx, `INSERT INTO chapters (id, book_id, label, chapter_order) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer chapterStmt.Close()
	verseStmt, err := tx.PrepareContext(ctx, `INSERT INTO verses (chapter_id, number, text, verse_order) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer verseStmt.Close()

	chapterID := 0
	for bi, b := range c.Books {
		bookID := bi + 1
		if _, err := bookStmt.ExecContext(ctx, bookID, b.Name, bi); err != nil {
			return err
		}
		for ci, ch := range b.Chapters {
			chapterID++
			if _, err := chapterStmt.ExecContext(ctx, chapterID, bookID, ch.Number, ci); err != nil {
				return err
			}
			for vi, v := range ch.Verses {
				if _, err := verseStmt.ExecContext(ctx, chapterID, int64(v.Number), v.Text, vi); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
