// Package loader turns a corpus source into a parsed corpus: it reads the
// asset, fingerprints the raw bytes, decodes the charset and folds the lines.
package loader

import (
	"context"
	"time"

	"github.com/FocuswithJustin/randverse/core/asset"
	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/encoding"
	"github.com/FocuswithJustin/randverse/core/errors"
	"github.com/FocuswithJustin/randverse/internal/logging"
)

// Options selects the corpus to load.
type Options struct {
	// Source is asset.Bundled, asset.Stdin or a file path.
	Source string
	// Charset names the text encoding. Empty means windows-1251.
	Charset string
}

// Loaded is a parsed corpus together with where it came from.
type Loaded struct {
	Corpus      *bible.Corpus
	Fingerprint string
	Dropped     bible.Dropped
	Source      string
	Size        int
}

// Func loads a corpus. The API server reloads through it.
type Func func(ctx context.Context) (*Loaded, error)

// Load reads, decodes and parses the corpus described by opts.
func Load(ctx context.Context, opts Options) (*Loaded, error) {
	start := time.Now()

	raw, err := asset.Load(ctx, opts.Source)
	if err != nil {
		return nil, err
	}

	charset := opts.Charset
	if charset == "" {
		charset = encoding.DefaultCharset
	}
	text, err := encoding.Decode(raw, charset)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", asset.Describe(opts.Source))
	}

	corpus, dropped := bible.ParseWithDiagnostics(text)
	l := &Loaded{
		Corpus:      corpus,
		Fingerprint: bible.Fingerprint(raw),
		Dropped:     dropped,
		Source:      asset.Describe(opts.Source),
		Size:        len(raw),
	}

	stats := corpus.Stats()
	logging.CorpusLoaded(l.Source, l.Fingerprint, stats.Books, stats.Chapters, stats.Verses,
		time.Since(start), "charset", charset, "bytes", l.Size)
	return l, nil
}

// FuncFor binds opts into a Func.
func FuncFor(opts Options) Func {
	return func(ctx context.Context) (*Loaded, error) {
		return Load(ctx, opts)
	}
}
