// Package export converts a parsed corpus into other formats. Exports are
// one-shot outputs; nothing here reads them back as parse state.
package export

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/FocuswithJustin/randverse/core/asset"
	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/errors"
)

// Format names an export target.
type Format string

// Export formats.
const (
	FormatJSON   Format = "json"
	FormatOSIS   Format = "osis"
	FormatText   Format = "text"
	FormatSQLite Format = "sqlite"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatOSIS, FormatText, FormatSQLite}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.NewUnsupported("export format", s)
}

// Options carries metadata written alongside the corpus.
type Options struct {
	Title       string // Work title
	Language    string // BCP 47 language tag
	Fingerprint string // BLAKE3 of the source asset
}

// Write streams c to w in a stream-oriented format. SQLite needs a file
// and is rejected here; use ToFile.
func Write(w io.Writer, c *bible.Corpus, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, c, opts)
	case FormatOSIS:
		return writeOSIS(w, c, opts)
	case FormatText:
		return writeText(w, c)
	case FormatSQLite:
		return errors.NewUnsupported("export format", "sqlite requires an output file")
	default:
		return errors.NewUnsupported("export format", string(format))
	}
}

// ToFile writes c to path, replacing any existing file. Stream formats are
// xz-compressed when path ends in ".xz".
func ToFile(ctx context.Context, path string, c *bible.Corpus, format Format, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if format == FormatSQLite {
		return writeSQLite(ctx, path, c, opts)
	}

	var buf strings.Builder
	if err := Write(&buf, c, format, opts); err != nil {
		return err
	}
	data := []byte(buf.String())

	if strings.HasSuffix(path, ".xz") {
		compressed, err := asset.Compress(data)
		if err != nil {
			return errors.Wrapf(err, "export %s", path)
		}
		data = compressed
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
