// Package asset reads raw corpus bytes from the bundled text, a file or
// stdin, transparently decompressing xz and gzip payloads.
package asset

import (
	"bytes"
	"compress/gzip"
	"context"
	_ "embed"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/randverse/core/errors"
)

// Source names understood by Load besides file paths.
const (
	// Bundled selects the corpus compiled into the binary.
	Bundled = ""
	// Stdin reads the corpus from standard input.
	Stdin = "-"
)

// BundledCharset is the encoding of the bundled corpus.
const BundledCharset = "windows-1251"

// Compression identifies a container format.
type Compression string

// Supported compression formats.
const (
	CompressionNone Compression = "none"
	CompressionXZ   Compression = "xz"
	CompressionGzip Compression = "gzip"
)

//go:embed data/bible.txt.xz
var bundled []byte

// Injectable for tests.
var (
	xzNewReader   = xz.NewReader
	gzipNewReader = gzip.NewReader
	osReadFile    = os.ReadFile
	stdin         io.Reader = os.Stdin
)

// Load returns the decompressed bytes for source: Bundled, Stdin or a file
// path.
func Load(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		raw []byte
		err error
	)
	switch source {
	case Bundled:
		raw = bundled
	case Stdin:
		raw, err = io.ReadAll(stdin)
		if err != nil {
			return nil, errors.NewIO("read", "stdin", err)
		}
	default:
		raw, err = osReadFile(source)
		if err != nil {
			return nil, errors.NewIO("read", source, err)
		}
	}

	data, err := Decompress(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", Describe(source))
	}
	return data, nil
}

// Describe returns a human-readable name for source.
func Describe(source string) string {
	switch source {
	case Bundled:
		return "bundled corpus"
	case Stdin:
		return "stdin"
	default:
		return source
	}
}

// DetectCompression inspects magic bytes.
func DetectCompression(data []byte) Compression {
	// XZ magic: fd 37 7a 58 5a 00
	if len(data) >= 6 && bytes.Equal(data[:6], []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}) {
		return CompressionXZ
	}
	// gzip magic: 1f 8b
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		return CompressionGzip
	}
	return CompressionNone
}

// Decompress returns data unchanged unless it carries an xz or gzip header.
func Decompress(data []byte) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch DetectCompression(data) {
	case CompressionXZ:
		r, err = xzNewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.NewIO("open xz stream", "", err)
		}
	case CompressionGzip:
		gz, gzErr := gzipNewReader(bytes.NewReader(data))
		if gzErr != nil {
			return nil, errors.NewIO("open gzip stream", "", gzErr)
		}
		defer gz.Close()
		r = gz
	default:
		return data, nil
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("decompress", "", err)
	}
	return out, nil
}

// Compress encodes data as an xz stream, the format used for the bundled
// corpus.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, errors.NewIO("create xz writer", "", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.NewIO("compress", "", err)
	}
	if err := w.Close(); err != nil {
		return nil, errors.NewIO("compress", "", err)
	}
	return buf.Bytes(), nil
}
