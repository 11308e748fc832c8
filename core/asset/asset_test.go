package asset

import (
	"bytes"
	"compress/gzip"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/randverse/core/errors"
)

func TestLoadBundled(t *testing.T) {
	data, err := Load(context.Background(), Bundled)
	if err != nil {
		t.Fatalf("Load(Bundled) error = %v", err)
	}
	if DetectCompression(bundled) != CompressionXZ {
		t.Error("bundled corpus should be stored xz-compressed")
	}
	// "== " followed by "Бытие" in windows-1251.
	want := []byte{'=', '=', ' ', 0xC1, 0xFB, 0xF2, 0xE8, 0xE5}
	if !bytes.Contains(data, want) {
		t.Error("bundled corpus should contain the first book marker in windows-1251")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	text := []byte("== Genesis ==\n=== 1 ===\n1 In the beginning\n")

	compressed, err := Compress(text)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write(text)
	zw.Close()

	files := map[string][]byte{
		"plain.txt":    text,
		"bible.txt.xz": compressed,
		"bible.txt.gz": gz.Bytes(),
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, content, 0644); err != nil {
				t.Fatal(err)
			}
			got, err := Load(context.Background(), path)
			if err != nil {
				t.Fatalf("Load(%s) error = %v", name, err)
			}
			if !bytes.Equal(got, text) {
				t.Errorf("Load(%s) = %q, want %q", name, got, text)
			}
		})
	}
}

func TestLoadStdin(t *testing.T) {
	orig := stdin
	defer func() { stdin = orig }()
	stdin = strings.NewReader("== A ==\n")

	got, err := Load(context.Background(), Stdin)
	if err != nil {
		t.Fatalf("Load(Stdin) error = %v", err)
	}
	if string(got) != "== A ==\n" {
		t.Errorf("Load(Stdin) = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var ioErr *errors.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %T, want *errors.IOError", err)
	}
	if ioErr.Path != path {
		t.Errorf("Path = %q, want %q", ioErr.Path, path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("error should wrap fs.ErrNotExist")
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, Bundled); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestDecompressCorruptXZ(t *testing.T) {
	corrupt := append([]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, []byte("not really xz")...)
	if _, err := Decompress(corrupt); err == nil {
		t.Error("expected error for corrupt xz stream")
	}
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Compression
	}{
		{"empty", nil, CompressionNone},
		{"text", []byte("== Genesis =="), CompressionNone},
		{"gzip", []byte{0x1f, 0x8b, 0x08}, CompressionGzip},
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, CompressionXZ},
		{"short xz prefix", []byte{0xfd, 0x37, 0x7a}, CompressionNone},
	}
	for _, tt := range tests {
		if got := DetectCompression(tt.data); got != tt.want {
			t.Errorf("%s: DetectCompression() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	if Describe(Bundled) != "bundled corpus" || Describe(Stdin) != "stdin" || Describe("/x") != "/x" {
		t.Error("Describe returned unexpected names")
	}
}
