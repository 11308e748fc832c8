// Package encoding provides charset decoding for raw corpus assets and the
// text escaping helpers shared by renderers and exporters.
package encoding

import (
	"strings"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/FocuswithJustin/randverse/core/errors"
)

// DefaultCharset is the encoding of the bundled corpus.
const DefaultCharset = "windows-1251"

// Lookup resolves a charset label (WHATWG names and aliases such as
// "cp1251", "koi8-r", "utf-8") to an encoding. An empty label selects
// DefaultCharset.
func Lookup(charset string) (xencoding.Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	switch name {
	case "":
		return charmap.Windows1251, nil
	case "utf-8", "utf8":
		// UTF8BOM strips a leading byte order mark when decoding.
		return unicode.UTF8BOM, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.NewUnsupported("charset", charset)
	}
	return enc, nil
}

// Decode converts data in the named charset to a UTF-8 string. Byte
// sequences that have no mapping are replaced with U+FFFD instead of
// failing the decode.
func Decode(data []byte, charset string) (string, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Wrapf(err, "decode %s", charset)
	}
	return string(out), nil
}
