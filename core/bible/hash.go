package bible

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"
)

// jsonMarshal is a variable to allow testing of marshal errors.
var jsonMarshal = json.Marshal

// Fingerprint returns the BLAKE3 hash of a raw corpus asset as hex. It
// identifies the source bytes before decoding.
func Fingerprint(raw []byte) string {
	h := blake3.Sum256(raw)
	return hex.EncodeToString(h[:])
}

// HashCorpus returns the SHA-256 of the corpus serialized as JSON. Parsing
// the same text twice yields the same hash.
func HashCorpus(c *Corpus) (string, error) {
	data, err := jsonMarshal(c)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}
