package bible

import (
	"errors"
	"testing"

	"github.com/zeebo/blake3"
)

func TestFingerprint(t *testing.T) {
	data := []byte("== Genesis ==\n=== 1 ===\n1 In the beginning")
	got := Fingerprint(data)

	h := blake3.Sum256(data)
	want := hashToHex(h[:])
	if got != want {
		t.Errorf("Fingerprint() = %s, want %s", got, want)
	}
	if len(got) != 64 {
		t.Errorf("Fingerprint() length = %d, want 64", len(got))
	}
	if Fingerprint(append(data, '\n')) == got {
		t.Error("different input should give a different fingerprint")
	}
}

func TestHashCorpus(t *testing.T) {
	a := Parse("== A ==\n=== 1 ===\n1 one")
	b := Parse("== A ==\n=== 1 ===\n1 two")

	ha, err := HashCorpus(a)
	if err != nil {
		t.Fatalf("HashCorpus() error = %v", err)
	}
	hb, err := HashCorpus(b)
	if err != nil {
		t.Fatalf("HashCorpus() error = %v", err)
	}
	if ha == hb {
		t.Error("different verse text should change the hash")
	}
}

func TestHashCorpusMarshalError(t *testing.T) {
	orig := jsonMarshal
	defer func() { jsonMarshal = orig }()
	jsonMarshal = func(any) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}

	if _, err := HashCorpus(&Corpus{}); err == nil {
		t.Error("expected marshal error to propagate")
	}
}

func hashToHex(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0x0f]
	}
	return string(out)
}
