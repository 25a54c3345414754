package digest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStreamingMatchesFile(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	h := New()
	h.Write(payload[:10])
	h.Write(payload[10:])
	streamed := Hex(h)
	if len(streamed) != 64 {
		t.Fatalf("hex length %d, want 64", len(streamed))
	}

	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := File(path)
	if err != nil {
		t.Fatal(err)
	}
	if fromFile != streamed {
		t.Fatalf("file digest %s != streamed %s", fromFile, streamed)
	}
}

func TestDistinctInputsDistinctSums(t *testing.T) {
	a := New()
	a.Write([]byte("a"))
	b := New()
	b.Write([]byte("b"))
	if Hex(a) == Hex(b) {
		t.Fatal("digests should differ")
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
