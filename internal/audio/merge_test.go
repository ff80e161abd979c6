package audio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMergeFiles_OrderedConcatenation(t *testing.T) {
	dir := t.TempDir()
	parts := [][]byte{[]byte("AAA"), []byte("BB"), []byte("CCCC")}
	var paths []string
	for i, p := range parts {
		path := filepath.Join(dir, string(rune('a'+i))+".mp3")
		if err := os.WriteFile(path, p, 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	got, err := MergeFiles(paths)
	if err != nil {
		t.Fatalf("MergeFiles: %v", err)
	}
	want := []byte("AAABBCCCC")
	if !bytes.Equal(got, want) {
		t.Errorf("merged = %q, want %q", got, want)
	}

	// 拼接结果的长度必须恰好等于各段长度之和
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if len(got) != total {
		t.Errorf("merged length = %d, want %d", len(got), total)
	}
}

func TestMergeFiles_EmptyInput(t *testing.T) {
	_, err := MergeFiles(nil)
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("MergeFiles(nil) error = %v, want ErrNoInput", err)
	}
}

func TestMergeFiles_MissingFile(t *testing.T) {
	_, err := MergeFiles([]string{filepath.Join(t.TempDir(), "missing.mp3")})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProbe_InvalidData(t *testing.T) {
	if _, err := Probe([]byte("not an mp3 at all")); err == nil {
		t.Error("expected error for invalid MP3 data")
	}
}
