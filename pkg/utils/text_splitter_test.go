package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 1000, 200)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("short input should stay a single chunk, got %v", chunks)
	}
}

func TestSplitTextChunkBounds(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := SplitText(text, 1000, 200)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len([]rune(chunk)) > 1000 {
			t.Errorf("chunk %d exceeds chunk size: %d runes", i, len([]rune(chunk)))
		}
	}
}

func TestSplitTextOverlap(t *testing.T) {
	// Distinct runes make the overlap verifiable.
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteRune(rune('a' + i%26))
	}
	chunks := SplitText(b.String(), 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	first := []rune(chunks[0])
	second := []rune(chunks[1])
	if string(first[len(first)-20:]) != string(second[:20]) {
		t.Error("consecutive chunks should share the overlap region")
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("x", 500)
	chunks := SplitText(text, 100, 100)

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	// Step falls back to the chunk size, so the text is covered without
	// an infinite loop.
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total < len(text) {
		t.Errorf("chunks cover %d of %d characters", total, len(text))
	}
}
