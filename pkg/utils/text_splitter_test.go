package utils

import "testing"

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{name: "short text stays whole", text: "hello world", chunkSize: 100, overlap: 10, wantChunks: 1},
		{name: "exact size stays whole", text: "abcde", chunkSize: 5, overlap: 1, wantChunks: 1},
		{name: "splits with overlap", text: "abcdefghij", chunkSize: 4, overlap: 2, wantChunks: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.wantChunks {
				t.Fatalf("got %d chunks %v, want %d", len(chunks), chunks, tt.wantChunks)
			}
		})
	}
}

func TestSplitTextOverlapPreservesContext(t *testing.T) {
	chunks := SplitText("abcdefghij", 4, 2)
	// step = 2: [abcd, cdef, efgh, ghij]
	want := []string{"abcd", "cdef", "efgh", "ghij"}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: got %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitTextHandlesMultibyteRunes(t *testing.T) {
	text := "привіт як справи сьогодні все добре"
	chunks := SplitText(text, 10, 2)
	var rebuilt []rune
	for i, c := range chunks {
		runes := []rune(c)
		if i == 0 {
			rebuilt = append(rebuilt, runes...)
			continue
		}
		// Skip the overlapping prefix when reassembling.
		if len(runes) > 2 {
			rebuilt = append(rebuilt, runes[2:]...)
		}
	}
	if string(rebuilt) != text {
		t.Errorf("chunks do not reassemble: %q != %q", string(rebuilt), text)
	}
}
