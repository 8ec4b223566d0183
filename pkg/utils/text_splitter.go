package utils

// SplitText cuts a long archived message into rune-based chunks of
// roughly chunkSize, overlapping by overlap runes so context survives
// the chunk boundary. Character-based slicing keeps every rune; a
// tokenizer-aware splitter would produce nicer boundaries but can drop
// content on odd input.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // overlap >= chunkSize would never advance
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
