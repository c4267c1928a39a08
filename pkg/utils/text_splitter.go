package utils

// SplitText breaks a document into rune-based chunks of at most chunkSize
// characters. Consecutive chunks share 'overlap' characters so context
// survives the boundary. Splitting is character based, not token aware.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		// An overlap at or above the chunk size would never advance.
		step = chunkSize
	}

	runes := []rune(text)
	total := len(runes)

	var chunks []string
	for i := 0; i < total; i += step {
		end := i + chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == total {
			break
		}
	}

	return chunks
}
