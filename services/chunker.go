package services

import "strings"

// DefaultChunkSize is the number of words per chunk.
const DefaultChunkSize = 200

// NormalizeText replaces newlines and carriage returns with spaces, collapses
// whitespace runs into single spaces, and trims the ends.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ChunkText splits normalized text into non-overlapping blocks of chunkSize
// words; the final block may be shorter. Joining the chunks with single
// spaces reproduces the normalized input exactly.
func ChunkText(text string, chunkSize int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+chunkSize-1)/chunkSize)
	for i := 0; i < len(words); i += chunkSize {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
