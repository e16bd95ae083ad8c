package document

import "strings"

// minChunkLength is the shortest chunk worth indexing. Chunks trimming to
// fewer characters are dropped, which can silently lose content from very
// short inputs; the single-chunk short-circuit below is the only exception.
const minChunkLength = 50

// Chunker splits text into overlapping, sentence-aware segments.
// Overlap must be smaller than size to guarantee forward progress.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	return &Chunker{
		size:    size,
		overlap: overlap,
	}
}

// Chunk slides a window of c.size characters over the text, preferring to
// cut at a sentence terminator found within the trailing half of the window.
// Consecutive non-terminal chunks share exactly c.overlap characters of
// source text.
func (c *Chunker) Chunk(text string) []string {
	if len(text) <= c.size {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}

		// scan backward for a sentence boundary, at most size/2 characters
		if end < len(text) {
			limit := start + c.size/2
			if floor := end - 100; floor > limit {
				limit = floor
			}
			for i := end; i > limit; i-- {
				if text[i] == '.' || text[i] == '!' || text[i] == '?' {
					end = i + 1
					break
				}
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		if len(chunk) >= minChunkLength {
			chunks = append(chunks, chunk)
		}

		if end >= len(text) {
			break
		}

		newStart := end - c.overlap
		if newStart <= start {
			// ensure progress to avoid infinite loop
			newStart = start + 1
		}
		start = newStart
	}

	return chunks
}
