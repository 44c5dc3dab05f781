package chunkplan

// Chunk is a half-open item range [StartItem, EndItem) to be scored as one
// unit, plus the start of its read-only leading context. Context items are
// sent to the scorer but never charged any surprisal themselves.
type Chunk struct {
	StartItem        int
	EndItem          int
	ContextStartItem int
}

// Plan partitions n items into contiguous windows of chunkSize items each.
// The windows tile [0, n) exactly. Each window carries up to contextSize
// preceding items as context, so ContextStartItem <= StartItem always holds.
func Plan(n, chunkSize, contextSize int) []Chunk {
	if n <= 0 {
		return nil
	}
	if chunkSize < 1 {
		chunkSize = 1
	}
	if contextSize < 0 {
		contextSize = 0
	}

	chunks := make([]Chunk, 0, n/chunkSize+1)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		ctx := start - contextSize
		if ctx < 0 {
			ctx = 0
		}
		chunks = append(chunks, Chunk{StartItem: start, EndItem: end, ContextStartItem: ctx})
	}
	return chunks
}
