package domain

import "strconv"

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 3

// ScoredChunk is a single similarity search hit.
type ScoredChunk struct {
	// Chunk is the matched passage.
	Chunk Chunk

	// Score is the cosine similarity to the query (higher is closer).
	Score float64
}

// Answer is the result of answering one question.
type Answer struct {
	// Question is the question as asked.
	Question string

	// Text is the raw model response (markdown-like study notes).
	Text string

	// Sources are the retrieved chunks, in retrieval order.
	Sources []ScoredChunk

	// Model is the chat model that produced the answer.
	Model string
}

// SourceLabels returns a citation label per source chunk, e.g. "notes.pdf (page 3)".
func (a *Answer) SourceLabels() []string {
	labels := make([]string, len(a.Sources))
	for i := range a.Sources {
		labels[i] = CitationLabel(&a.Sources[i].Chunk)
	}
	return labels
}

// CitationLabel formats a chunk's source for display.
// Page numbers are shown one-based.
func CitationLabel(c *Chunk) string {
	src := c.Source()
	if src == "" {
		src = "unknown source"
	}
	if page, ok := c.Page(); ok {
		return src + " (page " + strconv.Itoa(page+1) + ")"
	}
	return src
}
