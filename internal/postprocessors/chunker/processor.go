// Package chunker provides a recursive character text splitter.
//
// Text is cut at the coarsest separator that falls inside the size window
// (paragraph, line, sentence, word) and only hard-cut when none does.
// Adjacent chunks of one document share exactly the configured overlap,
// so the text can be rebuilt by dropping each chunk's leading overlap.
package chunker

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Splitter = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparators are tried in order, coarsest first.
// The empty separator means a hard character cut.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// chunkNamespace scopes chunk IDs derived from document ID and position.
var chunkNamespace = uuid.MustParse("8a6a7a35-6c1e-4b8e-9f3d-2f43b1c0d9e1")

// Processor splits document content into overlapping chunks.
// It implements the Splitter interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy.
// A trailing "" is appended if missing so a cut is always possible.
func WithSeparators(seps []string) Option {
	return func(p *Processor) {
		if len(seps) == 0 {
			return
		}
		p.separators = append([]string(nil), seps...)
		if p.separators[len(p.separators)-1] != "" {
			p.separators = append(p.separators, "")
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split splits every document into chunks, preserving document order.
// Overlap is never carried across documents.
func (p *Processor) Split(ctx context.Context, docs []domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, p.splitDocument(&docs[i])...)
	}
	return chunks, nil
}

func (p *Processor) splitDocument(doc *domain.Document) []domain.Chunk {
	spans := p.Spans(doc.Content)
	if len(spans) == 0 {
		return nil
	}

	key := doc.ID
	if key == "" {
		key = doc.Source()
	}

	text := []rune(doc.Content)
	chunks := make([]domain.Chunk, 0, len(spans))
	for position, span := range spans {
		meta := domain.CopyMetadata(doc.Metadata)
		meta[domain.MetadataStartIndex] = span.Start

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.NewSHA1(chunkNamespace, []byte(key+"#"+strconv.Itoa(position))).String(),
			DocumentID: doc.ID,
			Content:    string(text[span.Start:span.End]),
			Position:   position,
			Metadata:   meta,
		})
	}
	return chunks
}

// Span is a half-open character range [Start, End) of a text.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in characters.
func (s Span) Len() int {
	return s.End - s.Start
}

// Spans computes the chunk ranges for text, measured in characters (runes).
// Whitespace-only text yields no spans.
func (p *Processor) Spans(content string) []Span {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	text := []rune(content)
	n := len(text)
	if n <= p.chunkSize {
		return []Span{{Start: 0, End: n}}
	}

	spans := make([]Span, 0, n/(p.chunkSize-p.overlap)+1)
	start := 0
	for {
		if n-start <= p.chunkSize {
			spans = append(spans, Span{Start: start, End: n})
			return spans
		}
		end := p.boundary(text, start)
		spans = append(spans, Span{Start: start, End: end})
		start = end - p.overlap
	}
}

// boundary picks the end of the chunk starting at start. It looks for the
// last occurrence of each separator in the back half of the window, so a
// chunk is never shorter than half the chunk size (or overlap+1) unless the
// text runs out. The separator stays with the chunk it ends.
func (p *Processor) boundary(text []rune, start int) int {
	limit := start + p.chunkSize
	lowest := start + max(p.overlap+1, p.chunkSize/2)
	if lowest > limit {
		lowest = limit
	}
	window := string(text[lowest:limit])

	for _, sep := range p.separators {
		if sep == "" {
			break
		}
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		return lowest + utf8.RuneCountInString(window[:idx]) + utf8.RuneCountInString(sep)
	}
	return limit
}
