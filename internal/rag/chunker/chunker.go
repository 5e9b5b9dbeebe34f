// Package chunker splits document text into fixed-size overlapping spans.
package chunker

import (
	"fmt"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
)

// Spec is one chunk of a document. Offsets count characters (runes) and
// form the half-open range [CharStart, CharEnd).
type Spec struct {
	Index     int
	CharStart int
	CharEnd   int
	Text      string
}

type Chunker struct {
	size    int
	overlap int
}

type Option func(*Chunker)

func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.size = size
	}
}

func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New returns a chunker, rejecting parameters outside 0 < overlap < size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		size:    config.DefaultChunkSize,
		overlap: config.DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := validate(c.size, c.overlap); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Chunker) Size() int    { return c.size }
func (c *Chunker) Overlap() int { return c.overlap }

func (c *Chunker) Split(text string) []Spec {
	return split([]rune(text), c.size, c.overlap)
}

// Split chunks text with the given size and overlap.
func Split(text string, size, overlap int) ([]Spec, error) {
	if err := validate(size, overlap); err != nil {
		return nil, err
	}
	return split([]rune(text), size, overlap), nil
}

// Count is the number of chunks Split produces for a text of n characters.
func Count(n, size, overlap int) int {
	if n == 0 {
		return 0
	}
	if n <= size {
		return 1
	}
	step := size - overlap
	return (n - overlap + step - 1) / step
}

func validate(size, overlap int) error {
	if overlap <= 0 || overlap >= size {
		return errorModel.New(errorModel.KindValidation,
			fmt.Sprintf("chunk overlap must satisfy 0 < overlap < size, got size=%d overlap=%d", size, overlap))
	}
	return nil
}

// The loop stops as soon as a chunk reaches the end of the text, so a tail
// no longer than the overlap is never emitted as a duplicate chunk.
func split(runes []rune, size, overlap int) []Spec {
	n := len(runes)
	if n == 0 {
		return nil
	}

	specs := make([]Spec, 0, Count(n, size, overlap))
	start := 0
	for {
		end := min(start+size, n)
		specs = append(specs, Spec{
			Index:     len(specs),
			CharStart: start,
			CharEnd:   end,
			Text:      string(runes[start:end]),
		})
		if end == n {
			break
		}
		start = end - overlap
	}
	return specs
}
