// Package naming assigns run indices and names to generated copies.
package naming

import "fmt"

// DefaultPrefix is the name prefix used when none is configured.
const DefaultPrefix = "keycap"

// Indexer hands out strictly increasing indices. An index is consumed only
// when Next is called, so attempts that fail before naming cost nothing.
type Indexer struct {
	next int
}

// NewIndexer returns an indexer whose first index is start.
func NewIndexer(start int) *Indexer {
	return &Indexer{next: start}
}

// Peek returns the index Next would return.
func (i *Indexer) Peek() int { return i.next }

// Next consumes and returns the next index.
func (i *Indexer) Next() int {
	n := i.next
	i.next++
	return n
}

// Namer formats copy names as <prefix>_r<row>_w<width>_<index>, with the
// width rounded to two decimals.
type Namer struct {
	Prefix string
}

// Name returns the name of the copy at row and width with the given index.
func (n Namer) Name(row int, width float64, index int) string {
	prefix := n.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_r%d_w%.2f_%d", prefix, row, width, index)
}
