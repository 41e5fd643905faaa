package index

import (
	"sync/atomic"

	"github.com/styleme-cloud/stylesearch/internal/domain"
)

// Snapshot owns the process-wide reference to the current Index. Readers get
// a consistent view without locking; a rebuild publishes a fully-built Index
// with a single atomic swap, so in-flight queries see either the old or the
// new index, never a partial one.
type Snapshot struct {
	current atomic.Pointer[Index]
}

// NewSnapshot creates an empty holder. Current returns ErrIndexNotReady
// until the first Swap.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Current returns the active index.
func (s *Snapshot) Current() (*Index, error) {
	ix := s.current.Load()
	if ix == nil {
		return nil, domain.ErrIndexNotReady
	}
	return ix, nil
}

// Ready reports whether an index has been published.
func (s *Snapshot) Ready() bool {
	return s.current.Load() != nil
}

// Swap publishes ix as the active index.
func (s *Snapshot) Swap(ix *Index) {
	s.current.Store(ix)
}
