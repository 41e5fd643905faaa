package search

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/styleme-cloud/stylesearch/internal/domain"
	"github.com/styleme-cloud/stylesearch/internal/index"
)

// fakeEmbedder returns a fixed unit vector unless overridden.
type fakeEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	texts   []string
	mu      sync.Mutex
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.embedFn != nil {
		return f.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0}}, nil
}

// fakeGenerator replies with a canned string unless overridden.
type fakeGenerator struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
	reply      string
	prompts    []string
	mu         sync.Mutex
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.generateFn != nil {
		return f.generateFn(ctx, prompt)
	}
	return f.reply, nil
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// fakeHistory is an in-memory HistoryStore.
type fakeHistory struct {
	recentFn func(ctx context.Context, userID int64, limit int) ([]string, error)
	appendFn func(ctx context.Context, userID int64, query string) error
	appended []string
	mu       sync.Mutex
	done     chan struct{} // closed on first Append, for fire-and-forget tests
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{done: make(chan struct{})}
}

func (f *fakeHistory) Recent(ctx context.Context, userID int64, limit int) ([]string, error) {
	if f.recentFn != nil {
		return f.recentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (f *fakeHistory) Append(ctx context.Context, userID int64, query string) error {
	f.mu.Lock()
	f.appended = append(f.appended, query)
	f.mu.Unlock()
	select {
	case <-f.done:
	default:
		close(f.done)
	}
	if f.appendFn != nil {
		return f.appendFn(ctx, userID, query)
	}
	return nil
}

func (f *fakeHistory) appendedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.appended...)
}

// fakeLogger records log rows.
type fakeLogger struct {
	entries []LogEntry
	prefs   int
	err     error
	mu      sync.Mutex
	done    chan struct{}
}

func newFakeLogger() *fakeLogger {
	return &fakeLogger{done: make(chan struct{})}
}

func (f *fakeLogger) LogSearch(_ context.Context, entry LogEntry) error {
	f.mu.Lock()
	f.entries = append(f.entries, entry)
	f.mu.Unlock()
	select {
	case <-f.done:
	default:
		close(f.done)
	}
	return f.err
}

func (f *fakeLogger) LogPreferences(_ context.Context, _ int64, _ string, _ domain.Preferences, _ []int64) error {
	f.mu.Lock()
	f.prefs++
	f.mu.Unlock()
	return f.err
}

func (f *fakeLogger) logged() []LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LogEntry(nil), f.entries...)
}

// newTestIndex builds a 2-dim index over the given product IDs, all vectors
// aligned with the query axis.
func newTestIndex(t *testing.T, ids ...int64) *index.Snapshot {
	t.Helper()
	items := make([]domain.CatalogItem, len(ids))
	vectors := make([][]float32, len(ids))
	for i, id := range ids {
		items[i] = domain.CatalogItem{ID: id, Name: "Item", Price: 100}
		vectors[i] = []float32{1, 0}
	}
	ix, err := index.New(items, vectors)
	if err != nil {
		t.Fatalf("index.New: %v", err)
	}
	snap := index.NewSnapshot()
	snap.Swap(ix)
	return snap
}

func newTestService(t *testing.T, snap *index.Snapshot, gen *fakeGenerator, history *fakeHistory, logs *fakeLogger) *Service {
	t.Helper()
	// A nil *fakeHistory passed straight into the HistoryStore parameter
	// would yield a non-nil interface wrapping a nil pointer, defeating the
	// service's nil guards. Convert to a true nil interface first.
	var h HistoryStore
	if history != nil {
		h = history
	}
	var l Logger
	if logs != nil {
		l = logs
	}
	return New(snap, &fakeEmbedder{}, gen, h, l, zap.NewNop(), Options{})
}
