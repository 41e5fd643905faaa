package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/styleme-cloud/stylesearch/internal/domain"
	"github.com/styleme-cloud/stylesearch/internal/index"
	healthuc "github.com/styleme-cloud/stylesearch/internal/usecase/health"
	indexeruc "github.com/styleme-cloud/stylesearch/internal/usecase/indexer"
	searchuc "github.com/styleme-cloud/stylesearch/internal/usecase/search"
)

// --- Fakes ---

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: append([]float32(nil), f.vec...)}, nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeHistory struct{}

func (fakeHistory) Recent(context.Context, int64, int) ([]string, error) { return nil, nil }
func (fakeHistory) Append(context.Context, int64, string) error         { return nil }

type fakeLogs struct{}

func (fakeLogs) LogSearch(context.Context, searchuc.LogEntry) error { return nil }
func (fakeLogs) LogPreferences(context.Context, int64, string, domain.Preferences, []int64) error {
	return nil
}

type fakeCatalog struct {
	items []domain.CatalogItem
	err   error
}

func (f *fakeCatalog) LoadCatalog(context.Context) ([]domain.CatalogItem, error) {
	return f.items, f.err
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

// --- Helpers ---

func testItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: 8, Name: "Linen Shirt", Price: 1500},
		{ID: 12, Name: "Denim Jacket", Price: 3500},
		{ID: 45, Name: "Silk Scarf", Price: 900},
	}
}

func testVectors() [][]float32 {
	return [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

type testServer struct {
	router  chirouter.Router
	gen     *fakeGenerator
	indexer *indexeruc.Service
}

func newTestServer(t *testing.T, ready bool) *testServer {
	t.Helper()

	snap := index.NewSnapshot()
	if ready {
		ix, err := index.New(testItems(), testVectors())
		if err != nil {
			t.Fatalf("build index: %v", err)
		}
		snap.Swap(ix)
	}

	gen := &fakeGenerator{reply: "12, 45, 8"}
	embed := &fakeEmbedder{vec: []float32{0.5, 0.5, 0.5}}

	searchSvc := searchuc.New(snap, embed, gen, fakeHistory{}, fakeLogs{}, zap.NewNop(), searchuc.Options{})
	indexerSvc := indexeruc.New(&fakeCatalog{items: testItems()}, embed, snap, zap.NewNop())
	healthSvc := healthuc.New(&fakePinger{}, &fakePinger{}, nil, snap)

	srv := NewServer(searchSvc, indexerSvc, healthSvc, zap.NewNop())
	r := chirouter.NewRouter()
	srv.Routes(r)

	return &testServer{router: r, gen: gen, indexer: indexerSvc}
}

func postJSON(t *testing.T, router chirouter.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// --- Tests ---

func TestSearch_OK(t *testing.T) {
	ts := newTestServer(t, true)

	rr := postJSON(t, ts.router, "/search", map[string]any{
		"query":   "summer jacket",
		"user_id": 7,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	want := []int64{12, 45, 8}
	if len(resp.ProductIDs) != len(want) {
		t.Fatalf("product_ids = %v, want %v", resp.ProductIDs, want)
	}
	for i, id := range want {
		if resp.ProductIDs[i] != id {
			t.Errorf("product_ids[%d] = %d, want %d", i, resp.ProductIDs[i], id)
		}
	}
	if resp.ResultsCount != 3 {
		t.Errorf("results_count = %d, want 3", resp.ResultsCount)
	}
}

func TestSearch_EmptyQuery_400(t *testing.T) {
	ts := newTestServer(t, true)

	rr := postJSON(t, ts.router, "/search", map[string]any{
		"query":   "   ",
		"user_id": 7,
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.ErrorType != "invalid_input" {
		t.Errorf("error_type = %q, want invalid_input", resp.ErrorType)
	}
}

func TestSearch_MalformedBody_400(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest("POST", "/search", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestSearch_IndexNotReady_503(t *testing.T) {
	ts := newTestServer(t, false)

	rr := postJSON(t, ts.router, "/search", map[string]any{
		"query":   "jacket",
		"user_id": 7,
	})

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ErrorType != "index_not_ready" {
		t.Errorf("error_type = %q, want index_not_ready", resp.ErrorType)
	}
}

func TestSearch_GenerationError_502(t *testing.T) {
	ts := newTestServer(t, true)
	ts.gen.err = domain.ErrGenerationProviderError

	rr := postJSON(t, ts.router, "/search", map[string]any{
		"query":   "jacket",
		"user_id": 7,
	})

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ErrorType != "upstream_unavailable" {
		t.Errorf("error_type = %q, want upstream_unavailable", resp.ErrorType)
	}
}

func TestSearchWithPreferences_OK(t *testing.T) {
	ts := newTestServer(t, true)

	rr := postJSON(t, ts.router, "/search_with_preferences", map[string]any{
		"query":   "party dress",
		"user_id": 7,
		"preferences": map[string]any{
			"style_preferences": []string{"casual"},
			"color_preferences": []string{"red"},
			"budget_max":        5000,
			"occasion":          "party",
		},
		"context": map[string]any{
			"season": "summer",
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp preferenceSearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if len(resp.MatchingScores) != len(resp.ProductIDs) {
		t.Errorf("matching_scores length %d != product_ids length %d",
			len(resp.MatchingScores), len(resp.ProductIDs))
	}
	if resp.EnhancedQuery == "" {
		t.Error("expected non-empty enhanced_query")
	}
	if resp.PreferencesApplied.Occasion != "party" {
		t.Errorf("preferences_applied.occasion = %q, want party", resp.PreferencesApplied.Occasion)
	}
}

func TestStats_NotReady(t *testing.T) {
	ts := newTestServer(t, false)

	req := httptest.NewRequest("GET", "/vector-store/stats", http.NoBody)
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp statsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Ready {
		t.Error("expected ready=false before first build")
	}
	if resp.TotalVectors != 0 {
		t.Errorf("total_vectors = %d, want 0", resp.TotalVectors)
	}
}

func TestRebuild_PublishesIndex(t *testing.T) {
	ts := newTestServer(t, false)

	req := httptest.NewRequest("POST", "/index/rebuild", http.NoBody)
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp statsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Ready {
		t.Error("expected ready=true after rebuild")
	}
	if resp.TotalVectors != 3 {
		t.Errorf("total_vectors = %d, want 3", resp.TotalVectors)
	}
	if resp.BuiltAt == "" {
		t.Error("expected built_at after rebuild")
	}
}

func TestHealth_OK(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Service != "stylesearch" {
		t.Errorf("service = %q, want stylesearch", resp.Service)
	}
}

func TestHealth_Degraded_503(t *testing.T) {
	snap := index.NewSnapshot()
	healthSvc := healthuc.New(&fakePinger{err: context.DeadlineExceeded}, &fakePinger{}, nil, snap)

	embed := &fakeEmbedder{vec: []float32{1}}
	searchSvc := searchuc.New(snap, embed, &fakeGenerator{}, fakeHistory{}, fakeLogs{}, zap.NewNop(), searchuc.Options{})
	indexerSvc := indexeruc.New(&fakeCatalog{}, embed, snap, zap.NewNop())

	srv := NewServer(searchSvc, indexerSvc, healthSvc, zap.NewNop())
	r := chirouter.NewRouter()
	srv.Routes(r)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}
