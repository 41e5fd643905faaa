package domain

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("norm^2 = %f, want 1.0", norm)
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("Normalize([3 4]) = %v, want [0.6 0.8]", v)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := Normalize([]float32{0, 0, 0})
	for i, x := range v {
		if x != 0 {
			t.Errorf("v[%d] = %f, want 0", i, x)
		}
	}
}

type funcEmbedder func(ctx context.Context, text string) (EmbeddingResult, error)

func (f funcEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return f(ctx, text)
}

func TestEmbedBatch(t *testing.T) {
	calls := 0
	emb := funcEmbedder(func(_ context.Context, text string) (EmbeddingResult, error) {
		calls++
		return EmbeddingResult{Embedding: []float32{float32(len(text))}}, nil
	})

	vecs, err := EmbedBatch(context.Background(), emb, []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if calls != 3 || len(vecs) != 3 {
		t.Fatalf("calls = %d, len = %d, want 3/3", calls, len(vecs))
	}
	if vecs[1][0] != 2 {
		t.Errorf("vecs[1] = %v, want [2]", vecs[1])
	}
}

func TestEmbedBatch_PropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	emb := funcEmbedder(func(_ context.Context, text string) (EmbeddingResult, error) {
		if text == "bad" {
			return EmbeddingResult{}, wantErr
		}
		return EmbeddingResult{Embedding: []float32{1}}, nil
	})

	_, err := EmbedBatch(context.Background(), emb, []string{"ok", "bad"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
