package rag

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
)

// Status values reported by the health endpoint.
const (
	StatusReady   = "ready"
	StatusLoading = "loading_or_disabled"
)

// Index is the knowledge index. Build runs once; after a successful build
// the index is read-only and Retrieve serves exact cosine nearest-neighbor
// queries. Against an unbuilt or failed index Retrieve returns nil, never an
// error — callers treat empty retrieval as "no augmentation".
type Index struct {
	corpusPath   string
	fragmentSize int
	topK         int
	embedder     Embedder

	mu        sync.RWMutex
	fragments []Fragment
	vectors   [][]float32
	ready     bool
}

// Option configures an Index after config-driven initialization.
type Option func(*Index)

// WithEmbedder overrides the config-created embedder.
func WithEmbedder(e Embedder) Option {
	return func(idx *Index) {
		if e != nil {
			idx.embedder = e
		}
	}
}

// NewIndex creates an unbuilt Index from configuration.
func NewIndex(cfg *Config, opts ...Option) *Index {
	idx := &Index{
		corpusPath:   cfg.CorpusPath,
		fragmentSize: cfg.FragmentSize,
		topK:         cfg.TopK,
		embedder:     NewOllamaEmbedder(cfg.EmbedBaseURL, cfg.EmbedModel, cfg.embedTimeout()),
	}
	if idx.topK <= 0 {
		idx.topK = DefaultTopK
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Build loads the corpus, fragments it, embeds every fragment, and marks the
// index ready. Any failure leaves the index unavailable and is returned for
// logging only; callers must not treat it as fatal. Build is intended to run
// once from a background goroutine.
func (idx *Index) Build(ctx context.Context) error {
	if idx.corpusPath == "" {
		return fmt.Errorf("rag: no corpus path configured")
	}

	raw, err := os.ReadFile(idx.corpusPath)
	if err != nil {
		return fmt.Errorf("rag: read corpus: %w", err)
	}

	fragments := SplitCorpus(string(raw), idx.fragmentSize)
	if len(fragments) == 0 {
		return fmt.Errorf("rag: corpus %q produced no fragments", idx.corpusPath)
	}

	vectors := make([][]float32, len(fragments))
	for i, frag := range fragments {
		vec, err := idx.embedder.Embed(ctx, frag.Text)
		if err != nil {
			return fmt.Errorf("rag: embed fragment %d: %w", i, err)
		}
		vectors[i] = normalize(vec)
	}

	idx.mu.Lock()
	idx.fragments = fragments
	idx.vectors = vectors
	idx.ready = true
	idx.mu.Unlock()
	return nil
}

// Ready reports whether the index has been built successfully.
func (idx *Index) Ready() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.ready
}

// Status returns the health-endpoint status string for the index.
func (idx *Index) Status() string {
	if idx.Ready() {
		return StatusReady
	}
	return StatusLoading
}

// Len returns the number of indexed fragments.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.fragments)
}

// Retrieve returns up to k fragment texts most similar to the query, best
// first. k <= 0 uses the configured default. An unready index or a failed
// query embedding yields nil.
func (idx *Index) Retrieve(ctx context.Context, query string, k int) []string {
	idx.mu.RLock()
	ready := idx.ready
	fragments := idx.fragments
	vectors := idx.vectors
	idx.mu.RUnlock()

	if !ready || query == "" {
		return nil
	}
	if k <= 0 {
		k = idx.topK
	}

	queryVec, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil
	}
	queryVec = normalize(queryVec)

	type scored struct {
		text  string
		score float32
	}
	results := make([]scored, 0, len(fragments))
	for i, vec := range vectors {
		results = append(results, scored{text: fragments[i].Text, score: dot(queryVec, vec)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	texts := make([]string, k)
	for i := range texts {
		texts[i] = results[i].text
	}
	return texts
}

// normalize scales a vector to unit length so dot products are cosine
// similarities. Zero vectors are returned unchanged.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) * inv)
	}
	return out
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
