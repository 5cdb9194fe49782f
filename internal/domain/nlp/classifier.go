package nlp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"sync"

	"smartface-server-go/internal/domain/nlp/cache"
	"smartface-server-go/internal/domain/nlp/inter"
	platformerrors "smartface-server-go/internal/platform/errors"
)

// Result carries the winning intent and the raw cosine similarity that
// produced it. Confidence stays at the best score even when the threshold
// demotes the intent to unknown, so callers can log near misses.
type Result struct {
	Intent     Intent
	Confidence float64
}

// Classifier assigns an intent to free text by comparing its embedding
// against precomputed embeddings of every example phrase in the catalog.
type Classifier struct {
	mu        sync.RWMutex
	embedder  inter.Embedder
	cache     cache.Cache
	catalog   *Catalog
	threshold float64
	index     map[Intent][][]float64
	warmed    bool
}

// NewClassifier wires the classifier. Call Warm before serving traffic so
// the first request does not pay for embedding the whole catalog.
func NewClassifier(embedder inter.Embedder, c cache.Cache, catalog *Catalog, threshold float64) *Classifier {
	return &Classifier{
		embedder:  embedder,
		cache:     c,
		catalog:   catalog,
		threshold: threshold,
		index:     make(map[Intent][][]float64),
	}
}

// Warm embeds every catalog example and builds the similarity index.
// It is safe to call more than once; later calls are no-ops.
func (cl *Classifier) Warm(ctx context.Context) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.warmed {
		return nil
	}
	for _, intent := range cl.catalog.Intents() {
		examples := cl.catalog.Examples(intent)
		vectors, err := cl.embedCached(ctx, examples)
		if err != nil {
			return err
		}
		cl.index[intent] = vectors
	}
	cl.warmed = true
	return nil
}

// AddExamples registers new example phrases at runtime and embeds them
// immediately so they take effect for the next classification.
func (cl *Classifier) AddExamples(ctx context.Context, intent Intent, examples []string) error {
	cleaned := make([]string, 0, len(examples))
	for _, ex := range examples {
		ex = strings.TrimSpace(ex)
		if ex != "" {
			cleaned = append(cleaned, ex)
		}
	}
	if len(cleaned) == 0 {
		return platformerrors.New(platformerrors.KindNLP, "classifier.add", "at least one example phrase required")
	}

	vectors, err := cl.embedCached(ctx, cleaned)
	if err != nil {
		return err
	}

	cl.mu.Lock()
	cl.catalog.Add(intent, cleaned)
	cl.index[intent] = append(cl.index[intent], vectors...)
	cl.mu.Unlock()
	return nil
}

// Classify returns the best matching intent for the text. Empty or
// whitespace-only input short-circuits to unknown without touching the
// embedding API.
func (cl *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Result{Intent: IntentUnknown, Confidence: 0}, nil
	}

	cl.mu.RLock()
	warmed := cl.warmed
	cl.mu.RUnlock()
	if !warmed {
		if err := cl.Warm(ctx); err != nil {
			return Result{}, err
		}
	}

	// The query embedding happens outside the classifier lock so a slow
	// embedding call never stalls classifications that hit the cache.
	vectors, err := cl.embedCached(ctx, []string{normalized})
	if err != nil {
		return Result{}, err
	}
	query := vectors[0]

	cl.mu.RLock()
	defer cl.mu.RUnlock()

	best := Result{Intent: IntentUnknown, Confidence: 0}
	for _, intent := range cl.catalog.Intents() {
		for _, example := range cl.index[intent] {
			score := cosine(query, example)
			if score > best.Confidence {
				best = Result{Intent: intent, Confidence: score}
			}
		}
	}
	if best.Confidence < cl.threshold {
		best.Intent = IntentUnknown
	}
	return best, nil
}

// Threshold returns the configured confidence gate.
func (cl *Classifier) Threshold() float64 {
	return cl.threshold
}

// Catalog exposes the live intent catalog for inspection endpoints.
func (cl *Classifier) Catalog() *Catalog {
	return cl.catalog
}

// embedCached resolves each text through the cache, batching only the
// misses into a single embedding call. Safe for concurrent use; the cache
// does its own locking, so callers need no classifier lock.
func (cl *Classifier) embedCached(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		key := embedKey(text)
		vector, ok, err := cl.cache.Get(ctx, key)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindNLP, "classifier.embed", "embedding cache read failed", err)
		}
		if ok {
			out[i] = vector
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) > 0 {
		vectors, err := cl.embedder.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(missTexts) {
			return nil, platformerrors.New(platformerrors.KindNLP, "classifier.embed", "embedder returned wrong vector count")
		}
		for j, i := range missIdx {
			out[i] = vectors[j]
			if err := cl.cache.Set(ctx, embedKey(missTexts[j]), vectors[j]); err != nil {
				return nil, platformerrors.Wrap(platformerrors.KindNLP, "classifier.embed", "embedding cache write failed", err)
			}
		}
	}
	return out, nil
}

// embedKey hashes the exact string sent to the embedder. Normalizing here
// would alias case variants to one slot and hand the second variant the
// first one's vector.
func embedKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
