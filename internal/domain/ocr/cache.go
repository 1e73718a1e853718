package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/spiritsdata/nabca-extract/internal/domain/layout"
)

// BlobStore is the storage surface the cache needs.
type BlobStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CachedSource caches Textract results as JSON blobs. OCR is the slowest
// and most expensive stage of an extraction run, and reruns with adjusted
// band calibrations are common, so results are kept indefinitely per
// document key.
type CachedSource struct {
	src   TokenSource
	store BlobStore
	log   *slog.Logger
}

// NewCachedSource wraps src with a token cache.
func NewCachedSource(src TokenSource, store BlobStore, log *slog.Logger) *CachedSource {
	if log == nil {
		log = slog.Default()
	}
	return &CachedSource{src: src, store: store, log: log}
}

// Analyze returns cached tokens when present, otherwise runs the underlying
// analysis and stores the result. A failed cache write is logged and
// swallowed; the tokens are still returned.
func (c *CachedSource) Analyze(ctx context.Context, key string) ([]layout.Token, error) {
	cacheKey := cacheKeyFor(key)

	ok, err := c.store.Exists(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("ocr: check cache %s: %w", cacheKey, err)
	}
	if ok {
		rc, err := c.store.Get(ctx, cacheKey)
		if err != nil {
			return nil, fmt.Errorf("ocr: read cache %s: %w", cacheKey, err)
		}
		defer rc.Close()

		var tokens []layout.Token
		if err := json.NewDecoder(rc).Decode(&tokens); err != nil {
			return nil, fmt.Errorf("ocr: decode cache %s: %w", cacheKey, err)
		}
		c.log.Info("textract cache hit", slog.String("key", key), slog.Int("tokens", len(tokens)))
		return tokens, nil
	}

	tokens, err := c.src.Analyze(ctx, key)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return nil, fmt.Errorf("ocr: encode cache: %w", err)
	}
	if err := c.store.Put(ctx, cacheKey, "application/json", bytes.NewReader(data)); err != nil {
		c.log.Warn("textract cache write failed", slog.String("key", cacheKey), slog.Any("error", err))
	}
	return tokens, nil
}

func cacheKeyFor(docKey string) string {
	return "cache/textract/" + path.Base(docKey) + ".json"
}
