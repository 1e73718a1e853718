package ocr

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiritsdata/nabca-extract/internal/domain/layout"
)

type memStore struct {
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Put(_ context.Context, key, _ string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.blobs[key] = data
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.blobs[key]
	return ok, nil
}

type fakeSource struct {
	tokens []layout.Token
	calls  int
}

func (f *fakeSource) Analyze(context.Context, string) ([]layout.Token, error) {
	f.calls++
	return f.tokens, nil
}

func TestCachedSource(t *testing.T) {
	src := &fakeSource{tokens: []layout.Token{
		{Page: 1, Text: "VODKA-CLASSIC-DOM", X: 0.067, Y: 0.1},
	}}
	cache := NewCachedSource(src, newMemStore(), nil)

	first, err := cache.Analyze(context.Background(), "subsets/631_9L_0724_brand.pdf")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, src.calls)

	// Second call must come from the cache, not the source.
	second, err := cache.Analyze(context.Background(), "subsets/631_9L_0724_brand.pdf")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls)
}
