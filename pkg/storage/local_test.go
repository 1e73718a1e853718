package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := l.Exists(ctx, "reports/631_9L_0924.PDF")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Put(ctx, "reports/631_9L_0924.PDF", "application/pdf", strings.NewReader("%PDF-1.7")))

	ok, err = l.Exists(ctx, "reports/631_9L_0924.PDF")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := l.Get(ctx, "reports/631_9L_0924.PDF")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestLocalGetMissingIsErrNotFound(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = l.Get(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalListByPrefix(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "reports/a.pdf", "", strings.NewReader("a")))
	require.NoError(t, l.Put(ctx, "reports/b.pdf", "", strings.NewReader("b")))
	require.NoError(t, l.Put(ctx, "cache/textract/a.json", "", strings.NewReader("{}")))

	infos, err := l.List(ctx, "reports/")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "reports/a.pdf", infos[0].Key)
	assert.Equal(t, int64(1), infos[0].Size)
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = l.Get(context.Background(), "../outside.txt")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLocalDeleteIsIdempotent(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "x.pdf", "", strings.NewReader("x")))
	require.NoError(t, l.Delete(ctx, "x.pdf"))
	require.NoError(t, l.Delete(ctx, "x.pdf"))

	ok, err := l.Exists(ctx, "x.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}
