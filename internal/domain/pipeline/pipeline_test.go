package pipeline

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiritsdata/nabca-extract/internal/domain/byclass"
	"github.com/spiritsdata/nabca-extract/internal/domain/engine"
	"github.com/spiritsdata/nabca-extract/internal/domain/records"
	"github.com/spiritsdata/nabca-extract/internal/domain/top100"
	"github.com/spiritsdata/nabca-extract/pkg/storage"
)

type fakeStore struct {
	objects map[string][]byte
	puts    []string
	gets    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f.gets = append(f.gets, key)
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

type fakeRepo struct {
	vendors    []string
	vendorsErr error
}

func (f *fakeRepo) ReplaceBrandSummary(ctx context.Context, runID uuid.UUID, period engine.Period, recs []engine.Record) (int64, error) {
	return int64(len(recs)), nil
}

func (f *fakeRepo) ReplaceVendorSummary(ctx context.Context, runID uuid.UUID, period engine.Period, recs []engine.Record) (int64, error) {
	return int64(len(recs)), nil
}

func (f *fakeRepo) ReplaceCurrentMonth(ctx context.Context, runID uuid.UUID, period engine.Period, recs []byclass.Record) (int64, error) {
	return int64(len(recs)), nil
}

func (f *fakeRepo) ReplaceTop100(ctx context.Context, runID uuid.UUID, period engine.Period, recs []top100.Record) (int64, error) {
	return int64(len(recs)), nil
}

func (f *fakeRepo) RecordRun(ctx context.Context, run records.Run) error { return nil }

func (f *fakeRepo) KnownVendors(ctx context.Context) ([]string, error) {
	return f.vendors, f.vendorsErr
}

func TestRunRejectsUncataloguedPeriod(t *testing.T) {
	p := New(Options{Store: newFakeStore(), ReportsDir: "reports"})

	_, err := p.Run(context.Background(), engine.Period{Year: 2020, Month: 1}, []Report{ReportBrand})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no report catalogued")
}

func TestRunFailsWhenReportMissing(t *testing.T) {
	p := New(Options{Store: newFakeStore(), ReportsDir: "reports"})

	_, err := p.Run(context.Background(), engine.Period{Year: 2024, Month: 9}, []Report{ReportBrand})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunAllSkipsMissingMonths(t *testing.T) {
	store := newFakeStore()
	p := New(Options{Store: store, ReportsDir: "reports"})

	summaries, err := p.RunAll(context.Background(), []Report{ReportBrand})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestRunAllContinuesPastFailingMonths(t *testing.T) {
	store := newFakeStore()
	// Two months are present but unreadable; the backfill must still try
	// both and report both failures instead of stopping at the first.
	store.objects["reports/631_9L_0724.PDF"] = []byte("not a pdf")
	store.objects["reports/631_9L_0824.PDF"] = []byte("not a pdf either")

	p := New(Options{Store: store, ReportsDir: "reports"})

	summaries, err := p.RunAll(context.Background(), []Report{ReportBrand})
	require.Error(t, err)
	assert.Empty(t, summaries)

	assert.Equal(t, []string{"reports/631_9L_0724.PDF", "reports/631_9L_0824.PDF"}, store.gets)
	assert.Contains(t, err.Error(), "2024-07")
	assert.Contains(t, err.Error(), "2024-08")
}

func TestVendorIndexSurvivesRepoFailure(t *testing.T) {
	p := New(Options{
		Store: newFakeStore(),
		Repo:  &fakeRepo{vendorsErr: assert.AnError},
	})

	idx := p.vendorIndex(context.Background())
	require.NotNil(t, idx)
	assert.False(t, idx.Known("SAZERAC CO INC"))
}

func TestVendorIndexUsesPriorLoads(t *testing.T) {
	p := New(Options{
		Store: newFakeStore(),
		Repo:  &fakeRepo{vendors: []string{"SAZERAC CO INC"}},
	})

	idx := p.vendorIndex(context.Background())
	assert.True(t, idx.Known("SAZERAC CO INC"))
}
