package rechunk_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/era5-rechunk/internal/archive"
	"github.com/couchcryptid/era5-rechunk/internal/domain"
	"github.com/couchcryptid/era5-rechunk/internal/observability"
	"github.com/couchcryptid/era5-rechunk/internal/rechunk"
)

// --- mocks ---

type mockCells struct {
	cells []domain.Cell
	err   error
}

func (m *mockCells) Cells(context.Context) ([]domain.Cell, error) {
	return m.cells, m.err
}

type mockExtractor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockExtractor) CellDaily(_ string, _, _ float64) (domain.CellSeries, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return domain.CellSeries{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)},
	}, nil
}

type mockWriter struct {
	mu      sync.Mutex
	written map[string]int
	err     error
}

func (m *mockWriter) WriteSeries(name string, series domain.CellSeries) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.written == nil {
		m.written = make(map[string]int)
	}
	m.written[name] = len(series)
	return filepath.Join("/out", name+".csv"), nil
}

type mockPublisher struct {
	mu      sync.Mutex
	results []domain.CellResult
	err     error
}

func (m *mockPublisher) PublishCellDone(_ context.Context, result domain.CellResult) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	m.results = append(m.results, result)
	m.mu.Unlock()
	return nil
}

// fakeConverter avoids projection machinery: geographic coordinates are the
// grid coordinates scaled down, and the derived name is fixed.
type fakeConverter struct {
	failEasting float64
}

func (f *fakeConverter) ToGeographic(easting, northing float64) (float64, float64, error) {
	if f.failEasting != 0 && easting == f.failEasting {
		return 0, 0, errors.New("cannot transform coordinate")
	}
	return easting / 1e5, northing / 1e5, nil
}

func (f *fakeConverter) GridRef(lon, lat float64, figs int) (string, error) {
	return fmt.Sprintf("SX%02.0f%02.0f", lon, lat), nil
}

// touchYearly drops an empty consolidated archive so consolidation is a
// no-op for that year.
func touchYearly(t *testing.T, dir string, year int) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, archive.YearlyFileName(year)), nil, 0o644))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRunner(cells *mockCells, ext *mockExtractor, w *mockWriter, pub rechunk.EventPublisher,
	conv rechunk.Converter, rawDir string, years []int, workers int) *rechunk.Runner {
	return rechunk.New(cells, ext, w, pub, conv, rawDir, years, workers, 4,
		discardLogger(), observability.NewMetricsForTesting())
}

// --- tests ---

func TestRunner_Run_HappyPath(t *testing.T) {
	rawDir := t.TempDir()
	touchYearly(t, rawDir, 2020)

	cells := &mockCells{cells: []domain.Cell{
		{Name: "tile_a", Easting: 250000, Northing: 60000},
		{Easting: 310000, Northing: 70000}, // unnamed, gets a derived reference
	}}
	ext := &mockExtractor{}
	w := &mockWriter{}
	pub := &mockPublisher{}

	r := newRunner(cells, ext, w, pub, &fakeConverter{}, rawDir, []int{2020}, 2)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, map[string]int{"tile_a": 3, "SX0301": 3}, w.written)
	require.Len(t, pub.results, 2)
	for _, res := range pub.results {
		assert.Equal(t, 1, res.Years)
		assert.Equal(t, 3, res.Rows)
		assert.False(t, res.CompletedAt.IsZero())
	}

	done, failed, total := r.Progress()
	assert.Equal(t, int64(2), done)
	assert.Equal(t, int64(0), failed)
	assert.Equal(t, int64(2), total)
	assert.NoError(t, r.CheckReadiness(context.Background()))
}

func TestRunner_Run_MissingMonthsIsFatal(t *testing.T) {
	r := newRunner(&mockCells{}, &mockExtractor{}, &mockWriter{}, nil,
		&fakeConverter{}, t.TempDir(), []int{2021}, 1)

	err := r.Run(context.Background())
	require.Error(t, err)

	var missing *domain.MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 2021, missing.Year)
	assert.Error(t, r.CheckReadiness(context.Background()))
}

func TestRunner_Run_SkipsFailedCell(t *testing.T) {
	rawDir := t.TempDir()
	touchYearly(t, rawDir, 2020)

	cells := &mockCells{cells: []domain.Cell{
		{Name: "good", Easting: 250000, Northing: 60000},
		{Name: "bad", Easting: 999999, Northing: 60000},
	}}
	w := &mockWriter{}

	r := newRunner(cells, &mockExtractor{}, w, nil,
		&fakeConverter{failEasting: 999999}, rawDir, []int{2020}, 1)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, map[string]int{"good": 3}, w.written)
	done, failed, _ := r.Progress()
	assert.Equal(t, int64(1), done)
	assert.Equal(t, int64(1), failed)
}

func TestRunner_Run_DiscoversYears(t *testing.T) {
	rawDir := t.TempDir()
	touchYearly(t, rawDir, 2019)
	touchYearly(t, rawDir, 2020)

	cells := &mockCells{cells: []domain.Cell{{Name: "only", Easting: 250000, Northing: 60000}}}
	ext := &mockExtractor{}
	w := &mockWriter{}

	r := newRunner(cells, ext, w, nil, &fakeConverter{}, rawDir, nil, 1)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, 2, ext.calls) // one extraction per discovered year
	assert.Equal(t, 6, w.written["only"])
}

func TestRunner_Run_NoYearsFound(t *testing.T) {
	r := newRunner(&mockCells{}, &mockExtractor{}, &mockWriter{}, nil,
		&fakeConverter{}, t.TempDir(), nil, 1)
	assert.Error(t, r.Run(context.Background()))
}

func TestRunner_Run_PublishFailureDoesNotFailCell(t *testing.T) {
	rawDir := t.TempDir()
	touchYearly(t, rawDir, 2020)

	cells := &mockCells{cells: []domain.Cell{{Name: "a", Easting: 250000, Northing: 60000}}}
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	w := &mockWriter{}

	r := newRunner(cells, &mockExtractor{}, w, pub, &fakeConverter{}, rawDir, []int{2020}, 1)
	require.NoError(t, r.Run(context.Background()))

	done, failed, _ := r.Progress()
	assert.Equal(t, int64(1), done)
	assert.Equal(t, int64(0), failed)
}

func TestRunner_Run_WriteFailureCountsAsFailed(t *testing.T) {
	rawDir := t.TempDir()
	touchYearly(t, rawDir, 2020)

	cells := &mockCells{cells: []domain.Cell{{Name: "a", Easting: 250000, Northing: 60000}}}
	w := &mockWriter{err: errors.New("disk full")}

	r := newRunner(cells, &mockExtractor{}, w, nil, &fakeConverter{}, rawDir, []int{2020}, 1)
	require.NoError(t, r.Run(context.Background()))

	done, failed, _ := r.Progress()
	assert.Equal(t, int64(0), done)
	assert.Equal(t, int64(1), failed)
}

func TestRunner_Run_ContextCancelled(t *testing.T) {
	rawDir := t.TempDir()
	touchYearly(t, rawDir, 2020)

	cells := &mockCells{cells: []domain.Cell{{Name: "a", Easting: 250000, Northing: 60000}}}
	r := newRunner(cells, &mockExtractor{}, &mockWriter{}, nil, &fakeConverter{}, rawDir, []int{2020}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, r.Run(ctx))
}
