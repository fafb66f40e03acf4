// Package rechunk orchestrates the pivot from yearly gridded archives to
// per-cell daily CSV series.
package rechunk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/era5-rechunk/internal/archive"
	"github.com/couchcryptid/era5-rechunk/internal/domain"
	"github.com/couchcryptid/era5-rechunk/internal/observability"
)

// CellSource yields the target cells, typically from a shapefile or CSV.
type CellSource interface {
	Cells(ctx context.Context) ([]domain.Cell, error)
}

// Extractor reads the daily series for one point from one yearly archive.
type Extractor interface {
	CellDaily(path string, lon, lat float64) (domain.CellSeries, error)
}

// SeriesWriter persists a cell's full daily series and returns the path it
// was written to.
type SeriesWriter interface {
	WriteSeries(name string, series domain.CellSeries) (string, error)
}

// EventPublisher emits a completion event per finished cell. Optional.
type EventPublisher interface {
	PublishCellDone(ctx context.Context, result domain.CellResult) error
}

// Converter maps cell centroids between the national grid and the archive's
// geographic coordinates.
type Converter interface {
	ToGeographic(easting, northing float64) (lon, lat float64, err error)
	GridRef(lon, lat float64, figs int) (string, error)
}

// Runner drives a full rechunking run: consolidate the requested years, then
// extract and write every cell's series.
type Runner struct {
	cells     CellSource
	extractor Extractor
	writer    SeriesWriter
	publisher EventPublisher // nil disables completion events
	conv      Converter

	rawDir  string
	years   []int // empty means discover from rawDir
	workers int
	figs    int

	logger  *slog.Logger
	metrics *observability.Metrics

	ready atomic.Bool
	done  atomic.Int64
	fail  atomic.Int64
	total atomic.Int64
}

// New creates a Runner. publisher may be nil.
func New(cells CellSource, extractor Extractor, writer SeriesWriter, publisher EventPublisher,
	conv Converter, rawDir string, years []int, workers, figs int,
	logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		cells:     cells,
		extractor: extractor,
		writer:    writer,
		publisher: publisher,
		conv:      conv,
		rawDir:    rawDir,
		years:     years,
		workers:   workers,
		figs:      figs,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once consolidation has finished and extraction
// has begun, or an error describing why the service is not yet ready.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("yearly archives are not consolidated yet")
	}
	return nil
}

// Progress reports how many cells finished, failed, and were requested.
func (r *Runner) Progress() (done, failed, total int64) {
	return r.done.Load(), r.fail.Load(), r.total.Load()
}

// Run executes one full rechunking pass. Consolidation failures abort the
// run; per-cell failures are logged, counted, and skipped so one bad cell
// never discards the rest of the batch.
func (r *Runner) Run(ctx context.Context) error {
	r.metrics.RunActive.Set(1)
	defer r.metrics.RunActive.Set(0)

	years := r.years
	if len(years) == 0 {
		var err error
		if years, err = r.discoverYears(); err != nil {
			return err
		}
	}
	if len(years) == 0 {
		return fmt.Errorf("no archive years found in %s", r.rawDir)
	}
	r.logger.Info("run started", "years", len(years), "first", years[0], "last", years[len(years)-1], "workers", r.workers)

	yearly := make([]string, len(years))
	for i, year := range years {
		path, err := archive.ConsolidateYear(r.rawDir, year, r.logger)
		if err != nil {
			return fmt.Errorf("consolidate year %d: %w", year, err)
		}
		yearly[i] = path
		r.metrics.YearsConsolidated.Inc()
	}
	r.ready.Store(true)

	cells, err := r.cells.Cells(ctx)
	if err != nil {
		return fmt.Errorf("load cells: %w", err)
	}
	r.total.Store(int64(len(cells)))
	r.logger.Info("extracting cells", "cells", len(cells))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, cell := range cells {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := r.processCell(ctx, cell, yearly); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Error("cell failed, skipping", "cell", cell.Name,
					"easting", cell.Easting, "northing", cell.Northing, "error", err)
				r.metrics.CellsFailed.Inc()
				r.fail.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	done, failed, total := r.Progress()
	r.logger.Info("run finished", "cells_done", done, "cells_failed", failed, "cells_total", total)
	return ctx.Err()
}

// processCell writes one cell's complete daily series across all years.
func (r *Runner) processCell(ctx context.Context, cell domain.Cell, yearly []string) error {
	start := time.Now()

	lon, lat, err := r.conv.ToGeographic(cell.Easting, cell.Northing)
	if err != nil {
		return err
	}
	name := cell.Name
	if name == "" {
		if name, err = r.conv.GridRef(lon, lat, r.figs); err != nil {
			return err
		}
	}

	var series domain.CellSeries
	for _, path := range yearly {
		t0 := time.Now()
		fragment, err := r.extractor.CellDaily(path, lon, lat)
		if err != nil {
			return err
		}
		r.metrics.ExtractDuration.Observe(time.Since(t0).Seconds())
		series = append(series, fragment...)
	}

	path, err := r.writer.WriteSeries(name, series)
	if err != nil {
		return fmt.Errorf("write series for %s: %w", name, err)
	}

	r.metrics.CellsProcessed.Inc()
	r.metrics.RowsWritten.Add(float64(len(series)))
	r.metrics.CellDuration.Observe(time.Since(start).Seconds())
	r.done.Add(1)
	r.logger.Debug("cell written", "cell", name, "rows", len(series), "path", path)

	if r.publisher != nil {
		result := domain.NewCellResult(name, len(yearly), len(series), path)
		if err := r.publisher.PublishCellDone(ctx, result); err != nil {
			r.logger.Warn("publish completion event failed", "cell", name, "error", err)
		} else {
			r.metrics.EventsPublished.Inc()
		}
	}
	return nil
}

// discoverYears lists years that have either a consolidated yearly archive
// or at least one monthly archive in the raw directory.
func (r *Runner) discoverYears() ([]int, error) {
	candidates, err := archive.ListAvailableYears(r.rawDir)
	if err != nil {
		return nil, err
	}
	var years []int
	for _, year := range candidates {
		if _, ok, err := archive.FindYearlyFile(r.rawDir, year); err != nil {
			return nil, err
		} else if ok {
			years = append(years, year)
			continue
		}
		monthly, err := archive.FindMonthlyFiles(r.rawDir, year)
		if err != nil {
			return nil, err
		}
		if len(monthly) > 0 {
			years = append(years, year)
		}
	}
	return years, nil
}
