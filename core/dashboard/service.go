// Package dashboard serves the dashboard and reports pages.
package dashboard

import (
	"context"
	"errors"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/diplomasi/admin/core/catalog"
	"github.com/diplomasi/admin/core/course"
)

var ErrNoData = errors.New("no data available")

type (
	// CourseStats computes the courses overview.
	CourseStats interface {
		Stats(ctx context.Context) (course.Stats, error)
	}

	// Counter counts the records of a catalog collection.
	Counter interface {
		Count(ctx context.Context, collection string) (int, error)
	}

	Service struct {
		src     catalog.Source
		courses CourseStats
		counter Counter
	}

	// Live is computed from the current data instead of the dashboard fixtures.
	Live struct {
		Courses course.Stats   `json:"courses"`
		Counts  map[string]int `json:"counts"` // {collection: records}
	}

	Dashboard struct {
		Overview
		Live Live `json:"live"`
	}
)

func NewService(src catalog.Source, courses CourseStats, counter Counter) *Service {
	return &Service{src: src, courses: courses, counter: counter}
}

// Dashboard returns the dashboard overview along with live counters.
func (svc *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		dash Dashboard
		mu   sync.Mutex
	)
	dash.Live.Counts = make(map[string]int, len(catalog.ListCollections))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var overviews []Overview
		if err := svc.src.Fetch(gctx, catalog.Dashboard, &overviews); err != nil {
			return pkgerrors.Wrap(err, "fetching dashboard")
		}
		if len(overviews) == 0 {
			return ErrNoData
		}
		dash.Overview = overviews[0]
		return nil
	})
	g.Go(func() error {
		stats, err := svc.courses.Stats(gctx)
		if err != nil {
			return pkgerrors.Wrap(err, "computing course stats")
		}
		dash.Live.Courses = stats
		return nil
	})
	for _, collection := range catalog.ListCollections {
		collection := collection
		g.Go(func() error {
			n, err := svc.counter.Count(gctx, collection)
			if err != nil {
				return pkgerrors.Wrapf(err, "counting %s", collection)
			}
			mu.Lock()
			dash.Live.Counts[collection] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}

func (svc *Service) Reports(ctx context.Context) (Report, error) {
	var reports []Report
	if err := svc.src.Fetch(ctx, catalog.Reports, &reports); err != nil {
		return Report{}, pkgerrors.Wrap(err, "fetching reports")
	}
	if len(reports) == 0 {
		return Report{}, ErrNoData
	}
	return reports[0], nil
}
