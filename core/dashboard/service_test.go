package dashboard_test

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diplomasi/admin/core/catalog"
	"github.com/diplomasi/admin/core/course"
	"github.com/diplomasi/admin/core/dashboard"
	"github.com/diplomasi/admin/storage/fixtures"
)

type courseStatsFunc func(ctx context.Context) (course.Stats, error)

func (f courseStatsFunc) Stats(ctx context.Context) (course.Stats, error) { return f(ctx) }

func newService(t *testing.T, stats courseStatsFunc) *dashboard.Service {
	src, err := fixtures.NewSource(0)
	require.NoError(t, err)
	return dashboard.NewService(src, stats, catalog.NewService(src))
}

func TestService_Dashboard(t *testing.T) {
	want := course.Stats{TotalCourses: 2, ActiveCourses: 2, TotalLearners: 2135, AverageCompletion: 85}
	svc := newService(t, func(context.Context) (course.Stats, error) { return want, nil })

	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	if assert.Len(t, dash.Stats, 4) {
		assert.Equal(t, "2,543", dash.Stats[0].Value)
	}
	assert.Equal(t, 1245, dash.FeaturedCourse.Learners)
	assert.Len(t, dash.CoursesInProgress, 4)
	assert.Len(t, dash.LearningPath, 3)
	assert.Equal(t, 42.5, dash.LearningPoints[1].Points)

	assert.Equal(t, want, dash.Live.Courses)
	assert.Equal(t, 4, dash.Live.Counts[catalog.Questions])
	assert.Equal(t, 4, dash.Live.Counts[catalog.Glossary])
	assert.Equal(t, 3, dash.Live.Counts[catalog.Subscriptions])
	assert.Len(t, dash.Live.Counts, len(catalog.ListCollections))
}

func TestService_DashboardError(t *testing.T) {
	boom := errors.New("boom")
	svc := newService(t, func(context.Context) (course.Stats, error) { return course.Stats{}, boom })

	_, err := svc.Dashboard(context.Background())
	assert.Equal(t, boom, pkgerrors.Cause(err))
}

func TestService_Reports(t *testing.T) {
	svc := newService(t, nil)

	report, err := svc.Reports(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Summary, 4)
	assert.Len(t, report.Monthly, 6)
	assert.Equal(t, 323000, report.TotalRevenue())
	if assert.Len(t, report.CourseCompletions, 4) {
		assert.Equal(t, 87, report.CourseCompletions[0].Rate)
	}

	var share int
	for _, p := range report.PlanDistribution {
		share += p.Value
	}
	assert.Equal(t, 100, share)
}
