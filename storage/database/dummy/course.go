package dummydb

import (
	"context"

	"github.com/diplomasi/admin/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) CreateCourse(_ context.Context, agg *course.Aggregate) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[agg.Course.ID]; !ok {
		repo.db.ids = append(repo.db.ids, agg.Course.ID)
	}
	repo.db.table[agg.Course.ID] = agg
	return agg.Snapshot(), nil
}

func (repo *courseRepository) QueryCourses(_ context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.ids))
	for _, id := range repo.db.ids {
		courses = append(courses, repo.db.table[id].Snapshot())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	agg, ok := repo.db.table[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return agg.Snapshot(), nil
}

func (repo *courseRepository) GetCourseSummary(_ context.Context, id string) (course.Summary, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	agg, ok := repo.db.table[id]
	if !ok {
		return course.Summary{}, course.ErrNotFound
	}
	return agg.Summary(), nil
}

func (repo *courseRepository) MutateCourse(
	_ context.Context,
	id string,
	fn func(agg *course.Aggregate) error,
) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	agg, ok := repo.db.table[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	if err := fn(agg); err != nil {
		return course.Course{}, err
	}
	return agg.Snapshot(), nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.table, id)
	for i, cid := range repo.db.ids {
		if cid == id {
			repo.db.ids = append(repo.db.ids[:i], repo.db.ids[i+1:]...)
			break
		}
	}
	return nil
}
