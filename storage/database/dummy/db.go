// Package dummydb keeps every repository in memory. It backs the fixtures data source.
package dummydb

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/catalog"
	"github.com/diplomasi/admin/core/course"
	"github.com/diplomasi/admin/core/platform"
	"github.com/diplomasi/admin/core/user"
)

type (
	DB struct {
		course   *courseTable
		user     *userTable
		account  *accountTable
		settings *settingsTable
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Aggregate
		ids   []string // insertion order
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	accountTable struct {
		sync.RWMutex
		table map[string]*auth.Account
	}

	settingsTable struct {
		sync.RWMutex
		settings platform.Settings
	}
)

func Open() (*DB, error) {
	db := &DB{
		course:   &courseTable{table: make(map[string]*course.Aggregate)},
		user:     &userTable{table: make(map[string]*user.User)},
		account:  &accountTable{table: make(map[string]*auth.Account)},
		settings: &settingsTable{settings: platform.DefaultSettings},
	}
	return db, nil
}

// Load fills the course and user tables from src.
func (db *DB) Load(ctx context.Context, src catalog.Source) error {
	var courses []course.Course
	if err := src.Fetch(ctx, catalog.Courses, &courses); err != nil {
		return errors.Wrap(err, "loading courses")
	}
	var users []user.User
	if err := src.Fetch(ctx, catalog.Users, &users); err != nil {
		return errors.Wrap(err, "loading users")
	}

	courseRepo := NewCourseRepository(db)
	for _, c := range courses {
		if _, err := courseRepo.CreateCourse(ctx, course.NewAggregate(c)); err != nil {
			return err
		}
	}
	return errors.Wrap(user.NewService(NewUserRepository(db)).Import(ctx, users...), "importing users")
}
