package catalog

import (
	"context"

	"github.com/pkg/errors"
)

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

// Query fetches the collection from the data source and applies q to it.
func (svc *Service) Query(ctx context.Context, collection string, q Query) (Result, error) {
	records, err := svc.fetch(ctx, collection)
	if err != nil {
		return Result{}, err
	}
	return Apply(collection, q, records), nil
}

// Count returns the number of records of a collection.
func (svc *Service) Count(ctx context.Context, collection string) (int, error) {
	records, err := svc.fetch(ctx, collection)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Delete removes the record id of a deletable collection.
func (svc *Service) Delete(ctx context.Context, collection, id string) error {
	if !IsSourceCollection(collection) {
		return ErrUnknownCollection
	}
	deletable := false
	for _, c := range DeletableCollections {
		deletable = deletable || c == collection
	}
	remover, ok := svc.src.(Remover)
	if !deletable || !ok {
		return ErrReadOnlyCollection
	}
	return remover.Remove(ctx, collection, id)
}

func (svc *Service) fetch(ctx context.Context, collection string) ([]Record, error) {
	var records []Record
	var err error
	switch collection {
	case Articles:
		var rows []Article
		err = svc.src.Fetch(ctx, collection, &rows)
		for _, r := range rows {
			records = append(records, r)
		}
	case Certificates:
		var rows []Certificate
		err = svc.src.Fetch(ctx, collection, &rows)
		for _, r := range rows {
			records = append(records, r)
		}
	case Glossary:
		var rows []GlossaryTerm
		err = svc.src.Fetch(ctx, collection, &rows)
		for _, r := range rows {
			records = append(records, r)
		}
	case Lessons:
		var rows []LessonRow
		err = svc.src.Fetch(ctx, collection, &rows)
		for _, r := range rows {
			records = append(records, r)
		}
	case Levels:
		var rows []LevelRow
		err = svc.src.Fetch(ctx, collection, &rows)
		for _, r := range rows {
			records = append(records, r)
		}
	case Notifications:
		var rows []Notification
		err = svc.src.Fetch(ctx, collection, &rows)
		for _, r := range rows {
			records = append(records, r)
		}
	case Questions:
		var rows []QuestionRow
		err = svc.src.Fetch(ctx, collection, &rows)
		for _, r := range rows {
			records = append(records, r)
		}
	case Subscriptions:
		var rows []Subscription
		err = svc.src.Fetch(ctx, collection, &rows)
		for _, r := range rows {
			records = append(records, r)
		}
	default:
		return nil, ErrUnknownCollection
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", collection)
	}
	return records, nil
}
