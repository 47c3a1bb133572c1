package catalog

import (
	"context"
	"errors"

	"github.com/diplomasi/admin/core"
)

// All is the filter value that disables a categorical filter.
const All = "all"

// Collections
const (
	Articles      = "articles"
	Certificates  = "certificates"
	Glossary      = "glossary"
	Lessons       = "lessons"
	Levels        = "levels"
	Notifications = "notifications"
	Questions     = "questions"
	Subscriptions = "subscriptions"
	Users         = "users"
	Courses       = "courses"
	Dashboard     = "dashboard"
	Reports       = "reports"
)

var (
	// errors
	ErrUnknownCollection  = errors.New("unknown collection")
	ErrInvalidTarget      = errors.New("fetch target must be a pointer to a slice")
	ErrRecordNotFound     = errors.New("record not found")
	ErrReadOnlyCollection = errors.New("records of this collection cannot be deleted")
)

// ListCollections are the collections served by the list views.
var ListCollections = []string{
	Articles, Certificates, Glossary, Lessons, Levels, Notifications, Questions, Subscriptions,
}

// SourceCollections are every collection a Source may serve.
var SourceCollections = append(append([]string(nil), ListCollections...), Users, Courses, Dashboard, Reports)

// IsSourceCollection reports whether name is one of SourceCollections.
func IsSourceCollection(name string) bool {
	for _, c := range SourceCollections {
		if c == name {
			return true
		}
	}
	return false
}

// Source is an asynchronous data source of records grouped in collections.
type Source interface {
	// Fetch loads every record of collection into dst, which must be a pointer to a slice.
	// Fetch returns ctx.Err() when ctx is done before the records are available.
	Fetch(ctx context.Context, collection string, dst interface{}) error
}

// Remover is implemented by sources able to delete a record of a collection by id.
// Remove returns ErrRecordNotFound when no record carries id.
type Remover interface {
	Remove(ctx context.Context, collection, id string) error
}

// DeletableCollections are the list views offering a delete action.
var DeletableCollections = []string{Glossary}

// Query is the state of a list view: free-text search, categorical filters and ordering.
type Query struct {
	Search    string
	Filters   map[string]string
	Orderings []core.Ordering
}

func NewQuery(search string, filters map[string]string, orderings ...core.Ordering) Query {
	return Query{Search: search, Filters: filters, Orderings: orderings}
}

// Filter returns the value selected for a categorical filter, and false when the filter
// is unset or set to All.
func (q Query) Filter(name string) (string, bool) {
	v := core.CleanString(q.Filters[name])
	if v == "" || v == All {
		return "", false
	}
	return v, true
}

// MatchSearch reports whether the search is empty or one of the fields contains it,
// ignoring case. The search is matched as typed, whitespace included.
func (q Query) MatchSearch(fields ...string) bool {
	if q.Search == "" {
		return true
	}
	for _, f := range fields {
		if core.ContainsFold(f, q.Search) {
			return true
		}
	}
	return false
}

// MatchFilter reports whether value satisfies the named categorical filter.
func (q Query) MatchFilter(name, value string) bool {
	sel, ok := q.Filter(name)
	return !ok || sel == value
}

// Record is a row of a list view.
type Record interface {
	SearchFields() []string
	FilterValues() map[string]string // {filter: value}
	Field(name string) (interface{}, bool)
}

// Match reports whether r satisfies the search and every active filter it knows about.
func (q Query) Match(r Record) bool {
	if !q.MatchSearch(r.SearchFields()...) {
		return false
	}
	values := r.FilterValues()
	for name := range q.Filters {
		if v, known := values[name]; known && !q.MatchFilter(name, v) {
			return false
		}
	}
	return true
}

// Result is a filtered list view.
type Result struct {
	Collection string              `json:"collection"`
	Total      int                 `json:"total"` // unfiltered
	Count      int                 `json:"count"`
	Items      []Record            `json:"items"`
	Facets     map[string][]string `json:"facets"` // {filter: distinct values}
}

// Apply filters and orders records. Facets are computed over the unfiltered records.
func Apply(collection string, q Query, records []Record) Result {
	res := Result{
		Collection: collection,
		Total:      len(records),
		Items:      make([]Record, 0, len(records)),
		Facets:     facets(records),
	}
	for _, r := range records {
		if q.Match(r) {
			res.Items = append(res.Items, r)
		}
	}
	res.Count = len(res.Items)

	items := res.Items
	core.SortRows(
		len(items),
		func(i, j int) { items[i], items[j] = items[j], items[i] },
		func(i int, field string) (interface{}, bool) { return items[i].Field(field) },
		q.Orderings,
	)
	return res
}

func facets(records []Record) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, r := range records {
		for name, v := range r.FilterValues() {
			if seen[name] == nil {
				seen[name] = make(map[string]bool)
				out[name] = []string{}
			}
			if v == "" || seen[name][v] {
				continue
			}
			seen[name][v] = true
			out[name] = append(out[name], v)
		}
	}
	return out
}
