package core

import (
	"sort"
	"strings"
)

type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// FieldGetter returns the sortable value of the named field of row i, and false if the
// field is unknown. Sortable values are string, int, float64 or time-like strings.
type FieldGetter func(i int, field string) (interface{}, bool)

// SortRows stably sorts n rows by the given orderings. Unknown fields are ignored.
func SortRows(n int, swap func(i, j int), get FieldGetter, orderings []Ordering) {
	if len(orderings) == 0 || n < 2 {
		return
	}
	sort.Stable(rowSorter{n: n, swap: swap, get: get, orderings: orderings})
}

type rowSorter struct {
	n         int
	swap      func(i, j int)
	get       FieldGetter
	orderings []Ordering
}

func (s rowSorter) Len() int      { return s.n }
func (s rowSorter) Swap(i, j int) { s.swap(i, j) }

func (s rowSorter) Less(i, j int) bool {
	for _, ord := range s.orderings {
		a, ok := s.get(i, ord.Field)
		if !ok {
			continue
		}
		b, _ := s.get(j, ord.Field)
		c := compare(a, b)
		if c == 0 {
			continue
		}
		if ord.Ascending {
			return c < 0
		}
		return c > 0
	}
	return false
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case int:
		bv, _ := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case string:
		bv, _ := b.(string)
		return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
	}
	return 0
}
