package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/catalog"
)

const (
	orderingParam = "ordering"
	searchParam   = "search"
)

// bindOrdering reads `?ordering=title,-createdAt`; a leading "-" sorts descending.
func bindOrdering(ctx echo.Context) []core.Ordering {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return nil
	}

	var orderings []core.Ordering
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, core.Ordering{Field: field, Ascending: !descending})
	}
	return orderings
}

// bindQuery builds a list view query: every param other than search and ordering is a filter.
func bindQuery(ctx echo.Context) catalog.Query {
	params := ctx.QueryParams()
	filters := make(map[string]string, len(params))
	for name, vals := range params {
		if name == searchParam || name == orderingParam || len(vals) == 0 {
			continue
		}
		filters[name] = vals[0]
	}
	return catalog.NewQuery(params.Get(searchParam), filters, bindOrdering(ctx)...)
}
