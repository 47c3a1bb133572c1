package sqlxrepos

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"

	"github.com/diplomasi/admin/core/catalog"
)

func TestJSONArray(t *testing.T) {
	tests := []struct {
		name string
		docs []types.JSONText
		want string
	}{
		{"empty", nil, "[]"},
		{"one", []types.JSONText{types.JSONText(`{"id":"1"}`)}, `[{"id":"1"}]`},
		{"many", []types.JSONText{types.JSONText(`{"id":"1"}`), types.JSONText(`{"id":"2"}`)}, `[{"id":"1"},{"id":"2"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jsonArray(tt.docs)
			assert.Equal(t, tt.want, string(got))
			assert.True(t, json.Valid(got))
		})
	}
}

func TestCatalogSource_rejectsBeforeQuerying(t *testing.T) {
	ctx := context.Background()
	src := NewCatalogSource(nil) // never reached

	var rows []catalog.Article
	assert.Equal(t, catalog.ErrInvalidTarget, src.Fetch(ctx, catalog.Articles, rows))
	assert.Equal(t, catalog.ErrUnknownCollection, src.Fetch(ctx, "library", &rows))
	assert.Equal(t, catalog.ErrUnknownCollection, src.Seed(ctx, "library", nil))
	assert.Equal(t, catalog.ErrUnknownCollection, src.Remove(ctx, "library", "1"))
}
