package sqlxrepos

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core/catalog"
)

const (
	selectRecords = `SELECT data FROM catalog_records WHERE collection = $1 ORDER BY position`
	deleteRecords = `DELETE FROM catalog_records WHERE collection = $1`
	insertRecord  = `INSERT INTO catalog_records (collection, position, data) VALUES ($1, $2, $3)`
	removeRecord  = `DELETE FROM catalog_records WHERE collection = $1 AND data->>'id' = $2`
)

// CatalogSource is a catalog.Source reading the catalog_records table.
type CatalogSource struct {
	db *sqlx.DB
}

var (
	_ catalog.Source  = (*CatalogSource)(nil)
	_ catalog.Remover = (*CatalogSource)(nil)
)

func NewCatalogSource(db *sqlx.DB) *CatalogSource {
	return &CatalogSource{db: db}
}

func (src *CatalogSource) Fetch(ctx context.Context, collection string, dst interface{}) error {
	if v := reflect.ValueOf(dst); v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return catalog.ErrInvalidTarget
	}
	if !catalog.IsSourceCollection(collection) {
		return catalog.ErrUnknownCollection
	}

	var docs []types.JSONText
	if err := src.db.SelectContext(ctx, &docs, selectRecords, collection); err != nil {
		return errors.Wrapf(err, "selecting %s", collection)
	}
	return errors.Wrapf(json.Unmarshal(jsonArray(docs), dst), "decoding %s", collection)
}

// Seed replaces the records of collection with docs, keeping their order.
func (src *CatalogSource) Seed(ctx context.Context, collection string, docs []json.RawMessage) (err error) {
	if !catalog.IsSourceCollection(collection) {
		return catalog.ErrUnknownCollection
	}

	tx, err := src.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteRecords, collection); err != nil {
		return errors.Wrapf(err, "clearing %s", collection)
	}
	stmt, err := tx.PreparexContext(ctx, insertRecord)
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer func() { _ = stmt.Close() }()

	for i, doc := range docs {
		if _, err = stmt.ExecContext(ctx, collection, i, string(doc)); err != nil {
			return errors.Wrapf(err, "inserting %s #%d", collection, i)
		}
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (src *CatalogSource) Remove(ctx context.Context, collection, id string) error {
	if !catalog.IsSourceCollection(collection) {
		return catalog.ErrUnknownCollection
	}
	res, err := src.db.ExecContext(ctx, removeRecord, collection, id)
	if err != nil {
		return errors.Wrapf(err, "deleting %s %s", collection, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting deleted records")
	}
	if n == 0 {
		return catalog.ErrRecordNotFound
	}
	return nil
}

// jsonArray joins JSON documents into a JSON array.
func jsonArray(docs []types.JSONText) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, doc := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(doc)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
