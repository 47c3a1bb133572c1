// Package fixtures serves the embedded sample data of the dashboard.
package fixtures

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/diplomasi/admin/core/catalog"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Source is a catalog.Source over the embedded YAML fixtures.
// Every Fetch waits for the configured delay to mimic a remote API.
// Removed records are only dropped from the in-memory copy.
type Source struct {
	delay time.Duration

	mu          sync.RWMutex
	collections map[string][]byte // {collection: JSON array}
}

var (
	_ catalog.Source  = (*Source)(nil)
	_ catalog.Remover = (*Source)(nil)
)

func NewSource(delay time.Duration) (*Source, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, errors.Wrap(err, "reading fixtures")
	}

	src := &Source{delay: delay, collections: make(map[string][]byte, len(entries))}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		raw, err := dataFS.ReadFile(path.Join("data", entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s fixtures", name)
		}

		var records []interface{}
		if err = yaml.Unmarshal(raw, &records); err != nil {
			return nil, errors.Wrapf(err, "decoding %s fixtures", name)
		}
		if src.collections[name], err = json.Marshal(records); err != nil {
			return nil, errors.Wrapf(err, "encoding %s fixtures", name)
		}
	}
	return src, nil
}

// Fetch decodes a fresh copy of the collection into dst after the source delay.
func (src *Source) Fetch(ctx context.Context, collection string, dst interface{}) error {
	if v := reflect.ValueOf(dst); v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return catalog.ErrInvalidTarget
	}
	data, ok := src.collection(collection)
	if !ok {
		return catalog.ErrUnknownCollection
	}

	if src.delay > 0 {
		timer := time.NewTimer(src.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	return errors.Wrapf(json.Unmarshal(data, dst), "decoding %s", collection)
}

// Collections returns the names of the embedded collections, sorted.
func (src *Source) Collections() []string {
	src.mu.RLock()
	defer src.mu.RUnlock()
	names := make([]string, 0, len(src.collections))
	for name := range src.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns the records of a collection as JSON documents, in fixture order.
func (src *Source) Raw(collection string) ([]json.RawMessage, error) {
	data, ok := src.collection(collection)
	if !ok {
		return nil, catalog.ErrUnknownCollection
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", collection)
	}
	return docs, nil
}

func (src *Source) collection(name string) ([]byte, bool) {
	src.mu.RLock()
	defer src.mu.RUnlock()
	data, ok := src.collections[name]
	return data, ok
}

// Remove drops the record id from the collection.
func (src *Source) Remove(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src.mu.Lock()
	defer src.mu.Unlock()

	data, ok := src.collections[collection]
	if !ok {
		return catalog.ErrUnknownCollection
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return errors.Wrapf(err, "decoding %s", collection)
	}
	for i, doc := range docs {
		var rec struct {
			ID interface{} `json:"id"`
		}
		if err := json.Unmarshal(doc, &rec); err != nil {
			return errors.Wrapf(err, "decoding %s #%d", collection, i)
		}
		if rec.ID == nil || fmt.Sprint(rec.ID) != id {
			continue
		}
		out, err := json.Marshal(append(docs[:i], docs[i+1:]...))
		if err != nil {
			return errors.Wrapf(err, "encoding %s", collection)
		}
		src.collections[collection] = out
		return nil
	}
	return catalog.ErrRecordNotFound
}
