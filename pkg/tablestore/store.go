// Package tablestore models a partitioned key/value table service: entities
// are addressed by (PartitionKey, RowKey), carry an opaque ETag that changes
// on every write, and are listed in key order one page at a time.
package tablestore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("tablestore: entity not found")
	ErrPreconditionFailed = errors.New("tablestore: etag mismatch")
	ErrInvalidToken       = errors.New("tablestore: invalid continuation token")
	ErrInvalidKey         = errors.New("tablestore: partition key and row key are required")
)

// Property names addressing the system key columns in filters.
const (
	PartitionKeyProperty = "PartitionKey"
	RowKeyProperty       = "RowKey"
)

// AnyETag makes a conditional write unconditional.
const AnyETag = "*"

// Entity is one table row. Properties hold string, bool, int64, float64 and
// time.Time values; other numeric kinds are widened when written.
type Entity struct {
	PartitionKey string
	RowKey       string
	ETag         string
	Timestamp    time.Time
	Properties   map[string]any
}

type UpdateMode int

const (
	// Merge overlays the given properties on the stored ones.
	Merge UpdateMode = iota
	// Replace swaps the whole property set.
	Replace
)

func (m UpdateMode) String() string {
	if m == Replace {
		return "replace"
	}
	return "merge"
}

// Filter is an equality predicate on a system key or a property.
type Filter struct {
	Property string
	Value    string
}

func Eq(property, value string) *Filter {
	return &Filter{Property: property, Value: value}
}

type ListOptions struct {
	Filter            *Filter
	MaxPageSize       int
	ContinuationToken string
}

// Page is one slice of a listing. ContinuationToken is empty once the
// listing is exhausted.
type Page struct {
	Items             []Entity
	ContinuationToken string
}

// Store is the capability set the repository layer needs from a table service.
type Store interface {
	// PutEntity inserts or replaces the entity keyed by (PartitionKey, RowKey)
	// and returns it with the new ETag and Timestamp.
	PutEntity(ctx context.Context, e Entity) (Entity, error)
	// UpdateEntity writes an existing entity. A non-empty etag other than
	// AnyETag must match the stored one or ErrPreconditionFailed is returned.
	UpdateEntity(ctx context.Context, e Entity, mode UpdateMode, etag string) (Entity, error)
	DeleteEntity(ctx context.Context, partitionKey, rowKey string) error
	ListEntities(ctx context.Context, opts ListOptions) (Page, error)
	Ping(ctx context.Context) error
}

const defaultPageSize = 1000

func pageSize(n int) int {
	if n <= 0 || n > defaultPageSize {
		return defaultPageSize
	}
	return n
}

func validKeys(e Entity) error {
	if e.PartitionKey == "" || e.RowKey == "" {
		return ErrInvalidKey
	}
	return nil
}
