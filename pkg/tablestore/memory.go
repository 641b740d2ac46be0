package tablestore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryKey struct {
	pk string
	rk string
}

// MemoryStore is an in-process Store used for local runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[memoryKey]Entity
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities: make(map[memoryKey]Entity),
		now:      time.Now,
	}
}

func newETag() string {
	return fmt.Sprintf(`W/"%s"`, uuid.NewString())
}

func (s *MemoryStore) PutEntity(ctx context.Context, e Entity) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return Entity{}, err
	}
	if err := validKeys(e); err != nil {
		return Entity{}, err
	}
	props, err := normalizeProperties(e.Properties)
	if err != nil {
		return Entity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := Entity{
		PartitionKey: e.PartitionKey,
		RowKey:       e.RowKey,
		ETag:         newETag(),
		Timestamp:    s.now().UTC(),
		Properties:   props,
	}
	s.entities[memoryKey{e.PartitionKey, e.RowKey}] = stored
	return cloneEntity(stored), nil
}

func (s *MemoryStore) UpdateEntity(ctx context.Context, e Entity, mode UpdateMode, etag string) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return Entity{}, err
	}
	if err := validKeys(e); err != nil {
		return Entity{}, err
	}
	props, err := normalizeProperties(e.Properties)
	if err != nil {
		return Entity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{e.PartitionKey, e.RowKey}
	current, ok := s.entities[key]
	if !ok {
		return Entity{}, ErrNotFound
	}
	if etag != "" && etag != AnyETag && etag != current.ETag {
		return Entity{}, ErrPreconditionFailed
	}

	if mode == Merge {
		merged := make(map[string]any, len(current.Properties)+len(props))
		for k, v := range current.Properties {
			merged[k] = v
		}
		for k, v := range props {
			merged[k] = v
		}
		props = merged
	}

	stored := Entity{
		PartitionKey: e.PartitionKey,
		RowKey:       e.RowKey,
		ETag:         newETag(),
		Timestamp:    s.now().UTC(),
		Properties:   props,
	}
	s.entities[key] = stored
	return cloneEntity(stored), nil
}

func (s *MemoryStore) DeleteEntity(ctx context.Context, partitionKey, rowKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{partitionKey, rowKey}
	if _, ok := s.entities[key]; !ok {
		return ErrNotFound
	}
	delete(s.entities, key)
	return nil
}

func (s *MemoryStore) ListEntities(ctx context.Context, opts ListOptions) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	var after *continuation
	if opts.ContinuationToken != "" {
		c, err := decodeToken(opts.ContinuationToken)
		if err != nil {
			return Page{}, err
		}
		after = &c
	}
	limit := pageSize(opts.MaxPageSize)

	s.mu.RLock()
	matched := make([]Entity, 0, len(s.entities))
	for _, e := range s.entities {
		if after != nil && !keyAfter(e.PartitionKey, e.RowKey, *after) {
			continue
		}
		if !matches(e, opts.Filter) {
			continue
		}
		matched = append(matched, cloneEntity(e))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PartitionKey != matched[j].PartitionKey {
			return matched[i].PartitionKey < matched[j].PartitionKey
		}
		return matched[i].RowKey < matched[j].RowKey
	})

	page := Page{Items: matched}
	if len(matched) > limit {
		page.Items = matched[:limit]
		last := page.Items[limit-1]
		page.ContinuationToken = encodeToken(last.PartitionKey, last.RowKey)
	}
	return page, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len reports the number of stored entities.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

func matches(e Entity, f *Filter) bool {
	if f == nil {
		return true
	}
	switch f.Property {
	case PartitionKeyProperty:
		return e.PartitionKey == f.Value
	case RowKeyProperty:
		return e.RowKey == f.Value
	}
	v, ok := e.Properties[f.Property]
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s == f.Value
}

func cloneEntity(e Entity) Entity {
	props := make(map[string]any, len(e.Properties))
	for k, v := range e.Properties {
		props[k] = v
	}
	e.Properties = props
	return e
}
