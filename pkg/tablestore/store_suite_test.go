package tablestore_test

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"candidate-tracking-backend/pkg/tablestore"
)

// StoreSuite holds the behaviour every Store implementation must share.
type StoreSuite struct {
	suite.Suite
	ctx      context.Context
	store    tablestore.Store
	newStore func() tablestore.Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *StoreSuite) put(pk, rk string, props map[string]any) tablestore.Entity {
	e, err := s.store.PutEntity(s.ctx, tablestore.Entity{PartitionKey: pk, RowKey: rk, Properties: props})
	s.Require().NoError(err)
	return e
}

func (s *StoreSuite) listAll(opts tablestore.ListOptions) []tablestore.Entity {
	var out []tablestore.Entity
	for {
		page, err := s.store.ListEntities(s.ctx, opts)
		s.Require().NoError(err)
		out = append(out, page.Items...)
		if page.ContinuationToken == "" {
			return out
		}
		opts.ContinuationToken = page.ContinuationToken
	}
}

func (s *StoreSuite) TestPutAndList() {
	s.Run("put assigns etag and timestamp", func() {
		e := s.put("P", "r1", map[string]any{"name": "Ada"})
		s.NotEmpty(e.ETag)
		s.False(e.Timestamp.IsZero())
	})

	s.Run("typed properties survive the round trip", func() {
		when := time.Date(2025, 1, 15, 10, 30, 0, 123000000, time.UTC)
		s.put("T", "r1", map[string]any{
			"name":      "Ada",
			"salary":    85000.5,
			"years":     0.0,
			"count":     int64(7),
			"small":     3,
			"active":    true,
			"appliedAt": when,
		})

		items := s.listAll(tablestore.ListOptions{Filter: tablestore.Eq(tablestore.PartitionKeyProperty, "T")})
		s.Require().Len(items, 1)
		props := items[0].Properties
		s.Equal("Ada", props["name"])
		s.Equal(85000.5, props["salary"])
		s.Equal(0.0, props["years"])
		s.Equal(int64(7), props["count"])
		s.Equal(int64(3), props["small"])
		s.Equal(true, props["active"])
		s.True(when.Equal(props["appliedAt"].(time.Time)))
	})

	s.Run("nil properties are not stored", func() {
		s.put("N", "r1", map[string]any{"name": "Ada", "phone": nil})
		items := s.listAll(tablestore.ListOptions{Filter: tablestore.Eq(tablestore.PartitionKeyProperty, "N")})
		s.Require().Len(items, 1)
		_, ok := items[0].Properties["phone"]
		s.False(ok)
	})

	s.Run("missing keys rejected", func() {
		_, err := s.store.PutEntity(s.ctx, tablestore.Entity{PartitionKey: "P"})
		s.ErrorIs(err, tablestore.ErrInvalidKey)
	})
}

func (s *StoreSuite) TestUpdate() {
	s.Run("merge keeps untouched properties", func() {
		orig := s.put("P", "m", map[string]any{"name": "Ada", "status": "new"})
		updated, err := s.store.UpdateEntity(s.ctx, tablestore.Entity{
			PartitionKey: "P", RowKey: "m", Properties: map[string]any{"status": "hired"},
		}, tablestore.Merge, "")
		s.Require().NoError(err)
		s.NotEqual(orig.ETag, updated.ETag)
		s.Equal("Ada", updated.Properties["name"])
		s.Equal("hired", updated.Properties["status"])
	})

	s.Run("replace drops absent properties", func() {
		orig := s.put("P", "r", map[string]any{"name": "Ada", "notes": "x"})
		updated, err := s.store.UpdateEntity(s.ctx, tablestore.Entity{
			PartitionKey: "P", RowKey: "r", Properties: map[string]any{"name": "Bea"},
		}, tablestore.Replace, orig.ETag)
		s.Require().NoError(err)
		s.Equal("Bea", updated.Properties["name"])
		_, ok := updated.Properties["notes"]
		s.False(ok)
	})

	s.Run("stale etag rejected", func() {
		orig := s.put("P", "e", map[string]any{"name": "Ada"})
		_, err := s.store.UpdateEntity(s.ctx, tablestore.Entity{
			PartitionKey: "P", RowKey: "e", Properties: map[string]any{"name": "Bea"},
		}, tablestore.Replace, orig.ETag)
		s.Require().NoError(err)

		_, err = s.store.UpdateEntity(s.ctx, tablestore.Entity{
			PartitionKey: "P", RowKey: "e", Properties: map[string]any{"name": "Cy"},
		}, tablestore.Replace, orig.ETag)
		s.ErrorIs(err, tablestore.ErrPreconditionFailed)
	})

	s.Run("wildcard etag always matches", func() {
		s.put("P", "w", map[string]any{"name": "Ada"})
		_, err := s.store.UpdateEntity(s.ctx, tablestore.Entity{
			PartitionKey: "P", RowKey: "w", Properties: map[string]any{"name": "Bea"},
		}, tablestore.Replace, tablestore.AnyETag)
		s.NoError(err)
	})

	s.Run("missing entity", func() {
		_, err := s.store.UpdateEntity(s.ctx, tablestore.Entity{
			PartitionKey: "P", RowKey: "ghost", Properties: map[string]any{"name": "Bea"},
		}, tablestore.Merge, "")
		s.ErrorIs(err, tablestore.ErrNotFound)
	})
}

func (s *StoreSuite) TestDelete() {
	s.put("P", "d", map[string]any{"name": "Ada"})
	s.Require().NoError(s.store.DeleteEntity(s.ctx, "P", "d"))
	s.ErrorIs(s.store.DeleteEntity(s.ctx, "P", "d"), tablestore.ErrNotFound)
	s.Empty(s.listAll(tablestore.ListOptions{Filter: tablestore.Eq(tablestore.RowKeyProperty, "d")}))
}

func (s *StoreSuite) TestListPaging() {
	for i := 0; i < 7; i++ {
		pk := "A"
		if i%2 == 1 {
			pk = "B"
		}
		s.put(pk, fmt.Sprintf("r%02d", i), map[string]any{"email": fmt.Sprintf("u%d@example.com", i)})
	}

	s.Run("pages cover every entity once in key order", func() {
		page, err := s.store.ListEntities(s.ctx, tablestore.ListOptions{MaxPageSize: 3})
		s.Require().NoError(err)
		s.Len(page.Items, 3)
		s.NotEmpty(page.ContinuationToken)

		all := s.listAll(tablestore.ListOptions{MaxPageSize: 3})
		s.Require().Len(all, 7)
		for i := 1; i < len(all); i++ {
			prev, cur := all[i-1], all[i]
			s.True(prev.PartitionKey < cur.PartitionKey ||
				(prev.PartitionKey == cur.PartitionKey && prev.RowKey < cur.RowKey))
		}
	})

	s.Run("exact page boundary yields no token", func() {
		page, err := s.store.ListEntities(s.ctx, tablestore.ListOptions{
			Filter:      tablestore.Eq(tablestore.PartitionKeyProperty, "B"),
			MaxPageSize: 3,
		})
		s.Require().NoError(err)
		s.Len(page.Items, 3)
		s.Empty(page.ContinuationToken)
	})

	s.Run("property filter", func() {
		items := s.listAll(tablestore.ListOptions{Filter: tablestore.Eq("email", "u4@example.com")})
		s.Require().Len(items, 1)
		s.Equal("r04", items[0].RowKey)
	})

	s.Run("garbage token rejected", func() {
		_, err := s.store.ListEntities(s.ctx, tablestore.ListOptions{ContinuationToken: "not-a-token!"})
		s.ErrorIs(err, tablestore.ErrInvalidToken)
	})
}

func (s *StoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
