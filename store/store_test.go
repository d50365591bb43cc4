package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "credit:scaler", []byte("blob")))
	got, err := s.Get(ctx, "credit:scaler")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got)

	require.NoError(t, s.Delete(ctx, "credit:scaler"))
	_, err = s.Get(ctx, "credit:scaler")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestMemoryStore_ValueIsolation(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	in := []byte("[12,40]")
	require.NoError(t, s.Set(ctx, "similar:blacklist", in))
	in[1] = '9'

	got, err := s.Get(ctx, "similar:blacklist")
	require.NoError(t, err)
	assert.Equal(t, []byte("[12,40]"), got)

	got[1] = '7'
	again, err := s.Get(ctx, "similar:blacklist")
	require.NoError(t, err)
	assert.Equal(t, []byte("[12,40]"), again)
}

func TestMemoryStore_TTL(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 1))
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	s.mu.Lock()
	past := time.Now().Add(-time.Second)
	s.data["k"].ttl = &past
	s.mu.Unlock()

	_, err = s.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestMemoryListingStore(t *testing.T) {
	s := NewMemoryListingStore(
		core.Listing{ID: 1, Index: 30, Location: "Jakarta"},
		core.Listing{ID: 2, Index: 10, Location: "Bogor"},
		core.Listing{ID: 3, Index: 20, Location: "Jakarta", IsSold: true},
	)
	s.Put(core.Listing{ID: 4, Index: 5, Location: "Depok"}, core.Listing{ID: 5, Index: 30, Location: "Bekasi"})

	got, err := s.LoadUnsoldListings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{5, 10, 30}, []int64{got[0].Index, got[1].Index, got[2].Index})
	assert.Equal(t, "Bekasi", got[2].Location)

	s.Err = errors.New("connection refused")
	_, err = s.LoadUnsoldListings(context.Background())
	assert.Error(t, err)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore("127.0.0.1:1", 0)
	assert.Error(t, err)
}

func TestPostgresListingStore_Query(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=huniya dbname=huniya sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	s := NewPostgresListingStore(db)
	var rows []HouseTable
	stmt := s.unsoldQuery(context.Background()).Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `FROM "houses"`)
	assert.Contains(t, sql, "is_sold = $1")
	assert.Contains(t, sql, `ORDER BY "index"`)
	for _, col := range houseColumns {
		assert.Contains(t, sql, `"`+col+`"`)
	}
	assert.Equal(t, []any{false}, stmt.Vars)
}

func TestPostgresListingStore_NotConfigured(t *testing.T) {
	_, err := NewPostgresListingStore(nil).LoadUnsoldListings(context.Background())
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)

	_, err = OpenPostgres("")
	assert.Error(t, err)
}

func TestHouseTable_ToListing(t *testing.T) {
	title, loc, price := "Rumah Minimalis", "Jakarta Selatan", 1.5e9
	l := (&HouseTable{ID: 7, Index: 70, Title: &title, Location: &loc, Price: &price}).ToListing()

	assert.Equal(t, int64(70), l.Index)
	assert.Equal(t, "Rumah Minimalis", l.Title)
	assert.Equal(t, 1.5e9, l.Price)
	assert.Equal(t, 0.0, l.ParkingCount)
	assert.Equal(t, "", l.ImageURL)
}
