package recall

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/utils"
)

type stubListingStore struct {
	calls    atomic.Int32
	listings []core.Listing
	err      error
	delay    time.Duration
}

func (s *stubListingStore) Name() string { return "stub" }

func (s *stubListingStore) LoadUnsoldListings(ctx context.Context) ([]core.Listing, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

func TestSnapshotLoader_Load(t *testing.T) {
	s := &stubListingStore{listings: []core.Listing{{Index: 1}, {Index: 2}}}
	l := NewSnapshotLoader(s)

	// 不缓存：每次都重新读取
	assert.Len(t, l.Load(context.Background()), 2)
	assert.Len(t, l.Load(context.Background()), 2)
	assert.Equal(t, int32(2), s.calls.Load())
	assert.Equal(t, "closed", l.BreakerState())
}

func TestSnapshotLoader_Degrades(t *testing.T) {
	tests := []struct {
		name  string
		store core.ListingStore
		opts  []SnapshotOption
	}{
		{name: "not configured", store: nil},
		{name: "query error", store: &stubListingStore{err: errors.New("dial tcp: connection refused")}},
		{name: "timeout", store: &stubListingStore{delay: time.Second}, opts: []SnapshotOption{WithQueryTimeout(10 * time.Millisecond)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSnapshotLoader(tt.store, tt.opts...).Load(context.Background())
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestSnapshotLoader_BreakerOpens(t *testing.T) {
	s := &stubListingStore{err: errors.New("too many connections")}
	l := NewSnapshotLoader(s, WithBreaker(3, time.Minute))

	for i := 0; i < 5; i++ {
		assert.Empty(t, l.Load(context.Background()))
	}
	// 连续 3 次失败后熔断打开，之后的请求不再访问数据源
	assert.Equal(t, int32(3), s.calls.Load())
	assert.Equal(t, "open", l.BreakerState())
}

func TestSnapshotLoader_CanceledDoesNotTrip(t *testing.T) {
	s := &stubListingStore{delay: time.Second}
	l := NewSnapshotLoader(s, WithBreaker(1, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, l.Load(ctx))
	assert.Equal(t, "closed", l.BreakerState())
}

func TestSnapshotSource_Recall(t *testing.T) {
	snapshot := []core.Listing{
		{Index: 3, Location: "Depok", Price: 1e9},
		{Index: 1, Location: "Bogor", Price: 2e9},
	}
	src := &SnapshotSource{}
	items, err := src.Process(context.Background(), core.NewRecommendContext(&snapshot[0], snapshot, 5), nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 1}, core.ItemIDs(items))
	assert.Equal(t, "Bogor", items[1].Location)
	assert.Equal(t, 2e9, items[1].Features["price"])
	assert.Equal(t, utils.Label{Value: "recall.snapshot", Source: "recall"}, items[0].Labels[utils.LabelRecallSource])

	items, err = src.Recall(context.Background(), core.NewRecommendContext(nil, nil, 5))
	require.NoError(t, err)
	assert.Empty(t, items)
}
