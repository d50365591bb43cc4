package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/utils"
	"github.com/Gerilya-By-BSI/huniya-ml/store"
)

func fixture() (*core.RecommendContext, []*core.Item) {
	snapshot := []core.Listing{
		{Index: 1, Location: "Depok", Price: 1e9},
		{Index: 2, Location: "Depok", Price: 2e9},
		{Index: 3, Location: "depok", Price: 1e9},
		{Index: 4, Location: "Bogor", Price: 1e9},
		{Index: 5, Location: "Depok", Price: 9e9},
	}
	items := make([]*core.Item, 0, len(snapshot))
	for i := range snapshot {
		items = append(items, core.NewItemFromListing(&snapshot[i]))
	}
	return core.NewRecommendContext(&snapshot[0], snapshot, 5), items
}

func TestFilterNode_LocationAndReference(t *testing.T) {
	rctx, items := fixture()
	node := NewFilterNode(&LocationFilter{}, &ReferenceFilter{})

	out, err := node.Process(context.Background(), rctx, items)
	require.NoError(t, err)

	// 精确匹配：大小写不同的 "depok" 不属于同一分区
	assert.Equal(t, []int64{2, 5}, core.ItemIDs(out))
	assert.Equal(t, utils.Label{Value: "true", Source: "filter.location"}, items[2].Labels[utils.LabelFiltered])
	assert.Equal(t, "filter.reference", items[0].Labels[utils.LabelFiltered].Source)
}

func TestLocationFilter_NoReference(t *testing.T) {
	_, items := fixture()
	drop, err := (&LocationFilter{}).ShouldFilter(context.Background(), core.NewRecommendContext(nil, nil, 5), items[0])
	require.NoError(t, err)
	assert.True(t, drop)
}

func TestExprFilter(t *testing.T) {
	rctx, items := fixture()
	f, err := NewExprFilter(`item.features.price < 5e9`)
	require.NoError(t, err)
	assert.Equal(t, `item.features.price < 5e9`, f.Expr())

	out, err := NewFilterNode(f).Process(context.Background(), rctx, items)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, core.ItemIDs(out))

	_, err = NewExprFilter("")
	assert.Error(t, err)
	_, err = NewExprFilter("item.features.price <")
	assert.Error(t, err)
}

func TestExprFilter_EvalErrorKeepsItem(t *testing.T) {
	rctx, items := fixture()
	f, err := NewExprFilter(`item.features.pool_size > 1.0`)
	require.NoError(t, err)

	out, err := NewFilterNode(f).Process(context.Background(), rctx, items)
	require.NoError(t, err)
	assert.Len(t, out, len(items))
}

func TestBlacklistFilter(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	require.NoError(t, s.Set(ctx, "listing:hidden", []byte(`[5]`)))

	tests := []struct {
		name string
		f    *BlacklistFilter
		want []int64
	}{
		{name: "memory ids", f: NewBlacklistFilter([]int64{2, 3}, nil, ""), want: []int64{1, 4, 5}},
		{name: "store ids", f: NewBlacklistFilter(nil, s, "listing:hidden"), want: []int64{1, 2, 3, 4}},
		{name: "both", f: NewBlacklistFilter([]int64{1}, s, "listing:hidden"), want: []int64{2, 3, 4}},
		{name: "missing key", f: NewBlacklistFilter(nil, s, "listing:none"), want: []int64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx, items := fixture()
			out, err := NewFilterNode(tt.f).Process(ctx, rctx, items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, core.ItemIDs(out))
		})
	}
}

func TestFilterNode_Empty(t *testing.T) {
	rctx, items := fixture()
	out, err := NewFilterNode().Process(context.Background(), rctx, items)
	require.NoError(t, err)
	assert.Equal(t, items, out)

	out, err = NewFilterNode(&LocationFilter{}).Process(context.Background(), rctx, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
