package rank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/utils"
)

func listing(index int64, price, rooms, baths, parking, land, building float64) core.Listing {
	return core.Listing{
		Index: index, Location: "Jakarta Selatan",
		Price: price, RoomCount: rooms, BathroomCount: baths, ParkingCount: parking,
		LandArea: land, BuildingArea: building,
	}
}

func items(ls ...core.Listing) []*core.Item {
	out := make([]*core.Item, 0, len(ls))
	for i := range ls {
		out = append(out, core.NewItemFromListing(&ls[i]))
	}
	return out
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "same direction", a: []float64{1, 2}, b: []float64{2, 4}, want: 1},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-3, 0}, want: -1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 5}, want: 0},
		{name: "zero norm", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-12)
		})
	}
}

func TestCosineNode_RanksAndBreaksTiesByIndex(t *testing.T) {
	ref := listing(1, 100, 2, 1, 1, 100, 80)
	pool := items(
		listing(3, 300, 4, 3, 2, 200, 160),
		listing(4, 100, 2, 1, 1, 100, 80),
		listing(2, 100, 2, 1, 1, 100, 80),
	)
	rctx := core.NewRecommendContext(&ref, nil, 5)

	out, err := (&CosineNode{}).Process(context.Background(), rctx, pool)
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 4, 3}, core.ItemIDs(out))
	assert.InDelta(t, 1.0, out[0].Score, 1e-9)
	assert.InDelta(t, 1.0, out[1].Score, 1e-9)
	assert.InDelta(t, -1.0, out[2].Score, 1e-9)
	assert.Equal(t, utils.Label{Value: "cosine", Source: "rank"}, out[0].Labels[utils.LabelRankMetric])
	assert.Equal(t, "pool", out[0].Labels[utils.LabelScalerScope].Value)
}

func TestCosineNode_SingleCandidateScoresZero(t *testing.T) {
	ref := listing(1, 100, 2, 1, 1, 100, 80)
	pool := items(listing(2, 100, 2, 1, 1, 100, 80))

	out, err := (&CosineNode{}).Process(context.Background(), core.NewRecommendContext(&ref, nil, 5), pool)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].Score)
}

func TestCosineNode_SnapshotScope(t *testing.T) {
	ref := listing(1, 100, 2, 1, 1, 100, 80)
	near := listing(2, 110, 2, 1, 1, 100, 85)
	far := listing(3, 900, 6, 4, 3, 500, 400)
	other := listing(4, 2000, 8, 6, 4, 1000, 900)
	other.Location = "Bogor"
	snapshot := []core.Listing{ref, near, far, other}

	rctx := core.NewRecommendContext(&ref, snapshot, 5)
	out, err := (&CosineNode{Scope: ScopeSnapshot}).Process(context.Background(), rctx, items(far, near))
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3}, core.ItemIDs(out))
	assert.Greater(t, out[0].Score, out[1].Score)
	assert.Equal(t, "snapshot", out[0].Labels[utils.LabelScalerScope].Value)
	lbl, ok := rctx.GetLabel(utils.LabelScalerScope)
	require.True(t, ok)
	assert.Equal(t, "snapshot", lbl.Value)
}

func TestCosineNode_NoReference(t *testing.T) {
	pool := items(listing(2, 1, 1, 1, 1, 1, 1))
	out, err := (&CosineNode{}).Process(context.Background(), core.NewRecommendContext(nil, nil, 5), pool)
	require.NoError(t, err)
	assert.Equal(t, pool, out)
}

func TestParseScalerScope(t *testing.T) {
	s, err := ParseScalerScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopePool, s)

	s, err = ParseScalerScope("snapshot")
	require.NoError(t, err)
	assert.Equal(t, ScopeSnapshot, s)

	_, err = ParseScalerScope("global")
	assert.Error(t, err)
}
