package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

func TestTopNNode(t *testing.T) {
	newItems := func() []*core.Item {
		return []*core.Item{core.NewItem(5), core.NewItem(3), core.NewItem(9), core.NewItem(1)}
	}

	tests := []struct {
		name string
		n    int
		topN int
		want []int64
	}{
		{name: "explicit n", n: 2, topN: 3, want: []int64{5, 3}},
		{name: "falls back to request top n", n: 0, topN: 3, want: []int64{5, 3, 9}},
		{name: "n larger than items", n: 10, want: []int64{5, 3, 9, 1}},
		{name: "no limit", n: 0, topN: 0, want: []int64{5, 3, 9, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := core.NewRecommendContext(nil, nil, tt.topN)
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), rctx, newItems())
			require.NoError(t, err)
			assert.Equal(t, tt.want, core.ItemIDs(out))
		})
	}
}
