package recall

import (
	"context"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/pipeline"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/utils"
)

// Source 表示一个候选来源。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// SnapshotSource 把查询上下文中的快照展开为候选 Item（按快照顺序）。
// 同时实现了 Source 和 Node 接口，可以直接作为 Pipeline 的第一个节点。
type SnapshotSource struct{}

func (r *SnapshotSource) Name() string        { return "recall.snapshot" }
func (r *SnapshotSource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，忽略输入 items，直接调用 Recall
func (r *SnapshotSource) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *SnapshotSource) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || len(rctx.Snapshot) == 0 {
		return nil, nil
	}
	out := make([]*core.Item, 0, len(rctx.Snapshot))
	for i := range rctx.Snapshot {
		it := core.NewItemFromListing(&rctx.Snapshot[i])
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var (
	_ Source        = (*SnapshotSource)(nil)
	_ pipeline.Node = (*SnapshotSource)(nil)
)
