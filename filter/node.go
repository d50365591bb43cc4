package filter

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/pipeline"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/utils"
)

// Preparer 是可选接口：过滤器在逐个判断 item 之前，每次 Process 调用一次 Prepare，
// 用于一次性读取外部数据（例如从 Store 读取黑名单）。
type Preparer interface {
	Prepare(ctx context.Context, rctx *core.RecommendContext) error
}

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉。
type FilterNode struct {
	Filters []Filter
}

func NewFilterNode(filters ...Filter) *FilterNode {
	return &FilterNode{Filters: filters}
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	for _, f := range n.Filters {
		if p, ok := f.(Preparer); ok {
			if err := p.Prepare(ctx, rctx); err != nil {
				log.Warn().Err(err).Str("filter", f.Name()).Msg("filter prepare failed")
			}
		}
	}

	out := make([]*core.Item, 0, len(items))
	filtered := 0

	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		reason := ""

		// 依次检查每个过滤器
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				log.Debug().Err(err).Str("filter", f.Name()).Int64("item", item.ID).Msg("filter error, item kept")
				continue
			}
			if ok {
				shouldFilter = true
				reason = f.Name()
				break
			}
		}

		if shouldFilter {
			filtered++
			item.PutLabel(utils.LabelFiltered, utils.Label{Value: "true", Source: reason})
			continue
		}

		out = append(out, item)
	}

	log.Debug().Int("in", len(items)).Int("filtered", filtered).Msg("filter node done")
	return out, nil
}

var _ pipeline.Node = (*FilterNode)(nil)
