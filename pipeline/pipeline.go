package pipeline

import (
	"context"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

// Pipeline 把相似房源推荐拆成可组合的 Node 链：召回 -> 过滤 -> 排序 -> 截断。
// Pipeline 本身无状态，可被并发查询共享；每次 Run 的状态都在 rctx 与 items 中。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
