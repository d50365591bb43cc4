package filter

import (
	"context"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

// ReferenceFilter 过滤掉参考房源本身，结果中永远不包含被查询的房源。
type ReferenceFilter struct{}

func (f *ReferenceFilter) Name() string {
	return "filter.reference"
}

func (f *ReferenceFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.Reference == nil {
		return false, nil
	}
	return item.ID == rctx.Reference.Index, nil
}
