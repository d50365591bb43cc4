package filter

import (
	"context"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

// LocationFilter 是硬分区过滤器：只保留与参考房源 Location 完全相同的候选。
// Location 按字符串精确比较（区分大小写，不做规范化）。
// 没有参考房源时全部过滤。
type LocationFilter struct{}

func (f *LocationFilter) Name() string {
	return "filter.location"
}

func (f *LocationFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.Reference == nil {
		return true, nil
	}
	return item.Location != rctx.Reference.Location, nil
}
