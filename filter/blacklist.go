package filter

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉被下架 / 屏蔽的房源（按 Index）。
//
// 黑名单来源：
//   - ItemIDs：内存中的固定列表
//   - Store + Key：core.Store 中的 JSON 数组（例如 [12, 40]），每次查询读取一次
type BlacklistFilter struct {
	ItemIDs []int64
	Store   core.Store
	Key     string
}

func NewBlacklistFilter(itemIDs []int64, store core.Store, key string) *BlacklistFilter {
	return &BlacklistFilter{ItemIDs: itemIDs, Store: store, Key: key}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) paramKey() string {
	return "filter.blacklist:" + f.Key
}

// Prepare 从 Store 读取黑名单并缓存到请求上下文，Store 不可用时仅使用 ItemIDs。
func (f *BlacklistFilter) Prepare(ctx context.Context, rctx *core.RecommendContext) error {
	if f.Store == nil || f.Key == "" || rctx == nil {
		return nil
	}
	data, err := f.Store.Get(ctx, f.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	if rctx.Params == nil {
		rctx.Params = make(map[string]any)
	}
	rctx.Params[f.paramKey()] = set
	return nil
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	// 从内存列表检查
	for _, id := range f.ItemIDs {
		if item.ID == id {
			return true, nil
		}
	}

	// 从 Prepare 读取的 Store 黑名单检查
	if rctx != nil && rctx.Params != nil {
		if set, ok := rctx.Params[f.paramKey()].(map[int64]struct{}); ok {
			_, hit := set[item.ID]
			return hit, nil
		}
	}
	return false, nil
}

var (
	_ Filter   = (*BlacklistFilter)(nil)
	_ Preparer = (*BlacklistFilter)(nil)
	_ Filter   = (*LocationFilter)(nil)
	_ Filter   = (*ReferenceFilter)(nil)
	_ Filter   = (*ExprFilter)(nil)
)
