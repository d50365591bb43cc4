package core

import "context"

// ListingStore 是房源数据源的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 只读：服务从不写入房源
//   - 不缓存：每次相似度查询都会重新读取，已售出的房源不会被推荐
//
// 实现：
//   - store.PostgresListingStore（gorm，生产）
//   - store.MemoryListingStore（测试/开发）
type ListingStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// LoadUnsoldListings 返回所有 is_sold = false 的房源，按 Index 升序
	LoadUnsoldListings(ctx context.Context) ([]Listing, error)
}
