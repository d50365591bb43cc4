// Package store 提供 core 中存储接口的实现。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
//	var blobs core.Store = store.NewMemoryStore()
//	var listings core.ListingStore = store.NewPostgresListingStore(db)
package store
