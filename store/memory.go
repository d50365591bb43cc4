package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

// MemoryStore 是内存实现的 core.Store，用于测试/开发/原型。
// 支持 TTL（过期时间），但进程重启后数据丢失。
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]*entry
	clean *time.Ticker
	done  chan struct{}
}

type entry struct {
	value []byte
	ttl   *time.Time
}

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		data:  make(map[string]*entry),
		clean: time.NewTicker(10 * time.Second),
		done:  make(chan struct{}),
	}
	go ms.cleanup(ms.clean.C)
	return ms
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if e.ttl != nil && time.Now().After(*e.ttl) {
		return nil, core.ErrStoreNotFound
	}
	return bytes.Clone(e.value), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &entry{value: bytes.Clone(value)}
	if len(ttl) > 0 && ttl[0] > 0 {
		expire := time.Now().Add(time.Duration(ttl[0]) * time.Second)
		e.ttl = &expire
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clean != nil {
		m.clean.Stop()
		close(m.done)
		m.clean = nil
	}
	return nil
}

func (m *MemoryStore) cleanup(tick <-chan time.Time) {
	for {
		select {
		case <-m.done:
			return
		case <-tick:
			m.mu.Lock()
			now := time.Now()
			for k, e := range m.data {
				if e.ttl != nil && now.After(*e.ttl) {
					delete(m.data, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

// MemoryListingStore 是内存实现的 core.ListingStore，用于测试/开发。
// Err 非空时每次读取都返回该错误，用于模拟数据库不可达。
type MemoryListingStore struct {
	mu       sync.RWMutex
	listings []core.Listing
	Err      error
}

func NewMemoryListingStore(listings ...core.Listing) *MemoryListingStore {
	return &MemoryListingStore{listings: listings}
}

func (m *MemoryListingStore) Name() string { return "memory" }

// Put 追加或覆盖（按 Index）房源
func (m *MemoryListingStore) Put(listings ...core.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range listings {
		replaced := false
		for i := range m.listings {
			if m.listings[i].Index == l.Index {
				m.listings[i] = l
				replaced = true
				break
			}
		}
		if !replaced {
			m.listings = append(m.listings, l)
		}
	}
}

// LoadUnsoldListings 返回未售房源的副本，按 Index 升序。
func (m *MemoryListingStore) LoadUnsoldListings(ctx context.Context) ([]core.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]core.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		if !l.IsSold {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

var (
	_ core.Store        = (*MemoryStore)(nil)
	_ core.ListingStore = (*MemoryListingStore)(nil)
)
