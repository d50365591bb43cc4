package recall

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/metric"
)

// 默认值
const (
	DefaultQueryTimeout    = 5 * time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
)

// SnapshotLoader 每次查询都从 ListingStore 读取一份完整的未售房源快照，不做缓存。
//
// 任何读取失败（未配置、超时、查询错误、熔断打开）都降级为空快照并记录 warning，
// 从不向调用方返回错误。
type SnapshotLoader struct {
	store   core.ListingStore
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]core.Listing]
}

// SnapshotOption 配置 SnapshotLoader
type SnapshotOption func(*snapshotOptions)

type snapshotOptions struct {
	timeout         time.Duration
	breakerFailures uint32
	breakerTimeout  time.Duration
}

// WithQueryTimeout 设置单次读取的超时；<= 0 表示使用默认值。
func WithQueryTimeout(d time.Duration) SnapshotOption {
	return func(o *snapshotOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithBreaker 设置熔断：连续失败 failures 次后打开，openTimeout 后进入半开。
func WithBreaker(failures uint32, openTimeout time.Duration) SnapshotOption {
	return func(o *snapshotOptions) {
		if failures > 0 {
			o.breakerFailures = failures
		}
		if openTimeout > 0 {
			o.breakerTimeout = openTimeout
		}
	}
}

// NewSnapshotLoader 创建快照加载器；store 为 nil 表示未配置数据源。
func NewSnapshotLoader(store core.ListingStore, opts ...SnapshotOption) *SnapshotLoader {
	o := snapshotOptions{
		timeout:         DefaultQueryTimeout,
		breakerFailures: DefaultBreakerFailures,
		breakerTimeout:  DefaultBreakerTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	name := "listing_snapshot"
	if store != nil {
		name = store.Name() + "_listing_snapshot"
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     o.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.breakerFailures
		},
		// 调用方取消请求不算数据源故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("listing store circuit breaker state changed")
			metric.RecordBreakerState(name, int(to))
		},
	}

	return &SnapshotLoader{
		store:   store,
		timeout: o.timeout,
		breaker: gobreaker.NewCircuitBreaker[[]core.Listing](settings),
	}
}

// BreakerState 返回熔断器当前状态（closed / half-open / open）。
func (l *SnapshotLoader) BreakerState() string {
	return l.breaker.State().String()
}

// Load 读取未售房源快照；失败时返回空快照。
func (l *SnapshotLoader) Load(ctx context.Context) []core.Listing {
	if l.store == nil {
		log.Warn().Msg("listing store not configured, similarity runs on an empty snapshot")
		metric.RecordSnapshotFailure("not_configured")
		return []core.Listing{}
	}

	listings, err := l.breaker.Execute(func() ([]core.Listing, error) {
		qctx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()
		return l.store.LoadUnsoldListings(qctx)
	})
	if err != nil {
		reason := "query_error"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			reason = "breaker_open"
		case errors.Is(err, context.DeadlineExceeded):
			reason = "timeout"
		case errors.Is(err, context.Canceled):
			reason = "canceled"
		}
		log.Warn().Err(err).Str("store", l.store.Name()).Str("reason", reason).
			Msg("listing snapshot unavailable, returning empty snapshot")
		metric.RecordSnapshotFailure(reason)
		return []core.Listing{}
	}

	metric.RecordSnapshot(len(listings))
	return listings
}
