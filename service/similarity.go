package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Gerilya-By-BSI/huniya-ml/config"
	_ "github.com/Gerilya-By-BSI/huniya-ml/config/builders"
	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/filter"
	"github.com/Gerilya-By-BSI/huniya-ml/pipeline"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/metric"
	"github.com/Gerilya-By-BSI/huniya-ml/rank"
	"github.com/Gerilya-By-BSI/huniya-ml/recall"
	"github.com/Gerilya-By-BSI/huniya-ml/rerank"
)

// DefaultTopN 是未指定或非法 top_n 时返回的结果数量
const DefaultTopN = 5

// SimilarityOptions 控制内置相似度 Pipeline 的形态。
type SimilarityOptions struct {
	// Scope 决定标准化器在哪个集合上拟合，默认 pool
	Scope rank.ScalerScope
	// Filters 在分区/参考过滤之后额外追加的过滤器（表达式、黑名单等）
	Filters []filter.Filter
}

// DefaultPipeline 构建内置链路：
//
//	recall.snapshot -> filter(location, reference, extra...) -> rank.cosine -> rerank.topn
func DefaultPipeline(opts SimilarityOptions) *pipeline.Pipeline {
	filters := append([]filter.Filter{&filter.LocationFilter{}, &filter.ReferenceFilter{}}, opts.Filters...)
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.SnapshotSource{},
			filter.NewFilterNode(filters...),
			&rank.CosineNode{Scope: opts.Scope},
			&rerank.TopNNode{},
		},
	}
}

// LoadPipeline 从 YAML（或 .json）配置构建相似度 Pipeline，节点类型来自 config 注册表。
func LoadPipeline(path string) (*pipeline.Pipeline, error) {
	load := pipeline.LoadFromYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		load = pipeline.LoadFromJSON
	}
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		return nil, fmt.Errorf("similarity pipeline %q: %w", cfg.Pipeline.Name, err)
	}
	return p, nil
}

// SimilarityService 相似房源推荐。
// 无状态：每次查询重新读取快照，Pipeline 只读共享。
type SimilarityService struct {
	loader   *recall.SnapshotLoader
	pipeline *pipeline.Pipeline
	topN     int
}

// NewSimilarityService 创建服务；p 为 nil 时使用 DefaultPipeline，defaultTopN <= 0 时使用 DefaultTopN。
func NewSimilarityService(loader *recall.SnapshotLoader, p *pipeline.Pipeline, defaultTopN int) *SimilarityService {
	if p == nil {
		p = DefaultPipeline(SimilarityOptions{})
	}
	if defaultTopN <= 0 {
		defaultTopN = DefaultTopN
	}
	return &SimilarityService{loader: loader, pipeline: p, topN: defaultTopN}
}

// Similar 返回与 index 房源最相似的至多 topN 个房源 Index。
// 参考房源不存在、同分区无候选、数据源不可用都返回空结果而不是错误。
func (s *SimilarityService) Similar(ctx context.Context, index int64, topN int) ([]int64, error) {
	if topN <= 0 {
		topN = s.topN
	}
	snapshot := s.loader.Load(ctx)
	return rankSimilar(ctx, s.pipeline, snapshot, index, topN)
}

// RankSimilar 在给定快照上执行内置链路，不访问任何外部数据源。
func RankSimilar(snapshot []core.Listing, index int64, topN int, opts SimilarityOptions) ([]int64, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return rankSimilar(context.Background(), DefaultPipeline(opts), snapshot, index, topN)
}

func rankSimilar(
	ctx context.Context,
	p *pipeline.Pipeline,
	snapshot []core.Listing,
	index int64,
	topN int,
) ([]int64, error) {
	ref, ok := core.FindListing(snapshot, index)
	if !ok {
		log.Debug().Int64("index", index).Int("snapshot", len(snapshot)).Msg("reference listing not in snapshot")
		metric.RecordSimilarResult(0)
		return []int64{}, nil
	}

	rctx := core.NewRecommendContext(ref, snapshot, topN)
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, fmt.Errorf("similarity pipeline: %w", err)
	}
	if len(items) > topN {
		items = items[:topN]
	}

	out := core.ItemIDs(items)
	if out == nil {
		out = []int64{}
	}
	metric.RecordSimilarResult(len(out))
	return out, nil
}
