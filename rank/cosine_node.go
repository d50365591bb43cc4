package rank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/feature"
	"github.com/Gerilya-By-BSI/huniya-ml/pipeline"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/utils"
)

// ScalerScope 决定相似度标准化器在哪个总体上拟合。
type ScalerScope string

const (
	// ScopePool 在过滤后的候选池上拟合（默认）
	ScopePool ScalerScope = "pool"
	// ScopeSnapshot 在整个未售快照上拟合
	ScopeSnapshot ScalerScope = "snapshot"
)

// ParseScalerScope 解析配置值；空串取默认值 pool。
func ParseScalerScope(s string) (ScalerScope, error) {
	switch ScalerScope(s) {
	case "", ScopePool:
		return ScopePool, nil
	case ScopeSnapshot:
		return ScopeSnapshot, nil
	default:
		return "", fmt.Errorf("unknown scaler scope %q, want %q or %q", s, ScopePool, ScopeSnapshot)
	}
}

// CosineNode 是基于内容相似度的排序 Node：
//   - 每次查询在 Scope 指定的总体上拟合 StandardScaler（分数只在单次查询内可比）
//   - 对候选与参考房源的标准化向量计算余弦相似度，写入 item.Score
//   - 按分数降序排序，分数相同时按 ID（房源 Index）升序，保证结果确定
//   - 写入 labels：item 级 rank_metric、scaler_scope，查询级 scaler_scope
type CosineNode struct {
	Scope ScalerScope
}

func (n *CosineNode) Name() string        { return "rank.cosine" }
func (n *CosineNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *CosineNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 || rctx == nil || rctx.Reference == nil {
		return items, nil
	}

	scope := n.Scope
	if scope == "" {
		scope = ScopePool
	}
	scaler, err := n.fit(scope, rctx, items)
	if err != nil {
		return nil, err
	}
	rctx.PutLabel(utils.LabelScalerScope, utils.Label{Value: string(scope), Source: "rank"})

	ref, err := scaler.TransformRow(rctx.Reference.Vector())
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		vec, err := scaler.TransformRow(it.Vector)
		if err != nil {
			return nil, err
		}
		it.Score = Cosine(vec, ref)
		it.PutLabel(utils.LabelRankMetric, utils.Label{Value: "cosine", Source: "rank"})
		it.PutLabel(utils.LabelScalerScope, utils.Label{Value: string(scope), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (n *CosineNode) fit(scope ScalerScope, rctx *core.RecommendContext, items []*core.Item) (*feature.StandardScaler, error) {
	var matrix [][]float64
	if scope == ScopeSnapshot && len(rctx.Snapshot) > 0 {
		matrix = make([][]float64, 0, len(rctx.Snapshot))
		for i := range rctx.Snapshot {
			matrix = append(matrix, rctx.Snapshot[i].Vector())
		}
	} else {
		matrix = make([][]float64, 0, len(items))
		for _, it := range items {
			if it != nil {
				matrix = append(matrix, it.Vector)
			}
		}
	}
	return feature.FitStandardScaler(core.ComparisonFeatures, matrix)
}

// Cosine 计算余弦相似度；任一向量范数为 0 时返回 0。
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

var _ pipeline.Node = (*CosineNode)(nil)
