// Package huniyaml 是 huniya 房产平台的机器学习服务。
//
// 两条链路：
//   - 信用画像分类：类别编码 -> 标准化 -> 分类模型 -> 标签解码（service.CreditScoreService）
//   - 相似房源推荐：Pipeline 串联 Node（召回快照 -> 同分区过滤 -> 余弦排序 -> Top-N 截断）
//
// 设计要点：
//   - 制品启动期一次加载、只读共享；任何缺失或不一致都阻止进程对外服务
//   - 相似度查询每次重新读取未售房源，不缓存；数据源故障降级为空结果
//   - Labels 全链路透传，便于 explain / 观测
package huniyaml

import (
	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/pipeline"
	"github.com/Gerilya-By-BSI/huniya-ml/service"
)

// 轻量 facade：便于直接 import 根包使用核心抽象。
type (
	Pipeline          = pipeline.Pipeline
	Node              = pipeline.Node
	Kind              = pipeline.Kind
	Listing           = core.Listing
	SimilarityOptions = service.SimilarityOptions
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)

// RankSimilar 在给定快照上计算相似房源，见 service.RankSimilar。
func RankSimilar(snapshot []Listing, index int64, topN int) ([]int64, error) {
	return service.RankSimilar(snapshot, index, topN, SimilarityOptions{})
}
