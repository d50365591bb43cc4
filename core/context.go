package core

import "github.com/Gerilya-By-BSI/huniya-ml/pkg/utils"

// RecommendContext 承载一次相似度查询的参考房源与快照，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// Reference 是被点击的参考房源
	Reference *Listing

	// Snapshot 是本次查询读取到的全部未售房源（只读）
	Snapshot []Listing

	// TopN 是请求的结果数量
	TopN int

	// Labels 是查询级标签，用于解释 / 观测
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any
}

// NewRecommendContext 创建查询上下文。
func NewRecommendContext(ref *Listing, snapshot []Listing, topN int) *RecommendContext {
	return &RecommendContext{
		Reference: ref,
		Snapshot:  snapshot,
		TopN:      topN,
		Labels:    make(map[string]utils.Label),
		Params:    make(map[string]any),
	}
}

// PutLabel 写入查询级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取查询级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
