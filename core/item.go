package core

import "github.com/Gerilya-By-BSI/huniya-ml/pkg/utils"

// Item 是相似度链路中的统一承载结构：特征、分数、元信息、标签。
// Labels 用于解释与观测；Score 用于排序决策。
type Item struct {
	ID       int64 // 房源 Index
	Score    float64
	Location string
	Vector   []float64 // 按 ComparisonFeatures 顺序的原始数值特征
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:       id,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// NewItemFromListing 把房源转换为候选 Item。
func NewItemFromListing(l *Listing) *Item {
	it := NewItem(l.Index)
	it.Location = l.Location
	it.Vector = l.Vector()
	it.Features = l.Features()
	it.Meta["title"] = l.Title
	it.Meta["image_url"] = l.ImageURL
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// ItemIDs 按顺序返回 Item 的 ID。
func ItemIDs(items []*Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, it.ID)
	}
	return out
}
