package model

import (
	"context"
	"fmt"
	"math"
)

// TreeNode 是扁平存储的树节点。
// 非叶子节点：x[Feature] < Threshold 走 Yes，否则走 No；x[Feature] 为 NaN 时走 Missing。
type TreeNode struct {
	Leaf      bool    `json:"leaf,omitempty" yaml:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Feature   int     `json:"feature,omitempty" yaml:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Yes       int     `json:"yes,omitempty" yaml:"yes,omitempty"`
	No        int     `json:"no,omitempty" yaml:"no,omitempty"`
	Missing   int     `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Tree 是一棵回归树，Class 为其贡献的类别；根节点为 Nodes[0]。
type Tree struct {
	Class int        `json:"class" yaml:"class"`
	Nodes []TreeNode `json:"nodes" yaml:"nodes"`
}

// GBTreeModel 梯度提升树多分类模型（XGBoost multi:softprob 的推理部分）。
// 每个类别的 margin = BaseScore + sum(属于该类别的树的叶子值)，取 argmax。
type GBTreeModel struct {
	name      string
	features  []string
	classes   int
	BaseScore float64
	Trees     []Tree
}

func NewGBTreeModel(name string, features []string, classes int, baseScore float64, trees []Tree) (*GBTreeModel, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("gbtree: no trees")
	}
	for t, tree := range trees {
		if tree.Class < 0 || tree.Class >= classes {
			return nil, fmt.Errorf("gbtree: tree %d class %d out of range [0, %d)", t, tree.Class, classes)
		}
		if len(tree.Nodes) == 0 {
			return nil, fmt.Errorf("gbtree: tree %d is empty", t)
		}
		for n, node := range tree.Nodes {
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= len(features) {
				return nil, fmt.Errorf("gbtree: tree %d node %d splits on feature %d, model has %d", t, n, node.Feature, len(features))
			}
			for _, child := range []int{node.Yes, node.No, node.Missing} {
				// 子节点必须在当前节点之后，保证遍历一定终止
				if child <= n || child >= len(tree.Nodes) {
					return nil, fmt.Errorf("gbtree: tree %d node %d has invalid child %d", t, n, child)
				}
			}
		}
	}
	return &GBTreeModel{name: name, features: features, classes: classes, BaseScore: baseScore, Trees: trees}, nil
}

func (m *GBTreeModel) Name() string       { return m.name }
func (m *GBTreeModel) Features() []string { return m.features }
func (m *GBTreeModel) NumClasses() int    { return m.classes }

// Margins 返回每个类别的原始得分
func (m *GBTreeModel) Margins(x []float64) ([]float64, error) {
	if err := checkInput(m, x); err != nil {
		return nil, err
	}
	margins := make([]float64, m.classes)
	for k := range margins {
		margins[k] = m.BaseScore
	}
	for _, tree := range m.Trees {
		margins[tree.Class] += tree.leaf(x)
	}
	return margins, nil
}

func (t *Tree) leaf(x []float64) float64 {
	i := 0
	for {
		node := &t.Nodes[i]
		if node.Leaf {
			return node.Value
		}
		v := x[node.Feature]
		switch {
		case math.IsNaN(v):
			i = node.Missing
		case v < node.Threshold:
			i = node.Yes
		default:
			i = node.No
		}
	}
}

func (m *GBTreeModel) Predict(_ context.Context, x []float64) (int, error) {
	margins, err := m.Margins(x)
	if err != nil {
		return 0, err
	}
	return argmax(margins), nil
}
