package model

import (
	"context"
	"fmt"
	"time"

	"github.com/Gerilya-By-BSI/huniya-ml/feature"
)

// Classifier 是分类阶段的最小抽象：输入一行已标准化的特征，输出类别下标。
// 具体实现可以是本地模型（Softmax / GBTree）或远程 RPC。
// 实现加载后只读，必须支持并发调用。
type Classifier interface {
	Name() string
	// Features 返回训练时的输入列（顺序即 x 的顺序）
	Features() []string
	// NumClasses 返回类别数，Predict 的结果位于 [0, NumClasses)
	NumClasses() int
	Predict(ctx context.Context, x []float64) (int, error)
}

// 模型类型
const (
	KindSoftmax = "softmax"
	KindGBTree  = "gbtree"
	KindRPC     = "rpc"
)

// Artifact 是模型制品的序列化形式，Kind 决定其余字段的含义。
//
//	softmax: weights[class][feature], bias[class]
//	gbtree:  base_score, trees (每棵树归属一个 class)
//	rpc:     endpoint, timeout
type Artifact struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Name     string   `json:"name" yaml:"name"`
	Features []string `json:"features" yaml:"features"`
	Classes  int      `json:"classes" yaml:"classes"`

	Weights [][]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
	Bias    []float64   `json:"bias,omitempty" yaml:"bias,omitempty"`

	BaseScore float64 `json:"base_score,omitempty" yaml:"base_score,omitempty"`
	Trees     []Tree  `json:"trees,omitempty" yaml:"trees,omitempty"`

	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoadClassifier 解析并校验模型制品
func LoadClassifier(data []byte, format feature.ArtifactFormat) (Classifier, error) {
	var a Artifact
	if err := feature.DecodeArtifact(data, format, &a); err != nil {
		return nil, err
	}
	return a.Build()
}

// Build 按 Kind 构造 Classifier
func (a *Artifact) Build() (Classifier, error) {
	if len(a.Features) == 0 {
		return nil, fmt.Errorf("model: no features")
	}
	if a.Classes < 2 {
		return nil, fmt.Errorf("model: classes must be >= 2, got %d", a.Classes)
	}
	name := a.Name
	if name == "" {
		name = a.Kind
	}
	switch a.Kind {
	case KindSoftmax:
		if len(a.Weights) != a.Classes {
			return nil, fmt.Errorf("model: %d weight rows for %d classes", len(a.Weights), a.Classes)
		}
		return NewSoftmaxModel(name, a.Features, a.Weights, a.Bias)
	case KindGBTree:
		return NewGBTreeModel(name, a.Features, a.Classes, a.BaseScore, a.Trees)
	case KindRPC:
		var timeout time.Duration
		if a.Timeout != "" {
			d, err := time.ParseDuration(a.Timeout)
			if err != nil {
				return nil, fmt.Errorf("model: invalid timeout %q: %w", a.Timeout, err)
			}
			timeout = d
		}
		if a.Endpoint == "" {
			return nil, fmt.Errorf("model: rpc endpoint is required")
		}
		return NewRPCModel(name, a.Endpoint, a.Features, a.Classes, timeout), nil
	default:
		return nil, fmt.Errorf("model: unknown kind %q", a.Kind)
	}
}

// argmax 返回最大值下标；并列时取较小下标。
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

func checkInput(m Classifier, x []float64) error {
	if len(x) != len(m.Features()) {
		return fmt.Errorf("%s: got %d inputs, model expects %d", m.Name(), len(x), len(m.Features()))
	}
	return nil
}
