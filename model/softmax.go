package model

import (
	"context"
	"fmt"
	"math"
)

// SoftmaxModel 实现了多分类逻辑回归 (Multinomial Logistic Regression)。
//
// 预测原理：
// 1. 每个类别线性加权求和: z_k = Bias_k + sum(Weight_k_i * x_i)
// 2. Softmax 变换: P_k = exp(z_k) / sum(exp(z_j))
//
// Softmax 单调，Predict 只需对 z 取 argmax。
type SoftmaxModel struct {
	name     string
	features []string
	Weights  [][]float64 // [class][feature]
	Bias     []float64   // [class]
}

func NewSoftmaxModel(name string, features []string, weights [][]float64, bias []float64) (*SoftmaxModel, error) {
	if len(weights) < 2 {
		return nil, fmt.Errorf("softmax: need weights for >= 2 classes, got %d", len(weights))
	}
	for k, w := range weights {
		if len(w) != len(features) {
			return nil, fmt.Errorf("softmax: class %d has %d weights, want %d", k, len(w), len(features))
		}
	}
	if bias == nil {
		bias = make([]float64, len(weights))
	}
	if len(bias) != len(weights) {
		return nil, fmt.Errorf("softmax: %d biases for %d classes", len(bias), len(weights))
	}
	return &SoftmaxModel{name: name, features: features, Weights: weights, Bias: bias}, nil
}

func (m *SoftmaxModel) Name() string       { return m.name }
func (m *SoftmaxModel) Features() []string { return m.features }
func (m *SoftmaxModel) NumClasses() int    { return len(m.Weights) }

// Logits 返回每个类别的线性得分
func (m *SoftmaxModel) Logits(x []float64) ([]float64, error) {
	if err := checkInput(m, x); err != nil {
		return nil, err
	}
	z := make([]float64, len(m.Weights))
	for k, w := range m.Weights {
		s := m.Bias[k]
		for i, v := range x {
			s += w[i] * v
		}
		z[k] = s
	}
	return z, nil
}

// Probabilities 返回 softmax 概率（数值稳定写法：先减去最大 logit）
func (m *SoftmaxModel) Probabilities(x []float64) ([]float64, error) {
	z, err := m.Logits(x)
	if err != nil {
		return nil, err
	}
	maxZ := z[argmax(z)]
	var sum float64
	for k := range z {
		z[k] = math.Exp(z[k] - maxZ)
		sum += z[k]
	}
	for k := range z {
		z[k] /= sum
	}
	return z, nil
}

func (m *SoftmaxModel) Predict(_ context.Context, x []float64) (int, error) {
	z, err := m.Logits(x)
	if err != nil {
		return 0, err
	}
	for _, v := range z {
		if math.IsNaN(v) {
			return 0, fmt.Errorf("softmax: NaN logit")
		}
	}
	return argmax(z), nil
}
