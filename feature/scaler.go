package feature

import (
	"fmt"
	"math"
	"strings"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

// StandardScaler Z-score 标准化（Standardization）
// 公式: z = (x - μ) / σ
// 特点: 均值变为 0，标准差变为 1
//
// 输入矩阵的列必须与拟合时的 Features 完全一致（含顺序），否则返回 ShapeMismatch。
// Scale 中的 0 在拟合/加载时被替换为 1，因此变换永远不会除零。
type StandardScaler struct {
	Features []string  // 拟合时的特征列（按顺序）
	Mean     []float64 // 特征均值
	Scale    []float64 // 特征标准差
}

// NewStandardScaler 创建标准化器并校验参数维度。
func NewStandardScaler(features []string, mean, scale []float64) (*StandardScaler, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("scaler: no features")
	}
	if len(mean) != len(features) || len(scale) != len(features) {
		return nil, fmt.Errorf("scaler: %d features but %d means and %d scales", len(features), len(mean), len(scale))
	}
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		if _, dup := seen[f]; dup {
			return nil, fmt.Errorf("scaler: duplicate feature %q", f)
		}
		seen[f] = struct{}{}
	}
	s := &StandardScaler{
		Features: append([]string(nil), features...),
		Mean:     append([]float64(nil), mean...),
		Scale:    make([]float64, len(scale)),
	}
	for i, v := range scale {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("scaler: invalid scale %v for %q", v, features[i])
		}
		s.Scale[i] = nonZeroScale(v)
	}
	return s, nil
}

// FitStandardScaler 在 matrix 上拟合均值与总体标准差（ddof = 0）。
func FitStandardScaler(features []string, matrix [][]float64) (*StandardScaler, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("scaler: cannot fit on empty matrix")
	}
	n := len(features)
	mean := make([]float64, n)
	for r, row := range matrix {
		if len(row) != n {
			return nil, core.NewShapeMismatch(fmt.Sprintf("row %d has %d columns, want %d", r, len(row), n))
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	rows := float64(len(matrix))
	for j := range mean {
		mean[j] /= rows
	}
	scale := make([]float64, n)
	for _, row := range matrix {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / rows)
	}
	return NewStandardScaler(features, mean, scale)
}

func nonZeroScale(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// NumFeatures 返回特征列数
func (s *StandardScaler) NumFeatures() int {
	return len(s.Features)
}

// CheckFeatures 校验列名与顺序是否与拟合时一致。
func (s *StandardScaler) CheckFeatures(features []string) error {
	if len(features) != len(s.Features) {
		return core.NewShapeMismatch(fmt.Sprintf("got %d features, scaler fitted on %d", len(features), len(s.Features)))
	}
	for i, f := range features {
		if f != s.Features[i] {
			return core.NewShapeMismatch(fmt.Sprintf("column %d is %q, scaler expects %q (fitted order: %s)",
				i, f, s.Features[i], strings.Join(s.Features, ",")))
		}
	}
	return nil
}

// TransformNamed 校验列名后执行 Transform。
func (s *StandardScaler) TransformNamed(features []string, matrix [][]float64) ([][]float64, error) {
	if err := s.CheckFeatures(features); err != nil {
		return nil, err
	}
	return s.Transform(matrix)
}

// Transform 对每一行做 (x - mean) / scale，返回新矩阵。
func (s *StandardScaler) Transform(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		t, err := s.TransformRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// TransformRow 标准化单行
func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	if len(row) != len(s.Features) {
		return nil, core.NewShapeMismatch(fmt.Sprintf("row has %d columns, scaler fitted on %d", len(row), len(s.Features)))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// InverseTransform 是 Transform 的逆变换：x = z * scale + mean。
func (s *StandardScaler) InverseTransform(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(s.Features) {
			return nil, core.NewShapeMismatch(fmt.Sprintf("row %d has %d columns, scaler fitted on %d", i, len(row), len(s.Features)))
		}
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = v*s.Scale[j] + s.Mean[j]
		}
		out[i] = r
	}
	return out, nil
}
