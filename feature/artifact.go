package feature

import (
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ArtifactFormat 制品序列化格式
type ArtifactFormat string

const (
	FormatJSON ArtifactFormat = "json"
	FormatYAML ArtifactFormat = "yaml"
)

// FormatOf 根据来源扩展名判断格式；.yaml / .yml 为 YAML，其余按 JSON 处理。
func FormatOf(source string) ArtifactFormat {
	// 去掉 URL 查询串
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		source = source[:i]
	}
	switch strings.ToLower(path.Ext(source)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeArtifact 按格式反序列化制品
func DecodeArtifact(data []byte, format ArtifactFormat, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("artifact is empty")
	}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode yaml artifact: %w", err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode json artifact: %w", err)
		}
	}
	return nil
}

// EncodersArtifact 是类别编码器的序列化形式。
//
//	{"fields": {"Occupation": [...], "Type_of_Loan": [...]},
//	 "label": {"field": "Credit_Score", "classes": ["Good", "Poor", "Standard"]}}
type EncodersArtifact struct {
	Fields map[string][]string `json:"fields" yaml:"fields"`
	Label  LabelArtifact       `json:"label" yaml:"label"`
}

// LabelArtifact 目标标签词表
type LabelArtifact struct {
	Field   string   `json:"field" yaml:"field"`
	Classes []string `json:"classes" yaml:"classes"`
}

// Build 校验并构造 CategoricalEncoder。
func (a *EncodersArtifact) Build() (*CategoricalEncoder, error) {
	if len(a.Fields) == 0 {
		return nil, fmt.Errorf("encoders: no categorical fields")
	}
	enc := &CategoricalEncoder{Fields: make(map[string]*LabelEncoder, len(a.Fields))}
	for field, classes := range a.Fields {
		le, err := NewLabelEncoder(field, classes)
		if err != nil {
			return nil, err
		}
		enc.Fields[field] = le
	}
	field := a.Label.Field
	if field == "" {
		field = TargetField
	}
	target, err := NewLabelEncoder(field, a.Label.Classes)
	if err != nil {
		return nil, err
	}
	enc.Target = target
	return enc, nil
}

// ScalerArtifact 是 StandardScaler 的序列化形式。
type ScalerArtifact struct {
	Features []string  `json:"features" yaml:"features"`
	Mean     []float64 `json:"mean" yaml:"mean"`
	Scale    []float64 `json:"scale" yaml:"scale"`
}

// Build 校验并构造 StandardScaler。
func (a *ScalerArtifact) Build() (*StandardScaler, error) {
	return NewStandardScaler(a.Features, a.Mean, a.Scale)
}

// ParseEncoders 解析编码器制品
func ParseEncoders(data []byte, format ArtifactFormat) (*CategoricalEncoder, error) {
	var a EncodersArtifact
	if err := DecodeArtifact(data, format, &a); err != nil {
		return nil, err
	}
	return a.Build()
}

// ParseScaler 解析标准化器制品
func ParseScaler(data []byte, format ArtifactFormat) (*StandardScaler, error) {
	var a ScalerArtifact
	if err := DecodeArtifact(data, format, &a); err != nil {
		return nil, err
	}
	return a.Build()
}
