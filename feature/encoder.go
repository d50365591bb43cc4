package feature

import (
	"fmt"

	"github.com/Gerilya-By-BSI/huniya-ml/pkg/conv"
)

// FallbackCode 是未登录类别（训练时未见过的取值）的编码。
// 未知类别会降低预测质量，但绝不能让链路失败。
const FallbackCode = 0

// Encoder 是特征编码器接口
// 所有编码都需要特征名才能正确编码（因为需要通过特征名查找对应的词表）
type Encoder interface {
	// EncodeWithKey 编码单个值（指定特征名）
	EncodeWithKey(key string, value any) (float64, error)
	// EncodeFeatures 编码整条记录，返回纯数值特征
	EncodeFeatures(record Record) (map[string]float64, error)
}

// LabelEncoder Label 编码（标签编码）
// 将类别映射为整数（0, 1, 2, ...），编码值即类别在 Classes 中的下标。
// Classes 与训练侧 sklearn LabelEncoder.classes_ 保持一致（已排序）。
type LabelEncoder struct {
	Field   string
	Classes []string

	codes map[string]int
}

// NewLabelEncoder 创建 Label 编码器；Classes 为空或有重复时返回错误。
func NewLabelEncoder(field string, classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("label encoder %q: empty vocabulary", field)
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; dup {
			return nil, fmt.Errorf("label encoder %q: duplicate class %q", field, c)
		}
		codes[c] = i
	}
	cp := make([]string, len(classes))
	copy(cp, classes)
	return &LabelEncoder{Field: field, Classes: cp, codes: codes}, nil
}

// Lookup 返回类别的训练编码；未登录类别返回 (0, false)。
func (e *LabelEncoder) Lookup(value string) (int, bool) {
	code, ok := e.codes[value]
	return code, ok
}

// Encode 返回类别的训练编码；未登录类别返回 FallbackCode。
func (e *LabelEncoder) Encode(value string) int {
	if code, ok := e.codes[value]; ok {
		return code
	}
	return FallbackCode
}

// Decode 是 Encode 的逆映射，用于把模型输出的类别下标还原为标签。
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("label encoder %q: code %d out of range [0, %d)", e.Field, code, len(e.Classes))
	}
	return e.Classes[code], nil
}

// Len 返回词表大小
func (e *LabelEncoder) Len() int {
	return len(e.Classes)
}

// Encode 对 record 中的单个类别字段编码。
// 字段存在且在词表中时返回训练编码，否则返回 FallbackCode。
func Encode(record Record, field string, enc *LabelEncoder) int {
	s, ok := conv.ToString(record[field])
	if !ok {
		return FallbackCode
	}
	return enc.Encode(s)
}

// CategoricalEncoder 聚合每个类别字段的 LabelEncoder 以及目标标签编码器。
// 加载后只读，可被并发请求共享。
type CategoricalEncoder struct {
	Fields map[string]*LabelEncoder
	Target *LabelEncoder
}

// IsCategorical 判断字段是否需要类别编码
func (c *CategoricalEncoder) IsCategorical(field string) bool {
	_, ok := c.Fields[field]
	return ok
}

// Encode 编码 record 中的类别字段；第二个返回值表示取值是否在词表中。
// 非类别字段返回 (0, false)。
func (c *CategoricalEncoder) Encode(record Record, field string) (int, bool) {
	enc, ok := c.Fields[field]
	if !ok {
		return FallbackCode, false
	}
	s, ok := conv.ToString(record[field])
	if !ok {
		return FallbackCode, false
	}
	return enc.Lookup(s)
}

// EncodeRecord 返回新 Record：类别字段替换为编码，其余字段原样保留。
func (c *CategoricalEncoder) EncodeRecord(record Record) Record {
	out := make(Record, len(record))
	for k, v := range record {
		if enc, ok := c.Fields[k]; ok {
			out[k] = Encode(record, k, enc)
			continue
		}
		out[k] = v
	}
	return out
}

// EncodeWithKey 编码单个值：类别字段走词表（未知取 0），其余字段原样透传为数值。
func (c *CategoricalEncoder) EncodeWithKey(key string, value any) (float64, error) {
	if enc, ok := c.Fields[key]; ok {
		s, _ := conv.ToString(value)
		return float64(enc.Encode(s)), nil
	}
	f, ok := conv.ToFloat64(value)
	if !ok {
		return 0, fmt.Errorf("feature: attribute %q is not numeric (%T)", key, value)
	}
	return f, nil
}

// EncodeFeatures 编码整条记录
func (c *CategoricalEncoder) EncodeFeatures(record Record) (map[string]float64, error) {
	encoded := make(map[string]float64, len(record))
	for k, v := range record {
		if v == nil {
			continue
		}
		f, err := c.EncodeWithKey(k, v)
		if err != nil {
			return nil, err
		}
		encoded[k] = f
	}
	return encoded, nil
}

// DecodeTarget 把类别下标还原为目标标签
func (c *CategoricalEncoder) DecodeTarget(code int) (string, error) {
	if c.Target == nil {
		return "", fmt.Errorf("label encoder %q not loaded", TargetField)
	}
	return c.Target.Decode(code)
}

var _ Encoder = (*CategoricalEncoder)(nil)
