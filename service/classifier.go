package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/feature"
	"github.com/Gerilya-By-BSI/huniya-ml/model"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/metric"
)

// StatusSuccess 是成功预测的状态值
const StatusSuccess = "success"

// Prediction 是一次信用评分预测的结果：只有一个标签，不含概率。
type Prediction struct {
	Status string `json:"status"`
	Label  string `json:"prediction"`
}

// CreditScoreService 信用画像分类：编码 -> 按标准化器列顺序组装 -> 标准化 -> 分类 -> 解码。
// 依赖的制品加载后只读，可被并发请求共享。
type CreditScoreService struct {
	encoder *feature.CategoricalEncoder
	scaler  *feature.StandardScaler
	model   model.Classifier
}

func NewCreditScoreService(a *Artifacts) *CreditScoreService {
	return &CreditScoreService{
		encoder: a.Encoder,
		scaler:  a.Scaler,
		model:   a.Model,
	}
}

// Predict 对一条客户记录做分类。
// 任一步骤失败（包括模型 panic）都返回单一的 PredictionFailed 错误，原因通过 errors.Is / errors.As 可取。
func (s *CreditScoreService) Predict(ctx context.Context, record feature.Record) (pred *Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			pred, err = nil, core.NewPredictionFailed(fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			log.Error().Err(err).Msg("credit score prediction failed")
			metric.RecordPrediction("", err)
			return
		}
		metric.RecordPrediction(pred.Label, nil)
	}()

	label, err := s.predict(ctx, record)
	if err != nil {
		return nil, core.NewPredictionFailed(err)
	}
	return &Prediction{Status: StatusSuccess, Label: label}, nil
}

func (s *CreditScoreService) predict(ctx context.Context, record feature.Record) (string, error) {
	columns := s.scaler.Features
	if missing := record.MissingAttributes(columns); len(missing) > 0 {
		return "", fmt.Errorf("feature: missing attribute %q", missing[0])
	}

	for field := range s.encoder.Fields {
		if _, known := s.encoder.Encode(record, field); !known {
			metric.RecordUnknownCategory(field)
			log.Debug().Str("field", field).Interface("value", record[field]).Msg("unknown category, fallback to 0")
		}
	}
	encoded, err := s.encoder.EncodeFeatures(record)
	if err != nil {
		return "", err
	}
	row, err := feature.Row(encoded, columns)
	if err != nil {
		return "", err
	}
	scaled, err := s.scaler.TransformRow(row)
	if err != nil {
		return "", err
	}
	class, err := s.model.Predict(ctx, scaled)
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.model.Name(), err)
	}
	return s.encoder.DecodeTarget(class)
}
