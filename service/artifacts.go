package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/feature"
	"github.com/Gerilya-By-BSI/huniya-ml/model"
)

// ArtifactSources 是三个启动期制品的来源（文件路径、URL、redis://key 或 s3://bucket/key）。
type ArtifactSources struct {
	Model    string
	Encoders string
	Scaler   string
}

// Artifacts 是加载完成的只读制品，由所有请求并发共享。
type Artifacts struct {
	Encoder *feature.CategoricalEncoder
	Scaler  *feature.StandardScaler
	Model   model.Classifier
}

// LoadArtifacts 并发加载并校验全部制品。
// 任一制品缺失、不可读或 schema 不符都返回 StartupArtifactError，进程不应对外服务。
func LoadArtifacts(ctx context.Context, loader feature.ArtifactLoader, src ArtifactSources) (*Artifacts, error) {
	var a Artifacts
	eg, ectx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		data, err := load(ectx, loader, "encoders", src.Encoders)
		if err != nil {
			return err
		}
		enc, err := feature.ParseEncoders(data, feature.FormatOf(src.Encoders))
		if err != nil {
			return core.NewStartupArtifactError("encoders", err)
		}
		a.Encoder = enc
		return nil
	})
	eg.Go(func() error {
		data, err := load(ectx, loader, "scaler", src.Scaler)
		if err != nil {
			return err
		}
		s, err := feature.ParseScaler(data, feature.FormatOf(src.Scaler))
		if err != nil {
			return core.NewStartupArtifactError("scaler", err)
		}
		a.Scaler = s
		return nil
	})
	eg.Go(func() error {
		data, err := load(ectx, loader, "model", src.Model)
		if err != nil {
			return err
		}
		m, err := model.LoadClassifier(data, feature.FormatOf(src.Model))
		if err != nil {
			return core.NewStartupArtifactError("model", err)
		}
		a.Model = m
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, core.NewStartupArtifactError("set", err)
	}

	log.Info().
		Str("model", a.Model.Name()).
		Int("features", a.Scaler.NumFeatures()).
		Strs("labels", a.Encoder.Target.Classes).
		Msg("artifacts loaded")
	return &a, nil
}

func load(ctx context.Context, loader feature.ArtifactLoader, name, source string) ([]byte, error) {
	if source == "" {
		return nil, core.NewStartupArtifactError(name, fmt.Errorf("source not configured"))
	}
	data, err := loader.Load(ctx, source)
	if err != nil {
		return nil, core.NewStartupArtifactError(name, err)
	}
	return data, nil
}

// Validate 交叉校验制品之间的一致性：
//   - 模型输入列与标准化器特征列完全一致（含顺序）
//   - 模型类别数等于目标标签词表大小
//   - 每个类别字段都在标准化器特征列中
func (a *Artifacts) Validate() error {
	if a.Encoder == nil || a.Encoder.Target == nil || a.Scaler == nil || a.Model == nil {
		return fmt.Errorf("incomplete artifact set")
	}
	if err := a.Scaler.CheckFeatures(a.Model.Features()); err != nil {
		return fmt.Errorf("model features do not match scaler: %w", err)
	}
	if a.Model.NumClasses() != a.Encoder.Target.Len() {
		return fmt.Errorf("model has %d classes, label encoder has %d", a.Model.NumClasses(), a.Encoder.Target.Len())
	}
	known := make(map[string]struct{}, len(a.Scaler.Features))
	for _, f := range a.Scaler.Features {
		known[f] = struct{}{}
	}
	for field := range a.Encoder.Fields {
		if _, ok := known[field]; !ok {
			return fmt.Errorf("categorical field %q is not a scaler feature", field)
		}
	}
	return nil
}
