package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/feature"
	"github.com/Gerilya-By-BSI/huniya-ml/model"
)

// 测试用制品：Credit_History_Age 推高 Good，Outstanding_Debt 推高 Poor，Standard 只有偏置。
func fixtureArtifacts() (feature.EncodersArtifact, feature.ScalerArtifact, model.Artifact) {
	n := len(feature.CustomerAttributes)
	mean := make([]float64, n)
	scale := make([]float64, n)
	good := make([]float64, n)
	poor := make([]float64, n)
	for i, name := range feature.CustomerAttributes {
		scale[i] = 1
		switch name {
		case "Credit_History_Age":
			mean[i], scale[i] = 200, 100
			good[i] = 1
		case "Outstanding_Debt":
			mean[i], scale[i] = 1000, 500
			poor[i] = 1
		}
	}

	enc := feature.EncodersArtifact{
		Fields: map[string][]string{
			"Occupation":   {"Doctor", "Engineer", "Lawyer"},
			"Type_of_Loan": {"Auto Loan", "Mortgage Loan"},
		},
		Label: feature.LabelArtifact{Field: feature.TargetField, Classes: []string{"Good", "Poor", "Standard"}},
	}
	sc := feature.ScalerArtifact{Features: feature.CustomerAttributes, Mean: mean, Scale: scale}
	m := model.Artifact{
		Kind:     model.KindSoftmax,
		Name:     "credit-softmax",
		Features: feature.CustomerAttributes,
		Classes:  3,
		Weights:  [][]float64{good, poor, make([]float64, n)},
		Bias:     []float64{0, 0, 0.5},
	}
	return enc, sc, m
}

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeArtifacts(t *testing.T, enc feature.EncodersArtifact, sc feature.ScalerArtifact, m model.Artifact) ArtifactSources {
	t.Helper()
	dir := t.TempDir()
	return ArtifactSources{
		Encoders: writeJSON(t, dir, "encoders.json", enc),
		Scaler:   writeJSON(t, dir, "scaler.json", sc),
		Model:    writeJSON(t, dir, "model.json", m),
	}
}

func loadFixture(t *testing.T) *Artifacts {
	t.Helper()
	enc, sc, m := fixtureArtifacts()
	a, err := LoadArtifacts(context.Background(), feature.NewMultiLoader(0), writeArtifacts(t, enc, sc, m))
	require.NoError(t, err)
	return a
}

func customer() feature.Record {
	return feature.Record{
		"Age":                    23,
		"Occupation":             "Engineer",
		"Annual_Income":          19114.12,
		"Monthly_Inhand_Salary":  1824.84,
		"Num_Bank_Accounts":      3,
		"Num_Credit_Card":        4,
		"Interest_Rate":          3,
		"Num_of_Loan":            4,
		"Type_of_Loan":           "Mortgage Loan",
		"Delay_from_due_date":    3,
		"Num_of_Delayed_Payment": 7,
		"Changed_Credit_Limit":   11.27,
		"Num_Credit_Inquiries":   4,
		"Credit_Mix":             2,
		"Outstanding_Debt":       809.98,
		"Credit_History_Age":     265,
		"Payment_of_Min_Amount":  1,
		"Total_EMI_per_month":    49.57,
		"Payment_Behaviour":      2,
		"Monthly_Balance":        312.49,
	}
}

func with(r feature.Record, kv ...any) feature.Record {
	out := make(feature.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}

func TestLoadArtifacts(t *testing.T) {
	a := loadFixture(t)
	assert.Equal(t, "credit-softmax", a.Model.Name())
	assert.Equal(t, len(feature.CustomerAttributes), a.Scaler.NumFeatures())
	assert.Equal(t, 3, a.Encoder.Target.Len())
}

func TestLoadArtifacts_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*feature.EncodersArtifact, *feature.ScalerArtifact, *model.Artifact)
	}{
		{
			name: "model features out of order",
			mutate: func(_ *feature.EncodersArtifact, _ *feature.ScalerArtifact, m *model.Artifact) {
				f := append([]string(nil), m.Features...)
				f[0], f[1] = f[1], f[0]
				m.Features = f
			},
		},
		{
			name: "class count mismatch",
			mutate: func(e *feature.EncodersArtifact, _ *feature.ScalerArtifact, _ *model.Artifact) {
				e.Label.Classes = []string{"Good", "Poor"}
			},
		},
		{
			name: "categorical field not a feature",
			mutate: func(e *feature.EncodersArtifact, _ *feature.ScalerArtifact, _ *model.Artifact) {
				e.Fields = map[string][]string{"Occupation": {"Doctor"}, "City": {"Jakarta"}}
			},
		},
		{
			name: "scaler length mismatch",
			mutate: func(_ *feature.EncodersArtifact, s *feature.ScalerArtifact, _ *model.Artifact) {
				s.Mean = s.Mean[:3]
			},
		},
		{
			name: "unknown model kind",
			mutate: func(_ *feature.EncodersArtifact, _ *feature.ScalerArtifact, m *model.Artifact) {
				m.Kind = "pickle"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, sc, m := fixtureArtifacts()
			tt.mutate(&enc, &sc, &m)
			_, err := LoadArtifacts(context.Background(), feature.NewMultiLoader(0), writeArtifacts(t, enc, sc, m))
			require.Error(t, err)
			assert.True(t, core.IsStartupArtifactError(err))
		})
	}
}

func TestLoadArtifacts_MissingOrCorrupt(t *testing.T) {
	enc, sc, m := fixtureArtifacts()
	src := writeArtifacts(t, enc, sc, m)

	missing := src
	missing.Model = filepath.Join(t.TempDir(), "absent.json")
	_, err := LoadArtifacts(context.Background(), feature.NewMultiLoader(0), missing)
	assert.True(t, core.IsStartupArtifactError(err))

	corrupt := src
	corrupt.Scaler = filepath.Join(t.TempDir(), "scaler.json")
	require.NoError(t, os.WriteFile(corrupt.Scaler, []byte("{not json"), 0o600))
	_, err = LoadArtifacts(context.Background(), feature.NewMultiLoader(0), corrupt)
	assert.True(t, core.IsStartupArtifactError(err))

	unset := src
	unset.Encoders = ""
	_, err = LoadArtifacts(context.Background(), feature.NewMultiLoader(0), unset)
	assert.True(t, core.IsStartupArtifactError(err))
}

func TestCreditScoreService_Predict(t *testing.T) {
	svc := NewCreditScoreService(loadFixture(t))
	ctx := context.Background()

	tests := []struct {
		name   string
		record feature.Record
		want   string
	}{
		{name: "known categories", record: customer(), want: "Good"},
		{name: "unknown occupation falls back", record: with(customer(), "Occupation", "Astronaut"), want: "Good"},
		{name: "heavy debt", record: with(customer(), "Credit_History_Age", 100, "Outstanding_Debt", 2500.0), want: "Poor"},
		{name: "average profile", record: with(customer(), "Credit_History_Age", 200, "Outstanding_Debt", 1000.0), want: "Standard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := svc.Predict(ctx, tt.record)
			require.NoError(t, err)
			assert.Equal(t, &Prediction{Status: StatusSuccess, Label: tt.want}, pred)
		})
	}
}

func TestCreditScoreService_Deterministic(t *testing.T) {
	svc := NewCreditScoreService(loadFixture(t))
	first, err := svc.Predict(context.Background(), customer())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		got, err := svc.Predict(context.Background(), customer())
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestCreditScoreService_PredictionFailed(t *testing.T) {
	svc := NewCreditScoreService(loadFixture(t))

	missing := customer()
	delete(missing, "Monthly_Balance")

	tests := []struct {
		name   string
		record feature.Record
	}{
		{name: "missing attribute", record: missing},
		{name: "non numeric attribute", record: with(customer(), "Age", "twenty")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := svc.Predict(context.Background(), tt.record)
			assert.Nil(t, pred)
			require.Error(t, err)
			assert.True(t, core.IsPredictionFailed(err))
			assert.True(t, errors.Is(err, core.ErrPredictionFailed))
		})
	}
}

type panicModel struct{ model.Classifier }

func (panicModel) Predict(context.Context, []float64) (int, error) { panic("boom") }

type outOfRangeModel struct{ model.Classifier }

func (outOfRangeModel) Predict(context.Context, []float64) (int, error) { return 7, nil }

func TestCreditScoreService_ModelFaults(t *testing.T) {
	for _, m := range []func(model.Classifier) model.Classifier{
		func(c model.Classifier) model.Classifier { return panicModel{c} },
		func(c model.Classifier) model.Classifier { return outOfRangeModel{c} },
	} {
		a := loadFixture(t)
		a.Model = m(a.Model)
		_, err := NewCreditScoreService(a).Predict(context.Background(), customer())
		require.Error(t, err)
		assert.True(t, core.IsPredictionFailed(err))
	}
}
