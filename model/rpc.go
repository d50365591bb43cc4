package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// RPCModel 是通过 HTTP 调用外部模型服务的 Classifier 实现。
// 适用于 XGBoost / TensorFlow Serving / TorchServe 等托管在独立进程中的模型。
type RPCModel struct {
	name     string
	features []string
	classes  int
	Endpoint string // 例如 "http://localhost:8080/predict"
	Timeout  time.Duration
	Client   *http.Client
}

func NewRPCModel(name, endpoint string, features []string, classes int, timeout time.Duration) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RPCModel{
		name:     name,
		features: features,
		classes:  classes,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (m *RPCModel) Name() string       { return m.name }
func (m *RPCModel) Features() []string { return m.features }
func (m *RPCModel) NumClasses() int    { return m.classes }

// Predict 调用远程模型服务进行预测（单行，内部调用批量接口）。
func (m *RPCModel) Predict(ctx context.Context, x []float64) (int, error) {
	if err := checkInput(m, x); err != nil {
		return 0, err
	}
	classes, err := m.PredictBatch(ctx, [][]float64{x})
	if err != nil {
		return 0, err
	}
	return classes[0], nil
}

// PredictBatch 调用远程模型服务进行批量预测。
// 请求格式（JSON）：
//
//	{"features": ["Age", ...], "instances": [[0.12, -1.3, ...], ...]}
//
// 响应格式（JSON）：
//
//	{"classes": [2, 0, ...]}
func (m *RPCModel) PredictBatch(ctx context.Context, instances [][]float64) ([]int, error) {
	if len(instances) == 0 {
		return []int{}, nil
	}
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}

	payload, err := json.Marshal(map[string]any{
		"features":  m.features,
		"instances": instances,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Classes []int `json:"classes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Classes) != len(instances) {
		return nil, fmt.Errorf("response classes count mismatch: expected %d, got %d", len(instances), len(result.Classes))
	}
	for _, c := range result.Classes {
		if c < 0 || c >= m.classes {
			return nil, fmt.Errorf("rpc: class %d out of range [0, %d)", c, m.classes)
		}
	}
	return result.Classes, nil
}
