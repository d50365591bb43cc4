package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("reference", cel.DynType),
		cel.Variable("params", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的布尔表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可被并发请求复用。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.features.price < 5e9 / item.score >= 0.5
//   - 参考房源：item.features.land_area >= reference.features.land_area * 0.5
//   - 标签：label.recall_source == "recall.snapshot"
//   - 逻辑：item.features.room_count >= 2.0 && item.location == reference.location
//
// 注意：CEL 访问不存在的 key 会报错，可以用 has(item.meta.title) 检查存在性。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式
func (p *Program) String() string {
	return p.expr
}

// Eval 对单个 item 求值
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	in := map[string]any{
		"item": map[string]any{
			"id":       item.ID,
			"score":    item.Score,
			"location": item.Location,
			"features": floatMap(item.Features),
			"meta":     item.Meta,
		},
		"label":     labels,
		"reference": map[string]any{},
		"params":    map[string]any{},
	}
	if rctx != nil {
		if rctx.Reference != nil {
			in["reference"] = map[string]any{
				"index":    rctx.Reference.Index,
				"location": rctx.Reference.Location,
				"features": floatMap(rctx.Reference.Features()),
			}
		}
		if rctx.Params != nil {
			in["params"] = rctx.Params
		}
	}
	return in
}

func floatMap(m map[string]float64) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
