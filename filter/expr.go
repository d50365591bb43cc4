package filter

import (
	"context"
	"fmt"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述保留条件：表达式为 false 的候选被过滤。
//
// 示例：
//
//	item.features.price < 5e9
//	item.features.building_area >= reference.features.building_area * 0.5
//
// 求值出错（例如访问不存在的 key）时该候选保留。
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式；编译失败直接返回错误，便于在加载配置时发现。
func NewExprFilter(expr string) (*ExprFilter, error) {
	if expr == "" {
		return nil, fmt.Errorf("filter.expr: empty expression")
	}
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("filter.expr: %w", err)
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回原始表达式
func (f *ExprFilter) Expr() string {
	return f.prg.String()
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	keep, err := f.prg.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
