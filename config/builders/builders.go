package builders

import (
	"fmt"

	"github.com/Gerilya-By-BSI/huniya-ml/config"
	"github.com/Gerilya-By-BSI/huniya-ml/filter"
	"github.com/Gerilya-By-BSI/huniya-ml/pipeline"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/conv"
	"github.com/Gerilya-By-BSI/huniya-ml/rank"
	"github.com/Gerilya-By-BSI/huniya-ml/recall"
	"github.com/Gerilya-By-BSI/huniya-ml/rerank"
)

func init() {
	config.Register("recall.snapshot", BuildSnapshotNode)
	config.Register("filter", BuildFilterNode)
	config.Register("filter.location", BuildLocationFilterNode)
	config.Register("filter.reference", BuildReferenceFilterNode)
	config.Register("filter.expr", BuildExprFilterNode)
	config.Register("filter.blacklist", BuildBlacklistFilterNode)
	config.Register("rank.cosine", BuildCosineNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildSnapshotNode(_ map[string]any) (pipeline.Node, error) {
	return &recall.SnapshotSource{}, nil
}

// BuildFilterNode 组合多个过滤器：
//
//	config:
//	  filters:
//	    - type: location
//	    - type: reference
//	    - type: expr
//	      expr: item.features.price < 5e9
//	    - type: blacklist
//	      ids: [12, 40]
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	raw, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(raw))
	for _, fc := range raw {
		fm, ok := fc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid filter config: %v", fc)
		}
		f, err := buildFilter(conv.ConfigGet(fm, "type", ""), fm)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filter.NewFilterNode(filters...), nil
}

func buildFilter(typ string, cfg map[string]any) (filter.Filter, error) {
	switch typ {
	case "location":
		return &filter.LocationFilter{}, nil
	case "reference":
		return &filter.ReferenceFilter{}, nil
	case "expr":
		return filter.NewExprFilter(conv.ConfigGet(cfg, "expr", ""))
	case "blacklist":
		return filter.NewBlacklistFilter(conv.SliceAnyToInt64(cfg["ids"]), nil, ""), nil
	default:
		return nil, fmt.Errorf("unknown filter type: %q", typ)
	}
}

func BuildLocationFilterNode(cfg map[string]any) (pipeline.Node, error) {
	return singleFilterNode("location", cfg)
}

func BuildReferenceFilterNode(cfg map[string]any) (pipeline.Node, error) {
	return singleFilterNode("reference", cfg)
}

func BuildExprFilterNode(cfg map[string]any) (pipeline.Node, error) {
	return singleFilterNode("expr", cfg)
}

func BuildBlacklistFilterNode(cfg map[string]any) (pipeline.Node, error) {
	return singleFilterNode("blacklist", cfg)
}

func singleFilterNode(typ string, cfg map[string]any) (pipeline.Node, error) {
	f, err := buildFilter(typ, cfg)
	if err != nil {
		return nil, err
	}
	return filter.NewFilterNode(f), nil
}

func BuildCosineNode(cfg map[string]any) (pipeline.Node, error) {
	scope, err := rank.ParseScalerScope(conv.ConfigGet(cfg, "scaler_scope", ""))
	if err != nil {
		return nil, err
	}
	return &rank.CosineNode{Scope: scope}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
