package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Gerilya-By-BSI/huniya-ml/pipeline"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/Gerilya-By-BSI/huniya-ml/config/builders"
// 以触发内置 Node（recall.snapshot、filter.*、rank.cosine、rerank.topn）的 init 注册。

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
// 各组件在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type NodeBuilder = pipeline.NodeBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在各组件的 init 中调用，例如：func init() { config.Register("rank.cosine", BuildCosineNode) }
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory，包含所有通过 Register 注册的 Node 类型。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 校验 pipeline 配置：
//   - 所有 node 类型均已注册，否则返回包含已支持列表的错误；
//   - 同分区过滤（location）与参考房源排除（reference）必须出现，且位于第一个 rank 节点之前。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		defaultBuildersMu.RLock()
		_, ok := defaultBuilders[nc.Type]
		defaultBuildersMu.RUnlock()
		if !ok {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return validateHardFilters(cfg)
}

// 必须出现在排序之前的过滤器
var requiredFilters = []string{"location", "reference"}

func validateHardFilters(cfg *pipeline.Config) error {
	seen := make(map[string]bool, len(requiredFilters))
	for _, nc := range cfg.Pipeline.Nodes {
		if strings.HasPrefix(nc.Type, "rank.") || strings.HasPrefix(nc.Type, "rerank.") {
			break
		}
		for _, typ := range filterTypes(nc) {
			seen[typ] = true
		}
	}
	for _, typ := range requiredFilters {
		if !seen[typ] {
			return fmt.Errorf("pipeline %q: filter %q must run before ranking", cfg.Pipeline.Name, typ)
		}
	}
	return nil
}

// filterTypes 返回一个 node 配置中包含的过滤器类型：
// "filter.location" 形式的单过滤器节点，或 "filter" 节点 config.filters 中的 type 列表。
func filterTypes(nc pipeline.NodeConfig) []string {
	if typ, ok := strings.CutPrefix(nc.Type, "filter."); ok {
		return []string{typ}
	}
	if nc.Type != "filter" {
		return nil
	}
	raw, _ := nc.Config["filters"].([]any)
	out := make([]string, 0, len(raw))
	for _, fc := range raw {
		if fm, ok := fc.(map[string]any); ok {
			if typ, ok := fm["type"].(string); ok {
				out = append(out, typ)
			}
		}
	}
	return out
}
