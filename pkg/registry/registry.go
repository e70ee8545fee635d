package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/leeseungchae/kss/pkg/contract"
	mcb "github.com/leeseungchae/kss/plugins/analyzer/mecab"
	pcb "github.com/leeseungchae/kss/plugins/analyzer/pecab"
	jrule "github.com/leeseungchae/kss/plugins/josa/rule"
	sheur "github.com/leeseungchae/kss/plugins/spacing/heuristic"
	syn "github.com/leeseungchae/kss/plugins/replacer/synonym"
)

// strictUnmarshal: 使用 DisallowUnknownFields 严格解码，拒绝未知字段。
func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		// 保持零值（默认选项）
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// NewAnalyzer 工厂签名：接收原样 JSON Options。
type NewAnalyzer func(raw json.RawMessage) (contract.Analyzer, error)

// Analyzer 后端工厂注册表（显式、零反射）。
var Analyzer = map[contract.Backend]NewAnalyzer{
	// mecab: 外部可执行文件后端
	contract.BackendMecab: func(raw json.RawMessage) (contract.Analyzer, error) {
		var opts mcb.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return mcb.New(&opts)
	},
	// pecab: 纯 Go 内置词典后端
	contract.BackendPecab: func(raw json.RawMessage) (contract.Analyzer, error) {
		var opts pcb.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return pcb.New(&opts)
	},
}

// mecabAvailable: 探测接缝（测试可替换）。
var mecabAvailable = mcb.Available

// ResolveBackend 将 "auto" 解析为具体后端：mecab 可用则 mecab，否则回退 pecab。
// 显式名不在注册表内时报 ErrUnsupportedBackend。
func ResolveBackend(name contract.Backend) (contract.Backend, error) {
	if name == contract.BackendAuto {
		if mecabAvailable() {
			return contract.BackendMecab, nil
		}
		return contract.BackendPecab, nil
	}
	if _, ok := Analyzer[name]; !ok {
		return "", fmt.Errorf("%w: %q", contract.ErrUnsupportedBackend, name)
	}
	return name, nil
}

// BuildAnalyzer 解析后端名并构造分析器。
func BuildAnalyzer(name contract.Backend, raw json.RawMessage) (contract.Analyzer, error) {
	resolved, err := ResolveBackend(name)
	if err != nil {
		return nil, err
	}
	return Analyzer[resolved](raw)
}

// NewReplacer 工厂签名：分析器 + 原样 JSON Options + 运行期注入。
type NewReplacer func(analyzer contract.Analyzer, raw json.RawMessage, extra ...syn.Option) (contract.Replacer, error)

// Replacer 替换引擎工厂注册表。
var Replacer = map[string]NewReplacer{
	// synonym: 比例受限同义词替换
	"synonym": func(analyzer contract.Analyzer, raw json.RawMessage, extra ...syn.Option) (contract.Replacer, error) {
		var opts syn.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return syn.New(analyzer, &opts, extra...)
	},
}

// NewJosa 工厂签名。
type NewJosa func(raw json.RawMessage) (contract.JosaCorrector, error)

// Josa 助词修复引擎工厂注册表。
var Josa = map[string]NewJosa{
	// rule: 终声一致性规则
	"rule": func(raw json.RawMessage) (contract.JosaCorrector, error) {
		if err := strictUnmarshal(raw, &struct{}{}); err != nil {
			return nil, err
		}
		return jrule.New(), nil
	},
}

// NewSpacing 工厂签名。
type NewSpacing func(raw json.RawMessage) (contract.SpacingCorrector, error)

// Spacing 空格归一化引擎工厂注册表。
var Spacing = map[string]NewSpacing{
	// heuristic: 规则式归一化
	"heuristic": func(raw json.RawMessage) (contract.SpacingCorrector, error) {
		if err := strictUnmarshal(raw, &struct{}{}); err != nil {
			return nil, err
		}
		return sheur.New(), nil
	},
}
