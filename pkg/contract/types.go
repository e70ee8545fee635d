package contract

// TextUnit: 原子增强单元（单条文本 + 输入序号）。
// 约束：
// - Index 对应调用方输入顺序，自 0 严格递增；
// - 批结果装配仅依赖 Index，与 worker 完成顺序无关。
type TextUnit struct {
	Index int
	Text  string
}

// Backend: 形态素分析后端名（注册表中的实现名，或 "auto" 交由选择策略决定）。
type Backend string

const (
	BackendAuto  Backend = "auto"
	BackendMecab Backend = "mecab"
	BackendPecab Backend = "pecab"
)
