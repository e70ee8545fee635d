package contract

import "context"

// Morpheme: 形态素（表层形 + 词性标签）。
// 标签采用世宗标签集的最小子集：NNG/NNP 名词、VV/VA 用言、JKS/JKO/JX 等助词、
// EF 终结语尾、SN 数字、SL 外来文字、SF/SP 标点。
type Morpheme struct {
	Surface string
	Tag     string
}

// Analyzer: 形态素分析后端（mecab/pecab 双实现，可互换）。
// 约束：
// 1) 同步、无内部并发、幂等；
// 2) 尊重 ctx 取消并及时释放资源；
// 3) 输出形态素按原文出现顺序排列，不丢字。
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]Morpheme, error)
}

// 内容词标签（同义词替换的候选范围）。
func IsContentTag(tag string) bool {
	switch tag {
	case "NNG", "NNP", "VV", "VA":
		return true
	default:
		return false
	}
}

// IsJosaTag: 助词类标签判定（JK* 格助词、JX 补助词、JC 接续助词）。
func IsJosaTag(tag string) bool {
	if tag == "JX" || tag == "JC" {
		return true
	}
	return len(tag) == 3 && tag[0] == 'J' && tag[1] == 'K'
}
