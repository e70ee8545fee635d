package contract

import "context"

// Replacer: 同义词替换引擎——对单条文本做比例受限的词替换。
// 约束：
// 1) ratio ∈ [0,1]，按内容词候选数折算替换上限；
// 2) 无可替换候选时原样返回（概率性阶段，允许零改动）；
// 3) verbose 仅产生日志副作用，不改变返回值；
// 4) 无内部并发；同一文本单元自始至终单线程处理。
type Replacer interface {
	Replace(ctx context.Context, text string, ratio float64, verbose bool) (string, error)
}
