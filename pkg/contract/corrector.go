package contract

import "context"

// JosaCorrector: 助词一致性修复引擎。
// 约束：只修复体言与助词间的终声（받침）一致性，不做其他语法改写。
type JosaCorrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// SpacingCorrector: 空格归一化引擎。
// 约束：只调整空白与标点间距，不改变非空白字符序列。
type SpacingCorrector interface {
	Correct(ctx context.Context, text string) (string, error)
}
