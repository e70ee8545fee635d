package contract

import "errors"

// 最小错误分类（哨兵；上层以 errors.Is 判定，不做字符串匹配）。
var (
	// ErrInputShape: text 参数既不是字符串也不是字符串有序集合；未执行任何阶段。
	ErrInputShape = errors.New("input shape invalid")
	// ErrTypeMismatch: 标量参数与声明类型不符（错误信息中标注参数名）。
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnsupportedBackend: 后端名不在支持集合（auto/mecab/pecab）内。
	ErrUnsupportedBackend = errors.New("unsupported backend")
	// ErrWorkerPlan: worker 数请求非法（如非正整数）。
	ErrWorkerPlan = errors.New("worker plan invalid")
	// ErrStageFailure: 下游替换/修复阶段失败的通用哨兵；原错误以 %w 链接，原样可达。
	ErrStageFailure = errors.New("stage failure")
	// ErrAnalyzerUnavailable: 分析后端不可用（如 mecab 可执行文件缺失）。
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
)
