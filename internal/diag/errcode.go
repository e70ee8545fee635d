package diag

import (
	"context"
	"errors"
	"os"

	"github.com/leeseungchae/kss/pkg/contract"
)

// Code 是最小错误分类代码。
// 仅用于日志汇总，与对外错误语义解耦。
type Code string

const (
	CodeUnknown Code = "unknown"
	CodeInput   Code = "input"
	CodeBackend Code = "backend"
	CodePlan    Code = "plan"
	CodeStage   Code = "stage"
	CodeCancel  Code = "cancel"
	CodeIO      Code = "io"
)

// Classify 将错误归为最小分类。
// 说明：仅依赖哨兵错误与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	// 参数校验
	if errors.Is(err, contract.ErrInputShape) || errors.Is(err, contract.ErrTypeMismatch) {
		return CodeInput
	}
	// 后端选择
	if errors.Is(err, contract.ErrUnsupportedBackend) || errors.Is(err, contract.ErrAnalyzerUnavailable) {
		return CodeBackend
	}
	// 执行计划
	if errors.Is(err, contract.ErrWorkerPlan) {
		return CodePlan
	}
	// 下游阶段
	if errors.Is(err, contract.ErrStageFailure) {
		return CodeStage
	}
	// I/O
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}
