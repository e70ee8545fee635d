// Package dispatch 提供执行计划解析与保序并行 map（本库唯一的并发点）。
package dispatch

import (
	"fmt"
	"runtime"

	"github.com/leeseungchae/kss/pkg/contract"
)

// Workers: 声明式 worker 数请求——Auto 或显式正整数（二选一求和类型）。
type Workers struct {
	auto bool
	n    int
}

// AutoWorkers 请求按批规模与 CPU 数启发式选择。
func AutoWorkers() Workers { return Workers{auto: true} }

// FixedWorkers 请求显式 worker 数（合法性在 PlanFor 中判定）。
func FixedWorkers(n int) Workers { return Workers{n: n} }

// Auto 报告是否为 auto 请求。
func (w Workers) Auto() bool { return w.auto }

// N 返回显式请求的 worker 数（auto 请求返回 0）。
func (w Workers) N() int {
	if w.auto {
		return 0
	}
	return w.n
}

// Plan: 执行计划——Direct（调用方顺序执行）或 Parallel(worker 数)。
// 生命周期仅限一次调用。
type Plan struct {
	workers int
}

// Parallel 报告计划是否并行。
func (p Plan) Parallel() bool { return p.workers > 1 }

// WorkerCount 返回并行 worker 数（Direct 计划为 1）。
func (p Plan) WorkerCount() int {
	if p.workers < 1 {
		return 1
	}
	return p.workers
}

// PlanFor 将 worker 请求按输入基数解析为具体计划。纯函数，不阻塞。
// 规则：
// - 显式请求非正数 → ErrWorkerPlan；
// - 基数 ≤ 1 时并行无意义，恒为 Direct；
// - auto → min(NumCPU, 基数)；显式 → min(请求数, 基数)。
func PlanFor(req Workers, cardinality int) (Plan, error) {
	if !req.auto && req.n < 1 {
		return Plan{}, fmt.Errorf("%w: num_workers must be a positive integer or \"auto\", got %d",
			contract.ErrWorkerPlan, req.n)
	}
	if cardinality <= 1 {
		return Plan{workers: 1}, nil
	}
	n := req.n
	if req.auto {
		n = runtime.NumCPU()
	}
	if n > cardinality {
		n = cardinality
	}
	if n < 1 {
		n = 1
	}
	return Plan{workers: n}, nil
}
