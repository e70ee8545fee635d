package dispatch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/leeseungchae/kss/pkg/contract"
)

// Fn: 单个文本单元的处理函数（同步、无共享可变状态）。
type Fn func(ctx context.Context, text string) (string, error)

// Run: 保序 map。Direct 计划在调用方 goroutine 顺序执行；
// 并行计划按 Plan.WorkerCount 限流 fan-out。
// 约束：
// - 输出位置与输入 Index 一致，与完成顺序无关；
// - 首错取消全组并作为整体错误返回（单元错误不污染兄弟单元的已得结果）；
// - 无重试、无超时；挂起的 worker 挂起整个调用。
func Run(ctx context.Context, units []contract.TextUnit, plan Plan, fn Fn) ([]string, error) {
	out := make([]string, len(units))
	if !plan.Parallel() {
		for _, u := range units {
			s, err := fn(ctx, u.Text)
			if err != nil {
				return nil, fmt.Errorf("unit %d: %w", u.Index, err)
			}
			out[u.Index] = s
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(plan.WorkerCount())
	for _, u := range units {
		u := u
		g.Go(func() error {
			s, err := fn(gctx, u.Text)
			if err != nil {
				return fmt.Errorf("unit %d: %w", u.Index, err)
			}
			out[u.Index] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
