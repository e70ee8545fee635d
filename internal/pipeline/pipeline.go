package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leeseungchae/kss/internal/diag"
	"github.com/leeseungchae/kss/internal/diff"
	"github.com/leeseungchae/kss/internal/dispatch"
	"github.com/leeseungchae/kss/pkg/contract"
)

// - 单点并发：并发只发生在 dispatch 层；各阶段引擎均为同步、无内部并发。
// - 阶段次序：替换 → 助词修复 → 空格修复，硬约束——替换可能引入新的
//   助词/空格不一致，只有后两个阶段知道如何修复；提前执行则无物可修。
// - 首错传播：任一阶段失败原样上抛（ErrStageFailure 哨兵 + 原错误链），
//   无重试、无部分结果；批内单元 i 的失败不污染其他 worker 的兄弟单元。

// Components 聚合三段引擎（均为外部协作者，经 contract 接口注入）。
type Components struct {
	Replacer contract.Replacer
	Josa     contract.JosaCorrector
	Spacing  contract.SpacingCorrector
}

// Settings 运行期参数（校验后只读；广播给所有 worker 的共享只读资源）。
type Settings struct {
	ReplacementRatio   float64
	SpaceNormalization bool
	JosaNormalization  bool
	Verbose            bool
	// VerboseOut: verbose 差异渲染的输出目的地（nil → stdout）。
	// 仅副作用，永不改变返回值。
	VerboseOut io.Writer
}

// Run 对全部文本单元执行固定三段流水线，按 plan 派发，按输入序装配结果。
// 约束：
// - 输出切片与 units 等长且位置一一对应；
// - verbose 只在 Direct 计划下有意义（并行下由上游强制关闭）。
func Run(ctx context.Context, comp Components, set Settings, units []contract.TextUnit,
	plan dispatch.Plan, logger *diag.Logger) ([]string, error) {
	if err := sanity(comp); err != nil {
		return nil, fmt.Errorf("sanity: %w", err)
	}
	out, err := dispatch.Run(ctx, units, plan, func(ctx context.Context, text string) (string, error) {
		return runOne(ctx, comp, set, text, logger)
	})
	if err != nil {
		logger.Error("pipeline", diag.Classify(err), "run failed", "units", len(units))
		return nil, err
	}
	return out, nil
}

// runOne: 单个文本单元的完整流水线（同一 worker 自始至终处理）。
func runOne(ctx context.Context, comp Components, set Settings, text string, logger *diag.Logger) (string, error) {
	orig := text

	text, err := comp.Replacer.Replace(ctx, text, set.ReplacementRatio, set.Verbose)
	if err != nil {
		return "", fmt.Errorf("%w: replacer: %w", contract.ErrStageFailure, err)
	}

	if set.JosaNormalization {
		text, err = comp.Josa.Correct(ctx, text)
		if err != nil {
			return "", fmt.Errorf("%w: josa: %w", contract.ErrStageFailure, err)
		}
	}

	if set.SpaceNormalization {
		text, err = comp.Spacing.Correct(ctx, text)
		if err != nil {
			return "", fmt.Errorf("%w: spacing: %w", contract.ErrStageFailure, err)
		}
	}

	if set.Verbose {
		w := set.VerboseOut
		if w == nil {
			w = os.Stdout
		}
		// 仅副作用；渲染恒为单行（换行已转义）
		fmt.Fprintln(w)
		fmt.Fprintln(w, diff.Highlight(orig, text))
		logger.Debug("pipeline", "unit done", "changed", orig != text)
	}
	return text, nil
}

func sanity(c Components) error {
	if c.Replacer == nil || c.Josa == nil || c.Spacing == nil {
		return errors.New("pipeline: missing components")
	}
	return nil
}
