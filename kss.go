// Package kss 提供韩文文本增强：同义词替换 + 助词/空格归一化。
// 入口为 Augment（单条）与 AugmentList（批量，保序并行）。
// 三段流水线次序固定：替换 → 助词修复 → 空格修复；
// 替换引入的不一致只有后两个阶段能修复，次序是硬约束。
package kss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	"github.com/leeseungchae/kss/internal/diag"
	"github.com/leeseungchae/kss/internal/dispatch"
	"github.com/leeseungchae/kss/internal/pipeline"
	"github.com/leeseungchae/kss/internal/sanity"
	"github.com/leeseungchae/kss/pkg/contract"
	"github.com/leeseungchae/kss/pkg/registry"
	syn "github.com/leeseungchae/kss/plugins/replacer/synonym"
)

// 测试接缝：流水线入口可替换。
var pipelineRun = pipeline.Run

// options: 一次调用的参数集（应用 Option 后校验为只读 Params）。
type options struct {
	ratio      float64
	spaceNorm  bool
	josaNorm   bool
	workers    dispatch.Workers
	backend    string
	verbose    bool
	logger     *diag.Logger
	verboseOut io.Writer
	randSrc    rand.Source

	analyzerRaw json.RawMessage
	replacerRaw json.RawMessage
}

// 缺省值：ratio=0.3，两项归一化开启，workers/backend=auto，verbose 关闭。
func defaultOptions() options {
	return options{
		ratio:     0.3,
		spaceNorm: true,
		josaNorm:  true,
		workers:   dispatch.AutoWorkers(),
		backend:   string(contract.BackendAuto),
	}
}

// Option 定制一次增强调用。
type Option func(*options)

// WithReplacementRatio 设置被替换词的比例（[0,1]，缺省 0.3）。
func WithReplacementRatio(ratio float64) Option {
	return func(o *options) { o.ratio = ratio }
}

// WithSpaceNormalization 开关空格归一化阶段（缺省开启）。
func WithSpaceNormalization(on bool) Option {
	return func(o *options) { o.spaceNorm = on }
}

// WithJosaNormalization 开关助词修复阶段（缺省开启）。
func WithJosaNormalization(on bool) Option {
	return func(o *options) { o.josaNorm = on }
}

// WithNumWorkers 请求显式 worker 数（单条输入恒为顺序执行）。
func WithNumWorkers(n int) Option {
	return func(o *options) { o.workers = dispatch.FixedWorkers(n) }
}

// WithAutoWorkers 请求按批规模启发式选择 worker 数（缺省）。
func WithAutoWorkers() Option {
	return func(o *options) { o.workers = dispatch.AutoWorkers() }
}

// WithBackend 指定形态素分析后端：mecab / pecab / auto（缺省 auto）。
func WithBackend(name string) Option {
	return func(o *options) { o.backend = name }
}

// WithVerbose 开关逐条差异渲染（仅副作用；并行计划下被强制关闭并告警）。
func WithVerbose(on bool) Option {
	return func(o *options) { o.verbose = on }
}

// WithLogger 注入日志器（verbose 告警在此可观测；nil 安全）。
func WithLogger(l *diag.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithVerboseOut 注入 verbose 差异渲染的输出目的地（缺省 stdout）。
func WithVerboseOut(w io.Writer) Option {
	return func(o *options) { o.verboseOut = w }
}

// WithRandSource 注入替换引擎的随机源（测试用确定性种子）。
func WithRandSource(src rand.Source) Option {
	return func(o *options) { o.randSrc = src }
}

// WithAnalyzerOptions 透传分析后端的原样 JSON Options（词典路径等）。
func WithAnalyzerOptions(raw json.RawMessage) Option {
	return func(o *options) { o.analyzerRaw = raw }
}

// WithReplacerOptions 透传替换引擎的原样 JSON Options（同义词词典路径等）。
func WithReplacerOptions(raw json.RawMessage) Option {
	return func(o *options) { o.replacerRaw = raw }
}

// Augment 增强单条文本。
// 空字符串为终态输入：原样透传，不执行任何阶段、不做参数校验。
// 单条输入永不并行，即使 WithNumWorkers 请求多 worker。
func Augment(ctx context.Context, text string, opts ...Option) (string, error) {
	if text == "" {
		return text, nil
	}
	out, err := run(ctx, []string{text}, opts)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// AugmentList 增强一批文本；输出与输入等长、同序（与 worker 完成顺序无关）。
// 空批为终态输入：原样透传。
func AugmentList(ctx context.Context, texts []string, opts ...Option) ([]string, error) {
	if len(texts) == 0 {
		return texts, nil
	}
	return run(ctx, texts, opts)
}

// AugmentAny 增强动态形状的输入（string / []string / 元素均为 string 的 []any），
// 输出镜像输入形状；其余形状报 ErrInputShape。
// 供 CLI/JSON 等动态边界使用；类型安全的调用方应优先 Augment / AugmentList。
func AugmentAny(ctx context.Context, text any, opts ...Option) (any, error) {
	units, single, finish, err := sanity.Text(text)
	if err != nil {
		return nil, err
	}
	if finish {
		return text, nil
	}
	out, err := run(ctx, units, opts)
	if err != nil {
		return nil, err
	}
	if single {
		return out[0], nil
	}
	return out, nil
}

// run: 校验 → 计划 → 装配引擎 → 流水线。
// 全部校验先于任何阶段执行；任一失败即整体失败，不开始批处理。
func run(ctx context.Context, texts []string, opts []Option) ([]string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ratio, err := sanity.Ratio(o.ratio, "replacement_ratio")
	if err != nil {
		return nil, err
	}
	backend, err := sanity.BackendName(o.backend)
	if err != nil {
		return nil, err
	}
	plan, err := dispatch.PlanFor(o.workers, len(texts))
	if err != nil {
		return nil, err
	}

	verbose := o.verbose
	if plan.Parallel() && verbose {
		// 并行下交错的差异输出不可读；选择关闭而非串行化输出
		verbose = false
		o.logger.Warn("augment",
			"Verbose mode is not supported for parallel execution. It will be turned off automatically.")
	}

	comp, err := assemble(backend, o)
	if err != nil {
		return nil, err
	}

	units := make([]contract.TextUnit, len(texts))
	for i, t := range texts {
		units[i] = contract.TextUnit{Index: i, Text: t}
	}
	set := pipeline.Settings{
		ReplacementRatio:   ratio,
		SpaceNormalization: o.spaceNorm,
		JosaNormalization:  o.josaNorm,
		Verbose:            verbose,
		VerboseOut:         o.verboseOut,
	}
	return pipelineRun(ctx, comp, set, units, plan, o.logger)
}

// assemble: 经注册表装配三段引擎。
func assemble(backend contract.Backend, o options) (pipeline.Components, error) {
	analyzer, err := registry.BuildAnalyzer(backend, o.analyzerRaw)
	if err != nil {
		return pipeline.Components{}, fmt.Errorf("assemble analyzer: %w", err)
	}
	var extra []syn.Option
	if o.randSrc != nil {
		extra = append(extra, syn.WithRand(o.randSrc))
	}
	if o.logger != nil {
		extra = append(extra, syn.WithLogger(o.logger))
	}
	replacer, err := registry.Replacer["synonym"](analyzer, o.replacerRaw, extra...)
	if err != nil {
		return pipeline.Components{}, fmt.Errorf("assemble replacer: %w", err)
	}
	josa, err := registry.Josa["rule"](nil)
	if err != nil {
		return pipeline.Components{}, fmt.Errorf("assemble josa: %w", err)
	}
	spacing, err := registry.Spacing["heuristic"](nil)
	if err != nil {
		return pipeline.Components{}, fmt.Errorf("assemble spacing: %w", err)
	}
	return pipeline.Components{Replacer: replacer, Josa: josa, Spacing: spacing}, nil
}
