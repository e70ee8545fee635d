package kss

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeseungchae/kss/internal/diag"
	"github.com/leeseungchae/kss/internal/dispatch"
	"github.com/leeseungchae/kss/internal/pipeline"
	"github.com/leeseungchae/kss/pkg/contract"
)

// capturePipeline 替换流水线接缝并记录调用参数；返回恢复函数。
func capturePipeline(t *testing.T, set *pipeline.Settings, plan *dispatch.Plan) func() {
	t.Helper()
	prev := pipelineRun
	pipelineRun = func(_ context.Context, _ pipeline.Components, s pipeline.Settings,
		units []contract.TextUnit, p dispatch.Plan, _ *diag.Logger) ([]string, error) {
		*set = s
		*plan = p
		out := make([]string, len(units))
		for i, u := range units {
			out[i] = u.Text
		}
		return out, nil
	}
	return func() { pipelineRun = prev }
}

func TestAugmentEmptyPassthrough(t *testing.T) {
	// 空字符串为终态输入：不校验、不装配、不执行任何阶段
	prev := pipelineRun
	pipelineRun = func(context.Context, pipeline.Components, pipeline.Settings,
		[]contract.TextUnit, dispatch.Plan, *diag.Logger) ([]string, error) {
		t.Fatal("pipeline must not run for empty input")
		return nil, nil
	}
	defer func() { pipelineRun = prev }()

	// 非法参数也不报错：终态早退先于校验
	out, err := Augment(context.Background(), "", WithReplacementRatio(9), WithBackend("klt"))
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestAugmentListEmptyPassthrough(t *testing.T) {
	out, err := AugmentList(context.Background(), nil, WithBackend("klt"))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = AugmentList(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAugmentRatioOutOfRange(t *testing.T) {
	for _, bad := range []float64{-0.1, 1.5} {
		_, err := Augment(context.Background(), "사과", WithReplacementRatio(bad))
		require.ErrorIs(t, err, contract.ErrTypeMismatch)
		assert.Contains(t, err.Error(), "replacement_ratio")
	}
}

func TestAugmentUnsupportedBackend(t *testing.T) {
	_, err := Augment(context.Background(), "사과", WithBackend("klt"))
	require.ErrorIs(t, err, contract.ErrUnsupportedBackend)
	assert.Contains(t, err.Error(), "klt")
}

func TestAugmentInvalidWorkerCount(t *testing.T) {
	for _, n := range []int{0, -2} {
		_, err := Augment(context.Background(), "사과", WithNumWorkers(n))
		require.ErrorIs(t, err, contract.ErrWorkerPlan)
	}
}

func TestAugmentSingleNeverParallel(t *testing.T) {
	var set pipeline.Settings
	var plan dispatch.Plan
	defer capturePipeline(t, &set, &plan)()

	_, err := Augment(context.Background(), "사과는 좋다",
		WithBackend("pecab"), WithNumWorkers(8))
	require.NoError(t, err)
	assert.False(t, plan.Parallel())
	assert.Equal(t, 1, plan.WorkerCount())
}

func TestAugmentListBatchShapeAndOrder(t *testing.T) {
	// 端到端：与词典无交集的文本原样往返，形状与顺序保持
	in := []string{"가", "나다"}
	out, err := AugmentList(context.Background(), in,
		WithBackend("pecab"), WithNumWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestVerboseDisabledUnderParallel(t *testing.T) {
	var set pipeline.Settings
	var plan dispatch.Plan
	defer capturePipeline(t, &set, &plan)()

	var logBuf bytes.Buffer
	logger := diag.NewLogger(&logBuf, "info")

	_, err := AugmentList(context.Background(), []string{"가", "나", "다"},
		WithBackend("pecab"), WithNumWorkers(2), WithVerbose(true), WithLogger(logger))
	require.NoError(t, err)
	require.True(t, plan.Parallel())
	// verbose 被强制关闭，且告警在注入的日志器中可观测
	assert.False(t, set.Verbose)
	assert.Contains(t, logBuf.String(), "Verbose mode is not supported for parallel execution")
}

func TestVerboseKeptWhenDirect(t *testing.T) {
	var set pipeline.Settings
	var plan dispatch.Plan
	defer capturePipeline(t, &set, &plan)()

	var logBuf bytes.Buffer
	logger := diag.NewLogger(&logBuf, "info")

	_, err := Augment(context.Background(), "사과",
		WithBackend("pecab"), WithVerbose(true), WithLogger(logger))
	require.NoError(t, err)
	assert.True(t, set.Verbose)
	assert.NotContains(t, logBuf.String(), "Verbose mode is not supported")
}

func TestStageToggles(t *testing.T) {
	var set pipeline.Settings
	var plan dispatch.Plan
	defer capturePipeline(t, &set, &plan)()

	_, err := Augment(context.Background(), "사과",
		WithBackend("pecab"),
		WithSpaceNormalization(false), WithJosaNormalization(false), WithReplacementRatio(0.7))
	require.NoError(t, err)
	assert.False(t, set.SpaceNormalization)
	assert.False(t, set.JosaNormalization)
	assert.InDelta(t, 0.7, set.ReplacementRatio, 1e-9)
}

func TestAugmentEndToEnd(t *testing.T) {
	// ratio 1 且各候选仅一个同义词：结果确定；
	// 三段效果叠加可见：替换 → 助词一致 → 空格归一
	out, err := Augment(context.Background(), "사람이  좋다 .",
		WithBackend("pecab"),
		WithReplacementRatio(1),
		WithRandSource(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, "인간이 훌륭하다.", out)
}

func TestAugmentEndToEndJosaRepair(t *testing.T) {
	// 말（有받침）→ 언어（无받침）：宾格助词由 을 修为 를
	out, err := Augment(context.Background(), "말을 믿는다",
		WithBackend("pecab"),
		WithReplacementRatio(1),
		WithRandSource(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, "언어를 믿는다", out)
}

func TestVerboseDiffWrittenToInjectedOut(t *testing.T) {
	var diffBuf bytes.Buffer
	out, err := Augment(context.Background(), "사람이 좋다",
		WithBackend("pecab"),
		WithReplacementRatio(1),
		WithVerbose(true),
		WithVerboseOut(&diffBuf))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	// 差异渲染写入注入目的地，含原文与结果词
	assert.Contains(t, diffBuf.String(), "사람이")
	assert.Contains(t, diffBuf.String(), "인간이")
}

func TestAugmentAnyShapes(t *testing.T) {
	var set pipeline.Settings
	var plan dispatch.Plan
	defer capturePipeline(t, &set, &plan)()

	// 单条：输出镜像为 string
	out, err := AugmentAny(context.Background(), "사과", WithBackend("pecab"))
	require.NoError(t, err)
	assert.Equal(t, "사과", out)

	// 列表：输出镜像为 []string
	out, err = AugmentAny(context.Background(), []any{"가", "나"}, WithBackend("pecab"))
	require.NoError(t, err)
	assert.Equal(t, []string{"가", "나"}, out)

	// 终态输入原样透传（含原始形状）
	out, err = AugmentAny(context.Background(), "", WithBackend("klt"))
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestAugmentAnyInvalidShape(t *testing.T) {
	_, err := AugmentAny(context.Background(), 42)
	require.ErrorIs(t, err, contract.ErrInputShape)

	_, err = AugmentAny(context.Background(), []any{"가", 1})
	require.ErrorIs(t, err, contract.ErrInputShape)
}

func TestAugmentListPropagatesStageFailure(t *testing.T) {
	cause := errors.New("boom")
	prev := pipelineRun
	pipelineRun = func(context.Context, pipeline.Components, pipeline.Settings,
		[]contract.TextUnit, dispatch.Plan, *diag.Logger) ([]string, error) {
		return nil, cause
	}
	defer func() { pipelineRun = prev }()

	_, err := AugmentList(context.Background(), []string{"가"}, WithBackend("pecab"))
	require.ErrorIs(t, err, cause)
}
