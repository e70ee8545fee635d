package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeseungchae/kss/pkg/contract"
)

func mkUnits(texts ...string) []contract.TextUnit {
	units := make([]contract.TextUnit, len(texts))
	for i, t := range texts {
		units[i] = contract.TextUnit{Index: i, Text: t}
	}
	return units
}

func TestRunDirectPreservesOrder(t *testing.T) {
	units := mkUnits("가", "나", "다")
	out, err := Run(context.Background(), units, Plan{workers: 1}, func(_ context.Context, s string) (string, error) {
		return s + "!", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"가!", "나!", "다!"}, out)
}

func TestRunParallelPreservesOrder(t *testing.T) {
	// 故意让靠前的单元完成更晚：输出仍须按输入序装配
	units := mkUnits("0", "1", "2", "3", "4", "5", "6", "7")
	plan, err := PlanFor(FixedWorkers(4), len(units))
	require.NoError(t, err)
	require.True(t, plan.Parallel())

	out, err := Run(context.Background(), units, plan, func(_ context.Context, s string) (string, error) {
		if s < "4" {
			time.Sleep(10 * time.Millisecond)
		}
		return strings.ToUpper(s) + "x", nil
	})
	require.NoError(t, err)
	for i, got := range out {
		assert.Equal(t, fmt.Sprintf("%dx", i), got)
	}
}

func TestRunFirstErrorWins(t *testing.T) {
	sentinel := errors.New("boom")
	units := mkUnits("가", "나", "다", "라")
	plan, err := PlanFor(FixedWorkers(2), len(units))
	require.NoError(t, err)

	out, err := Run(context.Background(), units, plan, func(_ context.Context, s string) (string, error) {
		if s == "다" {
			return "", sentinel
		}
		return s, nil
	})
	require.ErrorIs(t, err, sentinel)
	// 整批失败：无部分结果
	assert.Nil(t, out)
	// 错误信息标注失败单元的序号
	assert.Contains(t, err.Error(), "unit 2")
}

func TestRunDirectStopsAtFirstError(t *testing.T) {
	sentinel := errors.New("boom")
	var calls atomic.Int32
	units := mkUnits("가", "나", "다")
	_, err := Run(context.Background(), units, Plan{workers: 1}, func(_ context.Context, s string) (string, error) {
		calls.Add(1)
		if s == "나" {
			return "", sentinel
		}
		return s, nil
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRunCancelPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	units := mkUnits("가", "나")
	plan, err := PlanFor(FixedWorkers(2), len(units))
	require.NoError(t, err)

	_, err = Run(ctx, units, plan, func(ctx context.Context, s string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return s, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
