// Package sanity 提供参数形状/类型检查（动态边界：CLI 与 JSON 配置层）。
// 校验全部在任何流水线阶段执行前完成；任一失败即整体失败，不开始批处理。
package sanity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leeseungchae/kss/internal/dispatch"
	"github.com/leeseungchae/kss/pkg/contract"
)

// Text: 输入形状检查与早退判定。
// 接受 string / []string / []any（元素均为 string）；其余形状报 ErrInputShape。
// 返回 (units, single, finish)：
// - single 表示输入为单条字符串（输出需镜像同形）；
// - finish=true 表示空/终态输入，调用方应原样透传且不执行任何阶段。
func Text(v any) (units []string, single bool, finish bool, err error) {
	switch t := v.(type) {
	case string:
		return []string{t}, true, t == "", nil
	case []string:
		return t, false, len(t) == 0, nil
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false, false, fmt.Errorf("%w: text[%d] is %T, want string", contract.ErrInputShape, i, e)
			}
			out[i] = s
		}
		return out, false, len(out) == 0, nil
	default:
		return nil, false, false, fmt.Errorf("%w: text is %T, want string or []string", contract.ErrInputShape, v)
	}
}

// Float 将 v 强制为 float64；失败报 ErrTypeMismatch 并标注参数名。
// 接受 float64/float32/int 族与十进制数字字符串（CLI/ENV 来源）。
func Float(v any, name string) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is %q, want float", contract.ErrTypeMismatch, name, t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s is %T, want float", contract.ErrTypeMismatch, name, v)
	}
}

// Bool 将 v 强制为 bool；失败报 ErrTypeMismatch 并标注参数名。
func Bool(v any, name string) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("%w: %s is %q, want bool", contract.ErrTypeMismatch, name, t)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %s is %T, want bool", contract.ErrTypeMismatch, name, v)
	}
}

// Ratio 在 Float 基础上校验取值域 [0,1]（NaN 亦视为类型不符）。
func Ratio(v any, name string) (float64, error) {
	f, err := Float(v, name)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f > 1 {
		return 0, fmt.Errorf("%w: %s must be in [0, 1], got %v", contract.ErrTypeMismatch, name, f)
	}
	return f, nil
}

// BackendName 校验后端名：仅允许 auto/mecab/pecab。
func BackendName(name string) (contract.Backend, error) {
	switch b := contract.Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case contract.BackendAuto, contract.BackendMecab, contract.BackendPecab:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: mecab, pecab, auto)", contract.ErrUnsupportedBackend, name)
	}
}

// Workers 将 num_workers 请求（字面 "auto" 或整数）解析为声明式请求。
// 非法值报 ErrTypeMismatch；正整数约束在 dispatch.PlanFor 中判定。
func Workers(v any, name string) (dispatch.Workers, error) {
	switch t := v.(type) {
	case nil:
		return dispatch.AutoWorkers(), nil
	case int:
		return dispatch.FixedWorkers(t), nil
	case int64:
		return dispatch.FixedWorkers(int(t)), nil
	case float64:
		// JSON 数字统一解码为 float64；要求为整数值
		if t != math.Trunc(t) {
			return dispatch.Workers{}, fmt.Errorf("%w: %s is %v, want integer or \"auto\"", contract.ErrTypeMismatch, name, t)
		}
		return dispatch.FixedWorkers(int(t)), nil
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "auto" || s == "" {
			return dispatch.AutoWorkers(), nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return dispatch.Workers{}, fmt.Errorf("%w: %s is %q, want integer or \"auto\"", contract.ErrTypeMismatch, name, t)
		}
		return dispatch.FixedWorkers(n), nil
	default:
		return dispatch.Workers{}, fmt.Errorf("%w: %s is %T, want integer or \"auto\"", contract.ErrTypeMismatch, name, v)
	}
}
