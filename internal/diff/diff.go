// Package diff 渲染原文与增强结果的对齐差异（仅供人工检查）。
package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// 删除/插入片段的着色（无色彩终端自动退化为纯文本）。
var (
	delStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true)
	insStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// 词级 LCS 的规模上限；超限时放弃对齐，回退为整行对照。
const maxCells = 1 << 20

// Highlight 渲染 orig 与 result 的词级差异：
// - 删除片段红色删除线，插入片段绿色；
// - 输出恒为单行（真实换行转义为 \n）；
// - 对退化输入（空对空）返回空串；任何输入下不失败。
func Highlight(orig, result string) string {
	a := strings.Fields(orig)
	b := strings.Fields(result)
	if len(a) == 0 && len(b) == 0 {
		return ""
	}
	var parts []string
	if len(a)*len(b) > maxCells {
		// 规模超限：不做对齐，整行对照
		parts = append(parts, delStyle.Render(strings.Join(a, " ")), insStyle.Render(strings.Join(b, " ")))
	} else {
		parts = render(a, b)
	}
	out := strings.Join(parts, " ")
	return strings.ReplaceAll(out, "\n", `\n`)
}

// render 按 LCS 回溯产出 等同/删除/插入 片段序列。
func render(a, b []string) []string {
	n, m := len(a), len(b)
	// dp[i][j]: a[i:] 与 b[j:] 的 LCS 长度
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}
	var parts []string
	var del, ins []string
	flush := func() {
		if len(del) > 0 {
			parts = append(parts, delStyle.Render(strings.Join(del, " ")))
			del = del[:0]
		}
		if len(ins) > 0 {
			parts = append(parts, insStyle.Render(strings.Join(ins, " ")))
			ins = ins[:0]
		}
	}
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			flush()
			parts = append(parts, a[i])
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			del = append(del, a[i])
			i++
		default:
			ins = append(ins, b[j])
			j++
		}
	}
	for ; i < n; i++ {
		del = append(del, a[i])
	}
	for ; j < m; j++ {
		ins = append(ins, b[j])
	}
	flush()
	return parts
}
