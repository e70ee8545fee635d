// Package heuristic 实现规则式空格归一化（统计模型为显式非目标）。
package heuristic

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Corrector 实现 contract.SpacingCorrector。无状态、并发安全。
// 规则（仅动空白，不动非空白字符序列）：
// 1) NFC 归一（组合字形统一，谚文兼容字母合并）；
// 2) 行内连续空白折叠为单个空格；
// 3) 关闭类标点（.,!?)]};:）前的空格删除；开启类（([{）后的空格删除；
// 4) 行尾空白删除、首尾空行修剪。
type Corrector struct{}

// New 创建空格归一化引擎。
func New() *Corrector { return &Corrector{} }

var (
	noSpaceBefore = map[rune]struct{}{
		'.': {}, ',': {}, '!': {}, '?': {}, ')': {}, ']': {}, '}': {}, ';': {}, ':': {},
	}
	noSpaceAfter = map[rune]struct{}{
		'(': {}, '[': {}, '{': {},
	}
)

// Correct 归一化 text 的空白；换行保留（按行处理）。
func (c *Corrector) Correct(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text = norm.NFC.String(text)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = fixLine(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func fixLine(line string) string {
	rs := []rune(strings.TrimSpace(line))
	var out []rune
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == ' ' || r == '\t' {
			// 折叠连续空白
			for i+1 < len(rs) && (rs[i+1] == ' ' || rs[i+1] == '\t') {
				i++
			}
			// 关闭类标点前不留空格
			if i+1 < len(rs) {
				if _, ok := noSpaceBefore[rs[i+1]]; ok {
					continue
				}
			}
			// 开启类标点后不留空格
			if len(out) > 0 {
				if _, ok := noSpaceAfter[out[len(out)-1]]; ok {
					continue
				}
			}
			out = append(out, ' ')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
