// Package rule 实现基于终声（받침）的助词一致性修复。
// 同义词替换可能把有받침的体言换成无받침的（或相反），使其后的助词失配；
// 本引擎按前一音节的终声把助词换成一致形。
package rule

import (
	"context"
	"strings"
	"unicode"

	"github.com/leeseungchae/kss/internal/hangul"
)

// pair: 助词异形对（withBatchim ↔ withoutBatchim）。
type pair struct {
	with    string // 前接音节有받침时的形
	without string // 无받침时的形
	// rieul: 으로/로 特例——ㄹ 받침 也接无받침形
	rieul bool
}

// 修复对象：主格/宾格/主题/接续/呼格助词与 으로/로。
// 长形在前：尾缀匹配时先试双音节形。
var pairs = []pair{
	{with: "으로", without: "로", rieul: true},
	{with: "이랑", without: "랑"},
	{with: "이나", without: "나"},
	{with: "은", without: "는"},
	{with: "이", without: "가"},
	{with: "을", without: "를"},
	{with: "과", without: "와"},
	{with: "아", without: "야"},
}

// Corrector 实现 contract.JosaCorrector。无状态、并发安全。
type Corrector struct{}

// New 创建助词修复引擎。
func New() *Corrector { return &Corrector{} }

// Correct 逐语节修复助词一致性；非语节字符（空白/标点）原样保留。
func (c *Corrector) Correct(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text))
	var word []rune
	flush := func() {
		if len(word) > 0 {
			b.WriteString(fixWord(word))
			word = word[:0]
		}
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			flush()
			b.WriteRune(r)
			continue
		}
		word = append(word, r)
	}
	flush()
	return b.String(), nil
}

// fixWord: 单个语节的助词修复（尾随标点先剥离再回接）。
func fixWord(rs []rune) string {
	end := len(rs)
	for end > 0 && (unicode.IsPunct(rs[end-1]) || unicode.IsSymbol(rs[end-1])) {
		end--
	}
	core := rs[:end]
	fixed := fixJosa(core)
	if fixed == nil {
		return string(rs)
	}
	return string(fixed) + string(rs[end:])
}

// fixJosa: 尾缀为助词异形之一且失配时替换；无需修复返回 nil。
func fixJosa(rs []rune) []rune {
	for _, p := range pairs {
		for _, form := range []string{p.with, p.without} {
			fr := []rune(form)
			if len(rs) <= len(fr) || !hasSuffix(rs, fr) {
				continue
			}
			stem := rs[:len(rs)-len(fr)]
			last := stem[len(stem)-1]
			if !hangul.IsSyllable(last) {
				continue
			}
			want := p.without
			if hangul.HasBatchim(last) && !(p.rieul && hangul.HasRieulBatchim(last)) {
				want = p.with
			}
			if form == want {
				return nil // 已一致
			}
			return append(append([]rune{}, stem...), []rune(want)...)
		}
	}
	return nil
}

func hasSuffix(rs, suffix []rune) bool {
	if len(rs) < len(suffix) {
		return false
	}
	off := len(rs) - len(suffix)
	for i, r := range suffix {
		if rs[off+i] != r {
			return false
		}
	}
	return true
}
