// Package pecab 是纯 Go 的形态素分析后端：内置词典最长匹配 + 谚文形状启发式。
// mecab 不可用环境下的回退实现，无外部进程、无 cgo。
package pecab

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/leeseungchae/kss/internal/hangul"
	"github.com/leeseungchae/kss/pkg/contract"
)

//go:embed dict.yaml
var embeddedDict []byte

// Options 为 pecab 后端的可选配置（最小必要）。
type Options struct {
	// DictPath: 外部词典（yaml）路径。空表示使用内置词典。
	DictPath string `json:"dict_path"`
}

// dictFile: 词典文件结构（yaml）。
type dictFile struct {
	Nouns      []string `yaml:"nouns"`
	Predicates []struct {
		Surface string `yaml:"surface"`
		Tag     string `yaml:"tag"`
	} `yaml:"predicates"`
}

// Analyzer 实现 contract.Analyzer。
type Analyzer struct {
	nouns      map[string]struct{}
	predicates map[string]string // 表层形 → VV/VA
	maxNoun    int               // 名词最长 rune 数（最长匹配上界）
}

// New 创建 pecab 后端并装载词典。
func New(opts *Options) (*Analyzer, error) {
	raw := embeddedDict
	if opts != nil && strings.TrimSpace(opts.DictPath) != "" {
		b, err := os.ReadFile(opts.DictPath)
		if err != nil {
			return nil, fmt.Errorf("pecab dict read: %w", err)
		}
		raw = b
	}
	var df dictFile
	if err := yaml.Unmarshal(raw, &df); err != nil {
		return nil, fmt.Errorf("pecab dict parse: %w", err)
	}
	a := &Analyzer{
		nouns:      make(map[string]struct{}, len(df.Nouns)),
		predicates: make(map[string]string, len(df.Predicates)),
	}
	for _, n := range df.Nouns {
		a.nouns[n] = struct{}{}
		if l := len([]rune(n)); l > a.maxNoun {
			a.maxNoun = l
		}
	}
	for _, p := range df.Predicates {
		tag := p.Tag
		if tag != "VA" {
			tag = "VV"
		}
		a.predicates[p.Surface] = tag
	}
	return a, nil
}

// 助词表层形 → 标签（长形优先匹配）。
var josaTags = map[string]string{
	"은": "JX", "는": "JX", "도": "JX", "만": "JX",
	"이": "JKS", "가": "JKS", "께서": "JKS",
	"을": "JKO", "를": "JKO",
	"과": "JC", "와": "JC", "이랑": "JC", "랑": "JC", "이나": "JC", "나": "JC",
	"의": "JKG", "에": "JKB", "에서": "JKB", "에게": "JKB",
	"으로": "JKB", "로": "JKB", "부터": "JKB", "까지": "JKB",
	"야": "JKV", "아": "JKV",
}

// Analyze 将文本按空白/标点切段后逐语节分析。
// 启发式优先级：数字/外来文字 → 词典用言 → 词典名词(+助词) → 助词尾缀剥离 → 整段 NA。
func (a *Analyzer) Analyze(ctx context.Context, text string) ([]contract.Morpheme, error) {
	var morphs []contract.Morpheme
	for _, tok := range tokenize(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tok.punct {
			tag := "SP"
			if strings.ContainsAny(tok.text, ".!?") {
				tag = "SF"
			}
			morphs = append(morphs, contract.Morpheme{Surface: tok.text, Tag: tag})
			continue
		}
		morphs = append(morphs, a.analyzeEojeol(tok.text)...)
	}
	return morphs, nil
}

// analyzeEojeol: 单个语节的切分。
func (a *Analyzer) analyzeEojeol(w string) []contract.Morpheme {
	rs := []rune(w)
	if allDigits(rs) {
		return []contract.Morpheme{{Surface: w, Tag: "SN"}}
	}
	if allLatin(rs) {
		return []contract.Morpheme{{Surface: w, Tag: "SL"}}
	}
	if tag, ok := a.predicates[w]; ok {
		return []contract.Morpheme{{Surface: w, Tag: tag}}
	}
	// 名词最长前缀 + 余部助词
	limit := len(rs)
	if limit > a.maxNoun {
		limit = a.maxNoun
	}
	for l := limit; l >= 1; l-- {
		head := string(rs[:l])
		if _, ok := a.nouns[head]; !ok {
			continue
		}
		rest := string(rs[l:])
		if rest == "" {
			return []contract.Morpheme{{Surface: head, Tag: "NNG"}}
		}
		if jt, ok := josaTags[rest]; ok {
			return []contract.Morpheme{
				{Surface: head, Tag: "NNG"},
				{Surface: rest, Tag: jt},
			}
		}
	}
	// 词典未命中：剥离已知助词尾缀（长形优先），残干按谚文名词处理
	for _, l := range []int{2, 1} {
		if len(rs) <= l {
			continue
		}
		tail := string(rs[len(rs)-l:])
		jt, ok := josaTags[tail]
		if !ok {
			continue
		}
		head := rs[:len(rs)-l]
		if !hangul.IsSyllable(head[len(head)-1]) {
			continue
		}
		return []contract.Morpheme{
			{Surface: string(head), Tag: "NNG"},
			{Surface: tail, Tag: jt},
		}
	}
	return []contract.Morpheme{{Surface: w, Tag: "NA"}}
}

type token struct {
	text  string
	punct bool
}

// tokenize: 空白切段；语节首尾标点独立成段（语节内部标点保留）。
func tokenize(text string) []token {
	var toks []token
	for _, f := range strings.Fields(text) {
		rs := []rune(f)
		// 前导标点
		i := 0
		for i < len(rs) && isPunct(rs[i]) {
			i++
		}
		// 尾随标点
		j := len(rs)
		for j > i && isPunct(rs[j-1]) {
			j--
		}
		if i > 0 {
			toks = append(toks, token{text: string(rs[:i]), punct: true})
		}
		if j > i {
			toks = append(toks, token{text: string(rs[i:j])})
		}
		if j < len(rs) {
			toks = append(toks, token{text: string(rs[j:]), punct: true})
		}
	}
	return toks
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(rs) > 0
}

func allLatin(rs []rune) bool {
	for _, r := range rs {
		if !unicode.Is(unicode.Latin, r) {
			return false
		}
	}
	return len(rs) > 0
}
