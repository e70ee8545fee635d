// Package synonym 实现比例受限的同义词替换引擎。
// 候选 = 形态素分析产出的内容词 ∩ 同义词词典；选择与替换均与词义无关
// （WSD 留待未来的替换引擎，这里不推断任何消歧策略）。
package synonym

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/leeseungchae/kss/internal/diag"
	"github.com/leeseungchae/kss/pkg/contract"
)

//go:embed synonyms.yaml
var embeddedSynonyms []byte

// Options 为同义词替换引擎的可选配置（最小必要）。
type Options struct {
	// SynonymsPath: 外部同义词词典（yaml）路径。空表示使用内置词典。
	SynonymsPath string `json:"synonyms_path"`
}

// Option 注入运行期协作物（非序列化配置）。
type Option func(*Replacer)

// WithRand 注入随机源（测试用确定性种子）。
func WithRand(src rand.Source) Option {
	return func(r *Replacer) {
		if src != nil {
			r.rng = rand.New(src)
		}
	}
}

// WithLogger 注入日志器（verbose 逐词替换记录）。
func WithLogger(l *diag.Logger) Option {
	return func(r *Replacer) { r.logger = l }
}

type synonymFile struct {
	Synonyms map[string][]string `yaml:"synonyms"`
}

// Replacer 实现 contract.Replacer。
// rng 由互斥锁保护：并行计划下同一实例被多个 worker 调用。
type Replacer struct {
	analyzer contract.Analyzer
	synonyms map[string][]string
	logger   *diag.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New 创建替换引擎并装载同义词词典。
func New(analyzer contract.Analyzer, opts *Options, extra ...Option) (*Replacer, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("synonym: analyzer is required")
	}
	raw := embeddedSynonyms
	if opts != nil && strings.TrimSpace(opts.SynonymsPath) != "" {
		b, err := os.ReadFile(opts.SynonymsPath)
		if err != nil {
			return nil, fmt.Errorf("synonym dict read: %w", err)
		}
		raw = b
	}
	var sf synonymFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("synonym dict parse: %w", err)
	}
	r := &Replacer{
		analyzer: analyzer,
		synonyms: sf.Synonyms,
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
	for _, o := range extra {
		o(r)
	}
	return r, nil
}

// Replace 对单条文本做比例受限替换。
// 约束：
// - ratio ≤ 0 或无候选时原样返回；
// - 替换数 = max(1, ⌊ratio × 候选数⌋)；
// - 只替换语节首部的内容词表层形，助词等尾缀原样保留
//   （由此引入的终声不一致交由后续 josa 阶段修复——阶段次序的硬约束）。
func (r *Replacer) Replace(ctx context.Context, text string, ratio float64, verbose bool) (string, error) {
	if ratio <= 0 || strings.TrimSpace(text) == "" {
		return text, nil
	}
	morphs, err := r.analyzer.Analyze(ctx, text)
	if err != nil {
		return "", fmt.Errorf("synonym analyze: %w", err)
	}
	// 候选收集：内容词 ∩ 词典；按出现序去重
	var cands []string
	seen := make(map[string]struct{})
	for _, m := range morphs {
		if !contract.IsContentTag(m.Tag) {
			continue
		}
		if _, ok := r.synonyms[m.Surface]; !ok {
			continue
		}
		if _, dup := seen[m.Surface]; dup {
			continue
		}
		seen[m.Surface] = struct{}{}
		cands = append(cands, m.Surface)
	}
	if len(cands) == 0 {
		return text, nil
	}
	k := int(ratio * float64(len(cands)))
	if k < 1 {
		k = 1
	}
	if k > len(cands) {
		k = len(cands)
	}

	r.mu.Lock()
	r.rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	picks := make(map[string]string, k)
	for _, surface := range cands[:k] {
		syns := r.synonyms[surface]
		picks[surface] = syns[r.rng.Intn(len(syns))]
	}
	r.mu.Unlock()

	segs := splitWords(text)
	replaced := make(map[string]bool, len(picks))
	for i, seg := range segs {
		if !seg.word {
			continue
		}
		for surface, syn := range picks {
			if replaced[surface] || !strings.HasPrefix(seg.text, surface) {
				continue
			}
			segs[i].text = syn + seg.text[len(surface):]
			replaced[surface] = true
			if verbose {
				r.logger.Info("replacer", "synonym replaced", "from", surface, "to", syn)
			}
			break
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, seg := range segs {
		b.WriteString(seg.text)
	}
	return b.String(), nil
}

type segment struct {
	text string
	word bool
}

// splitWords 将文本切为 词段/空白段 交替序列，保留原始空白。
func splitWords(text string) []segment {
	var segs []segment
	var cur strings.Builder
	curWord := false
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, segment{text: cur.String(), word: curWord})
			cur.Reset()
		}
	}
	for _, r := range text {
		isWord := !unicode.IsSpace(r)
		if cur.Len() > 0 && isWord != curWord {
			flush()
		}
		curWord = isWord
		cur.WriteRune(r)
	}
	flush()
	return segs
}
