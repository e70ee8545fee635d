// Package mecab 通过外部 mecab-ko 可执行文件做形态素分析。
package mecab

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/leeseungchae/kss/pkg/contract"
)

// Options 为 mecab 后端的可选配置（最小必要）。
type Options struct {
	// Path: 可执行文件路径。空表示从 PATH 查找 "mecab"。
	Path string `json:"path"`
	// DicDir: 词典目录（-d）。空表示使用 mecab 默认词典。
	DicDir string `json:"dic_dir"`
}

// Analyzer 实现 contract.Analyzer，逐次调用 mecab 进程。
type Analyzer struct {
	path   string
	dicDir string
}

// New 创建 mecab 后端；可执行文件不存在时报 ErrAnalyzerUnavailable。
func New(opts *Options) (*Analyzer, error) {
	path := "mecab"
	dic := ""
	if opts != nil {
		if strings.TrimSpace(opts.Path) != "" {
			path = strings.TrimSpace(opts.Path)
		}
		dic = strings.TrimSpace(opts.DicDir)
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: mecab binary %q not found", contract.ErrAnalyzerUnavailable, path)
	}
	return &Analyzer{path: resolved, dicDir: dic}, nil
}

// Available 探测 PATH 中是否存在 mecab（"auto" 后端选择策略使用）。
func Available() bool {
	_, err := exec.LookPath("mecab")
	return err == nil
}

// Analyze 将文本送入 mecab 标准输入，解析 "表层形\t词性,..." 行，直至 EOS。
// 多行输入逐行送入（mecab 按行分析）。
func (a *Analyzer) Analyze(ctx context.Context, text string) ([]contract.Morpheme, error) {
	args := []string{}
	if a.dicDir != "" {
		args = append(args, "-d", a.dicDir)
	}
	cmd := exec.CommandContext(ctx, a.path, args...)
	cmd.Stdin = strings.NewReader(text)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: mecab invoke: %w", contract.ErrAnalyzerUnavailable, err)
	}
	return parse(out)
}

// parse 解析 mecab 输出。特征行格式：POS,语义类,终声,读音,...，仅取首字段。
func parse(out []byte) ([]contract.Morpheme, error) {
	var morphs []contract.Morpheme
	sc := bufio.NewScanner(strings.NewReader(string(out)))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line == "EOS" {
			continue
		}
		surface, feature, ok := strings.Cut(line, "\t")
		if !ok {
			// 非预期行：跳过而非失败（mecab 告警可能混入）
			continue
		}
		tag := feature
		if i := strings.IndexByte(feature, ','); i >= 0 {
			tag = feature[:i]
		}
		// 复合标签（NNG+JKS 之类）仅取首个
		if i := strings.IndexByte(tag, '+'); i >= 0 {
			tag = tag[:i]
		}
		morphs = append(morphs, contract.Morpheme{Surface: surface, Tag: tag})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mecab output scan: %w", err)
	}
	return morphs, nil
}
