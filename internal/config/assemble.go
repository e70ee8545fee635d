package config

import (
	kss "github.com/leeseungchae/kss"
	"github.com/leeseungchae/kss/internal/diag"
	"github.com/leeseungchae/kss/internal/sanity"
)

// Assemble 将合并后的 Config 转换为增强调用的 Option 列表。
// 动态值（replacement_ratio / num_workers）在此经 sanity 强制；
// 类型不符以 TypeMismatch（标注参数名）上浮，先于任何阶段执行。
func Assemble(cfg Config, logger *diag.Logger) ([]kss.Option, error) {
	var opts []kss.Option

	if cfg.ReplacementRatio != nil {
		f, err := sanity.Ratio(cfg.ReplacementRatio, "replacement_ratio")
		if err != nil {
			return nil, err
		}
		opts = append(opts, kss.WithReplacementRatio(f))
	}
	if cfg.SpaceNormalization != nil {
		opts = append(opts, kss.WithSpaceNormalization(*cfg.SpaceNormalization))
	}
	if cfg.JosaNormalization != nil {
		opts = append(opts, kss.WithJosaNormalization(*cfg.JosaNormalization))
	}
	if cfg.NumWorkers != nil {
		w, err := sanity.Workers(cfg.NumWorkers, "num_workers")
		if err != nil {
			return nil, err
		}
		if w.Auto() {
			opts = append(opts, kss.WithAutoWorkers())
		} else {
			opts = append(opts, kss.WithNumWorkers(w.N()))
		}
	}
	if cfg.Backend != "" {
		// 后端名在入口处统一校验（UnsupportedBackend 先于派发）
		opts = append(opts, kss.WithBackend(cfg.Backend))
	}
	if cfg.Verbose != nil {
		opts = append(opts, kss.WithVerbose(*cfg.Verbose))
	}
	if len(cfg.Options.Analyzer) > 0 {
		opts = append(opts, kss.WithAnalyzerOptions(cloneRaw(cfg.Options.Analyzer)))
	}
	if len(cfg.Options.Replacer) > 0 {
		opts = append(opts, kss.WithReplacerOptions(cloneRaw(cfg.Options.Replacer)))
	}
	if logger != nil {
		opts = append(opts, kss.WithLogger(logger))
	}
	return opts, nil
}
