package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leeseungchae/kss"
	cfgpkg "github.com/leeseungchae/kss/internal/config"
	"github.com/leeseungchae/kss/internal/diag"
)

// 退出码约定：
//
//	0 成功
//	1 运行期失败
//	2 用法/输入错误
//	3 配置错误
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
	exitConfig  = 3
)

// exitError 携带退出码的错误包装；Execute 之外统一映射。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitErr(code int, err error) error { return &exitError{code: code, err: err} }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 在任何 ENV 读取前，尝试加载工作目录下的 .env（不覆盖已有 ENV）。
	_ = loadDotEnv(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var xe *exitError
		if errors.As(err, &xe) {
			return xe.code
		}
		// cobra 自身的解析错误（未知旗标/子命令）按用法错误处理
		return exitUsage
	}
	return exitOK
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kss",
		Short:         "韩语文本增强流水线（同义替换 / 助词校正 / 空格规整）",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newAugmentCmd())
	root.AddCommand(newInitConfigCmd())
	return root
}

// augmentFlags 仅记录 CLI 覆盖；未设置的旗标不参与 Merge。
type augmentFlags struct {
	config    string
	ratio     float64
	spaceNorm bool
	josaNorm  bool
	workers   string
	backend   string
	verbose   bool
	logLevel  string
	logDir    string
}

func newAugmentCmd() *cobra.Command {
	var fl augmentFlags
	cmd := &cobra.Command{
		Use:   "augment [input ...]",
		Short: "逐行增强输入文本（文件路径 或 \"-\" 表示 STDIN）",
		Long: "按行读取输入并输出增强结果。\n" +
			"位置参数为输入文件；\"-\" 表示 STDIN，且不能与文件混用。\n" +
			"优先级：CLI > ENV(.env) > JSON 配置。",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAugment(cmd, args, fl)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fl.config, "config", "", "配置文件路径（JSON）；缺省读取 ./config.json（若存在）")
	f.Float64Var(&fl.ratio, "ratio", 0, "同义替换比例 [0,1]（覆盖配置）")
	f.BoolVar(&fl.spaceNorm, "space-norm", true, "空格规整开关（覆盖配置）")
	f.BoolVar(&fl.josaNorm, "josa-norm", true, "助词校正开关（覆盖配置）")
	f.StringVar(&fl.workers, "workers", "", "并行度：\"auto\" 或正整数（覆盖配置）")
	f.StringVar(&fl.backend, "backend", "", "形态分析后端：auto|mecab|pecab（覆盖配置）")
	f.BoolVar(&fl.verbose, "verbose", false, "逐句输出替换差异（并行下自动关闭）")
	f.StringVar(&fl.logLevel, "log-level", "", "日志级别：debug|info|warn|error")
	f.StringVar(&fl.logDir, "log-dir", "", "日志目录（设置后写入轮转文件而非 stderr）")
	return cmd
}

func runAugment(cmd *cobra.Command, args []string, fl augmentFlags) error {
	// JSON 配置来源：旗标 > ENV 文件路径 > ENV 内联 JSON > 工作目录 config.json
	var cfgJSON []byte
	if s := os.Getenv("KSS_CONFIG_JSON"); s != "" {
		cfgJSON = []byte(s)
	}
	cfgPath := fl.config
	if cfgPath == "" {
		cfgPath = os.Getenv("KSS_CONFIG_FILE")
	}
	if cfgPath == "" && len(cfgJSON) == 0 {
		if _, err := os.Stat("config.json"); err == nil {
			cfgPath = "config.json"
		}
	}

	cfg := cfgpkg.Defaults()
	if cfgPath != "" || len(cfgJSON) > 0 {
		base, err := cfgpkg.LoadJSON(cfgPath, cfgJSON)
		if err != nil {
			fprintf(os.Stderr, "配置解析失败: %v\n", err)
			return exitErr(exitConfig, err)
		}
		cfg = cfgpkg.Merge(cfg, base)
	}

	overEnv, err := cfgpkg.EnvOverlay(os.Environ())
	if err != nil {
		fprintf(os.Stderr, "环境变量解析失败: %v\n", err)
		return exitErr(exitConfig, err)
	}
	cfg = cfgpkg.Merge(cfg, overEnv)
	cfg = cfgpkg.Merge(cfg, flagOverlay(cmd.Flags(), args, fl))

	// 日志 sink：Logging.Dir 设置时写轮转文件，否则 stderr。
	var sink io.Writer = os.Stderr
	if dir := strings.TrimSpace(cfg.Logging.Dir); dir != "" {
		rf := diag.NewRotatingFile(dir, 0)
		defer rf.Close()
		sink = rf
	}
	logger := diag.NewLogger(sink, cfg.Logging.Level)

	opts, err := cfgpkg.Assemble(cfg, logger)
	if err != nil {
		fprintf(os.Stderr, "配置校验失败: %v\n", err)
		logger.Error("cli", diag.Classify(err), "assemble failed", "err", err)
		return exitErr(exitConfig, err)
	}

	texts, err := readInputs(cfg.Inputs)
	if err != nil {
		fprintf(os.Stderr, "读取输入失败: %v\n", err)
		logger.Error("cli", diag.Classify(err), "read inputs failed", "err", err)
		return exitErr(exitUsage, err)
	}

	out, err := kss.AugmentList(cmd.Context(), texts, opts...)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fprintf(os.Stderr, "运行失败: %v\n", err)
		}
		logger.Error("cli", diag.Classify(err), "augment failed", "err", err)
		return exitErr(exitRuntime, err)
	}
	w := bufio.NewWriter(os.Stdout)
	for _, line := range out {
		_, _ = w.WriteString(line)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return exitErr(exitRuntime, err)
	}
	return nil
}

// flagOverlay 仅把“显式设置过”的旗标转为覆盖层（Changed 判定）。
// 动态值（ratio/workers）保持原样交给 Assemble 的 sanity 强制。
func flagOverlay(f *pflag.FlagSet, args []string, fl augmentFlags) cfgpkg.Config {
	var over cfgpkg.Config
	if len(args) > 0 {
		over.Inputs = args
	}
	if f.Changed("ratio") {
		over.ReplacementRatio = fl.ratio
	}
	if f.Changed("space-norm") {
		v := fl.spaceNorm
		over.SpaceNormalization = &v
	}
	if f.Changed("josa-norm") {
		v := fl.josaNorm
		over.JosaNormalization = &v
	}
	if f.Changed("workers") {
		over.NumWorkers = fl.workers
	}
	if f.Changed("backend") {
		over.Backend = fl.backend
	}
	if f.Changed("verbose") {
		v := fl.verbose
		over.Verbose = &v
	}
	if f.Changed("log-level") {
		over.Logging.Level = fl.logLevel
	}
	if f.Changed("log-dir") {
		over.Logging.Dir = fl.logDir
	}
	return over
}

// readInputs 按行收集文本单元。
// 约束：
// - 未指定输入时等价于 "-"（STDIN）；
// - "-" 不能与文件路径混用；
// - 保留空行（增强入口对空白行原样直通）。
func readInputs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if hasDash(inputs) && len(inputs) > 1 {
		return nil, errors.New(`"-" (STDIN) 不能与文件输入混用`)
	}
	var texts []string
	for _, in := range inputs {
		if strings.TrimSpace(in) == "-" {
			lines, err := readLines(os.Stdin)
			if err != nil {
				return nil, err
			}
			texts = append(texts, lines...)
			continue
		}
		f, err := os.Open(in)
		if err != nil {
			return nil, err
		}
		lines, err := readLines(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		texts = append(texts, lines...)
	}
	return texts, nil
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for s.Scan() {
		out = append(out, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func hasDash(ss []string) bool {
	for _, s := range ss {
		if strings.TrimSpace(s) == "-" {
			return true
		}
	}
	return false
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [dir]",
		Short: "在指定目录生成默认 config.json 与 .env 模板（已存在则跳过，不覆盖）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				dir = strings.TrimSpace(args[0])
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fprintf(os.Stderr, "生成默认配置失败: %v\n", err)
				return exitErr(exitConfig, err)
			}
			cfg := cfgpkg.DefaultTemplateConfig()
			if err := writeConfig(filepath.Join(dir, "config.json"), cfg); err != nil {
				fprintf(os.Stderr, "生成默认配置失败: %v\n", err)
				return exitErr(exitConfig, err)
			}
			if err := writeDotEnv(filepath.Join(dir, ".env")); err != nil {
				fprintf(os.Stderr, "提示：.env 生成失败（已跳过）：%v\n", err)
			}
			return nil
		},
	}
}

func fprintf(w *os.File, format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

func writeConfig(path string, c cfgpkg.Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(append(b, '\n'))
		return err
	}
	// 不覆盖已存在文件
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return err
	}
	_, _ = f.Write([]byte("\n"))
	return nil
}

// loadDotEnv 读取简单的 .env 文件格式并注入进程环境。
// 规则：
// - 忽略不存在的文件；无法读取时返回错误（但调用处可忽略）。
// - 跳过空行与以 # 开头的行；支持可选的前缀 "export ".
// - 仅按首个 '=' 分割；key 为左侧去空白；value 去首尾空白；
// - 若 value 被成对的单/双引号包裹，则去除外层引号；双引号内常见转义 \n/\t/\\/\" 作最小处理。
// - 不覆盖已存在的环境变量（保持系统/调用者优先）。
func loadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if key == "" {
			continue
		}
		// 去除成对引号
		if len(val) >= 2 {
			if (val[0] == '\'' && val[len(val)-1] == '\'') || (val[0] == '"' && val[len(val)-1] == '"') {
				quoted := val[0]
				val = val[1 : len(val)-1]
				if quoted == '"' {
					val = strings.ReplaceAll(val, "\\n", "\n")
					val = strings.ReplaceAll(val, "\\t", "\t")
					val = strings.ReplaceAll(val, "\\r", "\r")
					val = strings.ReplaceAll(val, "\\\"", "\"")
					val = strings.ReplaceAll(val, "\\\\", "\\")
				}
			}
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, val)
	}
	return s.Err()
}

// writeDotEnv 生成 .env 模板（若文件已存在则跳过）。
// 仅创建文件；不覆盖，不合并。
func writeDotEnv(path string) error {
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		return nil
	} else if err != nil && !os.IsNotExist(err) {
		return err
	}
	var b strings.Builder
	b.WriteString("# kss .env 模板（由 init-config 生成）\n")
	b.WriteString("# 优先级：CLI > ENV(.env) > JSON\n")
	b.WriteString("# 空值表示未设置；按需填写后移除本行注释。\n\n")

	b.WriteString("# 配置来源（可二选一）\n")
	b.WriteString("KSS_CONFIG_FILE=\n")
	b.WriteString("KSS_CONFIG_JSON=\n\n")

	b.WriteString("# 运行参数覆盖\n")
	b.WriteString("KSS_INPUTS=\n")
	b.WriteString("KSS_REPLACEMENT_RATIO=\n")
	b.WriteString("KSS_SPACE_NORMALIZATION=\n")
	b.WriteString("KSS_JOSA_NORMALIZATION=\n")
	b.WriteString("KSS_NUM_WORKERS=\n")
	b.WriteString("KSS_BACKEND=\n")
	b.WriteString("KSS_VERBOSE=\n\n")

	b.WriteString("# 日志\n")
	b.WriteString("KSS_LOG_LEVEL=\n")
	b.WriteString("KSS_LOG_DIR=\n\n")

	b.WriteString("# 组件选项（内联 JSON）\n")
	b.WriteString("KSS_OPTIONS_ANALYZER_JSON=\n")
	b.WriteString("KSS_OPTIONS_REPLACER_JSON=\n")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return err
	}
	return nil
}
