package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Defaults 返回带有安全默认值的 Config 雏形。
// 动态值（ratio/workers）不在此落地：缺省语义由增强入口本身承担。
func Defaults() Config {
	return Config{
		Backend: "auto",
		Logging: Logging{Level: "info"},
	}
}

// LoadJSON 从文件路径或原始 JSON 解析 Config（严格拒绝未知字段）。
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge 按优先级合并（后者覆盖前者）。
// 仅标量/字符串/原样 JSON 为“替换”；不做深度合并。
// 指针布尔区分“未设置”与“显式 false”（space/josa 缺省为开，零值不可用作哨兵）。
func Merge(base, over Config) Config {
	out := base
	if len(over.Inputs) > 0 {
		out.Inputs = cloneStrings(over.Inputs)
	}
	if over.ReplacementRatio != nil {
		out.ReplacementRatio = over.ReplacementRatio
	}
	if over.SpaceNormalization != nil {
		out.SpaceNormalization = over.SpaceNormalization
	}
	if over.JosaNormalization != nil {
		out.JosaNormalization = over.JosaNormalization
	}
	if over.NumWorkers != nil {
		out.NumWorkers = over.NumWorkers
	}
	if strings.TrimSpace(over.Backend) != "" {
		out.Backend = strings.TrimSpace(over.Backend)
	}
	if over.Verbose != nil {
		out.Verbose = over.Verbose
	}
	// Logging
	if strings.TrimSpace(over.Logging.Level) != "" {
		out.Logging.Level = strings.TrimSpace(over.Logging.Level)
	}
	if strings.TrimSpace(over.Logging.Dir) != "" {
		out.Logging.Dir = strings.TrimSpace(over.Logging.Dir)
	}
	// Options（完整替换对应键）
	if len(over.Options.Analyzer) > 0 {
		out.Options.Analyzer = cloneRaw(over.Options.Analyzer)
	}
	if len(over.Options.Replacer) > 0 {
		out.Options.Replacer = cloneRaw(over.Options.Replacer)
	}
	return out
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 规则：前缀 KSS_；集合之外的键忽略。
// 动态值（RATIO/NUM_WORKERS）保留字符串形态，交由 Assemble 经 sanity 强制，
// 使类型不符在统一的 TypeMismatch 路径上浮现。
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "KSS_") {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq <= len("KSS_") {
			continue
		}
		key := kv[:eq]
		val := kv[eq+1:]
		switch strings.TrimPrefix(key, "KSS_") {
		case "INPUTS":
			if val != "" {
				over.Inputs = splitComma(val)
			}
		case "REPLACEMENT_RATIO":
			if strings.TrimSpace(val) != "" {
				over.ReplacementRatio = val
			}
		case "SPACE_NORMALIZATION":
			b, err := parseBool(val, "space_normalization")
			if err != nil {
				return Config{}, err
			}
			over.SpaceNormalization = b
		case "JOSA_NORMALIZATION":
			b, err := parseBool(val, "josa_normalization")
			if err != nil {
				return Config{}, err
			}
			over.JosaNormalization = b
		case "NUM_WORKERS":
			if strings.TrimSpace(val) != "" {
				over.NumWorkers = val
			}
		case "BACKEND":
			over.Backend = strings.TrimSpace(val)
		case "VERBOSE":
			b, err := parseBool(val, "verbose")
			if err != nil {
				return Config{}, err
			}
			over.Verbose = b
		case "LOG_LEVEL":
			over.Logging.Level = strings.TrimSpace(val)
		case "LOG_DIR":
			over.Logging.Dir = strings.TrimSpace(val)
		case "OPTIONS_ANALYZER_JSON":
			if strings.TrimSpace(val) != "" {
				over.Options.Analyzer = json.RawMessage(val)
			}
		case "OPTIONS_REPLACER_JSON":
			if strings.TrimSpace(val) != "" {
				over.Options.Replacer = json.RawMessage(val)
			}
		}
	}
	return over, nil
}

func parseBool(val, name string) (*bool, error) {
	s := strings.TrimSpace(val)
	if s == "" {
		return nil, nil
	}
	var b bool
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		b = true
	case "0", "false", "no", "off":
		b = false
	default:
		return nil, fmt.Errorf("env %s: %q is not a bool", name, val)
	}
	return &b, nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneRaw(in json.RawMessage) json.RawMessage {
	if len(in) == 0 {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
