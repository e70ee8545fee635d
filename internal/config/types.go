package config

import (
	"encoding/json"
)

// Config: 运行期只读配置（一次解析，运行期不变）。
// JSON 使用 snake_case；未知字段在解析期失败。
// replacement_ratio / num_workers 为动态值（数字或字符串），
// 类型强制在 Assemble 阶段经 sanity 完成（TypeMismatch 标注参数名）。
type Config struct {
	Inputs []string `json:"inputs"`

	ReplacementRatio   any    `json:"replacement_ratio"`
	SpaceNormalization *bool  `json:"space_normalization"`
	JosaNormalization  *bool  `json:"josa_normalization"`
	NumWorkers         any    `json:"num_workers"`
	Backend            string `json:"backend"`
	Verbose            *bool  `json:"verbose"`

	Logging Logging `json:"logging"`

	// 各引擎 Options 子树，原样 JSON 传入工厂。
	Options Options `json:"options"`
}

// Logging: 日志等级与可选的轮转文件目录（空表示仅 stderr）。
type Logging struct {
	Level string `json:"level"`
	Dir   string `json:"dir"`
}

// Options: 各引擎的原样 JSON Options。
type Options struct {
	Analyzer json.RawMessage `json:"analyzer"`
	Replacer json.RawMessage `json:"replacer"`
}
