package config

import "encoding/json"

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 后端 auto（mecab 可用则 mecab，否则内置 pecab，离线友好）；
// - 动态值给出缺省字面（ratio 0.3 / workers "auto"）；
// - 选项给出安全中性默认值，确保键存在。
func DefaultTemplateConfig() Config {
	d := Defaults()
	on := true
	off := false
	cfg := Config{
		Inputs:             []string{"-"},
		ReplacementRatio:   0.3,
		SpaceNormalization: &on,
		JosaNormalization:  &on,
		NumWorkers:         "auto",
		Backend:            d.Backend,
		Verbose:            &off,
		Logging:            Logging{Level: "info", Dir: ""},
	}
	// 分析器选项按后端各异（mecab: path/dic_dir；pecab: dict_path），
	// 严格解码拒绝未知键：模板保持空对象以对任一后端可运行。
	cfg.Options.Analyzer = json.RawMessage(`{}`)
	cfg.Options.Replacer = json.RawMessage(`{
  "synonyms_path": ""
}`)
	return cfg
}
