package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONStrict(t *testing.T) {
	// 未知字段必须在解析期失败
	_, err := LoadJSON("", []byte(`{"replacement_ratio": 0.3, "typo_field": 1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo_field")
}

func TestLoadJSONFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend": "pecab", "num_workers": "auto"}`), 0o644))

	cfg, err := LoadJSON(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "pecab", cfg.Backend)
	assert.Equal(t, "auto", cfg.NumWorkers)
}

func TestLoadJSONNoSource(t *testing.T) {
	_, err := LoadJSON("", nil)
	require.Error(t, err)
}

func TestMergePrecedence(t *testing.T) {
	base := Defaults()
	base.ReplacementRatio = 0.3
	on := true
	base.SpaceNormalization = &on

	off := false
	over := Config{
		ReplacementRatio:   0.5,
		SpaceNormalization: &off,
		Backend:            "mecab",
		Logging:            Logging{Level: "debug"},
	}
	got := Merge(base, over)
	assert.Equal(t, 0.5, got.ReplacementRatio)
	assert.False(t, *got.SpaceNormalization)
	assert.Equal(t, "mecab", got.Backend)
	assert.Equal(t, "debug", got.Logging.Level)
}

func TestMergeUnsetKeepsBase(t *testing.T) {
	on := true
	base := Config{
		Inputs:             []string{"a.txt"},
		ReplacementRatio:   0.3,
		JosaNormalization:  &on,
		Backend:            "pecab",
		Logging:            Logging{Level: "info", Dir: "/tmp/logs"},
		Options:            Options{Replacer: json.RawMessage(`{"synonyms_path":"x.yaml"}`)},
	}
	got := Merge(base, Config{})
	assert.Equal(t, []string{"a.txt"}, got.Inputs)
	assert.Equal(t, 0.3, got.ReplacementRatio)
	// 指针布尔：未设置（nil）不覆盖显式值
	require.NotNil(t, got.JosaNormalization)
	assert.True(t, *got.JosaNormalization)
	assert.Equal(t, "pecab", got.Backend)
	assert.Equal(t, "/tmp/logs", got.Logging.Dir)
	assert.JSONEq(t, `{"synonyms_path":"x.yaml"}`, string(got.Options.Replacer))
}

func TestMergeExplicitFalseOverrides(t *testing.T) {
	on := true
	off := false
	base := Config{Verbose: &on}
	got := Merge(base, Config{Verbose: &off})
	require.NotNil(t, got.Verbose)
	assert.False(t, *got.Verbose)
}

func TestEnvOverlay(t *testing.T) {
	environ := []string{
		"KSS_INPUTS=a.txt, b.txt",
		"KSS_REPLACEMENT_RATIO=0.4",
		"KSS_SPACE_NORMALIZATION=off",
		"KSS_NUM_WORKERS=4",
		"KSS_BACKEND=pecab",
		"KSS_VERBOSE=true",
		"KSS_LOG_LEVEL=debug",
		"KSS_OPTIONS_REPLACER_JSON={\"synonyms_path\":\"s.yaml\"}",
		"PATH=/usr/bin", // 前缀外的键忽略
		"KSS_NOT_A_KEY=1",
	}
	over, err := EnvOverlay(environ)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, over.Inputs)
	// 动态值保留字符串形态，交由 Assemble 经 sanity 强制
	assert.Equal(t, "0.4", over.ReplacementRatio)
	require.NotNil(t, over.SpaceNormalization)
	assert.False(t, *over.SpaceNormalization)
	assert.Equal(t, "4", over.NumWorkers)
	assert.Equal(t, "pecab", over.Backend)
	require.NotNil(t, over.Verbose)
	assert.True(t, *over.Verbose)
	assert.Equal(t, "debug", over.Logging.Level)
	assert.JSONEq(t, `{"synonyms_path":"s.yaml"}`, string(over.Options.Replacer))
}

func TestEnvOverlayBadBool(t *testing.T) {
	_, err := EnvOverlay([]string{"KSS_VERBOSE=maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}

func TestDefaultTemplateRoundTrip(t *testing.T) {
	// 模板必须能被严格解析（无未知字段、结构自洽）
	cfg := DefaultTemplateConfig()
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	got, err := LoadJSON("", b)
	require.NoError(t, err)
	assert.Equal(t, "auto", got.Backend)
	assert.Equal(t, "auto", got.NumWorkers)
}
