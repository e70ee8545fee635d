package pecab

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeseungchae/kss/pkg/contract"
)

func mustNew(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(nil)
	require.NoError(t, err)
	return a
}

func TestAnalyzeNounWithJosa(t *testing.T) {
	morphs, err := mustNew(t).Analyze(context.Background(), "사과는")
	require.NoError(t, err)
	require.Len(t, morphs, 2)
	assert.Equal(t, contract.Morpheme{Surface: "사과", Tag: "NNG"}, morphs[0])
	assert.Equal(t, contract.Morpheme{Surface: "는", Tag: "JX"}, morphs[1])
}

func TestAnalyzeBareNoun(t *testing.T) {
	morphs, err := mustNew(t).Analyze(context.Background(), "학교")
	require.NoError(t, err)
	require.Len(t, morphs, 1)
	assert.Equal(t, "NNG", morphs[0].Tag)
}

func TestAnalyzePredicate(t *testing.T) {
	morphs, err := mustNew(t).Analyze(context.Background(), "좋다")
	require.NoError(t, err)
	require.Len(t, morphs, 1)
	assert.Equal(t, "VA", morphs[0].Tag)
	assert.True(t, contract.IsContentTag(morphs[0].Tag))
}

func TestAnalyzeDigitsAndLatin(t *testing.T) {
	morphs, err := mustNew(t).Analyze(context.Background(), "2026 abc")
	require.NoError(t, err)
	require.Len(t, morphs, 2)
	assert.Equal(t, "SN", morphs[0].Tag)
	assert.Equal(t, "SL", morphs[1].Tag)
}

func TestAnalyzePunctuation(t *testing.T) {
	morphs, err := mustNew(t).Analyze(context.Background(), "좋다!")
	require.NoError(t, err)
	require.Len(t, morphs, 2)
	assert.Equal(t, "VA", morphs[0].Tag)
	assert.Equal(t, "SF", morphs[1].Tag)
}

func TestAnalyzeUnknownWithJosaSuffix(t *testing.T) {
	// 词典未命中：剥离已知助词尾缀，残干按名词处理
	morphs, err := mustNew(t).Analyze(context.Background(), "커피는")
	require.NoError(t, err)
	require.Len(t, morphs, 2)
	assert.Equal(t, contract.Morpheme{Surface: "커피", Tag: "NNG"}, morphs[0])
	assert.Equal(t, contract.Morpheme{Surface: "는", Tag: "JX"}, morphs[1])
}

func TestAnalyzeSentenceOrder(t *testing.T) {
	// 形态素按原文出现顺序排列
	morphs, err := mustNew(t).Analyze(context.Background(), "사람이 사과를 먹었다")
	require.NoError(t, err)
	var surfaces []string
	for _, m := range morphs {
		surfaces = append(surfaces, m.Surface)
	}
	assert.Equal(t, "사람", surfaces[0])
	assert.Equal(t, "이", surfaces[1])
	assert.Equal(t, "사과", surfaces[2])
	assert.Equal(t, "를", surfaces[3])
}

func TestAnalyzeExternalDict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nouns:\n  - 테스트\n"), 0o644))

	a, err := New(&Options{DictPath: path})
	require.NoError(t, err)
	morphs, err := a.Analyze(context.Background(), "테스트가")
	require.NoError(t, err)
	require.Len(t, morphs, 2)
	assert.Equal(t, "테스트", morphs[0].Surface)
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mustNew(t).Analyze(ctx, "사과는")
	require.Error(t, err)
}
