// Package hangul 提供音节分解的最小工具（助词一致性与 pecab 启发式共用）。
package hangul

// 现代谚文音节块区间 [가, 힣]；块内按 (初声×21 + 中声)×28 + 终声 编码。
const (
	syllableBase = 0xAC00
	syllableLast = 0xD7A3
	jongCount    = 28
)

// IsSyllable 判定 r 是否为完整谚文音节块。
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}

// JongIndex 返回终声索引（0 表示无받침；非音节返回 -1）。
func JongIndex(r rune) int {
	if !IsSyllable(r) {
		return -1
	}
	return int(r-syllableBase) % jongCount
}

// HasBatchim 判定音节是否带终声（받침）。非音节返回 false。
func HasBatchim(r rune) bool {
	return JongIndex(r) > 0
}

// HasRieulBatchim 判定终声是否为 ㄹ（으로/로 选择的特例：ㄹ 받침 接 로）。
func HasRieulBatchim(r rune) bool {
	return JongIndex(r) == 8
}
