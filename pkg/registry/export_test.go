package registry

// SetMecabAvailable 替换 mecab 探测接缝；返回恢复函数。
func SetMecabAvailable(fn func() bool) func() {
	prev := mecabAvailable
	mecabAvailable = fn
	return func() { mecabAvailable = prev }
}
