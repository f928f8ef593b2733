package printer

// CutFlags 返回每一份拷贝是否裁切：默认每份都裁切；cutOnce 时只在最后一份之后裁切。
func CutFlags(copies int, cutOnce bool) []bool {
	if copies <= 0 {
		return nil
	}
	flags := make([]bool, copies)
	for i := range flags {
		flags[i] = !cutOnce || i == copies-1
	}
	return flags
}
