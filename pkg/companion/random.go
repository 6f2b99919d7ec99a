package companion

import "math/rand"

// intn 从 rng 取随机数；rng 为 nil 时使用全局随机源
func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}

// pick 均匀随机选取一项；空切片返回零值和 false
func pick[T any](rng *rand.Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[intn(rng, len(items))], true
}
