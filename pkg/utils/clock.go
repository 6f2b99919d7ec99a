package utils

import "time"

// Clock 单调时钟抽象
//
// 所有动画计时都基于墙钟时间（而非帧数），帧率波动时表现依旧平滑。
// 生产环境使用 SystemClock；测试使用 ManualClock 精确控制时间流逝。
type Clock interface {
	Now() time.Time
}

// SystemClock 使用 time.Now()（含单调时钟读数）
type SystemClock struct{}

// Now 返回当前时间
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock 手动推进的时钟，供测试和离线渲染使用
// 非并发安全：与帧循环一样只在单个 goroutine 中使用
type ManualClock struct {
	now time.Time
}

// NewManualClock 创建手动时钟，起始时间固定，保证测试可重复
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now 返回当前（手动设定的）时间
func (c *ManualClock) Now() time.Time {
	return c.now
}

// Advance 将时钟向前推进 d
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// OrSystem 返回 c，若 c 为 nil 则返回 SystemClock
func OrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}
