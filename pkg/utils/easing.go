package utils

import "math"

// Easing Curves (缓动曲线)
//
// 缓动曲线把归一化进度 p ∈ [0, 1] 映射为速度倍率 ∈ [0, 1]，
// 用于让导游和字幕面板的入场/离场看起来更自然。
// strength 为曲线幂次（1.0 = 最平缓，越大越弯曲），小于 1 时按 1 处理。
//
// 参考：https://easings.net/

// EasingCurve 缓动曲线类型
type EasingCurve int

const (
	// CurveEaseInOut 缓入缓出：开始慢，中间快，结束慢（默认）
	CurveEaseInOut EasingCurve = iota
	// CurveEaseIn 缓入：开始慢，结束快
	CurveEaseIn
	// CurveEaseOut 缓出：开始快，结束慢
	CurveEaseOut
	// CurveLinear 线性：倍率恒为 1
	CurveLinear
)

// String 返回曲线名称（用于日志）
func (c EasingCurve) String() string {
	switch c {
	case CurveEaseIn:
		return "ease-in"
	case CurveEaseOut:
		return "ease-out"
	case CurveLinear:
		return "linear"
	default:
		return "ease-in-out"
	}
}

// SpeedMultiplier 根据缓动曲线计算速度倍率
//
// 公式：
//
//	Linear:    f(p) = 1
//	EaseIn:    f(p) = p^s
//	EaseOut:   f(p) = 1 - (1-p)^s
//	EaseInOut: p < 0.5: f(p) = 0.5·(2p)^s
//	           p >= 0.5: f(p) = 1 - 0.5·(2(1-p))^s
//
// 参数:
//   - curve: 曲线类型
//   - strength: 曲线幂次（< 1 时按 1 处理）
//   - progress: 归一化进度（超出 [0, 1] 时被截断）
func SpeedMultiplier(curve EasingCurve, strength, progress float64) float64 {
	p := Clamp01(progress)
	s := math.Max(1.0, strength)

	switch curve {
	case CurveLinear:
		return 1.0
	case CurveEaseIn:
		return math.Pow(p, s)
	case CurveEaseOut:
		return 1.0 - math.Pow(1.0-p, s)
	default:
		if p < 0.5 {
			return 0.5 * math.Pow(2.0*p, s)
		}
		return 1.0 - 0.5*math.Pow(2.0*(1.0-p), s)
	}
}

// PowerEase 幂次插值因子
// 用于背景平移在边界附近的减速：f(t) = t^power，t 被截断到 [0, 1]
func PowerEase(t, power float64) float64 {
	return math.Pow(Clamp01(t), power)
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
