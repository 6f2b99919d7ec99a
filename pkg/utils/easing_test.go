package utils

import (
	"math"
	"testing"
)

// TestSpeedMultiplierEndpoints 测试各曲线在起点和终点的取值
func TestSpeedMultiplierEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		curve     EasingCurve
		wantStart float64
		wantEnd   float64
	}{
		{"线性", CurveLinear, 1.0, 1.0},
		{"缓入", CurveEaseIn, 0.0, 1.0},
		{"缓出", CurveEaseOut, 0.0, 1.0},
		{"缓入缓出", CurveEaseInOut, 0.0, 1.0},
	}

	for _, tt := range tests {
		for _, strength := range []float64{1.0, 2.0, 3.5} {
			t.Run(tt.name, func(t *testing.T) {
				if got := SpeedMultiplier(tt.curve, strength, 0); math.Abs(got-tt.wantStart) > 1e-9 {
					t.Errorf("SpeedMultiplier(%v, %v, 0) = %v, 期望 %v", tt.curve, strength, got, tt.wantStart)
				}
				if got := SpeedMultiplier(tt.curve, strength, 1); math.Abs(got-tt.wantEnd) > 1e-9 {
					t.Errorf("SpeedMultiplier(%v, %v, 1) = %v, 期望 %v", tt.curve, strength, got, tt.wantEnd)
				}
			})
		}
	}
}

// TestSpeedMultiplierMonotonic 测试曲线在 [0, 1] 上单调不减
func TestSpeedMultiplierMonotonic(t *testing.T) {
	curves := []EasingCurve{CurveEaseIn, CurveEaseOut, CurveEaseInOut, CurveLinear}
	strengths := []float64{1.0, 1.5, 2.0, 4.0}

	for _, curve := range curves {
		for _, s := range strengths {
			prev := SpeedMultiplier(curve, s, 0)
			for i := 1; i <= 1000; i++ {
				p := float64(i) / 1000
				cur := SpeedMultiplier(curve, s, p)
				if cur < prev-1e-12 {
					t.Fatalf("%v strength=%v: f(%v)=%v < f(prev)=%v", curve, s, p, cur, prev)
				}
				prev = cur
			}
		}
	}
}

func TestSpeedMultiplierValues(t *testing.T) {
	tests := []struct {
		name     string
		curve    EasingCurve
		strength float64
		progress float64
		expected float64
	}{
		{"缓入二次中点", CurveEaseIn, 2, 0.5, 0.25},
		{"缓出二次中点", CurveEaseOut, 2, 0.5, 0.75},
		{"缓入缓出四分之一", CurveEaseInOut, 2, 0.25, 0.125}, // 0.5 * (0.5)^2
		{"缓入缓出四分之三", CurveEaseInOut, 2, 0.75, 0.875}, // 1 - 0.5 * (0.5)^2
		{"强度小于一按一处理", CurveEaseIn, 0.2, 0.5, 0.5},
		{"进度超出范围被截断", CurveEaseIn, 2, 1.7, 1.0},
		{"负进度被截断", CurveEaseOut, 2, -0.3, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpeedMultiplier(tt.curve, tt.strength, tt.progress)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("SpeedMultiplier(%v, %v, %v) = %v, 期望 %v", tt.curve, tt.strength, tt.progress, got, tt.expected)
			}
		})
	}
}

func TestPowerEase(t *testing.T) {
	if got := PowerEase(0.5, 2); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("PowerEase(0.5, 2) = %v", got)
	}
	if got := PowerEase(2, 3); got != 1 {
		t.Errorf("PowerEase(2, 3) = %v, 期望 1", got)
	}
}

// TestLerp 测试线性插值函数
func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a        float64
		b        float64
		t        float64
		expected float64
	}{
		{"起点", 0.0, 100.0, 0.0, 0.0},
		{"中点", 0.0, 100.0, 0.5, 50.0},
		{"终点", 0.0, 100.0, 1.0, 100.0},
		{"逆向范围", 100.0, 0.0, 0.5, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lerp(tt.a, tt.b, tt.t)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, result, tt.expected)
			}
		})
	}
}
