//go:build !mobile

package utils

import "testing"

// TestIsMobile_Desktop 桌面端默认不是移动模式，环境变量可以强制模拟
func TestIsMobile_Desktop(t *testing.T) {
	tests := []struct {
		name    string
		emulate string
		want    bool
	}{
		{"默认桌面", "", false},
		{"模拟移动端", "1", true},
		{"其他值无效", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCENERY_MOBILE_EMULATE", tt.emulate)
			if got := IsMobile(); got != tt.want {
				t.Errorf("IsMobile() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}
