//go:build mobile

package utils

// IsMobile 移动端构建（ebitenmobile bind）总是返回 true
// 移动端没有键盘和用户资源目录：展示场景改用点击区域，只加载内置导游和背景
func IsMobile() bool {
	return true
}
