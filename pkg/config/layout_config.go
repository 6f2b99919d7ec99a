package config

import "time"

// 布局配置常量
// 本文件定义了风景展示画面中的布局与动画参数：导游立绘、字幕面板的位置和运动速度

// Window (窗口)
const (
	// DefaultWindowWidth 默认窗口宽度（像素）
	DefaultWindowWidth = 1280
	// DefaultWindowHeight 默认窗口高度（像素）
	DefaultWindowHeight = 720
	// WindowTitle 窗口标题
	WindowTitle = "Scenery"
)

// Companion / caption layout (导游与字幕面板布局)
const (
	// CompanionMaxDim 是导游立绘（含边框）允许的最大宽高（像素）
	CompanionMaxDim = 450

	// CompanionBorderWidth 是导游立绘四周边框宽度（像素）
	// 边框颜色跟随字幕面板背景色
	CompanionBorderWidth = 4

	// CompanionImageMaxDim 是立绘本体（不含边框）缩放后的最大宽高
	CompanionImageMaxDim = CompanionMaxDim - CompanionBorderWidth*2

	// ScreenMargin 是导游和字幕面板左右两侧的留白（像素）
	ScreenMargin = 100

	// CaptionExtraRightMargin 字幕面板右侧额外留白（右边比左边宽一点更好看）
	CaptionExtraRightMargin = 50

	// CaptionMinWidth 字幕面板最小宽度，防止小窗口下出现零宽表面
	CaptionMinWidth = 120

	// CaptionHeight 是字幕面板高度（像素）
	CaptionHeight = 350

	// CompanionOffscreenX 导游离场（隐藏）时的 X 坐标
	CompanionOffscreenX = -500.0

	// CompanionTopOffset 导游立绘顶部距离屏幕底部的距离
	// 即 Y = viewportHeight - CompanionTopOffset
	CompanionTopOffset = 500.0

	// CaptionHiddenOffset 字幕面板隐藏时位于屏幕底部下方的距离
	CaptionHiddenOffset = 100.0

	// CaptionTopOffset 字幕面板显示时顶部距离屏幕底部的距离
	CaptionTopOffset = 450.0
)

// Motion tuning (运动参数)
const (
	// PresentationMotionSpeed 导游和字幕面板的最大移动速度（像素/秒）
	PresentationMotionSpeed = 777.0

	// PresentationEasingStrength 入场/离场的缓动强度
	PresentationEasingStrength = 1.0

	// PresentationMinFrameDistance 入场/离场每帧最小移动距离（像素）
	// 比默认的 1.0 更小，让缓入阶段更柔和
	PresentationMinFrameDistance = 0.2

	// CaptionCharsPerSecond 打字机效果每秒显示的字符数
	CaptionCharsPerSecond = 16.0

	// CaptionPadding 字幕文字与面板边缘的内边距（像素）
	CaptionPadding = 10
)

// Commentary timing (发言时长)
const (
	// BaseCommentDuration 一条发言在屏幕上停留的基础时长
	BaseCommentDuration = 8888 * time.Millisecond

	// CommentReadingTimePerChar 每个字符额外给予的阅读时间（约每 40 字符多 1 秒）
	CommentReadingTimePerChar = 25 * time.Millisecond
)

// CaptionWidth 根据视口宽度计算字幕面板宽度
// 宽度 = 视口宽度 - 导游立绘宽度 - 两侧留白 - 右侧额外留白
func CaptionWidth(viewportWidth int) int {
	w := viewportWidth - CompanionMaxDim - ScreenMargin*2 - CaptionExtraRightMargin
	if w < CaptionMinWidth {
		return CaptionMinWidth
	}
	return w
}

// CaptionX 字幕面板左边缘 X 坐标（紧挨导游立绘右侧）
func CaptionX() float64 {
	return float64(ScreenMargin + CompanionMaxDim)
}
