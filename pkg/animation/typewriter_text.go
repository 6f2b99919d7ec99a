package animation

import (
	"image/color"
	"log"
	"time"
	"unicode/utf8"

	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// 打字机字幕默认值
const (
	DefaultCharsPerSecond = 3.0
	DefaultTextPadding    = 10
	DefaultTextFontSize   = 48
)

var (
	DefaultTextColor       = color.RGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}
	DefaultBackgroundColor = color.RGBA{A: 0xFF}
)

// TypewriterText 打字机效果字幕
//
// 文本按表面宽度（减去两侧内边距）在空白处贪心换行，
// 然后按 "字符/秒" 的速率逐字显示。字符计数跨所有行累计，
// 行与行之间的换行也占一个位置。
//
// 每帧调用 UpdateTextAnimation()；只有已显示字符数增加时才重绘表面。
type TypewriterText struct {
	surface *ebiten.Image
	width   int
	height  int

	text        string
	lines       []string
	totalChars  int
	revealed    int
	accumulator float64 // 小数部分累积，保证低速率下也能平滑推进
	needsReflow bool

	charsPerSecond float64
	font           text.Face
	textColor      color.Color
	bgColor        color.Color
	padding        int

	clock      utils.Clock
	lastUpdate time.Time
}

// TextOption 构造选项
type TextOption func(*TypewriterText)

// WithTextClock 注入时钟
func WithTextClock(c utils.Clock) TextOption {
	return func(t *TypewriterText) {
		t.clock = utils.OrSystem(c)
	}
}

// WithTextStyle 设置字体和颜色（nil 表示使用默认值）
func WithTextStyle(font text.Face, textColor, bgColor color.Color) TextOption {
	return func(t *TypewriterText) {
		if font != nil {
			t.font = font
		}
		if textColor != nil {
			t.textColor = textColor
		}
		if bgColor != nil {
			t.bgColor = bgColor
		}
	}
}

// NewTypewriterText 创建打字机字幕
//
// 参数：
//   - width, height: 渲染表面尺寸
//   - initial: 初始文本（可为空）
//   - charsPerSecond: 显示速率
//   - opts: 时钟、样式
func NewTypewriterText(width, height int, initial string, charsPerSecond float64, opts ...TextOption) *TypewriterText {
	t := &TypewriterText{
		width:          max(1, width),
		height:         max(1, height),
		text:           initial,
		needsReflow:    true,
		charsPerSecond: charsPerSecond,
		textColor:      DefaultTextColor,
		bgColor:        DefaultBackgroundColor,
		padding:        DefaultTextPadding,
		clock:          utils.SystemClock{},
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.font == nil {
		face, err := utils.NewBuiltinFace(utils.FontGoMono, DefaultTextFontSize)
		if err != nil {
			log.Printf("[TypewriterText] 无法加载默认字体，字幕将不可见: %v", err)
		} else {
			t.font = face
		}
	}

	t.surface = ebiten.NewImage(t.width, t.height)
	t.lastUpdate = t.clock.Now()
	t.clear()
	return t
}

func (t *TypewriterText) clear() {
	if t.surface != nil {
		t.surface.Fill(t.bgColor)
	}
}

// UpdateTextAnimation 推进一帧
// 完成后再调用不会改变已显示字符数
func (t *TypewriterText) UpdateTextAnimation() {
	if t.surface == nil {
		return
	}

	// 空文本也要重新布局，清掉上一段文字
	t.layout()
	if t.text == "" {
		return
	}

	now := t.clock.Now()
	deltaTime := now.Sub(t.lastUpdate).Seconds()
	t.lastUpdate = now
	if deltaTime > 0 {
		t.accumulator += t.charsPerSecond * deltaTime
	}

	next := min(int(t.accumulator), t.totalChars)
	if next > t.revealed {
		t.revealed = next
		t.render()
	}
}

// layout 需要时重新换行并从头开始显示
func (t *TypewriterText) layout() {
	if !t.needsReflow {
		return
	}
	t.needsReflow = false

	availableWidth := float64(t.width - t.padding*2)
	t.lines = utils.WrapWords(t.text, t.font, availableWidth)

	t.totalChars = 0
	for i, line := range t.lines {
		if i > 0 {
			t.totalChars++ // 换行占位
		}
		t.totalChars += utf8.RuneCountInString(line)
	}

	t.revealed = 0
	t.accumulator = 0
	t.clear()
}

// render 清空表面并绘制前 revealed 个字符
func (t *TypewriterText) render() {
	if t.surface == nil {
		return
	}
	t.clear()
	if t.font == nil || len(t.lines) == 0 {
		return
	}

	lineHeight := utils.LineHeight(t.font)
	y := float64(t.padding)
	owed := t.revealed

	for i, line := range t.lines {
		if i > 0 {
			owed-- // 换行占位
		}
		if owed <= 0 {
			break
		}

		runes := []rune(line)
		n := min(len(runes), owed)

		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(t.padding), y)
		op.ColorScale.ScaleWithColor(t.textColor)
		text.Draw(t.surface, string(runes[:n]), t.font, op)

		owed -= n
		y += lineHeight
		if y > float64(t.height-t.padding) {
			break
		}
	}
}

// SetText 替换文本，下一帧重新换行并从头显示
func (t *TypewriterText) SetText(s string) {
	t.text = s
	t.needsReflow = true
	t.lastUpdate = t.clock.Now()
}

// Text 当前文本
func (t *TypewriterText) Text() string { return t.text }

// ShowAllText 立即显示全部文本
func (t *TypewriterText) ShowAllText() {
	t.layout()
	t.revealed = t.totalChars
	t.accumulator = float64(t.totalChars)
	t.render()
}

// ResetAnimation 从头开始显示当前文本（不重新换行）
func (t *TypewriterText) ResetAnimation() {
	t.revealed = 0
	t.accumulator = 0
	t.lastUpdate = t.clock.Now()
	t.clear()
}

// IsComplete 是否已显示全部字符
func (t *TypewriterText) IsComplete() bool {
	t.layout()
	return t.revealed >= t.totalChars
}

// Progress 显示进度 0.0 ~ 1.0（空文本视为已完成）
func (t *TypewriterText) Progress() float64 {
	t.layout()
	if t.totalChars == 0 {
		return 1.0
	}
	return float64(t.revealed) / float64(t.totalChars)
}

// Revealed 已显示字符数
func (t *TypewriterText) Revealed() int { return t.revealed }

// TotalChars 字符总数（含换行占位）
func (t *TypewriterText) TotalChars() int {
	t.layout()
	return t.totalChars
}

// Lines 换行结果
func (t *TypewriterText) Lines() []string {
	t.layout()
	return t.lines
}

// Surface 渲染表面（Dispose 之后为 nil）
func (t *TypewriterText) Surface() *ebiten.Image { return t.surface }

// Size 表面尺寸
func (t *TypewriterText) Size() (int, int) { return t.width, t.height }

// SetFont 更换字体（触发重新换行）
func (t *TypewriterText) SetFont(font text.Face) {
	t.font = font
	t.needsReflow = true
}

// Font 当前字体
func (t *TypewriterText) Font() text.Face { return t.font }

// SetTextColor 更换文字颜色，按当前进度立即重绘
func (t *TypewriterText) SetTextColor(c color.Color) {
	t.textColor = c
	if t.revealed > 0 {
		t.render()
	}
}

// SetBackgroundColor 更换背景颜色，按当前进度立即重绘
func (t *TypewriterText) SetBackgroundColor(c color.Color) {
	t.bgColor = c
	if t.revealed > 0 {
		t.render()
	} else {
		t.clear()
	}
}

// SetCharsPerSecond 更换显示速率
func (t *TypewriterText) SetCharsPerSecond(cps float64) {
	if cps > 0 {
		t.charsPerSecond = cps
	}
}

// SetPadding 更换内边距（触发重新换行）
func (t *TypewriterText) SetPadding(padding int) {
	if padding >= 0 {
		t.padding = padding
		t.needsReflow = true
	}
}

// Dispose 释放渲染表面
func (t *TypewriterText) Dispose() {
	if t.surface != nil {
		t.surface.Deallocate()
		t.surface = nil
	}
}
