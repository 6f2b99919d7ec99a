package utils

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WrapWords 将文本按指定宽度在空白处自动换行
// 参数:
//   - textStr: 要换行的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行，单词之间以单个空格分隔）
//
// 换行规则:
//   - 只在空白处断行，从不拆开单词
//   - 单个单词比最大宽度还宽时独占一行（允许超出）
//   - 连续空白（含换行符）被折叠为一个空格
//   - 空文本或全空白文本返回空切片
func WrapWords(textStr string, font text.Face, maxWidth float64) []string {
	words := strings.Fields(textStr)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	currentLine := ""

	for _, word := range words {
		testLine := word
		if currentLine != "" {
			testLine = currentLine + " " + word
		}

		// 加上这个单词会超宽，并且当前行非空：当前行结束，开始新行
		if currentLine != "" && MeasureTextWidth(testLine, font) > maxWidth {
			lines = append(lines, currentLine)
			currentLine = word
			continue
		}
		currentLine = testLine
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

// MeasureTextWidth 测量文本宽度
// font 为 nil 时按每字符 1 像素估算（仅用于无字体的降级场景）
func MeasureTextWidth(textStr string, font text.Face) float64 {
	if textStr == "" {
		return 0
	}
	if font == nil {
		return float64(len([]rune(textStr)))
	}

	width, _ := text.Measure(textStr, font, 0)
	return width
}

// LineHeight 返回字体的行高（上升 + 下降 + 行距）
func LineHeight(font text.Face) float64 {
	if font == nil {
		return 0
	}
	m := font.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}
