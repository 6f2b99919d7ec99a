package config

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PresentationConfig 风景展示配置
//
// 宿主程序（设置界面、持久化层）负责产生并校验这些值；
// 展示控制器只消费已类型化的结构，每次重新加载配置时整体替换。
//
// 配置文件位置: data/presentation.yaml
type PresentationConfig struct {
	// Companion 当前选中的导游名称（为空则使用第一个可用导游）
	Companion string `yaml:"companion"`

	// AnnounceTrackChange 曲目切换时是否播报
	AnnounceTrackChange bool `yaml:"announceTrackChange"`

	// CommentaryInterval 闲聊间隔标签（见 CommentaryIntervals）
	CommentaryInterval string `yaml:"commentaryInterval"`

	// SceneryInterval 背景轮换间隔标签（见 SceneryIntervals，"track" 表示随曲目切换）
	SceneryInterval string `yaml:"sceneryInterval"`

	// PreferredSceneryTags 偏好的背景标签，为空表示不过滤
	PreferredSceneryTags []string `yaml:"preferredSceneryTags"`

	// ScrollSpeed 背景平移速度档位（见 ScrollSpeeds）
	ScrollSpeed string `yaml:"scrollSpeed"`

	// ScrollEasing 背景接近边界时的减速曲线（见 ScrollEasingPowers）
	ScrollEasing string `yaml:"scrollEasing"`

	// TextOpacity 字幕面板不透明度 0.0 ~ 1.0
	TextOpacity float64 `yaml:"textOpacity"`

	// AllowStyleOverride 是否允许导游覆盖默认字体和颜色
	AllowStyleOverride bool `yaml:"allowStyleOverride"`

	// MixIdleChatter 触发器命中时是否仍按健谈程度混入闲聊
	MixIdleChatter bool `yaml:"mixIdleChatter"`

	// Chattiness 健谈程度标签（见 ChattinessLevels）
	Chattiness string `yaml:"chattiness"`

	// RotateCompanions 每次发言时是否随机更换导游
	RotateCompanions bool `yaml:"rotateCompanions"`

	// DefaultStyle 默认字幕样式
	DefaultStyle StyleConfig `yaml:"defaultStyle"`
}

// StyleConfig 字幕样式配置
type StyleConfig struct {
	// FontFace 字体名称（gomono / goregular / gobold）或 TTF 文件路径
	FontFace string `yaml:"fontFace"`

	// FontSize 字号
	FontSize float64 `yaml:"fontSize"`

	// TextColor 文字颜色，格式 0xRRGGBB
	TextColor string `yaml:"textColor"`

	// BackgroundColor 面板背景颜色，格式 0xRRGGBB
	BackgroundColor string `yaml:"backgroundColor"`
}

// SceneryIntervalTrack 表示"曲目切换时更换背景"
const SceneryIntervalTrack = "track"

// ChattinessMax 健谈程度的最大值（掷骰范围 0..ChattinessMax）
const ChattinessMax = 100

// 字号范围
const (
	MinFontSize = 4
	MaxFontSize = 88
)

// CommentaryIntervals 闲聊间隔表：标签 -> 时长
var CommentaryIntervals = map[string]time.Duration{
	"one":     1 * time.Minute,
	"two":     2 * time.Minute,
	"five":    5 * time.Minute,
	"ten":     10 * time.Minute,
	"fifteen": 15 * time.Minute,
}

// SceneryIntervals 背景轮换间隔表：标签 -> 时长
// "track" 不在表中有固定时长，由 SceneryInterval 特殊处理
var SceneryIntervals = map[string]time.Duration{
	SceneryIntervalTrack: 0,
	"two":                2 * time.Minute,
	"five":               5 * time.Minute,
	"ten":                10 * time.Minute,
	"fifteen":            15 * time.Minute,
}

// ScrollSpeeds 背景平移速度表：标签 -> 像素/帧
var ScrollSpeeds = map[string]int{
	"very-slow": 1,
	"slow":      2,
	"medium":    3,
	"fast":      4,
	"very-fast": 5,
}

// ScrollEasingPowers 背景边界减速曲线表：标签 -> 幂次
var ScrollEasingPowers = map[string]float64{
	"linear":    1.0,
	"quadratic": 2.0,
	"cubic":     3.0,
}

// ChattinessLevels 健谈程度表：标签 -> 百分比
var ChattinessLevels = map[string]int{
	"low":       25,
	"medium":    50,
	"high":      75,
	"very-high": ChattinessMax,
}

// DefaultPresentationConfig 返回默认展示配置
func DefaultPresentationConfig() *PresentationConfig {
	return &PresentationConfig{
		Companion:           "",
		AnnounceTrackChange: true,
		CommentaryInterval:  "two",
		SceneryInterval:     "five",
		ScrollSpeed:         "slow",
		ScrollEasing:        "quadratic",
		TextOpacity:         0.85,
		AllowStyleOverride:  true,
		MixIdleChatter:      true,
		Chattiness:          "medium",
		RotateCompanions:    false,
		DefaultStyle: StyleConfig{
			FontFace:        "gomono",
			FontSize:        36,
			TextColor:       "0x00FF00",
			BackgroundColor: "0x000000",
		},
	}
}

// LoadPresentationConfig 加载展示配置
//
// 参数:
//   - path: 配置文件路径（如 "data/presentation.yaml"）
//
// 返回:
//   - *PresentationConfig: 加载并校验后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadPresentationConfig(path string) (*PresentationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presentation config: %w", err)
	}
	return ParsePresentationConfig(data)
}

// ParsePresentationConfig 从 YAML 数据解析展示配置
// 未出现在文档中的字段保留默认值
func ParsePresentationConfig(data []byte) (*PresentationConfig, error) {
	cfg := DefaultPresentationConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse presentation config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid presentation config: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 所有标签都能在对应的数据表中找到
//   - 不透明度在 0.0 ~ 1.0 之间
//   - 字号在 MinFontSize ~ MaxFontSize 之间
//   - 颜色格式为 0xRRGGBB
func (c *PresentationConfig) Validate() error {
	if _, ok := CommentaryIntervals[c.CommentaryInterval]; !ok {
		return fmt.Errorf("unknown commentaryInterval %q (valid: %s)",
			c.CommentaryInterval, durationKeys(CommentaryIntervals))
	}
	if _, ok := SceneryIntervals[c.SceneryInterval]; !ok {
		return fmt.Errorf("unknown sceneryInterval %q (valid: %s)",
			c.SceneryInterval, durationKeys(SceneryIntervals))
	}
	if _, ok := ScrollSpeeds[c.ScrollSpeed]; !ok {
		return fmt.Errorf("unknown scrollSpeed %q", c.ScrollSpeed)
	}
	if _, ok := ScrollEasingPowers[c.ScrollEasing]; !ok {
		return fmt.Errorf("unknown scrollEasing %q", c.ScrollEasing)
	}
	if _, ok := ChattinessLevels[c.Chattiness]; !ok {
		return fmt.Errorf("unknown chattiness %q", c.Chattiness)
	}
	if c.TextOpacity < 0 || c.TextOpacity > 1 {
		return fmt.Errorf("textOpacity must be within [0, 1], got %.2f", c.TextOpacity)
	}
	if c.DefaultStyle.FontSize < MinFontSize || c.DefaultStyle.FontSize > MaxFontSize {
		return fmt.Errorf("defaultStyle.fontSize must be within [%d, %d], got %.1f",
			MinFontSize, MaxFontSize, c.DefaultStyle.FontSize)
	}
	if _, err := ParseRGB(c.DefaultStyle.TextColor); err != nil {
		return fmt.Errorf("defaultStyle.textColor: %w", err)
	}
	if _, err := ParseRGB(c.DefaultStyle.BackgroundColor); err != nil {
		return fmt.Errorf("defaultStyle.backgroundColor: %w", err)
	}
	return nil
}

// Clone 返回配置的深拷贝
func (c *PresentationConfig) Clone() *PresentationConfig {
	clone := *c
	clone.PreferredSceneryTags = append([]string(nil), c.PreferredSceneryTags...)
	return &clone
}

// CommentaryEvery 返回闲聊间隔时长
func (c *PresentationConfig) CommentaryEvery() time.Duration {
	return CommentaryIntervals[c.CommentaryInterval]
}

// SceneryEvery 返回背景轮换间隔
//
// 返回:
//   - time.Duration: 固定间隔（onTrackChange 为 true 时无意义）
//   - bool: 是否随曲目切换更换背景
func (c *PresentationConfig) SceneryEvery() (interval time.Duration, onTrackChange bool) {
	if c.SceneryInterval == SceneryIntervalTrack {
		return 0, true
	}
	return SceneryIntervals[c.SceneryInterval], false
}

// ScrollSpeedPixels 返回背景平移速度（像素/帧）
func (c *PresentationConfig) ScrollSpeedPixels() int {
	if speed, ok := ScrollSpeeds[c.ScrollSpeed]; ok {
		return speed
	}
	return ScrollSpeeds["slow"]
}

// ScrollEasingPower 返回背景边界减速曲线幂次
func (c *PresentationConfig) ScrollEasingPower() float64 {
	if power, ok := ScrollEasingPowers[c.ScrollEasing]; ok {
		return power
	}
	return ScrollEasingPowers["quadratic"]
}

// ChattinessPercent 返回健谈程度百分比
func (c *PresentationConfig) ChattinessPercent() int {
	return ChattinessLevels[c.Chattiness]
}

// TextColor 返回默认文字颜色（解析失败时为绿色）
func (c *PresentationConfig) TextColor() color.RGBA {
	if col, err := ParseRGB(c.DefaultStyle.TextColor); err == nil {
		return col
	}
	return color.RGBA{G: 0xff, A: 0xff}
}

// BackgroundColor 返回默认面板背景颜色（解析失败时为黑色）
func (c *PresentationConfig) BackgroundColor() color.RGBA {
	if col, err := ParseRGB(c.DefaultStyle.BackgroundColor); err == nil {
		return col
	}
	return color.RGBA{A: 0xff}
}

// ParseRGB 解析 0xRRGGBB 格式的颜色字符串
//
// 返回:
//   - color.RGBA: 不透明颜色
//   - error: 格式错误时返回错误
func ParseRGB(s string) (color.RGBA, error) {
	if len(s) != 8 || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return color.RGBA{}, fmt.Errorf("color specifiers must be in the format 0xRRGGBB, got %q", s)
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color value %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}

// ClampFontSize 将字号限制在 MinFontSize ~ MaxFontSize 之间
func ClampFontSize(size float64) float64 {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

func durationKeys(m map[string]time.Duration) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
