package companion

import (
	"image/color"
	"math/rand"
	"strings"
	"sync"

	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// DefaultTrackChangeMessage 导游没有定义切歌台词时使用
	DefaultTrackChangeMessage = "You are listening to ${track} by ${artist}."
	// DefaultLanguage 默认语言
	DefaultLanguage = "en"
	// DefaultFontSize 导游覆盖字体时的默认字号
	DefaultFontSize = 36
	// BorderWidth 立绘边框宽度（像素）
	BorderWidth = 4
)

// Style 字幕样式覆盖
// 零值字段表示"不覆盖"
type Style struct {
	FontFace        string
	FontSize        float64
	TextColor       color.Color
	BackgroundColor color.Color
}

// Companion 导游
// 构造后不可变
type Companion struct {
	name                string
	description         string
	language            string
	style               Style
	images              []*ebiten.Image
	triggers            []Trigger
	trackChangeMessages []string
	idleChatter         []string

	framedMu sync.Mutex
	framed   map[framedKey]*ebiten.Image // 加过边框的立绘：(原图, 边框颜色) -> 图像
}

type framedKey struct {
	img   *ebiten.Image
	color color.RGBA
}

// Option 构造选项
type Option func(*Companion) error

// WithDescription 设置描述
func WithDescription(desc string) Option {
	return func(c *Companion) error {
		c.description = desc
		return nil
	}
}

// WithLanguage 设置语言（指定时不能为空白）
func WithLanguage(lang string) Option {
	return func(c *Companion) error {
		if strings.TrimSpace(lang) == "" {
			return ErrBlankLanguage
		}
		c.language = lang
		return nil
	}
}

// WithStyle 设置字幕样式覆盖（字号被限制在 4..88）
func WithStyle(s Style) Option {
	return func(c *Companion) error {
		if s.FontFace != "" && s.FontSize == 0 {
			s.FontSize = DefaultFontSize
		}
		if s.FontSize != 0 {
			s.FontSize = config.ClampFontSize(s.FontSize)
		}
		c.style = s
		return nil
	}
}

// WithTrackChangeMessages 设置切歌台词模板（空项被丢弃）
func WithTrackChangeMessages(msgs []string) Option {
	return func(c *Companion) error {
		for _, m := range msgs {
			if m != "" {
				c.trackChangeMessages = append(c.trackChangeMessages, m)
			}
		}
		return nil
	}
}

// WithIdleChatter 设置闲聊台词（空白项被丢弃）
func WithIdleChatter(msgs []string) Option {
	return func(c *Companion) error {
		for _, m := range msgs {
			if strings.TrimSpace(m) != "" {
				c.idleChatter = append(c.idleChatter, m)
			}
		}
		return nil
	}
}

// New 创建导游
//
// 参数：
//   - name: 名称（不能为空白）
//   - images: 立绘（至少一张，调用方负责预先缩放）
//   - triggers: 触发器（至少一个）
//   - opts: 描述、语言、样式、台词
func New(name string, images []*ebiten.Image, triggers []Trigger, opts ...Option) (*Companion, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrBlankName
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if len(triggers) == 0 {
		return nil, ErrNoTriggers
	}

	c := &Companion{
		name:     name,
		language: DefaultLanguage,
		images:   append([]*ebiten.Image(nil), images...),
		triggers: append([]Trigger(nil), triggers...),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Name 名称
func (c *Companion) Name() string { return c.name }

// Description 描述
func (c *Companion) Description() string { return c.description }

// Language 语言
func (c *Companion) Language() string { return c.language }

// Style 样式覆盖
func (c *Companion) Style() Style { return c.style }

// Triggers 触发器（副本）
func (c *Companion) Triggers() []Trigger { return append([]Trigger(nil), c.triggers...) }

// TriggerCount 触发器数量
func (c *Companion) TriggerCount() int { return len(c.triggers) }

// TrackChangeMessages 切歌台词模板（副本）
func (c *Companion) TrackChangeMessages() []string {
	return append([]string(nil), c.trackChangeMessages...)
}

// IdleChatter 闲聊台词（副本）
func (c *Companion) IdleChatter() []string { return append([]string(nil), c.idleChatter...) }

// Images 立绘（副本）
func (c *Companion) Images() []*ebiten.Image { return append([]*ebiten.Image(nil), c.images...) }

// TotalResponseCount 台词总数：切歌台词 + 所有触发器的台词
func (c *Companion) TotalResponseCount() int {
	total := len(c.trackChangeMessages)
	for _, t := range c.triggers {
		total += len(t.responses)
	}
	return total
}

// HasTrigger 是否有任一触发器匹配
func (c *Companion) HasTrigger(artist, track string, sceneTags []string) bool {
	for _, t := range c.triggers {
		if Matches(t, artist, track, sceneTags) {
			return true
		}
	}
	return false
}

// RandomImage 随机选一张立绘，返回加上 BorderWidth 像素宽边框的图像
// 同一张立绘和边框颜色只生成一次
func (c *Companion) RandomImage(rng *rand.Rand, borderColor color.Color) *ebiten.Image {
	img, ok := pick(rng, c.images)
	if !ok {
		return nil
	}
	if borderColor == nil {
		borderColor = color.Black
	}
	key := framedKey{img: img, color: color.RGBAModel.Convert(borderColor).(color.RGBA)}

	c.framedMu.Lock()
	defer c.framedMu.Unlock()
	if framed, ok := c.framed[key]; ok {
		return framed
	}
	if c.framed == nil {
		c.framed = make(map[framedKey]*ebiten.Image)
	}
	framed := utils.AddBorder(img, BorderWidth, borderColor)
	c.framed[key] = framed
	return framed
}

// RandomTrackChangeMessage 随机选一条切歌台词模板；没有定义时返回 DefaultTrackChangeMessage
func (c *Companion) RandomTrackChangeMessage(rng *rand.Rand) string {
	msg, ok := pick(rng, c.trackChangeMessages)
	if !ok {
		return DefaultTrackChangeMessage
	}
	return msg
}

// FormatMessage 替换台词中的 ${artist}、${track}、${album} 占位符
func FormatMessage(template, artist, track, album string) string {
	r := strings.NewReplacer(
		"${artist}", artist,
		"${track}", track,
		"${album}", album,
	)
	return r.Replace(template)
}

// EffectiveStyle 计算实际使用的字幕样式
// allowOverride 为 true 时，导游指定的每一项覆盖默认值；未指定的项保持默认
func EffectiveStyle(defaults Style, c *Companion, allowOverride bool) Style {
	s := defaults
	if !allowOverride || c == nil {
		return s
	}
	if c.style.FontFace != "" {
		s.FontFace = c.style.FontFace
		s.FontSize = c.style.FontSize
	}
	if c.style.TextColor != nil {
		s.TextColor = c.style.TextColor
	}
	if c.style.BackgroundColor != nil {
		s.BackgroundColor = c.style.BackgroundColor
	}
	return s
}
