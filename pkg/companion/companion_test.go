package companion

import (
	"errors"
	"image/color"
	"math/rand"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNewCompanionValidation(t *testing.T) {
	img := []*ebiten.Image{ebiten.NewImage(4, 4)}
	tr := Trigger{artist: "a", responses: []string{"r"}}

	tests := []struct {
		name     string
		cname    string
		images   []*ebiten.Image
		triggers []Trigger
		opts     []Option
		wantErr  error
	}{
		{"名称为空", " ", img, []Trigger{tr}, nil, ErrBlankName},
		{"没有图像", "c", nil, []Trigger{tr}, nil, ErrNoImages},
		{"没有触发器", "c", img, nil, nil, ErrNoTriggers},
		{"语言为空白", "c", img, []Trigger{tr}, []Option{WithLanguage(" ")}, ErrBlankLanguage},
		{"合法", "c", img, []Trigger{tr}, []Option{WithLanguage("fr")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cname, tt.images, tt.triggers, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, 期望 %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompanionMetadata(t *testing.T) {
	c := mustCompanion(t,
		[]Trigger{
			mustTrigger(t, "X", "", nil, []string{"r1", "r2"}),
			mustTrigger(t, "", "T", nil, []string{"r3"}),
		},
		WithDescription("A friendly guide"),
		WithTrackChangeMessages([]string{"Now: ${track}", ""}),
		WithIdleChatter([]string{"hmm", "   "}),
	)

	if c.Language() != DefaultLanguage {
		t.Errorf("Language() = %q, 期望 %q", c.Language(), DefaultLanguage)
	}
	if c.Description() != "A friendly guide" {
		t.Errorf("Description() = %q", c.Description())
	}
	if c.TriggerCount() != 2 {
		t.Errorf("TriggerCount() = %d, 期望 2", c.TriggerCount())
	}
	if c.TotalResponseCount() != 4 {
		t.Errorf("TotalResponseCount() = %d, 期望 1 条切歌台词 + 3 条触发器台词", c.TotalResponseCount())
	}
	if len(c.IdleChatter()) != 1 {
		t.Errorf("IdleChatter() = %v, 空白项应被丢弃", c.IdleChatter())
	}
	if !c.HasTrigger("x", "", nil) || c.HasTrigger("nobody", "", nil) {
		t.Error("HasTrigger 结果不正确")
	}
}

func TestRandomTrackChangeMessage(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	plain := mustCompanion(t, []Trigger{mustTrigger(t, "X", "", nil, []string{"r"})})
	if got := plain.RandomTrackChangeMessage(rng); got != DefaultTrackChangeMessage {
		t.Errorf("未定义切歌台词时 = %q, 期望默认台词", got)
	}

	custom := mustCompanion(t, []Trigger{mustTrigger(t, "X", "", nil, []string{"r"})},
		WithTrackChangeMessages([]string{"one", "two"}))
	for i := 0; i < 20; i++ {
		got := custom.RandomTrackChangeMessage(rng)
		if got != "one" && got != "two" {
			t.Fatalf("RandomTrackChangeMessage() = %q", got)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"默认台词", DefaultTrackChangeMessage, "You are listening to Song by Band."},
		{"全部占位符", "${artist}/${track}/${album}", "Band/Song/Album"},
		{"重复占位符", "${track} ${track}", "Song Song"},
		{"无占位符", "plain", "plain"},
		{"未知占位符保持原样", "${genre}", "${genre}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMessage(tt.template, "Band", "Song", "Album"); got != tt.want {
				t.Errorf("FormatMessage() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestRandomImageHasBorder(t *testing.T) {
	c := mustCompanion(t, []Trigger{mustTrigger(t, "X", "", nil, []string{"r"})})
	img := c.RandomImage(nil, color.White)
	if img == nil {
		t.Fatal("RandomImage() = nil")
	}
	if img.Bounds().Dx() != 8+BorderWidth*2 || img.Bounds().Dy() != 8+BorderWidth*2 {
		t.Errorf("RandomImage() 尺寸 = %v, 期望四周各加 %d 像素", img.Bounds(), BorderWidth)
	}
}

// TestRandomImageReusesFramed 同一立绘和边框颜色复用同一张图像
func TestRandomImageReusesFramed(t *testing.T) {
	c := mustCompanion(t, []Trigger{mustTrigger(t, "X", "", nil, []string{"r"})})

	first := c.RandomImage(nil, color.White)
	tests := []struct {
		name     string
		border   color.Color
		wantSame bool
	}{
		{"相同颜色", color.White, true},
		{"等价颜色", color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, true},
		{"不同颜色", color.RGBA{R: 0xFF, A: 0xFF}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.RandomImage(nil, tt.border)
			if (got == first) != tt.wantSame {
				t.Errorf("RandomImage() 复用 = %v, 期望 %v", got == first, tt.wantSame)
			}
		})
	}
	if len(c.framed) != 2 {
		t.Errorf("framed = %d, 期望 2", len(c.framed))
	}
}

// TestEffectiveStyle 样式覆盖逐项生效
func TestEffectiveStyle(t *testing.T) {
	defaults := Style{FontFace: "gomono", FontSize: 36, TextColor: color.White, BackgroundColor: color.Black}
	red := color.RGBA{R: 0xff, A: 0xff}

	withFont := mustCompanion(t, []Trigger{mustTrigger(t, "X", "", nil, []string{"r"})},
		WithStyle(Style{FontFace: "gobold", FontSize: 200}))
	withColor := mustCompanion(t, []Trigger{mustTrigger(t, "X", "", nil, []string{"r"})},
		WithStyle(Style{TextColor: red}))

	tests := []struct {
		name     string
		c        *Companion
		allow    bool
		wantFace string
		wantSize float64
		wantFg   color.Color
	}{
		{"不允许覆盖", withFont, false, "gomono", 36, color.White},
		{"覆盖字体且字号被限制", withFont, true, "gobold", 88, color.White},
		{"只覆盖颜色", withColor, true, "gomono", 36, red},
		{"nil 导游", nil, true, "gomono", 36, color.White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveStyle(defaults, tt.c, tt.allow)
			if got.FontFace != tt.wantFace || got.FontSize != tt.wantSize || got.TextColor != tt.wantFg {
				t.Errorf("EffectiveStyle() = %+v", got)
			}
			if got.BackgroundColor != color.Black {
				t.Errorf("BackgroundColor = %v, 期望保持默认", got.BackgroundColor)
			}
		})
	}
}

func TestScene(t *testing.T) {
	if _, err := NewScene("s", []string{"a"}, nil); !errors.Is(err, ErrNoImages) {
		t.Errorf("没有图像时 error = %v", err)
	}
	if _, err := NewScene("s", []string{" "}, []*ebiten.Image{ebiten.NewImage(2, 2)}); !errors.Is(err, ErrNoTags) {
		t.Errorf("没有标签时 error = %v", err)
	}

	v1, v2 := ebiten.NewImage(2, 2), ebiten.NewImage(3, 3)
	s, err := NewScene("forest", []string{"Forest", "Night"}, []*ebiten.Image{v1, v2})
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}

	if !s.HasTag("FOREST") || !s.HasTag("night") {
		t.Error("HasTag 应大小写不敏感")
	}
	if s.HasTag("") || s.HasTag("city") {
		t.Error("HasTag 对空白或不存在的标签应返回 false")
	}
	if !s.HasAnyTag([]string{"city", "night"}) || s.HasAnyTag([]string{"city"}) {
		t.Error("HasAnyTag 结果不正确")
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		if v := s.RandomVariant(rng); v != v1 && v != v2 {
			t.Fatal("RandomVariant 返回了未知图像")
		}
	}
}
