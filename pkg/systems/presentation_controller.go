package systems

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/decker502/scenery/pkg/animation"
	"github.com/decker502/scenery/pkg/companion"
	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/game"
	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// CompanionProvider 导游来源（内置 + 用户定义）
type CompanionProvider interface {
	All() []*companion.Companion
	Random(rng *rand.Rand) *companion.Companion
	ByName(name string) *companion.Companion
}

// SceneProvider 背景来源
// RandomScene 必须总是返回一个场景：偏好标签无匹配时不过滤，用户背景全部失败时退回内置背景
type SceneProvider interface {
	RandomScene(rng *rand.Rand, preferredTags []string) *companion.Scene
}

// FontResolver 按字体名称和字号解析字体
type FontResolver func(face string, size float64) (text.Face, error)

// 未初始化错误
var (
	ErrNoCompanion = errors.New("no companion available")
	ErrNoScene     = errors.New("no scenery available")
)

// Phase 展示的逻辑状态
// 实现上由 "已播报" 和 "正在发言" 两个标志加上运动完成状态推导
type Phase int

const (
	// PhaseIdle 导游和字幕都在屏幕外静止
	PhaseIdle Phase = iota
	// PhaseAnnouncing 正在播报曲目切换
	PhaseAnnouncing
	// PhaseCommenting 正在发言
	PhaseCommenting
	// PhaseDismissing 发言结束，导游和字幕正在离场
	PhaseDismissing
)

// String 返回状态名称（用于日志）
func (p Phase) String() string {
	switch p {
	case PhaseAnnouncing:
		return "Announcing"
	case PhaseCommenting:
		return "Commenting"
	case PhaseDismissing:
		return "Dismissing"
	default:
		return "Idle"
	}
}

// PresentationState 每次展示会话的可变状态
// Initialize 时创建，每帧修改，Stop 时丢弃
type PresentationState struct {
	Companion         *companion.Companion
	Scene             *companion.Scene
	Artist            string
	Track             string
	TrackAnnounced    bool
	CommentingNow     bool
	Announcement      bool      // 当前发言是否是曲目播报
	LastCommentTime   time.Time // 发言开始时间 + 阅读时间补偿
	LastSceneryChange time.Time
	FirstFrame        bool
}

// 尚未收到曲目信息时的占位值
const unknownTrack = "N/A"

// PresentationController 风景展示控制器
//
// 每帧按顺序绘制：背景（BounceScroller）、导游立绘（EasingMotion）、
// 字幕面板（EasingMotion + TypewriterText）。
//
// 状态机：
//   - Idle → Announcing：检测到新曲目且开启了切歌播报
//   - Idle → Commenting：距上次发言超过闲聊间隔
//   - Commenting → Dismissing → Idle：发言显示时长到期，导游和字幕离场
//   - 切歌打断：发言中切歌时导游和字幕直接瞬移回屏幕外
type PresentationController struct {
	companions CompanionProvider
	scenery    SceneProvider
	fonts      FontResolver
	clock      utils.Clock
	rng        *rand.Rand
	cfg        *config.PresentationConfig

	width     int
	height    int
	textX     float64
	textWidth int

	scroller        *animation.BounceScroller
	caption         *animation.TypewriterText
	captionMotion   *animation.EasingMotion
	companionMotion *animation.EasingMotion

	style       companion.Style // 当前生效的字幕样式
	font        text.Face
	state       PresentationState
	initialized bool
}

// ControllerOption 构造选项
type ControllerOption func(*PresentationController)

// WithControllerClock 注入时钟
func WithControllerClock(c utils.Clock) ControllerOption {
	return func(pc *PresentationController) {
		pc.clock = utils.OrSystem(c)
	}
}

// WithRand 注入随机源（nil 表示使用全局随机源）
func WithRand(rng *rand.Rand) ControllerOption {
	return func(pc *PresentationController) {
		pc.rng = rng
	}
}

// WithFontResolver 注入字体解析器（通常是 ResourceManager.FontFace）
func WithFontResolver(f FontResolver) ControllerOption {
	return func(pc *PresentationController) {
		if f != nil {
			pc.fonts = f
		}
	}
}

// NewPresentationController 创建展示控制器
//
// 参数：
//   - companions: 导游来源
//   - scenery: 背景来源
//   - cfg: 展示配置，为 nil 时使用默认配置
//   - opts: 时钟、随机源、字体解析器
func NewPresentationController(companions CompanionProvider, scenery SceneProvider, cfg *config.PresentationConfig, opts ...ControllerOption) *PresentationController {
	if cfg == nil {
		cfg = config.DefaultPresentationConfig()
	}
	pc := &PresentationController{
		companions: companions,
		scenery:    scenery,
		fonts:      builtinFontResolver,
		clock:      utils.SystemClock{},
		cfg:        cfg.Clone(),
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// builtinFontResolver 只认识内置字体
func builtinFontResolver(face string, size float64) (text.Face, error) {
	f, err := utils.NewBuiltinFace(face, size)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Initialize 开始一次展示会话
//
// 参数：
//   - width, height: 视口尺寸
//
// 返回：
//   - error: 视口尺寸无效，或没有可用的导游/背景时返回错误
func (pc *PresentationController) Initialize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	if pc.initialized {
		pc.Stop()
	}

	now := pc.clock.Now()
	pc.width = width
	pc.height = height
	pc.textWidth = config.CaptionWidth(width)
	pc.textX = config.CaptionX()

	pc.state = PresentationState{
		Artist:            unknownTrack,
		Track:             unknownTrack,
		FirstFrame:        true,
		LastSceneryChange: now,
	}

	c := pc.resolveCompanion()
	if c == nil {
		return ErrNoCompanion
	}
	pc.setCompanion(c)

	var scene *companion.Scene
	if pc.scenery != nil {
		scene = pc.scenery.RandomScene(pc.rng, pc.cfg.PreferredSceneryTags)
	}
	if scene == nil {
		return ErrNoScene
	}
	pc.state.Scene = scene
	pc.scroller = animation.NewBounceScroller(scene.RandomVariant(pc.rng), width, height,
		animation.WithScrollSpeed(pc.cfg.ScrollSpeedPixels()),
		animation.WithEasingPower(pc.cfg.ScrollEasingPower()),
	)

	pc.caption = animation.NewTypewriterText(pc.textWidth, config.CaptionHeight, "", config.CaptionCharsPerSecond,
		animation.WithTextClock(pc.clock),
		animation.WithTextStyle(pc.font, pc.style.TextColor, pc.style.BackgroundColor),
	)
	pc.caption.SetPadding(config.CaptionPadding)

	motionOpts := []animation.MotionOption{
		animation.WithClock(pc.clock),
		animation.WithEasing(utils.CurveEaseInOut, config.PresentationEasingStrength),
		animation.WithMinFrameDistance(config.PresentationMinFrameDistance),
	}
	pc.captionMotion = animation.NewEasingMotion(pc.captionHidden(), pc.captionHidden(), config.PresentationMotionSpeed,
		append(motionOpts, animation.WithImage(pc.caption.Surface()))...)
	pc.captionMotion.SetAlpha(float32(pc.cfg.TextOpacity))
	pc.companionMotion = animation.NewEasingMotion(pc.companionHidden(), pc.companionHidden(), config.PresentationMotionSpeed,
		append(motionOpts, animation.WithImage(c.RandomImage(pc.rng, pc.style.BackgroundColor)))...)

	pc.initialized = true
	log.Printf("[PresentationController] Initialized %dx%d (companion=%q, scenery=%q, caption=%dx%d)",
		width, height, c.Name(), scene.Name(), pc.textWidth, config.CaptionHeight)
	return nil
}

// companionHidden 导游的屏幕外静止位置
func (pc *PresentationController) companionHidden() animation.Point {
	return animation.Point{X: config.CompanionOffscreenX, Y: float64(pc.height) - config.CompanionTopOffset}
}

// captionHidden 字幕面板的屏幕外静止位置（屏幕底部下方）
func (pc *PresentationController) captionHidden() animation.Point {
	return animation.Point{X: pc.textX, Y: float64(pc.height) + config.CaptionHiddenOffset}
}

// captionShown 字幕面板的显示位置
func (pc *PresentationController) captionShown() animation.Point {
	return animation.Point{X: pc.textX, Y: float64(pc.height) - config.CaptionTopOffset}
}

// resolveCompanion 按配置选择导游：指定名称 → 第一个可用导游 → 随机
func (pc *PresentationController) resolveCompanion() *companion.Companion {
	if pc.companions == nil {
		return nil
	}
	if name := strings.TrimSpace(pc.cfg.Companion); name != "" {
		if c := pc.companions.ByName(name); c != nil {
			return c
		}
		log.Printf("[PresentationController] Warning: companion %q not found, using default", name)
	}
	if all := pc.companions.All(); len(all) > 0 {
		return all[0]
	}
	return pc.companions.Random(pc.rng)
}

// defaultStyle 配置中的默认字幕样式
func (pc *PresentationController) defaultStyle() companion.Style {
	return companion.Style{
		FontFace:        pc.cfg.DefaultStyle.FontFace,
		FontSize:        pc.cfg.DefaultStyle.FontSize,
		TextColor:       pc.cfg.TextColor(),
		BackgroundColor: pc.cfg.BackgroundColor(),
	}
}

// setCompanion 切换导游并重新计算生效的字体和颜色
func (pc *PresentationController) setCompanion(c *companion.Companion) {
	if c == nil {
		return
	}
	pc.state.Companion = c

	defaults := pc.defaultStyle()
	pc.style = companion.EffectiveStyle(defaults, c, pc.cfg.AllowStyleOverride)

	font, err := pc.fonts(pc.style.FontFace, pc.style.FontSize)
	if err != nil {
		log.Printf("[PresentationController] Warning: font %q unavailable (%v), falling back to %s",
			pc.style.FontFace, err, defaults.FontFace)
		font, err = builtinFontResolver(defaults.FontFace, pc.style.FontSize)
		if err != nil {
			font, _ = builtinFontResolver(utils.FontGoMono, pc.style.FontSize)
		}
	}
	pc.font = font

	if pc.caption != nil {
		if font != nil {
			pc.caption.SetFont(font)
		}
		pc.caption.SetTextColor(pc.style.TextColor)
		pc.caption.SetBackgroundColor(pc.style.BackgroundColor)
	}
}

// RenderFrame 推进并绘制一帧
//
// 参数：
//   - screen: 绘制目标（为 nil 时只推进状态）
//   - track: 当前曲目，nil 表示没有在播放
func (pc *PresentationController) RenderFrame(screen *ebiten.Image, track *game.TrackInfo) {
	if !pc.initialized {
		return
	}

	now := pc.clock.Now()
	sinceLastComment := now.Sub(pc.state.LastCommentTime)
	sinceSceneryChange := now.Sub(pc.state.LastSceneryChange)
	st := &pc.state

	// 检测切歌（艺术家或曲名任一不同）
	if track != nil {
		if !track.SameTrack(st.Artist, st.Track) {
			st.TrackAnnounced = false

			// 硬复位：正在进行的发言直接作废
			st.CommentingNow = false
			st.Announcement = false
			pc.captionMotion.SetPosition(pc.captionHidden())
			pc.companionMotion.SetPosition(pc.companionHidden())
		}
		st.Artist = track.Artist
		st.Track = track.Track
	}

	pc.scroller.RenderFrame(screen)

	sceneryInterval, onTrackChange := pc.cfg.SceneryEvery()
	if onTrackChange && !st.TrackAnnounced && !st.FirstFrame && track != nil {
		pc.rotateScenery(now)
	}

	switch {
	case !st.TrackAnnounced && !st.CommentingNow && track != nil && pc.cfg.AnnounceTrackChange:
		if pc.cfg.RotateCompanions {
			pc.setCompanion(pc.companions.Random(pc.rng))
		}
		pc.beginComment(st.Companion.RandomTrackChangeMessage(pc.rng), track, now, true)
		st.TrackAnnounced = true

	case !st.CommentingNow && sinceLastComment > pc.cfg.CommentaryEvery():
		if pc.cfg.RotateCompanions {
			pc.setCompanion(pc.companions.Random(pc.rng))
		}
		policy := companion.ChatterPolicy{Mix: pc.cfg.MixIdleChatter, Chattiness: pc.cfg.ChattinessPercent()}
		response, ok := companion.SelectResponse(pc.rng, st.Companion, st.Artist, st.Track, st.Scene.Tags(), policy)
		if ok {
			pc.beginComment(response, track, now, false)
		} else {
			log.Printf("[PresentationController] Companion %q had no response and no idle chatter (add more dialogue to this companion)",
				st.Companion.Name())
		}

	case st.CommentingNow && sinceLastComment > config.BaseCommentDuration:
		pc.companionMotion.SetDestination(pc.companionHidden())
		pc.captionMotion.SetDestination(pc.captionHidden())
		st.CommentingNow = false
		st.Announcement = false
	}

	// 关闭切歌播报时视同已播报
	if !pc.cfg.AnnounceTrackChange {
		st.TrackAnnounced = true
	}

	if !onTrackChange && sinceSceneryChange > sceneryInterval {
		pc.rotateScenery(now)
	}

	pc.companionMotion.Update()
	pc.companionMotion.Draw(screen)

	pc.caption.UpdateTextAnimation()
	pc.captionMotion.SetImage(pc.caption.Surface())
	pc.captionMotion.Update()
	pc.captionMotion.Draw(screen)

	st.FirstFrame = false
}

// rotateScenery 换一个随机背景
func (pc *PresentationController) rotateScenery(now time.Time) {
	scene := pc.scenery.RandomScene(pc.rng, pc.cfg.PreferredSceneryTags)
	if scene == nil {
		log.Printf("[PresentationController] Warning: scenery provider returned nothing, keeping %q", pc.state.Scene.Name())
		pc.state.LastSceneryChange = now
		return
	}
	pc.state.Scene = scene
	pc.scroller.SetImage(scene.RandomVariant(pc.rng))
	pc.state.LastSceneryChange = now
	log.Printf("[PresentationController] Scenery changed to %q", scene.Name())
}

// beginComment 开始一次发言：替换占位符，导游和字幕入场，重新开始打字机效果
func (pc *PresentationController) beginComment(comment string, track *game.TrackInfo, now time.Time, announcement bool) {
	if track != nil {
		comment = companion.FormatMessage(comment, track.Artist, track.Track, track.Album)
	}

	st := &pc.state
	st.CommentingNow = true
	st.Announcement = announcement
	// 长消息多给一些阅读时间
	st.LastCommentTime = now.Add(time.Duration(len(comment)) * config.CommentReadingTimePerChar)

	img := st.Companion.RandomImage(pc.rng, pc.style.BackgroundColor)
	pc.companionMotion.SetImage(img)
	imgWidth := 0
	if img != nil {
		imgWidth = img.Bounds().Dx()
	}
	pc.companionMotion.SetDestination(animation.Point{
		X: pc.textX - float64(imgWidth),
		Y: float64(pc.height) - config.CompanionTopOffset,
	})

	pc.caption.SetText(comment)
	pc.captionMotion.SetDestination(pc.captionShown())
}

// Stop 结束展示会话，释放背景引用和字幕表面
// 多次调用是安全的
func (pc *PresentationController) Stop() {
	if pc.scroller != nil {
		pc.scroller.Stop()
	}
	if pc.caption != nil {
		pc.caption.Dispose()
	}
	if pc.captionMotion != nil {
		pc.captionMotion.SetImage(nil)
	}
	if pc.initialized {
		log.Printf("[PresentationController] Stopped")
	}
	pc.initialized = false
	pc.state = PresentationState{}
}

// ReloadConfig 立即应用新配置（不重启会话）
//
// 重新选择导游、重新计算生效的字体和颜色，并更新透明度和背景滚动速度。
// 可以在 Initialize 之前调用。
func (pc *PresentationController) ReloadConfig(cfg *config.PresentationConfig) {
	if cfg == nil {
		return
	}
	pc.cfg = cfg.Clone()
	if !pc.initialized {
		return
	}

	c := pc.resolveCompanion()
	if c == nil {
		c = pc.state.Companion
	}
	pc.setCompanion(c)

	pc.captionMotion.SetAlpha(float32(pc.cfg.TextOpacity))
	pc.scroller.SetScrollSpeed(pc.cfg.ScrollSpeedPixels())
	pc.scroller.SetEasingPower(pc.cfg.ScrollEasingPower())

	log.Printf("[PresentationController] Configuration reloaded (companion=%q)", pc.state.Companion.Name())
}

// Phase 返回当前逻辑状态
func (pc *PresentationController) Phase() Phase {
	if !pc.initialized {
		return PhaseIdle
	}
	if pc.state.CommentingNow {
		if pc.state.Announcement {
			return PhaseAnnouncing
		}
		return PhaseCommenting
	}
	if !pc.companionMotion.IsComplete() || !pc.captionMotion.IsComplete() {
		return PhaseDismissing
	}
	return PhaseIdle
}

// State 返回当前会话状态的快照
func (pc *PresentationController) State() PresentationState {
	return pc.state
}

// Config 返回当前配置的副本
func (pc *PresentationController) Config() *config.PresentationConfig {
	return pc.cfg.Clone()
}

// CaptionText 当前字幕文本
func (pc *PresentationController) CaptionText() string {
	if pc.caption == nil {
		return ""
	}
	return pc.caption.Text()
}

// Style 当前生效的字幕样式
func (pc *PresentationController) Style() companion.Style {
	return pc.style
}

// CompanionPosition 导游立绘当前位置
func (pc *PresentationController) CompanionPosition() animation.Point {
	if pc.companionMotion == nil {
		return animation.Point{}
	}
	return pc.companionMotion.Position()
}

// CaptionPosition 字幕面板当前位置
func (pc *PresentationController) CaptionPosition() animation.Point {
	if pc.captionMotion == nil {
		return animation.Point{}
	}
	return pc.captionMotion.Position()
}

// IsInitialized 是否处于会话中
func (pc *PresentationController) IsInitialized() bool {
	return pc.initialized
}
