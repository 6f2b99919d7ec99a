package animation

import (
	"math"

	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// 回弹参数默认值
const (
	DefaultBounceZoneRatio = 0.06 // 可滚动距离中靠近边界、需要减速的比例
	DefaultMinSpeedRatio   = 0.1  // 边界处的最低速度（相对基础速度）
	DefaultEasingPower     = 2.0  // 减速曲线幂次（1 线性，2 二次，3 三次）
	DefaultScrollSpeed     = 2    // 像素/帧（"slow"）
)

// ScrollState 滚动状态
// 更换图像时整体重置
type ScrollState struct {
	OffsetX, OffsetY       int
	Zoom                   float64
	DirectionX, DirectionY int // -1 向左/上，+1 向右/下
	LayoutComputed         bool
}

// BounceScroller 在固定视口内缓慢平移一张超大背景图
//
// 首帧按图像的约束边（竖图按宽，横图按高）计算缩放倍率，使图像恰好铺满视口的一个方向，
// 然后沿超出视口的轴来回平移；接近边界时进入"回弹区"逐渐减速，离开边界时再逐渐加速。
// 缩放后整张图都能放进视口时不滚动，改为居中显示。
//
// 滚动器只持有图像的只读引用，从不修改像素数据；缩放在绘制时通过 GeoM 完成。
type BounceScroller struct {
	image         *ebiten.Image
	displayWidth  int
	displayHeight int

	state   ScrollState
	running bool

	scrollSpeed     int
	easingPower     float64
	bounceZoneRatio float64
	minSpeedRatio   float64
}

// ScrollerOption 构造选项
type ScrollerOption func(*BounceScroller)

// WithScrollSpeed 设置基础速度（像素/帧）
func WithScrollSpeed(pixelsPerFrame int) ScrollerOption {
	return func(s *BounceScroller) {
		s.SetScrollSpeed(pixelsPerFrame)
	}
}

// WithEasingPower 设置回弹区减速曲线幂次
func WithEasingPower(power float64) ScrollerOption {
	return func(s *BounceScroller) {
		s.SetEasingPower(power)
	}
}

// WithBounceZone 设置回弹区比例和边界处最低速度比例
func WithBounceZone(zoneRatio, minSpeedRatio float64) ScrollerOption {
	return func(s *BounceScroller) {
		if zoneRatio >= 0 && zoneRatio <= 0.5 {
			s.bounceZoneRatio = zoneRatio
		}
		if minSpeedRatio >= 0 && minSpeedRatio <= 1 {
			s.minSpeedRatio = minSpeedRatio
		}
	}
}

// NewBounceScroller 创建背景滚动器
//
// 参数：
//   - img: 背景图（可为 nil，稍后通过 SetImage 设置）
//   - displayWidth, displayHeight: 视口尺寸
func NewBounceScroller(img *ebiten.Image, displayWidth, displayHeight int, opts ...ScrollerOption) *BounceScroller {
	s := &BounceScroller{
		displayWidth:    displayWidth,
		displayHeight:   displayHeight,
		scrollSpeed:     DefaultScrollSpeed,
		easingPower:     DefaultEasingPower,
		bounceZoneRatio: DefaultBounceZoneRatio,
		minSpeedRatio:   DefaultMinSpeedRatio,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SetImage(img)
	return s
}

// SetImage 更换背景图，重置所有滚动状态（布局在下一帧重新计算）
func (s *BounceScroller) SetImage(img *ebiten.Image) {
	s.Stop()
	s.image = img
	s.state = ScrollState{DirectionX: -1, DirectionY: -1}
	s.running = img != nil
}

// Stop 停止滚动并释放图像引用
// 停止后 RenderFrame 为空操作，直到再次 SetImage
func (s *BounceScroller) Stop() {
	s.image = nil
	s.running = false
}

// SetScrollSpeed 设置基础速度（像素/帧，至少 1）
func (s *BounceScroller) SetScrollSpeed(pixelsPerFrame int) {
	s.scrollSpeed = max(1, pixelsPerFrame)
}

// SetEasingPower 设置回弹区减速曲线幂次（小于 1 时按 1 处理）
func (s *BounceScroller) SetEasingPower(power float64) {
	s.easingPower = math.Max(1.0, power)
}

// computeLayout 首帧计算缩放倍率、初始方向以及是否需要居中
func (s *BounceScroller) computeLayout() {
	st := &s.state
	st.OffsetX, st.OffsetY = 0, 0
	st.LayoutComputed = true

	b := s.image.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		st.Zoom = 1
		return
	}

	portrait := h > w
	if portrait {
		st.Zoom = float64(s.displayWidth) / float64(w)
		st.DirectionY = -1
	} else {
		st.Zoom = float64(s.displayHeight) / float64(h)
		st.DirectionX = -1
	}
	if st.Zoom <= 0 {
		st.Zoom = 1
	}

	imgW, imgH := s.zoomedSize()
	if imgW <= s.displayWidth && imgH <= s.displayHeight {
		st.OffsetX = s.displayWidth/2 - imgW/2
		st.OffsetY = s.displayHeight/2 - imgH/2
	}
}

func (s *BounceScroller) zoomedSize() (int, int) {
	b := s.image.Bounds()
	return int(float64(b.Dx()) * s.state.Zoom), int(float64(b.Dy()) * s.state.Zoom)
}

// RenderFrame 绘制当前帧并推进偏移
// screen 为 nil 时只推进不绘制
func (s *BounceScroller) RenderFrame(screen *ebiten.Image) {
	if !s.running || s.image == nil {
		return
	}
	if !s.state.LayoutComputed {
		s.computeLayout()
	}

	if screen != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(s.state.Zoom, s.state.Zoom)
		op.GeoM.Translate(float64(s.state.OffsetX), float64(s.state.OffsetY))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(s.image, op)
	}

	imgW, imgH := s.zoomedSize()
	if imgW > s.displayWidth {
		s.state.OffsetX, s.state.DirectionX = s.advance(s.state.OffsetX, s.state.DirectionX, s.displayWidth-imgW)
	}
	if imgH > s.displayHeight {
		s.state.OffsetY, s.state.DirectionY = s.advance(s.state.OffsetY, s.state.DirectionY, s.displayHeight-imgH)
	}
}

// advance 沿一个轴推进一帧，minOffset 为该轴的最小偏移（负数）
func (s *BounceScroller) advance(offset, direction, minOffset int) (int, int) {
	delta := float64(direction) * float64(s.scrollSpeed) * s.SpeedMultiplier(offset, minOffset)

	// 至少移动 1 像素，避免在低倍率下停住
	if direction < 0 && delta > -1 {
		delta = -1
	} else if direction > 0 && delta < 1 {
		delta = 1
	}

	offset += int(delta)

	if offset >= 0 {
		return 0, -1
	}
	if offset <= minOffset {
		return minOffset, 1
	}
	return offset, direction
}

// SpeedMultiplier 计算回弹区速度倍率
//
// 参数：
//   - offset: 当前偏移
//   - minOffset: 最小偏移边界（视口尺寸 - 缩放后图像尺寸，<= 0）
//
// 返回 [minSpeedRatio, 1.0]：离最近边界的距离超出回弹区时为 1.0，
// 在边界处为 minSpeedRatio，之间按幂次曲线插值。两个边界对称。
func (s *BounceScroller) SpeedMultiplier(offset, minOffset int) float64 {
	totalDistance := abs(minOffset)
	if totalDistance == 0 {
		return 1.0
	}

	bounceZoneSize := int(float64(totalDistance) * s.bounceZoneRatio)
	if bounceZoneSize == 0 {
		return 1.0
	}

	distanceFromTop := abs(offset)
	distanceFromBottom := abs(offset - minOffset)
	nearest := min(distanceFromTop, distanceFromBottom)
	if nearest >= bounceZoneSize {
		return 1.0
	}

	easing := utils.PowerEase(float64(nearest)/float64(bounceZoneSize), s.easingPower)
	return utils.Lerp(s.minSpeedRatio, 1.0, easing)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// State 返回滚动状态快照
func (s *BounceScroller) State() ScrollState { return s.state }

// Offset 当前偏移
func (s *BounceScroller) Offset() (int, int) { return s.state.OffsetX, s.state.OffsetY }

// Zoom 当前缩放倍率（首帧之前为 0）
func (s *BounceScroller) Zoom() float64 { return s.state.Zoom }

// Image 当前背景图（Stop 之后为 nil）
func (s *BounceScroller) Image() *ebiten.Image { return s.image }

// IsRunning 是否处于滚动状态
func (s *BounceScroller) IsRunning() bool { return s.running }

// ScrollSpeed 基础速度（像素/帧）
func (s *BounceScroller) ScrollSpeed() int { return s.scrollSpeed }

// Viewport 视口尺寸
func (s *BounceScroller) Viewport() (int, int) { return s.displayWidth, s.displayHeight }
