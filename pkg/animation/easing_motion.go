// Package animation 提供风景展示用到的三个可复用运动原语：
//
//   - EasingMotion：带缓动曲线和速度上限的点到点平移（导游立绘、字幕面板）
//   - BounceScroller：在视口内缓慢平移超大背景图，接近边界时柔和"回弹"
//   - TypewriterText：按字符逐步显示、自动换行的打字机字幕
//
// 三者都由帧循环每帧调用一次，内部按墙钟时间（utils.Clock）计时，
// 不启动 goroutine，不做阻塞 I/O。
package animation

import (
	"math"
	"time"

	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultMinFrameDistance 每帧最小移动距离的默认值（像素）
const DefaultMinFrameDistance = 1.0

// DefaultEasingStrength 默认缓动强度
const DefaultEasingStrength = 2.0

// snapDistance 剩余距离小于等于该值时直接吸附到终点
const snapDistance = 0.5

// Point 屏幕坐标（浮点）
type Point struct {
	X, Y float64
}

// DistanceTo 返回两点间的欧氏距离
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// MotionState 运动状态快照
// 每次设置新终点时整体重算
type MotionState struct {
	Position      Point
	Start         Point
	Destination   Point
	TotalDistance float64
	DirectionX    float64 // 单位方向向量
	DirectionY    float64
	Complete      bool
}

// EasingMotion 点到点缓动平移
//
// 每帧调用 Update()：
//  1. 计算距上次调用的墙钟时间差（首次以构造时间为基准）
//  2. 进度 = 已走距离 / 总路径长度（路径长度为 0 时进度为 1，立即完成）
//  3. 通过缓动曲线把进度映射为速度倍率
//  4. 本帧移动距离 = 最大速度 × 倍率 × 时间差，至少 minFrameDistance，至多剩余距离
//  5. 到达或剩余 ≤ 0.5 像素时吸附到终点并标记完成，之后 Update 不再做任何事
type EasingMotion struct {
	state MotionState

	maxSpeed         float64 // 像素/秒
	strength         float64
	curve            utils.EasingCurve
	minFrameDistance float64

	clock      utils.Clock
	lastUpdate time.Time

	// 可选：附着的图像（绘制在当前位置）
	image *ebiten.Image
	alpha float32
}

// MotionOption 构造选项
type MotionOption func(*EasingMotion)

// WithClock 注入时钟（测试使用 utils.ManualClock）
func WithClock(c utils.Clock) MotionOption {
	return func(m *EasingMotion) {
		m.clock = utils.OrSystem(c)
	}
}

// WithEasing 设置缓动曲线和强度
func WithEasing(curve utils.EasingCurve, strength float64) MotionOption {
	return func(m *EasingMotion) {
		m.curve = curve
		m.strength = math.Max(1.0, strength)
	}
}

// WithMinFrameDistance 设置每帧最小移动距离
func WithMinFrameDistance(d float64) MotionOption {
	return func(m *EasingMotion) {
		if d >= 0 {
			m.minFrameDistance = d
		}
	}
}

// WithImage 附着一张图像，Draw 时绘制在当前位置
func WithImage(img *ebiten.Image) MotionOption {
	return func(m *EasingMotion) {
		m.image = img
	}
}

// NewEasingMotion 创建缓动平移
//
// 参数：
//   - start: 起点
//   - dest: 终点
//   - maxSpeed: 最大速度（像素/秒）
//   - opts: 可选项（时钟、缓动、最小帧距离、图像）
//
// 默认使用 EaseInOut、强度 2.0、最小帧距离 1.0。
func NewEasingMotion(start, dest Point, maxSpeed float64, opts ...MotionOption) *EasingMotion {
	m := &EasingMotion{
		maxSpeed:         maxSpeed,
		strength:         DefaultEasingStrength,
		curve:            utils.CurveEaseInOut,
		minFrameDistance: DefaultMinFrameDistance,
		clock:            utils.SystemClock{},
		alpha:            1.0,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.state.Position = start
	m.state.Start = start
	m.state.Destination = dest
	m.lastUpdate = m.clock.Now()
	m.recalculate()

	return m
}

// recalculate 重新计算路径长度和方向，清除完成标志（起点等于终点时除外）
func (m *EasingMotion) recalculate() {
	s := &m.state
	dx := s.Destination.X - s.Start.X
	dy := s.Destination.Y - s.Start.Y
	s.TotalDistance = math.Hypot(dx, dy)

	if s.TotalDistance > 0 {
		s.DirectionX = dx / s.TotalDistance
		s.DirectionY = dy / s.TotalDistance
		s.Complete = false
	} else {
		s.DirectionX = 0
		s.DirectionY = 0
		s.Complete = true
	}
}

// Update 推进一帧
// 每帧调用一次；完成后调用为空操作
func (m *EasingMotion) Update() {
	if m.state.Complete {
		return
	}

	now := m.clock.Now()
	deltaTime := now.Sub(m.lastUpdate).Seconds()
	m.lastUpdate = now
	if deltaTime < 0 {
		deltaTime = 0
	}

	s := &m.state
	speedMultiplier := utils.SpeedMultiplier(m.curve, m.strength, m.progress())
	frameDistance := m.maxSpeed * speedMultiplier * deltaTime

	remaining := s.Position.DistanceTo(s.Destination)
	if remaining > 0 {
		// 保证肉眼可见的移动，同时绝不越过终点
		frameDistance = math.Max(frameDistance, m.minFrameDistance)
		frameDistance = math.Min(frameDistance, remaining)
	}

	if frameDistance >= remaining || remaining <= snapDistance {
		s.Position = s.Destination
		s.Complete = true
		return
	}

	s.Position.X += s.DirectionX * frameDistance
	s.Position.Y += s.DirectionY * frameDistance
}

func (m *EasingMotion) progress() float64 {
	s := &m.state
	if s.TotalDistance == 0 {
		return 1.0
	}
	return math.Min(1.0, s.Position.DistanceTo(s.Start)/s.TotalDistance)
}

// SetDestination 设置新终点
// 以当前位置为新起点，重算方向和长度，清除完成标志，重置计时基准
func (m *EasingMotion) SetDestination(dest Point) {
	m.state.Start = m.state.Position
	m.state.Destination = dest
	m.lastUpdate = m.clock.Now()
	m.recalculate()
}

// SetPosition 瞬移到指定位置（不播放动画）
// 该位置同时成为起点和终点，运动立即处于完成状态，
// 用于在上下文突变时（如发言中途切歌）硬复位
func (m *EasingMotion) SetPosition(p Point) {
	m.state.Position = p
	m.state.Start = p
	m.state.Destination = p
	m.lastUpdate = m.clock.Now()
	m.recalculate()
}

// Draw 在当前位置（四舍五入到整数像素）绘制附着的图像
func (m *EasingMotion) Draw(screen *ebiten.Image) {
	if m.image == nil || screen == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(math.Round(m.state.Position.X), math.Round(m.state.Position.Y))
	if m.alpha < 1 {
		op.ColorScale.ScaleAlpha(m.alpha)
	}
	screen.DrawImage(m.image, op)
}

// Position 当前坐标
func (m *EasingMotion) Position() Point { return m.state.Position }

// Destination 当前终点
func (m *EasingMotion) Destination() Point { return m.state.Destination }

// IsComplete 是否已到达终点
func (m *EasingMotion) IsComplete() bool { return m.state.Complete }

// Progress 当前进度 0.0 ~ 1.0
func (m *EasingMotion) Progress() float64 { return m.progress() }

// State 返回运动状态快照
func (m *EasingMotion) State() MotionState { return m.state }

// Image 附着的图像
func (m *EasingMotion) Image() *ebiten.Image { return m.image }

// SetImage 替换附着的图像（位置和终点保持不变）
func (m *EasingMotion) SetImage(img *ebiten.Image) { m.image = img }

// SetAlpha 设置绘制不透明度 0.0 ~ 1.0
func (m *EasingMotion) SetAlpha(alpha float32) {
	m.alpha = float32(utils.Clamp01(float64(alpha)))
}

// SetMaxSpeed 更新最大速度（像素/秒）
func (m *EasingMotion) SetMaxSpeed(speed float64) { m.maxSpeed = speed }

// SetEasingStrength 更新缓动强度（小于 1 时按 1 处理）
func (m *EasingMotion) SetEasingStrength(strength float64) {
	m.strength = math.Max(1.0, strength)
}

// SetEasingCurve 更新缓动曲线
func (m *EasingMotion) SetEasingCurve(curve utils.EasingCurve) { m.curve = curve }
