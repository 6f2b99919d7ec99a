package scenes

import (
	"image/color"
	"log"

	"github.com/decker502/scenery/pkg/game"
	"github.com/decker502/scenery/pkg/systems"
	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TrackSource 当前曲目来源（演示播放列表或真正的播放引擎）
type TrackSource interface {
	// Current 返回当前曲目，nil 表示没有在播放
	Current() *game.TrackInfo
	// Skip 切换到下一首
	Skip()
	// TogglePlaying 暂停或继续播放，返回切换后是否在播放
	TogglePlaying() bool
}

// 快捷键
const (
	KeySkipTrack    = ebiten.KeyN
	KeyTogglePlay   = ebiten.KeyP
	KeyReloadConfig = ebiten.KeyR
)

// SceneryScene 风景展示场景
//
// 每个 tick 把当前曲目交给 PresentationController 绘制一帧。
// 快捷键：N 下一首，P 暂停/继续，R 重新加载配置文件。
// 没有键盘时（移动端）：点击屏幕右半边下一首，左半边暂停/继续。
type SceneryScene struct {
	controller *systems.PresentationController
	tracks     TrackSource
	settings   *game.SettingsManager
	configPath string // R 键重新加载的配置文件，为空则禁用

	width  int
	height int

	// justPressed 检测按键，tapped 检测点击（测试时可替换）
	justPressed func(key ebiten.Key) bool
	tapped      func() (bool, int, int)
}

// NewSceneryScene 创建风景展示场景并开始展示会话
//
// 参数：
//   - controller: 展示控制器
//   - tracks: 曲目来源
//   - settings: 设置管理器（可为 nil），配置变更会立即推送给控制器
//   - configPath: R 键重新加载的配置文件路径
//   - width, height: 初始视口尺寸
//
// 返回：
//   - error: 控制器初始化失败（没有可用的导游或背景）时返回错误
func NewSceneryScene(controller *systems.PresentationController, tracks TrackSource, settings *game.SettingsManager, configPath string, width, height int) (*SceneryScene, error) {
	s := &SceneryScene{
		controller:  controller,
		tracks:      tracks,
		settings:    settings,
		configPath:  configPath,
		width:       width,
		height:      height,
		justPressed: inpututil.IsKeyJustPressed,
		tapped:      utils.IsJustTouchedOrClicked,
	}

	if err := controller.Initialize(width, height); err != nil {
		return nil, err
	}
	if settings != nil {
		settings.Subscribe(controller.ReloadConfig)
	}

	log.Printf("[SceneryScene] Created (%dx%d)", width, height)
	return s, nil
}

// Update 处理快捷键和点击
func (s *SceneryScene) Update(deltaTime float64) {
	if s.tracks != nil {
		skip := s.justPressed(KeySkipTrack)
		toggle := s.justPressed(KeyTogglePlay)
		if ok, x, _ := s.tapped(); ok {
			if x >= s.width/2 {
				skip = true
			} else {
				toggle = true
			}
		}
		if skip {
			s.tracks.Skip()
		}
		if toggle {
			s.tracks.TogglePlaying()
		}
	}
	if s.justPressed(KeyReloadConfig) {
		s.reloadConfig()
	}
}

func (s *SceneryScene) reloadConfig() {
	if s.settings == nil || s.configPath == "" {
		log.Printf("[SceneryScene] Reload ignored: no configuration file")
		return
	}
	if err := s.settings.ReloadFile(s.configPath); err != nil {
		log.Printf("[SceneryScene] Warning: failed to reload %s: %v", s.configPath, err)
		return
	}
	log.Printf("[SceneryScene] Reloaded %s", s.configPath)
}

// SetViewport 视口尺寸变化时重新开始展示会话
func (s *SceneryScene) SetViewport(width, height int) {
	if width <= 0 || height <= 0 || (width == s.width && height == s.height) {
		return
	}
	s.width, s.height = width, height
	if err := s.controller.Initialize(width, height); err != nil {
		log.Printf("[SceneryScene] Error: failed to restart presentation at %dx%d: %v", width, height, err)
		return
	}
	log.Printf("[SceneryScene] Viewport changed to %dx%d", width, height)
}

// Draw 绘制一帧
func (s *SceneryScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	var track *game.TrackInfo
	if s.tracks != nil {
		track = s.tracks.Current()
	}
	s.controller.RenderFrame(screen, track)
}

// Stop 结束展示会话
func (s *SceneryScene) Stop() {
	s.controller.Stop()
}

// Controller 返回展示控制器
func (s *SceneryScene) Controller() *systems.PresentationController {
	return s.controller
}
