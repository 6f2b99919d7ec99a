// Package app 提供风景展示应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/embedded"
	"github.com/decker502/scenery/pkg/game"
	"github.com/decker502/scenery/pkg/scenes"
	"github.com/decker502/scenery/pkg/systems"
	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 内置资源路径（相对于 embedded.FS()）
const (
	BuiltInCompanionDir = "assets/companions"
	BuiltInSceneryDir   = "assets/scenery"
	DefaultConfigPath   = "data/presentation.yaml"
	DefaultPlaylistPath = "data/playlist.yaml"
)

// gdataAppName gdata 存储目录名
const gdataAppName = "scenery"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 用户配置文件（R 键重新加载），为空则使用内置默认配置
	ConfigPath string
	// CompanionsDir 用户自定义导游目录，为空则只使用内置导游
	CompanionsDir string
	// SceneryDir 用户自定义背景目录，为空则只使用内置背景
	SceneryDir string
	// PlaylistPath 演示播放列表，为空则使用内置播放列表
	PlaylistPath string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	scenery                  *scenes.SceneryScene
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
// 内置导游或内置背景为空时返回错误（安装已损坏）。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	ctx := context.Background()
	builtIn := game.NewResourceManager(embedded.FS())

	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}
	userConfig, err := loadUserConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	settingsManager, err := newSettingsManager(openGdata(), defaults, userConfig)
	if err != nil {
		return nil, fmt.Errorf("设置管理器初始化失败: %w", err)
	}

	companions, err := game.NewCompanionLoader(ctx, builtIn, BuiltInCompanionDir, customResources(cfg.CompanionsDir), ".")
	if err != nil {
		return nil, fmt.Errorf("导游加载失败: %w", err)
	}

	sceneryLoader, err := game.NewSceneryLoader(ctx, builtIn, BuiltInSceneryDir, customResources(cfg.SceneryDir), ".")
	if err != nil {
		return nil, fmt.Errorf("背景加载失败: %w", err)
	}
	go func() {
		if err := sceneryLoader.Preload(ctx); err != nil {
			log.Printf("[App] Warning: scenery preload stopped: %v", err)
		}
	}()

	playlist, err := loadPlaylist(cfg.PlaylistPath)
	if err != nil {
		return nil, fmt.Errorf("播放列表加载失败: %w", err)
	}
	tracks := game.NewPlaylistSource(playlist, nil)

	controller := systems.NewPresentationController(companions, sceneryLoader, settingsManager.GetSettings(),
		systems.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
		systems.WithFontResolver(builtIn.FontFace),
	)

	sceneryScene, err := scenes.NewSceneryScene(controller, tracks, settingsManager, cfg.ConfigPath,
		config.DefaultWindowWidth, config.DefaultWindowHeight)
	if err != nil {
		return nil, fmt.Errorf("展示初始化失败: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(sceneryScene)
	log.Printf("[App] Presentation started with %d companions", len(companions.All()))

	return &App{
		sceneManager: sceneManager,
		scenery:      sceneryScene,
		verbose:      cfg.Verbose,
	}, nil
}

// loadDefaults 加载内置默认配置
func loadDefaults() (*config.PresentationConfig, error) {
	data, err := embedded.ReadFile(DefaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("内置配置读取失败: %w", err)
	}
	defaults, err := config.ParsePresentationConfig(data)
	if err != nil {
		return nil, fmt.Errorf("内置配置无效: %w", err)
	}
	return defaults, nil
}

// loadUserConfig 加载命令行指定的配置文件，未指定时返回 nil
func loadUserConfig(path string) (*config.PresentationConfig, error) {
	if path == "" {
		return nil, nil
	}
	user, err := config.LoadPresentationConfig(path)
	if err != nil {
		return nil, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	log.Printf("[App] Using configuration file %s", path)
	return user, nil
}

// newSettingsManager 创建设置管理器
// 指定了配置文件时，文件内容优先于之前保存的设置
func newSettingsManager(gdataManager *gdata.Manager, defaults, user *config.PresentationConfig) (*game.SettingsManager, error) {
	sm, err := game.NewSettingsManager(gdataManager, defaults)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return sm, nil
	}
	if err := sm.Apply(user); err != nil {
		// 持久化失败不影响本次运行
		log.Printf("[App] Warning: %v", err)
	}
	return sm, nil
}

// loadPlaylist 加载用户播放列表，未指定时使用内置播放列表
func loadPlaylist(path string) (*game.Playlist, error) {
	if path != "" {
		return game.LoadPlaylist(path)
	}
	data, err := embedded.ReadFile(DefaultPlaylistPath)
	if err != nil {
		return nil, err
	}
	return game.ParsePlaylist(data)
}

// customResources 为用户目录创建资源管理器，目录为空时返回 nil
func customResources(dir string) *game.ResourceManager {
	if dir == "" || utils.IsMobile() {
		return nil
	}
	return game.NewResourceManager(os.DirFS(dir))
}

// openGdata 打开持久化存储，失败时返回 nil（降级模式，设置只保存在内存中）
func openGdata() *gdata.Manager {
	if err := utils.EnsureStorageDir(gdataAppName); err != nil {
		log.Printf("[App] Warning: storage directory not available: %v", err)
	} else if dir := utils.GetStoragePath(gdataAppName); dir != "" {
		log.Printf("[App] Settings stored in %s", dir)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: gdataAppName})
	if err != nil {
		log.Printf("[App] Warning: failed to open gdata: %v (settings will not persist)", err)
		return nil
	}
	return gdataManager
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.DefaultWindowWidth, config.DefaultWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.DefaultWindowWidth, config.DefaultWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 展示画面跟随窗口大小，尺寸变化时重新开始展示会话
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return config.DefaultWindowWidth, config.DefaultWindowHeight
	}
	if a.scenery != nil {
		a.scenery.SetViewport(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Shutdown 停止当前场景
// 窗口关闭时调用
func (a *App) Shutdown() {
	a.sceneManager.Shutdown()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
