package game

import (
	"fmt"
	"log"
	"sync"

	"github.com/decker502/scenery/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ConfigListener 配置变更监听器
// 每次 Apply 成功后以新配置的副本调用
type ConfigListener func(cfg *config.PresentationConfig)

// SettingsManager 设置管理器
// 负责展示配置的加载、保存和变更通知
//
// 配置以 YAML 形式保存在 gdata 中；没有已保存的配置时使用
// 创建时传入的默认配置（通常来自 data/presentation.yaml）。
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	defaults     *config.PresentationConfig

	mu        sync.Mutex
	settings  *config.PresentationConfig // 当前设置
	listeners []ConfigListener
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "presentation"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - defaults: 没有已保存配置时使用的配置，为 nil 时使用 config.DefaultPresentationConfig()
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 始终为 nil（加载失败不影响创建，只记录警告）
func NewSettingsManager(gdataManager *gdata.Manager, defaults *config.PresentationConfig) (*SettingsManager, error) {
	if defaults == nil {
		defaults = config.DefaultPresentationConfig()
	}
	sm := &SettingsManager{
		gdataManager: gdataManager,
		defaults:     defaults.Clone(),
		settings:     defaults.Clone(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或没有已保存的设置，使用默认设置
//
// 返回：
//   - error: 如果读取、反序列化或校验失败返回错误
func (sm *SettingsManager) Load() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = sm.defaults.Clone()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = sm.defaults.Clone()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded, err := config.ParsePresentationConfig(data)
	if err != nil {
		sm.settings = sm.defaults.Clone()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.saveLocked()
}

func (sm *SettingsManager) saveLocked() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置的副本
func (sm *SettingsManager) GetSettings() *config.PresentationConfig {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.settings.Clone()
}

// Subscribe 注册配置变更监听器
func (sm *SettingsManager) Subscribe(listener ConfigListener) {
	if listener == nil {
		return
	}
	sm.mu.Lock()
	sm.listeners = append(sm.listeners, listener)
	sm.mu.Unlock()
}

// Apply 替换当前设置、持久化并通知所有监听器
//
// 校验失败时保持原设置不变。持久化失败只返回错误，
// 新设置仍然生效并通知监听器。
func (sm *SettingsManager) Apply(cfg *config.PresentationConfig) error {
	if cfg == nil {
		return fmt.Errorf("nil presentation config")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid presentation config: %w", err)
	}

	sm.mu.Lock()
	sm.settings = cfg.Clone()
	saveErr := sm.saveLocked()
	listeners := append([]ConfigListener(nil), sm.listeners...)
	sm.mu.Unlock()

	for _, l := range listeners {
		l(cfg.Clone())
	}

	log.Printf("[SettingsManager] Applied presentation config (companion=%q, scenery=%s)", cfg.Companion, cfg.SceneryInterval)
	return saveErr
}

// ReloadFile 从 YAML 文件重新加载配置并 Apply
func (sm *SettingsManager) ReloadFile(path string) error {
	cfg, err := config.LoadPresentationConfig(path)
	if err != nil {
		return err
	}
	return sm.Apply(cfg)
}

// SetCompanion 选择导游并 Apply
func (sm *SettingsManager) SetCompanion(name string) error {
	cfg := sm.GetSettings()
	cfg.Companion = name
	return sm.Apply(cfg)
}

// SetTextOpacity 设置字幕不透明度并 Apply
// 不透明度会被限制在 0.0 ~ 1.0 范围内
func (sm *SettingsManager) SetTextOpacity(opacity float64) error {
	cfg := sm.GetSettings()
	cfg.TextOpacity = clampOpacity(opacity)
	return sm.Apply(cfg)
}

// clampOpacity 将不透明度限制在 0.0 ~ 1.0 范围内
func clampOpacity(opacity float64) float64 {
	if opacity < 0.0 {
		return 0.0
	}
	if opacity > 1.0 {
		return 1.0
	}
	return opacity
}
