package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the application (e.g., the scenery presentation).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Stoppable 是一个可选接口，用于在场景被替换或程序退出时释放资源
//
// 实现此接口的场景会在以下时机被调用 Stop()：
//   - 被 SceneManager.SwitchTo 替换
//   - 程序关闭（SceneManager.Shutdown）
type Stoppable interface {
	// Stop 释放场景持有的资源（字幕表面、背景引用等）
	// 多次调用必须安全
	Stop()
}
