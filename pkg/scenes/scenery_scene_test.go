package scenes

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/scenery/pkg/companion"
	"github.com/decker502/scenery/pkg/game"
	"github.com/decker502/scenery/pkg/systems"
	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

type stubCompanions struct {
	list []*companion.Companion
}

func (s *stubCompanions) All() []*companion.Companion { return s.list }

func (s *stubCompanions) Random(rng *rand.Rand) *companion.Companion {
	if len(s.list) == 0 {
		return nil
	}
	return s.list[rng.Intn(len(s.list))]
}

func (s *stubCompanions) ByName(name string) *companion.Companion {
	for _, c := range s.list {
		if strings.EqualFold(c.Name(), name) {
			return c
		}
	}
	return nil
}

type stubScenery struct {
	scene *companion.Scene
}

func (s *stubScenery) RandomScene(*rand.Rand, []string) *companion.Scene { return s.scene }

// stubTracks 记录快捷键操作
type stubTracks struct {
	track   *game.TrackInfo
	skips   int
	toggles int
}

func (s *stubTracks) Current() *game.TrackInfo { return s.track }
func (s *stubTracks) Skip()                    { s.skips++ }

func (s *stubTracks) TogglePlaying() bool {
	s.toggles++
	return s.toggles%2 == 0
}

func mustCompanion(t *testing.T, name string) *companion.Companion {
	t.Helper()
	tr, err := companion.NewTrigger("", "", []string{"city"}, []string{"Look at the lights."})
	if err != nil {
		t.Fatalf("NewTrigger() error = %v", err)
	}
	c, err := companion.New(name, []*ebiten.Image{ebiten.NewImage(40, 80)}, []companion.Trigger{tr})
	if err != nil {
		t.Fatalf("companion.New() error = %v", err)
	}
	return c
}

func newTestSceneryScene(t *testing.T, settings *game.SettingsManager, configPath string) (*SceneryScene, *stubTracks) {
	t.Helper()
	scene, err := companion.NewScene("city", []string{"city"}, []*ebiten.Image{ebiten.NewImage(320, 180)})
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}
	controller := systems.NewPresentationController(
		&stubCompanions{list: []*companion.Companion{mustCompanion(t, "Guide"), mustCompanion(t, "Ranger")}},
		&stubScenery{scene: scene},
		nil,
		systems.WithControllerClock(utils.NewManualClock()),
		systems.WithRand(rand.New(rand.NewSource(7))),
	)

	tracks := &stubTracks{}
	s, err := NewSceneryScene(controller, tracks, settings, configPath, 640, 480)
	if err != nil {
		t.Fatalf("NewSceneryScene() error = %v", err)
	}
	t.Cleanup(s.Stop)
	pressKeys(s)
	return s, tracks
}

// pressKeys 让下一次 Update 看到指定按键被按下
func pressKeys(s *SceneryScene, keys ...ebiten.Key) {
	pressed := map[ebiten.Key]bool{}
	for _, k := range keys {
		pressed[k] = true
	}
	s.justPressed = func(key ebiten.Key) bool { return pressed[key] }
	s.tapped = func() (bool, int, int) { return false, 0, 0 }
}

// tapAt 让下一次 Update 看到一次点击
func tapAt(s *SceneryScene, x int) {
	pressKeys(s)
	s.tapped = func() (bool, int, int) { return true, x, 10 }
}

func TestNewSceneryScene_NoCompanion(t *testing.T) {
	controller := systems.NewPresentationController(&stubCompanions{}, &stubScenery{}, nil)
	if _, err := NewSceneryScene(controller, nil, nil, "", 640, 480); err == nil {
		t.Error("没有导游时期望返回错误")
	}
}

func TestSceneryScene_Keys(t *testing.T) {
	s, tracks := newTestSceneryScene(t, nil, "")

	tests := []struct {
		name        string
		keys        []ebiten.Key
		wantSkips   int
		wantToggles int
	}{
		{"无按键", nil, 0, 0},
		{"下一首", []ebiten.Key{KeySkipTrack}, 1, 0},
		{"暂停", []ebiten.Key{KeyTogglePlay}, 1, 1},
		{"同时按下", []ebiten.Key{KeySkipTrack, KeyTogglePlay}, 2, 2},
		{"没有配置文件时重新加载被忽略", []ebiten.Key{KeyReloadConfig}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pressKeys(s, tt.keys...)
			s.Update(1.0 / 60.0)
			if tracks.skips != tt.wantSkips || tracks.toggles != tt.wantToggles {
				t.Errorf("skips=%d toggles=%d, 期望 %d/%d", tracks.skips, tracks.toggles, tt.wantSkips, tt.wantToggles)
			}
		})
	}
}

func TestSceneryScene_Tap(t *testing.T) {
	s, tracks := newTestSceneryScene(t, nil, "")

	tests := []struct {
		name        string
		x           int
		wantSkips   int
		wantToggles int
	}{
		{"右半边下一首", 500, 1, 0},
		{"左半边暂停", 100, 1, 1},
		{"正中间算右半边", 320, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tapAt(s, tt.x)
			s.Update(1.0 / 60.0)
			if tracks.skips != tt.wantSkips || tracks.toggles != tt.wantToggles {
				t.Errorf("skips=%d toggles=%d, 期望 %d/%d", tracks.skips, tracks.toggles, tt.wantSkips, tt.wantToggles)
			}
		})
	}
}

// TestSceneryScene_ReloadConfig R 键重新加载配置文件并立即推送给控制器
func TestSceneryScene_ReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presentation.yaml")
	if err := os.WriteFile(path, []byte("companion: Ranger\nscrollSpeed: fast\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	settings, _ := game.NewSettingsManager(nil, nil)
	s, _ := newTestSceneryScene(t, settings, path)

	if got := s.Controller().State().Companion.Name(); got != "Guide" {
		t.Fatalf("初始导游 = %q, 期望 Guide", got)
	}

	pressKeys(s, KeyReloadConfig)
	s.Update(1.0 / 60.0)

	if got := s.Controller().State().Companion.Name(); got != "Ranger" {
		t.Errorf("重新加载后导游 = %q, 期望 Ranger", got)
	}
	if got := s.Controller().Config().ScrollSpeed; got != "fast" {
		t.Errorf("ScrollSpeed = %q, 期望 fast", got)
	}

	// 文件损坏时保持原配置
	if err := os.WriteFile(path, []byte("chattiness: chatty\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	s.Update(1.0 / 60.0)
	if got := s.Controller().Config().Chattiness; got == "chatty" {
		t.Error("无效配置不应生效")
	}
}

func TestSceneryScene_Draw(t *testing.T) {
	s, tracks := newTestSceneryScene(t, nil, "")
	tracks.track = &game.TrackInfo{Artist: "The Band", Track: "Song"}

	screen := ebiten.NewImage(640, 480)
	s.Draw(screen)

	st := s.Controller().State()
	if st.Artist != "The Band" || st.Track != "Song" {
		t.Errorf("State() = %q/%q, 期望当前曲目", st.Artist, st.Track)
	}
	if s.Controller().Phase() != systems.PhaseAnnouncing {
		t.Errorf("Phase() = %v, 期望 Announcing", s.Controller().Phase())
	}
}

func TestSceneryScene_ViewportAndStop(t *testing.T) {
	s, _ := newTestSceneryScene(t, nil, "")
	s.Draw(ebiten.NewImage(640, 480))

	// 相同尺寸不重新开始
	s.SetViewport(640, 480)
	if s.Controller().State().FirstFrame {
		t.Error("相同尺寸不应重新开始会话")
	}

	s.SetViewport(800, 600)
	if !s.Controller().State().FirstFrame {
		t.Error("尺寸变化后应重新开始会话")
	}

	s.Stop()
	if s.Controller().IsInitialized() {
		t.Error("Stop() 后控制器不应处于会话中")
	}
}
