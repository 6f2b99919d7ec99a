package game

import (
	"testing"
	"time"

	"github.com/decker502/scenery/pkg/utils"
)

const testPlaylistYAML = `
tracks:
  - artist: A
    title: One
    album: First
    duration: 10s
  - artist: B
    title: Two
    duration: 20s
  - artist: C
    title: Three
`

func TestParsePlaylist(t *testing.T) {
	p, err := ParsePlaylist([]byte(testPlaylistYAML))
	if err != nil {
		t.Fatalf("ParsePlaylist() error = %v", err)
	}
	if len(p.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d, 期望 3", len(p.Tracks))
	}
	if p.Tracks[0].Duration != 10*time.Second {
		t.Errorf("Tracks[0].Duration = %v, 期望 10s", p.Tracks[0].Duration)
	}
	if p.Tracks[2].Duration != DefaultTrackDuration {
		t.Errorf("缺省时长 = %v, 期望 %v", p.Tracks[2].Duration, DefaultTrackDuration)
	}

	if _, err := ParsePlaylist([]byte("tracks: []")); err == nil {
		t.Error("空播放列表期望返回错误")
	}
	if _, err := LoadPlaylist("/nonexistent/playlist.yaml"); err == nil {
		t.Error("文件不存在时期望返回错误")
	}
}

// TestPlaylistSourceAdvance 曲目按时长依次切换并循环
func TestPlaylistSourceAdvance(t *testing.T) {
	p, _ := ParsePlaylist([]byte(testPlaylistYAML))
	clock := utils.NewManualClock()
	src := NewPlaylistSource(p, clock)

	tests := []struct {
		name      string
		advance   time.Duration
		wantTrack string
	}{
		{"开始", 0, "One"},
		{"第一首未结束", 9 * time.Second, "One"},
		{"切到第二首", 1 * time.Second, "Two"},
		{"一次跨过多首", 20*time.Second + DefaultTrackDuration, "One"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.Advance(tt.advance)
			cur := src.Current()
			if cur == nil || cur.Track != tt.wantTrack {
				t.Errorf("Current() = %+v, 期望 %s", cur, tt.wantTrack)
			}
		})
	}
}

func TestPlaylistSourceSkipAndPause(t *testing.T) {
	p, _ := ParsePlaylist([]byte(testPlaylistYAML))
	clock := utils.NewManualClock()
	src := NewPlaylistSource(p, clock)

	src.Skip()
	if cur := src.Current(); cur == nil || cur.Artist != "B" {
		t.Fatalf("Skip() 后 Current() = %+v, 期望 B", cur)
	}

	clock.Advance(15 * time.Second)
	if src.TogglePlaying() {
		t.Fatal("TogglePlaying() 应返回 false（已暂停）")
	}
	if src.Current() != nil {
		t.Error("暂停时 Current() 应返回 nil")
	}

	// 暂停期间位置不前进
	clock.Advance(time.Hour)
	if !src.TogglePlaying() {
		t.Fatal("TogglePlaying() 应返回 true（继续播放）")
	}
	if cur := src.Current(); cur == nil || cur.Track != "Two" {
		t.Errorf("继续播放后 Current() = %+v, 期望仍是 Two", cur)
	}

	clock.Advance(5 * time.Second)
	if cur := src.Current(); cur == nil || cur.Track != "Three" {
		t.Errorf("Current() = %+v, 期望 Three", cur)
	}
	if src.Index() != 2 || !src.IsPlaying() {
		t.Errorf("Index() = %d, IsPlaying() = %v", src.Index(), src.IsPlaying())
	}
}

func TestTrackInfoSameTrack(t *testing.T) {
	info := &TrackInfo{Artist: "The Band", Track: "Song"}
	tests := []struct {
		name   string
		artist string
		track  string
		want   bool
	}{
		{"完全相同", "The Band", "Song", true},
		{"大小写不同", "THE BAND", "song", true},
		{"艺术家不同", "Other", "Song", false},
		{"曲名不同", "The Band", "Other", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := info.SameTrack(tt.artist, tt.track); got != tt.want {
				t.Errorf("SameTrack() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}
