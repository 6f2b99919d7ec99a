package game

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/decker502/scenery/pkg/utils"
	"gopkg.in/yaml.v3"
)

// TrackInfo 当前播放曲目的元数据
// 宿主每帧把它交给展示控制器；nil 表示"没有在播放"
type TrackInfo struct {
	Artist string
	Track  string
	Album  string
}

// SameTrack 判断两个曲目是否相同（艺术家和曲名都大小写不敏感地相等）
func (t *TrackInfo) SameTrack(artist, track string) bool {
	return strings.EqualFold(t.Artist, artist) && strings.EqualFold(t.Track, track)
}

// PlaylistEntry 播放列表中的一首曲目
type PlaylistEntry struct {
	Artist   string        `yaml:"artist"`
	Title    string        `yaml:"title"`
	Album    string        `yaml:"album"`
	Duration time.Duration `yaml:"duration"` // 如 "3m20s"
}

// Playlist 演示播放列表
//
// 配置文件位置: data/playlist.yaml
//
//	tracks:
//	  - artist: The Band
//	    title: Song
//	    album: Album
//	    duration: 3m20s
type Playlist struct {
	Tracks []PlaylistEntry `yaml:"tracks"`
}

// ParsePlaylist 解析 YAML 播放列表
// 时长缺省或非正数的曲目被视为 DefaultTrackDuration
func ParsePlaylist(data []byte) (*Playlist, error) {
	var p Playlist
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse playlist: %w", err)
	}
	if len(p.Tracks) == 0 {
		return nil, fmt.Errorf("playlist has no tracks")
	}
	for i := range p.Tracks {
		if p.Tracks[i].Duration <= 0 {
			p.Tracks[i].Duration = DefaultTrackDuration
		}
	}
	return &p, nil
}

// LoadPlaylist 从文件加载播放列表
func LoadPlaylist(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	return ParsePlaylist(data)
}

// DefaultTrackDuration 没有指定时长的曲目的播放时长
const DefaultTrackDuration = 3 * time.Minute

// PlaylistSource 按时钟"播放"一个播放列表的演示曲目源
//
// 它代替真正的播放引擎：曲目按时长依次切换，循环播放。
// 暂停时 Current 返回 nil，播放位置不前进。
type PlaylistSource struct {
	playlist *Playlist
	clock    utils.Clock

	index   int
	elapsed time.Duration // 当前曲目已播放时长（不含本次播放段）
	resumed time.Time     // 本次播放段的开始时间
	playing bool
}

// NewPlaylistSource 创建曲目源并从第一首开始播放
func NewPlaylistSource(playlist *Playlist, clock utils.Clock) *PlaylistSource {
	clock = utils.OrSystem(clock)
	return &PlaylistSource{
		playlist: playlist,
		clock:    clock,
		resumed:  clock.Now(),
		playing:  true,
	}
}

// position 当前曲目的播放位置
func (s *PlaylistSource) position() time.Duration {
	if !s.playing {
		return s.elapsed
	}
	return s.elapsed + s.clock.Now().Sub(s.resumed)
}

// advance 跳过已经播放完的曲目
func (s *PlaylistSource) advance() {
	if !s.playing || s.playlist == nil || len(s.playlist.Tracks) == 0 {
		return
	}
	pos := s.position()
	for pos >= s.playlist.Tracks[s.index].Duration {
		pos -= s.playlist.Tracks[s.index].Duration
		s.index = (s.index + 1) % len(s.playlist.Tracks)
	}
	s.elapsed = pos
	s.resumed = s.clock.Now()
}

// Current 返回当前曲目；暂停或播放列表为空时返回 nil
func (s *PlaylistSource) Current() *TrackInfo {
	if !s.playing || s.playlist == nil || len(s.playlist.Tracks) == 0 {
		return nil
	}
	s.advance()
	e := s.playlist.Tracks[s.index]
	return &TrackInfo{Artist: e.Artist, Track: e.Title, Album: e.Album}
}

// Skip 立即切换到下一首
func (s *PlaylistSource) Skip() {
	if s.playlist == nil || len(s.playlist.Tracks) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.playlist.Tracks)
	s.elapsed = 0
	s.resumed = s.clock.Now()
	e := s.playlist.Tracks[s.index]
	log.Printf("[PlaylistSource] Skipped to %q by %q", e.Title, e.Artist)
}

// TogglePlaying 暂停或继续播放
// 返回切换后是否在播放
func (s *PlaylistSource) TogglePlaying() bool {
	if s.playing {
		s.advance()
		s.elapsed = s.position()
		s.playing = false
	} else {
		s.resumed = s.clock.Now()
		s.playing = true
	}
	log.Printf("[PlaylistSource] Playing: %v", s.playing)
	return s.playing
}

// IsPlaying 是否在播放
func (s *PlaylistSource) IsPlaying() bool {
	return s.playing
}

// Index 当前曲目在播放列表中的下标
func (s *PlaylistSource) Index() int {
	return s.index
}
