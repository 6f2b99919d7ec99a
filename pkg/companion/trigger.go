// Package companion 定义导游（Companion）、触发器（Trigger）和场景（Scene）数据模型，
// 以及根据当前 (艺术家, 曲目, 场景标签) 挑选台词的对话选择逻辑。
//
// 所有类型在构造后不可变，可在整个展示会话中只读共享。
package companion

import "strings"

// Trigger 触发器：把 (艺术家, 曲目, 场景标签) 匹配到一组候选台词
//
// 规则：
//   - 艺术家、曲目、标签至少指定一项
//   - 指定多项时必须全部匹配
//   - 标签以小写存储
type Trigger struct {
	artist    string
	track     string
	tags      []string
	responses []string
}

// NewTrigger 创建触发器
//
// 参数：
//   - artist: 艺术家名（空白表示不限）
//   - track: 曲目名（空白表示不限）
//   - tags: 场景标签（全部需要出现在场景中）
//   - responses: 候选台词，空白项会被丢弃
//
// 返回：
//   - ErrNoTriggerFields: 三项都未指定
//   - ErrNoResponses: 没有非空台词
func NewTrigger(artist, track string, tags, responses []string) (Trigger, error) {
	t := Trigger{
		artist: strings.TrimSpace(artist),
		track:  strings.TrimSpace(track),
		tags:   normalizeTags(tags),
	}

	if t.artist == "" && t.track == "" && len(t.tags) == 0 {
		return Trigger{}, ErrNoTriggerFields
	}

	for _, r := range responses {
		if strings.TrimSpace(r) != "" {
			t.responses = append(t.responses, r)
		}
	}
	if len(t.responses) == 0 {
		return Trigger{}, ErrNoResponses
	}

	return t, nil
}

// normalizeTags 转小写并去掉空白标签
func normalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// Artist 艺术家条件（空字符串表示不限）
func (t Trigger) Artist() string { return t.artist }

// Track 曲目条件（空字符串表示不限）
func (t Trigger) Track() string { return t.track }

// HasArtist 是否指定了艺术家
func (t Trigger) HasArtist() bool { return t.artist != "" }

// HasTrack 是否指定了曲目
func (t Trigger) HasTrack() bool { return t.track != "" }

// HasTags 是否指定了场景标签
func (t Trigger) HasTags() bool { return len(t.tags) > 0 }

// Tags 场景标签条件（副本）
func (t Trigger) Tags() []string { return append([]string(nil), t.tags...) }

// Responses 候选台词（副本）
func (t Trigger) Responses() []string { return append([]string(nil), t.responses...) }
