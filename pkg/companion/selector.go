package companion

import (
	"math/rand"
	"strings"
)

// ChatterPolicy 闲聊混入策略
type ChatterPolicy struct {
	// Mix 触发器命中时是否仍可能混入闲聊
	Mix bool
	// Chattiness 混入概率（0..100）
	Chattiness int
}

// Matches 判断触发器是否匹配
//
// 触发器指定的每一项都必须匹配：
//   - 艺术家、曲目：大小写不敏感的相等比较
//   - 标签：触发器的所有标签都必须出现在输入标签中（输入标签同样按小写比较）
//
// 未指定任何条件的触发器匹配一切输入。
func Matches(t Trigger, artist, track string, sceneTags []string) bool {
	if t.artist != "" && !strings.EqualFold(t.artist, artist) {
		return false
	}
	if t.track != "" && !strings.EqualFold(t.track, track) {
		return false
	}
	if len(t.tags) == 0 {
		return true
	}
	if sceneTags == nil {
		return false
	}

	input := make(map[string]struct{}, len(sceneTags))
	for _, tag := range sceneTags {
		input[strings.ToLower(tag)] = struct{}{}
	}
	for _, tag := range t.tags {
		if _, ok := input[tag]; !ok {
			return false
		}
	}
	return true
}

// CollectResponses 收集所有匹配触发器的台词（按触发器顺序）
func CollectResponses(c *Companion, artist, track string, sceneTags []string) []string {
	if c == nil {
		return nil
	}
	var responses []string
	for _, t := range c.triggers {
		if Matches(t, artist, track, sceneTags) {
			responses = append(responses, t.responses...)
		}
	}
	return responses
}

// Candidates 返回本次发言的候选台词
//
// 没有匹配的台词时总是加入闲聊；有匹配且 policy.Mix 为 true 时，
// 掷一次 0..100 的骰子，点数不超过 Chattiness 才加入闲聊。
func Candidates(rng *rand.Rand, c *Companion, artist, track string, sceneTags []string, policy ChatterPolicy) []string {
	if c == nil {
		return nil
	}

	responses := CollectResponses(c, artist, track, sceneTags)
	if len(responses) == 0 {
		return append(responses, c.idleChatter...)
	}

	if policy.Mix {
		roll := intn(rng, 101)
		if policy.Chattiness >= roll {
			responses = append(responses, c.idleChatter...)
		}
	}
	return responses
}

// SelectResponse 从候选台词中均匀随机选一条
//
// 返回 false 表示导游无话可说（调用方应跳过本次发言）。
func SelectResponse(rng *rand.Rand, c *Companion, artist, track string, sceneTags []string, policy ChatterPolicy) (string, bool) {
	return pick(rng, Candidates(rng, c, artist, track, sceneTags, policy))
}
