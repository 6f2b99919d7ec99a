package companion

import (
	"math/rand"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 背景场景：一组描述性标签 + 一张或多张图像变体
// 构造后不可变
type Scene struct {
	name     string
	tags     []string
	variants []*ebiten.Image
}

// NewScene 创建场景
//
// 返回：
//   - ErrNoImages: 没有图像
//   - ErrNoTags: 没有非空标签
func NewScene(name string, tags []string, variants []*ebiten.Image) (*Scene, error) {
	if len(variants) == 0 {
		return nil, ErrNoImages
	}
	normalized := normalizeTags(tags)
	if len(normalized) == 0 {
		return nil, ErrNoTags
	}
	return &Scene{
		name:     name,
		tags:     normalized,
		variants: append([]*ebiten.Image(nil), variants...),
	}, nil
}

// Name 场景名（通常是定义文件的基础名）
func (s *Scene) Name() string { return s.name }

// Tags 标签（小写，副本）
func (s *Scene) Tags() []string { return append([]string(nil), s.tags...) }

// Variants 图像变体（副本）
func (s *Scene) Variants() []*ebiten.Image { return append([]*ebiten.Image(nil), s.variants...) }

// HasTag 是否带有指定标签（大小写不敏感，空白标签返回 false）
func (s *Scene) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTag 是否带有任一指定标签
func (s *Scene) HasAnyTag(tags []string) bool {
	for _, tag := range tags {
		if s.HasTag(tag) {
			return true
		}
	}
	return false
}

// RandomVariant 随机选一张图像变体
func (s *Scene) RandomVariant(rng *rand.Rand) *ebiten.Image {
	img, _ := pick(rng, s.variants)
	return img
}
