package game

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log"
	"math/rand"
	"path"
	"runtime"
	"strings"

	"github.com/decker502/scenery/pkg/companion"
	"github.com/decker502/scenery/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

// decodedCompanion 一个定义文件在工作 goroutine 中解码的结果
type decodedCompanion struct {
	file       string
	def        *CompanionDefinition
	imagePaths []string
	images     []image.Image
	err        error
}

// CompanionLoader 导游加载器
//
// 启动时一次性加载内置导游和用户目录中的所有导游定义。
// 解析失败的定义被记录日志并跳过，不影响其他导游。
type CompanionLoader struct {
	builtIns   []*companion.Companion
	companions []*companion.Companion
}

// NewCompanionLoader 创建导游加载器
//
// 参数:
//   - ctx: 取消加载
//   - builtIn: 内置资源（必须提供至少一个有效导游）
//   - builtInDir: 内置导游定义目录（如 "assets/companions"）
//   - custom: 用户资源，可以为 nil
//   - customDir: 用户导游定义目录
//
// 返回:
//   - error: 没有任何可用的内置导游时返回错误（宿主应视为致命错误）
func NewCompanionLoader(ctx context.Context, builtIn *ResourceManager, builtInDir string, custom *ResourceManager, customDir string) (*CompanionLoader, error) {
	builtIns, err := LoadCompanionDir(ctx, builtIn, builtInDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in companions: %w", err)
	}
	if len(builtIns) == 0 {
		return nil, fmt.Errorf("no built-in companions found in %s", builtInDir)
	}

	all := append([]*companion.Companion(nil), builtIns...)
	if custom != nil {
		customs, err := LoadCompanionDir(ctx, custom, customDir)
		if err != nil {
			log.Printf("[CompanionLoader] Warning: custom companion directory %s not usable: %v", customDir, err)
		}
		all = append(all, customs...)
	}

	log.Printf("[CompanionLoader] Found %d companions (%d built-in)", len(all), len(builtIns))
	return &CompanionLoader{builtIns: builtIns, companions: all}, nil
}

// LoadCompanionDir 加载目录中所有导游定义
//
// 定义文件和立绘在工作 goroutine 中并发读取和缩放；
// ebiten 图像在调用方 goroutine 中创建。
//
// 返回:
//   - []*companion.Companion: 成功加载的导游（按文件名排序）
//   - error: 目录无法读取或 ctx 被取消时返回错误；单个定义失败只记录日志
func LoadCompanionDir(ctx context.Context, rm *ResourceManager, dir string) ([]*companion.Companion, error) {
	files, err := FindDefinitionFiles(rm.FS(), dir)
	if err != nil {
		return nil, err
	}

	results := make([]decodedCompanion, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = decodeCompanion(rm.FS(), file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("companion loading cancelled: %w", err)
	}

	var companions []*companion.Companion
	for _, res := range results {
		if res.err != nil {
			log.Printf("[CompanionLoader] Error: can't load %s: %v", res.file, res.err)
			continue
		}

		images := make([]*ebiten.Image, len(res.images))
		for i, img := range res.images {
			images[i] = rm.CacheImage(res.imagePaths[i], config.CompanionImageMaxDim, img)
		}

		c, err := res.def.Build(images)
		if err != nil {
			log.Printf("[CompanionLoader] Error: can't load %s: %v", res.file, err)
			continue
		}
		companions = append(companions, c)
	}
	return companions, nil
}

// decodeCompanion 读取并解析一个定义文件及其立绘（不接触 ebiten）
func decodeCompanion(fsys fs.FS, file string) decodedCompanion {
	res := decodedCompanion{file: file}

	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		res.err = fmt.Errorf("failed to read definition: %w", err)
		return res
	}
	res.def, err = ParseCompanionDefinition(data)
	if err != nil {
		res.err = err
		return res
	}

	res.imagePaths, err = FindImageFiles(fsys, path.Dir(file), baseName(file))
	if err != nil {
		res.err = err
		return res
	}
	if len(res.imagePaths) == 0 {
		res.err = fmt.Errorf("no image files (jpg/png) found starting with %q: %w", baseName(file), companion.ErrNoImages)
		return res
	}

	for _, p := range res.imagePaths {
		img, err := DecodeImage(fsys, p, config.CompanionImageMaxDim)
		if err != nil {
			res.err = err
			return res
		}
		res.images = append(res.images, img)
	}
	return res
}

// All 返回所有导游（内置在前）
func (l *CompanionLoader) All() []*companion.Companion {
	return append([]*companion.Companion(nil), l.companions...)
}

// BuiltIns 返回内置导游
func (l *CompanionLoader) BuiltIns() []*companion.Companion {
	return append([]*companion.Companion(nil), l.builtIns...)
}

// ByName 按名称查找导游（大小写不敏感），找不到返回 nil
func (l *CompanionLoader) ByName(name string) *companion.Companion {
	name = strings.TrimSpace(name)
	for _, c := range l.companions {
		if strings.EqualFold(c.Name(), name) {
			return c
		}
	}
	return nil
}

// Random 随机选一个导游（rng 为 nil 时使用全局随机源）
func (l *CompanionLoader) Random(rng *rand.Rand) *companion.Companion {
	if len(l.companions) == 0 {
		return nil
	}
	return l.companions[randIntn(rng, len(l.companions))]
}
