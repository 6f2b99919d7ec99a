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
	"sync"

	"github.com/decker502/scenery/pkg/companion"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

// sceneryEntry 一个用户背景定义
// 标签和图像路径在扫描时确定；图像在第一次被选中（或 Preload）时解码
type sceneryEntry struct {
	file       string
	tags       []string
	imagePaths []string
	decoded    []image.Image
	scene      *companion.Scene
}

// ready 图像已经解码（或已经转成场景）
func (e *sceneryEntry) ready() bool {
	return e.decoded != nil || e.scene != nil
}

func (e *sceneryEntry) hasAnyTag(tags []string) bool {
	for _, want := range tags {
		want = strings.ToLower(strings.TrimSpace(want))
		for _, t := range e.tags {
			if t == want {
				return true
			}
		}
	}
	return false
}

// SceneryLoader 背景加载器
//
// 内置背景在创建时全部加载，保证总有背景可用；
// 用户背景只扫描定义文件，图像延迟加载。加载失败的用户背景
// 会被移出候选列表，然后重新挑选。
// Preload 进行期间，尚未解码的用户背景不参与挑选，帧循环不会读文件。
type SceneryLoader struct {
	mu         sync.Mutex
	custom     *ResourceManager
	entries    []*sceneryEntry
	builtIns   []*companion.Scene
	preloading bool
}

// NewSceneryLoader 创建背景加载器
//
// 参数:
//   - ctx: 取消加载
//   - builtIn: 内置资源（必须提供至少一个有效背景）
//   - builtInDir: 内置背景定义目录（如 "assets/scenery"）
//   - custom: 用户资源，可以为 nil
//   - customDir: 用户背景定义目录
func NewSceneryLoader(ctx context.Context, builtIn *ResourceManager, builtInDir string, custom *ResourceManager, customDir string) (*SceneryLoader, error) {
	builtIns, err := loadBuiltInScenery(ctx, builtIn, builtInDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in scenery: %w", err)
	}
	if len(builtIns) == 0 {
		return nil, fmt.Errorf("no built-in scenery found in %s", builtInDir)
	}

	l := &SceneryLoader{custom: custom, builtIns: builtIns}
	if custom != nil {
		entries, err := scanSceneryDir(custom.FS(), customDir)
		if err != nil {
			log.Printf("[SceneryLoader] Warning: custom scenery directory %s not usable: %v", customDir, err)
		}
		l.entries = entries
	}

	log.Printf("[SceneryLoader] Found %d scenery definitions (%d built-in)", len(l.entries)+len(builtIns), len(builtIns))
	return l, nil
}

// scanSceneryDir 扫描目录中的背景定义，只解析标签和图像路径
// 无效的定义（没有标签、没有图像）在这里就被丢弃
func scanSceneryDir(fsys fs.FS, dir string) ([]*sceneryEntry, error) {
	files, err := FindDefinitionFiles(fsys, dir)
	if err != nil {
		return nil, err
	}

	var entries []*sceneryEntry
	for _, file := range files {
		entry, err := scanSceneryFile(fsys, file)
		if err != nil {
			log.Printf("[SceneryLoader] Error: can't load %s: %v", file, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func scanSceneryFile(fsys fs.FS, file string) (*sceneryEntry, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err := ParseSceneryDefinition(data)
	if err != nil {
		return nil, err
	}

	imagePaths, err := FindImageFiles(fsys, path.Dir(file), baseName(file))
	if err != nil {
		return nil, err
	}
	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("no image files (jpg/png) found starting with %q: %w", baseName(file), companion.ErrNoImages)
	}

	var tags []string
	for _, t := range def.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	return &sceneryEntry{file: file, tags: tags, imagePaths: imagePaths}, nil
}

// decodeEntry 解码背景的所有图像变体（不接触 ebiten，可并发调用）
func decodeEntry(fsys fs.FS, e *sceneryEntry) ([]image.Image, error) {
	images := make([]image.Image, 0, len(e.imagePaths))
	for _, p := range e.imagePaths {
		img, err := DecodeImage(fsys, p, 0)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// decodeEntries 并发解码 entries，返回每个 entry 的错误（与 entries 一一对应）
func decodeEntries(ctx context.Context, fsys fs.FS, entries []*sceneryEntry) ([][]image.Image, []error, error) {
	decoded := make([][]image.Image, len(entries))
	errs := make([]error, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decoded[i], errs[i] = decodeEntry(fsys, e)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("scenery loading cancelled: %w", err)
	}
	return decoded, errs, nil
}

// buildScene 在调用方 goroutine 中把解码结果转成场景
func buildScene(rm *ResourceManager, e *sceneryEntry, decoded []image.Image) (*companion.Scene, error) {
	variants := make([]*ebiten.Image, len(decoded))
	for i, img := range decoded {
		variants[i] = rm.CacheImage(e.imagePaths[i], 0, img)
	}
	return companion.NewScene(baseName(e.file), e.tags, variants)
}

func loadBuiltInScenery(ctx context.Context, rm *ResourceManager, dir string) ([]*companion.Scene, error) {
	entries, err := scanSceneryDir(rm.FS(), dir)
	if err != nil {
		return nil, err
	}
	decoded, errs, err := decodeEntries(ctx, rm.FS(), entries)
	if err != nil {
		return nil, err
	}

	var scenes []*companion.Scene
	for i, e := range entries {
		if errs[i] != nil {
			log.Printf("[SceneryLoader] Error: can't load built-in %s: %v", e.file, errs[i])
			continue
		}
		s, err := buildScene(rm, e, decoded[i])
		if err != nil {
			log.Printf("[SceneryLoader] Error: can't load built-in %s: %v", e.file, err)
			continue
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

// Preload 并发解码所有用户背景
// 失败的背景会被移出候选列表；之后的 RandomScene 不再需要读文件
func (l *SceneryLoader) Preload(ctx context.Context) error {
	l.mu.Lock()
	pending := make([]*sceneryEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if !e.ready() {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		l.mu.Unlock()
		return nil
	}
	l.preloading = true
	l.mu.Unlock()

	decoded, errs, err := decodeEntries(ctx, l.custom.FS(), pending)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.preloading = false
	if err != nil {
		return err
	}

	for i, e := range pending {
		// 解码期间可能已被 RandomScene 加载或移除
		if e.scene != nil || !l.containsLocked(e) {
			continue
		}
		if errs[i] != nil {
			log.Printf("[SceneryLoader] Error: can't load %s: %v", e.file, errs[i])
			l.removeLocked(e)
			continue
		}
		e.decoded = decoded[i]
	}
	log.Printf("[SceneryLoader] Preloaded %d custom scenery definitions", len(l.entries))
	return nil
}

// RandomScene 随机挑选一个背景
//
// preferredTags 非空时只在带有任一偏好标签的背景中挑选；
// 没有符合条件的背景时退回到不过滤的挑选。
// 内置背景总是可用，所以返回值不会为 nil。
func (l *SceneryLoader) RandomScene(rng *rand.Rand, preferredTags []string) *companion.Scene {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		customs, builtIns := l.candidatesLocked(preferredTags)
		total := len(customs) + len(builtIns)
		index := randIntn(rng, total)

		if index >= len(customs) {
			return builtIns[index-len(customs)]
		}

		e := customs[index]
		scene, err := l.loadLocked(e)
		if err != nil {
			log.Printf("[SceneryLoader] Error: can't load %s, removing it from contention: %v", e.file, err)
			l.removeLocked(e)
			continue
		}
		return scene
	}
}

// candidatesLocked 返回满足偏好标签的候选；都不满足时返回全部
func (l *SceneryLoader) candidatesLocked(preferredTags []string) ([]*sceneryEntry, []*companion.Scene) {
	entries := l.availableLocked()
	if len(preferredTags) == 0 {
		return entries, l.builtIns
	}

	var customs []*sceneryEntry
	for _, e := range entries {
		if e.hasAnyTag(preferredTags) {
			customs = append(customs, e)
		}
	}
	var builtIns []*companion.Scene
	for _, s := range l.builtIns {
		if s.HasAnyTag(preferredTags) {
			builtIns = append(builtIns, s)
		}
	}

	if len(customs)+len(builtIns) == 0 {
		return entries, l.builtIns
	}
	return customs, builtIns
}

// availableLocked 返回可以挑选的用户背景
// Preload 期间只返回已经解码过的
func (l *SceneryLoader) availableLocked() []*sceneryEntry {
	if !l.preloading {
		return l.entries
	}
	ready := make([]*sceneryEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.ready() {
			ready = append(ready, e)
		}
	}
	return ready
}

func (l *SceneryLoader) loadLocked(e *sceneryEntry) (*companion.Scene, error) {
	if e.scene != nil {
		return e.scene, nil
	}
	if e.decoded == nil {
		decoded, err := decodeEntry(l.custom.FS(), e)
		if err != nil {
			return nil, err
		}
		e.decoded = decoded
	}

	scene, err := buildScene(l.custom, e, e.decoded)
	if err != nil {
		return nil, err
	}
	e.scene = scene
	e.decoded = nil
	return scene, nil
}

func (l *SceneryLoader) containsLocked(target *sceneryEntry) bool {
	for _, e := range l.entries {
		if e == target {
			return true
		}
	}
	return false
}

func (l *SceneryLoader) removeLocked(target *sceneryEntry) {
	for i, e := range l.entries {
		if e == target {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// CustomCount 当前仍在候选列表中的用户背景数量
func (l *SceneryLoader) CustomCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// BuiltIns 返回内置背景
func (l *SceneryLoader) BuiltIns() []*companion.Scene {
	return append([]*companion.Scene(nil), l.builtIns...)
}

// randIntn 返回 [0, n) 的随机数（rng 为 nil 时使用全局随机源）
func randIntn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
