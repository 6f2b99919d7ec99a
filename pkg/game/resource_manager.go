package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/decker502/scenery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// ResourceManager is responsible for centralized management of presentation resources.
// It decodes images from a single file system (the embedded assets, or a user
// directory opened with os.DirFS) and caches them so each file is decoded once.
//
// The ResourceManager implements the following key features:
// - Image loading and caching (PNG and JPEG)
// - Load-time down-scaling of companion portraits (golang.org/x/image/draw)
// - Font loading: built-in Go fonts by name, or TTF/OTF files by path
//
// Thread Safety Note:
// The caches are guarded by a mutex, but ebiten images should still be created
// from the goroutine that owns the game loop. Loaders decode raw images on worker
// goroutines with DecodeImage and convert them with CacheImage afterwards.
//
// Usage:
//
//	rm := NewResourceManager(embedded.FS())
//	raw, err := DecodeImage(rm.FS(), "assets/scenery/forest1.png", 0)
//	if err != nil {
//	    log.Printf("Failed to load image: %v", err)
//	}
//	img := rm.CacheImage("assets/scenery/forest1.png", 0, raw)
type ResourceManager struct {
	fsys fs.FS

	mu            sync.Mutex
	imageCache    map[string]*ebiten.Image    // Cache for loaded images: path -> Image
	fontFaceCache map[string]*text.GoTextFace // Cache for font faces: "name:size" -> face
}

// NewResourceManager creates a ResourceManager reading from fsys.
//
// Parameters:
//   - fsys: The file system images are read from. A nil fsys means the process working directory.
func NewResourceManager(fsys fs.FS) *ResourceManager {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	return &ResourceManager{
		fsys:          fsys,
		imageCache:    make(map[string]*ebiten.Image),
		fontFaceCache: make(map[string]*text.GoTextFace),
	}
}

// FS returns the file system this manager reads from.
func (rm *ResourceManager) FS() fs.FS {
	return rm.fsys
}

// DecodeImage reads and decodes an image file without touching ebiten.
// It is safe to call from any goroutine.
//
// Parameters:
//   - fsys: The file system to read from.
//   - name: Slash-separated path inside fsys.
//   - maxDim: If positive, the image is scaled down so neither side exceeds maxDim.
//
// Returns:
//   - The decoded image.
//   - An error if the file cannot be read or decoded.
func DecodeImage(fsys fs.FS, name string, maxDim int) (image.Image, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", name, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}

	if maxDim > 0 {
		img = utils.ScaleToFit(img, maxDim)
	}
	return img, nil
}

// CacheImage converts an already decoded image and stores it under name.
// Loaders use this after decoding concurrently with DecodeImage.
func (rm *ResourceManager) CacheImage(name string, maxDim int, img image.Image) *ebiten.Image {
	key := fmt.Sprintf("%s@%d", name, maxDim)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if cached, exists := rm.imageCache[key]; exists {
		return cached
	}
	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[key] = ebitenImg
	return ebitenImg
}

// LoadFont loads a font face and caches it for future use.
//
// Parameters:
//   - name: A built-in font name ("gomono", "goregular", "gobold") or a path to a TTF/OTF file
//     on the operating system's file system.
//   - size: The font size in points.
//
// Returns:
//   - A pointer to the text.GoTextFace ready for rendering.
//   - An error if the font cannot be found or parsed.
func (rm *ResourceManager) LoadFont(name string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", strings.ToLower(name), size)

	rm.mu.Lock()
	cachedFace, exists := rm.fontFaceCache[cacheKey]
	rm.mu.Unlock()
	if exists {
		return cachedFace, nil
	}

	var face *text.GoTextFace
	if utils.IsBuiltinFont(name) {
		f, err := utils.NewBuiltinFace(name, size)
		if err != nil {
			return nil, err
		}
		face = f
	} else {
		fontData, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", name, err)
		}
		source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", name, err)
		}
		face = &text.GoTextFace{
			Source:    source,
			Size:      size,
			Direction: text.DirectionLeftToRight,
		}
	}

	rm.mu.Lock()
	rm.fontFaceCache[cacheKey] = face
	rm.mu.Unlock()

	return face, nil
}

// FontFace adapts LoadFont to the text.Face interface expected by the presentation.
func (rm *ResourceManager) FontFace(name string, size float64) (text.Face, error) {
	face, err := rm.LoadFont(name, size)
	if err != nil {
		return nil, err
	}
	return face, nil
}

// imageExtensions lists the extensions recognised as definition images.
var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// isImageFile reports whether name has a supported image extension (case-insensitive).
func isImageFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// baseName returns the file name without directory and extension.
func baseName(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// FindImageFiles returns, in lexical order, the image files in dir whose base name
// starts with prefix. "forest.yaml" therefore owns "forest.png", "forest1.jpg", "forest-night.png".
func FindImageFiles(fsys fs.FS, dir, prefix string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		if strings.HasPrefix(baseName(entry.Name()), prefix) {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// FindDefinitionFiles returns the definition files (.yaml, .yml, .json) directly inside dir.
func FindDefinitionFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
