package utils

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名称（Go 字体家族，随程序一起编译，无需外部文件）
const (
	FontGoMono    = "gomono"
	FontGoRegular = "goregular"
	FontGoBold    = "gobold"
)

var builtinFontData = map[string][]byte{
	FontGoMono:    gomono.TTF,
	FontGoRegular: goregular.TTF,
	FontGoBold:    gobold.TTF,
}

var (
	builtinSourcesMu sync.Mutex
	builtinSources   = map[string]*text.GoTextFaceSource{}
)

// IsBuiltinFont 判断名称是否为内置字体（大小写不敏感）
func IsBuiltinFont(name string) bool {
	_, ok := builtinFontData[strings.ToLower(name)]
	return ok
}

// BuiltinFontSource 返回内置字体的字体源（解析结果会被缓存）
//
// 参数:
//   - name: 内置字体名称（gomono / goregular / gobold）
//
// 返回:
//   - *text.GoTextFaceSource: 字体源
//   - error: 名称未知或解析失败时返回错误
func BuiltinFontSource(name string) (*text.GoTextFaceSource, error) {
	key := strings.ToLower(name)
	data, ok := builtinFontData[key]
	if !ok {
		return nil, fmt.Errorf("unknown builtin font %q", name)
	}

	builtinSourcesMu.Lock()
	defer builtinSourcesMu.Unlock()

	if src, ok := builtinSources[key]; ok {
		return src, nil
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", name, err)
	}
	builtinSources[key] = src
	return src, nil
}

// NewBuiltinFace 创建指定内置字体和字号的字体
func NewBuiltinFace(name string, size float64) (*text.GoTextFace, error) {
	src, err := BuiltinFontSource(name)
	if err != nil {
		return nil, err
	}
	return &text.GoTextFace{
		Source:    src,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}, nil
}
