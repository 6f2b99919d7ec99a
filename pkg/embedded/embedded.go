// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包把 assets/ 和 data/ 两棵树合并成一个 fs.FS，
// 内置导游、背景和默认配置都通过它读取。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

var (
	assetsFS    fs.FS
	dataFS      fs.FS
	initialized bool
)

// ErrNotInitialized 在 Init 之前访问资源
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Init 初始化资源文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(assets, data fs.FS) {
	assetsFS = assets
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符为正斜杠并移除 "./" 前缀
func normalize(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}

// route 根据路径前缀选择文件系统
// 路径必须以 "assets/" 或 "data/" 开头
func route(path string) (fs.FS, string, error) {
	if !initialized {
		return nil, "", ErrNotInitialized
	}
	path = normalize(path)
	switch {
	case path == "assets" || strings.HasPrefix(path, "assets/"):
		return assetsFS, path, nil
	case path == "data" || strings.HasPrefix(path, "data/"):
		return dataFS, path, nil
	}
	return nil, "", fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/' or 'data/')", path)
}

// resourceFS 把 assets/ 和 data/ 合并成一个 fs.FS
type resourceFS struct{}

// FS 返回合并后的资源文件系统
// 交给 game.NewResourceManager 即可按 "assets/..." 路径加载内置资源
func FS() fs.FS {
	return resourceFS{}
}

func (resourceFS) Open(name string) (fs.File, error) {
	return Open(name)
}

func (resourceFS) ReadFile(name string) ([]byte, error) {
	return ReadFile(name)
}

func (resourceFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return ReadDir(name)
}

// Open 打开嵌入的文件
func Open(path string) (fs.File, error) {
	fsys, path, err := route(path)
	if err != nil {
		return nil, err
	}
	return fsys.Open(path)
}

// ReadFile 读取嵌入的文件内容
func ReadFile(path string) ([]byte, error) {
	fsys, path, err := route(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, path)
}

// ReadDir 读取嵌入的目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	fsys, path, err := route(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(fsys, path)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}
