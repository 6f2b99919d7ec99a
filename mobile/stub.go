//go:build !mobile

// 桌面构建只编译这个文件；ebitenmobile 入口 mobile.go 和 embed.go 需要 -tags mobile。

package mobile

// Dummy 让桌面构建下 ./... 仍能找到可编译的包
func Dummy() {}
