//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把项目根目录的 assets/companions、assets/scenery
// 和 data/ 复制到此目录：
//
//	mkdir -p mobile/assets mobile/data
//	cp -r assets/companions assets/scenery mobile/assets/
//	cp data/presentation.yaml data/playlist.yaml mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed assets/companions assets/scenery
var assetsFS embed.FS

//go:embed data/presentation.yaml data/playlist.yaml
var dataFS embed.FS
